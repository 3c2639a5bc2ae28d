package analysis

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
)

// launchSpan is the sample offset used for the launch/impact speed
// windows (filtered index 0→5 and last−5→last).
const launchSpan = 5

// AnalyzerConfig holds the tunable parameters for full-shot analysis.
type AnalyzerConfig struct {
	SampleRate           float64 // Capture rate in samples/sec
	MinTrajectorySamples int     // Positioned samples required for analysis
	ArrowsToleranceFeet  float64 // Half-width of the arrows crossing window
	PocketBoard          float64 // Ideal pocket board for the bowler's handedness
}

// DefaultAnalyzerConfig returns analyzer configuration loaded from the
// canonical tuning defaults file (config/tuning.defaults.json).
// Panics if the file cannot be found — intended for tests and binaries
// that have already validated config availability.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfigFromTuning(config.MustLoadDefaultConfig())
}

// AnalyzerConfigFromTuning builds an AnalyzerConfig from a loaded
// TuningConfig. Use this in production code where the TuningConfig is
// already loaded.
func AnalyzerConfigFromTuning(cfg *config.TuningConfig) AnalyzerConfig {
	return AnalyzerConfig{
		SampleRate:           cfg.GetSampleRate(),
		MinTrajectorySamples: cfg.GetMinTrajectorySamples(),
		ArrowsToleranceFeet:  cfg.GetArrowsToleranceFeet(),
		PocketBoard:          cfg.GetPocketBoard(),
	}
}

// Metrics is the derived per-shot record. Computed once per shot and
// never mutated afterward; missing sub-results are reported as zero
// rather than as absent fields.
type Metrics struct {
	Sufficient bool `json:"sufficient"`

	LaunchSpeedMPH float64 `json:"launch_speed_mph"`
	ImpactSpeedMPH float64 `json:"impact_speed_mph"`

	FoulLineBoard float64 `json:"foul_line_board"`
	ArrowBoard    float64 `json:"arrow_board"`

	BreakpointFound        bool    `json:"breakpoint_found"`
	BreakpointBoard        float64 `json:"breakpoint_board"`
	BreakpointDistanceFeet float64 `json:"breakpoint_distance_feet"`

	EntryAngleDegrees float64 `json:"entry_angle_degrees"`

	PocketBoard        float64 `json:"pocket_board"`
	PocketOffsetBoards float64 `json:"pocket_offset_boards"`

	PositionedSamples int `json:"positioned_samples"`
}

// Analyzer orchestrates the speed, entry-angle, and breakpoint
// estimators into a full-shot metrics record.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer creates an analyzer with the specified configuration.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze produces the metrics record for a complete shot trajectory.
// With fewer than MinTrajectorySamples positioned samples it returns a
// zero record with Sufficient=false.
func (a *Analyzer) Analyze(samples []track.Sample) Metrics {
	positioned := track.FilterPositioned(samples)
	// The speed windows index launchSpan samples deep from each end,
	// so the floor holds even if the configured minimum is lower.
	minSamples := a.cfg.MinTrajectorySamples
	if minSamples < launchSpan+1 {
		minSamples = launchSpan + 1
	}
	if len(positioned) < minSamples {
		return Metrics{PositionedSamples: len(positioned)}
	}

	m := Metrics{
		Sufficient:        true,
		PositionedSamples: len(positioned),
	}

	m.FoulLineBoard = positioned[0].Lane.Board
	m.ArrowBoard = a.arrowBoard(positioned)

	m.LaunchSpeedMPH = speedBetween(positioned[0], positioned[launchSpan], a.cfg.SampleRate)
	last := len(positioned) - 1
	m.ImpactSpeedMPH = speedBetween(positioned[last-launchSpan], positioned[last], a.cfg.SampleRate)

	// Breakpoint and entry angle run over the unfiltered trajectory;
	// both do their own positioned filtering.
	bp := FindBreakpoint(samples)
	m.BreakpointFound = bp.Found
	m.BreakpointBoard = bp.Board
	m.BreakpointDistanceFeet = bp.DistanceFeet

	m.EntryAngleDegrees = EntryAngleDegrees(samples)

	m.PocketBoard = positioned[last].Lane.Board
	m.PocketOffsetBoards = m.PocketBoard - a.cfg.PocketBoard

	return m
}

// arrowBoard returns the board of the first sample crossing the arrows
// line, or 0 if the trajectory never registered inside the window.
func (a *Analyzer) arrowBoard(positioned []track.PositionedSample) float64 {
	for _, p := range positioned {
		if math.Abs(p.Lane.DistanceFeet-units.ArrowsDistanceFeet) <= a.cfg.ArrowsToleranceFeet {
			return p.Lane.Board
		}
	}
	return 0
}
