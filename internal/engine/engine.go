// Package engine owns the live state of a single shot in progress. One
// ShotTracker per shot (or per lane); trackers share nothing, so
// multi-lane capture runs them side by side without coordination.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lanetrax/shotmetrics/internal/analysis"
	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/revrate"
	"github.com/lanetrax/shotmetrics/internal/strike"
	"github.com/lanetrax/shotmetrics/internal/track"
)

// Config aggregates the per-component tunables for one tracker.
type Config struct {
	BufferCapacity int
	Analyzer       analysis.AnalyzerConfig
	RevRate        revrate.Config
	Strike         strike.Config
}

// ConfigFromTuning builds the full engine configuration from a loaded
// TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		BufferCapacity: cfg.GetBufferCapacity(),
		Analyzer:       analysis.AnalyzerConfigFromTuning(cfg),
		RevRate:        revrate.ConfigFromTuning(cfg),
		Strike:         strike.ConfigFromTuning(cfg),
	}
}

// ShotResult is the complete derived record for one finished shot.
type ShotResult struct {
	ShotID string `json:"shot_id"`

	Trajectory analysis.Metrics  `json:"trajectory"`
	RevRate    revrate.Result    `json:"rev_rate"`
	Strike     strike.Assessment `json:"strike"`
}

// ShotTracker accumulates one shot's samples and produces its
// ShotResult. Not safe for concurrent use; the detector callback is
// the single producer and analysis runs after the shot ends.
type ShotTracker struct {
	shotID string

	buffer     *track.TrajectoryBuffer
	visibility *track.VisibilityLog

	analyzer  *analysis.Analyzer
	estimator *revrate.Estimator
	model     *strike.Model
}

// NewShotTracker creates a tracker for a new shot with a freshly
// minted shot ID.
func NewShotTracker(cfg Config) *ShotTracker {
	return &ShotTracker{
		shotID:     newShotID(),
		buffer:     track.NewTrajectoryBuffer(cfg.BufferCapacity),
		visibility: track.NewVisibilityLog(),
		analyzer:   analysis.NewAnalyzer(cfg.Analyzer),
		estimator:  revrate.NewEstimator(cfg.RevRate),
		model:      strike.NewModel(cfg.Strike),
	}
}

func newShotID() string {
	return fmt.Sprintf("shot_%s", uuid.New().String())
}

// ShotID returns the identifier of the shot currently accumulating.
func (t *ShotTracker) ShotID() string {
	return t.shotID
}

// ObserveSample records one detector frame for the shot in progress.
func (t *ShotTracker) ObserveSample(s track.Sample) {
	t.buffer.Add(s)
}

// ObserveMarker records one PAP-marker visibility reading.
func (t *ShotTracker) ObserveMarker(v track.VisibilitySample) {
	t.visibility.Add(v)
}

// Finish runs the full analysis chain over everything observed so far
// and returns the shot's record. The tracker's state is left intact;
// call Reset before reusing it for the next shot.
func (t *ShotTracker) Finish() ShotResult {
	r := ShotResult{ShotID: t.shotID}

	r.Trajectory = t.analyzer.Analyze(t.buffer.Snapshot())
	r.RevRate = t.estimator.Estimate(t.visibility.Snapshot())

	// A strike assessment over a zero metrics record would just
	// report noise.
	if r.Trajectory.Sufficient {
		r.Strike = t.model.Assess(r.Trajectory.EntryAngleDegrees, r.Trajectory.PocketOffsetBoards)
	}

	return r
}

// Reset wipes all accumulated state and mints a new shot ID. Safe to
// call repeatedly at shot boundaries.
func (t *ShotTracker) Reset() {
	t.buffer.Clear()
	t.visibility.Clear()
	t.shotID = newShotID()
}
