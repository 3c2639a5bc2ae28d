// Package strike turns entry angle and pocket offset into a strike
// probability, a predicted pin leave, and a coaching suggestion.
package strike

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/config"
)

// idealAngleDegrees is the textbook strike entry angle used for the
// reported deviation.
const idealAngleDegrees = 6.0

// Leave is a qualitative prediction of the pins left standing.
type Leave string

const (
	LeaveClean    Leave = "clean"
	LeaveTenPin   Leave = "10-pin"
	LeaveSevenPin Leave = "7-pin"
	LeaveSplit    Leave = "split"
	LeaveBucket   Leave = "bucket"
	LeaveOther    Leave = "other"
)

// Assessment is the per-shot strike evaluation.
type Assessment struct {
	Probability float64 `json:"probability"`

	EntryAngleDegrees     float64 `json:"entry_angle_degrees"`
	AngleDeviationDegrees float64 `json:"angle_deviation_degrees"`
	AngleOptimal          bool    `json:"angle_optimal"`

	PocketOffsetBoards float64 `json:"pocket_offset_boards"`

	Leave      Leave  `json:"leave"`
	Suggestion string `json:"suggestion"`
}

// Config holds the tunable parameters of the strike model.
type Config struct {
	OptimalAngleMinDeg float64 // Lower edge of the optimal entry band
	OptimalAngleMaxDeg float64 // Upper edge of the optimal entry band
	LowAngleDivisor    float64 // Decay divisor below the band
	HighAngleDivisor   float64 // Decay divisor above the band
	MaxOffsetBoards    float64 // Offset at which the offset factor hits 0
	RightHanded        bool
}

// ConfigFromTuning builds a strike model Config from a loaded
// TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		OptimalAngleMinDeg: cfg.GetOptimalAngleMinDeg(),
		OptimalAngleMaxDeg: cfg.GetOptimalAngleMaxDeg(),
		LowAngleDivisor:    cfg.GetLowAngleDivisor(),
		HighAngleDivisor:   cfg.GetHighAngleDivisor(),
		MaxOffsetBoards:    cfg.GetMaxPocketOffsetBoards(),
		RightHanded:        cfg.GetRightHanded(),
	}
}

// Model evaluates shots against the configured pocket geometry.
type Model struct {
	cfg Config
}

// NewModel creates a strike model with the specified configuration.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Probability estimates the strike chance in [0,1] for a shot with the
// given entry angle (degrees) and pocket offset (boards).
//
// The angle factor is 1 inside the optimal band and decays linearly to
// 0 outside it; the offset factor decays linearly with distance from
// the pocket. The result is their product: a shot has to be good on
// both dimensions to score well.
func (m *Model) Probability(entryAngleDeg, pocketOffsetBoards float64) float64 {
	return m.angleFactor(entryAngleDeg) * m.offsetFactor(pocketOffsetBoards)
}

func (m *Model) angleFactor(angle float64) float64 {
	switch {
	case angle < m.cfg.OptimalAngleMinDeg:
		return math.Max(0, 1-(m.cfg.OptimalAngleMinDeg-angle)/m.cfg.LowAngleDivisor)
	case angle > m.cfg.OptimalAngleMaxDeg:
		return math.Max(0, 1-(angle-m.cfg.OptimalAngleMaxDeg)/m.cfg.HighAngleDivisor)
	default:
		return 1
	}
}

func (m *Model) offsetFactor(offset float64) float64 {
	return math.Max(0, 1-math.Abs(offset)/m.cfg.MaxOffsetBoards)
}

// angleOptimal reports whether the entry angle sits inside the
// configured optimal band.
func (m *Model) angleOptimal(angle float64) bool {
	return angle >= m.cfg.OptimalAngleMinDeg && angle <= m.cfg.OptimalAngleMaxDeg
}

// PredictLeave maps entry angle and pocket offset to the most likely
// pin leave. Rules run in order and the first match wins.
func (m *Model) PredictLeave(entryAngleDeg, pocketOffsetBoards float64, rightHanded bool) Leave {
	corner, oppositeCorner := LeaveTenPin, LeaveSevenPin
	if !rightHanded {
		corner, oppositeCorner = LeaveSevenPin, LeaveTenPin
	}

	switch {
	case math.Abs(pocketOffsetBoards) < 1 && m.angleOptimal(entryAngleDeg):
		return LeaveClean
	case entryAngleDeg < m.cfg.OptimalAngleMinDeg:
		return corner
	case entryAngleDeg > m.cfg.OptimalAngleMaxDeg:
		return LeaveSplit
	case pocketOffsetBoards > 1:
		return oppositeCorner
	case pocketOffsetBoards < -1:
		return LeaveBucket
	default:
		return LeaveOther
	}
}

// suggestion returns coaching text for the shot. Keyed on probability
// first so a high-scoring shot never gets nitpicked.
func (m *Model) suggestion(probability, entryAngleDeg, pocketOffsetBoards float64) string {
	switch {
	case probability >= 0.8:
		return "Great shot line. Keep repeating it."
	case entryAngleDeg < m.cfg.OptimalAngleMinDeg:
		return "Entry angle is flat. Move the breakpoint deeper or add revs."
	case entryAngleDeg > m.cfg.OptimalAngleMaxDeg:
		return "Entry angle is steep. Tame the hook or move the breakpoint earlier."
	case math.Abs(pocketOffsetBoards) > 2:
		return "Missing the pocket. Adjust your target line."
	default:
		return "Close. Fine-tune your release for a flusher hit."
	}
}

// Assess produces the full strike assessment for a shot.
func (m *Model) Assess(entryAngleDeg, pocketOffsetBoards float64) Assessment {
	p := m.Probability(entryAngleDeg, pocketOffsetBoards)

	return Assessment{
		Probability:           p,
		EntryAngleDegrees:     entryAngleDeg,
		AngleDeviationDegrees: entryAngleDeg - idealAngleDegrees,
		AngleOptimal:          m.angleOptimal(entryAngleDeg),
		PocketOffsetBoards:    pocketOffsetBoards,
		Leave:                 m.PredictLeave(entryAngleDeg, pocketOffsetBoards, m.cfg.RightHanded),
		Suggestion:            m.suggestion(p, entryAngleDeg, pocketOffsetBoards),
	}
}
