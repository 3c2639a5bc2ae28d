// Package track holds the per-shot sample types and the bounded buffers
// that accumulate them while a shot is live.
package track

// Phase tags a sample with the ball's motion phase. It is advisory
// metadata supplied by the detector; nothing in the metrics pipeline
// computes or depends on it.
type Phase string

const (
	PhaseSkid Phase = "skid"
	PhaseHook Phase = "hook"
	PhaseRoll Phase = "roll"
)

// LanePosition is a calibrated real-world position on the lane:
// lateral position in boards and downlane distance in feet from the
// foul line. Produced by the external calibration transform.
type LanePosition struct {
	Board        float64 `json:"board"`
	DistanceFeet float64 `json:"distance_feet"`
}

// Sample is a single tracked ball position at one frame. Samples are
// immutable once recorded. Lane is nil when the ball was outside the
// calibrated zone (a normal condition, not an error).
type Sample struct {
	FrameIndex int64         `json:"frame"`
	PixelX     float64       `json:"pixel_x"`
	PixelY     float64       `json:"pixel_y"`
	Detected   bool          `json:"detected"`
	Lane       *LanePosition `json:"lane,omitempty"`
	Phase      Phase         `json:"phase,omitempty"`
}

// Positioned returns the sample's lane position and whether one exists.
func (s Sample) Positioned() (LanePosition, bool) {
	if s.Lane == nil {
		return LanePosition{}, false
	}
	return *s.Lane, true
}

// PositionedSample pairs a frame index with a calibrated lane position.
// Estimators that require real-world coordinates operate on this type so
// the optional-field check happens once, at the filter boundary.
type PositionedSample struct {
	FrameIndex int64
	Lane       LanePosition
}

// FilterPositioned returns the subsequence of samples carrying lane
// coordinates, in order.
func FilterPositioned(samples []Sample) []PositionedSample {
	out := make([]PositionedSample, 0, len(samples))
	for _, s := range samples {
		if lane, ok := s.Positioned(); ok {
			out = append(out, PositionedSample{FrameIndex: s.FrameIndex, Lane: lane})
		}
	}
	return out
}

// VisibilitySample is one observation of the rotation marker: visible or
// not at a given frame. Ordered by arrival.
type VisibilitySample struct {
	FrameIndex int64 `json:"frame"`
	UnixNanos  int64 `json:"unix_nanos"`
	Visible    bool  `json:"visible"`
}
