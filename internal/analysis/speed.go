// Package analysis implements the per-shot numeric pipeline: speed,
// entry angle, breakpoint location, and the full-trajectory metrics
// record. All estimators are pure functions over sample snapshots; a
// weak or absent signal yields a zero result, never an error.
package analysis

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
)

// SpeedMPH computes the real-world speed between two samples in miles
// per hour, given the capture rate in samples/sec.
//
// Returns 0 when either sample lacks lane coordinates (ball outside the
// calibrated zone is a normal condition) or when the frame delta is
// zero.
func SpeedMPH(p1, p2 track.Sample, sampleRate float64) float64 {
	l1, ok1 := p1.Positioned()
	l2, ok2 := p2.Positioned()
	if !ok1 || !ok2 {
		return 0
	}
	return speedBetween(
		track.PositionedSample{FrameIndex: p1.FrameIndex, Lane: l1},
		track.PositionedSample{FrameIndex: p2.FrameIndex, Lane: l2},
		sampleRate,
	)
}

// speedBetween is the positioned-sample core of SpeedMPH.
//
// The displacement norm combines lateral boards with downlane feet
// unconverted. That is how the app has always computed ball speed and
// the published numbers depend on it.
// TODO: decide whether the board delta should go through
// units.BoardsToFeet before the norm; changing it shifts every reported
// speed, so it needs a calibration pass first.
func speedBetween(a, b track.PositionedSample, sampleRate float64) float64 {
	frames := math.Abs(float64(b.FrameIndex - a.FrameIndex))
	if frames == 0 || sampleRate <= 0 {
		return 0
	}

	db := b.Lane.Board - a.Lane.Board
	df := b.Lane.DistanceFeet - a.Lane.DistanceFeet
	distance := math.Sqrt(db*db + df*df)

	elapsedSeconds := frames / sampleRate
	return distance / elapsedSeconds * units.FeetPerSecondToMPH
}
