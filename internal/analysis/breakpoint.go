package analysis

import "github.com/lanetrax/shotmetrics/internal/track"

// Breakpoint window: lateral motion is compared across five samples on
// each side of the candidate index.
const breakpointWindow = 5

// minBreakpointSamples is the minimum positioned-sample count for a
// meaningful sign-change scan (one full window each side).
const minBreakpointSamples = 10

// Breakpoint is the downlane point where the ball's lateral motion
// reverses sign and it sets toward the pocket. Found is false for
// straight shots — an expected outcome, not a failure.
type Breakpoint struct {
	Found        bool    `json:"found"`
	Board        float64 `json:"board"`
	DistanceFeet float64 `json:"distance_feet"`
}

// FindBreakpoint scans the trajectory for the first sample where lateral
// motion over the trailing window is positive and over the leading
// window is negative. Samples without lane coordinates are ignored.
func FindBreakpoint(samples []track.Sample) Breakpoint {
	positioned := track.FilterPositioned(samples)
	if len(positioned) < minBreakpointSamples {
		return Breakpoint{}
	}

	for i := breakpointWindow; i <= len(positioned)-breakpointWindow-1; i++ {
		prevLateral := positioned[i].Lane.Board - positioned[i-breakpointWindow].Lane.Board
		nextLateral := positioned[i+breakpointWindow].Lane.Board - positioned[i].Lane.Board

		if prevLateral > 0 && nextLateral < 0 {
			return Breakpoint{
				Found:        true,
				Board:        positioned[i].Lane.Board,
				DistanceFeet: positioned[i].Lane.DistanceFeet,
			}
		}
	}

	return Breakpoint{}
}
