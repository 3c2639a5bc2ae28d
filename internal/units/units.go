// Package units provides shared lane-geometry constants and speed-unit
// conversion for shot metrics.
package units

import "math"

// USBC lane geometry.
const (
	// BoardsPerLane is the number of boards across a regulation lane.
	BoardsPerLane = 39
	// BoardWidthInches is the width of a single board.
	BoardWidthInches = 1.0641
	// BoardWidthFeet is the width of a single board in feet.
	BoardWidthFeet = BoardWidthInches / 12.0
	// LaneLengthFeet is the distance from the foul line to the head pin.
	LaneLengthFeet = 60.0
	// ArrowsDistanceFeet is the distance from the foul line to the arrows.
	ArrowsDistanceFeet = 15.0
	// PinDeckZoneFeet is the length of the zone in front of the pins used
	// for entry-angle estimation.
	PinDeckZoneFeet = 5.0
)

// Ideal pocket boards by handedness (between the 1 and 3 pins for a
// right-hander, 1 and 2 for a left-hander).
const (
	PocketBoardRight = 17.5
	PocketBoardLeft  = 22.5
)

// FeetPerSecondToMPH converts a speed in feet/second to miles/hour.
const FeetPerSecondToMPH = 0.6818

// BoardsToFeet converts a lateral displacement in boards to feet.
func BoardsToFeet(boards float64) float64 {
	return boards * BoardWidthFeet
}

// BoardsToInches converts a lateral displacement in boards to inches.
func BoardsToInches(boards float64) float64 {
	return boards * BoardWidthInches
}

// PocketBoard returns the ideal pocket board for the given handedness.
func PocketBoard(rightHanded bool) float64 {
	if rightHanded {
		return PocketBoardRight
	}
	return PocketBoardLeft
}

// DegreesFromRadians converts radians to degrees.
func DegreesFromRadians(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
