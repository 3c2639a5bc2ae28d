package analysis

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
)

// EntryAngleDegrees estimates the ball's lateral approach angle at the
// pin deck from the last two positioned samples inside the final
// units.PinDeckZoneFeet of the lane.
//
// Returns 0 when fewer than two qualifying samples exist. A straight,
// slow, or uncalibrated tail end is a normal condition.
func EntryAngleDegrees(samples []track.Sample) float64 {
	zoneStart := units.LaneLengthFeet - units.PinDeckZoneFeet

	var deck []track.PositionedSample
	for _, p := range track.FilterPositioned(samples) {
		if p.Lane.DistanceFeet >= zoneStart {
			deck = append(deck, p)
		}
	}
	if len(deck) < 2 {
		return 0
	}

	a := deck[len(deck)-2]
	b := deck[len(deck)-1]

	lateralFeet := units.BoardsToFeet(b.Lane.Board - a.Lane.Board)
	forwardFeet := b.Lane.DistanceFeet - a.Lane.DistanceFeet

	return units.DegreesFromRadians(math.Atan2(math.Abs(lateralFeet), forwardFeet))
}
