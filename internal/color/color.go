// Package color implements the HSV colour math used to parameterise ball
// and marker detection. Conversions follow the standard hexagonal model;
// matching treats hue as a circular quantity so tolerances wrap at 0/360.
package color

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/config"
)

// RGB is an 8-bit-per-channel colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSV holds hue in degrees [0, 360), saturation and value as percentages
// [0, 100]. Saturation and value are rounded to whole percentages by
// RGBToHSV to match what the calibration UI displays.
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// Tolerance is the per-channel allowed deviation for a match. Hue is
// interpreted circularly. Negative tolerances are not validated here;
// callers own configuration sanity.
type Tolerance struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

// DefaultBallTolerance returns the stock tolerance used for ball detection
// before a profile overrides it.
func DefaultBallTolerance() Tolerance {
	return Tolerance{Hue: 15, Saturation: 30, Value: 30}
}

// ToleranceFromTuning builds a match tolerance from the tuning file.
// Unset channels fall back to the stock ball tolerance.
func ToleranceFromTuning(c *config.TuningConfig) Tolerance {
	return Tolerance{
		Hue:        c.GetBallHueTolerance(),
		Saturation: c.GetBallSaturationTolerance(),
		Value:      c.GetBallValueTolerance(),
	}
}

// RGBToHSV converts an RGB colour to HSV using the min/max/delta
// hexagonal decomposition.
func RGBToHSV(c RGB) HSV {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h float64
	if delta != 0 {
		switch max {
		case r:
			h = 60 * math.Mod((g-b)/delta, 6)
		case g:
			h = 60 * ((b-r)/delta + 2)
		default:
			h = 60 * ((r-g)/delta + 4)
		}
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max * 100
	}
	v := max * 100

	return HSV{H: h, S: math.Round(s), V: math.Round(v)}
}

// HSVToRGB converts an HSV colour back to RGB using the chroma/
// intermediate/match decomposition over six 60°-wide hue sectors.
func HSVToRGB(c HSV) RGB {
	s := c.S / 100.0
	v := c.V / 100.0

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(c.H/60.0, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case c.H < 60:
		r, g, b = chroma, x, 0
	case c.H < 120:
		r, g, b = x, chroma, 0
	case c.H < 180:
		r, g, b = 0, chroma, x
	case c.H < 240:
		r, g, b = 0, x, chroma
	case c.H < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{
		R: roundChannel((r + m) * 255),
		G: roundChannel((g + m) * 255),
		B: roundChannel((b + m) * 255),
	}
}

func roundChannel(v float64) uint8 {
	rounded := math.Round(v)
	if rounded < 0 {
		return 0
	}
	if rounded > 255 {
		return 255
	}
	return uint8(rounded)
}

// HueDistance returns the circular distance between two hues in degrees,
// always in [0, 180].
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// Matches reports whether color is within tolerance of target on all
// three channels. Hue uses circular distance; saturation and value use
// absolute difference.
func Matches(color, target HSV, tol Tolerance) bool {
	if HueDistance(color.H, target.H) > tol.Hue {
		return false
	}
	if math.Abs(color.S-target.S) > tol.Saturation {
		return false
	}
	if math.Abs(color.V-target.V) > tol.Value {
		return false
	}
	return true
}
