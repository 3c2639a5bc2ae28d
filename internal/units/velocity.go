package units

// Unit constants
const (
	MPH = "mph"
	KPH = "kph"
	MPS = "mps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPH, KPH, MPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mph, kph, mps"
}

// ConvertSpeed converts a speed from miles per hour to the target units.
// The engine reports ball speeds in mph.
func ConvertSpeed(speedMPH float64, targetUnits string) float64 {
	switch targetUnits {
	case KPH:
		return speedMPH * 1.609344 // mph to km/h
	case MPS:
		return speedMPH * 0.44704 // mph to m/s
	case MPH:
		return speedMPH // no conversion needed
	default:
		return speedMPH // default to mph if unknown unit
	}
}
