// Package units provides shared constants and validation for length units
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	Metres      = "m"
	Centimetres = "cm"
	Millimetres = "mm"
	Inches      = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Metres, Centimetres, Millimetres, Inches}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, u := range ValidUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ToMetres converts a length in unit to metres. Poses, depths and
// residuals are stored in metres throughout.
func ToMetres(v float64, unit string) (float64, error) {
	switch unit {
	case Metres:
		return v, nil
	case Centimetres:
		return v / 100, nil
	case Millimetres:
		return v / 1000, nil
	case Inches:
		return v * 0.0254, nil
	default:
		return 0, fmt.Errorf("invalid length unit %q: must be one of %s", unit, GetValidUnitsString())
	}
}
