package config

import (
	"fmt"

	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/units"
)

// PoseQuality grades an extrinsic by the residual of the calibration that
// produced it.
type PoseQuality string

const (
	PoseQualityExcellent PoseQuality = "excellent"
	PoseQualityGood      PoseQuality = "good"
	PoseQualityFair      PoseQuality = "fair"
	PoseQualityPoor      PoseQuality = "poor"
	// PoseQualityUnknown is reported when the file gives no rmse.
	PoseQualityUnknown PoseQuality = "unknown"
)

// Upper bounds of the residual (metres) for each grade; anything at or
// above RMSEThresholdFair is poor.
const (
	RMSEThresholdExcellent = 0.05
	RMSEThresholdGood      = 0.15
	RMSEThresholdFair      = 0.30
)

// PoseValidationResult is the outcome of ValidateExtrinsic. Valid means the
// matrix can be used at all; Quality and Issues say how much to trust it.
type PoseValidationResult struct {
	Valid   bool
	Quality PoseQuality
	Issues  []string
}

// ValidateExtrinsic checks that e holds a proper rigid transform and grades
// it by the RMSE of the calibration.
func ValidateExtrinsic(e *Extrinsic) PoseValidationResult {
	result := PoseValidationResult{
		Quality: PoseQualityUnknown,
		Issues:  make([]string, 0),
	}

	if e == nil {
		result.Issues = append(result.Issues, "extrinsic is nil")
		return result
	}

	if len(e.T) != 16 {
		result.Issues = append(result.Issues, fmt.Sprintf("transform has %d values, want 16", len(e.T)))
		result.Quality = PoseQualityPoor
		return result
	}
	var m [16]float64
	copy(m[:], e.T)
	if !geom.IsValidTransformMatrix(m) {
		result.Issues = append(result.Issues, "invalid transform matrix (not proper rigid transform)")
		result.Quality = PoseQualityPoor
		return result
	}
	if !units.IsValid(e.GetUnits()) {
		result.Issues = append(result.Issues, fmt.Sprintf("invalid length unit %q", e.GetUnits()))
		result.Quality = PoseQualityPoor
		return result
	}

	rmse := e.GetRMSE()
	switch {
	case rmse == 0:
		result.Quality = PoseQualityUnknown
		result.Issues = append(result.Issues, "no rmse in calibration file, residual unknown")
	case rmse < RMSEThresholdExcellent:
		result.Quality = PoseQualityExcellent
	case rmse < RMSEThresholdGood:
		result.Quality = PoseQualityGood
	case rmse < RMSEThresholdFair:
		result.Quality = PoseQualityFair
		result.Issues = append(result.Issues, "residual is fair, re-run the stereo calibration when convenient")
	default:
		result.Quality = PoseQualityPoor
		result.Issues = append(result.Issues, "residual is poor, recalibration required")
	}

	// A poor residual still leaves a rigid matrix; IsUsable decides.
	result.Valid = true
	return result
}

// IsUsable reports whether a validated extrinsic may be used to build
// transforms. Poor poses are only accepted when allowPoor is set.
func IsUsable(result PoseValidationResult, allowPoor bool) bool {
	if !result.Valid {
		return false
	}
	return result.Quality != PoseQualityPoor || allowPoor
}

// String names the grade with its residual band.
func (q PoseQuality) String() string {
	switch q {
	case PoseQualityExcellent:
		return "excellent (residual < 0.05m)"
	case PoseQualityGood:
		return "good (residual 0.05-0.15m)"
	case PoseQualityFair:
		return "fair (residual 0.15-0.30m)"
	case PoseQualityPoor:
		return "poor (residual >= 0.30m)"
	case PoseQualityUnknown:
		return "unknown (no residual given)"
	default:
		return string(q)
	}
}
