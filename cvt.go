package cvtsim

import (
	"math"

	"github.com/samber/lo"
)

// ResolveRatio returns the CVT ratio, bounded to [MinCVTRatio, MaxCVTRatio], required to hold
// the engine at engineSpeed (RPM) while the vehicle moves at vehicleSpeed (m/s).
// A stopped vehicle always gets the lowest ratio.
func ResolveRatio(vehicleSpeed, engineSpeed, R, G float64, formula RatioFormula) float64 {
	ratio, _ := resolveRatio(vehicleSpeed, engineSpeed, R, G, formula)
	return ratio
}

// resolveRatio also returns whether the raw ratio was saturated: -1 at the lower bound, 1 at the upper one.
func resolveRatio(vehicleSpeed, engineSpeed, R, G float64, formula RatioFormula) (float64, int) {
	if vehicleSpeed == 0 {
		return MinCVTRatio, 0
	}
	wheel := engineSpeed * 2 * math.Pi * R
	var raw float64
	if formula == RatioGearMultiplied {
		raw = wheel * G / (60 * vehicleSpeed)
	} else {
		raw = wheel / (60 * G * vehicleSpeed)
	}
	ratio := lo.Clamp(raw, MinCVTRatio, MaxCVTRatio)
	switch {
	case raw < MinCVTRatio:
		return ratio, -1
	case raw > MaxCVTRatio:
		return ratio, 1
	}
	return ratio, 0
}
