package domain

import "math"

// Duration categories drive the environmental adjustments.
const (
	DurationSprint   = "Sprint"
	DurationMiddle   = "Middle Distance"
	DurationDistance = "Distance"
	DurationJumps    = "Jumps"
	DurationThrows   = "Throws"
	DurationOther    = "Field"
)

const (
	altitudeThreshold  = 300.0 // metres; no adjustment at or below
	optimalTemperature = 11.0  // °C

	sprintAltitudeBenefit    = 0.0095 // per km
	fieldAltitudeBenefit     = 0.012
	enduranceAltitudePenalty = 0.063

	maxAdjustedResult = 999999.0
)

// DurationCategory maps an event to its physiological category.
func DurationCategory(ev Event) string {
	switch ev.Group {
	case GroupSprint, GroupHurdles:
		return DurationSprint
	case GroupMiddleDistance:
		return DurationMiddle
	case GroupDistance, GroupRoad:
		return DurationDistance
	case GroupJumps:
		return DurationJumps
	case GroupThrows:
		return DurationThrows
	default:
		return DurationOther
	}
}

func altitudeKm(altitude *float64) (float64, bool) {
	if altitude == nil || *altitude <= altitudeThreshold {
		return 0, false
	}
	return (*altitude - altitudeThreshold) / 1000, true
}

// AltitudeAdjust estimates the sea-level equivalent of a result. Sprint
// times and field marks are helped by thin air, so the benefit is divided
// out; endurance times are hurt, so the penalty is divided out.
func AltitudeAdjust(result float64, altitude *float64, category string) float64 {
	km, ok := altitudeKm(altitude)
	if !ok {
		return result
	}
	var factor float64
	switch category {
	case DurationSprint:
		factor = 1 - km*sprintAltitudeBenefit
	case DurationJumps, DurationThrows:
		factor = 1 + km*fieldAltitudeBenefit
	case DurationMiddle, DurationDistance:
		factor = 1 + km*enduranceAltitudePenalty
	default:
		return result
	}
	if factor <= 0 {
		return result
	}
	return clamp(result/factor, 0, maxAdjustedResult)
}

func temperatureRate(category string) float64 {
	switch category {
	case DurationSprint, DurationJumps, DurationThrows:
		return 0.001
	case DurationMiddle:
		return 0.002
	case DurationDistance:
		return 0.004
	default:
		return 0.002
	}
}

// TemperatureImpact is the multiplier describing how far conditions were
// from the optimum. A missing temperature is neutral.
func TemperatureImpact(temperature *float64, category string) float64 {
	if temperature == nil || math.IsNaN(*temperature) || math.IsInf(*temperature, 0) {
		return 1.0
	}
	factor := 1 - math.Abs(*temperature-optimalTemperature)*temperatureRate(category)
	return clamp(factor, 0.5, 1.5)
}

// EnvironmentalBonus summarizes altitude and temperature effects in points
// (percent effect times two), clamped to ±20.
func EnvironmentalBonus(altitude, temperature *float64, category string) float64 {
	if altitude == nil && temperature == nil {
		return 0
	}
	var altitudeBonus float64
	if km, ok := altitudeKm(altitude); ok {
		switch category {
		case DurationSprint:
			altitudeBonus = km * sprintAltitudeBenefit * 100
		case DurationJumps, DurationThrows:
			altitudeBonus = km * fieldAltitudeBenefit * 100
		case DurationMiddle, DurationDistance:
			altitudeBonus = -km * enduranceAltitudePenalty * 100
		}
	}

	temp := optimalTemperature
	if temperature != nil {
		temp = *temperature
	}
	var rate float64
	switch category {
	case DurationDistance:
		rate = 0.4
	case DurationMiddle:
		rate = 0.2
	default:
		rate = 0.1
	}
	tempBonus := -math.Abs(temp-optimalTemperature) * rate

	return clamp((altitudeBonus+tempBonus)*2, -20, 20)
}
