// Package cooling implements the time/flow estimator, minimum-layer-time
// enforcement, fan-speed interpolation and preheat scheduling of spec
// §4.8 (C8). Grounded on original_source/src/Preheat.cpp (ported in
// meaning, not translated line-for-line) for the warm-up/cool-down point
// solver, and on the teacher's plain struct-returning style (no
// exceptions; results are values).
package cooling

import (
	"layercore/geometry"
	"layercore/settings"
)

// WarmUpResult mirrors Preheat::WarmUpResult: how long the nozzle must
// start heating before the point it needs to be at temp_end, and the
// lowest temperature it dips to along the way.
type WarmUpResult struct {
	TotalTimeWindow   geometry.Duration
	HeatingTime       geometry.Duration
	LowestTemperature geometry.Temperature
}

// CoolDownResult mirrors Preheat::CoolDownResult.
type CoolDownResult struct {
	TotalTimeWindow    geometry.Duration
	CoolingTime        geometry.Duration
	HighestTemperature geometry.Temperature
}

// TimeToGoFromTempToTemp ports Preheat::getTimeToGoFromTempToTemp: the
// time needed to move the nozzle from tempBefore to tempAfter, adjusted
// by the extrusion cool-down speed when duringPrinting is set.
func TimeToGoFromTempToTemp(e *settings.Extruder, tempBefore, tempAfter geometry.Temperature, duringPrinting bool) geometry.Duration {
	var t geometry.Duration
	if tempAfter > tempBefore {
		heatUpSpeed := e.NozzleHeatUpSpeed()
		if duringPrinting {
			heatUpSpeed -= e.ExtrusionCoolDownSpeed()
		}
		t = geometry.Duration(float64(tempAfter-tempBefore) / float64(heatUpSpeed))
	} else {
		coolDownSpeed := e.NozzleCoolDownSpeed()
		if duringPrinting {
			coolDownSpeed += e.ExtrusionCoolDownSpeed()
		}
		t = geometry.Duration(float64(tempBefore-tempAfter) / float64(coolDownSpeed))
	}
	if t < 0 {
		return 0
	}
	return t
}

// WarmUpPointAfterCoolDown ports Preheat::getWarmUpPointAfterCoolDown:
// given a time window during which the nozzle sits at tempMid (standby)
// between an incoming tempStart and an outgoing tempEnd, finds how early
// within the window heating must start and how low the nozzle actually
// gets to go.
func WarmUpPointAfterCoolDown(e *settings.Extruder, timeWindow geometry.Duration, tempStart, tempMid, tempEnd geometry.Temperature, duringPrinting bool) WarmUpResult {
	coolDownSpeed := e.NozzleCoolDownSpeed()
	if duringPrinting {
		coolDownSpeed += e.ExtrusionCoolDownSpeed()
	}
	timeToCooldown1Degree := geometry.Duration(1.0 / float64(coolDownSpeed))

	heatUpSpeed := e.NozzleHeatUpSpeed()
	if duringPrinting {
		heatUpSpeed -= e.ExtrusionCoolDownSpeed()
	}
	timeToHeatup1Degree := geometry.Duration(1.0 / float64(heatUpSpeed))

	result := WarmUpResult{TotalTimeWindow: timeWindow}

	var outerTemp geometry.Temperature
	var limitedTimeWindow geometry.Duration
	if tempStart < tempEnd {
		extraHeatupTime := geometry.Duration(float64(tempEnd-tempStart)) * timeToHeatup1Degree
		result.HeatingTime = extraHeatupTime
		limitedTimeWindow = timeWindow - extraHeatupTime
		outerTemp = tempStart
	} else {
		extraCooldownTime := geometry.Duration(float64(tempStart-tempEnd)) * timeToCooldown1Degree
		result.HeatingTime = 0
		limitedTimeWindow = timeWindow - extraCooldownTime
		outerTemp = tempEnd
	}
	if limitedTimeWindow < 0 {
		result.HeatingTime = 0
		result.LowestTemperature = minTemp(tempStart, tempEnd)
		return result
	}

	timeRatioCooldownHeatup := float64(timeToCooldown1Degree) / float64(timeToHeatup1Degree)
	timeToHeatFromStandby := TimeToGoFromTempToTemp(e, tempMid, outerTemp, duringPrinting)
	timeNeededToReachStandby := timeToHeatFromStandby * geometry.Duration(1.0+timeRatioCooldownHeatup)

	if timeNeededToReachStandby < limitedTimeWindow {
		result.HeatingTime += timeToHeatFromStandby
		result.LowestTemperature = tempMid
	} else {
		result.HeatingTime += limitedTimeWindow * timeToHeatup1Degree / (timeToCooldown1Degree + timeToHeatup1Degree)
		result.LowestTemperature = maxTemp(tempMid, tempEnd-geometry.Temperature(float64(result.HeatingTime)/float64(timeToHeatup1Degree)))
	}
	return result
}

// CoolDownPointAfterWarmUp ports Preheat::getCoolDownPointAfterWarmUp: the
// mirror image, used when an extruder goes from printing (tempStart) to
// standby (tempMid) and back to printing (tempEnd) within timeWindow.
func CoolDownPointAfterWarmUp(e *settings.Extruder, timeWindow geometry.Duration, tempStart, tempMid, tempEnd geometry.Temperature, duringPrinting bool) CoolDownResult {
	coolDownSpeed := e.NozzleCoolDownSpeed()
	if duringPrinting {
		coolDownSpeed += e.ExtrusionCoolDownSpeed()
	}
	timeToCooldown1Degree := geometry.Duration(1.0 / float64(coolDownSpeed))

	heatUpSpeed := e.NozzleHeatUpSpeed()
	if duringPrinting {
		heatUpSpeed -= e.ExtrusionCoolDownSpeed()
	}
	timeToHeatup1Degree := geometry.Duration(1.0 / float64(heatUpSpeed))

	result := CoolDownResult{TotalTimeWindow: timeWindow}

	var outerTemp geometry.Temperature
	var limitedTimeWindow geometry.Duration
	if tempStart < tempEnd {
		extraHeatupTime := geometry.Duration(float64(tempEnd-tempStart)) * timeToHeatup1Degree
		result.CoolingTime = 0
		limitedTimeWindow = timeWindow - extraHeatupTime
		outerTemp = tempEnd
	} else {
		extraCooldownTime := geometry.Duration(float64(tempStart-tempEnd)) * timeToCooldown1Degree
		result.CoolingTime = extraCooldownTime
		limitedTimeWindow = timeWindow - extraCooldownTime
		outerTemp = tempStart
	}
	if limitedTimeWindow < 0 {
		result.CoolingTime = 0
		result.HighestTemperature = maxTemp(tempStart, tempEnd)
		return result
	}

	timeRatioCooldownHeatup := float64(timeToCooldown1Degree) / float64(timeToHeatup1Degree)
	coolDownTime := TimeToGoFromTempToTemp(e, tempMid, outerTemp, duringPrinting)
	timeNeededToReachTemp1 := coolDownTime * geometry.Duration(1.0+timeRatioCooldownHeatup)

	if timeNeededToReachTemp1 < limitedTimeWindow {
		result.CoolingTime += coolDownTime
		result.HighestTemperature = tempMid
	} else {
		result.CoolingTime += limitedTimeWindow * timeToHeatup1Degree / (timeToCooldown1Degree + timeToHeatup1Degree)
		result.HighestTemperature = minTemp(tempMid, tempEnd+geometry.Temperature(float64(result.CoolingTime)/float64(timeToCooldown1Degree)))
	}
	return result
}

func minTemp(a, b geometry.Temperature) geometry.Temperature {
	if a < b {
		return a
	}
	return b
}

func maxTemp(a, b geometry.Temperature) geometry.Temperature {
	if a > b {
		return a
	}
	return b
}
