package cooling

import (
	"layercore/geometry"
	"layercore/planning"
	"layercore/settings"
)

// EstimateTimes walks plan's paths and fills in plan.TimeEstimates (spec
// §4.8, paragraph 1): per-segment extrude/retracted-travel/unretracted-
// travel time, plus the material volume bucket, plus the retraction- and
// prime-speed half-durations charged at each retract/unretract toggle.
func EstimateTimes(plan *planning.ExtruderPlan, retraction settings.RetractionConfig) {
	var est planning.TimeEstimates
	var last geometry.Point
	haveLast := false
	wasRetracted := false

	for _, rec := range plan.Paths() {
		if len(rec.Points) == 0 {
			continue
		}
		if !haveLast {
			last = rec.Points[0]
			haveLast = true
		}
		if rec.Retract != wasRetracted {
			est.RetractedTravel += halfDuration(retraction.Speed) + halfDuration(retraction.PrimeSpeed)
			wasRetracted = rec.Retract
		}

		for _, p := range rec.Points {
			segLen := last.Dist(p).ToMillimeter()
			switch rec.Kind {
			case planning.KindExtrusion:
				speed := effectiveSpeed(rec)
				if speed > 0 {
					est.Extrude += geometry.Duration(float64(segLen) / float64(speed))
				}
				est.MaterialVolume += float64(segLen) * float64(rec.Config.LayerThickness.ToMillimeter()) * float64(rec.Config.LineWidth.ToMillimeter())
			case planning.KindTravel:
				speed := rec.Config.NominalSpeed
				if speed <= 0 {
					speed = 150
				}
				d := geometry.Duration(float64(segLen) / float64(speed))
				if rec.Retract {
					est.RetractedTravel += d
				} else {
					est.UnretractedTravel += d
				}
			}
			last = p
		}
	}
	plan.TimeEstimates = est
}

func effectiveSpeed(rec *planning.MotionRecord) geometry.Velocity {
	speed := rec.Config.NominalSpeed * geometry.Velocity(rec.SpeedFactor)
	if rec.BackPressureFactor > 0 {
		speed *= geometry.Velocity(rec.BackPressureFactor)
	}
	return speed
}

func halfDuration(speed geometry.Velocity) geometry.Duration {
	if speed <= 0 {
		return 0
	}
	return geometry.Duration(0.5 / float64(speed))
}

// TotalTime is the sum of the three time buckets.
func TotalTime(est planning.TimeEstimates) geometry.Duration {
	return est.Extrude + est.RetractedTravel + est.UnretractedTravel
}

// EnforceMinimumLayerTime implements spec §4.8's minimum-layer-time
// enforcement: scale non-travel speeds down (never below cool_min_speed) so
// the plan's total time reaches cool_min_layer_time, recording the
// chosen uniform factor as extrude_speed_factor and rescaling the stored
// time estimates; if the clamp prevents full compensation, the remainder
// is recorded as extra_time.
func EnforceMinimumLayerTime(plan *planning.ExtruderPlan, cfg settings.CoolingConfig) {
	travelTime := plan.TimeEstimates.RetractedTravel + plan.TimeEstimates.UnretractedTravel
	total := TotalTime(plan.TimeEstimates)
	if total >= cfg.MinLayerTime {
		return
	}

	targetExtrudeTime := cfg.MinLayerTime - travelTime
	if targetExtrudeTime <= 0 || plan.TimeEstimates.Extrude <= 0 {
		plan.ExtraTime = cfg.MinLayerTime - total
		return
	}

	scale := float64(plan.TimeEstimates.Extrude) / float64(targetExtrudeTime)
	if scale > 1 {
		scale = 1
	}

	clampedScale := scale
	for _, rec := range plan.Paths() {
		if rec.Kind != planning.KindExtrusion {
			continue
		}
		nominal := float64(rec.Config.NominalSpeed) * rec.SpeedFactor
		if nominal <= 0 {
			continue
		}
		effective := nominal * scale
		if effective < float64(cfg.MinSpeed) {
			forced := float64(cfg.MinSpeed) / nominal
			if forced > clampedScale {
				clampedScale = forced
			}
		}
	}

	plan.ExtrudeSpeedFactor = clampedScale
	plan.TimeEstimates.Extrude = geometry.Duration(float64(plan.TimeEstimates.Extrude) / clampedScale)

	newTotal := TotalTime(plan.TimeEstimates)
	if newTotal < cfg.MinLayerTime {
		plan.ExtraTime = cfg.MinLayerTime - newTotal
	} else {
		plan.ExtraTime = 0
	}
}

// FanSpeed implements spec §4.8's fan-speed rule: interpolate between
// cool_fan_speed_max (at or below cool_min_layer_time) and
// cool_fan_speed_min (at or above cool_min_layer_time_fan_speed_max),
// then for early layers (below cool_fan_full_layer, non-raft) blend
// toward cool_fan_speed_0.
func FanSpeed(layerTime geometry.Duration, cfg settings.CoolingConfig, layerIndex int, isRaft bool) geometry.Ratio {
	var speed geometry.Ratio
	switch {
	case layerTime < cfg.MinLayerTime:
		speed = cfg.FanSpeedMax
	case layerTime >= cfg.MinLayerTimeFanSpeedMax:
		speed = cfg.FanSpeedMin
	default:
		span := float64(cfg.MinLayerTimeFanSpeedMax - cfg.MinLayerTime)
		if span <= 0 {
			speed = cfg.FanSpeedMax
		} else {
			frac := float64(layerTime-cfg.MinLayerTime) / span
			speed = cfg.FanSpeedMax + geometry.Ratio(frac)*(cfg.FanSpeedMin-cfg.FanSpeedMax)
		}
	}

	if !isRaft && layerIndex < cfg.FanFullLayer && cfg.FanFullLayer > 0 {
		frac := float64(layerIndex) / float64(cfg.FanFullLayer)
		speed = cfg.FanSpeedLayer0 + geometry.Ratio(frac)*(speed-cfg.FanSpeedLayer0)
	}
	return speed
}
