package cooling

import (
	"testing"

	"layercore/geometry"
	"layercore/planning"
	"layercore/settings"
)

func testExtruder(t *testing.T) *settings.Extruder {
	t.Helper()
	scene := settings.NewScene(1, nil)
	return scene.Extruders[0]
}

func wallCfg(speed geometry.Velocity) planning.FeatureConfig {
	return planning.FeatureConfig{
		Tag:            planning.FeatureOuterWall,
		LineWidth:      400,
		LayerThickness: 200,
		NominalSpeed:   speed,
	}
}

func TestEstimateTimesAccumulatesExtrudeAndTravel(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	rec := plan.Container.LatestWithConfig(wallCfg(60), 1.0, false, 1.0, "mesh1")
	rec.Points = geometry.Path{geometry.NewPoint(0, 0), geometry.NewPoint(60000, 0)}
	plan.Container.ForceNewPathStart()

	travel := &planning.MotionRecord{Kind: planning.KindTravel, Points: geometry.Path{geometry.NewPoint(70000, 0)}}
	travel.Config.NominalSpeed = 150
	plan.Container.AppendTravel(travel)

	e := testExtruder(t)
	EstimateTimes(plan, e.Retraction())

	if plan.TimeEstimates.Extrude <= 0 {
		t.Error("expected positive extrude time for a 60mm wall segment at 60mm/s")
	}
	if plan.TimeEstimates.MaterialVolume <= 0 {
		t.Error("expected positive material volume")
	}
}

// Testable property (spec §8, Scenario C): minimum-layer-time enforcement
// slows extrusion down (speed factor below 1.0) so a too-fast layer's
// extrude time stretches to fill the remaining budget, without needing
// extra_time wait.
func TestEnforceMinimumLayerTimeScalesSpeedDown(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	plan.TimeEstimates = planning.TimeEstimates{Extrude: 2}

	cfg := settings.CoolingConfig{MinLayerTime: 10, MinSpeed: 5, FanSpeedMax: 100, FanSpeedMin: 0}
	EnforceMinimumLayerTime(plan, cfg)

	if plan.ExtrudeSpeedFactor >= 1 {
		t.Errorf("expected the extrude_speed_factor to drop below 1.0 to stretch a short layer, got %v", plan.ExtrudeSpeedFactor)
	}
	total := TotalTime(plan.TimeEstimates)
	if total < cfg.MinLayerTime-1e-9 || plan.ExtraTime > 1e-9 {
		t.Errorf("expected the stretched extrude time to reach min_layer_time without leftover extra_time")
	}
}

// When the nominal speed floor (cool_min_speed) would otherwise be
// breached, the chosen factor must be clamped so no path goes slower than
// MinSpeed, falling back to extra_time for the remainder.
func TestEnforceMinimumLayerTimeClampsAtMinSpeed(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	plan.TimeEstimates = planning.TimeEstimates{Extrude: 2}
	rec := plan.Container.LatestWithConfig(wallCfg(10), 1.0, false, 1.0, "mesh1")
	rec.Points = geometry.Path{geometry.NewPoint(0, 0), geometry.NewPoint(1000, 0)}

	cfg := settings.CoolingConfig{MinLayerTime: 10, MinSpeed: 8}
	EnforceMinimumLayerTime(plan, cfg)

	minEffective := float64(cfg.MinSpeed) - 1e-9
	if float64(10)*plan.ExtrudeSpeedFactor < minEffective {
		t.Errorf("expected the clamp to keep effective speed at or above cool_min_speed, got factor %v", plan.ExtrudeSpeedFactor)
	}
}

func TestEnforceMinimumLayerTimeNoopWhenAlreadySlowEnough(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	plan.TimeEstimates = planning.TimeEstimates{Extrude: 20}
	cfg := settings.CoolingConfig{MinLayerTime: 10}

	EnforceMinimumLayerTime(plan, cfg)
	if plan.ExtrudeSpeedFactor != 1.0 {
		t.Errorf("expected no speed adjustment for a layer already above min_layer_time, got %v", plan.ExtrudeSpeedFactor)
	}
}

func TestEnforceMinimumLayerTimeRecordsExtraTimeWhenNoExtrusion(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	plan.TimeEstimates = planning.TimeEstimates{RetractedTravel: 2}
	cfg := settings.CoolingConfig{MinLayerTime: 10}

	EnforceMinimumLayerTime(plan, cfg)
	if plan.ExtraTime <= 0 {
		t.Errorf("expected extra_time to be recorded when there's no extrusion to slow down, got %v", plan.ExtraTime)
	}
}

func TestFanSpeedInterpolatesBetweenThresholds(t *testing.T) {
	cfg := settings.CoolingConfig{
		MinLayerTime:            5,
		MinLayerTimeFanSpeedMax: 10,
		FanSpeedMin:             50,
		FanSpeedMax:             100,
		FanFullLayer:            0,
	}

	if got := FanSpeed(2, cfg, 5, false); got != cfg.FanSpeedMax {
		t.Errorf("expected full fan speed below min_layer_time, got %v", got)
	}
	if got := FanSpeed(20, cfg, 5, false); got != cfg.FanSpeedMin {
		t.Errorf("expected fan_speed_min above min_layer_time_fan_speed_max, got %v", got)
	}
	mid := FanSpeed(7.5, cfg, 5, false)
	if mid <= cfg.FanSpeedMin || mid >= cfg.FanSpeedMax {
		t.Errorf("expected an interpolated fan speed strictly between min and max, got %v", mid)
	}
}

func TestFanSpeedBlendsTowardLayer0ForEarlyLayers(t *testing.T) {
	cfg := settings.CoolingConfig{
		MinLayerTime:            5,
		MinLayerTimeFanSpeedMax: 10,
		FanSpeedMin:             50,
		FanSpeedMax:             100,
		FanSpeedLayer0:          0,
		FanFullLayer:            4,
	}
	speed := FanSpeed(2, cfg, 0, false)
	if speed != cfg.FanSpeedLayer0 {
		t.Errorf("expected layer 0 to use fan_speed_0 exactly, got %v", speed)
	}
	speedOnRaft := FanSpeed(2, cfg, 0, true)
	if speedOnRaft != cfg.FanSpeedMax {
		t.Errorf("expected raft layers to skip the layer-0 blend, got %v", speedOnRaft)
	}
}
