package settings

import "layercore/geometry"

// Extruder holds per-extruder settings (§3 "Extruder plan" lists the
// extruder-scoped fields these derive from) and inherits from the scene.
type Extruder struct {
	Index int
	store *Store

	// FlowTempGraph is structured data rather than a flat key, since it is
	// a list of (flow, temperature) pairs (§6 "material_flow_temp_graph").
	// nil means no graph is configured for this extruder.
	FlowTempGraph *FlowTempGraph
}

// Store exposes the extruder-level settings store.
func (e *Extruder) Store() *Store { return e.store }

// Set assigns an extruder-level setting, shadowing the scene default.
func (e *Extruder) Set(key, value string) {
	e.store.Set(key, value)
}

// RetractionConfig is the bundle of retraction-related settings the
// combing engine and layer plan consult for one extruder (spec §3
// "retraction_config_per_extruder").
type RetractionConfig struct {
	Distance               geometry.Micrometer
	Speed                  geometry.Velocity
	PrimeSpeed             geometry.Velocity
	ZHopEnabled            bool
	ZHopHeight             geometry.Micrometer
	HopOnlyWhenCollides    bool
	HopAfterExtruderSwitch bool
	Enabled                bool
	MinTravelDistance      geometry.Micrometer
	CombingMaxDistance     geometry.Micrometer
}

// Retraction resolves this extruder's RetractionConfig.
func (e *Extruder) Retraction() RetractionConfig {
	s := e.store
	return RetractionConfig{
		Distance:               s.GetMicrometerOr("retraction_amount", 6.5),
		Speed:                  s.GetVelocityOr("retraction_retract_speed", 25),
		PrimeSpeed:             s.GetVelocityOr("retraction_prime_speed", 25),
		ZHopEnabled:            s.GetBoolOr("retraction_hop_enabled", false),
		ZHopHeight:             s.GetMicrometerOr("retraction_hop", 0.2),
		HopOnlyWhenCollides:    s.GetBoolOr("retraction_hop_only_when_collides", false),
		HopAfterExtruderSwitch: s.GetBoolOr("retraction_hop_after_extruder_switch", false),
		Enabled:                s.GetBoolOr("retraction_enable", true),
		MinTravelDistance:      s.GetMicrometerOr("retraction_min_travel", 1.5),
		CombingMaxDistance:     s.GetMicrometerOr("retraction_combing_max_distance", 0),
	}
}

// WipeConfig is the bundle of wipe-related settings for one extruder.
type WipeConfig struct {
	Enabled  bool
	Distance geometry.Micrometer
	Speed    geometry.Velocity
}

// Wipe resolves this extruder's WipeConfig.
func (e *Extruder) Wipe() WipeConfig {
	s := e.store
	return WipeConfig{
		Enabled:  s.GetBoolOr("wipe_enabled", false),
		Distance: s.GetMicrometerOr("wipe_retraction_extra_prime_amount", 0),
		Speed:    s.GetVelocityOr("wipe_retraction_speed", 25),
	}
}

// StandbyTemperature is the temperature this extruder is lowered to while
// it waits for a different extruder (§3
// "previous_extruder_standby_temperature").
func (e *Extruder) StandbyTemperature() geometry.Temperature {
	return e.store.GetTemperatureOr("material_standby_temperature", 150)
}

// PrintTemperature resolves the target temperature for a path with the
// given flow ratio and layer-0 flag (§4.8, material_print_temperature /
// material_print_temperature_layer_0 / material_flow_temp_graph /
// material_flow_dependent_temperature), following
// original_source/src/Preheat.cpp's Preheat::getTemp.
func (e *Extruder) PrintTemperature(flow geometry.Ratio, isInitialLayer bool) geometry.Temperature {
	if isInitialLayer {
		if t := e.store.GetTemperatureOr("material_print_temperature_layer_0", 0); t != 0 {
			return t
		}
	}
	base := e.store.GetTemperatureOr("material_print_temperature", 200)
	flowDependent := e.store.GetBoolOr("material_flow_dependent_temperature", false)
	if e.FlowTempGraph == nil || !flowDependent {
		return base
	}
	return e.FlowTempGraph.GetTemp(float64(flow), base, flowDependent)
}

// NozzleHeatUpSpeed is the rate (deg C / s) the nozzle heats at.
func (e *Extruder) NozzleHeatUpSpeed() geometry.Temperature {
	return e.store.GetTemperatureOr("machine_nozzle_heat_up_speed", 2.0)
}

// NozzleCoolDownSpeed is the rate (deg C / s) the nozzle cools at.
func (e *Extruder) NozzleCoolDownSpeed() geometry.Temperature {
	return e.store.GetTemperatureOr("machine_nozzle_cool_down_speed", 2.0)
}

// ExtrusionCoolDownSpeed adjusts heat/cool rates while printing is ongoing
// (material_extrusion_cool_down_speed).
func (e *Extruder) ExtrusionCoolDownSpeed() geometry.Temperature {
	return e.store.GetTemperatureOr("material_extrusion_cool_down_speed", 0.7)
}

// CoolingConfig bundles the minimum-layer-time and fan-speed settings
// C8's time/flow estimator and fan planner consult for one extruder
// (spec §4.8).
type CoolingConfig struct {
	MinLayerTime            geometry.Duration
	MinSpeed                geometry.Velocity
	FanSpeedMin             geometry.Ratio
	FanSpeedMax             geometry.Ratio
	MinLayerTimeFanSpeedMax geometry.Duration
	FanSpeedLayer0          geometry.Ratio
	FanFullLayer            int
}

// Cooling resolves this extruder's CoolingConfig.
func (e *Extruder) Cooling() CoolingConfig {
	s := e.store
	return CoolingConfig{
		MinLayerTime:            s.GetDurationOr("cool_min_layer_time", 5),
		MinSpeed:                s.GetVelocityOr("cool_min_speed", 10),
		FanSpeedMin:             s.GetRatioOr("cool_fan_speed_min", 0),
		FanSpeedMax:             s.GetRatioOr("cool_fan_speed_max", 100),
		MinLayerTimeFanSpeedMax: s.GetDurationOr("cool_min_layer_time_fan_speed_max", 10),
		FanSpeedLayer0:          s.GetRatioOr("cool_fan_speed_0", 0),
		FanFullLayer:            s.GetIntOr("cool_fan_full_layer", 2),
	}
}
