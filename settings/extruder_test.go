package settings

import "testing"

func TestRetractionDefaults(t *testing.T) {
	scn := NewScene(1, nil)
	r := scn.Extruders[0].Retraction()
	if !r.Enabled {
		t.Error("expected retraction enabled by default")
	}
	if r.Distance <= 0 {
		t.Error("expected a positive default retraction distance")
	}
}

func TestRetractionRespectsOverride(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Extruders[0].Set("retraction_enable", "false")
	r := scn.Extruders[0].Retraction()
	if r.Enabled {
		t.Error("expected retraction_enable=false to disable retraction")
	}
}

func TestPrintTemperatureUsesLayer0Override(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Extruders[0].Set("material_print_temperature", "200")
	scn.Extruders[0].Set("material_print_temperature_layer_0", "210")

	if got := scn.Extruders[0].PrintTemperature(1.0, true); got != 210 {
		t.Errorf("expected the layer-0 override on the initial layer, got %v", got)
	}
	if got := scn.Extruders[0].PrintTemperature(1.0, false); got != 200 {
		t.Errorf("expected the base print temperature on non-initial layers, got %v", got)
	}
}

func TestPrintTemperatureUsesFlowTempGraphWhenEnabled(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Extruders[0].Set("material_print_temperature", "200")
	scn.Extruders[0].Set("material_flow_dependent_temperature", "true")
	scn.Extruders[0].FlowTempGraph = &FlowTempGraph{Data: []FlowTempDatum{
		{Flow: 1.5, Temp: 10.1},
		{Flow: 25.1, Temp: 40.4},
	}}

	got := scn.Extruders[0].PrintTemperature(1.0, false)
	if got != 10.1 {
		t.Errorf("expected the flow temp graph's clamped endpoint below its range, got %v", got)
	}
}

func TestWipeDefaults(t *testing.T) {
	scn := NewScene(1, nil)
	w := scn.Extruders[0].Wipe()
	if w.Enabled {
		t.Error("expected wipe disabled by default")
	}
}

func TestCoolingDefaults(t *testing.T) {
	scn := NewScene(1, nil)
	c := scn.Extruders[0].Cooling()
	if c.MinLayerTime <= 0 {
		t.Error("expected a positive default min layer time")
	}
	if c.FanSpeedMax <= c.FanSpeedMin {
		t.Error("expected fan_speed_max to default above fan_speed_min")
	}
}
