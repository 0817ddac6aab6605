package settings

import (
	"errors"
	"testing"
)

func TestStoreSetAndGetString(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Set("key", "value")
	got, err := scn.Store().GetString("key")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}

func TestStoreGetStringMissingReturnsConfigError(t *testing.T) {
	scn := NewScene(1, nil)
	_, err := scn.Store().GetString("missing")
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a *ConfigError, got %T: %v", err, err)
	}
	if ce.Key != "missing" {
		t.Errorf("expected the error to name the missing key, got %q", ce.Key)
	}
}

func TestStoreInheritsFromParentSceneToExtruder(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Set("wall_line_width_0", "0.5")
	got := scn.Extruders[0].Store().GetMicrometerOr("wall_line_width_0", 0.1)
	if got != 500 {
		t.Errorf("expected the extruder to inherit the scene-level setting (500um), got %v", got)
	}
}

func TestStoreExtruderOverridesScene(t *testing.T) {
	scn := NewScene(2, nil)
	scn.Set("wall_line_width_0", "0.5")
	scn.Extruders[1].Set("wall_line_width_0", "0.8")

	got0 := scn.Extruders[0].Store().GetMicrometerOr("wall_line_width_0", 0.1)
	got1 := scn.Extruders[1].Store().GetMicrometerOr("wall_line_width_0", 0.1)
	if got0 != 500 {
		t.Errorf("expected extruder 0 to keep the scene default, got %v", got0)
	}
	if got1 != 800 {
		t.Errorf("expected extruder 1's override to shadow the scene default, got %v", got1)
	}
}

func TestStoreMeshInheritsFromItsAssignedExtruder(t *testing.T) {
	scn := NewScene(2, nil)
	scn.Extruders[1].Set("wall_line_width_0", "0.9")
	mesh := NewMesh("mesh1", scn, scn.Extruders[1])

	got := mesh.Store().GetMicrometerOr("wall_line_width_0", 0.1)
	if got != 900 {
		t.Errorf("expected the mesh to inherit its assigned extruder's value, got %v", got)
	}
}

func TestStoreLimitToExtruderRedirectsLookup(t *testing.T) {
	scn := NewScene(2, nil)
	scn.Extruders[0].Set("support_infill_extruder_nr", "ignored")
	scn.Extruders[1].Set("support_infill_extruder_nr", "1")
	scn.LimitSetting("support_infill_extruder_nr", scn.Extruders[1])

	mesh := NewMesh("mesh1", scn, scn.Extruders[0])
	got := mesh.Store().GetStringOr("support_infill_extruder_nr", "fallback")
	if got != "1" {
		t.Errorf("expected limit_to_extruder to redirect the lookup to extruder 1's value, got %q", got)
	}
}

func TestStoreGetBoolAcceptedSpellings(t *testing.T) {
	scn := NewScene(1, nil)
	for _, v := range []string{"on", "yes", "true", "True", "1"} {
		scn.Set("flag", v)
		if !scn.Store().GetBoolOr("flag", false) {
			t.Errorf("expected %q to parse as true", v)
		}
	}
	scn.Set("flag", "nope")
	if scn.Store().GetBoolOr("flag", true) {
		t.Error("expected an unrecognized spelling to parse as false")
	}
}

func TestStoreGetRatioConvertsPercent(t *testing.T) {
	scn := NewScene(1, nil)
	scn.Set("cool_fan_speed_max", "80")
	got := scn.Store().GetRatioOr("cool_fan_speed_max", 0)
	if got != 0.8 {
		t.Errorf("expected 80%% to convert to ratio 0.8, got %v", got)
	}
}
