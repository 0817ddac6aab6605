package settings

import "testing"

func TestParseCombingModeSpellings(t *testing.T) {
	cases := map[string]CombingMode{
		"all":                CombingAll,
		"no-skin":            CombingNoSkin,
		"no_skin":            CombingNoSkin,
		"no-outer-surfaces":  CombingNoOuterSurfaces,
		"infill":             CombingInfill,
		"off":                CombingOff,
		"unrecognized-value": CombingOff,
	}
	for in, want := range cases {
		if got := ParseCombingMode(in); got != want {
			t.Errorf("ParseCombingMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewSceneBuildsExtrudersInheritingFromScene(t *testing.T) {
	scn := NewScene(3, nil)
	if len(scn.Extruders) != 3 {
		t.Fatalf("expected 3 extruders, got %d", len(scn.Extruders))
	}
	for i, e := range scn.Extruders {
		if e.Index != i {
			t.Errorf("expected extruder %d to have Index %d, got %d", i, i, e.Index)
		}
	}
}

func TestCombingModeDefaultsToAll(t *testing.T) {
	scn := NewScene(1, nil)
	if scn.CombingMode() != CombingAll {
		t.Errorf("expected the default combing mode to be all, got %v", scn.CombingMode())
	}
}
