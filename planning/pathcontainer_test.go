package planning

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercore/geometry"
)

func wallConfig() FeatureConfig {
	return FeatureConfig{Tag: FeatureOuterWall, LineWidth: 400, LayerThickness: 200, NominalSpeed: 60}
}

func TestLatestWithConfigMergesCompatibleTail(t *testing.T) {
	c := &PathContainer{}
	a := c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")
	b := c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")

	if a != b {
		t.Error("matching config/mesh/flow on a non-done tail should merge into the same record")
	}
	if len(c.Paths()) != 1 {
		t.Errorf("expected a single path, got %d", len(c.Paths()))
	}
}

func TestLatestWithConfigSplitsOnMismatch(t *testing.T) {
	c := &PathContainer{}
	c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")
	c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh2")

	if len(c.Paths()) != 2 {
		t.Errorf("different mesh IDs should force a new path, got %d paths", len(c.Paths()))
	}
}

func TestForceNewPathStartPreventsMerge(t *testing.T) {
	c := &PathContainer{}
	first := c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")
	c.ForceNewPathStart()
	second := c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")

	if first == second {
		t.Error("ForceNewPathStart should prevent merging into the closed tail")
	}
	if !first.Done {
		t.Error("expected the first path to be marked done")
	}
}

func TestAppendExtrusionAppendsToTail(t *testing.T) {
	c := &PathContainer{}
	c.LatestWithConfig(wallConfig(), 1.0, false, 1.0, "mesh1")
	c.AppendExtrusion(geometry.NewPoint(1000, 1000))
	c.AppendExtrusion(geometry.NewPoint(2000, 2000))

	pts := c.Paths()[0].Points
	want := geometry.Path{geometry.NewPoint(1000, 1000), geometry.NewPoint(2000, 2000)}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Errorf("appended points mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendTravelTagsAsTravel(t *testing.T) {
	c := &PathContainer{}
	rec := &MotionRecord{Config: FeatureConfig{Tag: FeatureOuterWall}}
	c.AppendTravel(rec)

	if rec.Kind != KindTravel {
		t.Error("AppendTravel should set Kind to KindTravel")
	}
	if rec.Config.Tag != FeatureTravel {
		t.Error("AppendTravel should override the feature tag to FeatureTravel")
	}
}

func TestSetters(t *testing.T) {
	rec := &MotionRecord{}
	SetFan(rec, 0.5)
	SetRetract(rec, true)
	SetZHop(rec, true)
	SetPrime(rec, true)

	if rec.FanSpeed == nil || *rec.FanSpeed != 0.5 {
		t.Error("SetFan should set FanSpeed")
	}
	if !rec.Retract || !rec.PerformZHop || !rec.PerformPrime {
		t.Error("expected retract/zhop/prime all set")
	}
}
