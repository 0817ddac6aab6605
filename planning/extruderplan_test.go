package planning

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercore/geometry"
)

func TestNewExtruderPlanDefaults(t *testing.T) {
	p := NewExtruderPlan(2, 5, true, false)
	if p.ExtruderIndex != 2 || p.LayerIndex != 5 {
		t.Fatalf("unexpected identity fields: %+v", p)
	}
	if !p.IsInitialLayer || p.IsRaftLayer {
		t.Errorf("expected initial layer flag set and raft flag clear")
	}
	if p.ExtrudeSpeedFactor != 1.0 {
		t.Errorf("expected extrude_speed_factor to default to 1.0, got %v", p.ExtrudeSpeedFactor)
	}
}

func TestTemperatureInsertsDrainInNonDecreasingOrder(t *testing.T) {
	p := NewExtruderPlan(0, 0, false, false)
	p.InsertTemperatureChange(5, geometry.Temperature(200), false)
	p.InsertTemperatureChange(1, geometry.Temperature(210), true)
	p.InsertTemperatureChange(3, geometry.Temperature(205), false)

	inserts := p.TemperatureInserts()
	want := []TemperatureInsert{
		{Index: 1, Temperature: 210, Wait: true},
		{Index: 3, Temperature: 205, Wait: false},
		{Index: 5, Temperature: 200, Wait: false},
	}
	if diff := cmp.Diff(want, inserts); diff != "" {
		t.Fatalf("temperature inserts not in non-decreasing path-index order (-want +got):\n%s", diff)
	}
}

func TestTemperatureInsertsDoesNotDrainTheLiveQueue(t *testing.T) {
	p := NewExtruderPlan(0, 0, false, false)
	p.InsertTemperatureChange(2, geometry.Temperature(200), false)

	first := p.TemperatureInserts()
	second := p.TemperatureInserts()
	if len(first) != len(second) {
		t.Fatalf("calling TemperatureInserts twice should be idempotent, got %d then %d", len(first), len(second))
	}
}

func TestExtruderPlanPaths(t *testing.T) {
	p := NewExtruderPlan(0, 0, false, false)
	p.Container.LatestWithConfig(FeatureConfig{Tag: FeatureInfill}, 1.0, false, 1.0, "mesh1")
	p.Container.AppendExtrusion(geometry.NewPoint(1000, 0))

	if len(p.Paths()) != 1 {
		t.Fatalf("expected 1 path, got %d", len(p.Paths()))
	}
}
