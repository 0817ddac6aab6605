package cooling

import (
	"testing"

	"layercore/geometry"
	"layercore/planning"
	"layercore/settings"
)

func settingsTwoExtruders(t *testing.T) *settings.Scene {
	t.Helper()
	return settings.NewScene(2, nil)
}

func TestScheduleExtruderSwitchInsertsBothSides(t *testing.T) {
	scene := settingsTwoExtruders(t)
	outgoing := planning.NewExtruderPlan(0, 0, false, false)
	outgoing.Container.LatestWithConfig(wallCfg(60), 1.0, false, 1.0, "mesh1")

	incoming := planning.NewExtruderPlan(1, 0, false, false)
	incoming.RequiredStartTemperature = 210
	incoming.PreviousExtruderStandbyTemperature = 150

	ScheduleExtruderSwitch(outgoing, incoming, scene.Extruders[0], scene.Extruders[1], 30, false)

	incomingInserts := incoming.TemperatureInserts()
	if len(incomingInserts) != 1 || incomingInserts[0].Index != 0 || incomingInserts[0].Temperature != 210 {
		t.Fatalf("expected a single insert at path index 0 targeting 210, got %+v", incomingInserts)
	}

	outgoingInserts := outgoing.TemperatureInserts()
	if len(outgoingInserts) != 1 {
		t.Fatalf("expected a single standby insert on the outgoing plan, got %+v", outgoingInserts)
	}
	if outgoingInserts[0].Index != len(outgoing.Paths()) {
		t.Errorf("expected the outgoing insert keyed at the plan's path count, got %d", outgoingInserts[0].Index)
	}
}

func TestScheduleExtruderSwitchWaitsWhenWindowTooShort(t *testing.T) {
	scene := settingsTwoExtruders(t)
	outgoing := planning.NewExtruderPlan(0, 0, false, false)
	incoming := planning.NewExtruderPlan(1, 0, false, false)
	incoming.RequiredStartTemperature = 210
	incoming.PreviousExtruderStandbyTemperature = 150

	ScheduleExtruderSwitch(outgoing, incoming, scene.Extruders[0], scene.Extruders[1], 0, false)

	inserts := incoming.TemperatureInserts()
	if len(inserts) != 1 || !inserts[0].Wait {
		t.Fatalf("expected the incoming insert to block (wait) when the window is too short, got %+v", inserts)
	}
}

func TestApplyTemperatureInsertsEmitsInIndexOrder(t *testing.T) {
	plan := planning.NewExtruderPlan(0, 0, false, false)
	plan.InsertTemperatureChange(3, 210, false)
	plan.InsertTemperatureChange(1, 200, true)

	var seen []int
	ApplyTemperatureInserts(plan, func(pathIndex int, temp geometry.Temperature, wait bool) {
		seen = append(seen, pathIndex)
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 3 {
		t.Errorf("expected inserts emitted in non-decreasing index order, got %v", seen)
	}
}
