package cooling

import (
	"layercore/geometry"
	"layercore/planning"
	"layercore/settings"
)

// ScheduleExtruderSwitch implements spec §4.8's preheat scheduling for one
// extruder switch within a layer: it schedules a temperature_insert into
// incoming's plan so the nozzle reaches requiredStartTemperature by the
// plan's first extrusion, and an insert into outgoing's plan lowering it
// to its standby temperature as soon as possible after the switch
// (grounded on original_source/src/Preheat.cpp's warm-up/cool-down point
// solvers, consumed the way
// include/path_processing/ExtruderPlanScheduler.h describes: inserts keyed
// by path index, draining in index order via
// ExtruderPlan.TemperatureInserts).
func ScheduleExtruderSwitch(outgoing, incoming *planning.ExtruderPlan, outgoingExtruder, incomingExtruder *settings.Extruder, timeWindow geometry.Duration, duringPrinting bool) {
	requiredStart := incoming.RequiredStartTemperature
	standby := outgoingExtruder.StandbyTemperature()

	// If the idle window was too short to fully preheat, the first
	// extrusion must block (M109-style wait) until the target is reached;
	// otherwise the nozzle already arrived at requiredStart in time and
	// the insert is fire-and-forget.
	warmUp := WarmUpPointAfterCoolDown(incomingExtruder, timeWindow, incoming.PreviousExtruderStandbyTemperature, standby, requiredStart, duringPrinting)
	directHeat := TimeToGoFromTempToTemp(incomingExtruder, incoming.PreviousExtruderStandbyTemperature, requiredStart, duringPrinting)
	wait := warmUp.HeatingTime >= timeWindow || directHeat > timeWindow

	incoming.InsertTemperatureChange(0, requiredStart, wait)
	outgoing.InsertTemperatureChange(len(outgoing.Paths()), standby, false)
}

// ApplyTemperatureInserts walks plan's scheduled inserts in path-index
// order (TemperatureInserts already drains the heap sorted) and tags the
// target path's config with the temperature to emit, by invoking emit for
// every insert. The core itself only schedules the data; converting it to
// device commands is the writer's job (spec §6 "a g-code writer converts
// those to device commands").
func ApplyTemperatureInserts(plan *planning.ExtruderPlan, emit func(pathIndex int, temp geometry.Temperature, wait bool)) {
	for _, ins := range plan.TemperatureInserts() {
		emit(ins.Index, ins.Temperature, ins.Wait)
	}
}
