package planning

import (
	"container/heap"

	"layercore/geometry"
)

// TemperatureInsert is a (path_index, temperature, wait) triple to be
// emitted before the path at Index (spec §3, "temperature_inserts").
type TemperatureInsert struct {
	Index       int
	Temperature geometry.Temperature
	Wait        bool
}

// insertQueue is a container/heap.Interface priority queue of
// TemperatureInsert ordered by non-decreasing path index (spec §3
// invariant), grounded on the teacher's general use of container/heap-style
// ordering for scheduling passes.
type insertQueue []TemperatureInsert

func (q insertQueue) Len() int            { return len(q) }
func (q insertQueue) Less(i, j int) bool  { return q[i].Index < q[j].Index }
func (q insertQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *insertQueue) Push(x interface{}) { *q = append(*q, x.(TemperatureInsert)) }
func (q *insertQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// TimeEstimates holds the four time/material buckets spec §3 names.
type TimeEstimates struct {
	Extrude           geometry.Duration
	RetractedTravel   geometry.Duration
	UnretractedTravel geometry.Duration
	MaterialVolume    float64 // mm^3
}

// ExtruderPlan is one contiguous run of motion records on a single
// extruder within a layer (spec §3, C7).
type ExtruderPlan struct {
	ExtruderIndex  int
	LayerIndex     int
	IsInitialLayer bool
	IsRaftLayer    bool

	Container PathContainer

	temperatureInserts insertQueue

	FanSpeed           geometry.Ratio
	ExtrudeSpeedFactor float64

	ExtraTime geometry.Duration

	RequiredStartTemperature           geometry.Temperature
	PreviousExtruderStandbyTemperature geometry.Temperature

	TimeEstimates TimeEstimates
}

// NewExtruderPlan constructs an empty plan for extruderIndex, with
// extrude_speed_factor defaulted to 1.0 per spec §3.
func NewExtruderPlan(extruderIndex, layerIndex int, isInitial, isRaft bool) *ExtruderPlan {
	return &ExtruderPlan{
		ExtruderIndex:      extruderIndex,
		LayerIndex:         layerIndex,
		IsInitialLayer:     isInitial,
		IsRaftLayer:        isRaft,
		ExtrudeSpeedFactor: 1.0,
	}
}

// Paths is the plan's ordered motion records.
func (p *ExtruderPlan) Paths() []*MotionRecord { return p.Container.Paths() }

// InsertTemperatureChange schedules a temperature insert before the path
// currently at pathIndex.
func (p *ExtruderPlan) InsertTemperatureChange(pathIndex int, temp geometry.Temperature, wait bool) {
	heap.Push(&p.temperatureInserts, TemperatureInsert{Index: pathIndex, Temperature: temp, Wait: wait})
}

// TemperatureInserts drains the priority queue in non-decreasing
// path-index order (spec §3 invariant).
func (p *ExtruderPlan) TemperatureInserts() []TemperatureInsert {
	cp := make(insertQueue, len(p.temperatureInserts))
	copy(cp, p.temperatureInserts)
	var out []TemperatureInsert
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(TemperatureInsert))
	}
	return out
}
