// Package planning implements the path container, extruder plan and
// layer plan state machine (spec C6/C7): the in-memory representation of
// one layer's printhead motions and the entry points that build it up
// from higher-level geometry, calling into the comb package for every
// travel. Grounded on the teacher's gcode/renderer and slicer/slice
// layer-building idiom (renderer/layer.go, slicer/slice/layer.go), with
// domain semantics from original_source/src/LayerPlan.{h,cpp}.
package planning

import (
	"layercore/geometry"
)

// MotionKind distinguishes a travel move from an extrusion move.
type MotionKind int

const (
	KindTravel MotionKind = iota
	KindExtrusion
)

// FeatureTag classifies a motion record by the printed feature it belongs
// to (spec §3), driving speed/fan presets downstream.
type FeatureTag int

const (
	FeatureOuterWall FeatureTag = iota
	FeatureInnerWall
	FeatureSkin
	FeatureRoofing
	FeatureIroning
	FeatureInfill
	FeatureSupport
	FeatureSupportInterface
	FeatureSkirtBrim
	FeaturePrimeTower
	FeatureTravel
	FeatureMoveRetraction
	FeatureMoveCombing
)

// NonMeshID is the sentinel mesh_id for motion records not attributable to
// a specific mesh (travels, skirts, supports).
const NonMeshID = "non-mesh"

// FeatureConfig bundles the per-feature print parameters a path is
// extruded with; two adjacent paths may only merge when these match
// (spec §4.6 invariant) along with a matching mesh ID.
type FeatureConfig struct {
	Tag            FeatureTag
	LineWidth      geometry.Micrometer
	LayerThickness geometry.Micrometer
	NominalSpeed   geometry.Velocity
	Acceleration   geometry.Acceleration
	Jerk           geometry.Jerk
}

// Equal reports whether two configs are merge-compatible.
func (c FeatureConfig) Equal(o FeatureConfig) bool {
	return c.Tag == o.Tag && c.LineWidth == o.LineWidth && c.LayerThickness == o.LayerThickness &&
		c.NominalSpeed == o.NominalSpeed && c.Acceleration == o.Acceleration && c.Jerk == o.Jerk
}

// MotionRecord is the unit of the path container (spec C6, §3).
type MotionRecord struct {
	Kind               MotionKind
	Points             geometry.Path
	Config             FeatureConfig
	MeshID             string
	FlowRatio          geometry.Ratio
	SpeedFactor        float64
	BackPressureFactor float64

	Retract                bool
	UnretractBeforeLastMove bool
	PerformZHop            bool
	PerformPrime           bool
	Spiralize              bool
	FanSpeed               *geometry.Ratio

	Done                    bool
	SkipAggressiveMergeHint bool

	// CoastTail and CoastSpeed are filled in by the coasting post-processor
	// (spec §4.9): CoastTail holds the points trimmed from the end of
	// Points and re-emitted as a non-extruding travel at CoastSpeed.
	CoastTail  geometry.Path
	CoastSpeed geometry.Velocity

	// PointZ holds a per-point Z override for spiralize_wall_slice's
	// continuously rising layer (spec §4.7); empty for every other path,
	// which prints flat at the layer plan's LayerZ.
	PointZ []geometry.Micrometer
}

// LineWidth and LayerThickness are convenience accessors mirroring the
// flattened fields spec §3 lists directly on the motion record.
func (m *MotionRecord) LineWidth() geometry.Micrometer      { return m.Config.LineWidth }
func (m *MotionRecord) LayerThickness() geometry.Micrometer { return m.Config.LayerThickness }

// Last returns the record's final point, or ok=false if it has none yet.
func (m *MotionRecord) Last() (geometry.Point, bool) {
	if len(m.Points) == 0 {
		return geometry.Point{}, false
	}
	return m.Points[len(m.Points)-1], true
}
