package planning

import (
	"layercore/geometry"
)

// WallJunction is one vertex of a wall polyline, carrying its own local
// width (spec §4.7 add_wall's "junctions").
type WallJunction struct {
	Point geometry.Point
	Width geometry.Micrometer
}

// BridgeConfig bundles the bridge-specific print parameters add_wall
// switches to when a segment crosses bridge_wall_mask (spec §6
// "bridge_wall_min_length, bridge_wall_coast, wall_overhang_speed_factor,
// bridge_fan_speed, bridge_wall_material_flow").
type BridgeConfig struct {
	FeatureConfig FeatureConfig
	MinLength     geometry.Micrometer
	Coast         geometry.Ratio
	FanSpeed      geometry.Ratio
	MaterialFlow  geometry.Ratio
}

// bridgeRamp is the small state machine carried across segments of one
// add_wall call, accelerating the recovering speed factor by ×(1/0.75)
// per wall segment after a bridge ends (SPEC_FULL supplement 3). Segments
// are not split into 1 mm pieces, so each step applies to one whole
// segment whatever its length.
type bridgeRamp struct {
	active          bool
	factor          float64
	nonBridgeVolume float64 // mm-length * mm-width accumulator, reset after a bridge
}

func newBridgeRamp() *bridgeRamp { return &bridgeRamp{factor: 1} }

// maxNonBridgeVolume caps the pre-bridge coasting accumulator, mirroring
// the original's accumulated-volume cap on the coast distance.
const maxNonBridgeVolume = 100.0

// AddWall implements spec §4.7's add_wall: walk junctions from start,
// emitting bridge-config extrusions over segments inside bridgeMask,
// coasting the start of the segment that first enters a bridge, and
// ramping the speed factor back up over subsequent segments after
// leaving one.
func (lp *LayerPlan) AddWall(junctions []WallJunction, start int, nonBridgeCfg FeatureConfig, bridge BridgeConfig, bridgeMask geometry.Paths, flowRatio geometry.Ratio, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	n := len(junctions)
	if n < 2 {
		return
	}
	ordered := make([]WallJunction, n)
	for i := 0; i < n; i++ {
		ordered[i] = junctions[(start+i)%n]
	}

	lp.prepareTravelSupportFlag(nonBridgeCfg.Tag)
	lp.AddTravel(ordered[0].Point, false, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)

	ramp := newBridgeRamp()
	for i := 1; i <= n; i++ {
		from := ordered[i-1].Point
		to := ordered[i%n].Point
		lp.addWallSegment(from, to, nonBridgeCfg, bridge, bridgeMask, flowRatio, ramp)
	}

	lp.currentPlan().Container.ForceNewPathStart()
	lp.markFeature(nonBridgeCfg.Tag)
	last := ordered[0].Point
	lp.LastPlannedPosition = &last
}

func (lp *LayerPlan) addWallSegment(from, to geometry.Point, nonBridgeCfg FeatureConfig, bridge BridgeConfig, bridgeMask geometry.Paths, flowRatio geometry.Ratio, ramp *bridgeRamp) {
	isBridge := len(bridgeMask) > 0 && segmentIsBridge(from, to, bridgeMask)

	if isBridge {
		bridgeStart := from
		if !ramp.active {
			bridgeStart = lp.coastIntoBridge(from, to, bridge.Coast, ramp)
		}
		rec := lp.extrusionRecord(bridge.FeatureConfig, flowRatio*bridge.MaterialFlow, false, lp.currentPlan().ExtrudeSpeedFactor, lp.CurrentMeshID)
		if len(rec.Points) == 0 {
			rec.Points = append(rec.Points, bridgeStart)
		}
		lp.currentPlan().Container.AppendExtrusion(to)
		if bridge.FanSpeed > 0 {
			SetFan(rec, bridge.FanSpeed)
		}
		ramp.active = true
		ramp.factor = 0.75
		ramp.nonBridgeVolume = 0
		return
	}

	ramp.active = false

	speedFactor := ramp.factor
	rec := lp.extrusionRecord(nonBridgeCfg, flowRatio, false, speedFactor, lp.CurrentMeshID)
	if len(rec.Points) == 0 {
		rec.Points = append(rec.Points, from)
	}
	lp.currentPlan().Container.AppendExtrusion(to)

	segLen := from.Dist(to).ToMillimeter()
	ramp.nonBridgeVolume += float64(segLen) * float64(nonBridgeCfg.LineWidth.ToMillimeter())
	if ramp.nonBridgeVolume > maxNonBridgeVolume {
		ramp.nonBridgeVolume = maxNonBridgeVolume
	}
	if ramp.factor < 1 {
		ramp.factor /= 0.75
		if ramp.factor > 1 {
			ramp.factor = 1
		}
	}
}

// coastIntoBridge implements the "prior to entering a bridge the
// preceding non-bridge segment may be coasted (extrusion factor 0) over a
// distance proportional to accumulated non-bridge volume" rule (spec
// §4.7), applied to the start of the segment that first crosses into the
// bridge: it emits a zero-flow travel from from to a split point,
// returning the split point the bridge extrusion should start from.
func (lp *LayerPlan) coastIntoBridge(from, to geometry.Point, coastRatio geometry.Ratio, ramp *bridgeRamp) geometry.Point {
	coastDistMM := ramp.nonBridgeVolume * float64(coastRatio) / 40.0
	coastDist := geometry.Millimeter(coastDistMM).ToMicrometer()
	segLen := from.Dist(to)
	if coastDist <= 0 || segLen <= 0 {
		return from
	}
	if coastDist > segLen {
		coastDist = segLen
	}
	frac := float64(coastDist) / float64(segLen)
	split := from.Add(to.Sub(from).Mul(frac))

	lp.currentPlan().Container.ForceNewPathStart()
	coast := &MotionRecord{Kind: KindTravel, Points: geometry.Path{from, split}}
	coast.Config.Tag = FeatureMoveCombing
	coast.MeshID = lp.CurrentMeshID
	lp.currentPlan().Container.AppendTravel(coast)
	return split
}

func segmentIsBridge(from, to geometry.Point, mask geometry.Paths) bool {
	mid := from.Add(to).Mul(0.5)
	for _, poly := range mask {
		if geometry.PointInPolygon(mid, poly) {
			return true
		}
	}
	return false
}
