package planning

import (
	"layercore/comb"
	"layercore/geometry"
	"layercore/order"
)

// SeamConfig picks the start vertex of a closed polygon (spec §4.7,
// SPEC_FULL supplement: seam config strategies).
type SeamConfig struct {
	Strategy  order.SeamStrategy
	FixedSeam geometry.Point
}

// ExtruderEndpoints gives the layer plan the positions an extruder switch
// travels to/from, external settings the caller supplies (spec §4.7).
type ExtruderEndpoints struct {
	EndPosition   geometry.Point
	StartPosition geometry.Point
}

// LayerPlan is the mutable state machine C7 builds up for one layer (spec
// §3, §4.7). Travels issued through AddTravel call into the comb package;
// extruder-switch and wipe travels are appended as straight moves.
type LayerPlan struct {
	LayerIndex     int
	LayerZ         geometry.Micrometer
	FinalTravelZ   geometry.Micrometer
	LayerThickness geometry.Micrometer

	ExtruderPlans []*ExtruderPlan

	CombEngine *comb.Engine

	LastPlannedPosition *geometry.Point
	FirstTravelDest     *geometry.Point
	FirstTravelInside   bool

	firstTravelOfLayer bool

	SkirtBrimDone  map[int]bool
	PrimeTowerDone map[int]bool

	BridgeWallMask geometry.Paths
	OverhangMask   geometry.Paths

	CurrentMeshID string

	endpoints func(extruder int) ExtruderEndpoints

	// pendingPrime is set whenever a travel with Retract=true is appended
	// and cleared on the next extrusion record created, which is primed
	// (spec §3, §8 property 2: every retract is followed by a prime or a
	// new extruder plan).
	pendingPrime bool

	hasLastFeatureTag     bool
	lastFeatureTag        FeatureTag
	nextTravelBothSupport bool
}

// NewLayerPlan starts a layer plan for startExtruder, per the "created
// with the start extruder at layer construction" lifecycle note (spec
// §3).
func NewLayerPlan(layerIndex int, layerZ, finalTravelZ, layerThickness geometry.Micrometer, startExtruder int, isInitial, isRaft bool, comber *comb.Engine, endpoints func(int) ExtruderEndpoints) *LayerPlan {
	lp := &LayerPlan{
		LayerIndex:     layerIndex,
		LayerZ:         layerZ,
		FinalTravelZ:   finalTravelZ,
		LayerThickness: layerThickness,
		CombEngine:     comber,
		SkirtBrimDone:  map[int]bool{},
		PrimeTowerDone: map[int]bool{},
		CurrentMeshID:  NonMeshID,
		endpoints:      endpoints,

		firstTravelOfLayer: true,
	}
	lp.ExtruderPlans = append(lp.ExtruderPlans, NewExtruderPlan(startExtruder, layerIndex, isInitial, isRaft))
	return lp
}

func (lp *LayerPlan) currentPlan() *ExtruderPlan {
	return lp.ExtruderPlans[len(lp.ExtruderPlans)-1]
}

// SetExtruder implements spec §4.7's set_extruder: it closes the current
// plan and opens index's, inserting the switch travels around it. A
// first-travel-of-layer flag (consumed on first use, per the invariant
// that the first plan of a layer may be empty) suppresses the
// end-position travel.
func (lp *LayerPlan) SetExtruder(index int) {
	prev := lp.currentPlan()
	if prev.ExtruderIndex == index {
		return
	}

	if !lp.firstTravelOfLayer {
		ep := lp.endpoints(prev.ExtruderIndex)
		lp.addTravelRaw(ep.EndPosition, true)
	}
	prev.Container.ForceNewPathStart()

	lp.ExtruderPlans = append(lp.ExtruderPlans, NewExtruderPlan(index, lp.LayerIndex, prev.IsInitialLayer, prev.IsRaftLayer))

	ep := lp.endpoints(index)
	lp.addTravelRaw(ep.StartPosition, true)
	lp.firstTravelOfLayer = false
}

// AddTravel is the universal travel path (spec §4.7): it consults the
// combing engine, falling back to a straight retracted travel when
// combing fails or forceRetract is set, and enforces
// retraction_min_travel_distance.
func (lp *LayerPlan) AddTravel(dest geometry.Point, forceRetract bool, retractionMinTravelDistance geometry.Micrometer, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) *MotionRecord {
	start, hadStart := lp.startPoint()
	if !hadStart {
		lp.recordFirstTravel(dest)
	}

	rec := &MotionRecord{Kind: KindTravel}
	rec.Config.Tag = FeatureTravel
	rec.MeshID = NonMeshID

	bothSupport := lp.nextTravelBothSupport
	lp.nextTravelBothSupport = false

	if !forceRetract && lp.CombEngine != nil && hadStart {
		startInside := lp.CombEngine != nil
		result, ok := lp.CombEngine.Plan(start, dest, startInside, true, maxIgnoreDistance, bothSupport)
		if ok {
			rec.Points = flattenCombPaths(result.Paths)
			rec.Retract = result.Retract
			rec.UnretractBeforeLastMove = result.UnretractBeforeLastMove
			rec.PerformZHop = result.Retract && zHopEnabled
			lp.appendTravel(rec)
			return rec
		}
	}

	dist := geometry.Micrometer(0)
	if hadStart {
		dist = start.Dist(dest)
	}
	retract := forceRetract || dist > retractionMinTravelDistance
	rec.Points = geometry.Path{dest}
	rec.Retract = retract
	rec.PerformZHop = retract && zHopEnabled
	lp.appendTravel(rec)
	return rec
}

func (lp *LayerPlan) addTravelRaw(dest geometry.Point, retract bool) *MotionRecord {
	rec := &MotionRecord{Kind: KindTravel, Points: geometry.Path{dest}, Retract: retract}
	rec.Config.Tag = FeatureTravel
	rec.MeshID = NonMeshID
	lp.appendTravel(rec)
	return rec
}

func (lp *LayerPlan) appendTravel(rec *MotionRecord) {
	lp.currentPlan().Container.AppendTravel(rec)
	if rec.Retract {
		lp.pendingPrime = true
	}
	if len(rec.Points) > 0 {
		p := rec.Points[len(rec.Points)-1]
		lp.LastPlannedPosition = &p
	}
}

// extrusionRecord is the single gateway every C7 entry point uses to get
// its tail extrusion record, so that the first extrusion appended after a
// retracted travel is always primed (spec §3 "any retraction's matching
// prime appears later in the same plan", §8 property 2).
func (lp *LayerPlan) extrusionRecord(cfg FeatureConfig, flow geometry.Ratio, spiralize bool, speedFactor float64, meshID string) *MotionRecord {
	rec := lp.currentPlan().Container.LatestWithConfig(cfg, flow, spiralize, speedFactor, meshID)
	if lp.pendingPrime {
		rec.PerformPrime = true
		lp.pendingPrime = false
	}
	return rec
}

// markFeature records tag as the feature just finished extruding, so the
// next travel can tell whether it runs support-to-support (spec §4.4's
// retract-decision special case).
func (lp *LayerPlan) markFeature(tag FeatureTag) {
	lp.lastFeatureTag = tag
	lp.hasLastFeatureTag = true
}

// prepareTravelSupportFlag records, for the travel about to be issued by
// AddTravel, whether both its source and destination features are
// support - the one case spec §4.4 suppresses retract for even though the
// travel crosses open air.
func (lp *LayerPlan) prepareTravelSupportFlag(destTag FeatureTag) {
	lp.nextTravelBothSupport = lp.hasLastFeatureTag && lp.lastFeatureTag == FeatureSupport && destTag == FeatureSupport
}

func (lp *LayerPlan) recordFirstTravel(dest geometry.Point) {
	lp.FirstTravelDest = &dest
	lp.FirstTravelInside = false
}

func (lp *LayerPlan) startPoint() (geometry.Point, bool) {
	if lp.LastPlannedPosition == nil {
		return geometry.Point{}, false
	}
	return *lp.LastPlannedPosition, true
}

func flattenCombPaths(paths []comb.CombPath) geometry.Path {
	var out geometry.Path
	for _, p := range paths {
		out = append(out, p.Points...)
	}
	return out
}

// AddPolygon implements spec §4.7's add_polygon: travel to the start
// vertex, extrude around the polygon in the chosen direction, then an
// outer-wall wipe of wipeDistance without extrusion.
func (lp *LayerPlan) AddPolygon(poly geometry.Polygon, startIndex int, reverse bool, cfg FeatureConfig, wipeDistance geometry.Micrometer, spiralize bool, flowRatio geometry.Ratio, alwaysRetract bool, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	if len(poly) == 0 {
		return
	}
	ordered := orientPolygon(poly, startIndex, reverse)

	lp.prepareTravelSupportFlag(cfg.Tag)
	lp.AddTravel(ordered[0], alwaysRetract, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)

	rec := lp.extrusionRecord(cfg, flowRatio, spiralize, lp.currentPlan().ExtrudeSpeedFactor, lp.CurrentMeshID)
	if len(rec.Points) == 0 {
		rec.Points = append(rec.Points, ordered[0])
	}
	for _, p := range ordered[1:] {
		lp.currentPlan().Container.AppendExtrusion(p)
	}
	lp.currentPlan().Container.AppendExtrusion(ordered[0])
	lp.currentPlan().Container.ForceNewPathStart()
	lp.markFeature(cfg.Tag)
	last := ordered[0]
	lp.LastPlannedPosition = &last

	if wipeDistance > 0 {
		lp.wipeAlong(ordered, wipeDistance)
	}
}

func orientPolygon(poly geometry.Polygon, startIndex int, reverse bool) geometry.Polygon {
	n := len(poly)
	out := make(geometry.Polygon, n)
	for i := 0; i < n; i++ {
		idx := startIndex + i
		if reverse {
			idx = startIndex - i
		}
		idx = ((idx % n) + n) % n
		out[i] = poly[idx]
	}
	return out
}

// wipeAlong appends a non-extruding travel that continues along the same
// direction the polygon closed on, for wipeDistance.
func (lp *LayerPlan) wipeAlong(ordered geometry.Polygon, wipeDistance geometry.Micrometer) {
	if len(ordered) < 2 {
		return
	}
	a, b := ordered[0], ordered[1]
	dir := b.Sub(a).Normal(wipeDistance)
	dest := a.Add(dir)
	lp.addTravelRaw(dest, false)
}

// AddPolygonsByOptimizer implements spec §4.7's add_polygons_by_optimizer:
// order polygons by a path-order optimizer with seam preference, then
// AddPolygon each.
func (lp *LayerPlan) AddPolygonsByOptimizer(polys geometry.Polygons, cfg FeatureConfig, seam SeamConfig, wipeDistance geometry.Micrometer, spiralize bool, flowRatio geometry.Ratio, alwaysRetract bool, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	start, _ := lp.startPoint()
	ordered := order.OptimizePolygons(polys, start, seam.Strategy, seam.FixedSeam)
	for _, item := range ordered {
		lp.AddPolygon(polys[item.Index], item.StartIndex, item.Reverse, cfg, wipeDistance, spiralize, flowRatio, alwaysRetract, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)
	}
}

// AddLinesByOptimizer implements spec §4.7's add_lines_by_optimizer:
// shortest-path ordering of open polylines, travelling and optionally
// wiping between them.
func (lp *LayerPlan) AddLinesByOptimizer(lines geometry.Paths, cfg FeatureConfig, wipeDistance geometry.Micrometer, flowRatio geometry.Ratio, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	start, _ := lp.startPoint()
	ordered := order.OptimizeLinesShortest(lines, start)
	lp.emitLines(ordered, cfg, wipeDistance, flowRatio, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)
}

// AddLinesMonotonic implements spec §4.7's add_lines_monotonic: lines are
// ordered to progress monotonically along axis, never splitting adjacent
// lines between non-adjacent sections of the traversal.
func (lp *LayerPlan) AddLinesMonotonic(lines geometry.Paths, axis geometry.Point, cfg FeatureConfig, wipeDistance geometry.Micrometer, flowRatio geometry.Ratio, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	ordered := order.OptimizeLinesMonotonic(lines, axis)
	lp.emitLines(ordered, cfg, wipeDistance, flowRatio, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)
}

// SpiralizeWallSlice implements spec §4.7's spiralize_wall_slice: a
// single continuous polyline around wall whose Z rises linearly along
// arc length from zStart to zEnd; each point is pulled toward the
// closest point on previousWall, with the pull strength fading from full
// at the start of the loop to none at the end, morphing the spiral
// smoothly out of the previous layer's wall shape.
func (lp *LayerPlan) SpiralizeWallSlice(wall, previousWall geometry.Polygon, cfg FeatureConfig, flowRatio geometry.Ratio, zStart, zEnd geometry.Micrometer, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	if len(wall) == 0 {
		return
	}
	lp.prepareTravelSupportFlag(cfg.Tag)
	lp.AddTravel(wall[0], false, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)
	rec := lp.extrusionRecord(cfg, flowRatio, true, lp.currentPlan().ExtrudeSpeedFactor, lp.CurrentMeshID)

	total := wall.ClosedLength()
	if len(rec.Points) == 0 {
		rec.Points = append(rec.Points, wall[0])
		rec.PointZ = append(rec.PointZ, zStart)
	}

	acc := geometry.Micrometer(0)
	prev := wall[0]
	n := len(wall)
	for i := 1; i <= n; i++ {
		cur := wall[i%n]
		acc += prev.Dist(cur)
		frac := 0.0
		if total > 0 {
			frac = float64(acc) / float64(total)
		}
		z := zStart + geometry.Micrometer(float64(zEnd-zStart)*frac)

		pt := cur
		if len(previousWall) > 0 {
			closest, ok := geometry.ClosestPointOnPolyline(cur, previousWall, true)
			if ok {
				pull := 1 - frac
				pt = cur.Mul(1 - pull).Add(closest.Point.Mul(pull))
			}
		}

		lp.currentPlan().Container.AppendExtrusion(pt)
		rec.PointZ = append(rec.PointZ, z)
		prev = cur
	}

	lp.currentPlan().Container.ForceNewPathStart()
	lp.markFeature(cfg.Tag)
	last := rec.Points[len(rec.Points)-1]
	lp.LastPlannedPosition = &last
}

func (lp *LayerPlan) emitLines(lines geometry.Paths, cfg FeatureConfig, wipeDistance geometry.Micrometer, flowRatio geometry.Ratio, retractionMinTravelDistance, maxIgnoreDistance geometry.Micrometer, zHopEnabled bool) {
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		lp.prepareTravelSupportFlag(cfg.Tag)
		lp.AddTravel(line[0], false, retractionMinTravelDistance, maxIgnoreDistance, zHopEnabled)
		rec := lp.extrusionRecord(cfg, flowRatio, false, lp.currentPlan().ExtrudeSpeedFactor, lp.CurrentMeshID)
		if len(rec.Points) == 0 {
			rec.Points = append(rec.Points, line[0])
		}
		for _, p := range line[1:] {
			lp.currentPlan().Container.AppendExtrusion(p)
		}
		lp.currentPlan().Container.ForceNewPathStart()
		lp.markFeature(cfg.Tag)
		last := line[len(line)-1]
		lp.LastPlannedPosition = &last

		if wipeDistance > 0 && len(line) >= 2 {
			a, b := line[len(line)-1], line[len(line)-2]
			dir := a.Sub(b).Normal(wipeDistance)
			lp.addTravelRaw(a.Add(dir), false)
		}
	}
}
