package comb

import (
	"math"
	"sort"

	"layercore/geometry"
	"layercore/gridindex"
)

// PathKind tags a polyline returned by Plan as traveling inside a part's
// boundary or through open air (spec §4.4).
type PathKind int

const (
	PathInsidePart PathKind = iota
	PathThroughAir
)

// CombPath is one polyline of a combing result.
type CombPath struct {
	Kind   PathKind
	Points geometry.Path
}

// EngineConfig carries the machine/material settings the combing algorithm
// needs (spec §4.4, §6).
type EngineConfig struct {
	WallOffset               geometry.Micrometer // distance from preferred boundary to the actual wall surface
	TravelAvoidDistance      geometry.Micrometer
	MoveInsideDistance       geometry.Micrometer
	RetractionCombingMaxDist geometry.Micrometer
	RetractionEnabled        bool
	HopOnlyWhenCollides      bool
	GridCellSize             geometry.Micrometer
}

// snapFailDistance2 is the "2 mm squared distance" limit from spec §4.4
// beyond which the snap-to-inside step must fail (2mm = 2000 micrometres).
const snapFailDistance2 = int64(2000) * int64(2000)

// Engine is a combing engine instance bound to one layer's comb boundaries
// (spec §4.4). It is built once per layer and reused for every travel in
// that layer.
type Engine struct {
	cfg EngineConfig

	minParts  []geometry.LayerPart
	prefParts []geometry.LayerPart
	minIndex  []*gridindex.Index // per-part boundary index (outline+holes)
	prefIndex []*gridindex.Index

	avoidBoundary geometry.Paths
	avoidIndex    *gridindex.Index
}

// NewEngine partitions the given boundaries into parts and builds the
// spatial indices used for snapping and collision tests. allOutlines is
// used to build the avoidance polygon set (offset outward by
// TravelAvoidDistance) step 6 of the algorithm routes air travel through.
func NewEngine(b Boundaries, allOutlines geometry.Paths, cfg EngineConfig) (*Engine, error) {
	e := &Engine{cfg: cfg}

	minParts, err := geometry.PartitionPaths(b.Minimum)
	if err != nil {
		return nil, err
	}
	prefParts, err := geometry.PartitionPaths(b.Preferred)
	if err != nil {
		return nil, err
	}
	e.minParts = minParts
	e.prefParts = prefParts

	cellSize := cfg.GridCellSize
	if cellSize <= 0 {
		cellSize = 2000
	}
	for _, p := range minParts {
		e.minIndex = append(e.minIndex, gridindex.Build(p.AllPaths(), cellSize))
	}
	for _, p := range prefParts {
		e.prefIndex = append(e.prefIndex, gridindex.Build(p.AllPaths(), cellSize))
	}

	if cfg.TravelAvoidDistance > 0 && len(allOutlines) > 0 {
		avoid, err := geometry.Offset(allOutlines, cfg.TravelAvoidDistance, geometry.JoinSquare)
		if err != nil {
			return nil, err
		}
		e.avoidBoundary = avoid
		e.avoidIndex = gridindex.Build(avoid, cellSize)
	}

	return e, nil
}

func maxCrossingDistance(wallOffset, travelAvoidDistance geometry.Micrometer) geometry.Micrometer {
	return geometry.Micrometer(math.Sqrt2 * float64(wallOffset+travelAvoidDistance))
}

// Result is everything Plan produces for one travel.
type Result struct {
	Paths                   []CombPath
	UnretractBeforeLastMove bool
	Retract                 bool
	CrossedBoundary         bool
}

// Plan implements the §4.4 combing algorithm. ok is false when combing
// failed and the caller must fall back to a straight retracted travel.
// bothSupport is true iff the travel runs from a support feature to
// another support feature; per §4.4's retract-decision special case this
// suppresses retract when the resulting path never actually crosses a
// boundary segment, even though it may still run through open air.
func (e *Engine) Plan(start, end geometry.Point, startInside, endInside bool, maxIgnoreDistance geometry.Micrometer, bothSupport bool) (Result, bool) {
	res, ok := e.plan(start, end, startInside, endInside, maxIgnoreDistance)
	if ok && bothSupport && !res.CrossedBoundary {
		res.Retract = false
	}
	return res, ok
}

func (e *Engine) plan(start, end geometry.Point, startInside, endInside bool, maxIgnoreDistance geometry.Micrometer) (Result, bool) {
	if start.Dist(end) <= maxIgnoreDistance {
		return Result{Paths: []CombPath{{Kind: PathThroughAir, Points: geometry.Path{start, end}}}}, true
	}

	// Step 2+3: snap into the preferred boundary and try a direct comb in
	// a shared part.
	if res, ok := e.tryDirect(start, end, startInside, endInside, e.prefParts, e.prefIndex, e.cfg.MoveInsideDistance); ok {
		return res, true
	}

	// Step 4: fall back to the minimum boundary, then displace the
	// resulting path outward into the preferred boundary where possible.
	if res, ok := e.tryDirect(start, end, startInside, endInside, e.minParts, e.minIndex, e.cfg.MoveInsideDistance); ok {
		res.Paths[0].Points = e.displaceOutward(res.Paths[0].Points)
		return res, true
	}

	// Step 5+6: endpoints are in different parts (or outside any part);
	// cross through air via the avoidance boundary.
	return e.crossingPlan(start, end, startInside, endInside)
}

// tryDirect attempts steps 2-3/4: snap both endpoints into the same part of
// boundary parts and, on success, run the direct-comb algorithm within it.
func (e *Engine) tryDirect(start, end geometry.Point, startInside, endInside bool, parts []geometry.LayerPart, indices []*gridindex.Index, moveDist geometry.Micrometer) (Result, bool) {
	s, sPart, ok := e.snapToInside(start, startInside, parts, indices, moveDist)
	if !ok {
		return Result{}, false
	}
	en, ePart, ok := e.snapToInside(end, endInside, parts, indices, moveDist)
	if !ok {
		return Result{}, false
	}
	if sPart != ePart {
		return Result{}, false
	}

	path, crossed := directComb(s, en, parts[sPart])
	full := geometry.Path{start}
	full = append(full, path...)
	full = append(full, end)

	return Result{
		Paths:           []CombPath{{Kind: PathInsidePart, Points: full}},
		Retract:         crossed,
		CrossedBoundary: crossed,
	}, true
}

// snapToInside pushes p into one of parts by at least one line width
// (moveDist) when isInside is set, per spec §4.4 step 2. It fails when the
// point cannot be moved inside without exceeding the 2mm^2 limit.
func (e *Engine) snapToInside(p geometry.Point, isInside bool, parts []geometry.LayerPart, indices []*gridindex.Index, moveDist geometry.Micrometer) (geometry.Point, int, bool) {
	if !isInside {
		// Only points flagged as already inside get snapped; otherwise we
		// still need to know which part (if any) currently contains it.
		if idx, ok := partContaining(p, parts); ok {
			return p, idx, true
		}
		return p, -1, false
	}

	if idx, ok := partContaining(p, parts); ok {
		cp, found := closestBoundaryPoint(p, parts[idx], indices[idx])
		if !found {
			return p, idx, true
		}
		distToEdge := math.Sqrt(float64(cp.dist2))
		if distToEdge >= float64(moveDist) {
			return p, idx, true
		}
		moved := moveInward(p, parts[idx], cp, moveDist)
		if p.Dist2(moved) > snapFailDistance2 {
			return geometry.Point{}, -1, false
		}
		return moved, idx, true
	}

	// Not inside any part: find the nearest part boundary and push inward.
	best := -1
	var bestCP closestPoint
	for i, part := range parts {
		cp, found := closestBoundaryPoint(p, part, indices[i])
		if found && (best == -1 || cp.dist2 < bestCP.dist2) {
			best = i
			bestCP = cp
		}
	}
	if best == -1 {
		return geometry.Point{}, -1, false
	}
	moved := moveInward(p, parts[best], bestCP, moveDist)
	if p.Dist2(moved) > snapFailDistance2 {
		return geometry.Point{}, -1, false
	}
	return moved, best, true
}

func partContaining(p geometry.Point, parts []geometry.LayerPart) (int, bool) {
	for i, part := range parts {
		if part.Inside(p) {
			return i, true
		}
	}
	return -1, false
}

type closestPoint struct {
	point   geometry.Point
	ringIdx int // 0 = outline, i+1 = hole i
	segIdx  int
	dist2   int64
}

// closestBoundaryPoint finds the boundary point of part nearest p using the
// prebuilt spatial index for that part (C2), rather than scanning every
// ring's segments directly.
func closestBoundaryPoint(p geometry.Point, part geometry.LayerPart, idx *gridindex.Index) (closestPoint, bool) {
	if idx == nil {
		return closestBoundaryPointScan(p, part)
	}
	cp, ok := idx.NearestOnBoundary(p, math.MaxInt64, nil)
	if !ok {
		return closestPoint{}, false
	}
	return closestPoint{point: cp.Point, ringIdx: cp.PolygonIndex, segIdx: cp.SegmentIndex, dist2: cp.Dist2}, true
}

// closestBoundaryPointScan is the direct fallback used when no index was
// built for part (e.g. degenerate/empty boundaries).
func closestBoundaryPointScan(p geometry.Point, part geometry.LayerPart) (closestPoint, bool) {
	best := closestPoint{dist2: math.MaxInt64}
	found := false
	rings := part.AllPaths()
	for ri, ring := range rings {
		cp, ok := geometry.ClosestPointOnPolyline(p, ring, true)
		if ok && (!found || cp.Dist2 < best.dist2) {
			found = true
			best = closestPoint{point: cp.Point, ringIdx: ri, segIdx: cp.SegmentIndex, dist2: cp.Dist2}
		}
	}
	return best, found
}

// moveInward moves cp.point further into part's interior by dist, probing
// both normal directions of the boundary segment it sits on.
func moveInward(p geometry.Point, part geometry.LayerPart, cp closestPoint, dist geometry.Micrometer) geometry.Point {
	ring := part.AllPaths()[cp.ringIdx]
	a := ring[cp.segIdx]
	b := ring[(cp.segIdx+1)%len(ring)]
	dir := b.Sub(a)
	normal := geometry.NewPoint(-dir.Y(), dir.X()).Normal(dist)

	cand1 := cp.point.Add(normal)
	cand2 := cp.point.Sub(normal)
	if part.Inside(cand1) {
		return cand1
	}
	if part.Inside(cand2) {
		return cand2
	}
	// neither probe landed inside (degenerate/very thin feature); nudge
	// toward p itself as a last resort.
	toward := p.Sub(cp.point).Normal(dist)
	return cp.point.Add(toward)
}

// displaceOutward attempts to push every vertex of a path computed against
// the minimum boundary outward into the preferred boundary (spec §4.4 step
// 4), keeping the displacement only when it still lies inside the
// preferred boundary.
func (e *Engine) displaceOutward(path geometry.Path) geometry.Path {
	if len(e.prefParts) == 0 {
		return path
	}
	out := make(geometry.Path, len(path))
	for i, v := range path {
		out[i] = v
		for pi, part := range e.prefParts {
			if !part.Inside(v) {
				continue
			}
			cp, found := closestBoundaryPoint(v, part, e.prefIndex[pi])
			if !found {
				continue
			}
			moved := moveInward(v, part, cp, e.cfg.MoveInsideDistance)
			if part.Inside(moved) {
				out[i] = moved
			}
			break
		}
	}
	return out
}

// directComb implements spec §4.4 step 7: shoot the straight segment; when
// it collides with the part's boundary, walk along the colliding ring in
// whichever direction is shorter, then continue. crossed reports whether
// any ring blocked the straight segment (used to decide the retract flag).
func directComb(from, to geometry.Point, part geometry.LayerPart) (geometry.Path, bool) {
	rings := part.AllPaths()
	path := geometry.Path{}
	current := from
	crossedRings := map[int]bool{}

	for iter := 0; iter < 64; iter++ {
		entryT, exitT, ringIdx, ok := firstBlockingExcursion(current, to, rings)
		if !ok {
			path = append(path, to)
			return path, len(crossedRings) > 0
		}
		crossedRings[ringIdx] = true

		seg := to.Sub(current)
		entryPt := current.Add(seg.Mul(entryT))
		exitPt := current.Add(seg.Mul(exitT))

		path = append(path, entryPt)
		path = append(path, walkRingShorterWay(rings[ringIdx], entryPt, exitPt)...)
		path = append(path, exitPt)
		current = exitPt
	}
	path = append(path, to)
	return path, len(crossedRings) > 0
}

// firstBlockingExcursion finds the first pair of consecutive intersections
// of segment from->to with any ring, representing an excursion outside the
// allowed region (across the outline, or into a hole).
func firstBlockingExcursion(from, to geometry.Point, rings geometry.Paths) (entryT, exitT float64, ringIdx int, ok bool) {
	type hit struct {
		t       float64
		ringIdx int
	}
	var hits []hit

	seg := to.Sub(from)
	for ri, ring := range rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			a := ring[i]
			b := ring[(i+1)%n]
			if pt, crosses := geometry.SegmentsIntersect(from, to, a, b); crosses {
				t := paramOf(from, seg, pt)
				if t > 1e-9 && t < 1-1e-9 {
					hits = append(hits, hit{t: t, ringIdx: ri})
				}
			}
		}
	}
	if len(hits) < 2 {
		return 0, 0, 0, false
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })
	// pair the first two hits on the same ring; if they differ, still use
	// them as a best-effort excursion bound.
	return hits[0].t, hits[1].t, hits[0].ringIdx, true
}

func paramOf(from, seg geometry.Point, pt geometry.Point) float64 {
	segLen2 := float64(seg.Size2())
	if segLen2 == 0 {
		return 0
	}
	d := pt.Sub(from)
	return float64(d.Dot(seg)) / segLen2
}

// walkRingShorterWay returns the polyline of ring vertices between the
// segments containing entry and exit, going whichever of the two possible
// directions around the ring is shorter.
func walkRingShorterWay(ring geometry.Path, entry, exit geometry.Point) geometry.Path {
	entryIdx := nearestVertexIndex(ring, entry)
	exitIdx := nearestVertexIndex(ring, exit)
	n := len(ring)
	if n == 0 {
		return nil
	}

	forward := geometry.Path{}
	for i := (entryIdx + 1) % n; ; i = (i + 1) % n {
		forward = append(forward, ring[i])
		if i == exitIdx {
			break
		}
		if len(forward) > n {
			break
		}
	}

	backward := geometry.Path{}
	for i := (entryIdx - 1 + n) % n; ; i = (i - 1 + n) % n {
		backward = append(backward, ring[i])
		if i == exitIdx {
			break
		}
		if len(backward) > n {
			break
		}
	}

	if forward.Length() <= backward.Length() {
		return forward
	}
	return backward
}

func nearestVertexIndex(ring geometry.Path, p geometry.Point) int {
	best := 0
	bestDist := int64(math.MaxInt64)
	for i, v := range ring {
		d := v.Dist2(p)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
