package comb

import (
	"math"

	"layercore/geometry"
	"layercore/gridindex"
)

// crossing is the (in_or_mid, out, destination_part) triple of spec §4.4
// step 5.
type crossing struct {
	inOrMid geometry.Point
	out     geometry.Point
	partIdx int
}

// computeCrossing resolves the crossing triple for endpoint p, travelling
// eventually toward other, within parts.
func (e *Engine) computeCrossing(p, other geometry.Point, parts []geometry.LayerPart, indices []*gridindex.Index) (crossing, bool) {
	idx, ok := partContaining(p, parts)
	if !ok {
		idx, ok = nearestPartIndex(p, parts, indices)
		if !ok {
			return crossing{}, false
		}
	}
	part := parts[idx]

	cp, found := closestBoundaryPointBiased(p, other, part, indices[idx])
	if !found {
		return crossing{}, false
	}
	inOrMid := cp.point

	moveDist := e.cfg.WallOffset + e.cfg.TravelAvoidDistance
	out := moveOutward(inOrMid, part, cp, moveDist)

	maxCross := maxCrossingDistance(e.cfg.WallOffset, e.cfg.TravelAvoidDistance)
	if inOrMid.Dist(out) > maxCross {
		// Best-effort stand-in for "search for a closer crossing pair by
		// walking along the polygon" (spec §4.4 step 5): clamp the outward
		// displacement to the max crossing distance instead.
		out = moveOutward(inOrMid, part, cp, maxCross)
	}

	return crossing{inOrMid: inOrMid, out: out, partIdx: idx}, true
}

func nearestPartIndex(p geometry.Point, parts []geometry.LayerPart, indices []*gridindex.Index) (int, bool) {
	best := -1
	var bestDist int64
	for i, part := range parts {
		cp, found := closestBoundaryPoint(p, part, indices[i])
		if !found {
			continue
		}
		if best == -1 || cp.dist2 < bestDist {
			best = i
			bestDist = cp.dist2
		}
	}
	return best, best != -1
}

// closestBoundaryPointBiased finds the boundary point of part closest to p,
// with a mild bias toward points that are also close to other ("penalty
// biased toward the other endpoint", spec §4.4 step 5), using idx's spatial
// query (C2) with a custom penalty function instead of scanning every ring.
func closestBoundaryPointBiased(p, other geometry.Point, part geometry.LayerPart, idx *gridindex.Index) (closestPoint, bool) {
	const otherWeight = 0.35

	if idx == nil {
		return closestBoundaryPointBiasedScan(p, other, part, otherWeight)
	}
	penalty := func(point geometry.Point, dist2 int64) float64 {
		return float64(dist2) + otherWeight*float64(other.Dist2(point))
	}
	cp, ok := idx.NearestOnBoundary(p, math.MaxInt64, penalty)
	if !ok {
		return closestPoint{}, false
	}
	return closestPoint{point: cp.Point, ringIdx: cp.PolygonIndex, segIdx: cp.SegmentIndex, dist2: cp.Dist2}, true
}

func closestBoundaryPointBiasedScan(p, other geometry.Point, part geometry.LayerPart, otherWeight float64) (closestPoint, bool) {
	best := closestPoint{}
	bestScore := 0.0
	found := false

	for ri, ring := range part.AllPaths() {
		n := len(ring)
		for si := 0; si < n; si++ {
			a := ring[si]
			b := ring[(si+1)%n]
			d2, pt := geometry.DistanceToSegmentSquared(p, a, b)
			score := float64(d2) + otherWeight*float64(other.Dist2(pt))
			if !found || score < bestScore {
				found = true
				bestScore = score
				best = closestPoint{point: pt, ringIdx: ri, segIdx: si, dist2: d2}
			}
		}
	}
	return best, found
}

// moveOutward is the mirror of moveInward: it moves cp.point away from
// part's interior by dist.
func moveOutward(p geometry.Point, part geometry.LayerPart, cp closestPoint, dist geometry.Micrometer) geometry.Point {
	ring := part.AllPaths()[cp.ringIdx]
	a := ring[cp.segIdx]
	b := ring[(cp.segIdx+1)%len(ring)]
	dir := b.Sub(a)
	normal := geometry.NewPoint(-dir.Y(), dir.X()).Normal(dist)

	cand1 := cp.point.Add(normal)
	cand2 := cp.point.Sub(normal)
	if !part.Inside(cand1) {
		return cand1
	}
	if !part.Inside(cand2) {
		return cand2
	}
	return cp.point.Add(normal)
}

// crossingPlan implements spec §4.4 steps 5-6: endpoints in different parts
// (or one/both outside any part), crossing through air via the avoidance
// boundary.
func (e *Engine) crossingPlan(start, end geometry.Point, startInside, endInside bool) (Result, bool) {
	startCrossing, ok := e.computeCrossing(start, end, e.prefParts, e.prefIndex)
	if !ok {
		return Result{}, false
	}
	endCrossing, ok := e.computeCrossing(end, start, e.prefParts, e.prefIndex)
	if !ok {
		return Result{}, false
	}

	maxCross := maxCrossingDistance(e.cfg.WallOffset, e.cfg.TravelAvoidDistance)
	if e.cfg.HopOnlyWhenCollides && start.Dist(startCrossing.out) > maxCross {
		return Result{}, false
	}

	startInsidePath, startCrossed := directComb(start, startCrossing.inOrMid, e.prefParts[startCrossing.partIdx])
	fullStart := geometry.Path{start}
	fullStart = append(fullStart, startInsidePath...)
	fullStart = append(fullStart, startCrossing.out)

	endInsidePath, endCrossed := directComb(endCrossing.inOrMid, end, e.prefParts[endCrossing.partIdx])
	fullEnd := geometry.Path{endCrossing.inOrMid}
	fullEnd = append(fullEnd, endInsidePath...)

	airPath := e.routeAir(startCrossing.out, endCrossing.out)

	full := geometry.Path{endCrossing.out}
	full = append(full, fullEnd...)

	paths := []CombPath{
		{Kind: PathInsidePart, Points: fullStart},
		{Kind: PathThroughAir, Points: airPath},
		{Kind: PathInsidePart, Points: full},
	}

	return Result{
		Paths:           paths,
		Retract:         true,
		CrossedBoundary: startCrossed || endCrossed,
	}, true
}

// routeAir connects two points either with a straight line or routed
// through the avoidance boundary, whichever is shorter (spec §4.4 step 6).
func (e *Engine) routeAir(from, to geometry.Point) geometry.Path {
	straight := geometry.Path{from, to}
	if e.avoidIndex == nil {
		return straight
	}

	avoidParts, err := geometry.PartitionPaths(e.avoidBoundary)
	if err != nil {
		return straight
	}

	fromIdx, fromOK := partContaining(from, avoidParts)
	toIdx, toOK := partContaining(to, avoidParts)
	if !fromOK || !toOK || fromIdx != toIdx {
		return straight
	}

	routed, _ := directComb(from, to, avoidParts[fromIdx])
	full := geometry.Path{from}
	full = append(full, routed...)

	if full.Length() < straight.Length() {
		return full
	}
	return straight
}
