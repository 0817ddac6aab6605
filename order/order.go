// Package order implements the path-order optimizer spec §4.7's
// add_polygons_by_optimizer/add_lines_by_optimizer/add_lines_monotonic
// entry points delegate to: nearest-neighbor polygon ordering with a
// choice of seam placement strategies, and shortest-path or monotonic
// ordering of open polylines. Grounded on the shape of
// original_source/include/path_processing/FeatureExtrusionsOrderOptimizer.h
// (greedy nearest-start-point ordering) and the teacher's plain,
// dependency-free geometry helpers (geometry package, C1).
package order

import (
	"math"

	"layercore/geometry"
)

// SeamStrategy selects where add_polygons_by_optimizer starts each
// polygon (spec §4.7 supplement 4).
type SeamStrategy int

const (
	SeamShortest SeamStrategy = iota
	SeamRandom
	SeamUser
	SeamSharpestCorner
)

// PolygonOrderItem is one polygon's place in the optimized visiting
// order: which original polygon, which vertex to start at, and whether
// to walk it in reverse.
type PolygonOrderItem struct {
	Index      int
	StartIndex int
	Reverse    bool
}

// OptimizePolygons greedily orders polys by nearest start point from the
// current position, picking each polygon's start vertex per strategy
// (spec §4.7: "shortest path with seam preference").
func OptimizePolygons(polys geometry.Polygons, from geometry.Point, strategy SeamStrategy, fixedSeam geometry.Point) []PolygonOrderItem {
	n := len(polys)
	visited := make([]bool, n)
	starts := make([]int, n)
	for i, poly := range polys {
		if strategy != SeamShortest {
			starts[i] = seamStartIndex(poly, strategy, fixedSeam, i)
		}
	}

	out := make([]PolygonOrderItem, 0, n)
	current := from
	for picked := 0; picked < n; picked++ {
		best := -1
		bestDist := int64(math.MaxInt64)
		bestStart := 0
		for i, poly := range polys {
			if visited[i] || len(poly) == 0 {
				continue
			}
			start := starts[i]
			if strategy == SeamShortest {
				start = nearestVertexIndex(poly, current)
			}
			d := current.Dist2(poly[start])
			if d < bestDist {
				bestDist = d
				best = i
				bestStart = start
			}
		}
		if best < 0 {
			break
		}
		visited[best] = true
		out = append(out, PolygonOrderItem{Index: best, StartIndex: bestStart})
		current = polys[best][bestStart]
	}
	return out
}
