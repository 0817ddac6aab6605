// Package gridindex provides a uniform 2D grid index from points to nearby
// polygon segments (spec C2), used by the combing engine to find the
// closest boundary point to a travel endpoint and to test whether a
// straight segment collides with any boundary.
package gridindex

import "layercore/geometry"

type cellKey struct {
	x, y int64
}

type segmentRef struct {
	polygonIndex int
	segmentIndex int
	a, b         geometry.Point
}

// Index is an immutable-after-build uniform grid over a Paths set. Cell
// size is fixed at construction; correctness of nearest/near-radius queries
// requires cellSize >= the search radius used by the caller (spec §4.2).
type Index struct {
	cellSize geometry.Micrometer
	cells    map[cellKey][]segmentRef
}

// Build constructs a grid index over every segment of every polygon in
// paths, inserting each segment into every cell its bounding box touches.
func Build(paths geometry.Paths, cellSize geometry.Micrometer) *Index {
	if cellSize <= 0 {
		cellSize = 1000
	}
	idx := &Index{cellSize: cellSize, cells: map[cellKey][]segmentRef{}}
	for pi, poly := range paths {
		n := len(poly)
		for si := 0; si < n; si++ {
			a := poly[si]
			b := poly[(si+1)%n]
			idx.insertSegment(segmentRef{polygonIndex: pi, segmentIndex: si, a: a, b: b})
		}
	}
	return idx
}

func (idx *Index) cellOf(p geometry.Point) cellKey {
	return cellKey{
		x: int64(p.X()) / int64(idx.cellSize),
		y: int64(p.Y()) / int64(idx.cellSize),
	}
}

func (idx *Index) insertSegment(s segmentRef) {
	box := geometry.EmptyBox().Extend(s.a).Extend(s.b)
	minKey := idx.cellOf(box.Min)
	maxKey := idx.cellOf(box.Max)
	for x := minKey.x; x <= maxKey.x; x++ {
		for y := minKey.y; y <= maxKey.y; y++ {
			key := cellKey{x, y}
			idx.cells[key] = append(idx.cells[key], s)
		}
	}
}

// ClosestPoint is the result of a nearest_on_boundary query (spec §4.2).
type ClosestPoint struct {
	PolygonIndex int
	SegmentIndex int
	Point        geometry.Point
	Dist2        int64
}

// PenaltyFunc optionally biases the distance used to rank candidate
// points, e.g. to prefer points closer to some other reference location.
// It receives the squared euclidean distance and returns the (possibly
// adjusted) score to minimize.
type PenaltyFunc func(point geometry.Point, dist2 int64) float64

// NearestOnBoundary finds the closest point on any indexed segment to p
// within maxDistanceSquared, optionally applying a penalty function to bias
// the choice. Returns false if nothing is within range.
func (idx *Index) NearestOnBoundary(p geometry.Point, maxDistanceSquared int64, penalty PenaltyFunc) (ClosestPoint, bool) {
	center := idx.cellOf(p)
	radius := int64(1)
	if idx.cellSize > 0 {
		// enough rings to cover the search radius in cells
		for geometry.Micrometer(radius)*idx.cellSize*geometry.Micrometer(radius)*idx.cellSize < geometry.Micrometer(maxDistanceSquared) {
			radius++
			if radius > 64 {
				break
			}
		}
	}

	best := ClosestPoint{}
	bestScore := float64(maxDistanceSquared) + 1
	found := false

	seen := map[segmentRef]bool{}
	for x := center.x - radius; x <= center.x+radius; x++ {
		for y := center.y - radius; y <= center.y+radius; y++ {
			for _, s := range idx.cells[cellKey{x, y}] {
				if seen[s] {
					continue
				}
				seen[s] = true
				d2, closest := geometry.DistanceToSegmentSquared(p, s.a, s.b)
				if int64(d2) > maxDistanceSquared {
					continue
				}
				score := float64(d2)
				if penalty != nil {
					score = penalty(closest, d2)
				}
				if !found || score < bestScore {
					found = true
					bestScore = score
					best = ClosestPoint{
						PolygonIndex: s.polygonIndex,
						SegmentIndex: s.segmentIndex,
						Point:        closest,
						Dist2:        d2,
					}
				}
			}
		}
	}
	return best, found
}

// Visitor is called for every candidate segment near a query line. Return
// false to stop traversal early.
type Visitor func(polygonIndex, segmentIndex int, a, b geometry.Point) bool

// ForEachSegmentNear visits every segment in the cells touched by the
// bounding box of the line segment a-b.
func (idx *Index) ForEachSegmentNear(a, b geometry.Point, visit Visitor) {
	box := geometry.EmptyBox().Extend(a).Extend(b)
	minKey := idx.cellOf(box.Min)
	maxKey := idx.cellOf(box.Max)

	seen := map[segmentRef]bool{}
	for x := minKey.x; x <= maxKey.x; x++ {
		for y := minKey.y; y <= maxKey.y; y++ {
			for _, s := range idx.cells[cellKey{x, y}] {
				if seen[s] {
					continue
				}
				seen[s] = true
				if !visit(s.polygonIndex, s.segmentIndex, s.a, s.b) {
					return
				}
			}
		}
	}
}
