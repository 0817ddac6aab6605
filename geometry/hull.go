package geometry

import (
	hull "github.com/furstenheim/go-convex-hull-2d"
)

// hullPoint adapts Point to the interface go-convex-hull-2d expects.
type hullPoint struct {
	p Point
}

func (h hullPoint) GetX() float64 { return float64(h.p.x) }
func (h hullPoint) GetY() float64 { return float64(h.p.y) }

// ConvexHull computes the convex hull of an arbitrary point set. It is used
// as the fallback when an offset/union degenerates to an empty result for a
// non-empty part (e.g. the raft-outline boundary in C3): a convex hull can
// always be offset safely since it is already simple and convex.
func ConvexHull(points Path) Path {
	if len(points) < 3 {
		return points
	}
	in := make([]hull.Point, len(points))
	for i, p := range points {
		in[i] = hullPoint{p}
	}
	out := hull.ConvexHull(in)
	result := make(Path, 0, len(out))
	for _, h := range out {
		result = append(result, NewPoint(Micrometer(h.GetX()), Micrometer(h.GetY())))
	}
	return result
}

// ConvexHullOfParts returns the convex hull enclosing the outlines of every
// part (holes are irrelevant to a hull).
func ConvexHullOfParts(parts []LayerPart) Path {
	var all Path
	for _, p := range parts {
		all = append(all, p.Outline()...)
	}
	return ConvexHull(all)
}
