package geometry

import "math"

// PointInPolygon reports whether p lies inside poly, using the standard
// ray-casting parity test. Points on the boundary are treated as inside.
func PointInPolygon(p Point, poly Path) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if OnSegment(p, pi, pj) {
			return true
		}
		if (pi.y > p.y) != (pj.y > p.y) {
			xIntersect := float64(pj.x-pi.x)*float64(p.y-pi.y)/float64(pj.y-pi.y) + float64(pi.x)
			if float64(p.x) < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// OnSegment reports whether p lies on the closed segment a-b.
func OnSegment(p, a, b Point) bool {
	cross := (b.x - a.x) * (p.y - a.y) -
		(b.y - a.y) * (p.x - a.x)
	if cross != 0 {
		return false
	}
	if p.x < minM(a.x, b.x) || p.x > maxM(a.x, b.x) {
		return false
	}
	if p.y < minM(a.y, b.y) || p.y > maxM(a.y, b.y) {
		return false
	}
	return true
}

func minM(a, b Micrometer) Micrometer {
	if a < b {
		return a
	}
	return b
}

func maxM(a, b Micrometer) Micrometer {
	if a > b {
		return a
	}
	return b
}

// DistanceToSegmentSquared returns the squared distance from p to the
// closest point on the closed segment a-b, and that closest point.
func DistanceToSegmentSquared(p, a, b Point) (int64, Point) {
	ab := b.Sub(a)
	abLen2 := ab.Size2()
	if abLen2 == 0 {
		return p.Dist2(a), a
	}
	ap := p.Sub(a)
	t := float64(ap.Dot(ab)) / float64(abLen2)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Mul(t))
	return p.Dist2(closest), closest
}

// DistanceToSegment returns the distance from p to the closest point on the
// closed segment a-b.
func DistanceToSegment(p, a, b Point) Micrometer {
	d2, _ := DistanceToSegmentSquared(p, a, b)
	return Micrometer(math.Round(math.Sqrt(float64(d2))))
}

// ClosestPoint describes a point found on a polyline/polygon boundary: the
// index of the segment it was found on (the segment starts at that index)
// and the projected point itself.
type ClosestPoint struct {
	PolygonIndex int
	SegmentIndex int
	Point        Point
	Dist2        int64
}

// ClosestPointOnPolyline returns the closest point on path (read as closed
// if closed is true, open otherwise) to p.
func ClosestPointOnPolyline(p Point, path Path, closed bool) (ClosestPoint, bool) {
	if len(path) == 0 {
		return ClosestPoint{}, false
	}
	if len(path) == 1 {
		return ClosestPoint{SegmentIndex: 0, Point: path[0], Dist2: p.Dist2(path[0])}, true
	}

	n := len(path)
	segments := n - 1
	if closed {
		segments = n
	}

	best := ClosestPoint{Dist2: math.MaxInt64}
	found := false
	for i := 0; i < segments; i++ {
		a := path[i]
		b := path[(i+1)%n]
		d2, closest := DistanceToSegmentSquared(p, a, b)
		if !found || d2 < best.Dist2 {
			best = ClosestPoint{SegmentIndex: i, Point: closest, Dist2: d2}
			found = true
		}
	}
	return best, found
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 intersect,
// including the colinear-overlap case, and returns one intersection point
// (the first endpoint of the overlap range when colinear).
func SegmentsIntersect(a1, a2, b1, b2 Point) (Point, bool) {
	d1 := direction(b1, b2, a1)
	d2 := direction(b1, b2, a2)
	d3 := direction(a1, a2, b1)
	d4 := direction(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return lineIntersection(a1, a2, b1, b2)
	}

	if d1 == 0 && onSegmentBox(b1, b2, a1) {
		return a1, true
	}
	if d2 == 0 && onSegmentBox(b1, b2, a2) {
		return a2, true
	}
	if d3 == 0 && onSegmentBox(a1, a2, b1) {
		return b1, true
	}
	if d4 == 0 && onSegmentBox(a1, a2, b2) {
		return b2, true
	}
	return Point{}, false
}

func direction(a, b, c Point) int64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegmentBox(a, b, p Point) bool {
	return p.x >= minM(a.x, b.x) && p.x <= maxM(a.x, b.x) &&
		p.y >= minM(a.y, b.y) && p.y <= maxM(a.y, b.y)
}

func lineIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	x1, y1 := float64(a1.x), float64(a1.y)
	x2, y2 := float64(a2.x), float64(a2.y)
	x3, y3 := float64(b1.x), float64(b1.y)
	x4, y4 := float64(b2.x), float64(b2.y)

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return Point{}, false
	}
	px := ((x1*y2-y1*x2)*(x3-x4) - (x1-x2)*(x3*y4-y3*x4)) / denom
	py := ((x1*y2-y1*x2)*(y3-y4) - (y1-y2)*(x3*y4-y3*x4)) / denom
	return NewPoint(roundToInt(px), roundToInt(py)), true
}

// PolylineCrossesPolygon reports whether any segment of line crosses any
// edge of poly (used to decide whether a travel move needs a retraction).
func PolylineCrossesPolygon(line Path, poly Path) bool {
	if len(poly) < 2 {
		return false
	}
	for i := 1; i < len(line); i++ {
		for j := 0; j < len(poly); j++ {
			b := poly[(j+1)%len(poly)]
			if _, ok := SegmentsIntersect(line[i-1], line[i], poly[j], b); ok {
				return true
			}
		}
	}
	return false
}
