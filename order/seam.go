package order

import (
	"math"
	"math/rand"

	"layercore/geometry"
)

// seamStartIndex picks poly's start vertex for strategy (spec §4.7
// supplement 4). polySeed varies the random strategy deterministically
// per polygon rather than drawing from a single shared stream, so
// reordering the polygon slice doesn't perturb unrelated seams.
func seamStartIndex(poly geometry.Polygon, strategy SeamStrategy, fixedSeam geometry.Point, polySeed int) int {
	if len(poly) == 0 {
		return 0
	}
	switch strategy {
	case SeamUser:
		return nearestVertexIndex(poly, fixedSeam)
	case SeamSharpestCorner:
		return sharpestCornerIndex(poly)
	case SeamRandom:
		r := rand.New(rand.NewSource(int64(polySeed)))
		return r.Intn(len(poly))
	default:
		return 0
	}
}

func nearestVertexIndex(poly geometry.Polygon, target geometry.Point) int {
	best := 0
	bestDist := poly[0].Dist2(target)
	for i := 1; i < len(poly); i++ {
		d := poly[i].Dist2(target)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// sharpestCornerIndex returns the vertex with the smallest interior
// angle, a common seam-hiding heuristic (place the seam where the wall
// already turns sharply).
func sharpestCornerIndex(poly geometry.Polygon) int {
	n := len(poly)
	if n < 3 {
		return 0
	}
	best := 0
	bestCos := -math.MaxFloat64
	for i := 0; i < n; i++ {
		prev := poly[(i-1+n)%n]
		cur := poly[i]
		next := poly[(i+1)%n]
		a := prev.Sub(cur)
		b := next.Sub(cur)
		al, bl := float64(a.Size()), float64(b.Size())
		if al == 0 || bl == 0 {
			continue
		}
		cos := float64(a.Dot(b)) / (al * bl)
		if cos > bestCos {
			bestCos = cos
			best = i
		}
	}
	return best
}
