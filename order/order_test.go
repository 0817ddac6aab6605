package order

import (
	"testing"

	"layercore/geometry"
)

func sq(minX, minY, maxX, maxY geometry.Micrometer) geometry.Polygon {
	return geometry.Polygon{
		geometry.NewPoint(minX, minY),
		geometry.NewPoint(maxX, minY),
		geometry.NewPoint(maxX, maxY),
		geometry.NewPoint(minX, maxY),
	}
}

func TestOptimizePolygonsShortestPicksNearestFirst(t *testing.T) {
	polys := geometry.Polygons{
		sq(5000, 5000, 6000, 6000),
		sq(0, 0, 1000, 1000),
	}
	ordered := OptimizePolygons(polys, geometry.NewPoint(0, 0), SeamShortest, geometry.Point{})
	if len(ordered) != 2 {
		t.Fatalf("expected both polygons ordered, got %d", len(ordered))
	}
	if ordered[0].Index != 1 {
		t.Errorf("expected the nearer polygon (index 1) visited first, got %d", ordered[0].Index)
	}
}

func TestOptimizePolygonsShortestStartsAtNearestVertex(t *testing.T) {
	polys := geometry.Polygons{sq(0, 0, 10000, 10000)}
	ordered := OptimizePolygons(polys, geometry.NewPoint(9000, 9000), SeamShortest, geometry.Point{})
	if ordered[0].StartIndex != 2 {
		t.Errorf("expected start index 2 (the corner nearest 9000,9000), got %d", ordered[0].StartIndex)
	}
}

func TestOptimizePolygonsUserSeamPicksNearestToFixedSeam(t *testing.T) {
	polys := geometry.Polygons{sq(0, 0, 10000, 10000)}
	ordered := OptimizePolygons(polys, geometry.NewPoint(0, 0), SeamUser, geometry.NewPoint(9000, 9000))
	if ordered[0].StartIndex != 2 {
		t.Errorf("expected the user seam to pick the corner nearest the fixed seam, got %d", ordered[0].StartIndex)
	}
}

func TestOptimizeLinesShortestReversesWhenFarEndIsCloser(t *testing.T) {
	lines := geometry.Paths{
		{geometry.NewPoint(10000, 0), geometry.NewPoint(0, 0)},
	}
	ordered := OptimizeLinesShortest(lines, geometry.NewPoint(0, 0))
	if ordered[0][0] != geometry.NewPoint(0, 0) {
		t.Errorf("expected the line reversed so its near end starts, got %+v", ordered[0])
	}
}

func TestOptimizeLinesShortestVisitsEveryLine(t *testing.T) {
	lines := geometry.Paths{
		{geometry.NewPoint(0, 0), geometry.NewPoint(1000, 0)},
		{geometry.NewPoint(2000, 0), geometry.NewPoint(3000, 0)},
		{geometry.NewPoint(4000, 0), geometry.NewPoint(5000, 0)},
	}
	ordered := OptimizeLinesShortest(lines, geometry.NewPoint(0, 0))
	if len(ordered) != 3 {
		t.Fatalf("expected all 3 lines ordered, got %d", len(ordered))
	}
}

// Scenario F (spec §8): a monotonic ordering along the X axis must keep the
// projected ranges non-decreasing.
func TestOptimizeLinesMonotonicOrdersAlongAxisNonDecreasing(t *testing.T) {
	lines := geometry.Paths{
		{geometry.NewPoint(4000, 0), geometry.NewPoint(4000, 1000)},
		{geometry.NewPoint(0, 0), geometry.NewPoint(0, 1000)},
		{geometry.NewPoint(2000, 0), geometry.NewPoint(2000, 1000)},
	}
	ordered := OptimizeLinesMonotonic(lines, geometry.NewPoint(1, 0))
	if len(ordered) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(ordered))
	}
	prevX := geometry.Micrometer(-1 << 62)
	for _, line := range ordered {
		x := line[0].X()
		if x < prevX {
			t.Errorf("monotonic ordering is not non-decreasing along the axis: %+v", ordered)
		}
		prevX = x
	}
}

func TestOptimizeLinesMonotonicKeepsOverlappingPerpendicularGroupContiguous(t *testing.T) {
	// Two lines share perpendicular extent (both span y in [0,1000]) and a
	// third is offset so it doesn't overlap; the monotonic property must
	// never place the non-overlapping line between the overlapping pair
	// when their projected ranges interleave (x=1000 lies between 0 and 2000).
	lines := geometry.Paths{
		{geometry.NewPoint(0, 0), geometry.NewPoint(0, 1000)},
		{geometry.NewPoint(1000, 2000), geometry.NewPoint(1000, 3000)},
		{geometry.NewPoint(2000, 0), geometry.NewPoint(2000, 1000)},
	}
	ordered := OptimizeLinesMonotonic(lines, geometry.NewPoint(1, 0))
	if len(ordered) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(ordered))
	}
	if ordered[1][0].X() == 1000 {
		t.Errorf("the non-overlapping line split the overlapping pair: %+v", ordered)
	}
}

func TestOptimizeLinesMonotonicDegenerateAxisReturnsInputUnchanged(t *testing.T) {
	lines := geometry.Paths{{geometry.NewPoint(0, 0), geometry.NewPoint(1000, 0)}}
	ordered := OptimizeLinesMonotonic(lines, geometry.Point{})
	if len(ordered) != 1 {
		t.Fatalf("expected the input passed through unchanged, got %d lines", len(ordered))
	}
}
