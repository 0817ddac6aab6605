package fractal

import (
	"testing"

	"layercore/geometry"
)

func cube10mm3() geometry.Box3 {
	return geometry.Box3{
		Min: geometry.NewPoint3(0, 0, 0),
		Max: geometry.NewPoint3(10000, 10000, 10000),
	}
}

func TestNewPrismTreeBuildsFourRootPrisms(t *testing.T) {
	density := uniformDensity{density: 0.3}
	tree, err := NewPrismTree(density, cube10mm3(), 2, 400)
	if err != nil {
		t.Fatalf("NewPrismTree: %v", err)
	}
	if len(tree.cells) < 4 {
		t.Fatalf("expected at least 4 root prisms, got %d cells", len(tree.cells))
	}
}

func TestPrismTreeDepthDifferenceInvariant(t *testing.T) {
	density := uniformDensity{density: 0.5}
	tree, err := NewPrismTree(density, cube10mm3(), 4, 300)
	if err != nil {
		t.Fatalf("NewPrismTree: %v", err)
	}

	leaves := tree.leafIndices()
	for _, i := range leaves {
		for _, n := range tree.neighbors(i, DirRight) {
			diff := tree.cells[i].depth - tree.cells[n].depth
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				t.Errorf("prisms %d (depth %d) and %d (depth %d) violate depth-difference invariant", i, tree.cells[i].depth, n, tree.cells[n].depth)
			}
		}
	}
}

func TestPrismTreeFractalErrorWhenUnrealizable(t *testing.T) {
	density := uniformDensity{density: 0.0, minRequired: 5.0}
	_, err := NewPrismTree(density, cube10mm3(), 0, 400)
	if err == nil {
		t.Fatal("expected a FractalError for an unrealizable density field")
	}
}

func TestCellsCrossingZReturnsRightLinkedSequence(t *testing.T) {
	density := uniformDensity{density: 0.4}
	tree, err := NewPrismTree(density, cube10mm3(), 2, 400)
	if err != nil {
		t.Fatalf("NewPrismTree: %v", err)
	}

	cells := tree.CellsCrossingZ(5000)
	if len(cells) == 0 {
		t.Fatal("expected at least one cell crossing the mid-height slice")
	}
	for _, i := range cells {
		if tree.cells[i].minZ > 5000 || tree.cells[i].maxZ <= 5000 {
			t.Errorf("cell %d z-range [%d,%d) does not cover z=5000", i, tree.cells[i].minZ, tree.cells[i].maxZ)
		}
	}
}

func TestCreateSierpinskiAndCrossCurvesMatchCellCount(t *testing.T) {
	density := uniformDensity{density: 0.4}
	tree, err := NewPrismTree(density, cube10mm3(), 2, 400)
	if err != nil {
		t.Fatalf("NewPrismTree: %v", err)
	}

	cells := tree.CellsCrossingZ(5000)
	sier := tree.CreateSierpinskiCurve(5000)
	cross := tree.CreateCrossCurve(5000)
	if len(sier) != len(cells) {
		t.Errorf("Sierpinski curve should have one point per crossing cell: got %d, want %d", len(sier), len(cells))
	}
	if len(cross) != len(cells) {
		t.Errorf("Cross curve should have one point per crossing cell: got %d, want %d", len(cross), len(cells))
	}
}

func TestSubdivideTriangleSharesRightAngleCorner(t *testing.T) {
	tri := Triangle{A: geometry.NewPoint(0, 0), B: geometry.NewPoint(10000, 0), S: geometry.NewPoint(0, 10000)}
	children := subdivideTriangle(tri)
	if len(children) != 2 {
		t.Fatalf("expected 2 child triangles, got %d", len(children))
	}
	for _, c := range children {
		if c.S != tri.S {
			t.Errorf("child triangle should keep the parent's right-angle corner S, got %+v", c.S)
		}
	}
	mid := tri.A.Add(tri.B).Mul(0.5)
	if children[0].B != mid || children[1].A != mid {
		t.Errorf("children should share the hypotenuse midpoint %+v, got %+v / %+v", mid, children[0].B, children[1].A)
	}
}
