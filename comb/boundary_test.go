package comb

import (
	"testing"

	"layercore/geometry"
	"layercore/settings"
)

func square(minX, minY, maxX, maxY geometry.Micrometer) geometry.Path {
	return geometry.Path{
		geometry.NewPoint(minX, minY),
		geometry.NewPoint(maxX, minY),
		geometry.NewPoint(maxX, maxY),
		geometry.NewPoint(minX, maxY),
	}
}

func TestBuildBoundariesOff(t *testing.T) {
	parts := []geometry.LayerPart{geometry.NewLayerPart(square(0, 0, 10000, 10000), nil)}
	b, err := BuildBoundaries(BoundaryInputs{Parts: parts, LayerIndex: 1}, settings.CombingOff, BoundaryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Minimum) != 0 || len(b.Preferred) != 0 {
		t.Error("combing off should produce empty boundaries")
	}
}

func TestBuildBoundariesAllShrinksInward(t *testing.T) {
	parts := []geometry.LayerPart{geometry.NewLayerPart(square(0, 0, 10000, 10000), nil)}
	cfg := BoundaryConfig{WallLineWidth0: 400, WallLineWidthX: 400, WallCount: 3}

	b, err := BuildBoundaries(BoundaryInputs{Parts: parts, LayerIndex: 1}, settings.CombingAll, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Minimum) != 1 || len(b.Preferred) != 1 {
		t.Fatalf("expected single-contour boundaries, got min=%d pref=%d", len(b.Minimum), len(b.Preferred))
	}

	original := square(0, 0, 10000, 10000).Area()
	if b.Minimum[0].Area() >= original {
		t.Error("minimum boundary should be inset from the original part")
	}
	if b.Preferred[0].Area() >= b.Minimum[0].Area() {
		t.Error("preferred boundary insets further than minimum (more wall width consumed)")
	}
}

func TestBuildBoundariesRaftLayer(t *testing.T) {
	raft := square(0, 0, 20000, 20000)
	b, err := BuildBoundaries(BoundaryInputs{RaftOutline: geometry.Paths{raft}, LayerIndex: -1}, settings.CombingAll, BoundaryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Minimum) != 1 {
		t.Fatalf("expected a single raft boundary contour, got %d", len(b.Minimum))
	}
	if b.Minimum[0].Area() <= raft.Area() {
		t.Error("raft boundary should be expanded outward from the raft outline")
	}
}

func TestBuildBoundariesInfillMode(t *testing.T) {
	infill := square(2000, 2000, 8000, 8000)
	parts := []geometry.LayerPart{geometry.NewLayerPart(square(0, 0, 10000, 10000), nil)}

	b, err := BuildBoundaries(BoundaryInputs{
		Parts:      parts,
		InfillArea: geometry.Paths{infill},
		LayerIndex: 1,
	}, settings.CombingInfill, BoundaryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Minimum) != 1 || b.Minimum[0].Area() != infill.Area() {
		t.Errorf("infill-mode boundary should equal the infill area exactly, got %+v", b.Minimum)
	}
}
