package fractal

import "layercore/geometry"

// EdgeNetwork is the prior pass the Cross-3D curve needs: for every
// vertical edge shared between two horizontally neighboring prisms, a
// polyline along z of surface crossing points (spec §4.5.5), grounded on
// original_source/src/infill/Cross3DPrismEdgeNetwork.{h,cpp}.
//
// This is a simplified rendition: it records one crossing point per
// neighboring pair, at the midpoint of their shared edge, rather than
// reproducing the original's full corner-inset and 45°-bend insertion
// logic (documented in DESIGN.md).
type EdgeNetwork struct {
	// Polylines maps a (cellA, cellB) pair (A < B) to its crossing
	// polyline at the midpoint of their shared B-S edge.
	Polylines map[[2]int]geometry.Path
}

// BuildEdgeNetwork walks every realized prism and its right neighbor,
// recording one crossing polyline per pair along their shared edge.
func BuildEdgeNetwork(t *PrismTree) *EdgeNetwork {
	net := &EdgeNetwork{Polylines: map[[2]int]geometry.Path{}}
	for i := range t.cells {
		if !t.isRealized(i) {
			continue
		}
		for _, j := range t.neighbors(i, DirRight) {
			key := [2]int{i, j}
			if i > j {
				key = [2]int{j, i}
			}
			if _, ok := net.Polylines[key]; ok {
				continue
			}
			net.Polylines[key] = edgeOscillation(t, i, j)
		}
	}
	return net
}

// edgeOscillation produces the crossing polyline between cells a and b:
// the midpoint of the edge they share (a's B-S edge, which its right link
// crosses), listed twice. The points are 2D only and do not depend on
// which cell is denser; the pattern is not continued across further
// subdivision levels.
func edgeOscillation(t *PrismTree, a, b int) geometry.Path {
	ca := t.cells[a]
	mid := ca.tri.B.Add(ca.tri.S).Mul(0.5)
	return geometry.Path{mid, mid}
}

// CreateCross3DCurve emits the Cross-3D curve for the slice at height z:
// like CreateSierpinskiCurve, but each crossing point is taken from the
// edge network between consecutive cells when available, so the
// oscillation pattern connects continuously across z (spec §4.5.5).
func (t *PrismTree) CreateCross3DCurve(z int64, net *EdgeNetwork) geometry.Path {
	cells := t.CellsCrossingZ(z)
	path := make(geometry.Path, 0, len(cells)+1)
	for idx, i := range cells {
		if idx > 0 {
			prev := cells[idx-1]
			key := [2]int{prev, i}
			if prev > i {
				key = [2]int{i, prev}
			}
			if poly, ok := net.Polylines[key]; ok && len(poly) > 0 {
				path = append(path, poly[0])
			}
		}
		tri := t.cells[i].tri
		path = append(path, tri.A.Add(tri.B).Add(tri.S).Mul(1.0/3.0))
	}
	return path
}
