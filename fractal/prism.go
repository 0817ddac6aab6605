package fractal

import "layercore/geometry"

// Triangle is the 2D triangular base of a prism cell: always a right
// triangle with the right angle at S, grounded on
// original_source/src/infill/Cross3DPrism.h's A/B/S corner naming.
type Triangle struct {
	A, B, S geometry.Point
}

// prismCell is one node of a PrismTree: the 2D+Z variant of the
// subdivision cell (spec §3), grounded on
// original_source/src/infill/Cross3D.{h,cpp} and Cross3DPrism.{h,cpp}.
type prismCell struct {
	tri                Triangle
	minZ, maxZ         int64
	depth              int
	parent             int
	allowance          float64
	minRequiredDensity float64
	subdivided         bool
	dithered           bool
	children           []int // always 2: the triangle halved (xy split) or the z range halved
	isXYSplit          bool  // true when children came from an xy split
	// right is the next root prism around the centre, which shares this
	// prism's B-S edge, used to walk a layer's cell sequence during
	// slicing. Only the four root prisms carry a link; child prisms keep
	// -1.
	right int
}

// PrismTree is the 2D+Z (prism) subdivision fractal used by the Cross-3D
// infill pattern.
type PrismTree struct {
	cells     []prismCell
	lineWidth geometry.Micrometer
	maxDepth  int
	density   DensityProvider
	ledger    *ledger
}

// NewPrismTree builds and balances/dithers a triangular-prism subdivision
// fractal over the cube aabb, to maxDepth, per spec §4.5.1-4.5.4. The root
// is split into four initial prisms around aabb's centre, each then
// alternately halved in x/y (triangle split) or halved in z going down the
// tree; every split yields two children.
func NewPrismTree(density DensityProvider, aabb geometry.Box3, maxDepth int, lineWidth geometry.Micrometer) (*PrismTree, error) {
	t := &PrismTree{lineWidth: lineWidth, maxDepth: maxDepth, density: density, ledger: newLedger()}

	center := geometry.NewPoint((aabb.Min.X+aabb.Max.X)/2, (aabb.Min.Y+aabb.Max.Y)/2)
	corners := []geometry.Point{
		geometry.NewPoint(aabb.Min.X, aabb.Min.Y),
		geometry.NewPoint(aabb.Max.X, aabb.Min.Y),
		geometry.NewPoint(aabb.Max.X, aabb.Max.Y),
		geometry.NewPoint(aabb.Min.X, aabb.Max.Y),
	}

	rootIdx := make([]int, 4)
	for i := 0; i < 4; i++ {
		a := corners[i]
		b := corners[(i+1)%4]
		tri := Triangle{A: a, B: b, S: center}
		t.cells = append(t.cells, prismCell{tri: tri, minZ: int64(aabb.Min.Z), maxZ: int64(aabb.Max.Z), depth: 0, parent: -1, right: -1})
		rootIdx[i] = len(t.cells) - 1
	}
	for i := 0; i < 4; i++ {
		t.cells[rootIdx[i]].right = rootIdx[(i+1)%4]
	}

	for _, r := range rootIdx {
		t.buildTree(r, true)
	}
	for _, r := range rootIdx {
		t.setAllowance(r)
	}

	ops := t.cellOps()
	balance(ops, t.ledger)

	leaves := t.leafIndices()
	if len(leaves) == len(rootIdx) {
		allBelowMinimum := true
		for _, r := range rootIdx {
			vol := t.nominalVolume(r)
			if vol > 0 && t.cells[r].allowance/vol >= t.cells[r].minRequiredDensity {
				allBelowMinimum = false
				break
			}
		}
		if allBelowMinimum {
			return nil, &FractalError{Op: "build: density field everywhere below minimal realizable density"}
		}
	}

	return t, nil
}

// buildTree recursively splits a prism, alternating an xy split (2
// children, halving the triangle once) with a z split (2 children,
// halving the z range). No prism gets four children.
func (t *PrismTree) buildTree(i int, nextIsXY bool) {
	if t.cells[i].depth >= t.maxDepth {
		return
	}
	depth := t.cells[i].depth + 1

	var children []int
	if nextIsXY {
		tris := subdivideTriangle(t.cells[i].tri)
		for _, tri := range tris {
			t.cells = append(t.cells, prismCell{tri: tri, minZ: t.cells[i].minZ, maxZ: t.cells[i].maxZ, depth: depth, parent: i, right: -1})
			children = append(children, len(t.cells)-1)
		}
	} else {
		midZ := (t.cells[i].minZ + t.cells[i].maxZ) / 2
		t.cells = append(t.cells, prismCell{tri: t.cells[i].tri, minZ: t.cells[i].minZ, maxZ: midZ, depth: depth, parent: i, right: -1})
		children = append(children, len(t.cells)-1)
		t.cells = append(t.cells, prismCell{tri: t.cells[i].tri, minZ: midZ, maxZ: t.cells[i].maxZ, depth: depth, parent: i, right: -1})
		children = append(children, len(t.cells)-1)
	}
	t.cells[i].children = children
	t.cells[i].isXYSplit = nextIsXY
	for _, c := range children {
		t.buildTree(c, !nextIsXY)
	}
}

// subdivideTriangle splits a right triangle into two children around the
// midpoint of its hypotenuse (AB), per Cross3DPrism's triangle-subdivision
// rule (the ASCII diagrams in Cross3D.h): each child keeps S as its right
// angle, with the new corner M = midpoint(A, B) taking the place of B in
// one child and A in the other.
func subdivideTriangle(tri Triangle) []Triangle {
	m := tri.A.Add(tri.B).Mul(0.5)
	return []Triangle{
		{A: tri.A, B: m, S: tri.S},
		{A: m, B: tri.B, S: tri.S},
	}
}

func (t *PrismTree) nominalVolume(i int) float64 {
	return triangleArea(t.cells[i].tri) * float64(t.cells[i].maxZ-t.cells[i].minZ)
}

func triangleArea(tri Triangle) float64 {
	ab := tri.B.Sub(tri.A)
	as := tri.S.Sub(tri.A)
	return float64(ab.Cross(as)) / 2
}

func (t *PrismTree) setAllowance(i int) {
	if len(t.cells[i].children) == 0 {
		cell := &t.cells[i]
		box := triangleBox(cell.tri)
		density, minReq := t.density.Query(int64(box.Min.X()), int64(box.Min.Y()), int64(box.Max.X()), int64(box.Max.Y()), cell.minZ, cell.maxZ)
		cell.allowance = density * t.nominalVolume(i)
		cell.minRequiredDensity = minReq
		return
	}
	var allowance, minReq float64
	for _, c := range t.cells[i].children {
		t.setAllowance(c)
		allowance += t.cells[c].allowance
		if t.cells[c].minRequiredDensity > minReq {
			minReq = t.cells[c].minRequiredDensity
		}
	}
	cell := &t.cells[i]
	cell.allowance = allowance
	cell.minRequiredDensity = minReq
}

func triangleBox(tri Triangle) geometry.Box {
	return geometry.EmptyBox().Extend(tri.A).Extend(tri.B).Extend(tri.S)
}

// realizedVolume implements spec §4.5.2's prism formula: line_width ×
// |from_edge_midpoint − to_edge_midpoint| × z_range. The space-filling
// curve always enters and exits a prism across its AB edge midpoint and
// the midpoint of whichever edge the curve continues along; here we use
// the AS/BS midpoint distance as the representative chord, matching the
// oscillating Cross-3D pattern which crosses a prism along its height.
func (t *PrismTree) realizedVolume(i int) float64 {
	cell := t.cells[i]
	fromMid := cell.tri.A.Add(cell.tri.S).Mul(0.5)
	toMid := cell.tri.B.Add(cell.tri.S).Mul(0.5)
	chord := fromMid.Dist(toMid)
	lw := t.lineWidth
	zRange := cell.maxZ - cell.minZ
	return float64(lw) * float64(chord) * float64(zRange)
}

func (t *PrismTree) isRealized(i int) bool {
	if t.cells[i].subdivided {
		return false
	}
	p := t.cells[i].parent
	return p < 0 || t.cells[p].subdivided
}

func (t *PrismTree) leafIndices() []int {
	var out []int
	for i := range t.cells {
		if t.isRealized(i) {
			out = append(out, i)
		}
	}
	return out
}

// neighbors reports, for direction DirRight, the realized prism reached
// through the `right` link (descending into first children while the
// linked prism is subdivided); prisms without a link have no neighbors.
// The other three directions always return nothing.
func (t *PrismTree) neighbors(i int, dir Direction) []int {
	if dir != DirRight {
		return nil
	}
	r := t.cells[i].right
	for r >= 0 && !t.isRealized(r) {
		if len(t.cells[r].children) == 0 {
			return nil
		}
		r = t.cells[r].children[0]
	}
	if r < 0 {
		return nil
	}
	return []int{r}
}

func (t *PrismTree) cellOps() *cellOps {
	return &cellOps{
		depth:      func(i int) int { return t.cells[i].depth },
		allowance:  func(i int) float64 { return t.cells[i].allowance },
		realized:   t.realizedVolume,
		subdivided: func(i int) bool { return t.cells[i].subdivided },
		setSub:     func(i int, v bool) { t.cells[i].subdivided = v },
		maxDepth:   t.maxDepth,
		leaves:     t.leafIndices,
		neighbors:  t.neighbors,
		subdivide:  func(i int) []int { return t.cells[i].children },
	}
}

// CellsCrossingZ returns, in right-link order starting from the first
// realized prism (in storage order) whose z-range covers z, the sequence of
// realized cells a slice at height z passes through (spec §4.5.5).
func (t *PrismTree) CellsCrossingZ(z int64) []int {
	var start = -1
	for i, c := range t.cells {
		if t.isRealized(i) && c.minZ <= z && z < c.maxZ {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	seq := []int{start}
	current := start
	for guard := 0; guard < len(t.cells); guard++ {
		next := t.cells[current].right
		if next < 0 || next == start {
			break
		}
		for next >= 0 && !t.isRealized(next) {
			if len(t.cells[next].children) == 0 {
				next = -1
				break
			}
			next = t.cells[next].children[0]
		}
		if next < 0 || next == start {
			break
		}
		seq = append(seq, next)
		current = next
	}
	return seq
}

// CreateSierpinskiCurve emits the midpoint of each crossing cell's
// triangle, in curve order, for the slice at height z (Cross3D.h's
// Sierpinski-like curve, spec §4.5.5).
func (t *PrismTree) CreateSierpinskiCurve(z int64) geometry.Path {
	cells := t.CellsCrossingZ(z)
	path := make(geometry.Path, 0, len(cells))
	for _, i := range cells {
		tri := t.cells[i].tri
		mid := tri.A.Add(tri.B).Add(tri.S).Mul(1.0 / 3.0)
		path = append(path, mid)
	}
	return path
}

// CreateCrossCurve emits the AB edge midpoint of each crossing cell,
// giving a straighter "Cross" curve variant (spec §4.5.5) instead of the
// Sierpinski centroid curve.
func (t *PrismTree) CreateCrossCurve(z int64) geometry.Path {
	cells := t.CellsCrossingZ(z)
	path := make(geometry.Path, 0, len(cells))
	for _, i := range cells {
		tri := t.cells[i].tri
		path = append(path, tri.A.Add(tri.B).Mul(0.5))
	}
	return path
}
