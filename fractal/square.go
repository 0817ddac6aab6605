package fractal

import "layercore/geometry"

// squareCell is one node of a SquareTree: the 2D variant of the
// subdivision cell described in spec §3, grounded on
// original_source/src/infill/SquareSubdiv.{h,cpp}.
type squareCell struct {
	box                geometry.Box
	depth              int
	parent             int // -1 for the root
	allowance          float64
	minRequiredDensity float64
	subdivided         bool
	dithered           bool
	children           [4]int // LB, LT, RT, RB; -1 = none
}

// childSide order matches original_source's ChildSide::{LEFT_BOTTOM,
// LEFT_TOP, RIGHT_TOP, RIGHT_BOTTOM}.
const (
	sideLB = 0
	sideLT = 1
	sideRT = 2
	sideRB = 3
)

// adjacencyEpsilon absorbs fixed-point rounding when testing whether two
// boxes touch, mirroring SquareSubdiv::isNextTo's hard-coded tolerance.
const adjacencyEpsilon = geometry.Micrometer(10)

// SquareTree is the 2D (square) subdivision fractal.
type SquareTree struct {
	cells             []squareCell
	lineWidth         geometry.Micrometer
	maxDepth          int
	spaceFillingCurve bool
	density           DensityProvider
	minZ, maxZ        int64
	ledger            *ledger
}

// NewSquareTree builds and balances/dithers a square subdivision fractal
// covering box at the given z range, to maxDepth, per spec §4.5.1-4.5.4.
// Fails with FractalError when even the root cannot realize the supplied
// density field.
func NewSquareTree(density DensityProvider, box geometry.Box, minZ, maxZ int64, maxDepth int, lineWidth geometry.Micrometer, spaceFillingCurve bool) (*SquareTree, error) {
	t := &SquareTree{
		lineWidth:         lineWidth,
		maxDepth:          maxDepth,
		spaceFillingCurve: spaceFillingCurve,
		density:           density,
		minZ:              minZ,
		maxZ:              maxZ,
		ledger:            newLedger(),
	}
	t.cells = append(t.cells, squareCell{box: box, depth: 0, parent: -1, children: [4]int{-1, -1, -1, -1}})
	t.buildTree(0)
	t.setAllowance(0)

	ops := t.cellOps()
	balance(ops, t.ledger)
	t.dither()

	if len(t.leafIndices()) == 1 && t.cells[0].minRequiredDensity > t.densityOf(0) {
		return nil, &FractalError{Op: "build: density field everywhere below minimal realizable density"}
	}

	return t, nil
}

func (t *SquareTree) buildTree(i int) {
	if t.cells[i].depth >= t.maxDepth {
		return
	}
	box := t.cells[i].box
	mid := geometry.NewPoint((box.Min.X()+box.Max.X())/2, (box.Min.Y()+box.Max.Y())/2)

	boxes := [4]geometry.Box{
		sideLB: {Min: box.Min, Max: mid},
		sideLT: {Min: geometry.NewPoint(box.Min.X(), mid.Y()), Max: geometry.NewPoint(mid.X(), box.Max.Y())},
		sideRT: {Min: mid, Max: box.Max},
		sideRB: {Min: geometry.NewPoint(mid.X(), box.Min.Y()), Max: geometry.NewPoint(box.Max.X(), mid.Y())},
	}

	depth := t.cells[i].depth + 1
	var childIdx [4]int
	for side := 0; side < 4; side++ {
		t.cells = append(t.cells, squareCell{box: boxes[side], depth: depth, parent: i, children: [4]int{-1, -1, -1, -1}})
		childIdx[side] = len(t.cells) - 1
	}
	t.cells[i].children = childIdx
	// subdivided is left false here: the tree's geometry is built eagerly
	// down to maxDepth, but a cell only becomes part of the realized
	// front once balance()/dither() actually decides to subdivide it.
	for side := 0; side < 4; side++ {
		t.buildTree(childIdx[side])
	}
}

// setAllowance populates filled_volume_allowance/minimally_required_density
// bottom-up over the full, eagerly-built tree (spec §4.5.1): deepest
// leaves query the density provider directly, and every ancestor's values
// are the sum/max of its children's.
func (t *SquareTree) setAllowance(i int) {
	if t.cells[i].children[0] < 0 {
		cell := &t.cells[i]
		density, minReq := t.density.Query(
			int64(cell.box.Min.X()), int64(cell.box.Min.Y()),
			int64(cell.box.Max.X()), int64(cell.box.Max.Y()),
			t.minZ, t.maxZ)
		cell.allowance = density * t.nominalVolume(i)
		cell.minRequiredDensity = minReq
		return
	}

	children := t.cells[i].children
	var allowance, minReq float64
	for _, c := range children {
		if c < 0 {
			continue
		}
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

func (t *SquareTree) densityOf(i int) float64 {
	vol := t.nominalVolume(i)
	if vol <= 0 {
		return 0
	}
	return t.cells[i].allowance / vol
}

func (t *SquareTree) nominalVolume(i int) float64 {
	box := t.cells[i].box
	w := float64(box.Width())
	h := float64(box.Height())
	return w * h
}

// realizedVolume implements spec §4.5.2's formula for the square variant.
func (t *SquareTree) realizedVolume(i int) float64 {
	return t.realizedVolumeOfBox(t.cells[i].box)
}

func (t *SquareTree) realizedVolumeOfBox(box geometry.Box) float64 {
	w := float64(box.Width())
	h := float64(box.Height())
	lw := float64(t.lineWidth)
	if t.spaceFillingCurve {
		return lw * (w + h)
	}
	return lw * (w + h) / 2
}

// realizedVolumeIfSubdivided sums the realized volume of a cell's four
// (already geometrically built) children, for the dithering comparison of
// spec §4.5.4.
func (t *SquareTree) realizedVolumeIfSubdivided(i int) float64 {
	var sum float64
	for _, c := range t.cells[i].children {
		if c < 0 {
			continue
		}
		sum += t.realizedVolumeOfBox(t.cells[c].box)
	}
	return sum
}

// isRealized reports whether cell i is a leaf of the current subdivision
// front: its parent is subdivided (or it is the root) and it is itself not
// subdivided (spec §3, "Realized cell").
func (t *SquareTree) isRealized(i int) bool {
	if t.cells[i].subdivided {
		return false
	}
	p := t.cells[i].parent
	return p < 0 || t.cells[p].subdivided
}

func (t *SquareTree) leafIndices() []int {
	var out []int
	for i := range t.cells {
		if t.isRealized(i) {
			out = append(out, i)
		}
	}
	return out
}

func adjacent(a, b geometry.Box, dir Direction) bool {
	switch dir {
	case DirRight:
		if abs64(int64(b.Min.X()-a.Max.X())) > int64(adjacencyEpsilon) {
			return false
		}
		return rangesOverlap(a.Min.Y(), a.Max.Y(), b.Min.Y(), b.Max.Y())
	case DirLeft:
		if abs64(int64(a.Min.X()-b.Max.X())) > int64(adjacencyEpsilon) {
			return false
		}
		return rangesOverlap(a.Min.Y(), a.Max.Y(), b.Min.Y(), b.Max.Y())
	case DirUp:
		if abs64(int64(b.Min.Y()-a.Max.Y())) > int64(adjacencyEpsilon) {
			return false
		}
		return rangesOverlap(a.Min.X(), a.Max.X(), b.Min.X(), b.Max.X())
	default: // DirDown
		if abs64(int64(a.Min.Y()-b.Max.Y())) > int64(adjacencyEpsilon) {
			return false
		}
		return rangesOverlap(a.Min.X(), a.Max.X(), b.Min.X(), b.Max.X())
	}
}

func rangesOverlap(aMin, aMax, bMin, bMax geometry.Micrometer) bool {
	lo := aMin + adjacencyEpsilon
	hi := aMax - adjacencyEpsilon
	return hi >= bMin && lo <= bMax
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (t *SquareTree) neighbors(i int, dir Direction) []int {
	var out []int
	box := t.cells[i].box
	for j, c := range t.cells {
		if j == i || !t.isRealized(j) {
			continue
		}
		if adjacent(box, c.box, dir) {
			out = append(out, j)
		}
	}
	return out
}

func (t *SquareTree) cellOps() *cellOps {
	return &cellOps{
		depth:      func(i int) int { return t.cells[i].depth },
		allowance:  func(i int) float64 { return t.cells[i].allowance },
		realized:   t.realizedVolume,
		subdivided: func(i int) bool { return t.cells[i].subdivided },
		setSub:     func(i int, v bool) { t.cells[i].subdivided = v },
		maxDepth:   t.maxDepth,
		leaves:     t.leafIndices,
		neighbors:  t.neighbors,
		subdivide: func(i int) []int {
			if t.cells[i].children[0] < 0 {
				return nil
			}
			children := t.cells[i].children[:]
			out := make([]int, 0, 4)
			for _, c := range children {
				if c >= 0 {
					out = append(out, c)
				}
			}
			return out
		},
	}
}

func (t *SquareTree) dither() {
	order := t.lowerLeftToUpperRightOrder()
	ops := t.cellOps()
	do := &ditherOps{
		order:  order,
		before: t.realizedVolume,
		after:  t.realizedVolumeIfSubdivided,
		volume: t.nominalVolume,
		neighborPlusX: func(i int) (int, bool) {
			ns := t.neighbors(i, DirRight)
			if len(ns) == 0 {
				return 0, false
			}
			return ns[0], true
		},
		neighborPlusY: func(i int) (int, bool) {
			ns := t.neighbors(i, DirUp)
			if len(ns) == 0 {
				return 0, false
			}
			return ns[0], true
		},
		neighborPlusXY: func(i int) (int, bool) {
			for _, r := range t.neighbors(i, DirRight) {
				for _, u := range t.neighbors(r, DirUp) {
					return u, true
				}
			}
			return 0, false
		},
		doSubdivide: func(i int) []int {
			if t.cells[i].children[0] < 0 {
				return nil
			}
			out := make([]int, 0, 4)
			for _, c := range t.cells[i].children {
				if c >= 0 {
					out = append(out, c)
				}
			}
			return out
		},
		setSub:      func(i int, v bool) { t.cells[i].subdivided = v },
		setDithered: func(i int, v bool) { t.cells[i].dithered = v },
		isDithered:  func(i int) bool { return t.cells[i].dithered },
	}
	dither(do, ops, t.ledger)
}

// lowerLeftToUpperRightOrder sorts current leaves by (y, x) ascending,
// approximating the "lower-left to upper-right" depth-first traversal of
// spec §4.5.4.
func (t *SquareTree) lowerLeftToUpperRightOrder() []int {
	leaves := t.leafIndices()
	insertionSort(leaves, func(i, j int) bool {
		a, b := t.cells[leaves[i]].box, t.cells[leaves[j]].box
		if a.Min.Y() != b.Min.Y() {
			return a.Min.Y() < b.Min.Y()
		}
		return a.Min.X() < b.Min.X()
	})
	return leaves
}

// CreateHilbertCurve extracts the Hilbert curve of the current (balanced
// and dithered) tree, emitting one point per leaf at its cell's centre.
func (t *SquareTree) CreateHilbertCurve() geometry.Path {
	var pattern []int
	t.hilbertPattern(0, &pattern, 0, 1)
	return t.patternToPath(pattern)
}

// CreateMooreCurve extracts the Moore curve variant, which differs from
// Hilbert only in its first subdivision step, making the whole curve close
// into a single loop.
func (t *SquareTree) CreateMooreCurve() geometry.Path {
	var pattern []int
	t.moorePattern(0, &pattern, 0, 1)
	return t.patternToPath(pattern)
}

func (t *SquareTree) patternToPath(pattern []int) geometry.Path {
	path := make(geometry.Path, 0, len(pattern))
	for _, i := range pattern {
		box := t.cells[i].box
		path = append(path, geometry.NewPoint((box.Min.X()+box.Max.X())/2, (box.Min.Y()+box.Max.Y())/2))
	}
	return path
}

var childNrToChildSide = [4]int{sideLB, sideLT, sideRT, sideRB}

var hilbertChildWinding = [4]int{-1, 1, 1, -1}
var hilbertChildStart = [4]int{0, 0, 0, 2}

var mooreChildWinding = [4]int{1, 1, 1, 1}
var mooreChildStart = [4]int{3, 3, 1, 1}

func (t *SquareTree) hilbertPattern(i int, pattern *[]int, startingChild, windingDir int) {
	cell := t.cells[i]
	if !cell.subdivided {
		*pattern = append(*pattern, i)
		return
	}
	for offset := 0; offset < 4; offset++ {
		childIdx := mod4(startingChild + windingDir*offset)
		side := childNrToChildSide[childIdx]
		global := cell.children[side]
		if global < 0 {
			continue
		}
		nextStart := mod4(startingChild + windingDir*hilbertChildStart[offset])
		nextWind := windingDir * hilbertChildWinding[offset]
		t.hilbertPattern(global, pattern, nextStart, nextWind)
	}
}

func (t *SquareTree) moorePattern(i int, pattern *[]int, startingChild, windingDir int) {
	cell := t.cells[i]
	if !cell.subdivided {
		*pattern = append(*pattern, i)
		return
	}
	for offset := 0; offset < 4; offset++ {
		childIdx := mod4(startingChild + windingDir*offset)
		side := childNrToChildSide[childIdx]
		global := cell.children[side]
		if global < 0 {
			continue
		}
		nextStart := mod4(startingChild + windingDir*mooreChildStart[offset])
		nextWind := windingDir * mooreChildWinding[offset]
		t.hilbertPattern(global, pattern, nextStart, nextWind)
	}
}

func mod4(v int) int {
	v %= 4
	if v < 0 {
		v += 4
	}
	return v
}
