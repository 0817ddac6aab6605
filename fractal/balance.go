package fractal

// Direction indexes one of the four neighbor lists a cell carries (spec §3,
// "neighbors[4]"). For the square variant these are the cardinal
// directions; for the prism variant they are before/after/below/above, per
// original_source/src/infill/Cross3D.h's Direction enum.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirDown
	DirUp
)

func (d Direction) opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	default:
		return DirDown
	}
}

// linkKey identifies one directed loan link between two realized cells.
type linkKey struct {
	from, to int
}

// ledger tracks the non-negative loan outstanding on every directed link
// between realized cells (spec §3 invariants: every loan non-negative; for
// a positive loan A->B the reverse link B->A carries zero loan).
type ledger struct {
	loans map[linkKey]float64
}

func newLedger() *ledger {
	return &ledger{loans: map[linkKey]float64{}}
}

func (l *ledger) get(from, to int) float64 {
	return l.loans[linkKey{from, to}]
}

// transfer moves amount of loan value from `from` owed-to `to`, first
// clearing any opposing debt so a loan is never outstanding in both
// directions on the same link simultaneously.
func (l *ledger) transfer(from, to int, amount float64) {
	if amount <= 0 {
		return
	}
	reverse := linkKey{to, from}
	if owed := l.loans[reverse]; owed > 0 {
		if owed >= amount {
			l.loans[reverse] = owed - amount
			return
		}
		delete(l.loans, reverse)
		amount -= owed
	}
	fwd := linkKey{from, to}
	l.loans[fwd] += amount
}

func (l *ledger) settle(from, to int) float64 {
	key := linkKey{from, to}
	amt := l.loans[key]
	delete(l.loans, key)
	return amt
}

func (l *ledger) inbound(cell int, neighbors func(int, Direction) []int) float64 {
	var sum float64
	for d := DirLeft; d <= DirUp; d++ {
		for _, n := range neighbors(cell, d) {
			sum += l.get(n, cell)
		}
	}
	return sum
}

func (l *ledger) outbound(cell int, neighbors func(int, Direction) []int) float64 {
	var sum float64
	for d := DirLeft; d <= DirUp; d++ {
		for _, n := range neighbors(cell, d) {
			sum += l.get(cell, n)
		}
	}
	return sum
}

// cellOps is the geometry-agnostic view balancing and dithering need: both
// phases only touch realized volume, allowance, depth and the neighbor
// graph, never the concrete 2D/3D shape, so this single implementation
// serves both the square and prism variants (spec §4.5.3-4.5.4).
type cellOps struct {
	depth      func(i int) int
	allowance  func(i int) float64
	realized   func(i int) float64 // realized volume if this cell stays a leaf
	subdivided func(i int) bool
	setSub     func(i int, v bool)
	maxDepth   int
	leaves     func() []int // current realized (leaf) cell indices, any order
	neighbors  func(i int, d Direction) []int
	// subdivide returns the indices of cell i's children, which both
	// variants build in advance down to maxDepth. It must leave the
	// parent's subdivided flag unset; the caller sets it.
	subdivide func(i int) []int
}

func (o *cellOps) valueBalance(i int, l *ledger) float64 {
	return o.allowance(i) - o.realized(i) + l.inbound(i, o.neighbors) - l.outbound(i, o.neighbors)
}

// constrained reports whether any neighbor of i has a strictly smaller
// depth, i.e. i cannot yet subdivide without (temporarily) breaking the
// depth-difference invariant on that side.
func (o *cellOps) constrained(i int) bool {
	for d := DirLeft; d <= DirUp; d++ {
		for _, n := range o.neighbors(i, d) {
			if o.depth(n) < o.depth(i) {
				return true
			}
		}
	}
	return false
}

// balance runs spec §4.5.3 to a fixed point: alternating subdivision and
// loan phases until a full pass makes no change.
func balance(o *cellOps, l *ledger) {
	for {
		changed := false

		// Subdivision phase: increasing depth order.
		for _, i := range sortedByDepth(o, false) {
			if o.subdivided(i) || o.depth(i) >= o.maxDepth || o.constrained(i) {
				continue
			}
			if o.valueBalance(i, l) < 0 {
				continue
			}
			settleOutboundNoLongerNeeded(o, l, i)
			children := o.subdivide(i)
			o.setSub(i, true)
			distributeLoansToChildren(o, l, i, children)
			solveChildDebts(o, l, children)
			changed = true
		}

		// Loan phase: decreasing depth order.
		for _, i := range sortedByDepth(o, true) {
			if o.subdivided(i) {
				continue
			}
			if !(o.valueBalance(i, l) > 0 && o.constrained(i)) {
				continue
			}
			var constrainers []int
			for d := DirLeft; d <= DirUp; d++ {
				for _, n := range o.neighbors(i, d) {
					if o.depth(n) < o.depth(i) {
						constrainers = append(constrainers, n)
					}
				}
			}
			if len(constrainers) == 0 {
				continue
			}
			share := o.valueBalance(i, l) / float64(len(constrainers))
			for _, n := range constrainers {
				l.transfer(i, n, share)
				changed = true
			}
		}

		if !changed {
			return
		}
	}
}

func sortedByDepth(o *cellOps, decreasing bool) []int {
	leaves := append([]int(nil), o.leaves()...)
	less := func(i, j int) bool { return o.depth(leaves[i]) < o.depth(leaves[j]) }
	if decreasing {
		less = func(i, j int) bool { return o.depth(leaves[i]) > o.depth(leaves[j]) }
	}
	insertionSort(leaves, less)
	return leaves
}

func insertionSort(a []int, less func(i, j int) bool) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

// settleOutboundNoLongerNeeded clears loans this cell still owes neighbors
// that were only required to satisfy a depth-difference constraint that no
// longer applies once it subdivides (spec §4.5.3: "settle the cell's
// outbound loans that are no longer needed").
func settleOutboundNoLongerNeeded(o *cellOps, l *ledger, i int) {
	for d := DirLeft; d <= DirUp; d++ {
		for _, n := range o.neighbors(i, d) {
			if o.depth(n) >= o.depth(i) {
				l.settle(i, n)
			}
		}
	}
}

// distributeLoansToChildren transfers all inbound loans of the parent
// equally to its new children.
func distributeLoansToChildren(o *cellOps, l *ledger, parent int, children []int) {
	if len(children) == 0 {
		return
	}
	for d := DirLeft; d <= DirUp; d++ {
		for _, n := range o.neighbors(parent, d) {
			owed := l.get(n, parent)
			if owed <= 0 {
				continue
			}
			l.settle(n, parent)
			share := owed / float64(len(children))
			for _, c := range children {
				l.transfer(n, c, share)
			}
		}
	}
}

// solveChildDebts rebalances negative child balances by introducing loans
// from positive-balance siblings; at most two iterations suffice (spec
// §4.5.3).
func solveChildDebts(o *cellOps, l *ledger, children []int) {
	for iter := 0; iter < 2; iter++ {
		changed := false
		for _, c := range children {
			bal := o.valueBalance(c, l)
			if bal >= 0 {
				continue
			}
			need := -bal
			var donors []int
			for _, s := range children {
				if s == c {
					continue
				}
				if o.valueBalance(s, l) > 0 {
					donors = append(donors, s)
				}
			}
			if len(donors) == 0 {
				continue
			}
			share := need / float64(len(donors))
			for _, s := range donors {
				give := share
				if surplus := o.valueBalance(s, l); surplus < give {
					give = surplus
				}
				if give > 0 {
					l.transfer(s, c, give)
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
