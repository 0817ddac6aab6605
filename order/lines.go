package order

import (
	"math"
	"sort"

	"layercore/geometry"
)

// OptimizeLinesShortest greedily orders open polylines by nearest
// endpoint from the current position, reversing a line when its far end
// is closer (spec §4.7: add_lines_by_optimizer).
func OptimizeLinesShortest(lines geometry.Paths, from geometry.Point) geometry.Paths {
	n := len(lines)
	visited := make([]bool, n)
	out := make(geometry.Paths, 0, n)
	current := from

	for picked := 0; picked < n; picked++ {
		best := -1
		bestDist := int64(math.MaxInt64)
		bestReverse := false
		for i, line := range lines {
			if visited[i] || len(line) == 0 {
				continue
			}
			if d := current.Dist2(line[0]); d < bestDist {
				bestDist, best, bestReverse = d, i, false
			}
			if d := current.Dist2(line[len(line)-1]); d < bestDist {
				bestDist, best, bestReverse = d, i, true
			}
		}
		if best < 0 {
			break
		}
		visited[best] = true
		line := lines[best]
		if bestReverse {
			line = reversed(line)
		}
		out = append(out, line)
		current = line[len(line)-1]
	}
	return out
}

func reversed(p geometry.Path) geometry.Path {
	out := make(geometry.Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// monotonicLine pairs a line with its projection range onto the
// monotonic axis, for grouping and sorting (spec §4.7, §8 Scenario F).
type monotonicLine struct {
	line     geometry.Path
	loProj   float64
	hiProj   float64
	loPerp   float64
	hiPerp   float64
}

// OptimizeLinesMonotonic orders lines so their projections onto axis are
// non-decreasing, without splitting a group of perpendicular-adjacent
// lines across a line from another group whose perpendicular range
// overlaps theirs (spec §4.7, §8 Scenario F / §4 invariant 6).
func OptimizeLinesMonotonic(lines geometry.Paths, axis geometry.Point) geometry.Paths {
	axisLen := float64(axis.Size())
	if axisLen == 0 {
		return lines
	}
	ax, ay := float64(axis.X())/axisLen, float64(axis.Y())/axisLen
	perpX, perpY := -ay, ax

	entries := make([]monotonicLine, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		loProj, hiProj := math.MaxFloat64, -math.MaxFloat64
		loPerp, hiPerp := math.MaxFloat64, -math.MaxFloat64
		for _, p := range line {
			proj := float64(p.X())*ax + float64(p.Y())*ay
			perp := float64(p.X())*perpX + float64(p.Y())*perpY
			if proj < loProj {
				loProj = proj
			}
			if proj > hiProj {
				hiProj = proj
			}
			if perp < loPerp {
				loPerp = perp
			}
			if perp > hiPerp {
				hiPerp = perp
			}
		}
		entries = append(entries, monotonicLine{line: line, loProj: loProj, hiProj: hiProj, loPerp: loPerp, hiPerp: hiPerp})
	}

	groups := groupByPerpendicularOverlap(entries)
	sort.Slice(groups, func(i, j int) bool {
		return groupMinProj(groups[i]) < groupMinProj(groups[j])
	})

	out := make(geometry.Paths, 0, len(lines))
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].loProj < g[j].loProj })
		for _, e := range g {
			out = append(out, e.line)
		}
	}
	return out
}

// groupByPerpendicularOverlap clusters lines whose perpendicular extents
// overlap transitively: these form one "group" that must stay contiguous
// in the monotonic traversal (spec §4 invariant 6).
func groupByPerpendicularOverlap(entries []monotonicLine) [][]monotonicLine {
	n := len(entries)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if entries[i].loPerp <= entries[j].hiPerp && entries[j].loPerp <= entries[i].hiPerp {
				union(i, j)
			}
		}
	}
	byRoot := map[int][]monotonicLine{}
	var order []int
	for i := 0; i < n; i++ {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], entries[i])
	}
	groups := make([][]monotonicLine, 0, len(order))
	for _, r := range order {
		groups = append(groups, byRoot[r])
	}
	return groups
}

func groupMinProj(g []monotonicLine) float64 {
	min := math.MaxFloat64
	for _, e := range g {
		if e.loProj < min {
			min = e.loProj
		}
	}
	return min
}
