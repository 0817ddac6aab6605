package geometry

import (
	"fmt"

	clipper "github.com/aligator/go.clipper"
)

// GeometryError is returned when the clipping library cannot resolve a
// polygon set given to a boolean operation (spec §4.1): coincident
// self-intersecting edges it cannot untangle. It is layer-scoped (§7): the
// caller skips the offending feature and logs a warning, it does not abort
// the slice.
type GeometryError struct {
	Op string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: clipping operation %q failed on a degenerate polygon set", e.Op)
}

// JoinType selects the join style used when offsetting a polygon.
type JoinType int

const (
	JoinSquare JoinType = iota
	JoinMiter
	JoinRound
)

func toClipperJoin(j JoinType) clipper.JoinType {
	switch j {
	case JoinMiter:
		return clipper.JtMiter
	case JoinRound:
		return clipper.JtRound
	default:
		return clipper.JtSquare
	}
}

func toPoint(p *clipper.IntPoint) Point {
	return NewPoint(Micrometer(p.X), Micrometer(p.Y))
}

func toClipperPoint(p Point) *clipper.IntPoint {
	return &clipper.IntPoint{X: clipper.CInt(p.x), Y: clipper.CInt(p.y)}
}

func toClipperPath(p Path) clipper.Path {
	out := make(clipper.Path, 0, len(p))
	for _, pt := range p {
		out = append(out, toClipperPoint(pt))
	}
	return out
}

func toClipperPaths(p Paths) clipper.Paths {
	out := make(clipper.Paths, 0, len(p))
	for _, path := range p {
		out = append(out, toClipperPath(path))
	}
	return out
}

func fromClipperPath(p clipper.Path) Path {
	out := make(Path, 0, len(p))
	for _, pt := range p {
		out = append(out, toPoint(pt))
	}
	return out
}

func fromClipperPaths(p clipper.Paths) Paths {
	out := make(Paths, 0, len(p))
	for _, path := range p {
		out = append(out, fromClipperPath(path))
	}
	return out
}

func booleanOp(op clipper.ClipType, subject, clip Paths) (Paths, error) {
	c := clipper.NewClipper(clipper.IoNone)
	if len(subject) > 0 {
		c.AddPaths(toClipperPaths(subject), clipper.PtSubject, true)
	}
	if len(clip) > 0 {
		c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	}
	result, ok := c.Execute2(op, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil, &GeometryError{Op: opName(op)}
	}
	return fromClipperPaths(polyTreeToPaths(result)), nil
}

func opName(op clipper.ClipType) string {
	switch op {
	case clipper.CtUnion:
		return "union"
	case clipper.CtDifference:
		return "difference"
	case clipper.CtIntersection:
		return "intersection"
	case clipper.CtXor:
		return "xor"
	default:
		return "unknown"
	}
}

func polyTreeToPaths(tree *clipper.PolyTree) clipper.Paths {
	var out clipper.Paths
	var walk func(nodes []*clipper.PolyNode)
	walk = func(nodes []*clipper.PolyNode) {
		for _, n := range nodes {
			out = append(out, n.Contour())
			walk(n.Childs())
		}
	}
	walk(tree.Childs())
	return out
}

// Union returns the symmetric-difference union (even-odd) of two polygon
// sets.
func Union(a, b Paths) (Paths, error) {
	return booleanOp(clipper.CtUnion, a, b)
}

// Difference subtracts b from a.
func Difference(a, b Paths) (Paths, error) {
	return booleanOp(clipper.CtDifference, a, b)
}

// Intersection returns the overlap of a and b.
func Intersection(a, b Paths) (Paths, error) {
	return booleanOp(clipper.CtIntersection, a, b)
}

// Xor returns the symmetric difference of a and b.
func Xor(a, b Paths) (Paths, error) {
	return booleanOp(clipper.CtXor, a, b)
}

// Offset insets (negative distance) or outsets (positive distance) every
// polygon in p by distance, using the given join style. A mitre limit of 2
// is used for mitred joins, matching the teacher's Inset implementation.
func Offset(p Paths, distance Micrometer, join JoinType) (Paths, error) {
	if len(p) == 0 {
		return nil, nil
	}
	o := clipper.NewClipperOffset()
	o.MiterLimit = 2
	o.AddPaths(toClipperPaths(p), toClipperJoin(join), clipper.EtClosedPolygon)
	result := o.Execute2(float64(distance))
	if result == nil {
		return nil, &GeometryError{Op: "offset"}
	}
	return fromClipperPaths(polyTreeToPaths(result)), nil
}

// OffsetLayerParts offsets every part (outline+holes together, so holes
// shrink as the outline grows and vice versa) by distance and returns the
// resulting parts after re-union.
func OffsetLayerParts(parts []LayerPart, distance Micrometer, join JoinType) ([]LayerPart, error) {
	all := PartsToPaths(parts)
	offset, err := Offset(all, distance, join)
	if err != nil {
		return nil, err
	}
	return PartitionPaths(offset)
}

// PartitionPaths unions an arbitrary Paths soup under the even-odd rule and
// splits the result into disjoint LayerParts (outline + nested holes),
// mirroring the teacher's clipperClipper.polyTreeToLayerParts.
func PartitionPaths(paths Paths) ([]LayerPart, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(paths), clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil, &GeometryError{Op: "union"}
	}
	return polyTreeToLayerParts(tree), nil
}

func polyTreeToLayerParts(tree *clipper.PolyTree) []LayerPart {
	var parts []LayerPart
	var pending []*clipper.PolyNode
	pending = append(pending, tree.Childs()...)

	for len(pending) > 0 {
		thisRound := pending
		pending = nil
		for _, node := range thisRound {
			var holes Paths
			for _, hole := range node.Childs() {
				holes = append(holes, fromClipperPath(hole.Contour()))
				pending = append(pending, hole.Childs()...)
			}
			parts = append(parts, NewLayerPart(fromClipperPath(node.Contour()), holes))
		}
	}
	return parts
}
