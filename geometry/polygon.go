package geometry

import "math"

// Path is an ordered sequence of points; the last point connects implicitly
// back to the first when interpreted as a closed polygon.
type Path []Point

// Paths is an ordered sequence of Path.
type Paths []Path

// Polygon is a closed Path. The distinction from Path is purely semantic:
// a Polygon is always read as closed.
type Polygon = Path

// Polygons is an ordered sequence of Polygon; the set represents the area
// under the even-odd rule, so holes are polygons with opposite winding
// nested inside an outer polygon (spec §3).
type Polygons = Paths

// Area returns the signed area of the path read as a closed polygon. A
// positive area means counter-clockwise winding.
func (p Path) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum int64
	for i := range p {
		j := (i + 1) % len(p)
		sum += int64(p[i].x)*int64(p[j].y) - int64(p[j].x)*int64(p[i].y)
	}
	return float64(sum) / 2
}

// Orientation reports true for counter-clockwise winding (positive area).
func (p Path) Orientation() bool {
	return p.Area() >= 0
}

// Reverse returns the path with point order reversed.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Length returns the total length of the path read as an open polyline.
func (p Path) Length() Micrometer {
	var total Micrometer
	for i := 1; i < len(p); i++ {
		total += p[i].Dist(p[i-1])
	}
	return total
}

// ClosedLength returns the total length of the path read as a closed
// polygon (including the implicit closing segment).
func (p Path) ClosedLength() Micrometer {
	if len(p) < 2 {
		return 0
	}
	return p.Length() + p[len(p)-1].Dist(p[0])
}

// BoundingBox returns the axis-aligned bounding box of the path.
func (p Path) BoundingBox() Box {
	b := EmptyBox()
	for _, pt := range p {
		b = b.Extend(pt)
	}
	return b
}

// IsAlmostFinished reports whether the first and last point of the path lie
// within snapDistance of each other, meaning the path can be closed.
func (p Path) IsAlmostFinished(snapDistance Micrometer) bool {
	if len(p) < 2 {
		return false
	}
	return p[0].Sub(p[len(p)-1]).ShorterThanOrEqual(snapDistance)
}

// Simplify removes points closer than minDistSquared to the previously kept
// point, and a last point that lies that close to the first. Points are not
// removed for lying near the line through their neighbors:
// smallestLineSegmentSquared is accepted but not used beyond its default.
// Negative thresholds fall back to defaults of 10 micrometres.
func (p Path) Simplify(smallestLineSegmentSquared, minDistSquared int64) Path {
	if smallestLineSegmentSquared < 0 {
		smallestLineSegmentSquared = 100
	}
	if minDistSquared < 0 {
		minDistSquared = 100
	}
	if len(p) < 3 {
		return p
	}

	out := make(Path, 0, len(p))
	out = append(out, p[0])
	for i := 1; i < len(p); i++ {
		last := out[len(out)-1]
		if p[i].Dist2(last) < minDistSquared {
			continue
		}
		out = append(out, p[i])
	}
	if len(out) > 2 && out[0].Dist2(out[len(out)-1]) < minDistSquared {
		out = out[:len(out)-1]
	}
	return out
}

// BoundingBox returns the union of the bounding boxes of every path.
func (p Paths) BoundingBox() Box {
	b := EmptyBox()
	for _, path := range p {
		for _, pt := range path {
			b = b.Extend(pt)
		}
	}
	return b
}

// LayerPart is a single connected region of a layer: an outer contour plus
// zero or more hole contours, as produced by the even-odd union of all
// outlines touching that region.
type LayerPart struct {
	outline Path
	holes   Paths
}

// NewLayerPart constructs a LayerPart from an outline and its holes.
func NewLayerPart(outline Path, holes Paths) LayerPart {
	return LayerPart{outline: outline, holes: holes}
}

// Outline returns the part's outer contour.
func (l LayerPart) Outline() Path { return l.outline }

// Holes returns the part's hole contours.
func (l LayerPart) Holes() Paths { return l.holes }

// AllPaths returns the outline followed by all holes, as a single Paths.
func (l LayerPart) AllPaths() Paths {
	return append(Paths{l.outline}, l.holes...)
}

// Size returns the bounding box min/max of the whole part (outline only;
// holes are always contained in it).
func (l LayerPart) Size() (Point, Point) {
	b := l.outline.BoundingBox()
	return b.Min, b.Max
}

// BoundingBox returns the part's bounding box.
func (l LayerPart) BoundingBox() Box {
	return l.outline.BoundingBox()
}

// Inside reports whether p lies inside the outline and outside every hole.
func (l LayerPart) Inside(p Point) bool {
	if !PointInPolygon(p, l.outline) {
		return false
	}
	for _, h := range l.holes {
		if PointInPolygon(p, h) {
			return false
		}
	}
	return true
}

// PartitionedLayer is a layer already split into disjoint parts, each
// possibly carrying attributes attached by an upstream collaborator
// (e.g. "support", "fullSupport", "brim").
type PartitionedLayer interface {
	LayerParts() []LayerPart
	Attributes() map[string]interface{}
}

type partitionedLayer struct {
	parts      []LayerPart
	attributes map[string]interface{}
}

// NewPartitionedLayer wraps a slice of parts into a PartitionedLayer with no
// attributes set.
func NewPartitionedLayer(parts []LayerPart) PartitionedLayer {
	return &partitionedLayer{parts: parts, attributes: map[string]interface{}{}}
}

func (p *partitionedLayer) LayerParts() []LayerPart          { return p.parts }
func (p *partitionedLayer) Attributes() map[string]interface{} { return p.attributes }

// WithAttribute returns a shallow copy of layer with key set to value,
// mirroring the teacher's "extendedLayer" pattern of non-destructively
// attaching attributes computed by a later modifier.
func WithAttribute(layer PartitionedLayer, key string, value interface{}) PartitionedLayer {
	attrs := map[string]interface{}{}
	for k, v := range layer.Attributes() {
		attrs[k] = v
	}
	attrs[key] = value
	return &partitionedLayer{parts: layer.LayerParts(), attributes: attrs}
}

// PartsToPaths flattens a slice of LayerPart into outlines+holes as Paths,
// in outline-then-holes order per part.
func PartsToPaths(parts []LayerPart) Paths {
	var out Paths
	for _, p := range parts {
		out = append(out, p.outline)
		out = append(out, p.holes...)
	}
	return out
}

// roundToInt rounds a float64 to the nearest Micrometer.
func roundToInt(v float64) Micrometer {
	return Micrometer(math.Round(v))
}
