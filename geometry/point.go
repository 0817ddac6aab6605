package geometry

import "math"

// Point is a fixed-point 2D coordinate, in micrometres.
type Point struct {
	x, y Micrometer
}

// NewPoint constructs a Point from micrometre coordinates.
func NewPoint(x, y Micrometer) Point {
	return Point{x: x, y: y}
}

func (p Point) X() Micrometer { return p.x }
func (p Point) Y() Micrometer { return p.y }

func (p *Point) SetX(x Micrometer) { p.x = x }
func (p *Point) SetY(y Micrometer) { p.y = y }

func (p Point) Add(o Point) Point { return Point{p.x + o.x, p.y + o.y} }
func (p Point) Sub(o Point) Point { return Point{p.x - o.x, p.y - o.y} }

// Mul scales both coordinates by f.
func (p Point) Mul(f float64) Point {
	return Point{
		Micrometer(math.Round(float64(p.x) * f)),
		Micrometer(math.Round(float64(p.y) * f)),
	}
}

// Size returns the euclidean length of the vector from the origin.
func (p Point) Size() Micrometer {
	return Micrometer(math.Round(math.Sqrt(float64(p.x)*float64(p.x) + float64(p.y)*float64(p.y))))
}

// Size2 returns the squared length, avoiding a sqrt when only comparisons
// are needed.
func (p Point) Size2() int64 {
	return int64(p.x)*int64(p.x) + int64(p.y)*int64(p.y)
}

// Dist returns the euclidean distance between p and o.
func (p Point) Dist(o Point) Micrometer {
	return p.Sub(o).Size()
}

// Dist2 returns the squared euclidean distance between p and o.
func (p Point) Dist2(o Point) int64 {
	return p.Sub(o).Size2()
}

// ShorterThan reports whether the vector from the origin to p is strictly
// shorter than d.
func (p Point) ShorterThan(d Micrometer) bool {
	return p.Size2() < int64(d)*int64(d)
}

// ShorterThanOrEqual reports whether the vector from the origin to p has
// length <= d.
func (p Point) ShorterThanOrEqual(d Micrometer) bool {
	return p.Size2() <= int64(d)*int64(d)
}

// Dot returns the dot product of p and o.
func (p Point) Dot(o Point) int64 {
	return int64(p.x)*int64(o.x) + int64(p.y)*int64(o.y)
}

// Cross returns the 2D cross product (z component) of p and o.
func (p Point) Cross(o Point) int64 {
	return int64(p.x)*int64(o.y) - int64(p.y)*int64(o.x)
}

// Normal returns p scaled to have length len (0 if p is the zero vector).
func (p Point) Normal(length Micrometer) Point {
	size := p.Size()
	if size == 0 {
		return Point{}
	}
	return p.Mul(float64(length) / float64(size))
}

// Rotate rotates p around the origin by the given angle.
func (p Point) Rotate(a Angle) Point {
	rad := a.Radians()
	sin, cos := math.Sin(rad), math.Cos(rad)
	x := float64(p.x)*cos - float64(p.y)*sin
	y := float64(p.x)*sin + float64(p.y)*cos
	return Point{Micrometer(math.Round(x)), Micrometer(math.Round(y))}
}

// Eq reports whether two points have identical coordinates.
func (p Point) Eq(o Point) bool { return p.x == o.x && p.y == o.y }

// Point3 is a fixed-point 3D coordinate in micrometres.
type Point3 struct {
	X, Y Micrometer
	Z    Micrometer
}

// NewPoint3 constructs a Point3.
func NewPoint3(x, y, z Micrometer) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// To2D drops the z coordinate.
func (p Point3) To2D() Point { return Point{p.X, p.Y} }

// Box is an axis-aligned bounding box in 2D.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box primed so the first Extend call establishes real
// bounds.
func EmptyBox() Box {
	const inf = Micrometer(math.MaxInt64 / 2)
	return Box{Min: NewPoint(inf, inf), Max: NewPoint(-inf, -inf)}
}

// Extend grows the box to include p.
func (b Box) Extend(p Point) Box {
	if p.x < b.Min.x {
		b.Min.x = p.x
	}
	if p.y < b.Min.y {
		b.Min.y = p.y
	}
	if p.x > b.Max.x {
		b.Max.x = p.x
	}
	if p.y > b.Max.y {
		b.Max.y = p.y
	}
	return b
}

// Contains reports whether p lies within the box (inclusive).
func (b Box) Contains(p Point) bool {
	return p.x >= b.Min.x && p.x <= b.Max.x && p.y >= b.Min.y && p.y <= b.Max.y
}

// Overlaps reports whether two boxes share any area.
func (b Box) Overlaps(o Box) bool {
	return b.Min.x <= o.Max.x && b.Max.x >= o.Min.x && b.Min.y <= o.Max.y && b.Max.y >= o.Min.y
}

// Expand grows the box outward on all sides by d (or shrinks it if d<0).
func (b Box) Expand(d Micrometer) Box {
	return Box{
		Min: NewPoint(b.Min.x-d, b.Min.y-d),
		Max: NewPoint(b.Max.x+d, b.Max.y+d),
	}
}

// Width returns the box's x extent.
func (b Box) Width() Micrometer { return b.Max.x - b.Min.x }

// Height returns the box's y extent.
func (b Box) Height() Micrometer { return b.Max.y - b.Min.y }

// Box3 is an axis-aligned bounding box in 3D, used for density-provider
// queries in the subdivision fractal (§4.5).
type Box3 struct {
	Min, Max Point3
}

// Volume returns the box's geometric volume.
func (b Box3) Volume() float64 {
	return float64(b.Max.X-b.Min.X) * float64(b.Max.Y-b.Min.Y) * float64(b.Max.Z-b.Min.Z)
}
