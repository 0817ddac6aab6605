package geometry

import "testing"

func TestPointArithmetic(t *testing.T) {
	a := NewPoint(1000, 2000)
	b := NewPoint(500, -500)

	if got := a.Add(b); got != NewPoint(1500, 1500) {
		t.Errorf("Add: got %+v", got)
	}
	if got := a.Sub(b); got != NewPoint(500, 2500) {
		t.Errorf("Sub: got %+v", got)
	}
}

func TestPointSize(t *testing.T) {
	p := NewPoint(3000, 4000)
	if got := p.Size(); got != 5000 {
		t.Errorf("Size: got %d, want 5000", got)
	}
	if got := p.Size2(); got != 25_000_000 {
		t.Errorf("Size2: got %d, want 25000000", got)
	}
}

func TestPointDist(t *testing.T) {
	a := NewPoint(0, 0)
	b := NewPoint(3000, 4000)
	if got := a.Dist(b); got != 5000 {
		t.Errorf("Dist: got %d, want 5000", got)
	}
}

func TestShorterThan(t *testing.T) {
	p := NewPoint(3000, 4000)
	if p.ShorterThan(5000) {
		t.Error("3000,4000 vector should not be strictly shorter than its own length")
	}
	if !p.ShorterThanOrEqual(5000) {
		t.Error("should be shorter-than-or-equal to its own length")
	}
	if !p.ShorterThan(5001) {
		t.Error("should be shorter than 5001")
	}
}

func TestDotCross(t *testing.T) {
	a := NewPoint(1, 0)
	b := NewPoint(0, 1)
	if got := a.Dot(b); got != 0 {
		t.Errorf("Dot of perpendicular vectors: got %d, want 0", got)
	}
	if got := a.Cross(b); got != 1 {
		t.Errorf("Cross: got %d, want 1", got)
	}
}

func TestNormal(t *testing.T) {
	p := NewPoint(3000, 4000)
	got := p.Normal(10000)
	if got.Size() < 9999 || got.Size() > 10001 {
		t.Errorf("Normal length: got %d, want ~10000", got.Size())
	}

	zero := Point{}
	if got := zero.Normal(1000); got != (Point{}) {
		t.Errorf("Normal of zero vector should stay zero, got %+v", got)
	}
}

func TestRotate(t *testing.T) {
	p := NewPoint(1000, 0)
	got := p.Rotate(NewAngle(90))
	if abs64(int64(got.X())) > 1 {
		t.Errorf("Rotate 90deg: x should be ~0, got %d", got.X())
	}
	if abs64(int64(got.Y())-1000) > 1 {
		t.Errorf("Rotate 90deg: y should be ~1000, got %d", got.Y())
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestBoxContainsAndOverlaps(t *testing.T) {
	b := Box{Min: NewPoint(0, 0), Max: NewPoint(10000, 10000)}
	if !b.Contains(NewPoint(5000, 5000)) {
		t.Error("box should contain its center")
	}
	if b.Contains(NewPoint(20000, 20000)) {
		t.Error("box should not contain a far-away point")
	}

	other := Box{Min: NewPoint(5000, 5000), Max: NewPoint(15000, 15000)}
	if !b.Overlaps(other) {
		t.Error("overlapping boxes should report overlap")
	}

	disjoint := Box{Min: NewPoint(20000, 20000), Max: NewPoint(30000, 30000)}
	if b.Overlaps(disjoint) {
		t.Error("disjoint boxes should not report overlap")
	}
}

func TestBoxExpand(t *testing.T) {
	b := Box{Min: NewPoint(1000, 1000), Max: NewPoint(2000, 2000)}
	got := b.Expand(500)
	want := Box{Min: NewPoint(500, 500), Max: NewPoint(2500, 2500)}
	if got != want {
		t.Errorf("Expand: got %+v, want %+v", got, want)
	}
}

func TestAngleWrap(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{720 + 45, 45},
		{-720 - 10, 350},
	}
	for _, c := range cases {
		got := float64(NewAngle(c.in))
		if got < 0 || got >= 360 {
			t.Errorf("NewAngle(%v) = %v out of [0,360)", c.in, got)
		}
		if abs(got-c.want) > 1e-9 {
			t.Errorf("NewAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestAngleAddWraps(t *testing.T) {
	a := NewAngle(350)
	b := NewAngle(20)
	got := a.Add(b)
	if float64(got) < 0 || float64(got) >= 360 {
		t.Errorf("Add result out of range: %v", got)
	}
	if abs(float64(got)-10) > 1e-9 {
		t.Errorf("350+20 wrapped: got %v, want 10", got)
	}
}

func TestMicrometerMillimeterRoundTrip(t *testing.T) {
	mm := Millimeter(12.345)
	um := mm.ToMicrometer()
	if um != 12345 {
		t.Errorf("ToMicrometer: got %d, want 12345", um)
	}
	back := um.ToMillimeter()
	if abs(float64(back-mm)) > 1e-9 {
		t.Errorf("round trip: got %v, want %v", back, mm)
	}
}
