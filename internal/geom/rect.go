package geom

import "fmt"

// Rect3i is an axis-aligned box with inclusive corners P1 and P2. A box whose
// size is zero along an axis is one cell thick there.
type Rect3i struct {
	P1, P2 Vec3i
}

// NewRect returns the box with the given inclusive corners.
func NewRect(x1, y1, z1, x2, y2, z2 int) Rect3i {
	return Rect3i{Vec3i{x1, y1, z1}, Vec3i{x2, y2, z2}}
}

// Size returns P2 - P1; zero means a single layer along that axis.
func (r Rect3i) Size() Vec3i { return r.P2.Sub(r.P1) }

// Dims returns the number of cells along each axis.
func (r Rect3i) Dims() Vec3i { return r.Size().Add(Splat(1)) }

// NumCells returns the number of lattice points in the box, 0 if it is negative.
func (r Rect3i) NumCells() int {
	if r.IsNegative() {
		return 0
	}
	d := r.Dims()
	return d.X * d.Y * d.Z
}

// IsNegative reports whether P2 < P1 along any axis.
func (r Rect3i) IsNegative() bool {
	return r.P2.X < r.P1.X || r.P2.Y < r.P1.Y || r.P2.Z < r.P1.Z
}

// Contains reports whether p lies inside the box.
func (r Rect3i) Contains(p Vec3i) bool {
	return r.P1.X <= p.X && p.X <= r.P2.X &&
		r.P1.Y <= p.Y && p.Y <= r.P2.Y &&
		r.P1.Z <= p.Z && p.Z <= r.P2.Z
}

// Encloses reports whether other lies entirely inside r.
func (r Rect3i) Encloses(other Rect3i) bool {
	return r.Contains(other.P1) && r.Contains(other.P2)
}

// Intersect returns the overlap of two boxes; the result may be negative.
func (r Rect3i) Intersect(other Rect3i) Rect3i {
	return Rect3i{
		P1: Vec3i{imax(r.P1.X, other.P1.X), imax(r.P1.Y, other.P1.Y), imax(r.P1.Z, other.P1.Z)},
		P2: Vec3i{imin(r.P2.X, other.P2.X), imin(r.P2.Y, other.P2.Y), imin(r.P2.Z, other.P2.Z)},
	}
}

// Overlaps reports whether the boxes share at least one cell.
func (r Rect3i) Overlaps(other Rect3i) bool {
	return !r.Intersect(other).IsNegative()
}

// Grow expands the box by n cells on every side (negative n shrinks).
func (r Rect3i) Grow(n int) Rect3i {
	return Rect3i{r.P1.Sub(Splat(n)), r.P2.Add(Splat(n))}
}

// GrowAxis expands the box by lo cells below and hi cells above along axis.
func (r Rect3i) GrowAxis(axis, lo, hi int) Rect3i {
	r.P1 = r.P1.With(axis, r.P1.At(axis)-lo)
	r.P2 = r.P2.With(axis, r.P2.At(axis)+hi)
	return r
}

// Translate moves the box by d.
func (r Rect3i) Translate(d Vec3i) Rect3i {
	return Rect3i{r.P1.Add(d), r.P2.Add(d)}
}

// Clip returns the point of the box nearest to p.
func (r Rect3i) Clip(p Vec3i) Vec3i {
	return Vec3i{
		clamp(p.X, r.P1.X, r.P2.X),
		clamp(p.Y, r.P1.Y, r.P2.Y),
		clamp(p.Z, r.P1.Z, r.P2.Z),
	}
}

// Face returns the single-layer box on side s of r.
func (r Rect3i) Face(s Side) Rect3i {
	axis := s.Axis()
	if s.Sign() < 0 {
		r.P2 = r.P2.With(axis, r.P1.At(axis))
	} else {
		r.P1 = r.P1.With(axis, r.P2.At(axis))
	}
	return r
}

// Each visits every point of the box in scanline order: x fastest, then y,
// then z. Stepping by step (1 or 2) walks one parity sub-lattice when the
// corners are chosen accordingly.
func (r Rect3i) Each(step int, fn func(p Vec3i)) {
	for z := r.P1.Z; z <= r.P2.Z; z += step {
		for y := r.P1.Y; y <= r.P2.Y; y += step {
			for x := r.P1.X; x <= r.P2.X; x += step {
				fn(Vec3i{x, y, z})
			}
		}
	}
}

func (r Rect3i) String() string {
	return fmt.Sprintf("[%v, %v]", r.P1, r.P2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
