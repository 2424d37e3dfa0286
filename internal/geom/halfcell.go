package geom

import "fmt"

// YeeToHalf converts a box of Yee cells to the half-cell box covering all
// eight sub-positions of every cell.
func YeeToHalf(r Rect3i) Rect3i {
	return Rect3i{r.P1.Mul(2), r.P2.Mul(2).Add(Splat(1))}
}

// HalfToYee returns the Yee cells touched by a half-cell box.
func HalfToYee(r Rect3i) Rect3i {
	return Rect3i{YeeCellOf(r.P1), YeeCellOf(r.P2)}
}

// YeeCellOf returns the Yee cell containing half-cell p.
func YeeCellOf(p Vec3i) Vec3i {
	return Vec3i{floorDiv(p.X, 2), floorDiv(p.Y, 2), floorDiv(p.Z, 2)}
}

// Octant returns the parity class 0..7 of half-cell p: bit 0 is x, bit 1 y,
// bit 2 z.
func Octant(p Vec3i) int {
	return (p.X & 1) | (p.Y&1)<<1 | (p.Z&1)<<2
}

// OctantOffset returns the parity vector of octant o.
func OctantOffset(o int) Vec3i {
	return Vec3i{o & 1, (o >> 1) & 1, (o >> 2) & 1}
}

// ParityRect shrinks r to the corners of the sub-lattice with octant o's
// parity. The result is negative when r holds no such point.
func ParityRect(r Rect3i, o int) Rect3i {
	par := OctantOffset(o)
	var out Rect3i
	for axis := X; axis <= Z; axis++ {
		lo, hi := r.P1.At(axis), r.P2.At(axis)
		if mod(lo, 2) != par.At(axis) {
			lo++
		}
		if mod(hi, 2) != par.At(axis) {
			hi--
		}
		out.P1 = out.P1.With(axis, lo)
		out.P2 = out.P2.With(axis, hi)
	}
	return out
}

// Field is one of the six staggered field components.
type Field int

const (
	Ex Field = iota
	Ey
	Ez
	Hx
	Hy
	Hz
)

// Fields lists the components in update order.
var Fields = [6]Field{Ex, Ey, Ez, Hx, Hy, Hz}

var fieldNames = [6]string{"Ex", "Ey", "Ez", "Hx", "Hy", "Hz"}

func (f Field) String() string {
	if f < Ex || f > Hz {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// IsElectric reports whether f is an E component.
func (f Field) IsElectric() bool { return f <= Ez }

// Axis returns the polarization axis of f.
func (f Field) Axis() int { return int(f) % 3 }

// Octant returns the half-cell parity class f lives on. E components sit on
// the odd coordinate of their own axis, H components on the even one.
func (f Field) Octant() int {
	bit := 1 << f.Axis()
	if f.IsElectric() {
		return bit
	}
	return 7 &^ bit
}

// FieldOf maps an octant back to its field; ok is false for octants 0 and 7.
func FieldOf(octant int) (f Field, ok bool) {
	for _, f := range Fields {
		if f.Octant() == octant {
			return f, true
		}
	}
	return 0, false
}

// ParseField accepts "Ex".."Hz".
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field component %q", s)
}

// Side is one of the six cardinal sides of a box, ordered -x, +x, -y, +y, -z, +z.
type Side int

const (
	XLow Side = iota
	XHigh
	YLow
	YHigh
	ZLow
	ZHigh
)

// Sides lists all six sides.
var Sides = [6]Side{XLow, XHigh, YLow, YHigh, ZLow, ZHigh}

var sideNames = [6]string{"-x", "+x", "-y", "+y", "-z", "+z"}

func (s Side) String() string {
	if s < XLow || s > ZHigh {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Axis returns the axis normal to s.
func (s Side) Axis() int { return int(s) / 2 }

// Sign is -1 for low sides and +1 for high sides.
func (s Side) Sign() int {
	if s%2 == 0 {
		return -1
	}
	return 1
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side { return s ^ 1 }

// Normal returns the outward unit normal of s.
func (s Side) Normal() Vec3i { return Unit(s.Axis()).Mul(s.Sign()) }

// SideOf returns the side along axis with the given sign.
func SideOf(axis, sign int) Side {
	if sign < 0 {
		return Side(2 * axis)
	}
	return Side(2*axis + 1)
}
