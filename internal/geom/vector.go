package geom

import "fmt"

// Axis indices for readability.
const (
	X = 0
	Y = 1
	Z = 2
)

// Vec3i is an integer point or offset on the half-cell or Yee lattice.
type Vec3i struct {
	X, Y, Z int
}

// Vector functions
func (a Vec3i) Add(b Vec3i) Vec3i { return Vec3i{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3i) Sub(b Vec3i) Vec3i { return Vec3i{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v Vec3i) Mul(s int) Vec3i   { return Vec3i{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3i) Neg() Vec3i        { return Vec3i{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product between two vectors.
func (a Vec3i) Dot(b Vec3i) int {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// At returns the component along axis (X, Y or Z).
func (v Vec3i) At(axis int) int {
	switch axis {
	case X:
		return v.X
	case Y:
		return v.Y
	case Z:
		return v.Z
	}
	panic(fmt.Sprintf("geom: bad axis %d", axis))
}

// With returns a copy of v with the component along axis replaced.
func (v Vec3i) With(axis, value int) Vec3i {
	switch axis {
	case X:
		v.X = value
	case Y:
		v.Y = value
	case Z:
		v.Z = value
	default:
		panic(fmt.Sprintf("geom: bad axis %d", axis))
	}
	return v
}

// Sign clamps every component to -1, 0 or +1.
func (v Vec3i) Sign() Vec3i {
	return Vec3i{sign(v.X), sign(v.Y), sign(v.Z)}
}

// IsZero reports whether all components are zero.
func (v Vec3i) IsZero() bool { return v == Vec3i{} }

// NonZero counts the nonzero components.
func (v Vec3i) NonZero() int {
	n := 0
	for axis := X; axis <= Z; axis++ {
		if v.At(axis) != 0 {
			n++
		}
	}
	return n
}

// Parity returns each component modulo 2 (0 or 1, also for negatives).
func (v Vec3i) Parity() Vec3i {
	return Vec3i{v.X & 1, v.Y & 1, v.Z & 1}
}

// Compare orders vectors by X, then Y, then Z.
func (a Vec3i) Compare(b Vec3i) int {
	for axis := X; axis <= Z; axis++ {
		if d := a.At(axis) - b.At(axis); d != 0 {
			return sign(d)
		}
	}
	return 0
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Unit returns the unit vector along axis.
func Unit(axis int) Vec3i {
	return Vec3i{}.With(axis, 1)
}

// Splat returns a vector with all three components equal to s.
func Splat(s int) Vec3i { return Vec3i{s, s, s} }

func sign(x int) int {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// floorDiv divides rounding toward negative infinity, so negative half-cell
// coordinates land in the right Yee cell.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the non-negative remainder of a modulo b (b > 0).
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
