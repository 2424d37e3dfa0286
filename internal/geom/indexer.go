package geom

import "github.com/lukaszgryglicki/yeegrid/internal/errs"

// Indexer maps half-cell positions of one octant to offsets in a dense
// Yee-cell array covering a half-cell box. Offsets have stride 1 along x, so a
// scanline run of one octant is contiguous. A periodic indexer wraps
// positions outside the box back into it, preserving parity.
type Indexer struct {
	bounds   Rect3i
	origin   Vec3i // Yee cell of bounds.P1
	dims     Vec3i // Yee cells per axis
	periodic bool
}

// NewIndexer builds an indexer over a half-cell box. Periodic indexers need
// an even-aligned box so wrapping keeps every octant on its sub-lattice.
func NewIndexer(bounds Rect3i, periodic bool) Indexer {
	errs.Invariant(!bounds.IsNegative(), "indexer over negative box %v", bounds)
	if periodic {
		d := bounds.Dims()
		errs.Invariant(mod(bounds.P1.X, 2) == 0 && mod(bounds.P1.Y, 2) == 0 && mod(bounds.P1.Z, 2) == 0 &&
			d.X%2 == 0 && d.Y%2 == 0 && d.Z%2 == 0, "periodic indexer needs even-aligned box, got %v", bounds)
	}
	y := HalfToYee(bounds)
	return Indexer{bounds: bounds, origin: y.P1, dims: y.Dims(), periodic: periodic}
}

// Bounds returns the indexed half-cell box.
func (ix Indexer) Bounds() Rect3i { return ix.bounds }

// Dims returns the Yee-cell dimensions of the array.
func (ix Indexer) Dims() Vec3i { return ix.dims }

// Len is the array length needed for one octant.
func (ix Indexer) Len() int { return ix.dims.X * ix.dims.Y * ix.dims.Z }

// Stride returns the offset step between neighboring Yee cells along axis.
func (ix Indexer) Stride(axis int) int {
	switch axis {
	case X:
		return 1
	case Y:
		return ix.dims.X
	}
	return ix.dims.X * ix.dims.Y
}

// Wrap folds p into the box along every axis. It is the identity for
// non-periodic indexers.
func (ix Indexer) Wrap(p Vec3i) Vec3i {
	if !ix.periodic {
		return p
	}
	d := ix.bounds.Dims()
	return Vec3i{
		ix.bounds.P1.X + mod(p.X-ix.bounds.P1.X, d.X),
		ix.bounds.P1.Y + mod(p.Y-ix.bounds.P1.Y, d.Y),
		ix.bounds.P1.Z + mod(p.Z-ix.bounds.P1.Z, d.Z),
	}
}

// Index returns the array offset of half-cell p.
func (ix Indexer) Index(p Vec3i) int {
	p = ix.Wrap(p)
	errs.Invariant(ix.bounds.Contains(p), "position %v outside indexed box %v", p, ix.bounds)
	c := YeeCellOf(p).Sub(ix.origin)
	return c.X + ix.dims.X*(c.Y+ix.dims.Y*c.Z)
}
