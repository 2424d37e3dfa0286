package voxel

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// CopyFrom paints dst with the bulk parents of the paints in srcRect of src.
// An axis where srcRect has size zero is broadcast over dst; every other axis
// must have matching sizes, and matching parity where both extents span more
// than one cell. Unpainted source cells stay unpainted.
func (g *Grid) CopyFrom(src *Grid, dst, srcRect geom.Rect3i) error {
	if dst.IsNegative() || srcRect.IsNegative() {
		return fmt.Errorf("copy between negative boxes %v <- %v", dst, srcRect)
	}
	if !src.bounds.Encloses(srcRect) {
		return fmt.Errorf("source box %v is outside grid %q %v", srcRect, src.Name, src.bounds)
	}
	dSize, sSize := dst.Size(), srcRect.Size()
	var broadcast [3]bool
	for axis := geom.X; axis <= geom.Z; axis++ {
		switch {
		case sSize.At(axis) == 0:
			broadcast[axis] = true
		case sSize.At(axis) != dSize.At(axis):
			return fmt.Errorf("copy size mismatch along axis %d: %v <- %v", axis, dst, srcRect)
		case dst.P1.At(axis)&1 != srcRect.P1.At(axis)&1:
			return fmt.Errorf("copy parity mismatch along axis %d: %v <- %v", axis, dst, srcRect)
		}
	}

	shift := srcRect.P1.Sub(dst.P1)
	dst.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		q := p.Add(shift)
		for axis := geom.X; axis <= geom.Z; axis++ {
			if broadcast[axis] {
				q = q.With(axis, srcRect.P1.At(axis))
			}
		}
		h := src.At(q)
		if h != paint.None {
			h = g.Palette.BulkParent(h)
		}
		g.Set(p, h)
	})
	return nil
}

// Extrude repaints every cell of dst outside from with the paint of the
// nearest cell of from.
func (g *Grid) Extrude(dst, from geom.Rect3i) error {
	if from.IsNegative() {
		return fmt.Errorf("extrude from negative box %v", from)
	}
	if !g.bounds.Encloses(from) {
		return fmt.Errorf("extrude source %v is outside the grid %v", from, g.bounds)
	}
	dst.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		if !from.Contains(p) {
			g.Set(p, g.At(from.Clip(p)))
		}
	})
	return nil
}
