// Package voxel holds the dense per-half-cell paint array of one grid and the
// operations that stamp geometry and boundary decorations into it.
package voxel

import (
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// Grid stores one paint handle per half-cell of a box. Coordinates outside
// the box wrap around, so the grid reads as periodic in every direction.
type Grid struct {
	Name    string
	Palette *paint.Palette

	bounds  geom.Rect3i
	dims    geom.Vec3i
	strideY int // z * strideZ + y * strideY + x
	strideZ int
	cells   []paint.Handle
}

// NewGrid allocates an unpainted grid over a half-cell box.
func NewGrid(name string, bounds geom.Rect3i, pl *paint.Palette) *Grid {
	errs.Invariant(!bounds.IsNegative(), "grid %q over negative box %v", name, bounds)
	d := bounds.Dims()
	g := &Grid{
		Name:    name,
		Palette: pl,
		bounds:  bounds,
		dims:    d,
		strideY: d.X,
		strideZ: d.X * d.Y,
		cells:   make([]paint.Handle, d.X*d.Y*d.Z),
	}
	logging.Logger().Debug("created voxel grid", "grid", name, "bounds", bounds.String(), "cells", len(g.cells))
	return g
}

// Bounds returns the half-cell box of the grid.
func (g *Grid) Bounds() geom.Rect3i { return g.bounds }

// Wrap folds p into the grid box.
func (g *Grid) Wrap(p geom.Vec3i) geom.Vec3i {
	return geom.Vec3i{
		X: g.bounds.P1.X + wrap(p.X-g.bounds.P1.X, g.dims.X),
		Y: g.bounds.P1.Y + wrap(p.Y-g.bounds.P1.Y, g.dims.Y),
		Z: g.bounds.P1.Z + wrap(p.Z-g.bounds.P1.Z, g.dims.Z),
	}
}

// Flat index helper.
func (g *Grid) idx(p geom.Vec3i) int {
	p = g.Wrap(p)
	return (p.X - g.bounds.P1.X) + (p.Y-g.bounds.P1.Y)*g.strideY + (p.Z-g.bounds.P1.Z)*g.strideZ
}

// At returns the paint at half-cell p.
func (g *Grid) At(p geom.Vec3i) paint.Handle { return g.cells[g.idx(p)] }

// Set paints half-cell p.
func (g *Grid) Set(p geom.Vec3i, h paint.Handle) { g.cells[g.idx(p)] = h }

// Fill paints every half-cell of r that lies inside the grid.
func (g *Grid) Fill(r geom.Rect3i, h paint.Handle) {
	r = r.Intersect(g.bounds)
	if r.IsNegative() {
		return
	}
	r.Each(1, func(p geom.Vec3i) { g.Set(p, h) })
}

// FirstUnpainted returns the first half-cell of r (scanline order) that has
// no paint.
func (g *Grid) FirstUnpainted(r geom.Rect3i) (geom.Vec3i, bool) {
	var (
		found geom.Vec3i
		ok    bool
	)
	r.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		if !ok && g.At(p) == paint.None {
			found, ok = p, true
		}
	})
	return found, ok
}

// Handles returns the distinct paints of r in first-seen scanline order.
func (g *Grid) Handles(r geom.Rect3i) []paint.Handle {
	seen := map[paint.Handle]bool{}
	var out []paint.Handle
	r.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		h := g.At(p)
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	})
	return out
}

func wrap(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
