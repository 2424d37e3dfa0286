package voxel

import (
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// CouplingLayers returns the two half-cell layers a coupling buffer on side s
// of total-field box tf exchanges: the face of tf and the layer just outside it.
func CouplingLayers(tf geom.Rect3i, s geom.Side) geom.Rect3i {
	face := tf.Face(s)
	if s.Sign() < 0 {
		return face.GrowAxis(s.Axis(), 1, 0)
	}
	return face.GrowAxis(s.Axis(), 0, 1)
}

// OverlayHuygens decorates the coupling layers of total-field box tf. For
// every side with a buffer, the face cells read their outward neighbor from
// it and the cells just outside read their inward neighbor from it.
func (g *Grid) OverlayHuygens(tf geom.Rect3i, buffers [6]paint.BufferID) {
	for _, s := range geom.Sides {
		s := s
		buf := buffers[s]
		if buf == paint.NoBuffer {
			continue
		}
		inside := tf.Face(s)
		outside := inside.Translate(s.Normal())
		g.decorate(inside, func(h paint.Handle) paint.Handle { return g.Palette.WithBuffer(h, s, buf) })
		g.decorate(outside, func(h paint.Handle) paint.Handle { return g.Palette.WithBuffer(h, s.Opposite(), buf) })
	}
}

// OverlayPML decorates every cell outside nonPML with a PML paint derived from
// the bulk paint of the nearest non-PML cell. The direction points from that
// cell towards the decorated one.
func (g *Grid) OverlayPML(nonPML geom.Rect3i) {
	errs.Invariant(!nonPML.IsNegative() && g.bounds.Encloses(nonPML), "non-PML region %v not inside grid %v", nonPML, g.bounds)
	type pmlKey struct {
		parent paint.Handle
		dir    geom.Vec3i
	}
	cache := map[pmlKey]paint.Handle{}
	g.bounds.Each(1, func(p geom.Vec3i) {
		if nonPML.Contains(p) {
			return
		}
		q := nonPML.Clip(p)
		dir := p.Sub(q).Sign()
		parent := g.At(q)
		errs.Invariant(parent != paint.None, "unpainted non-PML cell %v in grid %q", q, g.Name)
		parent = g.Palette.BulkParent(parent)
		key := pmlKey{parent, dir}
		h, ok := cache[key]
		if !ok {
			h = g.Palette.WithPML(parent, dir)
			cache[key] = h
		}
		g.Set(p, h)
	})
}

// OverlayCurrent decorates every cell of r with current source cur.
func (g *Grid) OverlayCurrent(r geom.Rect3i, cur paint.CurrentID) {
	g.decorate(r, func(h paint.Handle) paint.Handle { return g.Palette.WithCurrent(h, cur) })
}

// decorate replaces each painted cell of r by derive(cell), memoized per
// input handle.
func (g *Grid) decorate(r geom.Rect3i, derive func(paint.Handle) paint.Handle) {
	memo := map[paint.Handle]paint.Handle{}
	r.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		h := g.At(p)
		errs.Invariant(h != paint.None, "decorating unpainted cell %v in grid %q", p, g.Name)
		d, ok := memo[h]
		if !ok {
			d = derive(h)
			memo[h] = d
		}
		g.Set(p, d)
	})
}
