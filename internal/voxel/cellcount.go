package voxel

import (
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// CellCount numbers the cells of a box per octant and curl-buffer parent:
// the n-th cell of a parent on an octant gets index n. Delegates size their
// per-cell arrays from Count and address them with Index.
type CellCount struct {
	bounds   geom.Rect3i
	index    []int
	counts   [8]map[paint.Handle]int
	parentOf map[paint.Handle]paint.Handle
	parents  []paint.Handle
}

// NewCellCount runs one scanline pass over bounds.
func NewCellCount(g *Grid, bounds geom.Rect3i) *CellCount {
	errs.Invariant(!bounds.IsNegative(), "cell count over negative box %v", bounds)
	cc := &CellCount{
		bounds:   bounds,
		index:    make([]int, bounds.NumCells()),
		parentOf: map[paint.Handle]paint.Handle{},
	}
	for o := range cc.counts {
		cc.counts[o] = map[paint.Handle]int{}
	}
	seen := map[paint.Handle]bool{}
	i := 0
	bounds.Each(1, func(p geom.Vec3i) {
		h := g.At(p)
		errs.Invariant(h != paint.None, "unpainted cell %v in grid %q", p, g.Name)
		parent, ok := cc.parentOf[h]
		if !ok {
			parent = g.Palette.CurlBufferParent(h)
			cc.parentOf[h] = parent
		}
		if !seen[parent] {
			seen[parent] = true
			cc.parents = append(cc.parents, parent)
		}
		o := geom.Octant(p)
		cc.index[i] = cc.counts[o][parent]
		cc.counts[o][parent]++
		i++
	})
	return cc
}

// Bounds returns the counted box.
func (cc *CellCount) Bounds() geom.Rect3i { return cc.bounds }

// Index returns the running index of half-cell p among the cells of its
// octant sharing its curl-buffer parent.
func (cc *CellCount) Index(p geom.Vec3i) int {
	errs.Invariant(cc.bounds.Contains(p), "cell %v outside counted box %v", p, cc.bounds)
	d := cc.bounds.Dims()
	c := p.Sub(cc.bounds.P1)
	return cc.index[c.X+d.X*(c.Y+d.Y*c.Z)]
}

// Count returns how many cells of octant o have curl-buffer parent parent.
func (cc *CellCount) Count(parent paint.Handle, o int) int {
	return cc.counts[o][parent]
}

// Parent returns the curl-buffer parent of a paint seen during the pass.
func (cc *CellCount) Parent(h paint.Handle) paint.Handle {
	parent, ok := cc.parentOf[h]
	errs.Invariant(ok, "paint %d was not counted", h)
	return parent
}

// Parents returns the distinct curl-buffer parents in first-seen order.
func (cc *CellCount) Parents() []paint.Handle {
	return cc.parents
}
