// Package partition voxelizes one grid and generates its runlines: paint the
// assembly, analyse surface symmetry, overlay coupling layers and the
// absorbing boundary, count cells and walk every field lattice.
package partition

import (
	"github.com/lukaszgryglicki/yeegrid/internal/coupling"
	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
	"github.com/lukaszgryglicki/yeegrid/internal/voxel"
)

// Context is the state shared by all grids of one compilation. Dropping it
// drops every handle and buffer it issued.
type Context struct {
	Sim     *description.Simulation
	Palette *paint.Palette
	Buffers *coupling.BufferSet
}

// NewContext returns a fresh context for sim.
func NewContext(sim *description.Simulation) *Context {
	return &Context{Sim: sim, Palette: paint.NewPalette(), Buffers: coupling.NewBufferSet()}
}

// Material returns the bulk paint of a named material.
func (c *Context) Material(name string) (paint.Handle, bool) {
	i, ok := c.Sim.MaterialIndex(name)
	if !ok {
		return paint.None, false
	}
	return c.Palette.Bulk(paint.MaterialID(i)), true
}

// ResolvedHardSource is a hard source with the field offsets it drives.
type ResolvedHardSource struct {
	description.HardSource
	Offsets []int
}

// Partition is one voxelized grid with its delegates.
type Partition struct {
	Desc *description.GridDescription
	Grid *voxel.Grid
	// Calc is the box walked for runlines.
	Calc   geom.Rect3i
	Counts *voxel.CellCount
	// Symmetry holds, per surface as analysed before the coupling overlay,
	// whether the grid is homogeneous along each axis through it.
	Symmetry    [][3]bool
	Buffers     []paint.BufferID
	HardSources []ResolvedHardSource
	Delegates   []runline.Delegate

	ctx       *Context
	fields    geom.Indexer
	byParent  map[paint.Handle]runline.Delegate
	generated bool
}

// Name returns the grid name.
func (p *Partition) Name() string { return p.Desc.Name }

// Context returns the compilation context the partition was built in.
func (p *Partition) Context() *Context { return p.ctx }

// Palette implements runline.Lattice.
func (p *Partition) Palette() *paint.Palette { return p.ctx.Palette }

// FieldIndexer implements runline.Lattice.
func (p *Partition) FieldIndexer() geom.Indexer { return p.fields }

// BufferIndexer implements runline.Lattice.
func (p *Partition) BufferIndexer(id paint.BufferID) geom.Indexer { return p.ctx.Buffers.Indexer(id) }

// CellIndex implements runline.Lattice.
func (p *Partition) CellIndex(q geom.Vec3i) int { return p.Counts.Index(q) }

// CellCount implements runline.Lattice.
func (p *Partition) CellCount(parent paint.Handle, octant int) int {
	return p.Counts.Count(parent, octant)
}

// NonPMLHalfCells implements runline.Lattice.
func (p *Partition) NonPMLHalfCells() geom.Rect3i { return p.Desc.NonPMLHalfCells }

// PMLThickness implements runline.Lattice.
func (p *Partition) PMLThickness() [6]int {
	return runline.Thickness(p.Desc.HalfCells, p.Desc.NonPMLHalfCells)
}

// Delegate returns the delegate serving paint h.
func (p *Partition) Delegate(h paint.Handle) runline.Delegate {
	d, ok := p.byParent[p.Counts.Parent(h)]
	errs.Invariant(ok, "no delegate for paint %d in grid %q", h, p.Name())
	return d
}

// Runlines returns the runlines of field f over all delegates, in delegate
// order.
func (p *Partition) Runlines(f geom.Field) []runline.Runline {
	var out []runline.Runline
	for _, d := range p.Delegates {
		out = append(out, d.Runlines(f)...)
	}
	return out
}

var _ runline.Lattice = (*Partition)(nil)
