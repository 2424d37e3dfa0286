// Package tfsf voxelizes all grids of a simulation and builds the auxiliary
// grids that feed plane-wave surfaces. A plane wave that is invariant along
// an axis through a grid that is homogeneous along it is computed on a
// companion grid collapsed along that axis; a one-dimensional grid ends the
// chain with a hard source.
package tfsf

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/partition"
)

// AuxPMLCells is the absorbing-shell thickness, in Yee cells, of every
// auxiliary grid along its open axes.
const AuxPMLCells = 10

// maxDepth bounds the chain of grids spawned from one user grid: two
// companions and a source grid.
const maxDepth = 3

type pending struct {
	desc  *description.GridDescription
	depth int
}

// Builder runs the work queue of grids to voxelize.
type Builder struct {
	ctx   *partition.Context
	queue []pending
	built map[string]*partition.Partition
	order []*partition.Partition
	names map[string]bool
	seq   int
}

// NewBuilder prepares a builder for the grids of ctx.Sim. The simulation's
// grid descriptions are cloned and never modified.
func NewBuilder(ctx *partition.Context) *Builder {
	b := &Builder{
		ctx:   ctx,
		built: map[string]*partition.Partition{},
		names: map[string]bool{},
	}
	for _, g := range ctx.Sim.Grids {
		b.queue = append(b.queue, pending{desc: g.Clone()})
		b.names[g.Name] = true
	}
	return b
}

// Run voxelizes every grid, spawning auxiliary grids on the way, and then
// resolves every grid-fed coupling buffer. Grids come back in the order they
// were voxelized.
func (b *Builder) Run() ([]*partition.Partition, error) {
	stalled := 0
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		if src := b.missingSource(next.desc); src != "" {
			if stalled > len(b.queue) {
				return nil, errs.Configf(next.desc.Name, "copyFrom", "source grid %q is missing or depends on this grid", src)
			}
			b.queue = append(b.queue, next)
			stalled++
			continue
		}
		stalled = 0

		p, err := partition.Voxelize(b.ctx, next.desc, b.built, b.hook(next.depth))
		if err != nil {
			return nil, err
		}
		b.built[p.Name()] = p
		b.order = append(b.order, p)
	}
	if err := b.finalize(); err != nil {
		return nil, err
	}
	logging.Logger().Info("built all grids", "grids", len(b.order), "buffers", b.ctx.Buffers.Len(), "paints", b.ctx.Palette.Len())
	return b.order, nil
}

// Partition returns a built grid by name.
func (b *Builder) Partition(name string) (*partition.Partition, bool) {
	p, ok := b.built[name]
	return p, ok
}

func (b *Builder) missingSource(g *description.GridDescription) string {
	for _, ins := range g.Assembly {
		if c, ok := ins.(description.CopyFrom); ok {
			if _, done := b.built[c.SourceGrid]; !done {
				return c.SourceGrid
			}
		}
	}
	return ""
}

func (b *Builder) enqueue(g *description.GridDescription, depth int) {
	errs.Invariant(depth <= maxDepth, "auxiliary grid %q at depth %d", g.Name, depth)
	b.names[g.Name] = true
	b.queue = append(b.queue, pending{desc: g, depth: depth})
}

// auxName returns a grid name not used by any other grid.
func (b *Builder) auxName(parent, surface, kind string) string {
	if surface == "" {
		surface = "surface"
	}
	for {
		b.seq++
		name := fmt.Sprintf("%s.%s.%s%d", parent, surface, kind, b.seq)
		if !b.names[name] {
			return name
		}
	}
}
