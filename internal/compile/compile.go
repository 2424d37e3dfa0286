// Package compile runs the whole geometry compilation: validate the
// description, build the material models, voxelize every grid with its
// auxiliary grids and generate the runlines of all of them.
package compile

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/material"
	"github.com/lukaszgryglicki/yeegrid/internal/partition"
	"github.com/lukaszgryglicki/yeegrid/internal/tfsf"
	"github.com/lukaszgryglicki/yeegrid/internal/voxel"
)

// Options tune a compilation.
type Options struct {
	// Workers bounds the goroutines generating runlines; 0 means GOMAXPROCS.
	Workers int
	// PNGPrefix, when set, dumps paint slices of every grid to
	// PNGPrefix_<grid>_<k>.png.
	PNGPrefix string
	// Registry resolves material classes; nil means the built-ins.
	Registry *material.Registry
	// Validated skips sim.Validate for descriptions that already passed it,
	// such as those returned by description.Load.
	Validated bool
}

// Result is a compiled simulation. Materials[i] holds the materials of
// Grids[i] in delegate order.
type Result struct {
	Context   *partition.Context
	Grids     []*partition.Partition
	Materials [][]*material.Material
	Summary   Summary
}

// Grid returns a compiled grid and its materials by name.
func (r *Result) Grid(name string) (*partition.Partition, []*material.Material, bool) {
	for i, p := range r.Grids {
		if p.Name() == name {
			return p, r.Materials[i], true
		}
	}
	return nil, nil, false
}

// Compile compiles sim. Configuration problems come back as
// *errs.ConfigError; internal defects panic.
func Compile(ctx context.Context, sim *description.Simulation, opts Options) (*Result, error) {
	if !opts.Validated {
		if err := sim.Validate(); err != nil {
			return nil, err
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = material.NewRegistry()
	}
	models := make([]material.Model, len(sim.Materials))
	for i, m := range sim.Materials {
		if first, _ := sim.MaterialIndex(m.Name); first != i {
			continue
		}
		model, err := reg.Build(m)
		if err != nil {
			return nil, err
		}
		models[i] = model
	}

	pctx := partition.NewContext(sim)
	parts, err := tfsf.NewBuilder(pctx).Run()
	if err != nil {
		return nil, err
	}

	// Every paint exists now; generation only reads the palette.
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	mats := make([][]*material.Material, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range parts {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.GenerateRunlines()
			out := make([]*material.Material, 0, len(p.Delegates))
			for _, d := range p.Delegates {
				id := pctx.Palette.Get(d.Parent()).Material
				out = append(out, material.New(sim.Materials[id].Name, p.Name(), models[id], d))
			}
			mats[i] = out
			if opts.PNGPrefix != "" {
				return voxel.SavePNGSlices(p.Grid, opts.PNGPrefix+"_"+p.Name())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Context: pctx, Grids: parts, Materials: mats}
	res.Summary = summarize(res)
	return res, nil
}
