package partition

import (
	"errors"
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/coupling"
	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
	"github.com/lukaszgryglicki/yeegrid/internal/voxel"
)

// Hook runs after the symmetry analysis and before the coupling overlay. It
// may rewrite the grid's surfaces and hard sources.
type Hook func(p *Partition) error

// Voxelize paints grid g and prepares its delegates. Grids named by copyFrom
// instructions must already be in built. Runlines are generated separately
// by GenerateRunlines.
func Voxelize(ctx *Context, g *description.GridDescription, built map[string]*Partition, hook Hook) (*Partition, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	p := &Partition{
		Desc:   g,
		Grid:   voxel.NewGrid(g.Name, g.HalfCells, ctx.Palette),
		Calc:   g.CalcHalfCells,
		ctx:    ctx,
		fields: geom.NewIndexer(g.HalfCells, true),
	}

	if err := p.paintAssembly(built); err != nil {
		return nil, err
	}
	for _, r := range []geom.Rect3i{g.CalcHalfCells, g.NonPMLHalfCells} {
		if q, ok := p.Grid.FirstUnpainted(r); ok {
			return nil, errs.Configf(g.Name, "assembly", "half-cell %v has no material", q)
		}
	}
	for i, cs := range g.CurrentSources {
		p.Grid.OverlayCurrent(cs.HalfCells, paint.CurrentID(i+1))
	}

	p.Symmetry = make([][3]bool, len(g.Surfaces))
	for i, s := range g.Surfaces {
		p.Symmetry[i] = Symmetries(p.Grid, s)
	}
	if hook != nil {
		if err := hook(p); err != nil {
			return nil, err
		}
	}

	p.overlaySurfaces()
	if g.HasPML() {
		p.Grid.OverlayPML(g.NonPMLHalfCells)
	}

	p.Counts = voxel.NewCellCount(p.Grid, p.Calc)
	p.byParent = make(map[paint.Handle]runline.Delegate)
	for _, parent := range p.Counts.Parents() {
		d := runline.New(runline.KindOf(ctx.Palette.Get(parent)), parent, p)
		p.Delegates = append(p.Delegates, d)
		p.byParent[parent] = d
	}
	p.resolveHardSources()

	logging.Logger().Info("voxelized grid",
		"grid", g.Name,
		"halfCells", g.HalfCells.String(),
		"delegates", len(p.Delegates),
		"buffers", len(p.Buffers),
		"paints", ctx.Palette.Len(),
	)
	return p, nil
}

// paintAssembly runs the assembly instructions in order. A grid with an
// absorbing layer gets a final extrusion of the non-PML region outwards.
func (p *Partition) paintAssembly(built map[string]*Partition) error {
	g := p.Desc
	instrs := g.Assembly
	if g.HasPML() {
		instrs = append(append([]description.Instruction(nil), instrs...),
			description.Extrude{HalfCells: g.HalfCells, From: g.NonPMLHalfCells})
	}
	for i, ins := range instrs {
		where := fmt.Sprintf("instruction #%d", i)
		if ins != nil {
			where = fmt.Sprintf("%s #%d", ins.Kind(), i)
		}
		if err := p.paintInstruction(ins, built); err != nil {
			var ce *errs.ConfigError
			if errors.As(err, &ce) {
				return err
			}
			return errs.Configf(g.Name, where, "%v", err)
		}
	}
	return nil
}

func (p *Partition) paintInstruction(ins description.Instruction, built map[string]*Partition) error {
	material := func(name string) (paint.Handle, error) {
		h, ok := p.ctx.Material(name)
		if !ok {
			return paint.None, fmt.Errorf("unknown material %q", name)
		}
		return h, nil
	}
	switch v := ins.(type) {
	case description.Block:
		h, err := material(v.Material)
		if err != nil {
			return err
		}
		p.Grid.PaintBox(v.Rect, v.Style, h)
	case description.Ellipsoid:
		h, err := material(v.Material)
		if err != nil {
			return err
		}
		p.Grid.PaintEllipsoid(v.Rect, v.Style, h)
	case description.KeyImage:
		keys := make([]voxel.KeyPaint, 0, len(v.Tags))
		for _, t := range v.Tags {
			h, err := material(t.Material)
			if err != nil {
				return err
			}
			keys = append(keys, voxel.KeyPaint{Color: t.Color, Paint: h})
		}
		return p.Grid.PaintKeyImage(v.Rect, v.Image, v.Row, v.Column, keys)
	case description.HeightMap:
		h, err := material(v.Material)
		if err != nil {
			return err
		}
		return p.Grid.PaintHeightMap(v.Rect, v.Image, v.Row, v.Column, v.Up, h)
	case description.CopyFrom:
		src, ok := built[v.SourceGrid]
		if !ok {
			return fmt.Errorf("source grid %q is not voxelized yet", v.SourceGrid)
		}
		return p.Grid.CopyFrom(src.Grid, v.HalfCells, v.SourceHalfCells)
	case description.Extrude:
		return p.Grid.Extrude(v.HalfCells, v.From)
	default:
		return fmt.Errorf("unrecognized assembly instruction %T", ins)
	}
	return nil
}

// overlaySurfaces allocates one buffer per open side of every surface and
// decorates its coupling layers.
func (p *Partition) overlaySurfaces() {
	for _, s := range p.Desc.Surfaces {
		var ids [6]paint.BufferID
		for _, side := range geom.Sides {
			if s.Omitted[side] {
				continue
			}
			ids[side] = p.ctx.Buffers.Add(newBuffer(p.Desc.Name, s, side))
			p.Buffers = append(p.Buffers, ids[side])
		}
		p.Grid.OverlayHuygens(s.HalfCells, ids)
	}
}

func newBuffer(grid string, s *description.HuygensSurface, side geom.Side) coupling.Buffer {
	b := coupling.Buffer{
		Grid:          grid,
		Surface:       s.Name,
		Side:          side,
		DestHalfCells: voxel.CouplingLayers(s.HalfCells, side),
		TotalField:    s.HalfCells,
		Formula:       s.Formula,
		File:          s.File,
		Direction:     [3]float64{s.Direction.X, s.Direction.Y, s.Direction.Z},
		Polarization:  [3]float64{s.Polarization.X, s.Polarization.Y, s.Polarization.Z},
	}
	switch s.Type {
	case description.LinkSurface:
		b.Kind = coupling.FromGrid
		b.SourceGrid = s.SourceGrid
		b.SourceTotalField = s.SourceHalfCells
	case description.TFSFSurface:
		b.Kind = coupling.FromFormula
	case description.CustomSurface:
		b.Kind = coupling.FromFile
	}
	return b
}

func (p *Partition) resolveHardSources() {
	p.HardSources = p.HardSources[:0]
	for _, hs := range p.Desc.HardSources {
		r := geom.ParityRect(hs.HalfCells.Intersect(p.Desc.HalfCells), hs.Field.Octant())
		rh := ResolvedHardSource{HardSource: hs}
		if !r.IsNegative() {
			r.Each(2, func(q geom.Vec3i) { rh.Offsets = append(rh.Offsets, p.fields.Index(q)) })
		}
		p.HardSources = append(p.HardSources, rh)
	}
}
