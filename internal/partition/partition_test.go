package partition

import (
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
)

func materials() []description.MaterialDescription {
	return []description.MaterialDescription{{Name: "A", Class: "PEC"}, {Name: "B", Class: "PEC"}}
}

// homogeneous is a 10³ Yee-cell grid of A with a one-Yee-cell (two half-cell)
// absorbing shell.
func homogeneous() *description.GridDescription {
	g := description.NewGrid("main", geom.NewRect(0, 0, 0, 9, 9, 9), [6]int{1, 1, 1, 1, 1, 1})
	g.Assembly = []description.Instruction{description.Block{Rect: g.YeeCells, Material: "A"}}
	return g
}

func build(t *testing.T, g *description.GridDescription) *Partition {
	t.Helper()
	ctx := NewContext(&description.Simulation{Materials: materials(), Grids: []*description.GridDescription{g}})
	p, err := Voxelize(ctx, g, nil, nil)
	if err != nil {
		t.Fatalf("Voxelize: %v", err)
	}
	p.GenerateRunlines()
	return p
}

func checkPartitionProperty(t *testing.T, p *Partition) {
	t.Helper()
	for _, f := range geom.Fields {
		want := geom.ParityRect(p.Calc, f.Octant())
		covered := map[geom.Vec3i]bool{}
		for _, r := range p.Runlines(f) {
			if r.Length < 1 {
				t.Fatalf("%v: empty runline %v", f, r)
			}
			for i := 0; i < r.Length; i++ {
				q := r.Start.Add(geom.Vec3i{X: 2 * i})
				if covered[q] {
					t.Fatalf("%v: cell %v covered twice", f, q)
				}
				if !want.Contains(q) || geom.Octant(q) != f.Octant() {
					t.Fatalf("%v: cell %v outside its lattice", f, q)
				}
				covered[q] = true
			}
		}
		if len(covered) != countParity(want) {
			t.Fatalf("%v: covered %d cells, want %d", f, len(covered), countParity(want))
		}
	}
}

func countParity(r geom.Rect3i) int {
	if r.IsNegative() {
		return 0
	}
	d := r.Size()
	return (d.X/2 + 1) * (d.Y/2 + 1) * (d.Z/2 + 1)
}

func TestHomogeneousGrid(t *testing.T) {
	p := build(t, homogeneous())
	pml := 0
	for _, d := range p.Delegates {
		if d.Kind() == runline.BulkPML {
			pml++
		}
	}
	if pml != 26 || len(p.Delegates) != 27 {
		t.Fatalf("want 26 PML delegates of 27, got %d of %d", pml, len(p.Delegates))
	}
	checkPartitionProperty(t, p)

	bulk := p.Delegate(p.ctx.Palette.Bulk(0))
	ex := geom.ParityRect(p.Desc.NonPMLHalfCells, geom.Ex.Octant())
	rows := (ex.Size().Y/2 + 1) * (ex.Size().Z/2 + 1)
	if got := len(bulk.Runlines(geom.Ex)); got != rows || rows != 64 {
		t.Fatalf("want one non-PML Ex runline per row (%d), got %d", rows, got)
	}
}

func TestDeterminism(t *testing.T) {
	a, b := build(t, homogeneous()), build(t, homogeneous())
	for _, f := range geom.Fields {
		if !reflect.DeepEqual(a.Runlines(f), b.Runlines(f)) {
			t.Fatalf("%v runlines differ between runs", f)
		}
	}
}

func TestSymmetries(t *testing.T) {
	surface := func() *description.HuygensSurface {
		return &description.HuygensSurface{
			Type:      description.TFSFSurface,
			HalfCells: geom.NewRect(6, 6, 6, 13, 13, 13),
			Direction: r3.Vec{Z: 1},
		}
	}
	slab := description.Block{Rect: geom.NewRect(0, 10, 0, 19, 11, 19), Style: description.HalfCellStyle, Material: "B"}

	g := homogeneous()
	g.Surfaces = []*description.HuygensSurface{surface()}
	if got := build(t, g).Symmetry[0]; got != [3]bool{true, true, true} {
		t.Fatalf("uniform grid: %v", got)
	}

	g = homogeneous()
	g.Assembly = append(g.Assembly, slab)
	g.Surfaces = []*description.HuygensSurface{surface()}
	if got := build(t, g).Symmetry[0]; got != [3]bool{true, false, true} {
		t.Fatalf("slab normal to y: %v", got)
	}

	core := description.Block{Rect: geom.NewRect(8, 8, 8, 11, 11, 11), Style: description.HalfCellStyle, Material: "B"}
	g = homogeneous()
	g.Assembly = append(g.Assembly, core)
	g.Surfaces = []*description.HuygensSurface{surface()}
	if got := build(t, g).Symmetry[0]; got != [3]bool{true, true, true} {
		t.Fatalf("scatterer inside the total-field box: %v", got)
	}

	outside := description.Block{Rect: geom.NewRect(5, 6, 6, 5, 13, 13), Style: description.HalfCellStyle, Material: "B"}
	g = homogeneous()
	g.Assembly = append(g.Assembly, outside)
	g.Surfaces = []*description.HuygensSurface{surface()}
	if got := build(t, g).Symmetry[0]; got[geom.X] {
		t.Fatalf("cell beyond -x side ignored: %v", got)
	}
	g = homogeneous()
	g.Assembly = append(g.Assembly, outside)
	s := surface()
	s.Omitted[geom.XLow] = true
	g.Surfaces = []*description.HuygensSurface{s}
	if got := build(t, g).Symmetry[0]; !got[geom.X] {
		t.Fatalf("cell beyond omitted -x side counted: %v", got)
	}
}

func TestCouplingSurface(t *testing.T) {
	g := homogeneous()
	s := &description.HuygensSurface{
		Name:      "pw",
		Type:      description.TFSFSurface,
		HalfCells: geom.NewRect(6, 6, 6, 13, 13, 13),
		Direction: r3.Vec{Z: 1},
	}
	s.Omitted[geom.ZHigh] = true
	g.Surfaces = []*description.HuygensSurface{s}
	p := build(t, g)
	if len(p.Buffers) != 5 {
		t.Fatalf("want 5 buffers, got %d", len(p.Buffers))
	}
	b := p.ctx.Buffers.Get(p.Buffers[0])
	if b.Side != geom.XLow || b.DestHalfCells != geom.NewRect(5, 6, 6, 6, 13, 13) {
		t.Fatalf("buffer %v over %v", b, b.DestHalfCells)
	}
	h := p.Grid.At(geom.Vec3i{X: 6, Y: 8, Z: 8})
	if pt := p.ctx.Palette.Get(h); pt.Buffers[geom.XLow] != p.Buffers[0] {
		t.Fatalf("face cell paint %v", pt)
	}
	if p.Delegate(h) != p.Delegate(p.ctx.Palette.Bulk(0)) {
		t.Fatal("buffered cells do not share the bulk delegate")
	}
	checkPartitionProperty(t, p)
}

func TestCurrentAndHardSources(t *testing.T) {
	g := homogeneous()
	g.CurrentSources = []description.CurrentSource{{Name: "j", HalfCells: geom.NewRect(8, 8, 8, 9, 9, 9)}}
	g.HardSources = []description.HardSource{{Field: geom.Ez, HalfCells: geom.NewRect(8, 8, 8, 11, 9, 9)}}
	p := build(t, g)
	cur := p.ctx.Palette.WithCurrent(p.ctx.Palette.Bulk(0), 1)
	if p.Grid.At(geom.Vec3i{X: 8, Y: 8, Z: 8}) != cur {
		t.Fatal("current source cells not decorated")
	}
	if p.Delegate(cur) == p.Delegate(p.ctx.Palette.Bulk(0)) {
		t.Fatal("current source cells share the bulk delegate")
	}
	// Ez lives on x even, y even, z odd: (8,8,9) and (10,8,9).
	hs := p.HardSources[0]
	want := []int{p.fields.Index(geom.Vec3i{X: 8, Y: 8, Z: 9}), p.fields.Index(geom.Vec3i{X: 10, Y: 8, Z: 9})}
	if !reflect.DeepEqual(hs.Offsets, want) {
		t.Fatalf("hard source offsets %v, want %v", hs.Offsets, want)
	}
	checkPartitionProperty(t, p)
}

func TestConfigErrors(t *testing.T) {
	cases := map[string]func(g *description.GridDescription){
		"unknown material": func(g *description.GridDescription) {
			g.Assembly = append(g.Assembly, description.Block{Rect: g.YeeCells, Material: "C"})
		},
		"unpainted": func(g *description.GridDescription) {
			g.Assembly = []description.Instruction{description.Block{Rect: geom.NewRect(0, 0, 0, 4, 9, 9), Material: "A"}}
		},
		"unknown instruction": func(g *description.GridDescription) {
			g.Assembly = append(g.Assembly, nil)
		},
		"copy from unbuilt grid": func(g *description.GridDescription) {
			g.Assembly = append(g.Assembly, description.CopyFrom{HalfCells: g.HalfCells, SourceGrid: "other", SourceHalfCells: g.HalfCells})
		},
		"surface in pml": func(g *description.GridDescription) {
			g.Surfaces = []*description.HuygensSurface{{Type: description.TFSFSurface, HalfCells: geom.NewRect(1, 6, 6, 13, 13, 13)}}
		},
	}
	for name, edit := range cases {
		g := homogeneous()
		edit(g)
		ctx := NewContext(&description.Simulation{Materials: materials(), Grids: []*description.GridDescription{g}})
		_, err := Voxelize(ctx, g, nil, nil)
		var ce *errs.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: want ConfigError, got %v", name, err)
		}
	}
}

func TestGenerateTwicePanics(t *testing.T) {
	p := build(t, homogeneous())
	defer func() {
		if recover() == nil {
			t.Fatal("second GenerateRunlines did not panic")
		}
	}()
	p.GenerateRunlines()
}

func TestDelegateOfUnknownPaintPanics(t *testing.T) {
	p := build(t, homogeneous())
	defer func() {
		if recover() == nil {
			t.Fatal("unknown paint did not panic")
		}
	}()
	p.Delegate(p.ctx.Palette.Bulk(paint.MaterialID(7)))
}
