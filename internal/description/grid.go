// Package description holds the already-parsed simulation description the
// geometry compiler consumes: grids, materials, assembly instructions and
// source surfaces. The JSON loader in config.go is one producer of it.
package description

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

// MaterialDescription is a named material; Class is resolved by the material
// factory, Params are opaque to the compiler.
type MaterialDescription struct {
	Name   string
	Class  string
	Params map[string]string
}

// FillStyle selects how a Yee-cell box is turned into half-cells.
type FillStyle int

const (
	// PECStyle fills all eight half-cell sub-positions of every Yee cell.
	PECStyle FillStyle = iota
	// PMCStyle fills the box shifted by one half-cell, so its faces fall on
	// the complementary parity.
	PMCStyle
	// HalfCellStyle takes the box as half-cells, exactly.
	HalfCellStyle
)

func (s FillStyle) String() string {
	switch s {
	case PECStyle:
		return "pec"
	case PMCStyle:
		return "pmc"
	case HalfCellStyle:
		return "halfCell"
	}
	return "unknown"
}

// Instruction is one assembly step painting a grid.
type Instruction interface {
	Kind() string
}

// Block paints a box with one material.
type Block struct {
	Rect     geom.Rect3i // Yee cells, or half-cells for HalfCellStyle
	Style    FillStyle
	Material string
}

// Ellipsoid paints the axis-aligned ellipsoid inscribed in Rect.
type Ellipsoid struct {
	Rect     geom.Rect3i
	Style    FillStyle
	Material string
}

// KeyTag maps one exact image color to a material.
type KeyTag struct {
	Color    color.RGBA
	Material string
}

// KeyImage paints a Yee-cell box from an image: columns run along Column,
// rows along Row, and the pattern is replicated along the remaining axis.
// Tags are tried in order; the first matching color wins.
type KeyImage struct {
	Rect   geom.Rect3i // Yee cells
	File   string
	Image  image.Image
	Row    geom.Vec3i // unit vector, direction of increasing image row
	Column geom.Vec3i // unit vector, direction of increasing image column
	Tags   []KeyTag
}

// HeightMap paints a Yee-cell box up to a per-pixel height given by pixel
// brightness (0 = empty, 1 = full box height along Up).
type HeightMap struct {
	Rect     geom.Rect3i // Yee cells
	File     string
	Image    image.Image
	Row      geom.Vec3i
	Column   geom.Vec3i
	Up       geom.Vec3i
	Material string
}

// CopyFrom paints HalfCells from SourceHalfCells of an already-voxelized
// grid. An axis where the source box has size zero is broadcast.
type CopyFrom struct {
	HalfCells       geom.Rect3i
	SourceGrid      string
	SourceHalfCells geom.Rect3i
}

// Extrude repaints every cell of HalfCells with the cell of From nearest to it.
type Extrude struct {
	HalfCells geom.Rect3i
	From      geom.Rect3i
}

func (Block) Kind() string     { return "block" }
func (Ellipsoid) Kind() string { return "ellipsoid" }
func (KeyImage) Kind() string  { return "keyImage" }
func (HeightMap) Kind() string { return "heightMap" }
func (CopyFrom) Kind() string  { return "copyFrom" }
func (Extrude) Kind() string   { return "extrude" }

// SurfaceType says where a Huygens surface takes its incident field from.
type SurfaceType int

const (
	// LinkSurface reads the incident field from another grid.
	LinkSurface SurfaceType = iota
	// TFSFSurface injects a plane wave; the compiler may replace it by a link
	// to a lower-dimensional auxiliary grid.
	TFSFSurface
	// CustomSurface reads the incident field from a file.
	CustomSurface
)

func (t SurfaceType) String() string {
	switch t {
	case LinkSurface:
		return "link"
	case TFSFSurface:
		return "tfsf"
	case CustomSurface:
		return "custom"
	}
	return "unknown"
}

// HuygensSurface is a total-field/scattered-field boundary around HalfCells.
type HuygensSurface struct {
	Name      string
	HalfCells geom.Rect3i // total-field box
	Type      SurfaceType
	Omitted   [6]bool // indexed by geom.Side

	// Link surfaces.
	SourceGrid      string
	SourceHalfCells geom.Rect3i

	// TFSF and custom surfaces.
	Direction    r3.Vec
	Polarization r3.Vec
	Formula      string
	File         string
}

// directionEps decides when a direction component counts as zero.
const directionEps = 1e-9

// SourceSymmetries reports along which axes a plane wave is invariant: every
// axis its direction has no component on.
func (s *HuygensSurface) SourceSymmetries() [3]bool {
	d := [3]float64{s.Direction.X, s.Direction.Y, s.Direction.Z}
	var out [3]bool
	for axis := range out {
		out[axis] = d[axis] < directionEps && d[axis] > -directionEps
	}
	return out
}

// PropagationAxis returns the axis with the largest direction component and
// the sign of that component.
func (s *HuygensSurface) PropagationAxis() (axis, sign int) {
	d := [3]float64{s.Direction.X, s.Direction.Y, s.Direction.Z}
	best := -1.0
	for i, c := range d {
		a := c
		if a < 0 {
			a = -a
		}
		if a > best {
			best, axis = a, i
		}
	}
	sign = 1
	if d[axis] < 0 {
		sign = -1
	}
	return axis, sign
}

// BackSide is the side the wave enters the total-field box through.
func (s *HuygensSurface) BackSide() geom.Side {
	axis, sign := s.PropagationAxis()
	return geom.SideOf(axis, -sign)
}

// Clone returns a copy that can be edited independently.
func (s *HuygensSurface) Clone() *HuygensSurface {
	c := *s
	return &c
}

// HardSource overwrites a field component in a box every timestep.
type HardSource struct {
	Name      string
	Field     geom.Field
	HalfCells geom.Rect3i
	Formula   string
}

// CurrentSource adds a soft current in a box; its cells get a paint of their
// own so the driver can address them.
type CurrentSource struct {
	Name      string
	HalfCells geom.Rect3i
	Formula   string
}

// GridDescription is one simulation grid.
type GridDescription struct {
	Name            string
	YeeCells        geom.Rect3i
	HalfCells       geom.Rect3i
	CalcHalfCells   geom.Rect3i
	NonPMLHalfCells geom.Rect3i
	PMLCells        [6]int // declared absorbing-shell thickness per side, Yee cells
	Origin          geom.Vec3i
	Assembly        []Instruction
	Surfaces        []*HuygensSurface
	HardSources     []HardSource
	CurrentSources  []CurrentSource
	Auxiliary       bool // created by the compiler
}

// NewGrid returns a grid over yee cells whose calculation region is the whole
// grid and whose non-PML region leaves pml[s] Yee cells on each side.
func NewGrid(name string, yee geom.Rect3i, pml [6]int) *GridDescription {
	half := geom.YeeToHalf(yee)
	nonPML := half
	for _, s := range geom.Sides {
		axis := s.Axis()
		if s.Sign() < 0 {
			nonPML.P1 = nonPML.P1.With(axis, nonPML.P1.At(axis)+2*pml[s])
		} else {
			nonPML.P2 = nonPML.P2.With(axis, nonPML.P2.At(axis)-2*pml[s])
		}
	}
	return &GridDescription{
		Name:            name,
		YeeCells:        yee,
		HalfCells:       half,
		CalcHalfCells:   half,
		NonPMLHalfCells: nonPML,
		PMLCells:        pml,
	}
}

// Clone returns a copy whose surfaces and source lists can be edited without
// touching g. Instructions are values and are shared.
func (g *GridDescription) Clone() *GridDescription {
	c := *g
	c.Assembly = append([]Instruction(nil), g.Assembly...)
	c.Surfaces = make([]*HuygensSurface, len(g.Surfaces))
	for i, s := range g.Surfaces {
		c.Surfaces[i] = s.Clone()
	}
	c.HardSources = append([]HardSource(nil), g.HardSources...)
	c.CurrentSources = append([]CurrentSource(nil), g.CurrentSources...)
	return &c
}

// HasPML reports whether any cell lies outside the non-PML region.
func (g *GridDescription) HasPML() bool {
	return g.NonPMLHalfCells != g.HalfCells
}

// CollapsedAxes reports the axes along which the grid is a single Yee cell.
func (g *GridDescription) CollapsedAxes() [3]bool {
	d := g.YeeCells.Dims()
	return [3]bool{d.X == 1, d.Y == 1, d.Z == 1}
}

// Dimensionality is 3 minus the number of collapsed axes.
func (g *GridDescription) Dimensionality() int {
	n := 3
	for _, c := range g.CollapsedAxes() {
		if c {
			n--
		}
	}
	return n
}

// Simulation is the complete input of one compilation.
type Simulation struct {
	Materials []MaterialDescription
	Grids     []*GridDescription
}

// MaterialIndex returns the position of the first material with the given
// name; later definitions with the same name are ignored.
func (s *Simulation) MaterialIndex(name string) (int, bool) {
	for i, m := range s.Materials {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Grid returns the grid with the given name.
func (s *Simulation) Grid(name string) (*GridDescription, bool) {
	for _, g := range s.Grids {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}
