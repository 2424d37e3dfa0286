package description

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
)

// Box is a JSON box [x1, y1, z1, x2, y2, z2] with inclusive corners.
type Box [6]int

func (b Box) Rect() geom.Rect3i { return geom.NewRect(b[0], b[1], b[2], b[3], b[4], b[5]) }

// Triple is a JSON integer vector [x, y, z].
type Triple [3]int

func (t Triple) Vec() geom.Vec3i { return geom.Vec3i{X: t[0], Y: t[1], Z: t[2]} }

type MaterialCfg struct {
	Name   string            `json:"name"`
	Class  string            `json:"class"`
	Params map[string]string `json:"params,omitempty"`
}

type KeyTagCfg struct {
	Color    string `json:"color"` // "#rrggbb"
	Material string `json:"material"`
}

type InstructionCfg struct {
	Type     string      `json:"type"`
	Style    string      `json:"style,omitempty"` // pec (default), pmc, halfCell
	Rect     Box         `json:"rect"`
	Material string      `json:"material,omitempty"`
	File     string      `json:"file,omitempty"`
	Row      Triple      `json:"row,omitempty"`
	Column   Triple      `json:"column,omitempty"`
	Up       Triple      `json:"up,omitempty"`
	Tags     []KeyTagCfg `json:"tags,omitempty"`

	SourceGrid string `json:"sourceGrid,omitempty"`
	SourceRect *Box   `json:"sourceRect,omitempty"`
	From       *Box   `json:"from,omitempty"`
}

type SurfaceCfg struct {
	Name      string     `json:"name,omitempty"`
	Type      string     `json:"type"` // link, tfsf, custom
	YeeCells  *Box       `json:"yeeCells,omitempty"`
	HalfCells *Box       `json:"halfCells,omitempty"`
	Omit      []string   `json:"omit,omitempty"` // "-x", "+z", ...
	Direction [3]float64 `json:"direction,omitempty"`
	Polarize  [3]float64 `json:"polarization,omitempty"`
	Formula   string     `json:"formula,omitempty"`
	File      string     `json:"file,omitempty"`

	SourceGrid      string `json:"sourceGrid,omitempty"`
	SourceHalfCells *Box   `json:"sourceHalfCells,omitempty"`
}

type HardSourceCfg struct {
	Name      string `json:"name,omitempty"`
	Field     string `json:"field"`
	HalfCells Box    `json:"halfCells"`
	Formula   string `json:"formula"`
}

type CurrentSourceCfg struct {
	Name      string `json:"name,omitempty"`
	HalfCells Box    `json:"halfCells"`
	Formula   string `json:"formula"`
}

type GridCfg struct {
	Name           string             `json:"name"`
	YeeCells       Box                `json:"yeeCells"`
	CalcHalfCells  *Box               `json:"calcHalfCells,omitempty"`
	NonPMLHalf     *Box               `json:"nonPMLHalfCells,omitempty"`
	PMLCells       [6]int             `json:"pmlCells,omitempty"` // -x, +x, -y, +y, -z, +z
	Origin         Triple             `json:"origin,omitempty"`
	Assembly       []InstructionCfg   `json:"assembly"`
	Surfaces       []SurfaceCfg       `json:"huygensSurfaces,omitempty"`
	HardSources    []HardSourceCfg    `json:"hardSources,omitempty"`
	CurrentSources []CurrentSourceCfg `json:"currentSources,omitempty"`
}

type Config struct {
	Materials []MaterialCfg `json:"materials"`
	Grids     []GridCfg     `json:"grids"`
}

// Build converts the parsed JSON into a Simulation. Image files named by
// keyImage and heightMap instructions are resolved relative to dir.
func (c *Config) Build(dir string) (*Simulation, error) {
	if len(c.Grids) == 0 {
		return nil, errs.Configf("", "config", "config has no grids")
	}
	sim := &Simulation{}
	for _, m := range c.Materials {
		if m.Name == "" || m.Class == "" {
			return nil, errs.Configf("", "materials", "material needs a name and a class, got %+v", m)
		}
		sim.Materials = append(sim.Materials, MaterialDescription{Name: m.Name, Class: m.Class, Params: m.Params})
	}
	for _, gc := range c.Grids {
		g, err := gc.Build(dir)
		if err != nil {
			return nil, err
		}
		sim.Grids = append(sim.Grids, g)
	}
	return sim, nil
}

// Build validates and constructs one grid description.
func (gc GridCfg) Build(dir string) (*GridDescription, error) {
	g := NewGrid(gc.Name, gc.YeeCells.Rect(), gc.PMLCells)
	g.Origin = gc.Origin.Vec()
	if gc.CalcHalfCells != nil {
		g.CalcHalfCells = gc.CalcHalfCells.Rect()
	}
	if gc.NonPMLHalf != nil {
		g.NonPMLHalfCells = gc.NonPMLHalf.Rect()
	}
	for i, ic := range gc.Assembly {
		ins, err := ic.Build(dir)
		if err != nil {
			return nil, errs.Configf(gc.Name, fmt.Sprintf("assembly #%d", i), "%v", err)
		}
		g.Assembly = append(g.Assembly, ins)
	}
	for i, sc := range gc.Surfaces {
		s, err := sc.Build()
		if err != nil {
			return nil, errs.Configf(gc.Name, fmt.Sprintf("surface #%d", i), "%v", err)
		}
		g.Surfaces = append(g.Surfaces, s)
	}
	for i, hc := range gc.HardSources {
		f, err := geom.ParseField(hc.Field)
		if err != nil {
			return nil, errs.Configf(gc.Name, fmt.Sprintf("hard source #%d", i), "%v", err)
		}
		g.HardSources = append(g.HardSources, HardSource{Name: hc.Name, Field: f, HalfCells: hc.HalfCells.Rect(), Formula: hc.Formula})
	}
	for _, cc := range gc.CurrentSources {
		g.CurrentSources = append(g.CurrentSources, CurrentSource{Name: cc.Name, HalfCells: cc.HalfCells.Rect(), Formula: cc.Formula})
	}
	return g, nil
}

// Build constructs the runtime instruction; unknown types are rejected.
func (ic InstructionCfg) Build(dir string) (Instruction, error) {
	style, err := parseStyle(ic.Style)
	if err != nil {
		return nil, err
	}
	r := ic.Rect.Rect()
	switch ic.Type {
	case "block":
		return Block{Rect: r, Style: style, Material: ic.Material}, nil
	case "ellipsoid":
		return Ellipsoid{Rect: r, Style: style, Material: ic.Material}, nil
	case "keyImage":
		img, err := LoadImage(resolve(dir, ic.File))
		if err != nil {
			return nil, err
		}
		ki := KeyImage{Rect: r, File: ic.File, Image: img, Row: ic.Row.Vec(), Column: ic.Column.Vec()}
		for _, t := range ic.Tags {
			c, err := parseHexColor(t.Color)
			if err != nil {
				return nil, err
			}
			ki.Tags = append(ki.Tags, KeyTag{Color: c, Material: t.Material})
		}
		return ki, nil
	case "heightMap":
		img, err := LoadImage(resolve(dir, ic.File))
		if err != nil {
			return nil, err
		}
		return HeightMap{Rect: r, File: ic.File, Image: img, Row: ic.Row.Vec(), Column: ic.Column.Vec(), Up: ic.Up.Vec(), Material: ic.Material}, nil
	case "copyFrom":
		if ic.SourceGrid == "" || ic.SourceRect == nil {
			return nil, fmt.Errorf("copyFrom needs sourceGrid and sourceRect")
		}
		return CopyFrom{HalfCells: r, SourceGrid: ic.SourceGrid, SourceHalfCells: ic.SourceRect.Rect()}, nil
	case "extrude":
		if ic.From == nil {
			return nil, fmt.Errorf("extrude needs from")
		}
		return Extrude{HalfCells: r, From: ic.From.Rect()}, nil
	}
	return nil, fmt.Errorf("unrecognized assembly instruction type %q", ic.Type)
}

// Build constructs the runtime surface.
func (sc SurfaceCfg) Build() (*HuygensSurface, error) {
	s := &HuygensSurface{
		Name:         sc.Name,
		Direction:    r3.Vec{X: sc.Direction[0], Y: sc.Direction[1], Z: sc.Direction[2]},
		Polarization: r3.Vec{X: sc.Polarize[0], Y: sc.Polarize[1], Z: sc.Polarize[2]},
		Formula:      sc.Formula,
		File:         sc.File,
		SourceGrid:   sc.SourceGrid,
	}
	switch sc.Type {
	case "link":
		s.Type = LinkSurface
		if sc.SourceHalfCells == nil {
			return nil, fmt.Errorf("link surface needs sourceHalfCells")
		}
		s.SourceHalfCells = sc.SourceHalfCells.Rect()
	case "tfsf":
		s.Type = TFSFSurface
		if r3.Norm(s.Direction) == 0 {
			return nil, fmt.Errorf("tfsf surface needs a nonzero direction")
		}
	case "custom":
		s.Type = CustomSurface
	default:
		return nil, fmt.Errorf("unknown surface type %q", sc.Type)
	}
	switch {
	case sc.HalfCells != nil:
		s.HalfCells = sc.HalfCells.Rect()
	case sc.YeeCells != nil:
		s.HalfCells = geom.YeeToHalf(sc.YeeCells.Rect())
	default:
		return nil, fmt.Errorf("surface needs yeeCells or halfCells")
	}
	for _, o := range sc.Omit {
		side, err := parseSide(o)
		if err != nil {
			return nil, err
		}
		s.Omitted[side] = true
	}
	return s, nil
}

// Load reads a JSON simulation description and validates it.
func Load(path string) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sim, err := cfg.Build(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	logging.Logger().Debug("loaded description", "path", path, "grids", len(sim.Grids), "materials", len(sim.Materials))
	return sim, nil
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

func parseStyle(s string) (FillStyle, error) {
	switch strings.ToLower(s) {
	case "", "pec":
		return PECStyle, nil
	case "pmc":
		return PMCStyle, nil
	case "halfcell", "halfcells":
		return HalfCellStyle, nil
	}
	return 0, fmt.Errorf("unknown fill style %q", s)
}

func parseSide(s string) (geom.Side, error) {
	for _, side := range geom.Sides {
		if side.String() == s {
			return side, nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func parseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
