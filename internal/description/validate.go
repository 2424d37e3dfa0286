package description

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
)

// OverlayBox returns the half-cells a surface repaints: the total-field box
// grown by one layer on every side that is not omitted.
func (s *HuygensSurface) OverlayBox() geom.Rect3i {
	r := s.HalfCells
	for _, side := range geom.Sides {
		if s.Omitted[side] {
			continue
		}
		if side.Sign() < 0 {
			r = r.GrowAxis(side.Axis(), 1, 0)
		} else {
			r = r.GrowAxis(side.Axis(), 0, 1)
		}
	}
	return r
}

// Validate checks the geometry of one grid.
func (g *GridDescription) Validate() error {
	if g.Name == "" {
		return errs.Configf("", "grid", "grid has no name")
	}
	if g.YeeCells.IsNegative() {
		return errs.Configf(g.Name, "yeeCells", "negative box %v", g.YeeCells)
	}
	if g.HalfCells != geom.YeeToHalf(g.YeeCells) {
		return errs.Configf(g.Name, "halfCells", "%v does not match Yee cells %v", g.HalfCells, g.YeeCells)
	}
	if g.CalcHalfCells.IsNegative() || !g.HalfCells.Encloses(g.CalcHalfCells) {
		return errs.Configf(g.Name, "calcHalfCells", "%v is not enclosed by the grid %v", g.CalcHalfCells, g.HalfCells)
	}
	if g.NonPMLHalfCells.IsNegative() || !g.HalfCells.Encloses(g.NonPMLHalfCells) {
		return errs.Configf(g.Name, "nonPMLHalfCells", "%v is not enclosed by the grid %v", g.NonPMLHalfCells, g.HalfCells)
	}
	for _, s := range geom.Sides {
		if g.PMLCells[s] < 0 {
			return errs.Configf(g.Name, "pmlCells", "negative thickness %d on side %v", g.PMLCells[s], s)
		}
		if g.PMLCells[s] == 0 {
			continue
		}
		axis := s.Axis()
		gap := g.NonPMLHalfCells.P1.At(axis) - g.HalfCells.P1.At(axis)
		if s.Sign() > 0 {
			gap = g.HalfCells.P2.At(axis) - g.NonPMLHalfCells.P2.At(axis)
		}
		if gap <= 0 {
			return errs.Configf(g.Name, "pmlCells", "absorbing layer on side %v has zero thickness but %d cells are declared", s, g.PMLCells[s])
		}
	}

	for i, s := range g.Surfaces {
		where := surfaceWhere(i, s)
		if s.HalfCells.IsNegative() {
			return errs.Configf(g.Name, where, "negative total-field box %v", s.HalfCells)
		}
		box := s.OverlayBox()
		if !g.NonPMLHalfCells.Encloses(box) || !g.CalcHalfCells.Encloses(box) {
			return errs.Configf(g.Name, where, "surface %v touches the absorbing boundary or leaves the calculation region", box)
		}
		if s.Type == LinkSurface && s.SourceGrid == "" {
			return errs.Configf(g.Name, where, "link surface has no source grid")
		}
		if s.Type == CustomSurface && s.File == "" {
			return errs.Configf(g.Name, where, "custom surface has no source file")
		}
		for j := 0; j < i; j++ {
			if g.Surfaces[j].OverlayBox().Overlaps(box) {
				return errs.Configf(g.Name, where, "coupling region overlaps %s", surfaceWhere(j, g.Surfaces[j]))
			}
		}
	}
	for i, h := range g.HardSources {
		if h.HalfCells.IsNegative() || !g.HalfCells.Encloses(h.HalfCells) {
			return errs.Configf(g.Name, fmt.Sprintf("hard source #%d", i), "box %v outside the grid", h.HalfCells)
		}
	}
	for i, c := range g.CurrentSources {
		if c.HalfCells.IsNegative() || !g.NonPMLHalfCells.Encloses(c.HalfCells) {
			return errs.Configf(g.Name, fmt.Sprintf("current source #%d", i), "box %v outside the non-PML region", c.HalfCells)
		}
	}
	return nil
}

// Validate checks the whole simulation: unique grid names, known materials
// and the geometry of every grid. A material defined twice keeps its first
// definition and is reported as a warning.
func (s *Simulation) Validate() error {
	seenMat := map[string]bool{}
	for _, m := range s.Materials {
		if seenMat[m.Name] {
			logging.Logger().Warn("repeated material definition ignored", "material", m.Name, "class", m.Class)
			continue
		}
		seenMat[m.Name] = true
	}
	seenGrid := map[string]bool{}
	for _, g := range s.Grids {
		if seenGrid[g.Name] {
			return errs.Configf(g.Name, "grid", "duplicate grid name")
		}
		seenGrid[g.Name] = true
		if err := g.Validate(); err != nil {
			return err
		}
		for i, ins := range g.Assembly {
			for _, name := range instructionMaterials(ins) {
				if !seenMat[name] {
					return errs.Configf(g.Name, fmt.Sprintf("%s #%d", ins.Kind(), i), "unknown material %q", name)
				}
			}
		}
	}
	return nil
}

func instructionMaterials(ins Instruction) []string {
	switch v := ins.(type) {
	case Block:
		return []string{v.Material}
	case Ellipsoid:
		return []string{v.Material}
	case HeightMap:
		return []string{v.Material}
	case KeyImage:
		out := make([]string, 0, len(v.Tags))
		for _, t := range v.Tags {
			out = append(out, t.Material)
		}
		return out
	}
	return nil
}

func surfaceWhere(i int, s *HuygensSurface) string {
	if s.Name != "" {
		return fmt.Sprintf("surface %q", s.Name)
	}
	return fmt.Sprintf("surface #%d", i)
}
