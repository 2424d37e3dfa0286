package tfsf

import (
	"fmt"
	"math"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/partition"
)

// hook returns the voxelization hook for a grid at the given chain depth. It
// sees every surface with its symmetry flags and decides where plane waves
// get their incident field from.
func (b *Builder) hook(depth int) partition.Hook {
	return func(p *partition.Partition) error {
		g := p.Desc
		collapsed := g.CollapsedAxes()
		keep := g.Surfaces[:0]
		keepSym := p.Symmetry[:0]
		for i, s := range g.Surfaces {
			warnOpenAxis(g, s, collapsed)
			if s.Type != description.TFSFSurface {
				keep, keepSym = append(keep, s), append(keepSym, p.Symmetry[i])
				continue
			}

			srcSym := s.SourceSymmetries()
			var collapsible [3]bool
			newly := false
			for axis := range collapsible {
				collapsible[axis] = collapsed[axis] || (srcSym[axis] && p.Symmetry[i][axis])
				if collapsible[axis] && !collapsed[axis] {
					newly = true
				}
			}
			if count(collapsible) == 3 {
				return errs.Configf(g.Name, fmt.Sprintf("surface %q", s.Name),
					"plane wave direction %v has no component along an open axis", s.Direction)
			}

			switch {
			case newly:
				b.companion(g, s, collapsible, depth)
			case g.Dimensionality() == 1:
				if b.terminate(g, s, depth) {
					continue
				}
			}
			keep, keepSym = append(keep, s), append(keepSym, p.Symmetry[i])
		}
		g.Surfaces, p.Symmetry = keep, keepSym
		return nil
	}
}

func warnOpenAxis(g *description.GridDescription, s *description.HuygensSurface, collapsed [3]bool) {
	for axis := geom.X; axis <= geom.Z; axis++ {
		if collapsed[axis] {
			continue
		}
		if s.Omitted[geom.SideOf(axis, -1)] && s.Omitted[geom.SideOf(axis, 1)] {
			logging.Logger().Warn("surface omits both sides of an axis", "grid", g.Name, "surface", s.Name, "axis", axis)
		}
	}
}

func count(mask [3]bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

// companion builds a grid collapsed along every axis in mask that carries the
// plane wave of s, and turns s into a link to it. The companion copies the
// parent's materials across the total-field box, taking the layer at the
// box's low corner along collapsed axes, and surrounds it with an absorbing
// shell along the others.
func (b *Builder) companion(parent *description.GridDescription, s *description.HuygensSurface, mask [3]bool, depth int) {
	errs.Invariant(count(mask) > count(parent.CollapsedAxes()), "companion of grid %q collapses no new axis", parent.Name)

	overlay := geom.HalfToYee(s.OverlayBox())
	var yee geom.Rect3i
	var pml [6]int
	for axis := geom.X; axis <= geom.Z; axis++ {
		lo, hi := 0, 0
		if !mask[axis] {
			lo, hi = overlay.P1.At(axis)-1-AuxPMLCells, overlay.P2.At(axis)+1+AuxPMLCells
			pml[geom.SideOf(axis, -1)] = AuxPMLCells
			pml[geom.SideOf(axis, 1)] = AuxPMLCells
		}
		yee.P1, yee.P2 = yee.P1.With(axis, lo), yee.P2.With(axis, hi)
	}
	aux := description.NewGrid(b.auxName(parent.Name, s.Name, "aux"), yee, pml)
	aux.Auxiliary = true

	dst := aux.HalfCells.Intersect(parent.HalfCells)
	src := dst
	tf := s.HalfCells
	surf := s.Clone()
	for axis := geom.X; axis <= geom.Z; axis++ {
		if !mask[axis] {
			continue
		}
		dst.P1, dst.P2 = dst.P1.With(axis, 0), dst.P2.With(axis, 1)
		at := tf.P1.At(axis)
		src.P1, src.P2 = src.P1.With(axis, at), src.P2.With(axis, at)
		surf.HalfCells.P1 = surf.HalfCells.P1.With(axis, 0)
		surf.HalfCells.P2 = surf.HalfCells.P2.With(axis, 1)
		surf.Omitted[geom.SideOf(axis, -1)] = true
		surf.Omitted[geom.SideOf(axis, 1)] = true
	}
	aux.Assembly = []description.Instruction{
		description.CopyFrom{HalfCells: dst, SourceGrid: parent.Name, SourceHalfCells: src},
		description.Extrude{HalfCells: aux.HalfCells, From: dst},
	}
	aux.Surfaces = []*description.HuygensSurface{surf}

	s.Type = description.LinkSurface
	s.SourceGrid = aux.Name
	s.SourceHalfCells = surf.HalfCells

	logging.Logger().Info("created companion grid",
		"grid", aux.Name,
		"parent", parent.Name,
		"surface", s.Name,
		"collapsed", mask,
		"yeeCells", yee.String(),
	)
	b.enqueue(aux, depth+1)
}

// terminate ends a chain at one-dimensional grid g. A surface without a back
// side becomes a hard source on its back face and is dropped; it reports true
// in that case. Otherwise a source grid carrying the hard source is built
// behind the surface and s becomes a link to it.
func (b *Builder) terminate(g *description.GridDescription, s *description.HuygensSurface, depth int) bool {
	collapsed := g.CollapsedAxes()
	axis := geom.X
	for collapsed[axis] {
		axis++
	}
	dir := [3]float64{s.Direction.X, s.Direction.Y, s.Direction.Z}
	sign := 1
	if dir[axis] < 0 {
		sign = -1
	}
	back := geom.SideOf(axis, -sign)
	field := polarizationField(s, axis)

	if s.Omitted[back] {
		// two layers thick so every component has a plane inside the box
		var box geom.Rect3i
		if back.Sign() < 0 {
			box = s.HalfCells.Face(back).GrowAxis(axis, 0, 1)
		} else {
			box = s.HalfCells.Face(back).GrowAxis(axis, 1, 0)
		}
		g.HardSources = append(g.HardSources, description.HardSource{
			Name:      s.Name,
			Field:     field,
			HalfCells: box,
			Formula:   s.Formula,
		})
		logging.Logger().Info("replaced surface by hard source", "grid", g.Name, "surface", s.Name, "field", field.String(), "halfCells", box.String())
		return true
	}

	overlay := s.OverlayBox()
	yee := g.YeeCells
	oy := geom.HalfToYee(overlay)
	yee.P1 = yee.P1.With(axis, oy.P1.At(axis)-2-AuxPMLCells)
	yee.P2 = yee.P2.With(axis, oy.P2.At(axis)+2+AuxPMLCells)
	var pml [6]int
	pml[geom.SideOf(axis, -1)] = AuxPMLCells
	pml[geom.SideOf(axis, 1)] = AuxPMLCells
	src := description.NewGrid(b.auxName(g.Name, s.Name, "src"), yee, pml)
	src.Auxiliary = true

	// background medium: the scattered-field layer behind the surface, broadcast along the axis
	layer := overlay.Face(back).Translate(back.Normal())
	src.Assembly = []description.Instruction{
		description.CopyFrom{HalfCells: src.HalfCells, SourceGrid: g.Name, SourceHalfCells: layer},
	}

	hs := overlay.Face(back).Translate(back.Normal().Mul(2))
	if back.Sign() < 0 {
		hs = hs.GrowAxis(axis, 1, 0)
	} else {
		hs = hs.GrowAxis(axis, 0, 1)
	}
	src.HardSources = []description.HardSource{{Name: s.Name, Field: field, HalfCells: hs, Formula: s.Formula}}

	s.Type = description.LinkSurface
	s.SourceGrid = src.Name
	s.SourceHalfCells = s.HalfCells

	logging.Logger().Info("created source grid", "grid", src.Name, "parent", g.Name, "surface", s.Name, "field", field.String())
	b.enqueue(src, depth+1)
	return false
}

// polarizationField returns the electric component along the largest
// polarization component of s, avoiding the propagation axis.
func polarizationField(s *description.HuygensSurface, axis int) geom.Field {
	pol := [3]float64{s.Polarization.X, s.Polarization.Y, s.Polarization.Z}
	best, bestAxis := 0.0, -1
	for i, c := range pol {
		if i == axis {
			continue
		}
		if a := math.Abs(c); a > best {
			best, bestAxis = a, i
		}
	}
	if bestAxis < 0 {
		bestAxis = (axis + 1) % 3
	}
	return geom.Field(bestAxis)
}
