package partition

import (
	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/voxel"
)

// Symmetries reports, per axis, whether the coupling layers of a surface see
// the same materials all along that axis. Only the layers matter: what lies
// inside the total-field box never meets the incident field there.
//
// For axis a, every ray along a through the layers of an open side parallel
// to a must hold one paint over the whole extent of the surface, and the open
// front and back layers across a must agree with each other along every ray.
// Omitted sides take no part.
func Symmetries(g *voxel.Grid, s *description.HuygensSurface) [3]bool {
	tf := s.HalfCells
	extent := s.OverlayBox()
	var out [3]bool
	for axis := geom.X; axis <= geom.Z; axis++ {
		same := true
		for _, side := range geom.Sides {
			if !same {
				break
			}
			if side.Axis() == axis || s.Omitted[side] {
				continue
			}
			layer := voxel.CouplingLayers(tf, side)
			layer.P1 = layer.P1.With(axis, extent.P1.At(axis))
			layer.P2 = layer.P2.With(axis, extent.P2.At(axis))
			same = homogeneousAlong(g, layer, axis)
		}
		if same {
			same = endsAgree(g, tf, s.Omitted, axis)
		}
		out[axis] = same
	}
	return out
}

// homogeneousAlong casts one ray along axis through every cell of the low
// face of box and checks that each ray holds a single paint.
func homogeneousAlong(g *voxel.Grid, box geom.Rect3i, axis int) bool {
	if box.IsNegative() {
		return true
	}
	n := box.Size().At(axis)
	step := geom.Unit(axis)
	same := true
	box.Face(geom.SideOf(axis, -1)).Each(1, func(p geom.Vec3i) {
		if !same {
			return
		}
		first := g.At(p)
		q := p
		for i := 0; i < n; i++ {
			q = q.Add(step)
			if g.At(q) != first {
				same = false
				return
			}
		}
	})
	return same
}

// endsAgree checks the coupling layers of the open sides across axis: along
// every ray through them, all their cells hold one paint.
func endsAgree(g *voxel.Grid, tf geom.Rect3i, omitted [6]bool, axis int) bool {
	var at []int
	for _, side := range []geom.Side{geom.SideOf(axis, -1), geom.SideOf(axis, 1)} {
		if omitted[side] {
			continue
		}
		layer := voxel.CouplingLayers(tf, side)
		at = append(at, layer.P1.At(axis), layer.P2.At(axis))
	}
	if len(at) == 0 {
		return true
	}
	same := true
	tf.Face(geom.SideOf(axis, -1)).Each(1, func(p geom.Vec3i) {
		if !same {
			return
		}
		first := g.At(p.With(axis, at[0]))
		for _, c := range at[1:] {
			if g.At(p.With(axis, c)) != first {
				same = false
				return
			}
		}
	})
	return same
}
