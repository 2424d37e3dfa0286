package partition

import (
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
)

// GenerateRunlines walks the calculation region once per field component,
// in scanline order over that component's sub-lattice, and feeds every cell
// to the delegate of its paint. A run ends when the delegate changes, when
// the delegate refuses to continue, or at the end of a row.
//
// It only reads the palette, so partitions of one context may generate
// concurrently once every grid is voxelized.
func (p *Partition) GenerateRunlines() {
	errs.Invariant(p.Counts != nil, "grid %q generating runlines before voxelization", p.Name())
	errs.Invariant(!p.generated, "grid %q generated runlines twice", p.Name())
	p.generated = true

	total := 0
	for _, f := range geom.Fields {
		r := geom.ParityRect(p.Calc, f.Octant())
		if r.IsNegative() {
			continue
		}
		for z := r.P1.Z; z <= r.P2.Z; z += 2 {
			for y := r.P1.Y; y <= r.P2.Y; y += 2 {
				total += p.walkRow(f, y, z, r.P1.X, r.P2.X)
			}
		}
	}
	logging.Logger().Debug("generated runlines", "grid", p.Name(), "runlines", total)
}

func (p *Partition) walkRow(f geom.Field, y, z, x1, x2 int) int {
	var (
		cur  runline.Delegate
		prev geom.Vec3i
		n    int
	)
	for x := x1; x <= x2; x += 2 {
		q := geom.Vec3i{X: x, Y: y, Z: z}
		h := p.Grid.At(q)
		d := p.Delegate(h)
		if cur == d && d.CanContinueRunline(prev, q, h) {
			d.ContinueRunline(q)
		} else {
			if cur != nil {
				cur.EndRunline()
				n++
			}
			d.StartRunline(f, q, h)
			cur = d
		}
		prev = q
	}
	if cur != nil {
		cur.EndRunline()
		n++
	}
	return n
}
