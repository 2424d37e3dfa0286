package runline

import (
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// New creates the delegate of the given kind for a curl-buffer parent paint.
func New(kind Kind, parent paint.Handle, lat Lattice) Delegate {
	b := base{parent: parent, lat: lat, fields: lat.FieldIndexer()}
	switch kind {
	case Bulk:
		return &bulk{base: b}
	case BulkPML:
		return &bulkPML{base: b, thickness: lat.PMLThickness()}
	}
	panic(errs.Violation{Msg: "unknown delegate kind " + kind.String()})
}

// base holds the state shared by all variants: the finished runlines and
// the run under construction.
type base struct {
	parent paint.Handle
	lat    Lattice
	fields geom.Indexer

	runlines [6][]Runline

	open    bool
	cur     Runline
	buffers [6]paint.BufferID
}

func (b *base) Parent() paint.Handle { return b.parent }

func (b *base) NumCells(f geom.Field) int { return b.lat.CellCount(b.parent, f.Octant()) }

func (b *base) Runlines(f geom.Field) []Runline { return b.runlines[f] }

func (b *base) StartRunline(f geom.Field, p geom.Vec3i, h paint.Handle) {
	errs.Invariant(!b.open, "runline started at %v while %v is open", p, b.cur)
	errs.Invariant(geom.Octant(p) == f.Octant(), "cell %v is not on the %v lattice", p, f)
	pt := b.lat.Palette().Get(h)
	b.cur = Runline{
		Field:    f,
		Start:    p,
		Offset:   b.fields.Index(p),
		Length:   1,
		AuxIndex: b.lat.CellIndex(p),
	}
	for _, s := range geom.Sides {
		if s.Axis() == f.Axis() {
			b.cur.Neighbors[s] = Neighbor{Offset: NoNeighbor}
			continue
		}
		b.cur.Neighbors[s] = b.neighbor(p, s, pt.Buffers[s])
	}
	b.buffers = pt.Buffers
	b.open = true
}

func (b *base) neighbor(p geom.Vec3i, s geom.Side, buf paint.BufferID) Neighbor {
	q := p.Add(s.Normal())
	if buf == paint.NoBuffer {
		return Neighbor{Offset: b.fields.Index(q)}
	}
	return Neighbor{Buffer: buf, Offset: b.lat.BufferIndexer(buf).Index(q)}
}

func (b *base) CanContinueRunline(old, p geom.Vec3i, h paint.Handle) bool {
	if !b.open || p != old.Add(geom.Vec3i{X: 2}) {
		return false
	}
	n := b.cur.Length
	if b.fields.Index(p) != b.cur.Offset+n || b.lat.CellIndex(p) != b.cur.AuxIndex+n {
		return false
	}
	pt := b.lat.Palette().Get(h)
	for _, s := range geom.Sides {
		if s.Axis() == b.cur.Field.Axis() {
			continue
		}
		if pt.Buffers[s] != b.buffers[s] {
			return false
		}
		if b.neighbor(p, s, pt.Buffers[s]).Offset != b.cur.Neighbors[s].Offset+n {
			return false
		}
	}
	return true
}

func (b *base) ContinueRunline(p geom.Vec3i) {
	errs.Invariant(b.open, "continuing a runline that was never started at %v", p)
	b.cur.Length++
}

// end closes the open run and returns it.
func (b *base) end() Runline {
	errs.Invariant(b.open && b.cur.Length >= 1, "ending an empty runline")
	b.runlines[b.cur.Field] = append(b.runlines[b.cur.Field], b.cur)
	b.open = false
	return b.cur
}

// bulk serves paints outside the absorbing layer. Buffered cells land on the
// delegate of their curl-buffer parent.
type bulk struct {
	base
}

func (*bulk) Kind() Kind { return Bulk }

func (d *bulk) EndRunline() { d.end() }

// bulkPML serves paints inside the absorbing layer and records, per run, how
// deep its first cell lies.
type bulkPML struct {
	base
	thickness   [6]int
	depth       geom.Vec3i
	pmlRunlines [6][]PMLRunline
}

func (*bulkPML) Kind() Kind { return BulkPML }

func (d *bulkPML) StartRunline(f geom.Field, p geom.Vec3i, h paint.Handle) {
	d.base.StartRunline(f, p, h)
	d.depth = Depth(d.lat.NonPMLHalfCells(), d.lat.Palette().Get(h).PML, p)
}

func (d *bulkPML) EndRunline() {
	r := d.end()
	d.pmlRunlines[r.Field] = append(d.pmlRunlines[r.Field], PMLRunline{Runline: r, Depth: d.depth})
}

func (d *bulkPML) PMLRunlines(f geom.Field) []PMLRunline { return d.pmlRunlines[f] }

func (d *bulkPML) PMLThickness() [6]int { return d.thickness }

// Depth returns how far p lies beyond nonPML along each axis where dir is
// nonzero, in half-cells.
func Depth(nonPML geom.Rect3i, dir, p geom.Vec3i) geom.Vec3i {
	var out geom.Vec3i
	for axis := geom.X; axis <= geom.Z; axis++ {
		switch d := dir.At(axis); {
		case d > 0:
			out = out.With(axis, p.At(axis)-nonPML.P2.At(axis))
		case d < 0:
			out = out.With(axis, nonPML.P1.At(axis)-p.At(axis))
		}
	}
	return out
}
