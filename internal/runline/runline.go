// Package runline turns a voxelized partition into runlines: maximal runs of
// cells along x that share material, neighbor topology and contiguous array
// offsets. One Delegate per curl-buffer parent paint accumulates them.
package runline

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// NoNeighbor is the offset of the two sides along the field's own axis; the
// curl never reads them.
const NoNeighbor = -1

// Neighbor tells where a cell reads the field across one side: from the main
// field array (Buffer == NoBuffer) or from a coupling buffer.
type Neighbor struct {
	Buffer paint.BufferID
	Offset int
}

// Runline is a run of Length cells of one field whose offsets, neighbor
// offsets and auxiliary index all advance by one per cell.
type Runline struct {
	Field     geom.Field
	Start     geom.Vec3i // first half-cell
	Offset    int
	Length    int
	Neighbors [6]Neighbor // indexed by geom.Side
	AuxIndex  int
}

// End returns the last half-cell of the run.
func (r Runline) End() geom.Vec3i {
	return r.Start.Add(geom.Vec3i{X: 2 * (r.Length - 1)})
}

func (r Runline) String() string {
	return fmt.Sprintf("%v %v+%d @%d aux %d", r.Field, r.Start, r.Length, r.Offset, r.AuxIndex)
}

// PMLRunline adds the absorbing-layer depth of the first cell: along each
// axis the distance beyond the non-PML region, zero where the cell is not
// beyond it.
type PMLRunline struct {
	Runline
	Depth geom.Vec3i
}

// Lattice is what a delegate reads from its partition.
type Lattice interface {
	Palette() *paint.Palette
	FieldIndexer() geom.Indexer
	BufferIndexer(id paint.BufferID) geom.Indexer
	CellIndex(p geom.Vec3i) int
	CellCount(parent paint.Handle, octant int) int
	NonPMLHalfCells() geom.Rect3i
	PMLThickness() [6]int
}

// Thickness returns, per side, how many half-cells of bounds lie beyond
// nonPML.
func Thickness(bounds, nonPML geom.Rect3i) [6]int {
	var out [6]int
	for _, s := range geom.Sides {
		a := s.Axis()
		if s.Sign() < 0 {
			out[s] = nonPML.P1.At(a) - bounds.P1.At(a)
		} else {
			out[s] = bounds.P2.At(a) - nonPML.P2.At(a)
		}
	}
	return out
}

// Kind selects the delegate variant.
type Kind int

const (
	Bulk Kind = iota
	BulkPML
)

func (k Kind) String() string {
	switch k {
	case Bulk:
		return "bulk"
	case BulkPML:
		return "bulkPML"
	}
	return "unknown"
}

// KindOf picks the variant for a paint.
func KindOf(p paint.Paint) Kind {
	if !p.PML.IsZero() {
		return BulkPML
	}
	return Bulk
}

// Delegate accumulates the runlines of all cells sharing one curl-buffer
// parent paint. A run is started, extended while CanContinueRunline holds and
// then ended; a delegate has at most one open run.
type Delegate interface {
	Kind() Kind
	Parent() paint.Handle
	NumCells(f geom.Field) int
	StartRunline(f geom.Field, p geom.Vec3i, h paint.Handle)
	CanContinueRunline(old, p geom.Vec3i, h paint.Handle) bool
	ContinueRunline(p geom.Vec3i)
	EndRunline()
	Runlines(f geom.Field) []Runline
}

// PMLDelegate is implemented by delegates that record absorbing-layer depths.
// PMLThickness is the shell thickness per side in half-cells, indexed by
// geom.Side; depths grade against it.
type PMLDelegate interface {
	Delegate
	PMLRunlines(f geom.Field) []PMLRunline
	PMLThickness() [6]int
}

var (
	// Compile time checks to ensure that the delegate interfaces are implemented by all variants
	_ Delegate    = (*bulk)(nil)
	_ PMLDelegate = (*bulkPML)(nil)
)
