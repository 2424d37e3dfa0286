// Package coupling owns the field-exchange buffers of total-field/scattered-field
// surfaces. Paints refer to buffers by BufferID only; the BufferSet is the
// side table behind those IDs.
package coupling

import (
	"fmt"
	"sync"

	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// SourceKind says where a buffer's incident field comes from.
type SourceKind int

const (
	// FromGrid copies the field of another grid.
	FromGrid SourceKind = iota
	// FromFormula evaluates a plane-wave formula.
	FromFormula
	// FromFile streams a recorded field.
	FromFile
)

func (k SourceKind) String() string {
	switch k {
	case FromGrid:
		return "grid"
	case FromFormula:
		return "formula"
	case FromFile:
		return "file"
	}
	return "unknown"
}

// Buffer is the exchange region of one side of one surface.
type Buffer struct {
	ID      paint.BufferID
	Grid    string // grid whose cells read from the buffer
	Surface string
	Side    geom.Side
	// DestHalfCells holds the face layer of the total-field box and the layer
	// just outside it.
	DestHalfCells geom.Rect3i
	// TotalField is the total-field box of the surface in the destination grid.
	TotalField geom.Rect3i

	Kind SourceKind

	// FromGrid buffers.
	SourceGrid       string
	SourceTotalField geom.Rect3i
	// Resolved by Finalize: the source box read for DestHalfCells and the axes
	// along which the source grid is broadcast.
	SourceHalfCells geom.Rect3i
	Broadcast       [3]bool

	// FromFormula and FromFile buffers.
	Formula      string
	File         string
	Direction    [3]float64
	Polarization [3]float64
}

// Cells returns the number of Yee-cell slots per octant the buffer needs.
func (b *Buffer) Cells() int {
	return geom.HalfToYee(b.DestHalfCells).NumCells()
}

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer %d (%s %q side %v, %s)", b.ID, b.Grid, b.Surface, b.Side, b.Kind)
}

// BufferSet is the arena of coupling buffers of one compilation. ID 0 is
// never issued.
type BufferSet struct {
	mu   sync.RWMutex
	bufs []*Buffer
}

// NewBufferSet returns an empty set.
func NewBufferSet() *BufferSet {
	return &BufferSet{bufs: []*Buffer{nil}}
}

// Add registers b and returns its ID.
func (bs *BufferSet) Add(b Buffer) paint.BufferID {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	b.ID = paint.BufferID(len(bs.bufs))
	bs.bufs = append(bs.bufs, &b)
	return b.ID
}

// Get returns the buffer behind id.
func (bs *BufferSet) Get(id paint.BufferID) *Buffer {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	errs.Invariant(id > paint.NoBuffer && int(id) < len(bs.bufs), "buffer id %d not issued", id)
	return bs.bufs[id]
}

// Len returns the number of buffers.
func (bs *BufferSet) Len() int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return len(bs.bufs) - 1
}

// All returns every buffer in ID order.
func (bs *BufferSet) All() []*Buffer {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return append([]*Buffer(nil), bs.bufs[1:]...)
}

// ForGrid returns the buffers read by cells of grid, in ID order.
func (bs *BufferSet) ForGrid(grid string) []*Buffer {
	var out []*Buffer
	for _, b := range bs.All() {
		if b.Grid == grid {
			out = append(out, b)
		}
	}
	return out
}

// Indexer returns the Yee-cell indexer of a buffer's destination layers.
func (bs *BufferSet) Indexer(id paint.BufferID) geom.Indexer {
	return geom.NewIndexer(bs.Get(id).DestHalfCells, false)
}
