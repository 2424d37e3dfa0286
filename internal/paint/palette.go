package paint

import (
	"sort"
	"sync"

	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

// Palette is the interning context for one compilation. Handles are indices
// into its arena and are only meaningful for the palette that issued them.
//
// Canonicalization reads and conditionally inserts, so the palette is a
// single-writer structure: voxelization must not canonicalize from several
// goroutines at once unless callers serialize it. The lock below makes that
// safe but does not make interleaved writers deterministic.
type Palette struct {
	mu     sync.RWMutex
	paints []Paint // paints[0] is the placeholder behind None
	byVal  map[Paint]Handle
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	pl := &Palette{}
	pl.Reset()
	return pl
}

// Reset drops every interned paint. All outstanding handles become invalid;
// call it only after every grid referencing them is discarded.
func (pl *Palette) Reset() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.paints = []Paint{{}}
	pl.byVal = make(map[Paint]Handle)
}

// canonicalize returns the handle of the structurally equal paint, registering
// p if it is new.
func (pl *Palette) canonicalize(p Paint) Handle {
	pl.mu.RLock()
	h, ok := pl.byVal[p]
	pl.mu.RUnlock()
	if ok {
		return h
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	// double-check
	if h, ok := pl.byVal[p]; ok {
		return h
	}
	h = Handle(len(pl.paints))
	pl.paints = append(pl.paints, p)
	pl.byVal[p] = h
	return h
}

// Get returns the value behind h.
func (pl *Palette) Get(h Handle) Paint {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	errs.Invariant(h > None && int(h) < len(pl.paints), "paint handle %d not issued by this palette", h)
	return pl.paints[h]
}

// Len returns the number of interned paints.
func (pl *Palette) Len() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return len(pl.paints) - 1
}

// Bulk returns the undecorated paint of a material.
func (pl *Palette) Bulk(m MaterialID) Handle {
	return pl.canonicalize(Paint{Material: m})
}

// WithPML derives the PML-decorated version of parent with absorption
// direction dir (components in -1..1, at least one nonzero).
func (pl *Palette) WithPML(parent Handle, dir geom.Vec3i) Handle {
	errs.Invariant(!dir.IsZero() && dir.Sign() == dir, "bad PML direction %v", dir)
	p := pl.Get(parent)
	p.PML = dir
	return pl.canonicalize(p)
}

// WithBuffer derives a paint whose neighbor on side s is read from buffer buf.
// Other sides keep the parent's assignment.
func (pl *Palette) WithBuffer(parent Handle, s geom.Side, buf BufferID) Handle {
	errs.Invariant(buf != NoBuffer, "WithBuffer needs a buffer id")
	p := pl.Get(parent)
	p.Buffers[s] = buf
	return pl.canonicalize(p)
}

// WithCurrent derives a paint driven by current source cur.
func (pl *Palette) WithCurrent(parent Handle, cur CurrentID) Handle {
	errs.Invariant(cur != 0, "WithCurrent needs a current id")
	p := pl.Get(parent)
	p.Current = cur
	return pl.canonicalize(p)
}

// BulkParent strips every boundary decoration from h, going from a PML or
// coupling-buffer paint back to the bulk paint of its material.
func (pl *Palette) BulkParent(h Handle) Handle {
	p := pl.Get(h)
	if !p.IsDecorated() {
		return h
	}
	parent := pl.Bulk(p.Material)
	errs.Invariant(!pl.Get(parent).IsDecorated(), "bulk parent %d of %v is decorated", parent, p)
	return parent
}

// CurlBufferParent strips the coupling-buffer decorations of h. Cells whose
// paints share a curl-buffer parent are updated by the same delegate; the PML
// direction and current source survive because they change the update itself.
func (pl *Palette) CurlBufferParent(h Handle) Handle {
	p := pl.Get(h)
	if !p.HasBuffers() {
		return h
	}
	p.Buffers = [6]BufferID{}
	return pl.canonicalize(p)
}

// Sorted returns the given handles ordered by Compare of their values.
func (pl *Palette) Sorted(hs []Handle) []Handle {
	out := append([]Handle(nil), hs...)
	sort.Slice(out, func(i, j int) bool {
		return Compare(pl.Get(out[i]), pl.Get(out[j])) < 0
	})
	return out
}
