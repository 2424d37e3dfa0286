// Package paint interns the per-cell material/boundary values of a voxel grid.
//
// A Paint is never built by hand outside this package: the factory methods on
// Palette derive every value from a parent handle and canonicalize it, so two
// structurally equal paints always share one Handle and handle equality can
// stand in for value equality everywhere downstream.
package paint

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

// MaterialID indexes the simulation's material table.
type MaterialID int32

// BufferID identifies a coupling buffer in a BufferSet. Zero means "no buffer".
type BufferID int32

// CurrentID identifies a current source of a grid. Zero means "no current".
type CurrentID int32

// NoBuffer marks a side whose neighbor is read from the main field arrays.
const NoBuffer BufferID = 0

// Handle is the canonical reference to an interned Paint. The zero Handle is
// None and stands for an unpainted cell.
type Handle int32

// None is the handle of unpainted cells.
const None Handle = 0

// Paint is the structural value behind a Handle.
type Paint struct {
	Material MaterialID
	PML      geom.Vec3i  // absorption direction, zero outside the PML
	Buffers  [6]BufferID // per-side coupling buffer, indexed by geom.Side
	Current  CurrentID
}

// Kind classifies a paint by its decorations.
type Kind int

const (
	KindBulk     Kind = iota // no decoration
	KindPML                  // PML direction set, no coupling buffers
	KindBuffered             // at least one coupling buffer
)

// Kind returns the decoration class of p. Current sources do not change it.
func (p Paint) Kind() Kind {
	if p.HasBuffers() {
		return KindBuffered
	}
	if !p.PML.IsZero() {
		return KindPML
	}
	return KindBulk
}

// HasBuffers reports whether any side is served by a coupling buffer.
func (p Paint) HasBuffers() bool {
	return p.Buffers != [6]BufferID{}
}

// IsDecorated reports whether p carries any boundary or source decoration.
func (p Paint) IsDecorated() bool {
	return p.HasBuffers() || !p.PML.IsZero() || p.Current != 0
}

// Compare is the total order on paints: material, then PML direction, then
// the six buffer slots, then the current source.
func Compare(a, b Paint) int {
	if a.Material != b.Material {
		return cmpInt(int(a.Material), int(b.Material))
	}
	if c := a.PML.Compare(b.PML); c != 0 {
		return c
	}
	for i := range a.Buffers {
		if a.Buffers[i] != b.Buffers[i] {
			return cmpInt(int(a.Buffers[i]), int(b.Buffers[i]))
		}
	}
	return cmpInt(int(a.Current), int(b.Current))
}

func (p Paint) String() string {
	s := fmt.Sprintf("material %d", p.Material)
	if !p.PML.IsZero() {
		s += fmt.Sprintf(" pml %v", p.PML)
	}
	if p.HasBuffers() {
		s += fmt.Sprintf(" buffers %v", p.Buffers)
	}
	if p.Current != 0 {
		s += fmt.Sprintf(" current %d", p.Current)
	}
	return s
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
