// Package material turns material descriptions into electromagnetic models
// and hands the driver each model together with the runlines of the cells it
// updates.
package material

import (
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
)

// Model is the constitutive model of one material class.
type Model interface {
	Class() string
	// Magnetic reports whether the model updates H with a non-vacuum
	// permeability.
	Magnetic() bool
}

// StaticDielectric has constant relative permittivity and permeability.
type StaticDielectric struct {
	EpsR, MuR float64
}

// StaticLossyDielectric adds a constant conductivity in S/m.
type StaticLossyDielectric struct {
	EpsR, MuR, Sigma float64
}

// DrudeMetal is a free-electron metal: high-frequency permittivity, plasma
// frequency and collision rate in rad/s.
type DrudeMetal struct {
	EpsInf, OmegaP, Gamma float64
}

// PEC is a perfect electric conductor; E is held at zero.
type PEC struct{}

// PMC is a perfect magnetic conductor; H is held at zero.
type PMC struct{}

func (StaticDielectric) Class() string      { return "StaticDielectric" }
func (StaticLossyDielectric) Class() string { return "StaticLossyDielectric" }
func (DrudeMetal) Class() string            { return "DrudeMetal" }
func (PEC) Class() string                   { return "PEC" }
func (PMC) Class() string                   { return "PMC" }

func (m StaticDielectric) Magnetic() bool      { return m.MuR != 1 }
func (m StaticLossyDielectric) Magnetic() bool { return m.MuR != 1 }
func (DrudeMetal) Magnetic() bool              { return false }
func (PEC) Magnetic() bool                     { return false }
func (PMC) Magnetic() bool                     { return true }

var (
	// Compile time checks to ensure that the model interface is implemented by all built-in classes
	_ Model = StaticDielectric{}
	_ Model = StaticLossyDielectric{}
	_ Model = DrudeMetal{}
	_ Model = PEC{}
	_ Model = PMC{}
)

// Material is the unit the driver updates: one model and the runlines of one
// delegate of one grid.
type Material struct {
	Name     string // material description name
	Grid     string
	Model    Model
	Delegate runline.Delegate
}

// New wraps delegate d of grid into a material.
func New(name, grid string, m Model, d runline.Delegate) *Material {
	return &Material{Name: name, Grid: grid, Model: m, Delegate: d}
}

// Kind returns the delegate variant.
func (m *Material) Kind() runline.Kind { return m.Delegate.Kind() }

// Parent returns the paint shared by every cell of the material.
func (m *Material) Parent() paint.Handle { return m.Delegate.Parent() }

// Runlines returns the runlines of field component f.
func (m *Material) Runlines(f geom.Field) []runline.Runline { return m.Delegate.Runlines(f) }

// PMLRunlines returns the runlines with absorbing-layer depths, or nil when
// the material has no absorbing layer.
func (m *Material) PMLRunlines(f geom.Field) []runline.PMLRunline {
	if d, ok := m.Delegate.(runline.PMLDelegate); ok {
		return d.PMLRunlines(f)
	}
	return nil
}

// PMLThickness returns the absorbing-shell thickness per side in half-cells,
// or false when the material has no absorbing layer.
func (m *Material) PMLThickness() ([6]int, bool) {
	if d, ok := m.Delegate.(runline.PMLDelegate); ok {
		return d.PMLThickness(), true
	}
	return [6]int{}, false
}

// NumCells returns the number of f cells the material updates.
func (m *Material) NumCells(f geom.Field) int { return m.Delegate.NumCells(f) }

// NumRunlines returns the number of runlines over all field components.
func (m *Material) NumRunlines() int {
	n := 0
	for _, f := range geom.Fields {
		n += len(m.Delegate.Runlines(f))
	}
	return n
}
