package material

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/text/cases"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
)

// Params are the raw parameters of a material description.
type Params map[string]string

// Constructor builds a model from parameters.
type Constructor func(p Params) (Model, error)

type entry struct {
	class string
	ctor  Constructor
}

// Registry maps class names to constructors. Class and parameter names are
// matched case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]entry
}

// key folds a name; a Caser holds state, so each call gets its own.
func key(s string) string { return cases.Fold().String(s) }

// NewRegistry returns a registry with the built-in classes.
func NewRegistry() *Registry {
	r := &Registry{classes: map[string]entry{}}
	r.Register("StaticDielectric", newStaticDielectric)
	r.Register("StaticLossyDielectric", newStaticLossyDielectric)
	r.Register("DrudeMetal", newDrudeMetal)
	r.Register("PEC", func(p Params) (Model, error) { return PEC{}, p.only() })
	r.Register("PMC", func(p Params) (Model, error) { return PMC{}, p.only() })
	return r
}

// Register adds or replaces a class.
func (r *Registry) Register(class string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[key(class)] = entry{class: class, ctor: c}
}

// Has reports whether class is known.
func (r *Registry) Has(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[key(class)]
	return ok
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for _, e := range r.classes {
		out = append(out, e.class)
	}
	sort.Strings(out)
	return out
}

// Build constructs the model of m. An unknown class or a bad parameter is a
// configuration error.
func (r *Registry) Build(m description.MaterialDescription) (Model, error) {
	where := fmt.Sprintf("material %q", m.Name)
	r.mu.RLock()
	e, ok := r.classes[key(m.Class)]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.Configf("", where, "unknown material class %q", m.Class)
	}
	p := Params{}
	for k, v := range m.Params {
		p[key(k)] = v
	}
	model, err := e.ctor(p)
	if err != nil {
		return nil, errs.Configf("", where, "%s: %v", e.class, err)
	}
	return model, nil
}

// float returns parameter name, or def when absent. The value must be finite
// and no smaller than lo (strictly greater when open is set).
func (p Params) float(name string, def, lo float64, open bool) (float64, error) {
	s, ok := p[key(name)]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || (open && v == lo) {
		return 0, fmt.Errorf("parameter %s = %v out of range", name, v)
	}
	return v, nil
}

// only fails when p holds a parameter not in names.
func (p Params) only(names ...string) error {
	allowed := map[string]bool{}
	for _, n := range names {
		allowed[key(n)] = true
	}
	for k := range p {
		if !allowed[k] {
			return fmt.Errorf("unknown parameter %q", k)
		}
	}
	return nil
}

func newStaticDielectric(p Params) (Model, error) {
	if err := p.only("epsr", "mur"); err != nil {
		return nil, err
	}
	eps, err := p.float("epsr", 1, 0, true)
	if err != nil {
		return nil, err
	}
	mu, err := p.float("mur", 1, 0, true)
	if err != nil {
		return nil, err
	}
	return StaticDielectric{EpsR: eps, MuR: mu}, nil
}

func newStaticLossyDielectric(p Params) (Model, error) {
	if err := p.only("epsr", "mur", "sigma"); err != nil {
		return nil, err
	}
	eps, err := p.float("epsr", 1, 0, true)
	if err != nil {
		return nil, err
	}
	mu, err := p.float("mur", 1, 0, true)
	if err != nil {
		return nil, err
	}
	sigma, err := p.float("sigma", 0, 0, false)
	if err != nil {
		return nil, err
	}
	return StaticLossyDielectric{EpsR: eps, MuR: mu, Sigma: sigma}, nil
}

func newDrudeMetal(p Params) (Model, error) {
	if err := p.only("epsinf", "omegap", "gamma"); err != nil {
		return nil, err
	}
	if _, ok := p[key("omegap")]; !ok {
		return nil, fmt.Errorf("parameter omegap is required")
	}
	epsInf, err := p.float("epsinf", 1, 0, true)
	if err != nil {
		return nil, err
	}
	wp, err := p.float("omegap", 0, 0, true)
	if err != nil {
		return nil, err
	}
	gamma, err := p.float("gamma", 0, 0, false)
	if err != nil {
		return nil, err
	}
	return DrudeMetal{EpsInf: epsInf, OmegaP: wp, Gamma: gamma}, nil
}
