package material

import (
	"errors"
	"testing"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
)

func TestBuildBuiltins(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		desc description.MaterialDescription
		want Model
	}{
		{description.MaterialDescription{Name: "air", Class: "StaticDielectric"}, StaticDielectric{EpsR: 1, MuR: 1}},
		{description.MaterialDescription{Name: "glass", Class: "staticdielectric", Params: map[string]string{"EpsR": "2.25"}}, StaticDielectric{EpsR: 2.25, MuR: 1}},
		{description.MaterialDescription{Name: "wet", Class: "StaticLossyDielectric", Params: map[string]string{"epsr": "80", "sigma": "0.5"}}, StaticLossyDielectric{EpsR: 80, MuR: 1, Sigma: 0.5}},
		{description.MaterialDescription{Name: "au", Class: "DRUDEMETAL", Params: map[string]string{"omegap": "1.37e16", "gamma": "1e14"}}, DrudeMetal{EpsInf: 1, OmegaP: 1.37e16, Gamma: 1e14}},
		{description.MaterialDescription{Name: "wall", Class: "PEC"}, PEC{}},
		{description.MaterialDescription{Name: "mirror", Class: "pmc"}, PMC{}},
	}
	for _, c := range cases {
		got, err := r.Build(c.desc)
		if err != nil {
			t.Fatalf("%s: %v", c.desc.Name, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %#v, want %#v", c.desc.Name, got, c.want)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	r := NewRegistry()
	bad := []description.MaterialDescription{
		{Name: "x", Class: "Unobtainium"},
		{Name: "x", Class: "StaticDielectric", Params: map[string]string{"epsr": "abc"}},
		{Name: "x", Class: "StaticDielectric", Params: map[string]string{"epsr": "-1"}},
		{Name: "x", Class: "StaticDielectric", Params: map[string]string{"epsr": "0"}},
		{Name: "x", Class: "StaticDielectric", Params: map[string]string{"colour": "red"}},
		{Name: "x", Class: "StaticLossyDielectric", Params: map[string]string{"sigma": "-0.1"}},
		{Name: "x", Class: "DrudeMetal"},
		{Name: "x", Class: "DrudeMetal", Params: map[string]string{"omegap": "NaN"}},
		{Name: "x", Class: "PEC", Params: map[string]string{"epsr": "2"}},
	}
	for _, m := range bad {
		_, err := r.Build(m)
		var ce *errs.ConfigError
		if !errors.As(err, &ce) || !errors.Is(err, errs.ErrConfig) {
			t.Fatalf("%s %v: want ConfigError, got %v", m.Class, m.Params, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if !r.Has("pec") || r.Has("Vacuum") {
		t.Fatal("Has mismatch")
	}
	r.Register("Vacuum", func(p Params) (Model, error) { return StaticDielectric{EpsR: 1, MuR: 1}, p.only() })
	if !r.Has("VACUUM") {
		t.Fatal("registered class not found")
	}
	got := r.Classes()
	want := []string{"DrudeMetal", "PEC", "PMC", "StaticDielectric", "StaticLossyDielectric", "Vacuum"}
	if len(got) != len(want) {
		t.Fatalf("classes %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("classes %v, want %v", got, want)
		}
	}
}

func TestMagnetic(t *testing.T) {
	if (StaticDielectric{EpsR: 4, MuR: 1}).Magnetic() || !(StaticDielectric{EpsR: 1, MuR: 2}).Magnetic() || !(PMC{}).Magnetic() {
		t.Fatal("Magnetic mismatch")
	}
}
