package compile

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
)

const planeWaveJSON = `{
  "materials": [
    {"name": "Air", "class": "StaticDielectric"},
    {"name": "Glass", "class": "staticDielectric", "params": {"epsr": "2.25"}}
  ],
  "grids": [{
    "name": "main",
    "yeeCells": [0, 0, 0, 9, 9, 9],
    "pmlCells": [1, 1, 1, 1, 1, 1],
    "assembly": [
      {"type": "block", "rect": [0, 0, 0, 9, 9, 9], "material": "Air"}
    ],
    "huygensSurfaces": [
      {"name": "pw", "type": "tfsf", "halfCells": [6, 6, 6, 13, 13, 13], "direction": [0, 0, 1], "polarization": [1, 0, 0], "formula": "sin(t)"}
    ]
  }]
}`

// example is a 10³ Yee-cell grid of one material with a one-Yee-cell
// absorbing shell.
func example(class string) *description.Simulation {
	g := description.NewGrid("main", geom.NewRect(0, 0, 0, 9, 9, 9), [6]int{1, 1, 1, 1, 1, 1})
	g.Assembly = []description.Instruction{description.Block{Rect: g.YeeCells, Material: "Air"}}
	return &description.Simulation{
		Materials: []description.MaterialDescription{{Name: "Air", Class: class}},
		Grids:     []*description.GridDescription{g},
	}
}

func TestExampleScenario(t *testing.T) {
	res, err := Compile(context.Background(), example("StaticDielectric"), Options{Workers: 2})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Grids) != 1 {
		t.Fatalf("want one grid, got %d", len(res.Grids))
	}
	gs := res.Summary.Grids[0]
	if gs.Delegates != 27 || gs.PML != 26 {
		t.Fatalf("delegates %d (pml %d), want 27 (26)", gs.Delegates, gs.PML)
	}
	_, mats, ok := res.Grid("main")
	if !ok || len(mats) != 27 {
		t.Fatalf("materials of main: %d", len(mats))
	}
	for _, m := range mats {
		if m.Name != "Air" || m.Model.Class() != "StaticDielectric" {
			t.Fatalf("material %q of class %s", m.Name, m.Model.Class())
		}
		if m.Kind() == runline.Bulk {
			if n := len(m.Runlines(geom.Ex)); n != 64 {
				t.Fatalf("bulk Ex runlines %d, want one per row (64)", n)
			}
			if m.PMLRunlines(geom.Ex) != nil {
				t.Fatal("bulk material has PML runlines")
			}
			if _, ok := m.PMLThickness(); ok {
				t.Fatal("bulk material has a PML thickness")
			}
		} else {
			if len(m.PMLRunlines(geom.Ex)) != len(m.Runlines(geom.Ex)) {
				t.Fatal("PML runlines and runlines differ in number")
			}
			if th, ok := m.PMLThickness(); !ok || th != [6]int{2, 2, 2, 2, 2, 2} {
				t.Fatalf("PML thickness %v", th)
			}
		}
	}
	cells := 0
	for _, m := range mats {
		cells += m.NumCells(geom.Hz)
	}
	if cells != gs.Cells[geom.Hz] || cells != 1000 {
		t.Fatalf("Hz cells %d, summary %d, want 1000", cells, gs.Cells[geom.Hz])
	}
	if !strings.Contains(res.Summary.String(), "material Air: runlines") {
		t.Fatalf("summary:\n%s", res.Summary)
	}
}

func TestDeterministic(t *testing.T) {
	a, err := Compile(context.Background(), example("PEC"), Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(context.Background(), example("PEC"), Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Summary, b.Summary) {
		t.Fatalf("summaries differ:\n%s\n%s", a.Summary, b.Summary)
	}
	for i := range a.Materials[0] {
		for _, f := range geom.Fields {
			if !reflect.DeepEqual(a.Materials[0][i].Runlines(f), b.Materials[0][i].Runlines(f)) {
				t.Fatalf("material %d %v runlines differ", i, f)
			}
		}
	}
}

func TestUnknownClass(t *testing.T) {
	_, err := Compile(context.Background(), example("Phlogiston"), Options{})
	var ce *errs.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compile(ctx, example("PEC"), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pw.json")
	if err := os.WriteFile(path, []byte(planeWaveJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	oldPNG, oldDir := PNG, PNGDir
	t.Cleanup(func() { PNG, PNGDir = oldPNG, oldDir })
	PNG, PNGDir = true, filepath.Join(dir, "pngs")

	var out bytes.Buffer
	if err := Run(path, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	for _, want := range []string{"grids: 3,", "grid main (user)", "grid main.pw.aux1 (aux)", "buffers: 8,"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary lacks %q:\n%s", want, s)
		}
	}
	if _, err := os.Stat(filepath.Join(PNGDir, "pw_main_00.png")); err != nil {
		t.Fatalf("paint slice: %v", err)
	}
}

func TestRunWarnsOnceForRepeatedMaterial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.json")
	cfg := strings.Replace(planeWaveJSON, `"materials": [`,
		`"materials": [
    {"name": "Glass", "class": "PEC"},`, 1)
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	old := logging.Logger()
	defer logging.SetLogger(old)
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := Run(path, &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(buf.String(), "repeated material definition ignored"); n != 1 {
		t.Fatalf("repeated material warned %d times:\n%s", n, buf.String())
	}
}
