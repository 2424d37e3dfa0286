package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/runline"
)

// GridSummary are the statistics of one compiled grid.
type GridSummary struct {
	Name        string
	Auxiliary   bool
	HalfCells   geom.Rect3i
	Delegates   int
	PML         int // delegates in the absorbing layer
	Buffers     int
	HardSources int
	Runlines    [6]int // per field component
	Cells       [6]int
	ByMaterial  map[string]int // runlines per material name
}

// Summary are the statistics of a compilation.
type Summary struct {
	Grids   []GridSummary
	Paints  int
	Buffers int
}

func summarize(r *Result) Summary {
	s := Summary{Paints: r.Context.Palette.Len(), Buffers: r.Context.Buffers.Len()}
	for i, p := range r.Grids {
		gs := GridSummary{
			Name:        p.Name(),
			Auxiliary:   p.Desc.Auxiliary,
			HalfCells:   p.Desc.HalfCells,
			Delegates:   len(p.Delegates),
			Buffers:     len(p.Buffers),
			HardSources: len(p.HardSources),
			ByMaterial:  map[string]int{},
		}
		for _, m := range r.Materials[i] {
			if m.Kind() == runline.BulkPML {
				gs.PML++
			}
			for _, f := range geom.Fields {
				n := len(m.Runlines(f))
				gs.Runlines[f] += n
				gs.Cells[f] += m.NumCells(f)
				gs.ByMaterial[m.Name] += n
			}
		}
		s.Grids = append(s.Grids, gs)
	}
	return s
}

// TotalRunlines sums runlines over all grids and components.
func (s Summary) TotalRunlines() int {
	n := 0
	for _, g := range s.Grids {
		for _, c := range g.Runlines {
			n += c
		}
	}
	return n
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grids: %d, paints: %d, buffers: %d, runlines: %d\n", len(s.Grids), s.Paints, s.Buffers, s.TotalRunlines())
	for _, g := range s.Grids {
		kind := "user"
		if g.Auxiliary {
			kind = "aux"
		}
		fmt.Fprintf(&b, "grid %s (%s) %v: delegates %d (pml %d), buffers %d, hard sources %d\n",
			g.Name, kind, g.HalfCells, g.Delegates, g.PML, g.Buffers, g.HardSources)
		for _, f := range geom.Fields {
			fmt.Fprintf(&b, "  %s: runlines %d, cells %d\n", f, g.Runlines[f], g.Cells[f])
		}
		names := make([]string, 0, len(g.ByMaterial))
		for name := range g.ByMaterial {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  material %s: runlines %d\n", name, g.ByMaterial[name])
		}
	}
	return b.String()
}
