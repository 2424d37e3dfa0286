package coupling

import (
	"testing"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

func TestBufferSetIDs(t *testing.T) {
	bs := NewBufferSet()
	a := bs.Add(Buffer{Grid: "main", Side: geom.XLow, DestHalfCells: geom.NewRect(4, 4, 4, 5, 9, 9)})
	b := bs.Add(Buffer{Grid: "aux", Side: geom.XHigh})
	if a != 1 || b != 2 || bs.Len() != 2 {
		t.Fatalf("ids %d %d len %d", a, b, bs.Len())
	}
	if got := bs.ForGrid("main"); len(got) != 1 || got[0].ID != a {
		t.Fatalf("ForGrid: %v", got)
	}
	ix := bs.Indexer(a)
	if ix.Dims() != (geom.Vec3i{X: 1, Y: 3, Z: 3}) {
		t.Fatalf("indexer dims %v", ix.Dims())
	}
	if bs.Get(a).Cells() != 9 {
		t.Fatalf("cells %d", bs.Get(a).Cells())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Get(0) did not panic")
		}
	}()
	bs.Get(0)
}

func TestResolveLink(t *testing.T) {
	tf := geom.NewRect(10, 10, 10, 29, 29, 29)
	b := &Buffer{
		Kind:             FromGrid,
		SourceGrid:       "aux",
		Side:             geom.ZLow,
		TotalField:       tf,
		DestHalfCells:    geom.NewRect(10, 10, 9, 29, 29, 10),
		SourceTotalField: geom.NewRect(0, 0, 10, 1, 1, 29),
	}
	main := geom.NewRect(0, 0, 0, 39, 39, 39)
	aux := geom.NewRect(0, 0, -30, 1, 1, 69)
	if err := b.ResolveLink(main, aux); err != nil {
		t.Fatal(err)
	}
	if b.SourceHalfCells != geom.NewRect(0, 0, 9, 1, 1, 10) || b.Broadcast != [3]bool{true, true, false} {
		t.Fatalf("resolved %v %v", b.SourceHalfCells, b.Broadcast)
	}

	b.SourceTotalField = geom.NewRect(0, 0, 11, 1, 1, 30)
	if err := b.ResolveLink(main, aux); err == nil {
		t.Fatal("odd offset accepted")
	}
	b.SourceTotalField = geom.NewRect(0, 0, 10, 1, 1, 20)
	if err := b.ResolveLink(main, aux); err == nil {
		t.Fatal("size mismatch accepted")
	}
	b.SourceTotalField = geom.NewRect(0, 0, 80, 1, 1, 99)
	if err := b.ResolveLink(main, aux); err == nil {
		t.Fatal("source outside grid accepted")
	}
}

func TestResolveLinkThinTotalField(t *testing.T) {
	// one Yee cell thick along y, like the collapsed axis of the source
	b := &Buffer{
		Kind:             FromGrid,
		SourceGrid:       "aux",
		Side:             geom.YLow,
		TotalField:       geom.NewRect(6, 8, 6, 13, 9, 13),
		DestHalfCells:    geom.NewRect(6, 6, 6, 13, 7, 13),
		SourceTotalField: geom.NewRect(0, 0, 6, 1, 1, 13),
	}
	main := geom.NewRect(0, 0, 0, 19, 19, 19)
	aux := geom.NewRect(0, 0, -20, 1, 1, 39)
	if err := b.ResolveLink(main, aux); err != nil {
		t.Fatal(err)
	}
	if b.SourceHalfCells != geom.NewRect(0, 0, 6, 1, 1, 13) || b.Broadcast != [3]bool{true, true, false} {
		t.Fatalf("resolved %v %v", b.SourceHalfCells, b.Broadcast)
	}

	// both grids thin: plain translation
	b.Broadcast = [3]bool{}
	line := geom.NewRect(0, 0, 0, 1, 1, 19)
	b.TotalField = geom.NewRect(0, 0, 6, 1, 1, 13)
	b.DestHalfCells = geom.NewRect(0, 0, 4, 1, 1, 5)
	if err := b.ResolveLink(line, aux); err != nil {
		t.Fatal(err)
	}
	if b.SourceHalfCells != b.DestHalfCells || b.Broadcast != [3]bool{} {
		t.Fatalf("resolved %v %v", b.SourceHalfCells, b.Broadcast)
	}
}
