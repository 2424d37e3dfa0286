package paint

import (
	"sync"
	"testing"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

func TestCanonicalizeIdempotent(t *testing.T) {
	pl := NewPalette()
	a := pl.Bulk(3)
	b := pl.Bulk(3)
	if a != b || a == None {
		t.Fatalf("bulk handles differ: %d %d", a, b)
	}
	dir := geom.Vec3i{X: 1, Y: -1}
	p1 := pl.WithPML(a, dir)
	p2 := pl.WithPML(b, dir)
	if p1 != p2 || p1 == a {
		t.Fatalf("PML handles: %d %d (bulk %d)", p1, p2, a)
	}
	// Same value reached through different derivation orders.
	c1 := pl.WithBuffer(pl.WithBuffer(a, geom.XHigh, 4), geom.YLow, 5)
	c2 := pl.WithBuffer(pl.WithBuffer(a, geom.YLow, 5), geom.XHigh, 4)
	if c1 != c2 {
		t.Fatalf("buffer derivation order changed handle: %d %d", c1, c2)
	}
	if pl.Len() != 5 {
		t.Fatalf("palette holds %d paints, want 5", pl.Len())
	}
}

func TestStripping(t *testing.T) {
	pl := NewPalette()
	bulk := pl.Bulk(1)
	pml := pl.WithPML(bulk, geom.Vec3i{Z: 1})
	buf := pl.WithBuffer(pml, geom.XLow, 2)
	if got := pl.CurlBufferParent(buf); got != pml {
		t.Fatalf("CurlBufferParent = %d want %d", got, pml)
	}
	if got := pl.BulkParent(buf); got != bulk {
		t.Fatalf("BulkParent = %d want %d", got, bulk)
	}
	if pl.BulkParent(bulk) != bulk || pl.CurlBufferParent(bulk) != bulk {
		t.Fatal("stripping a bulk paint must be the identity")
	}
	if pl.Get(buf).Kind() != KindBuffered || pl.Get(pml).Kind() != KindPML || pl.Get(bulk).Kind() != KindBulk {
		t.Fatal("kinds wrong")
	}
}

func TestCompareTotalOrder(t *testing.T) {
	ps := []Paint{
		{Material: 1},
		{Material: 1, PML: geom.Vec3i{X: 1}},
		{Material: 1, PML: geom.Vec3i{X: 1}, Buffers: [6]BufferID{0, 2}},
		{Material: 1, PML: geom.Vec3i{X: 1}, Buffers: [6]BufferID{0, 2}, Current: 1},
		{Material: 2},
	}
	for i := range ps {
		for j := range ps {
			got := Compare(ps[i], ps[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Fatalf("Compare(%v, %v) = %d want %d", ps[i], ps[j], got, want)
			}
		}
	}
}

func TestResetInvalidatesHandles(t *testing.T) {
	pl := NewPalette()
	h := pl.Bulk(7)
	pl.Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("stale handle should panic")
		}
	}()
	pl.Get(h)
}

func TestConcurrentCanonicalize(t *testing.T) {
	pl := NewPalette()
	var wg sync.WaitGroup
	got := make([]Handle, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = pl.WithPML(pl.Bulk(0), geom.Vec3i{Y: 1})
		}(i)
	}
	wg.Wait()
	for _, h := range got {
		if h != got[0] {
			t.Fatalf("handles diverged: %v", got)
		}
	}
}

func TestSorted(t *testing.T) {
	pl := NewPalette()
	b1 := pl.Bulk(1)
	pml := pl.WithPML(pl.Bulk(0), geom.Vec3i{X: -1})
	b0 := pl.Bulk(0)
	got := pl.Sorted([]Handle{b1, pml, b0})
	want := []Handle{pml, b0, b1} // PML (-1,0,0) sorts before (0,0,0)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted = %v, want %v", got, want)
		}
	}
}
