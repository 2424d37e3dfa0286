package voxel

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// SavePNGSlices writes one PNG per z half-cell slice of the grid, named
// prefix_<k>.png. Each distinct paint gets its own color; unpainted cells are
// black.
func SavePNGSlices(g *Grid, prefix string) error {
	b := g.bounds
	d := b.Dims()
	Nx, Ny, Nz := d.X, d.Y, d.Z

	// Zero-padding width based on number of slices.
	width := 1
	if Nz > 1 {
		width = int(math.Log10(float64(Nz-1))) + 1
	}

	for k := 0; k < Nz; k++ {
		// Flip Y so up is up.
		img := image.NewNRGBA(image.Rect(0, 0, Nx, Ny))
		for j := 0; j < Ny; j++ {
			y := Ny - 1 - j
			for i := 0; i < Nx; i++ {
				h := g.At(b.P1.Add(geom.Vec3i{X: i, Y: j, Z: k}))
				img.SetNRGBA(i, y, PaintColor(h))
			}
		}

		full := fmt.Sprintf("%s_%0*d.png", prefix, width, k)
		f, err := os.Create(full)
		if err != nil {
			return err
		}
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(f, img); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	logging.Logger().Debug("saved paint slices", "grid", g.Name, "prefix", prefix, "slices", Nz)
	return nil
}

// PaintColor maps a handle to a stable, well-spread color.
func PaintColor(h paint.Handle) color.NRGBA {
	if h == paint.None {
		return color.NRGBA{A: 0xff}
	}
	// golden-angle hue walk
	hue := math.Mod(float64(h)*137.50776, 360) / 60
	x := 1 - math.Abs(math.Mod(hue, 2)-1)
	var r, gr, bl float64
	switch int(hue) {
	case 0:
		r, gr = 1, x
	case 1:
		r, gr = x, 1
	case 2:
		gr, bl = 1, x
	case 3:
		gr, bl = x, 1
	case 4:
		r, bl = x, 1
	default:
		r, bl = 1, x
	}
	to8 := func(v float64) uint8 { return uint8(math.Round(55 + 200*v)) }
	return color.NRGBA{R: to8(r), G: to8(gr), B: to8(bl), A: 0xff}
}
