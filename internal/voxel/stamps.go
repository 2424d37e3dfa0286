package voxel

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/geom"
	"github.com/lukaszgryglicki/yeegrid/internal/paint"
)

// EllipsoidTolerance is the normalized radius² below which a half-cell counts
// as inside an ellipsoid.
var EllipsoidTolerance = 1.0001

// StyleRect converts an instruction box to the half-cells it covers.
func StyleRect(r geom.Rect3i, style description.FillStyle) geom.Rect3i {
	switch style {
	case description.PMCStyle:
		return geom.YeeToHalf(r).Translate(geom.Splat(1))
	case description.HalfCellStyle:
		return r
	}
	return geom.YeeToHalf(r)
}

// PaintBox fills a box.
func (g *Grid) PaintBox(r geom.Rect3i, style description.FillStyle, h paint.Handle) {
	g.Fill(StyleRect(r, style), h)
}

// PaintEllipsoid fills the axis-aligned ellipsoid inscribed in the box.
func (g *Grid) PaintEllipsoid(r geom.Rect3i, style description.FillStyle, h paint.Handle) {
	box := StyleRect(r, style)
	if box.IsNegative() {
		return
	}
	center := r3.Scale(0.5, r3.Add(toR3(box.P1), toR3(box.P2)))
	semi := r3.Scale(0.5, toR3(box.Dims()))
	box.Intersect(g.bounds).Each(1, func(p geom.Vec3i) {
		d := r3.Sub(toR3(p), center)
		q := r3.Vec{X: d.X / semi.X, Y: d.Y / semi.Y, Z: d.Z / semi.Z}
		if r3.Dot(q, q) <= EllipsoidTolerance {
			g.Set(p, h)
		}
	})
}

// KeyPaint maps an exact image color to a paint.
type KeyPaint struct {
	Color color.RGBA
	Paint paint.Handle
}

// PaintKeyImage paints the Yee cells of r from an image resampled onto the
// row and column axes and replicated along the third axis. Pixels matching no
// key are left untouched; the first matching key wins.
func (g *Grid) PaintKeyImage(r geom.Rect3i, img image.Image, row, col geom.Vec3i, keys []KeyPaint) error {
	plane, err := newImagePlane(r, img, row, col)
	if err != nil {
		return err
	}
	r.Each(1, func(c geom.Vec3i) {
		px := plane.at(c)
		for _, k := range keys {
			if k.Color == px {
				g.Fill(geom.YeeToHalf(geom.Rect3i{P1: c, P2: c}), k.Paint)
				return
			}
		}
	})
	return nil
}

// PaintHeightMap paints the Yee cells of r that lie below the height encoded
// by pixel brightness, counting from the low end of up.
func (g *Grid) PaintHeightMap(r geom.Rect3i, img image.Image, row, col, up geom.Vec3i, h paint.Handle) error {
	plane, err := newImagePlane(r, img, row, col)
	if err != nil {
		return err
	}
	upAxis, ok := unitAxis(up)
	if !ok || upAxis == plane.rowAxis || upAxis == plane.colAxis {
		return fmt.Errorf("height map up vector %v must be a unit vector normal to the image plane", up)
	}
	levels := r.Dims().At(upAxis)
	r.Each(1, func(c geom.Vec3i) {
		gray := color.Gray16Model.Convert(plane.at(c)).(color.Gray16)
		height := int(math.Round(float64(gray.Y) / 0xffff * float64(levels)))
		if along(c, r, up, upAxis) < height {
			g.Fill(geom.YeeToHalf(geom.Rect3i{P1: c, P2: c}), h)
		}
	})
	return nil
}

// imagePlane is an image resampled to one pixel per Yee cell of a box face.
type imagePlane struct {
	box              geom.Rect3i
	row, col         geom.Vec3i
	rowAxis, colAxis int
	img              *image.RGBA
}

func newImagePlane(r geom.Rect3i, src image.Image, row, col geom.Vec3i) (*imagePlane, error) {
	if src == nil {
		return nil, fmt.Errorf("no image")
	}
	if r.IsNegative() {
		return nil, fmt.Errorf("negative box %v", r)
	}
	rowAxis, okR := unitAxis(row)
	colAxis, okC := unitAxis(col)
	if !okR || !okC || rowAxis == colAxis {
		return nil, fmt.Errorf("row %v and column %v must be unit vectors along different axes", row, col)
	}
	d := r.Dims()
	dst := image.NewRGBA(image.Rect(0, 0, d.At(colAxis), d.At(rowAxis)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &imagePlane{box: r, row: row, col: col, rowAxis: rowAxis, colAxis: colAxis, img: dst}, nil
}

func (ip *imagePlane) at(c geom.Vec3i) color.RGBA {
	x := along(c, ip.box, ip.col, ip.colAxis)
	y := along(c, ip.box, ip.row, ip.rowAxis)
	return ip.img.RGBAAt(x, y)
}

// along is the distance of c from the end of box that dir points away from.
func along(c geom.Vec3i, box geom.Rect3i, dir geom.Vec3i, axis int) int {
	if dir.At(axis) > 0 {
		return c.At(axis) - box.P1.At(axis)
	}
	return box.P2.At(axis) - c.At(axis)
}

// unitAxis returns the axis of a signed unit vector.
func unitAxis(v geom.Vec3i) (int, bool) {
	if v.NonZero() != 1 || v.Sign() != v {
		return 0, false
	}
	for axis := geom.X; axis <= geom.Z; axis++ {
		if v.At(axis) != 0 {
			return axis, true
		}
	}
	return 0, false
}

func toR3(v geom.Vec3i) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
