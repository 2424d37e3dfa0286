package coupling

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/geom"
)

// ResolveLink maps the destination layers of a grid-fed buffer into its
// source grid. destBounds and sourceBounds are the half-cell boxes of the two
// grids. Along an axis where the source grid is one Yee cell thick and the
// destination grid is not, the source is broadcast whatever the box sizes.
// Along an axis where both total-field boxes have the same size the layers
// are translated, and the translation must be even so every field component
// keeps its parity. Anything else is a mismatch.
func (b *Buffer) ResolveLink(destBounds, sourceBounds geom.Rect3i) error {
	if b.Kind != FromGrid {
		return nil
	}
	dTF, sTF := b.TotalField, b.SourceTotalField
	var src geom.Rect3i
	for axis := geom.X; axis <= geom.Z; axis++ {
		dSize, sSize := dTF.Size().At(axis), sTF.Size().At(axis)
		lo, hi := b.DestHalfCells.P1.At(axis), b.DestHalfCells.P2.At(axis)
		srcThin := sourceBounds.Dims().At(axis) == 2
		switch {
		case srcThin && (destBounds.Dims().At(axis) != 2 || sSize < dSize):
			lo, hi = sourceBounds.P1.At(axis), sourceBounds.P2.At(axis)
			b.Broadcast[axis] = true
		case dSize == sSize:
			off := sTF.P1.At(axis) - dTF.P1.At(axis)
			if off&1 != 0 {
				return fmt.Errorf("source box %v is misaligned with %v along axis %d (odd offset %d)", sTF, dTF, axis, off)
			}
			lo, hi = lo+off, hi+off
			b.Broadcast[axis] = false
		default:
			return fmt.Errorf("source box %v does not match %v along axis %d", sTF, dTF, axis)
		}
		src.P1 = src.P1.With(axis, lo)
		src.P2 = src.P2.With(axis, hi)
	}
	if !sourceBounds.Encloses(src) {
		return fmt.Errorf("source layers %v leave grid %q %v", src, b.SourceGrid, sourceBounds)
	}
	b.SourceHalfCells = src
	return nil
}
