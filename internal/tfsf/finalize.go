package tfsf

import (
	"fmt"

	"github.com/lukaszgryglicki/yeegrid/internal/coupling"
	"github.com/lukaszgryglicki/yeegrid/internal/errs"
)

// finalize maps every grid-fed buffer onto its source grid. It runs once all
// grids, auxiliary ones included, exist.
func (b *Builder) finalize() error {
	for _, buf := range b.ctx.Buffers.All() {
		if buf.Kind != coupling.FromGrid {
			continue
		}
		where := fmt.Sprintf("surface %q side %v", buf.Surface, buf.Side)
		if buf.SourceGrid == buf.Grid {
			return errs.Configf(buf.Grid, where, "surface links to its own grid")
		}
		src, ok := b.built[buf.SourceGrid]
		if !ok {
			return errs.Configf(buf.Grid, where, "link source grid %q does not exist", buf.SourceGrid)
		}
		dst, ok := b.built[buf.Grid]
		errs.Invariant(ok, "buffer %d belongs to unbuilt grid %q", buf.ID, buf.Grid)
		if err := buf.ResolveLink(dst.Desc.HalfCells, src.Desc.HalfCells); err != nil {
			return errs.Configf(buf.Grid, where, "%v", err)
		}
	}
	return nil
}
