package compute

import (
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/sched"
)

// Ge2Desc converts the flat row-major matrix src into the tile layout of a.
// One copy task is emitted per tile, keyed on the matching flat block so
// unrelated tiles convert concurrently.
func Ge2Desc(c dispatch.Ctx, src []float64, lds int, a desc.Desc) {
	if !c.Seq.OK() {
		return
	}
	for m := 0; m < a.MT; m++ {
		rs := a.RowStart(m)
		rows := rowsOf(a, m)
		for n := 0; n < a.NT; n++ {
			cs := a.ColStart(n)
			dispatch.CopyIn(c, rows, colsOf(a, n), src[rs*lds+cs:], lds,
				sched.Region{Store: &src[0], Off: a.Slot(m, n)}, tileAt(a, m, n))
		}
	}
}

// Desc2Ge converts the tile layout of a back into the flat row-major
// matrix dst.
func Desc2Ge(c dispatch.Ctx, a desc.Desc, dst []float64, ldd int) {
	if !c.Seq.OK() {
		return
	}
	for m := 0; m < a.MT; m++ {
		rs := a.RowStart(m)
		rows := rowsOf(a, m)
		for n := 0; n < a.NT; n++ {
			cs := a.ColStart(n)
			dispatch.CopyOut(c, rows, colsOf(a, n), tileAt(a, m, n), dst[rs*ldd+cs:], ldd,
				sched.Region{Store: &dst[0], Off: a.Slot(m, n)})
		}
	}
}

// triRange returns the stored tile-column range of tile row m for a
// triangular descriptor.
func triRange(a desc.Desc, m int) (int, int) {
	if a.Kind == desc.Upper {
		return m, a.NT
	}
	return 0, imin(m+1, a.NT)
}

// Tr2Desc converts the stored triangle of the flat row-major matrix src
// into tile layout. The descriptor must carry triangular storage; a general
// descriptor fails the sequence before any task is emitted.
func Tr2Desc(c dispatch.Ctx, src []float64, lds int, a desc.Desc) {
	if !c.Seq.OK() {
		return
	}
	if a.Kind == desc.General {
		async.Fail(c.Seq, c.Req, async.IllegalValue)
		return
	}
	for m := 0; m < a.MT; m++ {
		rs := a.RowStart(m)
		rows := rowsOf(a, m)
		nStart, nEnd := triRange(a, m)
		for n := nStart; n < nEnd; n++ {
			cs := a.ColStart(n)
			dispatch.CopyIn(c, rows, colsOf(a, n), src[rs*lds+cs:], lds,
				sched.Region{Store: &src[0], Off: a.Slot(m, n)}, tileAt(a, m, n))
		}
	}
}

// Desc2Tr converts the stored triangle of a back into the flat row-major
// matrix dst, leaving the other triangle of dst untouched.
func Desc2Tr(c dispatch.Ctx, a desc.Desc, dst []float64, ldd int) {
	if !c.Seq.OK() {
		return
	}
	if a.Kind == desc.General {
		async.Fail(c.Seq, c.Req, async.IllegalValue)
		return
	}
	for m := 0; m < a.MT; m++ {
		rs := a.RowStart(m)
		rows := rowsOf(a, m)
		nStart, nEnd := triRange(a, m)
		for n := nStart; n < nEnd; n++ {
			cs := a.ColStart(n)
			dispatch.CopyOut(c, rows, colsOf(a, n), tileAt(a, m, n), dst[rs*ldd+cs:], ldd,
				sched.Region{Store: &dst[0], Off: a.Slot(m, n)})
		}
	}
}
