package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
)

// Tradd computes B = alpha*op(A) + beta*B restricted to the uplo triangle
// of B, one diagonal-tile tradd plus general adds for the off-diagonal
// tiles of each column (or row, for Upper).
//
// The four uplo x trans branches repeat near-identical walks that differ
// only in which of A(m,n) or A(n,m) feeds each update. The index mappings
// are deliberately spelled out per branch; collapsing them silently
// transposes results.
func Tradd(c dispatch.Ctx, uplo kernel.Uplo, transA kernel.Transpose, alpha float64, a desc.Desc, beta float64, b desc.Desc) {
	if !c.Seq.OK() {
		return
	}

	switch uplo {
	case kernel.Lower:
		if transA == kernel.NoTrans {
			for n := 0; n < imin(b.MT, b.NT); n++ {
				mvbn := rowsOf(b, n)
				nvbn := colsOf(b, n)
				dispatch.Tradd(c, uplo, transA, mvbn, nvbn,
					alpha, tileAt(a, n, n), beta, tileAt(b, n, n))

				for m := n + 1; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					dispatch.Geadd(c, transA, mvbm, nvbn,
						alpha, tileAt(a, m, n), beta, tileAt(b, m, n))
				}
			}
		} else {
			for n := 0; n < imin(b.MT, b.NT); n++ {
				mvbn := rowsOf(b, n)
				nvbn := colsOf(b, n)
				dispatch.Tradd(c, uplo, transA, mvbn, nvbn,
					alpha, tileAt(a, n, n), beta, tileAt(b, n, n))

				for m := n + 1; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					dispatch.Geadd(c, transA, mvbm, nvbn,
						alpha, tileAt(a, n, m), beta, tileAt(b, m, n))
				}
			}
		}
	case kernel.Upper:
		if transA == kernel.NoTrans {
			for m := 0; m < imin(b.MT, b.NT); m++ {
				mvbm := rowsOf(b, m)
				nvbm := colsOf(b, m)
				dispatch.Tradd(c, uplo, transA, mvbm, nvbm,
					alpha, tileAt(a, m, m), beta, tileAt(b, m, m))

				for n := m + 1; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					dispatch.Geadd(c, transA, mvbm, nvbn,
						alpha, tileAt(a, m, n), beta, tileAt(b, m, n))
				}
			}
		} else {
			for m := 0; m < imin(b.MT, b.NT); m++ {
				mvbm := rowsOf(b, m)
				nvbm := colsOf(b, m)
				dispatch.Tradd(c, uplo, transA, mvbm, nvbm,
					alpha, tileAt(a, m, m), beta, tileAt(b, m, m))

				for n := m + 1; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					dispatch.Geadd(c, transA, mvbm, nvbn,
						alpha, tileAt(a, n, m), beta, tileAt(b, m, n))
				}
			}
		}
	}
}
