package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/rhtree"
)

// t2At addresses the merge-factor block for tile row k of panel j. The
// factor descriptor carries two tile columns per panel: the left half
// holds the panel factors, the right half the merge factors.
func t2At(t desc.Desc, k, j int) desc.Tile {
	return tileAt(t, k, j+t.NT/2)
}

// Geqrf computes the tile QR factorization of a using a reduction tree,
// replaying the planner's operation list in order. Reflectors overwrite
// the corresponding tiles of a; triangular factors land in t.
func Geqrf(c dispatch.Ctx, a, t desc.Desc, ops []rhtree.Op) {
	if !c.Seq.OK() {
		return
	}

	ib := t.MB

	for _, op := range ops {
		j := op.J
		k := op.K
		nvaj := colsOf(a, j)
		mvak := rowsOf(a, k)

		switch op.Kind {
		case rhtree.GE:
			dispatch.Geqrt(c, mvak, nvaj, ib,
				tileAt(a, k, j), tileAt(t, k, j))
			for n := j + 1; n < a.NT; n++ {
				nvan := colsOf(a, n)
				dispatch.Unmqr(c, kernel.Left, kernel.ConjTrans,
					mvak, nvan, imin(mvak, nvaj), ib,
					tileAt(a, k, j), tileAt(t, k, j), tileAt(a, k, n))
			}

		case rhtree.TS:
			mvkpiv := rowsOf(a, op.Kpiv)
			dispatch.Tsqrt(c, mvak, nvaj, ib,
				tileAt(a, op.Kpiv, j), tileAt(a, k, j), t2At(t, k, j))
			for n := j + 1; n < a.NT; n++ {
				nvan := colsOf(a, n)
				dispatch.Tsmqr(c, kernel.Left, kernel.ConjTrans,
					mvkpiv, nvan, mvak, nvan, nvaj, ib,
					tileAt(a, op.Kpiv, n), tileAt(a, k, n),
					tileAt(a, k, j), t2At(t, k, j))
			}

		case rhtree.TT:
			mvkpiv := rowsOf(a, op.Kpiv)
			dispatch.Ttqrt(c, mvak, nvaj, ib,
				tileAt(a, op.Kpiv, j), tileAt(a, k, j), t2At(t, k, j))
			for n := j + 1; n < a.NT; n++ {
				nvan := colsOf(a, n)
				dispatch.Ttmqr(c, kernel.Left, kernel.ConjTrans,
					mvkpiv, nvan, mvak, nvan, nvaj, ib,
					tileAt(a, op.Kpiv, n), tileAt(a, k, n),
					tileAt(a, k, j), t2At(t, k, j))
			}
		}
	}
}
