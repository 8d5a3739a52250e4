package compute

import (
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/rhtree"
)

// Unmqr applies the orthogonal factor of a tree QR factorization to b:
// op(Q)*B for Left, B*op(Q) for Right. Applying Q^T replays the
// factorization's elimination order; applying Q replays it backwards.
// For Right the direction inverts, since (QB^T)^T walks the tree the
// other way.
func Unmqr(c dispatch.Ctx, side kernel.Side, trans kernel.Transpose,
	a, t, b desc.Desc, ops []rhtree.Op) {

	if !c.Seq.OK() {
		async.Fail(c.Seq, c.Req, async.SequenceFlushed)
		return
	}

	forward := trans != kernel.NoTrans
	if side == kernel.Right {
		forward = !forward
	}
	if !forward {
		rev := make([]rhtree.Op, len(ops))
		for i, op := range ops {
			rev[len(ops)-1-i] = op
		}
		ops = rev
	}
	unmqrOps(c, side, trans, ops, a, t, b)
}

func unmqrOps(c dispatch.Ctx, side kernel.Side, trans kernel.Transpose,
	ops []rhtree.Op, a, t, b desc.Desc) {

	ib := t.MB

	for _, op := range ops {
		j := op.J
		k := op.K
		nvaj := colsOf(a, j)
		mvak := rowsOf(a, k)

		switch op.Kind {
		case rhtree.GE:
			kvar := imin(mvak, nvaj)
			if side == kernel.Left {
				mvbk := rowsOf(b, k)
				for n := 0; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					dispatch.Unmqr(c, side, trans,
						mvbk, nvbn, kvar, ib,
						tileAt(a, k, j), tileAt(t, k, j), tileAt(b, k, n))
				}
			} else {
				nvbk := colsOf(b, k)
				for m := 0; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					dispatch.Unmqr(c, side, trans,
						mvbm, nvbk, kvar, ib,
						tileAt(a, k, j), tileAt(t, k, j), tileAt(b, m, k))
				}
			}

		case rhtree.TS, rhtree.TT:
			mvkpiv := rowsOf(a, op.Kpiv)
			kvar := imin(mvkpiv+mvak, nvaj)
			apply := dispatch.Tsmqr
			if op.Kind == rhtree.TT {
				apply = dispatch.Ttmqr
			}
			if side == kernel.Left {
				mvbkpiv := rowsOf(b, op.Kpiv)
				mvbk := rowsOf(b, k)
				for n := 0; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					apply(c, side, trans,
						mvbkpiv, nvbn, mvbk, nvbn, kvar, ib,
						tileAt(b, op.Kpiv, n), tileAt(b, k, n),
						tileAt(a, k, j), t2At(t, k, j))
				}
			} else {
				nvbkpiv := colsOf(b, op.Kpiv)
				nvbk := colsOf(b, k)
				for m := 0; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					apply(c, side, trans,
						mvbm, nvbkpiv, mvbm, nvbk, kvar, ib,
						tileAt(b, m, op.Kpiv), tileAt(b, m, k),
						tileAt(a, k, j), t2At(t, k, j))
				}
			}

		default:
			async.Fail(c.Seq, c.Req, async.IllegalKernel)
		}
	}
}
