package compute

import (
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/rhtree"
)

// Unmlq applies the orthogonal factor of a tree LQ factorization to b:
// op(Q)*B for Left, B*op(Q) for Right. The factorization applied its
// reflectors from the right, so A = L*Q_p...Q_1: applying Q replays the
// elimination order, applying Q^T replays it backwards. For Right the
// direction inverts again.
func Unmlq(c dispatch.Ctx, side kernel.Side, trans kernel.Transpose,
	a, t, b desc.Desc, ops []rhtree.Op) {

	if !c.Seq.OK() {
		async.Fail(c.Seq, c.Req, async.SequenceFlushed)
		return
	}

	forward := trans == kernel.NoTrans
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
	unmlqOps(c, side, trans, ops, a, t, b)
}

func unmlqOps(c dispatch.Ctx, side kernel.Side, trans kernel.Transpose,
	ops []rhtree.Op, a, t, b desc.Desc) {

	ib := t.MB

	for _, op := range ops {
		j := op.J
		k := op.K
		mvaj := rowsOf(a, j)
		nvak := colsOf(a, k)

		switch op.Kind {
		case rhtree.GE:
			kvar := imin(mvaj, nvak)
			if side == kernel.Left {
				mvbk := rowsOf(b, k)
				for n := 0; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					dispatch.Unmlq(c, side, trans,
						mvbk, nvbn, kvar, ib,
						tileAt(a, j, k), tileAt(t, j, k), tileAt(b, k, n))
				}
			} else {
				nvbk := colsOf(b, k)
				for m := 0; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					dispatch.Unmlq(c, side, trans,
						mvbm, nvbk, kvar, ib,
						tileAt(a, j, k), tileAt(t, j, k), tileAt(b, m, k))
				}
			}

		case rhtree.TS, rhtree.TT:
			nvkpiv := colsOf(a, op.Kpiv)
			kvar := imin(nvkpiv+nvak, mvaj)
			apply := dispatch.Tsmlq
			if op.Kind == rhtree.TT {
				apply = dispatch.Ttmlq
			}
			if side == kernel.Left {
				mvbkpiv := rowsOf(b, op.Kpiv)
				mvbk := rowsOf(b, k)
				for n := 0; n < b.NT; n++ {
					nvbn := colsOf(b, n)
					apply(c, side, trans,
						mvbkpiv, nvbn, mvbk, nvbn, kvar, ib,
						tileAt(b, op.Kpiv, n), tileAt(b, k, n),
						tileAt(a, j, k), t2At(t, j, k))
				}
			} else {
				nvbkpiv := colsOf(b, op.Kpiv)
				nvbk := colsOf(b, k)
				for m := 0; m < b.MT; m++ {
					mvbm := rowsOf(b, m)
					apply(c, side, trans,
						mvbm, nvbkpiv, mvbm, nvbk, kvar, ib,
						tileAt(b, m, op.Kpiv), tileAt(b, m, k),
						tileAt(a, j, k), t2At(t, j, k))
				}
			}

		default:
			async.Fail(c.Seq, c.Req, async.IllegalKernel)
		}
	}
}
