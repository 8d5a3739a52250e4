package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/rhtree"
)

// Gelqf computes the tile LQ factorization of a using a reduction tree,
// replaying the planner's operation list in order. The planner runs over
// column tiles here, so an operation's J names the panel row and K the
// column tile being eliminated. Reflectors overwrite the corresponding
// tiles of a; triangular factors land in t.
func Gelqf(c dispatch.Ctx, a, t desc.Desc, ops []rhtree.Op) {
	if !c.Seq.OK() {
		return
	}

	ib := t.MB

	for _, op := range ops {
		j := op.J
		k := op.K
		mvaj := rowsOf(a, j)
		nvak := colsOf(a, k)

		switch op.Kind {
		case rhtree.GE:
			dispatch.Gelqt(c, mvaj, nvak, ib,
				tileAt(a, j, k), tileAt(t, j, k))
			for m := j + 1; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				dispatch.Unmlq(c, kernel.Right, kernel.ConjTrans,
					mvam, nvak, imin(mvaj, nvak), ib,
					tileAt(a, j, k), tileAt(t, j, k), tileAt(a, m, k))
			}

		case rhtree.TS:
			nvkpiv := colsOf(a, op.Kpiv)
			dispatch.Tslqt(c, mvaj, nvak, ib,
				tileAt(a, j, op.Kpiv), tileAt(a, j, k), t2At(t, j, k))
			for m := j + 1; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				dispatch.Tsmlq(c, kernel.Right, kernel.ConjTrans,
					mvam, nvkpiv, mvam, nvak, mvaj, ib,
					tileAt(a, m, op.Kpiv), tileAt(a, m, k),
					tileAt(a, j, k), t2At(t, j, k))
			}

		case rhtree.TT:
			nvkpiv := colsOf(a, op.Kpiv)
			dispatch.Ttlqt(c, mvaj, nvak, ib,
				tileAt(a, j, op.Kpiv), tileAt(a, j, k), t2At(t, j, k))
			for m := j + 1; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				dispatch.Ttmlq(c, kernel.Right, kernel.ConjTrans,
					mvam, nvkpiv, mvam, nvak, mvaj, ib,
					tileAt(a, m, op.Kpiv), tileAt(a, m, k),
					tileAt(a, j, k), t2At(t, j, k))
			}
		}
	}
}
