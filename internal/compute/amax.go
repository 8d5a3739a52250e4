package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/sched"
)

// Amax computes per-column (Columnwise) or per-row (Rowwise) absolute
// maxima of a into values. Each tile reduces into its own stripe of work
// so the per-tile tasks stay independent; a final reduction folds the
// stripes together. work must hold MT*GN entries for Columnwise and
// NT*GM for Rowwise.
func Amax(c dispatch.Ctx, colrow kernel.ColRow, a desc.Desc, work, values []float64) {
	if !c.Seq.OK() {
		return
	}

	var reads []sched.Region

	if colrow == kernel.Columnwise {
		for m := 0; m < a.MT; m++ {
			mvam := rowsOf(a, m)
			for n := 0; n < a.NT; n++ {
				nvan := colsOf(a, n)
				wreg := sched.Region{Store: &work[0], Off: m*a.NT + n}
				reads = append(reads, wreg)
				dispatch.Amax(c, colrow, mvam, nvan, tileAt(a, m, n),
					work[m*a.GN+a.ColStart(n):], wreg)
			}
		}
		dispatch.MaxReduce(c, kernel.Columnwise, a.MT, a.GN, work, a.GN,
			values, reads, sched.Region{Store: &values[0]})
	} else {
		for n := 0; n < a.NT; n++ {
			nvan := colsOf(a, n)
			for m := 0; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				wreg := sched.Region{Store: &work[0], Off: n*a.MT + m}
				reads = append(reads, wreg)
				dispatch.Amax(c, colrow, mvam, nvan, tileAt(a, m, n),
					work[n*a.GM+a.RowStart(m):], wreg)
			}
		}
		dispatch.MaxReduce(c, kernel.Columnwise, a.NT, a.GM, work, a.GM,
			values, reads, sched.Region{Store: &values[0]})
	}
}
