package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
)

// Potrf computes the Cholesky factorization of the symmetric positive
// definite matrix held in a, right-looking over tile columns. The base
// offset passed to each diagonal factorization converts a per-tile pivot
// index into a global one.
func Potrf(c dispatch.Ctx, uplo kernel.Uplo, a desc.Desc) {
	if !c.Seq.OK() {
		return
	}

	if uplo == kernel.Lower {
		for k := 0; k < a.MT; k++ {
			mvak := rowsOf(a, k)
			dispatch.Potrf(c, kernel.Lower, mvak, tileAt(a, k, k), k*a.NB)

			for m := k + 1; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				dispatch.Trsm(c, kernel.Right, kernel.Lower,
					kernel.ConjTrans, kernel.NonUnit,
					mvam, mvak,
					1.0, tileAt(a, k, k), tileAt(a, m, k))
			}
			for m := k + 1; m < a.MT; m++ {
				mvam := rowsOf(a, m)
				dispatch.Syrk(c, kernel.Lower, kernel.NoTrans,
					mvam, mvak,
					-1.0, tileAt(a, m, k), 1.0, tileAt(a, m, m))

				for n := k + 1; n < m; n++ {
					mvan := rowsOf(a, n)
					dispatch.Gemm(c, kernel.NoTrans, kernel.ConjTrans,
						mvam, mvan, mvak,
						-1.0, tileAt(a, m, k), tileAt(a, n, k),
						1.0, tileAt(a, m, n))
				}
			}
		}
	} else {
		for k := 0; k < a.NT; k++ {
			nvak := colsOf(a, k)
			dispatch.Potrf(c, kernel.Upper, nvak, tileAt(a, k, k), k*a.NB)

			for n := k + 1; n < a.NT; n++ {
				nvan := colsOf(a, n)
				dispatch.Trsm(c, kernel.Left, kernel.Upper,
					kernel.ConjTrans, kernel.NonUnit,
					nvak, nvan,
					1.0, tileAt(a, k, k), tileAt(a, k, n))
			}
			for n := k + 1; n < a.NT; n++ {
				nvan := colsOf(a, n)
				dispatch.Syrk(c, kernel.Upper, kernel.ConjTrans,
					nvan, nvak,
					-1.0, tileAt(a, k, n), 1.0, tileAt(a, n, n))

				for m := k + 1; m < n; m++ {
					nvam := colsOf(a, m)
					dispatch.Gemm(c, kernel.ConjTrans, kernel.NoTrans,
						nvam, nvan, nvak,
						-1.0, tileAt(a, k, m), tileAt(a, k, n),
						1.0, tileAt(a, m, n))
				}
			}
		}
	}
}
