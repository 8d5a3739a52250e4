package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
)

// Syrk computes C = alpha*A*A^T + beta*C (or alpha*A^T*A + beta*C for the
// transposed variants), updating only the uplo triangle of C. Diagonal
// tiles accumulate rank-k updates through the symmetric kernel; each
// off-diagonal tile of the triangle is a plain matrix product. beta is
// applied on the first update of every tile of C.
func Syrk(c dispatch.Ctx, uplo kernel.Uplo, trans kernel.Transpose,
	alpha float64, a desc.Desc, beta float64, cd desc.Desc) {

	if !c.Seq.OK() {
		return
	}

	for n := 0; n < cd.NT; n++ {
		nvcn := colsOf(cd, n)

		inner := a.NT
		if trans != kernel.NoTrans {
			inner = a.MT
		}
		for k := 0; k < inner; k++ {
			zbeta := beta
			if k > 0 {
				zbeta = 1.0
			}
			if trans == kernel.NoTrans {
				nvak := colsOf(a, k)
				dispatch.Syrk(c, uplo, trans, nvcn, nvak,
					alpha, tileAt(a, n, k), zbeta, tileAt(cd, n, n))
			} else {
				mvak := rowsOf(a, k)
				dispatch.Syrk(c, uplo, trans, nvcn, mvak,
					alpha, tileAt(a, k, n), zbeta, tileAt(cd, n, n))
			}
		}

		if uplo == kernel.Lower {
			for m := n + 1; m < cd.MT; m++ {
				mvcm := rowsOf(cd, m)
				for k := 0; k < inner; k++ {
					zbeta := beta
					if k > 0 {
						zbeta = 1.0
					}
					if trans == kernel.NoTrans {
						nvak := colsOf(a, k)
						dispatch.Gemm(c, kernel.NoTrans, kernel.Trans,
							mvcm, nvcn, nvak,
							alpha, tileAt(a, m, k), tileAt(a, n, k),
							zbeta, tileAt(cd, m, n))
					} else {
						mvak := rowsOf(a, k)
						dispatch.Gemm(c, kernel.Trans, kernel.NoTrans,
							mvcm, nvcn, mvak,
							alpha, tileAt(a, k, m), tileAt(a, k, n),
							zbeta, tileAt(cd, m, n))
					}
				}
			}
		} else {
			for m := n + 1; m < cd.MT; m++ {
				mvcm := rowsOf(cd, m)
				for k := 0; k < inner; k++ {
					zbeta := beta
					if k > 0 {
						zbeta = 1.0
					}
					if trans == kernel.NoTrans {
						nvak := colsOf(a, k)
						dispatch.Gemm(c, kernel.NoTrans, kernel.Trans,
							nvcn, mvcm, nvak,
							alpha, tileAt(a, n, k), tileAt(a, m, k),
							zbeta, tileAt(cd, n, m))
					} else {
						mvak := rowsOf(a, k)
						dispatch.Gemm(c, kernel.Trans, kernel.NoTrans,
							nvcn, mvcm, mvak,
							alpha, tileAt(a, k, n), tileAt(a, k, m),
							zbeta, tileAt(cd, n, m))
					}
				}
			}
		}
	}
}
