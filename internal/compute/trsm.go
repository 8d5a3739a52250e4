package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
)

// Trsm solves op(A)*X = alpha*B or X*op(A) = alpha*B in place on B, with A
// triangular. Each of the eight side x uplo x trans branches walks the
// tiles of B in the order that keeps the triangular solve on a pivot tile
// ahead of the updates it feeds. alpha is applied exactly once per tile of
// B, on the first pass that touches it.
func Trsm(c dispatch.Ctx, side kernel.Side, uplo kernel.Uplo, transA kernel.Transpose, diag kernel.Diag,
	alpha float64, a desc.Desc, b desc.Desc) {

	if !c.Seq.OK() {
		return
	}

	if side == kernel.Left {
		if uplo == kernel.Lower {
			if transA == kernel.NoTrans {
				// Forward substitution.
				for k := 0; k < b.MT; k++ {
					mvbk := rowsOf(b, k)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for n := 0; n < b.NT; n++ {
						nvbn := colsOf(b, n)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbk, nvbn,
							lalpha, tileAt(a, k, k), tileAt(b, k, n))
					}
					for m := k + 1; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						for n := 0; n < b.NT; n++ {
							nvbn := colsOf(b, n)
							dispatch.Gemm(c, kernel.NoTrans, kernel.NoTrans,
								mvbm, nvbn, mvbk,
								-1.0, tileAt(a, m, k), tileAt(b, k, n),
								lalpha, tileAt(b, m, n))
						}
					}
				}
			} else {
				// Backward substitution.
				for k := 0; k < b.MT; k++ {
					mm := b.MT - 1 - k
					mvbm := rowsOf(b, mm)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for n := 0; n < b.NT; n++ {
						nvbn := colsOf(b, n)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbn,
							lalpha, tileAt(a, mm, mm), tileAt(b, mm, n))
					}
					for i := k + 1; i < b.MT; i++ {
						kk := b.MT - 1 - i
						mvbkk := rowsOf(b, kk)
						for n := 0; n < b.NT; n++ {
							nvbn := colsOf(b, n)
							dispatch.Gemm(c, transA, kernel.NoTrans,
								mvbkk, nvbn, mvbm,
								-1.0, tileAt(a, mm, kk), tileAt(b, mm, n),
								lalpha, tileAt(b, kk, n))
						}
					}
				}
			}
		} else {
			if transA == kernel.NoTrans {
				// Backward substitution.
				for k := 0; k < b.MT; k++ {
					mm := b.MT - 1 - k
					mvbm := rowsOf(b, mm)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for n := 0; n < b.NT; n++ {
						nvbn := colsOf(b, n)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbn,
							lalpha, tileAt(a, mm, mm), tileAt(b, mm, n))
					}
					for i := k + 1; i < b.MT; i++ {
						kk := b.MT - 1 - i
						mvbkk := rowsOf(b, kk)
						for n := 0; n < b.NT; n++ {
							nvbn := colsOf(b, n)
							dispatch.Gemm(c, kernel.NoTrans, kernel.NoTrans,
								mvbkk, nvbn, mvbm,
								-1.0, tileAt(a, kk, mm), tileAt(b, mm, n),
								lalpha, tileAt(b, kk, n))
						}
					}
				}
			} else {
				// Forward substitution.
				for k := 0; k < b.MT; k++ {
					mvbk := rowsOf(b, k)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for n := 0; n < b.NT; n++ {
						nvbn := colsOf(b, n)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbk, nvbn,
							lalpha, tileAt(a, k, k), tileAt(b, k, n))
					}
					for m := k + 1; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						for n := 0; n < b.NT; n++ {
							nvbn := colsOf(b, n)
							dispatch.Gemm(c, transA, kernel.NoTrans,
								mvbm, nvbn, mvbk,
								-1.0, tileAt(a, k, m), tileAt(b, k, n),
								lalpha, tileAt(b, m, n))
						}
					}
				}
			}
		}
	} else {
		if uplo == kernel.Lower {
			if transA == kernel.NoTrans {
				// Right-side lower, no transpose: columns right to left.
				for k := 0; k < b.NT; k++ {
					jj := b.NT - 1 - k
					nvbj := colsOf(b, jj)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for m := 0; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbj,
							lalpha, tileAt(a, jj, jj), tileAt(b, m, jj))
					}
					for i := k + 1; i < b.NT; i++ {
						kk := b.NT - 1 - i
						nvbkk := colsOf(b, kk)
						for m := 0; m < b.MT; m++ {
							mvbm := rowsOf(b, m)
							dispatch.Gemm(c, kernel.NoTrans, kernel.NoTrans,
								mvbm, nvbkk, nvbj,
								-1.0, tileAt(b, m, jj), tileAt(a, jj, kk),
								lalpha, tileAt(b, m, kk))
						}
					}
				}
			} else {
				// Right-side lower, transposed: columns left to right.
				for k := 0; k < b.NT; k++ {
					nvbk := colsOf(b, k)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for m := 0; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbk,
							lalpha, tileAt(a, k, k), tileAt(b, m, k))
					}
					for j := k + 1; j < b.NT; j++ {
						nvbj := colsOf(b, j)
						for m := 0; m < b.MT; m++ {
							mvbm := rowsOf(b, m)
							dispatch.Gemm(c, kernel.NoTrans, transA,
								mvbm, nvbj, nvbk,
								-1.0, tileAt(b, m, k), tileAt(a, j, k),
								lalpha, tileAt(b, m, j))
						}
					}
				}
			}
		} else {
			if transA == kernel.NoTrans {
				// Right-side upper, no transpose: columns left to right.
				for k := 0; k < b.NT; k++ {
					nvbk := colsOf(b, k)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for m := 0; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbk,
							lalpha, tileAt(a, k, k), tileAt(b, m, k))
					}
					for j := k + 1; j < b.NT; j++ {
						nvbj := colsOf(b, j)
						for m := 0; m < b.MT; m++ {
							mvbm := rowsOf(b, m)
							dispatch.Gemm(c, kernel.NoTrans, kernel.NoTrans,
								mvbm, nvbj, nvbk,
								-1.0, tileAt(b, m, k), tileAt(a, k, j),
								lalpha, tileAt(b, m, j))
						}
					}
				}
			} else {
				// Right-side upper, transposed: columns right to left.
				for k := 0; k < b.NT; k++ {
					jj := b.NT - 1 - k
					nvbj := colsOf(b, jj)
					lalpha := alpha
					if k > 0 {
						lalpha = 1.0
					}
					for m := 0; m < b.MT; m++ {
						mvbm := rowsOf(b, m)
						dispatch.Trsm(c, side, uplo, transA, diag,
							mvbm, nvbj,
							lalpha, tileAt(a, jj, jj), tileAt(b, m, jj))
					}
					for i := k + 1; i < b.NT; i++ {
						kk := b.NT - 1 - i
						nvbkk := colsOf(b, kk)
						for m := 0; m < b.MT; m++ {
							mvbm := rowsOf(b, m)
							dispatch.Gemm(c, kernel.NoTrans, transA,
								mvbm, nvbkk, nvbj,
								-1.0, tileAt(b, m, jj), tileAt(a, kk, jj),
								lalpha, tileAt(b, m, kk))
						}
					}
				}
			}
		}
	}
}
