// Package lapack implements the single-tile kernel contract on gonum's
// blas64 and lapack64 routines.
//
// Tiles are row-major with the leading dimension counting elements between
// row starts. The tile QR merge kernels (Tsqrt/Ttqrt and their appliers)
// are composed from Geqrf/Ormqr on a stacked scratch block: the pivot tile
// is upper triangular, so the reflector components falling inside it are
// structurally zero and the stacked factorization reproduces the merge
// semantics exactly. The LQ merge kernels (Tslqt/Ttlqt and their appliers)
// are the transposed mirror, composed from Gelqf/Ormlq on an adjoined
// scratch block.
package lapack

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"

	"github.com/quarrylab/quarry/internal/kernel"
)

// Backend is the gonum-backed kernel set.
type Backend struct{}

var _ kernel.Backend = Backend{}

// New returns the gonum kernel backend.
func New() Backend { return Backend{} }

func transpose(t kernel.Transpose) blas.Transpose {
	if t == kernel.NoTrans {
		return blas.NoTrans
	}
	// ConjTrans coincides with Trans over float64.
	return blas.Trans
}

func uplo(u kernel.Uplo) blas.Uplo {
	if u == kernel.Upper {
		return blas.Upper
	}
	return blas.Lower
}

func side(s kernel.Side) blas.Side {
	if s == kernel.Right {
		return blas.Right
	}
	return blas.Left
}

func diag(d kernel.Diag) blas.Diag {
	if d == kernel.Unit {
		return blas.Unit
	}
	return blas.NonUnit
}

// Geadd computes b = alpha*op(a) + beta*b.
func (Backend) Geadd(trans kernel.Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int {
	if trans == kernel.NoTrans {
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				b[i*ldb+j] = alpha*a[i*lda+j] + beta*b[i*ldb+j]
			}
		}
		return 0
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			b[i*ldb+j] = alpha*a[j*lda+i] + beta*b[i*ldb+j]
		}
	}
	return 0
}

// Tradd is Geadd restricted to the uplo trapezoid of b.
func (Backend) Tradd(ul kernel.Uplo, trans kernel.Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int {
	for i := 0; i < m; i++ {
		jlo, jhi := 0, n
		if ul == kernel.Lower {
			if i+1 < jhi {
				jhi = i + 1
			}
		} else {
			jlo = i
		}
		for j := jlo; j < jhi; j++ {
			src := a[i*lda+j]
			if trans != kernel.NoTrans {
				src = a[j*lda+i]
			}
			b[i*ldb+j] = alpha*src + beta*b[i*ldb+j]
		}
	}
	return 0
}

// Gemm computes c = alpha*op(a)*op(b) + beta*c.
func (Backend) Gemm(transA, transB kernel.Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) int {
	if m == 0 || n == 0 {
		return 0
	}
	ga := blas64.General{Rows: m, Cols: k, Stride: lda, Data: a}
	if transA != kernel.NoTrans {
		ga.Rows, ga.Cols = k, m
	}
	gb := blas64.General{Rows: k, Cols: n, Stride: ldb, Data: b}
	if transB != kernel.NoTrans {
		gb.Rows, gb.Cols = n, k
	}
	gc := blas64.General{Rows: m, Cols: n, Stride: ldc, Data: c}
	blas64.Gemm(transpose(transA), transpose(transB), alpha, ga, gb, beta, gc)
	return 0
}

// Syrk computes c = alpha*op(a)*op(a)^T + beta*c on the uplo triangle.
func (Backend) Syrk(ul kernel.Uplo, trans kernel.Transpose, n, k int, alpha float64, a []float64, lda int, beta float64, c []float64, ldc int) int {
	if n == 0 {
		return 0
	}
	ga := blas64.General{Rows: n, Cols: k, Stride: lda, Data: a}
	if trans != kernel.NoTrans {
		ga.Rows, ga.Cols = k, n
	}
	sc := blas64.Symmetric{N: n, Stride: ldc, Data: c, Uplo: uplo(ul)}
	blas64.Syrk(transpose(trans), alpha, ga, beta, sc)
	return 0
}

// Trsm solves op(a)*x = alpha*b or x*op(a) = alpha*b in place.
func (Backend) Trsm(sd kernel.Side, ul kernel.Uplo, transA kernel.Transpose, dg kernel.Diag, m, n int, alpha float64, a []float64, lda int, b []float64, ldb int) int {
	if m == 0 || n == 0 {
		return 0
	}
	order := m
	if sd == kernel.Right {
		order = n
	}
	ta := blas64.Triangular{N: order, Stride: lda, Data: a, Uplo: uplo(ul), Diag: diag(dg)}
	gb := blas64.General{Rows: m, Cols: n, Stride: ldb, Data: b}
	blas64.Trsm(side(sd), transpose(transA), alpha, ta, gb)
	return 0
}

// Potrf factorizes the uplo triangle of a in place. gonum reports failure
// without the failing pivot index, so the triangle is snapshotted first and
// refactorized unblocked on failure to recover the one-based pivot.
func (Backend) Potrf(ul kernel.Uplo, n int, a []float64, lda int) int {
	if n == 0 {
		return 0
	}
	snap := make([]float64, n*n)
	copyTriangle(ul, n, a, lda, snap, n)
	if _, ok := lapack64.Potrf(blas64.Symmetric{N: n, Stride: lda, Data: a, Uplo: uplo(ul)}); ok {
		return 0
	}
	copyTriangle(ul, n, snap, n, a, lda)
	return potf2(ul, n, a, lda)
}

func copyTriangle(ul kernel.Uplo, n int, src []float64, lds int, dst []float64, ldd int) {
	for i := 0; i < n; i++ {
		if ul == kernel.Lower {
			copy(dst[i*ldd:i*ldd+i+1], src[i*lds:i*lds+i+1])
		} else {
			copy(dst[i*ldd+i:i*ldd+n], src[i*lds+i:i*lds+n])
		}
	}
}

// potf2 is the unblocked Cholesky factorization, used only to locate the
// failing pivot after the blocked routine reports a failure. Columns before
// the failing one hold the factor, matching the partial state the blocked
// routine leaves behind.
func potf2(ul kernel.Uplo, n int, a []float64, lda int) int {
	for j := 0; j < n; j++ {
		d := a[j*lda+j]
		for k := 0; k < j; k++ {
			if ul == kernel.Lower {
				d -= a[j*lda+k] * a[j*lda+k]
			} else {
				d -= a[k*lda+j] * a[k*lda+j]
			}
		}
		if d <= 0 || math.IsNaN(d) {
			a[j*lda+j] = d
			return j + 1
		}
		d = math.Sqrt(d)
		a[j*lda+j] = d
		for i := j + 1; i < n; i++ {
			if ul == kernel.Lower {
				s := a[i*lda+j]
				for k := 0; k < j; k++ {
					s -= a[i*lda+k] * a[j*lda+k]
				}
				a[i*lda+j] = s / d
			} else {
				s := a[j*lda+i]
				for k := 0; k < j; k++ {
					s -= a[k*lda+i] * a[k*lda+j]
				}
				a[j*lda+i] = s / d
			}
		}
	}
	return 0
}

func geqrf(a blas64.General, tau []float64) {
	work := make([]float64, 1)
	lapack64.Geqrf(a, tau, work, -1)
	lwork := int(work[0])
	if lwork < len(tau) {
		lwork = len(tau)
	}
	work = make([]float64, lwork)
	lapack64.Geqrf(a, tau, work, lwork)
}

func ormqr(sd blas.Side, tr blas.Transpose, a blas64.General, tau []float64, c blas64.General) {
	work := make([]float64, 1)
	lapack64.Ormqr(sd, tr, a, tau, c, work, -1)
	lwork := int(work[0])
	if lwork < 1 {
		lwork = 1
	}
	work = make([]float64, lwork)
	lapack64.Ormqr(sd, tr, a, tau, c, work, lwork)
}

// Geqrt factorizes the m x n tile a; reflector coefficients go to the
// first row of t.
func (Backend) Geqrt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int {
	_ = ib
	k := m
	if n < k {
		k = n
	}
	if k == 0 {
		return 0
	}
	geqrf(blas64.General{Rows: m, Cols: n, Stride: lda, Data: a}, t[:k])
	return 0
}

// Unmqr applies op(Q) of a Geqrt factorization to the m x n tile c.
func (Backend) Unmqr(sd kernel.Side, trans kernel.Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int {
	_ = ib
	if m == 0 || n == 0 || k == 0 {
		return 0
	}
	rows := m
	if sd == kernel.Right {
		rows = n
	}
	ga := blas64.General{Rows: rows, Cols: k, Stride: ldv, Data: v}
	gc := blas64.General{Rows: m, Cols: n, Stride: ldc, Data: c}
	ormqr(side(sd), transpose(trans), ga, t[:k], gc)
	return 0
}

func gelqf(a blas64.General, tau []float64) {
	work := make([]float64, 1)
	lapack64.Gelqf(a, tau, work, -1)
	lwork := int(work[0])
	if lwork < len(tau) {
		lwork = len(tau)
	}
	work = make([]float64, lwork)
	lapack64.Gelqf(a, tau, work, lwork)
}

func ormlq(sd blas.Side, tr blas.Transpose, a blas64.General, tau []float64, c blas64.General) {
	work := make([]float64, 1)
	lapack64.Ormlq(sd, tr, a, tau, c, work, -1)
	lwork := int(work[0])
	if lwork < 1 {
		lwork = 1
	}
	work = make([]float64, lwork)
	lapack64.Ormlq(sd, tr, a, tau, c, work, lwork)
}

// Gelqt factorizes the m x n tile a; reflector coefficients go to the
// first row of t.
func (Backend) Gelqt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int {
	_ = ib
	k := m
	if n < k {
		k = n
	}
	if k == 0 {
		return 0
	}
	gelqf(blas64.General{Rows: m, Cols: n, Stride: lda, Data: a}, t[:k])
	return 0
}

// Unmlq applies op(Q) of a Gelqt factorization to the m x n tile c.
func (Backend) Unmlq(sd kernel.Side, trans kernel.Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int {
	_ = ib
	if m == 0 || n == 0 || k == 0 {
		return 0
	}
	cols := m
	if sd == kernel.Right {
		cols = n
	}
	ga := blas64.General{Rows: k, Cols: cols, Stride: ldv, Data: v}
	gc := blas64.General{Rows: m, Cols: n, Stride: ldc, Data: c}
	ormlq(side(sd), transpose(trans), ga, t[:k], gc)
	return 0
}

// copyTriu copies the upper triangle of src into dst, leaving the rest of
// dst untouched.
func copyTriu(rows, cols int, src []float64, lds int, dst []float64, ldd int) {
	for i := 0; i < rows; i++ {
		for j := i; j < cols; j++ {
			dst[i*ldd+j] = src[i*lds+j]
		}
	}
}

// mergeQR factorizes the stacked pair [triu(a1); a2] in scratch, writing the
// updated R back into a1's upper triangle, the reflectors into a2 and the
// coefficients into the first row of t. When triangular is true a2 is
// consumed and rewritten through its upper triangle only.
func mergeQR(m, n int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int, triangular bool) {
	if n == 0 {
		return
	}
	rows := n + m
	scr := make([]float64, rows*n)
	copyTriu(n, n, a1, lda1, scr, n)
	if triangular {
		copyTriu(m, n, a2, lda2, scr[n*n:], n)
	} else {
		for i := 0; i < m; i++ {
			copy(scr[(n+i)*n:(n+i)*n+n], a2[i*lda2:i*lda2+n])
		}
	}

	geqrf(blas64.General{Rows: rows, Cols: n, Stride: n, Data: scr}, t[:n])

	copyTriu(n, n, scr, n, a1, lda1)
	if triangular {
		copyTriu(m, n, scr[n*n:], n, a2, lda2)
	} else {
		for i := 0; i < m; i++ {
			copy(a2[i*lda2:i*lda2+n], scr[(n+i)*n:(n+i)*n+n])
		}
	}
}

// Tsqrt folds the m x n tile a2 into the triangular tile a1.
func (Backend) Tsqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	_ = ib
	mergeQR(m, n, a1, lda1, a2, lda2, t, ldt, false)
	return 0
}

// Ttqrt merges the triangularized m x n tile a2 into the triangular tile a1.
func (Backend) Ttqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	_ = ib
	mergeQR(m, n, a1, lda1, a2, lda2, t, ldt, true)
	return 0
}

// mergeApply applies the op(Q) of a Tsqrt/Ttqrt factorization to the tile
// pair a1, a2: stacked vertically for Left, adjoined horizontally for Right.
func mergeApply(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int, triangular bool) {
	if k == 0 {
		return
	}
	var rows, cols, vrows int
	if sd == kernel.Left {
		rows, cols, vrows = m1+m2, n1, m1+m2
	} else {
		rows, cols, vrows = m1, n1+n2, n1+n2
	}
	if rows == 0 || cols == 0 {
		return
	}

	// Stacked target.
	scr := make([]float64, rows*cols)
	if sd == kernel.Left {
		for i := 0; i < m1; i++ {
			copy(scr[i*cols:i*cols+n1], a1[i*lda1:i*lda1+n1])
		}
		for i := 0; i < m2; i++ {
			copy(scr[(m1+i)*cols:(m1+i)*cols+n2], a2[i*lda2:i*lda2+n2])
		}
	} else {
		for i := 0; i < m1; i++ {
			copy(scr[i*cols:i*cols+n1], a1[i*lda1:i*lda1+n1])
			copy(scr[i*cols+n1:i*cols+n1+n2], a2[i*lda2:i*lda2+n2])
		}
	}

	// Stacked reflectors: zeros over the pivot block, v below it.
	head := m1
	tail := m2
	if sd == kernel.Right {
		head, tail = n1, n2
	}
	sv := make([]float64, vrows*k)
	if triangular {
		copyTriu(tail, k, v, ldv, sv[head*k:], k)
	} else {
		for i := 0; i < tail; i++ {
			copy(sv[(head+i)*k:(head+i)*k+k], v[i*ldv:i*ldv+k])
		}
	}

	ormqr(side(sd), transpose(trans),
		blas64.General{Rows: vrows, Cols: k, Stride: k, Data: sv},
		t[:k],
		blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: scr})

	if sd == kernel.Left {
		for i := 0; i < m1; i++ {
			copy(a1[i*lda1:i*lda1+n1], scr[i*cols:i*cols+n1])
		}
		for i := 0; i < m2; i++ {
			copy(a2[i*lda2:i*lda2+n2], scr[(m1+i)*cols:(m1+i)*cols+n2])
		}
	} else {
		for i := 0; i < m1; i++ {
			copy(a1[i*lda1:i*lda1+n1], scr[i*cols:i*cols+n1])
			copy(a2[i*lda2:i*lda2+n2], scr[i*cols+n1:i*cols+n1+n2])
		}
	}
}

// Tsmqr applies a Tsqrt factor to the tile pair a1, a2.
func (Backend) Tsmqr(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	_ = ib
	mergeApply(sd, trans, m1, n1, m2, n2, k, a1, lda1, a2, lda2, v, ldv, t, ldt, false)
	return 0
}

// Ttmqr applies a Ttqrt factor to the tile pair a1, a2.
func (Backend) Ttmqr(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	_ = ib
	mergeApply(sd, trans, m1, n1, m2, n2, k, a1, lda1, a2, lda2, v, ldv, t, ldt, true)
	return 0
}

// copyTril copies the lower trapezoid of src into dst, leaving the rest of
// dst untouched.
func copyTril(rows, cols int, src []float64, lds int, dst []float64, ldd int) {
	for i := 0; i < rows; i++ {
		jhi := i + 1
		if jhi > cols {
			jhi = cols
		}
		for j := 0; j < jhi; j++ {
			dst[i*ldd+j] = src[i*lds+j]
		}
	}
}

// mergeLQ factorizes the adjoined pair [tril(a1) | a2] in scratch, writing
// the updated L back into a1's lower triangle, the reflectors into a2 and
// the coefficients into the first row of t. When triangular is true a2 is
// consumed and rewritten through its lower triangle only. The transposed
// mirror of mergeQR: row j of the pivot block is zero right of the diagonal,
// so the adjoined factorization reproduces the merge semantics exactly.
func mergeLQ(m, n int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int, triangular bool) {
	if m == 0 {
		return
	}
	cols := m + n
	scr := make([]float64, m*cols)
	copyTril(m, m, a1, lda1, scr, cols)
	for i := 0; i < m; i++ {
		if triangular {
			jhi := i + 1
			if jhi > n {
				jhi = n
			}
			for j := 0; j < jhi; j++ {
				scr[i*cols+m+j] = a2[i*lda2+j]
			}
		} else {
			copy(scr[i*cols+m:i*cols+m+n], a2[i*lda2:i*lda2+n])
		}
	}

	gelqf(blas64.General{Rows: m, Cols: cols, Stride: cols, Data: scr}, t[:m])

	copyTril(m, m, scr, cols, a1, lda1)
	for i := 0; i < m; i++ {
		if triangular {
			jhi := i + 1
			if jhi > n {
				jhi = n
			}
			for j := 0; j < jhi; j++ {
				a2[i*lda2+j] = scr[i*cols+m+j]
			}
		} else {
			copy(a2[i*lda2:i*lda2+n], scr[i*cols+m:i*cols+m+n])
		}
	}
}

// Tslqt folds the m x n tile a2 into the triangular tile a1 on its left.
func (Backend) Tslqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	_ = ib
	mergeLQ(m, n, a1, lda1, a2, lda2, t, ldt, false)
	return 0
}

// Ttlqt merges the triangularized m x n tile a2 into the triangular tile a1.
func (Backend) Ttlqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	_ = ib
	mergeLQ(m, n, a1, lda1, a2, lda2, t, ldt, true)
	return 0
}

// mergeApplyLQ applies op(Q) of a Tslqt/Ttlqt factorization to the tile
// pair a1, a2: adjoined horizontally for Right, stacked vertically for Left.
func mergeApplyLQ(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int, triangular bool) {
	if k == 0 {
		return
	}
	var rows, cols, vcols int
	if sd == kernel.Left {
		rows, cols, vcols = m1+m2, n1, m1+m2
	} else {
		rows, cols, vcols = m1, n1+n2, n1+n2
	}
	if rows == 0 || cols == 0 {
		return
	}

	// Adjoined target.
	scr := make([]float64, rows*cols)
	if sd == kernel.Left {
		for i := 0; i < m1; i++ {
			copy(scr[i*cols:i*cols+n1], a1[i*lda1:i*lda1+n1])
		}
		for i := 0; i < m2; i++ {
			copy(scr[(m1+i)*cols:(m1+i)*cols+n2], a2[i*lda2:i*lda2+n2])
		}
	} else {
		for i := 0; i < m1; i++ {
			copy(scr[i*cols:i*cols+n1], a1[i*lda1:i*lda1+n1])
			copy(scr[i*cols+n1:i*cols+n1+n2], a2[i*lda2:i*lda2+n2])
		}
	}

	// Adjoined reflector rows: zeros over the pivot block, v after it.
	head := m1
	tail := m2
	if sd == kernel.Right {
		head, tail = n1, n2
	}
	sv := make([]float64, k*vcols)
	for i := 0; i < k; i++ {
		if triangular {
			jhi := i + 1
			if jhi > tail {
				jhi = tail
			}
			for j := 0; j < jhi; j++ {
				sv[i*vcols+head+j] = v[i*ldv+j]
			}
		} else {
			copy(sv[i*vcols+head:i*vcols+head+tail], v[i*ldv:i*ldv+tail])
		}
	}

	ormlq(side(sd), transpose(trans),
		blas64.General{Rows: k, Cols: vcols, Stride: vcols, Data: sv},
		t[:k],
		blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: scr})

	if sd == kernel.Left {
		for i := 0; i < m1; i++ {
			copy(a1[i*lda1:i*lda1+n1], scr[i*cols:i*cols+n1])
		}
		for i := 0; i < m2; i++ {
			copy(a2[i*lda2:i*lda2+n2], scr[(m1+i)*cols:(m1+i)*cols+n2])
		}
	} else {
		for i := 0; i < m1; i++ {
			copy(a1[i*lda1:i*lda1+n1], scr[i*cols:i*cols+n1])
			copy(a2[i*lda2:i*lda2+n2], scr[i*cols+n1:i*cols+n1+n2])
		}
	}
}

// Tsmlq applies a Tslqt factor to the tile pair a1, a2.
func (Backend) Tsmlq(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	_ = ib
	mergeApplyLQ(sd, trans, m1, n1, m2, n2, k, a1, lda1, a2, lda2, v, ldv, t, ldt, false)
	return 0
}

// Ttmlq applies a Ttlqt factor to the tile pair a1, a2.
func (Backend) Ttmlq(sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	_ = ib
	mergeApplyLQ(sd, trans, m1, n1, m2, n2, k, a1, lda1, a2, lda2, v, ldv, t, ldt, true)
	return 0
}

// Amax writes per-column or per-row absolute maxima of a into values.
func (Backend) Amax(colrow kernel.ColRow, m, n int, a []float64, lda int, values []float64) int {
	abs := func(x float64) float64 {
		if x < 0 {
			return -x
		}
		return x
	}
	if colrow == kernel.Columnwise {
		for j := 0; j < n; j++ {
			max := 0.0
			for i := 0; i < m; i++ {
				if v := abs(a[i*lda+j]); v > max {
					max = v
				}
			}
			values[j] = max
		}
		return 0
	}
	for i := 0; i < m; i++ {
		max := 0.0
		for j := 0; j < n; j++ {
			if v := abs(a[i*lda+j]); v > max {
				max = v
			}
		}
		values[i] = max
	}
	return 0
}

// Copy copies an m x n block between row-major buffers.
func (Backend) Copy(m, n int, a []float64, lda int, b []float64, ldb int) int {
	for i := 0; i < m; i++ {
		copy(b[i*ldb:i*ldb+n], a[i*lda:i*lda+n])
	}
	return 0
}
