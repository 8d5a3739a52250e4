// Package kernel defines the single-tile numeric kernel contracts consumed
// by the dispatch layer and the parallel drivers.
//
// Kernels operate on row-major tiles addressed by slice and stride. They
// assume validated arguments: drivers fail fast on malformed descriptors
// before any kernel runs. A kernel returns 0 on success or a positive local
// info value on numeric failure (for example a non-positive-definite pivot);
// the dispatch layer folds that into the sequence status as a base offset
// plus the local value.
package kernel

// Uplo selects the stored triangle of a symmetric or triangular operand.
type Uplo int

// Triangle selectors.
const (
	Lower Uplo = iota
	Upper
)

// Transpose selects the operation applied to an operand.
type Transpose int

// Transposition modes. ConjTrans coincides with Trans for real elements and
// is kept so drivers can mirror the complex-arithmetic call sites.
const (
	NoTrans Transpose = iota
	Trans
	ConjTrans
)

// Side selects whether a factor is applied from the left or the right.
type Side int

// Application sides.
const (
	Left Side = iota
	Right
)

// Diag tells a triangular solve whether the diagonal is unit.
type Diag int

// Diagonal modes.
const (
	NonUnit Diag = iota
	Unit
)

// ColRow selects the reduction direction of vector-producing kernels.
type ColRow int

// Reduction directions.
const (
	Columnwise ColRow = iota
	Rowwise
)

// Backend is the set of single-tile kernels a scheduler target provides.
//
// Implementations:
//   - lapack.Backend: gonum blas64/lapack64 kernels (the default)
//   - Recorder: call-recording no-op backend for driver tests
type Backend interface {
	// Geadd computes b = alpha*op(a) + beta*b on an m x n target.
	Geadd(trans Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int
	// Tradd is Geadd restricted to the uplo triangle of the target.
	Tradd(uplo Uplo, trans Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int
	// Gemm computes c = alpha*op(a)*op(b) + beta*c with c of m x n and
	// the contracted dimension k.
	Gemm(transA, transB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) int
	// Syrk computes the rank-k update c = alpha*op(a)*op(a)^T + beta*c on
	// the uplo triangle of the n x n tile c.
	Syrk(uplo Uplo, trans Transpose, n, k int, alpha float64, a []float64, lda int, beta float64, c []float64, ldc int) int
	// Trsm solves op(a)*x = alpha*b or x*op(a) = alpha*b in place in b.
	Trsm(side Side, uplo Uplo, transA Transpose, diag Diag, m, n int, alpha float64, a []float64, lda int, b []float64, ldb int) int
	// Potrf factorizes the uplo triangle of the n x n tile a in place.
	// Returns the one-based index of the first non-positive pivot on a
	// non-positive-definite tile.
	Potrf(uplo Uplo, n int, a []float64, lda int) int
	// Geqrt computes the QR factorization of the m x n tile a, storing R
	// and the Householder vectors in a and the reflector coefficients in
	// the ib x n tile t.
	Geqrt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int
	// Unmqr applies Q (or Q^T) defined by v and t to the m x n tile c.
	// k is the reflector count.
	Unmqr(side Side, trans Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int
	// Gelqt computes the LQ factorization of the m x n tile a, storing L
	// and the Householder vectors in a and the reflector coefficients in
	// the ib x n tile t.
	Gelqt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int
	// Unmlq applies Q (or Q^T) of a Gelqt factorization to the m x n
	// tile c. k is the reflector count.
	Unmlq(side Side, trans Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int
	// Tsqrt folds the m x n tile a2 into the triangular n x n tile a1,
	// leaving the updated R in a1, the reflectors in a2 and their
	// coefficients in t.
	Tsqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int
	// Tslqt folds the m x n tile a2, adjoined to the right of the
	// triangular m x m tile a1, into a1: the updated L lands in a1, the
	// reflectors in a2 and their coefficients in t.
	Tslqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int
	// Tsmlq applies the factor produced by Tslqt to the adjoined (side ==
	// Right) or stacked (side == Left) tile pair a1, a2.
	Tsmlq(side Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int
	// Ttlqt merges two triangularized tiles side by side; the reflectors
	// land in the lower triangle of a2.
	Ttlqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int
	// Ttmlq applies the factor produced by Ttlqt to the tile pair a1, a2.
	Ttmlq(side Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int
	// Tsmqr applies the factor produced by Tsqrt to the stacked (side ==
	// Left) or adjoined (side == Right) tile pair a1, a2.
	Tsmqr(side Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int
	// Ttqrt merges two triangularized tiles; the reflectors land in the
	// upper triangle of a2.
	Ttqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int
	// Ttmqr applies the factor produced by Ttqrt to the tile pair a1, a2.
	Ttmqr(side Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int
	// Amax writes per-column (or per-row) absolute maxima of the m x n
	// tile a into values.
	Amax(colrow ColRow, m, n int, a []float64, lda int, values []float64) int
	// Copy copies an m x n block between row-major buffers.
	Copy(m, n int, a []float64, lda int, b []float64, ldb int) int
}
