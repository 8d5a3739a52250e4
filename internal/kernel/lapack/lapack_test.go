package lapack

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/kernel"
)

func randMat(rng *rand.Rand, m, n int) []float64 {
	a := make([]float64, m*n)
	for i := range a {
		a[i] = rng.NormFloat64()
	}
	return a
}

// spd returns a diagonally dominant symmetric matrix.
func spd(rng *rand.Rand, n int) []float64 {
	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := rng.Float64()
			a[i*n+j] = v
			a[j*n+i] = v
		}
		a[i*n+i] += float64(n)
	}
	return a
}

// naiveGemm computes c = alpha*op(a)*op(b) + beta*c with a, b, c row-major
// and dense.
func naiveGemm(transA, transB kernel.Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	at := func(i, j int) float64 {
		if transA == kernel.NoTrans {
			return a[i*lda+j]
		}
		return a[j*lda+i]
	}
	bt := func(i, j int) float64 {
		if transB == kernel.NoTrans {
			return b[i*ldb+j]
		}
		return b[j*ldb+i]
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			s := 0.0
			for p := 0; p < k; p++ {
				s += at(i, p) * bt(p, j)
			}
			c[i*ldc+j] = alpha*s + beta*c[i*ldc+j]
		}
	}
}

func assertClose(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.Abs(want[i]-got[i]) > tol {
			t.Fatalf("element %d: want %g, got %g", i, want[i], got[i])
		}
	}
}

func TestGeadd(t *testing.T) {
	be := New()
	a := []float64{1, 2, 3, 4, 5, 6}       // 2x3
	b := []float64{10, 20, 30, 40, 50, 60} // 2x3

	info := be.Geadd(kernel.NoTrans, 2, 3, 2, a, 3, 0.5, b, 3)
	require.Zero(t, info)
	assertClose(t, []float64{7, 14, 21, 28, 35, 42}, b, 0)

	// Transposed source: op(A) is 3x2 read from a 2x3 buffer.
	c := make([]float64, 6)
	info = be.Geadd(kernel.Trans, 3, 2, 1, a, 3, 0, c, 2)
	require.Zero(t, info)
	assertClose(t, []float64{1, 4, 2, 5, 3, 6}, c, 0)
}

func TestTraddTouchesOnlyTriangle(t *testing.T) {
	be := New()
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9} // 3x3
	b := make([]float64, 9)
	for i := range b {
		b[i] = 100
	}

	info := be.Tradd(kernel.Lower, kernel.NoTrans, 3, 3, 1, a, 3, 0, b, 3)
	require.Zero(t, info)
	assertClose(t, []float64{1, 100, 100, 4, 5, 100, 7, 8, 9}, b, 0)

	for i := range b {
		b[i] = 100
	}
	info = be.Tradd(kernel.Upper, kernel.ConjTrans, 3, 3, 1, a, 3, 0, b, 3)
	require.Zero(t, info)
	assertClose(t, []float64{1, 4, 7, 100, 5, 8, 100, 100, 9}, b, 0)
}

func TestGemm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	be := New()
	const m, n, k = 5, 4, 3

	for _, transA := range []kernel.Transpose{kernel.NoTrans, kernel.ConjTrans} {
		for _, transB := range []kernel.Transpose{kernel.NoTrans, kernel.ConjTrans} {
			am, an := m, k
			if transA != kernel.NoTrans {
				am, an = k, m
			}
			bm, bn := k, n
			if transB != kernel.NoTrans {
				bm, bn = n, k
			}
			a := randMat(rng, am, an)
			b := randMat(rng, bm, bn)
			c := randMat(rng, m, n)
			want := append([]float64(nil), c...)

			info := be.Gemm(transA, transB, m, n, k, 1.5, a, an, b, bn, 0.25, c, n)
			require.Zero(t, info)
			naiveGemm(transA, transB, m, n, k, 1.5, a, an, b, bn, 0.25, want, n)
			assertClose(t, want, c, 1e-12)
		}
	}
}

func TestSyrk(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	be := New()
	const n, k = 5, 3

	for _, ul := range []kernel.Uplo{kernel.Lower, kernel.Upper} {
		for _, trans := range []kernel.Transpose{kernel.NoTrans, kernel.ConjTrans} {
			am, an := n, k
			if trans != kernel.NoTrans {
				am, an = k, n
			}
			a := randMat(rng, am, an)
			c := randMat(rng, n, n)
			want := append([]float64(nil), c...)

			info := be.Syrk(ul, trans, n, k, 2, a, an, 0.5, c, n)
			require.Zero(t, info)

			full := append([]float64(nil), want...)
			naiveGemm(trans, flip(trans), n, n, k, 2, a, an, a, an, 0.5, full, n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					inTri := (ul == kernel.Lower && j <= i) || (ul == kernel.Upper && j >= i)
					if inTri {
						want[i*n+j] = full[i*n+j]
					}
				}
			}
			assertClose(t, want, c, 1e-12)
		}
	}
}

func flip(tr kernel.Transpose) kernel.Transpose {
	if tr == kernel.NoTrans {
		return kernel.ConjTrans
	}
	return kernel.NoTrans
}

func TestTrsm(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	be := New()
	const m, n = 4, 3

	for _, sd := range []kernel.Side{kernel.Left, kernel.Right} {
		for _, ul := range []kernel.Uplo{kernel.Lower, kernel.Upper} {
			for _, trans := range []kernel.Transpose{kernel.NoTrans, kernel.ConjTrans} {
				order := m
				if sd == kernel.Right {
					order = n
				}
				// Well conditioned triangle.
				a := randMat(rng, order, order)
				for i := 0; i < order; i++ {
					a[i*order+i] = 4 + rng.Float64()
				}
				b := randMat(rng, m, n)
				orig := append([]float64(nil), b...)

				info := be.Trsm(sd, ul, trans, kernel.NonUnit, m, n, 2, a, order, b, n)
				require.Zero(t, info)

				// Multiply back: op(tri(A)) * X or X * op(tri(A)).
				tri := make([]float64, order*order)
				for i := 0; i < order; i++ {
					for j := 0; j < order; j++ {
						if (ul == kernel.Lower && j <= i) || (ul == kernel.Upper && j >= i) {
							tri[i*order+j] = a[i*order+j]
						}
					}
				}
				got := make([]float64, m*n)
				if sd == kernel.Left {
					naiveGemm(trans, kernel.NoTrans, m, n, m, 1, tri, order, b, n, 0, got, n)
				} else {
					naiveGemm(kernel.NoTrans, trans, m, n, n, 1, b, n, tri, order, 0, got, n)
				}
				for i := range orig {
					orig[i] *= 2
				}
				assertClose(t, orig, got, 1e-10)
			}
		}
	}
}

func TestPotrfReconstructs(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	be := New()
	const n = 6

	a := spd(rng, n)
	orig := append([]float64(nil), a...)

	info := be.Potrf(kernel.Lower, n, a, n)
	require.Zero(t, info)

	l := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			l[i*n+j] = a[i*n+j]
		}
	}
	got := make([]float64, n*n)
	naiveGemm(kernel.NoTrans, kernel.ConjTrans, n, n, n, 1, l, n, l, n, 0, got, n)
	assertClose(t, orig, got, 1e-10)
}

func TestPotrfUpper(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	be := New()
	const n = 5

	a := spd(rng, n)
	orig := append([]float64(nil), a...)

	info := be.Potrf(kernel.Upper, n, a, n)
	require.Zero(t, info)

	u := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			u[i*n+j] = a[i*n+j]
		}
	}
	got := make([]float64, n*n)
	naiveGemm(kernel.ConjTrans, kernel.NoTrans, n, n, n, 1, u, n, u, n, 0, got, n)
	assertClose(t, orig, got, 1e-10)
}

func TestPotrfNotPositiveDefinite(t *testing.T) {
	be := New()
	a := []float64{
		1, 0, 0,
		0, -1, 0,
		0, 0, 1,
	}
	info := be.Potrf(kernel.Lower, 3, a, 3)
	assert.Equal(t, 2, info)
}

func TestPotrfReportsFailingPivot(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	const n = 5

	for _, ul := range []kernel.Uplo{kernel.Lower, kernel.Upper} {
		be := New()
		a := spd(rng, n)
		// Break the fourth pivot: a large negative diagonal entry makes the
		// Schur complement there non-positive regardless of earlier columns.
		a[3*n+3] = -float64(10 * n)

		info := be.Potrf(ul, n, a, n)
		assert.Equal(t, 4, info)
	}
}

func TestGeqrtUnmqr(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	be := New()
	const m, n, ib = 6, 4, 2

	a := randMat(rng, m, n)
	orig := append([]float64(nil), a...)
	tmat := make([]float64, ib*n)

	require.Zero(t, be.Geqrt(m, n, ib, a, n, tmat, n))

	// Q^T * A = [R; 0].
	c := append([]float64(nil), orig...)
	require.Zero(t, be.Unmqr(kernel.Left, kernel.ConjTrans, m, n, n, ib, a, n, tmat, n, c, n))
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i <= j {
				want = a[i*n+j]
			}
			assert.InDelta(t, want, c[i*n+j], 1e-10, "R mismatch at (%d,%d)", i, j)
		}
	}

	// Applying Q undoes it.
	require.Zero(t, be.Unmqr(kernel.Left, kernel.NoTrans, m, n, n, ib, a, n, tmat, n, c, n))
	assertClose(t, orig, c, 1e-10)
}

func TestUnmqrRightRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	be := New()
	const m, n, ib = 6, 4, 2

	v := randMat(rng, m, n)
	tmat := make([]float64, ib*n)
	require.Zero(t, be.Geqrt(m, n, ib, v, n, tmat, n))

	c := randMat(rng, 3, m)
	orig := append([]float64(nil), c...)

	require.Zero(t, be.Unmqr(kernel.Right, kernel.NoTrans, 3, m, n, ib, v, n, tmat, n, c, m))
	require.Zero(t, be.Unmqr(kernel.Right, kernel.ConjTrans, 3, m, n, ib, v, n, tmat, n, c, m))
	assertClose(t, orig, c, 1e-10)
}

func TestTsqrtTsmqr(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	be := New()
	const n, m2, ib = 4, 3, 2

	// Triangular pivot from a plain factorization.
	a1 := randMat(rng, n, n)
	t1 := make([]float64, ib*n)
	require.Zero(t, be.Geqrt(n, n, ib, a1, n, t1, n))
	r1 := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r1[i*n+j] = a1[i*n+j]
		}
	}

	a2 := randMat(rng, m2, n)
	c1 := append([]float64(nil), r1...)
	c2 := append([]float64(nil), a2...)

	fa1 := append([]float64(nil), r1...)
	fa2 := append([]float64(nil), a2...)
	t2 := make([]float64, ib*n)
	require.Zero(t, be.Tsqrt(m2, n, ib, fa1, n, fa2, n, t2, n))

	// Q^T [R1; A2] = [R; 0].
	require.Zero(t, be.Tsmqr(kernel.Left, kernel.ConjTrans, n, n, m2, n, n, ib,
		c1, n, c2, n, fa2, n, t2, n))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i <= j {
				want = fa1[i*n+j]
			}
			assert.InDelta(t, want, c1[i*n+j], 1e-10, "(%d,%d)", i, j)
		}
	}
	for i := range c2 {
		assert.InDelta(t, 0, c2[i], 1e-10)
	}
}

func TestTtqrtTtmqr(t *testing.T) {
	be := New()
	const n, ib = 4, 2

	triR := func(seed int64) []float64 {
		r := rand.New(rand.NewSource(seed))
		a := randMat(r, n, n)
		tm := make([]float64, ib*n)
		require.Zero(t, be.Geqrt(n, n, ib, a, n, tm, n))
		out := make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				out[i*n+j] = a[i*n+j]
			}
		}
		return out
	}

	r1 := triR(10)
	r2 := triR(11)
	c1 := append([]float64(nil), r1...)
	c2 := append([]float64(nil), r2...)

	fa1 := append([]float64(nil), r1...)
	fa2 := append([]float64(nil), r2...)
	t2 := make([]float64, ib*n)
	require.Zero(t, be.Ttqrt(n, n, ib, fa1, n, fa2, n, t2, n))

	require.Zero(t, be.Ttmqr(kernel.Left, kernel.ConjTrans, n, n, n, n, n, ib,
		c1, n, c2, n, fa2, n, t2, n))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i <= j {
				want = fa1[i*n+j]
			}
			assert.InDelta(t, want, c1[i*n+j], 1e-10, "(%d,%d)", i, j)
		}
	}
	for i := range c2 {
		assert.InDelta(t, 0, c2[i], 1e-10)
	}
}

func TestGelqtUnmlq(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	be := New()
	const m, n, ib = 4, 6, 2

	a := randMat(rng, m, n)
	orig := append([]float64(nil), a...)
	tmat := make([]float64, ib*m)

	require.Zero(t, be.Gelqt(m, n, ib, a, n, tmat, m))

	// A * Q^H = [L | 0].
	c := append([]float64(nil), orig...)
	require.Zero(t, be.Unmlq(kernel.Right, kernel.ConjTrans, m, n, m, ib, a, n, tmat, m, c, n))
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if j <= i {
				want = a[i*n+j]
			}
			assert.InDelta(t, want, c[i*n+j], 1e-10, "L mismatch at (%d,%d)", i, j)
		}
	}

	// Applying Q undoes it.
	require.Zero(t, be.Unmlq(kernel.Right, kernel.NoTrans, m, n, m, ib, a, n, tmat, m, c, n))
	assertClose(t, orig, c, 1e-10)
}

func TestUnmlqLeftRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(27))
	be := New()
	const m, n, ib = 4, 6, 2

	v := randMat(rng, m, n)
	tmat := make([]float64, ib*m)
	require.Zero(t, be.Gelqt(m, n, ib, v, n, tmat, m))

	c := randMat(rng, n, 3)
	orig := append([]float64(nil), c...)

	require.Zero(t, be.Unmlq(kernel.Left, kernel.NoTrans, n, 3, m, ib, v, n, tmat, m, c, 3))
	require.Zero(t, be.Unmlq(kernel.Left, kernel.ConjTrans, n, 3, m, ib, v, n, tmat, m, c, 3))
	assertClose(t, orig, c, 1e-10)
}

func TestTslqtTsmlq(t *testing.T) {
	rng := rand.New(rand.NewSource(28))
	be := New()
	const m, n2, ib = 4, 3, 2

	// Triangular pivot from a plain factorization.
	a1 := randMat(rng, m, m)
	t1 := make([]float64, ib*m)
	require.Zero(t, be.Gelqt(m, m, ib, a1, m, t1, m))
	l1 := make([]float64, m*m)
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			l1[i*m+j] = a1[i*m+j]
		}
	}

	a2 := randMat(rng, m, n2)
	c1 := append([]float64(nil), l1...)
	c2 := append([]float64(nil), a2...)

	fa1 := append([]float64(nil), l1...)
	fa2 := append([]float64(nil), a2...)
	t2 := make([]float64, ib*m)
	require.Zero(t, be.Tslqt(m, n2, ib, fa1, m, fa2, n2, t2, m))

	// [L1 | A2] * Q^H = [L | 0].
	require.Zero(t, be.Tsmlq(kernel.Right, kernel.ConjTrans, m, m, m, n2, m, ib,
		c1, m, c2, n2, fa2, n2, t2, m))
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			want := 0.0
			if j <= i {
				want = fa1[i*m+j]
			}
			assert.InDelta(t, want, c1[i*m+j], 1e-10, "(%d,%d)", i, j)
		}
	}
	for i := range c2 {
		assert.InDelta(t, 0, c2[i], 1e-10)
	}
}

func TestTtlqtTtmlq(t *testing.T) {
	be := New()
	const m, ib = 4, 2

	triL := func(seed int64) []float64 {
		r := rand.New(rand.NewSource(seed))
		a := randMat(r, m, m)
		tm := make([]float64, ib*m)
		require.Zero(t, be.Gelqt(m, m, ib, a, m, tm, m))
		out := make([]float64, m*m)
		for i := 0; i < m; i++ {
			for j := 0; j <= i; j++ {
				out[i*m+j] = a[i*m+j]
			}
		}
		return out
	}

	l1 := triL(29)
	l2 := triL(30)
	c1 := append([]float64(nil), l1...)
	c2 := append([]float64(nil), l2...)

	fa1 := append([]float64(nil), l1...)
	fa2 := append([]float64(nil), l2...)
	t2 := make([]float64, ib*m)
	require.Zero(t, be.Ttlqt(m, m, ib, fa1, m, fa2, m, t2, m))

	require.Zero(t, be.Ttmlq(kernel.Right, kernel.ConjTrans, m, m, m, m, m, ib,
		c1, m, c2, m, fa2, m, t2, m))
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			want := 0.0
			if j <= i {
				want = fa1[i*m+j]
			}
			assert.InDelta(t, want, c1[i*m+j], 1e-10, "(%d,%d)", i, j)
		}
	}
	for i := range c2 {
		assert.InDelta(t, 0, c2[i], 1e-10)
	}
}

func TestAmax(t *testing.T) {
	be := New()
	a := []float64{
		1, -7, 2,
		-3, 4, 0,
	}
	cols := make([]float64, 3)
	require.Zero(t, be.Amax(kernel.Columnwise, 2, 3, a, 3, cols))
	assertClose(t, []float64{3, 7, 2}, cols, 0)

	rows := make([]float64, 2)
	require.Zero(t, be.Amax(kernel.Rowwise, 2, 3, a, 3, rows))
	assertClose(t, []float64{7, 4}, rows, 0)
}

func TestCopy(t *testing.T) {
	be := New()
	a := []float64{1, 2, 3, 4, 5, 6}
	b := make([]float64, 8)
	require.Zero(t, be.Copy(2, 3, a, 3, b, 4))
	assertClose(t, []float64{1, 2, 3, 0, 4, 5, 6, 0}, b, 0)
}
