package compute

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/arena"
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/kernel/lapack"
	"github.com/quarrylab/quarry/internal/sched"
)

func newCtx(workers int) dispatch.Ctx {
	return dispatch.Ctx{
		Scope: sched.NewScope(sched.Config{Workers: workers}),
		Kern:  lapack.New(),
		Seq:   async.NewSequence(),
		Req:   async.NewRequest(),
	}
}

func recorderCtx(r *kernel.Recorder) dispatch.Ctx {
	return dispatch.Ctx{
		Scope: sched.NewScope(sched.Config{Workers: 1}),
		Kern:  r,
		Seq:   async.NewSequence(),
		Req:   async.NewRequest(),
	}
}

func mkDesc(t *testing.T, kind desc.Kind, mb, nb, m, n int) desc.Desc {
	t.Helper()
	d, err := desc.Create(kind, desc.Float64, mb, nb, m, n, arena.Heap, true)
	require.NoError(t, err)
	t.Cleanup(func() { d.Free() })
	return d
}

func randMat(rng *rand.Rand, m, n int) []float64 {
	a := make([]float64, m*n)
	for i := range a {
		a[i] = rng.NormFloat64()
	}
	return a
}

func spdMat(rng *rand.Rand, n int) []float64 {
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

func clone(a []float64) []float64 {
	return append([]float64(nil), a...)
}

func assertClose(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		d := want[i] - got[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			t.Fatalf("element %d: want %g, got %g", i, want[i], got[i])
		}
	}
}
