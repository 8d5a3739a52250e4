package compute

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
)

func TestGeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const m, n, nb = 10, 7, 3

	src := randMat(rng, m, n)
	dst := make([]float64, m*n)
	for i := range dst {
		dst[i] = 99
	}

	d := mkDesc(t, desc.General, nb, nb, m, n)
	c := newCtx(4)
	Ge2Desc(c, src, n, d)
	Desc2Ge(c, d, dst, n)
	c.Scope.Join()

	require.Equal(t, async.Success, c.Seq.Status())
	assertClose(t, src, dst, 0)
}

func TestTrRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const n, nb = 10, 4

	for _, kind := range []desc.Kind{desc.Lower, desc.Upper} {
		src := randMat(rng, n, n)
		dst := make([]float64, n*n)
		for i := range dst {
			dst[i] = 99
		}

		d := mkDesc(t, kind, nb, nb, n, n)
		c := newCtx(4)
		Tr2Desc(c, src, n, d)
		Desc2Tr(c, d, dst, n)
		c.Scope.Join()
		require.Equal(t, async.Success, c.Seq.Status())

		// Stored tiles round-trip whole; tiles of the other triangle are
		// never written.
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				tm, tn := i/nb, j/nb
				stored := tm == tn ||
					(kind == desc.Lower && tm > tn) ||
					(kind == desc.Upper && tm < tn)
				if stored {
					assert.Equal(t, src[i*n+j], dst[i*n+j], "(%d,%d)", i, j)
				} else {
					assert.Equal(t, 99.0, dst[i*n+j], "(%d,%d)", i, j)
				}
			}
		}
	}
}

func TestTr2DescRejectsGeneral(t *testing.T) {
	d := mkDesc(t, desc.General, 4, 4, 8, 8)
	src := make([]float64, 64)

	c := newCtx(1)
	Tr2Desc(c, src, 8, d)
	c.Scope.Join()
	assert.Equal(t, async.IllegalValue, c.Seq.Status())

	c2 := newCtx(1)
	Desc2Tr(c2, d, src, 8)
	c2.Scope.Join()
	assert.Equal(t, async.IllegalValue, c2.Seq.Status())
}

func TestConvertSkipsFailedSequence(t *testing.T) {
	d := mkDesc(t, desc.General, 4, 4, 8, 8)
	src := make([]float64, 64)

	c := newCtx(1)
	async.Fail(c.Seq, c.Req, async.OutOfMemory)
	Ge2Desc(c, src, 8, d)
	c.Scope.Join()

	// The failed sequence blocks new work; the status is preserved.
	assert.Equal(t, async.OutOfMemory, c.Seq.Status())
}
