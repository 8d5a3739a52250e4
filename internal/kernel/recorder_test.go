package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderLogsCalls(t *testing.T) {
	r := NewRecorder()

	require.Zero(t, r.Potrf(Lower, 4, nil, 4))
	require.Zero(t, r.Trsm(Right, Lower, ConjTrans, NonUnit, 4, 4, 1, nil, 4, nil, 4))
	require.Zero(t, r.Gemm(NoTrans, ConjTrans, 4, 4, 4, -1, nil, 4, nil, 4, 1, nil, 4))

	assert.Equal(t, []string{"potrf", "trsm", "gemm"}, r.Names())
	assert.Equal(t, 3, r.Performed())

	calls := r.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, Call{Name: "potrf", Args: []int{int(Lower), 4}}, calls[0])
}

func TestRecorderFailureInjection(t *testing.T) {
	r := NewRecorder()
	r.FailAt = 2
	r.FailInfo = 3

	assert.Zero(t, r.Geqrt(4, 4, 2, nil, 4, nil, 4))
	assert.Equal(t, 3, r.Geqrt(4, 4, 2, nil, 4, nil, 4))
	assert.Zero(t, r.Geqrt(4, 4, 2, nil, 4, nil, 4))
	assert.Equal(t, 3, r.Performed())
}

func TestRecorderDefaultFailInfo(t *testing.T) {
	r := NewRecorder()
	r.FailAt = 1
	assert.Equal(t, 1, r.Potrf(Upper, 2, nil, 2))
}
