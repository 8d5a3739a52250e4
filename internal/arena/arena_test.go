package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAlloc(t *testing.T) {
	a, err := Alloc(128, Heap, true)
	require.NoError(t, err)
	defer a.Free()

	assert.Equal(t, 128, a.Len())
	require.Len(t, a.Data(), 128)
	for _, v := range a.Data() {
		assert.Zero(t, v)
	}

	a.Data()[0] = 3.5
	a.Data()[127] = -1.25
	assert.Equal(t, 3.5, a.Data()[0])
	assert.Equal(t, -1.25, a.Data()[127])
}

func TestMappedAlloc(t *testing.T) {
	a, err := Alloc(4096, Mapped, true)
	require.NoError(t, err)

	require.Equal(t, 4096, a.Len())
	buf := a.Data()
	for i := range buf {
		buf[i] = float64(i)
	}
	assert.Equal(t, float64(4095), buf[4095])

	require.NoError(t, a.Free())
}

func TestAllocNegative(t *testing.T) {
	_, err := Alloc(-1, Heap, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocUnknownKind(t *testing.T) {
	_, err := Alloc(8, Kind(42), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}
