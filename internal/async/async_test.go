package async

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequenceStartsClean(t *testing.T) {
	seq := NewSequence()
	assert.Equal(t, Success, seq.Status())
	assert.True(t, seq.OK())
	assert.NotEqual(t, NewSequence().ID(), seq.ID())
}

func TestFailMarksBoth(t *testing.T) {
	seq := NewSequence()
	req := NewRequest()

	Fail(seq, req, IllegalValue)

	assert.Equal(t, IllegalValue, seq.Status())
	assert.Equal(t, IllegalValue, req.Status())
	assert.False(t, seq.OK())
}

func TestFirstFailureSticksOnSequence(t *testing.T) {
	seq := NewSequence()
	req := NewRequest()

	Fail(seq, req, OutOfMemory)
	Fail(seq, req, IllegalValue)

	// The sequence keeps the first terminal status; the request reflects
	// the latest driver outcome.
	assert.Equal(t, OutOfMemory, seq.Status())
	assert.Equal(t, IllegalValue, req.Status())
}

func TestConcurrentFailures(t *testing.T) {
	seq := NewSequence()

	const workers = 64
	var wg sync.WaitGroup
	codes := make([]Code, workers)
	for i := 0; i < workers; i++ {
		codes[i] = Code(i + 1)
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(c Code) {
			defer wg.Done()
			Fail(seq, NewRequest(), c)
		}(codes[i])
	}
	wg.Wait()

	got := seq.Status()
	require.NotEqual(t, Success, got)
	assert.Contains(t, codes, got)
	// Repeated reads stay stable.
	assert.Equal(t, got, seq.Status())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "Success", Success.String())
	assert.Equal(t, "IllegalValue", IllegalValue.String())
	assert.Equal(t, "OutOfMemory", OutOfMemory.String())
	assert.Equal(t, "SequenceFlushed", SequenceFlushed.String())
	assert.Equal(t, "IllegalKernel", IllegalKernel.String())
	assert.Equal(t, "NumericFailure(7)", Code(7).String())
}
