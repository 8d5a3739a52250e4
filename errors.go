// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"errors"
	"fmt"

	"github.com/quarrylab/quarry/internal/arena"
	"github.com/quarrylab/quarry/internal/async"
)

// Sentinel errors returned by entry points. Wrap-aware: test with errors.Is.
var (
	// ErrIllegalValue reports an invalid argument. The wrapping message
	// names the argument.
	ErrIllegalValue = errors.New("quarry: illegal value")

	// ErrOutOfMemory reports a failed workspace or descriptor allocation.
	ErrOutOfMemory = errors.New("quarry: out of memory")

	// ErrSequenceFlushed reports work skipped because an earlier operation
	// in the same sequence already failed.
	ErrSequenceFlushed = errors.New("quarry: sequence flushed")

	// ErrIllegalKernel reports an unrecognized operation in a reduction
	// plan.
	ErrIllegalKernel = errors.New("quarry: illegal kernel")
)

// NumericError reports a numerical failure inside a factorization, such as
// a non-positive-definite pivot. Info is the one-based global index of the
// failing entry.
type NumericError struct {
	Info int
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("quarry: numeric failure at entry %d", e.Info)
}

// codeErr maps a terminal sequence status to the public error surface.
func codeErr(c async.Code) error {
	switch {
	case c == async.Success:
		return nil
	case c == async.IllegalValue:
		return ErrIllegalValue
	case c == async.OutOfMemory:
		return ErrOutOfMemory
	case c == async.SequenceFlushed:
		return ErrSequenceFlushed
	case c == async.IllegalKernel:
		return ErrIllegalKernel
	case c > 0:
		return &NumericError{Info: int(c)}
	}
	return fmt.Errorf("quarry: status %d", int32(c))
}

// allocErr maps descriptor and workspace allocation failures, preserving
// argument errors as illegal values.
func allocErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, arena.ErrOutOfMemory) {
		return ErrOutOfMemory
	}
	return fmt.Errorf("%w: %v", ErrIllegalValue, err)
}
