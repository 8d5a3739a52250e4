// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package quarry provides tile-based dense linear algebra over a
// dependency-aware task scheduler.
//
// Matrices enter and leave as flat row-major float64 slices; internally
// every operation converts them into tile layout, runs a tile algorithm as
// a graph of kernel tasks, and converts the result back. Entry points are
// synchronous: they return once all tasks have drained, with the first
// failure (argument, allocation, or numeric) reported as the operation's
// error.
//
// Example:
//
//	cfg := quarry.DefaultConfig()
//	if err := quarry.Potrf(quarry.Lower, n, a, n, cfg); err != nil {
//		var nerr *quarry.NumericError
//		if errors.As(err, &nerr) {
//			// leading minor nerr.Info is not positive definite
//		}
//	}
package quarry

import (
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/kernel/lapack"
	"github.com/quarrylab/quarry/internal/sched"
)

// Uplo selects the referenced triangle of a matrix.
type Uplo = kernel.Uplo

const (
	Lower Uplo = kernel.Lower
	Upper Uplo = kernel.Upper
)

// Transpose selects op(A).
type Transpose = kernel.Transpose

const (
	NoTrans   Transpose = kernel.NoTrans
	Trans     Transpose = kernel.Trans
	ConjTrans Transpose = kernel.ConjTrans
)

// Side selects whether an operator applies from the left or the right.
type Side = kernel.Side

const (
	Left  Side = kernel.Left
	Right Side = kernel.Right
)

// Diag states whether a triangular matrix has a unit diagonal.
type Diag = kernel.Diag

const (
	NonUnit Diag = kernel.NonUnit
	Unit    Diag = kernel.Unit
)

// ColRow selects the reduction axis of Amax.
type ColRow = kernel.ColRow

const (
	Columnwise ColRow = kernel.Columnwise
	Rowwise    ColRow = kernel.Rowwise
)

// begin opens a scheduling scope and a fresh status sequence for one
// synchronous operation.
func begin(cfg Config) dispatch.Ctx {
	return dispatch.Ctx{
		Scope: sched.NewScope(sched.Config{Workers: cfg.Workers}),
		Kern:  lapack.New(),
		Seq:   async.NewSequence(),
		Req:   async.NewRequest(),
	}
}

// finish drains the scope and reports the sequence outcome.
func finish(c dispatch.Ctx) error {
	c.Scope.Join()
	return codeErr(c.Seq.Status())
}

// triKind maps a triangle selector to the matching descriptor kind.
func triKind(uplo Uplo) desc.Kind {
	if uplo == Upper {
		return desc.Upper
	}
	return desc.Lower
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
