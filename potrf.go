// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"fmt"

	"github.com/quarrylab/quarry/internal/compute"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/dispatch"
)

// Potrf computes the Cholesky factorization A = L*L^T (Lower) or
// A = U^T*U (Upper) of the symmetric positive definite n x n matrix A,
// reading and writing only the uplo triangle. On a non-positive-definite
// input it returns a NumericError whose Info is the one-based index of
// the first failing pivot.
func Potrf(uplo Uplo, n int, a []float64, lda int, cfg Config) error {
	if uplo != Lower && uplo != Upper {
		return fmt.Errorf("%w: uplo", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if n == 0 {
		return nil
	}

	da, err := desc.Create(triKind(uplo), desc.Float64, cfg.NB, cfg.NB, n, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()

	c := begin(cfg)
	compute.Tr2Desc(c, a, lda, da)
	compute.Potrf(c, uplo, da)
	compute.Desc2Tr(c, da, a, lda)
	return finish(c)
}

// Potrs solves A*X = B for the n x nrhs right-hand sides in B, where a
// holds the Cholesky factor produced by Potrf on the uplo triangle. B is
// overwritten with X.
func Potrs(uplo Uplo, n, nrhs int, a []float64, lda int, b []float64, ldb int, cfg Config) error {
	if uplo != Lower && uplo != Upper {
		return fmt.Errorf("%w: uplo", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if nrhs < 0 {
		return fmt.Errorf("%w: nrhs", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if ldb < imax(1, nrhs) {
		return fmt.Errorf("%w: ldb", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if n == 0 || nrhs == 0 {
		return nil
	}

	da, err := desc.Create(triKind(uplo), desc.Float64, cfg.NB, cfg.NB, n, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()
	db, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, n, nrhs, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer db.Free()

	c := begin(cfg)
	compute.Tr2Desc(c, a, lda, da)
	compute.Ge2Desc(c, b, ldb, db)
	potrs(c, uplo, da, db)
	compute.Desc2Ge(c, db, b, ldb)
	return finish(c)
}

// Posv solves A*X = B by Cholesky factorization followed by the two
// triangular solves. The uplo triangle of a is overwritten with the
// factor, b with the solution.
func Posv(uplo Uplo, n, nrhs int, a []float64, lda int, b []float64, ldb int, cfg Config) error {
	if uplo != Lower && uplo != Upper {
		return fmt.Errorf("%w: uplo", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if nrhs < 0 {
		return fmt.Errorf("%w: nrhs", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if ldb < imax(1, nrhs) {
		return fmt.Errorf("%w: ldb", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if n == 0 {
		return nil
	}

	da, err := desc.Create(triKind(uplo), desc.Float64, cfg.NB, cfg.NB, n, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()

	if nrhs == 0 {
		c := begin(cfg)
		compute.Tr2Desc(c, a, lda, da)
		compute.Potrf(c, uplo, da)
		compute.Desc2Tr(c, da, a, lda)
		return finish(c)
	}

	db, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, n, nrhs, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer db.Free()

	c := begin(cfg)
	compute.Tr2Desc(c, a, lda, da)
	compute.Ge2Desc(c, b, ldb, db)
	compute.Potrf(c, uplo, da)
	potrs(c, uplo, da, db)
	compute.Desc2Tr(c, da, a, lda)
	compute.Desc2Ge(c, db, b, ldb)
	return finish(c)
}

// potrs chains the two triangular solves of a Cholesky solve.
func potrs(c dispatch.Ctx, uplo Uplo, da, db desc.Desc) {
	if uplo == Lower {
		compute.Trsm(c, Left, Lower, NoTrans, NonUnit, 1.0, da, db)
		compute.Trsm(c, Left, Lower, ConjTrans, NonUnit, 1.0, da, db)
	} else {
		compute.Trsm(c, Left, Upper, ConjTrans, NonUnit, 1.0, da, db)
		compute.Trsm(c, Left, Upper, NoTrans, NonUnit, 1.0, da, db)
	}
}
