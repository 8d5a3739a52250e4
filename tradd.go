// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"fmt"

	"github.com/quarrylab/quarry/internal/compute"
	"github.com/quarrylab/quarry/internal/desc"
)

// Tradd computes B = alpha*op(A) + beta*B on the uplo triangle of the
// m x n matrix B. A and B are row-major with strides lda and ldb; op(A) is
// m x n, so A itself is n x m when transA transposes.
func Tradd(uplo Uplo, transA Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int, cfg Config) error {
	if uplo != Lower && uplo != Upper {
		return fmt.Errorf("%w: uplo", ErrIllegalValue)
	}
	if transA != NoTrans && transA != Trans && transA != ConjTrans {
		return fmt.Errorf("%w: transA", ErrIllegalValue)
	}
	if m < 0 {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	am, an := m, n
	if transA != NoTrans {
		am, an = n, m
	}
	if lda < imax(1, an) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if ldb < imax(1, n) {
		return fmt.Errorf("%w: ldb", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if m == 0 || n == 0 {
		return nil
	}

	da, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, am, an, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()
	db, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, m, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer db.Free()

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Ge2Desc(c, b, ldb, db)
	compute.Tradd(c, uplo, transA, alpha, da, beta, db)
	compute.Desc2Ge(c, db, b, ldb)
	return finish(c)
}
