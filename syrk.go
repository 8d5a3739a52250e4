// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"fmt"

	"github.com/quarrylab/quarry/internal/compute"
	"github.com/quarrylab/quarry/internal/desc"
)

// Syrk computes the symmetric rank-k update C = alpha*A*A^T + beta*C
// (NoTrans) or C = alpha*A^T*A + beta*C, touching only the uplo triangle
// of the n x n matrix C. A is n x k for NoTrans and k x n otherwise, all
// row-major.
func Syrk(uplo Uplo, trans Transpose, n, k int, alpha float64, a []float64, lda int, beta float64, cm []float64, ldc int, cfg Config) error {
	if uplo != Lower && uplo != Upper {
		return fmt.Errorf("%w: uplo", ErrIllegalValue)
	}
	if trans != NoTrans && trans != Trans && trans != ConjTrans {
		return fmt.Errorf("%w: trans", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if k < 0 {
		return fmt.Errorf("%w: k", ErrIllegalValue)
	}
	am, an := n, k
	if trans != NoTrans {
		am, an = k, n
	}
	if lda < imax(1, an) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if ldc < imax(1, n) {
		return fmt.Errorf("%w: ldc", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if n == 0 || ((alpha == 0 || k == 0) && beta == 1) {
		return nil
	}

	dc, err := desc.Create(triKind(uplo), desc.Float64, cfg.NB, cfg.NB, n, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer dc.Free()

	update := alpha != 0 && k > 0
	var da desc.Desc
	if update {
		da, err = desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, am, an, cfg.Arena, false)
		if err != nil {
			return allocErr(err)
		}
		defer da.Free()
	}

	c := begin(cfg)
	compute.Tr2Desc(c, cm, ldc, dc)
	if update {
		compute.Ge2Desc(c, a, lda, da)
		compute.Syrk(c, uplo, trans, alpha, da, beta, dc)
	} else {
		// Pure scaling of C.
		compute.Tradd(c, uplo, NoTrans, 0.0, dc, beta, dc)
	}
	compute.Desc2Tr(c, dc, cm, ldc)
	return finish(c)
}
