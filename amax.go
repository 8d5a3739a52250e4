// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"fmt"

	"github.com/quarrylab/quarry/internal/compute"
	"github.com/quarrylab/quarry/internal/desc"
)

// Amax writes the absolute maximum of each column (Columnwise) or each
// row (Rowwise) of the m x n row-major matrix a into values, which must
// hold at least n or m entries respectively.
func Amax(colrow ColRow, m, n int, a []float64, lda int, values []float64, cfg Config) error {
	if colrow != Columnwise && colrow != Rowwise {
		return fmt.Errorf("%w: colrow", ErrIllegalValue)
	}
	if m < 0 {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	want := n
	if colrow == Rowwise {
		want = m
	}
	if len(values) < want {
		return fmt.Errorf("%w: values", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if m == 0 || n == 0 {
		return nil
	}

	da, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, m, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()

	var work []float64
	if colrow == Columnwise {
		work = make([]float64, da.MT*da.GN)
	} else {
		work = make([]float64, da.NT*da.GM)
	}

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Amax(c, colrow, da, work, values)
	return finish(c)
}
