// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"fmt"

	"github.com/quarrylab/quarry/internal/compute"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/rhtree"
)

// LQ holds the opaque state of a tree LQ factorization: the blocked
// triangular factors and the elimination plan. The reflector vectors
// themselves live in the caller's matrix. Free releases the factor
// storage; the LQ must not be used afterwards.
type LQ struct {
	t    desc.Desc
	ops  []rhtree.Op
	m, n int
}

// Free releases the triangular factor storage.
func (q *LQ) Free() error { return q.t.Free() }

// Gelqf computes the LQ factorization of the m x n row-major matrix a
// using a Householder reduction tree. On return the lower triangle of a
// holds L, the strict upper part the reflector vectors, and the returned
// LQ the blocked factors needed to apply Q. Tile geometry and the tree
// shape come from cfg and are baked into the LQ; later applications reuse
// them regardless of the Config they are called with.
func Gelqf(m, n int, a []float64, lda int, cfg Config) (*LQ, error) {
	if m < 0 {
		return nil, fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return nil, fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if !cfg.valid() {
		return nil, fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if m == 0 || n == 0 {
		return &LQ{m: m, n: n}, nil
	}

	da, err := desc.Create(desc.General, desc.Float64, cfg.NB, cfg.NB, m, n, cfg.Arena, false)
	if err != nil {
		return nil, allocErr(err)
	}
	defer da.Free()

	// Two tile columns of factors per panel: panel factors on the left
	// half, merge factors on the right.
	dt, err := desc.Create(desc.General, desc.Float64, cfg.IB, cfg.NB,
		da.MT*cfg.IB, 2*da.NT*cfg.NB, cfg.Arena, true)
	if err != nil {
		return nil, allocErr(err)
	}

	// The tree runs over column tiles: each panel is a row of tiles and
	// the plan eliminates columns to its right.
	ops := rhtree.Operations(da.NT, da.MT, cfg.TreeDomain)

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Gelqf(c, da, dt, ops)
	compute.Desc2Ge(c, da, a, lda)
	if err := finish(c); err != nil {
		dt.Free()
		return nil, err
	}
	return &LQ{t: dt, ops: ops, m: m, n: n}, nil
}

// Unmlq overwrites the m x n matrix cm with op(Q)*C (Left) or C*op(Q)
// (Right), where Q comes from a Gelqf whose state is q and whose
// reflector output is a.
func Unmlq(side Side, trans Transpose, m, n int, a []float64, lda int, q *LQ, cm []float64, ldc int, cfg Config) error {
	if side != Left && side != Right {
		return fmt.Errorf("%w: side", ErrIllegalValue)
	}
	if trans != NoTrans && trans != Trans && trans != ConjTrans {
		return fmt.Errorf("%w: trans", ErrIllegalValue)
	}
	if m < 0 {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if q == nil {
		return fmt.Errorf("%w: q", ErrIllegalValue)
	}
	if side == Left && m != q.n {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if side == Right && n != q.n {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if lda < imax(1, q.n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if ldc < imax(1, n) {
		return fmt.Errorf("%w: ldc", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if m == 0 || n == 0 || q.m == 0 || q.n == 0 {
		return nil
	}

	nb := q.t.NB
	da, err := desc.Create(desc.General, desc.Float64, nb, nb, q.m, q.n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()
	dc, err := desc.Create(desc.General, desc.Float64, nb, nb, m, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer dc.Free()

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Ge2Desc(c, cm, ldc, dc)
	compute.Unmlq(c, side, trans, da, q.t, dc, q.ops)
	compute.Desc2Ge(c, dc, cm, ldc)
	return finish(c)
}

// Gelqs solves the underdetermined system A*X = B with the minimum-norm
// solution, given the Gelqf output in a and q. B is m x nrhs on entry in
// the top m rows of b; b must have room for n rows and holds the n x nrhs
// solution X on return. Requires m <= n.
func Gelqs(m, n, nrhs int, a []float64, lda int, q *LQ, b []float64, ldb int, cfg Config) error {
	if m < 0 {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 || m > n {
		return fmt.Errorf("%w: n", ErrIllegalValue)
	}
	if nrhs < 0 {
		return fmt.Errorf("%w: nrhs", ErrIllegalValue)
	}
	if lda < imax(1, n) {
		return fmt.Errorf("%w: lda", ErrIllegalValue)
	}
	if q == nil || q.m != m || q.n != n {
		return fmt.Errorf("%w: q", ErrIllegalValue)
	}
	if ldb < imax(1, nrhs) {
		return fmt.Errorf("%w: ldb", ErrIllegalValue)
	}
	if !cfg.valid() {
		return fmt.Errorf("%w: cfg", ErrIllegalValue)
	}
	if m == 0 || n == 0 || nrhs == 0 {
		return nil
	}

	nb := q.t.NB
	da, err := desc.Create(desc.General, desc.Float64, nb, nb, m, n, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer da.Free()
	// Zero-allocated so the rows below the right-hand side start clean.
	db, err := desc.Create(desc.General, desc.Float64, nb, nb, n, nrhs, cfg.Arena, true)
	if err != nil {
		return allocErr(err)
	}
	defer db.Free()

	lv, err := da.View(0, 0, m, m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalValue, err)
	}
	bt, err := db.View(0, 0, m, nrhs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalValue, err)
	}

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Ge2Desc(c, b, ldb, bt)
	compute.Trsm(c, Left, Lower, NoTrans, NonUnit, 1.0, lv, bt)
	compute.Unmlq(c, Left, ConjTrans, da, q.t, db, q.ops)
	compute.Desc2Ge(c, db, b, ldb)
	return finish(c)
}
