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

// QR holds the opaque state of a tree QR factorization: the blocked
// triangular factors and the elimination plan. The reflector vectors
// themselves live in the caller's matrix. Free releases the factor
// storage; the QR must not be used afterwards.
type QR struct {
	t    desc.Desc
	ops  []rhtree.Op
	m, n int
}

// Free releases the triangular factor storage.
func (q *QR) Free() error { return q.t.Free() }

// Geqrf computes the QR factorization of the m x n row-major matrix a
// using a Householder reduction tree. On return the upper triangle of a
// holds R, the strict lower part the reflector vectors, and the returned
// QR the blocked factors needed to apply Q. Tile geometry and the tree
// shape come from cfg and are baked into the QR; later applications reuse
// them regardless of the Config they are called with.
func Geqrf(m, n int, a []float64, lda int, cfg Config) (*QR, error) {
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
		return &QR{m: m, n: n}, nil
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

	ops := rhtree.Operations(da.MT, da.NT, cfg.TreeDomain)

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Geqrf(c, da, dt, ops)
	compute.Desc2Ge(c, da, a, lda)
	if err := finish(c); err != nil {
		dt.Free()
		return nil, err
	}
	return &QR{t: dt, ops: ops, m: m, n: n}, nil
}

// Unmqr overwrites the m x n matrix cm with op(Q)*C (Left) or C*op(Q)
// (Right), where Q comes from a Geqrf whose state is q and whose
// reflector output is a.
func Unmqr(side Side, trans Transpose, m, n int, a []float64, lda int, q *QR, cm []float64, ldc int, cfg Config) error {
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
	if side == Left && m != q.m {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if side == Right && n != q.m {
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
	compute.Unmqr(c, side, trans, da, q.t, dc, q.ops)
	compute.Desc2Ge(c, dc, cm, ldc)
	return finish(c)
}

// Geqrs solves the overdetermined system min ||A*X - B|| in the least
// squares sense, given the Geqrf output in a and q. B is m x nrhs on
// entry; its first n rows hold X on return. Requires m >= n.
func Geqrs(m, n, nrhs int, a []float64, lda int, q *QR, b []float64, ldb int, cfg Config) error {
	if m < 0 {
		return fmt.Errorf("%w: m", ErrIllegalValue)
	}
	if n < 0 || n > m {
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
	db, err := desc.Create(desc.General, desc.Float64, nb, nb, m, nrhs, cfg.Arena, false)
	if err != nil {
		return allocErr(err)
	}
	defer db.Free()

	av, err := da.View(0, 0, n, n)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalValue, err)
	}
	bv, err := db.View(0, 0, n, nrhs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalValue, err)
	}

	c := begin(cfg)
	compute.Ge2Desc(c, a, lda, da)
	compute.Ge2Desc(c, b, ldb, db)
	compute.Unmqr(c, Left, ConjTrans, da, q.t, db, q.ops)
	compute.Trsm(c, Left, Upper, NoTrans, NonUnit, 1.0, av, bv)
	compute.Desc2Ge(c, db, b, ldb)
	return finish(c)
}
