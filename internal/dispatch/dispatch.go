// Package dispatch wraps single-tile kernels as dependency-declared tasks.
//
// Every wrapper declares the tile regions it reads and writes, enqueues a
// guarded unit of work and returns immediately. Status never flows out of a
// wrapper directly: a task first checks the sequence, skips its numeric work
// if the sequence has already failed, and otherwise reports kernel errors
// through the request/sequence pair.
package dispatch

import (
	"github.com/quarrylab/quarry/internal/async"
	"github.com/quarrylab/quarry/internal/desc"
	"github.com/quarrylab/quarry/internal/kernel"
	"github.com/quarrylab/quarry/internal/sched"
)

// Ctx bundles the collaborators every dispatch call needs: the scope tasks
// are submitted to, the kernel backend, and the status pair they report to.
type Ctx struct {
	Scope *sched.Scope
	Kern  kernel.Backend
	Seq   *async.Sequence
	Req   *async.Request
}

// Region returns the scheduling region of a tile.
func Region(t desc.Tile) sched.Region {
	return sched.Region{Store: t.Store, Off: t.Slot}
}

func regions(tiles ...desc.Tile) []sched.Region {
	rs := make([]sched.Region, len(tiles))
	for i, t := range tiles {
		rs[i] = Region(t)
	}
	return rs
}

// guard submits a task that runs work only while the sequence is clean and
// fails the sequence with code when work reports a nonzero info. mapInfo
// lets callers translate the kernel's local info into the reported code.
func (c Ctx) guard(reads, writes []sched.Region, work func() int, mapInfo func(int) async.Code) {
	c.Scope.Submit(reads, writes, func() {
		if !c.Seq.OK() {
			return
		}
		if info := work(); info != 0 {
			async.Fail(c.Seq, c.Req, mapInfo(info))
		}
	})
}

func illegal(int) async.Code { return async.IllegalValue }

// Geadd enqueues b = alpha*op(a) + beta*b.
func Geadd(c Ctx, trans kernel.Transpose, m, n int, alpha float64, a desc.Tile, beta float64, b desc.Tile) {
	c.guard(regions(a), regions(b), func() int {
		return c.Kern.Geadd(trans, m, n, alpha, a.Data, a.Stride, beta, b.Data, b.Stride)
	}, illegal)
}

// Tradd enqueues the triangle-restricted add on b.
func Tradd(c Ctx, ul kernel.Uplo, trans kernel.Transpose, m, n int, alpha float64, a desc.Tile, beta float64, b desc.Tile) {
	c.guard(regions(a), regions(b), func() int {
		return c.Kern.Tradd(ul, trans, m, n, alpha, a.Data, a.Stride, beta, b.Data, b.Stride)
	}, illegal)
}

// Gemm enqueues c2 = alpha*op(a)*op(b) + beta*c2.
func Gemm(c Ctx, transA, transB kernel.Transpose, m, n, k int, alpha float64, a, b desc.Tile, beta float64, c2 desc.Tile) {
	c.guard(regions(a, b), regions(c2), func() int {
		return c.Kern.Gemm(transA, transB, m, n, k, alpha, a.Data, a.Stride, b.Data, b.Stride, beta, c2.Data, c2.Stride)
	}, illegal)
}

// Syrk enqueues the rank-k update of the uplo triangle of c2.
func Syrk(c Ctx, ul kernel.Uplo, trans kernel.Transpose, n, k int, alpha float64, a desc.Tile, beta float64, c2 desc.Tile) {
	c.guard(regions(a), regions(c2), func() int {
		return c.Kern.Syrk(ul, trans, n, k, alpha, a.Data, a.Stride, beta, c2.Data, c2.Stride)
	}, illegal)
}

// Trsm enqueues the in-place triangular solve on b.
func Trsm(c Ctx, sd kernel.Side, ul kernel.Uplo, transA kernel.Transpose, dg kernel.Diag, m, n int, alpha float64, a, b desc.Tile) {
	c.guard(regions(a), regions(b), func() int {
		return c.Kern.Trsm(sd, ul, transA, dg, m, n, alpha, a.Data, a.Stride, b.Data, b.Stride)
	}, illegal)
}

// Potrf enqueues the tile Cholesky factorization of a. A numeric failure is
// reported as base + local info so the caller can recover the failing step.
func Potrf(c Ctx, ul kernel.Uplo, n int, a desc.Tile, base int) {
	c.guard(nil, regions(a), func() int {
		return c.Kern.Potrf(ul, n, a.Data, a.Stride)
	}, func(info int) async.Code {
		if info > 0 {
			return async.Code(base + info)
		}
		return async.IllegalValue
	})
}

// Geqrt enqueues the tile QR factorization of a with coefficients in t.
func Geqrt(c Ctx, m, n, ib int, a, t desc.Tile) {
	c.guard(nil, regions(a, t), func() int {
		return c.Kern.Geqrt(m, n, ib, a.Data, a.Stride, t.Data, t.Stride)
	}, illegal)
}

// Unmqr enqueues the application of op(Q), defined by v and t, to c2.
func Unmqr(c Ctx, sd kernel.Side, trans kernel.Transpose, m, n, k, ib int, v, t, c2 desc.Tile) {
	c.guard(regions(v, t), regions(c2), func() int {
		return c.Kern.Unmqr(sd, trans, m, n, k, ib, v.Data, v.Stride, t.Data, t.Stride, c2.Data, c2.Stride)
	}, illegal)
}

// Gelqt enqueues the tile LQ factorization of a with coefficients in t.
func Gelqt(c Ctx, m, n, ib int, a, t desc.Tile) {
	c.guard(nil, regions(a, t), func() int {
		return c.Kern.Gelqt(m, n, ib, a.Data, a.Stride, t.Data, t.Stride)
	}, illegal)
}

// Unmlq enqueues the application of op(Q), defined by v and t, to c2.
func Unmlq(c Ctx, sd kernel.Side, trans kernel.Transpose, m, n, k, ib int, v, t, c2 desc.Tile) {
	c.guard(regions(v, t), regions(c2), func() int {
		return c.Kern.Unmlq(sd, trans, m, n, k, ib, v.Data, v.Stride, t.Data, t.Stride, c2.Data, c2.Stride)
	}, illegal)
}

// Tslqt enqueues the fold of a2 into the triangular tile a1 on its left.
func Tslqt(c Ctx, m, n, ib int, a1, a2, t desc.Tile) {
	c.guard(nil, regions(a1, a2, t), func() int {
		return c.Kern.Tslqt(m, n, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, t.Data, t.Stride)
	}, illegal)
}

// Tsmlq enqueues the application of a Tslqt factor to the pair a1, a2.
func Tsmlq(c Ctx, sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1, a2, v, t desc.Tile) {
	c.guard(regions(v, t), regions(a1, a2), func() int {
		return c.Kern.Tsmlq(sd, trans, m1, n1, m2, n2, k, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, v.Data, v.Stride, t.Data, t.Stride)
	}, illegal)
}

// Ttlqt enqueues the merge of the triangularized tile a2 into a1.
func Ttlqt(c Ctx, m, n, ib int, a1, a2, t desc.Tile) {
	c.guard(nil, regions(a1, a2, t), func() int {
		return c.Kern.Ttlqt(m, n, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, t.Data, t.Stride)
	}, illegal)
}

// Ttmlq enqueues the application of a Ttlqt factor to the pair a1, a2.
func Ttmlq(c Ctx, sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1, a2, v, t desc.Tile) {
	c.guard(regions(v, t), regions(a1, a2), func() int {
		return c.Kern.Ttmlq(sd, trans, m1, n1, m2, n2, k, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, v.Data, v.Stride, t.Data, t.Stride)
	}, illegal)
}

// Tsqrt enqueues the fold of a2 into the triangular tile a1.
func Tsqrt(c Ctx, m, n, ib int, a1, a2, t desc.Tile) {
	c.guard(nil, regions(a1, a2, t), func() int {
		return c.Kern.Tsqrt(m, n, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, t.Data, t.Stride)
	}, illegal)
}

// Tsmqr enqueues the application of a Tsqrt factor to the pair a1, a2.
func Tsmqr(c Ctx, sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1, a2, v, t desc.Tile) {
	c.guard(regions(v, t), regions(a1, a2), func() int {
		return c.Kern.Tsmqr(sd, trans, m1, n1, m2, n2, k, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, v.Data, v.Stride, t.Data, t.Stride)
	}, illegal)
}

// Ttqrt enqueues the merge of the triangularized tile a2 into a1.
func Ttqrt(c Ctx, m, n, ib int, a1, a2, t desc.Tile) {
	c.guard(nil, regions(a1, a2, t), func() int {
		return c.Kern.Ttqrt(m, n, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, t.Data, t.Stride)
	}, illegal)
}

// Ttmqr enqueues the application of a Ttqrt factor to the pair a1, a2.
func Ttmqr(c Ctx, sd kernel.Side, trans kernel.Transpose, m1, n1, m2, n2, k, ib int, a1, a2, v, t desc.Tile) {
	c.guard(regions(v, t), regions(a1, a2), func() int {
		return c.Kern.Ttmqr(sd, trans, m1, n1, m2, n2, k, ib, a1.Data, a1.Stride, a2.Data, a2.Stride, v.Data, v.Stride, t.Data, t.Stride)
	}, illegal)
}

// Amax enqueues the per-column or per-row absolute-maximum reduction of a
// tile into the workspace slice values, whose region the caller names.
func Amax(c Ctx, colrow kernel.ColRow, m, n int, a desc.Tile, values []float64, vreg sched.Region) {
	c.guard(regions(a), []sched.Region{vreg}, func() int {
		return c.Kern.Amax(colrow, m, n, a.Data, a.Stride, values)
	}, illegal)
}

// MaxReduce enqueues a reduction over an already-filled workspace block,
// writing the final maxima into values. reads names the workspace regions
// the block spans.
func MaxReduce(c Ctx, colrow kernel.ColRow, m, n int, w []float64, ldw int, values []float64, reads []sched.Region, write sched.Region) {
	c.guard(reads, []sched.Region{write}, func() int {
		return c.Kern.Amax(colrow, m, n, w, ldw, values)
	}, illegal)
}

// CopyIn enqueues the copy of an m x n flat block into a tile. sreg names
// the flat block's region.
func CopyIn(c Ctx, m, n int, src []float64, lds int, sreg sched.Region, dst desc.Tile) {
	c.guard([]sched.Region{sreg}, regions(dst), func() int {
		return c.Kern.Copy(m, n, src, lds, dst.Data, dst.Stride)
	}, illegal)
}

// CopyOut enqueues the copy of a tile into an m x n flat block.
func CopyOut(c Ctx, m, n int, src desc.Tile, dst []float64, ldd int, dreg sched.Region) {
	c.guard(regions(src), []sched.Region{dreg}, func() int {
		return c.Kern.Copy(m, n, src.Data, src.Stride, dst, ldd)
	}, illegal)
}
