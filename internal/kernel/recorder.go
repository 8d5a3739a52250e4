package kernel

import (
	"fmt"
	"sync"
)

// Call is one recorded kernel invocation: the kernel name plus the integer
// arguments that identify the tiles it touched.
type Call struct {
	Name string
	Args []int
}

// Recorder is a Backend for driver tests. It performs no numeric work,
// records every invocation in completion order, and can inject a failure at
// a chosen call index. With a single-worker scope the recorded order is the
// scheduler's execution order.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	n     int

	// FailAt injects a failure: the FailAt-th recorded call (1-based)
	// returns FailInfo. Zero disables injection.
	FailAt   int
	FailInfo int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Calls returns a snapshot of the recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Names returns the recorded kernel names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Name
	}
	return out
}

// Performed returns how many kernel invocations actually ran.
func (r *Recorder) Performed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

func (r *Recorder) record(name string, args ...int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	r.calls = append(r.calls, Call{Name: name, Args: args})
	if r.FailAt != 0 && r.n == r.FailAt {
		if r.FailInfo != 0 {
			return r.FailInfo
		}
		return 1
	}
	return 0
}

// String renders the call log for test failure messages.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%d calls: %v", len(r.calls), r.calls)
}

func (r *Recorder) Geadd(trans Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int {
	return r.record("geadd", int(trans), m, n)
}

func (r *Recorder) Tradd(ul Uplo, trans Transpose, m, n int, alpha float64, a []float64, lda int, beta float64, b []float64, ldb int) int {
	return r.record("tradd", int(ul), int(trans), m, n)
}

func (r *Recorder) Gemm(transA, transB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) int {
	return r.record("gemm", int(transA), int(transB), m, n, k)
}

func (r *Recorder) Syrk(ul Uplo, trans Transpose, n, k int, alpha float64, a []float64, lda int, beta float64, c []float64, ldc int) int {
	return r.record("syrk", int(ul), int(trans), n, k)
}

func (r *Recorder) Trsm(sd Side, ul Uplo, transA Transpose, dg Diag, m, n int, alpha float64, a []float64, lda int, b []float64, ldb int) int {
	return r.record("trsm", int(sd), int(ul), int(transA), m, n)
}

func (r *Recorder) Potrf(ul Uplo, n int, a []float64, lda int) int {
	return r.record("potrf", int(ul), n)
}

func (r *Recorder) Geqrt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int {
	return r.record("geqrt", m, n)
}

func (r *Recorder) Unmqr(sd Side, trans Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int {
	return r.record("unmqr", int(sd), int(trans), m, n, k)
}

func (r *Recorder) Gelqt(m, n, ib int, a []float64, lda int, t []float64, ldt int) int {
	return r.record("gelqt", m, n)
}

func (r *Recorder) Unmlq(sd Side, trans Transpose, m, n, k, ib int, v []float64, ldv int, t []float64, ldt int, c []float64, ldc int) int {
	return r.record("unmlq", int(sd), int(trans), m, n, k)
}

func (r *Recorder) Tslqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	return r.record("tslqt", m, n)
}

func (r *Recorder) Tsmlq(sd Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	return r.record("tsmlq", int(sd), int(trans), m1, n1, m2, n2)
}

func (r *Recorder) Ttlqt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	return r.record("ttlqt", m, n)
}

func (r *Recorder) Ttmlq(sd Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	return r.record("ttmlq", int(sd), int(trans), m1, n1, m2, n2)
}

func (r *Recorder) Tsqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	return r.record("tsqrt", m, n)
}

func (r *Recorder) Tsmqr(sd Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	return r.record("tsmqr", int(sd), int(trans), m1, n1, m2, n2)
}

func (r *Recorder) Ttqrt(m, n, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, t []float64, ldt int) int {
	return r.record("ttqrt", m, n)
}

func (r *Recorder) Ttmqr(sd Side, trans Transpose, m1, n1, m2, n2, k, ib int, a1 []float64, lda1 int, a2 []float64, lda2 int, v []float64, ldv int, t []float64, ldt int) int {
	return r.record("ttmqr", int(sd), int(trans), m1, n1, m2, n2)
}

func (r *Recorder) Amax(colrow ColRow, m, n int, a []float64, lda int, values []float64) int {
	return r.record("amax", int(colrow), m, n)
}

func (r *Recorder) Copy(m, n int, a []float64, lda int, b []float64, ldb int) int {
	return r.record("copy", m, n)
}

var _ Backend = (*Recorder)(nil)
