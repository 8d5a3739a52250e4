// Package async tracks success and failure across asynchronous tile-task graphs.
//
// A Sequence aggregates the status of one full matrix operation; a Request
// records the status of one driver invocation within that operation. Statuses
// start at Success and move at most once to a terminal error code. Many tasks
// may report failures concurrently; the first one wins and later reports only
// land on their own Request.
package async

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Code is the integer status of a Sequence or Request.
//
// Zero is success and negative values form the fixed error taxonomy.
// Positive values report a numeric kernel failure as baseOffset + localInfo,
// so the caller can recover at which tile step a kernel gave up.
type Code int32

// Status codes.
const (
	Success         Code = 0
	IllegalValue    Code = -1
	OutOfMemory     Code = -2
	SequenceFlushed Code = -3
	IllegalKernel   Code = -4
)

// String returns a human-readable code name.
func (c Code) String() string {
	switch {
	case c == Success:
		return "Success"
	case c == IllegalValue:
		return "IllegalValue"
	case c == OutOfMemory:
		return "OutOfMemory"
	case c == SequenceFlushed:
		return "SequenceFlushed"
	case c == IllegalKernel:
		return "IllegalKernel"
	case c > 0:
		return fmt.Sprintf("NumericFailure(%d)", int32(c))
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

// Sequence is the aggregate status of one end-to-end tile operation.
// It is created immediately before a submission region opens and must not be
// reused until every task referencing it has drained.
type Sequence struct {
	id     uuid.UUID
	status atomic.Int32
}

// NewSequence returns a Sequence in the success state.
func NewSequence() *Sequence {
	return &Sequence{id: uuid.New()}
}

// ID identifies the sequence in diagnostics.
func (s *Sequence) ID() uuid.UUID { return s.id }

// Status returns the current aggregate code. Reading it before the enclosing
// scope has joined tells the caller nothing reliable about the final outcome.
func (s *Sequence) Status() Code { return Code(s.status.Load()) }

// OK reports whether the sequence is still in the success state.
func (s *Sequence) OK() bool { return s.status.Load() == int32(Success) }

// Request is the status of one sub-operation (one driver invocation) within
// a Sequence. Many Requests may share one Sequence.
type Request struct {
	status atomic.Int32
}

// NewRequest returns a Request in the success state.
func NewRequest() *Request { return &Request{} }

// Status returns the request's own code.
func (r *Request) Status() Code { return Code(r.status.Load()) }

// Fail records code on the request and transitions the sequence to code if
// the sequence is still successful. Safe to call concurrently from any task;
// exactly one caller wins the sequence transition.
func Fail(seq *Sequence, req *Request, code Code) {
	if req != nil {
		req.status.Store(int32(code))
	}
	seq.status.CompareAndSwap(int32(Success), int32(code))
}
