// Package sched executes dependency-annotated tile tasks on a worker pool.
//
// A Scope is one submission region. The submitting goroutine enqueues tasks
// tagged with the tile regions they read and write; workers run tasks whose
// conflicting predecessors (read-after-write, write-after-read,
// write-after-write on an overlapping region) have completed. Submission
// never blocks. The only blocking point is Join, after which every submitted
// task has finished and its effects are visible to the caller.
package sched

import (
	"runtime"
	"sync"
)

// Config controls scope execution.
type Config struct {
	Workers int // number of worker goroutines
}

// DefaultConfig sizes the pool to the CPU count.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Region identifies one tile-granular span of a backing store. Tasks that
// declare the same region are ordered by conflict; distinct regions never
// constrain each other.
type Region struct {
	Store any // owning allocation, compared by identity
	Off   int // tile slot within it
}

type task struct {
	run     func()
	pending int
	succs   []*task
	done    bool
}

type regionState struct {
	lastWriter *task
	readers    []*task // readers since the last write
}

// Scope is one dependency-tracked submission region backed by a worker
// pool. A Scope is single-use: create, submit, Join, discard.
type Scope struct {
	mu      sync.Mutex
	cond    *sync.Cond
	regions map[Region]*regionState
	queue   []*task
	closed  bool

	tasks   sync.WaitGroup // submitted, not yet finished
	workers sync.WaitGroup
}

// NewScope starts the worker pool and returns an empty scope.
func NewScope(cfg Config) *Scope {
	n := cfg.Workers
	if n < 1 {
		n = 1
	}
	s := &Scope{regions: make(map[Region]*regionState)}
	s.cond = sync.NewCond(&s.mu)
	s.workers.Add(n)
	for i := 0; i < n; i++ {
		go s.work()
	}
	return s
}

// Submit enqueues run as a task that reads the reads regions and writes the
// writes regions. It returns immediately; run executes on a worker once
// every conflicting predecessor has completed. Submit must be called from
// the single submitting goroutine, never from inside a task.
func (s *Scope) Submit(reads, writes []Region, run func()) {
	t := &task{run: run}

	s.mu.Lock()
	deps := make(map[*task]struct{})
	for _, r := range reads {
		st := s.region(r)
		if w := st.lastWriter; w != nil && !w.done {
			deps[w] = struct{}{}
		}
		st.readers = append(st.readers, t)
	}
	for _, r := range writes {
		st := s.region(r)
		if w := st.lastWriter; w != nil && !w.done {
			deps[w] = struct{}{}
		}
		for _, rd := range st.readers {
			if rd != t && !rd.done {
				deps[rd] = struct{}{}
			}
		}
		st.lastWriter = t
		st.readers = nil
	}
	delete(deps, t)
	t.pending = len(deps)
	for d := range deps {
		d.succs = append(d.succs, t)
	}
	s.tasks.Add(1)
	if t.pending == 0 {
		s.queue = append(s.queue, t)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *Scope) region(r Region) *regionState {
	st := s.regions[r]
	if st == nil {
		st = &regionState{}
		s.regions[r] = st
	}
	return st
}

func (s *Scope) work() {
	defer s.workers.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		t.run()
		s.finish(t)
	}
}

func (s *Scope) finish(t *task) {
	s.mu.Lock()
	t.done = true
	for _, succ := range t.succs {
		succ.pending--
		if succ.pending == 0 {
			s.queue = append(s.queue, succ)
			s.cond.Signal()
		}
	}
	s.mu.Unlock()
	s.tasks.Done()
}

// Join blocks until every submitted task has completed, then tears down the
// worker pool. The scope must not be used afterwards.
func (s *Scope) Join() {
	s.tasks.Wait()
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.workers.Wait()
}
