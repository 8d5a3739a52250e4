// Package arena manages the backing stores that tile descriptors address.
//
// An Arena is one flat float64 allocation. Tile descriptors reference an
// arena by element offset and never own it; only the allocation that created
// the arena releases it. Two backings are provided: ordinary heap slices and
// anonymous memory mappings for matrices too large to sit comfortably on the
// Go heap.
package arena

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// ErrOutOfMemory is returned when a backing store cannot be allocated.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Kind selects the allocation backing.
type Kind int

// Supported backings.
const (
	Heap Kind = iota
	Mapped
)

// Arena is one backing allocation of float64 elements.
type Arena interface {
	// Data returns the whole allocation. The slice stays valid until Free.
	Data() []float64
	// Len returns the element count.
	Len() int
	// Free releases the allocation. Calling any method after Free is a
	// programmer error.
	Free() error
}

// Alloc creates an arena of n elements. When zeroed is false the caller
// promises to overwrite every element before reading it; both backings may
// still hand back zeroed memory, the flag only licenses them not to.
func Alloc(n int, kind Kind, zeroed bool) (Arena, error) {
	if n < 0 {
		return nil, fmt.Errorf("arena: negative size %d: %w", n, ErrOutOfMemory)
	}
	switch kind {
	case Heap:
		return &heapArena{buf: make([]float64, n)}, nil
	case Mapped:
		return mapAlloc(n, zeroed)
	default:
		return nil, fmt.Errorf("arena: unknown kind %d: %w", kind, ErrOutOfMemory)
	}
}

type heapArena struct {
	buf []float64
}

func (a *heapArena) Data() []float64 { return a.buf }
func (a *heapArena) Len() int        { return len(a.buf) }

func (a *heapArena) Free() error {
	a.buf = nil
	return nil
}

type mapArena struct {
	m   mmap.MMap
	buf []float64
}

func mapAlloc(n int, _ bool) (Arena, error) {
	if n == 0 {
		return &mapArena{}, nil
	}
	m, err := mmap.MapRegion(nil, n*8, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap of %d elements failed: %w", n, ErrOutOfMemory)
	}
	// Anonymous pages arrive zero-filled from the OS, so the zeroed flag
	// needs no extra work on this backing.
	buf := unsafe.Slice((*float64)(unsafe.Pointer(&m[0])), n)
	return &mapArena{m: m, buf: buf}, nil
}

func (a *mapArena) Data() []float64 { return a.buf }
func (a *mapArena) Len() int        { return len(a.buf) }

func (a *mapArena) Free() error {
	if a.m == nil {
		return nil
	}
	err := a.m.Unmap()
	a.m = nil
	a.buf = nil
	return err
}
