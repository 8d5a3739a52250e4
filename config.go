// Copyright 2025 Quarry Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package quarry

import (
	"runtime"

	"github.com/quarrylab/quarry/internal/arena"
)

// ArenaKind selects the backing store for tile matrices.
type ArenaKind = arena.Kind

const (
	// HeapArena backs tiles with ordinary garbage-collected slices.
	HeapArena ArenaKind = arena.Heap
	// MappedArena backs tiles with anonymous memory mappings, released
	// eagerly on Free.
	MappedArena ArenaKind = arena.Mapped
)

// Config carries the tuning knobs every entry point takes. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// NB is the tile order. Tiles are NB x NB except at matrix edges.
	NB int
	// IB is the inner block size of the blocked Householder factors.
	IB int
	// TreeDomain is the flat-reduction domain size of the QR elimination
	// tree. Rows within a domain fold sequentially; domains merge
	// pairwise.
	TreeDomain int
	// Workers is the scheduler pool size.
	Workers int
	// Arena selects tile storage.
	Arena ArenaKind
}

// DefaultConfig returns the baseline tuning: 64 x 64 tiles, inner block 16,
// reduction domains of 4, one worker per CPU, heap storage.
func DefaultConfig() Config {
	return Config{
		NB:         64,
		IB:         16,
		TreeDomain: 4,
		Workers:    runtime.NumCPU(),
		Arena:      HeapArena,
	}
}

func (c Config) valid() bool {
	return c.NB > 0 && c.IB > 0 && c.IB <= c.NB && c.TreeDomain > 0 && c.Workers > 0
}
