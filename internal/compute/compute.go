// Package compute implements the parallel tile algorithm drivers.
//
// Each driver expresses one matrix operation as a walk over the tile grid in
// that operation's dependency order, emitting kernel-dispatch calls tagged
// with their read and write tiles. The scheduler, not the driver, decides
// the actual execution order among non-conflicting tasks. Drivers submit
// from a single goroutine and never block; every driver early-exits without
// submitting new work once its sequence has failed, and already-submitted
// tasks run to completion as guarded no-ops.
package compute

import (
	"github.com/quarrylab/quarry/internal/desc"
)

// tileAt, rowsOf and colsOf resolve indices the drivers have already
// validated; an error here is a programmer error in the driver walk.
func tileAt(d desc.Desc, m, n int) desc.Tile {
	t, err := d.Tile(m, n)
	if err != nil {
		panic(err)
	}
	return t
}

func rowsOf(d desc.Desc, m int) int {
	r, err := d.TileRows(m)
	if err != nil {
		panic(err)
	}
	return r
}

func colsOf(d desc.Desc, n int) int {
	c, err := d.TileCols(n)
	if err != nil {
		panic(err)
	}
	return c
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
