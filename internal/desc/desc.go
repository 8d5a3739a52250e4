// Package desc implements tile descriptors: the mapping of a logical M x N
// matrix onto a grid of MT x NT tiles inside a flat backing arena.
//
// A descriptor is immutable once created. Sub-matrix views share the parent's
// arena with adjusted offset and extent; the view never owns the backing
// store. Tiles are stored as contiguous MB x NB row-major slots, tile columns
// laid out one after another, so a tile's address is an element offset into
// the arena rather than a raw pointer.
package desc

import (
	"errors"
	"fmt"

	"github.com/quarrylab/quarry/internal/arena"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrIllegalValue  = errors.New("desc: illegal descriptor parameter")
	ErrInvalidIndex  = errors.New("desc: tile index out of range")
	ErrInvalidAccess = errors.New("desc: tile outside stored triangle")
	ErrOutOfBounds   = errors.New("desc: view exceeds parent extent")
)

// Kind is the storage kind of a descriptor.
type Kind int

// Storage kinds. Triangular kinds restrict which tiles may be addressed;
// the slot layout is the same as General.
const (
	General Kind = iota
	Lower
	Upper
)

// Precision tags the element type of the backing store.
type Precision int

// Supported element tags.
const (
	Float64 Precision = iota
	Float32
)

// Size returns the element size in bytes.
func (p Precision) Size() int {
	if p == Float32 {
		return 4
	}
	return 8
}

// Desc describes one tiled matrix or a sub-matrix view of one.
type Desc struct {
	Kind Kind
	Prec Precision

	MB, NB int // tile rows, tile cols
	GM, GN int // rows, cols of the whole backing allocation
	I, J   int // row, col offset of this view within the allocation
	M, N   int // rows, cols of this view

	GMT, GNT int // tile grid of the allocation
	MT, NT   int // tile grid of this view

	store arena.Arena
	owned bool
}

// Tile is one addressable tile of a descriptor. Data starts at the tile's
// first element and rows are Stride elements apart. Slot is the tile's
// position in the allocation's slot grid and doubles as the scheduling
// region identity for the tile.
type Tile struct {
	Data   []float64
	Stride int
	Rows   int
	Cols   int
	Store  arena.Arena
	Slot   int
}

func tileCount(off, extent, tile int) int {
	if extent == 0 {
		return 0
	}
	return (off+extent-1)/tile - off/tile + 1
}

// New builds a descriptor over geometry only, without a backing store.
// The caller binds an arena with Bind or allocates one with Create.
func New(kind Kind, prec Precision, mb, nb, gm, gn, i, j, m, n int) (Desc, error) {
	switch {
	case kind != General && kind != Lower && kind != Upper:
		return Desc{}, fmt.Errorf("kind = %d: %w", kind, ErrIllegalValue)
	case prec != Float64 && prec != Float32:
		return Desc{}, fmt.Errorf("precision = %d: %w", prec, ErrIllegalValue)
	case mb < 1 || nb < 1:
		return Desc{}, fmt.Errorf("tile size %dx%d: %w", mb, nb, ErrIllegalValue)
	case kind != General && mb != nb:
		return Desc{}, fmt.Errorf("triangular storage needs square tiles, got %dx%d: %w", mb, nb, ErrIllegalValue)
	case gm < 0 || gn < 0 || m < 0 || n < 0 || i < 0 || j < 0:
		return Desc{}, fmt.Errorf("negative extent or offset: %w", ErrIllegalValue)
	case i+m > gm || j+n > gn:
		return Desc{}, fmt.Errorf("view %dx%d at (%d,%d) exceeds allocation %dx%d: %w",
			m, n, i, j, gm, gn, ErrIllegalValue)
	}
	return Desc{
		Kind: kind,
		Prec: prec,
		MB:   mb, NB: nb,
		GM: gm, GN: gn,
		I: i, J: j,
		M: m, N: n,
		GMT: (gm + mb - 1) / mb,
		GNT: (gn + nb - 1) / nb,
		MT:  tileCount(i, m, mb),
		NT:  tileCount(j, n, nb),
	}, nil
}

// Create builds a descriptor for an m x n matrix with no offset and
// allocates its backing arena. The returned descriptor owns the arena and
// must be released with Free.
func Create(kind Kind, prec Precision, mb, nb, m, n int, ak arena.Kind, zeroed bool) (Desc, error) {
	d, err := New(kind, prec, mb, nb, m, n, 0, 0, m, n)
	if err != nil {
		return Desc{}, err
	}
	store, err := arena.Alloc(d.GMT*d.GNT*mb*nb, ak, zeroed)
	if err != nil {
		return Desc{}, err
	}
	d.store = store
	d.owned = true
	return d, nil
}

// Bind returns a copy of d addressing store. The copy does not own store.
func (d Desc) Bind(store arena.Arena) Desc {
	d.store = store
	d.owned = false
	return d
}

// Store returns the backing arena.
func (d Desc) Store() arena.Arena { return d.store }

// Free releases the backing arena if this descriptor owns it. Freeing a
// view is a no-op.
func (d Desc) Free() error {
	if !d.owned || d.store == nil {
		return nil
	}
	return d.store.Free()
}

// TileRows returns the effective row count of tile row m. The first tile
// absorbs the view offset modulo the tile size, the last tile the trailing
// remainder.
func (d Desc) TileRows(m int) (int, error) {
	if m < 0 || m >= d.MT {
		return 0, fmt.Errorf("tile row %d of %d: %w", m, d.MT, ErrInvalidIndex)
	}
	switch {
	case d.MT == 1:
		return d.M, nil
	case m == 0:
		return d.MB - d.I%d.MB, nil
	case m == d.MT-1:
		return (d.I+d.M-1)%d.MB + 1, nil
	default:
		return d.MB, nil
	}
}

// TileCols returns the effective column count of tile column n.
func (d Desc) TileCols(n int) (int, error) {
	if n < 0 || n >= d.NT {
		return 0, fmt.Errorf("tile col %d of %d: %w", n, d.NT, ErrInvalidIndex)
	}
	switch {
	case d.NT == 1:
		return d.N, nil
	case n == 0:
		return d.NB - d.J%d.NB, nil
	case n == d.NT-1:
		return (d.J+d.N-1)%d.NB + 1, nil
	default:
		return d.NB, nil
	}
}

// RowStart returns the view-relative row index of the first row of tile
// row m, the complement of TileRows.
func (d Desc) RowStart(m int) int {
	if m == 0 {
		return 0
	}
	return (d.MB - d.I%d.MB) + (m-1)*d.MB
}

// ColStart returns the view-relative column index of the first column of
// tile column n.
func (d Desc) ColStart(n int) int {
	if n == 0 {
		return 0
	}
	return (d.NB - d.J%d.NB) + (n-1)*d.NB
}

// Slot returns the allocation slot index of tile (m, n) of this view.
func (d Desc) Slot(m, n int) int {
	gm := d.I/d.MB + m
	gn := d.J/d.NB + n
	return gn*d.GMT + gm
}

// TileOffset returns the element offset of tile (m, n)'s first element
// within the arena. For triangular storage only tiles of the stored
// triangle are addressable.
func (d Desc) TileOffset(m, n int) (int, error) {
	if m < 0 || m >= d.MT {
		return 0, fmt.Errorf("tile row %d of %d: %w", m, d.MT, ErrInvalidIndex)
	}
	if n < 0 || n >= d.NT {
		return 0, fmt.Errorf("tile col %d of %d: %w", n, d.NT, ErrInvalidIndex)
	}
	gm := d.I/d.MB + m
	gn := d.J/d.NB + n
	if d.Kind == Lower && gm < gn || d.Kind == Upper && gm > gn {
		return 0, fmt.Errorf("tile (%d,%d) of %v storage: %w", m, n, d.Kind, ErrInvalidAccess)
	}
	off := (gn*d.GMT + gm) * d.MB * d.NB
	if m == 0 {
		off += (d.I % d.MB) * d.NB
	}
	if n == 0 {
		off += d.J % d.NB
	}
	return off, nil
}

// Tile resolves tile (m, n) into an addressable Tile.
func (d Desc) Tile(m, n int) (Tile, error) {
	off, err := d.TileOffset(m, n)
	if err != nil {
		return Tile{}, err
	}
	rows, err := d.TileRows(m)
	if err != nil {
		return Tile{}, err
	}
	cols, err := d.TileCols(n)
	if err != nil {
		return Tile{}, err
	}
	slot := d.Slot(m, n)
	end := (slot + 1) * d.MB * d.NB
	return Tile{
		Data:   d.store.Data()[off:end],
		Stride: d.NB,
		Rows:   rows,
		Cols:   cols,
		Store:  d.store,
		Slot:   slot,
	}, nil
}

// View produces a non-owning sub-matrix descriptor of rows x cols elements
// starting at (i, j) relative to d's own origin.
func (d Desc) View(i, j, rows, cols int) (Desc, error) {
	if i < 0 || j < 0 || rows < 0 || cols < 0 || i+rows > d.M || j+cols > d.N {
		return Desc{}, fmt.Errorf("view %dx%d at (%d,%d) of %dx%d: %w",
			rows, cols, i, j, d.M, d.N, ErrOutOfBounds)
	}
	v, err := New(d.Kind, d.Prec, d.MB, d.NB, d.GM, d.GN, d.I+i, d.J+j, rows, cols)
	if err != nil {
		return Desc{}, err
	}
	v.store = d.store
	return v, nil
}
