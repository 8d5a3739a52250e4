// Package rhtree plans tree-shaped Householder reductions over panel tiles.
//
// For each panel column the planner partitions the panel's row tiles into
// fixed-size domains. Each domain is triangularized at its head and reduced
// sequentially (TS eliminations), then the domain heads are merged pairwise
// in a binary tree (TT eliminations). Domain size 1 degenerates to a pure
// binary tree, domain size >= the row count to the flat sequential
// reduction. The schedule is a pure function of the grid shape and domain
// size: calling Operations twice yields identical lists.
package rhtree

// Kind discriminates the elimination kernels a record dispatches to.
type Kind int

// Operation kinds.
const (
	GE Kind = iota // triangularize one tile
	TT             // merge two triangularized tiles
	TS             // fold a square tile into a triangularized one
)

// Op is one elimination step. J is the panel column, K the row tile being
// triangularized (GE) or eliminated (TT, TS), and Kpiv the surviving pivot
// row tile. Kpiv is -1 for GE records.
type Op struct {
	Kind Kind
	J    int
	K    int
	Kpiv int
}

// Operations returns the elimination schedule for an mt x nt tile grid,
// panel by panel in factorization order. domain is the TS chain length;
// values below 1 are treated as 1. The caller owns the returned list.
func Operations(mt, nt, domain int) []Op {
	if domain < 1 {
		domain = 1
	}
	np := nt
	if mt < np {
		np = mt
	}

	var ops []Op
	for j := 0; j < np; j++ {
		// Triangularize each domain head and fold the rest of the
		// domain into it sequentially.
		var heads []int
		for start := j; start < mt; start += domain {
			end := start + domain
			if end > mt {
				end = mt
			}
			heads = append(heads, start)
			ops = append(ops, Op{Kind: GE, J: j, K: start, Kpiv: -1})
			for k := start + 1; k < end; k++ {
				ops = append(ops, Op{Kind: TS, J: j, K: k, Kpiv: start})
			}
		}

		// Merge domain heads pairwise, doubling the stride each round.
		for dist := 1; dist < len(heads); dist *= 2 {
			for i := 0; i+dist < len(heads); i += 2 * dist {
				ops = append(ops, Op{Kind: TT, J: j, K: heads[i+dist], Kpiv: heads[i]})
			}
		}
	}
	return ops
}

// Count returns the number of records Operations(mt, nt, domain) produces,
// without building the list.
func Count(mt, nt, domain int) int {
	if domain < 1 {
		domain = 1
	}
	np := nt
	if mt < np {
		np = mt
	}
	n := 0
	for j := 0; j < np; j++ {
		rows := mt - j
		domains := (rows + domain - 1) / domain
		// one GE per domain, TS for every other row, TT to merge heads
		n += domains + (rows - domains) + (domains - 1)
	}
	return n
}
