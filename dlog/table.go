package dlog

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/utils"
)

// Table stores log_a(x) for every power x of a.
type Table struct {
	base
	table []uint64
}

func newTable(a, mod, n uint64) *Table {
	t := &Table{base: base{a: a, mod: mod, order: n}, table: make([]uint64, mod)}
	for i := range t.table {
		t.table[i] = None
	}
	x := uint64(1) % mod
	for k := uint64(0); k < n; k++ {
		if t.table[x] == None {
			t.table[x] = k
		}
		x = utils.MulMod(x, a, mod)
	}
	return t
}

// Strategy returns StrategyTable.
func (t *Table) Strategy() Strategy {
	return StrategyTable
}

// Log returns log_a(b).
func (t *Table) Log(b uint64) (uint64, error) {
	if x := t.table[b%t.mod]; x != None {
		return x, nil
	}
	return 0, fmt.Errorf("cannot Log %d in base %d mod %d: %w", b, t.a, t.mod, ErrNotFound)
}
