package dlog

import (
	"github.com/tuneinsight/dirichlet/utils"
)

// BSGS is Shanks' baby-step giant-step with a table of m baby steps.
// A query costs about n/m giant steps.
type BSGS struct {
	base
	m     uint64
	am    uint64 // a^-m
	table map[uint64]uint64
}

func newBSGS(a, mod, n, m uint64) *BSGS {
	t := &BSGS{base: base{a: a, mod: mod, order: n}, m: m, table: make(map[uint64]uint64, m)}
	x := uint64(1) % mod
	for k := uint64(0); k < m; k++ {
		if _, ok := t.table[x]; !ok {
			t.table[x] = k
		}
		x = utils.MulMod(x, a, mod)
	}
	// x = a^m
	inv, _ := utils.InvMod(x, mod)
	t.am = inv
	return t
}

// Strategy returns StrategyBSGS.
func (t *BSGS) Strategy() Strategy {
	return StrategyBSGS
}

// Log returns log_a(b).
func (t *BSGS) Log(b uint64) (uint64, error) {
	y := b % t.mod
	for i := uint64(0); i*t.m < t.order; i++ {
		if j, ok := t.table[y]; ok {
			return t.check((i*t.m+j)%t.order, b)
		}
		y = utils.MulMod(y, t.am, t.mod)
	}
	return t.check(0, b)
}
