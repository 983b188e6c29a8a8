package dlog

import (
	"github.com/tuneinsight/dirichlet/utils"
)

// PowerPrime computes logs for a base of order p^e digit by digit: the i-th
// base-p digit is the log of (b a^-x)^(p^(e-1-i)) in the subgroup of order p.
type PowerPrime struct {
	base
	p   uint64
	e   int
	apk []uint64 // a^-(p^k)
	pre Context  // subgroup of order p
}

func newPowerPrime(a, mod, p uint64, e int, nqueries uint64) (*PowerPrime, error) {
	n := utils.PowUint(p, uint64(e))
	t := &PowerPrime{base: base{a: a, mod: mod, order: n}, p: p, e: e, apk: make([]uint64, e)}

	ainv, _ := utils.InvMod(a, mod)
	t.apk[0] = ainv
	for k := 1; k < e; k++ {
		t.apk[k] = utils.PowMod(t.apk[k-1], p, mod)
	}

	// a^(p^(e-1)) has order p
	ap := utils.PowMod(a, n/p, mod)
	pre, err := NewPrecomp(ap, mod, p, nqueries*uint64(e))
	if err != nil {
		return nil, err
	}
	t.pre = pre
	return t, nil
}

// Strategy returns StrategyPowerPrime.
func (t *PowerPrime) Strategy() Strategy {
	return StrategyPowerPrime
}

// Log returns log_a(b).
func (t *PowerPrime) Log(b uint64) (uint64, error) {
	var x uint64
	pk := uint64(1)      // p^k
	pe1 := t.order / t.p // p^(e-1-k)
	y := b % t.mod
	for k := 0; k < t.e; k++ {
		d, err := t.pre.Log(utils.PowMod(y, pe1, t.mod))
		if err != nil {
			return 0, err
		}
		// y <- y a^-(d p^k)
		y = utils.MulMod(y, utils.PowMod(t.apk[k], d, t.mod), t.mod)
		x += d * pk
		pk *= t.p
		pe1 /= t.p
	}
	return t.check(x, b)
}
