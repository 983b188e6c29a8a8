package dlog

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/utils"
)

// ModPe computes logs in (Z/p^eZ)^* for an odd prime p and a generator a of
// the whole group. The log modulo p-1 comes from a nested context modulo p,
// and the log modulo p^(e-1) is read digit by digit on 1 + pZ, where the
// elements of order p are 1 + k p^(e-1) and their logs are given by the
// Fermat quotient k.
type ModPe struct {
	base
	p, pe1 uint64 // p^(e-1)
	e      int
	modp   Context
	a1     uint64   // a^(p-1)
	a1pk   []uint64 // a1^-(p^k)
	q1     uint64   // Fermat quotient of a1^(p^(e-2)), inverted mod p
}

// NewModPe returns a context for the generator a of (Z/p^eZ)^*, p odd.
func NewModPe(a, p uint64, e int, nqueries uint64) (*ModPe, error) {
	if p == 2 || e < 1 {
		return nil, fmt.Errorf("cannot NewModPe: p must be odd and e positive: %w", ErrInvalidArgument)
	}
	pe1 := utils.PowUint(p, uint64(e-1))
	pe := pe1 * p
	if pe/p != pe1 {
		return nil, fmt.Errorf("cannot NewModPe: %d^%d overflows: %w", p, e, ErrInvalidArgument)
	}
	if a%p == 0 {
		return nil, fmt.Errorf("cannot NewModPe: base %d not invertible mod %d: %w", a, p, ErrInvalidArgument)
	}

	t := &ModPe{base: base{a: a % pe, mod: pe, order: pe1 * (p - 1)}, p: p, pe1: pe1, e: e}

	modp, err := NewPrecomp(a%p, p, p-1, nqueries)
	if err != nil {
		return nil, err
	}
	t.modp = modp

	if e > 1 {
		t.a1 = utils.PowMod(a, p-1, pe)
		t.a1pk = make([]uint64, e-1)
		inv, _ := utils.InvMod(t.a1, pe)
		t.a1pk[0] = inv
		for k := 1; k < e-1; k++ {
			t.a1pk[k] = utils.PowMod(t.a1pk[k-1], p, pe)
		}
		g := utils.PowMod(t.a1, pe1/p, pe)
		q := (g - 1) / pe1 % p
		if q == 0 {
			return nil, fmt.Errorf("cannot NewModPe: %d is not a generator mod %d^%d: %w", a, p, e, ErrInvalidArgument)
		}
		t.q1, _ = utils.InvMod(q, p)
	}

	return t, nil
}

// Strategy returns StrategyModPe.
func (t *ModPe) Strategy() Strategy {
	return StrategyModPe
}

// Log returns log_a(b).
func (t *ModPe) Log(b uint64) (uint64, error) {
	b %= t.mod
	if b%t.p == 0 {
		return 0, fmt.Errorf("cannot Log %d mod %d: %w", b, t.mod, ErrNotFound)
	}

	x1, err := t.modp.Log(b % t.p)
	if err != nil {
		return 0, err
	}

	if t.e == 1 {
		return t.check(x1, b)
	}

	// log of b^(p-1) in base a^(p-1), modulo p^(e-1)
	y := utils.PowMod(b, t.p-1, t.mod)
	var x2 uint64
	pk := uint64(1)
	pe1 := t.pe1 / t.p
	for k := 0; k < t.e-1; k++ {
		h := utils.PowMod(y, pe1, t.mod)
		d := utils.MulMod((h-1)/t.pe1%t.p, t.q1, t.p)
		y = utils.MulMod(y, utils.PowMod(t.a1pk[k], d, t.mod), t.mod)
		x2 += d * pk
		pk *= t.p
		pe1 /= t.p
	}

	// x = x1 mod p-1, x = x2 mod p^(e-1)
	n := t.order
	inv, _ := utils.InvMod((t.p-1)%t.pe1, t.pe1)
	// x = x1 + (p-1) * ((x2 - x1) / (p-1) mod p^(e-1))
	k := utils.MulMod(utils.SubMod(x2%t.pe1, x1%t.pe1, t.pe1), inv, t.pe1)
	x := (x1 + utils.MulMod(t.p-1, k, n)) % n
	return t.check(x, b)
}
