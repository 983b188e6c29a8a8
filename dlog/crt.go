package dlog

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// CRT is the Pohlig-Hellman decomposition: the order n = prod p_i^e_i is
// split into coprime prime powers, each solved by a nested context on the
// subgroup of order p_i^e_i, and the logs are recombined by the Chinese
// remainder theorem.
type CRT struct {
	base
	expo   []uint64 // n / p_i^e_i
	coeffs []uint64 // CRT coefficients mod n
	pre    []Context
}

func newCRT(a, mod, n uint64, factors []factorization.Factor, nqueries uint64) (*CRT, error) {
	t := &CRT{base: base{a: a, mod: mod, order: n}}
	for _, f := range factors {
		pe, _ := factorization.Power(f.P, f.E)
		c := n / pe
		inv, ok := utils.InvMod(c%pe, pe)
		if !ok {
			return nil, fmt.Errorf("cannot NewPrecomp: invalid factorization of %d: %w", n, ErrInvalidArgument)
		}
		t.expo = append(t.expo, c)
		t.coeffs = append(t.coeffs, utils.MulMod(c, inv, n))

		pre, err := NewPrecomp(utils.PowMod(a, c, mod), mod, pe, nqueries)
		if err != nil {
			return nil, err
		}
		t.pre = append(t.pre, pre)
	}
	return t, nil
}

// Strategy returns StrategyCRT.
func (t *CRT) Strategy() Strategy {
	return StrategyCRT
}

// Log returns log_a(b).
func (t *CRT) Log(b uint64) (uint64, error) {
	var x uint64
	for i, pre := range t.pre {
		xi, err := pre.Log(utils.PowMod(b, t.expo[i], t.mod))
		if err != nil {
			return 0, err
		}
		x = utils.AddMod(x, utils.MulMod(xi, t.coeffs[i], t.order), t.order)
	}
	return t.check(x, b)
}
