package dirichlet

import (
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dft"
)

// Above this order roots of unity are evaluated on demand.
const rootsTableLimit = 1 << 16

// Roots evaluates the roots of unity exp(2 pi i k / order).
type Roots struct {
	order uint64
	prec  uint
	table []arb.Complex
}

// NewRoots returns the roots of unity of the given order at precision prec.
// Small orders share the tables cached by the dft package.
func NewRoots(order uint64, prec uint) *Roots {
	r := &Roots{order: order, prec: prec}
	if order <= rootsTableLimit {
		r.table = dft.Roots(int(order), prec)
	}
	return r
}

// Order returns the order of the roots.
func (r *Roots) Order() uint64 {
	return r.order
}

// Pow sets z to exp(2 pi i k / order) and returns z.
func (r *Roots) Pow(z *arb.Complex, k uint64) *arb.Complex {
	k %= r.order
	if r.table != nil {
		// the cached table holds exp(-2 pi i k / order)
		return z.Set(&r.table[(r.order-k)%r.order])
	}
	return unitRoot(z, k, r.order, r.prec)
}

// unitRoot sets z to exp(2 pi i k / n).
func unitRoot(z *arb.Complex, k, n uint64, prec uint) *arb.Complex {
	k %= n
	if k == 0 {
		return z.One()
	}
	num := new(big.Int).SetUint64(k)
	num.Lsh(num, 1)
	x := new(arb.Real).SetRat(new(big.Rat).SetFrac(num, new(big.Int).SetUint64(n)), prec+8)
	return z.ExpPiI(x, prec)
}

// ChiValue returns chi(n) as a complex ball, zero at non-units.
func ChiValue(chi *Char, n uint64, prec uint) *arb.Complex {
	v := chi.Chi(n)
	if v == Null {
		return arb.NewComplex()
	}
	return unitRoot(arb.NewComplex(), v, chi.order, prec)
}

// ChiVecValues returns the values chi(n) for n < nv.
func ChiVecValues(chi *Char, nv int, prec uint) []arb.Complex {
	v := ChiVec(chi, nv)
	z := make([]arb.Complex, nv)
	roots := NewRoots(chi.order, prec)
	for n := range v {
		if v[n] == Null {
			z[n].Zero()
			continue
		}
		roots.Pow(&z[n], v[n])
	}
	return z
}
