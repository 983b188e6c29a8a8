package zeta

import (
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
)

// Largest index accepted by Stieltjes.
const stieltjesMaxIndex = 10000

// Stieltjes returns the generalized Stieltjes constant gamma_n(a), defined by
//
//	zeta(s, a) = 1/(s - 1) + sum_{n>=0} (-1)^n gamma_n(a) (s - 1)^n / n!
//
// for a > 0. gamma_0(1) is the Euler-Mascheroni constant and gamma_0(a) = -psi(a).
// The constants are read off the Euler-Maclaurin expansion of the deflated
// Hurwitz zeta function at s = 1.
func Stieltjes(n int, a *arb.Real, prec uint) *arb.Real {
	if n < 0 || n > stieltjesMaxIndex || !a.IsFinite() || !a.IsPositive() {
		return arb.Indeterminate()
	}

	// the coefficients lose about 2.2 bits per index to cancellation
	wp := uint(1.05*float64(prec)+2.2*float64(n)) + 10

	h := HurwitzSeries(arb.NewComplexInt64(1, 0), a, true, n+1, wp)
	res := new(arb.Real).Set(&h[n].Re)
	res.Mul(res, new(arb.Real).SetBigInt(new(big.Int).MulRange(1, int64(n))), wp)
	if n&1 == 1 {
		res.Neg(res)
	}
	return res.SetRound(res, prec)
}
