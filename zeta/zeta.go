// Package zeta evaluates the Riemann zeta function, the Hurwitz zeta function,
// Dirichlet L-functions and the Hardy Z and theta functions in ball arithmetic.
//
// Every function returns a ball that contains the exact value. Precision loss
// shows as a wide radius, and evaluations at a pole or outside the domain of a
// method return an indeterminate ball.
package zeta

import (
	"math"
	"math/big"
	"math/bits"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tuneinsight/dirichlet/arb"
)

var log = logging.Logger("zeta")

// Integer arguments up to this size use Bernoulli numbers.
const bernoulliLimit = 1000

// MaxPrecision returns the working precision at which the escalation loops
// started at precision prec give up.
func MaxPrecision(prec uint) uint {
	return 16*prec + 256
}

// Zeta returns zeta(s). The result is indeterminate when s contains 1.
func Zeta(s *arb.Complex, prec uint) *arb.Complex {
	if !s.IsFinite() {
		return arb.IndeterminateComplex()
	}

	if n, ok := exactInt(s); ok {
		if z := zetaInt(n, prec); z != nil {
			return z
		}
	}

	if s.ContainsInt64(1) {
		return arb.IndeterminateComplex()
	}

	sigma := lowerFloat(&s.Re)
	switch {
	case sigma >= float64(prec):
		return oneLargeRe(sigma)
	case s.Re.IsNegative():
		return zetaReflect(s, prec)
	}

	if rsEligible(s, prec) {
		return zetaRS(s, 0, prec)
	}

	return Hurwitz(s, arb.NewRealInt64(1), prec)
}

// zetaInt returns zeta(n) in closed form when one applies, nil otherwise.
func zetaInt(n int64, prec uint) *arb.Complex {
	switch {
	case n == 1:
		return arb.IndeterminateComplex()
	case n == 0:
		return arb.NewComplexFloat64(-0.5, 0)
	case n < 0 && -n < bernoulliLimit:
		// zeta(n) = -B_{1-n} / (1-n)
		m := 1 - n
		r := new(big.Rat).Quo(arb.Bernoulli(int(m)), big.NewRat(-m, 1))
		return new(arb.Complex).SetReal(new(arb.Real).SetRat(r, prec))
	case n > 0 && n&1 == 0 && n < bernoulliLimit && float64(n) < float64(prec):
		return new(arb.Complex).SetReal(zetaEven(n, prec))
	case n > 0 && n&1 == 1 && float64(prec)/float64(n-1) <= 10:
		return new(arb.Complex).SetReal(EulerProductRealUI(uint64(n), []int8{1}, false, prec))
	}
	return nil
}

// zetaEven returns zeta(n) = |B_n| (2 pi)^n / (2 n!) for even n > 0.
func zetaEven(n int64, prec uint) *arb.Real {
	wp := prec + 2*uint(bits.Len64(uint64(n))) + 16

	f := new(big.Int).MulRange(1, n)
	f.Lsh(f, 1)
	c := new(big.Rat).Abs(arb.Bernoulli(int(n)))
	c.Quo(c, new(big.Rat).SetInt(f))

	pi2 := new(arb.Real).Mul2Exp(arb.Pi(wp), 1)
	res := new(arb.Real).PowUint(pi2, uint64(n), wp)
	res.Mul(res, new(arb.Real).SetRat(c, wp), wp)
	return res.SetRound(res, prec)
}

// oneLargeRe returns 1 +/- 2^(1 - sigma), which contains zeta(s) and L(s, chi)
// for Re(s) >= sigma >= 3.
func oneLargeRe(sigma float64) *arb.Complex {
	res := arb.NewComplexInt64(1, 0)
	return res.AddError(arb.NewMag2Exp(1 - int64(math.Floor(sigma))))
}

// zetaReflect applies zeta(s) = 2^s pi^(s-1) sin(pi s/2) Gamma(1-s) zeta(1-s).
func zetaReflect(s *arb.Complex, prec uint) *arb.Complex {
	wp := prec + 16 + magBits(s.AbsUpper())

	t := new(arb.Complex).Neg(s)
	t.AddInt64(t, 1, wp)

	res := Zeta(t, wp)
	g := new(arb.Complex).Gamma(t, wp)
	res.Mul(res, g, wp)

	a := new(arb.Complex).PowReal(arb.NewRealInt64(2), s, wp)
	res.Mul(res, a, wp)

	sm1 := new(arb.Complex).AddInt64(s, -1, wp)
	a.PowReal(arb.Pi(wp), sm1, wp)
	res.Mul(res, a, wp)

	h := new(arb.Complex).Mul2Exp(s, -1)
	a.SinPi(h, wp)
	return res.Mul(res, a, prec)
}

// exactInt returns n if s is the exact integer n.
func exactInt(s *arb.Complex) (int64, bool) {
	if !s.IsExact() || !s.Im.IsZero() {
		return 0, false
	}
	return s.Re.UniqueInt64()
}

// lowerFloat returns a float64 lower bound of x, -Inf if x is not finite.
func lowerFloat(x *arb.Real) float64 {
	f, _ := x.Lower(64).Float64()
	return f
}

// magBits returns the number of bits of the integer part of a bound.
func magBits(m arb.Mag) uint {
	if !m.IsFinite() {
		return 0
	}
	if e := m.Exp2(); e > 0 {
		return uint(e)
	}
	return 0
}
