package zeta

import (
	"github.com/tuneinsight/dirichlet/arb"
)

// Xi returns the Riemann xi function xi(s) = (1/2) s (s-1) pi^(-s/2) Gamma(s/2) zeta(s),
// which satisfies xi(s) = xi(1 - s) and equals 1/2 at s = 0 and s = 1.
func Xi(s *arb.Complex, prec uint) *arb.Complex {
	if !s.IsFinite() {
		return arb.IndeterminateComplex()
	}
	if n, ok := exactInt(s); ok && (n == 0 || n == 1) {
		return arb.NewComplexFloat64(0.5, 0)
	}

	wp := prec + 16 + magBits(s.AbsUpper())

	// (s - 1) zeta(s), through the deflated zeta function near the pole
	sm1 := new(arb.Complex).AddInt64(s, -1, wp)
	var z *arb.Complex
	if d := sm1.AbsUpper(); d.Cmp(arb.NewMag(0.5)) < 0 {
		zd := HurwitzSeries(s, arb.NewRealInt64(1), true, 1, wp)
		z = new(arb.Complex).Mul(&zd[0], sm1, wp)
		z.AddInt64(z, 1, wp)
	} else {
		z = new(arb.Complex).Mul(Zeta(s, wp), sm1, wp)
	}

	h := new(arb.Complex).Mul2Exp(s, -1)
	g := new(arb.Complex).Gamma(h, wp)
	z.Mul(z, g, wp)

	h.Neg(h)
	g.PowReal(arb.Pi(wp), h, wp)
	z.Mul(z, g, wp)

	z.Mul(z, s, wp)
	z.Mul2Exp(z, -1)
	return z.SetRound(z, prec)
}
