package zeta

import (
	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dirichlet"
)

// HardyTheta returns the Hardy theta function of L(s, chi) at the real point t,
//
//	theta(t) = (t/2) log(q/pi) + Im log Gamma((1/2 + e + i t)/2) - arg(W)/2,
//
// where e is the parity and W the root number of chi. A nil group stands for
// the Riemann zeta function. The result is indeterminate for an imprimitive chi.
func HardyTheta(t *arb.Real, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Real {
	if !t.IsFinite() {
		return arb.Indeterminate()
	}

	q, e := uint64(1), 0
	if isCharacter(G) {
		if !chi.IsPrimitive() {
			return arb.Indeterminate()
		}
		q, e = G.Q(), chi.Parity()
	}

	wp := prec + magBits(t.AbsUpper()) + 16

	x := new(arb.Complex)
	x.Re.SetFrac(int64(2*e+1), 4, wp)
	x.Im.Mul2Exp(t, -1)
	lg := new(arb.Complex).LogGamma(x, wp)

	// (t/2) (log q - log pi)
	l := new(arb.Real).LogUint(q, wp)
	l.Sub(l, new(arb.Real).Log(arb.Pi(wp), wp), wp)
	l.Mul(l, &x.Im, wp)

	res := new(arb.Real).Add(&lg.Im, l, wp)

	if q > 1 {
		W, err := dirichlet.RootNumber(chi, wp)
		if err != nil {
			return arb.Indeterminate()
		}
		a := W.Arg(new(arb.Real), wp)
		a.Mul2Exp(a, -1)
		res.Sub(res, a, wp)
	}

	return res.SetRound(res, prec)
}

// HardyZ returns the Hardy Z function Z(t) = exp(i theta(t)) L(1/2 + i t, chi),
// which is real for real t. A nil group stands for the Riemann zeta function,
// for which large t go through the Riemann-Siegel formula.
func HardyZ(t *arb.Real, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Real {
	if !t.IsFinite() {
		return arb.Indeterminate()
	}

	s := new(arb.Complex)
	s.Re.SetFloat64(0.5)
	s.Im.Set(t)

	if !isCharacter(G) {
		if rsEligible(s, prec) {
			return RiemannSiegel(t, 0, prec)
		}
	}

	wp := prec + 2*magBits(t.AbsUpper()) + 8

	th := HardyTheta(t, G, chi, wp)
	th.Div(th, arb.Pi(wp), wp)
	z := new(arb.Complex).ExpPiI(th, wp)
	z.Mul(z, L(s, G, chi, wp), wp)

	return new(arb.Real).SetRound(&z.Re, prec)
}

// isCharacter returns false for the nil group and the group modulo 1, both
// standing for the Riemann zeta function.
func isCharacter(G *dirichlet.Group) bool {
	return G != nil && G.Q() > 1
}
