package dirichlet

import (
	"fmt"
	"math"

	"github.com/tuneinsight/dirichlet/arb"
)

// Theta returns theta(chi, t) = sum_{n >= 1} chi(n) n^e exp(-pi n^2 t / q),
// where e is the parity of chi and t > 0. The truncation error is included
// in the radius of the result.
func Theta(chi *Char, t *arb.Real, prec uint) *arb.Complex {
	G := chi.Group()
	e := chi.Parity()

	tf := t.Float64()
	if !(tf > 0) || math.IsInf(tf, 0) {
		return arb.IndeterminateComplex()
	}

	// a = pi t / q, lowered for the truncation bound
	af := math.Pi * tf / float64(G.q) * (1 - 1e-9)
	n := int(math.Ceil(math.Sqrt(float64(prec+8) * math.Ln2 / af)))
	if m := int(math.Ceil(1/math.Sqrt(2*af))) + 1; n < m {
		n = m
	}

	wp := prec + 16
	a := new(arb.Real).Mul(arb.Pi(wp), t, wp)
	a.DivInt64(a, int64(G.q), wp)
	a.Neg(a)

	v := ChiVec(chi, n+1)
	roots := NewRoots(chi.order, wp)

	res := arb.NewComplex()
	z := arb.NewComplex()
	x := new(arb.Real)
	for k := 1; k <= n; k++ {
		if v[k] == Null {
			continue
		}
		x.MulInt64(a, int64(k)*int64(k), wp)
		x.Exp(x, wp)
		if e == 1 {
			x.MulInt64(x, int64(k), wp)
		}
		roots.Pow(z, v[k])
		z.MulReal(z, x, wp)
		res.Add(res, z, wp)
	}

	// sum_{k > n} k exp(-a k^2) <= exp(-a n^2) (1/(2a) + n + 1)
	tail := arb.MagMul(
		arb.NewMag2Exp(-int64(af*float64(n)*float64(n)/math.Ln2)+1),
		arb.NewMag(1/(2*af)+float64(n)+1))
	res.AddError(tail)

	return res.SetRound(res, prec)
}

// RootNumber returns the root number W(chi) = tau(chi) / (i^e sqrt(q)) of a
// primitive character.
func RootNumber(chi *Char, prec uint) (*arb.Complex, error) {
	if !chi.IsPrimitive() {
		return nil, fmt.Errorf("cannot RootNumber: %s is not primitive: %w", chi, ErrInvalidArgument)
	}
	G := chi.Group()
	res := GaussSum(chi, prec+4)
	sq := new(arb.Real).SqrtUint(G.q, prec+4)
	res.DivReal(res, sq, prec)
	if chi.Parity() == 1 {
		res.MulNegI(res)
	}
	return res, nil
}

// RootNumberTheta returns the root number of a primitive character from
// the functional equation theta(chi, 1/t) = W t^(e + 1/2) theta(conj chi, t).
func RootNumberTheta(chi *Char, prec uint) (*arb.Complex, error) {
	if !chi.IsPrimitive() {
		return nil, fmt.Errorf("cannot RootNumberTheta: %s is not primitive: %w", chi, ErrInvalidArgument)
	}
	return rootNumberTheta(chi, prec), nil
}

// rootNumberTheta tries t = 1, 9/8, 10/8, ... until theta(conj chi, t)
// is bounded away from zero.
func rootNumberTheta(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	if G.q == 1 {
		return arb.NewComplex().One()
	}

	wp := prec + 8
	e := int64(chi.Parity())

	var res *arb.Complex
	for j := int64(0); j < 8; j++ {
		t := new(arb.Real).SetFrac(8+j, 8, wp)
		ti := new(arb.Real).SetFrac(8, 8+j, wp)

		den := Theta(chi, t, wp)
		// theta(conj chi, t) is the conjugate of theta(chi, t)
		den.Conj(den)
		if den.ContainsZero() {
			continue
		}

		num := Theta(chi, ti, wp)

		// t^(e + 1/2)
		s := new(arb.Real).Sqrt(t, wp)
		if e == 1 {
			s.Mul(s, t, wp)
		}
		den.MulReal(den, s, wp)

		res = num.Div(num, den, prec)
		break
	}

	if res == nil {
		return arb.IndeterminateComplex()
	}
	return res
}
