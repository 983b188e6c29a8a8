package zeta

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dirichlet"
)

// Number of terms after which the sums of LRational give up.
const afeMaxTerms = 1 << 20

// LRational returns L(s, chi) at a rational point s for a primitive character,
// from the approximate functional equation
//
//	Gamma((s+e)/2) L(s, chi) = S(s, chi) + W (pi/q)^(s-1/2) S(1-s, conj chi) [+ pi^(s/2) / (s(s-1))]
//
// with S(s, chi) = sum_n chi(n) n^-s Gamma((s+e)/2, pi n^2 / q), e the parity
// of chi and W its root number. The last term is only present for q = 1.
// A nil group or the group modulo 1 stands for the Riemann zeta function. The
// result is indeterminate for imprimitive characters.
func LRational(s *big.Rat, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Complex {
	q, e := uint64(1), 0
	if isCharacter(G) {
		if !chi.IsPrimitive() {
			return arb.IndeterminateComplex()
		}
		q, e = G.Q(), chi.Parity()
	}
	isReal := q == 1 || chi.IsReal()

	if s.IsInt() {
		n := s.Num()
		switch {
		case q == 1 && n.Sign() == 0:
			return arb.NewComplexFloat64(-0.5, 0)
		case q == 1 && n.IsInt64() && n.Int64() == 1:
			return arb.IndeterminateComplex()
		case e == 0 && n.Sign() <= 0 && n.Bit(0) == 0, e == 1 && n.Sign() < 0 && n.Bit(0) == 1:
			// trivial zero, at a pole of Gamma((s+e)/2)
			return arb.NewComplex()
		}
	}

	wp := prec + prec/1000 + 2*uint(bits.Len64(q)) + 16

	// magnitudes of the two sums
	ds, _ := s.Float64()
	pq := math.Pi / float64(q)
	m1 := logGammaUpperApprox(0.5*(ds+float64(e)), pq) / math.Ln2
	m2 := logGammaUpperApprox(0.5*(1-ds+float64(e)), pq) / math.Ln2
	m2pre := (ds - 0.5) * math.Log2(pq)
	top := math.Max(m1, m2+m2pre)
	tol1 := top - float64(wp)

	S1 := afeSum(s, chi, q, e, tol1, wp)
	if S1 == nil {
		return arb.IndeterminateComplex()
	}

	half := s.Cmp(big.NewRat(1, 2)) == 0
	res := new(arb.Complex)
	if q == 1 && half {
		res.Mul2Exp(S1, 1)
	} else {
		var S2 *arb.Complex
		if half {
			S2 = new(arb.Complex).Conj(S1)
		} else {
			r := new(big.Rat).Sub(big.NewRat(1, 1), s)
			if S2 = afeSum(r, chi, q, e, tol1-m2pre, wp); S2 == nil {
				return arb.IndeterminateComplex()
			}
			S2.Conj(S2)
		}

		// (pi/q)^(s-1/2)
		t := new(arb.Real).DivInt64(arb.Pi(wp), int64(q), wp)
		x := new(arb.Real).SetRat(new(big.Rat).Sub(s, big.NewRat(1, 2)), wp)
		S2.MulReal(S2, t.Pow(t, x, wp), wp)

		if q != 1 {
			W, err := dirichlet.RootNumber(chi, wp)
			if err != nil {
				return arb.IndeterminateComplex()
			}
			if isReal {
				W.Im.Zero()
			}
			S2.Mul(S2, W, wp)
		}
		res.Add(S1, S2, wp)
	}

	if q == 1 {
		// pi^(s/2) / (s(s-1))
		h := new(big.Rat).Quo(s, big.NewRat(2, 1))
		t := new(arb.Real).Pow(arb.Pi(wp), new(arb.Real).SetRat(h, wp), wp)
		d := new(big.Rat).Sub(s, big.NewRat(1, 1))
		d.Mul(d, s)
		t.Div(t, new(arb.Real).SetRat(d, wp), wp)
		res.AddReal(res, t, wp)
	}

	// divide by Gamma((s+e)/2)
	a := new(big.Rat).Add(s, big.NewRat(int64(e), 1))
	a.Quo(a, big.NewRat(2, 1))
	g := new(arb.Real).Gamma(new(arb.Real).SetRat(a, wp), wp)
	res.DivReal(res, g, wp)

	if isReal {
		res.Im.Zero()
	}
	return res.SetRound(res, prec)
}

// afeSum returns S(s, chi) = sum_n chi(n) n^-s Gamma((s+e)/2, pi n^2 / q),
// stopping once the tail bound is below 2^tol, or nil if it never is.
func afeSum(s *big.Rat, chi *dirichlet.Char, q uint64, e int, tol float64, wp uint) *arb.Complex {
	a := new(big.Rat).Add(s, big.NewRat(int64(e), 1))
	a.Quo(a, big.NewRat(2, 1))
	ar := new(arb.Real).SetRat(a, wp)
	sr := new(arb.Real).SetRat(s, wp)

	eps := arb.NewMag2Exp(int64(math.Floor(tol)))
	pi := arb.Pi(wp)

	res := new(arb.Complex)
	x := new(arb.Real)
	g := new(arb.Real)
	ns := new(arb.Real)
	c := arb.NewComplexInt64(1, 0)
	for n := int64(1); n < afeMaxTerms; n++ {
		if err := afeTailBound(a, n, q, e); err.Cmp(eps) < 0 {
			if q == 1 || chi.IsReal() {
				res.Re.AddError(err)
			} else {
				res.AddError(err)
			}
			return res
		}

		if q != 1 {
			if c = dirichlet.ChiValue(chi, uint64(n), wp); c.IsZero() {
				continue
			}
		}

		// Gamma(a, pi n^2 / q) n^-s
		x.MulInt64(pi, n*n, wp)
		x.DivInt64(x, int64(q), wp)
		g.GammaUpper(ar, x, wp)
		ns.Pow(ns.SetInt64(n), sr, wp)
		g.Div(g, ns, wp)

		res.Re.MulAdd(&c.Re, g, wp)
		res.Im.MulAdd(&c.Im, g, wp)
	}
	return nil
}

// afeTailBound bounds sum_{n>=N} |n^-s Gamma(a, pi n^2 / q)| with a = (s+e)/2
// and s' = ceil(a) by
//
//	exp(-pi N^2/q) / N^(2-e) (1 + q/pi) max(1, 2^s') (pi/q)^(s'-1)
//
// when pi N^2 / q > s', and is infinite otherwise.
func afeTailBound(a *big.Rat, N int64, q uint64, e int) arb.Mag {
	const p = 64

	sp := new(big.Int).Neg(a.Num())
	sp.Div(sp, a.Denom())
	sp.Neg(sp)
	if !sp.IsInt64() {
		return arb.MagInf()
	}
	s1 := sp.Int64()

	x := new(arb.Real).MulInt64(arb.Pi(p), N*N, p)
	x.DivInt64(x, int64(q), p)
	if s1 > 0 && !arb.NewRealInt64(s1).Less(x) {
		return arb.MagInf()
	}

	res := new(arb.Real).Neg(x)
	res.Exp(res, p)
	res.DivInt64(res, N, p)
	if e == 0 {
		res.DivInt64(res, N, p)
	}

	qpi := new(arb.Real).Div(arb.NewRealInt64(int64(q)), arb.Pi(p), p)
	res.Mul(res, qpi.AddInt64(qpi, 1, p), p)
	if s1 > 0 {
		res.Mul2Exp(res, int(s1))
	}

	piq := new(arb.Real).DivInt64(arb.Pi(p), int64(q), p)
	res.Mul(res, piq.PowInt(piq, s1-1, p), p)
	return res.AbsUpper()
}

// logGammaUpperApprox estimates log Gamma(a, z).
func logGammaUpperApprox(a, z float64) float64 {
	if a < z {
		return (a-1)*math.Log(z) - z
	}
	return a * (math.Log(a) - 1)
}
