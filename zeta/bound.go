package zeta

import (
	"math"
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
)

// Working precision of the bounds below.
const boundPrec = 64

// zeta1pBound returns 1 + 1/x >= zeta(1 + x) for x > 0.
func zeta1pBound(x arb.Mag) arb.Mag {
	return arb.MagAdd(arb.MagDiv(arb.NewMag(1), x), arb.NewMag(1))
}

// Bound returns an upper bound of |zeta| on the ball s. Right of the extended
// strip -1/4 <= Re(s) <= 5/4 it uses zeta(sigma), inside it Rademacher's
// bound, and left of it the functional equation.
func Bound(s *arb.Complex) arb.Mag {
	if !s.IsFinite() {
		return arb.MagInf()
	}

	lb := s.Re.Lower(boundPrec)
	lo, _ := lb.Float64()
	hi, _ := s.Re.Upper(boundPrec).Float64()

	switch {
	case lo >= 1.25:
		x := new(big.Float).SetPrec(boundPrec).SetMode(big.ToNegativeInf)
		return zeta1pBound(arb.MagLowerFromBigFloat(x.Sub(lb, big.NewFloat(1))))
	case lo >= -0.25 && hi <= 1.25:
		return boundStrip(s)
	case hi <= -0.25:
		return boundFunctional(s)
	}

	// s overlaps the strip and at least one side of it
	ss := new(arb.Complex)
	ss.Im.Set(&s.Im)
	ss.Re.SetInterval(big.NewFloat(math.Max(lo, -0.25)), big.NewFloat(math.Min(hi, 1.25)), boundPrec)
	res := arb.MagMax(boundStrip(ss), arb.NewMag(5))
	if lo < -0.25 {
		ss.Re.SetInterval(big.NewFloat(lo), big.NewFloat(-0.25), boundPrec)
		res = arb.MagMax(res, boundFunctional(ss))
	}
	return res
}

// boundStrip applies Rademacher's bound: for -eta <= sigma <= 1 + eta with
// 0 < eta <= 1/2,
//
//	|zeta(s)| < 3 |(1+s)/(1-s)| |(1+s)/(2 pi)|^((1+eta-sigma)/2) zeta(1+eta).
func boundStrip(s *arb.Complex) arb.Mag {
	m := s.Re.Float64()
	r := s.Re.Rad().Float64()

	eta := math.Nextafter(math.Max(-m, m-1)+r, math.Inf(1))
	eta = math.Max(eta, 0.1)
	if eta > 0.5 {
		return arb.MagInf()
	}

	s1 := new(arb.Complex).AddInt64(s, 1, boundPrec)

	// |1+s|/(2 pi), with 1/(2 pi) < 163/1024
	t := arb.MagMul(s1.AbsUpper(), arb.NewMag(163.0/1024))
	if t.Cmp(arb.NewMag(1)) < 0 {
		t = arb.NewMag(1)
	}

	e := math.Nextafter((1+eta+r-m)/2, math.Inf(1))
	if e < 0 {
		e = 0
	}
	x := new(arb.Real).Pow(arb.NewRealBig(t.BigFloat()), arb.NewRealFloat64(e), boundPrec)
	res := x.AbsUpper()

	res = arb.MagMul(res, s1.AbsUpper())
	sm1 := new(arb.Complex).AddInt64(s, -1, boundPrec)
	res = arb.MagDiv(res, sm1.AbsLower())
	res = arb.MagMulFloat(res, 3)

	return arb.MagMul(res, zeta1pBound(arb.MagLowerFromBigFloat(big.NewFloat(eta))))
}

// boundFunctional applies, for sigma < 0,
//
//	|zeta(s)| <= (2 pi)^sigma |Gamma(1-s)| exp(pi |t|/2) zeta(1-sigma) / pi.
func boundFunctional(s *arb.Complex) arb.Mag {
	if !s.Re.IsNegative() {
		return arb.MagInf()
	}

	wp := magBits(s.AbsUpper())
	if wp > 1000 {
		wp = 1000
	}
	wp += boundPrec

	z := new(arb.Complex).Neg(s)
	z.AddInt64(z, 1, wp)
	res := new(arb.Complex).Gamma(z, wp).AbsUpper()

	pi := arb.Pi(wp)
	x := new(arb.Real).Mul2Exp(pi, 1)
	x.Pow(x, &s.Re, wp)
	res = arb.MagMul(res, x.AbsUpper())

	// 1/pi < 1/3
	res = arb.MagDiv(res, arb.NewMag(3))

	x.Mul(pi, &s.Im, wp)
	x.Abs(x)
	x.Mul2Exp(x, -1)
	x.Exp(x, wp)
	res = arb.MagMul(res, x.AbsUpper())

	x.Neg(&s.Re)
	return arb.MagMul(res, zeta1pBound(x.AbsLower()))
}

// DerivBound returns upper bounds of |zeta'| and |zeta''| on the ball s from
// Cauchy's estimates on the ball s +/- 1/8.
func DerivBound(s *arb.Complex) (d1, d2 arb.Mag) {
	R := arb.NewMag2Exp(-3)
	t := new(arb.Complex).Set(s)
	t.Re.AddError(R)
	t.Im.AddError(R)
	M := Bound(t)
	d1 = arb.MagMul2Exp(M, 3)
	d2 = arb.MagMul2Exp(d1, 4)
	return d1, d2
}
