package arb

import (
	"math"
	"math/big"
)

// stirlingParams returns a shift r and a number of terms n such that the
// Stirling series of log Gamma at x + r truncated after n terms is accurate
// to about prec bits.
func stirlingParams(xr, xi float64, complexArg bool, prec uint) (r, n int) {
	R := 0.3*float64(prec) + 10
	if a := math.Hypot(xr, xi); a < R && math.Abs(xi) < R {
		r = int(math.Ceil(math.Sqrt(R*R-xi*xi) - xr))
		if r < 0 {
			r = 0
		}
	}
	for {
		wr := xr + float64(r)
		lw := math.Log2(math.Hypot(wr, xi))
		for k := 1; float64(k) < math.Pi*math.Pow(2, lw)+2; k++ {
			lg, _ := math.Lgamma(float64(2*k + 1))
			b := 2 + lg/math.Ln2 - float64(2*k)*math.Log2(2*math.Pi)
			b -= math.Log2(float64(2*k*(2*k-1))) + float64(2*k-1)*lw
			if complexArg {
				b += float64(k)
			}
			if b < -float64(prec) {
				return r, k
			}
		}
		r += 8
	}
}

// LogGamma sets z to the principal branch of log Gamma(x) for Re(x) > 0.
// The result is indeterminate otherwise.
func (z *Complex) LogGamma(x *Complex, prec uint) *Complex {
	if !x.IsFinite() || !x.Re.IsPositive() {
		return z.Indeterminate()
	}

	wp := prec + 16
	if e := x.AbsUpper().Exp2(); e > 0 {
		wp += uint(e)
	}

	isReal := x.Im.IsZero()
	xr, xi := x.Re.Float64(), x.Im.Float64()
	r, n := stirlingParams(xr, xi, !isReal, wp)

	w := new(Complex).AddInt64(x, int64(r), wp)

	// (w - 1/2) log w - w + log(2 pi)/2
	logw := new(Complex).Log(w, wp)
	res := new(Complex).SubReal(w, new(Real).SetFloat64(0.5), wp)
	res.Mul(res, logw, wp)
	res.Sub(res, w, wp)
	l2pi := new(Real).Mul2Exp(Pi(wp), 1)
	l2pi.Log(l2pi, wp)
	l2pi.Mul2Exp(l2pi, -1)
	res.AddReal(res, l2pi, wp)

	winv := new(Complex).Inv(w, wp)
	winv2 := new(Complex).Sqr(winv, wp)
	p := new(Complex).Set(winv)
	c := new(Real)
	t := new(Complex)
	for k := 1; k < n; k++ {
		c.SetRat(Bernoulli(2*k), wp)
		c.DivInt64(c, int64(2*k*(2*k-1)), wp)
		t.MulReal(p, c, wp)
		res.Add(res, t, wp)
		p.Mul(p, winv2, wp)
	}

	// |R_n| <= |B_2n| / (2n (2n-1) |w|^(2n-1)) sec(arg(w)/2)^(2n)
	b := new(big.Float).SetPrec(64).SetRat(Bernoulli(2 * n))
	rem := MagDiv(MagFromBigFloat(b), NewMag(float64(2*n*(2*n-1))).lower())
	wl := w.Norm(new(Real), 64).AbsLower()
	wl = magSqrtLower(wl)
	rem = MagDiv(rem, magPowUintLower(wl, uint64(2*n-1)))
	if !isReal {
		rem = MagMul2Exp(rem, int64(n))
	}
	res.AddError(rem)

	if r > 0 {
		P := new(Complex).Set(x)
		argsum := math.Atan2(xi, xr)
		for k := 1; k < r; k++ {
			P.Mul(P, new(Complex).AddInt64(x, int64(k), wp), wp)
			argsum += math.Atan2(xi, xr+float64(k))
		}
		logP := new(Complex).Log(P, wp)
		res.Sub(res, logP, wp)
		if !isReal {
			m := math.Round((argsum - logP.Im.Float64()) / (2 * math.Pi))
			if m != 0 {
				tp := new(Real).Mul2Exp(Pi(wp), 1)
				tp.MulInt64(tp, int64(m), wp)
				res.Im.Sub(&res.Im, tp, wp)
			}
		}
	}

	if isReal {
		res.Im.Zero()
	}

	return z.SetRound(res, prec)
}

func (x Mag) lower() Mag {
	if x.inf || x.m == 0 {
		return x
	}
	return normMag(nextDown(nextDown(x.m)), x.e)
}

func magSqrtLower(x Mag) Mag {
	if x.inf || x.m == 0 {
		return x
	}
	return MagSqrt(x).lower().lower()
}

func magPowUintLower(x Mag, n uint64) Mag {
	r := NewMag(1)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r = MagMulLower(r, x)
		}
		x = MagMulLower(x, x)
	}
	return r
}

// Gamma sets z to Gamma(x), using the reflection formula for Re(x) < 1/2.
func (z *Complex) Gamma(x *Complex, prec uint) *Complex {
	if !x.IsFinite() {
		return z.Indeterminate()
	}
	wp := prec + 8
	if x.Re.mid.Cmp(big.NewFloat(0.5)) >= 0 {
		t := new(Complex).LogGamma(x, wp)
		return z.Exp(t, prec)
	}
	// pi / (sin(pi x) Gamma(1 - x))
	y := new(Complex).Neg(x)
	y.AddInt64(y, 1, wp)
	g := new(Complex).LogGamma(y, wp)
	g.Exp(g, wp)
	s := new(Complex).SinPi(x, wp)
	g.Mul(g, s, wp)
	num := new(Complex).SetReal(Pi(wp))
	return z.Div(num, g, prec)
}

// Gamma sets z to Gamma(x) for a real x.
func (z *Real) Gamma(x *Real, prec uint) *Real {
	g := new(Complex).Gamma(new(Complex).SetReal(x), prec)
	return z.Set(&g.Re)
}

// LogGamma sets z to log Gamma(x) for x > 0.
func (z *Real) LogGamma(x *Real, prec uint) *Real {
	g := new(Complex).LogGamma(new(Complex).SetReal(x), prec)
	return z.Set(&g.Re)
}

// GammaUpperBound returns a ball [0 +/- U] where U bounds the upper
// incomplete gamma function Gamma(a, x) for x > 0.
func GammaUpperBound(a, x *Real, prec uint) *Real {
	if !x.IsPositive() {
		return Indeterminate()
	}
	wp := prec + 8
	am1 := new(Real).SubInt64(a, 1, wp)

	var u *Real
	switch {
	case am1.Upper(64).Sign() <= 0:
		// a <= 1: x^(a-1) exp(-x)
		u = powExpNeg(x, am1, wp)
	case x.Lower(64).Cmp(new(Real).Mul2Exp(am1, 1).Upper(64)) >= 0:
		// x >= 2(a-1): 2 x^(a-1) exp(-x)
		u = powExpNeg(x, am1, wp)
		u.Mul2Exp(u, 1)
	default:
		u = new(Real).Gamma(a, wp)
	}

	res := new(Real)
	res.rad = u.AbsUpper()
	return res
}

// GammaUpper sets z to the upper incomplete gamma function
//
//	Gamma(a, x) = int_x^inf t^(a-1) exp(-t) dt
//
// for a real a and x > 0. The asymptotic series is used for large x. Otherwise
// Gamma(a, x) = Gamma(a) - gamma(a, x) is evaluated with the power series of
// the lower function, and non-positive integers a go through the exponential
// integral E1(x) = Gamma(0, x). The result is indeterminate when a is an
// inexact ball that contains a non-positive integer.
func (z *Real) GammaUpper(a, x *Real, prec uint) *Real {
	if !a.IsFinite() || !x.IsFinite() || !x.IsPositive() {
		return z.Indeterminate()
	}

	xf, _ := x.Lower(64).Float64()
	if xf >= float64(prec)*math.Ln2+math.Abs(a.Float64())+10 {
		if g := gammaUpperAsymptotic(a, x, prec); g != nil {
			return z.Set(g)
		}
	}

	if a.IsExact() {
		if n, ok := a.UniqueInt64(); ok && n <= 0 {
			return z.Set(gammaUpperNegInt(-n, x, prec))
		}
	}

	// largest non-positive integer below the upper end of a
	m := floorBig(a.Upper(64))
	if m.Sign() > 0 {
		m.SetInt64(0)
	}
	if new(big.Float).SetInt(m).Cmp(a.Lower(64)) >= 0 {
		return z.Indeterminate()
	}
	return z.Set(gammaUpperSeries(a, x, prec))
}

// gammaUpperAsymptotic evaluates
//
//	Gamma(a, x) = x^(a-1) exp(-x) sum_{k<N} (a-1)(a-2)...(a-k) / x^k
//
// where the remainder is bounded by the first omitted term when N >= a - 1.
// It returns nil if the terms stop decreasing before reaching 2^-prec.
func gammaUpperAsymptotic(a, x *Real, prec uint) *Real {
	wp := prec + 16
	af, _ := a.Upper(64).Float64()
	xf, _ := x.Lower(64).Float64()
	minN := int(math.Max(math.Ceil(af-1), 0))
	eps := NewMag2Exp(-int64(prec) - 4)

	sum := NewRealInt64(1)
	term := NewRealInt64(1)
	c := new(Real)
	for k := 1; ; k++ {
		if float64(k) > xf+math.Abs(af) {
			return nil
		}
		c.SubInt64(a, int64(k), wp)
		term.Mul(term, c, wp)
		term.Div(term, x, wp)
		if k >= minN && term.AbsUpper().Cmp(eps) < 0 {
			sum.AddError(term.AbsUpper())
			break
		}
		sum.Add(sum, term, wp)
	}

	am1 := new(Real).SubInt64(a, 1, wp)
	return sum.Mul(sum, powExpNeg(x, am1, wp), prec)
}

// gammaUpperSeries returns Gamma(a) - x^a exp(-x) sum_k x^k / (a(a+1)...(a+k)).
// Once a + k + 1 >= 2x the ratio of consecutive terms is at most 1/2 and the
// tail is bounded by the last term.
func gammaUpperSeries(a, x *Real, prec uint) *Real {
	xf, _ := x.Upper(64).Float64()
	alo, _ := a.Lower(64).Float64()
	lg, _ := math.Lgamma(math.Abs(a.Float64()) + 1)
	wp := prec + 32 + uint(xf*math.Log2E) + uint(math.Max(lg, 0)*math.Log2E)
	eps := NewMag2Exp(-int64(wp))

	term := new(Real).Inv(a, wp)
	sum := new(Real).Set(term)
	c := new(Real)
	for k := 1; ; k++ {
		c.AddInt64(a, int64(k), wp)
		term.Mul(term, x, wp)
		term.Div(term, c, wp)
		sum.Add(sum, term, wp)
		if alo+float64(k)+1 >= 2*xf && term.AbsUpper().Cmp(eps) < 0 {
			break
		}
	}
	sum.AddError(term.AbsUpper())

	sum.Mul(sum, powExpNeg(x, a, wp), wp)
	g := new(Real).Gamma(a, wp)
	return g.Sub(g, sum, prec)
}

// gammaUpperNegInt returns Gamma(-m, x) from
//
//	E1(x) = -euler - log x - sum_{k>=1} (-x)^k / (k k!)
//
// and the recurrence Gamma(-k, x) = (x^-k exp(-x) - Gamma(1-k, x)) / k.
func gammaUpperNegInt(m int64, x *Real, prec uint) *Real {
	xf, _ := x.Upper(64).Float64()
	wp := prec + 32 + uint(xf*math.Log2E) + uint(m)*uint(bitLen64(uint64(xf)+1))
	eps := NewMag2Exp(-int64(wp))

	// -euler = psi(1)
	psi := new(Complex).Digamma(NewComplexInt64(1, 0), wp)
	res := new(Real).Set(&psi.Re)
	res.Sub(res, new(Real).Log(x, wp), wp)

	// the terms alternate and decrease once k > x
	term := NewRealInt64(1)
	t := new(Real)
	for k := int64(1); ; k++ {
		term.Mul(term, x, wp)
		term.DivInt64(term, -k, wp)
		t.DivInt64(term, k, wp)
		res.Sub(res, t, wp)
		if float64(k) > xf && t.AbsUpper().Cmp(eps) < 0 {
			break
		}
	}
	res.AddError(t.AbsUpper())

	if m > 0 {
		e := new(Real).Neg(x)
		e.Exp(e, wp)
		xinv := new(Real).Inv(x, wp)
		p := new(Real).Set(e)
		for k := int64(1); k <= m; k++ {
			// p = x^-k exp(-x)
			p.Mul(p, xinv, wp)
			res.Sub(p, res, wp)
			res.DivInt64(res, k, wp)
		}
	}
	return res.SetRound(res, prec)
}

// powExpNeg returns x^b exp(-x).
func powExpNeg(x, b *Real, prec uint) *Real {
	u := new(Real).Pow(x, b, prec)
	e := new(Real).Neg(x)
	e.Exp(e, prec)
	return u.Mul(u, e, prec)
}

// Digamma sets z to psi(x) = Gamma'(x)/Gamma(x) for Re(x) > 0.
// The result is indeterminate otherwise.
func (z *Complex) Digamma(x *Complex, prec uint) *Complex {
	if !x.IsFinite() || !x.Re.IsPositive() {
		return z.Indeterminate()
	}

	wp := prec + 16
	if e := x.AbsUpper().Exp2(); e > 0 {
		wp += uint(e)
	}

	isReal := x.Im.IsZero()
	xr, xi := x.Re.Float64(), x.Im.Float64()
	r, n := stirlingParams(xr, xi, !isReal, wp+16)

	w := new(Complex).AddInt64(x, int64(r), wp)

	// log w - 1/(2w) - sum B_2k / (2k w^2k)
	res := new(Complex).Log(w, wp)
	winv := new(Complex).Inv(w, wp)
	res.Sub(res, new(Complex).Mul2Exp(winv, -1), wp)

	winv2 := new(Complex).Sqr(winv, wp)
	p := new(Complex).Set(winv2)
	c := new(Real)
	t := new(Complex)
	for k := 1; k < n; k++ {
		c.SetRat(Bernoulli(2*k), wp)
		c.DivInt64(c, int64(2*k), wp)
		t.MulReal(p, c, wp)
		res.Sub(res, t, wp)
		p.Mul(p, winv2, wp)
	}

	// |R_n| <= |B_2n| / (2n |w|^2n) sec(arg(w)/2)^(2n+1)
	b := new(big.Float).SetPrec(64).SetRat(Bernoulli(2 * n))
	rem := MagDiv(MagFromBigFloat(b), NewMag(float64(2*n)).lower())
	wl := w.Norm(new(Real), 64).AbsLower()
	rem = MagDiv(rem, magPowUintLower(wl, uint64(n)))
	if !isReal {
		rem = MagMul2Exp(rem, int64(n+1))
	}
	res.AddError(rem)

	// psi(x) = psi(x + r) - sum_{k<r} 1/(x + k)
	for k := 0; k < r; k++ {
		t.AddInt64(x, int64(k), wp)
		res.Sub(res, t.Inv(t, wp), wp)
	}

	if isReal {
		res.Im.Zero()
	}

	return z.SetRound(res, prec)
}
