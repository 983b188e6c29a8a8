package arb

import (
	"math"
	"math/big"

	"github.com/tuneinsight/dirichlet/utils/bignum"
)

func reductionSteps(prec uint) int {
	return int(math.Sqrt(float64(prec))/2) + 1
}

// expMid returns a ball containing exp(x) for an exact x.
func expMid(x *big.Float, prec uint) *Real {
	if x.Sign() == 0 {
		return NewRealInt64(1)
	}

	xf, _ := x.Float64()

	if math.Abs(xf) > 1e9 {
		if x.Sign() > 0 {
			return Indeterminate()
		}
		r := new(Real)
		r.rad = NewMag2Exp(int64(math.Ceil(xf*math.Log2E*(1-1e-12))) + 1)
		return r
	}

	k := math.Round(xf * math.Log2E)
	wp := prec + 16 + uint(bitLen64(uint64(math.Abs(k))))

	// x - k log(2)
	r := new(Real).MulInt64(Log2(wp), int64(k), wp)
	r.Sub(NewRealBig(x), r, wp)

	e := expSmall(&r.mid, prec+8)
	e.rad = MagAdd(e.rad, MagMul(e.AbsUpper(), MagExpm1(r.rad)))

	return e.Mul2Exp(e, int(k))
}

// expSmall returns exp(y) for an exact |y| < 1 by Taylor series
// after halving the argument.
func expSmall(y *big.Float, prec uint) *Real {
	if y.Sign() == 0 {
		return NewRealInt64(1)
	}

	j := reductionSteps(prec)
	wp := prec + uint(2*j) + 10

	z := NewRealBig(y)
	z.Mul2Exp(z, -j)

	sum := NewRealInt64(1)
	term := NewRealInt64(1)

	for n := int64(1); ; n++ {
		term.Mul(term, z, wp)
		term.DivInt64(term, n, wp)
		sum.Add(sum, term, wp)
		if term.AbsUpper().Exp2() < -int64(wp) {
			sum.AddError(MagMul2Exp(term.AbsUpper(), 1))
			break
		}
	}

	for i := 0; i < j; i++ {
		sum.Sqr(sum, wp)
	}

	return sum
}

// Exp sets z to exp(x).
func (z *Real) Exp(x *Real, prec uint) *Real {
	if !x.IsFinite() {
		return z.Indeterminate()
	}
	e := expMid(&x.mid, prec+4)
	if !x.rad.IsZero() {
		e.rad = MagAdd(e.rad, MagMul(e.AbsUpper(), MagExpm1(x.rad)))
	}
	return z.SetRound(e, prec)
}

// Expm1 sets z to exp(x) - 1, accurate also for small x.
func (z *Real) Expm1(x *Real, prec uint) *Real {
	if !x.IsFinite() {
		return z.Indeterminate()
	}
	ex := x.AbsUpper().Exp2()
	if ex > -2 {
		t := new(Real).Exp(x, prec+8)
		return z.SubInt64(t, 1, prec)
	}
	wp := prec + uint(-ex) + 8
	t := new(Real).Exp(x, wp)
	return z.SubInt64(t, 1, prec)
}

// logMid returns a ball containing log(x) for an exact x > 0.
// The midpoint comes from bigfloat and is certified by one Newton step
// x exp(-m) = 1 + u, log(x) = m + u +/- u^2.
func logMid(x *big.Float, prec uint) *Real {
	if x.Cmp(big.NewFloat(1)) == 0 {
		return new(Real)
	}

	wp := prec + 16
	xp := x.Prec()
	if xp < wp {
		xp = wp
	}

	m := bignum.Log(new(big.Float).SetPrec(xp).Set(x))
	m.SetPrec(wp + 32)

	xr := NewRealBig(x)

	for iter := 0; iter < 4; iter++ {
		neg := new(big.Float).Neg(m)
		u := expMid(neg, wp+32)
		u.Mul(u, xr, wp+32)
		u.SubInt64(u, 1, wp+32)

		uu := u.AbsUpper()
		if uu.Cmp(NewMag(0.25)) < 0 {
			res := NewRealBig(m)
			res.Add(res, new(Real).GetMidReal(u), wp)
			res.AddError(MagAdd(MagMul(uu, uu), u.rad))
			return res
		}

		if !u.IsFinite() {
			break
		}

		m.Add(m, &u.mid)
	}

	return Indeterminate()
}

// Log sets z to log(x). The result is indeterminate unless x is positive.
func (z *Real) Log(x *Real, prec uint) *Real {
	if !x.IsPositive() {
		return z.Indeterminate()
	}
	l := logMid(&x.mid, prec+4)
	if !x.rad.IsZero() {
		// |log(m + t) - log(m)| <= r / (m - r)
		l.rad = MagAdd(l.rad, MagDiv(x.rad, x.AbsLower()))
	}
	return z.SetRound(l, prec)
}

// LogUint sets z to log(n).
func (z *Real) LogUint(n uint64, prec uint) *Real {
	return z.Log(new(Real).SetUint64(n), prec)
}

// Pow sets z to x^y for x > 0.
func (z *Real) Pow(x, y *Real, prec uint) *Real {
	if x.IsExact() && y.IsExact() && y.mid.IsInt() {
		if n, acc := y.mid.Int64(); acc == big.Exact && n > -(1<<20) && n < 1<<20 {
			return z.PowInt(x, n, prec)
		}
	}
	wp := prec + 16 + uint(maxInt64(0, y.AbsUpper().Exp2()))
	t := new(Real).Log(x, wp)
	t.Mul(t, y, wp)
	return z.Exp(t, prec)
}

// RootUint sets z to x^(1/n) for x > 0.
func (z *Real) RootUint(x *Real, n uint64, prec uint) *Real {
	if n == 2 {
		return z.Sqrt(x, prec)
	}
	wp := prec + 16
	t := new(Real).Log(x, wp)
	t.Div(t, new(Real).SetUint64(n), wp)
	return z.Exp(t, prec)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// sinCosSmall returns sin(y), cos(y) for an exact |y| <= 1.
func sinCosSmall(y *big.Float, prec uint) (s, c *Real) {
	if y.Sign() == 0 {
		return new(Real), NewRealInt64(1)
	}

	j := reductionSteps(prec)
	wp := prec + uint(2*j) + 10

	z := NewRealBig(y)
	z.Mul2Exp(z, -j)
	z2 := new(Real).Sqr(z, wp)

	c = NewRealInt64(1)
	s = new(Real).Set(z)
	tc := NewRealInt64(1)
	ts := new(Real).Set(z)

	for n := int64(1); ; n++ {
		tc.Mul(tc, z2, wp)
		tc.DivInt64(tc, (2*n-1)*(2*n), wp)
		ts.Mul(ts, z2, wp)
		ts.DivInt64(ts, (2*n)*(2*n+1), wp)
		if n&1 == 1 {
			c.Sub(c, tc, wp)
			s.Sub(s, ts, wp)
		} else {
			c.Add(c, tc, wp)
			s.Add(s, ts, wp)
		}
		if tc.AbsUpper().Exp2() < -int64(wp) && ts.AbsUpper().Exp2() < -int64(wp) {
			c.AddError(tc.AbsUpper())
			s.AddError(ts.AbsUpper())
			break
		}
	}

	t := new(Real)
	for i := 0; i < j; i++ {
		// (c + is)^2
		t.Mul(s, c, wp)
		t.Mul2Exp(t, 1)
		s.Sqr(s, wp)
		c.Sqr(c, wp)
		c.Sub(c, s, wp)
		s.Set(t)
	}

	return
}

// sinCosMid returns sin(x), cos(x) for an exact x.
func sinCosMid(x *big.Float, prec uint) (s, c *Real) {
	if x.Sign() == 0 {
		return new(Real), NewRealInt64(1)
	}

	ex := x.MantExp(nil)
	if ex > 1<<22 {
		s, c = new(Real), new(Real)
		s.rad, c.rad = NewMag(1), NewMag(1)
		return
	}

	extra := uint(0)
	if ex > 0 {
		extra = uint(ex)
	}
	wp := prec + extra + 16

	halfPi := Pi(wp)
	halfPi.Mul2Exp(halfPi, -1)

	q := new(Real).Div(NewRealBig(x), halfPi, wp)
	k, _ := q.mid.Int(nil)
	var frac big.Float
	frac.Sub(&q.mid, new(big.Float).SetInt(k))
	if frac.Cmp(big.NewFloat(0.5)) > 0 {
		k.Add(k, big.NewInt(1))
	} else if frac.Cmp(big.NewFloat(-0.5)) < 0 {
		k.Sub(k, big.NewInt(1))
	}

	r := new(Real).Mul(halfPi, new(Real).SetBigInt(k), wp)
	r.Sub(NewRealBig(x), r, wp)

	s0, c0 := sinCosSmall(&r.mid, prec+8)
	s0.AddError(r.rad)
	c0.AddError(r.rad)

	switch new(big.Int).And(k, big.NewInt(3)).Int64() {
	case 0:
		s, c = s0, c0
	case 1:
		s, c = c0, s0.Neg(s0)
	case 2:
		s, c = s0.Neg(s0), c0.Neg(c0)
	default:
		s, c = c0.Neg(c0), s0
	}
	return
}

func clampUnit(z *Real) {
	if z.rad.Cmp(NewMag(2)) > 0 {
		z.Zero()
		z.rad = NewMag(1)
	}
}

// SinCos sets s to sin(x) and c to cos(x).
func SinCos(s, c, x *Real, prec uint) {
	if !x.IsFinite() {
		s.Zero().rad = NewMag(1)
		c.Zero().rad = NewMag(1)
		return
	}
	s0, c0 := sinCosMid(&x.mid, prec+4)
	s0.AddError(x.rad)
	c0.AddError(x.rad)
	s.SetRound(s0, prec)
	c.SetRound(c0, prec)
	clampUnit(s)
	clampUnit(c)
}

// Sin sets z to sin(x).
func (z *Real) Sin(x *Real, prec uint) *Real {
	SinCos(z, new(Real), x, prec)
	return z
}

// Cos sets z to cos(x).
func (z *Real) Cos(x *Real, prec uint) *Real {
	SinCos(new(Real), z, x, prec)
	return z
}

// reduceMod2 returns x - 2 round(x/2) for an exact x.
func reduceMod2(x *big.Float) *big.Float {
	if x.MantExp(nil) < 1 {
		return new(big.Float).Copy(x)
	}
	h := new(big.Float).SetMantExp(x, -1)
	n, _ := h.Int(nil)
	r := new(big.Float).SetPrec(x.Prec() + 64).SetInt(n)
	r.SetMantExp(r, 1)
	r.Sub(x, r)
	if r.Cmp(big.NewFloat(1)) > 0 {
		r.Sub(r, big.NewFloat(2))
	} else if r.Cmp(big.NewFloat(-1)) < 0 {
		r.Add(r, big.NewFloat(2))
	}
	return r
}

// SinCosPi sets s to sin(pi x) and c to cos(pi x).
func SinCosPi(s, c, x *Real, prec uint) {
	if !x.IsFinite() {
		s.Zero().rad = NewMag(1)
		c.Zero().rad = NewMag(1)
		return
	}

	r := reduceMod2(&x.mid)

	// exact values at multiples of 1/2
	h := new(big.Float).SetMantExp(r, 1)
	if h.IsInt() {
		n, _ := h.Int64()
		sv, cv := [4]int64{0, 1, 0, -1}, [4]int64{1, 0, -1, 0}
		idx := ((n % 4) + 4) % 4
		s.SetInt64(sv[idx])
		c.SetInt64(cv[idx])
	} else {
		t := new(Real).Mul(Pi(prec+8), NewRealBig(r), prec+8)
		SinCos(s, c, t, prec)
	}

	if !x.rad.IsZero() {
		e := MagMul(x.rad, NewMag(3.1415926535897936))
		s.AddError(e)
		c.AddError(e)
		clampUnit(s)
		clampUnit(c)
	}
}

// SinPi sets z to sin(pi x).
func (z *Real) SinPi(x *Real, prec uint) *Real {
	SinCosPi(z, new(Real), x, prec)
	return z
}

// CosPi sets z to cos(pi x).
func (z *Real) CosPi(x *Real, prec uint) *Real {
	SinCosPi(new(Real), z, x, prec)
	return z
}

// atanMid returns atan(x) for an exact x.
func atanMid(x *big.Float, prec uint) *Real {
	if x.Sign() == 0 {
		return new(Real)
	}

	wp := prec + 16

	if new(big.Float).Abs(x).Cmp(big.NewFloat(1)) > 0 {
		// sign(x) pi/2 - atan(1/x)
		t := new(Real).Inv(NewRealBig(x), wp)
		a := atanMid(&t.mid, wp)
		a.AddError(t.rad)
		h := Pi(wp)
		h.Mul2Exp(h, -1)
		if x.Sign() < 0 {
			h.Neg(h)
		}
		return a.Sub(h, a, wp)
	}

	j := reductionSteps(prec)
	wp += uint(j)

	// atan(y) = 2 atan(y / (1 + sqrt(1 + y^2)))
	y := NewRealBig(x)
	t := new(Real)
	for i := 0; i < j; i++ {
		t.Sqr(y, wp)
		t.AddInt64(t, 1, wp)
		t.Sqrt(t, wp)
		t.AddInt64(t, 1, wp)
		y.Div(y, t, wp)
	}

	ym := NewRealBig(&y.mid)
	y2 := new(Real).Sqr(ym, wp)
	sum := new(Real).Set(ym)
	term := new(Real).Set(ym)
	for n := int64(1); ; n++ {
		term.Mul(term, y2, wp)
		t.DivInt64(term, 2*n+1, wp)
		if n&1 == 1 {
			sum.Sub(sum, t, wp)
		} else {
			sum.Add(sum, t, wp)
		}
		if term.AbsUpper().Exp2() < -int64(wp) {
			sum.AddError(term.AbsUpper())
			break
		}
	}
	sum.AddError(y.rad)
	return sum.Mul2Exp(sum, j)
}

// Atan sets z to atan(x).
func (z *Real) Atan(x *Real, prec uint) *Real {
	if !x.IsFinite() {
		z.Zero()
		z.rad = NewMag(1.6)
		return z
	}
	a := atanMid(&x.mid, prec+4)
	// |atan'| <= 1
	a.AddError(x.rad)
	return z.SetRound(a, prec)
}

// Atan2 sets z to the argument of x + iy in (-pi, pi].
func (z *Real) Atan2(y, x *Real, prec uint) *Real {
	if !x.IsFinite() || !y.IsFinite() {
		return z.piBall(prec)
	}

	if y.ContainsZero() && !x.IsPositive() {
		if y.IsZero() && x.IsNegative() {
			return z.Set(Pi(prec))
		}
		return z.piBall(prec)
	}

	wp := prec + 8
	var a *Real

	xm, ym := NewRealBig(&x.mid), NewRealBig(&y.mid)
	ax := new(big.Float).Abs(&x.mid)
	ay := new(big.Float).Abs(&y.mid)

	if ax.Cmp(ay) >= 0 {
		t := new(Real).Div(ym, xm, wp)
		a = new(Real).Atan(t, wp)
		if x.mid.Sign() < 0 {
			p := Pi(wp)
			if y.mid.Sign() >= 0 {
				a.Add(a, p, wp)
			} else {
				a.Sub(a, p, wp)
			}
		}
	} else {
		t := new(Real).Div(xm, ym, wp)
		a = new(Real).Atan(t, wp)
		h := Pi(wp)
		h.Mul2Exp(h, -1)
		if y.mid.Sign() < 0 {
			h.Neg(h)
		}
		a.Sub(h, a, wp)
	}

	if !x.rad.IsZero() || !y.rad.IsZero() {
		// |grad atan2| = 1/|z|
		lower := MagMax(x.AbsLower(), y.AbsLower())
		a.AddError(MagDiv(MagAdd(x.rad, y.rad), lower))
	}

	z.SetRound(a, prec)
	if z.rad.Cmp(NewMag(4)) > 0 {
		return z.piBall(prec)
	}
	return z
}

// piBall sets z to [0 +/- pi].
func (z *Real) piBall(prec uint) *Real {
	z.Zero()
	z.rad = NewMag(3.1415926535897936)
	return z
}
