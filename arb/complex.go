package arb

import (
	"fmt"
	"math/big"
)

// Complex is a complex number with real and imaginary parts stored as balls.
type Complex struct {
	Re, Im Real
}

// NewComplex returns a new exact zero.
func NewComplex() *Complex {
	return new(Complex)
}

// NewComplexInt64 returns the exact value re + i im.
func NewComplexInt64(re, im int64) *Complex {
	z := new(Complex)
	z.Re.SetInt64(re)
	z.Im.SetInt64(im)
	return z
}

// NewComplexFloat64 returns the exact value re + i im.
func NewComplexFloat64(re, im float64) *Complex {
	z := new(Complex)
	z.Re.SetFloat64(re)
	z.Im.SetFloat64(im)
	return z
}

// NewComplexReal returns re + i im.
func NewComplexReal(re, im *Real) *Complex {
	z := new(Complex)
	if re != nil {
		z.Re.Set(re)
	}
	if im != nil {
		z.Im.Set(im)
	}
	return z
}

// IndeterminateComplex returns a complex ball with infinite radii.
func IndeterminateComplex() *Complex {
	return new(Complex).Indeterminate()
}

// Indeterminate sets z to an indeterminate value.
func (z *Complex) Indeterminate() *Complex {
	z.Re.Indeterminate()
	z.Im.Indeterminate()
	return z
}

// Zero sets z to exact zero.
func (z *Complex) Zero() *Complex {
	z.Re.Zero()
	z.Im.Zero()
	return z
}

// One sets z to exact one.
func (z *Complex) One() *Complex {
	z.Re.SetInt64(1)
	z.Im.Zero()
	return z
}

// Set sets z to x.
func (z *Complex) Set(x *Complex) *Complex {
	z.Re.Set(&x.Re)
	z.Im.Set(&x.Im)
	return z
}

// SetReal sets z to x + 0i.
func (z *Complex) SetReal(x *Real) *Complex {
	z.Re.Set(x)
	z.Im.Zero()
	return z
}

// SetInt64 sets z to x + 0i.
func (z *Complex) SetInt64(x int64) *Complex {
	z.Re.SetInt64(x)
	z.Im.Zero()
	return z
}

// SetRound sets z to x rounded to prec bits.
func (z *Complex) SetRound(x *Complex, prec uint) *Complex {
	z.Re.SetRound(&x.Re, prec)
	z.Im.SetRound(&x.Im, prec)
	return z
}

// IsFinite returns true if both parts have finite radii.
func (z *Complex) IsFinite() bool {
	return z.Re.IsFinite() && z.Im.IsFinite()
}

// IsExact returns true if both radii are zero.
func (z *Complex) IsExact() bool {
	return z.Re.IsExact() && z.Im.IsExact()
}

// IsReal returns true if the imaginary part is exactly zero.
func (z *Complex) IsReal() bool {
	return z.Im.IsZero()
}

// IsZero returns true if z is exactly zero.
func (z *Complex) IsZero() bool {
	return z.Re.IsZero() && z.Im.IsZero()
}

// ContainsZero returns true if 0 is in z.
func (z *Complex) ContainsZero() bool {
	return z.Re.ContainsZero() && z.Im.ContainsZero()
}

// Contains returns true if x is a subset of z.
func (z *Complex) Contains(x *Complex) bool {
	return z.Re.Contains(&x.Re) && z.Im.Contains(&x.Im)
}

// ContainsInt64 returns true if the integer x is in z.
func (z *Complex) ContainsInt64(x int64) bool {
	return z.Re.ContainsInt64(x) && z.Im.ContainsZero()
}

// Overlaps returns true if z and x have a common point.
func (z *Complex) Overlaps(x *Complex) bool {
	return z.Re.Overlaps(&x.Re) && z.Im.Overlaps(&x.Im)
}

// Union sets z to a ball containing x and y.
func (z *Complex) Union(x, y *Complex, prec uint) *Complex {
	z.Re.Union(&x.Re, &y.Re, prec)
	z.Im.Union(&x.Im, &y.Im, prec)
	return z
}

// AddError adds e to both radii.
func (z *Complex) AddError(e Mag) *Complex {
	z.Re.AddError(e)
	z.Im.AddError(e)
	return z
}

// AbsUpper returns an upper bound for |z|.
func (z *Complex) AbsUpper() Mag {
	a, b := z.Re.AbsUpper(), z.Im.AbsUpper()
	return MagSqrt(MagAdd(MagMul(a, a), MagMul(b, b)))
}

// AbsLower returns a lower bound for |z|.
func (z *Complex) AbsLower() Mag {
	return MagMax(z.Re.AbsLower(), z.Im.AbsLower())
}

// Rad returns an upper bound of the distance between z and its midpoint.
func (z *Complex) Rad() Mag {
	return MagAdd(z.Re.rad, z.Im.rad)
}

// String implements fmt.Stringer.
func (z *Complex) String() string {
	return fmt.Sprintf("(%s + %si)", &z.Re, &z.Im)
}

// Neg sets z to -x.
func (z *Complex) Neg(x *Complex) *Complex {
	z.Re.Neg(&x.Re)
	z.Im.Neg(&x.Im)
	return z
}

// Conj sets z to the complex conjugate of x.
func (z *Complex) Conj(x *Complex) *Complex {
	z.Re.Set(&x.Re)
	z.Im.Neg(&x.Im)
	return z
}

// MulI sets z to i x.
func (z *Complex) MulI(x *Complex) *Complex {
	re := new(Real).Neg(&x.Im)
	z.Im.Set(&x.Re)
	z.Re.Set(re)
	return z
}

// MulNegI sets z to -i x.
func (z *Complex) MulNegI(x *Complex) *Complex {
	im := new(Real).Neg(&x.Re)
	z.Re.Set(&x.Im)
	z.Im.Set(im)
	return z
}

// Mul2Exp sets z to x * 2^k.
func (z *Complex) Mul2Exp(x *Complex, k int) *Complex {
	z.Re.Mul2Exp(&x.Re, k)
	z.Im.Mul2Exp(&x.Im, k)
	return z
}

// Add sets z to x + y.
func (z *Complex) Add(x, y *Complex, prec uint) *Complex {
	z.Re.Add(&x.Re, &y.Re, prec)
	z.Im.Add(&x.Im, &y.Im, prec)
	return z
}

// Sub sets z to x - y.
func (z *Complex) Sub(x, y *Complex, prec uint) *Complex {
	z.Re.Sub(&x.Re, &y.Re, prec)
	z.Im.Sub(&x.Im, &y.Im, prec)
	return z
}

// AddReal sets z to x + y.
func (z *Complex) AddReal(x *Complex, y *Real, prec uint) *Complex {
	z.Re.Add(&x.Re, y, prec)
	z.Im.Set(&x.Im)
	return z
}

// SubReal sets z to x - y.
func (z *Complex) SubReal(x *Complex, y *Real, prec uint) *Complex {
	z.Re.Sub(&x.Re, y, prec)
	z.Im.Set(&x.Im)
	return z
}

// AddInt64 sets z to x + y.
func (z *Complex) AddInt64(x *Complex, y int64, prec uint) *Complex {
	return z.AddReal(x, NewRealInt64(y), prec)
}

// Mul sets z to x * y.
func (z *Complex) Mul(x, y *Complex, prec uint) *Complex {
	switch {
	case x.Im.IsZero():
		im := new(Real).Mul(&x.Re, &y.Im, prec)
		z.Re.Mul(&x.Re, &y.Re, prec)
		z.Im.Set(im)
		return z
	case y.Im.IsZero():
		im := new(Real).Mul(&x.Im, &y.Re, prec)
		z.Re.Mul(&x.Re, &y.Re, prec)
		z.Im.Set(im)
		return z
	}
	wp := prec + 4
	ac := new(Real).Mul(&x.Re, &y.Re, wp)
	bd := new(Real).Mul(&x.Im, &y.Im, wp)
	ad := new(Real).Mul(&x.Re, &y.Im, wp)
	bc := new(Real).Mul(&x.Im, &y.Re, wp)
	z.Re.Sub(ac, bd, prec)
	z.Im.Add(ad, bc, prec)
	return z
}

// MulReal sets z to x * y.
func (z *Complex) MulReal(x *Complex, y *Real, prec uint) *Complex {
	z.Re.Mul(&x.Re, y, prec)
	z.Im.Mul(&x.Im, y, prec)
	return z
}

// MulInt64 sets z to x * y.
func (z *Complex) MulInt64(x *Complex, y int64, prec uint) *Complex {
	return z.MulReal(x, NewRealInt64(y), prec)
}

// DivReal sets z to x / y.
func (z *Complex) DivReal(x *Complex, y *Real, prec uint) *Complex {
	z.Re.Div(&x.Re, y, prec)
	z.Im.Div(&x.Im, y, prec)
	return z
}

// DivInt64 sets z to x / y.
func (z *Complex) DivInt64(x *Complex, y int64, prec uint) *Complex {
	return z.DivReal(x, NewRealInt64(y), prec)
}

// MulAdd sets z to z + x * y.
func (z *Complex) MulAdd(x, y *Complex, prec uint) *Complex {
	t := new(Complex).Mul(x, y, prec)
	return z.Add(z, t, prec)
}

// Sqr sets z to x^2.
func (z *Complex) Sqr(x *Complex, prec uint) *Complex {
	if x.Im.IsZero() {
		z.Re.Sqr(&x.Re, prec)
		z.Im.Zero()
		return z
	}
	wp := prec + 4
	a2 := new(Real).Sqr(&x.Re, wp)
	b2 := new(Real).Sqr(&x.Im, wp)
	ab := new(Real).Mul(&x.Re, &x.Im, wp)
	z.Re.Sub(a2, b2, prec)
	z.Im.Mul2Exp(ab, 1)
	z.Im.SetRound(&z.Im, prec)
	return z
}

// Norm sets r to |x|^2.
func (x *Complex) Norm(r *Real, prec uint) *Real {
	wp := prec + 4
	a2 := new(Real).Sqr(&x.Re, wp)
	b2 := new(Real).Sqr(&x.Im, wp)
	return r.Add(a2, b2, prec)
}

// Abs sets r to |x|.
func (x *Complex) Abs(r *Real, prec uint) *Real {
	if x.Im.IsZero() {
		return r.Abs(&x.Re)
	}
	if x.Re.IsZero() {
		return r.Abs(&x.Im)
	}
	n := x.Norm(new(Real), prec+4)
	if n.ContainsZero() {
		// |x| <= |re| + |im|
		r.Zero()
		r.rad = MagAdd(x.Re.AbsUpper(), x.Im.AbsUpper())
		return r
	}
	return r.Sqrt(n, prec)
}

// Inv sets z to 1 / x.
func (z *Complex) Inv(x *Complex, prec uint) *Complex {
	if x.Im.IsZero() {
		z.Re.Inv(&x.Re, prec)
		z.Im.Zero()
		return z
	}
	wp := prec + 8
	n := x.Norm(new(Real), wp)
	re := new(Real).Div(&x.Re, n, prec)
	im := new(Real).Div(&x.Im, n, prec)
	z.Re.Set(re)
	z.Im.Neg(im)
	return z
}

// Div sets z to x / y.
func (z *Complex) Div(x, y *Complex, prec uint) *Complex {
	if y.Im.IsZero() {
		return z.DivReal(x, &y.Re, prec)
	}
	t := new(Complex).Inv(y, prec+8)
	return z.Mul(x, t, prec)
}

// Arg sets r to the argument of x in (-pi, pi].
func (x *Complex) Arg(r *Real, prec uint) *Real {
	return r.Atan2(&x.Im, &x.Re, prec)
}

// Exp sets z to exp(x).
func (z *Complex) Exp(x *Complex, prec uint) *Complex {
	wp := prec + 4
	e := new(Real).Exp(&x.Re, wp)
	if x.Im.IsZero() {
		z.Re.SetRound(e, prec)
		z.Im.Zero()
		return z
	}
	s, c := new(Real), new(Real)
	SinCos(s, c, &x.Im, wp)
	z.Re.Mul(e, c, prec)
	z.Im.Mul(e, s, prec)
	return z
}

// ExpPiI sets z to exp(pi i x) for a real x.
func (z *Complex) ExpPiI(x *Real, prec uint) *Complex {
	s, c := new(Real), new(Real)
	SinCosPi(s, c, x, prec)
	z.Re.Set(c)
	z.Im.Set(s)
	return z
}

// Log sets z to the principal branch of log(x).
func (z *Complex) Log(x *Complex, prec uint) *Complex {
	wp := prec + 8
	if x.Im.IsZero() && x.Re.IsPositive() {
		z.Re.Log(&x.Re, prec)
		z.Im.Zero()
		return z
	}
	n := x.Norm(new(Real), wp)
	l := new(Real).Log(n, wp)
	l.Mul2Exp(l, -1)
	a := x.Arg(new(Real), prec)
	z.Re.SetRound(l, prec)
	z.Im.Set(a)
	return z
}

// Pow sets z to exp(y log(x)).
func (z *Complex) Pow(x, y *Complex, prec uint) *Complex {
	if y.IsExact() && y.Im.IsZero() && y.Re.mid.IsInt() {
		if n, acc := y.Re.mid.Int64(); acc == big.Exact && n > -(1<<20) && n < 1<<20 {
			return z.PowInt(x, n, prec)
		}
	}
	ex := maxInt64(y.AbsUpper().Exp2(), 0)
	wp := prec + 16 + uint(ex)
	t := new(Complex).Log(x, wp)
	t.Mul(t, y, wp)
	return z.Exp(t, prec)
}

// PowReal sets z to x^y where x is a positive real ball.
func (z *Complex) PowReal(x *Real, y *Complex, prec uint) *Complex {
	ex := maxInt64(y.AbsUpper().Exp2(), 0)
	wp := prec + 16 + uint(ex)
	l := new(Real).Log(x, wp)
	t := new(Complex).MulReal(y, l, wp)
	return z.Exp(t, prec)
}

// PowInt sets z to x^n.
func (z *Complex) PowInt(x *Complex, n int64, prec uint) *Complex {
	neg := n < 0
	if neg {
		n = -n
	}
	wp := prec + uint(bitLen64(uint64(n))) + 4
	r := new(Complex).One()
	b := new(Complex).Set(x)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r.Mul(r, b, wp)
		}
		if n > 1 {
			b.Sqr(b, wp)
		}
	}
	if neg {
		return z.Inv(r, prec)
	}
	return z.SetRound(r, prec)
}

// SinCos sets s to sin(x) and c to cos(x).
func (x *Complex) SinCos(s, c *Complex, prec uint) {
	wp := prec + 8
	sa, ca := new(Real), new(Real)
	SinCos(sa, ca, &x.Re, wp)
	if x.Im.IsZero() {
		s.SetReal(sa)
		c.SetReal(ca)
		return
	}
	// cosh and sinh of the imaginary part
	ep := new(Real).Exp(&x.Im, wp)
	em := new(Real).Inv(ep, wp)
	ch := new(Real).Add(ep, em, wp)
	ch.Mul2Exp(ch, -1)
	sh := new(Real).Sub(ep, em, wp)
	sh.Mul2Exp(sh, -1)

	sre := new(Real).Mul(sa, ch, prec)
	sim := new(Real).Mul(ca, sh, prec)
	cre := new(Real).Mul(ca, ch, prec)
	cim := new(Real).Mul(sa, sh, prec)
	s.Re.Set(sre)
	s.Im.Set(sim)
	c.Re.Set(cre)
	c.Im.Neg(cim)
}

// SinPi sets z to sin(pi x).
func (z *Complex) SinPi(x *Complex, prec uint) *Complex {
	wp := prec + 8
	sa, ca := new(Real), new(Real)
	SinCosPi(sa, ca, &x.Re, wp)
	if x.Im.IsZero() {
		return z.SetReal(sa.SetRound(sa, prec))
	}
	y := new(Real).Mul(&x.Im, Pi(wp), wp)
	ep := new(Real).Exp(y, wp)
	em := new(Real).Inv(ep, wp)
	ch := new(Real).Add(ep, em, wp)
	ch.Mul2Exp(ch, -1)
	sh := new(Real).Sub(ep, em, wp)
	sh.Mul2Exp(sh, -1)
	z.Re.Mul(sa, ch, prec)
	z.Im.Mul(ca, sh, prec)
	return z
}
