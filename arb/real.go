// Package arb implements real and complex ball arithmetic on top of math/big.
//
// A ball is a midpoint stored as a *big.Float together with a radius stored as
// a [Mag] upper bound. Every operation returns a ball that contains the exact
// result of the operation applied to any point of the input balls.
// A ball with an infinite radius carries no information and propagates through
// all subsequent operations.
//
// Balls must not be copied by value: use Set.
package arb

import (
	"fmt"
	"math"
	"math/big"
)

// Real is a real ball [mid +/- rad].
type Real struct {
	mid big.Float
	rad Mag
}

// NewReal returns a new exact zero ball.
func NewReal() *Real {
	return new(Real)
}

// NewRealInt64 returns the exact ball x.
func NewRealInt64(x int64) *Real {
	return new(Real).SetInt64(x)
}

// NewRealFloat64 returns the exact ball x.
func NewRealFloat64(x float64) *Real {
	return new(Real).SetFloat64(x)
}

// NewRealBig returns the exact ball x.
func NewRealBig(x *big.Float) *Real {
	return new(Real).SetBigFloat(x)
}

// NewRealMidRad returns the ball [mid +/- rad].
func NewRealMidRad(mid *big.Float, rad Mag) *Real {
	r := new(Real).SetBigFloat(mid)
	r.rad = rad
	return r
}

// Indeterminate returns a ball with an infinite radius.
func Indeterminate() *Real {
	return new(Real).Indeterminate()
}

// Indeterminate sets z to [0 +/- inf].
func (z *Real) Indeterminate() *Real {
	z.mid.SetPrec(0)
	z.rad = MagInf()
	return z
}

// Zero sets z to exact zero.
func (z *Real) Zero() *Real {
	z.mid.SetPrec(0)
	z.rad = Mag{}
	return z
}

// Set sets z to x.
func (z *Real) Set(x *Real) *Real {
	if z != x {
		z.mid.Copy(&x.mid)
		z.rad = x.rad
	}
	return z
}

// SetInt64 sets z to the exact value x.
func (z *Real) SetInt64(x int64) *Real {
	z.mid.SetPrec(64).SetInt64(x)
	z.rad = Mag{}
	return z
}

// SetUint64 sets z to the exact value x.
func (z *Real) SetUint64(x uint64) *Real {
	z.mid.SetPrec(64).SetUint64(x)
	z.rad = Mag{}
	return z
}

// SetFloat64 sets z to the exact value x.
func (z *Real) SetFloat64(x float64) *Real {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return z.Indeterminate()
	}
	z.mid.SetPrec(53).SetFloat64(x)
	z.rad = Mag{}
	return z
}

// SetBigInt sets z to the exact value x.
func (z *Real) SetBigInt(x *big.Int) *Real {
	prec := uint(x.BitLen())
	if prec < 64 {
		prec = 64
	}
	z.mid.SetPrec(prec).SetInt(x)
	z.rad = Mag{}
	return z
}

// SetBigFloat sets z to the exact value x.
func (z *Real) SetBigFloat(x *big.Float) *Real {
	if x.IsInf() {
		return z.Indeterminate()
	}
	z.mid.Copy(x)
	z.rad = Mag{}
	return z
}

// SetRat sets z to a ball containing x, with a midpoint of prec bits.
func (z *Real) SetRat(x *big.Rat, prec uint) *Real {
	var m big.Float
	m.SetPrec(prec)
	acc := m.SetRat(x).Acc()
	return z.setRounded(&m, acc, Mag{})
}

// SetFrac sets z to a ball containing p/q.
func (z *Real) SetFrac(p, q int64, prec uint) *Real {
	return z.SetRat(big.NewRat(p, q), prec)
}

// SetMidRad sets z to [mid +/- rad].
func (z *Real) SetMidRad(mid *big.Float, rad Mag) *Real {
	z.SetBigFloat(mid)
	z.rad = MagAdd(z.rad, rad)
	return z
}

// SetInterval sets z to a ball containing [a, b].
func (z *Real) SetInterval(a, b *big.Float, prec uint) *Real {
	var m, d big.Float
	m.SetPrec(prec).Add(a, b)
	m.SetMantExp(&m, -1)
	d.SetPrec(64).SetMode(big.AwayFromZero).Sub(b, a)
	rad := MagMul2Exp(MagFromBigFloat(&d), -1)
	if m.Sign() != 0 {
		rad = MagAdd(rad, NewMag2Exp(int64(m.MantExp(nil))-int64(prec)))
	}
	if m.IsInf() || rad.IsInf() {
		return z.Indeterminate()
	}
	z.mid.Copy(&m)
	z.rad = rad
	return z
}

// Mid returns a copy of the midpoint.
func (z *Real) Mid() *big.Float {
	return new(big.Float).Copy(&z.mid)
}

// MidPtr returns the midpoint of z, which must not be modified.
func (z *Real) MidPtr() *big.Float {
	return &z.mid
}

// Rad returns the radius.
func (z *Real) Rad() Mag {
	return z.rad
}

// Prec returns the precision of the midpoint.
func (z *Real) Prec() uint {
	return z.mid.Prec()
}

// Float64 returns the midpoint as a float64.
func (z *Real) Float64() float64 {
	f, _ := z.mid.Float64()
	return f
}

// AddError adds e to the radius of z.
func (z *Real) AddError(e Mag) *Real {
	z.rad = MagAdd(z.rad, e)
	return z
}

// AddErrorReal adds an upper bound of |e| to the radius of z.
func (z *Real) AddErrorReal(e *Real) *Real {
	z.rad = MagAdd(z.rad, e.AbsUpper())
	return z
}

// setRounded sets z to the midpoint m, the radius rad, and the rounding
// error of m when acc is not exact.
func (z *Real) setRounded(m *big.Float, acc big.Accuracy, rad Mag) *Real {
	if m.IsInf() || rad.IsInf() {
		return z.Indeterminate()
	}
	if acc != big.Exact && m.Sign() != 0 {
		rad = MagAdd(rad, NewMag2Exp(int64(m.MantExp(nil))-int64(m.Prec())))
	}
	z.mid.Copy(m)
	z.rad = rad
	return z
}

// SetRound sets z to x with its midpoint rounded to prec bits.
func (z *Real) SetRound(x *Real, prec uint) *Real {
	var m big.Float
	m.SetPrec(prec)
	acc := m.Set(&x.mid).Acc()
	return z.setRounded(&m, acc, x.rad)
}

// AbsUpper returns an upper bound for |z|.
func (z *Real) AbsUpper() Mag {
	return MagAdd(MagFromBigFloat(&z.mid), z.rad)
}

// AbsLower returns a lower bound for min |x| over x in z.
func (z *Real) AbsLower() Mag {
	return MagSubLower(MagLowerFromBigFloat(&z.mid), z.rad)
}

// Lower returns a lower bound of z rounded to prec bits.
func (z *Real) Lower(prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec).SetMode(big.ToNegativeInf)
	if z.rad.IsInf() {
		return r.SetInf(true)
	}
	return r.Sub(&z.mid, z.rad.BigFloat())
}

// Upper returns an upper bound of z rounded to prec bits.
func (z *Real) Upper(prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec).SetMode(big.ToPositiveInf)
	if z.rad.IsInf() {
		return r.SetInf(false)
	}
	return r.Add(&z.mid, z.rad.BigFloat())
}

// IsFinite returns true if the radius of z is finite.
func (z *Real) IsFinite() bool {
	return z.rad.IsFinite()
}

// IsExact returns true if the radius of z is zero.
func (z *Real) IsExact() bool {
	return z.rad.IsZero()
}

// IsZero returns true if z is exactly zero.
func (z *Real) IsZero() bool {
	return z.rad.IsZero() && z.mid.Sign() == 0
}

// IsOne returns true if z is exactly one.
func (z *Real) IsOne() bool {
	return z.rad.IsZero() && z.mid.Cmp(big.NewFloat(1)) == 0
}

// ContainsZero returns true if 0 is in z.
func (z *Real) ContainsZero() bool {
	if z.rad.IsInf() {
		return true
	}
	return MagLowerFromBigFloat(&z.mid).Cmp(z.rad) <= 0
}

// IsPositive returns true if every element of z is positive.
func (z *Real) IsPositive() bool {
	return z.mid.Sign() > 0 && !z.ContainsZero()
}

// IsNegative returns true if every element of z is negative.
func (z *Real) IsNegative() bool {
	return z.mid.Sign() < 0 && !z.ContainsZero()
}

// IsNonNegative returns true if every element of z is nonnegative.
func (z *Real) IsNonNegative() bool {
	return z.rad.IsFinite() && z.Lower(64).Sign() >= 0
}

// Sign returns 1 or -1 if z is known to be positive or negative, and 0 otherwise.
func (z *Real) Sign() int {
	switch {
	case z.IsPositive():
		return 1
	case z.IsNegative():
		return -1
	}
	return 0
}

// ContainsBig returns true if x is in z.
func (z *Real) ContainsBig(x *big.Float) bool {
	if z.rad.IsInf() {
		return true
	}
	prec := z.mid.Prec() + x.Prec() + 64
	return z.Lower(prec).Cmp(x) <= 0 && z.Upper(prec).Cmp(x) >= 0
}

// ContainsInt64 returns true if x is in z.
func (z *Real) ContainsInt64(x int64) bool {
	return z.ContainsBig(new(big.Float).SetInt64(x))
}

// ContainsFloat64 returns true if x is in z.
func (z *Real) ContainsFloat64(x float64) bool {
	return z.ContainsBig(new(big.Float).SetFloat64(x))
}

// Contains returns true if x is a subset of z.
func (z *Real) Contains(x *Real) bool {
	if z.rad.IsInf() {
		return true
	}
	if x.rad.IsInf() {
		return false
	}
	prec := z.mid.Prec() + x.mid.Prec() + 64
	return z.Lower(prec).Cmp(x.Lower(prec)) <= 0 && z.Upper(prec).Cmp(x.Upper(prec)) >= 0
}

// Overlaps returns true if z and x have a common point.
func (z *Real) Overlaps(x *Real) bool {
	if z.rad.IsInf() || x.rad.IsInf() {
		return true
	}
	prec := z.mid.Prec() + x.mid.Prec() + 64
	return z.Lower(prec).Cmp(x.Upper(prec)) <= 0 && x.Lower(prec).Cmp(z.Upper(prec)) <= 0
}

// Equal returns true if z and x have identical midpoints and radii.
func (z *Real) Equal(x *Real) bool {
	return z.mid.Cmp(&x.mid) == 0 && z.rad.Cmp(x.rad) == 0
}

// Union sets z to a ball containing both x and y.
func (z *Real) Union(x, y *Real, prec uint) *Real {
	if x.rad.IsInf() || y.rad.IsInf() {
		return z.Indeterminate()
	}
	wp := prec + 16
	lo := x.Lower(wp)
	if l := y.Lower(wp); l.Cmp(lo) < 0 {
		lo = l
	}
	hi := x.Upper(wp)
	if h := y.Upper(wp); h.Cmp(hi) > 0 {
		hi = h
	}
	return z.SetInterval(lo, hi, prec)
}

// UniqueInt returns the integer n if z contains n and no other integer.
func (z *Real) UniqueInt() (*big.Int, bool) {
	if z.rad.IsInf() {
		return nil, false
	}
	prec := z.mid.Prec() + 64
	lo, hi := z.Lower(prec), z.Upper(prec)
	a := ceilBig(lo)
	b := floorBig(hi)
	if a.Cmp(b) != 0 {
		return nil, false
	}
	return a, true
}

// UniqueInt64 is like UniqueInt for machine-size integers.
func (z *Real) UniqueInt64() (int64, bool) {
	n, ok := z.UniqueInt()
	if !ok || !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// Floor returns the floor of z if it is unique.
func (z *Real) Floor() (*big.Int, bool) {
	if z.rad.IsInf() {
		return nil, false
	}
	prec := z.mid.Prec() + 64
	a := floorBig(z.Lower(prec))
	b := floorBig(z.Upper(prec))
	if a.Cmp(b) != 0 {
		return nil, false
	}
	return a, true
}

func floorBig(x *big.Float) *big.Int {
	n, acc := x.Int(nil)
	if acc == big.Above {
		n.Sub(n, big.NewInt(1))
	}
	return n
}

func ceilBig(x *big.Float) *big.Int {
	n, acc := x.Int(nil)
	if acc == big.Below {
		n.Add(n, big.NewInt(1))
	}
	return n
}

// String implements fmt.Stringer.
func (z *Real) String() string {
	return fmt.Sprintf("[%s +/- %s]", z.mid.Text('g', 20), z.rad)
}

// Neg sets z to -x.
func (z *Real) Neg(x *Real) *Real {
	z.Set(x)
	z.mid.Neg(&z.mid)
	return z
}

// Abs sets z to a ball containing |x|.
func (z *Real) Abs(x *Real) *Real {
	z.Set(x)
	z.mid.Abs(&z.mid)
	return z
}

// Mul2Exp sets z to x * 2^k.
func (z *Real) Mul2Exp(x *Real, k int) *Real {
	z.Set(x)
	if z.mid.Sign() != 0 {
		z.mid.SetMantExp(&z.mid, k)
	}
	z.rad = MagMul2Exp(z.rad, int64(k))
	return z
}

// Add sets z to x + y.
func (z *Real) Add(x, y *Real, prec uint) *Real {
	var m big.Float
	m.SetPrec(prec)
	acc := m.Add(&x.mid, &y.mid).Acc()
	return z.setRounded(&m, acc, MagAdd(x.rad, y.rad))
}

// Sub sets z to x - y.
func (z *Real) Sub(x, y *Real, prec uint) *Real {
	var m big.Float
	m.SetPrec(prec)
	acc := m.Sub(&x.mid, &y.mid).Acc()
	return z.setRounded(&m, acc, MagAdd(x.rad, y.rad))
}

// AddInt64 sets z to x + y.
func (z *Real) AddInt64(x *Real, y int64, prec uint) *Real {
	return z.Add(x, NewRealInt64(y), prec)
}

// SubInt64 sets z to x - y.
func (z *Real) SubInt64(x *Real, y int64, prec uint) *Real {
	return z.Sub(x, NewRealInt64(y), prec)
}

// Mul sets z to x * y.
func (z *Real) Mul(x, y *Real, prec uint) *Real {
	rad := MagAdd(MagAdd(MagMul(MagFromBigFloat(&x.mid), y.rad), MagMul(MagFromBigFloat(&y.mid), x.rad)), MagMul(x.rad, y.rad))
	var m big.Float
	m.SetPrec(prec)
	acc := m.Mul(&x.mid, &y.mid).Acc()
	return z.setRounded(&m, acc, rad)
}

// MulInt64 sets z to x * y.
func (z *Real) MulInt64(x *Real, y int64, prec uint) *Real {
	return z.Mul(x, NewRealInt64(y), prec)
}

// Sqr sets z to x^2.
func (z *Real) Sqr(x *Real, prec uint) *Real {
	return z.Mul(x, x, prec)
}

// MulAdd sets z to z + x * y.
func (z *Real) MulAdd(x, y *Real, prec uint) *Real {
	t := new(Real).Mul(x, y, prec)
	return z.Add(z, t, prec)
}

// Div sets z to x / y. The result is indeterminate if y contains zero.
func (z *Real) Div(x, y *Real, prec uint) *Real {
	if y.ContainsZero() || x.rad.IsInf() {
		return z.Indeterminate()
	}
	var rad Mag
	if !x.rad.IsZero() || !y.rad.IsZero() {
		ym := MagLowerFromBigFloat(&y.mid)
		num := MagAdd(MagMul(MagFromBigFloat(&x.mid), y.rad), MagMul(MagFromBigFloat(&y.mid), x.rad))
		den := MagMulLower(ym, MagSubLower(ym, y.rad))
		rad = MagDiv(num, den)
	}
	var m big.Float
	m.SetPrec(prec)
	acc := m.Quo(&x.mid, &y.mid).Acc()
	return z.setRounded(&m, acc, rad)
}

// DivInt64 sets z to x / y.
func (z *Real) DivInt64(x *Real, y int64, prec uint) *Real {
	return z.Div(x, NewRealInt64(y), prec)
}

// Inv sets z to 1 / x.
func (z *Real) Inv(x *Real, prec uint) *Real {
	return z.Div(NewRealInt64(1), x, prec)
}

// PowUint sets z to x^n.
func (z *Real) PowUint(x *Real, n uint64, prec uint) *Real {
	wp := prec + uint(bitLen64(n)) + 4
	r := NewRealInt64(1)
	b := new(Real).Set(x)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r.Mul(r, b, wp)
		}
		if n > 1 {
			b.Sqr(b, wp)
		}
	}
	return z.SetRound(r, prec)
}

// PowInt sets z to x^n.
func (z *Real) PowInt(x *Real, n int64, prec uint) *Real {
	if n >= 0 {
		return z.PowUint(x, uint64(n), prec)
	}
	t := new(Real).PowUint(x, uint64(-n), prec+4)
	return z.Inv(t, prec)
}

func bitLen64(n uint64) int {
	l := 0
	for ; n > 0; n >>= 1 {
		l++
	}
	return l
}

// Sqrt sets z to sqrt(x). The result is indeterminate if x contains negative numbers.
func (z *Real) Sqrt(x *Real, prec uint) *Real {
	if !x.IsNonNegative() {
		return z.Indeterminate()
	}
	var rad Mag
	if !x.rad.IsZero() {
		lower := MagSubLower(MagLowerFromBigFloat(&x.mid), x.rad)
		if lower.IsZero() {
			rad = MagSqrt(MagMul2Exp(x.rad, 1))
		} else {
			sl := MagSqrt(lower)
			// sqrt(lower) rounded up, corrected to a lower bound
			sl = normMag(nextDown(nextDown(sl.m)), sl.e)
			rad = MagDiv(MagMul2Exp(x.rad, -1), sl)
		}
	}
	var m big.Float
	m.SetPrec(prec)
	if x.mid.Sign() == 0 {
		return z.setRounded(&m, big.Exact, rad)
	}
	m.Sqrt(&x.mid)
	return z.setRounded(&m, big.Below, rad)
}

// Rsqrt sets z to 1/sqrt(x).
func (z *Real) Rsqrt(x *Real, prec uint) *Real {
	t := new(Real).Sqrt(x, prec+8)
	return z.Inv(t, prec)
}

// SqrtUint sets z to sqrt(n).
func (z *Real) SqrtUint(n uint64, prec uint) *Real {
	return z.Sqrt(new(Real).SetUint64(n), prec)
}

// Max sets z to a ball containing max(x, y).
func (z *Real) Max(x, y *Real, prec uint) *Real {
	switch {
	case x.rad.IsInf() || y.rad.IsInf():
		return z.Indeterminate()
	case x.Lower(prec+64).Cmp(y.Upper(prec+64)) >= 0:
		return z.Set(x)
	case y.Lower(prec+64).Cmp(x.Upper(prec+64)) >= 0:
		return z.Set(y)
	}
	return z.Union(x, y, prec)
}

// Cmp compares z and x if their order is certain and returns -1, 1,
// or 0 when the balls overlap.
func (z *Real) Cmp(x *Real) int {
	if z.Overlaps(x) {
		return 0
	}
	return z.mid.Cmp(&x.mid)
}

// Less returns true if every element of z is smaller than every element of x.
func (z *Real) Less(x *Real) bool {
	return !z.Overlaps(x) && z.mid.Cmp(&x.mid) < 0
}

// GetMidReal sets z to the midpoint of x, as an exact ball.
func (z *Real) GetMidReal(x *Real) *Real {
	z.Set(x)
	z.rad = Mag{}
	return z
}

// Trim rounds the midpoint of z to roughly the number of accurate bits.
func (z *Real) Trim() *Real {
	if z.rad.IsZero() || z.rad.IsInf() || z.mid.Sign() == 0 {
		return z
	}
	acc := int64(z.mid.MantExp(nil)) - z.rad.Exp2()
	if acc < 2 {
		acc = 2
	}
	if uint(acc)+8 < z.mid.Prec() {
		return z.SetRound(z, uint(acc)+8)
	}
	return z
}
