package arb

import (
	"fmt"
	"math"
	"math/big"
)

// Mag is an upper bound m * 2^e for a nonnegative real number,
// with m in [0.5, 1) or m = 0.
// Every operation on Mag rounds upward so that the result stays an
// upper bound of the exact result. A positive quantity never underflows to zero.
type Mag struct {
	m   float64
	e   int64
	inf bool
}

const magMaxExp = 1 << 40

func nextUp(x float64) float64 {
	return math.Nextafter(x, math.Inf(1))
}

func nextDown(x float64) float64 {
	return math.Nextafter(x, 0)
}

func normMag(m float64, e int64) Mag {
	if m == 0 {
		return Mag{}
	}
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return MagInf()
	}
	frac, exp := math.Frexp(m)
	e += int64(exp)
	if e > magMaxExp {
		return MagInf()
	}
	return Mag{m: frac, e: e}
}

// MagInf returns an infinite bound.
func MagInf() Mag {
	return Mag{inf: true}
}

// NewMag returns an upper bound for |x|.
func NewMag(x float64) Mag {
	return normMag(math.Abs(x), 0)
}

// NewMag2Exp returns 2^e.
func NewMag2Exp(e int64) Mag {
	return Mag{m: 0.5, e: e + 1}
}

// IsZero returns true if the bound is exactly zero.
func (x Mag) IsZero() bool {
	return !x.inf && x.m == 0
}

// IsInf returns true if the bound is infinite.
func (x Mag) IsInf() bool {
	return x.inf
}

// IsFinite returns true if the bound is finite.
func (x Mag) IsFinite() bool {
	return !x.inf
}

// Exp2 returns an integer e such that x <= 2^e.
func (x Mag) Exp2() int64 {
	switch {
	case x.inf:
		return math.MaxInt64
	case x.m == 0:
		return math.MinInt64
	}
	return x.e
}

// Float64 returns x as a float64, rounded upward.
func (x Mag) Float64() float64 {
	switch {
	case x.inf:
		return math.Inf(1)
	case x.m == 0:
		return 0
	case x.e > 1100:
		return math.Inf(1)
	case x.e < -1070:
		return math.SmallestNonzeroFloat64
	}
	f := math.Ldexp(x.m, int(x.e))
	if x.e < -1020 {
		f = nextUp(f)
	}
	return f
}

// Log2 returns an approximation of log2(x).
func (x Mag) Log2() float64 {
	switch {
	case x.inf:
		return math.Inf(1)
	case x.m == 0:
		return math.Inf(-1)
	}
	return float64(x.e) + math.Log2(x.m)
}

// BigFloat returns x as a *big.Float. The conversion is exact
// except for extreme exponents, which are clamped upward.
func (x Mag) BigFloat() *big.Float {
	f := new(big.Float)
	switch {
	case x.inf:
		return f.SetInf(false)
	case x.m == 0:
		return f
	}
	e := x.e
	if e < -(1 << 30) {
		e = -(1 << 30)
	}
	if e > 1<<30 {
		return f.SetInf(false)
	}
	f.SetFloat64(x.m)
	return f.SetMantExp(f, int(e))
}

// Cmp compares x and y and returns -1, 0 or 1.
func (x Mag) Cmp(y Mag) int {
	switch {
	case x.inf && y.inf:
		return 0
	case x.inf:
		return 1
	case y.inf:
		return -1
	case x.m == 0 && y.m == 0:
		return 0
	case x.m == 0:
		return -1
	case y.m == 0:
		return 1
	case x.e != y.e:
		if x.e < y.e {
			return -1
		}
		return 1
	case x.m < y.m:
		return -1
	case x.m > y.m:
		return 1
	}
	return 0
}

// String implements fmt.Stringer.
func (x Mag) String() string {
	switch {
	case x.inf:
		return "inf"
	case x.m == 0:
		return "0"
	}
	return fmt.Sprintf("%.6g*2^%d", x.m*2, x.e-1)
}

// MagAdd returns an upper bound for x + y.
func MagAdd(x, y Mag) Mag {
	switch {
	case x.inf || y.inf:
		return MagInf()
	case x.m == 0:
		return y
	case y.m == 0:
		return x
	}
	if x.e < y.e {
		x, y = y, x
	}
	d := x.e - y.e
	if d > 60 {
		return normMag(nextUp(x.m), x.e)
	}
	return normMag(nextUp(x.m+math.Ldexp(y.m, -int(d))), x.e)
}

// MagMul returns an upper bound for x * y.
func MagMul(x, y Mag) Mag {
	switch {
	case x.inf || y.inf:
		return MagInf()
	case x.m == 0 || y.m == 0:
		return Mag{}
	}
	return normMag(nextUp(x.m*y.m), x.e+y.e)
}

// MagMulLower returns a lower bound for x * y.
func MagMulLower(x, y Mag) Mag {
	switch {
	case x.inf || y.inf:
		return MagInf()
	case x.m == 0 || y.m == 0:
		return Mag{}
	}
	return normMag(nextDown(x.m*y.m), x.e+y.e)
}

// MagDiv returns an upper bound for x / y, where y must be a lower bound
// for the divisor.
func MagDiv(x, y Mag) Mag {
	switch {
	case x.inf || y.m == 0 && !y.inf:
		return MagInf()
	case x.m == 0 || y.inf:
		return Mag{}
	}
	return normMag(nextUp(x.m/y.m), x.e-y.e)
}

// MagMulFloat returns an upper bound for x * |f|.
func MagMulFloat(x Mag, f float64) Mag {
	return MagMul(x, NewMag(f))
}

// MagMul2Exp returns x * 2^k.
func MagMul2Exp(x Mag, k int64) Mag {
	if x.inf || x.m == 0 {
		return x
	}
	return normMag(x.m, x.e+k)
}

// MagMax returns the largest of x and y.
func MagMax(x, y Mag) Mag {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// MagPowUint returns an upper bound for x^n.
func MagPowUint(x Mag, n uint64) Mag {
	r := NewMag(1)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r = MagMul(r, x)
		}
		x = MagMul(x, x)
	}
	return r
}

// MagSqrt returns an upper bound for sqrt(x).
func MagSqrt(x Mag) Mag {
	if x.inf || x.m == 0 {
		return x
	}
	m, e := x.m, x.e
	if e&1 != 0 {
		m *= 2
		e--
	}
	return normMag(nextUp(math.Sqrt(m)), e/2)
}

// MagExp returns an upper bound for exp(x).
func MagExp(x Mag) Mag {
	if x.inf {
		return MagInf()
	}
	if x.m == 0 || x.e < -1000 {
		return normMag(nextUp(1), 0)
	}
	if x.e > 50 {
		return MagInf()
	}
	y := math.Ldexp(x.m, int(x.e)) * math.Log2E
	k := math.Floor(y)
	slack := 1 + (math.Abs(y)+1)*0x1p-50
	return normMag(nextUp(math.Exp2(y-k)*slack), int64(k))
}

// MagExpm1 returns an upper bound for exp(x) - 1.
func MagExpm1(x Mag) Mag {
	if x.inf || x.m == 0 {
		return x
	}
	return MagMul(x, MagExp(x))
}

// MagFromBigFloat returns an upper bound for |x|.
func MagFromBigFloat(x *big.Float) Mag {
	if x.IsInf() {
		return MagInf()
	}
	if x.Sign() == 0 {
		return Mag{}
	}
	mant := new(big.Float)
	exp := x.MantExp(mant)
	f, _ := mant.Float64()
	return normMag(nextUp(math.Abs(f)), int64(exp))
}

// MagLowerFromBigFloat returns a lower bound for |x|.
func MagLowerFromBigFloat(x *big.Float) Mag {
	if x.IsInf() {
		return MagInf()
	}
	if x.Sign() == 0 {
		return Mag{}
	}
	mant := new(big.Float)
	exp := x.MantExp(mant)
	f, _ := mant.Float64()
	return normMag(nextDown(math.Abs(f)), int64(exp))
}

// MagSubLower returns a lower bound for max(x - y, 0), where x is a lower bound
// and y an upper bound.
func MagSubLower(x, y Mag) Mag {
	switch {
	case y.inf || x.m == 0:
		return Mag{}
	case x.inf:
		return MagInf()
	case y.m == 0:
		return x
	}
	if x.Cmp(y) <= 0 {
		return Mag{}
	}
	d := x.e - y.e
	if d > 60 {
		return normMag(nextDown(x.m), x.e)
	}
	v := x.m - math.Ldexp(y.m, -int(d))
	// the difference of two float64 at most 60 binades apart is exact up to one ulp
	return normMag(nextDown(nextDown(v)), x.e)
}
