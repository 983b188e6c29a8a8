package arb

import (
	"math/big"
	"sync"

	"github.com/tuneinsight/dirichlet/utils/bignum"
)

// the decimal expansions of bignum are accurate to more than this many bits
const constStringPrec = 3200

var constCache sync.Map

type constKey struct {
	name string
	prec uint
}

func cachedConst(name string, prec uint, f func(prec uint) *Real) *Real {
	key := constKey{name, prec}
	if v, ok := constCache.Load(key); ok {
		return new(Real).Set(v.(*Real))
	}
	v := f(prec)
	constCache.Store(key, new(Real).Set(v))
	return v
}

// Pi returns a ball containing pi.
func Pi(prec uint) *Real {
	return cachedConst("pi", prec, func(prec uint) *Real {
		if prec <= constStringPrec {
			return constFromString(bignum.Pi(prec), prec)
		}
		// 16 atan(1/5) - 4 atan(1/239)
		wp := prec + 16
		a := atanInvInt(5, wp)
		b := atanInvInt(239, wp)
		a.Mul2Exp(a, 4)
		b.Mul2Exp(b, 2)
		return a.Sub(a, b, prec)
	})
}

// Log2 returns a ball containing log(2).
func Log2(prec uint) *Real {
	return cachedConst("log2", prec, func(prec uint) *Real {
		if prec <= constStringPrec {
			return constFromString(bignum.Log2(prec), prec)
		}
		// 2 atanh(1/3)
		wp := prec + 16
		x := new(Real).SetFrac(1, 3, wp)
		x2 := new(Real).Sqr(x, wp)
		sum := new(Real).Set(x)
		term := new(Real).Set(x)
		t := new(Real)
		for k := int64(1); ; k++ {
			term.Mul(term, x2, wp)
			t.DivInt64(term, 2*k+1, wp)
			sum.Add(sum, t, wp)
			if term.AbsUpper().Exp2() < -int64(wp) {
				// tail bounded by the geometric series of ratio 1/9
				sum.AddError(MagMul2Exp(term.AbsUpper(), 1))
				break
			}
		}
		return sum.Mul2Exp(sum, 1)
	})
}

// SqrtPi returns a ball containing sqrt(pi).
func SqrtPi(prec uint) *Real {
	return cachedConst("sqrtpi", prec, func(prec uint) *Real {
		return new(Real).Sqrt(Pi(prec+8), prec)
	})
}

// constFromString rounds a constant given by a decimal expansion accurate
// to constStringPrec bits.
func constFromString(f *big.Float, prec uint) *Real {
	r := new(Real).SetBigFloat(f)
	// rounding to prec bits plus truncation of the expansion
	r.rad = MagAdd(NewMag2Exp(int64(f.MantExp(nil))-int64(prec)), NewMag2Exp(-constStringPrec))
	return r
}

// atanInvInt returns atan(1/n) for an integer n >= 2.
func atanInvInt(n int64, prec uint) *Real {
	x := new(Real).SetFrac(1, n, prec)
	x2 := new(Real).Sqr(x, prec)
	sum := new(Real).Set(x)
	term := new(Real).Set(x)
	t := new(Real)
	for k := int64(1); ; k++ {
		term.Mul(term, x2, prec)
		t.DivInt64(term, 2*k+1, prec)
		if k&1 == 1 {
			sum.Sub(sum, t, prec)
		} else {
			sum.Add(sum, t, prec)
		}
		if term.AbsUpper().Exp2() < -int64(prec) {
			sum.AddError(term.AbsUpper())
			break
		}
	}
	return sum
}
