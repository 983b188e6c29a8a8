package arb

import (
	"math"
	"math/big"

	"github.com/tuneinsight/dirichlet/utils/bignum"
)

// LambertW sets z to the principal branch W0(x) for x > -1/e.
func (z *Real) LambertW(x *Real, prec uint) *Real {
	if !x.IsFinite() {
		return z.Indeterminate()
	}

	// W0 is 1-Lipschitz on [0, inf) and W0'(x) = 1/(exp(W) (1 + W))
	// decreases on (-1/e, 0).
	lip := 1.0
	if !x.IsNonNegative() {
		lo, _ := x.Lower(64).Float64()
		if !(lo*math.E > -1+1e-9) {
			return z.Indeterminate()
		}
		wl := lambertWFloat(lo)
		lip = math.Max(1, 1.01/(math.Exp(wl)*(1+wl)))
	}

	w := lambertWMid(&x.mid, prec+4)
	w.AddError(MagMulFloat(x.rad, lip))
	return z.SetRound(w, prec)
}

// lambertWFloat returns an approximation of W0(x) for x > -1/e.
func lambertWFloat(x float64) float64 {
	var w float64
	if x < 3 {
		w = math.Log1p(x)
	} else {
		l1 := math.Log(x)
		w = l1 - math.Log(l1)
	}
	for i := 0; i < 30; i++ {
		e := math.Exp(w)
		d := (w*e - x) / (e * (w + 1))
		w -= d
		if math.Abs(d) < 1e-15*math.Max(1, math.Abs(w)) {
			break
		}
	}
	return w
}

// lambertWMid returns W0(x) for an exact x > -1/e. The midpoint is refined by
// Newton iterations and enclosed by checking the sign of w exp(w) - x on both
// sides of it.
func lambertWMid(x *big.Float, prec uint) *Real {
	if x.Sign() == 0 {
		return new(Real)
	}

	wp := prec + 16

	xf, _ := x.Float64()
	w0 := lambertWFloat(xf)

	w := new(big.Float).SetPrec(wp).SetFloat64(w0)
	xw := new(big.Float).SetPrec(wp).Set(x)
	one := new(big.Float).SetPrec(wp).SetInt64(1)

	for bits := uint(50); ; bits *= 2 {
		// w -= (w e^w - x) / (e^w (w + 1))
		e := bignum.Exp(w)
		num := new(big.Float).SetPrec(wp).Mul(w, e)
		num.Sub(num, xw)
		den := new(big.Float).SetPrec(wp).Add(w, one)
		den.Mul(den, e)
		num.Quo(num, den)
		w.Sub(w, num)
		if bits > wp {
			break
		}
	}

	f := func(t *big.Float) int {
		tr := NewRealBig(t)
		v := new(Real).Exp(tr, wp)
		v.Mul(v, tr, wp)
		v.Sub(v, NewRealBig(x), wp)
		return v.Sign()
	}

	ex := w.MantExp(nil)
	if ex < 0 {
		ex = 0
	}
	for k := int(wp) - 8; k > int(prec)/2; k -= 8 {
		eps := new(big.Float).SetMantExp(big.NewFloat(1), ex-k)
		lo := new(big.Float).SetPrec(wp).Sub(w, eps)
		hi := new(big.Float).SetPrec(wp).Add(w, eps)
		if f(lo) < 0 && f(hi) > 0 {
			return new(Real).SetInterval(lo, hi, wp)
		}
	}

	return Indeterminate()
}
