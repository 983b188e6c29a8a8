package zeros

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/zeta"
)

// GramPoint returns the n-th Gram point g_n, the solution t >= 7 of
// theta(t) = n pi, for n >= -1.
//
// The asymptotic estimate g_n ~ 2 pi exp(1 + W((n + 1/8)/e)) is accurate to
// 1/64 for n <= 1 and to log(n)/(64 n) otherwise. It is then refined by
// interval Newton steps of doubling precision. A step whose result escapes
// the enclosure it started from is discarded together with the remaining
// steps, leaving a wider but valid enclosure.
func GramPoint(n int64, prec uint) (*arb.Real, error) {
	if n < -1 {
		return nil, fmt.Errorf("%w: Gram point index %d < -1", ErrInvalidArgument, n)
	}

	asymp := 2 * uint(bits.Len64(absInt64(n)))
	if asymp > prec {
		asymp = prec
	}

	res := gramInitial(n, asymp+20)
	acc := relAccuracy(res)
	if acc >= int64(prec) {
		return res.SetRound(res, prec), nil
	}

	steps := []uint{prec + prec/20 + 10}
	for steps[len(steps)-1]/2 > uint(utils.Max(acc, 0)) {
		steps = append(steps, steps[len(steps)-1]/2)
	}

	// theta''(t) <= C = 1/t for t >= 1
	C := arb.MagInf()
	if lo := res.AbsLower(); lo.Cmp(arb.NewMag(1)) >= 0 {
		C = arb.MagDiv(arb.NewMag(1), lo)
	}

	root := new(arb.Real).Set(res)
	for i := len(steps) - 1; i >= 0; i-- {
		wp := steps[i] + 10
		if a := relAccuracy(root) + 10; a > int64(wp) {
			wp = uint(a)
		}

		r := root.Rad()
		m := new(arb.Real).GetMidReal(root)

		// f(m) = theta(m) - n pi
		f := zeta.HardyTheta(m, nil, nil, wp)
		f.Sub(f, new(arb.Real).MulInt64(arb.Pi(wp), n, wp), wp)

		// f'([m +/- r]) = f'(m) +/- C r
		fp := thetaPrime(m, wp)
		fp.AddError(arb.MagMul(C, r))

		next := new(arb.Real).Div(f, fp, wp)
		next.Sub(m, next, wp)

		if !res.Contains(next) {
			root.Set(res)
			log.Warnf("GramPoint: Newton step at %d bits left the enclosure of g_%d, keeping %s", wp, n, root)
			break
		}
		root = next
	}

	return root.SetRound(root, prec), nil
}

// gramInitial returns 2 pi exp(1 + W((n + 1/8)/e)) with its a priori error.
func gramInitial(n int64, prec uint) *arb.Real {
	e := new(arb.Real).Exp(arb.NewRealInt64(1), prec)

	x := new(arb.Real).SetFrac(8*n+1, 8, prec)
	x.Div(x, e, prec)
	x.LambertW(x, prec)
	x.AddInt64(x, 1, prec)
	x.Exp(x, prec)
	x.Mul(x, arb.Pi(prec), prec)
	x.Mul2Exp(x, 1)

	if n <= 1 {
		return x.AddError(arb.NewMag2Exp(-6))
	}
	b := new(arb.Real).LogUint(uint64(n), 64)
	b.DivInt64(b, 64*n, 64)
	return x.AddError(b.AbsUpper())
}

// thetaPrime returns theta'(t) = Re psi(1/4 + it/2)/2 - log(pi)/2.
func thetaPrime(t *arb.Real, prec uint) *arb.Real {
	z := new(arb.Complex)
	z.Re.SetFrac(1, 4, prec)
	z.Im.Mul2Exp(t, -1)
	z.Digamma(z, prec)

	res := new(arb.Real).Log(arb.Pi(prec), prec)
	res.Sub(&z.Re, res, prec)
	return res.Mul2Exp(res, -1)
}

// relAccuracy returns the number of correct leading bits of x.
func relAccuracy(x *arb.Real) int64 {
	if !x.IsFinite() {
		return -1 << 40
	}
	if x.Rad().IsZero() {
		return 1 << 40
	}
	if x.Mid().Sign() == 0 {
		return -x.Rad().Exp2()
	}
	return int64(x.Mid().MantExp(nil)) - x.Rad().Exp2()
}

func absInt64(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}
