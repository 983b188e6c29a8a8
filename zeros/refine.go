package zeros

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
)

// Fractions of an interval tried in turn as bisection points, all exact.
var bisectionPoints = []float64{0.5, 0.4375, 0.5625, 0.375, 0.625}

// HardyZZeros returns the zeros with indices n, ..., n+length-1 of the Hardy
// Z function, each as a ball of radius about 2^-prec relative to its height.
func HardyZZeros(n int64, length int, prec uint) ([]*arb.Real, error) {
	return hardyZ.Zeros(n, length, prec)
}

// Zeros returns the zeros with indices n, ..., n+length-1 of the Hardy Z
// function, each as a ball of radius about 2^-prec relative to its height.
// An Isolator at a fixed precision may return wider balls, enclosing each
// zero as tightly as its signs allow. On error the zeros found so far are
// returned with it.
func (iso *Isolator) Zeros(n int64, length int, prec uint) ([]*arb.Real, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: zero index %d < 1", ErrInvalidArgument, n)
	}
	if length <= 0 {
		return nil, nil
	}

	ivs, ierr := iso.IsolateZeros(n, length)
	res := make([]*arb.Real, 0, len(ivs))
	for i, iv := range ivs {
		z, err := iso.refineZero(iv, prec)
		if err != nil {
			return res, fmt.Errorf("cannot refine zero %d: %w", n+int64(i), err)
		}
		res = append(res, z)
	}
	return res, ierr
}

// NthZero returns the imaginary part of the n-th nontrivial zero of zeta.
func NthZero(n int64, prec uint) (*arb.Real, error) {
	res, err := HardyZZeros(n, 1, prec)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// refineZero bisects the isolating interval iv until its width is below
// 2^-prec relative to its lower end, and returns it as a ball.
func (iso *Isolator) refineZero(iv Interval, prec uint) (*arb.Real, error) {
	mprec := uint(utils.Max(iv.A.MinPrec(), iv.B.MinPrec())) + prec + 24
	a := new(big.Float).SetPrec(mprec).Set(iv.A)
	b := new(big.Float).SetPrec(mprec).Set(iv.B)

	va, _, err := iso.definiteZ(a, uint(a.MinPrec())+8)
	if err != nil {
		return nil, err
	}
	sa := va.Sign()

	target := a.MantExp(nil) - int(prec) - 1
	w := new(big.Float).SetPrec(mprec)
	for {
		w.Sub(b, a)
		if w.Sign() <= 0 {
			panic("zeros: empty isolating interval")
		}
		if w.MantExp(nil) <= target {
			break
		}

		m, s, err := iso.bisect(a, w)
		if err != nil {
			if iso.prec != 0 {
				break
			}
			return nil, err
		}
		if s == sa {
			a = m
		} else {
			b = m
		}
	}

	res := new(arb.Real).SetInterval(a, b, prec+8)
	return res.SetRound(res, prec), nil
}

// bisect returns a point of (a, a + w) at which the sign of Z is known,
// trying the points of bisectionPoints in turn.
func (iso *Isolator) bisect(a, w *big.Float) (*big.Float, int, error) {
	var err error
	for _, f := range bisectionPoints {
		m := new(big.Float).SetPrec(a.Prec()).Mul(w, big.NewFloat(f))
		m.Add(m, a)

		var v *arb.Real
		if v, _, err = iso.definiteZ(m, uint(m.MinPrec())+8); err == nil {
			return m, v.Sign(), nil
		}
		log.Debugf("bisect: moving away from %s", m.Text('g', 20))
	}
	return nil, 0, err
}
