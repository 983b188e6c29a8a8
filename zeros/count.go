package zeros

import (
	"fmt"
	"math"
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeta"
)

// Z has no zero below this height.
const firstZeroLowerBound = 14

// gramIndex returns the index of the largest Gram point below t > 10,
// floor(theta(t)/pi).
func gramIndex(t *big.Float) (int64, error) {
	x := arb.NewRealBig(t)
	prec := uint(t.MantExp(nil)) + 8
	limit := zeta.MaxPrecision(prec + 64)
	for {
		th := zeta.HardyTheta(x, nil, nil, prec)
		th.Div(th, arb.Pi(prec), prec)
		if n, ok := th.Floor(); ok {
			return n.Int64(), nil
		}
		if prec >= limit {
			log.Warnf("gramIndex: floor(theta(t)/pi) not unique at %d bits, t = %s", prec, t.Text('g', 20))
			return 0, fmt.Errorf("cannot locate %s between Gram points", t.Text('g', 20))
		}
		prec *= 2
		log.Debugf("gramIndex: raising precision to %d bits", prec)
	}
}

// countZeros returns N(t) for an increasing run of heights t >= 14 starting
// with points[0]. It may count fewer heights than given when the run leaves
// the neighbourhood of points[0].
func countZeros(points []*big.Float) ([]int64, error) {
	// the first height lies between the Gram points g_(n-2) and g_(n-1)
	n, err := gramIndex(points[0])
	if err != nil {
		return nil, err
	}
	U, V, err := hardyZ.separated(n + 2)
	if err != nil {
		return nil, err
	}

	res := make([]int64, 0, len(points))
	p, N := U, U.gram+1

	// heights between the first Gram point and its stored representative
	for len(res) < len(points) && points[len(res)].Cmp(p.t) <= 0 {
		res = append(res, N)
	}

	for len(res) < len(points) && p != V {
		if p.next == nil {
			panic("zeros: reached the end of the list before the last node")
		}
		if p.sign() != p.next.sign() {
			for len(res) < len(points) && points[len(res)].Cmp(p.next.t) <= 0 {
				t := points[len(res)]
				v, _, err := hardyZ.definiteZ(t, uint(t.MinPrec())+8)
				if err != nil {
					return nil, err
				}
				if v.Sign() == p.next.sign() {
					res = append(res, N+1)
				} else {
					res = append(res, N)
				}
			}
			N++
		}
		p = p.next
	}

	// the height lies between the last Gram point and its representative
	if len(res) == 0 {
		res = append(res, N)
	}
	return res, nil
}

// countZerosMulti returns N(t) for increasing heights.
func countZerosMulti(points []*big.Float) ([]int64, error) {
	for i := 1; i < len(points); i++ {
		if points[i].Cmp(points[i-1]) < 0 {
			panic("zeros: heights must be in increasing order")
		}
	}

	res := make([]int64, 0, len(points))
	for len(res) < len(points) {
		if points[len(res)].Cmp(big.NewFloat(firstZeroLowerBound)) < 0 {
			res = append(res, 0)
			continue
		}
		c, err := countZeros(points[len(res):])
		if err != nil {
			return nil, err
		}
		res = append(res, c...)
	}
	return res, nil
}

// NZeros returns N(t), the number of zeros of zeta with imaginary part in
// (0, t]. For an inexact t the result contains N at both ends of t.
func NZeros(t *arb.Real, prec uint) (*arb.Real, error) {
	if !t.IsFinite() {
		return arb.Indeterminate(), nil
	}

	if t.IsExact() {
		n, err := countZerosMulti([]*big.Float{t.Mid()})
		if err != nil {
			return nil, err
		}
		return new(arb.Real).SetInt64(n[0]), nil
	}

	n, err := countZerosMulti([]*big.Float{t.Lower(prec), t.Upper(prec)})
	if err != nil {
		return nil, err
	}
	res := new(arb.Real).SetInterval(new(big.Float).SetInt64(n[0]), new(big.Float).SetInt64(n[1]), prec)
	return res.SetRound(res, prec), nil
}

// NZerosGram returns N(g_n) for the Gram point g_n, n >= -1.
func NZerosGram(n int64) (int64, error) {
	if n < -1 {
		return 0, fmt.Errorf("%w: Gram point index %d < -1", ErrInvalidArgument, n)
	}

	// the (n+2)-th zero is expected between g_n and g_(n+1)
	U, V, err := hardyZ.separated(n + 2)
	if err != nil {
		return 0, err
	}

	N := U.gram + 1
	for p := U; ; p = p.next {
		if p.isGram && p.gram == n {
			return N, nil
		}
		if p == V {
			break
		}
		if p.sign() != p.next.sign() {
			N++
		}
	}
	return 0, fmt.Errorf("Gram point g_%d is not in the separated list", n)
}

// BacklundS returns S(t) = N(t) - theta(t)/pi - 1 for t > 0.
// Heights known to high relative accuracy are evaluated from N(t), with
// working precision raised against the cancellation between N(t) and
// theta(t)/pi. Wider balls get the bound of BacklundSBound.
func BacklundS(t *arb.Real, prec uint) (*arb.Real, error) {
	if !t.IsFinite() || !t.IsPositive() {
		return arb.Indeterminate(), nil
	}

	// width of t in units of the mean zero spacing 2 pi / log t
	lt := math.Log(math.Max(t.Float64(), math.E))
	if !t.IsExact() && t.Rad().Float64()*lt > 0.25 {
		return new(arb.Real).AddError(BacklundSBound(t)), nil
	}

	wp := prec + magBits(t.AbsUpper()) + 8

	N, err := NZeros(t, wp)
	if err != nil {
		return nil, err
	}

	th := zeta.HardyTheta(t, nil, nil, wp)
	th.Div(th, arb.Pi(wp), wp)

	res := new(arb.Real).Sub(N, th, wp)
	res.SubInt64(res, 1, wp)
	return res.SetRound(res, prec), nil
}

// BacklundSBound returns a bound for |S(t)| over the ball t:
// 1 for |t| <= 280, 2 for |t| <= 6.8e6, and
// 0.112 log t + 0.278 log log t + 2.51 above.
func BacklundSBound(t *arb.Real) arb.Mag {
	if !t.IsFinite() {
		return arb.MagInf()
	}
	tu := t.AbsUpper().Float64()
	switch {
	case tu <= 280:
		return arb.NewMag(1)
	case tu <= 6.8e6:
		return arb.NewMag(2)
	}
	l := math.Log(tu)
	return arb.NewMag((0.112*l + 0.278*math.Log(l) + 2.51) * (1 + 1e-12))
}

// magBits returns the number of bits of the integer part of m.
func magBits(m arb.Mag) uint {
	if e := m.Exp2(); e > 0 {
		return uint(e)
	}
	return 0
}
