package zeta

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
)

// Jets are bounded by Cauchy estimates on a disc of this radius around s.
const jetRadius = 0.5

// EMBound returns upper bounds for the first length Taylor coefficients of the
// Euler-Maclaurin remainder of zeta(s + x, a) after N terms of the power sum
// and M Bernoulli terms:
//
//	|R| <= 4 |(s)_{2M}| / (2 pi)^{2M} w^{1 - sigma - 2M} / (sigma + 2M - 1), w = a + N.
//
// The bounds are infinite when sigma + 2M - 1 <= 0.
func EMBound(s *arb.Complex, a *arb.Real, N, M, length int) []arb.Mag {
	bounds := make([]arb.Mag, length)
	lb := emLog2Bound(s, a, N, M, length)
	for j := range bounds {
		if math.IsInf(lb, 1) || math.IsNaN(lb) {
			bounds[j] = arb.MagInf()
			continue
		}
		// Cauchy: |c_j| <= sup / rho^j
		e := lb + float64(j)*math.Log2(1/jetRadius)
		bounds[j] = arb.NewMag2Exp(int64(math.Ceil(e)) + 1)
	}
	return bounds
}

// emLog2Bound returns log2 of the supremum of the remainder bound over the
// disc of radius jetRadius around s, or over s itself when length is 1.
func emLog2Bound(s *arb.Complex, a *arb.Real, N, M, length int) float64 {
	rho := 0.0
	if length > 1 {
		rho = jetRadius
	}

	abss := s.AbsUpper().Float64() * (1 + 1e-12)
	sigma := lowerFloat(&s.Re) - rho
	w := lowerFloat(a) + float64(N)
	den := sigma + float64(2*M) - 1
	if !(w >= 1) || !(den > 0) || math.IsInf(abss, 0) {
		return math.Inf(1)
	}

	lb := 2.0
	for k := 0; k < 2*M; k++ {
		lb += math.Log2(abss + rho + float64(k))
	}
	lb -= float64(2*M) * math.Log2(2*math.Pi)
	lb += (1 - sigma - float64(2*M)) * math.Log2(w)
	lb -= math.Log2(den)
	return lb + 1e-6*math.Abs(lb)
}

// EMChooseNM returns a number N of terms of the power sum and a number M of
// Bernoulli terms for which the remainder of the first length coefficients
// is below 2^-prec.
func EMChooseNM(s *arb.Complex, a *arb.Real, prec uint, length int) (N, M int) {
	rho := 0.0
	if length > 1 {
		rho = jetRadius
	}
	abss := s.AbsUpper().Float64()
	af := lowerFloat(a)
	target := -float64(prec) - float64(length)

	for M = int(prec)/2 + 2; M < 1<<16; M += 4 {
		// (|s| + 2M) / (2 pi w) <= 1/2
		N = int(math.Ceil((abss+rho+float64(2*M))/math.Pi-af)) + 1
		if N < 1 {
			N = 1
		}
		if emLog2Bound(s, a, N, M, length)+float64(length) <= target {
			return
		}
	}
	return
}

// Hurwitz returns the Hurwitz zeta function zeta(s, a) for a > 0.
func Hurwitz(s *arb.Complex, a *arb.Real, prec uint) *arb.Complex {
	res := HurwitzSeries(s, a, false, 1, prec)
	return &res[0]
}

// HurwitzSeries returns the first length Taylor coefficients in x of
// zeta(s + x, a) for a > 0. With deflate, the pole 1/(s + x - 1) is removed.
func HurwitzSeries(s *arb.Complex, a *arb.Real, deflate bool, length int, prec uint) arb.Series {
	if length < 1 {
		return arb.NewSeries(0)
	}
	if !s.IsFinite() || !a.IsPositive() || !a.IsFinite() {
		return indeterminateSeries(length)
	}
	N, M := EMChooseNM(s, a, prec, length)
	return EMSum(s, a, deflate, N, M, length, prec)
}

// EMSum evaluates the Euler-Maclaurin formula
//
//	sum_{k<N} (a+k)^-s + w^(1-s)/(s-1) + w^-s/2 + sum_{j=1}^M B_2j/(2j)! (s)_{2j-1} w^(-s-2j+1)
//
// with w = a + N, as a series in x = s - s0, and adds the remainder bound.
func EMSum(s *arb.Complex, a *arb.Real, deflate bool, N, M, length int, prec uint) arb.Series {
	wp := prec + 16 + uint(bits.Len(uint(N))) + magBits(s.AbsUpper()) + uint(length)

	var sum arb.Series
	if a.IsOne() {
		sum = PowSumSieved(s, N, length, wp)
	} else {
		sum = PowSumGeneric(s, a, N, length, wp)
	}

	w := new(arb.Real).AddInt64(a, int64(N), wp)
	logw := new(arb.Real).Log(w, wp)
	nlogw := new(arb.Complex).SetReal(logw)
	nlogw.Neg(nlogw)

	// W = w^-(s+x)
	ns := new(arb.Complex).Neg(s)
	ws := new(arb.Complex).PowReal(w, ns, wp)
	W := arb.SeriesExpLinear(ws, nlogw, length, wp)

	sm1 := new(arb.Complex).AddInt64(s, -1, wp)
	var pole arb.Series
	if deflate {
		pole = deflatedPow(logw, sm1, length, wp)
	} else {
		wc := new(arb.Complex).SetReal(w)
		pole = arb.SeriesMullow(arb.SeriesScale(W, wc, wp), arb.SeriesLinearInv(sm1, length, wp), length, wp)
	}
	sum = arb.SeriesAdd(sum, pole, length, wp)

	half := arb.NewSeries(length)
	for i := range half {
		half[i].Mul2Exp(&W[i], -1)
	}
	sum = arb.SeriesAdd(sum, half, length, wp)

	// (s + x)_{2j-1}, starting from s + x
	poch := linearSeries(s, length)
	winv2 := new(arb.Real).Sqr(w, wp)
	winv2.Inv(winv2, wp)
	wk := new(arb.Real).Inv(w, wp)
	fact := big.NewInt(2)
	c := new(arb.Complex)
	for j := 1; j <= M; j++ {
		// B_2j / (2j)!
		r := new(big.Rat).SetFrac(big.NewInt(1), fact)
		r.Mul(r, arb.Bernoulli(2*j))
		c.SetReal(new(arb.Real).SetRat(r, wp))
		c.MulReal(c, wk, wp)

		t := arb.SeriesScale(arb.SeriesMullow(poch, W, length, wp), c, wp)
		sum = arb.SeriesAdd(sum, t, length, wp)

		if j == M {
			break
		}
		c.AddInt64(s, int64(2*j-1), wp)
		poch = mulLinear(poch, c, wp)
		c.AddInt64(s, int64(2*j), wp)
		poch = mulLinear(poch, c, wp)
		wk.Mul(wk, winv2, wp)
		fact.Mul(fact, big.NewInt(int64((2*j+1)*(2*j+2))))
	}

	for j, e := range EMBound(s, a, N, M, length) {
		sum[j].AddError(e)
		sum[j].SetRound(&sum[j], prec)
	}
	return sum
}

// deflatedPow returns the series in x of g(u + x) = (exp(-(u + x) L) - 1) / (u + x)
// for L > 0. A ball u containing zero is expanded around zero, with
// |g^(k)(v)| <= L^(k+1) exp(|v| L) / (k+1) bounding the distance.
func deflatedPow(L *arb.Real, u *arb.Complex, length int, prec uint) arb.Series {
	nl := new(arb.Complex).SetReal(L)
	nl.Neg(nl)

	if !u.IsZero() && u.ContainsZero() {
		res := deflatedPow(L, new(arb.Complex), length, prec)
		rho := u.AbsUpper()
		l := L.AbsUpper()
		e := arb.MagMul(rho, arb.MagMul(arb.MagMul(l, l), arb.MagExp(arb.MagMul(rho, l))))
		for j := range res {
			if j > 0 {
				e = arb.MagDiv(arb.MagMul(e, l), arb.NewMag(float64(j)))
			}
			res[j].AddError(arb.MagDiv(e, arb.NewMag(float64(j+2))))
		}
		return res
	}

	if u.IsZero() {
		// (-L)^(j+1) / (j+1)!
		res := arb.NewSeries(length)
		c := new(arb.Complex).Set(nl)
		for j := 0; j < length; j++ {
			res[j].Set(c)
			c.Mul(c, nl, prec)
			c.DivInt64(c, int64(j+2), prec)
		}
		return res
	}
	e := new(arb.Complex).Mul(u, nl, prec)
	e.Exp(e, prec)
	E := arb.SeriesExpLinear(e, nl, length, prec)
	E[0].AddInt64(&E[0], -1, prec)
	return arb.SeriesMullow(E, arb.SeriesLinearInv(u, length, prec), length, prec)
}

// linearSeries returns c + x truncated to length terms.
func linearSeries(c *arb.Complex, length int) arb.Series {
	r := arb.NewSeries(length)
	r[0].Set(c)
	if length > 1 {
		r[1].One()
	}
	return r
}

// mulLinear returns p (c + x), truncated to len(p) terms.
func mulLinear(p arb.Series, c *arb.Complex, prec uint) arb.Series {
	r := arb.NewSeries(len(p))
	for i := range p {
		r[i].Mul(&p[i], c, prec)
		if i > 0 {
			r[i].Add(&r[i], &p[i-1], prec)
		}
	}
	return r
}

func indeterminateSeries(length int) arb.Series {
	r := arb.NewSeries(length)
	for i := range r {
		r[i].Indeterminate()
	}
	return r
}
