package zeta

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
)

// |z| up to which LerchPhi sums the defining series.
const lerchDirectRadius = 0.75

// |log z| up to which LerchPhi uses the expansion in powers of log z, as a
// fraction of its radius of convergence 2 pi.
const lerchLogRadius = 0.75

// Number of terms after which LerchPhi gives up.
const lerchMaxTerms = 1 << 20

// LerchPhi returns the Lerch transcendent
//
//	Phi(z, s, a) = sum_{k>=0} z^k (k + a)^-s
//
// for a > 0, continued analytically to z outside of the unit disk with a
// branch cut along [1, +inf). Phi(1, s, a) is the Hurwitz zeta function and
// Phi(-1, s, a) is the alternating Hurwitz zeta function.
//
// The series is summed for |z| <= 3/4. Otherwise the expansion
//
//	Phi(z, s, a) = z^-a (Gamma(1-s) (-log z)^(s-1) + sum_k zeta(s-k, a) (log z)^k / k!)
//
// is used for |log z| <= 3 pi / 2, with its limit at positive integers s. The
// result is indeterminate in the remaining cases and when s is a ball that
// contains a positive integer without being exact.
func LerchPhi(z, s *arb.Complex, a *arb.Real, prec uint) *arb.Complex {
	if !z.IsFinite() || !s.IsFinite() || !a.IsFinite() || !a.IsPositive() {
		return arb.IndeterminateComplex()
	}

	switch {
	case z.IsZero():
		ms := new(arb.Complex).Neg(s)
		return new(arb.Complex).PowReal(a, ms, prec)
	case z.IsExact() && z.Im.IsZero() && z.Re.IsOne():
		return Hurwitz(s, a, prec)
	case z.IsExact() && z.Im.IsZero() && z.Re.Equal(arb.NewRealInt64(-1)):
		return lerchAlternating(s, a, prec)
	}

	if z.AbsUpper().Float64() <= lerchDirectRadius {
		return lerchDirect(z, s, a, prec)
	}

	// branch cut
	if z.Im.ContainsZero() && z.Re.Upper(64).Cmp(big.NewFloat(1)) >= 0 {
		return arb.IndeterminateComplex()
	}
	return lerchExpansion(z, s, a, prec)
}

// lerchAlternating returns Phi(-1, s, a) = 2^-s (zeta(s, a/2) - zeta(s, (a+1)/2)).
// The poles at s = 1 cancel and the deflated functions are used there.
func lerchAlternating(s *arb.Complex, a *arb.Real, prec uint) *arb.Complex {
	wp := prec + 8
	deflate := s.ContainsInt64(1)

	a0 := new(arb.Real).Mul2Exp(a, -1)
	a1 := new(arb.Real).AddInt64(a, 1, wp)
	a1.Mul2Exp(a1, -1)

	h0 := HurwitzSeries(s, a0, deflate, 1, wp)
	h1 := HurwitzSeries(s, a1, deflate, 1, wp)
	res := new(arb.Complex).Sub(&h0[0], &h1[0], wp)

	ms := new(arb.Complex).Neg(s)
	p := new(arb.Complex).PowReal(arb.NewRealInt64(2), ms, wp)
	return res.Mul(res, p, prec)
}

// lerchDirect sums the series for |z| < 1. For k >= N the ratio of
// consecutive terms is at most |z| (1 + 1/(N + a))^max(0, -Re(s)).
func lerchDirect(z, s *arb.Complex, a *arb.Real, prec uint) *arb.Complex {
	r := z.AbsUpper().Float64()
	sigma := lowerFloat(&s.Re)
	af := lowerFloat(a)

	N := lerchDirectTerms(r, sigma, af, prec)
	wp := prec + 16 + uint(bits.Len(uint(N))) + magBits(s.AbsUpper())

	ms := new(arb.Complex).Neg(s)
	res := new(arb.Complex)
	zk := arb.NewComplexInt64(1, 0)
	x := new(arb.Real)
	t := new(arb.Complex)
	for k := 0; k < N; k++ {
		x.AddInt64(a, int64(k), wp)
		t.PowReal(x, ms, wp)
		res.MulAdd(zk, t, wp)
		zk.Mul(zk, z, wp)
	}

	// r^N (N + a)^-sigma / (1 - rho)
	x.AddInt64(a, int64(N), 64)
	msig := new(arb.Real).Neg(&s.Re)
	tail := new(arb.Real).Pow(x, msig, 64)
	rr := new(arb.Real).SetBigFloat(z.AbsUpper().BigFloat())
	tail.Mul(tail, new(arb.Real).PowUint(rr, uint64(N), 64), 64)

	rho := arb.NewRealInt64(1)
	if sigma < 0 {
		rho.Div(rho, x, 64)
		rho.AddInt64(rho, 1, 64)
		rho.Pow(rho, msig, 64)
	}
	rho.Mul(rho, rr, 64)
	den := new(arb.Real).Sub(arb.NewRealInt64(1), rho, 64)
	if !den.IsPositive() {
		return arb.IndeterminateComplex()
	}
	tail.Div(tail, den, 64)

	res.AddError(tail.AbsUpper())
	return res.SetRound(res, prec)
}

// lerchDirectTerms returns a number of terms of the series for which the
// tail is about 2^-prec.
func lerchDirectTerms(r, sigma, a float64, prec uint) int {
	if r == 0 {
		return 1
	}
	target := -float64(prec) - 10
	lr := math.Log2(r)
	for N := 1; N < lerchMaxTerms; N++ {
		e := float64(N)*lr - sigma*math.Log2(float64(N)+a)
		if sigma < 0 {
			e += -sigma * math.Log2(1+1/(float64(N)+a))
		}
		if e <= target {
			return N
		}
	}
	return lerchMaxTerms
}

// lerchExpansion evaluates the expansion in powers of L = log z.
func lerchExpansion(z, s *arb.Complex, a *arb.Real, prec uint) *arb.Complex {
	n, integer := exactInt(s)
	integer = integer && n >= 1
	if !integer && lerchContainsPositiveInt(s) {
		return arb.IndeterminateComplex()
	}

	wp := prec + 32 + magBits(s.AbsUpper())

	L := new(arb.Complex).Log(z, wp)
	absL := L.AbsUpper().Float64()
	if !L.IsFinite() || absL > lerchLogRadius*2*math.Pi {
		return arb.IndeterminateComplex()
	}

	K := lerchExpansionTerms(s, a, absL, prec)
	if integer && int64(K) < n {
		K = int(n)
	}

	// sum_{k<K} zeta(s - k, a) L^k / k!
	res := new(arb.Complex)
	Lk := arb.NewComplexInt64(1, 0)
	w := new(arb.Complex)
	for k := 0; k < K; k++ {
		if !integer || int64(k) != n-1 {
			w.AddInt64(s, -int64(k), wp)
			res.MulAdd(Lk, Hurwitz(w, a, wp), wp)
		}
		Lk.Mul(Lk, L, wp)
		Lk.DivInt64(Lk, int64(k+1), wp)
	}
	res.AddError(lerchExpansionTail(s, a, L, K))

	mL := new(arb.Complex).Neg(L)
	if integer {
		res.Add(res, lerchIntegerTerm(mL, a, n, wp), wp)
	} else {
		// Gamma(1 - s) (-L)^(s - 1)
		g := new(arb.Complex).Neg(s)
		g.AddInt64(g, 1, wp)
		g.Gamma(g, wp)
		w.AddInt64(s, -1, wp)
		w.Pow(mL, w, wp)
		res.MulAdd(g, w, wp)
	}

	// z^-a
	w.MulReal(mL, a, wp)
	w.Exp(w, wp)
	return res.Mul(res, w, prec)
}

// lerchIntegerTerm returns the limit at s = n of the two terms of the
// expansion that have a pole there,
//
//	(psi(n) - psi(a) - log(-L)) L^(n-1) / (n-1)!.
func lerchIntegerTerm(mL *arb.Complex, a *arb.Real, n int64, prec uint) *arb.Complex {
	one := arb.NewComplexInt64(1, 0)

	// -psi(a) is the constant term of the deflated zeta(s, a) at s = 1.
	h := HurwitzSeries(one, a, true, 1, prec)
	c := new(arb.Complex).Set(&h[0])

	// psi(n) = psi(1) + H_(n-1)
	c.Add(c, new(arb.Complex).Digamma(one, prec), prec)
	c.AddReal(c, new(arb.Real).SetRat(harmonic(n-1), prec), prec)
	c.Sub(c, new(arb.Complex).Log(mL, prec), prec)

	// L^(n-1) / (n-1)!
	p := new(arb.Complex).Neg(mL)
	p.PowInt(p, n-1, prec)
	f := new(big.Int).MulRange(1, n-1)
	p.DivReal(p, new(arb.Real).SetBigInt(f), prec)
	return c.Mul(c, p, prec)
}

// harmonic returns H_n = 1 + 1/2 + ... + 1/n.
func harmonic(n int64) *big.Rat {
	h := new(big.Rat)
	for k := int64(1); k <= n; k++ {
		h.Add(h, big.NewRat(1, k))
	}
	return h
}

// lerchContainsPositiveInt returns true if s contains a positive integer.
func lerchContainsPositiveInt(s *arb.Complex) bool {
	if !s.Im.ContainsZero() {
		return false
	}
	lo, hi := lowerFloat(&s.Re), s.Re.Upper(64)
	h, _ := hi.Float64()
	for j := math.Max(1, math.Floor(lo)); j <= math.Ceil(h); j++ {
		if s.ContainsInt64(int64(j)) {
			return true
		}
	}
	return false
}

// lerchExpansionTerms returns the first index K >= max(Re(s) + 2, 4|Re(s)|)
// at which the estimated tail of the expansion is about 2^-prec.
func lerchExpansionTerms(s *arb.Complex, a *arb.Real, absL float64, prec uint) int {
	sigma := s.Re.Float64()
	tau := math.Abs(s.Im.Float64())
	A := math.Max(a.Float64(), 1)
	m := math.Max(math.Ceil(a.Float64())-1, 0)

	K := int(math.Max(math.Ceil(sigma)+2, math.Ceil(4*math.Abs(sigma))))
	if K < 1 {
		K = 1
	}
	target := -float64(prec) - 10
	lL := math.Log(absL)
	for ; K < lerchMaxTerms; K++ {
		u := 1 - sigma + float64(K)
		lu, _ := math.Lgamma(u)
		lk, _ := math.Lgamma(float64(K + 1))
		e1 := (lu + math.Pi*tau/2 + float64(K)*lL - u*math.Log(2*math.Pi) - lk + 3) / math.Ln2
		e2 := math.Inf(-1)
		if m > 0 {
			e2 = (math.Log(m) + (float64(K)-sigma)*math.Log(A) + float64(K)*lL - lk) / math.Ln2
		}
		if e1 <= target && e2 <= target {
			return K
		}
	}
	return lerchMaxTerms
}

// lerchExpansionTail bounds sum_{k>=K} |zeta(s-k, a)| |L|^k / k!. For
// u = 1 - Re(s) + k >= 2, the Hurwitz formula and zeta(u, a) = zeta(u, a - m)
// - sum_{j<m} (a - m + j)^-u give
//
//	|zeta(s-k, a)| <= 4 zeta(u) Gamma(u) exp(pi |Im(s)|/2) / (2 pi)^u + m max(a, 1)^(k - Re(s))
//
// with zeta(u) <= 2 and m = ceil(a) - 1. Both parts decay geometrically.
func lerchExpansionTail(s *arb.Complex, a *arb.Real, L *arb.Complex, K int) arb.Mag {
	const p = 64
	absL := new(arb.Real).SetBigFloat(L.AbsUpper().BigFloat())
	pi2 := new(arb.Real).Mul2Exp(arb.Pi(p), 1)
	Kf := arb.NewRealInt64(int64(K))
	kfac := new(arb.Real).SetBigInt(new(big.Int).MulRange(1, int64(K)))
	LK := new(arb.Real).PowUint(absL, uint64(K), p)

	u := new(arb.Real).Sub(Kf, &s.Re, p)
	u.AddInt64(u, 1, p)
	if !new(arb.Real).SubInt64(u, 2, p).IsNonNegative() {
		return arb.MagInf()
	}

	// 8 Gamma(u) exp(pi |tau| / 2) |L|^K / ((2 pi)^u K!)
	t1 := new(arb.Real).Gamma(u, p)
	e := new(arb.Real).Abs(&s.Im)
	e.Mul(e, arb.Pi(p), p)
	e.Mul2Exp(e, -1)
	t1.Mul(t1, e.Exp(e, p), p)
	t1.Mul(t1, LK, p)
	t1.Div(t1, new(arb.Real).Pow(pi2, u, p), p)
	t1.Div(t1, kfac, p)
	t1.Mul2Exp(t1, 3)

	// rho1 = |L| / (2 pi) (1 + max(0, -sigma) / (K + 1))
	rho := new(arb.Real).Div(absL, pi2, p)
	if s.Re.Lower(p).Sign() < 0 {
		c := new(arb.Real).Neg(&s.Re)
		c.DivInt64(c, int64(K+1), p)
		c.AddInt64(c, 1, p)
		rho.Mul(rho, c, p)
	}
	t1 = geometricTail(t1, rho)

	if m, _ := a.Upper(p).Int(nil); m.Sign() > 0 {
		// m max(a, 1)^(K - sigma) |L|^K / K!, ratio max(a, 1) |L| / (K + 1)
		mm := new(arb.Real).SetBigInt(m)
		A := new(arb.Real).Max(a, arb.NewRealInt64(1), p)
		t2 := new(arb.Real).Sub(Kf, &s.Re, p)
		t2.Pow(A, t2, p)
		t2.Mul(t2, mm, p)
		t2.Mul(t2, LK, p)
		t2.Div(t2, kfac, p)
		rho.Mul(A, absL, p)
		rho.DivInt64(rho, int64(K+1), p)
		t1.Add(t1, geometricTail(t2, rho), p)
	}
	return t1.AbsUpper()
}

// geometricTail returns t / (1 - rho), infinite unless rho < 1.
func geometricTail(t, rho *arb.Real) *arb.Real {
	d := new(arb.Real).Sub(arb.NewRealInt64(1), rho, 64)
	if !d.IsPositive() {
		return arb.Indeterminate()
	}
	return new(arb.Real).Div(t, d, 64)
}
