package zeta

import (
	"math"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dft"
)

// Riemann-Siegel is not used below this height.
const rsMinHeight = 200

// Number of arcs covering the circle on which |F| is bounded.
const rsArcs = 128

// rsEligible returns true if zeta(s) goes through the Riemann-Siegel formula
// at precision prec: s lies in the critical strip and |Im(s)| >= 24 prec^(3/2).
func rsEligible(s *arb.Complex, prec uint) bool {
	if !s.IsFinite() {
		return false
	}
	lo, _ := s.Re.Lower(64).Float64()
	hi, _ := s.Re.Upper(64).Float64()
	if lo < 0 || hi > 1 {
		return false
	}
	p := float64(prec)
	t := lowerFloat(new(arb.Real).Abs(&s.Im))
	return t >= rsMinHeight && t >= 24*p*math.Sqrt(p)
}

// rsChooseK returns the number of correction terms for which the asymptotic
// estimate of the Riemann-Siegel remainder at sigma + it is smallest or
// falls below 2^-prec.
func rsChooseK(sigma, t float64, prec uint) int {
	limit := 10 + 0.25*float64(prec) + math.Pow(t, 0.2)
	best, bestErr := 1, math.Inf(1)
	for K := 1; float64(K) < limit; K++ {
		e := rsLog2Estimate(sigma, t, K)
		if e < bestErr {
			best, bestErr = K, e
		}
		if e < -float64(prec) {
			break
		}
	}
	return best
}

func rsLog2Estimate(sigma, t float64, K int) float64 {
	k := float64(K)
	e := 2.7889996532222537 - 0.12022458674074695/k + 0.2419040680416126*k +
		0.7213475204444817*k*math.Log(k) - 0.7213475204444817*(1+k)*math.Log(t)
	if sigma >= 0 {
		e += -2.807354922057604 + 1.5*sigma
	}
	return e
}

// RSBound returns the bound of Arias de Reyna on the remainder of the
// Riemann-Siegel sum S after K >= 1 terms, for 0 <= sigma and t >= 200:
//
//	(1/7) 2^(3 sigma/2) Gamma((K+1)/2) (11/(10 a))^(K+1),  a = sqrt(t/(2 pi)).
func RSBound(s *arb.Complex, K int) arb.Mag {
	if K < 1 || !s.IsFinite() || !s.Re.IsNonNegative() {
		return arb.MagInf()
	}
	const wp = boundPrec
	t := lowerFloat(&s.Im)
	if !(t >= rsMinHeight) {
		return arb.MagInf()
	}

	a := new(arb.Real).Mul2Exp(arb.Pi(wp), 1)
	a.Div(&s.Im, a, wp)
	a.Sqrt(a, wp)

	// 11/(10 a)
	c := new(arb.Real).SetInt64(11)
	c.Div(c, a.MulInt64(a, 10, wp), wp)
	res := arb.MagPowUint(c.AbsUpper(), uint64(K+1))

	g := new(arb.Real).Gamma(new(arb.Real).SetFrac(int64(K+1), 2, wp), wp)
	res = arb.MagMul(res, g.AbsUpper())

	x := new(arb.Real).MulInt64(&s.Re, 3, wp)
	x.Mul2Exp(x, -1)
	x.Pow(arb.NewRealInt64(2), x, wp)
	res = arb.MagMul(res, x.AbsUpper())

	return arb.MagDiv(res, arb.NewMag(7))
}

// rsR returns the Riemann-Siegel sum R(s) with K correction terms (K <= 0
// chooses K), for s = sigma + it with sigma >= 0 and t >= 200:
//
//	R(s) = sum_{n<=N} n^-s + (-1)^(N-1) U a^-sigma S,
//	S = sum_{k<=K} (pi^2 a)^-k sum_{j<=3k/2} (pi/(2i))^j d_j^(k) F^(3k-2j)(p),
//
// where a = sqrt(t/(2 pi)), N = floor(a), p = 1 - 2(a - N) and
// U = exp(-i((t/2) log(t/(2 pi)) - t/2 - pi/8)). The remainder bound is
// included in S. zeta(s) = R(s) + X(s) conj(R(1 - conj(s))).
func rsR(s *arb.Complex, K int, prec uint) *arb.Complex {
	t := s.Im.Float64()
	if K <= 0 {
		sigma := s.Re.Float64()
		if !(t > 1 && t < 1e40) {
			return arb.IndeterminateComplex()
		}
		K = rsChooseK(sigma, t, prec)
	}

	err := RSBound(s, K)
	if !err.IsFinite() {
		return arb.IndeterminateComplex()
	}

	var N int64
	a, p := new(arb.Real), new(arb.Real)
	var F []arb.Complex
	for wp := 2 * prec; ; wp *= 2 {
		a.Mul2Exp(arb.Pi(wp), 1)
		a.Div(&s.Im, a, wp)
		a.Sqrt(a, wp)

		n, ok := a.Floor()
		if !ok || !n.IsInt64() {
			if wp > MaxPrecision(prec) {
				log.Warnf("Riemann-Siegel: floor(sqrt(t/2pi)) not unique at %d bits, s = %s", wp, s)
				return arb.IndeterminateComplex()
			}
			continue
		}
		N = n.Int64()

		p.SubInt64(a, N, wp)
		p.Mul2Exp(p, 1)
		p.Neg(p)
		p.AddInt64(p, 1, wp)

		F = rsFDerivatives(p, 3*K+1, wp)
		if relAccuracy(&F[3*K]) >= float64(prec) || wp > 4*prec {
			break
		}
		log.Debugf("Riemann-Siegel: raising precision to %d bits", 2*wp)
	}

	wp := prec + 10 + 3*uint(bitLen(N)) + uint(bitLen(int64(K)))

	pi := arb.Pi(wp)
	pipow := make([]arb.Real, 3*K/2+1)
	pipow[0].SetInt64(1)
	for j := 1; j < len(pipow); j++ {
		pipow[j].Mul(&pipow[j-1], pi, wp)
		pipow[j].Mul2Exp(&pipow[j], -1)
	}

	// (pi^2 a)^-1
	api2 := new(arb.Real).Sqr(pi, wp)
	api2.Mul(api2, a, wp)
	api2.Inv(api2, wp)
	api2pow := arb.NewRealInt64(1)

	S := new(arb.Complex)
	u, v := new(arb.Complex), new(arb.Complex)
	var d []arb.Real
	for k := 0; k <= K; k++ {
		d = rsDNext(d, &s.Re, k, wp)

		u.Zero()
		for j := 0; j <= 3*k/2; j++ {
			// (pi/(2i))^j d_j^(k) F^(3k-2j)(p)
			v.Re.Mul(&pipow[j], &d[j], wp)
			v.Im.Zero()
			switch j % 4 {
			case 1:
				v.MulNegI(v)
			case 2:
				v.Neg(v)
			case 3:
				v.MulI(v)
			}
			u.MulAdd(v, &F[3*k-2*j], wp)
		}
		u.MulReal(u, api2pow, wp)
		S.Add(S, u, wp)
		api2pow.Mul(api2pow, api2, wp)
	}
	S.AddError(err)

	// U = exp(-i ((2 log a - 1) t/2 - pi/8))
	x := new(arb.Real).Log(a, wp)
	x.Mul2Exp(x, 1)
	x.SubInt64(x, 1, wp)
	x.Mul(x, &s.Im, wp)
	x.Mul2Exp(x, -1)
	y := new(arb.Real).Mul2Exp(pi, -3)
	x.Sub(y, x, wp)
	U := new(arb.Complex)
	arb.SinCos(&U.Im, &U.Re, x, wp)

	S.Mul(S, U, wp)
	x.Neg(&s.Re)
	x.Pow(a, x, wp)
	S.MulReal(S, x, wp)
	if N%2 == 0 {
		S.Neg(S)
	}

	ps := PowSumSieved(s, int(N), 1, wp)
	return S.Add(S, &ps[0], wp)
}

// rsDNext returns the coefficients d_j^(k), j <= 3k/2, of the Riemann-Siegel
// terms at sigma from those of k-1:
//
//	d_j^(k) = -(m+1) d_(j-2)^(k-1) + d_j^(k-1)/(4m) + (1-2 sigma)/(2m) d_(j-1)^(k-1)
//
// for m = 3k - 2j > 0, and d_j^(k) = -sum_{r<j} (-1)^(j-r) (2j-2r)!/(j-r)! d_r^(k)
// for m = 0. d_0^(0) = 1.
func rsDNext(prev []arb.Real, sigma *arb.Real, k int, prec uint) []arb.Real {
	d := make([]arb.Real, 3*k/2+1)
	if k == 0 {
		d[0].SetInt64(1)
		return d
	}

	at := func(j int) *arb.Real {
		if j < 0 || j >= len(prev) {
			return new(arb.Real)
		}
		return &prev[j]
	}

	// 1 - 2 sigma
	xs := new(arb.Real).Mul2Exp(sigma, 1)
	xs.Neg(xs)
	xs.AddInt64(xs, 1, prec)

	x := new(arb.Real)
	for j := range d {
		m := int64(3*k - 2*j)
		if m != 0 {
			d[j].MulInt64(at(j-2), -(m + 1), prec)
			x.DivInt64(at(j), 4*m, prec)
			d[j].Add(&d[j], x, prec)
			x.Mul(xs, at(j-1), prec)
			x.DivInt64(x, 2*m, prec)
			d[j].Add(&d[j], x, prec)
			continue
		}

		// (2i)!/i! for i = j - r
		c := arb.NewRealInt64(1)
		for r := j - 1; r >= 0; r-- {
			i := int64(j - r)
			c.MulInt64(c, 2*(2*i-1), prec)
			x.Mul(&d[r], c, prec)
			if i%2 == 1 {
				d[j].Add(&d[j], x, prec)
			} else {
				d[j].Sub(&d[j], x, prec)
			}
		}
	}
	return d
}

// rsFDerivatives returns F^(j)(p) for j < n, where
//
//	F(z) = (exp(pi i (z^2/2 + 3/8)) - i sqrt(2) cos(pi z/2)) / (2 cos(pi z))
//
// is entire.
//
// The Taylor coefficients at the midpoint of p come from the trapezoid rule
// on a circle of radius r, whose aliasing error is at most
// B R^-j (r/R)^M / (1 - (r/R)^M) for B >= |F| on the circle of radius R.
// Both circles cross the real axis at least 1/4 away from the zeros
// 1/2 + k of cos(pi z).
func rsFDerivatives(p *arb.Real, n int, prec uint) []arb.Complex {
	D := make([]arb.Complex, n)
	indeterminate := func() []arb.Complex {
		for j := range D {
			D[j].Indeterminate()
		}
		return D
	}

	pm := new(arb.Real).GetMidReal(p)
	pf := pm.Float64()
	prad := p.Rad().Float64()

	d := math.Mod(pf-0.5, 1)
	if d < 0 {
		d++
	}
	d = math.Min(d, 1-d)

	r, R := 1.0, 2.0
	if d < 0.25 {
		r, R = 0.5, 1.5
	}
	if !(prad < (R-r)/2) {
		return indeterminate()
	}

	B := rsCircleBound(pm, R)
	if B.IsInf() {
		return indeterminate()
	}
	lB := B.Log2()

	target := float64(prec) + 2*float64(n) + math.Max(lB, 0) + 16
	m := target / math.Log2(R/r)
	M := 1
	for float64(M) < m+1 || M < 2*n {
		M <<= 1
	}

	wp := prec + 3*uint(n) + uint(math.Max(lB, 0)) + 16
	roots := dft.Roots(M, wp)
	rr := new(arb.Real).SetFloat64(r)
	vals := make([]arb.Complex, M)
	z := new(arb.Complex)
	for k := range vals {
		z.MulReal(&roots[k], rr, wp)
		z.AddReal(z, pm, wp)
		vals[k].Set(rsF(z, wp))
	}

	// a_j = (1/M) sum F(z_k) u_k^-j, u_k = exp(-2 pi i k / M)
	a := dft.InverseDFT(vals, wp)

	// log2 of q/(1-q), q = (r/R)^M <= 2^-M
	lq := float64(M)*math.Log2(r/R) + 1
	fact := new(arb.Real).SetInt64(1)
	rinv := new(arb.Real).SetFloat64(1 / r)
	rpow := arb.NewRealInt64(1)
	for j := 0; j < n; j++ {
		if j > 0 {
			fact.MulInt64(fact, int64(j), wp)
			rpow.Mul(rpow, rinv, wp)
		}
		D[j].MulReal(&a[j], rpow, wp)

		// aliasing
		D[j].AddError(mag2(lB - float64(j)*math.Log2(R) + lq))

		// distance from p to its midpoint: rho (j+1) B / (R - rho)^(j+1)
		if !p.Rad().IsZero() {
			D[j].AddError(mag2(p.Rad().Log2() + math.Log2(float64(j+1)) + lB - float64(j+1)*math.Log2(R-prad)))
		}

		D[j].MulReal(&D[j], fact, wp)
	}
	return D
}

// rsCircleBound returns an upper bound of |F| on the circle of radius R
// around c, evaluating F on balls that cover arcs of the circle.
func rsCircleBound(c *arb.Real, R float64) arb.Mag {
	const wp = 64
	cf := c.Float64()
	rad := arb.NewMag(R*math.Pi/rsArcs*1.01 + 1e-12)

	B := arb.NewMag(0)
	z := new(arb.Complex)
	for a := 0; a < rsArcs; a++ {
		phi := 2 * math.Pi * (float64(a) + 0.5) / rsArcs
		z.Re.SetFloat64(cf + R*math.Cos(phi))
		z.Im.SetFloat64(R * math.Sin(phi))
		z.AddError(rad)
		v := rsF(z, wp)
		if !v.IsFinite() {
			return arb.MagInf()
		}
		B = arb.MagMax(B, v.AbsUpper())
	}
	return B
}

// rsF returns (exp(pi i (z^2/2 + 3/8)) - i sqrt(2) cos(pi z/2)) / (2 cos(pi z)).
func rsF(z *arb.Complex, prec uint) *arb.Complex {
	pi := arb.Pi(prec)

	w := new(arb.Complex).Sqr(z, prec)
	w.Mul2Exp(w, -1)
	w.AddReal(w, new(arb.Real).SetFrac(3, 8, prec), prec)
	w.MulReal(w, pi, prec)
	num := new(arb.Complex).Exp(new(arb.Complex).MulI(w), prec)

	s, c := new(arb.Complex), new(arb.Complex)
	w.MulReal(z, pi, prec)
	w.Mul2Exp(w, -1)
	w.SinCos(s, c, prec)
	c.MulReal(c, new(arb.Real).SqrtUint(2, prec), prec)
	num.Sub(num, c.MulI(c), prec)

	w.Mul2Exp(w, 1)
	w.SinCos(s, c, prec)
	c.Mul2Exp(c, 1)

	return num.Div(num, c, prec)
}

// zetaRSMid returns zeta(s) at the midpoint of s, 0 <= Re(s) <= 1,
// |Im(s)| >= 200, through R(s) and R(1 - conj(s)).
func zetaRSMid(s *arb.Complex, K int, prec uint) *arb.Complex {
	m := new(arb.Complex)
	m.Re.GetMidReal(&s.Re)
	m.Im.GetMidReal(&s.Im)
	if m.Im.IsNegative() {
		m.Conj(m)
		res := zetaRSMid(m, K, prec)
		return res.Conj(res)
	}

	wp := prec + 2*magBits(m.Im.AbsUpper()) + 16

	R1 := rsR(m, K, wp)
	var R2 *arb.Complex
	if m.Re.Float64() == 0.5 {
		R2 = new(arb.Complex).Conj(R1)
	} else {
		c := new(arb.Complex).Conj(m)
		c.Neg(c)
		c.AddInt64(c, 1, wp)
		R2 = rsR(c, K, wp)
		R2.Conj(R2)
	}
	if !R1.IsFinite() || !R2.IsFinite() {
		return arb.IndeterminateComplex()
	}

	// X(s) = pi^(s-1/2) Gamma((1-s)/2) / Gamma(s/2)
	x := new(arb.Complex).Neg(m)
	x.AddInt64(x, 1, wp)
	x.Mul2Exp(x, -1)
	X := new(arb.Complex).LogGamma(x, wp)
	x.Mul2Exp(m, -1)
	X.Sub(X, x.LogGamma(x, wp), wp)
	x.Re.Sub(&m.Re, arb.NewRealFloat64(0.5), wp)
	x.Im.Set(&m.Im)
	x.MulReal(x, new(arb.Real).Log(arb.Pi(wp), wp), wp)
	X.Add(X, x, wp)
	X.Exp(X, wp)

	res := new(arb.Complex).Mul(X, R2, wp)
	res.Add(res, R1, wp)
	return res.SetRound(res, prec)
}

// zetaRS returns zeta(s) through the Riemann-Siegel formula, widening the
// value at the midpoint by rad(s) max |zeta'|.
func zetaRS(s *arb.Complex, K int, prec uint) *arb.Complex {
	res := zetaRSMid(s, K, prec)
	if s.IsExact() {
		return res
	}
	d1, _ := DerivBound(s)
	return res.AddError(arb.MagMul(d1, arb.MagAdd(s.Re.Rad(), s.Im.Rad())))
}

// RiemannSiegel returns the Hardy function Z(t) for |t| >= 200 from the
// Riemann-Siegel formula with K correction terms; K <= 0 chooses the number
// of terms for precision prec. For exact t, Z(t) = 2 Re(exp(i theta(t)) R(1/2 + it)).
func RiemannSiegel(t *arb.Real, K int, prec uint) *arb.Real {
	if !t.IsFinite() {
		return arb.Indeterminate()
	}

	ta := new(arb.Real).Abs(t)
	if !(lowerFloat(ta) >= rsMinHeight) {
		return arb.Indeterminate()
	}

	wp := prec + 2*magBits(ta.AbsUpper()) + 16

	s := new(arb.Complex)
	s.Re.SetFloat64(0.5)
	s.Im.Set(ta)

	th := HardyTheta(ta, nil, nil, wp)
	th.Div(th, arb.Pi(wp), wp)
	z := new(arb.Complex).ExpPiI(th, wp)

	if ta.IsExact() {
		z.Mul(z, rsR(s, K, wp), wp)
		z.Re.Mul2Exp(&z.Re, 1)
	} else {
		z.Mul(z, zetaRS(s, K, wp), wp)
	}
	return new(arb.Real).SetRound(&z.Re, prec)
}

// relAccuracy returns the number of correct bits of z relative to its size.
func relAccuracy(z *arb.Complex) float64 {
	if !z.IsFinite() {
		return math.Inf(-1)
	}
	r := z.Rad()
	if r.IsZero() {
		return math.Inf(1)
	}
	return z.AbsUpper().Log2() - r.Log2()
}

// bitLen returns the number of bits of |n|.
func bitLen(n int64) int {
	if n < 0 {
		n = -n
	}
	b := 0
	for ; n > 0; n >>= 1 {
		b++
	}
	return b
}

// mag2 returns a bound of 2^e.
func mag2(e float64) arb.Mag {
	return arb.NewMag2Exp(int64(math.Ceil(e)) + 1)
}
