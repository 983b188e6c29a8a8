package zeta

import (
	"math"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dft"
	"github.com/tuneinsight/dirichlet/dirichlet"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// Euler products stop at primes below this bound.
const eulerPrimeLimit = 1 << 20

// L returns the Dirichlet L-function L(s, chi). A nil group or the group
// modulo 1 stands for the Riemann zeta function.
func L(s *arb.Complex, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Complex {
	if !isCharacter(G) {
		return Zeta(s, prec)
	}
	if !s.IsFinite() {
		return arb.IndeterminateComplex()
	}

	sigma := lowerFloat(&s.Re)
	switch {
	case sigma >= float64(prec):
		return oneLargeRe(sigma)
	case sigma >= 0.7*float64(prec) || eulerCheap(sigma, prec):
		return EulerProduct(s, G, chi, prec)
	case s.Re.IsNegative() && chi.IsPrimitive():
		return lFunctional(s, G, chi, prec)
	default:
		return LHurwitz(s, G, chi, prec)
	}
}

// eulerCheap returns true when the Euler product at Re(s) >= sigma needs
// only primes below 2^12.
func eulerCheap(sigma float64, prec uint) bool {
	return sigma > 1 && float64(prec)/(sigma-1) <= 12
}

// lFunctional applies the functional equation of a primitive character,
// L(s, chi) = W (q/pi)^(1/2 - s) Gamma((1 - s + e)/2) / Gamma((s + e)/2) L(1 - s, conj chi).
func lFunctional(s *arb.Complex, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Complex {
	wp := prec + 16 + magBits(s.AbsUpper())
	e := int64(chi.Parity())

	ms := new(arb.Complex).Neg(s)
	t := new(arb.Complex).AddInt64(ms, 1, wp)

	res := L(t, G, chi.Conj(), wp)

	W, err := dirichlet.RootNumber(chi, wp)
	if err != nil {
		return arb.IndeterminateComplex()
	}
	res.Mul(res, W, wp)

	// (q/pi)^(1/2 - s)
	qpi := new(arb.Real).SetUint64(G.Q())
	qpi.Div(qpi, arb.Pi(wp), wp)
	x := new(arb.Complex).AddReal(ms, new(arb.Real).SetFloat64(0.5), wp)
	x.PowReal(qpi, x, wp)
	res.Mul(res, x, wp)

	// Gamma((1 - s + e)/2)
	x.AddInt64(t, e, wp)
	x.Mul2Exp(x, -1)
	x.Gamma(x, wp)
	res.Mul(res, x, wp)

	// 1/Gamma((s + e)/2)
	x.AddInt64(s, e, wp)
	x.Mul2Exp(x, -1)
	res.Mul(res, rgamma(x, wp), wp)

	return res.SetRound(res, prec)
}

// rgamma returns 1/Gamma(x), which vanishes at the poles of Gamma.
func rgamma(x *arb.Complex, prec uint) *arb.Complex {
	wp := prec + 8
	if x.Re.Float64() >= 0.5 {
		g := new(arb.Complex).LogGamma(x, wp)
		g.Neg(g)
		return g.Exp(g, prec)
	}
	// sin(pi x) Gamma(1 - x) / pi
	y := new(arb.Complex).Neg(x)
	y.AddInt64(y, 1, wp)
	g := new(arb.Complex).LogGamma(y, wp)
	g.Exp(g, wp)
	g.Mul(g, new(arb.Complex).SinPi(x, wp), wp)
	return g.DivReal(g, arb.Pi(wp), prec)
}

// LHurwitz returns L(s, chi) = q^-s sum_{k mod q} chi(k) zeta(s, k/q).
// For a non-principal chi and s containing 1 the poles of the Hurwitz zeta
// functions cancel, since the chi(k) sum to zero, and the deflated functions
// are summed instead.
func LHurwitz(s *arb.Complex, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Complex {
	if !isCharacter(G) {
		return Hurwitz(s, arb.NewRealInt64(1), prec)
	}
	if !s.IsFinite() || (chi.IsPrincipal() && s.ContainsInt64(1)) {
		return arb.IndeterminateComplex()
	}

	q := G.Q()
	wp := prec + 8 + uint(bits.Len64(q))
	deflate := s.ContainsInt64(1)

	v := dirichlet.ChiVec(chi, int(q))
	roots := dirichlet.NewRoots(chi.Order(), wp)

	res := new(arb.Complex)
	a := new(arb.Real)
	z := new(arb.Complex)
	for k := uint64(1); k < q; k++ {
		if v[k] == dirichlet.Null {
			continue
		}
		a.SetFrac(int64(k), int64(q), wp)
		h := HurwitzSeries(s, a, deflate, 1, wp)
		roots.Pow(z, v[k])
		res.MulAdd(z, &h[0], wp)
	}

	return res.Mul(res, qPow(q, s, wp), prec)
}

// LVecHurwitz returns L(s, chi) for every character of G, in enumeration
// order. The sums over k of chi(k) zeta(s, k/q) are a DFT over the group.
func LVecHurwitz(s *arb.Complex, G *dirichlet.Group, prec uint) []arb.Complex {
	if !isCharacter(G) {
		res := make([]arb.Complex, 1)
		res[0].Set(Zeta(s, prec))
		return res
	}

	q := G.Q()
	n := int(G.Size())
	wp := prec + 8 + 2*uint(bits.Len64(q))
	deflate := s.ContainsInt64(1)

	f := make([]arb.Complex, n)
	a := new(arb.Real)
	x := G.One()
	for {
		a.SetFrac(int64(x.Number()), int64(q), wp)
		h := HurwitzSeries(s, a, deflate, 1, wp)
		f[x.Rank()].Set(&h[0])
		if x.Next() < 0 {
			break
		}
	}

	comps := G.Components()
	dims := make([]int, len(comps))
	for k, c := range comps {
		dims[k] = int(c.Phi)
	}
	w := make([]arb.Complex, n)
	if len(dims) == 0 {
		w[0].Set(&f[0])
	} else {
		dft.NewProduct(dims, wp).Apply(w, f, wp)
	}

	// the transform pairs f with conj chi_x = chi_{-x}
	qs := qPow(q, s, wp)
	res := make([]arb.Complex, n)
	for j := range res {
		if j == 0 && deflate {
			res[j].Indeterminate()
			continue
		}
		res[j].Mul(&w[negRank(dims, uint64(j))], qs, prec)
	}
	return res
}

// negRank returns the rank of -x for the index x of rank j, the ranks being
// mixed radix numbers over dims with the last digit least significant.
func negRank(dims []int, j uint64) uint64 {
	digits := make([]uint64, len(dims))
	for k := len(dims) - 1; k >= 0; k-- {
		d := uint64(dims[k])
		digits[k] = (d - j%d) % d
		j /= uint64(dims[k])
	}
	r := uint64(0)
	for k, d := range dims {
		r = r*uint64(d) + digits[k]
	}
	return r
}

// LJet returns the first length Taylor coefficients of L(s + x, chi). With
// deflate, the polar part (phi(q)/q) / (s + x - 1) is removed for the
// principal character.
func LJet(s *arb.Complex, G *dirichlet.Group, chi *dirichlet.Char, deflate bool, length int, prec uint) arb.Series {
	if !isCharacter(G) {
		return HurwitzSeries(s, arb.NewRealInt64(1), deflate, length, prec)
	}
	if length < 1 {
		return arb.NewSeries(0)
	}
	if !s.IsFinite() {
		return indeterminateSeries(length)
	}

	q := G.Q()
	wp := prec + 8 + uint(bits.Len64(q)) + uint(length)
	principal := chi.IsPrincipal()
	hdeflate := (principal && deflate) || (!principal && s.ContainsInt64(1))

	v := dirichlet.ChiVec(chi, int(q))
	roots := dirichlet.NewRoots(chi.Order(), wp)

	sum := arb.NewSeries(length)
	a := new(arb.Real)
	z := new(arb.Complex)
	for k := uint64(1); k < q; k++ {
		if v[k] == dirichlet.Null {
			continue
		}
		a.SetFrac(int64(k), int64(q), wp)
		h := HurwitzSeries(s, a, hdeflate, length, wp)
		roots.Pow(z, v[k])
		sum = arb.SeriesAdd(sum, arb.SeriesScale(h, z, wp), length, wp)
	}

	// q^-(s+x)
	lq := new(arb.Real).LogUint(q, wp)
	nl := new(arb.Complex).SetReal(lq)
	nl.Neg(nl)
	res := arb.SeriesMullow(arb.SeriesExpLinear(qPow(q, s, wp), nl, length, wp), sum, length, wp)

	if principal && deflate {
		// phi(q) q^-s / (s-1) - (phi(q)/q) / (s-1) = (phi(q)/q) (q^-(s-1) - 1)/(s-1)
		sm1 := new(arb.Complex).AddInt64(s, -1, wp)
		c := new(arb.Complex).SetReal(new(arb.Real).SetFrac(int64(G.Size()), int64(q), wp))
		res = arb.SeriesAdd(res, arb.SeriesScale(deflatedPow(lq, sm1, length, wp), c, wp), length, wp)
	}

	for i := range res {
		res[i].SetRound(&res[i], prec)
	}
	return res
}

// EulerProduct returns L(s, chi) = prod_p (1 - chi(p) p^-s)^-1 for Re(s) > 1.
// With Z = sum_{p >= P} |p^-s| <= P^-sigma + P^(1-sigma)/(sigma-1) <= 1/4, the
// omitted factors change the product by a relative error at most 2Z.
func EulerProduct(s *arb.Complex, G *dirichlet.Group, chi *dirichlet.Char, prec uint) *arb.Complex {
	sigma := lowerFloat(&s.Re)
	if !s.IsFinite() || !(sigma > 1) {
		return arb.IndeterminateComplex()
	}

	wp := prec + 16 + magBits(s.AbsUpper())
	P, lz := eulerCutoff(sigma, wp)
	if lz > -2 {
		return arb.IndeterminateComplex()
	}

	var order uint64 = 1
	if isCharacter(G) {
		order = chi.Order()
	}
	roots := dirichlet.NewRoots(order, wp)

	ns := new(arb.Complex).Neg(s)
	prod := new(arb.Complex).One()
	x := new(arb.Real)
	t, z := new(arb.Complex), new(arb.Complex)
	for _, p := range factorization.PrimesUpTo(P - 1) {
		var v uint64
		if isCharacter(G) {
			if v = chi.Chi(p); v == dirichlet.Null {
				continue
			}
		}
		x.SetUint64(p)
		t.PowReal(x, ns, wp)
		t.Mul(t, roots.Pow(z, v), wp)
		t.Neg(t)
		t.AddInt64(t, 1, wp)
		prod.Mul(prod, t, wp)
	}

	res := new(arb.Complex).Inv(prod, wp)
	res.AddError(arb.MagMul(res.AbsUpper(), mag2(lz+1)))
	return res.SetRound(res, prec)
}

// EulerProductRealUI returns L(s) = prod_p (1 - chi(p) p^-s)^-1 for an integer
// s >= 2 and a real character given by its values chi[n mod len(chi)] in
// {-1, 0, 1}, or 1/L(s) when reciprocal is set.
func EulerProductRealUI(s uint64, chi []int8, reciprocal bool, prec uint) *arb.Real {
	if s < 2 || len(chi) == 0 {
		return arb.Indeterminate()
	}

	wp := prec + 16 + uint(bits.Len(uint(prec)))
	P, lz := eulerCutoff(float64(s), wp)
	if lz > -2 {
		return arb.Indeterminate()
	}

	m := uint64(len(chi))
	prod := arb.NewRealInt64(1)
	t := new(arb.Real)
	for _, p := range factorization.PrimesUpTo(P - 1) {
		c := chi[p%m]
		if c == 0 {
			continue
		}
		t.SetUint64(p)
		t.PowUint(t, s, wp)
		t.Inv(t, wp)
		if c > 0 {
			t.Neg(t)
		}
		t.AddInt64(t, 1, wp)
		prod.Mul(prod, t, wp)
	}

	res := prod
	if !reciprocal {
		res = new(arb.Real).Inv(prod, wp)
	}
	res.AddError(arb.MagMul(res.AbsUpper(), mag2(lz+1)))
	return res.SetRound(res, prec)
}

// eulerCutoff returns a prime bound P, and log2 of the tail sum
// P^-sigma + P^(1-sigma)/(sigma-1), for a tail below 2^-prec.
func eulerCutoff(sigma float64, prec uint) (uint64, float64) {
	lp := (float64(prec) + 2 - math.Log2(sigma-1)) / (sigma - 1)
	lp = math.Max(lp, 2)
	P := uint64(eulerPrimeLimit)
	if lp < math.Log2(eulerPrimeLimit) {
		P = uint64(math.Ceil(math.Exp2(lp))) + 1
	}
	l := math.Log2(float64(P))
	a := -sigma * l
	b := (1-sigma)*l - math.Log2(sigma-1)
	hi, lo := math.Max(a, b), math.Min(a, b)
	return P, hi + math.Log2(1+math.Exp2(lo-hi)) + 1e-9
}

// qPow returns q^-s.
func qPow(q uint64, s *arb.Complex, prec uint) *arb.Complex {
	ns := new(arb.Complex).Neg(s)
	return ns.PowReal(new(arb.Real).SetUint64(q), ns, prec)
}
