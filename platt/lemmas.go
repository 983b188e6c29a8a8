package platt

import (
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeta"
)

// The functions of this file bound the truncation errors of the steps of
// MultiEval. Incomplete gamma functions enter through arb.GammaUpperBound,
// so every result is a ball whose upper bound is a valid bound.

// Lemma32 bounds the aliasing error of the sampled Fourier transform at x:
//
//	2 pi^(5/4) exp(-pi x - (t0^2 - 1/4) / (2 h^2)).
func Lemma32(h, t0, x *arb.Real, prec uint) *arb.Real {
	pi := arb.Pi(prec)

	c := powFrac(pi, 5, 4, prec)
	c.Mul2Exp(c, 1)

	y := new(arb.Real).Sqr(t0, prec)
	y.Sub(y, new(arb.Real).SetFrac(1, 4, prec), prec)
	y.Div(y, h, prec)
	y.Div(y, h, prec)
	y.Mul2Exp(y, -1)

	res := new(arb.Real).Mul(pi, x, prec)
	res.Add(res, y, prec)
	res.Neg(res)
	res.Exp(res, prec)
	return res.Mul(res, c, prec)
}

// LemmaA5 bounds the truncation of the k-th row of the g-table to the grid:
//
//	8 (pi B)^k (2^((3k-1)/2) (h/B)^(k+1) Gamma((k+1)/2, a) + exp(-a)),  a = (B/h)^2/8.
func LemmaA5(B int64, h *arb.Real, k int, prec uint) *arb.Real {
	b := arb.NewRealInt64(B)

	x1 := new(arb.Real).MulInt64(arb.Pi(prec), B, prec)
	x1.PowUint(x1, uint64(k), prec)
	x1.Mul2Exp(x1, 3)

	a := new(arb.Real).Div(b, h, prec)
	a.Sqr(a, prec)
	a.Mul2Exp(a, -3)

	x2 := new(arb.Real).Neg(a)
	x2.Exp(x2, prec)

	x4 := powFrac(arb.NewRealInt64(2), int64(3*k-1), 2, prec)

	x5 := new(arb.Real).Div(h, b, prec)
	x5.PowUint(x5, uint64(k+1), prec)

	x6 := arb.GammaUpperBound(new(arb.Real).SetFrac(int64(k+1), 2, prec), a, prec)

	res := new(arb.Real).Mul(x4, x5, prec)
	res.Mul(res, x6, prec)
	res.Add(res, x2, prec)
	return res.Mul(res, x1, prec)
}

// lemmaA3X returns
//
//	sum_{l=0}^{u} C(u, l) t0^(u-l) h^(k+l+1) 2^((k+l-1)/2) Gamma((k+l+1)/2, a)
//
// with u = (sigma-1)/2 and a = ((sigma + 1/2)/h)^2/2.
func lemmaA3X(sigma int64, t0, h *arb.Real, k int, prec uint) *arb.Real {
	u := (sigma - 1) / 2

	a := new(arb.Real).SetFrac(2*sigma+1, 2, prec)
	a.Div(a, h, prec)
	a.Sqr(a, prec)
	a.Mul2Exp(a, -1)

	two := arb.NewRealInt64(2)
	bin := new(big.Int)
	total := new(arb.Real)
	summand := new(arb.Real)
	x := new(arb.Real)
	for l := int64(0); l <= u; l++ {
		kl := int64(k) + l

		summand.SetBigInt(bin.Binomial(u, l))

		x.PowUint(t0, uint64(u-l), prec)
		summand.Mul(summand, x, prec)

		x.PowUint(h, uint64(kl+1), prec)
		summand.Mul(summand, x, prec)

		summand.Mul(summand, powFrac(two, kl-1, 2, prec), prec)

		x.SetFrac(kl+1, 2, prec)
		summand.Mul(summand, arb.GammaUpperBound(x, a, prec), prec)

		total.Add(total, summand, prec)
	}
	return total
}

// lemmaA3 returns the constant C(sigma, t0, h, k) shared by the bounds A7,
// A9 and B1:
//
//	2^((6k+5-sigma)/4) pi^k e3 (sigma+1/2)^k (sigma+1/2+t0)^((sigma-1)/2) h
//	  + 2^((6k+7-sigma)/4) pi^((2k-1)/2) e3 X,
//
// with e3 = exp((1 + 2 sqrt 2)/(6 t0)) and X from lemmaA3X.
func lemmaA3(sigma int64, t0, h *arb.Real, k int, prec uint) *arb.Real {
	pi := arb.Pi(prec)
	two := arb.NewRealInt64(2)
	k64 := int64(k)

	x1 := powFrac(two, 6*k64+5-sigma, 4, prec)
	x2 := new(arb.Real).PowUint(pi, uint64(k), prec)

	x3 := new(arb.Real).SqrtUint(2, prec)
	x3.Mul2Exp(x3, 1)
	x3.AddInt64(x3, 1, prec)
	x3.DivInt64(x3, 6, prec)
	x3.Div(x3, t0, prec)
	x3.Exp(x3, prec)

	s := new(arb.Real).SetFrac(2*sigma+1, 2, prec)
	x4 := new(arb.Real).PowUint(s, uint64(k), prec)
	x5 := new(arb.Real).Add(s, t0, prec)
	x5.PowUint(x5, uint64((sigma-1)/2), prec)

	z1 := new(arb.Real).Mul(x1, x2, prec)
	z1.Mul(z1, x3, prec)
	z1.Mul(z1, x4, prec)
	z1.Mul(z1, x5, prec)
	z1.Mul(z1, h, prec)

	z2 := powFrac(two, 6*k64+7-sigma, 4, prec)
	z2.Mul(z2, powFrac(pi, 2*k64-1, 2, prec), prec)
	z2.Mul(z2, x3, prec)
	z2.Mul(z2, lemmaA3X(sigma, t0, h, k, prec), prec)

	return z1.Add(z1, z2, prec)
}

// CBound returns the constant C(sigma, t0, h, k) of lemmaA3, which bounds
// the growth of the Gaussian-windowed completed zeta function on the line
// Re(s) = sigma + 1/2. It holds for h > 0, odd sigma >= 3 and
// sigma + 1/2 <= t0; the result is indeterminate otherwise.
func CBound(sigma int64, t0, h *arb.Real, k int, prec uint) *arb.Real {
	if sigma < 3 || sigma%2 == 0 || k < 0 || !h.IsPositive() {
		return arb.Indeterminate()
	}
	if !certainlyLE(new(arb.Real).SetFrac(2*sigma+1, 2, prec), t0) {
		return arb.Indeterminate()
	}
	return lemmaA3(sigma, t0, h, k, prec)
}

// lemmaA7S returns
//
//	sum_{l=0}^{(sigma-1)/2} (1 + 1/a_l) ((1/2 + 2l)^2 + t0^2)^(k/2) / l!
//	  exp(((4l+1)/h)^2/8 - a_l/2),  a_l = pi (4l+1) A.
func lemmaA7S(sigma int64, t0, h *arb.Real, k int, A int64, prec uint) *arb.Real {
	pi := arb.Pi(prec)
	kd2 := new(arb.Real).SetFrac(int64(k), 2, prec)
	t02 := new(arb.Real).Sqr(t0, prec)

	fac := arb.NewRealInt64(1)
	total := new(arb.Real)
	a := new(arb.Real)
	x1, x2, x3 := new(arb.Real), new(arb.Real), new(arb.Real)
	for l := int64(0); l <= (sigma-1)/2; l++ {
		if l > 1 {
			fac.MulInt64(fac, l, prec)
		}

		a.MulInt64(pi, 4*l+1, prec)
		a.MulInt64(a, A, prec)

		x1.Inv(a, prec)
		x1.AddInt64(x1, 1, prec)

		x2.SetFrac(4*l+1, 2, prec)
		x2.Sqr(x2, prec)
		x2.Add(x2, t02, prec)
		x2.Pow(x2, kd2, prec)
		x2.Div(x2, fac, prec)

		x3.SetInt64(4*l + 1)
		x3.Div(x3, h, prec)
		x3.Sqr(x3, prec)
		x3.Mul2Exp(x3, -3)
		x3.Sub(x3, new(arb.Real).Mul2Exp(a, -1), prec)
		x3.Exp(x3, prec)

		x1.Mul(x1, x2, prec)
		x1.Mul(x1, x3, prec)
		total.Add(total, x1, prec)
	}
	return total
}

// LemmaA7 bounds the error of the k-th row of the transformed g-table:
//
//	pi^(k+1) 2^(k+3) exp(-(t0/h)^2/2) S
//	  + 2 (1 + 1/a) exp(((2 sigma + 1)/h)^2/8 - a/2) C(sigma, t0, h, k),
//
// with a = pi (2 sigma - 1) A.
func LemmaA7(sigma int64, t0, h *arb.Real, k int, A int64, prec uint) *arb.Real {
	pi := arb.Pi(prec)

	x1 := new(arb.Real).PowUint(pi, uint64(k+1), prec)
	x1.Mul2Exp(x1, k+3)

	x2 := new(arb.Real).Div(t0, h, prec)
	x2.Sqr(x2, prec)
	x2.Mul2Exp(x2, -1)
	x2.Neg(x2)
	x2.Exp(x2, prec)

	z1 := new(arb.Real).Mul(x1, x2, prec)
	z1.Mul(z1, lemmaA7S(sigma, t0, h, k, A, prec), prec)

	a := new(arb.Real).MulInt64(pi, 2*sigma-1, prec)
	a.MulInt64(a, A, prec)

	y1 := new(arb.Real).Inv(a, prec)
	y1.AddInt64(y1, 1, prec)

	y4 := arb.NewRealInt64(2*sigma + 1)
	y4.Div(y4, h, prec)
	y4.Sqr(y4, prec)
	y4.Mul2Exp(y4, -3)
	y4.Sub(y4, new(arb.Real).Mul2Exp(a, -1), prec)
	y4.Exp(y4, prec)

	z2 := new(arb.Real).Mul(y1, y4, prec)
	z2.Mul(z2, lemmaA3(sigma, t0, h, k, prec), prec)
	z2.Mul2Exp(z2, 1)

	return z1.Add(z1, z2, prec)
}

// LemmaA9 bounds the error of the folded convolution output. It is the sum of
//
//	2 zeta(sigma) pi^((1-2 sigma)/4) exp(((2 sigma - 1)/h)^2/8 - a/2) C(sigma, t0, h, 0) (1 + 1/a)
//
// with a = pi (2 sigma - 1) A, and
//
//	4 pi^(5/4) (1 + 1/(A pi)) exp(-(4 t0^2 - 1)/(8 h^2) - A pi/2).
func LemmaA9(sigma int64, t0, h *arb.Real, A int64, prec uint) *arb.Real {
	res := lemmaA9a(sigma, t0, h, A, prec)
	return res.Add(res, lemmaA9b(t0, h, A, prec), prec)
}

func lemmaA9a(sigma int64, t0, h *arb.Real, A int64, prec uint) *arb.Real {
	pi := arb.Pi(prec)

	a := new(arb.Real).MulInt64(pi, 2*sigma-1, prec)
	a.MulInt64(a, A, prec)

	y1 := new(arb.Real).Inv(a, prec)
	y1.AddInt64(y1, 1, prec)

	y := arb.NewRealInt64(2*sigma - 1)
	y.Div(y, h, prec)
	y.Sqr(y, prec)
	y.Mul2Exp(y, -3)
	y.Sub(y, new(arb.Real).Mul2Exp(a, -1), prec)
	y.Exp(y, prec)

	z := new(arb.Real).Set(&zeta.Zeta(arb.NewComplexInt64(sigma, 0), prec).Re)
	z.Mul2Exp(z, 1)
	z.Mul(z, powFrac(pi, 1-2*sigma, 4, prec), prec)
	z.Mul(z, y, prec)
	z.Mul(z, lemmaA3(sigma, t0, h, 0, prec), prec)
	return z.Mul(z, y1, prec)
}

func lemmaA9b(t0, h *arb.Real, A int64, prec uint) *arb.Real {
	pi := arb.Pi(prec)

	x1 := powFrac(pi, 5, 4, prec)
	x1.Mul2Exp(x1, 2)

	x2 := new(arb.Real).Sqr(t0, prec)
	x2.Mul2Exp(x2, 2)
	x2.SubInt64(x2, 1, prec)
	x2.Neg(x2)
	x2.Div(x2, h, prec)
	x2.Div(x2, h, prec)
	x2.Mul2Exp(x2, -3)

	api := new(arb.Real).MulInt64(pi, A, prec)

	x4 := new(arb.Real).Inv(api, prec)
	x4.AddInt64(x4, 1, prec)

	x2.Sub(x2, new(arb.Real).Mul2Exp(api, -1), prec)
	x2.Exp(x2, prec)

	res := new(arb.Real).Mul(x1, x4, prec)
	return res.Mul(res, x2, prec)
}

// lemmaA11Beta returns 1/6 + log(log t0)/log t0.
func lemmaA11Beta(t0 *arb.Real, prec uint) *arb.Real {
	l := new(arb.Real).Log(t0, prec)
	beta := new(arb.Real).Log(l, prec)
	beta.Div(beta, l, prec)
	return beta.Add(beta, new(arb.Real).SetFrac(1, 6, prec), prec)
}

// LemmaA11 bounds the error of the final inverse transform:
//
//	6 (X + 2^beta h/B (Y + Z)),
//
// where beta = 1/6 + log(log t0)/log t0 and
//
//	X = (t0 + B/2)^beta exp(-(B/h)^2/8),
//	Y = 2^(-1/2) t0^beta Gamma(1/2, (B/h)^2/8),
//	Z = 2^((beta-1)/2) h^beta Gamma((beta+1)/2, (t0/h)^2/2).
//
// The bound holds for beta h^2/t0 <= B/2 <= t0 and t0 > exp(e); the result
// is indeterminate otherwise.
func LemmaA11(t0, h *arb.Real, B int64, prec uint) *arb.Real {
	beta := lemmaA11Beta(t0, prec)

	b := arb.NewRealInt64(B)
	halfB := new(arb.Real).Mul2Exp(b, -1)

	lhs := new(arb.Real).Sqr(h, prec)
	lhs.Mul(lhs, beta, prec)
	lhs.Div(lhs, t0, prec)
	expe := new(arb.Real).Exp(arb.NewRealInt64(1), prec)
	expe.Exp(expe, prec)
	if !certainlyLE(lhs, halfB) || !certainlyLE(halfB, t0) || !certainlyLess(expe, t0) {
		return arb.Indeterminate()
	}

	two := arb.NewRealInt64(2)

	// X
	x := new(arb.Real).Add(halfB, t0, prec)
	x.Pow(x, beta, prec)
	a := new(arb.Real).Div(b, h, prec)
	a.Sqr(a, prec)
	a.Mul2Exp(a, -3)
	e := new(arb.Real).Neg(a)
	e.Exp(e, prec)
	x.Mul(x, e, prec)

	// Y
	y := new(arb.Real).Rsqrt(two, prec)
	y.Mul(y, new(arb.Real).Pow(t0, beta, prec), prec)
	y.Mul(y, arb.GammaUpperBound(new(arb.Real).SetFrac(1, 2, prec), a, prec), prec)

	// Z
	z := new(arb.Real).SubInt64(beta, 1, prec)
	z.Mul2Exp(z, -1)
	z.Pow(two, z, prec)
	z.Mul(z, new(arb.Real).Pow(h, beta, prec), prec)
	s := new(arb.Real).AddInt64(beta, 1, prec)
	s.Mul2Exp(s, -1)
	w := new(arb.Real).Div(t0, h, prec)
	w.Sqr(w, prec)
	w.Mul2Exp(w, -1)
	z.Mul(z, arb.GammaUpperBound(s, w, prec), prec)

	c := new(arb.Real).Pow(two, beta, prec)
	c.Mul(c, h, prec)
	c.DivInt64(c, B, prec)

	res := new(arb.Real).Add(y, z, prec)
	res.Mul(res, c, prec)
	res.Add(res, x, prec)
	return res.MulInt64(res, 6, prec)
}

// LemmaB1 bounds the truncation of the main sum after J terms:
//
//	exp(((2 sigma - 1)/h)^2/8) pi^((1-2 sigma)/4) J^(1-sigma)/(sigma-1) C(sigma, t0, h, 0).
func LemmaB1(sigma int64, t0, h *arb.Real, J int64, prec uint) *arb.Real {
	x1 := arb.NewRealInt64(2*sigma - 1)
	x1.Div(x1, h, prec)
	x1.Sqr(x1, prec)
	x1.Mul2Exp(x1, -3)
	x1.Exp(x1, prec)

	x2 := powFrac(arb.Pi(prec), 1-2*sigma, 4, prec)

	x3 := new(arb.Real).PowInt(arb.NewRealInt64(J), 1-sigma, prec)
	x3.DivInt64(x3, sigma-1, prec)

	res := new(arb.Real).Mul(x1, x2, prec)
	res.Mul(res, x3, prec)
	return res.Mul(res, lemmaA3(sigma, t0, h, 0, prec), prec)
}

// LemmaB2 bounds the truncation of the Taylor expansions after K terms:
//
//	2^((K+5)/2) pi^(K+1/2) h^(K+1) xi^K / Gamma((K+2)/2).
func LemmaB2(K int, h, xi *arb.Real, prec uint) *arb.Real {
	k := int64(K)

	x1 := powFrac(arb.NewRealInt64(2), k+5, 2, prec)
	x2 := powFrac(arb.Pi(prec), 2*k+1, 2, prec)
	x3 := new(arb.Real).PowUint(h, uint64(K+1), prec)
	x4 := new(arb.Real).PowUint(xi, uint64(K), prec)
	x5 := new(arb.Real).Gamma(new(arb.Real).SetFrac(k+2, 2, prec), prec)

	res := new(arb.Real).Mul(x1, x2, prec)
	res.Mul(res, x3, prec)
	res.Mul(res, x4, prec)
	return res.Div(res, x5, prec)
}

// powFrac returns x^(p/q) for x > 0.
func powFrac(x *arb.Real, p, q int64, prec uint) *arb.Real {
	return new(arb.Real).Pow(x, new(arb.Real).SetFrac(p, q, prec), prec)
}

func certainlyLE(a, b *arb.Real) bool {
	return a.IsFinite() && b.IsFinite() && a.Upper(64).Cmp(b.Lower(64)) <= 0
}

func certainlyLess(a, b *arb.Real) bool {
	return a.IsFinite() && b.IsFinite() && a.Upper(64).Cmp(b.Lower(64)) < 0
}
