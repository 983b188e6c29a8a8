package dirichlet

import (
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// Prime moduli above this value use the theta series.
const gaussThetaCutoff = 150

// GaussSum returns the Gauss sum tau(chi) = sum_{x mod q} chi(x) exp(2 pi i x / q).
// Imprimitive characters reduce to the primitive one, real characters use
// the closed form, composite moduli are factored and large prime moduli go
// through the theta series.
func GaussSum(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	switch {
	case G.q == 1:
		return arb.NewComplex().One()
	case !chi.IsPrimitive():
		return gaussSumImprimitive(chi, prec, GaussSum)
	case chi.IsReal():
		return gaussSumOrder2(chi, prec)
	case len(G.primes) > 1 || !factorization.IsPrimeUint64(G.q):
		return GaussSumFactor(chi, prec)
	case G.q < gaussThetaCutoff:
		return GaussSumNaive(chi, prec)
	default:
		return GaussSumTheta(chi, prec)
	}
}

// GaussSumNaive sums the q terms of the Gauss sum.
func GaussSumNaive(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	res := arb.NewComplex()
	if G.q == 1 {
		return res.One()
	}

	wp := prec + uint(bits.Len64(G.q)) + 4
	v := ChiVec(chi, int(G.q))
	rc := NewRoots(chi.order, wp)
	rq := NewRoots(G.q, wp)

	a, b := arb.NewComplex(), arb.NewComplex()
	for x := uint64(1); x < G.q; x++ {
		if v[x] == Null {
			continue
		}
		rc.Pow(a, v[x])
		rq.Pow(b, x)
		res.MulAdd(a, b, wp)
	}
	return res.SetRound(res, prec)
}

// GaussSumFactor multiplies the Gauss sums of the prime power components,
// using tau(chi1 chi2) = chi1(q2) chi2(q1) tau(chi1) tau(chi2) for coprime
// moduli q1 and q2.
func GaussSumFactor(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	res := arb.NewComplex().One()
	if G.q == 1 {
		return res
	}
	if !chi.IsPrimitive() {
		return gaussSumImprimitive(chi, prec, GaussSumFactor)
	}

	wp := prec + 8
	t := arb.NewComplex()
	for _, pe := range G.primePowers() {
		H, err := G.Subgroup(pe)
		if err != nil {
			panic(err)
		}
		chip, err := H.NewChar(chi.Number() % pe)
		if err != nil {
			panic(err)
		}

		if pe%4 == 0 || !factorization.IsPrimeUint64(pe) {
			res.Mul(res, gaussSumPrimePower(chip, wp), wp)
		} else if pe < gaussThetaCutoff {
			res.Mul(res, GaussSumNaive(chip, wp), wp)
		} else {
			res.Mul(res, GaussSumTheta(chip, wp), wp)
		}

		if pe != G.q {
			unitRoot(t, chip.Chi(G.q/pe), chip.order, wp)
			res.Mul(res, t, wp)
		}
	}
	return res.SetRound(res, prec)
}

// primePowers returns the maximal prime powers dividing q.
func (G *Group) primePowers() (pe []uint64) {
	if G.e2 > 0 {
		pe = append(pe, G.qEven)
	}
	for _, c := range G.comps[G.neven:] {
		pe = append(pe, c.PE)
	}
	return
}

// gaussSumPrimePower evaluates the Gauss sum of a character modulo p^e,
// e >= 2, as p^k sum chi(y) exp(2 pi i y / p^e) with k = floor(e/2), over the
// units y < p^(e-k) congruent to -b mod p^k, where
// chi(1 + p^(e-k) x) = exp(2 pi i b x / p^k). The sum has one or p terms.
func gaussSumPrimePower(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	p := G.primes[0]
	e := G.comps[len(G.comps)-1].E
	k := e / 2
	pk := pow(p, k)
	pm := pow(p, e-k)

	// chi(1 + p^(e-k)) = exp(2 pi i a / order) = exp(2 pi i b / p^k)
	a := chi.Chi(1 + pm)
	g := utils.GCD(a, chi.order)
	b := a / g * (pk / (chi.order / g))
	y0 := (pk - b%pk) % pk

	wp := prec + uint(bits.Len64(G.q)) + 4
	res := arb.NewComplex()
	s, z := arb.NewComplex(), arb.NewComplex()
	for y := y0; y < pm; y += pk {
		v := chi.Chi(y)
		if v == Null {
			continue
		}
		unitRoot(s, v, chi.order, wp)
		unitRoot(z, y, G.q, wp)
		res.MulAdd(s, z, wp)
	}
	return res.MulReal(res, new(arb.Real).SetUint64(pk), prec)
}

// gaussSumOrder2 returns sqrt(q) or i sqrt(q) for a real primitive character.
func gaussSumOrder2(chi *Char, prec uint) *arb.Complex {
	res := arb.NewComplex()
	res.Re.SqrtUint(chi.Group().q, prec)
	if chi.Parity() == 1 {
		res.MulI(res)
	}
	return res
}

// gaussSumImprimitive applies tau(chi) = mu(r) chi*(r) tau(chi*) where chi*
// is the primitive character of conductor f inducing chi and r = q / f.
// The sum vanishes unless r is squarefree and coprime to f.
func gaussSumImprimitive(chi *Char, prec uint, gauss func(*Char, uint) *arb.Complex) *arb.Complex {
	f := chi.Conductor()
	r := chi.Group().q / f
	mu := factorization.Moebius(r)
	if mu == 0 || utils.GCD(r, f) != 1 {
		return arb.NewComplex()
	}
	prim, err := chi.Primitive()
	if err != nil {
		panic(err)
	}
	res := gauss(prim, prec+4)
	res.Mul(res, ChiValue(prim, r, prec+4), prec)
	if mu < 0 {
		res.Neg(res)
	}
	return res
}

// GaussSumTheta computes the Gauss sum from the root number given by the
// theta functional equation, tau(chi) = W i^e sqrt(q).
func GaussSumTheta(chi *Char, prec uint) *arb.Complex {
	G := chi.Group()
	if G.q == 1 {
		return arb.NewComplex().One()
	}
	if !chi.IsPrimitive() {
		return gaussSumImprimitive(chi, prec, GaussSumTheta)
	}
	res := rootNumberTheta(chi, prec+4)
	sq := new(arb.Real).SqrtUint(G.q, prec+4)
	res.MulReal(res, sq, prec)
	if chi.Parity() == 1 {
		res.MulI(res)
	}
	return res
}
