package dirichlet

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// JacobiSum returns J(chi1, chi2) = sum_{x mod q} chi1(x) chi2(1 - x).
// Principal characters use closed forms, as does chi2 = conj(chi1) for a
// prime modulus. When chi1, chi2 and chi1 chi2 are primitive the sum is
// obtained from Gauss sums, otherwise it is summed directly.
func JacobiSum(chi1, chi2 *Char, prec uint) *arb.Complex {
	checkChars(chi1, chi2)
	G := chi1.Group()

	switch {
	case chi1.IsPrincipal():
		return jacobiSumPrincipal(chi2)
	case chi2.IsPrincipal():
		return jacobiSumPrincipal(chi1)
	}

	prod := chi1.Mul(chi2)

	switch {
	case prod.IsPrincipal() && factorization.IsPrimeUint64(G.q):
		// J(chi, conj chi) = -chi(-1)
		res := arb.NewComplexInt64(-1, 0)
		if chi1.Parity() == 1 {
			res.Neg(res)
		}
		return res
	case chi1.IsPrimitive() && chi2.IsPrimitive() && prod.IsPrimitive():
		return JacobiSumGauss(chi1, chi2, prec)
	default:
		return JacobiSumNaive(chi1, chi2, prec)
	}
}

// JacobiSumNaive sums the q terms, grouped by the exponent of their value.
func JacobiSumNaive(chi1, chi2 *Char, prec uint) *arb.Complex {
	checkChars(chi1, chi2)
	G := chi1.Group()
	q := G.q

	v1 := ChiVec(chi1, int(q))
	v2 := ChiVec(chi2, int(q))
	f1 := G.expo / chi1.order
	f2 := G.expo / chi2.order

	count := make([]int64, G.expo)
	for x := uint64(0); x < q; x++ {
		y := (q + 1 - x) % q
		if v1[x] == Null || v2[y] == Null {
			continue
		}
		a := utils.AddMod(v1[x]*f1, v2[y]*f2, G.expo)
		count[a]++
	}

	wp := prec + 8
	roots := NewRoots(G.expo, wp)
	res := arb.NewComplex()
	z := arb.NewComplex()
	for a, c := range count {
		if c == 0 {
			continue
		}
		roots.Pow(z, uint64(a))
		z.MulInt64(z, c, wp)
		res.Add(res, z, wp)
	}
	return res.SetRound(res, prec)
}

// JacobiSumGauss returns tau(chi1) tau(chi2) / tau(chi1 chi2), which equals
// J(chi1, chi2) when chi1 chi2 is primitive.
func JacobiSumGauss(chi1, chi2 *Char, prec uint) *arb.Complex {
	checkChars(chi1, chi2)
	wp := prec + 8
	res := GaussSum(chi1, wp)
	res.Mul(res, GaussSum(chi2, wp), wp)
	return res.Div(res, GaussSum(chi1.Mul(chi2), wp), prec)
}

// jacobiSumPrincipal returns J(1, chi) as the product over p^e || q of
// p^(e-1) (p - 2) when chi is trivial at p, -p^(e-1) when its conductor
// at p is p, and 0 otherwise.
func jacobiSumPrincipal(chi *Char) *arb.Complex {
	G := chi.Group()
	f := chi.Conductor()
	res := int64(1)
	for _, pe := range G.primePowers() {
		p := factorization.FactorUint64(pe)[0].P
		fp := utils.GCD(f, pe)
		switch fp {
		case 1:
			res *= int64(pe/p) * int64(p-2)
		case p:
			res *= -int64(pe / p)
		default:
			return arb.NewComplex()
		}
	}
	return arb.NewComplexInt64(res, 0)
}

func checkChars(chi1, chi2 *Char) {
	if chi1.Group().q != chi2.Group().q {
		panic(fmt.Errorf("character modulus mismatch: %d != %d", chi1.Group().q, chi2.Group().q))
	}
}
