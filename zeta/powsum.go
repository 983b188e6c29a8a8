package zeta

import (
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
)

// PowSumGeneric returns the first length Taylor coefficients in x of
// sum_{k=0}^{n-1} (a + k)^(-(s + x)).
func PowSumGeneric(s *arb.Complex, a *arb.Real, n, length int, prec uint) arb.Series {
	res := arb.NewSeries(length)
	wp := prec + uint(bits.Len(uint(n))) + 4

	ns := new(arb.Complex).Neg(s)
	x := new(arb.Real)
	l := new(arb.Real)
	t := new(arb.Complex)
	for k := 0; k < n; k++ {
		x.AddInt64(a, int64(k), wp)
		l.Log(x, wp)
		t.PowReal(x, ns, wp)
		addPowTerm(res, t, l, wp)
	}
	return res
}

// addPowTerm adds the coefficients t (-l)^j / j! to res.
func addPowTerm(res arb.Series, t *arb.Complex, l *arb.Real, prec uint) {
	res[0].Add(&res[0], t, prec)
	if len(res) == 1 {
		return
	}
	nl := new(arb.Real).Neg(l)
	c := new(arb.Complex).Set(t)
	for j := 1; j < len(res); j++ {
		c.MulReal(c, nl, prec)
		c.DivInt64(c, int64(j), prec)
		res[j].Add(&res[j], c, prec)
	}
}

// PowSumSieved returns the first length Taylor coefficients in x of
// sum_{k=1}^{n} k^(-(s + x)).
//
// Only odd k are powered: a composite k reuses the stored series of its
// smallest prime factor and cofactor. Each odd m contributes
// m^(-(s+x)) (1 + u + ... + u^J) with u = 2^(-(s+x)) and J = floor(log2(n/m)),
// which is folded by Horner's rule over the buckets of equal J.
func PowSumSieved(s *arb.Complex, n, length int, prec uint) arb.Series {
	if n < 1 {
		return arb.NewSeries(length)
	}

	jmax := bits.Len(uint(n)) - 1
	wp := prec + 2*uint(jmax) + 8

	spf := smallestPrimeFactors(n)
	keep := n / 3

	stored := make(map[int]arb.Series)
	buckets := make([]arb.Series, jmax+1)
	for j := range buckets {
		buckets[j] = arb.NewSeries(length)
	}

	ns := new(arb.Complex).Neg(s)
	l := new(arb.Real)
	x := new(arb.Real)
	for k := 1; k <= n; k += 2 {
		var t arb.Series
		switch p := int(spf[k]); {
		case k == 1:
			t = arb.NewSeries(length)
			t[0].One()
		case p == k:
			x.SetInt64(int64(k))
			l.Log(x, wp)
			t = arb.NewSeries(length)
			c := new(arb.Complex).PowReal(x, ns, wp)
			addPowTerm(t, c, l, wp)
		default:
			t = arb.SeriesMullow(stored[p], stored[k/p], length, wp)
		}

		if k <= keep {
			stored[k] = t
		}

		J := bits.Len(uint(n/k)) - 1
		b := buckets[J]
		for i := range b {
			b[i].Add(&b[i], &t[i], wp)
		}
	}

	// suffix sums then Horner in u
	for j := jmax - 1; j >= 0; j-- {
		buckets[j] = arb.SeriesAdd(buckets[j], buckets[j+1], length, wp)
	}

	l.LogUint(2, wp)
	u := arb.NewSeries(length)
	c := new(arb.Complex).PowReal(arb.NewRealInt64(2), ns, wp)
	addPowTerm(u, c, l, wp)

	res := buckets[jmax]
	for j := jmax - 1; j >= 0; j-- {
		res = arb.SeriesMullow(res, u, length, wp)
		res = arb.SeriesAdd(res, buckets[j], length, wp)
	}

	for i := range res {
		res[i].SetRound(&res[i], prec)
	}
	return res
}

// smallestPrimeFactors returns the smallest prime factor of every k <= n.
func smallestPrimeFactors(n int) []uint32 {
	spf := make([]uint32, n+1)
	for i := 2; i <= n; i++ {
		if spf[i] != 0 {
			continue
		}
		for j := i; j <= n; j += i {
			if spf[j] == 0 {
				spf[j] = uint32(i)
			}
		}
	}
	return spf
}
