package arb

import (
	"math/big"
	"sync"
)

var bernoulliCache struct {
	sync.Mutex
	b2n []*big.Rat // B_0, B_2, B_4, ...
}

// Bernoulli returns the Bernoulli number B_n, with B_1 = -1/2.
// The returned value must not be modified.
func Bernoulli(n int) *big.Rat {
	switch {
	case n == 1:
		return big.NewRat(-1, 2)
	case n < 0 || n&1 == 1:
		return new(big.Rat)
	}

	bernoulliCache.Lock()
	defer bernoulliCache.Unlock()

	if n/2 >= len(bernoulliCache.b2n) {
		m := 2 * (n/2 + 1)
		if m < 64 {
			m = 64
		}
		bernoulliCache.b2n = bernoulliEven(m)
	}

	return bernoulliCache.b2n[n/2]
}

// bernoulliEven returns B_0, B_2, ..., B_{2(m-1)} from the tangent numbers.
func bernoulliEven(m int) []*big.Rat {
	T := tangentNumbers(m - 1)

	b := make([]*big.Rat, m)
	b[0] = big.NewRat(1, 1)

	for k := 1; k < m; k++ {
		// B_2k = (-1)^(k-1) 2k T_k / (2^2k (2^2k - 1))
		num := new(big.Int).Mul(big.NewInt(int64(2*k)), T[k])
		if k&1 == 0 {
			num.Neg(num)
		}
		p := new(big.Int).Lsh(big.NewInt(1), uint(2*k))
		den := new(big.Int).Sub(p, big.NewInt(1))
		den.Mul(den, p)
		b[k] = new(big.Rat).SetFrac(num, den)
	}

	return b
}

// tangentNumbers returns T_1, ..., T_n (index 0 unused), where
// tan(x) = sum T_k x^(2k-1) / (2k-1)!.
func tangentNumbers(n int) []*big.Int {
	T := make([]*big.Int, n+1)
	T[0] = new(big.Int)
	if n == 0 {
		return T
	}
	T[1] = big.NewInt(1)
	for k := 2; k <= n; k++ {
		T[k] = new(big.Int).Mul(T[k-1], big.NewInt(int64(k-1)))
	}
	tmp := new(big.Int)
	for k := 2; k <= n; k++ {
		for j := k; j <= n; j++ {
			tmp.Mul(T[j-1], big.NewInt(int64(j-k)))
			T[j].Mul(T[j], big.NewInt(int64(j-k+2)))
			T[j].Add(T[j], tmp)
		}
	}
	return T
}

// BernoulliReal returns a ball containing B_n.
func BernoulliReal(n int, prec uint) *Real {
	return new(Real).SetRat(Bernoulli(n), prec)
}
