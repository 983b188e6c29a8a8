// Package factorization implements primality testing, integer factorization
// and the elementary arithmetic functions built on them.
package factorization

import (
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/sampling"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(m *big.Int) bool {
	return m.ProbablyPrime(0)
}

// IsPrimeUint64 returns true if n is prime. The test is deterministic.
func IsPrimeUint64(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		if n%p == 0 {
			return n == p
		}
	}

	d := n - 1
	s := bits.TrailingZeros64(d)
	d >>= uint(s)

	// these bases are sufficient for n < 2^64
	for _, a := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		x := utils.PowMod(a, d, n)
		if x == 1 || x == n-1 {
			continue
		}
		composite := true
		for r := 1; r < s; r++ {
			x = utils.MulMod(x, x, n)
			if x == n-1 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// GetFactors returns all the prime factors of m.
// The result is sorted and contains each prime once.
func GetFactors(m *big.Int) (factors []*big.Int) {

	if m.Cmp(big.NewInt(1)) <= 0 {
		return nil
	}

	var N uint64
	if m.IsUint64() {
		N = m.Uint64()
	}

	if N != 0 {
		for _, f := range FactorUint64(N) {
			factors = append(factors, new(big.Int).SetUint64(f.P))
		}
		return
	}

	seen := map[string]*big.Int{}
	var rec func(n *big.Int)
	rec = func(n *big.Int) {
		if n.Cmp(big.NewInt(1)) == 0 {
			return
		}
		if IsPrime(n) {
			seen[n.String()] = new(big.Int).Set(n)
			return
		}
		f := GetFactorPollardRho(n)
		if f.Cmp(n) == 0 {
			f = GetFactorECM(n)
		}
		rec(f)
		rec(new(big.Int).Quo(n, f))
	}

	r := new(big.Int).Set(m)
	for _, p := range smallPrimes {
		bp := new(big.Int).SetUint64(p)
		mod := new(big.Int)
		if mod.Mod(r, bp).Sign() == 0 {
			seen[bp.String()] = bp
			for mod.Mod(r, bp).Sign() == 0 {
				r.Quo(r, bp)
			}
		}
	}
	rec(r)

	for _, f := range seen {
		factors = append(factors, f)
	}
	for i := 1; i < len(factors); i++ {
		for j := i; j > 0 && factors[j].Cmp(factors[j-1]) < 0; j-- {
			factors[j], factors[j-1] = factors[j-1], factors[j]
		}
	}
	return
}

// GetFactorPollardRho returns a factor of m using Brent's variant of
// Pollard's rho. The returned value is m if no factor was found.
func GetFactorPollardRho(m *big.Int) (d *big.Int) {

	if m.Bit(0) == 0 {
		return big.NewInt(2)
	}

	prng, err := sampling.NewKeyedPRNG(m.Bytes())
	if err != nil {
		panic(err)
	}

	one := big.NewInt(1)

	for attempt := 0; attempt < 16; attempt++ {

		c := sampling.RandIntFrom(prng, m)
		y := sampling.RandIntFrom(prng, m)

		f := func(x *big.Int) {
			x.Mul(x, x)
			x.Add(x, c)
			x.Mod(x, m)
		}

		x := new(big.Int)
		ys := new(big.Int)
		q := big.NewInt(1)
		tmp := new(big.Int)
		d = big.NewInt(1)

		for r := 1; d.Cmp(one) == 0 && r < 1<<24; r <<= 1 {
			x.Set(y)
			for i := 0; i < r; i++ {
				f(y)
			}
			for k := 0; k < r && d.Cmp(one) == 0; k += 128 {
				ys.Set(y)
				for i := 0; i < 128 && i < r-k; i++ {
					f(y)
					tmp.Sub(x, y)
					tmp.Abs(tmp)
					q.Mul(q, tmp)
					q.Mod(q, m)
				}
				d.GCD(nil, nil, q, m)
			}
		}

		if d.Cmp(m) == 0 {
			// backtrack one step at a time
			for {
				f(ys)
				tmp.Sub(x, ys)
				tmp.Abs(tmp)
				if d.GCD(nil, nil, tmp, m); d.Cmp(one) != 0 {
					break
				}
			}
		}

		if d.Cmp(one) != 0 && d.Cmp(m) != 0 {
			return d
		}
	}

	return new(big.Int).Set(m)
}

// GetFactorECM returns a factor of N using Lenstra's elliptic curve method.
// The returned value is N if no factor was found.
func GetFactorECM(N *big.Int) *big.Int {

	if N.Bit(0) == 0 {
		return big.NewInt(2)
	}

	prng, err := sampling.NewKeyedPRNG(N.Bytes())
	if err != nil {
		panic(err)
	}

	for bound := uint64(1000); bound < 1<<22; bound *= 2 {
		primes := PrimesUpTo(bound)
		for curves := 0; curves < 32; curves++ {
			curve, P := NewRandomWeierstrassCurve(prng, N)
			for _, p := range primes {
				// largest power of p below the bound
				k := p
				for k <= bound/p {
					k *= p
				}
				var d *big.Int
				if P, d = curve.ScalarMul(k, P); d != nil {
					if d.Cmp(N) != 0 && d.Cmp(big.NewInt(1)) != 0 {
						return d
					}
					break
				}
				if P.IsInfinity() {
					break
				}
			}
		}
	}

	return new(big.Int).Set(N)
}

var smallPrimes = PrimesUpTo(1 << 10)

// PrimesUpTo returns the primes p <= n, in increasing order.
func PrimesUpTo(n uint64) (primes []uint64) {
	if n < 2 {
		return nil
	}
	composite := make([]bool, n+1)
	for i := uint64(2); i <= n; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= n; j += i {
			composite[j] = true
		}
	}
	return
}
