package factorization

import (
	"math/big"

	"github.com/tuneinsight/dirichlet/utils"
)

// Factor is a prime power P^E.
type Factor struct {
	P uint64
	E int
}

// FactorUint64 returns the factorization of n as a list of prime powers
// sorted by increasing prime. FactorUint64(1) is empty.
func FactorUint64(n uint64) (factors []Factor) {
	if n <= 1 {
		return nil
	}

	for _, p := range smallPrimes {
		if p*p > n {
			break
		}
		if n%p == 0 {
			f := Factor{P: p}
			for n%p == 0 {
				n /= p
				f.E++
			}
			factors = append(factors, f)
		}
	}

	if n == 1 {
		return
	}

	counts := map[uint64]int{}
	var rec func(n uint64)
	rec = func(n uint64) {
		if n == 1 {
			return
		}
		if IsPrimeUint64(n) {
			counts[n]++
			return
		}
		if r := utils.ISqrt(n); r*r == n {
			rec(r)
			rec(r)
			return
		}
		d := pollardRhoUint64(n)
		rec(d)
		rec(n / d)
	}
	rec(n)

	for _, p := range utils.GetSortedKeys(counts) {
		factors = append(factors, Factor{P: p, E: counts[p]})
	}

	return
}

// pollardRhoUint64 returns a non-trivial factor of the odd composite n.
func pollardRhoUint64(n uint64) uint64 {
	if f := GetFactorPollardRho(new(big.Int).SetUint64(n)); f.IsUint64() && f.Uint64() != n {
		return f.Uint64()
	}
	f := GetFactorECM(new(big.Int).SetUint64(n))
	if f.Uint64() == n {
		panic("cannot factor: no divisor found")
	}
	return f.Uint64()
}

// Totient returns Euler's totient of n.
func Totient(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	phi := n
	for _, f := range FactorUint64(n) {
		phi = phi / f.P * (f.P - 1)
	}
	return phi
}

// Moebius returns the Moebius function of n >= 1.
func Moebius(n uint64) int {
	mu := 1
	for _, f := range FactorUint64(n) {
		if f.E > 1 {
			return 0
		}
		mu = -mu
	}
	return mu
}

// IsSquarefree returns true if no square of a prime divides n.
func IsSquarefree(n uint64) bool {
	return n != 0 && Moebius(n) != 0
}

// PrimitiveRoot returns the smallest primitive root modulo the odd prime p.
// For p = 2 it returns 1.
func PrimitiveRoot(p uint64) uint64 {
	if p == 2 {
		return 1
	}
	factors := FactorUint64(p - 1)
	for g := uint64(2); ; g++ {
		ok := true
		for _, f := range factors {
			if utils.PowMod(g, (p-1)/f.P, p) == 1 {
				ok = false
				break
			}
		}
		if ok {
			return g
		}
	}
}

// PrimitiveRootPrimePower returns a generator of (Z/p^eZ)^* for an odd prime p,
// taken as the smallest primitive root modulo p lifted if needed.
func PrimitiveRootPrimePower(p uint64, e int) uint64 {
	g := PrimitiveRoot(p)
	if e > 1 && utils.PowMod(g, p-1, p*p) == 1 {
		g += p
	}
	return g
}

// Power returns p^e, and false on overflow.
func Power(p uint64, e int) (uint64, bool) {
	r := uint64(1)
	for i := 0; i < e; i++ {
		if r > ^uint64(0)/p {
			return 0, false
		}
		r *= p
	}
	return r, true
}
