package factorization_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

const (
	prime uint64 = 0x1fffffffffe00001
)

func TestIsPrime(t *testing.T) {
	// 2^64 - 59 is prime
	require.True(t, factorization.IsPrime(new(big.Int).SetUint64(0xffffffffffffffc5)))
	require.True(t, factorization.IsPrimeUint64(0xffffffffffffffc5))
	// 2^64 + 13 is prime
	bigPrime, _ := new(big.Int).SetString("18446744073709551629", 10)
	require.True(t, factorization.IsPrime(bigPrime))
	// 2^64 - 1 is not prime
	require.False(t, factorization.IsPrime(new(big.Int).SetUint64(0xffffffffffffffff)))
	require.False(t, factorization.IsPrimeUint64(0xffffffffffffffff))
	// strong pseudoprime to bases 2, 3, 5, 7
	require.False(t, factorization.IsPrimeUint64(3215031751))

	sieve := factorization.PrimesUpTo(1000)
	for n := uint64(0); n <= 1000; n++ {
		in := false
		for _, p := range sieve {
			in = in || p == n
		}
		require.Equal(t, in, factorization.IsPrimeUint64(n), n)
	}
}

func TestGetFactors(t *testing.T) {

	t.Run("GetFactors", func(t *testing.T) {
		m := new(big.Int).SetUint64(prime - 1)
		require.True(t, checkFactorization(new(big.Int).Set(m), factorization.GetFactors(m)))
	})

	t.Run("GetFactorsBig", func(t *testing.T) {
		// (2^61 - 1) * (2^64 - 59) * 12
		m := new(big.Int).SetUint64(0x1fffffffffffffff)
		m.Mul(m, new(big.Int).SetUint64(0xffffffffffffffc5))
		m.Mul(m, big.NewInt(12))
		factors := factorization.GetFactors(m)
		require.Len(t, factors, 4)
		require.True(t, checkFactorization(m, factors))
	})

	t.Run("ECM", func(t *testing.T) {
		m := new(big.Int).SetUint64(prime - 1)
		require.True(t, m.Mod(m, factorization.GetFactorECM(m)).Cmp(new(big.Int)) == 0)

		// 1000003 * 1000033
		m = new(big.Int).SetUint64(1000036000099)
		f := factorization.GetFactorECM(m)
		require.True(t, f.Cmp(big.NewInt(1)) > 0 && f.Cmp(m) < 0)
		require.Zero(t, new(big.Int).Mod(m, f).Sign())
	})

	t.Run("PollardRho", func(t *testing.T) {
		m := new(big.Int).SetUint64(prime - 1)
		require.True(t, m.Mod(m, factorization.GetFactorPollardRho(m)).Cmp(new(big.Int)) == 0)

		m = new(big.Int).SetUint64(1000036000099)
		f := factorization.GetFactorPollardRho(m)
		require.True(t, f.Cmp(big.NewInt(1)) > 0 && f.Cmp(m) < 0)
		require.Zero(t, new(big.Int).Mod(m, f).Sign())
	})
}

func TestArithmetic(t *testing.T) {

	t.Run("FactorUint64", func(t *testing.T) {
		require.Empty(t, factorization.FactorUint64(1))
		require.Equal(t, []factorization.Factor{{2, 3}, {3, 2}, {5, 1}}, factorization.FactorUint64(360))
		require.Equal(t, []factorization.Factor{{1000003, 2}}, factorization.FactorUint64(1000003*1000003))
		require.Equal(t, []factorization.Factor{{3, 1}, {5, 1}, {17, 1}, {257, 1}, {641, 1}, {65537, 1}, {6700417, 1}}, factorization.FactorUint64(0xffffffffffffffff))
	})

	t.Run("Totient", func(t *testing.T) {
		expected := []uint64{0, 1, 1, 2, 2, 4, 2, 6, 4, 6, 4, 10, 4, 12, 6, 8, 8, 16, 6, 18, 8}
		for n, phi := range expected {
			require.Equal(t, phi, factorization.Totient(uint64(n)), n)
		}
	})

	t.Run("Moebius", func(t *testing.T) {
		expected := []int{1, -1, -1, 0, -1, 1, -1, 0, 0, 1, -1, 0, -1, 1, 1, 0}
		for i, mu := range expected {
			require.Equal(t, mu, factorization.Moebius(uint64(i+1)), i+1)
		}
		require.True(t, factorization.IsSquarefree(30))
		require.False(t, factorization.IsSquarefree(18))
	})

	t.Run("PrimitiveRoot", func(t *testing.T) {
		require.Equal(t, uint64(2), factorization.PrimitiveRoot(5))
		require.Equal(t, uint64(3), factorization.PrimitiveRoot(7))
		require.Equal(t, uint64(5), factorization.PrimitiveRoot(23))
		require.Equal(t, uint64(3), factorization.PrimitiveRootPrimePower(7, 2))
	})
}

func checkFactorization(p *big.Int, factors []*big.Int) bool {
	p = new(big.Int).Set(p)
	zero := new(big.Int)
	for _, factor := range factors {
		if !factorization.IsPrime(factor) {
			return false
		}
		for new(big.Int).Mod(p, factor).Cmp(zero) == 0 {
			p.Quo(p, factor)
		}
	}

	return p.Cmp(new(big.Int).SetUint64(1)) == 0
}
