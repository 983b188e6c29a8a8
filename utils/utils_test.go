package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegers(t *testing.T) {
	t.Run("GCD", func(t *testing.T) {
		require.Equal(t, 6, GCD(12, 18))
		require.Equal(t, uint64(1), GCD(uint64(17), uint64(5)))
		require.Equal(t, int64(7), GCD(int64(-14), int64(7)))
		require.Equal(t, 36, LCM(12, 18))
	})

	t.Run("PowMod", func(t *testing.T) {
		m := uint64(0xffffffffffffffc5)
		require.Equal(t, uint64(1), PowMod(3, m-1, m))
		require.Equal(t, uint64(24), PowMod(2, 10, 1000))
		require.Equal(t, uint64(0), PowMod(5, 3, 1))
	})

	t.Run("InvMod", func(t *testing.T) {
		for _, m := range []uint64{7, 100, 1 << 40, 0x1fffffffffe00001} {
			for _, x := range []uint64{1, 3, 99, 12345} {
				if GCD(x, m) != 1 {
					continue
				}
				y, ok := InvMod(x, m)
				require.True(t, ok)
				require.Equal(t, uint64(1), MulMod(x%m, y, m))
			}
		}
		_, ok := InvMod(6, 9)
		require.False(t, ok)
	})

	t.Run("ISqrt", func(t *testing.T) {
		for _, x := range []uint64{0, 1, 2, 3, 4, 15, 16, 17, 1<<62 + 12345, 0xffffffffffffffff} {
			r := ISqrt(x)
			require.LessOrEqual(t, r*r, x)
			if r < 0xffffffff {
				require.Greater(t, (r+1)*(r+1), x)
			}
		}
	})

	t.Run("AddSubMod", func(t *testing.T) {
		m := uint64(0xffffffffffffffc5)
		require.Equal(t, uint64(1), AddMod(m-1, 2, m))
		require.Equal(t, m-1, SubMod(1, 2, m))
	})
}

func TestSlices(t *testing.T) {
	require.Equal(t, -1, Min(3, -1))
	require.True(t, IsPowerOfTwo(uint(64)))
	require.False(t, IsPowerOfTwo(uint(0)))
}
