package zeros

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeta"
)

// imaginary parts of the first nontrivial zeros
var firstZeros = []string{
	"14.134725141734693790457251983562470270784257115699",
	"21.022039638771554992628479593896902777334340524903",
	"25.010857580145688763213790992562821818659549672558",
}

func parseBig(t *testing.T, s string) *big.Float {
	f, ok := new(big.Float).SetPrec(200).SetString(s)
	require.True(t, ok)
	return f
}

func requireInside(t *testing.T, iv Interval, x *big.Float) {
	require.Negative(t, iv.A.Cmp(x), "%s not above %s", x.Text('g', 20), iv.A.Text('g', 20))
	require.Positive(t, iv.B.Cmp(x), "%s not below %s", x.Text('g', 20), iv.B.Text('g', 20))
}

func TestGramPoint(t *testing.T) {
	t.Run("First", func(t *testing.T) {
		g, err := GramPoint(0, 64)
		require.NoError(t, err)
		require.InDelta(t, 17.8455995, g.Float64(), 1e-7)
		require.Less(t, g.Rad().Exp2(), int64(-50))
	})

	t.Run("Theta", func(t *testing.T) {
		for _, n := range []int64{-1, 1, 2, 10, 1000, 1000000} {
			prec := uint(80)
			g, err := GramPoint(n, prec)
			require.NoError(t, err)
			require.True(t, g.IsFinite())
			th := zeta.HardyTheta(g, nil, nil, prec)
			th.Div(th, arb.Pi(prec), prec)
			require.True(t, th.ContainsInt64(n), "n = %d: %s", n, th)
			require.Less(t, th.Rad().Exp2(), int64(-40), "n = %d", n)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := GramPoint(-2, 64)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestBounds(t *testing.T) {
	t.Run("TuringBound", func(t *testing.T) {
		for _, p := range []int64{100, 100000, 20000000} {
			b, err := TuringBound(p)
			require.NoError(t, err)
			g, err := GramPoint(p, 64)
			require.NoError(t, err)
			l := math.Log(g.Float64())
			want := math.Ceil(math.Min(0.0061*l*l+0.08*l, 0.0031*l*l+0.11*l))
			require.Equal(t, int64(want), b, "p = %d", p)
		}
	})

	t.Run("BacklundSBound", func(t *testing.T) {
		require.Equal(t, 1.0, BacklundSBound(arb.NewRealInt64(100)).Float64())
		require.Equal(t, 2.0, BacklundSBound(arb.NewRealInt64(1000000)).Float64())
		l := math.Log(1e10)
		require.GreaterOrEqual(t, BacklundSBound(arb.NewRealFloat64(1e10)).Float64(), 0.112*l+0.278*math.Log(l)+2.51)
		require.True(t, BacklundSBound(arb.Indeterminate()).IsInf())
	})
}

func TestNZeros(t *testing.T) {
	prec := uint(64)

	t.Run("Exact", func(t *testing.T) {
		for _, c := range []struct {
			t float64
			n int64
		}{{10, 0}, {14.1, 0}, {14.2, 1}, {21.1, 2}, {30, 3}, {100, 29}} {
			N, err := NZeros(arb.NewRealFloat64(c.t), prec)
			require.NoError(t, err)
			require.True(t, N.ContainsInt64(c.n), "N(%v) = %s", c.t, N)
			require.True(t, N.IsExact())
		}
	})

	t.Run("Ball", func(t *testing.T) {
		x := arb.NewRealMidRad(big.NewFloat(21), arb.NewMag(1))
		N, err := NZeros(x, prec)
		require.NoError(t, err)
		require.True(t, N.ContainsInt64(1))
		require.True(t, N.ContainsInt64(2))
		require.False(t, N.ContainsInt64(3))
	})

	t.Run("Gram", func(t *testing.T) {
		for _, n := range []int64{-1, 0, 10} {
			N, err := NZerosGram(n)
			require.NoError(t, err)
			require.Equal(t, n+1, N)
		}
		_, err := NZerosGram(-2)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Rosser", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping zero counting at height 1000 in short mode")
		}
		N, err := NZeros(arb.NewRealInt64(1000), prec)
		require.NoError(t, err)
		require.True(t, N.ContainsInt64(649))
	})
}

func TestBacklundS(t *testing.T) {
	prec := uint(64)

	S, err := BacklundS(arb.NewRealInt64(100), prec)
	require.NoError(t, err)
	require.True(t, S.IsFinite())
	require.LessOrEqual(t, S.AbsUpper().Float64(), 1.0)
	require.Less(t, S.Rad().Exp2(), int64(-40))

	// S(t) = N(t) - theta(t)/pi - 1
	x := arb.NewRealFloat64(14.2)
	S, err = BacklundS(x, prec)
	require.NoError(t, err)
	th := zeta.HardyTheta(x, nil, nil, prec)
	th.Div(th, arb.Pi(prec), prec)
	th.Neg(th)
	require.True(t, S.Overlaps(th))

	wide := arb.NewRealMidRad(big.NewFloat(1000), arb.NewMag(10))
	S, err = BacklundS(wide, prec)
	require.NoError(t, err)
	require.True(t, S.ContainsZero())
	require.Equal(t, 2.0, S.Rad().Float64())

	S, err = BacklundS(arb.NewRealInt64(-5), prec)
	require.NoError(t, err)
	require.False(t, S.IsFinite())
}

func TestIsolate(t *testing.T) {
	t.Run("First", func(t *testing.T) {
		ivs, err := IsolateHardyZZeros(1, len(firstZeros))
		require.NoError(t, err)
		require.Len(t, ivs, len(firstZeros))
		for i, s := range firstZeros {
			requireInside(t, ivs[i], parseBig(t, s))
		}
		for i := 1; i < len(ivs); i++ {
			require.LessOrEqual(t, ivs[i-1].B.Cmp(ivs[i].A), 0)
		}
	})

	t.Run("Single", func(t *testing.T) {
		iv, err := IsolateHardyZZero(2)
		require.NoError(t, err)
		requireInside(t, iv, parseBig(t, firstZeros[1]))
	})

	t.Run("Rosser", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping zeros beyond Gram's law in short mode")
		}
		iv, err := IsolateHardyZZero(127)
		require.NoError(t, err)
		requireInside(t, iv, big.NewFloat(282.4651147650))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := IsolateHardyZZero(0)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = HardyZZeros(-3, 1, 32)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = NthZero(0, 32)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestIsolator(t *testing.T) {
	hardyZ := func(t *arb.Real, prec uint) *arb.Real {
		return zeta.HardyZ(t, nil, nil, prec)
	}

	t.Run("FixedPrecision", func(t *testing.T) {
		iso := NewIsolator(hardyZ, 64)
		zs, err := iso.Zeros(1, len(firstZeros), 40)
		require.NoError(t, err)
		require.Len(t, zs, len(firstZeros))
		for i, s := range firstZeros {
			require.True(t, zs[i].Overlaps(arb.NewRealBig(parseBig(t, s))), "zero %d: %s", i+1, zs[i])
			require.Less(t, zs[i].Rad().Exp2(), int64(-30))
		}
	})

	t.Run("Coarse", func(t *testing.T) {
		// signs are lost close to the zero, so refinement stops early
		iso := NewIsolator(hardyZ, 20)
		zs, err := iso.Zeros(1, 1, 60)
		require.NoError(t, err)
		require.Len(t, zs, 1)
		require.True(t, zs[0].Overlaps(arb.NewRealBig(parseBig(t, firstZeros[0]))))
		require.Greater(t, zs[0].Rad().Exp2(), int64(-55))
	})

	t.Run("Partial", func(t *testing.T) {
		// no sign is known above g_1 < 24 < g_2
		iso := NewIsolator(func(t *arb.Real, prec uint) *arb.Real {
			if t.Mid().Cmp(big.NewFloat(24)) > 0 {
				return arb.Indeterminate()
			}
			return hardyZ(t, prec)
		}, 64)

		ivs, err := iso.IsolateZeros(1, 3)
		require.Error(t, err)
		require.Len(t, ivs, 2)

		zs, err := iso.Zeros(1, 3, 24)
		require.Error(t, err)
		require.Len(t, zs, 2)
		require.True(t, zs[1].Overlaps(arb.NewRealBig(parseBig(t, firstZeros[1]))))
	})
}

func TestNthZero(t *testing.T) {
	t.Run("First", func(t *testing.T) {
		z, err := NthZero(1, 40)
		require.NoError(t, err)
		require.True(t, z.Overlaps(arb.NewRealBig(parseBig(t, firstZeros[0]))))
		require.Less(t, z.Rad().Exp2(), int64(-30))

		// Z vanishes on the ball
		v := zeta.HardyZ(z, nil, nil, 64)
		require.True(t, v.ContainsZero())
	})

	t.Run("Several", func(t *testing.T) {
		zs, err := HardyZZeros(1, len(firstZeros), 24)
		require.NoError(t, err)
		require.Len(t, zs, len(firstZeros))
		for i, s := range firstZeros {
			require.True(t, zs[i].Overlaps(arb.NewRealBig(parseBig(t, s))), "zero %d: %s", i+1, zs[i])
		}
	})
}
