package arb

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseBig(t *testing.T, s string) *big.Float {
	f, ok := new(big.Float).SetPrec(256).SetString(s)
	require.True(t, ok)
	return f
}

func TestMag(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		x := MagAdd(NewMag(0.1), NewMag(0.2))
		require.GreaterOrEqual(t, x.Float64(), 0.30000000000000004)
		require.Less(t, x.Float64(), 0.3000001)
	})

	t.Run("Mul", func(t *testing.T) {
		x := MagMul(NewMag(3), NewMag2Exp(-2000))
		require.False(t, x.IsZero())
		require.Equal(t, int64(-1998), x.Exp2())
	})

	t.Run("Inf", func(t *testing.T) {
		require.True(t, MagAdd(MagInf(), NewMag(1)).IsInf())
		require.True(t, MagDiv(NewMag(1), Mag{}).IsInf())
	})

	t.Run("Exp", func(t *testing.T) {
		require.GreaterOrEqual(t, MagExp(NewMag(1)).Float64(), math.E)
		require.Less(t, MagExp(NewMag(1)).Float64(), math.E*(1+1e-12))
	})

	t.Run("SubLower", func(t *testing.T) {
		x := MagSubLower(NewMag(1), NewMag(0.25))
		require.LessOrEqual(t, x.Float64(), 0.75)
		require.Greater(t, x.Float64(), 0.7499)
		require.True(t, MagSubLower(NewMag(1), NewMag(2)).IsZero())
	})
}

func TestArithmetic(t *testing.T) {
	prec := uint(128)

	t.Run("Third", func(t *testing.T) {
		x := new(Real).SetFrac(1, 3, prec)
		y := new(Real).MulInt64(x, 3, prec)
		require.True(t, y.ContainsInt64(1))
		require.True(t, y.Rad().Exp2() < -120)
	})

	t.Run("Div", func(t *testing.T) {
		x := NewRealMidRad(big.NewFloat(1), NewMag(0.01))
		y := NewRealMidRad(big.NewFloat(4), NewMag(0.01))
		z := new(Real).Div(x, y, prec)
		for _, v := range []float64{0.99 / 4.01, 1.01 / 3.99, 0.25} {
			require.True(t, z.ContainsFloat64(v), v)
		}
		require.False(t, new(Real).Div(x, NewRealMidRad(big.NewFloat(0.001), NewMag(0.01)), prec).IsFinite())
	})

	t.Run("Sqrt", func(t *testing.T) {
		z := new(Real).SqrtUint(2, prec)
		require.True(t, z.ContainsBig(parseBig(t, "1.41421356237309504880168872420969807856967187537694")) || z.Overlaps(NewRealBig(parseBig(t, "1.41421356237309504880168872420969807856967187537694"))))
		z.Sqr(z, prec)
		require.True(t, z.ContainsInt64(2))
	})

	t.Run("UniqueInt", func(t *testing.T) {
		x := NewRealMidRad(big.NewFloat(2.5), NewMag(0.4))
		_, ok := x.UniqueInt()
		require.False(t, ok)
		x = NewRealMidRad(big.NewFloat(2.9), NewMag(0.2))
		n, ok := x.UniqueInt()
		require.True(t, ok)
		require.Equal(t, int64(3), n.Int64())
		f, ok := NewRealMidRad(big.NewFloat(2.5), NewMag(0.4)).Floor()
		require.True(t, ok)
		require.Equal(t, int64(2), f.Int64())
	})

	t.Run("Indeterminate", func(t *testing.T) {
		x := Indeterminate()
		y := new(Real).Add(x, NewRealInt64(1), prec)
		require.False(t, y.IsFinite())
		y.Mul(y, NewRealInt64(0), prec)
		require.False(t, y.IsFinite())
	})
}

func TestConstants(t *testing.T) {
	pi := parseBig(t, "3.14159265358979323846264338327950288419716939937510582097494459")
	for _, prec := range []uint{53, 128, 200} {
		p := Pi(prec)
		require.True(t, p.ContainsBig(pi) || p.Overlaps(NewRealBig(pi)))
		require.Less(t, p.Rad().Exp2(), -int64(prec)+4)
	}
	p := Pi(3300)
	require.True(t, p.Overlaps(Pi(256)))
	require.Less(t, p.Rad().Exp2(), int64(-3200))

	l := Log2(3500)
	require.True(t, l.Overlaps(Log2(128)))
}

func TestElementary(t *testing.T) {
	prec := uint(160)

	t.Run("ExpLog", func(t *testing.T) {
		for _, v := range []float64{-30.5, -1, 0.001, 1, 2.5, 100, 12345.678} {
			x := NewRealFloat64(v)
			e := new(Real).Exp(x, prec)
			l := new(Real).Log(e, prec)
			require.True(t, l.ContainsFloat64(v), "%v %v", v, l)
			require.Less(t, l.Rad().Exp2(), int64(-100))
		}
		e := new(Real).Exp(NewRealInt64(1), prec)
		require.True(t, e.Overlaps(NewRealBig(parseBig(t, "2.71828182845904523536028747135266249775724709369995957496696763"))))
	})

	t.Run("LogKnown", func(t *testing.T) {
		l := new(Real).LogUint(10, prec)
		require.True(t, l.Overlaps(NewRealBig(parseBig(t, "2.30258509299404568401799145468436420760110148862877297603332790"))))
	})

	t.Run("SinCos", func(t *testing.T) {
		s, c := new(Real), new(Real)
		for _, v := range []float64{0.5, -3, 10, 1e6} {
			SinCos(s, c, NewRealFloat64(v), prec)
			require.True(t, s.ContainsFloat64(math.Sin(v)) || math.Abs(s.Float64()-math.Sin(v)) < 1e-12)
			require.True(t, math.Abs(c.Float64()-math.Cos(v)) < 1e-12)
			n := new(Real).Sqr(s, prec)
			n.Add(n, new(Real).Sqr(c, prec), prec)
			require.True(t, n.ContainsInt64(1))
		}
	})

	t.Run("SinCosPi", func(t *testing.T) {
		s, c := new(Real), new(Real)
		SinCosPi(s, c, NewRealFloat64(0.5), prec)
		require.True(t, s.IsOne())
		require.True(t, c.IsZero())
		SinCosPi(s, c, NewRealFloat64(1001.25), prec)
		require.InDelta(t, -math.Sqrt2/2, s.Float64(), 1e-15)
		require.InDelta(t, -math.Sqrt2/2, c.Float64(), 1e-15)
	})

	t.Run("Atan", func(t *testing.T) {
		a := new(Real).Atan(NewRealInt64(1), prec)
		q := new(Real).Mul2Exp(Pi(prec), -2)
		require.True(t, a.Overlaps(q))
		a.Atan(NewRealInt64(-7), prec)
		require.InDelta(t, math.Atan(-7), a.Float64(), 1e-15)
	})

	t.Run("Atan2", func(t *testing.T) {
		a := new(Real)
		for _, v := range [][2]float64{{1, 1}, {1, -1}, {-1, -1}, {-2, 0.5}, {0.1, -3}} {
			a.Atan2(NewRealFloat64(v[0]), NewRealFloat64(v[1]), prec)
			require.InDelta(t, math.Atan2(v[0], v[1]), a.Float64(), 1e-15)
		}
		a.Atan2(NewRealInt64(0), NewRealInt64(-1), prec)
		require.True(t, a.Overlaps(Pi(prec)))
	})

	t.Run("Pow", func(t *testing.T) {
		p := new(Real).Pow(NewRealInt64(2), NewRealFloat64(0.5), prec)
		require.True(t, p.Overlaps(new(Real).SqrtUint(2, prec)))
	})
}

func TestComplex(t *testing.T) {
	prec := uint(128)

	t.Run("MulDiv", func(t *testing.T) {
		x := NewComplexFloat64(1.5, -2)
		y := NewComplexFloat64(0.25, 3)
		z := new(Complex).Mul(x, y, prec)
		z.Div(z, y, prec)
		require.True(t, z.Contains(x) || z.Overlaps(x))
	})

	t.Run("ExpLog", func(t *testing.T) {
		x := NewComplexFloat64(0.3, 2.9)
		e := new(Complex).Exp(x, prec)
		l := new(Complex).Log(e, prec)
		require.True(t, l.Overlaps(x))
	})

	t.Run("EulerIdentity", func(t *testing.T) {
		x := new(Complex)
		x.Im.Set(Pi(prec))
		e := new(Complex).Exp(x, prec)
		require.True(t, e.ContainsInt64(-1))
	})

	t.Run("SinCos", func(t *testing.T) {
		x := NewComplexFloat64(0.7, -1.3)
		s, c := new(Complex), new(Complex)
		x.SinCos(s, c, prec)
		n := new(Complex).Sqr(s, prec)
		n.Add(n, new(Complex).Sqr(c, prec), prec)
		require.True(t, n.ContainsInt64(1))
	})
}

func TestGamma(t *testing.T) {
	prec := uint(128)

	t.Run("Integers", func(t *testing.T) {
		g := new(Real).Gamma(NewRealInt64(5), prec)
		require.True(t, g.ContainsInt64(24))
		require.Less(t, g.Rad().Exp2(), int64(-100))
	})

	t.Run("Half", func(t *testing.T) {
		g := new(Real).Gamma(NewRealFloat64(0.5), prec)
		require.True(t, g.Overlaps(SqrtPi(prec)))
	})

	t.Run("Reflection", func(t *testing.T) {
		g := new(Real).Gamma(NewRealFloat64(-0.5), prec)
		// -2 sqrt(pi)
		v := new(Real).Mul2Exp(SqrtPi(prec), 1)
		v.Neg(v)
		require.True(t, g.Overlaps(v))
		require.False(t, new(Real).Gamma(NewRealInt64(-2), prec).IsFinite())
	})

	t.Run("Recurrence", func(t *testing.T) {
		z := NewComplexFloat64(0.25, 40)
		lz := new(Complex).LogGamma(z, prec)
		z1 := new(Complex).AddInt64(z, 1, prec)
		lz1 := new(Complex).LogGamma(z1, prec)
		d := new(Complex).Sub(lz1, lz, prec)
		l := new(Complex).Log(z, prec)
		require.True(t, d.Overlaps(l))
	})

	t.Run("StirlingLargeImag", func(t *testing.T) {
		z := NewComplexFloat64(0.25, 5000)
		lz := new(Complex).LogGamma(z, prec)
		require.True(t, lz.IsFinite())
		require.Less(t, lz.Rad().Exp2(), int64(-80))
	})

	t.Run("Digamma", func(t *testing.T) {
		euler := parseBig(t, "0.57721566490153286060651209008240243104215933593992")
		d := new(Complex).Digamma(NewComplexInt64(1, 0), prec)
		require.True(t, d.Re.ContainsBig(new(big.Float).Neg(euler)))
		require.True(t, d.Im.IsZero())
		require.Less(t, d.Rad().Exp2(), int64(-100))

		// psi(z + 1) = psi(z) + 1/z
		z := NewComplexFloat64(0.25, 7.5)
		dz := new(Complex).Digamma(z, prec)
		dz.Add(dz, new(Complex).Inv(z, prec), prec)
		d1 := new(Complex).Digamma(new(Complex).AddInt64(z, 1, prec), prec)
		require.True(t, d1.IsFinite())
		require.True(t, d1.Overlaps(dz))

		require.False(t, new(Complex).Digamma(NewComplexInt64(-1, 0), prec).IsFinite())
	})

	t.Run("UpperBound", func(t *testing.T) {
		// Gamma(1, x) = exp(-x)
		u := GammaUpperBound(NewRealInt64(1), NewRealInt64(3), prec)
		require.GreaterOrEqual(t, u.Rad().Float64(), math.Exp(-3))
		// Gamma(3, 10) = 61 exp(-10)
		u = GammaUpperBound(NewRealInt64(3), NewRealInt64(10), prec)
		require.GreaterOrEqual(t, u.Rad().Float64(), 61*math.Exp(-10))
	})

	t.Run("Upper", func(t *testing.T) {
		// Gamma(3, x) = (x^2 + 2x + 2) exp(-x)
		for _, xf := range []float64{0.5, 120} {
			x := NewRealFloat64(xf)
			want := NewRealFloat64(xf*xf + 2*xf + 2)
			want.Mul(want, new(Real).Exp(new(Real).Neg(x), prec), prec)
			g := new(Real).GammaUpper(NewRealInt64(3), x, prec)
			require.True(t, g.Overlaps(want), "%s %s", g, want)
			require.Less(t, g.Rad().Log2(), float64(want.Mid().MantExp(nil)-100))
		}

		// Gamma(0, 1) = E1(1), Gamma(-1, 1) = exp(-1) - E1(1)
		e1 := NewRealBig(parseBig(t, "0.21938393439552027367716377546012164903104729340691")).AddError(NewMag2Exp(-150))
		one := NewRealInt64(1)
		g := new(Real).GammaUpper(NewRealInt64(0), one, prec)
		require.True(t, g.Overlaps(e1))
		require.Less(t, g.Rad().Exp2(), int64(-100))
		want := new(Real).Exp(NewRealInt64(-1), prec)
		want.Sub(want, e1, prec)
		require.True(t, new(Real).GammaUpper(NewRealInt64(-1), one, prec).Overlaps(want))

		// Gamma(a + 1, x) = a Gamma(a, x) + x^a exp(-x)
		for _, af := range []float64{-0.7, 0.3, 4.25} {
			a, x := NewRealFloat64(af), NewRealFloat64(2.5)
			g0 := new(Real).GammaUpper(a, x, prec)
			g0.Mul(g0, a, prec)
			g0.Add(g0, powExpNeg(x, a, prec), prec)
			g1 := new(Real).GammaUpper(new(Real).AddInt64(a, 1, prec), x, prec)
			require.True(t, g1.IsFinite())
			require.True(t, g1.Overlaps(g0), "%s %s", g1, g0)
		}

		a, x := NewRealFloat64(2.5), NewRealInt64(110)
		g = new(Real).GammaUpper(a, x, prec)
		require.True(t, g.Overlaps(gammaUpperSeries(a, x, prec)))
		require.Less(t, g.Rad().Exp2(), int64(-200))

		ball := NewRealFloat64(0).AddError(NewMag2Exp(-10))
		require.False(t, new(Real).GammaUpper(ball, one, prec).IsFinite())
		require.False(t, new(Real).GammaUpper(one, NewRealInt64(0), prec).IsFinite())
	})
}

func TestBernoulli(t *testing.T) {
	require.Equal(t, big.NewRat(1, 6), Bernoulli(2))
	require.Equal(t, big.NewRat(-1, 30), Bernoulli(4))
	require.Equal(t, big.NewRat(-691, 2730), Bernoulli(12))
	require.Equal(t, big.NewRat(0, 1), Bernoulli(7))
	b, _ := new(big.Rat).SetString("-7709321041217/510")
	require.Equal(t, b, Bernoulli(32))
}

func TestLambertW(t *testing.T) {
	w := new(Real).LambertW(NewRealInt64(1), 128)
	require.True(t, w.Overlaps(NewRealBig(parseBig(t, "0.567143290409783872999968662210355549753815787186512508135131"))))
	w.LambertW(NewRealInt64(1000), 128)
	e := new(Real).Exp(w, 128)
	e.Mul(e, w, 128)
	require.True(t, e.ContainsInt64(1000))

	x := NewRealFloat64(-0.25)
	w.LambertW(x, 128)
	require.True(t, w.IsFinite())
	require.True(t, w.IsNegative())
	e.Exp(w, 128)
	e.Mul(e, w, 128)
	require.True(t, e.Overlaps(x))

	require.False(t, w.LambertW(NewRealFloat64(-0.5), 128).IsFinite())
}

func TestSeries(t *testing.T) {
	prec := uint(64)
	c := NewComplexInt64(2, 0)
	s := SeriesLinearInv(c, 4, prec)
	l := Series{*NewComplexInt64(2, 0), *NewComplexInt64(1, 0)}
	p := SeriesMullow(s, l, 4, prec)
	require.True(t, p[0].ContainsInt64(1))
	for i := 1; i < 4; i++ {
		require.True(t, p[i].ContainsInt64(0))
	}
}
