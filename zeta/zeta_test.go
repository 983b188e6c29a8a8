package zeta

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dirichlet"
	"github.com/tuneinsight/dirichlet/utils/sampling"
)

const (
	apery     = "1.2020569031595942853997381615114499907649862923405"
	zetaHalf  = "-1.4603545088095868128894991525152980125359390208289"
	euler     = "0.57721566490153286060651209008240243104215933593992"
	dzeta0    = "-0.91893853320467274178032973640561763986139747363778"
	firstZero = "14.134725141734693790457251983562470270784257115699"
)

// constant returns a ball of radius 2^-140 around the decimal s.
func constant(t *testing.T, s string) *arb.Real {
	f, ok := new(big.Float).SetPrec(256).SetString(s)
	require.True(t, ok)
	return arb.NewRealBig(f).AddError(arb.NewMag2Exp(-140))
}

func requireOverlaps(t *testing.T, a, b *arb.Complex) {
	require.True(t, a.IsFinite(), a.String())
	require.True(t, b.IsFinite(), b.String())
	require.True(t, a.Overlaps(b), "%s and %s do not overlap", a, b)
}

func requireOverlapsReal(t *testing.T, a, b *arb.Real) {
	require.True(t, a.IsFinite(), a.String())
	require.True(t, b.IsFinite(), b.String())
	require.True(t, a.Overlaps(b), "%s and %s do not overlap", a, b)
}

func cpx(re, im float64) *arb.Complex {
	return arb.NewComplexFloat64(re, im)
}

func char(t *testing.T, q, m uint64) (*dirichlet.Group, *dirichlet.Char) {
	G, err := dirichlet.NewGroup(q)
	require.NoError(t, err)
	chi, err := G.NewChar(m)
	require.NoError(t, err)
	return G, chi
}

func TestZetaIntegers(t *testing.T) {
	prec := uint(64)
	pi := arb.Pi(128)

	t.Run("Even", func(t *testing.T) {
		pi2 := new(arb.Real).Sqr(pi, 128)
		z := Zeta(cpx(2, 0), prec)
		requireOverlapsReal(t, &z.Re, new(arb.Real).DivInt64(pi2, 6, 128))
		require.True(t, z.Im.IsZero())

		pi4 := new(arb.Real).Sqr(pi2, 128)
		z = Zeta(cpx(4, 0), prec)
		requireOverlapsReal(t, &z.Re, new(arb.Real).DivInt64(pi4, 90, 128))
	})

	t.Run("NonPositive", func(t *testing.T) {
		require.True(t, Zeta(cpx(0, 0), prec).Re.ContainsFloat64(-0.5))
		requireOverlapsReal(t, &Zeta(cpx(-1, 0), prec).Re, new(arb.Real).SetFrac(-1, 12, 128))
		requireOverlapsReal(t, &Zeta(cpx(-3, 0), prec).Re, new(arb.Real).SetFrac(1, 120, 128))
		require.True(t, Zeta(cpx(-2, 0), prec).ContainsInt64(0))
	})

	t.Run("Odd", func(t *testing.T) {
		// Euler-Maclaurin at 64 bits, Euler product at 16 bits
		requireOverlapsReal(t, &Zeta(cpx(3, 0), 64).Re, constant(t, apery))
		requireOverlapsReal(t, &Zeta(cpx(3, 0), 16).Re, constant(t, apery))
		requireOverlaps(t, Zeta(cpx(21, 0), prec), Hurwitz(cpx(21, 0), arb.NewRealInt64(1), prec))
	})

	t.Run("Pole", func(t *testing.T) {
		require.False(t, Zeta(cpx(1, 0), prec).IsFinite())
		s := cpx(1, 0)
		s.Re.AddError(arb.NewMag2Exp(-30))
		require.False(t, Zeta(s, prec).IsFinite())
	})

	t.Run("LargeRe", func(t *testing.T) {
		z := Zeta(cpx(200, 3), prec)
		require.True(t, z.ContainsInt64(1))
		require.Less(t, z.Rad().Exp2(), int64(-190))
	})
}

func TestZetaComplex(t *testing.T) {
	prec := uint(64)
	one := arb.NewRealInt64(1)

	t.Run("Half", func(t *testing.T) {
		requireOverlapsReal(t, &Zeta(cpx(0.5, 0), prec).Re, constant(t, zetaHalf))
	})

	t.Run("Reflection", func(t *testing.T) {
		for _, s := range []*arb.Complex{cpx(-2.5, 1), cpx(-0.75, -3), cpx(-6.5, 0.25)} {
			requireOverlaps(t, Zeta(s, prec), Hurwitz(s, one, prec))
		}
	})

	t.Run("HurwitzHalf", func(t *testing.T) {
		// zeta(s, 1/2) = (2^s - 1) zeta(s)
		s := cpx(2, 3)
		z := new(arb.Complex).PowReal(arb.NewRealInt64(2), s, 128)
		z.AddInt64(z, -1, 128)
		z.Mul(z, Zeta(s, prec), prec)
		requireOverlaps(t, Hurwitz(s, new(arb.Real).SetFrac(1, 2, 128), prec), z)
	})

	t.Run("HurwitzShift", func(t *testing.T) {
		// zeta(s, a) - zeta(s, a + 1) = a^-s
		s := cpx(0.5, 10)
		a := new(arb.Real).SetFrac(3, 10, 128)
		a1 := new(arb.Real).AddInt64(a, 1, 128)
		d := new(arb.Complex).Sub(Hurwitz(s, a, prec), Hurwitz(s, a1, prec), prec)
		ns := new(arb.Complex).Neg(s)
		requireOverlaps(t, d, new(arb.Complex).PowReal(a, ns, 128))
	})

	t.Run("Series", func(t *testing.T) {
		z := HurwitzSeries(cpx(0, 0), one, false, 2, prec)
		require.True(t, z[0].Re.ContainsFloat64(-0.5))
		requireOverlapsReal(t, &z[1].Re, constant(t, dzeta0))

		// zeta(s) - 1/(s - 1) at s = 1
		z = HurwitzSeries(cpx(1, 0), one, true, 1, prec)
		requireOverlapsReal(t, &z[0].Re, constant(t, euler))
	})

	t.Run("PowSum", func(t *testing.T) {
		s := cpx(0.5, 3)
		a := PowSumSieved(s, 100, 3, prec)
		b := PowSumGeneric(s, one, 100, 3, prec)
		for i := range a {
			requireOverlaps(t, &a[i], &b[i])
		}
	})

	t.Run("EMBound", func(t *testing.T) {
		s := cpx(0.5, 20)
		N, M := EMChooseNM(s, one, prec, 1)
		require.Greater(t, N, 0)
		require.LessOrEqual(t, EMBound(s, one, N, M, 1)[0].Exp2(), -int64(prec))
		require.True(t, EMBound(cpx(-10, 0), one, 1, 1, 1)[0].IsInf())
	})
}

func TestEulerProduct(t *testing.T) {
	prec := uint(64)

	t.Run("RealUI", func(t *testing.T) {
		requireOverlapsReal(t, EulerProductRealUI(20, []int8{1}, false, prec), &Zeta(cpx(20, 0), prec).Re)

		G, chi := char(t, 4, 3)
		chi4 := []int8{0, 1, 0, -1}
		l := EulerProductRealUI(10, chi4, false, prec)
		requireOverlapsReal(t, l, &LHurwitz(cpx(10, 0), G, chi, prec).Re)

		r := EulerProductRealUI(10, chi4, true, prec)
		r.Mul(r, l, prec)
		require.True(t, r.ContainsInt64(1))
	})

	t.Run("Complex", func(t *testing.T) {
		G, chi := char(t, 7, 3)
		s := cpx(12, 1)
		requireOverlaps(t, EulerProduct(s, G, chi, prec), LHurwitz(s, G, chi, prec))
		require.False(t, EulerProduct(cpx(1, 0), G, chi, prec).IsFinite())
	})
}

func TestLFunctions(t *testing.T) {
	prec := uint(64)

	t.Run("Zeta", func(t *testing.T) {
		s := cpx(0.5, 2)
		requireOverlaps(t, L(s, nil, nil, prec), Zeta(s, prec))
	})

	t.Run("Vec", func(t *testing.T) {
		s := cpx(0.5, 2)
		for _, q := range []uint64{3, 4, 5, 8, 12} {
			t.Run(fmt.Sprintf("q=%d", q), func(t *testing.T) {
				G, err := dirichlet.NewGroup(q)
				require.NoError(t, err)
				v := LVecHurwitz(s, G, prec)
				require.Len(t, v, int(G.Size()))
				for j := range v {
					chi := dirichlet.CharFromIndex(G.One().SetRank(uint64(j)))
					requireOverlaps(t, &v[j], LHurwitz(s, G, chi, prec))
				}
			})
		}
	})

	t.Run("VecAtOne", func(t *testing.T) {
		G, err := dirichlet.NewGroup(5)
		require.NoError(t, err)
		v := LVecHurwitz(cpx(1, 0), G, prec)
		require.False(t, v[0].IsFinite())
		for j := 1; j < len(v); j++ {
			chi := dirichlet.CharFromIndex(G.One().SetRank(uint64(j)))
			requireOverlaps(t, &v[j], L(cpx(1, 0), G, chi, prec))
		}
	})

	t.Run("Leibniz", func(t *testing.T) {
		// L(1, chi_-4) = pi/4
		G, chi := char(t, 4, 3)
		pi4 := new(arb.Real).Mul2Exp(arb.Pi(128), -2)
		requireOverlapsReal(t, &L(cpx(1, 0), G, chi, prec).Re, pi4)
	})

	t.Run("BallAtOne", func(t *testing.T) {
		s := cpx(1, 0)
		s.Re.AddError(arb.NewMag2Exp(-30))
		s.Im.AddError(arb.NewMag2Exp(-30))

		G, chi := char(t, 4, 3)
		z := L(s, G, chi, prec)
		requireOverlapsReal(t, &z.Re, new(arb.Real).Mul2Exp(arb.Pi(128), -2))
		require.Less(t, z.Rad().Log2(), -20.0)

		for _, m := range []uint64{2, 4} {
			G, chi := char(t, 5, m)
			z := LHurwitz(s, G, chi, prec)
			requireOverlaps(t, z, LHurwitz(cpx(1, 0), G, chi, prec))
			require.Less(t, z.Rad().Log2(), -20.0)
		}

		G, chi = char(t, 5, 1)
		require.False(t, L(s, G, chi, prec).IsFinite())
	})

	t.Run("FunctionalEquation", func(t *testing.T) {
		for _, m := range []uint64{2, 4} {
			G, chi := char(t, 5, m)
			s := cpx(-1.5, 1)
			requireOverlaps(t, L(s, G, chi, prec), LHurwitz(s, G, chi, prec))
		}
	})

	t.Run("Jet", func(t *testing.T) {
		G, chi := char(t, 5, 2)
		s := cpx(2, 1)
		j := LJet(s, G, chi, false, 2, prec)
		requireOverlaps(t, &j[0], LHurwitz(s, G, chi, prec))
		require.True(t, j[1].IsFinite())
	})

	t.Run("JetDeflated", func(t *testing.T) {
		// L(s, chi_0 mod 5) - (4/5)/(s-1) at s = 1 is (4/5) gamma + log(5)/5
		G, chi := char(t, 5, 1)
		j := LJet(cpx(1, 0), G, chi, true, 1, prec)

		want := new(arb.Real).MulInt64(constant(t, euler), 4, 128)
		want.Add(want, new(arb.Real).LogUint(5, 128), 128)
		want.DivInt64(want, 5, 128)
		requireOverlapsReal(t, &j[0].Re, want)
	})
}

func TestHardy(t *testing.T) {
	prec := uint(64)

	t.Run("FirstZero", func(t *testing.T) {
		z := HardyZ(constant(t, firstZero), nil, nil, prec)
		require.True(t, z.IsFinite())
		require.True(t, z.ContainsInt64(0))
	})

	t.Run("GramPoint", func(t *testing.T) {
		g := arb.NewRealFloat64(17.8455995).AddError(arb.NewMag(1e-7))
		th := HardyTheta(g, nil, nil, prec)
		require.True(t, th.IsFinite())
		require.True(t, th.ContainsInt64(0))
	})

	t.Run("Character", func(t *testing.T) {
		for _, m := range []uint64{2, 4} {
			G, chi := char(t, 5, m)
			tt := arb.NewRealInt64(5)
			z := HardyZ(tt, G, chi, prec)
			require.True(t, z.IsFinite())

			s := cpx(0.5, 5)
			abs := L(s, G, chi, prec).Abs(new(arb.Real), prec)
			requireOverlapsReal(t, new(arb.Real).Abs(z), abs)
		}

		G, chi := char(t, 9, 8)
		require.False(t, chi.IsPrimitive())
		require.False(t, HardyTheta(arb.NewRealInt64(5), G, chi, prec).IsFinite())
	})
}

// zEM returns Z(t) = Re(exp(i theta(t)) zeta(1/2 + it)) through Euler-Maclaurin.
func zEM(t *arb.Real, prec uint) *arb.Real {
	wp := prec + 32
	th := HardyTheta(t, nil, nil, wp)
	th.Div(th, arb.Pi(wp), wp)
	z := new(arb.Complex).ExpPiI(th, wp)
	s := new(arb.Complex)
	s.Re.SetFloat64(0.5)
	s.Im.Set(t)
	z.Mul(z, Hurwitz(s, arb.NewRealInt64(1), wp), wp)
	return &z.Re
}

func TestRiemannSiegel(t *testing.T) {
	t.Run("Small", func(t *testing.T) {
		require.False(t, RiemannSiegel(arb.NewRealInt64(100), 2, 32).IsFinite())
		require.False(t, RSBound(cpx(0.5, 100), 4).IsFinite())
		require.False(t, RSBound(cpx(-0.5, 1000), 4).IsFinite())
	})

	t.Run("Z", func(t *testing.T) {
		for _, K := range []int{0, 2, 5, 9} {
			tt := arb.NewRealInt64(1000)
			requireOverlapsReal(t, RiemannSiegel(tt, K, 32), zEM(tt, 32))
			requireOverlapsReal(t, RiemannSiegel(new(arb.Real).Neg(tt), K, 32), zEM(tt, 32))
		}
	})

	t.Run("Coefficients", func(t *testing.T) {
		// on the critical line d_0^(1) = 1/12 and d_1^(1) = 0
		d := rsDNext(nil, arb.NewRealFloat64(0.5), 0, 64)
		d = rsDNext(d, arb.NewRealFloat64(0.5), 1, 64)
		require.Len(t, d, 2)
		requireOverlapsReal(t, &d[0], new(arb.Real).SetFrac(1, 12, 64))
		require.True(t, d[1].IsZero())

		// d_3^(2) from the m = 0 case
		d = rsDNext(d, arb.NewRealFloat64(0.5), 2, 64)
		require.Len(t, d, 4)
		require.True(t, d[3].IsFinite())
	})

	t.Run("Eligible", func(t *testing.T) {
		for _, c := range []struct {
			re, im float64
			prec   uint
			ok     bool
		}{
			{0.5, 1e4, 53, true},
			{0.5, 2e4, 53, true},
			{0.6, 1e6, 53, true},
			{0.5, 1e6, 128, true},
			{0, -1e5, 53, true},
			{0.5, 9000, 53, false},
			{0.5, 3e4, 128, false},
			{1.5, 1e6, 53, false},
			{-0.2, 1e6, 53, false},
		} {
			require.Equal(t, c.ok, rsEligible(cpx(c.re, c.im), c.prec), "%v+%vi at %d bits", c.re, c.im, c.prec)
		}
	})

	t.Run("Cutoff", func(t *testing.T) {
		for _, c := range []struct {
			prec uint
			h    []float64
		}{
			// 24 prec sqrt(prec) is about 4344, 9262 and 34755
			{32, []float64{4300, 4400}},
			{53, []float64{9200, 10000, 20000}},
			{128, []float64{35000}},
		} {
			for _, h := range c.h {
				s := cpx(0.5, h)
				z := Zeta(s, c.prec)
				requireOverlaps(t, z, Hurwitz(s, arb.NewRealInt64(1), c.prec))
				require.Less(t, z.Rad().Log2(), 20-float64(c.prec))
				tt := arb.NewRealFloat64(h)
				requireOverlapsReal(t, HardyZ(tt, nil, nil, c.prec), zEM(tt, c.prec))
			}
		}
	})

	t.Run("OffLine", func(t *testing.T) {
		prec := uint(53)
		for _, s := range []*arb.Complex{cpx(0.6, 10000), cpx(0.25, 12000), cpx(0.9, -11000), cpx(0, 10500)} {
			require.True(t, rsEligible(s, prec))
			z := Zeta(s, prec)
			requireOverlaps(t, z, Hurwitz(s, arb.NewRealInt64(1), prec))
			require.Less(t, z.Rad().Log2(), -30.0)
		}
	})

	t.Run("Ball", func(t *testing.T) {
		prec := uint(53)
		s := cpx(0.5, 10000)
		s.Re.AddError(arb.NewMag2Exp(-60))
		s.Im.AddError(arb.NewMag2Exp(-60))
		z := Zeta(s, prec)
		require.True(t, z.IsFinite())
		require.Less(t, z.Rad().Log2(), -40.0)
		requireOverlaps(t, z, Hurwitz(cpx(0.5, 10000), arb.NewRealInt64(1), prec))
	})

	t.Run("Far", func(t *testing.T) {
		z := Zeta(cpx(0.6, 1e6), 53)
		require.True(t, z.IsFinite())
		require.Less(t, z.Rad().Log2(), -30.0)
	})
}

func TestBound(t *testing.T) {
	for _, s := range []*arb.Complex{cpx(2, 3), cpx(0.5, 30), cpx(0.75, 1000), cpx(-1.5, 4), cpx(1.2, 5)} {
		t.Run(s.String(), func(t *testing.T) {
			b := Bound(s)
			require.True(t, b.IsFinite())
			require.True(t, Zeta(s, 64).AbsUpper().Cmp(b) <= 0)
		})
	}

	// a ball straddling the strip
	s := cpx(-0.1, 20)
	s.Re.AddError(arb.NewMag(0.5))
	require.True(t, Bound(s).IsFinite())

	d1, d2 := DerivBound(cpx(0.5, 100))
	require.True(t, d1.IsFinite())
	require.True(t, d2.Cmp(d1) > 0)
}

func TestXi(t *testing.T) {
	prec := uint(64)

	require.True(t, Xi(cpx(0, 0), prec).Re.ContainsFloat64(0.5))
	require.True(t, Xi(cpx(1, 0), prec).Re.ContainsFloat64(0.5))

	// xi(2) = pi/6
	requireOverlapsReal(t, &Xi(cpx(2, 0), prec).Re, new(arb.Real).DivInt64(arb.Pi(128), 6, 128))

	prng, err := sampling.NewKeyedPRNGFromUint64("xi", 1)
	require.NoError(t, err)

	// uniform in [lo, hi) on a grid of 2^-20
	uniform := func(lo, hi float64) float64 {
		return lo + (hi-lo)*float64(sampling.UniformUint64(prng, 1<<20))/(1<<20)
	}

	points := []*arb.Complex{cpx(2, 5), cpx(-1.5, 0.5), cpx(1, 0.25)}
	for i := 0; i < 16; i++ {
		points = append(points, cpx(uniform(0, 1), uniform(-30, 30)))
	}
	for i := 0; i < 8; i++ {
		points = append(points, cpx(0.5, uniform(0, 50)))
	}

	for _, s := range points {
		t.Run(s.String(), func(t *testing.T) {
			r := new(arb.Complex).Neg(s)
			r.AddInt64(r, 1, 256)
			requireOverlaps(t, Xi(s, prec), Xi(r, prec))
			if s.Re.Float64() == 0.5 {
				// real on the critical line
				require.True(t, Xi(s, prec).Im.ContainsZero())
			}
		})
	}
}

func TestLerchPhi(t *testing.T) {
	prec := uint(64)
	one := arb.NewRealInt64(1)

	t.Run("Zero", func(t *testing.T) {
		a := arb.NewRealFloat64(2.5)
		s := cpx(1.5, 1)
		ms := new(arb.Complex).Neg(s)
		requireOverlaps(t, LerchPhi(cpx(0, 0), s, a, prec), new(arb.Complex).PowReal(a, ms, prec))
	})

	t.Run("Hurwitz", func(t *testing.T) {
		s, a := cpx(0.5, 3), arb.NewRealFloat64(0.25)
		requireOverlaps(t, LerchPhi(cpx(1, 0), s, a, prec), Hurwitz(s, a, prec))
	})

	t.Run("Dilogarithm", func(t *testing.T) {
		// Phi(1/2, 2, 1) = 2 Li2(1/2) = pi^2/6 - log(2)^2
		want := new(arb.Real).Sqr(arb.Pi(128), 128)
		want.DivInt64(want, 6, 128)
		want.Sub(want, new(arb.Real).Sqr(arb.Log2(128), 128), 128)
		requireOverlapsReal(t, &LerchPhi(cpx(0.5, 0), cpx(2, 0), one, prec).Re, want)
	})

	t.Run("Alternating", func(t *testing.T) {
		// Phi(-1, 1, 1) = log 2, Phi(-1, 2, 1) = pi^2/12
		z := LerchPhi(cpx(-1, 0), cpx(1, 0), one, prec)
		requireOverlapsReal(t, &z.Re, arb.Log2(128))
		require.Less(t, z.Rad().Log2(), -50.0)

		want := new(arb.Real).Sqr(arb.Pi(128), 128)
		want.DivInt64(want, 12, 128)
		requireOverlapsReal(t, &LerchPhi(cpx(-1, 0), cpx(2, 0), one, prec).Re, want)

		s, a := cpx(0.3, 2), arb.NewRealFloat64(1.75)
		requireOverlaps(t, LerchPhi(cpx(-1, 0), s, a, prec), lerchExpansion(cpx(-1, 0), s, a, prec))
	})

	t.Run("Catalan", func(t *testing.T) {
		// Phi(i, 2, 1) = G + i pi^2/48
		z := LerchPhi(cpx(0, 1), cpx(2, 0), one, prec)
		requireOverlapsReal(t, &z.Re, constant(t, "0.91596559417721901505460351493238411077414937428167"))
		want := new(arb.Real).Sqr(arb.Pi(128), 128)
		want.DivInt64(want, 48, 128)
		requireOverlapsReal(t, &z.Im, want)
		require.Less(t, z.Rad().Log2(), -40.0)
	})

	t.Run("Expansion", func(t *testing.T) {
		for _, tc := range []struct {
			z, s *arb.Complex
			a    float64
		}{
			{cpx(0.8, 0), cpx(1.5, 2), 0.7},
			{cpx(0.6, 0.6), cpx(-1.3, 0.5), 2.5},
			{cpx(-0.9, 0), cpx(3, 0), 1},
			{cpx(0.1, -0.85), cpx(0.5, -4), 1.2},
		} {
			t.Run(fmt.Sprintf("%v/%v", tc.z, tc.s), func(t *testing.T) {
				a := arb.NewRealFloat64(tc.a)
				z := LerchPhi(tc.z, tc.s, a, prec)
				requireOverlaps(t, z, lerchDirect(tc.z, tc.s, a, prec))
				require.Less(t, z.Rad().Log2(), -30.0)
			})
		}
	})

	t.Run("Indeterminate", func(t *testing.T) {
		a := arb.NewRealFloat64(0.5)
		require.False(t, LerchPhi(cpx(2, 0), cpx(2, 0), a, prec).IsFinite())
		require.False(t, LerchPhi(cpx(0.5, 0), cpx(2, 0), arb.NewRealInt64(0), prec).IsFinite())
		require.False(t, LerchPhi(cpx(-300, 0), cpx(2, 0), a, prec).IsFinite())

		s := cpx(2, 0)
		s.Re.AddError(arb.NewMag2Exp(-20))
		require.False(t, LerchPhi(cpx(0, 0.9), s, a, prec).IsFinite())
		require.True(t, LerchPhi(cpx(0, 0.5), s, a, prec).IsFinite())
	})
}

func TestStieltjes(t *testing.T) {
	prec := uint(64)
	one := arb.NewRealInt64(1)

	requireOverlapsReal(t, Stieltjes(0, one, prec), constant(t, euler))
	requireOverlapsReal(t, Stieltjes(1, one, prec), constant(t, "-0.072815845483676724860586375874901319137736338334338"))

	t.Run("Digamma", func(t *testing.T) {
		a := arb.NewRealFloat64(0.3)
		psi := new(arb.Complex).Digamma(new(arb.Complex).SetReal(a), 128)
		requireOverlapsReal(t, Stieltjes(0, a, prec), new(arb.Real).Neg(&psi.Re))
	})

	t.Run("Shift", func(t *testing.T) {
		// gamma_n(a) = gamma_n(a + 1) + log(a)^n / a
		a := arb.NewRealFloat64(0.5)
		a1 := arb.NewRealFloat64(1.5)
		for n := 0; n < 6; n++ {
			l := new(arb.Real).Log(a, 128)
			l.PowUint(l, uint64(n), 128)
			l.Div(l, a, 128)
			want := l.Add(l, Stieltjes(n, a1, 128), 128)
			got := Stieltjes(n, a, prec)
			requireOverlapsReal(t, got, want)
			require.Less(t, got.Rad().Log2(), -50.0)
		}
	})

	require.False(t, Stieltjes(-1, one, prec).IsFinite())
	require.False(t, Stieltjes(2, arb.NewRealInt64(0), prec).IsFinite())
}

func TestLRational(t *testing.T) {
	prec := uint(64)

	point := func(s *big.Rat) *arb.Complex {
		return new(arb.Complex).SetReal(new(arb.Real).SetRat(s, 192))
	}

	points := []*big.Rat{
		big.NewRat(1, 2), big.NewRat(2, 1), big.NewRat(3, 1),
		big.NewRat(1, 3), big.NewRat(-1, 2), big.NewRat(7, 2),
	}

	t.Run("Zeta", func(t *testing.T) {
		for _, s := range points {
			t.Run(s.String(), func(t *testing.T) {
				z := LRational(s, nil, nil, prec)
				requireOverlaps(t, z, Zeta(point(s), prec))
				require.True(t, z.Im.IsZero())
				require.Less(t, z.Rad().Log2(), -50.0)
			})
		}
		requireOverlapsReal(t, &LRational(big.NewRat(1, 2), nil, nil, prec).Re, constant(t, zetaHalf))
	})

	t.Run("Characters", func(t *testing.T) {
		for _, c := range [][2]uint64{{4, 3}, {5, 2}, {5, 4}, {7, 3}} {
			G, chi := char(t, c[0], c[1])
			for _, s := range points[:5] {
				t.Run(fmt.Sprintf("q=%d/m=%d/s=%s", c[0], c[1], s), func(t *testing.T) {
					z := LRational(s, G, chi, prec)
					requireOverlaps(t, z, L(point(s), G, chi, prec))
					require.Less(t, z.Rad().Log2(), -40.0)
				})
			}
		}
	})

	t.Run("Catalan", func(t *testing.T) {
		// L(2, chi_-4) = G
		G, chi := char(t, 4, 3)
		z := LRational(big.NewRat(2, 1), G, chi, prec)
		requireOverlapsReal(t, &z.Re, constant(t, "0.91596559417721901505460351493238411077414937428167"))
	})

	t.Run("TrivialZeros", func(t *testing.T) {
		require.True(t, LRational(big.NewRat(0, 1), nil, nil, prec).Re.ContainsFloat64(-0.5))
		require.True(t, LRational(big.NewRat(-2, 1), nil, nil, prec).IsZero())
		G, chi := char(t, 4, 3)
		require.True(t, LRational(big.NewRat(-1, 1), G, chi, prec).IsZero())
		require.False(t, LRational(big.NewRat(-2, 1), G, chi, prec).IsZero())
	})

	t.Run("Indeterminate", func(t *testing.T) {
		require.False(t, LRational(big.NewRat(1, 1), nil, nil, prec).IsFinite())
		// the characters modulo 6 are induced from modulo 3
		G, chi := char(t, 6, 5)
		require.False(t, LRational(big.NewRat(1, 2), G, chi, prec).IsFinite())
	})
}
