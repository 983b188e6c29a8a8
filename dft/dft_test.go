package dft

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dirichlet/arb"
)

const testPrec = 96

func randomVector(r *rand.Rand, n int) []arb.Complex {
	v := make([]arb.Complex, n)
	for i := range v {
		v[i].Set(arb.NewComplexFloat64(r.Float64()-0.5, r.Float64()-0.5))
	}
	return v
}

func requireOverlaps(t *testing.T, a, b []arb.Complex) {
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.True(t, a[i].IsFinite(), "entry %d", i)
		require.True(t, a[i].Overlaps(&b[i]), "entry %d: %v vs %v", i, &a[i], &b[i])
	}
}

func TestRoots(t *testing.T) {
	z := Roots(12, testPrec)
	require.True(t, z[0].ContainsInt64(1))
	require.True(t, z[6].ContainsInt64(-1))
	require.True(t, z[3].Contains(arb.NewComplexInt64(0, -1)))
	p := new(arb.Complex).PowInt(&z[1], 12, testPrec)
	require.True(t, p.ContainsInt64(1))
}

func TestBackends(t *testing.T) {
	r := rand.New(rand.NewSource(0))

	testCases := []struct {
		name string
		t    Transform
	}{
		{"Rad2/16", NewRad2(16, testPrec)},
		{"Rad2/64", NewRad2(64, testPrec)},
		{"Bluestein/13", NewBluestein(13, testPrec)},
		{"Bluestein/67", NewBluestein(67, testPrec)},
		{"Cyclic/27", NewCyclic(27, testPrec)},
		{"Cyclic/12", NewCyclic(12, testPrec)},
		{"Cyclic/25", NewCyclic(25, testPrec)},
		{"CRT/12", NewCRT(12, testPrec)},
		{"CRT/30", NewCRT(30, testPrec)},
		{"CRT/100", NewCRT(100, testPrec)},
		{"Precomp/1", NewPrecomp(1, testPrec)},
		{"Precomp/45", NewPrecomp(45, testPrec)},
		{"Precomp/71", NewPrecomp(71, testPrec)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.t.Len()
			v := randomVector(r, n)
			want := make([]arb.Complex, n)
			NewNaive(n, testPrec).Apply(want, v, testPrec)

			have := make([]arb.Complex, n)
			tc.t.Apply(have, v, testPrec)
			requireOverlaps(t, have, want)

			// in place
			tc.t.Apply(v, v, testPrec)
			requireOverlaps(t, v, want)
		})
	}
}

func TestProduct(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	dims := []int{3, 4, 2}
	p := NewProduct(dims, testPrec)
	require.Equal(t, 24, p.Len())
	require.Equal(t, dims, p.Dims())

	v := randomVector(r, 24)
	have := make([]arb.Complex, 24)
	p.Apply(have, v, testPrec)

	z3, z4, z2 := Roots(3, testPrec), Roots(4, testPrec), Roots(2, testPrec)
	tmp := new(arb.Complex)
	for j0 := 0; j0 < 3; j0++ {
		for j1 := 0; j1 < 4; j1++ {
			for j2 := 0; j2 < 2; j2++ {
				want := new(arb.Complex)
				for k0 := 0; k0 < 3; k0++ {
					for k1 := 0; k1 < 4; k1++ {
						for k2 := 0; k2 < 2; k2++ {
							tmp.Mul(&v[k0*8+k1*2+k2], &z3[(j0*k0)%3], testPrec)
							tmp.Mul(tmp, &z4[(j1*k1)%4], testPrec)
							tmp.Mul(tmp, &z2[(j2*k2)%2], testPrec)
							want.Add(want, tmp, testPrec)
						}
					}
				}
				require.True(t, want.Overlaps(&have[j0*8+j1*2+j2]))
			}
		}
	}
}

func TestInverse(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, n := range []int{5, 16, 36, 97} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			v := randomVector(r, n)
			p := NewPrecomp(n, testPrec)
			w := make([]arb.Complex, n)
			p.Forward(w, v)
			p.Inverse(w, w)
			for i := range v {
				require.True(t, w[i].Contains(&v[i]))
			}
			u := InverseDFT(DFT(v, testPrec), testPrec)
			for i := range v {
				require.True(t, u[i].Contains(&v[i]))
			}
		})
	}
}

func TestConvolution(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, n := range []int{4, 17, 32, 60} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			f := randomVector(r, n)
			g := randomVector(r, n)
			requireOverlaps(t, Convolution(f, g, testPrec), ConvolutionNaive(f, g, testPrec))
		})
	}
}
