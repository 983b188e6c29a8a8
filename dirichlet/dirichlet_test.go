package dirichlet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

func divisors(q uint64) (d []uint64) {
	for k := uint64(1); k <= q; k++ {
		if q%k == 0 {
			d = append(d, k)
		}
	}
	return
}

func multiplicativeOrder(n, q uint64) uint64 {
	if q == 1 {
		return 1
	}
	k, x := uint64(1), n%q
	for x != 1 {
		x = utils.MulMod(x, n, q)
		k++
	}
	return k
}

// allChars returns every character modulo q in enumeration order.
func allChars(t *testing.T, G *Group) (chars []*Char) {
	x := G.One()
	for {
		chars = append(chars, CharFromIndex(x))
		if x.Next() < 0 {
			break
		}
	}
	require.Equal(t, G.Size(), uint64(len(chars)))
	return
}

func TestNewGroup(t *testing.T) {

	_, err := NewGroup(0)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	for _, q := range []uint64{1, 2, 3, 4, 5, 8, 12, 16, 45, 64, 100, 243, 1000, 1024 * 3, 2 * 243 * 7, 1000003} {
		t.Run(fmt.Sprintf("q=%d", q), func(t *testing.T) {
			G, err := NewGroup(q)
			require.NoError(t, err)
			require.Equal(t, factorization.Totient(q), G.Size())

			expo := uint64(1)
			for _, c := range G.Components() {
				expo = utils.LCM(expo, c.Phi)
				require.Equal(t, uint64(1), utils.PowMod(c.Gen, c.Phi, q))
				require.Equal(t, c.G%c.PE, c.Gen%c.PE)
				require.Equal(t, 1%(q/c.PE), c.Gen%(q/c.PE))
			}
			require.Equal(t, expo, G.Exponent())

			H, err := NewGroup(q)
			require.NoError(t, err)
			require.True(t, G.Equal(H))
		})
	}

	G, err := NewGroup(5)
	require.NoError(t, err)
	H, err := NewGroup(7)
	require.NoError(t, err)
	require.False(t, G.Equal(H))

	_, err = G.Subgroup(3)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestEnumeration(t *testing.T) {

	t.Run("q=5", func(t *testing.T) {
		G, err := NewGroup(5)
		require.NoError(t, err)
		x := G.One()
		visited := []uint64{x.Number()}
		for x.Next() >= 0 {
			visited = append(visited, x.Number())
		}
		require.Len(t, visited, 4)
		require.ElementsMatch(t, []uint64{1, 2, 3, 4}, visited)
	})

	for q := uint64(1); q < 300; q++ {
		G, err := NewGroup(q)
		require.NoError(t, err)

		x := G.One()
		seen := map[uint64]bool{}
		rank := uint64(0)
		squares := int64(0)
		for {
			require.True(t, G.IsUnit(x.Number()), "q=%d n=%d", q, x.Number())
			require.False(t, seen[x.Number()], "q=%d n=%d", q, x.Number())
			seen[x.Number()] = true
			squares += int64(x.Number() * x.Number())

			require.Equal(t, rank, x.Rank())
			y, err := G.NewIndex(x.Number())
			require.NoError(t, err)
			require.Equal(t, x.Log(), y.Log(), "q=%d n=%d", q, x.Number())
			require.True(t, G.One().SetRank(rank).Equal(x))

			rank++
			if x.Next() < 0 {
				break
			}
		}
		require.Equal(t, factorization.Totient(q), uint64(len(seen)), "q=%d", q)

		// sum of n^2 over the units is q^2 phi(q)/3 + q prod(1 - p)/6
		if q > 1 {
			prod := int64(1)
			for _, p := range G.Primes() {
				prod *= 1 - int64(p)
			}
			Q := int64(q)
			require.Equal(t, 2*Q*Q*int64(len(seen))+Q*prod, 6*squares, "q=%d", q)
		}
		require.True(t, x.Equal(G.One()))

		// the last index precedes the wrap around
		last := G.One().Last()
		require.Equal(t, G.Size()-1, last.Rank())
		require.Equal(t, -1, last.Next())
	}

	G, err := NewGroup(12)
	require.NoError(t, err)
	_, err = G.NewIndex(6)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPrimitive(t *testing.T) {
	for q := uint64(1); q < 400; q++ {
		G, err := NewGroup(q)
		require.NoError(t, err)

		want := uint64(0)
		for _, d := range divisors(q) {
			switch factorization.Moebius(d) {
			case 1:
				want += factorization.Totient(q / d)
			case -1:
				want -= factorization.Totient(q / d)
			}
		}
		require.Equal(t, want, G.NumPrimitive(), "q=%d", q)

		count := uint64(0)
		x := G.One()
		for {
			if x.IsPrimitive() {
				count++
				require.Equal(t, q, x.Conductor(), "q=%d n=%d", q, x.Number())
			} else {
				require.NotEqual(t, q, x.Conductor(), "q=%d n=%d", q, x.Number())
			}
			if x.Next() < 0 {
				break
			}
		}
		require.Equal(t, want, count, "q=%d", q)

		x = G.One()
		if want == 0 {
			require.True(t, errors.Is(x.First(), ErrInvalidArgument))
			continue
		}
		require.NoError(t, x.First())
		count = 0
		for {
			require.True(t, x.IsPrimitive(), "q=%d n=%d", q, x.Number())
			y, err := G.NewIndex(x.Number())
			require.NoError(t, err)
			require.Equal(t, y.Log(), x.Log())
			count++
			if x.NextPrimitive() < 0 {
				break
			}
		}
		require.Equal(t, want, count, "q=%d", q)
	}
}

func TestCharProperties(t *testing.T) {
	for q := uint64(1); q < 100; q++ {
		G, err := NewGroup(q)
		require.NoError(t, err)

		for _, chi := range allChars(t, G) {

			n := chi.Number()
			label := fmt.Sprintf("chi=%s", chi)

			// order of the character is the multiplicative order of its number
			require.Equal(t, multiplicativeOrder(n, q), chi.Order(), label)
			require.Equal(t, chi.Order() <= 2, chi.IsReal(), label)
			require.Equal(t, n == 1, chi.IsPrincipal(), label)

			if q > 2 {
				require.Equal(t, chi.Chi(q-1) != 0, chi.Parity() == 1, label)
			}

			// brute-force conductor
			cond := q
			for _, d := range divisors(q) {
				ok := true
				for a := uint64(1); a < q && ok; a++ {
					if G.IsUnit(a) && a%d == 1%d {
						ok = chi.Chi(a) == 0
					}
				}
				if ok {
					cond = d
					break
				}
			}
			require.Equal(t, cond, chi.Conductor(), label)

			// multiplicativity
			for a := uint64(1); a < q && q < 50; a++ {
				for b := a; b < q; b++ {
					ca, cb, cab := chi.Chi(a), chi.Chi(b), chi.Chi(a*b)
					if ca == Null || cb == Null {
						require.Equal(t, Null, cab, label)
						continue
					}
					require.Equal(t, utils.AddMod(ca, cb, chi.Order()), cab, label)
				}
			}

			// pairing
			for m := uint64(1); m < q; m++ {
				if !G.IsUnit(m) {
					require.Equal(t, Null, G.PairingNumbers(n, m))
					continue
				}
				p := G.PairingNumbers(n, m)
				require.Equal(t, p, G.PairingNumbers(m, n), label)
				require.Equal(t, p, chi.Chi(m)*(G.Exponent()/chi.Order()), label)
			}

			// normalize round trip
			c := chi.CopyNew()
			c.Denormalize()
			require.Equal(t, G.Exponent(), c.Order())
			for k := range c.expo {
				require.Equal(t, chi.AsIndex().log[k]*G.cofacts[k], c.expo[k])
			}
			for m := uint64(1); m < q; m++ {
				if v := chi.Chi(m); v != Null {
					require.Equal(t, v*(G.Exponent()/chi.Order()), c.Chi(m))
				}
			}
			c.Normalize()
			require.True(t, chi.Equal(c), label)
			c.Normalize()
			require.True(t, chi.Equal(c), label)

			// conjugate and powers
			conj := chi.Conj()
			require.True(t, chi.Mul(conj).IsPrincipal(), label)
			require.True(t, chi.Pow(chi.Order()).IsPrincipal(), label)
			require.Equal(t, chi.Parity(), conj.Parity(), label)
			require.True(t, chi.Pow(2).Equal(chi.Mul(chi)), label)

			// primitive character
			prim, err := chi.Primitive()
			require.NoError(t, err)
			require.True(t, prim.IsPrimitive(), label)
			require.Equal(t, chi.Conductor(), prim.Group().Q())
			for m := uint64(1); m < q; m++ {
				if G.IsUnit(m) {
					require.Equal(t, chi.Chi(m), prim.Chi(m), label)
				}
			}
		}
	}
}

func TestLiftLower(t *testing.T) {
	for q := uint64(1); q < 60; q++ {
		G, err := NewGroup(q)
		require.NoError(t, err)

		for _, k := range []uint64{2, 3, 4, 5} {
			H, err := NewGroup(q * k)
			require.NoError(t, err)

			x := G.One()
			for {
				y, err := x.Lift(H)
				require.NoError(t, err)
				require.Equal(t, x.Conductor(), y.Conductor())
				require.Equal(t, x.Order(), y.Order())
				require.Equal(t, x.Parity(), y.Parity())

				chiX, chiY := CharFromIndex(x), CharFromIndex(y)
				for n := uint64(1); n < q*k; n++ {
					if H.IsUnit(n) {
						require.Equal(t, chiX.Chi(n), chiY.Chi(n), "q=%d k=%d x=%d n=%d", q, k, x.Number(), n)
					}
				}

				z, err := y.Lower(G)
				require.NoError(t, err)
				require.True(t, x.Equal(z))
				require.Equal(t, x.Log(), z.Log())

				C, err := G.Subgroup(x.Conductor())
				require.NoError(t, err)
				w, err := x.Lower(C)
				require.NoError(t, err)
				require.True(t, w.IsPrimitive())
				w, err = w.Lift(G)
				require.NoError(t, err)
				require.True(t, x.Equal(w))

				if x.Next() < 0 {
					break
				}
			}
		}
	}

	G, err := NewGroup(15)
	require.NoError(t, err)
	H, err := G.Subgroup(5)
	require.NoError(t, err)
	x, err := G.NewIndex(2) // conductor 15
	require.NoError(t, err)
	_, err = x.Lower(H)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestChiVec(t *testing.T) {
	for _, q := range []uint64{1, 2, 3, 4, 8, 9, 12, 16, 25, 27, 32, 45, 60, 64, 77, 100, 101, 128, 243, 256, 360, 1001} {
		G, err := NewGroup(q)
		require.NoError(t, err)

		chars := []*Char{CharFromIndex(G.One())}
		if G.Size() > 1 {
			chars = []*Char{
				CharFromIndex(G.One().SetRank(1)),
				CharFromIndex(G.One().SetRank(G.Size() / 2)),
				CharFromIndex(G.One().Last()),
			}
		}

		for _, chi := range chars {
			for _, nv := range []int{int(q/3) + 1, int(q), 2*int(q) + 5} {
				t.Run(fmt.Sprintf("chi=%s/nv=%d", chi, nv), func(t *testing.T) {
					loop := ChiVecLoop(chi, nv)
					prime := ChiVecPrimeloop(chi, nv)
					sieve := ChiVecSieve(chi, nv)
					require.Equal(t, loop, prime)
					require.Equal(t, loop, sieve)
					require.Equal(t, loop, ChiVec(chi, nv))
					for n := range loop {
						require.Equal(t, chi.Chi(uint64(n)), loop[n], "n=%d", n)
					}
				})
			}
		}
	}
}

func TestOrthogonality(t *testing.T) {
	prec := uint(64)
	for _, q := range []uint64{5, 8, 12, 15, 16, 21} {
		G, err := NewGroup(q)
		require.NoError(t, err)
		chars := allChars(t, G)
		for a := uint64(1); a < q; a++ {
			sum := arb.NewComplex()
			for _, chi := range chars {
				sum.Add(sum, ChiValue(chi, a, prec), prec)
			}
			want := int64(0)
			if a == 1 {
				want = int64(G.Size())
			}
			require.True(t, sum.ContainsInt64(want), "q=%d a=%d sum=%s", q, a, sum)
		}
	}
}

func TestGaussSum(t *testing.T) {
	prec := uint(64)

	qmax := uint64(250)
	if testing.Short() {
		qmax = 60
	}

	for q := uint64(3); q < qmax; q++ {
		G, err := NewGroup(q)
		require.NoError(t, err)

		var chars []*Char
		if q < 25 {
			chars = allChars(t, G)
		} else {
			for _, j := range []uint64{1, G.Size() / 3} {
				chars = append(chars, CharFromIndex(G.One().SetRank(j)))
			}
			x := G.One()
			if x.First() == nil {
				chars = append(chars, CharFromIndex(x))
			}
		}

		for _, chi := range chars {
			naive := GaussSumNaive(chi, prec)
			label := fmt.Sprintf("chi=%s naive=%s", chi, naive)

			g := GaussSum(chi, prec)
			require.True(t, naive.Overlaps(g), "%s gauss=%s", label, g)

			f := GaussSumFactor(chi, prec)
			require.True(t, naive.Overlaps(f), "%s factor=%s", label, f)

			th := GaussSumTheta(chi, prec)
			require.True(t, naive.Overlaps(th), "%s theta=%s", label, th)

			if chi.IsPrimitive() {
				norm := naive.Norm(new(arb.Real), prec)
				require.True(t, norm.ContainsInt64(int64(q)), label)

				w, err := RootNumber(chi, prec)
				require.NoError(t, err)
				wt, err := RootNumberTheta(chi, prec)
				require.NoError(t, err)
				require.True(t, w.Overlaps(wt), label)
			} else {
				_, err := RootNumber(chi, prec)
				require.True(t, errors.Is(err, ErrInvalidArgument))
			}
		}
	}
}

func TestJacobiSum(t *testing.T) {
	prec := uint(64)
	for _, q := range []uint64{5, 7, 9, 11, 12, 13, 15, 16, 25, 27} {
		G, err := NewGroup(q)
		require.NoError(t, err)
		chars := allChars(t, G)
		for _, chi1 := range chars {
			for _, chi2 := range chars {
				naive := JacobiSumNaive(chi1, chi2, prec)
				j := JacobiSum(chi1, chi2, prec)
				require.True(t, naive.Overlaps(j), "q=%d chi1=%s chi2=%s naive=%s jacobi=%s", q, chi1, chi2, naive, j)

				if chi1.IsPrimitive() && chi2.IsPrimitive() && chi1.Mul(chi2).IsPrimitive() {
					require.True(t, naive.Overlaps(JacobiSumGauss(chi1, chi2, prec)))
				}
			}
		}
	}

	t.Run("Prime", func(t *testing.T) {
		G, err := NewGroup(13)
		require.NoError(t, err)
		one := CharFromIndex(G.One())
		require.True(t, JacobiSum(one, one, prec).ContainsInt64(11))
		chi, err := G.NewChar(2)
		require.NoError(t, err)
		require.True(t, JacobiSum(one, chi, prec).ContainsInt64(-1))
		require.True(t, JacobiSum(chi, chi.Conj(), prec).ContainsInt64(1)) // chi(-1) = -1
	})
}

func TestTheta(t *testing.T) {
	prec := uint(64)
	G, err := NewGroup(11)
	require.NoError(t, err)
	chi, err := G.NewChar(2)
	require.NoError(t, err)

	// the functional equation at t = 2
	two := new(arb.Real).SetInt64(2)
	half := new(arb.Real).SetFrac(1, 2, prec)

	w, err := RootNumber(chi, prec)
	require.NoError(t, err)

	lhs := Theta(chi, half, prec)
	rhs := Theta(chi.Conj(), two, prec)
	s := new(arb.Real).Sqrt(two, prec)
	if chi.Parity() == 1 {
		s.Mul(s, two, prec)
	}
	rhs.MulReal(rhs, s, prec)
	rhs.Mul(rhs, w, prec)
	require.True(t, lhs.Overlaps(rhs), "lhs=%s rhs=%s", lhs, rhs)
}
