package platt

import (
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/dft"
	"github.com/tuneinsight/dirichlet/utils"
)

// MultiEval returns the N = A*B values Z(T + n/A), n = -N/2..N/2-1, of the
// Hardy Z function on the grid described by params. The entry of index i
// holds n = i - N/2. The main sum is split across params.Threads() workers,
// which the options may override.
func MultiEval(params Parameters, opts ...Option) ([]arb.Real, error) {
	g, err := NewGrid(params, opts...)
	if err != nil {
		return nil, err
	}
	return g.HardyZ(), nil
}

// hardyZRatio returns exp(-pi t/4) / |Gamma(1/4 + i t/2)|, the ratio between
// Z(t) and the scaled completed zeta function at t.
func hardyZRatio(t *arb.Real, prec uint) *arb.Real {
	wp := prec + 2*magBits(t.AbsUpper()) + 8

	z := new(arb.Complex)
	z.Re.SetFrac(1, 4, wp)
	z.Im.Mul2Exp(t, -1)
	z.LogGamma(z, wp)

	a := new(arb.Real).Mul(arb.Pi(wp), t, wp)
	a.Mul2Exp(a, -2)
	a.Neg(a)
	a.Sub(a, &z.Re, wp)
	return a.Exp(a, prec)
}

// scaledLambda returns the values exp(pi t/4) pi^(-i t/2) Gamma(1/4 + i t/2) zeta(1/2 + i t),
// which are real, at the grid points t = T + n/A.
func scaledLambda(p Parameters) ([]arb.Real, error) {
	N := p.N()
	K := p.k
	prec := p.prec

	t0 := arb.NewRealInt64(p.t)
	h := arb.NewRealFloat64(p.h)

	S, err := mainSum(p, t0)
	if err != nil {
		return nil, err
	}

	table := GTable(p.a, p.b, t0, h, K, prec)

	for k := 0; k < K; k++ {
		addError(table[k], LemmaA5(p.b, h, k, prec))
	}

	pre := dft.NewPrecomp(N, prec)
	for k := 0; k < K; k++ {
		row := table[k]
		utils.SwapHalves(row)
		pre.Forward(row, row)
		for i := range row {
			row[i].DivInt64(&row[i], p.a, prec)
		}
	}

	for k := 0; k < K; k++ {
		addError(table[k], LemmaA7(p.sigma, t0, h, k, p.a, prec))
	}

	fac := arb.NewRealInt64(1)
	for k := 2; k < K; k++ {
		fac.MulInt64(fac, int64(k), prec)
		for i := range table[k] {
			table[k][i].DivReal(&table[k][i], fac, prec)
		}
	}

	outA := convolve(table, S, N, prec)

	x := new(arb.Real)
	for i := 0; i <= N/2; i++ {
		x.SetFrac(int64(i), p.b, prec)
		addError(outA[i:i+1], Lemma32(h, t0, x, prec))
	}

	addError(outA[:N/2+1], LemmaB1(p.sigma, t0, h, p.j, prec))

	xi := new(arb.Real).SetFrac(1, 2*p.b, prec)
	c := new(arb.Real).SqrtUint(uint64(p.j), prec)
	c.Mul2Exp(c, 1)
	c.SubInt64(c, 1, prec)
	b2 := LemmaB2(K, h, xi, prec)
	addError(outA[:N/2+1], b2.Mul(b2, c, prec))

	for i := 1; i < N/2; i++ {
		outA[N-i].Conj(&outA[i])
	}

	addError(outA, LemmaA9(p.sigma, t0, h, p.a, prec))

	outB := make([]arb.Complex, N)
	pre.Inverse(outB, outA)
	for i := range outB {
		outB[i].MulInt64(&outB[i], p.a, prec)
	}
	utils.SwapHalves(outB)

	addError(outB, LemmaA11(t0, h, p.b, prec))

	out := make([]arb.Real, N)
	for i := range out {
		out[i].Set(&outB[i].Re)
	}

	removeGaussianWindow(out, p.a, h, prec)

	return out, nil
}

// mainSum computes the S-table of the indices 1 <= j <= J. The range is split
// into contiguous slices, one per worker, each accumulating into a private
// table; the tables are summed once every worker is done.
func mainSum(p Parameters, t0 *arb.Real) ([][]arb.Complex, error) {
	threads := utils.Max(1, utils.Min(p.threads, int(utils.Min(p.j, 1<<20))))

	tables := make([][][]arb.Complex, threads)

	var g errgroup.Group
	for w := 0; w < threads; w++ {
		w := w
		j0 := 1 + int64(w)*p.j/int64(threads)
		j1 := int64(w+1) * p.j / int64(threads)
		g.Go(func() (err error) {
			log.Debugf("worker %d/%d: j in [%d, %d]", w+1, threads, j0, j1)
			tables[w], err = SMK(t0, p.a, p.b, j0, j1, p.k, p.prec)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	S := tables[0]
	for _, tab := range tables[1:] {
		for k := range S {
			for i := range S[k] {
				S[k][i].Add(&S[k][i], &tab[k][i], p.prec)
			}
		}
	}
	return S, nil
}

// convolve returns the first N/2+1 entries, padded with zeros to length N, of
// sum_k (table[k] * S[k]), where * is the correlation computed as a cyclic
// convolution of length 2N.
func convolve(table, S [][]arb.Complex, N int, prec uint) []arb.Complex {
	out := make([]arb.Complex, N)

	pre := dft.NewPrecomp(2*N, prec)
	f := make([]arb.Complex, 2*N)
	g := make([]arb.Complex, 2*N)
	fh := make([]arb.Complex, 2*N)
	gh := make([]arb.Complex, 2*N)

	for k := range table {
		for i := 0; i < 2*N; i++ {
			if i < N {
				f[i].Set(&S[k][i])
				g[i].Set(&table[k][i])
			} else {
				f[i].Zero()
				g[i].Zero()
			}
		}

		// reverse the S row modulo 2N
		for i := 1; i < N; i++ {
			f[i], f[2*N-i] = f[2*N-i], f[i]
		}

		pre.Forward(fh, f)
		pre.Forward(gh, g)
		for i := range gh {
			gh[i].Mul(&gh[i], &fh[i], prec)
		}
		pre.Inverse(gh, gh)

		for i := 0; i <= N/2; i++ {
			out[i].Add(&out[i], &gh[i], prec)
		}
	}

	return out
}

// removeGaussianWindow multiplies the entry of index i by exp((t/h)^2/2),
// with t = (i - N/2)/A.
func removeGaussianWindow(out []arb.Real, A int64, h *arb.Real, prec uint) {
	N := len(out)
	t := new(arb.Real)
	for i := range out {
		t.SetFrac(int64(i-N/2), A, prec)
		t.Div(t, h, prec)
		t.Sqr(t, prec)
		t.Mul2Exp(t, -1)
		t.Exp(t, prec)
		out[i].Mul(&out[i], t, prec)
	}
}

// addError adds an upper bound of |e| to the radii of every entry of v.
func addError(v []arb.Complex, e *arb.Real) {
	err := e.AbsUpper()
	for i := range v {
		v[i].AddError(err)
	}
}
