package platt

import (
	"github.com/tuneinsight/dirichlet/arb"
)

// gCoeff returns g(t) = Gamma(1/4 + i (t+t0)/2) exp(pi (t+t0)/4 - (t/h)^2/2),
// evaluated as a single exponential so that the decay of the gamma function
// cancels against its compensating factor before rounding.
func gCoeff(t0, h, t *arb.Real, prec uint) *arb.Complex {
	pi := arb.Pi(prec)
	tt := new(arb.Real).Add(t, t0, prec)

	z := new(arb.Complex)
	z.Re.SetFrac(1, 4, prec)
	z.Im.Mul2Exp(tt, -1)
	lg := new(arb.Complex).LogGamma(z, prec)

	e := new(arb.Real).Mul(pi, tt, prec)
	e.Mul2Exp(e, -2)
	w := new(arb.Real).Div(t, h, prec)
	w.Sqr(w, prec)
	w.Mul2Exp(w, -1)
	e.Sub(e, w, prec)

	lg.AddReal(lg, e, prec)
	return lg.Exp(lg, prec)
}

// GTable returns the K x N table whose k-th row holds g(t) (-2 pi i t)^k
// at the N = A*B grid offsets t = (i - N/2)/A, i = 0..N-1.
func GTable(A, B int64, t0, h *arb.Real, K int, prec uint) [][]arb.Complex {
	N := int(A * B)

	// the logarithm of the gamma term has size t0 log t0
	wp := prec + 2*magBits(t0.AbsUpper()) + 16

	table := make([][]arb.Complex, K)
	for k := range table {
		table[k] = make([]arb.Complex, N)
	}

	t := new(arb.Real)
	base := new(arb.Complex)
	pow := new(arb.Complex)
	for i := 0; i < N; i++ {
		t.SetFrac(int64(i-N/2), A, wp)

		base.Zero()
		base.Im.Mul(arb.Pi(wp), t, wp)
		base.Im.Mul2Exp(&base.Im, 1)
		base.Im.Neg(&base.Im)

		coeff := gCoeff(t0, h, t, wp)

		pow.One()
		for k := 0; k < K; k++ {
			table[k][i].Mul(coeff, pow, wp)
			table[k][i].SetRound(&table[k][i], prec)
			pow.Mul(pow, base, wp)
		}
	}

	return table
}
