package platt

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
)

// InterpolationLiteral is the literal representation of the parameters of a
// Whittaker-Shannon interpolation between grid points. NsMax bounds the
// number of grid points used on each side of the height, H is the width of
// the Gaussian window and Sigma the shift used by the aliasing bound.
type InterpolationLiteral struct {
	NsMax int64   `json:"ns_max" yaml:"ns_max"`
	H     float64 `json:"h" yaml:"h"`
	Sigma int64   `json:"sigma" yaml:"sigma"`
}

// Interpolation is the checked set of interpolation parameters.
type Interpolation struct {
	nsMax, sigma int64
	h            float64
}

// NewInterpolationFromLiteral checks the literal and instantiates the
// corresponding Interpolation. The returned error wraps ErrInvalidArgument.
func NewInterpolationFromLiteral(il InterpolationLiteral) (Interpolation, error) {
	switch {
	case il.NsMax < 1:
		return Interpolation{}, fmt.Errorf("%w: Ns_max = %d must be positive", ErrInvalidArgument, il.NsMax)
	case !(il.H > 0) || math.IsInf(il.H, 1):
		return Interpolation{}, fmt.Errorf("%w: H = %v must be positive and finite", ErrInvalidArgument, il.H)
	case il.Sigma <= 1 || il.Sigma%2 == 0:
		return Interpolation{}, fmt.Errorf("%w: sigma = %d must be odd and larger than 1", ErrInvalidArgument, il.Sigma)
	}
	return Interpolation{nsMax: il.NsMax, sigma: il.Sigma, h: il.H}, nil
}

// InterpolationLiteral returns the literal of the target Interpolation.
func (ws Interpolation) InterpolationLiteral() InterpolationLiteral {
	return InterpolationLiteral{NsMax: ws.nsMax, H: ws.h, Sigma: ws.sigma}
}

// NsMax returns the largest number of grid points used on each side.
func (ws Interpolation) NsMax() int64 {
	return ws.nsMax
}

// H returns the width of the Gaussian window.
func (ws Interpolation) H() float64 {
	return ws.h
}

// Sigma returns the shift of the aliasing bound.
func (ws Interpolation) Sigma() int64 {
	return ws.sigma
}

// MarshalJSON returns a JSON representation of the interpolation parameters.
func (ws Interpolation) MarshalJSON() ([]byte, error) {
	return json.Marshal(ws.InterpolationLiteral())
}

// UnmarshalJSON reads and checks a JSON representation of interpolation
// parameters.
func (ws *Interpolation) UnmarshalJSON(data []byte) (err error) {
	var il InterpolationLiteral
	if err = json.Unmarshal(data, &il); err != nil {
		return
	}
	*ws, err = NewInterpolationFromLiteral(il)
	return
}

// Grid holds the values of the scaled completed zeta function
// exp(pi t/4) pi^(-i t/2) Gamma(1/4 + i t/2) zeta(1/2 + i t) at the points
// t = T + n/A of a multi-evaluation, n = -N/2..N/2-1. The function is real
// and has the sign of Z.
type Grid struct {
	params Parameters
	values []arb.Real
}

// NewGrid runs the multi-evaluation described by params.
func NewGrid(params Parameters, opts ...Option) (*Grid, error) {
	for _, opt := range opts {
		opt(&params)
	}
	values, err := scaledLambda(params)
	if err != nil {
		return nil, err
	}
	return &Grid{params: params, values: values}, nil
}

// Parameters returns the parameters of the multi-evaluation.
func (g *Grid) Parameters() Parameters {
	return g.params
}

// Values returns the scaled values at the grid points. The slice is shared.
func (g *Grid) Values() []arb.Real {
	return g.values
}

// HardyZ returns the values of Z at the grid points.
func (g *Grid) HardyZ() []arb.Real {
	N := g.params.N()
	prec := g.params.prec
	t0 := arb.NewRealInt64(g.params.t)

	out := make([]arb.Real, N)
	t := new(arb.Real)
	for i := range out {
		t.SetFrac(int64(i-N/2), g.params.a, prec)
		t.Add(t, t0, prec)
		out[i].Mul(&g.values[i], hardyZRatio(t, prec), prec)
	}
	return out
}

// Interpolate returns the scaled completed zeta function at t0, interpolated
// from the grid.
func (g *Grid) Interpolate(t0 *arb.Real, ws Interpolation, prec uint) *arb.Real {
	return WSInterpolation(t0, g.values, g.params, ws, prec)
}

// InterpolateHardyZ returns Z(t0) interpolated from the grid.
func (g *Grid) InterpolateHardyZ(t0 *arb.Real, ws Interpolation, prec uint) *arb.Real {
	res := g.Interpolate(t0, ws, prec)
	return res.Mul(res, hardyZRatio(t0, prec), prec)
}

// WSInterpolation returns the value at t0 of the function sampled by p on the
// grid of params, by Whittaker-Shannon interpolation with a Gaussian window:
//
//	sum_i sinc(A (t_i - t0)) p_i exp(-((t_i - t0)/H)^2/2),
//
// over the 2 Ns grid points t_i closest to t0, Ns <= NsMax. The truncation
// and aliasing errors are included. The result is indeterminate when t0 is
// too close to the ends of the grid.
func WSInterpolation(t0 *arb.Real, p []arb.Real, params Parameters, ws Interpolation, prec uint) *arb.Real {
	N := int64(params.N())
	if int64(len(p)) != N {
		panic(fmt.Errorf("platt: %d grid values for N = %d", len(p), N))
	}
	if !t0.IsFinite() {
		return arb.Indeterminate()
	}
	A := params.a
	h := arb.NewRealFloat64(ws.h)

	wp := prec + uint(bits.Len64(uint64(params.t)))
	dt0 := new(arb.Real).Sub(t0, arb.NewRealInt64(params.t), wp)
	dt0A := new(arb.Real).MulInt64(dt0, A, prec)
	if dt0A.AbsUpper().Cmp(arb.NewMag(float64(N))) > 0 {
		return arb.Indeterminate()
	}

	// the points supporting the interpolation are ambiguous when dt0 A
	// contains an integer
	lowerN := floorInt64(dt0A.Lower(prec))
	var total *arb.Real
	for n := lowerN; n == lowerN || dt0A.ContainsInt64(n); n++ {
		Ns := utils.Min(ws.nsMax, utils.Min(N/2+n+1, N/2-n-1))
		if Ns < 1 {
			return arb.Indeterminate()
		}
		x := wsSum(t0, dt0, p, A, N/2+n-(Ns-1), Ns, h, ws.sigma, prec)
		if total == nil {
			total = x
		} else {
			total.Union(total, x, prec)
		}
	}
	return total
}

// wsSum sums the 2 Ns windowed samples from the index i0 and adds the error
// bounds.
func wsSum(t0, dt0 *arb.Real, p []arb.Real, A, i0, Ns int64, h *arb.Real, sigma int64, prec uint) *arb.Real {
	N := int64(len(p))
	total := new(arb.Real)
	dt := new(arb.Real)
	a := new(arb.Real)
	g := new(arb.Real)
	for i := i0; i < i0+2*Ns; i++ {
		dt.SetFrac(i-N/2, A, prec)
		dt.Sub(dt, dt0, prec)

		a.MulInt64(dt, A, prec)
		sincPi(a, a, prec)
		a.Mul(a, &p[i], prec)

		g.Div(dt, h, prec)
		g.Sqr(g, prec)
		g.Mul2Exp(g, -1)
		g.Neg(g)
		g.Exp(g, prec)

		total.Add(total, a.Mul(a, g, prec), prec)
	}
	total.AddError(LemmaC3(t0, A, h, Ns, prec).AbsUpper())
	return total.AddError(aliasingBound(sigma, t0, h, A, prec).AbsUpper())
}

// sincPi sets z to sin(pi x)/(pi x).
func sincPi(z, x *arb.Real, prec uint) *arb.Real {
	if !x.ContainsZero() {
		d := new(arb.Real).Mul(arb.Pi(prec), x, prec)
		return z.Div(new(arb.Real).SinPi(x, prec), d, prec)
	}

	// 1 - (pi x)^2/6 <= sinc(pi x) <= 1
	u := arb.NewRealBig(x.AbsUpper().BigFloat())
	u.Mul(u, arb.Pi(prec), prec)
	u.Sqr(u, prec)
	u.DivInt64(u, 6, prec)
	u.Neg(u)
	lo := u.AddInt64(u, 1, prec).Lower(prec)
	if lo.Cmp(big.NewFloat(-1)) < 0 {
		lo.SetInt64(-1)
	}
	return z.SetInterval(lo, big.NewFloat(1), prec)
}

// floorInt64 returns floor(x) for x in the range of int64.
func floorInt64(x *big.Float) int64 {
	n, acc := x.Int64()
	if acc == big.Above {
		n--
	}
	return n
}

// LemmaC3 bounds the truncation of the interpolation to 2 Ns grid points:
//
//	6 (X + Y + Z)/(pi Ns),
//
// where beta = 1/6 + log(log t0)/log t0 and
//
//	X = (t0 + Ns/A)^beta exp(-Ns^2/(2 A^2 H^2)),
//	Y = 2^((2 beta - 1)/2) t0^beta A H Gamma(1/2, Ns^2/(2 A^2 H^2)),
//	Z = 2^((3 beta - 1)/2) H^(beta+1) A Gamma((beta+1)/2, t0^2/(2 H^2)).
//
// The bound holds for t0 > exp(e) and 0 < Ns <= t0 A; the result is
// indeterminate otherwise.
func LemmaC3(t0 *arb.Real, A int64, h *arb.Real, Ns int64, prec uint) *arb.Real {
	expe := new(arb.Real).Exp(arb.NewRealInt64(1), prec)
	expe.Exp(expe, prec)
	if !certainlyLess(expe, t0) {
		return arb.Indeterminate()
	}
	if Ns <= 0 || !certainlyLE(arb.NewRealInt64(Ns), new(arb.Real).MulInt64(t0, A, prec)) {
		return arb.Indeterminate()
	}

	beta := lemmaA11Beta(t0, prec)
	two := arb.NewRealInt64(2)

	ah := new(arb.Real).MulInt64(h, A, prec)
	a := arb.NewRealInt64(Ns)
	a.Div(a, ah, prec)
	a.Sqr(a, prec)
	a.Mul2Exp(a, -1)

	// X
	x := new(arb.Real).SetFrac(Ns, A, prec)
	x.Add(x, t0, prec)
	x.Pow(x, beta, prec)
	e := new(arb.Real).Neg(a)
	x.Mul(x, e.Exp(e, prec), prec)

	// Y
	y := new(arb.Real).Mul2Exp(beta, 1)
	y.SubInt64(y, 1, prec)
	y.Mul2Exp(y, -1)
	y.Pow(two, y, prec)
	y.Mul(y, new(arb.Real).Pow(t0, beta, prec), prec)
	y.Mul(y, ah, prec)
	y.Mul(y, arb.GammaUpperBound(new(arb.Real).SetFrac(1, 2, prec), a, prec), prec)

	// Z
	z := new(arb.Real).MulInt64(beta, 3, prec)
	z.SubInt64(z, 1, prec)
	z.Mul2Exp(z, -1)
	z.Pow(two, z, prec)
	s := new(arb.Real).AddInt64(beta, 1, prec)
	z.Mul(z, new(arb.Real).Pow(h, s, prec), prec)
	s.Mul2Exp(s, -1)
	w := new(arb.Real).Div(t0, h, prec)
	w.Sqr(w, prec)
	w.Mul2Exp(w, -1)
	z.Mul(z, arb.GammaUpperBound(s, w, prec), prec)
	z.MulInt64(z, A, prec)

	res := new(arb.Real).Add(x, y, prec)
	res.Add(res, z, prec)
	res.MulInt64(res, 6, prec)
	res.Div(res, arb.Pi(prec), prec)
	return res.DivInt64(res, Ns, prec)
}

// aliasingBound bounds the error of sampling the windowed function at A
// points per unit, 2 A times the folding bound of LemmaA9 with the
// interpolation window.
func aliasingBound(sigma int64, t0, h *arb.Real, A int64, prec uint) *arb.Real {
	res := LemmaA9(sigma, t0, h, A, prec)
	return res.MulInt64(res, 2*A, prec)
}
