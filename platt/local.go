package platt

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeros"
)

// Shape of the grids of LocalParameters.
const (
	localA     = 8
	localB     = 4096
	localNsMax = 200
)

// Range of zero indices covered by LocalParameters.
const (
	localMinIndex = 10000
	localMaxIndex = 3e22
)

// LocalParameters returns grid and interpolation parameters suited to the
// zeros following the n-th zero, for 10^4 <= n <= 3*10^22. The tuning
// constants are fitted as polynomials in log n. The n-th zero is expected
// near the Gram point g_(n-2), a quarter of the grid below its center, since
// only the middle half of the grid is accurate enough to isolate zeros.
func LocalParameters(n int64, prec uint) (Parameters, Interpolation, error) {
	if n < localMinIndex || float64(n) > localMaxIndex {
		return Parameters{}, Interpolation{}, fmt.Errorf("%w: zero index %d out of [1e4, 3e22]", ErrInvalidArgument, n)
	}

	g, err := zeros.GramPoint(n-2, prec+uint(bits.Len64(uint64(n))))
	if err != nil {
		return Parameters{}, Interpolation{}, err
	}
	T := floorInt64(g.Lower(prec)) + localB/4

	x := math.Log(float64(n))
	pl := ParametersLiteral{
		T:     T,
		A:     localA,
		B:     localB,
		H:     float64(int64(157.8+26.16*x-1.008*x*x+0.01542*x*x*x)) / 4,
		J:     int64(math.Exp(0.002133 + 0.4406*x + 0.0005188*x*x)),
		K:     int(72.92 - 0.8609*x - 0.004709*x*x),
		Sigma: gridSigma(n, x),
		Prec:  prec,
	}
	il := InterpolationLiteral{
		NsMax: localNsMax,
		H:     float64(int64(28.53+5.828*x-0.23386*x*x+0.0035875*x*x*x)) / 64,
		Sigma: interpolationSigma(n, x),
	}
	log.Debugf("LocalParameters(%d): %+v, %+v", n, pl, il)

	params, err := NewParametersFromLiteral(pl)
	if err != nil {
		return Parameters{}, Interpolation{}, err
	}
	ws, err := NewInterpolationFromLiteral(il)
	if err != nil {
		return Parameters{}, Interpolation{}, err
	}
	return params, ws, nil
}

func gridSigma(n int64, x float64) int64 {
	var s int64
	switch {
	case float64(n) < 3e6:
		s = int64(-852.5 + 388.4*x - 13.174*x*x)
	case float64(n) < 3e18:
		s = int64(1967.5703 + 4.864*x - 0.1577*x*x)
	default:
		s = int64(-4010.8455 + 280.2*x - 3.335*x*x)
	}
	return s + 1 - s%2
}

func interpolationSigma(n int64, x float64) int64 {
	s := int64(25)
	if float64(n) >= 3e14 {
		s = int64(-30.47 + 2.994*x - 0.04116*x*x)
	}
	return s + 1 - s%2
}

// Isolator returns a zeros.Isolator reading the signs of Z from
// interpolations on the grid, at the precision of the grid.
func (g *Grid) Isolator(ws Interpolation) *zeros.Isolator {
	return zeros.NewIsolator(func(t *arb.Real, prec uint) *arb.Real {
		return g.Interpolate(t, ws, prec)
	}, g.params.prec)
}

// IsolateHardyZZeros returns isolating intervals of the zeros with indices
// n, ..., n+length-1 of Z, found by interpolation on the grid. On error the
// intervals isolated so far are returned with it.
func (g *Grid) IsolateHardyZZeros(ws Interpolation, n int64, length int) ([]zeros.Interval, error) {
	return g.Isolator(ws).IsolateZeros(n, length)
}

// HardyZZeros returns the zeros with indices n, ..., n+length-1 of Z, found
// by interpolation on the grid and refined as far as the accuracy of the grid
// allows. On error the zeros found so far are returned with it.
func (g *Grid) HardyZZeros(ws Interpolation, n int64, length int) ([]*arb.Real, error) {
	return g.Isolator(ws).Zeros(n, length, g.params.prec)
}

// IsolateLocalHardyZZeros is like LocalHardyZZeros but returns isolating
// intervals.
func IsolateLocalHardyZZeros(n int64, length int, prec uint, opts ...Option) ([]zeros.Interval, error) {
	g, ws, err := localGrid(n, prec, opts...)
	if err != nil {
		return nil, err
	}
	return g.IsolateHardyZZeros(ws, n, length)
}

// LocalHardyZZeros returns the zeros with indices n, ..., n+length-1 of Z
// from a single multi-evaluation with the parameters of LocalParameters.
// Zeros beyond the accurate part of the grid are not found: the zeros
// located so far are then returned together with the error.
func LocalHardyZZeros(n int64, length int, prec uint, opts ...Option) ([]*arb.Real, error) {
	g, ws, err := localGrid(n, prec, opts...)
	if err != nil {
		return nil, err
	}
	return g.HardyZZeros(ws, n, length)
}

func localGrid(n int64, prec uint, opts ...Option) (*Grid, Interpolation, error) {
	params, ws, err := LocalParameters(n, prec)
	if err != nil {
		return nil, Interpolation{}, err
	}
	g, err := NewGrid(params, opts...)
	if err != nil {
		return nil, Interpolation{}, err
	}
	return g, ws, nil
}
