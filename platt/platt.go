// Package platt evaluates the Hardy Z function on a regular grid of N = A*B
// points around a height T with the algorithm of Platt. The values of a
// Gaussian-windowed completed zeta function are obtained at once from a
// Taylor-expanded main sum and fast Fourier transforms, and every truncation
// is accounted for by a rigorous bound, so each output is a certified ball.
package platt

import (
	"errors"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tuneinsight/dirichlet/arb"
)

var log = logging.Logger("platt")

// ErrInvalidArgument is returned for inconsistent grid and tuning parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// magBits returns the number of bits of the integer part of a bound.
func magBits(m arb.Mag) uint {
	if !m.IsFinite() {
		return 0
	}
	if e := m.Exp2(); e > 0 {
		return uint(e)
	}
	return 0
}
