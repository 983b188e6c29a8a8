// Package zeros locates the nontrivial zeros of the Riemann zeta function on
// the critical line. Zeros are separated by sign changes of the Hardy Z
// function between Gram points, certified with Gram's law, Rosser's rule or
// Turing's method depending on the height, and refined by bisection.
package zeros

import (
	"errors"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeta"
)

var log = logging.Logger("zeros")

// ErrInvalidArgument is returned for zero and Gram point indices out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// Every zero up to index gramsLawMax obeys Gram's law, and every zero up to
// index rossersRuleMax obeys Rosser's rule.
const (
	gramsLawMax    = 126
	rossersRuleMax = 13999526
)

// Number of intercalation passes spent on a Gram or Rosser block before it
// is considered bad.
const loopCount = 4

// Bound on the intercalation passes of an Isolator at a fixed precision,
// where Rosser's rule and Turing's method no longer guarantee termination.
const fixedPrecPasses = 12

// Evaluator returns a ball containing f(t) at the working precision prec,
// for a real function f with the same sign as the Hardy Z function.
type Evaluator func(t *arb.Real, prec uint) *arb.Real

// Isolator separates and refines the zeros of Z from the signs returned by
// an Evaluator.
type Isolator struct {
	eval Evaluator
	prec uint
}

// NewIsolator returns an Isolator reading signs from eval. A nonzero prec
// fixes the working precision: a sign left undetermined at prec is never
// retried, and zeros are refined only as far as the signs allow. With prec
// zero the precision is raised until every sign is known.
func NewIsolator(eval Evaluator, prec uint) *Isolator {
	return &Isolator{eval: eval, prec: prec}
}

// hardyZ evaluates Z with zeta.HardyZ at any precision.
var hardyZ = NewIsolator(func(t *arb.Real, prec uint) *arb.Real {
	return zeta.HardyZ(t, nil, nil, prec)
}, 0)

// precRange returns the initial and the largest working precision of an
// evaluation starting at prec, for a height of about hint bits.
func (iso *Isolator) precRange(prec, hint uint) (uint, uint) {
	if iso.prec != 0 {
		return iso.prec, iso.prec
	}
	return prec, zeta.MaxPrecision(hint)
}
