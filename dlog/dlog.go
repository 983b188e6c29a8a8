// Package dlog implements discrete logarithms in cyclic subgroups of (Z/mZ)^*.
//
// A Context is built once for a generator a of order n modulo m and then
// answers repeated queries log_a(b) in [0, n). The strategy behind a context
// is selected by a closed-form cost model that depends only on the modulus,
// the order and the expected number of queries.
package dlog

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

var (
	// ErrInvalidArgument is returned when a context cannot be built from its inputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when the target is not in the subgroup generated by the base.
	ErrNotFound = errors.New("element not in subgroup")
)

// Strategy identifies the algorithm behind a Context.
type Strategy int

const (
	StrategyTable = Strategy(iota)
	StrategyBSGS
	StrategyCRT
	StrategyPowerPrime
	StrategyModPe
	StrategyRho
)

func (s Strategy) String() string {
	switch s {
	case StrategyTable:
		return "Table"
	case StrategyBSGS:
		return "BSGS"
	case StrategyCRT:
		return "CRT"
	case StrategyPowerPrime:
		return "PowerPrime"
	case StrategyModPe:
		return "ModPe"
	case StrategyRho:
		return "Rho"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Context answers discrete logarithm queries for a fixed base.
type Context interface {
	// Log returns x in [0, Order()) such that a^x = b mod m.
	Log(b uint64) (uint64, error)
	// Order returns the order of the base.
	Order() uint64
	// Strategy returns the algorithm used by the context.
	Strategy() Strategy
}

const (
	// TableLimit is the modulus below which all logarithms are tabulated.
	TableLimit = 50
	// BSGSOrderLimit is the prime order below which baby-step giant-step
	// is preferred to Pollard rho for a single query.
	BSGSOrderLimit = 10_000_000_000
)

// base holds the data shared by every strategy.
type base struct {
	a, mod, order uint64
}

// Order returns the order of the base.
func (b base) Order() uint64 {
	return b.order
}

// check returns ErrNotFound unless a^x = y mod m.
func (b base) check(x, y uint64) (uint64, error) {
	if utils.PowMod(b.a, x, b.mod) != y%b.mod {
		return 0, fmt.Errorf("cannot Log %d in base %d mod %d: %w", y, b.a, b.mod, ErrNotFound)
	}
	return x, nil
}

// NewPrecomp returns a Context for the base a of order n modulo mod,
// sized for nqueries queries. The strategy is chosen as follows:
//   - table when mod < TableLimit;
//   - power-of-prime when n = p^e with e > 1;
//   - CRT when n has at least two distinct prime factors;
//   - BSGS when n is prime and n < BSGSOrderLimit or nqueries > 1;
//   - Pollard rho otherwise.
func NewPrecomp(a, mod, n, nqueries uint64) (Context, error) {

	if mod == 0 || n == 0 {
		return nil, fmt.Errorf("cannot NewPrecomp: modulus and order must be positive: %w", ErrInvalidArgument)
	}

	if mod > 1 && utils.GCD(a, mod) != 1 {
		return nil, fmt.Errorf("cannot NewPrecomp: base %d is not invertible mod %d: %w", a, mod, ErrInvalidArgument)
	}

	if nqueries == 0 {
		nqueries = 1
	}

	a %= mod

	if mod < TableLimit || n == 1 {
		return newTable(a, mod, n), nil
	}

	factors := factorization.FactorUint64(n)

	switch {
	case len(factors) == 1 && factors[0].E > 1:
		return newPowerPrime(a, mod, factors[0].P, factors[0].E, nqueries)
	case len(factors) > 1:
		return newCRT(a, mod, n, factors, nqueries)
	case n < BSGSOrderLimit || nqueries > 1:
		return newBSGS(a, mod, n, bsgsSize(n, nqueries)), nil
	default:
		return newRho(a, mod, n), nil
	}
}

// bsgsSize returns ceil(sqrt(n * nqueries)), capped at n.
func bsgsSize(n, nqueries uint64) uint64 {
	if nqueries >= n {
		return n
	}
	prod := n * nqueries
	if prod/nqueries != n {
		return n
	}
	m := utils.ISqrt(prod)
	if m*m < prod {
		m++
	}
	return utils.Min(m, n)
}

// Once returns log_a(b) modulo mod for a base of order n, for a single query.
func Once(b, a, mod, n uint64) (uint64, error) {
	if n == 1 {
		return base{a: a, mod: mod, order: 1}.check(0, b)
	}
	ctx, err := NewPrecomp(a, mod, n, 1)
	if err != nil {
		return 0, err
	}
	return ctx.Log(b)
}
