package dlog

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/sampling"
)

// Rho is Pollard's rho with a three-way partitioned walk and Brent's cycle
// detection. It has no precomputation. Its walks are seeded by a keyed PRNG
// whose key is derived from (mod, a), so that results are reproducible.
type Rho struct {
	base
}

const rhoMaxRestarts = 64

func newRho(a, mod, n uint64) *Rho {
	return &Rho{base: base{a: a, mod: mod, order: n}}
}

// Strategy returns StrategyRho.
func (t *Rho) Strategy() Strategy {
	return StrategyRho
}

type rhoState struct {
	x, alpha, beta uint64
}

// step advances the walk x = a^alpha b^beta.
func (t *Rho) step(s *rhoState, b uint64) {
	n, m := t.order, t.mod
	switch s.x % 3 {
	case 0:
		s.x = utils.MulMod(s.x, b, m)
		s.beta = utils.AddMod(s.beta, 1%n, n)
	case 1:
		s.x = utils.MulMod(s.x, s.x, m)
		s.alpha = utils.AddMod(s.alpha, s.alpha, n)
		s.beta = utils.AddMod(s.beta, s.beta, n)
	default:
		s.x = utils.MulMod(s.x, t.a, m)
		s.alpha = utils.AddMod(s.alpha, 1%n, n)
	}
}

// Log returns log_a(b).
func (t *Rho) Log(b uint64) (uint64, error) {
	n, m := t.order, t.mod
	b %= m

	if utils.PowMod(b, n, m) != 1%m {
		return 0, fmt.Errorf("cannot Log %d in base %d mod %d: %w", b, t.a, m, ErrNotFound)
	}

	if b == 1%m {
		return 0, nil
	}

	prng, err := sampling.NewKeyedPRNGFromUint64("dlog.rho", m, t.a)
	if err != nil {
		panic(err)
	}

	for restart := 0; restart < rhoMaxRestarts; restart++ {

		var s rhoState
		s.alpha = sampling.UniformUint64(prng, n)
		s.beta = sampling.UniformUint64(prng, n)
		s.x = utils.MulMod(utils.PowMod(t.a, s.alpha, m), utils.PowMod(b, s.beta, m), m)

		// Brent: compare against the saved state at each power of two
		saved := s
		power, lam := uint64(1), uint64(1)
		t.step(&s, b)
		for s.x != saved.x {
			if power == lam {
				saved = s
				power <<= 1
				lam = 0
			}
			t.step(&s, b)
			lam++
		}

		// a^alpha1 b^beta1 = a^alpha2 b^beta2
		// (beta1 - beta2) log b = alpha2 - alpha1 mod n
		db := utils.SubMod(saved.beta, s.beta, n)
		da := utils.SubMod(s.alpha, saved.alpha, n)

		if x, ok := t.solve(db, da, b); ok {
			return t.check(x, b)
		}
	}

	return 0, fmt.Errorf("cannot Log %d in base %d mod %d: no relation after %d walks: %w", b, t.a, m, rhoMaxRestarts, ErrNotFound)
}

// solve finds x with c x = d mod n and a^x = b. When g = gcd(c, n) > 1 the
// congruence is reduced by g and the g candidate lifts are tested.
func (t *Rho) solve(c, d, b uint64) (uint64, bool) {
	n := t.order
	g := utils.GCD(c, n)
	if g == n || d%g != 0 {
		return 0, false
	}
	ng := n / g
	inv, ok := utils.InvMod((c/g)%ng, ng)
	if !ok {
		return 0, false
	}
	x0 := utils.MulMod((d/g)%ng, inv, ng)
	if g > 1<<20 {
		return 0, false
	}
	for k := uint64(0); k < g; k++ {
		x := x0 + k*ng
		if utils.PowMod(t.a, x, t.mod) == b {
			return x, true
		}
	}
	return 0, false
}
