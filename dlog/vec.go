package dlog

import (
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// None marks the entries of a log vector that are not units.
const None = ^uint64(0)

// VecFill sets every entry of v to x.
func VecFill(v []uint64, x uint64) {
	for i := range v {
		v[i] = x
	}
}

// VecSetNotUnits sets to None the entries v[x] with gcd(x, mod) > 1.
func VecSetNotUnits(v []uint64, mod uint64) {
	if mod == 1 {
		return
	}
	for _, f := range factorization.FactorUint64(mod) {
		for k := uint64(0); k < uint64(len(v)); k += f.P {
			v[k] = None
		}
	}
}

// Vec returns the vector v of length nv with v[x] = va log_a(x) mod order
// for x coprime to mod, and None otherwise. The element a has order na
// modulo mod and the logs are taken modulo na.
func Vec(nv int, a, va, mod, na, order uint64) []uint64 {
	v := make([]uint64, nv)
	VecSetNotUnits(v, mod)
	VecAdd(v, a, va, mod, na, order)
	return v
}

// VecAdd adds va log_a(x) mod order to every entry v[x] that is not None.
// Entries outside the subgroup generated by a are left unchanged.
// The loop is used when the group is small relative to len(v),
// the sieve otherwise.
func VecAdd(v []uint64, a, va, mod, na, order uint64) {
	if 2*uint64(len(v)) > na || factorization.Totient(mod) != na {
		VecLoopAdd(v, a, va, mod, order)
		return
	}
	VecSieveAdd(v, a, va, mod, na, order)
}

// VecLoopAdd walks the powers x = a^k modulo mod and adds k va mod order to
// every entry v[y] with y = x mod mod.
func VecLoopAdd(v []uint64, a, va, mod, order uint64) {
	nv := uint64(len(v))
	x, vx := uint64(1)%mod, uint64(0)
	va %= order
	for {
		for y := x; y < nv; y += mod {
			if v[y] != None {
				v[y] = utils.AddMod(v[y], vx, order)
			}
		}
		x = utils.MulMod(x, a, mod)
		vx = utils.AddMod(vx, va, order)
		if x == 1%mod {
			break
		}
	}
}

// VecSieveAdd computes the logs of the primes below len(v) with a single
// context and extends them multiplicatively. The base a must generate
// (Z/mod)^*, whose order is na.
func VecSieveAdd(v []uint64, a, va, mod, na, order uint64) {
	nv := uint64(len(v))
	if nv == 0 {
		return
	}

	primes := factorization.PrimesUpTo(nv - 1)
	pre, err := NewPrecomp(a, mod, na, uint64(len(primes)))
	if err != nil {
		panic(err)
	}

	w := make([]uint64, nv)
	VecFill(w, None)
	if nv > 1 {
		w[1] = 0
	}
	va %= order

	// smallest prime factor sieve
	for _, p := range primes {
		if mod%p == 0 {
			continue
		}
		lp, err := pre.Log(p % mod)
		if err != nil {
			panic(err)
		}
		w[p] = utils.MulMod(lp%order, va, order)
	}
	for k := uint64(2); k < nv; k++ {
		if w[k] != None || utils.GCD(k, mod) != 1 {
			continue
		}
		for _, p := range primes {
			if k%p == 0 {
				w[k] = utils.AddMod(w[p], w[k/p], order)
				break
			}
		}
	}

	for k := range v {
		if v[k] != None && w[k] != None {
			v[k] = utils.AddMod(v[k], w[k], order)
		}
	}
}
