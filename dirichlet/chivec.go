package dirichlet

import (
	"github.com/tuneinsight/dirichlet/dlog"
	"github.com/tuneinsight/dirichlet/utils"
)

// ChiVec returns the vector v of length nv with v[n] = chi.Chi(n).
// Entries at non-units, including v[0] when q > 1, hold Null and the vector
// is periodic of period q. The loop over the group is used when it is
// shorter than the vector, the prime loop otherwise.
func ChiVec(chi *Char, nv int) []uint64 {
	if 2*uint64(nv) > chi.x.g.q {
		return ChiVecLoop(chi, nv)
	}
	return ChiVecPrimeloop(chi, nv)
}

// ChiVecLoop enumerates the group with Index.Next and accumulates the
// character value along the walk.
func ChiVecLoop(chi *Char, nv int) []uint64 {
	G := chi.x.g
	v := make([]uint64, nv)
	dlog.VecFill(v, Null)
	if G.q == 1 {
		dlog.VecFill(v, 0)
		return v
	}

	x := G.One()
	t := uint64(0)
	if nv > 1 {
		v[1] = 0
	}
	for j := x.Next(); j >= 0; j = x.Next() {
		// components j..num-1 moved by one generator step
		for k := len(G.comps) - 1; k >= j; k-- {
			t = utils.AddMod(t, chi.expo[k]%chi.order, chi.order)
		}
		if x.n < uint64(nv) {
			v[x.n] = t
		}
	}

	periodize(v, G.q)
	return v
}

// ChiVecPrimeloop adds the contribution of every component with a log
// vector modulo its prime power.
func ChiVecPrimeloop(chi *Char, nv int) []uint64 {
	G := chi.x.g
	v := make([]uint64, nv)
	if G.q == 1 {
		return v
	}

	k := 0
	if G.neven > 0 {
		chiVecEvenPart(v, chi)
		k = G.neven
	}
	for ; k < len(G.comps); k++ {
		c := G.comps[k]
		dlog.VecAdd(v, c.G, chi.expo[k], c.PE, c.Phi, chi.order)
	}

	setNull(v, G)
	return v
}

// chiVecEvenPart adds the contribution of the components of the 2-part.
func chiVecEvenPart(v []uint64, chi *Char) {
	G := chi.x.g
	nv := uint64(len(v))

	if c3 := chi.expo[0] % chi.order; c3 != 0 {
		for x := uint64(3); x < nv; x += 4 {
			v[x] = utils.AddMod(v[x], c3, chi.order)
		}
	}

	if G.neven < 2 {
		return
	}

	c1 := chi.expo[1] % chi.order
	if c1 == 0 {
		return
	}

	pe := G.comps[1].PE
	vx := c1
	// x runs over the powers of 5 mod 2^e, -x has the same log
	for x := uint64(5) % pe; x != 1; x = utils.MulMod(x, 5, pe) {
		for y := x; y < nv; y += pe {
			v[y] = utils.AddMod(v[y], vx, chi.order)
		}
		for y := pe - x; y < nv; y += pe {
			v[y] = utils.AddMod(v[y], vx, chi.order)
		}
		vx = utils.AddMod(vx, c1, chi.order)
	}
}

// ChiVecSieve computes chi at the primes below nv and extends it
// multiplicatively.
func ChiVecSieve(chi *Char, nv int) []uint64 {
	G := chi.x.g
	v := make([]uint64, nv)
	if G.q == 1 {
		return v
	}
	dlog.VecFill(v, Null)
	if nv > 1 {
		v[1] = 0
	}

	n := uint64(nv)
	if n > G.q {
		n = G.q
	}

	// smallest prime factor of every k < n
	spf := make([]uint64, n)
	for p := uint64(2); p < n; p++ {
		if spf[p] != 0 {
			continue
		}
		for k := p; k < n; k += p {
			if spf[k] == 0 {
				spf[k] = p
			}
		}
		v[p] = chi.Chi(p)
	}

	for k := uint64(2); k < n; k++ {
		p := spf[k]
		if p == k {
			continue
		}
		if v[p] == Null || v[k/p] == Null {
			v[k] = Null
			continue
		}
		v[k] = utils.AddMod(v[p], v[k/p], chi.order)
	}

	periodize(v, G.q)
	return v
}

// setNull sets to Null the entries of v at multiples of the primes dividing q.
func setNull(v []uint64, G *Group) {
	for _, p := range G.primes {
		for k := 0; k < len(v); k += int(p) {
			v[k] = Null
		}
	}
}

// periodize copies v[k - q] into v[k] for k >= q.
func periodize(v []uint64, q uint64) {
	for k := q; k < uint64(len(v)); k++ {
		v[k] = v[k-q]
	}
}
