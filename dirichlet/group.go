// Package dirichlet implements the group of Dirichlet characters modulo q,
// indexed by Conrey numbers, together with their values, vectors of values,
// Gauss sums, Jacobi sums and theta series.
//
// The group (Z/qZ)^* is decomposed into cyclic components: at most two for
// the 2-part (generated by -1 and 5) and one per odd prime power, generated
// by a primitive root valid modulo p^2. A Conrey number m is stored as its
// vector of logarithms on these generators.
package dirichlet

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tuneinsight/dirichlet/dlog"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// ErrInvalidArgument is returned for moduli, indices or divisors that do not
// fit the operation.
var ErrInvalidArgument = errors.New("invalid argument")

// Null is the value of a character at a residue that is not a unit.
const Null = dlog.None

// MaxModulus bounds the moduli accepted by NewGroup.
const MaxModulus = uint64(1) << 62

type componentKind int

const (
	kindMinusOne = componentKind(iota)
	kindFive
	kindOdd
)

// Component is a cyclic factor of (Z/qZ)^*.
type Component struct {
	P   uint64 // prime
	E   int    // exponent of P in q
	PE  uint64 // P^E
	Phi uint64 // order of the generator
	G   uint64 // generator modulo PE
	Gen uint64 // generator lifted modulo q, equal to 1 on the other components

	kind componentKind
	dlog dlog.Context
}

// log returns the discrete logarithm of the unit m on the component.
func (c *Component) log(m uint64) uint64 {
	m %= c.PE
	switch c.kind {
	case kindMinusOne:
		if m%4 == 3 {
			return 1
		}
		return 0
	case kindFive:
		if m%4 == 3 {
			m = c.PE - m
		}
	}
	x, err := c.dlog.Log(m)
	if err != nil {
		// units always have a log on their component
		panic(fmt.Errorf("cannot log %d mod %d: %w", m, c.PE, err))
	}
	return x
}

// Group is the group of Dirichlet characters modulo q.
// A Group is immutable and safe for concurrent use.
type Group struct {
	q       uint64
	qEven   uint64
	qOdd    uint64
	e2      int
	neven   int
	phi     uint64
	expo    uint64
	primes  []uint64
	comps   []Component
	cofacts []uint64 // expo / Phi_k
}

// NewGroup returns the group of characters modulo q.
func NewGroup(q uint64) (G *Group, err error) {

	if q == 0 || q > MaxModulus {
		return nil, fmt.Errorf("cannot NewGroup: modulus %d out of range [1, 2^62]: %w", q, ErrInvalidArgument)
	}

	G = &Group{q: q, phi: 1, expo: 1}

	factors := factorization.FactorUint64(q)

	G.qEven, G.qOdd = 1, q
	if len(factors) > 0 && factors[0].P == 2 {
		G.e2 = factors[0].E
		G.qEven = uint64(1) << G.e2
		G.qOdd = q >> G.e2
		factors = factors[1:]
		G.primes = append(G.primes, 2)
	}

	switch {
	case G.e2 >= 3:
		G.neven = 2
		G.comps = append(G.comps,
			Component{P: 2, E: G.e2, PE: G.qEven, Phi: 2, G: G.qEven - 1, kind: kindMinusOne},
			Component{P: 2, E: G.e2, PE: G.qEven, Phi: G.qEven >> 2, G: 5, kind: kindFive})
	case G.e2 == 2:
		G.neven = 1
		G.comps = append(G.comps, Component{P: 2, E: 2, PE: 4, Phi: 2, G: 3, kind: kindMinusOne})
	}

	for _, f := range factors {
		pe, _ := factorization.Power(f.P, f.E)
		G.primes = append(G.primes, f.P)
		G.comps = append(G.comps, Component{
			P:    f.P,
			E:    f.E,
			PE:   pe,
			Phi:  pe / f.P * (f.P - 1),
			G:    factorization.PrimitiveRootPrimePower(f.P, 2) % pe,
			kind: kindOdd,
		})
	}

	for k := range G.comps {
		c := &G.comps[k]

		G.phi *= c.Phi
		G.expo = utils.LCM(G.expo, c.Phi)

		// generator lifted as 1 + (g - 1) (q/pe) ((q/pe)^-1 mod pe)
		cof := q / c.PE
		v, _ := utils.InvMod(cof%c.PE, c.PE)
		c.Gen = (1 + utils.MulMod(utils.MulMod(c.G+q-1, v, q), cof, q)) % q

		switch {
		case c.kind == kindFive:
			c.dlog, err = dlog.NewPrecomp(5, c.PE, c.Phi, 1)
		case c.kind == kindOdd && c.E > 1 && c.PE >= dlog.TableLimit:
			c.dlog, err = dlog.NewModPe(c.G, c.P, c.E, 1)
		case c.kind == kindOdd:
			c.dlog, err = dlog.NewPrecomp(c.G, c.PE, c.Phi, 1)
		}

		if err != nil {
			return nil, fmt.Errorf("cannot NewGroup: component %d^%d: %w", c.P, c.E, err)
		}
	}

	G.cofacts = make([]uint64, len(G.comps))
	for k := range G.comps {
		G.cofacts[k] = G.expo / G.comps[k].Phi
	}

	return
}

// Q returns the modulus.
func (G *Group) Q() uint64 {
	return G.q
}

// Size returns the number of characters, phi(q).
func (G *Group) Size() uint64 {
	return G.phi
}

// Exponent returns the exponent of the group, the lcm of the component orders.
func (G *Group) Exponent() uint64 {
	return G.expo
}

// Num returns the number of cyclic components.
func (G *Group) Num() int {
	return len(G.comps)
}

// NumEven returns the number of components of the 2-part (0, 1 or 2).
func (G *Group) NumEven() int {
	return G.neven
}

// Primes returns the distinct primes dividing q, in increasing order.
func (G *Group) Primes() []uint64 {
	return append([]uint64(nil), G.primes...)
}

// Components returns a copy of the cyclic components.
func (G *Group) Components() []Component {
	return append([]Component(nil), G.comps...)
}

// Cofactors returns Exponent()/Phi_k for every component.
func (G *Group) Cofactors() []uint64 {
	return append([]uint64(nil), G.cofacts...)
}

// Equal returns true if both groups have the same modulus and generators.
func (G *Group) Equal(H *Group) bool {
	return G.q == H.q && cmp.Equal(G.comps, H.comps, cmpopts.IgnoreUnexported(Component{}))
}

// Subgroup returns the group of characters modulo a divisor h of q.
// Its generators are the ones of G restricted modulo h.
func (G *Group) Subgroup(h uint64) (*Group, error) {
	if h == 0 || G.q%h != 0 {
		return nil, fmt.Errorf("cannot Subgroup: %d does not divide %d: %w", h, G.q, ErrInvalidArgument)
	}
	if h == G.q {
		return G, nil
	}
	return NewGroup(h)
}

// NumPrimitive returns the number of primitive characters modulo q.
func (G *Group) NumPrimitive() uint64 {
	if G.e2 == 1 {
		return 0
	}
	n := uint64(1)
	for k := range G.comps {
		n *= G.numAllowed(k)
	}
	return n
}

// IsUnit returns true if m is invertible modulo q.
func (G *Group) IsUnit(m uint64) bool {
	return utils.GCD(m, G.q) == 1
}

// Conductor returns the conductor of the character of Conrey number m.
func (G *Group) Conductor(m uint64) (uint64, error) {
	x, err := G.NewIndex(m)
	if err != nil {
		return 0, err
	}
	return x.Conductor(), nil
}

// Parity returns the parity of the character of Conrey number m.
func (G *Group) Parity(m uint64) (int, error) {
	x, err := G.NewIndex(m)
	if err != nil {
		return 0, err
	}
	return x.Parity(), nil
}

// Order returns the order of the character of Conrey number m.
func (G *Group) Order(m uint64) (uint64, error) {
	x, err := G.NewIndex(m)
	if err != nil {
		return 0, err
	}
	return x.Order(), nil
}

// logs writes into log the component logarithms of the unit m.
func (G *Group) logs(log []uint64, m uint64) {
	for k := range G.comps {
		log[k] = G.comps[k].log(m)
	}
}

// exp returns the Conrey number with the given component logarithms.
func (G *Group) exp(log []uint64) uint64 {
	if G.q == 1 {
		return 1
	}
	n := uint64(1)
	for k := range G.comps {
		n = utils.MulMod(n, utils.PowMod(G.comps[k].Gen, log[k], G.q), G.q)
	}
	return n
}

// free reports whether the component k puts no constraint on primitivity.
// This is the -1 component when 8 divides q.
func (G *Group) free(k int) bool {
	return G.neven == 2 && k == 0
}

// allowed reports whether a primitive character can have log v on component k.
func (G *Group) allowed(k int, v uint64) bool {
	return G.free(k) || v%G.comps[k].P != 0
}

// firstAllowed returns the smallest log on component k compatible with primitivity.
func (G *Group) firstAllowed(k int) uint64 {
	if G.free(k) {
		return 0
	}
	return 1
}

// numAllowed returns the number of logs on component k compatible with primitivity.
func (G *Group) numAllowed(k int) uint64 {
	c := G.comps[k]
	if G.free(k) {
		return c.Phi
	}
	return c.Phi - (c.Phi+c.P-1)/c.P
}

// match returns the index of the component of H of the same kind and prime
// as the component k of G, or -1.
func (G *Group) match(k int, H *Group) int {
	for l := range H.comps {
		if H.comps[l].P == G.comps[k].P && H.comps[l].kind == G.comps[k].kind {
			return l
		}
	}
	return -1
}
