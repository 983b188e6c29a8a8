package dirichlet

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/dirichlet/utils"
)

// Index is a Conrey index: a unit n modulo q together with its logarithms
// on the generators of the group.
type Index struct {
	g   *Group
	n   uint64
	log []uint64
}

// One returns the index of the principal character.
func (G *Group) One() *Index {
	x := &Index{g: G, log: make([]uint64, len(G.comps))}
	return x.One()
}

// NewIndex returns the index of Conrey number m.
func (G *Group) NewIndex(m uint64) (*Index, error) {
	x := &Index{g: G, log: make([]uint64, len(G.comps))}
	if err := x.Set(m); err != nil {
		return nil, err
	}
	return x, nil
}

// Group returns the group of the index.
func (x *Index) Group() *Group {
	return x.g
}

// One sets x to the principal index.
func (x *Index) One() *Index {
	x.n = 1
	for k := range x.log {
		x.log[k] = 0
	}
	return x
}

// First sets x to the first primitive index in enumeration order.
// It returns an error if there is no primitive character modulo q.
func (x *Index) First() error {
	G := x.g
	if G.NumPrimitive() == 0 {
		return fmt.Errorf("cannot First: no primitive character modulo %d: %w", G.q, ErrInvalidArgument)
	}
	for k := range x.log {
		x.log[k] = G.firstAllowed(k)
	}
	x.n = G.exp(x.log)
	return nil
}

// Last sets x to the last index in enumeration order.
func (x *Index) Last() *Index {
	for k := range x.log {
		x.log[k] = x.g.comps[k].Phi - 1
	}
	x.n = x.g.exp(x.log)
	return x
}

// Set sets x to the Conrey number m, which must be coprime to q.
func (x *Index) Set(m uint64) error {
	G := x.g
	if !G.IsUnit(m) {
		return fmt.Errorf("cannot Set: %d is not a unit mod %d: %w", m, G.q, ErrInvalidArgument)
	}
	if G.q == 1 {
		x.n = 1
		return nil
	}
	x.n = m % G.q
	G.logs(x.log, x.n)
	return nil
}

// SetLog sets x from its component logarithms, reduced modulo the component orders.
func (x *Index) SetLog(log []uint64) *Index {
	for k := range x.log {
		x.log[k] = log[k] % x.g.comps[k].Phi
	}
	x.n = x.g.exp(x.log)
	return x
}

// Number returns the Conrey number.
func (x *Index) Number() uint64 {
	return x.n
}

// Log returns a copy of the component logarithms.
func (x *Index) Log() []uint64 {
	return append([]uint64(nil), x.log...)
}

// Rank returns the position of x in enumeration order, the mixed radix
// number whose digits are the logs, the last component being the least
// significant.
func (x *Index) Rank() uint64 {
	j := uint64(0)
	for k := range x.log {
		j = j*x.g.comps[k].Phi + x.log[k]
	}
	return j
}

// SetRank sets x to the index at position j < Size() in enumeration order.
func (x *Index) SetRank(j uint64) *Index {
	for k := len(x.log) - 1; k >= 0; k-- {
		phi := x.g.comps[k].Phi
		x.log[k] = j % phi
		j /= phi
	}
	x.n = x.g.exp(x.log)
	return x
}

// CopyNew returns a deep copy of x.
func (x *Index) CopyNew() *Index {
	return &Index{g: x.g, n: x.n, log: x.Log()}
}

// Equal returns true if x and y are the same index of the same group.
func (x *Index) Equal(y *Index) bool {
	return x.g.q == y.g.q && x.n == y.n
}

// Next moves x to the next index in enumeration order and returns the
// highest component (smallest position) that changed, or -1 after wrapping
// around to the principal index. The Conrey number is updated by
// multiplication with the generators.
func (x *Index) Next() int {
	G := x.g
	k := len(x.log) - 1
	for ; k >= 0; k-- {
		x.n = utils.MulMod(x.n, G.comps[k].Gen, G.q)
		x.log[k]++
		if x.log[k] < G.comps[k].Phi {
			break
		}
		x.log[k] = 0
	}
	return k
}

// NextPrimitive moves x to the next primitive index in enumeration order,
// with the same return convention as Next. x must be primitive.
func (x *Index) NextPrimitive() int {
	G := x.g
	if G.NumPrimitive() == 0 {
		return -1
	}
	k := len(x.log) - 1
	for ; k >= 0; k-- {
		c := G.comps[k]
		old := x.log[k]
		v := old + 1
		if !G.allowed(k, v) {
			v++
		}
		if v < c.Phi {
			x.log[k] = v
			x.n = utils.MulMod(x.n, utils.PowMod(c.Gen, v-old, G.q), G.q)
			break
		}
		v = G.firstAllowed(k)
		x.log[k] = v
		x.n = utils.MulMod(x.n, utils.PowMod(c.Gen, (c.Phi-old+v)%c.Phi, G.q), G.q)
	}
	return k
}

func (x *Index) checkGroup(y *Index) {
	if x.g.q != y.g.q {
		panic(fmt.Errorf("index modulus mismatch: %d != %d", x.g.q, y.g.q))
	}
}

// Mul sets x to the product a b.
func (x *Index) Mul(a, b *Index) *Index {
	x.checkGroup(a)
	x.checkGroup(b)
	G := x.g
	for k := range x.log {
		x.log[k] = utils.AddMod(a.log[k], b.log[k], G.comps[k].Phi)
	}
	x.n = utils.MulMod(a.n, b.n, utils.Max(G.q, 2))
	if G.q == 1 {
		x.n = 1
	}
	return x
}

// Pow sets x to a^e.
func (x *Index) Pow(a *Index, e uint64) *Index {
	x.checkGroup(a)
	G := x.g
	for k := range x.log {
		phi := G.comps[k].Phi
		x.log[k] = utils.MulMod(a.log[k], e%phi, phi)
	}
	x.n = G.exp(x.log)
	return x
}

// Inverse sets x to the inverse of a, the index of the conjugate character.
func (x *Index) Inverse(a *Index) *Index {
	x.checkGroup(a)
	G := x.g
	for k := range x.log {
		phi := G.comps[k].Phi
		x.log[k] = (phi - a.log[k]) % phi
	}
	x.n = G.exp(x.log)
	return x
}

// Lower returns the index modulo the divisor H.Q() of q inducing x.
// The conductor of x must divide H.Q().
func (x *Index) Lower(H *Group) (*Index, error) {
	G := x.g
	if H.q == 0 || G.q%H.q != 0 {
		return nil, fmt.Errorf("cannot Lower: %d does not divide %d: %w", H.q, G.q, ErrInvalidArgument)
	}
	y := &Index{g: H, log: make([]uint64, len(H.comps))}
	for k := range G.comps {
		l := G.match(k, H)
		if l < 0 {
			if x.log[k] != 0 {
				return nil, fmt.Errorf("cannot Lower: conductor of %d mod %d does not divide %d: %w", x.n, G.q, H.q, ErrInvalidArgument)
			}
			continue
		}
		ratio := G.comps[k].Phi / H.comps[l].Phi
		if x.log[k]%ratio != 0 {
			return nil, fmt.Errorf("cannot Lower: conductor of %d mod %d does not divide %d: %w", x.n, G.q, H.q, ErrInvalidArgument)
		}
		y.log[l] = x.log[k] / ratio
	}
	y.n = H.exp(y.log)
	return y, nil
}

// Lift returns the index modulo the multiple H.Q() of q induced by x.
func (x *Index) Lift(H *Group) (*Index, error) {
	G := x.g
	if H.q%G.q != 0 {
		return nil, fmt.Errorf("cannot Lift: %d does not divide %d: %w", G.q, H.q, ErrInvalidArgument)
	}
	y := &Index{g: H, log: make([]uint64, len(H.comps))}
	for k := range G.comps {
		l := G.match(k, H)
		y.log[l] = x.log[k] * (H.comps[l].Phi / G.comps[k].Phi)
	}
	y.n = H.exp(y.log)
	return y, nil
}

// Conductor returns the conductor of the character of index x.
func (x *Index) Conductor() uint64 {
	G := x.g
	cond := uint64(1)
	for k, c := range G.comps {
		switch c.kind {
		case kindMinusOne:
			// on 2^e, e >= 3, the 5 component determines the conductor unless trivial
			if x.log[k] == 1 && (G.neven == 1 || x.log[k+1] == 0) {
				cond *= 4
			}
		default:
			if x.log[k] != 0 {
				cond *= pow(c.P, c.E-valuation(x.log[k], c.P))
			}
		}
	}
	return cond
}

// Parity returns 0 if the character of index x is even and 1 if it is odd.
func (x *Index) Parity() int {
	odd := uint64(0)
	for k, c := range x.g.comps {
		if c.kind != kindFive {
			odd += x.log[k]
		}
	}
	return int(odd & 1)
}

// Order returns the order of the character of index x.
func (x *Index) Order() uint64 {
	order := uint64(1)
	for k, c := range x.g.comps {
		order = utils.LCM(order, c.Phi/utils.GCD(c.Phi, x.log[k]))
	}
	return order
}

// IsReal returns true if the character of index x is real valued.
func (x *Index) IsReal() bool {
	return x.Order() <= 2
}

// IsPrincipal returns true if x is the index of the principal character.
func (x *Index) IsPrincipal() bool {
	for _, v := range x.log {
		if v != 0 {
			return false
		}
	}
	return true
}

// IsPrimitive returns true if the character of index x is primitive.
func (x *Index) IsPrimitive() bool {
	if x.g.e2 == 1 {
		return false
	}
	for k := range x.log {
		if !x.g.allowed(k, x.log[k]) {
			return false
		}
	}
	return true
}

// Pairing returns the exponent v in [0, Exponent()) such that
// chi_a(b) = exp(2 pi i v / Exponent()), with chi_a the character of index a.
// The pairing is symmetric.
func Pairing(a, b *Index) uint64 {
	a.checkGroup(b)
	G := a.g
	v := uint64(0)
	for k := range G.comps {
		phi := G.comps[k].Phi
		t := utils.MulMod(a.log[k]%phi, b.log[k]%phi, phi)
		v = utils.AddMod(v, utils.MulMod(t, G.cofacts[k], G.expo), G.expo)
	}
	return v
}

// PairingNumbers returns the pairing of the Conrey numbers m and n, or Null
// if one of them is not a unit.
func (G *Group) PairingNumbers(m, n uint64) uint64 {
	if !G.IsUnit(m) || !G.IsUnit(n) {
		return Null
	}
	a, _ := G.NewIndex(m)
	b, _ := G.NewIndex(n)
	return Pairing(a, b)
}

// valuation returns the p-adic valuation of v > 0.
func valuation(v, p uint64) (e int) {
	if p == 2 {
		return bits.TrailingZeros64(v)
	}
	for v%p == 0 {
		v /= p
		e++
	}
	return
}

func pow(p uint64, e int) uint64 {
	return utils.PowUint(p, uint64(e))
}
