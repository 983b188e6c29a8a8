package dirichlet

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/dirichlet/utils"
)

// Char is a Dirichlet character given by its Conrey index and, for every
// component, the exponent expo_k such that chi(g_k) = exp(2 pi i expo_k / order).
//
// A normalized character has the smallest such order, which is the order of
// the character. A denormalized character uses the group exponent instead.
type Char struct {
	x         *Index
	expo      []uint64
	order     uint64
	parity    int
	conductor uint64
}

// NewChar returns the normalized character of Conrey number m.
func (G *Group) NewChar(m uint64) (*Char, error) {
	x, err := G.NewIndex(m)
	if err != nil {
		return nil, err
	}
	return CharFromIndex(x), nil
}

// CharFromIndex returns the normalized character of index x.
func CharFromIndex(x *Index) (chi *Char) {
	G := x.g
	chi = &Char{
		x:         x.CopyNew(),
		expo:      make([]uint64, len(G.comps)),
		order:     G.expo,
		parity:    x.Parity(),
		conductor: x.Conductor(),
	}
	for k := range chi.expo {
		chi.expo[k] = x.log[k] * G.cofacts[k]
	}
	return chi.Normalize()
}

// Group returns the group of the character.
func (chi *Char) Group() *Group {
	return chi.x.g
}

// AsIndex returns a copy of the Conrey index of the character.
func (chi *Char) AsIndex() *Index {
	return chi.x.CopyNew()
}

// Number returns the Conrey number of the character.
func (chi *Char) Number() uint64 {
	return chi.x.n
}

// Order returns the order in which the exponents are expressed.
func (chi *Char) Order() uint64 {
	return chi.order
}

// Expo returns a copy of the exponent vector.
func (chi *Char) Expo() []uint64 {
	return append([]uint64(nil), chi.expo...)
}

// Conductor returns the conductor of the character.
func (chi *Char) Conductor() uint64 {
	return chi.conductor
}

// Parity returns 0 for even and 1 for odd characters.
func (chi *Char) Parity() int {
	return chi.parity
}

// IsReal returns true if the character takes only real values.
func (chi *Char) IsReal() bool {
	return chi.x.IsReal()
}

// IsPrincipal returns true for the principal character.
func (chi *Char) IsPrincipal() bool {
	return chi.x.IsPrincipal()
}

// IsPrimitive returns true if the conductor equals the modulus.
func (chi *Char) IsPrimitive() bool {
	return chi.conductor == chi.x.g.q
}

// CopyNew returns a deep copy of the character.
func (chi *Char) CopyNew() *Char {
	return &Char{
		x:         chi.x.CopyNew(),
		expo:      chi.Expo(),
		order:     chi.order,
		parity:    chi.parity,
		conductor: chi.conductor,
	}
}

// Equal returns true if both characters have the same modulus, index and
// exponent representation.
func (chi *Char) Equal(other *Char) bool {
	return chi.x.Equal(other.x) && chi.order == other.order && cmp.Equal(chi.expo, other.expo)
}

// Normalize divides the exponents and the order by their common gcd.
func (chi *Char) Normalize() *Char {
	g := chi.order
	for _, e := range chi.expo {
		g = utils.GCD(g, e)
	}
	if g > 1 {
		for k := range chi.expo {
			chi.expo[k] /= g
		}
		chi.order /= g
	}
	return chi
}

// Denormalize expresses the exponents with respect to the group exponent.
func (chi *Char) Denormalize() *Char {
	G := chi.x.g
	f := G.expo / chi.order
	for k := range chi.expo {
		chi.expo[k] *= f
	}
	chi.order = G.expo
	return chi
}

// Mul returns the product of two characters of the same group.
func (chi *Char) Mul(other *Char) *Char {
	x := chi.x.g.One()
	return CharFromIndex(x.Mul(chi.x, other.x))
}

// Pow returns chi^e.
func (chi *Char) Pow(e uint64) *Char {
	x := chi.x.g.One()
	return CharFromIndex(x.Pow(chi.x, e))
}

// Conj returns the complex conjugate character.
func (chi *Char) Conj() *Char {
	x := chi.x.g.One()
	return CharFromIndex(x.Inverse(chi.x))
}

// Primitive returns the primitive character inducing chi, defined modulo
// the conductor.
func (chi *Char) Primitive() (*Char, error) {
	H, err := chi.x.g.Subgroup(chi.conductor)
	if err != nil {
		return nil, err
	}
	y, err := chi.x.Lower(H)
	if err != nil {
		return nil, err
	}
	return CharFromIndex(y), nil
}

// Lift returns the character modulo the multiple H.Q() of q induced by chi.
func (chi *Char) Lift(H *Group) (*Char, error) {
	y, err := chi.x.Lift(H)
	if err != nil {
		return nil, err
	}
	return CharFromIndex(y), nil
}

// Chi returns the exponent v in [0, Order()) such that
// chi(n) = exp(2 pi i v / Order()), or Null if n is not a unit.
func (chi *Char) Chi(n uint64) uint64 {
	G := chi.x.g
	if !G.IsUnit(n) {
		return Null
	}
	v := uint64(0)
	for k := range G.comps {
		l := G.comps[k].log(n % G.q)
		v = utils.AddMod(v, utils.MulMod(chi.expo[k], l, chi.order), chi.order)
	}
	return v
}

// String returns the LMFDB-style label q.n of the character.
func (chi *Char) String() string {
	return fmt.Sprintf("%d.%d", chi.x.g.q, chi.x.n)
}
