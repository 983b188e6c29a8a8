package zeros

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
)

// node is an evaluation v = Z(t) in a doubly linked list of increasing
// heights. The sign of v is always known.
type node struct {
	iso    *Isolator
	t      *big.Float
	v      *arb.Real
	gram   int64
	isGram bool
	prec   uint
	prev   *node
	next   *node
}

func (p *node) sign() int {
	s := p.v.Sign()
	if s == 0 {
		panic(fmt.Errorf("zeros: sign of Z(%s) is not determined", p.t.Text('g', 20)))
	}
	return s
}

// isGoodGram returns true for a Gram point g_n with (-1)^n Z(g_n) > 0.
func (p *node) isGoodGram() bool {
	if !p.isGram {
		return false
	}
	return (p.sign() > 0) == (p.gram%2 == 0)
}

// refine evaluates Z(t) again at a higher precision.
func (p *node) refine() error {
	if p.iso.prec != 0 {
		return fmt.Errorf("cannot refine Z(%s) beyond %d bits", p.t.Text('g', 20), p.iso.prec)
	}
	prec := p.prec * 2
	if def := uint(p.t.MinPrec()) + 8; p.prec < def {
		prec = def
	}
	v, prec, err := p.iso.definiteZ(p.t, prec)
	if err != nil {
		return err
	}
	p.v, p.prec = v, prec
	return nil
}

// newNode evaluates Z at t.
func (iso *Isolator) newNode(t *big.Float) (*node, error) {
	v, prec, err := iso.definiteZ(t, uint(t.MinPrec())+8)
	if err != nil {
		return nil, err
	}
	return &node{iso: iso, t: t, v: v, prec: prec}, nil
}

// newGramNode evaluates Z at the Gram point g_n. The height stored is the
// midpoint of an enclosure of g_n on which Z does not vanish, so no zero
// lies between the stored height and g_n.
func (iso *Isolator) newGramNode(n int64) (*node, error) {
	nb := uint(bits.Len64(absInt64(n)))
	prec, limit := iso.precRange(nb+8, nb+64)
	for {
		// a sharper Gram point keeps the propagated error on Z small
		g, err := GramPoint(n, prec+nb)
		if err != nil {
			return nil, err
		}
		v := iso.eval(g, prec)
		if !v.ContainsZero() {
			return &node{iso: iso, t: g.Mid(), v: v, gram: n, isGram: true, prec: prec}, nil
		}
		if prec >= limit {
			log.Warnf("newGramNode: Z(g_%d) still contains zero at %d bits", n, prec)
			return nil, fmt.Errorf("cannot determine the sign of Z(g_%d) at %d bits", n, prec)
		}
		prec *= 2
		log.Debugf("newGramNode: raising precision of Z(g_%d) to %d bits", n, prec)
	}
}

// definiteZ evaluates Z(t) at the exact height t, raising the precision
// until its sign is known.
func (iso *Isolator) definiteZ(t *big.Float, prec uint) (*arb.Real, uint, error) {
	x := arb.NewRealBig(t)
	prec, limit := iso.precRange(prec, utils.Max(uint(t.MinPrec()), prec)+64)
	for {
		v := iso.eval(x, prec)
		if !v.ContainsZero() {
			return v, prec, nil
		}
		if prec >= limit {
			log.Warnf("definiteZ: Z(%s) still contains zero at %d bits", t.Text('g', 20), prec)
			return nil, prec, fmt.Errorf("cannot determine the sign of Z(%s) at %d bits", t.Text('g', 20), prec)
		}
		prec *= 2
		log.Debugf("definiteZ: raising precision to %d bits", prec)
	}
}

// link inserts q after p.
func link(p, q *node) {
	q.prev, q.next = p, p.next
	if p.next != nil {
		p.next.prev = q
	}
	p.next = q
}

// countGramIntervals returns the number of Gram intervals between the good
// Gram points a and b.
func countGramIntervals(a, b *node) int64 {
	if !a.isGoodGram() || !b.isGoodGram() {
		panic("zeros: Gram intervals counted between nodes that are not good Gram points")
	}
	return b.gram - a.gram
}

// countSignChanges returns the number of sign changes of Z from a to b.
func countSignChanges(a, b *node) (n int64) {
	for p := a; p != b; p = p.next {
		if p.next == nil {
			panic("zeros: reached the end of the list before the last node")
		}
		if p.sign() != p.next.sign() {
			n++
		}
	}
	return
}

// extendNext appends Gram points after the last node p until a good one is
// found, and returns it.
func extendNext(p *node) (*node, error) {
	if !p.isGram || p.next != nil {
		panic("zeros: the list must be extended from a Gram point at its end")
	}
	q := p
	for {
		r, err := p.iso.newGramNode(q.gram + 1)
		if err != nil {
			return nil, err
		}
		link(q, r)
		if q = r; q.isGoodGram() {
			return q, nil
		}
	}
}

// extendPrev prepends Gram points before the first node p until a good one
// is found, and returns it.
func extendPrev(p *node) (*node, error) {
	if !p.isGram || p.prev != nil {
		panic("zeros: the list must be extended from a Gram point at its start")
	}
	q := p
	for {
		r, err := p.iso.newGramNode(q.gram - 1)
		if err != nil {
			return nil, err
		}
		r.next, q.prev = q, r
		if q = r; q.isGoodGram() {
			return q, nil
		}
	}
}

// weightedMean returns (x1 w1 + x2 w2)/(w1 + w2) for nonnegative weights.
// If both weights are zero the result contains x1 and x2.
func weightedMean(x1, x2 *big.Float, w1, w2 *arb.Real, prec uint) *arb.Real {
	switch {
	case !w1.IsNonNegative() || !w2.IsNonNegative():
		return arb.Indeterminate()
	case w1.IsZero() && w2.IsZero():
		return new(arb.Real).SetInterval(x1, x2, prec)
	case w1.IsZero():
		return arb.NewRealBig(x2)
	case w2.IsZero():
		return arb.NewRealBig(x1)
	case w1.IsExact() && w2.IsExact():
		a := new(arb.Real).Mul(w1, arb.NewRealBig(x1), prec)
		a.Add(a, new(arb.Real).Mul(w2, arb.NewRealBig(x2), prec), prec)
		b := new(arb.Real).Add(w1, w2, prec)
		return a.Div(a, b, prec)
	}

	r1 := weightedMean(x1, x2, lowerNonNegative(w1, prec), arb.NewRealBig(w2.Upper(prec)), prec)
	r2 := weightedMean(x1, x2, arb.NewRealBig(w1.Upper(prec)), lowerNonNegative(w2, prec), prec)
	return new(arb.Real).Union(r1, r2, prec)
}

func lowerNonNegative(x *arb.Real, prec uint) *arb.Real {
	lo := x.Lower(prec)
	if lo.Sign() < 0 {
		lo.SetInt64(0)
	}
	return arb.NewRealBig(lo)
}

// splitPoint guesses a height between t1 and t2 at which Z might take a sign
// different from its signs at t1 and t2. For equal signs it is the vertex of
// a parabola touching zero between the two points, otherwise the midpoint.
func splitPoint(t1 *big.Float, v1 *arb.Real, s1 int, t2 *big.Float, v2 *arb.Real, s2 int, prec uint) *arb.Real {
	if s1 == s2 {
		w1 := new(arb.Real).Abs(v2)
		w1.Sqrt(w1, prec)
		w2 := new(arb.Real).Abs(v1)
		w2.Sqrt(w2, prec)
		return weightedMean(t1, t2, w1, w2, prec)
	}
	m := arb.NewRealBig(t1)
	m.Add(m, arb.NewRealBig(t2), prec)
	return m.Mul2Exp(m, -1)
}

// intercalate inserts a new evaluation between each pair of adjacent nodes
// from the good Gram point a to the good Gram point b.
func intercalate(a, b *node) error {
	if !a.isGoodGram() || !b.isGoodGram() {
		panic("zeros: intercalation between nodes that are not good Gram points")
	}
	for q := a; q != b; {
		r := q.next
		if r == nil {
			panic("zeros: reached the end of the list before the last node")
		}

		var m *arb.Real
		for {
			m = splitPoint(q.t, q.v, q.sign(), r.t, r.v, r.sign(), utils.Min(q.prec, r.prec))
			if !m.ContainsBig(q.t) && !m.ContainsBig(r.t) {
				break
			}
			p := r
			if q.prec < r.prec {
				p = q
			}
			if err := p.refine(); err != nil {
				return err
			}
		}

		mid, err := q.iso.newNode(m.Mid())
		if err != nil {
			return err
		}
		link(q, mid)
		q = r
	}
	return nil
}

// intercalateUntil intercalates between a and b until the number of sign
// changes reaches the number of Gram intervals, at most tries times.
// A negative tries does not bound the number of passes, except at a fixed
// precision where it stands for fixedPrecPasses.
func intercalateUntil(a, b *node, tries int) (bool, error) {
	if tries < 0 && a.iso.prec != 0 {
		tries = fixedPrecPasses
	}
	zn := countGramIntervals(a, b)
	for i := 0; tries < 0 || i < tries; i++ {
		if countSignChanges(a, b) >= zn {
			break
		}
		if err := intercalate(a, b); err != nil {
			return false, err
		}
	}
	return countSignChanges(a, b) >= zn, nil
}

// trim skips k good Gram blocks from both ends of the sublist a..b.
func trim(a, b *node, k int64) (*node, *node) {
	for n := int64(0); n < k; n++ {
		for a = a.next; !a.isGoodGram(); a = a.next {
		}
		for b = b.prev; !b.isGoodGram(); b = b.prev {
		}
	}
	return a, b
}
