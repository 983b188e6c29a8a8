package zeros

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/dirichlet/arb"
)

// Interval is an open interval (A, B) of heights containing exactly one zero
// of the Hardy Z function, at which Z changes sign.
type Interval struct {
	A, B *big.Float
}

// TuringBound returns the number of consecutive good Gram blocks that
// Turing's method requires around the Gram point g_p:
//
//	ceil(min(0.0061 L^2 + 0.08 L, 0.0031 L^2 + 0.11 L)), L = log g_p.
func TuringBound(p int64) (int64, error) {
	const prec = 64
	g, err := GramPoint(p, prec)
	if err != nil {
		return 0, err
	}
	l := new(arb.Real).Log(g, prec)
	l2 := new(arb.Real).Sqr(l, prec)

	poly := func(a, b int64) *big.Float {
		x := new(arb.Real).Mul(l2, new(arb.Real).SetFrac(a, 10000, prec), prec)
		x.Add(x, new(arb.Real).Mul(l, new(arb.Real).SetFrac(b, 100, prec), prec), prec)
		return x.Upper(prec)
	}
	m := poly(61, 8)
	if b := poly(31, 11); b.Cmp(m) < 0 {
		m = b
	}

	n, acc := m.Int64()
	if acc == big.Below {
		n++
	}
	return n, nil
}

// turingSearchNear finds a run of sb consecutive good blocks above and below
// the n-th zero, with sb the Turing bound at the upper end. It returns the
// first node of the lower run and the last node of the upper run.
func (iso *Isolator) turingSearchNear(n int64) (u, v *node, sb int64, err error) {
	if u, err = iso.newGramNode(n - 2); err != nil {
		return
	}
	if v, err = iso.newGramNode(n - 1); err != nil {
		return
	}
	link(u, v)

	if !u.isGoodGram() {
		if u, err = extendPrev(u); err != nil {
			return
		}
	}
	if !v.isGoodGram() {
		if v, err = extendNext(v); err != nil {
			return
		}
	}

	var cgb int64
	for {
		var nv *node
		if nv, err = extendNext(v); err != nil {
			return
		}
		var good bool
		if good, err = intercalateUntil(v, nv, loopCount); err != nil {
			return
		}
		v = nv
		if !good {
			cgb = 0
			continue
		}
		if cgb++; cgb > sb {
			sb = cgb
			var tb int64
			if tb, err = TuringBound(nv.gram); err != nil {
				return
			}
			if tb <= sb {
				break
			}
		}
	}

	cgb = 0
	for {
		var pu *node
		if pu, err = extendPrev(u); err != nil {
			return
		}
		var good bool
		if good, err = intercalateUntil(pu, u, loopCount); err != nil {
			return
		}
		u = pu
		if !good {
			cgb = 0
			continue
		}
		if cgb++; cgb == sb {
			break
		}
	}
	return
}

// turingSearchFar extends u and v outwards until twice as many consecutive
// good blocks as the Turing bound are found on both sides. initial is the
// number of consecutive good blocks already known next to u and v. The
// returned sb is half the number of blocks in each run.
func (iso *Isolator) turingSearchFar(u, v *node, initial int64) (*node, *node, int64, error) {
	var sb int64
	cgb := initial
	for {
		nv, err := extendNext(v)
		if err != nil {
			return nil, nil, 0, err
		}
		good, err := intercalateUntil(v, nv, loopCount)
		if err != nil {
			return nil, nil, 0, err
		}
		v = nv
		if !good {
			cgb = 0
			continue
		}
		if cgb++; cgb%2 == 0 && sb < cgb/2 {
			sb = cgb / 2
			tb, err := TuringBound(nv.gram)
			if err != nil {
				return nil, nil, 0, err
			}
			if tb <= sb {
				break
			}
		}
	}

	cgb = initial
	for {
		pu, err := extendPrev(u)
		if err != nil {
			return nil, nil, 0, err
		}
		good, err := intercalateUntil(pu, u, loopCount)
		if err != nil {
			return nil, nil, 0, err
		}
		u = pu
		if !good {
			cgb = 0
			continue
		}
		if cgb++; cgb == 2*sb {
			break
		}
	}
	return u, v, sb, nil
}

// separatedTuring returns good Gram points U < V around the n-th zero such
// that the sign changes of Z between them account for every zero, as
// certified by Turing's method.
func (iso *Isolator) separatedTuring(n int64) (U, V *node, err error) {
	u, v, sbNear, err := iso.turingSearchNear(n)
	if err != nil {
		return nil, nil, err
	}

	U, V = trim(u, v, sbNear)
	if _, err = intercalateUntil(U, V, loopCount); err != nil {
		return nil, nil, err
	}
	zn, variations := countGramIntervals(U, V), countSignChanges(U, V)
	if variations > zn {
		return nil, nil, fmt.Errorf("found %d sign changes of Z in %d Gram intervals", variations, zn)
	}
	if variations == zn {
		return U, V, nil
	}

	// a bad block is left: search twice as far
	r, s := U, V
	u, v, sbFar, err := iso.turingSearchFar(u, v, sbNear)
	if err != nil {
		return nil, nil, err
	}
	U, V = trim(u, v, 2*sbFar)
	zn = countGramIntervals(U, V)
	for i := 0; i < loopCount && countSignChanges(U, V) < zn; i++ {
		if err = intercalate(U, r); err != nil {
			return nil, nil, err
		}
		if err = intercalate(s, V); err != nil {
			return nil, nil, err
		}
	}
	if variations = countSignChanges(U, V); variations > zn {
		return nil, nil, fmt.Errorf("found %d sign changes of Z in %d Gram intervals", variations, zn)
	}
	if variations == zn {
		return U, V, nil
	}

	U, V = trim(u, v, sbFar)
	if _, err = intercalateUntil(U, V, -1); err != nil {
		return nil, nil, err
	}
	if zn, variations = countGramIntervals(U, V), countSignChanges(U, V); variations != zn {
		return nil, nil, fmt.Errorf("found %d sign changes of Z in %d Gram intervals", variations, zn)
	}
	return U, V, nil
}

// separatedRosser returns the good Gram points around the n-th zero, with
// every zero between them located by a sign change. Rosser's rule
// guarantees that the search terminates.
func (iso *Isolator) separatedRosser(n int64) (u, v *node, err error) {
	if u, v, err = iso.separatedGram(n); err != nil {
		return
	}
	if !u.isGoodGram() {
		if u, err = extendPrev(u); err != nil {
			return
		}
	}
	if !v.isGoodGram() {
		if v, err = extendNext(v); err != nil {
			return
		}
	}
	_, err = intercalateUntil(u, v, -1)
	return
}

// separatedGram returns the Gram points g_(n-2) and g_(n-1), which enclose
// the n-th zero under Gram's law.
func (iso *Isolator) separatedGram(n int64) (u, v *node, err error) {
	if u, err = iso.newGramNode(n - 2); err != nil {
		return
	}
	if v, err = iso.newGramNode(n - 1); err != nil {
		return
	}
	link(u, v)
	return
}

// separated returns good Gram points U < V around the n-th zero between
// which every zero of Z is located by a sign change.
func (iso *Isolator) separated(n int64) (U, V *node, err error) {
	switch {
	case n < 1:
		return nil, nil, fmt.Errorf("%w: zero index %d < 1", ErrInvalidArgument, n)
	case n <= gramsLawMax:
		U, V, err = iso.separatedGram(n)
	case n <= rossersRuleMax:
		U, V, err = iso.separatedRosser(n)
	default:
		U, V, err = iso.separatedTuring(n)
	}
	if err != nil {
		return nil, nil, err
	}
	if U == V || !U.isGoodGram() || !V.isGoodGram() {
		panic("zeros: separated list must span at least one interval between good Gram points")
	}
	return
}

// countUp walks the separated list U..V and returns the isolating intervals
// of the zeros n, n+1, ..., stopping after length zeros or at V.
func countUp(U, V *node, n int64, length int) (res []Interval) {
	N, k := U.gram+1, n
	for p := U; p != V && len(res) < length; p = p.next {
		if p.next == nil {
			panic("zeros: reached the end of the list before the last node")
		}
		if p.sign() != p.next.sign() {
			if N++; N == k {
				res = append(res, Interval{A: p.t, B: p.next.t})
				k++
			}
		}
	}
	return
}

// IsolateHardyZZeros returns isolating intervals of the zeros with indices
// n, n+1, ..., n+length-1 of the Hardy Z function, in increasing order.
func IsolateHardyZZeros(n int64, length int) ([]Interval, error) {
	return hardyZ.IsolateZeros(n, length)
}

// IsolateZeros returns isolating intervals of the zeros with indices n, n+1,
// ..., n+length-1 of the Hardy Z function, in increasing order. On error the
// intervals isolated so far are returned with it.
func (iso *Isolator) IsolateZeros(n int64, length int) ([]Interval, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: zero index %d < 1", ErrInvalidArgument, n)
	}
	res := make([]Interval, 0, length)
	for len(res) < length {
		k := n + int64(len(res))
		U, V, err := iso.separated(k)
		if err != nil {
			return res, fmt.Errorf("cannot isolate zero %d: %w", k, err)
		}
		found := countUp(U, V, k, length-len(res))
		if len(found) == 0 {
			return res, fmt.Errorf("cannot isolate zero %d: no sign change between g_%d and g_%d", k, U.gram, V.gram)
		}
		res = append(res, found...)
	}
	return res, nil
}

// IsolateHardyZZero returns an interval containing the n-th zero of the
// Hardy Z function and no other zero.
func IsolateHardyZZero(n int64) (Interval, error) {
	res, err := IsolateHardyZZeros(n, 1)
	if err != nil {
		return Interval{}, err
	}
	return res[0], nil
}
