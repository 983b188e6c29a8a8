// Package dft implements discrete Fourier transforms and circular convolutions
// of vectors of complex balls.
//
// The forward transform of v is w_j = sum_k v_k z^(jk) with z = exp(-2 pi i / n).
// The inverse transform divides by n.
package dft

import (
	"fmt"
	"sync"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// Transform is a precomputed DFT of a fixed length.
// Apply writes the forward DFT of v into w; w and v may alias.
type Transform interface {
	Len() int
	Apply(w, v []arb.Complex, prec uint)
}

// Below this length the quadratic transform is used.
const naiveCutoff = 8

// Above this length prime transforms go through Bluestein.
const bluesteinCutoff = 64

type rootsKey struct {
	n    int
	prec uint
}

var rootsCache sync.Map

// Roots returns the n roots z^k = exp(-2 pi i k / n), k = 0..n-1.
// The returned slice is shared and must not be modified.
func Roots(n int, prec uint) []arb.Complex {
	key := rootsKey{n, prec}
	if z, ok := rootsCache.Load(key); ok {
		return z.([]arb.Complex)
	}

	z := make([]arb.Complex, n)
	if n > 0 {
		z[0].One()
	}
	x := new(arb.Real)
	for k := 1; 2*k <= n; k++ {
		x.SetFrac(-2*int64(k), int64(n), prec+8)
		z[k].ExpPiI(x, prec)
		z[n-k].Conj(&z[k])
	}

	rootsCache.Store(key, z)
	return z
}

// Precomp is a DFT of length n whose backend is chosen once at creation.
type Precomp struct {
	Transform
	prec uint
}

// NewPrecomp returns a DFT of length n working at precision prec.
func NewPrecomp(n int, prec uint) *Precomp {
	if n < 0 {
		panic(fmt.Errorf("cannot NewPrecomp: negative length %d", n))
	}
	return &Precomp{Transform: newTransform(n, prec), prec: prec}
}

// Prec returns the working precision of the transform.
func (p *Precomp) Prec() uint {
	return p.prec
}

// Forward writes the DFT of v into w.
func (p *Precomp) Forward(w, v []arb.Complex) {
	p.Apply(w, v, p.prec)
}

// Inverse writes the inverse DFT of v into w.
func (p *Precomp) Inverse(w, v []arb.Complex) {
	inverse(p.Transform, w, v, p.prec)
}

// DFT returns the forward transform of v.
func DFT(v []arb.Complex, prec uint) []arb.Complex {
	w := make([]arb.Complex, len(v))
	newTransform(len(v), prec).Apply(w, v, prec)
	return w
}

// InverseDFT returns the inverse transform of v.
func InverseDFT(v []arb.Complex, prec uint) []arb.Complex {
	w := make([]arb.Complex, len(v))
	inverse(newTransform(len(v), prec), w, v, prec)
	return w
}

func inverse(t Transform, w, v []arb.Complex, prec uint) {
	n := t.Len()
	tmp := make([]arb.Complex, n)
	for i := range tmp {
		tmp[i].Conj(&v[i])
	}
	t.Apply(tmp, tmp, prec)
	for i := range tmp {
		w[i].Conj(&tmp[i])
		w[i].DivInt64(&w[i], int64(n), prec)
	}
}

// newTransform selects the backend for a length n.
func newTransform(n int, prec uint) Transform {
	switch {
	case n <= naiveCutoff:
		return NewNaive(n, prec)
	case utils.IsPowerOfTwo(uint(n)):
		return NewRad2(n, prec)
	}

	factors := factorization.FactorUint64(uint64(n))

	switch {
	case len(factors) > 1:
		return NewCRT(n, prec)
	case factors[0].E > 1:
		return NewCyclic(n, prec)
	case n < bluesteinCutoff:
		return NewNaive(n, prec)
	default:
		return NewBluestein(n, prec)
	}
}

func checkLen(t Transform, w, v []arb.Complex) {
	if len(w) < t.Len() || len(v) < t.Len() {
		panic(fmt.Errorf("invalid vector length: expected %d but have %d and %d", t.Len(), len(w), len(v)))
	}
}
