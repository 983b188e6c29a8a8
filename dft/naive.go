package dft

import (
	"github.com/tuneinsight/dirichlet/arb"
)

// Naive is the quadratic DFT w_j = sum_k v_k z^(jk).
type Naive struct {
	n int
	z []arb.Complex
}

// NewNaive returns a quadratic DFT of length n.
func NewNaive(n int, prec uint) *Naive {
	return &Naive{n: n, z: Roots(n, prec)}
}

// Len returns the length of the transform.
func (t *Naive) Len() int {
	return t.n
}

// Apply writes the DFT of v into w.
func (t *Naive) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)
	n := t.n
	if n == 0 {
		return
	}
	out := make([]arb.Complex, n)
	tmp := new(arb.Complex)
	for j := 0; j < n; j++ {
		out[j].Set(&v[0])
		for k, jk := 1, j; k < n; k++ {
			tmp.Mul(&v[k], &t.z[jk], prec)
			out[j].Add(&out[j], tmp, prec)
			if jk += j; jk >= n {
				jk -= n
			}
		}
	}
	for j := range out {
		w[j].Set(&out[j])
	}
}
