package dft

import (
	"github.com/tuneinsight/dirichlet/arb"
)

// Bluestein computes a DFT of any length n as a convolution of power-of-two
// length, with the chirp c_k = exp(-pi i k^2 / n).
type Bluestein struct {
	n     int
	chirp []arb.Complex
	rad2  *Rad2
	bhat  []arb.Complex
}

// NewBluestein returns a DFT of length n using Bluestein's algorithm.
func NewBluestein(n int, prec uint) *Bluestein {
	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	z := Roots(2*n, prec)
	chirp := make([]arb.Complex, n)
	for k := 0; k < n; k++ {
		chirp[k].Set(&z[(k*k)%(2*n)])
	}

	rad2 := NewRad2(m, prec)
	b := make([]arb.Complex, m)
	if n > 0 {
		b[0].Conj(&chirp[0])
	}
	for k := 1; k < n; k++ {
		b[k].Conj(&chirp[k])
		b[m-k].Conj(&chirp[k])
	}
	rad2.Apply(b, b, prec)

	return &Bluestein{n: n, chirp: chirp, rad2: rad2, bhat: b}
}

// Len returns the length of the transform.
func (t *Bluestein) Len() int {
	return t.n
}

// Apply writes the DFT of v into w.
func (t *Bluestein) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)
	n, m := t.n, t.rad2.Len()

	a := make([]arb.Complex, m)
	for k := 0; k < n; k++ {
		a[k].Mul(&v[k], &t.chirp[k], prec)
	}
	t.rad2.Apply(a, a, prec)
	for k := range a {
		a[k].Mul(&a[k], &t.bhat[k], prec)
	}
	inverse(t.rad2, a, a, prec)

	for j := 0; j < n; j++ {
		w[j].Mul(&a[j], &t.chirp[j], prec)
	}
}
