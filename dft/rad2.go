package dft

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
)

// Rad2 is the iterative radix-2 Cooley-Tukey DFT of a power-of-two length.
type Rad2 struct {
	n int
	z []arb.Complex
}

// NewRad2 returns a radix-2 DFT of length n, which must be a power of two.
func NewRad2(n int, prec uint) *Rad2 {
	if !utils.IsPowerOfTwo(uint(n)) {
		panic(fmt.Errorf("cannot NewRad2: %d is not a power of two", n))
	}
	return &Rad2{n: n, z: Roots(n, prec)}
}

// Len returns the length of the transform.
func (t *Rad2) Len() int {
	return t.n
}

// Apply writes the DFT of v into w.
func (t *Rad2) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)
	n := t.n
	if &w[0] != &v[0] {
		for i := 0; i < n; i++ {
			w[i].Set(&v[i])
		}
	}

	utils.BitReverseInPlaceSlice(w[:n], n)

	tmp := new(arb.Complex)
	for m := 2; m <= n; m <<= 1 {
		h := m >> 1
		step := n / m
		for k := 0; k < n; k += m {
			for j := 0; j < h; j++ {
				tmp.Mul(&w[k+j+h], &t.z[j*step], prec)
				w[k+j+h].Sub(&w[k+j], tmp, prec)
				w[k+j].Add(&w[k+j], tmp, prec)
			}
		}
	}
}
