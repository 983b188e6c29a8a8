package dft

import (
	"github.com/tuneinsight/dirichlet/arb"
)

// Product is the multi-dimensional DFT over Z/d_0 x ... x Z/d_{r-1}.
// Vectors are stored in row-major order: the last dimension varies fastest.
type Product struct {
	dims []int
	n    int
	sub  []Transform
}

// NewProduct returns the multi-dimensional DFT with the given dimensions.
func NewProduct(dims []int, prec uint) *Product {
	t := &Product{dims: append([]int{}, dims...), n: 1, sub: make([]Transform, len(dims))}
	for i, d := range dims {
		t.n *= d
		t.sub[i] = newTransform(d, prec)
	}
	return t
}

// Len returns the length of the transform.
func (t *Product) Len() int {
	return t.n
}

// Dims returns the dimensions of the transform.
func (t *Product) Dims() []int {
	return append([]int{}, t.dims...)
}

// Apply writes the DFT of v into w.
func (t *Product) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)
	if t.n == 0 {
		return
	}
	if &w[0] != &v[0] {
		for i := 0; i < t.n; i++ {
			w[i].Set(&v[i])
		}
	}

	stride := t.n
	for axis, d := range t.dims {
		stride /= d
		fiber := make([]arb.Complex, d)
		// outer blocks of size d * stride, inner offsets in [0, stride)
		for base := 0; base < t.n; base += d * stride {
			for off := 0; off < stride; off++ {
				for i := 0; i < d; i++ {
					fiber[i].Set(&w[base+off+i*stride])
				}
				t.sub[axis].Apply(fiber, fiber, prec)
				for i := 0; i < d; i++ {
					w[base+off+i*stride].Set(&fiber[i])
				}
			}
		}
	}
}
