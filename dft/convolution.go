package dft

import (
	"fmt"

	"github.com/tuneinsight/dirichlet/arb"
)

// ConvolutionNaive returns the circular convolution
// h_i = sum_j f_j g_{i-j mod n} by the quadratic formula.
func ConvolutionNaive(f, g []arb.Complex, prec uint) []arb.Complex {
	n := len(f)
	h := make([]arb.Complex, n)
	tmp := new(arb.Complex)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i - j
			if k < 0 {
				k += n
			}
			tmp.Mul(&f[j], &g[k], prec)
			h[i].Add(&h[i], tmp, prec)
		}
	}
	return h
}

// Convolution returns the circular convolution of f and g through the DFT.
func Convolution(f, g []arb.Complex, prec uint) []arb.Complex {
	if len(f) != len(g) {
		panic(fmt.Errorf("cannot Convolution: lengths %d and %d differ", len(f), len(g)))
	}
	n := len(f)
	if n <= naiveCutoff {
		return ConvolutionNaive(f, g, prec)
	}
	p := NewPrecomp(n, prec)
	return p.Convolution(f, g)
}

// Convolution returns the circular convolution of f and g, whose length
// must be the length of p.
func (p *Precomp) Convolution(f, g []arb.Complex) []arb.Complex {
	n := p.Len()
	fh := make([]arb.Complex, n)
	gh := make([]arb.Complex, n)
	p.Forward(fh, f)
	p.Forward(gh, g)
	for i := range fh {
		fh[i].Mul(&fh[i], &gh[i], p.prec)
	}
	p.Inverse(fh, fh)
	return fh
}
