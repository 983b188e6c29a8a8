package dft

import (
	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// Cyclic is the mixed-radix Cooley-Tukey DFT. A length n = n1 n2, with n1 the
// smallest prime factor, is split into n1 transforms of length n2, twiddle
// factors and n2 transforms of length n1.
type Cyclic struct {
	n, n1, n2 int
	z         []arb.Complex
	t1        Transform
	t2        Transform
}

// NewCyclic returns a mixed-radix DFT of length n.
func NewCyclic(n int, prec uint) *Cyclic {
	t := &Cyclic{n: n, z: Roots(n, prec)}
	if n <= 1 {
		t.n1, t.n2 = n, 1
		t.t1 = NewNaive(n, prec)
		return t
	}
	factors := factorization.FactorUint64(uint64(n))
	t.n1 = int(factors[0].P)
	t.n2 = n / t.n1
	t.t1 = NewNaive(t.n1, prec)
	if t.n2 > 1 {
		if t.n2%t.n1 == 0 || len(factors) == 1 {
			t.t2 = NewCyclic(t.n2, prec)
		} else {
			t.t2 = newTransform(t.n2, prec)
		}
	}
	return t
}

// Len returns the length of the transform.
func (t *Cyclic) Len() int {
	return t.n
}

// Apply writes the DFT of v into w.
func (t *Cyclic) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)

	if t.n2 == 1 {
		t.t1.Apply(w, v, prec)
		return
	}

	n, n1, n2 := t.n, t.n1, t.n2

	// y[k1][j2] = DFT_n2(v[n1 k2 + k1]) z^(j2 k1)
	y := make([]arb.Complex, n)
	for k1 := 0; k1 < n1; k1++ {
		row := y[k1*n2 : (k1+1)*n2]
		for k2 := 0; k2 < n2; k2++ {
			row[k2].Set(&v[n1*k2+k1])
		}
		t.t2.Apply(row, row, prec)
		for j2 := 1; j2 < n2 && k1 > 0; j2++ {
			row[j2].Mul(&row[j2], &t.z[(j2*k1)%n], prec)
		}
	}

	// w[j2 + n2 j1] = DFT_n1(y[.][j2])
	col := make([]arb.Complex, n1)
	for j2 := 0; j2 < n2; j2++ {
		for k1 := 0; k1 < n1; k1++ {
			col[k1].Set(&y[k1*n2+j2])
		}
		t.t1.Apply(col, col, prec)
		for j1 := 0; j1 < n1; j1++ {
			w[j2+n2*j1].Set(&col[j1])
		}
	}
}
