package dft

import (
	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils/factorization"
)

// CRT is the Good-Thomas DFT. The length n = m_0 ... m_{r-1} is split into
// pairwise coprime prime powers, and the transform becomes a product DFT
// after re-indexing the input by k = sum (n/m_i) k_i mod n and the output
// by the Chinese remainder theorem.
type CRT struct {
	n     int
	prod  *Product
	perm  []int // input index of each product slot
	iperm []int // output index of each product slot
}

// NewCRT returns a Good-Thomas DFT of length n.
func NewCRT(n int, prec uint) *CRT {
	factors := factorization.FactorUint64(uint64(n))
	m := make([]int, len(factors))
	for i, f := range factors {
		pe, _ := factorization.Power(f.P, f.E)
		m[i] = int(pe)
	}

	t := &CRT{n: n, perm: make([]int, n), iperm: make([]int, n)}
	t.prod = NewProduct(m, prec)

	// CRT idempotents: e_i = 1 mod m_i, 0 mod m_j
	e := make([]int, len(m))
	for i, mi := range m {
		c := n / mi
		inv := 0
		for x := 1; x < mi; x++ {
			if (c%mi)*x%mi == 1 {
				inv = x
				break
			}
		}
		if mi == 1 {
			inv = 0
		}
		e[i] = c * inv % n
	}

	idx := make([]int, len(m))
	for slot := 0; slot < n; slot++ {
		in, out := 0, 0
		for i, mi := range m {
			in = (in + (n/mi)*idx[i]) % n
			out = (out + e[i]*idx[i]) % n
		}
		t.perm[slot] = in
		t.iperm[slot] = out

		for i := len(m) - 1; i >= 0; i-- {
			if idx[i]++; idx[i] < m[i] {
				break
			}
			idx[i] = 0
		}
	}

	return t
}

// Len returns the length of the transform.
func (t *CRT) Len() int {
	return t.n
}

// Apply writes the DFT of v into w.
func (t *CRT) Apply(w, v []arb.Complex, prec uint) {
	checkLen(t, w, v)
	tmp := make([]arb.Complex, t.n)
	for slot, k := range t.perm {
		tmp[slot].Set(&v[k])
	}
	t.prod.Apply(tmp, tmp, prec)
	for slot, j := range t.iperm {
		w[j].Set(&tmp[slot])
	}
}
