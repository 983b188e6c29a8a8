package platt

import (
	"fmt"
	"sort"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/zeta"
)

// smkBlockSize is the number of terms buffered before they are flushed into
// the rows of the S-table.
const smkBlockSize = 32

// logJSqrtPi returns log(j sqrt(pi)).
func logJSqrtPi(j int64, prec uint) *arb.Real {
	x := new(arb.Real).MulInt64(arb.SqrtPi(prec), j, prec)
	return x.Log(x, prec)
}

// smkIndex returns the grid column m = floor(B log(j sqrt(pi))/(2 pi) + 1/2)
// to which the j-th term of the main sum is attached.
func smkIndex(B, j int64, prec uint) (int64, error) {
	limit := zeta.MaxPrecision(prec)
	half := new(arb.Real).SetFrac(1, 2, 2)
	for {
		x := logJSqrtPi(j, prec)
		x.Div(x, arb.Pi(prec), prec)
		x.Mul2Exp(x, -1)
		x.MulInt64(x, B, prec)
		x.Add(x, half, prec)
		if m, ok := x.Floor(); ok {
			return m.Int64(), nil
		}
		if prec >= limit {
			log.Warnf("grid column of j = %d not resolved at %d bits", j, prec)
			return 0, fmt.Errorf("cannot smkIndex: column of j = %d not resolved at %d bits", j, prec)
		}
		log.Debugf("grid column of j = %d: precision %d -> %d", j, prec, 2*prec)
		prec *= 2
	}
}

// smkBlock is the range [first, last] of indices j sharing the column m.
type smkBlock struct {
	m, first, last int64
}

// smkPoints splits [j0, j1] into maximal runs of indices attached to the same
// column. The column of j is nondecreasing, so the first index of each column
// is found by a binary search on the threshold.
func smkPoints(B, j0, j1 int64, prec uint) (blocks []smkBlock, err error) {
	m0, err := smkIndex(B, j0, prec)
	if err != nil {
		return nil, err
	}
	m1, err := smkIndex(B, j1, prec)
	if err != nil {
		return nil, err
	}

	blocks = []smkBlock{{m: m0, first: j0}}
	lo := j0
	for m := m0 + 1; m <= m1; m++ {
		// smallest j in (lo, j1] with smkIndex(j) >= m
		var serr error
		n := sort.Search(int(j1-lo), func(i int) bool {
			if serr != nil {
				return true
			}
			c, err := smkIndex(B, lo+1+int64(i), prec)
			if err != nil {
				serr = err
				return true
			}
			return c >= m
		})
		if serr != nil {
			return nil, serr
		}
		j := lo + 1 + int64(n)
		if c, err := smkIndex(B, j, prec); err != nil {
			return nil, err
		} else if c != m {
			// no index lands in column m
			continue
		}
		blocks[len(blocks)-1].last = j - 1
		blocks = append(blocks, smkBlock{m: m, first: j})
		lo = j
	}
	blocks[len(blocks)-1].last = j1

	return blocks, nil
}

// smkBuffer accumulates the terms z_j and the powers of their offsets before
// they are flushed into the S-table.
type smkBuffer struct {
	z   []arb.Complex
	pow [][]arb.Real
	n   int
}

func newSMKBuffer(K int) *smkBuffer {
	b := &smkBuffer{
		z:   make([]arb.Complex, smkBlockSize),
		pow: make([][]arb.Real, smkBlockSize),
	}
	for i := range b.pow {
		b.pow[i] = make([]arb.Real, K)
	}
	return b
}

// flush adds sum_i z_i pow_i[k] to table[k][m] for every k and empties the buffer.
func (b *smkBuffer) flush(table [][]arb.Complex, m int64, prec uint) {
	if b.n == 0 {
		return
	}
	acc := new(arb.Complex)
	tmp := new(arb.Complex)
	for k := range table {
		acc.Zero()
		for i := 0; i < b.n; i++ {
			tmp.MulReal(&b.z[i], &b.pow[i][k], prec)
			acc.Add(acc, tmp, prec)
		}
		table[k][m].Add(&table[k][m], acc, prec)
	}
	b.n = 0
}

// SMK returns the K x N S-table of the indices j0 <= j <= j1. Its entry (k, m)
// is the sum over the j attached to the column m of
//
//	j^(-1/2) exp(-i t0 log(j sqrt(pi))) (log(j sqrt(pi))/(2 pi) - m/B)^k.
func SMK(t0 *arb.Real, A, B, j0, j1 int64, K int, prec uint) ([][]arb.Complex, error) {
	if j0 < 1 || j1 < j0 {
		return nil, fmt.Errorf("%w: invalid range [%d, %d]", ErrInvalidArgument, j0, j1)
	}

	N := A * B

	blocks, err := smkPoints(B, j0, j1, prec)
	if err != nil {
		return nil, err
	}
	if last := blocks[len(blocks)-1].m; last >= N {
		return nil, fmt.Errorf("%w: J = %d reaches column %d past the grid of length %d", ErrInvalidArgument, j1, last, N)
	}

	table := make([][]arb.Complex, K)
	for k := range table {
		table[k] = make([]arb.Complex, N)
	}

	// the phase t0 log(j sqrt(pi))/pi loses the bits of t0
	wp := prec + magBits(t0.AbsUpper()) + 8

	rpi := new(arb.Real).Inv(arb.Pi(wp), wp)
	buf := newSMKBuffer(K)
	a := new(arb.Real)
	x := new(arb.Real)
	base := new(arb.Real)

	for _, blk := range blocks {
		um := new(arb.Real).SetFrac(blk.m, B, wp)
		for j := blk.first; j <= blk.last; j++ {
			a.Mul(logJSqrtPi(j, wp), rpi, wp)

			x.Mul(t0, a, wp)
			x.Neg(x)
			z := &buf.z[buf.n]
			z.ExpPiI(x, wp)
			z.MulReal(z, new(arb.Real).Rsqrt(arb.NewRealInt64(j), wp), wp)

			base.Mul2Exp(a, -1)
			base.Sub(base, um, wp)

			pow := buf.pow[buf.n]
			pow[0].SetInt64(1)
			for k := 1; k < K; k++ {
				pow[k].Mul(&pow[k-1], base, wp)
			}

			if buf.n++; buf.n == smkBlockSize {
				buf.flush(table, blk.m, wp)
			}
		}
		buf.flush(table, blk.m, wp)
	}

	for k := range table {
		for i := range table[k] {
			table[k][i].SetRound(&table[k][i], prec)
		}
	}

	return table, nil
}
