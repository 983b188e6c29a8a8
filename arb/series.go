package arb

// Series is a power series truncated to len(s) coefficients.
type Series []Complex

// NewSeries returns a zero series of length n.
func NewSeries(n int) Series {
	return make(Series, n)
}

// Copy returns a deep copy of s.
func (s Series) Copy() Series {
	r := make(Series, len(s))
	for i := range s {
		r[i].Set(&s[i])
	}
	return r
}

// IsFinite returns true if every coefficient is finite.
func (s Series) IsFinite() bool {
	for i := range s {
		if !s[i].IsFinite() {
			return false
		}
	}
	return true
}

// SeriesAdd returns a + b truncated to n terms.
func SeriesAdd(a, b Series, n int, prec uint) Series {
	r := NewSeries(n)
	for i := 0; i < n; i++ {
		switch {
		case i < len(a) && i < len(b):
			r[i].Add(&a[i], &b[i], prec)
		case i < len(a):
			r[i].Set(&a[i])
		case i < len(b):
			r[i].Set(&b[i])
		}
	}
	return r
}

// SeriesSub returns a - b truncated to n terms.
func SeriesSub(a, b Series, n int, prec uint) Series {
	nb := make(Series, len(b))
	for i := range b {
		nb[i].Neg(&b[i])
	}
	return SeriesAdd(a, nb, n, prec)
}

// SeriesMullow returns a * b truncated to n terms.
func SeriesMullow(a, b Series, n int, prec uint) Series {
	r := NewSeries(n)
	t := new(Complex)
	for i := 0; i < n && i < len(a); i++ {
		for j := 0; i+j < n && j < len(b); j++ {
			t.Mul(&a[i], &b[j], prec)
			r[i+j].Add(&r[i+j], t, prec)
		}
	}
	return r
}

// SeriesScale returns c * a.
func SeriesScale(a Series, c *Complex, prec uint) Series {
	r := NewSeries(len(a))
	for i := range a {
		r[i].Mul(&a[i], c, prec)
	}
	return r
}

// SeriesLinearInv returns the series of 1/(c + x) truncated to n terms.
func SeriesLinearInv(c *Complex, n int, prec uint) Series {
	r := NewSeries(n)
	if n == 0 {
		return r
	}
	inv := new(Complex).Inv(c, prec)
	r[0].Set(inv)
	for i := 1; i < n; i++ {
		r[i].Mul(&r[i-1], inv, prec)
		r[i].Neg(&r[i])
	}
	return r
}

// SeriesExpLinear returns the series of exp(b x) times c, truncated to n terms,
// that is c b^k / k!.
func SeriesExpLinear(c, b *Complex, n int, prec uint) Series {
	r := NewSeries(n)
	if n == 0 {
		return r
	}
	r[0].Set(c)
	for k := 1; k < n; k++ {
		r[k].Mul(&r[k-1], b, prec)
		r[k].DivInt64(&r[k], int64(k), prec)
	}
	return r
}
