// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// GCD returns the greatest common divisor of a and b.
func GCD[T constraints.Integer](a, b T) T {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b.
func LCM[T constraints.Integer](a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}

// MulMod returns a * b mod m without overflow.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, r := bits.Div64(hi%m, lo, m)
	return r
}

// AddMod returns a + b mod m for a, b < m.
func AddMod(a, b, m uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}
	return s
}

// SubMod returns a - b mod m for a, b < m.
func SubMod(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return m - b + a
}

// PowMod returns x^e mod m.
func PowMod(x, e, m uint64) (r uint64) {
	if m == 1 {
		return 0
	}
	r = 1
	x %= m
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			r = MulMod(r, x, m)
		}
		x = MulMod(x, x, m)
	}
	return
}

// InvMod returns the inverse of x modulo m < 2^63, and false if x is not invertible.
func InvMod(x, m uint64) (uint64, bool) {
	if m == 1 {
		return 0, true
	}
	var t, newt int64 = 0, 1
	var r, newr = m, x % m
	for newr != 0 {
		q := r / newr
		t, newt = newt, t-int64(q)*newt
		r, newr = newr, r-q*newr
	}
	if r != 1 {
		return 0, false
	}
	if t < 0 {
		return uint64(t + int64(m)), true
	}
	return uint64(t), true
}

// PowUint returns x^e, without overflow checks.
func PowUint(x, e uint64) (r uint64) {
	r = 1
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			r *= x
		}
		x *= x
	}
	return
}

// ISqrt returns floor(sqrt(x)).
func ISqrt(x uint64) uint64 {
	if x < 2 {
		return x
	}
	r := uint64(1) << ((bits.Len64(x) + 1) / 2)
	for {
		s := (r + x/r) / 2
		if s >= r {
			break
		}
		r = s
	}
	for r*r > x {
		r--
	}
	return r
}

// IsPowerOfTwo returns true if x is a power of two.
func IsPowerOfTwo[T constraints.Unsigned](x T) bool {
	return x != 0 && x&(x-1) == 0
}
