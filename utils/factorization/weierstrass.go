package factorization

import (
	"io"
	"math/big"

	"github.com/tuneinsight/dirichlet/utils/sampling"
)

// Weierstrass is an elliptic curve y^2 = x^3 + ax + b mod N.
type Weierstrass struct {
	A, B, N *big.Int
}

// Point represents an elliptic curve point in standard coordinates.
// The point at infinity is represented by X = 0, Y = 1.
type Point struct {
	X, Y *big.Int
}

// Infinity returns the neutral element of the curve group.
func Infinity() Point {
	return Point{X: new(big.Int), Y: big.NewInt(1)}
}

// IsInfinity returns true if P is the neutral element.
func (P Point) IsInfinity() bool {
	return P.X.Sign() == 0 && P.Y.Cmp(big.NewInt(1)) == 0
}

// Add adds two Weierstrass points together with respect
// to the underlying Weierstrass curve.
// This method does not check if the points lie on
// the underlying curve. If a denominator of the slope is
// not invertible modulo N, a non-trivial divisor of N
// (or N itself) is returned instead of the sum.
func (w *Weierstrass) Add(P, Q Point) (R Point, divisor *big.Int) {

	if P.IsInfinity() {
		return Point{new(big.Int).Set(Q.X), new(big.Int).Set(Q.Y)}, nil
	}

	if Q.IsInfinity() {
		return Point{new(big.Int).Set(P.X), new(big.Int).Set(P.Y)}, nil
	}

	xP, yP := P.X, P.Y
	xQ, yQ := Q.X, Q.Y

	N := w.N

	tmp := new(big.Int)

	if xP.Cmp(xQ) == 0 && tmp.Add(yP, yQ).Mod(tmp, N).Sign() == 0 {
		return Infinity(), nil
	}

	S := new(big.Int) // slope
	den := new(big.Int)

	if xP.Cmp(xQ) != 0 {
		// S = (yQ-yP)/(xQ-xP)
		S.Sub(yQ, yP)
		den.Sub(xQ, xP)
	} else {
		// S = (3*(xP^2) + a)/(2*yP)
		S.Mul(xP, xP)
		S.Mul(S, big.NewInt(3))
		S.Add(S, w.A)
		den.Add(yP, yP)
	}

	den.Mod(den, N)
	if tmp.ModInverse(den, N) == nil {
		return Point{}, new(big.Int).GCD(nil, nil, den, N)
	}
	S.Mul(S, tmp)
	S.Mod(S, N)

	xR, yR := new(big.Int), new(big.Int)

	// s^2 - xP - xQ
	xR.Mul(S, S)
	xR.Sub(xR, xP)
	xR.Sub(xR, xQ)
	xR.Mod(xR, N)

	// s*(xP-xR)-yP
	yR.Sub(xP, xR)
	yR.Mul(yR, S)
	yR.Sub(yR, yP)
	yR.Mod(yR, N)

	return Point{X: xR, Y: yR}, nil
}

// ScalarMul returns k*P, or a divisor of N found along the way.
func (w *Weierstrass) ScalarMul(k uint64, P Point) (R Point, divisor *big.Int) {
	R = Infinity()
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			if R, divisor = w.Add(R, P); divisor != nil {
				return
			}
		}
		if k > 1 {
			if P, divisor = w.Add(P, P); divisor != nil {
				return
			}
		}
	}
	return
}

// NewRandomWeierstrassCurve generates a new random Weierstrass curve modulo N,
// along with a random point that lies on the curve. The randomness is read
// from prng.
func NewRandomWeierstrassCurve(prng io.Reader, N *big.Int) (Weierstrass, Point) {

	var A, B, xG, yG *big.Int
	for {

		// Select random values for A, xG and yG
		A = sampling.RandIntFrom(prng, N)
		xG = sampling.RandIntFrom(prng, N)
		yG = sampling.RandIntFrom(prng, N)

		// Deduces B from Y^2 = X^3 + A * X + B evaluated at point (xG, yG)
		yGpow2 := new(big.Int).Mul(yG, yG)
		yGpow2.Mod(yGpow2, N)

		xGpow3 := new(big.Int).Mul(xG, xG)
		xGpow3.Add(xGpow3, A)
		xGpow3.Mul(xGpow3, xG)
		xGpow3.Mod(xGpow3, N)

		B = new(big.Int).Sub(yGpow2, xGpow3) // B = yG^2 - xG*(xG^2 + A)
		B.Mod(B, N)

		// Checks that 4A^3 + 27B^2 != 0
		fourACube := new(big.Int).Mul(A, A)
		fourACube.Mul(fourACube, A)
		fourACube.Lsh(fourACube, 2)

		twentySevenBSquare := new(big.Int).Mul(B, B)
		twentySevenBSquare.Mul(twentySevenBSquare, big.NewInt(27))

		disc := new(big.Int).Add(fourACube, twentySevenBSquare)
		disc.Mod(disc, N)

		if disc.Sign() != 0 && new(big.Int).GCD(nil, nil, N, disc).Cmp(big.NewInt(1)) == 0 {
			return Weierstrass{
				A: A,
				B: B,
				N: N,
			}, Point{X: xG, Y: yG}
		}
	}
}
