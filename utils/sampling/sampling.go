// Package sampling implements secure and seeded sampling of bytes and integers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/big"
)

// RandUint64 return a random value between 0 and 0xFFFFFFFFFFFFFFFF.
func RandUint64() uint64 {
	return ReadUint64(rand.Reader)
}

// ReadUint64 reads a little endian uint64 from r. It panics if r fails.
func ReadUint64(r io.Reader) uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := io.ReadFull(r, b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// UniformUint64 returns a value in [0, max-1] read from r, by rejection.
func UniformUint64(r io.Reader, max uint64) uint64 {
	if max == 0 {
		panic("cannot UniformUint64: max must be positive")
	}
	limit := ^uint64(0) - (^uint64(0)%max+1)%max
	for {
		if x := ReadUint64(r); x <= limit {
			return x % max
		}
	}
}

// RandInt generates a random Int in [0, max-1].
func RandInt(max *big.Int) (n *big.Int) {
	return RandIntFrom(rand.Reader, max)
}

// RandIntFrom generates an Int in [0, max-1] from the bytes of r.
func RandIntFrom(r io.Reader, max *big.Int) (n *big.Int) {
	var err error
	if n, err = rand.Int(r, max); err != nil {
		panic(err)
	}
	return
}
