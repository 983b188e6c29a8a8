package sampling

import (
	"encoding/binary"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG deterministically generates a stream of bytes from a key using
// the blake2b XOF. Two instances created with the same key produce the same
// stream, which makes randomized algorithms reproducible.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG.
// A nil key is treated as an empty key.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = make([]byte, len(key))
	copy(prng.key, key)
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// NewKeyedPRNGFromUint64 creates a KeyedPRNG whose key is derived with blake3
// from a domain string and a list of integers.
func NewKeyedPRNGFromUint64(domain string, v ...uint64) (*KeyedPRNG, error) {
	return NewKeyedPRNG(DeriveKey(domain, v...))
}

// DeriveKey returns a 32 byte key derived from domain and v.
func DeriveKey(domain string, v ...uint64) []byte {
	h := blake3.NewDeriveKey(domain)
	var b [8]byte
	for _, vi := range v {
		binary.LittleEndian.PutUint64(b[:], vi)
		_, _ = h.Write(b[:])
	}
	return h.Sum(nil)
}

// Key returns a copy of the key used to seed the PRNG.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the KeyedPRNG on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
