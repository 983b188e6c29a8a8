package sampling_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/dirichlet/utils/sampling"
)

func Test_PRNG(t *testing.T) {

	t.Run("PRNG", func(t *testing.T) {

		key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
			0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

		Ha, _ := sampling.NewKeyedPRNG(key)
		Hb, _ := sampling.NewKeyedPRNG(key)

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			Hb.Read(sum1)
		}

		Hb.Reset()

		Ha.Read(sum0)
		Hb.Read(sum1)

		require.Equal(t, sum0, sum1)
		require.Equal(t, key, Ha.Key())
	})

	t.Run("DeriveKey", func(t *testing.T) {
		k0 := sampling.DeriveKey("dlog", 101, 2)
		k1 := sampling.DeriveKey("dlog", 101, 2)
		k2 := sampling.DeriveKey("dlog", 101, 3)
		require.Len(t, k0, 32)
		require.Equal(t, k0, k1)
		require.NotEqual(t, k0, k2)

		Ha, err := sampling.NewKeyedPRNGFromUint64("dlog", 7)
		require.NoError(t, err)
		Hb, err := sampling.NewKeyedPRNGFromUint64("dlog", 7)
		require.NoError(t, err)
		require.Equal(t, sampling.ReadUint64(Ha), sampling.ReadUint64(Hb))
	})
}

func TestUniform(t *testing.T) {
	prng, err := sampling.NewKeyedPRNG([]byte{1})
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.Less(t, sampling.UniformUint64(prng, 17), uint64(17))
	}
	max := big.NewInt(1000003)
	for i := 0; i < 100; i++ {
		n := sampling.RandIntFrom(prng, max)
		require.True(t, n.Sign() >= 0 && n.Cmp(max) < 0)
	}
}
