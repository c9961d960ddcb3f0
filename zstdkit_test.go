package zstdkit

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// testPayloads covers the shapes that matter for a block codec: tiny,
// repetitive, structured text and incompressible data.
func testPayloads(t *testing.T) map[string][]byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 256*1024)
	_, err := rng.Read(random)
	require.NoError(t, err)

	text := bytes.Repeat([]byte("metric=cpu.usage host=web-01 value=0.75 ts=1700000000\n"), 2048)

	return map[string][]byte{
		"one byte":       {0x42},
		"short text":     []byte("hello, zstd"),
		"zeros":          make([]byte, 64*1024),
		"repeated text":  text,
		"incompressible": random,
	}
}

func TestRoundTrip(t *testing.T) {
	levels := []int{MinCompressionLevel, DefaultCompressionLevel, 9, MaxCompressionLevel}

	for name, payload := range testPayloads(t) {
		t.Run(name, func(t *testing.T) {
			for _, level := range levels {
				compressed, err := CompressLevel(nil, payload, level)
				require.NoError(t, err)
				require.NotEmpty(t, compressed)

				original, err := Decompress(nil, compressed)
				require.NoError(t, err)
				require.Equal(t, payload, original, "level %d", level)
			}
		})
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	compressed, err := Compress(nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, compressed, "empty input must still produce a valid frame")
	require.Equal(t, []byte{0x28, 0xB5, 0x2F, 0xFD}, compressed[:4], "output must be a real frame, not an empty blob")

	original, err := Decompress(nil, compressed)
	require.NoError(t, err)
	require.Empty(t, original)

	compressed, err = CompressLevel(nil, []byte{}, MaxCompressionLevel)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)

	original, err = Decompress(nil, compressed)
	require.NoError(t, err)
	require.Empty(t, original)
}

func TestCompressAppendsToDst(t *testing.T) {
	prefix := []byte("header:")
	payload := []byte("payload payload payload")

	combined, err := Compress(append([]byte{}, prefix...), payload)
	require.NoError(t, err)
	require.Equal(t, prefix, combined[:len(prefix)])

	original, err := Decompress(nil, combined[len(prefix):])
	require.NoError(t, err)
	require.Equal(t, payload, original)
}

func TestCompressBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, size := range []int{0, 1, 100, 4096, 128 << 10, 1 << 20} {
		payload := make([]byte, size)
		_, err := rng.Read(payload)
		require.NoError(t, err)

		compressed, err := Compress(nil, payload)
		require.NoError(t, err)
		require.LessOrEqual(t, len(compressed), CompressBound(size), "size %d", size)
	}

	require.Zero(t, CompressBound(-1))
}

func TestDecompressInvalidInput(t *testing.T) {
	_, err := Decompress(nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Decompress(nil, []byte("definitely not a zstd frame"))
	require.Error(t, err)
	require.True(t, IsEngineError(err), "corrupt input must surface as an engine error")
}

func TestEngineError(t *testing.T) {
	require.NoError(t, WrapEngine("noop", nil))

	err := WrapEngine("decompress", ErrBufferTooSmall)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBufferTooSmall)
	require.Contains(t, err.Error(), "engine decompress")
	require.True(t, IsEngineError(err))
	require.False(t, IsEngineError(ErrDisposed))
}
