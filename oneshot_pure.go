//go:build !cgo

package zstdkit

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse to eliminate allocation
// overhead. The klauspost/compress/zstd library is explicitly designed for
// decoder reuse: "The decoder has been designed to operate without
// allocations after a warmup."
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1), // Single-threaded for predictable performance
			zstd.WithDecoderLowmem(false),  // Use more memory for better performance
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// zstdEncoderPools pools zstd encoders per speed tier. Encoders are stateful
// and expensive to build, and EncodeAll is stateless with respect to the
// pooled instance.
var zstdEncoderPools = [...]sync.Pool{
	zstd.SpeedFastest:           {New: func() any { return newPooledEncoder(zstd.SpeedFastest) }},
	zstd.SpeedDefault:           {New: func() any { return newPooledEncoder(zstd.SpeedDefault) }},
	zstd.SpeedBetterCompression: {New: func() any { return newPooledEncoder(zstd.SpeedBetterCompression) }},
	zstd.SpeedBestCompression:   {New: func() any { return newPooledEncoder(zstd.SpeedBestCompression) }},
}

func newPooledEncoder(level zstd.EncoderLevel) *zstd.Encoder {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(level),
		zstd.WithEncoderCRC(false), // Match libzstd's one-shot default (no checksum)
		zstd.WithZeroFrames(true),  // Emit a valid frame even for empty input
	)
	if err != nil {
		// This should never happen with valid options
		panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
	}

	return encoder
}

// Compress appends compressed src to dst at DefaultCompressionLevel and
// returns the result.
func Compress(dst, src []byte) ([]byte, error) {
	return CompressLevel(dst, src, DefaultCompressionLevel)
}

// CompressLevel appends compressed src to dst using the given compression
// level and returns the result.
//
// Levels outside [MinCompressionLevel, MaxCompressionLevel] are clamped by
// the engine.
func CompressLevel(dst, src []byte, level int) ([]byte, error) {
	tier := zstd.EncoderLevelFromZstd(level)

	encoder, _ := zstdEncoderPools[tier].Get().(*zstd.Encoder)
	defer zstdEncoderPools[tier].Put(encoder)

	// EncodeAll is stateless - safe to use with pooled encoder
	return encoder.EncodeAll(src, dst), nil
}

// Decompress appends decompressed src to dst and returns the result.
//
// src must hold one or more complete frames; corrupted or truncated input is
// reported as an *EngineError.
func Decompress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, fmt.Errorf("%w: empty compressed input", ErrInvalidInput)
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	// DecodeAll is stateless - safe to use with pooled decoder.
	// Even if this call fails, the decoder can be reused for the next call.
	out, err := decoder.DecodeAll(src, dst)
	if err != nil {
		return dst, WrapEngine("decompress", err)
	}

	return out, nil
}
