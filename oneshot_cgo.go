//go:build cgo

package zstdkit

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// emptyFrame is a complete Zstandard frame decoding to zero bytes: magic,
// single-segment header with content size 0, one empty raw last block. The
// cgo engine emits nothing for empty input, but the contract is that every
// Compress call produces a valid frame.
var emptyFrame = []byte{0x28, 0xB5, 0x2F, 0xFD, 0x20, 0x00, 0x01, 0x00, 0x00}

// Compress appends compressed src to dst at DefaultCompressionLevel and
// returns the result.
func Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return append(dst, emptyFrame...), nil
	}

	return gozstd.Compress(dst, src), nil
}

// CompressLevel appends compressed src to dst using the given compression
// level and returns the result.
func CompressLevel(dst, src []byte, level int) ([]byte, error) {
	if len(src) == 0 {
		return append(dst, emptyFrame...), nil
	}

	return gozstd.CompressLevel(dst, src, level), nil
}

// Decompress appends decompressed src to dst and returns the result.
//
// src must hold one or more complete frames; corrupted or truncated input is
// reported as an *EngineError.
func Decompress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, fmt.Errorf("%w: empty compressed input", ErrInvalidInput)
	}

	out, err := gozstd.Decompress(dst, src)
	if err != nil {
		return dst, WrapEngine("decompress", err)
	}

	return out, nil
}
