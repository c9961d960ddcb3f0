package dict

import (
	"fmt"

	"github.com/arloliu/zstdkit"
)

// Compress appends src compressed with cd to dst and returns the result.
//
// The frame references cd's identifier, so it can only be decompressed with
// a dictionary built from the same bytes.
func Compress(dst, src []byte, cd *CDict) ([]byte, error) {
	if cd == nil {
		return dst, fmt.Errorf("%w: nil dictionary", zstdkit.ErrInvalidInput)
	}
	if cd.released {
		return dst, fmt.Errorf("%w: compression dictionary", zstdkit.ErrDisposed)
	}

	// EncodeAll is stateless with respect to the compiled encoder.
	return cd.enc.EncodeAll(src, dst), nil
}

// Decompress appends src decompressed with dd to dst and returns the result.
func Decompress(dst, src []byte, dd *DDict) ([]byte, error) {
	if dd == nil {
		return dst, fmt.Errorf("%w: nil dictionary", zstdkit.ErrInvalidInput)
	}
	if dd.released {
		return dst, fmt.Errorf("%w: decompression dictionary", zstdkit.ErrDisposed)
	}
	if len(src) == 0 {
		return dst, fmt.Errorf("%w: empty compressed input", zstdkit.ErrInvalidInput)
	}

	out, err := dd.dec.DecodeAll(src, dst)
	if err != nil {
		return dst, zstdkit.WrapEngine("decompress with dictionary", err)
	}

	return out, nil
}
