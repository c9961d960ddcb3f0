// Package zstdkit provides a session-oriented layer on top of a Zstandard
// codec engine: one-shot compression, streaming compression/decompression
// sessions driven through caller-owned buffers, dictionary training and
// caching, and multi-frame blob introspection.
//
// The codec engine itself is an external collaborator. The pure-Go build
// binds github.com/klauspost/compress/zstd; when cgo is enabled, the plain
// one-shot paths route through github.com/valyala/gozstd (libzstd) instead.
// Both engines produce and consume standard Zstandard frames, so output from
// either build decompresses on the other.
//
// # Package Structure
//
//   - zstdkit (this package): one-shot compress/decompress, worst-case bound
//     computation, and the error taxonomy shared by all subpackages
//   - stream: streaming Compressor/Decompressor sessions and the buffer
//     exchange records that drive them
//   - dict: dictionary training, compiled dictionary handles, and the
//     identifier-keyed dictionary cache
//   - frame: frame enumeration and sizing for multi-frame blobs
//
// # Basic Usage
//
// One-shot round trip:
//
//	compressed, err := zstdkit.CompressLevel(nil, data, 5)
//	if err != nil {
//	    return err
//	}
//	original, err := zstdkit.Decompress(nil, compressed)
//
// Streaming, dictionaries and frame walking are documented in their
// respective subpackages.
//
// # Thread Safety
//
// The one-shot functions in this package are safe for concurrent use.
// Streaming sessions and the dictionary cache are not; see the stream and
// dict package documentation for the required external synchronization.
package zstdkit
