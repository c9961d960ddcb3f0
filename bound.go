package zstdkit

// Compression levels accepted by CompressLevel and the streaming sessions.
//
// The pure-Go engine maps them onto its four internal speed tiers; the cgo
// engine passes them to libzstd unchanged. DefaultCompressionLevel matches
// ZSTD_CLEVEL_DEFAULT.
const (
	MinCompressionLevel     = 1
	DefaultCompressionLevel = 3
	MaxCompressionLevel     = 22
)

// CompressBound returns the worst-case compressed size for srcSize input
// bytes, matching the ZSTD_compressBound formula. A destination of this size
// is guaranteed to be large enough for a one-shot compression of srcSize
// bytes at any level.
func CompressBound(srcSize int) int {
	if srcSize < 0 {
		return 0
	}

	margin := 0
	if srcSize < 128<<10 {
		margin = (128<<10 - srcSize) >> 11
	}

	return srcSize + srcSize>>8 + margin + frameOverhead
}

// Fixed per-frame overhead: magic + maximal frame header + one block header
// + content checksum.
const frameOverhead = 4 + 14 + 3 + 4
