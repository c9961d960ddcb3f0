// Package frame provides boundary introspection for Zstandard multi-frame
// blobs: enumerating concatenated frames, measuring the exact byte length of
// a single frame, and reading the declared content size from a frame header.
//
// Nothing in this package decodes frame payloads. The walkers only read
// headers and block length fields, which makes them safe to run on untrusted
// or partially truncated data: they stop at the first byte they cannot
// account for instead of faulting.
package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/zstdkit"
	"github.com/arloliu/zstdkit/endian"
)

// ErrIncomplete reports that the blob ends before the frame under inspection
// does. It is not a corruption signal; supplying more bytes may succeed.
var ErrIncomplete = errors.New("frame: incomplete frame data")

const (
	// SkippableMagicBase is the lowest of the 16 skippable-frame magic numbers.
	SkippableMagicBase = 0x184D2A50
	// skippableMagicMask removes the low nibble that selects one of the 16
	// skippable magic values.
	skippableMagicMask = 0xFFFFFFF0

	magicSize           = 4
	skippableHeaderSize = 8
	checksumSize        = 4
	blockHeaderSize     = 3
)

var le = endian.GetLittleEndianEngine()

// Descriptor identifies one frame's exact byte range within a blob.
type Descriptor struct {
	// Offset is the byte position of the frame's magic number.
	Offset int
	// Length is the exact frame length including header and trailer.
	Length int
}

// IsSkippable reports whether b starts with a skippable-frame magic number.
func IsSkippable(b []byte) bool {
	if len(b) < magicSize {
		return false
	}

	return le.Uint32(b)&skippableMagicMask == SkippableMagicBase
}

// CompressedSize returns the exact byte length of the frame starting at
// b[0], equivalent to libzstd's ZSTD_findFrameCompressedSize.
//
// It returns ErrIncomplete when b ends before the frame does, and an
// *zstdkit.EngineError when the bytes do not parse as a frame at all.
func CompressedSize(b []byte) (int, error) {
	if len(b) < magicSize {
		return 0, ErrIncomplete
	}

	if IsSkippable(b) {
		if len(b) < skippableHeaderSize {
			return 0, ErrIncomplete
		}
		// 64-bit arithmetic: the declared size occupies the full uint32 range.
		total := int64(skippableHeaderSize) + int64(le.Uint32(b[magicSize:skippableHeaderSize]))
		if total > int64(len(b)) {
			return 0, ErrIncomplete
		}

		return int(total), nil
	}

	var h zstd.Header
	if err := h.Decode(b); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrIncomplete
		}

		return 0, zstdkit.WrapEngine("parse frame header", err)
	}

	// Walk block headers until the last-block flag. Each block starts with a
	// 3-byte little-endian header: bit 0 last-block, bits 1-2 type, bits 3-23
	// size.
	pos := h.HeaderSize
	for {
		if pos+blockHeaderSize > len(b) {
			return 0, ErrIncomplete
		}
		bh := uint32(b[pos]) | uint32(b[pos+1])<<8 | uint32(b[pos+2])<<16
		last := bh&1 != 0
		blockType := (bh >> 1) & 3
		blockSize := int(bh >> 3)
		pos += blockHeaderSize

		switch blockType {
		case 0, 2: // raw, compressed: size bytes of payload
			pos += blockSize
		case 1: // RLE: a single byte repeated blockSize times
			pos++
		default:
			return 0, zstdkit.WrapEngine("parse frame",
				fmt.Errorf("reserved block type at offset %d", pos-blockHeaderSize))
		}
		if pos > len(b) {
			return 0, ErrIncomplete
		}
		if last {
			break
		}
	}

	if h.HasCheckSum {
		pos += checksumSize
		if pos > len(b) {
			return 0, ErrIncomplete
		}
	}

	return pos, nil
}

// ContentSize reads the decompressed size declared in the header of the
// frame starting at b[0]. known is false when the frame does not declare a
// content size (streaming frames usually do not). Skippable frames decode to
// nothing and report (0, true).
func ContentSize(b []byte) (size uint64, known bool, err error) {
	if len(b) < magicSize {
		return 0, false, ErrIncomplete
	}

	if IsSkippable(b) {
		return 0, true, nil
	}

	var h zstd.Header
	if err := h.Decode(b); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, false, ErrIncomplete
		}

		return 0, false, zstdkit.WrapEngine("parse frame header", err)
	}

	if !h.HasFCS {
		return 0, false, nil
	}

	return h.FrameContentSize, true, nil
}

// DictionaryID reads the dictionary identifier declared in the header of the
// frame starting at b[0]. It returns 0 when the frame does not reference a
// dictionary.
func DictionaryID(b []byte) (uint32, error) {
	if len(b) < magicSize {
		return 0, ErrIncomplete
	}
	if IsSkippable(b) {
		return 0, nil
	}

	var h zstd.Header
	if err := h.Decode(b); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrIncomplete
		}

		return 0, zstdkit.WrapEngine("parse frame header", err)
	}

	return h.DictionaryID, nil
}

// Enumerate walks blob in a single forward pass and returns one Descriptor
// per complete frame, in blob order. Regular and skippable frames are both
// reported; the descriptors of a well-formed blob tile it exactly.
//
// Enumeration stops cleanly at trailing data that is truncated or not a
// frame; incomplete trailing frames produce no descriptor and no error.
func Enumerate(blob []byte) []Descriptor {
	var frames []Descriptor

	offset := 0
	for offset+magicSize <= len(blob) {
		length, err := CompressedSize(blob[offset:])
		if err != nil {
			break
		}
		frames = append(frames, Descriptor{Offset: offset, Length: length})
		offset += length
	}

	return frames
}
