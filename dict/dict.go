package dict

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/zstdkit"
	"github.com/arloliu/zstdkit/endian"
)

// dictMagic is the magic number opening every trained dictionary,
// 0xEC30A437 little-endian, followed by the 32-bit dictionary identifier.
const dictMagic = 0xEC30A437

const dictHeaderSize = 8

var le = endian.GetLittleEndianEngine()

// GetDictID returns the identifier embedded in dictBytes.
//
// It is a pure read of the dictionary header: empty input, raw-content
// dictionaries and anything without the dictionary magic report 0 without
// touching the engine.
func GetDictID(dictBytes []byte) uint32 {
	if len(dictBytes) < dictHeaderSize {
		return 0
	}
	if le.Uint32(dictBytes) != dictMagic {
		return 0
	}

	return le.Uint32(dictBytes[4:dictHeaderSize])
}

// CDict is a dictionary compiled for compression, bound to the compression
// level it was created with.
//
// A CDict may be shared by concurrently running one-shot Compress calls.
// Call Release exactly once when the dictionary is no longer used.
type CDict struct {
	content  []byte
	level    int
	id       uint32
	enc      *zstd.Encoder
	released bool
}

// NewCDict compiles a compression dictionary from dictBytes at
// DefaultCompressionLevel. The bytes are copied.
//
// Call Release when the returned dictionary is no longer used.
func NewCDict(dictBytes []byte) (*CDict, error) {
	return NewCDictLevel(dictBytes, zstdkit.DefaultCompressionLevel)
}

// NewCDictLevel compiles a compression dictionary from dictBytes at the
// given compression level. The bytes are copied.
//
// Call Release when the returned dictionary is no longer used.
func NewCDictLevel(dictBytes []byte, level int) (*CDict, error) {
	if len(dictBytes) == 0 {
		return nil, fmt.Errorf("%w: dict cannot be empty", zstdkit.ErrInvalidInput)
	}

	content := make([]byte, len(dictBytes))
	copy(content, dictBytes)

	return compileCDict(content, level)
}

// NewCDictByRef compiles a compression dictionary at DefaultCompressionLevel
// without copying dictBytes.
//
// The caller must keep dictBytes alive and unmodified for the entire
// lifetime of the returned dictionary.
func NewCDictByRef(dictBytes []byte) (*CDict, error) {
	return NewCDictByRefLevel(dictBytes, zstdkit.DefaultCompressionLevel)
}

// NewCDictByRefLevel compiles a compression dictionary at the given level
// without copying dictBytes.
//
// The caller must keep dictBytes alive and unmodified for the entire
// lifetime of the returned dictionary.
func NewCDictByRefLevel(dictBytes []byte, level int) (*CDict, error) {
	if len(dictBytes) == 0 {
		return nil, fmt.Errorf("%w: dict cannot be empty", zstdkit.ErrInvalidInput)
	}

	return compileCDict(dictBytes, level)
}

func compileCDict(content []byte, level int) (*CDict, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(false),
		zstd.WithZeroFrames(true),
		zstd.WithEncoderDict(content),
	)
	if err != nil {
		return nil, zstdkit.WrapEngine("compile compression dictionary", err)
	}

	return &CDict{
		content: content,
		level:   level,
		id:      GetDictID(content),
		enc:     enc,
	}, nil
}

// ID returns the dictionary's embedded identifier, 0 for raw-content
// dictionaries.
func (cd *CDict) ID() uint32 {
	return cd.id
}

// Level returns the compression level the dictionary was compiled for.
func (cd *CDict) Level() int {
	return cd.level
}

// Bytes returns the dictionary's source bytes, or nil after Release.
// The returned slice must not be modified.
func (cd *CDict) Bytes() []byte {
	return cd.content
}

// Release frees the engine resources owned by the dictionary.
// Releasing twice is a no-op; any other use after Release fails.
func (cd *CDict) Release() {
	if cd == nil || cd.released {
		return
	}
	cd.released = true
	_ = cd.enc.Close()
	cd.enc = nil
	cd.content = nil
}

// DDict is a dictionary compiled for decompression. Unlike CDict it is not
// bound to a compression level.
//
// A DDict may be shared by concurrently running one-shot Decompress calls.
// Call Release exactly once when the dictionary is no longer used.
type DDict struct {
	content  []byte
	id       uint32
	dec      *zstd.Decoder
	released bool
}

// NewDDict compiles a decompression dictionary from dictBytes.
// The bytes are copied.
//
// Call Release when the returned dictionary is no longer needed.
func NewDDict(dictBytes []byte) (*DDict, error) {
	if len(dictBytes) == 0 {
		return nil, fmt.Errorf("%w: dict cannot be empty", zstdkit.ErrInvalidInput)
	}

	content := make([]byte, len(dictBytes))
	copy(content, dictBytes)

	return compileDDict(content)
}

// NewDDictByRef compiles a decompression dictionary without copying
// dictBytes.
//
// The caller must keep dictBytes alive and unmodified for the entire
// lifetime of the returned dictionary.
func NewDDictByRef(dictBytes []byte) (*DDict, error) {
	if len(dictBytes) == 0 {
		return nil, fmt.Errorf("%w: dict cannot be empty", zstdkit.ErrInvalidInput)
	}

	return compileDDict(dictBytes)
}

func compileDDict(content []byte) (*DDict, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderDicts(content),
	)
	if err != nil {
		return nil, zstdkit.WrapEngine("compile decompression dictionary", err)
	}

	return &DDict{
		content: content,
		id:      GetDictID(content),
		dec:     dec,
	}, nil
}

// ID returns the dictionary's embedded identifier, 0 for raw-content
// dictionaries.
func (dd *DDict) ID() uint32 {
	return dd.id
}

// Bytes returns the dictionary's source bytes, or nil after Release.
// The returned slice must not be modified.
func (dd *DDict) Bytes() []byte {
	return dd.content
}

// Release frees the engine resources owned by the dictionary.
// Releasing twice is a no-op; any other use after Release fails.
func (dd *DDict) Release() {
	if dd == nil || dd.released {
		return
	}
	dd.released = true
	dd.dec.Close()
	dd.dec = nil
	dd.content = nil
}
