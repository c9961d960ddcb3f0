package stream

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/zstdkit"
	"github.com/arloliu/zstdkit/dict"
	"github.com/arloliu/zstdkit/internal/options"
	"github.com/arloliu/zstdkit/internal/pool"
)

// ldmWindowSize is the match window used when long-distance matching is
// requested, mirroring libzstd's default LDM window of 2^27.
const ldmWindowSize = 1 << 27

// CompressorOption configures a Compressor at construction time.
type CompressorOption = options.Option[*Compressor]

// WithLevel sets the compression level for the session's frame.
func WithLevel(level int) CompressorOption {
	return options.NoError(func(c *Compressor) {
		c.level = level
	})
}

// WithChecksum toggles the frame content checksum.
func WithChecksum(enabled bool) CompressorOption {
	return options.New(func(c *Compressor) error {
		return c.SetChecksum(enabled)
	})
}

// WithWorkers sets the engine worker count; 0 keeps compression
// single-threaded and deterministic.
func WithWorkers(n int) CompressorOption {
	return options.New(func(c *Compressor) error {
		return c.SetWorkers(n)
	})
}

// WithLongDistanceMatching toggles long-distance matching.
func WithLongDistanceMatching(enabled bool) CompressorOption {
	return options.New(func(c *Compressor) error {
		return c.SetLongDistanceMatching(enabled)
	})
}

// WithCompressorDict attaches a dictionary by full load at construction.
func WithCompressorDict(dictBytes []byte) CompressorOption {
	return options.New(func(c *Compressor) error {
		return c.LoadDictionary(dictBytes)
	})
}

// Compressor owns one streaming compression session producing a single
// frame: any sequence of Compress and Flush calls, then Finish to emit the
// frame trailer.
//
// Compressor is not thread-safe; see the package documentation for the
// session protocol and lifecycle.
type Compressor struct {
	state sessionState

	level    int
	workers  int
	checksum bool
	ldm      bool
	pledged  uint64

	// dictContent is the attached dictionary, nil when none. For by-ref
	// loads it aliases caller memory.
	dictContent []byte

	enc   *zstd.Encoder
	spill *pool.ByteBuffer
	// trailerDone is set once the engine emitted the frame trailer, so a
	// Finish retry after ErrBufferTooSmall only drains.
	trailerDone bool
}

// NewCompressor creates a compression session in the Created state.
func NewCompressor(opts ...CompressorOption) (*Compressor, error) {
	c := &Compressor{
		state: stateCreated,
		level: zstdkit.DefaultCompressionLevel,
		spill: pool.GetStagingBuffer(),
	}

	if err := options.Apply(c, opts...); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// configurable guards the tuning calls, which are only legal before the
// engine session is bound.
func (c *Compressor) configurable() error {
	switch c.state {
	case stateDisposed:
		return fmt.Errorf("%w: compression session", zstdkit.ErrDisposed)
	case stateCreated:
		return nil
	default:
		return fmt.Errorf("%w: session already %s, tuning requires a fresh session", zstdkit.ErrInvalidInput, c.state)
	}
}

// SetWorkers sets the engine worker count. 0 keeps compression
// single-threaded and deterministic; larger values delegate block
// compression to the engine's internal worker pool.
func (c *Compressor) SetWorkers(n int) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative worker count %d", zstdkit.ErrInvalidInput, n)
	}
	c.workers = n

	return nil
}

// SetChecksum toggles the frame content checksum emitted by Finish.
func (c *Compressor) SetChecksum(enabled bool) error {
	if err := c.configurable(); err != nil {
		return err
	}
	c.checksum = enabled

	return nil
}

// SetLongDistanceMatching toggles long-distance matching, widening the match
// window for large redundant inputs.
func (c *Compressor) SetLongDistanceMatching(enabled bool) error {
	if err := c.configurable(); err != nil {
		return err
	}
	c.ldm = enabled

	return nil
}

// SetPledgedSrcSize declares the total source size for this frame. It is an
// optimization hint, not a hard limit; the session pre-sizes its staging
// buffer from it.
func (c *Compressor) SetPledgedSrcSize(size uint64) error {
	if err := c.configurable(); err != nil {
		return err
	}
	c.pledged = size

	return nil
}

// LoadDictionary attaches a dictionary by full load: the bytes are copied
// and the session keeps its own reference.
func (c *Compressor) LoadDictionary(dictBytes []byte) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if len(dictBytes) == 0 {
		return fmt.Errorf("%w: empty dictionary", zstdkit.ErrInvalidInput)
	}

	content := make([]byte, len(dictBytes))
	copy(content, dictBytes)
	c.dictContent = content

	return nil
}

// LoadDictionaryByRef attaches a dictionary without copying. The caller must
// keep dictBytes alive and unmodified for the session's entire remaining
// lifetime.
func (c *Compressor) LoadDictionaryByRef(dictBytes []byte) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if len(dictBytes) == 0 {
		return fmt.Errorf("%w: empty dictionary", zstdkit.ErrInvalidInput)
	}
	c.dictContent = dictBytes

	return nil
}

// UseCDict attaches a precompiled compression dictionary. The session adopts
// the dictionary's compression level, since a CDict is bound to the level it
// was compiled for.
func (c *Compressor) UseCDict(cd *dict.CDict) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if cd == nil {
		return fmt.Errorf("%w: nil dictionary", zstdkit.ErrInvalidInput)
	}
	content := cd.Bytes()
	if content == nil {
		return fmt.Errorf("%w: compression dictionary", zstdkit.ErrDisposed)
	}

	c.dictContent = content
	c.level = cd.Level()

	return nil
}

// bind creates the engine session on the first data call.
func (c *Compressor) bind() error {
	if c.enc != nil {
		return nil
	}

	workers := c.workers
	if workers < 1 {
		workers = 1
	}

	eopts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.level)),
		zstd.WithEncoderCRC(c.checksum),
		zstd.WithEncoderConcurrency(workers),
	}
	if c.ldm {
		eopts = append(eopts, zstd.WithWindowSize(ldmWindowSize))
	}
	if c.dictContent != nil {
		eopts = append(eopts, zstd.WithEncoderDict(c.dictContent))
	}

	enc, err := zstd.NewWriter(c.spill, eopts...)
	if err != nil {
		return zstdkit.WrapEngine("create compression stream", err)
	}

	if c.pledged > 0 {
		// Sizing hint only: keep the staging buffer from growing in steps.
		hint := zstdkit.CompressBound(int(c.pledged))
		if hint > pool.StagingBufferMaxThreshold {
			hint = pool.StagingBufferMaxThreshold
		}
		c.spill.Grow(hint)
	}

	c.enc = enc
	c.state = stateActive

	return nil
}

// Compress drives one engine step: it consumes unconsumed input when no
// staged output is pending, then moves staged output into out.
//
// written is the number of bytes placed in out; consumed reports whether the
// input record is fully consumed. When consumed is false the caller must
// call again (after consuming out) with the same input record.
func (c *Compressor) Compress(in *InBuffer, out *OutBuffer) (written int, consumed bool, err error) {
	switch c.state {
	case stateDisposed:
		return 0, false, fmt.Errorf("%w: compression session", zstdkit.ErrDisposed)
	case stateFinished:
		return 0, false, fmt.Errorf("%w: Compress after Finish", zstdkit.ErrInvalidInput)
	}
	if in == nil || len(in.Data) == 0 {
		return 0, false, fmt.Errorf("%w: empty input buffer", zstdkit.ErrInvalidInput)
	}
	if err := checkOut(out); err != nil {
		return 0, false, err
	}
	if err := c.bind(); err != nil {
		return 0, false, err
	}

	// Take new input only once prior output is fully delivered, so the
	// caller's drain loop observes partial consumption instead of unbounded
	// internal buffering.
	if c.spill.Len() == 0 && !in.Exhausted() {
		if _, werr := c.enc.Write(in.Data[in.Pos:]); werr != nil {
			return 0, false, zstdkit.WrapEngine("compress stream", werr)
		}
		in.Pos = len(in.Data)
	}

	written = c.spill.DrainTo(out.Data[out.Pos:])
	out.Pos += written

	return written, in.Exhausted(), nil
}

// Flush forces buffered-but-unemitted compressed bytes out without ending
// the frame, for output boundaries that must align with the data consumed so
// far. Staged bytes beyond out's capacity remain for subsequent calls.
func (c *Compressor) Flush(out *OutBuffer) (int, error) {
	switch c.state {
	case stateDisposed:
		return 0, fmt.Errorf("%w: compression session", zstdkit.ErrDisposed)
	case stateFinished:
		return 0, fmt.Errorf("%w: Flush after Finish", zstdkit.ErrInvalidInput)
	}
	if err := checkOut(out); err != nil {
		return 0, err
	}
	if err := c.bind(); err != nil {
		return 0, err
	}

	if err := c.enc.Flush(); err != nil {
		return 0, zstdkit.WrapEngine("flush compression stream", err)
	}

	written := c.spill.DrainTo(out.Data[out.Pos:])
	out.Pos += written

	return written, nil
}

// Finish ends the frame: the engine emits the closing trailer (end marker
// and checksum when enabled) and Finish moves it into out.
//
// When out is too small for the remaining bytes, Finish returns
// ErrBufferTooSmall with the remaining count; the trailer is already
// emitted, and a follow-up Finish call drains the remainder. The session
// never retries with a larger buffer on the caller's behalf.
func (c *Compressor) Finish(out *OutBuffer) (int, error) {
	switch c.state {
	case stateDisposed:
		return 0, fmt.Errorf("%w: compression session", zstdkit.ErrDisposed)
	case stateFinished:
		return 0, nil
	}
	if err := checkOut(out); err != nil {
		return 0, err
	}
	if err := c.bind(); err != nil {
		return 0, err
	}

	if !c.trailerDone {
		if err := c.enc.Close(); err != nil {
			return 0, zstdkit.WrapEngine("finish compression stream", err)
		}
		c.trailerDone = true
	}

	written := c.spill.DrainTo(out.Data[out.Pos:])
	out.Pos += written

	if remaining := c.spill.Len(); remaining > 0 {
		return written, fmt.Errorf("%w: %d frame bytes not yet written", zstdkit.ErrBufferTooSmall, remaining)
	}

	c.state = stateFinished

	return written, nil
}

// Close releases the engine session. Closing twice is a no-op; any other
// call after Close fails with ErrDisposed.
func (c *Compressor) Close() error {
	if c.state == stateDisposed {
		return nil
	}

	if c.enc != nil && !c.trailerDone {
		// Abandoning an unfinished frame; the staged bytes are dropped.
		_ = c.enc.Close()
	}
	c.enc = nil

	if c.spill != nil {
		pool.PutStagingBuffer(c.spill)
		c.spill = nil
	}
	c.dictContent = nil
	c.state = stateDisposed

	return nil
}

func checkOut(out *OutBuffer) error {
	if out == nil || len(out.Data) == 0 {
		return fmt.Errorf("%w: empty output buffer", zstdkit.ErrInvalidInput)
	}
	if out.Pos >= len(out.Data) {
		return fmt.Errorf("%w: output buffer has no free space", zstdkit.ErrInvalidInput)
	}

	return nil
}
