package stream

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/zstdkit"
	"github.com/arloliu/zstdkit/dict"
	"github.com/arloliu/zstdkit/frame"
	"github.com/arloliu/zstdkit/internal/options"
	"github.com/arloliu/zstdkit/internal/pool"
)

// DecompressorOption configures a Decompressor at construction time.
type DecompressorOption = options.Option[*Decompressor]

// WithStrictParams makes best-effort tuning parameters fatal when the engine
// does not support them, instead of downgrading them to no-ops.
func WithStrictParams(strict bool) DecompressorOption {
	return options.NoError(func(d *Decompressor) {
		d.strict = strict
	})
}

// WithMaxWindowLog caps the window size accepted from frame headers at
// construction.
func WithMaxWindowLog(log int) DecompressorOption {
	return options.New(func(d *Decompressor) error {
		return d.SetMaxWindowLog(log)
	})
}

// WithDecompressorDict attaches a dictionary by full load at construction.
func WithDecompressorDict(dictBytes []byte) DecompressorOption {
	return options.New(func(d *Decompressor) error {
		return d.LoadDictionary(dictBytes)
	})
}

// Decompressor owns one streaming decompression session. A stream may carry
// any number of frames; there is no Finished state, because end-of-frame is
// data, not lifecycle: the session keeps accepting input for following
// frames until it is closed.
//
// Decompressor is not thread-safe; see the package documentation for the
// session protocol and lifecycle.
type Decompressor struct {
	state  sessionState
	strict bool

	maxWindowLog int
	// dicts are the registered dictionaries; the engine selects by the
	// dictionary ID named in each frame header. By-ref entries alias caller
	// memory.
	dicts [][]byte

	dec *zstd.Decoder
	// pending accumulates compressed input until it holds a complete frame.
	pending *pool.ByteBuffer
	// spill stages decoded bytes the caller has not drained yet.
	spill *pool.ByteBuffer
}

// NewDecompressor creates a decompression session in the Created state.
func NewDecompressor(opts ...DecompressorOption) (*Decompressor, error) {
	d := &Decompressor{
		state:   stateCreated,
		pending: pool.GetStagingBuffer(),
		spill:   pool.GetStagingBuffer(),
	}

	if err := options.Apply(d, opts...); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

func (d *Decompressor) configurable() error {
	switch d.state {
	case stateDisposed:
		return fmt.Errorf("%w: decompression session", zstdkit.ErrDisposed)
	case stateCreated:
		return nil
	default:
		return fmt.Errorf("%w: session already %s, tuning requires a fresh session", zstdkit.ErrInvalidInput, d.state)
	}
}

// SetMaxWindowLog caps the window size accepted from frame headers,
// protecting against frames that demand excessive decode memory.
func (d *Decompressor) SetMaxWindowLog(log int) error {
	if err := d.configurable(); err != nil {
		return err
	}
	if log < 10 || log > 31 {
		return fmt.Errorf("%w: window log %d outside 10-31", zstdkit.ErrInvalidInput, log)
	}
	d.maxWindowLog = log

	return nil
}

// SetStableOutput requests the stable-output-buffer performance hint.
//
// The hint is best-effort: an engine build without the feature downgrades
// the request to a no-op and reports CapabilityIgnored, unless the session
// was built with WithStrictParams(true), in which case the rejection is
// fatal. This is the single place a parameter rejection is deliberately
// swallowed. Disabling the hint always applies.
func (d *Decompressor) SetStableOutput(enabled bool) (Capability, error) {
	if err := d.configurable(); err != nil {
		return CapabilityFailed, err
	}
	if !enabled {
		return CapabilityApplied, nil
	}

	// The pure-Go engine copies into the caller's region on every drain and
	// has no stable-buffer fast path to enable.
	if d.strict {
		return CapabilityFailed, fmt.Errorf("%w: stable output buffer", zstdkit.ErrUnsupportedFeature)
	}

	return CapabilityIgnored, nil
}

// LoadDictionary registers a dictionary by full load: the bytes are copied.
// Several dictionaries may be registered; frames select by identifier.
func (d *Decompressor) LoadDictionary(dictBytes []byte) error {
	if err := d.configurable(); err != nil {
		return err
	}
	if len(dictBytes) == 0 {
		return fmt.Errorf("%w: empty dictionary", zstdkit.ErrInvalidInput)
	}

	content := make([]byte, len(dictBytes))
	copy(content, dictBytes)
	d.dicts = append(d.dicts, content)

	return nil
}

// LoadDictionaryByRef registers a dictionary without copying. The caller
// must keep dictBytes alive and unmodified for the session's entire
// remaining lifetime.
func (d *Decompressor) LoadDictionaryByRef(dictBytes []byte) error {
	if err := d.configurable(); err != nil {
		return err
	}
	if len(dictBytes) == 0 {
		return fmt.Errorf("%w: empty dictionary", zstdkit.ErrInvalidInput)
	}
	d.dicts = append(d.dicts, dictBytes)

	return nil
}

// UseDDict registers a precompiled decompression dictionary.
func (d *Decompressor) UseDDict(dd *dict.DDict) error {
	if err := d.configurable(); err != nil {
		return err
	}
	if dd == nil {
		return fmt.Errorf("%w: nil dictionary", zstdkit.ErrInvalidInput)
	}
	content := dd.Bytes()
	if content == nil {
		return fmt.Errorf("%w: decompression dictionary", zstdkit.ErrDisposed)
	}
	d.dicts = append(d.dicts, content)

	return nil
}

func (d *Decompressor) bind() error {
	if d.dec != nil {
		return nil
	}

	dopts := []zstd.DOption{
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	}
	if d.maxWindowLog > 0 {
		dopts = append(dopts, zstd.WithDecoderMaxWindow(uint64(1)<<d.maxWindowLog))
	}
	if len(d.dicts) > 0 {
		dopts = append(dopts, zstd.WithDecoderDicts(d.dicts...))
	}

	dec, err := zstd.NewReader(nil, dopts...)
	if err != nil {
		return zstdkit.WrapEngine("create decompression stream", err)
	}

	d.dec = dec
	d.state = stateActive

	return nil
}

// Decompress drives one engine step: it ingests unconsumed input, decodes
// every complete frame received so far, and moves decoded bytes into out.
// Skippable frames are consumed silently, matching the engine's streaming
// behavior.
//
// written is the number of bytes placed in out; consumed reports whether the
// input record is fully consumed. Incomplete trailing input is staged, not
// an error: end-of-frame is detected from the data itself, and more frames
// may follow in the same stream. Decoded bytes beyond out's capacity remain
// staged for subsequent calls.
func (d *Decompressor) Decompress(in *InBuffer, out *OutBuffer) (written int, consumed bool, err error) {
	if d.state == stateDisposed {
		return 0, false, fmt.Errorf("%w: decompression session", zstdkit.ErrDisposed)
	}
	if in == nil || len(in.Data) == 0 {
		return 0, false, fmt.Errorf("%w: empty input buffer", zstdkit.ErrInvalidInput)
	}
	if err := checkOut(out); err != nil {
		return 0, false, err
	}
	if err := d.bind(); err != nil {
		return 0, false, err
	}

	if !in.Exhausted() {
		_, _ = d.pending.Write(in.Data[in.Pos:])
		in.Pos = len(in.Data)
	}

	if err := d.decodePending(); err != nil {
		return 0, false, err
	}

	written = d.spill.DrainTo(out.Data[out.Pos:])
	out.Pos += written

	return written, true, nil
}

// decodePending decodes every complete frame staged in pending into spill.
func (d *Decompressor) decodePending() error {
	for {
		staged := d.pending.Bytes()
		frameLen, err := frame.CompressedSize(staged)
		if errors.Is(err, frame.ErrIncomplete) {
			return nil
		}
		if err != nil {
			return err
		}

		if !frame.IsSkippable(staged) {
			decoded, derr := d.dec.DecodeAll(staged[:frameLen], d.spill.B)
			if derr != nil {
				return zstdkit.WrapEngine("decompress stream", derr)
			}
			d.spill.B = decoded
		}
		d.pending.Consume(frameLen)
	}
}

// Close releases the engine session. Closing twice is a no-op; any other
// call after Close fails with ErrDisposed. Staged input from a truncated
// trailing frame is discarded silently.
func (d *Decompressor) Close() error {
	if d.state == stateDisposed {
		return nil
	}

	if d.dec != nil {
		d.dec.Close()
		d.dec = nil
	}
	if d.pending != nil {
		pool.PutStagingBuffer(d.pending)
		d.pending = nil
	}
	if d.spill != nil {
		pool.PutStagingBuffer(d.spill)
		d.spill = nil
	}
	d.dicts = nil
	d.state = stateDisposed

	return nil
}
