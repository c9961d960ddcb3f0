package zstdkit

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by zstdkit and its subpackages.
//
// All failures returned by this module match exactly one of these classes
// via errors.Is, possibly wrapped with call-site context.
var (
	// ErrInvalidInput reports empty, nil or zero-sized arguments, or a
	// malformed sample set passed to dictionary training.
	ErrInvalidInput = errors.New("zstdkit: invalid input")

	// ErrBufferTooSmall reports that the engine signalled unwritten bytes
	// after a terminal call. The caller owns output sizing; the session does
	// not retry with a larger buffer.
	ErrBufferTooSmall = errors.New("zstdkit: output buffer too small")

	// ErrUnsupportedFeature reports a tuning parameter the current engine
	// build does not implement.
	ErrUnsupportedFeature = errors.New("zstdkit: feature not supported by engine")

	// ErrDisposed reports an operation on a session or dictionary after it
	// was released.
	ErrDisposed = errors.New("zstdkit: use after release")
)

// EngineError wraps a non-zero error reported by the codec engine.
//
// Engine errors are fatal for the call that produced them; a streaming
// session that returned an EngineError must not be reused.
type EngineError struct {
	// Op names the engine operation that failed, e.g. "compress stream".
	Op string
	// Err is the engine's diagnostic, preserved for errors.Is/As.
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("zstdkit: engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// WrapEngine wraps an engine diagnostic into an *EngineError.
// It returns nil when err is nil.
func WrapEngine(op string, err error) error {
	if err == nil {
		return nil
	}

	return &EngineError{Op: op, Err: err}
}

// IsEngineError reports whether err carries an engine diagnostic.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
