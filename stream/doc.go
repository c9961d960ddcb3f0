// Package stream provides streaming Zstandard compression and decompression
// sessions driven through caller-owned, bounded buffers.
//
// # Buffer Exchange Protocol
//
// Each call takes one InBuffer and one OutBuffer by reference. A call may
// make partial progress: input can remain unconsumed when staged output
// fills the output region first. The caller owns the outer loop:
//
//	in := &stream.InBuffer{Data: chunk}
//	out := &stream.OutBuffer{Data: make([]byte, 4096)}
//	for !in.Exhausted() {
//	    n, _, err := c.Compress(in, out)
//	    if err != nil {
//	        return err
//	    }
//	    sink.Write(out.Bytes()[:n]) // consume before the next call
//	    out.Reset()
//	}
//
// Output produced by one call must be consumed before the next, because the
// caller resets the output record (Pos = 0, same backing region) each
// iteration.
//
// # Session Lifecycle
//
// A Compressor moves Created -> Active -> Finished -> Disposed; a
// Decompressor has no Finished state since a stream may carry any number of
// frames. Tuning calls are only valid in the Created state, before the first
// data call binds the engine session. Close releases the engine session
// exactly once; closing twice is a no-op, and every other call on a closed
// session fails with zstdkit.ErrDisposed.
//
// Any engine-reported error is fatal to the session: the call fails with an
// *zstdkit.EngineError and the session must not be reused.
//
// # Thread Safety
//
// Sessions are not thread-safe. Calls on one session must be strictly
// sequential; serialization is the caller's responsibility. Distinct
// sessions share no mutable state.
package stream
