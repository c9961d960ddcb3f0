// Package pool provides reusable byte buffers for the streaming sessions.
//
// Compression and decompression sessions stage engine output in a ByteBuffer
// until the caller drains it through its own output region. Buffers are
// pooled to keep steady-state sessions allocation-free.
package pool

import (
	"io"
	"sync"
)

const (
	// StagingBufferDefaultSize is the default capacity of a pooled staging
	// buffer, sized for one typical compressed block.
	StagingBufferDefaultSize = 1024 * 16 // 16KiB
	// StagingBufferMaxThreshold caps the capacity of buffers returned to the
	// pool; anything larger is dropped to avoid memory bloat.
	StagingBufferMaxThreshold = 1024 * 1024 // 1MiB
)

// ByteBuffer is a growable byte slice that implements io.Writer and supports
// consuming bytes from the front, which is the access pattern of the
// session staging buffers: the engine appends at the tail, the caller drains
// from the head.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Consume drops the first n bytes, shifting the remainder to the front.
// Panics if n is negative or greater than Len.
func (bb *ByteBuffer) Consume(n int) {
	if n < 0 || n > len(bb.B) {
		panic("Consume: invalid count")
	}
	if n == 0 {
		return
	}

	remaining := copy(bb.B, bb.B[n:])
	bb.B = bb.B[:remaining]
}

// DrainTo copies buffered bytes into dst, consumes the copied prefix and
// returns the number of bytes moved.
func (bb *ByteBuffer) DrainTo(dst []byte) int {
	n := copy(dst, bb.B)
	bb.Consume(n)

	return n
}

// Grow ensures the buffer can hold requiredBytes more bytes without
// reallocating. If the buffer already has sufficient capacity, Grow does
// nothing.
//
// Small buffers grow by StagingBufferDefaultSize to minimize reallocations;
// larger buffers grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := StagingBufferDefaultSize
	if cap(bb.B) > 4*StagingBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
// It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. The pool can be configured with a maximum
// size threshold to avoid retaining overly large buffers.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var stagingPool = NewByteBufferPool(StagingBufferDefaultSize, StagingBufferMaxThreshold)

// GetStagingBuffer retrieves a ByteBuffer from the default staging pool.
func GetStagingBuffer() *ByteBuffer {
	return stagingPool.Get()
}

// PutStagingBuffer returns a ByteBuffer to the default staging pool.
func PutStagingBuffer(bb *ByteBuffer) {
	stagingPool.Put(bb)
}
