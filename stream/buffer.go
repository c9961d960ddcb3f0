package stream

// InBuffer is the input record of the buffer exchange protocol: a view over
// a caller-owned region plus the position of the next unconsumed byte.
//
// The session advances Pos as it consumes input; Pos never exceeds
// len(Data) and never decreases within one call. The record is a transient
// reference, not an owned buffer: the region must stay valid for the
// duration of the call.
type InBuffer struct {
	// Data is the caller-owned input region.
	Data []byte
	// Pos is the number of bytes already consumed.
	Pos int
}

// Remaining returns the number of unconsumed input bytes.
func (b *InBuffer) Remaining() int {
	return len(b.Data) - b.Pos
}

// Exhausted reports whether every input byte has been consumed.
func (b *InBuffer) Exhausted() bool {
	return b.Pos >= len(b.Data)
}

// OutBuffer is the output record of the buffer exchange protocol: a view
// over a caller-owned region plus the position one past the last byte
// produced.
type OutBuffer struct {
	// Data is the caller-owned output region.
	Data []byte
	// Pos is the number of bytes produced so far.
	Pos int
}

// Bytes returns the produced prefix of the output region.
func (b *OutBuffer) Bytes() []byte {
	return b.Data[:b.Pos]
}

// Remaining returns the unused capacity of the output region.
func (b *OutBuffer) Remaining() int {
	return len(b.Data) - b.Pos
}

// Reset rewinds the record to reuse the same backing region.
func (b *OutBuffer) Reset() {
	b.Pos = 0
}
