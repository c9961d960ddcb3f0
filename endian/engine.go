// Package endian provides the byte order engine for binary decoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single EndianEngine interface so that decoding and
// appending code can share one engine value.
//
// The Zstandard frame and dictionary formats store every multi-byte field
// little-endian, so users of this package want GetLittleEndianEngine:
//
//	engine := endian.GetLittleEndianEngine()
//	magic := engine.Uint32(blob[:4])
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian,
// making it fully compatible with existing Go code.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the byte order of
// all Zstandard frame and dictionary fields.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
