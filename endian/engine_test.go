package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.LittleEndian, engine)

	// The Zstandard frame magic is defined as the little-endian byte
	// sequence 28 B5 2F FD.
	magic := []byte{0x28, 0xB5, 0x2F, 0xFD}
	require.Equal(t, uint32(0xFD2FB528), engine.Uint32(magic))

	out := engine.AppendUint32(nil, 0xFD2FB528)
	require.Equal(t, magic, out)
}

func TestEngineRoundTrip(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := make([]byte, 8)
	engine.PutUint64(buf, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))
	require.Equal(t, byte(0x08), buf[0], "least significant byte first")

	buf = engine.AppendUint16(nil, 0xA437)
	require.Equal(t, []byte{0x37, 0xA4}, buf)
	require.Equal(t, uint16(0xA437), engine.Uint16(buf))
}
