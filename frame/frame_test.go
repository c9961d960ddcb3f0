package frame

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zstdkit"
)

func compressFrame(t *testing.T, payload []byte) []byte {
	t.Helper()

	compressed, err := zstdkit.Compress(nil, payload)
	require.NoError(t, err)

	return compressed
}

// streamFrame produces a frame with an unknown content size. The flush in
// the middle forces the frame header out before the total is known, so the
// encoder cannot declare a content size at Close.
func streamFrame(t *testing.T, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	require.NoError(t, err)

	half := len(payload) / 2
	_, err = enc.Write(payload[:half])
	require.NoError(t, err)
	require.NoError(t, enc.Flush())
	_, err = enc.Write(payload[half:])
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	return buf.Bytes()
}

func skippableFrame(t *testing.T, nibble int, payload []byte) []byte {
	t.Helper()
	require.LessOrEqual(t, nibble, 0xF)

	b := le.AppendUint32(nil, uint32(SkippableMagicBase+nibble))
	b = le.AppendUint32(b, uint32(len(payload)))

	return append(b, payload...)
}

func TestIsSkippable(t *testing.T) {
	for nibble := 0; nibble < 16; nibble++ {
		require.True(t, IsSkippable(skippableFrame(t, nibble, nil)))
	}

	require.False(t, IsSkippable(compressFrame(t, []byte("data"))))
	require.False(t, IsSkippable([]byte{0x28, 0xB5}), "short input is never skippable")
	require.False(t, IsSkippable(le.AppendUint32(nil, SkippableMagicBase-1)))
	require.False(t, IsSkippable(le.AppendUint32(nil, SkippableMagicBase+16)))
}

func TestCompressedSize(t *testing.T) {
	regular := compressFrame(t, bytes.Repeat([]byte("abc123"), 500))
	skippable := skippableFrame(t, 3, []byte("metadata"))

	t.Run("exact frame", func(t *testing.T) {
		n, err := CompressedSize(regular)
		require.NoError(t, err)
		require.Equal(t, len(regular), n)
	})

	t.Run("frame with trailing data", func(t *testing.T) {
		blob := append(append([]byte{}, regular...), "trailing junk"...)
		n, err := CompressedSize(blob)
		require.NoError(t, err)
		require.Equal(t, len(regular), n)
	})

	t.Run("skippable frame", func(t *testing.T) {
		n, err := CompressedSize(skippable)
		require.NoError(t, err)
		require.Equal(t, len(skippable), n)
	})

	t.Run("truncated inputs", func(t *testing.T) {
		for cut := 1; cut < len(regular); cut += 7 {
			_, err := CompressedSize(regular[:cut])
			require.ErrorIs(t, err, ErrIncomplete, "cut at %d", cut)
		}

		_, err := CompressedSize(skippable[:6])
		require.ErrorIs(t, err, ErrIncomplete)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := CompressedSize([]byte("not a frame, not at all"))
		require.Error(t, err)
		require.True(t, zstdkit.IsEngineError(err))
	})
}

func TestContentSize(t *testing.T) {
	payload := bytes.Repeat([]byte("payload!"), 100)

	t.Run("declared size", func(t *testing.T) {
		size, known, err := ContentSize(compressFrame(t, payload))
		require.NoError(t, err)
		require.True(t, known)
		require.Equal(t, uint64(len(payload)), size)
	})

	t.Run("streaming frame has unknown size", func(t *testing.T) {
		_, known, err := ContentSize(streamFrame(t, payload))
		require.NoError(t, err)
		require.False(t, known)
	})

	t.Run("skippable decodes to nothing", func(t *testing.T) {
		size, known, err := ContentSize(skippableFrame(t, 0, []byte("x")))
		require.NoError(t, err)
		require.True(t, known)
		require.Zero(t, size)
	})

	t.Run("incomplete", func(t *testing.T) {
		_, _, err := ContentSize([]byte{0x28})
		require.ErrorIs(t, err, ErrIncomplete)
	})
}

func TestEnumerateTilesBlob(t *testing.T) {
	var blob []byte
	var lengths []int

	pieces := [][]byte{
		compressFrame(t, []byte("first frame")),
		skippableFrame(t, 5, []byte("skip me")),
		compressFrame(t, bytes.Repeat([]byte("second frame "), 300)),
		streamFrame(t, []byte("third, streamed")),
		skippableFrame(t, 0xF, nil), // empty skippable payload
	}
	for _, piece := range pieces {
		blob = append(blob, piece...)
		lengths = append(lengths, len(piece))
	}

	frames := Enumerate(blob)
	require.Len(t, frames, len(pieces))

	offset := 0
	for i, fr := range frames {
		require.Equal(t, offset, fr.Offset, "frame %d", i)
		require.Equal(t, lengths[i], fr.Length, "frame %d", i)
		offset += fr.Length
	}
	require.Equal(t, len(blob), offset, "descriptors must tile the blob exactly")
}

func TestEnumerateStopsCleanly(t *testing.T) {
	complete := compressFrame(t, []byte("complete"))

	t.Run("truncated trailing frame", func(t *testing.T) {
		next := compressFrame(t, bytes.Repeat([]byte("will be cut"), 64))
		blob := append(append([]byte{}, complete...), next[:len(next)/2]...)

		frames := Enumerate(blob)
		require.Len(t, frames, 1)
		require.Equal(t, Descriptor{Offset: 0, Length: len(complete)}, frames[0])
	})

	t.Run("trailing garbage", func(t *testing.T) {
		blob := append(append([]byte{}, complete...), "garbage"...)
		frames := Enumerate(blob)
		require.Len(t, frames, 1)
	})

	t.Run("short tail ignored", func(t *testing.T) {
		blob := append(append([]byte{}, complete...), 0x28, 0xB5)
		frames := Enumerate(blob)
		require.Len(t, frames, 1)
	})

	t.Run("skippable declaring more than available", func(t *testing.T) {
		header := le.AppendUint32(nil, SkippableMagicBase)
		header = le.AppendUint32(header, 1<<30)
		frames := Enumerate(append(append([]byte{}, complete...), header...))
		require.Len(t, frames, 1)
	})

	t.Run("empty and garbage blobs", func(t *testing.T) {
		require.Empty(t, Enumerate(nil))
		require.Empty(t, Enumerate([]byte("no frames here")))
	})
}

func TestDictionaryID(t *testing.T) {
	id, err := DictionaryID(compressFrame(t, []byte("plain frame")))
	require.NoError(t, err)
	require.Zero(t, id, "frames without a dictionary must report 0")

	id, err = DictionaryID(skippableFrame(t, 1, []byte("x")))
	require.NoError(t, err)
	require.Zero(t, id)

	_, err = DictionaryID([]byte{0x28})
	require.ErrorIs(t, err, ErrIncomplete)
}
