package dict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zstdkit"
)

// cacheDict trains a dictionary with a fixed identifier so tests can control
// cache keys. Varying shift changes the sample content and thus the bytes.
func cacheDict(t *testing.T, id uint32, shift int) []byte {
	t.Helper()

	samples := trainingSamples()
	for i := range samples {
		samples[i] = append(samples[i], byte('a'+(i+shift)%26))
	}

	built, err := TrainFastCover(samples, 4096, FastCoverOptions{DictID: id})
	require.NoError(t, err)
	require.Equal(t, id, GetDictID(built))

	return built
}

func TestCacheAddAndGet(t *testing.T) {
	c := NewCache()
	defer c.Close()

	dictBytes := cacheDict(t, 101, 0)

	id, err := c.Add(dictBytes)
	require.NoError(t, err)
	require.Equal(t, uint32(101), id)
	require.Equal(t, 1, c.Len())

	dd, ok := c.TryGet(101)
	require.True(t, ok)
	require.Equal(t, uint32(101), dd.ID())

	_, ok = c.TryGet(999)
	require.False(t, ok)
}

func TestCacheIdenticalReAddIsNoOp(t *testing.T) {
	c := NewCache()
	defer c.Close()

	dictBytes := cacheDict(t, 7, 0)

	_, err := c.Add(dictBytes)
	require.NoError(t, err)
	before, _ := c.TryGet(7)

	_, err = c.Add(append([]byte{}, dictBytes...))
	require.NoError(t, err)
	after, _ := c.TryGet(7)

	require.Same(t, before, after, "byte-identical re-add must keep the compiled entry")
	require.Equal(t, 1, c.Len())
}

func TestCacheReplaceReleasesPrior(t *testing.T) {
	c := NewCache()
	defer c.Close()

	first := cacheDict(t, 7, 0)
	second := cacheDict(t, 7, 5)
	require.NotEqual(t, first, second)

	_, err := c.Add(first)
	require.NoError(t, err)
	prior, _ := c.TryGet(7)

	_, err = c.Add(second)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	require.Nil(t, prior.Bytes(), "replaced entry must be released")

	current, _ := c.TryGet(7)
	require.NotSame(t, prior, current)
	require.Equal(t, second, current.Bytes())
}

func TestCacheRejectsRawContent(t *testing.T) {
	c := NewCache()
	defer c.Close()

	_, err := c.Add([]byte("raw content dictionary, no embedded identifier"))
	require.ErrorIs(t, err, zstdkit.ErrInvalidInput)
	require.Zero(t, c.Len())
}

func TestCacheClose(t *testing.T) {
	c := NewCache()

	dictBytes := cacheDict(t, 55, 0)
	_, err := c.Add(dictBytes)
	require.NoError(t, err)

	dd, _ := c.TryGet(55)
	c.Close()

	require.Nil(t, dd.Bytes(), "close must release entries")
	require.Zero(t, c.Len())

	_, ok := c.TryGet(55)
	require.False(t, ok)

	_, err = c.Add(dictBytes)
	require.ErrorIs(t, err, zstdkit.ErrDisposed)

	c.Close() // second close is a no-op
}
