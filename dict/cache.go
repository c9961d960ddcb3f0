package dict

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/zstdkit"
)

// Cache maps dictionary identifiers to compiled decompression dictionaries.
//
// Every entry's key equals the identifier embedded in its source bytes;
// dictionaries without an embedded identifier are rejected. The cache owns
// its entries: Close releases them all, and Add releases any entry it
// replaces.
//
// Cache performs no internal locking. Callers sharing one across goroutines
// must synchronize externally.
type Cache struct {
	entries map[uint32]cacheEntry
}

type cacheEntry struct {
	dd *DDict
	// digest fingerprints the source bytes so re-adding identical content
	// skips recompilation.
	digest uint64
}

// NewCache creates an empty dictionary cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint32]cacheEntry)}
}

// Add compiles dictBytes into a decompression dictionary and stores it keyed
// by its embedded identifier, replacing and releasing any prior entry with
// the same key. Re-adding byte-identical content is a no-op.
//
// Fails with ErrInvalidInput when dictBytes has no embedded identifier.
func (c *Cache) Add(dictBytes []byte) (uint32, error) {
	if c.entries == nil {
		return 0, fmt.Errorf("%w: dictionary cache", zstdkit.ErrDisposed)
	}

	id := GetDictID(dictBytes)
	if id == 0 {
		return 0, fmt.Errorf("%w: dictionary has no embedded identifier", zstdkit.ErrInvalidInput)
	}

	digest := xxhash.Sum64(dictBytes)
	if prev, ok := c.entries[id]; ok {
		if prev.digest == digest {
			return id, nil
		}
		prev.dd.Release()
	}

	dd, err := NewDDict(dictBytes)
	if err != nil {
		return 0, err
	}
	c.entries[id] = cacheEntry{dd: dd, digest: digest}

	return id, nil
}

// TryGet looks up the dictionary compiled for id. It has no side effects.
func (c *Cache) TryGet(id uint32) (*DDict, bool) {
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}

	return entry.dd, true
}

// Len returns the number of cached dictionaries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Close releases every cached dictionary. Closing twice is a no-op.
func (c *Cache) Close() {
	for _, entry := range c.entries {
		entry.dd.Release()
	}
	c.entries = nil
}
