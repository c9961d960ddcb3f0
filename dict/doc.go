// Package dict provides Zstandard dictionary lifecycle management: training
// dictionaries from raw samples, compiling them into reusable
// compression-side (CDict) and decompression-side (DDict) handles, one-shot
// dictionary compression, and an identifier-keyed cache for decompression
// dictionaries.
//
// # Dictionary Identity
//
// A trained dictionary embeds a 32-bit identifier in its first bytes
// (magic 0xEC30A437 followed by the little-endian ID). The identifier is
// derived solely from the dictionary's byte content, never from how it was
// compiled; GetDictID reads it without invoking the engine. Raw-content
// dictionaries carry no magic and report identifier 0.
//
// # Ownership
//
// CDict and DDict exclusively own the engine resources they compile. Release
// must be called exactly once when a handle is no longer needed; Release is
// idempotent and every other method reports an error after it. The ByRef
// constructors borrow the caller's bytes instead of copying: the caller must
// keep the referenced memory alive and unmodified for the handle's lifetime.
//
// # Basic Usage
//
//	dictBytes, err := dict.Train(samples, 16*1024)
//	if err != nil {
//	    return err
//	}
//
//	cd, err := dict.NewCDictLevel(dictBytes, 5)
//	if err != nil {
//	    return err
//	}
//	defer cd.Release()
//
//	compressed, err := dict.Compress(nil, payload, cd)
//
// # Thread Safety
//
// Compiled CDict and DDict handles are safe for concurrent one-shot use.
// The Cache performs no internal locking; callers sharing a cache across
// goroutines must synchronize externally.
package dict
