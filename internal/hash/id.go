// Package hash provides the fingerprinting primitive used to decide
// whether an encoded descriptor has changed since it was last sent.
package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of data, used as a cache key for
// encoded descriptor bytes.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
