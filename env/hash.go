package env

import "github.com/minio/highwayhash"

// writeKey is a fixed 32-byte key: content hashing here is for
// idempotent-write comparison, not integrity, so a static key is fine.
var writeKey = []byte("LISIWEAVEIDEMPOTENTWRITEKEY0123!")

// contentHash hashes data with HighwayHash, used to decide whether a
// Save would change an existing file's bytes.
func contentHash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(writeKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
