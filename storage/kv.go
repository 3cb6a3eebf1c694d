// Package storage provides the key-value persistence layer for billfold.
// Each document type gets its own namespace (one JSON file), plus one
// namespace for the listing index. The layer stores opaque values by key
// and enforces no domain invariants; uniqueness and index consistency
// are the persistence service's job.
package storage

// KV is a single persistent namespace keyed by document id (or, for the
// index namespace, a single well-known key).
type KV interface {
	// Get returns the value for key, with ok reporting presence
	Get(key string) (value []byte, ok bool, err error)

	// Set writes value under key, replacing any existing value
	Set(key string, value []byte) error

	// Delete removes key; deleting an absent key is a no-op
	Delete(key string) error

	// Keys returns every key in the namespace, sorted
	Keys() ([]string, error)

	// Close releases any resources held by the namespace
	Close() error
}
