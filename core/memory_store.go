package core

// KVStore is the key-value persistence contract used by memory capabilities.
// Implementations are whole-document stores: Set reads, merges and writes the
// full document, so concurrent writers in different processes race with
// last-writer-wins semantics.
type KVStore interface {
	// LoadAll returns a copy of every stored entry.
	LoadAll() (map[string]any, error)
	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool, error)
	// Set stores value under key and returns a human readable confirmation.
	Set(key string, value any) (string, error)
}
