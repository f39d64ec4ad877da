// Package kv provides the console's persistence layer: a small key-value
// store with hierarchical keys, backed by BadgerDB on disk and by a plain map
// for tests. Agents, conversations, user settings and the last selected model
// are stored here as JSON values.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments in the encoded representation. Segments must
// not contain it.
const Separator = "/"

// Key is a hierarchical path, e.g. Key{"conv", agentID, chatID}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, Separator)
}

// Encode returns the storage representation of the key.
func (k Key) Encode() []byte {
	return []byte(k.String())
}

// DecodeKey reverses Encode.
func DecodeKey(b []byte) Key {
	return Key(strings.Split(string(b), Separator))
}

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the persistence interface. Values are opaque bytes; callers in
// this repo store JSON.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// List returns all entries whose key strictly extends the given prefix,
	// in lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) ([]Entry, error)

	// Close releases any resources held by the store.
	Close() error
}
