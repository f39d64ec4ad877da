package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	b, err := NewBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"badger": b,
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := Key{"agent", "assistant"}

			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, key, []byte("v1")))
			val, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), val)

			require.NoError(t, s.Set(ctx, key, []byte("v2")))
			val, err = s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), val)

			require.NoError(t, s.Delete(ctx, key))
			_, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent key is fine.
			require.NoError(t, s.Delete(ctx, key))
		})
	}
}

func TestStoreListByPrefix(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, Key{"conv", "assistant", "c1"}, []byte("1")))
			require.NoError(t, s.Set(ctx, Key{"conv", "assistant", "c2"}, []byte("2")))
			require.NoError(t, s.Set(ctx, Key{"conv", "other", "c3"}, []byte("3")))
			// A sibling whose first segment shares the prefix string must not
			// leak into the listing.
			require.NoError(t, s.Set(ctx, Key{"conversions", "x"}, []byte("4")))

			entries, err := s.List(ctx, Key{"conv", "assistant"})
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, Key{"conv", "assistant", "c1"}, entries[0].Key)
			assert.Equal(t, []byte("2"), entries[1].Value)

			entries, err = s.List(ctx, Key{"conv"})
			require.NoError(t, err)
			assert.Len(t, entries, 3)

			entries, err = s.List(ctx, Key{"missing"})
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestKeyEncoding(t *testing.T) {
	k := Key{"conv", "assistant", "c1"}
	assert.Equal(t, "conv/assistant/c1", k.String())
	assert.Equal(t, k, DecodeKey(k.Encode()))
}
