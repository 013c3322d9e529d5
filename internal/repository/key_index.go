package repository

import (
	"context"
	"encoding/json"

	"askvantage/internal/cache"
	"askvantage/internal/domain"
)

// KeyIndex tracks the set of normalized titles currently stored. The backing
// medium only supports point lookups, so "list all" and "delete all" need
// this secondary index. The whole set lives as one JSON entry under a
// reserved key; every mutation is a full read-modify-write of that entry and
// inherits the store's last-write-wins race window.
type KeyIndex struct {
	store domain.RecordStore
}

// NewKeyIndex creates a KeyIndex over the given record store.
func NewKeyIndex(store domain.RecordStore) *KeyIndex {
	return &KeyIndex{store: store}
}

// List returns all indexed keys. An absent index entry means no keys.
func (i *KeyIndex) List(ctx context.Context) ([]string, error) {
	raw, found, err := i.store.Get(ctx, cache.TextIndexKey())
	if err != nil {
		return nil, domain.NewStoreError("Failed to read key index", err)
	}
	if !found {
		return []string{}, nil
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, domain.NewStoreError("Failed to decode key index", err)
	}
	return keys, nil
}

// Add inserts key into the index. Adding a key that is already present is a
// no-op.
func (i *KeyIndex) Add(ctx context.Context, key string) error {
	keys, err := i.List(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return i.write(ctx, append(keys, key))
}

// Remove deletes key from the index. Removing an absent key is a no-op.
func (i *KeyIndex) Remove(ctx context.Context, key string) error {
	keys, err := i.List(ctx)
	if err != nil {
		return err
	}

	remaining := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			remaining = append(remaining, k)
		}
	}
	if len(remaining) == len(keys) {
		return nil
	}
	return i.write(ctx, remaining)
}

// Clear resets the index to the empty set.
func (i *KeyIndex) Clear(ctx context.Context) error {
	return i.write(ctx, []string{})
}

func (i *KeyIndex) write(ctx context.Context, keys []string) error {
	raw, err := json.Marshal(keys)
	if err != nil {
		return domain.NewStoreError("Failed to encode key index", err)
	}
	if err := i.store.Set(ctx, cache.TextIndexKey(), string(raw)); err != nil {
		return domain.NewStoreError("Failed to write key index", err)
	}
	return nil
}
