package domain

import "context"

// RecordStore defines the interface (port) for the key-value backing medium.
// Implementations of this interface will be the adapters (e.g., the Redis
// record store).
//
// Writes are last-write-wins under read-your-writes consistency: a Set always
// succeeds regardless of what the writer last observed, and a subsequent Get
// sees the most recent successful Set. Two overlapping read-modify-write
// sequences on the same key can therefore lose the first writer's update.
// Callers layering merge logic on top must treat that as an accepted
// limitation, not prevent it here.
type RecordStore interface {
	// Get retrieves the value stored at key. found is false when the key has
	// never been written (the medium's existence signal).
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes the value at key, overwriting any existing value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes the value at key. It does not return an error if the key
	// is not found.
	Delete(ctx context.Context, key string) error

	// BulkGet retrieves the values for all given keys in one round trip.
	// Keys with no value are omitted from the result.
	BulkGet(ctx context.Context, keys []string) (map[string]string, error)

	// BulkDelete removes all given keys in one round trip.
	BulkDelete(ctx context.Context, keys []string) error
}
