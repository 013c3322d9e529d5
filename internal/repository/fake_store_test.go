package repository

import (
	"context"
	"sync"

	"askvantage/internal/domain"
)

// fakeRecordStore is an in-memory domain.RecordStore for repository tests.
// Like the real medium, writes are last-write-wins and absence is signalled
// by found=false rather than an error.
type fakeRecordStore struct {
	mu   sync.Mutex
	data map[string]string

	failNextSet error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{data: make(map[string]string)}
}

func (f *fakeRecordStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *fakeRecordStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNextSet != nil {
		err := f.failNextSet
		f.failNextSet = nil
		return err
	}
	f.data[key] = value
	return nil
}

func (f *fakeRecordStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeRecordStore) BulkGet(_ context.Context, keys []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]string)
	for _, k := range keys {
		if v, ok := f.data[k]; ok {
			result[k] = v
		}
	}
	return result, nil
}

func (f *fakeRecordStore) BulkDelete(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

var _ domain.RecordStore = (*fakeRecordStore)(nil)
