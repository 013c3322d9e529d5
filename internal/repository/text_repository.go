package repository

import (
	"context"
	"encoding/json"

	"askvantage/internal/cache"
	"askvantage/internal/domain"
	"askvantage/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// textRepository composes the record store and the key index into the
// merge-aware CRUD API. Save and the index mutations are separate medium
// operations with no transaction around them: a crash between the record
// write and the index update leaves an orphaned record that GetAll will not
// list, and two concurrent merges on the same title can lose the first
// writer's questions. Both windows are accepted trade-offs for this
// low-concurrency workload.
type textRepository struct {
	store domain.RecordStore
	index *KeyIndex
	group singleflight.Group
}

// NewTextRepository creates a TextRepository over the given record store.
func NewTextRepository(store domain.RecordStore) domain.TextRepository {
	return &textRepository{
		store: store,
		index: NewKeyIndex(store),
	}
}

// GetAll lists the index and bulk-fetches every member record. Index entries
// whose record is missing are silently omitted. Concurrent callers share one
// round trip through singleflight.
func (r *textRepository) GetAll(ctx context.Context) ([]domain.TextRecord, error) {
	result, err, _ := r.group.Do("all_texts", func() (interface{}, error) {
		return r.getAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.TextRecord), nil
}

func (r *textRepository) getAll(ctx context.Context) ([]domain.TextRecord, error) {
	keys, err := r.index.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []domain.TextRecord{}, nil
	}

	storeKeys := make([]string, len(keys))
	for i, k := range keys {
		storeKeys[i] = cache.TextRecordKey(k)
	}

	values, err := r.store.BulkGet(ctx, storeKeys)
	if err != nil {
		logger.Get().Error("Failed to bulk-fetch text records", zap.Error(err))
		return nil, domain.NewStoreError("Failed to fetch text records", err)
	}

	records := make([]domain.TextRecord, 0, len(values))
	for _, storeKey := range storeKeys {
		raw, ok := values[storeKey]
		if !ok {
			// Stale index entry from the documented orphan window; omit.
			continue
		}
		var record domain.TextRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, domain.NewStoreError("Failed to decode text record", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// GetSingle returns the record for the given title, or nil when no record
// has been written for it.
func (r *textRepository) GetSingle(ctx context.Context, title string) (*domain.TextRecord, error) {
	return r.getByKey(ctx, domain.NormalizeTitle(title))
}

func (r *textRepository) getByKey(ctx context.Context, key string) (*domain.TextRecord, error) {
	raw, found, err := r.store.Get(ctx, cache.TextRecordKey(key))
	if err != nil {
		logger.Get().Error("Failed to get text record", zap.String("key", key), zap.Error(err))
		return nil, domain.NewStoreError("Failed to fetch text record", err).WithContext("key", key)
	}
	if !found {
		return nil, nil
	}

	var record domain.TextRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, domain.NewStoreError("Failed to decode text record", err).WithContext("key", key)
	}
	return &record, nil
}

// Save writes a new record verbatim, or merges new questions into an
// existing one. For a new record the index entry is added after the record
// write; a failure between the two leaves an orphaned record, which GetAll
// tolerates.
func (r *textRepository) Save(ctx context.Context, record domain.TextRecord) error {
	key := domain.NormalizeTitle(record.Title)

	existing, err := r.getByKey(ctx, key)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := r.writeRecord(ctx, key, record); err != nil {
			return err
		}
		return r.index.Add(ctx, key)
	}

	// Existing record: keep its title and text, append only unseen questions.
	existing.MergeQuestions(record.Questions)
	return r.writeRecord(ctx, key, *existing)
}

func (r *textRepository) writeRecord(ctx context.Context, key string, record domain.TextRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return domain.NewStoreError("Failed to encode text record", err).WithContext("key", key)
	}
	if err := r.store.Set(ctx, cache.TextRecordKey(key), string(raw)); err != nil {
		logger.Get().Error("Failed to save text record", zap.String("key", key), zap.Error(err))
		return domain.NewStoreError("Failed to save text record", err).WithContext("key", key)
	}
	return nil
}

// DeleteSingle removes the record and its index entry. Deleting a title that
// is not indexed is a no-op.
func (r *textRepository) DeleteSingle(ctx context.Context, title string) error {
	key := domain.NormalizeTitle(title)

	keys, err := r.index.List(ctx)
	if err != nil {
		return err
	}
	indexed := false
	for _, k := range keys {
		if k == key {
			indexed = true
			break
		}
	}
	if !indexed {
		return nil
	}

	if err := r.store.Delete(ctx, cache.TextRecordKey(key)); err != nil {
		logger.Get().Error("Failed to delete text record", zap.String("key", key), zap.Error(err))
		return domain.NewStoreError("Failed to delete text record", err).WithContext("key", key)
	}
	return r.index.Remove(ctx, key)
}

// DeleteAll bulk-deletes every indexed record, then resets the index. An
// interruption between the two leaves stale index entries, which GetAll
// tolerates.
func (r *textRepository) DeleteAll(ctx context.Context) error {
	keys, err := r.index.List(ctx)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		storeKeys := make([]string, len(keys))
		for i, k := range keys {
			storeKeys[i] = cache.TextRecordKey(k)
		}
		if err := r.store.BulkDelete(ctx, storeKeys); err != nil {
			logger.Get().Error("Failed to bulk-delete text records", zap.Error(err))
			return domain.NewStoreError("Failed to delete text records", err)
		}
	}
	return r.index.Clear(ctx)
}
