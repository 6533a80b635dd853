package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/storage"
)

// RecordingRepository implements storage.RecordingRepository for BadgerDB.
type RecordingRepository struct {
	backend *Backend
}

var _ storage.RecordingRepository = (*RecordingRepository)(nil)

// NewRecordingRepository creates a new RecordingRepository.
func NewRecordingRepository(backend *Backend) (storage.RecordingRepository, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &RecordingRepository{backend: backend}, nil
}

// Close is a no-op; the backend is closed by its owner.
func (r *RecordingRepository) Close() error {
	return nil
}

// SaveRecording stores a recording and indexes it by creation time.
func (r *RecordingRepository) SaveRecording(ctx context.Context, rec *core.Recording) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordingKey(rec.ID)
		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		if err := tx.Set(key, storage.MarshalRecording(rec)); err != nil {
			return err
		}
		dateKey := makeRecordingDateKey(rec.CreatedAt, rec.ID)
		if err := tx.Set(dateKey, storage.MarshalID(rec.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecording retrieves a single recording by ID.
func (r *RecordingRepository) GetRecording(ctx context.Context, id core.RecordingID) (*core.Recording, error) {
	var result *core.Recording
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecording(tx, makeRecordingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListRecordings walks the date index newest first.
func (r *RecordingRepository) ListRecordings(ctx context.Context, limit int) ([]*core.Recording, error) {
	var results []*core.Recording
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordingDatePrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeRecordingDateSeekKey()); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var id core.RecordingID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			rec, err := r.readRecording(tx, makeRecordingKey(id))
			if err != nil {
				return err
			}
			if rec != nil {
				results = append(results, rec)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteRecording removes a recording and its index entry.
func (r *RecordingRepository) DeleteRecording(ctx context.Context, id core.RecordingID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordingKey(id)
		rec, err := r.readRecording(tx, key)
		if err != nil {
			return err
		}
		if rec == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeRecordingDateKey(rec.CreatedAt, rec.ID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readRecording returns nil, nil if the key doesn't exist.
func (r *RecordingRepository) readRecording(tx *badger.Txn, key []byte) (*core.Recording, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rec *core.Recording
	err = item.Value(func(val []byte) error {
		var err error
		rec, err = storage.UnmarshalRecording(val)
		return err
	})
	return rec, err
}
