package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/storage"
)

func newTestRepo(t *testing.T) storage.RecordingRepository {
	t.Helper()
	repo, backend, err := NewMemoryRecordingRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestRecordingBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := core.NewRecording("walk", 7, 12.5, 900, []core.Seq{{1, 2}, {3, 4, 0}})
	rec.CreatedAt = rec.CreatedAt.Truncate(time.Microsecond)
	require.NoError(t, repo.SaveRecording(ctx, rec))

	got, err := repo.GetRecording(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, core.Seq{1, 2, 3, 4, 0}, got.Flatten())

	err = repo.SaveRecording(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRecordingNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetRecording(ctx, core.NewRecordingID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteRecording(ctx, core.NewRecordingID()), storage.ErrNotFound)
}

func TestSaveRecordingSetsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := &core.Recording{ID: core.NewRecordingID(), Problem: "walk"}
	require.NoError(t, repo.SaveRecording(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestListRecordings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	var ids []core.RecordingID
	for i := range 4 {
		rec := &core.Recording{
			ID:        core.NewRecordingID(),
			Problem:   "walk",
			Score:     float64(i),
			Steps:     []core.Seq{{core.Input(i)}},
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.SaveRecording(ctx, rec))
		ids = append(ids, rec.ID)
	}

	all, err := repo.ListRecordings(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, rec := range all {
		assert.Equal(t, ids[3-i], rec.ID, "newest first")
	}

	limited, err := repo.ListRecordings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, ids[3], limited[0].ID)
	assert.Equal(t, ids[2], limited[1].ID)
}

func TestDeleteRecording(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	keep := core.NewRecording("walk", 1, 1, 1, []core.Seq{{1}})
	drop := core.NewRecording("walk", 2, 2, 2, []core.Seq{{2}})
	require.NoError(t, repo.SaveRecording(ctx, keep))
	require.NoError(t, repo.SaveRecording(ctx, drop))

	require.NoError(t, repo.DeleteRecording(ctx, drop.ID))

	_, err := repo.GetRecording(ctx, drop.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := repo.ListRecordings(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
}

func TestListRecordingsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	all, err := repo.ListRecordings(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}
