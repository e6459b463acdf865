package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestDB_RoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "taskdeck.db"))
	require.NoError(t, err)
	defer db.Close()

	value, err := db.Get("missing")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, db.Set(KeyToken, "tok"))
	value, err = db.Get(KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok", value)

	// Overwrite wins.
	require.NoError(t, db.Set(KeyToken, "tok2"))
	value, _ = db.Get(KeyToken)
	require.Equal(t, "tok2", value)

	require.NoError(t, db.Remove(KeyToken))
	value, _ = db.Get(KeyToken)
	require.Empty(t, value)

	// Removing a missing key is fine.
	require.NoError(t, db.Remove(KeyToken))
}

func TestArchive_AddAndList(t *testing.T) {
	archive := NewArchive(NewMemory())
	require.Empty(t, archive.List())

	snapshot, err := archive.Add(models.Task{ID: 1, GroupID: 2, Title: "old"})
	require.NoError(t, err)
	require.NotEmpty(t, snapshot.SnapshotID)

	_, err = archive.Add(models.Task{ID: 2, GroupID: 2, Title: "older"})
	require.NoError(t, err)

	archived := archive.List()
	require.Len(t, archived, 2)
	require.Equal(t, "old", archived[0].Task.Title)
	require.Equal(t, "older", archived[1].Task.Title)
	require.NotEqual(t, archived[0].SnapshotID, archived[1].SnapshotID)
}

func TestArchive_SnapshotKeepsTaskState(t *testing.T) {
	archive := NewArchive(NewMemory())

	_, err := archive.Add(models.Task{
		ID:       1,
		GroupID:  2,
		Title:    "ship it",
		Priority: models.PriorityHigh,
		Status:   models.StatusInProgress,
		Progress: 60,
	})
	require.NoError(t, err)

	archived := archive.List()
	require.Len(t, archived, 1)

	// Task fields are promoted on the snapshot; the read side renders
	// them directly off the ArchivedTask.
	at := archived[0]
	require.Equal(t, "ship it", at.Title)
	require.Equal(t, models.PriorityHigh, at.Priority)
	require.Equal(t, models.StatusInProgress, at.Status)
	require.Equal(t, 60, at.Progress)
	require.False(t, at.ArchivedAt.IsZero())
}

func TestArchive_MalformedStateFailsClosed(t *testing.T) {
	kv := NewMemory()
	kv.Set(KeyArchivedTasks, "{not json")

	archive := NewArchive(kv)
	require.Empty(t, archive.List())

	// Adding after corruption starts a fresh list rather than crashing.
	_, err := archive.Add(models.Task{ID: 1, Title: "fresh"})
	require.NoError(t, err)
	require.Len(t, archive.List(), 1)
}
