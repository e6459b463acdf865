package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/logging"
	"taskdeck/internal/models"
)

// Archive keeps local-only snapshots of tasks taken before server-side
// deletion. Snapshots live under a single KV key as a JSON array.
type Archive struct {
	kv KV
}

// NewArchive creates an archive over kv
func NewArchive(kv KV) *Archive {
	return &Archive{kv: kv}
}

// List returns all archived snapshots, oldest first. A missing or
// malformed entry yields an empty list, never an error: stored state is
// not trusted to be well-formed.
func (a *Archive) List() []models.ArchivedTask {
	raw, err := a.kv.Get(KeyArchivedTasks)
	if err != nil || raw == "" {
		return nil
	}

	var archived []models.ArchivedTask
	if err := json.Unmarshal([]byte(raw), &archived); err != nil {
		logging.Logger.WithError(err).Warn("archive: discarding malformed stored snapshots")
		return nil
	}
	return archived
}

// Add snapshots task into the archive and persists it
func (a *Archive) Add(task models.Task) (models.ArchivedTask, error) {
	snapshot := models.ArchivedTask{
		SnapshotID: uuid.New().String(),
		Task:       task,
		ArchivedAt: time.Now().UTC(),
	}

	archived := append(a.List(), snapshot)
	raw, err := json.Marshal(archived)
	if err != nil {
		return models.ArchivedTask{}, err
	}
	if err := a.kv.Set(KeyArchivedTasks, string(raw)); err != nil {
		return models.ArchivedTask{}, err
	}
	return snapshot, nil
}
