// Package sweeper reconciles the filesystem with the metadata store: files
// sitting in a date partition with no matching row are orphans left behind
// by crashes or failed uploads, and get removed by a recurring sweep.
//
// A sweep only ever targets the previous day's partition. The writer stores
// blobs before rows, so a file can legitimately exist moments before its
// row commits; the one-day age cutoff leaves far more margin than any
// plausible writer latency. Sweeping the current partition would race
// in-flight writers and is never done.
package sweeper

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"noticeboard/internal/logging"
	"noticeboard/internal/server/repositories/repomanager"
	"noticeboard/internal/server/services"
	"noticeboard/internal/storage"
)

// Sweeper removes orphan files from yesterday's upload partition.
type Sweeper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       services.BlobStore
	uploadRoot  string
	logger      logging.Logger

	// mu serializes sweeps: overlapping runs against the same partition
	// are skipped, never executed concurrently.
	mu  sync.Mutex
	now func() time.Time
}

func New(db *sql.DB, rm repomanager.RepositoryManager, blobs services.BlobStore, uploadRoot string, logger logging.Logger) *Sweeper {
	return &Sweeper{
		db:          db,
		repomanager: rm,
		blobs:       blobs,
		uploadRoot:  uploadRoot,
		logger:      logger,
		now:         time.Now,
	}
}

// Sweep reconciles the partition of the day before ref. It lists the
// on-disk names, collects the storage names known to the metadata store for
// that directory (notice attachments and user profile photos), and deletes
// every file the store does not know. Each deletion is audited; a deletion
// failure is logged and the sweep continues. Returns the number of files
// removed.
//
// If another sweep is already running, the call is skipped and returns
// (0, nil).
func (s *Sweeper) Sweep(ctx context.Context, ref time.Time) (int, error) {
	if !s.mu.TryLock() {
		s.logger.Warn(ctx, "sweep already running, skipping")
		return 0, nil
	}
	defer s.mu.Unlock()

	dir := storage.PartitionPath(s.uploadRoot, ref.AddDate(0, 0, -1))

	names, err := s.blobs.ListNames(dir)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	known, err := s.knownNames(ctx, dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}
		res, err := s.blobs.DeleteBlob(dir, name)
		switch res {
		case storage.Deleted:
			removed++
			s.logger.Info(ctx, "orphan file removed by sweep", "dir", dir, "name", name)
		case storage.AlreadyAbsent:
			// Raced with another deleter; nothing to audit.
		case storage.Failed:
			s.logger.Error(ctx, "orphan file deletion failed", "dir", dir, "name", name, "error", err)
		}
	}
	return removed, nil
}

// knownNames returns the set of storage names the metadata store records
// for dir. A file matching any row must never be deleted.
func (s *Sweeper) knownNames(ctx context.Context, dir string) (map[string]struct{}, error) {
	known := make(map[string]struct{})

	attaches, err := s.repomanager.Attachments(s.db).GetByDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, a := range attaches {
		known[a.StorageName] = struct{}{}
	}

	users, err := s.repomanager.Users(s.db).GetByDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		known[u.StorageName] = struct{}{}
	}
	return known, nil
}
