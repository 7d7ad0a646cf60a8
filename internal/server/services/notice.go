// Package services orchestrates notice and user operations across the
// metadata store and the filesystem blob store. Neither side supports a
// shared transaction, so every write follows blob-then-row ordering and
// every failure path compensates already-written blobs before rolling the
// relational transaction back. A crash can therefore only leave an orphan
// file (reclaimed later by the sweeper), never a row pointing at a missing
// file.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"noticeboard/internal/common"
	"noticeboard/internal/dbx"
	"noticeboard/internal/logging"
	"noticeboard/internal/server/models"
	"noticeboard/internal/server/repositories/repomanager"
	"noticeboard/internal/storage"
)

// NoticeService creates, serves and deletes notices together with their
// attachments.
type NoticeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       BlobStore
	uploadRoot  string
	logger      logging.Logger

	// now is the clock used for partition selection; tests override it.
	now func() time.Time
}

func NewNoticeService(db *sql.DB, rm repomanager.RepositoryManager, blobs BlobStore, uploadRoot string, logger logging.Logger) *NoticeService {
	return &NoticeService{
		db:          db,
		repomanager: rm,
		blobs:       blobs,
		uploadRoot:  uploadRoot,
		logger:      logger,
		now:         time.Now,
	}
}

// writtenBlob records one blob persisted during the current call, so a
// later metadata failure can compensate all of them.
type writtenBlob struct {
	dir  string
	name string
}

// Create persists the notice and one attachment per non-empty file, all
// inside a single transaction. The outcome is all-or-nothing as far as an
// observer can tell: if any attachment row fails to persist, every blob
// written during the call is deleted before the error propagates and the
// transaction rolls the rows back.
//
// Blob and metadata steps for each file run strictly in order, never in
// parallel: compensation depends on knowing exactly what has happened.
func (s *NoticeService) Create(ctx context.Context, notice *models.Notice, files []FileUpload) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Notices(tx).Insert(ctx, notice); err != nil {
			return err
		}

		attachRepo := s.repomanager.Attachments(tx)
		var written []writtenBlob

		for _, f := range files {
			if f.empty() {
				continue
			}

			dir := storage.PartitionPath(s.uploadRoot, s.now())
			if err := s.blobs.EnsureDir(dir); err != nil {
				return err
			}
			name := storage.StorageName(f.OriginalName)

			// Blob first. A crash after this point orphans the file;
			// the sweeper reclaims it. On write failure nothing was
			// recorded for this pair, earlier rows die with the rollback.
			if err := s.blobs.WriteBlob(dir, name, f.Data); err != nil {
				return err
			}
			written = append(written, writtenBlob{dir: dir, name: name})

			attach := &models.Attachment{
				NoticeID:        notice.ID,
				StoredDirectory: dir,
				OriginalName:    f.OriginalName,
				StorageName:     name,
			}
			if err := attachRepo.Insert(ctx, attach); err != nil {
				s.compensate(ctx, written)
				return fmt.Errorf("attachment %q: %w: %v", f.OriginalName, common.ErrAttachmentMetadata, err)
			}
		}

		return nil
	})
}

// compensate best-effort deletes every blob written during a failed call.
// Deletion failures are logged, never raised: masking the original error
// would hide the root cause, and a surviving file is sweeper-recoverable.
func (s *NoticeService) compensate(ctx context.Context, written []writtenBlob) {
	for _, w := range written {
		res, err := s.blobs.DeleteBlob(w.dir, w.name)
		if res == storage.Failed {
			s.logger.Error(ctx, "compensation delete failed",
				"dir", w.dir, "name", w.name, "error", err)
		}
	}
}

// Delete removes all of the notice's blobs, then the notice row; the
// attachment rows go with it via the schema cascade. A failed blob deletion
// is logged and the loop continues: stopping early would strand the
// remaining files with no recovery path, whereas a surviving file with no
// row is reclaimed by the sweeper. Returns whether exactly one notice row
// was removed.
func (s *NoticeService) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		attaches, err := s.repomanager.Attachments(tx).GetByNotice(ctx, id)
		if err != nil {
			return err
		}

		for _, a := range attaches {
			res, derr := s.blobs.DeleteBlob(a.StoredDirectory, a.StorageName)
			if res == storage.Failed {
				s.logger.Error(ctx, "attachment blob delete failed",
					"dir", a.StoredDirectory, "name", a.StorageName, "error", derr)
			}
		}

		n, err := s.repomanager.Notices(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		deleted = n == 1
		return nil
	})
	return deleted, err
}

// List returns all notices, newest first.
func (s *NoticeService) List(ctx context.Context) ([]*models.Notice, error) {
	return s.repomanager.Notices(s.db).List(ctx)
}

// Find returns the notice together with its attachments, or
// common.ErrNotFound.
func (s *NoticeService) Find(ctx context.Context, id int64) (*models.Notice, []*models.Attachment, error) {
	notice, err := s.repomanager.Notices(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	attaches, err := s.repomanager.Attachments(s.db).GetByNotice(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return notice, attaches, nil
}

// OpenAttachment looks up the attachment row and opens its blob for
// download. Either miss yields common.ErrNotFound.
func (s *NoticeService) OpenAttachment(ctx context.Context, id int64) (*models.Attachment, io.ReadCloser, error) {
	attach, err := s.repomanager.Attachments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(attach.StoredDirectory, attach.StorageName)
	if err != nil {
		return nil, nil, err
	}
	return attach, rc, nil
}
