// Package attachments persists attachment metadata rows. The rows are the
// authoritative record of which blobs exist; the blob bytes themselves live
// in the filesystem store.
package attachments

import (
	"context"

	"noticeboard/internal/server/models"
)

type Repository interface {
	// Insert stores a new attachment row and assigns the generated id into
	// the passed model.
	Insert(ctx context.Context, attach *models.Attachment) error

	// GetByID returns the attachment or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)

	// GetByNotice returns all attachments of one notice. Absence of rows is
	// an empty slice, not an error.
	GetByNotice(ctx context.Context, noticeID int64) ([]*models.Attachment, error)

	// GetByDirectory returns all attachments whose stored directory equals
	// dir. Used by the reconciliation sweeper.
	GetByDirectory(ctx context.Context, dir string) ([]*models.Attachment, error)
}
