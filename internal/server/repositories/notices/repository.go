// Package notices persists notice records, the parent entities that own
// attachments.
package notices

import (
	"context"

	"noticeboard/internal/server/models"
)

type Repository interface {
	// Insert stores a new notice and assigns the generated id into the
	// passed model.
	Insert(ctx context.Context, notice *models.Notice) error

	// GetByID returns the notice or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Notice, error)

	// List returns all notices, newest first.
	List(ctx context.Context) ([]*models.Notice, error)

	// DeleteByID removes the notice and returns the number of rows removed
	// (0 or 1). Attachment rows are removed by the schema-level cascade.
	DeleteByID(ctx context.Context, id int64) (int64, error)
}
