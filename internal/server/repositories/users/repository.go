// Package users persists user accounts and their profile photo locations.
package users

import (
	"context"

	"noticeboard/internal/server/models"
)

type Repository interface {
	// Insert stores a new user and assigns the generated id into the
	// passed model.
	Insert(ctx context.Context, user *models.User) error

	// GetByID returns the user or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByLogin returns the user or common.ErrNotFound.
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// List returns all users ordered by id.
	List(ctx context.Context) ([]*models.User, error)

	// GetByDirectory returns all users whose profile photo is stored in the
	// given partition directory. Used by the reconciliation sweeper.
	GetByDirectory(ctx context.Context, dir string) ([]*models.User, error)
}
