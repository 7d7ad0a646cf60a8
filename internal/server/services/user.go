package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"noticeboard/internal/common"
	"noticeboard/internal/cryptox"
	"noticeboard/internal/dbx"
	"noticeboard/internal/logging"
	"noticeboard/internal/server/models"
	"noticeboard/internal/server/repositories/repomanager"
	"noticeboard/internal/storage"
)

// UserService handles account signup and lookups. A signup may carry one
// profile photo, stored with the same blob-then-row discipline as notice
// attachments.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       BlobStore
	uploadRoot  string
	logger      logging.Logger

	now func() time.Time
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, blobs BlobStore, uploadRoot string, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: rm,
		blobs:       blobs,
		uploadRoot:  uploadRoot,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUp creates the account with an Argon2id password hash and, when photo
// is non-empty, stores it as the profile photo. Photo blob and user row land
// together or not at all: a row failure deletes the just-written blob before
// the error propagates.
func (s *UserService) SignUp(ctx context.Context, user *models.User, password string, photo FileUpload) error {
	salt, err := cryptox.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	user.Salt = salt
	user.PasswordHash = cryptox.HashPassword([]byte(password), salt)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var written []writtenBlob

		if !photo.empty() {
			dir := storage.PartitionPath(s.uploadRoot, s.now())
			if err := s.blobs.EnsureDir(dir); err != nil {
				return err
			}
			name := storage.StorageName(photo.OriginalName)
			if err := s.blobs.WriteBlob(dir, name, photo.Data); err != nil {
				return err
			}
			written = append(written, writtenBlob{dir: dir, name: name})

			user.StoredDirectory = dir
			user.OriginalName = photo.OriginalName
			user.StorageName = name
		}

		if err := s.repomanager.Users(tx).Insert(ctx, user); err != nil {
			s.compensatePhoto(ctx, written)
			return err
		}
		return nil
	})
}

func (s *UserService) compensatePhoto(ctx context.Context, written []writtenBlob) {
	for _, w := range written {
		res, err := s.blobs.DeleteBlob(w.dir, w.name)
		if res == storage.Failed {
			s.logger.Error(ctx, "profile photo compensation delete failed",
				"dir", w.dir, "name", w.name, "error", err)
		}
	}
}

// Authenticate verifies login credentials and returns the account.
// Unknown login and wrong password both yield common.ErrNotFound, so
// callers cannot distinguish the two cases.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrNotFound
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Find returns one user or common.ErrNotFound.
func (s *UserService) Find(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// OpenPhoto opens the user's profile photo for download.
// common.ErrNotFound when the user does not exist or has no photo.
func (s *UserService) OpenPhoto(ctx context.Context, id int64) (*models.User, io.ReadCloser, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !user.HasPhoto() {
		return nil, nil, common.ErrNotFound
	}
	rc, err := s.blobs.Open(user.StoredDirectory, user.StorageName)
	if err != nil {
		return nil, nil, err
	}
	return user, rc, nil
}
