package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noticeboard/internal/common"
	"noticeboard/internal/dbx"
	"noticeboard/internal/server/models"
)

const selectColumns = `id, login, display_name, password_hash, salt, stored_directory, original_name, storage_name, created_at`

// PostgresRepository implements user storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores the user and scans the generated id back into it. A failed
// insert (duplicate login, zero rows) is reported as common.ErrMetadataWrite.
func (r *PostgresRepository) Insert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (login, display_name, password_hash, salt, stored_directory, original_name, storage_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Login, user.DisplayName, user.PasswordHash, user.Salt,
		user.StoredDirectory, user.OriginalName, user.StorageName).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w: %v", common.ErrMetadataWrite, err)
	}
	return nil
}

// GetByID returns one user or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.selectOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id=$1`, id)
}

// GetByLogin returns one user or common.ErrNotFound.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.selectOne(ctx, `SELECT `+selectColumns+` FROM users WHERE login=$1`, login)
}

// List returns all users ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(&item.ID, &item.Login, &item.DisplayName, &item.PasswordHash, &item.Salt,
			&item.StoredDirectory, &item.OriginalName, &item.StorageName, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByDirectory returns all users with a profile photo stored in dir.
func (r *PostgresRepository) GetByDirectory(ctx context.Context, dir string) ([]*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE stored_directory=$1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, dir)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(&item.ID, &item.Login, &item.DisplayName, &item.PasswordHash, &item.Salt,
			&item.StoredDirectory, &item.OriginalName, &item.StorageName, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) selectOne(ctx context.Context, query string, arg any) (*models.User, error) {
	result := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&result.ID, &result.Login, &result.DisplayName, &result.PasswordHash, &result.Salt,
		&result.StoredDirectory, &result.OriginalName, &result.StorageName, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return result, nil
}
