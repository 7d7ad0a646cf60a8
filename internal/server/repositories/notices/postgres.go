package notices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noticeboard/internal/common"
	"noticeboard/internal/dbx"
	"noticeboard/internal/server/models"
)

// PostgresRepository implements notice storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores the notice and scans the generated id back into it.
// A failed insert (constraint violation, zero rows) is reported as
// common.ErrMetadataWrite.
func (r *PostgresRepository) Insert(ctx context.Context, notice *models.Notice) error {
	query := `
		INSERT INTO notices (title, content)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, notice.Title, notice.Content).Scan(&notice.ID)
	if err != nil {
		return fmt.Errorf("insert notice: %w: %v", common.ErrMetadataWrite, err)
	}
	return nil
}

// GetByID returns one notice or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	query := `SELECT id, title, content, created_at FROM notices WHERE id=$1`

	result := &models.Notice{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&result.ID, &result.Title, &result.Content, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select notice: %w", err)
	}
	return result, nil
}

// List returns all notices, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Notice, error) {
	query := `SELECT id, title, content, created_at FROM notices ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select notices: %w", err)
	}
	defer rows.Close()

	var result []*models.Notice
	for rows.Next() {
		var item models.Notice
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes the notice row. The attachments cascade is enforced by
// the schema, not here.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM notices WHERE id=$1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete notice: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
