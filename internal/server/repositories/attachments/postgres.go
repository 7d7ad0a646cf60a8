package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noticeboard/internal/common"
	"noticeboard/internal/dbx"
	"noticeboard/internal/server/models"
)

// PostgresRepository implements attachment storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores the attachment row and scans the generated id back into it.
// A failed insert is reported as common.ErrMetadataWrite.
func (r *PostgresRepository) Insert(ctx context.Context, attach *models.Attachment) error {
	query := `
		INSERT INTO attachments (notice_id, stored_directory, original_name, storage_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		attach.NoticeID, attach.StoredDirectory, attach.OriginalName, attach.StorageName).Scan(&attach.ID)
	if err != nil {
		return fmt.Errorf("insert attachment: %w: %v", common.ErrMetadataWrite, err)
	}
	return nil
}

// GetByID returns one attachment or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	query := `
		SELECT id, notice_id, stored_directory, original_name, storage_name
		FROM attachments WHERE id=$1
	`
	result := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.NoticeID, &result.StoredDirectory, &result.OriginalName, &result.StorageName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select attachment: %w", err)
	}
	return result, nil
}

// GetByNotice returns all attachments belonging to noticeID.
func (r *PostgresRepository) GetByNotice(ctx context.Context, noticeID int64) ([]*models.Attachment, error) {
	query := `
		SELECT id, notice_id, stored_directory, original_name, storage_name
		FROM attachments WHERE notice_id=$1 ORDER BY id
	`
	return r.selectMany(ctx, query, noticeID)
}

// GetByDirectory returns all attachments stored in the given partition
// directory.
func (r *PostgresRepository) GetByDirectory(ctx context.Context, dir string) ([]*models.Attachment, error) {
	query := `
		SELECT id, notice_id, stored_directory, original_name, storage_name
		FROM attachments WHERE stored_directory=$1 ORDER BY id
	`
	return r.selectMany(ctx, query, dir)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, arg any) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("select attachments: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		var item models.Attachment
		if err := rows.Scan(&item.ID, &item.NoticeID, &item.StoredDirectory, &item.OriginalName, &item.StorageName); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
