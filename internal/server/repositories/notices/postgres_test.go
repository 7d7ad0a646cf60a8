package notices

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"noticeboard/internal/common"
	"noticeboard/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestInsert_AssignsGeneratedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+notices\b.*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WithArgs("title", "content").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	notice := &models.Notice{Title: "title", Content: "content"}
	if err := repo.Insert(context.Background(), notice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notice.ID != 42 {
		t.Fatalf("want id 42, got %d", notice.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+notices`).
		WithArgs("title", "").
		WillReturnError(errors.New("db down"))

	err := repo.Insert(context.Background(), &models.Notice{Title: "title"})
	if !errors.Is(err, common.ErrMetadataWrite) {
		t.Fatalf("want ErrMetadataWrite, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT\s+id,\s*title,\s*content,\s*created_at\s+FROM\s+notices\s+WHERE\s+id=\$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at"}).
			AddRow(int64(7), "t", "c", created))

	notice, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notice.ID != 7 || notice.Title != "t" || !notice.CreatedAt.Equal(created) {
		t.Fatalf("unexpected notice: %+v", notice)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*title,\s*content,\s*created_at\s+FROM\s+notices`).
		WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 8)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAllRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(`SELECT\s+id,\s*title,\s*content,\s*created_at\s+FROM\s+notices\s+ORDER\s+BY\s+id\s+DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at"}).
			AddRow(int64(2), "b", "", created).
			AddRow(int64(1), "a", "", created))

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 2 || list[1].ID != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestDeleteByID_ReportsRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+notices\s+WHERE\s+id=\$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 row affected, got %d", n)
	}
}

func TestDeleteByID_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+notices\s+WHERE\s+id=\$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("want 0 rows affected, got %d", n)
	}
}
