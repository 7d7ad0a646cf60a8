package users

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"noticeboard/internal/common"
	"noticeboard/internal/server/models"
)

var userColumns = []string{
	"id", "login", "display_name", "password_hash", "salt",
	"stored_directory", "original_name", "storage_name", "created_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRow(id int64, login string) []driver.Value {
	return []driver.Value{
		id, login, "Display", []byte{1, 2}, []byte{3, 4},
		"uploads/2024/05/01", "me.png", "p1.png", time.Now(),
	}
}

func TestInsert_AssignsGeneratedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b.*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice", "Alice", []byte{1, 2}, []byte{3, 4}, "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	user := &models.User{
		Login:        "alice",
		DisplayName:  "Alice",
		PasswordHash: []byte{1, 2},
		Salt:         []byte{3, 4},
	}
	if err := repo.Insert(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 5 {
		t.Fatalf("want id 5, got %d", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_DuplicateLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	err := repo.Insert(context.Background(), &models.User{Login: "alice"})
	if !errors.Is(err, common.ErrMetadataWrite) {
		t.Fatalf("want ErrMetadataWrite, got %v", err)
	}
}

func TestGetByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*login,.*FROM\s+users\s+WHERE\s+login=\$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(5, "alice")...))

	user, err := repo.GetByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 5 || user.Login != "alice" || user.StorageName != "p1.png" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*login,.*FROM\s+users\s+WHERE\s+login=\$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "nobody")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*login,.*FROM\s+users\s+WHERE\s+id=\$1`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByDirectory_ReturnsPhotoOwners(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*login,.*FROM\s+users\s+WHERE\s+stored_directory=\$1\s+ORDER\s+BY\s+id`).
		WithArgs("uploads/2024/05/01").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userRow(1, "alice")...).
			AddRow(userRow(2, "bob")...))

	list, err := repo.GetByDirectory(context.Background(), "uploads/2024/05/01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Login != "alice" || list[1].Login != "bob" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*login,.*FROM\s+users\s+ORDER\s+BY\s+id`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("want empty list, got %+v", list)
	}
}
