package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestVendsRepositoriesBoundToDBTX(t *testing.T) {
	m := NewPostgresRepositoryManager()
	var db *sql.DB

	require.NotNil(t, m.Notices(db))
	require.NotNil(t, m.Attachments(db))
	require.NotNil(t, m.Users(db))
}

func TestRunMigrations_PropagatesGooseError(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	wantErr := errors.New("migration failed")
	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return wantErr
	}

	m := NewPostgresRepositoryManager()
	err := m.RunMigrations(context.Background(), nil)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, ".", gotDir)
}

func TestRunMigrations_Success(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	called := false
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		called = true
		return nil
	}

	m := NewPostgresRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), nil))
	require.True(t, called)
}
