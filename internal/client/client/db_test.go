package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	require.True(t, tableExists(t, repos.DB, "goose_db_version"))
	require.True(t, tableExists(t, repos.DB, "metadata"))

	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	v, err := repos.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestInitDatabase_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, repos.Metadata.Set(ctx, "auth-storage", []byte(`{"user":null}`)))
	require.NoError(t, repos.Close())

	repos, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer repos.Close()

	v, err := repos.Metadata.Get(ctx, "auth-storage")
	require.NoError(t, err)
	require.Equal(t, `{"user":null}`, string(v))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "metadata"))
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "state.db"))
	require.Error(t, err)
}
