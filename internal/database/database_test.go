package database

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	db, err := Open(Config{Driver: "sqlite", DSN: path})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.SQLite, db.Dialect())

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpen_EmptySQLitePath(t *testing.T) {
	_, err := Open(Config{Driver: "sqlite"})
	require.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tasks'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_StatusDefault(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(context.Background()))

	_, err = db.Exec(`INSERT INTO tasks (title, created_at, updated_at) VALUES ('t', '2024-01-01 00:00:00+00:00', '2024-01-01 00:00:00+00:00')`)
	require.NoError(t, err)

	var status string
	var deleted *string
	require.NoError(t, db.QueryRow(`SELECT status, deleted_at FROM tasks`).Scan(&status, &deleted))
	assert.Equal(t, "PENDING", status)
	assert.Nil(t, deleted)

	_, err = db.Exec(`INSERT INTO tasks (title, status, created_at, updated_at) VALUES (NULL, 'PENDING', '2024-01-01 00:00:00+00:00', '2024-01-01 00:00:00+00:00')`)
	assert.Error(t, err, "title is NOT NULL")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		":memory:?_time_format=sqlite&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		sqliteDSN(":memory:"),
	)
	assert.Contains(t, sqliteDSN("tasks.db?cache=shared"), "tasks.db?cache=shared&_time_format=sqlite")
}
