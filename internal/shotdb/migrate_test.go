package shotdb

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsFS(t *testing.T) {
	migrations, err := MigrationsFS()
	require.NoError(t, err)

	entries, err := fs.ReadDir(migrations, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Every up migration needs a matching down migration.
	ups, downs := 0, 0
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".sql":
		default:
			t.Fatalf("unexpected file in migrations: %s", e.Name())
		}
		if matched, _ := filepath.Match("*.up.sql", e.Name()); matched {
			ups++
		}
		if matched, _ := filepath.Match("*.down.sql", e.Name()); matched {
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.Greater(t, ups, 0)
}

func TestMigrateUpDown(t *testing.T) {
	db, err := OpenShotDB(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(0), version)

	require.NoError(t, db.MigrateUp())

	version, dirty, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// Migrated schema accepts normal writes.
	sess, err := db.CreateSession(5, "casey", "")
	require.NoError(t, err)
	_, err = db.SessionByID(sess.ID)
	require.NoError(t, err)

	// Second up is a no-op.
	require.NoError(t, db.MigrateUp())

	require.NoError(t, db.MigrateDown())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
