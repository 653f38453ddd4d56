package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postsapi/app/models"
	"postsapi/app/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnv points the store and backups into a temp dir.
func setupTestEnv(t *testing.T, driver string) (storePath, backupDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	storePath = filepath.Join(tmpDir, "store")
	backupDir = filepath.Join(tmpDir, "backups")
	t.Setenv("POSTSAPI_STORE__DRIVER", driver)
	t.Setenv("POSTSAPI_STORE__PATH", storePath)
	t.Setenv("POSTSAPI_STORE__BACKUP_DIR", backupDir)
	t.Setenv("POSTSAPI_LOG__LEVEL", "disabled")
	return storePath, backupDir
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "postsapi version "+Version+"\n", out)

	out, err = run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "postsapi version "+Version+"\n", out)
}

func TestInitAndClean(t *testing.T) {
	for _, driver := range []string{repositories.DriverBadger, repositories.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			storePath, _ := setupTestEnv(t, driver)

			out, err := run(t, "", "db", "init")
			require.NoError(t, err)
			assert.Contains(t, out, "Store initialized")
			assert.FileExists(t, storePathProbe(storePath, driver))

			out, err = run(t, "", "db", "init")
			require.NoError(t, err)
			assert.Contains(t, out, "Store already exists")

			out, err = run(t, "n\n", "db", "clean")
			require.NoError(t, err)
			assert.Contains(t, out, "Operation cancelled")
			_, statErr := os.Stat(storePath)
			assert.NoError(t, statErr)

			out, err = run(t, "y\n", "db", "clean")
			require.NoError(t, err)
			assert.Contains(t, out, "Store cleaned successfully")
			_, statErr = os.Stat(storePath)
			assert.True(t, os.IsNotExist(statErr))

			out, err = run(t, "", "db", "clean", "--yes")
			require.NoError(t, err)
			assert.Contains(t, out, "already clean")
		})
	}
}

// storePathProbe names a file that exists once the store is initialized.
func storePathProbe(storePath, driver string) string {
	if driver == repositories.DriverSQLite {
		return storePath
	}
	return filepath.Join(storePath, "MANIFEST")
}

func TestBackupAndRestore(t *testing.T) {
	storePath, backupDir := setupTestEnv(t, repositories.DriverBadger)

	store, err := repositories.OpenBadger(storePath, zerolog.Nop())
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), &models.Post{Title: "kept", Contents: "safe"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := run(t, "", "db", "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "Store backed up successfully")

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	backupFile := filepath.Join(backupDir, entries[0].Name())
	assert.True(t, strings.HasPrefix(entries[0].Name(), "backup_"))

	out, err = run(t, "n\n", "db", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled")

	_, err = run(t, "", "db", "clean", "--yes")
	require.NoError(t, err)

	out, err = run(t, "", "db", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Store restored successfully")

	store, err = repositories.OpenBadger(storePath, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()
	posts, err := store.Find(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "kept", posts[0].Title)
}

func TestRestoreRejects(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		setupTestEnv(t, repositories.DriverBadger)
		_, err := run(t, "", "db", "restore", filepath.Join(t.TempDir(), "nope.db"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		setupTestEnv(t, repositories.DriverBadger)
		empty := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))
		_, err := run(t, "", "db", "restore", empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("sqlite driver", func(t *testing.T) {
		setupTestEnv(t, repositories.DriverSQLite)
		_, err := run(t, "", "db", "backup")
		assert.Error(t, err)
	})

	t.Run("no arguments", func(t *testing.T) {
		setupTestEnv(t, repositories.DriverBadger)
		_, err := run(t, "", "db", "restore")
		assert.Error(t, err)
	})
}

func TestBackupWithoutStore(t *testing.T) {
	setupTestEnv(t, repositories.DriverBadger)
	_, err := run(t, "", "db", "backup")
	assert.Error(t, err)
}
