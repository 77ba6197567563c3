package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_OrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"010_late.sql", "002_second.sql", "001_first.sql", "README.md", "abc.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir"), 0o755))

	files, err := migrationFiles(dir)
	require.NoError(t, err)

	var versions []int
	for _, f := range files {
		versions = append(versions, f.version)
	}
	assert.Equal(t, []int{1, 2, 10}, versions)
}

func TestMigrationFiles_RepoSchemaIsFirst(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, 1, files[0].version)
}

func TestNewRedisClients(t *testing.T) {
	mr := miniredis.RunT(t)

	clients, err := NewRedisClients(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer clients.Close()

	require.NoError(t, clients.Queue.Set(context.Background(), "k", "v", 0).Err())
	got, err := clients.PubSub.Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClients_BadURL(t *testing.T) {
	_, err := NewRedisClients(context.Background(), "not a url")
	assert.Error(t, err)
}
