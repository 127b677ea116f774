package persistence

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/ports"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLogDirStore_ListSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.log", "one\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := NewLogDirStore(dir).ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app.log", files[0].Name)
	assert.EqualValues(t, 4, files[0].Size)
}

func TestLogDirStore_ListMissingDir(t *testing.T) {
	files, err := NewLogDirStore(filepath.Join(t.TempDir(), "absent")).ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLogDirStore_OpenAndRemove(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.log", "hello")
	store := NewLogDirStore(dir)
	ctx := context.Background()

	rc, info, err := store.OpenFile(ctx, "app.log")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, "app.log", info.Name)

	require.NoError(t, store.RemoveFile(ctx, "app.log"))
	_, err = os.Stat(filepath.Join(dir, "app.log"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.ErrorIs(t, store.RemoveFile(ctx, "app.log"), ports.ErrLogFileNotFound)
	_, _, err = store.OpenFile(ctx, "app.log")
	assert.ErrorIs(t, err, ports.ErrLogFileNotFound)
}

func TestLogDirStore_RefusesEscape(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "logs")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, parent, "secret.txt", "x")

	_, _, err := NewLogDirStore(dir).OpenFile(context.Background(), "../secret.txt")
	assert.Error(t, err)
	assert.Error(t, NewLogDirStore(dir).RemoveFile(context.Background(), "../secret.txt"))
	_, err = os.Stat(filepath.Join(parent, "secret.txt"))
	assert.NoError(t, err)
}

func TestLogDirStore_DirectoryIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	_, _, err := NewLogDirStore(dir).OpenFile(context.Background(), "sub")
	assert.ErrorIs(t, err, ports.ErrLogFileNotFound)
	assert.ErrorIs(t, NewLogDirStore(dir).RemoveFile(context.Background(), "sub"), ports.ErrLogFileNotFound)
}
