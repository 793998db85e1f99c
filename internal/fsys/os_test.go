package fsys

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) (*OSFileSystem, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello world"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.md"), []byte("# notes"), 0600))

	fs, err := NewOSFileSystem(root)
	require.NoError(t, err)
	return fs, root
}

func TestNewOSFileSystem_RejectsFiles(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	_, err := NewOSFileSystem(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestOSFileSystem_RequestPermission(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, fs.RequestPermission(ctx, ModeRead))
	require.NoError(t, fs.RequestPermission(ctx, ModeReadWrite))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, fs.RequestPermission(cancelled, ModeRead))
}

func TestOSFileSystem_EnumerateAndRead(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	entries, err := fs.EnumerateChildren(ctx, ".")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, KindFile, entries[0].Kind)
	assert.Equal(t, "sub", entries[1].Name)
	assert.Equal(t, KindDirectory, entries[1].Kind)

	// Metadata only.
	meta, err := fs.ReadFile(ctx, entries[0].Handle, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello world")), meta.Size)
	assert.True(t, strings.HasPrefix(meta.MIMEType, "text/plain"))
	assert.Nil(t, meta.Bytes)
	assert.False(t, meta.ModifiedAt.IsZero())

	// Bounded content read.
	head, err := fs.ReadFile(ctx, entries[0].Handle, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), head.Bytes)

	sub, err := fs.EnumerateChildren(ctx, "sub")
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, "b.md", sub[0].Name)
}

func TestOSFileSystem_CreateSubdirectoryIdempotent(t *testing.T) {
	fs, root := newTestFS(t)
	ctx := context.Background()

	rel, err := fs.CreateSubdirectory(ctx, ".", "Docs")
	require.NoError(t, err)
	assert.Equal(t, "Docs", rel)

	_, err = fs.CreateSubdirectory(ctx, ".", "Docs")
	require.NoError(t, err, "existing directory is not an error")

	nested, err := fs.CreateSubdirectory(ctx, "Docs", "2025")
	require.NoError(t, err)
	assert.Equal(t, "Docs/2025", nested)

	info, err := os.Stat(filepath.Join(root, "Docs", "2025"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOSFileSystem_MoveAndRename(t *testing.T) {
	fs, root := newTestFS(t)
	ctx := context.Background()

	entries, err := fs.EnumerateChildren(ctx, ".")
	require.NoError(t, err)
	handle := entries[0].Handle // a.txt

	_, err = fs.CreateSubdirectory(ctx, ".", "Docs")
	require.NoError(t, err)

	require.NoError(t, fs.MoveAndRename(ctx, handle, "Docs", "renamed.txt"))

	moved, err := os.ReadFile(filepath.Join(root, "Docs", "renamed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(moved))

	_, err = os.Stat(filepath.Join(root, "a.txt"))
	assert.True(t, os.IsNotExist(err))

	// The handle is stale now; a second move fails as an ordinary move error.
	err = fs.MoveAndRename(ctx, handle, "Docs", "again.txt")
	assert.ErrorIs(t, err, common.ErrMoveFailed)
}

func TestOSFileSystem_RemoveEntry(t *testing.T) {
	fs, root := newTestFS(t)
	ctx := context.Background()

	_, err := fs.CreateSubdirectory(ctx, ".", "empty")
	require.NoError(t, err)

	require.NoError(t, fs.RemoveEntry(ctx, ".", "empty"))
	_, err = os.Stat(filepath.Join(root, "empty"))
	assert.True(t, os.IsNotExist(err))

	// Non-empty directories stay put.
	assert.Error(t, fs.RemoveEntry(ctx, ".", "sub"))
}
