package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir(), "https://media.reelhouse.example/")
	require.NoError(t, err)
	return fs
}

func TestFS_SaveAndDelete(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	err := fs.Save(ctx, "movies/abc.mp4", strings.NewReader("payload"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(fs.root, "movies", "abc.mp4"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	require.NoError(t, fs.Delete(ctx, "movies/abc.mp4"))
	_, err = os.Stat(filepath.Join(fs.root, "movies", "abc.mp4"))
	require.True(t, os.IsNotExist(err))
}

func TestFS_DeleteMissingIsNoop(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.Delete(context.Background(), "movies/never-existed.mp4"))
}

func TestFS_SaveOverwrites(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "movies/x.mp4", strings.NewReader("one")))
	require.NoError(t, fs.Save(ctx, "movies/x.mp4", strings.NewReader("two")))

	data, err := os.ReadFile(filepath.Join(fs.root, "movies", "x.mp4"))
	require.NoError(t, err)
	require.Equal(t, "two", string(data))
}

func TestFS_URL(t *testing.T) {
	fs := newTestFS(t)
	require.Equal(t, "https://media.reelhouse.example/movies/abc.mp4", fs.URL("movies/abc.mp4"))
	require.Equal(t, "https://media.reelhouse.example/movies/abc.mp4", fs.URL("/movies/abc.mp4"))
}

func TestFS_RejectsEmptyKey(t *testing.T) {
	fs := newTestFS(t)
	err := fs.Save(context.Background(), "", strings.NewReader("x"))
	require.Error(t, err)
}

func TestNewFS_Validation(t *testing.T) {
	_, err := NewFS("", "https://x")
	require.Error(t, err)
	_, err = NewFS(t.TempDir(), "")
	require.Error(t, err)
}
