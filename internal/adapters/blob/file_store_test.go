package blob_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchugh/liveblog/internal/adapters/blob"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

func newStore(t *testing.T) (*blob.FileStore, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	store, err := blob.NewFileStore(fsys, "media", "/media", nopLogger{})
	require.NoError(t, err)
	return store, fsys
}

func TestSaveReturnsLocatorAndName(t *testing.T) {
	store, fsys := newStore(t)
	ctx := context.Background()

	url, name, err := store.Save(ctx, []byte("png-bytes"), "Cat Photo.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/"), "url %q should be under base", url)
	assert.True(t, strings.HasSuffix(url, "/"+name))
	assert.True(t, strings.HasSuffix(name, "cat-photo.png"), "name %q should keep sanitized suffix", name)

	data, err := afero.ReadFile(fsys, "media/"+name)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, first, err := store.Save(ctx, []byte("a"), "same.png")
	require.NoError(t, err)
	_, second, err := store.Save(ctx, []byte("b"), "same.png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveWithCancelledContext(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Save(ctx, []byte("a"), "x.png")
	assert.Error(t, err)
}

func TestRemoveDeletesBlob(t *testing.T) {
	store, fsys := newStore(t)
	ctx := context.Background()

	_, name, err := store.Save(ctx, []byte("a"), "x.png")
	require.NoError(t, err)

	store.Remove(ctx, name)

	exists, err := afero.Exists(fsys, "media/"+name)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRemoveAbsentIsSilent(t *testing.T) {
	store, _ := newStore(t)

	// Must not panic or propagate anything.
	store.Remove(context.Background(), "never-existed.png")
}

func TestRemoveRefusesPathEscapes(t *testing.T) {
	store, fsys := newStore(t)
	ctx := context.Background()

	require.NoError(t, afero.WriteFile(fsys, "secret.txt", []byte("keep"), 0o644))

	store.Remove(ctx, "../secret.txt")

	exists, err := afero.Exists(fsys, "secret.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpenServesStoredAsset(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, name, err := store.Save(ctx, []byte("bytes"), "x.png")
	require.NoError(t, err)

	f, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 5)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(buf[:n]))
}

func TestOpenRejectsPathEscapes(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Open(context.Background(), "../go.mod")
	assert.Error(t, err)
}
