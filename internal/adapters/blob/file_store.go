package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/mchugh/liveblog/internal/content/ports"
	"github.com/mchugh/liveblog/internal/platform/logger"
	"github.com/mchugh/liveblog/internal/platform/validator"
)

// MaxStorageNameLength bounds generated storage names.
const MaxStorageNameLength = 120

// FileStore persists binary assets on a filesystem. The afero abstraction
// keeps production on the OS filesystem and tests on an in-memory one.
type FileStore struct {
	fs      afero.Fs
	dir     string
	baseURL string
	logger  logger.Logger
}

// NewFileStore creates a file-backed asset store rooted at dir. Saved assets
// are addressable under baseURL.
func NewFileStore(fsys afero.Fs, dir, baseURL string, logger logger.Logger) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob.NewFileStore: create media dir: %w", err)
	}
	return &FileStore{
		fs:      fsys,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Save durably writes the bytes under a unique storage name derived from
// suggestedName and returns the public URL plus the storage name. The write
// must complete before the caller persists any reference to it.
func (s *FileStore) Save(ctx context.Context, data []byte, suggestedName string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("%w: %w", ports.ErrAssetWrite, err)
	}

	// A uuid prefix keeps concurrent uploads of the same filename from
	// colliding and makes storage names unguessable.
	name := uuid.New().String()[:8] + "-" + validator.SanitizeFilename(suggestedName, MaxStorageNameLength)

	if err := afero.WriteFile(s.fs, path.Join(s.dir, name), data, 0o644); err != nil {
		return "", "", fmt.Errorf("%w: %w", ports.ErrAssetWrite, err)
	}

	return s.baseURL + "/" + name, name, nil
}

// Remove deletes the blob with the given storage name. Absence of the target
// is not an error; any other failure is logged and swallowed so that item
// deletion is never blocked by asset cleanup.
func (s *FileStore) Remove(ctx context.Context, name string) {
	// Reject anything that could escape the media dir.
	if name == "" || name != path.Base(name) {
		s.logger.Warn(ctx, "refusing to remove suspicious asset name", "name", name)
		return
	}

	err := s.fs.Remove(path.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn(ctx, "asset cleanup failed", "name", name, "error", err)
	}
}

// Open returns a reader for a stored asset, used by the media serving
// handler.
func (s *FileStore) Open(ctx context.Context, name string) (afero.File, error) {
	if name == "" || name != path.Base(name) {
		return nil, fs.ErrNotExist
	}
	return s.fs.Open(path.Join(s.dir, name))
}

var _ ports.AssetStore = (*FileStore)(nil)
