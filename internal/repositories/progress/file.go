package progress

import (
	"context"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/pokedex/internal/errors"
)

// FileConfig configures the file-backed repository
type FileConfig struct {
	Path string
}

// Validate checks the configuration
func (c *FileConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", c.Path, vb)
	return vb.Build()
}

type fileStore struct {
	path string
}

// NewFileRepository creates a repository that stores the blob as a JSON file.
// Writes go to a temp file in the same directory and are renamed into place.
func NewFileRepository(cfg *FileConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &blobRepository{store: &fileStore{path: cfg.Path}}, nil
}

func (f *fileStore) read(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read progress file")
	}
	return data, true, nil
}

func (f *fileStore) write(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create progress directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".progress-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp progress file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to write temp progress file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to sync temp progress file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to close temp progress file")
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to replace progress file")
	}
	return nil
}

func (f *fileStore) describe() string {
	return "file:" + f.path
}
