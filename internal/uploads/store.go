// Package uploads stores images for programs and news on local disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/domain"
)

// Sentinel errors for upload validation.
var (
	ErrUnsupportedKind = errors.New("uploads: unknown upload kind")
	ErrUnsupportedType = errors.New("uploads: unsupported image type")
	ErrTooLarge        = errors.New("uploads: file exceeds size limit")
	ErrBadFilename     = errors.New("uploads: invalid file name")
)

// Kinds are the only directories the store will write into.
var kinds = map[string]struct{}{
	"programs": {},
	"news":     {},
}

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// FileStore writes uploaded images under dir/<kind>/<uuid><ext>. Stored names
// are always freshly generated, so a client-supplied name can never collide
// with or overwrite an existing file.
type FileStore struct {
	dir      string
	maxBytes int64
}

func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	for kind := range kinds {
		if err := os.MkdirAll(filepath.Join(dir, kind), 0o755); err != nil {
			return nil, fmt.Errorf("uploads.NewFileStore: %w", err)
		}
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save writes the image and returns the stored file name.
func (s *FileStore) Save(kind, originalName string, r io.Reader) (string, error) {
	if _, ok := kinds[kind]; !ok {
		return "", fmt.Errorf("uploads.Save: %w", ErrUnsupportedKind)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExts[ext]; !ok {
		return "", fmt.Errorf("uploads.Save: %q: %w", ext, ErrUnsupportedType)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, kind, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("uploads.Save: %w", err)
	}

	// Read one byte past the limit to distinguish at-limit from over-limit.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("uploads.Save: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", fmt.Errorf("uploads.Save: %w", ErrTooLarge)
	}

	return name, nil
}

// Delete removes a stored file. The name must be a bare file name; anything
// resembling a path is rejected before touching the filesystem.
func (s *FileStore) Delete(kind, name string) error {
	if _, ok := kinds[kind]; !ok {
		return fmt.Errorf("uploads.Delete: %w", ErrUnsupportedKind)
	}
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, "/\\") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("uploads.Delete: %w", ErrBadFilename)
	}

	err := os.Remove(filepath.Join(s.dir, kind, name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("uploads.Delete: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("uploads.Delete: %w", err)
	}

	return nil
}

// Dir returns the root directory for serving stored files.
func (s *FileStore) Dir() string {
	return s.dir
}
