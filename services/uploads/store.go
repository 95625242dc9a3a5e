// Package uploads stores user supplied images on local disk.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedExtensions lists the accepted image extensions, lowercase and without the dot
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// ImageStore writes uploaded images under a directory with generated names
type ImageStore struct {
	dir    string
	logger *zap.Logger
}

// NewImageStore creates a store rooted at dir. The directory is created on first save.
func NewImageStore(dir string, logger *zap.Logger) *ImageStore {
	return &ImageStore{dir: dir, logger: logger}
}

// Dir returns the directory images are written to
func (s *ImageStore) Dir() string {
	return s.dir
}

// Extension returns the lowercased extension of an uploaded file name,
// or services.ErrInvalidFileType when it is not an allowed image type.
func Extension(originalName string) (string, error) {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if !AllowedExtensions[ext] {
		return "", services.ErrInvalidFileType
	}
	return ext, nil
}

// Save copies r to a new file and returns its stored name.
// An empty originalName means no file was submitted and returns "".
func (s *ImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if originalName == "" {
		return "", nil
	}
	ext, err := Extension(originalName)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", services.WrapInternal("failed to create upload directory", err)
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + "." + ext
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", services.WrapInternal("failed to create upload file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", services.WrapInternal(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", services.WrapInternal(fmt.Sprintf("failed to close %s", name), err)
	}

	s.logger.Info("image stored",
		zap.String("original_name", path.Base(originalName)),
		zap.String("stored_name", name))
	return name, nil
}

// Remove deletes a stored image by the name Save returned.
// A missing file is not an error.
func (s *ImageStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid stored image name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.logger.Info("image removed", zap.String("stored_name", name))
	return nil
}

// Image is an uploaded file awaiting storage
type Image struct {
	Name string
	Body io.Reader
}

// Present reports whether a file was actually submitted
func (i *Image) Present() bool {
	return i != nil && i.Name != "" && i.Body != nil
}
