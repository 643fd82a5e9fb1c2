package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store saves multipart uploads under a local directory, one subfolder per
// asset kind (images, documents, avatars).
type Store struct {
	cfg config.UploadConfig
}

func NewStore(cfg config.UploadConfig) *Store {
	return &Store{cfg: cfg}
}

// Validate rejects files that are too large or of a disallowed content type.
func (s *Store) Validate(file *multipart.FileHeader) error {
	if file.Size > s.cfg.MaxFileSize {
		return fmt.Errorf("file %s exceeds the %d byte limit", file.Filename, s.cfg.MaxFileSize)
	}
	contentType := file.Header.Get("Content-Type")
	for _, allowed := range s.cfg.AllowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", contentType)
}

// Save writes the upload to disk and returns its public URL path. The stored
// name is unique so concurrent uploads never collide.
func (s *Store) Save(c *gin.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := s.Validate(file); err != nil {
		return "", err
	}

	dir := filepath.Join(s.cfg.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(dst), nil
}

// Remove deletes a previously stored file given its public URL path. Missing
// files are not an error, the row is the source of truth.
func (s *Store) Remove(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || !strings.HasPrefix(rel, s.cfg.Dir) {
		return nil
	}
	if err := os.Remove(rel); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
