// Package upload stores uploaded image attachments on the local
// filesystem and hands back the relative path recorded on the record.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

// NewStore ensures dir exists and returns a Store writing into it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded file under a fresh random name, keeping the
// original extension, and returns the stored path. The write is not
// transactional with any database write that follows; a failed insert
// leaves the file orphaned.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	name := uuid.New().String() + filepath.Ext(header.Filename)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}
