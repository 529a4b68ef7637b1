package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Storage persists accepted uploads and returns the reference stored on the project.
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
	// Owns reports whether ref points at a file this storage manages.
	Owns(ref string) bool
}

const LocalPublicPrefix = "/uploads/"

// LocalStorage writes uploads into a single shared directory served under LocalPublicPrefix.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir if it does not exist yet.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	target := filepath.Join(s.dir, filepath.Base(name))

	// O_EXCL keeps a colliding name from overwriting another upload.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return LocalPublicPrefix + filepath.Base(name), nil
}

func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	name := path.Base(strings.TrimPrefix(ref, LocalPublicPrefix))
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStorage) Owns(ref string) bool {
	return strings.HasPrefix(ref, LocalPublicPrefix) && len(ref) > len(LocalPublicPrefix)
}
