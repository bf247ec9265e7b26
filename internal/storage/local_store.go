package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type localStore struct {
	dir string
}

func NewLocalStore(dir string) (ResumeStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if !validName(filename) {
		return "", ErrInvalidFilename
	}
	for n := 0; n < maxSuffix; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := candidateName(filename, n)
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create resume file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write resume file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close resume file: %w", err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free filename for %q", filename)
}

func (s *localStore) Open(ctx context.Context, filename string) (io.ReadCloser, int64, error) {
	if !validName(filename) {
		return nil, 0, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open resume: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat resume: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}
