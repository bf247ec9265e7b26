package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lshigami/placementai/config"
	"golang.org/x/text/unicode/norm"
)

// maxSuffix bounds the collision search when picking a free filename.
const maxSuffix = 10000

var (
	ErrNotFound        = errors.New("resume not found")
	ErrInvalidFilename = errors.New("invalid resume filename")
)

// ResumeStore keeps uploaded resumes. Save never overwrites: when the name is
// taken it appends _1, _2, ... before the extension and returns the name used.
type ResumeStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, int64, error)
}

func NewResumeStore(cfg *config.Config) (ResumeStore, error) {
	switch cfg.Resume.Storage {
	case config.ResumeStorageLocal:
		return NewLocalStore(cfg.Resume.Dir)
	case config.ResumeStorageMinio:
		return NewMinioStore(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported resume storage %q", cfg.Resume.Storage)
	}
}

// SanitizeFilename reduces a client-supplied filename to a safe ASCII name.
// The result may be empty.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r > unicode.MaxASCII:
			return -1
		case r == '/' || r == '\\':
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '.' || r == '-':
			return r
		}
		return -1
	}, name)
	return strings.Trim(name, "._")
}

// candidateName returns filename for n == 0 and base_n.ext otherwise.
func candidateName(filename string, n int) string {
	if n == 0 {
		return filename
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%d%s", base, n, ext)
}

func validName(filename string) bool {
	return filename != "" && filename != "." && filename != ".." &&
		filepath.Base(filename) == filename && !strings.ContainsAny(filename, `/\`)
}
