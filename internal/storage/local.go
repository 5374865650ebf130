package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider stores objects under a directory on the server's disk and
// returns server-relative /uploads links. It is the terminal fallback and is
// always available.
type LocalProvider struct {
	dir string
}

// NewLocal creates the local provider rooted at dir, creating it if needed.
func NewLocal(dir string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalProvider{dir: dir}, nil
}

var _ Provider = (*LocalProvider)(nil)

func (p *LocalProvider) Name() string { return "local" }

// Upload writes the object under the mirrored key and returns the same
// server-relative path for both links.
func (p *LocalProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	dst := filepath.Join(p.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Result{}, fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return Result{}, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return Result{}, fmt.Errorf("write object: %w", err)
	}

	link := "/uploads/" + key
	return Result{ViewLink: link, DownloadLink: link, StoragePath: key}, nil
}
