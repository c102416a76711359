package fsys

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
)

// Compile-time interface check.
var _ FileSystem = (*AFS)(nil)

// AFS implements FileSystem on top of an afs.Service. Relative paths are
// resolved against Base, so merge paths can stay relative to the project
// directory the way they are written in the config.
type AFS struct {
	Base    string
	service afs.Service
}

// NewAFS creates an AFS rooted at base. An empty base means the current
// working directory.
func NewAFS(base string) (*AFS, error) {
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir %s: %w", base, err)
	}
	return &AFS{Base: abs, service: afs.New()}, nil
}

// location maps a merge path to the absolute location afs operates on.
func (f *AFS) location(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Base, path)
}

// Exists reports whether path exists.
func (f *AFS) Exists(ctx context.Context, path string) (bool, error) {
	return f.service.Exists(ctx, f.location(path))
}

// IsDir reports whether path exists and is a directory.
func (f *AFS) IsDir(ctx context.Context, path string) (bool, error) {
	loc := f.location(path)
	ok, err := f.service.Exists(ctx, loc)
	if err != nil || !ok {
		return false, err
	}
	obj, err := f.service.Object(ctx, loc)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return obj.IsDir(), nil
}

// Read returns the content of path.
func (f *AFS) Read(ctx context.Context, path string) ([]byte, error) {
	loc := f.location(path)
	ok, err := f.service.Exists(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotExist)
	}
	data, err := f.service.DownloadWithURL(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write stores data at path, creating parent directories as needed.
func (f *AFS) Write(ctx context.Context, path string, data []byte) error {
	loc := f.location(path)
	parent := filepath.Dir(loc)
	ok, err := f.service.Exists(ctx, parent)
	if err != nil {
		return fmt.Errorf("stat %s: %w", parent, err)
	}
	if !ok {
		if err := f.service.Create(ctx, parent, 0o755, true); err != nil {
			return fmt.Errorf("create dir %s: %w", parent, err)
		}
	}
	if err := f.service.Upload(ctx, loc, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
