// Package fsys provides the file-system capability used by merges: existence
// and directory checks, reads and writes. Production code uses AFS, backed by
// github.com/viant/afs; tests use Memory.
package fsys

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when the path does not exist.
var ErrNotExist = errors.New("file does not exist")

// FileSystem is the storage capability a merge needs.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	IsDir(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}
