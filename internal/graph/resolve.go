package graph

import (
	"path/filepath"
	"strings"
)

// rootMarker prefixes dependency references that resolve against the
// configured root instead of the declaring file's directory.
const rootMarker = "/"

// Resolver rewrites raw dependency references (the quoted argument of a
// dependsOn directive) into canonical file paths that match Unit.Path values.
// It is built once per destination with the configured root directory.
type Resolver struct {
	root string
}

// NewResolver builds a Resolver for the given root. An empty root means the
// current directory, matching the default of the "root" option.
func NewResolver(root string) *Resolver {
	if root == "" {
		root = "."
	}
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the directory root-relative references are joined to.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps ref, as written inside the file at declaring, to a canonical
// path. References starting with "/" are joined to the configured root, never
// to the real filesystem root. Everything else is relative to the directory
// containing the declaring file. No filesystem I/O happens here.
func (r *Resolver) Resolve(ref, declaring string) string {
	if strings.HasPrefix(ref, rootMarker) {
		return filepath.Join(r.root, filepath.FromSlash(strings.TrimPrefix(ref, rootMarker)))
	}
	return filepath.Join(filepath.Dir(declaring), filepath.FromSlash(ref))
}

// Canonical returns the map key used for a configured source path.
func Canonical(path string) string {
	return filepath.Clean(path)
}
