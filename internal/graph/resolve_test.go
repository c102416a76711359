package graph

import (
	"path/filepath"
	"testing"
)

func TestResolve_Relative(t *testing.T) {
	r := NewResolver("")

	tests := []struct {
		name      string
		ref       string
		declaring string
		want      string
	}{
		{"dot-slash sibling", "./dep2", "test/fixtures/dep1", "test/fixtures/dep2"},
		{"bare sibling", "dep2.js", "src/app.js", "src/dep2.js"},
		{"parent directory", "../lib/util.js", "src/app/main.js", "src/lib/util.js"},
		{"declaring at top level", "./b.js", "a.js", "b.js"},
		{"redundant segments", "./x/../y.js", "src/a.js", "src/y.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.ref, tt.declaring)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.ref, tt.declaring, got, tt.want)
			}
		})
	}
}

func TestResolve_RootRelative(t *testing.T) {
	tests := []struct {
		name      string
		root      string
		ref       string
		declaring string
		want      string
	}{
		{"default root", "", "/lib/util.js", "src/deep/app.js", "lib/util.js"},
		{"configured root", "vendor", "/util.js", "src/app.js", "vendor/util.js"},
		{"root with trailing slash", "vendor/", "/a/b.js", "x.js", "vendor/a/b.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(tt.root).Resolve(tt.ref, tt.declaring)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.ref, tt.declaring, got, tt.want)
			}
		})
	}
}

func TestResolve_RootIsNotFilesystemRoot(t *testing.T) {
	r := NewResolver("project")
	got := r.Resolve("/etc/passwd", "project/src/a.js")
	if got != filepath.FromSlash("project/etc/passwd") {
		t.Errorf("root-relative reference escaped the configured root: %q", got)
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical("./src//a.js"); got != filepath.FromSlash("src/a.js") {
		t.Errorf("Canonical = %q", got)
	}
}
