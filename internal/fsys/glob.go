package fsys

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand turns configured source patterns into the ordered file list of one
// destination. Patterns are applied in order: a plain pattern appends its
// matches (directory walk order, duplicates skipped), a pattern starting
// with "!" removes earlier matches. A pattern without glob metacharacters is
// kept even when nothing matches it, so that the merge can warn about the
// missing file.
// Relative patterns are matched under base and returned relative to it.
func Expand(base string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	for _, raw := range patterns {
		if neg, ok := strings.CutPrefix(raw, "!"); ok {
			pattern := normalizePattern(neg)
			kept := out[:0]
			for _, p := range out {
				if match, _ := doublestar.Match(pattern, filepath.ToSlash(p)); match {
					delete(seen, p)
					continue
				}
				kept = append(kept, p)
			}
			out = kept
			continue
		}

		matches, err := glob(base, raw)
		if err != nil {
			return nil, fmt.Errorf("expand pattern %q: %w", raw, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func glob(base, raw string) ([]string, error) {
	if !hasMeta(raw) {
		return []string{filepath.Clean(raw)}, nil
	}
	if filepath.IsAbs(raw) {
		return doublestar.FilepathGlob(raw)
	}
	if base == "" {
		base = "."
	}
	matches, err := doublestar.Glob(os.DirFS(base), normalizePattern(raw))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}

// normalizePattern converts a configured pattern to the slash-separated,
// cleaned form io/fs paths use.
func normalizePattern(p string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "./")
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
