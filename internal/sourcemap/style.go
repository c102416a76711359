package sourcemap

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// StyleName selects how the map payload is framed and persisted.
type StyleName string

const (
	// StyleEmbed appends the payload, with a snapshot of the sources, to the
	// output as a base64 data URI.
	StyleEmbed StyleName = "embed"

	// StyleInline appends the same snapshot payload as a percent-encoded
	// data URI.
	StyleInline StyleName = "inline"

	// StyleLink writes the payload to a separate map file and appends a
	// reference to it. Sources are referenced by path, not embedded.
	StyleLink StyleName = "link"
)

// referencePrefix starts the trailing comment appended to the output.
const referencePrefix = "\n//# sourceMappingURL="

// Writer persists map artifacts.
type Writer interface {
	Write(ctx context.Context, path string, data []byte) error
}

// Target describes where the merged output and its map live.
type Target struct {
	Dest    string // destination file of the merge
	MapPath string // map artifact path, used by link style only
}

// Style frames a finished Assembler. Finish returns the text to append to the
// merged output and writes any separate artifact through w.
type Style interface {
	Name() StyleName

	// Snapshot reports whether the payload carries its own copy of the
	// sources. Styles that do not can only describe content that is
	// byte-identical to the files on disk.
	Snapshot() bool

	Finish(ctx context.Context, a *Assembler, t Target, w Writer) (string, error)
}

// Compile-time interface checks.
var (
	_ Style = EmbedStyle{}
	_ Style = InlineStyle{}
	_ Style = LinkStyle{}
)

// ParseStyle returns the Style registered under name. An empty name selects
// embed, the default.
func ParseStyle(name string) (Style, error) {
	switch StyleName(strings.ToLower(name)) {
	case StyleEmbed, "":
		return EmbedStyle{}, nil
	case StyleInline:
		return InlineStyle{}, nil
	case StyleLink:
		return LinkStyle{}, nil
	default:
		return nil, fmt.Errorf("unknown sourceMapStyle %q (expected embed, inline, or link)", name)
	}
}

// DefaultMapPath is the map location used when no name is configured.
func DefaultMapPath(dest string) string {
	return dest + ".map"
}

// snapshot builds the payload used by the data-URI styles: sources relative
// to the destination directory, contents embedded.
func snapshot(a *Assembler, dest string) ([]byte, error) {
	dir := filepath.Dir(dest)
	m := a.Build(BuildOptions{
		File:           filepath.Base(dest),
		SourcePath:     func(src string) string { return relSlash(dir, src) },
		IncludeContent: true,
	})
	return m.Marshal()
}

// EmbedStyle frames the snapshot payload as base64.
type EmbedStyle struct{}

func (EmbedStyle) Name() StyleName { return StyleEmbed }
func (EmbedStyle) Snapshot() bool  { return true }

func (EmbedStyle) Finish(_ context.Context, a *Assembler, t Target, _ Writer) (string, error) {
	data, err := snapshot(a, t.Dest)
	if err != nil {
		return "", fmt.Errorf("encode source map: %w", err)
	}
	return referencePrefix + "data:application/json;charset=utf-8;base64," +
		base64.StdEncoding.EncodeToString(data), nil
}

// InlineStyle frames the snapshot payload percent-encoded, keeping it
// readable in the output.
type InlineStyle struct{}

func (InlineStyle) Name() StyleName { return StyleInline }
func (InlineStyle) Snapshot() bool  { return true }

func (InlineStyle) Finish(_ context.Context, a *Assembler, t Target, _ Writer) (string, error) {
	data, err := snapshot(a, t.Dest)
	if err != nil {
		return "", fmt.Errorf("encode source map: %w", err)
	}
	return referencePrefix + "data:application/json;charset=utf-8," +
		url.PathEscape(string(data)), nil
}

// LinkStyle writes the payload next to the output and links to it.
type LinkStyle struct{}

func (LinkStyle) Name() StyleName { return StyleLink }
func (LinkStyle) Snapshot() bool  { return false }

func (LinkStyle) Finish(ctx context.Context, a *Assembler, t Target, w Writer) (string, error) {
	mapPath := t.MapPath
	if mapPath == "" {
		mapPath = DefaultMapPath(t.Dest)
	}
	mapDir := filepath.Dir(mapPath)
	m := a.Build(BuildOptions{
		File:       relSlash(mapDir, t.Dest),
		SourcePath: func(src string) string { return relSlash(mapDir, src) },
	})
	data, err := m.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode source map: %w", err)
	}
	if err := w.Write(ctx, mapPath, data); err != nil {
		return "", fmt.Errorf("write source map %s: %w", mapPath, err)
	}
	return referencePrefix + relSlash(filepath.Dir(t.Dest), mapPath), nil
}

// relSlash returns target relative to base with forward slashes, falling
// back to target itself when no relative path exists.
func relSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
