package orchestrator

import (
	"github.com/dusk-indust/oconcat/internal/sourcemap"
	"github.com/dusk-indust/oconcat/internal/transform"
)

// Options holds the merge configuration of one destination. Options are
// treated as immutable once a merge starts.
type Options struct {
	// Separator is placed between emitted files. Default "\n".
	Separator string

	// Banner is prepended to the output after template rendering.
	Banner string

	// Footer is appended to the output after template rendering.
	Footer string

	// StripBanners removes leading banner comments from every file.
	StripBanners transform.StripOptions

	// Process transforms every file before directives are parsed.
	Process transform.Process

	// SourceMap enables source map generation.
	SourceMap bool

	// SourceMapName chooses the map file path for link style.
	SourceMapName SourceMapName

	// SourceMapStyle is one of embed, inline or link. Default embed.
	SourceMapStyle sourcemap.StyleName

	// Root is the directory "/"-prefixed dependency references resolve
	// against. Default ".".
	Root string

	// Force continues without a source map when link style conflicts with
	// content transforms, instead of refusing to merge.
	Force bool

	// Data is the template context for the banner and footer.
	Data map[string]any
}

// DefaultOptions returns the option defaults.
func DefaultOptions() Options {
	return Options{
		Separator:      "\n",
		SourceMapStyle: sourcemap.StyleEmbed,
		Root:           ".",
	}
}

// SourceMapName is either a literal path or a function of the destination
// path. The zero value selects "<dest>.map".
type SourceMapName struct {
	Literal string
	Func    func(dest string) string
}

// LiteralMapName returns a SourceMapName that always yields path.
func LiteralMapName(path string) SourceMapName {
	return SourceMapName{Literal: path}
}

// FuncMapName returns a SourceMapName computed from the destination.
func FuncMapName(fn func(dest string) string) SourceMapName {
	return SourceMapName{Func: fn}
}

// Resolve returns the map path for dest.
func (n SourceMapName) Resolve(dest string) string {
	switch {
	case n.Func != nil:
		return n.Func(dest)
	case n.Literal != "":
		return n.Literal
	default:
		return sourcemap.DefaultMapPath(dest)
	}
}

// Target is one destination: the ordered source list and its options.
type Target struct {
	// Name identifies the target in logs and reports. Defaults to Dest.
	Name string

	// Dest is the output file path.
	Dest string

	// Sources is the ordered list of configured files, already expanded
	// from glob patterns.
	Sources []string

	// Options configures the merge.
	Options Options
}

// DisplayName returns Name, or Dest when Name is empty.
func (t Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Dest
}
