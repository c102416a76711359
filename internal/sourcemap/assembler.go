// Package sourcemap builds version 3 source maps for merged output. An
// Assembler follows the merged output as it is appended and records one
// mapping per line of attributed content; a Style frames and persists the
// resulting payload.
package sourcemap

import (
	"strings"
	"unicode/utf16"
)

// Mapping links a generated position to an original position. Lines and
// columns are zero-based; columns count UTF-16 code units, which is what
// source map consumers expect.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          string
	OriginalLine    int
	OriginalColumn  int
}

// Assembler tracks a (line, column) cursor over the bytes appended to the
// merged output so far.
type Assembler struct {
	line     int
	column   int
	mappings []Mapping
	sources  []string
	contents map[string]string
}

// NewAssembler returns an Assembler positioned at the start of the output.
func NewAssembler() *Assembler {
	return &Assembler{contents: make(map[string]string)}
}

// AddOpaque advances the cursor over text that has no original source, such
// as the banner, separators and the footer. No mappings are created.
func (a *Assembler) AddOpaque(text string) {
	a.advance(text)
}

// Source describes where attributed content came from.
type Source struct {
	// Path names the original file.
	Path string

	// Content is the original text the mappings point into. It is embedded
	// by snapshot styles.
	Content string

	// Lines maps line i of the attributed text to a line of Content. Nil
	// means line i maps to line i.
	Lines []int
}

// AddAttributed advances the cursor over text taken from src and maps each of
// its lines to the corresponding line of src. The first line starts at the
// current column; the empty remainder after a trailing newline is not mapped.
func (a *Assembler) AddAttributed(text string, src Source) {
	if _, seen := a.contents[src.Path]; !seen {
		a.sources = append(a.sources, src.Path)
		a.contents[src.Path] = src.Content
	}
	if text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		last := i == len(lines)-1
		if last && line == "" {
			break
		}
		a.mappings = append(a.mappings, Mapping{
			GeneratedLine:   a.line,
			GeneratedColumn: a.column,
			Source:          src.Path,
			OriginalLine:    originLine(src.Lines, i),
		})
		if last {
			a.column += width(line)
		} else {
			a.line++
			a.column = 0
		}
	}
}

// Position returns the current zero-based line and column.
func (a *Assembler) Position() (line, column int) {
	return a.line, a.column
}

// Mappings returns the recorded mappings in generated order.
func (a *Assembler) Mappings() []Mapping {
	out := make([]Mapping, len(a.mappings))
	copy(out, a.mappings)
	return out
}

// Sources returns the attributed sources in first-seen order.
func (a *Assembler) Sources() []string {
	out := make([]string, len(a.sources))
	copy(out, a.sources)
	return out
}

// Content returns the original text recorded for source.
func (a *Assembler) Content(source string) string {
	return a.contents[source]
}

func (a *Assembler) advance(text string) {
	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		a.column += width(text)
		return
	}
	a.line += strings.Count(text, "\n")
	a.column = width(text[nl+1:])
}

func originLine(origins []int, i int) int {
	if i < len(origins) {
		return origins[i]
	}
	return i
}

// width returns the length of s in UTF-16 code units.
func width(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
