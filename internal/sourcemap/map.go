package sourcemap

import (
	"encoding/json"
	"strings"
)

// Map is the version 3 source map payload.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// BuildOptions controls how the payload refers to its sources.
type BuildOptions struct {
	// File is the generated file name as seen from the map.
	File string

	// SourcePath rewrites an attributed source path for the "sources" list,
	// typically to make it relative to the map location. Nil keeps paths as
	// they are.
	SourcePath func(string) string

	// IncludeContent embeds a snapshot of each source's original text.
	IncludeContent bool
}

// Build renders the recorded mappings into a Map.
func (a *Assembler) Build(opts BuildOptions) *Map {
	m := &Map{
		Version:  3,
		File:     opts.File,
		Sources:  make([]string, len(a.sources)),
		Names:    []string{},
		Mappings: encodeMappings(a.mappings, a.sourceIndex()),
	}
	for i, src := range a.sources {
		m.Sources[i] = src
		if opts.SourcePath != nil {
			m.Sources[i] = opts.SourcePath(src)
		}
	}
	if opts.IncludeContent {
		m.SourcesContent = make([]string, len(a.sources))
		for i, src := range a.sources {
			m.SourcesContent[i] = a.contents[src]
		}
	}
	return m
}

// Marshal serializes the map as compact JSON.
func (m *Map) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (a *Assembler) sourceIndex() map[string]int {
	idx := make(map[string]int, len(a.sources))
	for i, src := range a.sources {
		idx[src] = i
	}
	return idx
}

// encodeMappings produces the "mappings" field: generated lines separated by
// ";", segments separated by ",", each segment a base64 VLQ run of
// [generated column, source index, original line, original column], every
// field relative to the previous segment (the column resets per line).
func encodeMappings(mappings []Mapping, sources map[string]int) string {
	var b strings.Builder
	var prevSource, prevOrigLine, prevOrigCol int
	line := 0
	prevCol := 0
	first := true
	for _, m := range mappings {
		for line < m.GeneratedLine {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false

		src := sources[m.Source]
		writeVLQ(&b, m.GeneratedColumn-prevCol)
		writeVLQ(&b, src-prevSource)
		writeVLQ(&b, m.OriginalLine-prevOrigLine)
		writeVLQ(&b, m.OriginalColumn-prevOrigCol)

		prevCol = m.GeneratedColumn
		prevSource = src
		prevOrigLine = m.OriginalLine
		prevOrigCol = m.OriginalColumn
	}
	return b.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqContinuation = 1 << vlqShift
	vlqMask         = vlqContinuation - 1
)

// writeVLQ appends v as a base64 VLQ: sign in the lowest bit, then 5-bit
// groups least significant first with bit 6 marking continuation.
func writeVLQ(b *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & vlqMask
		u >>= vlqShift
		if u > 0 {
			digit |= vlqContinuation
		}
		b.WriteByte(base64Digits[digit])
		if u == 0 {
			return
		}
	}
}
