// Package orchestrator merges the configured sources of each destination in
// dependency order. A Merger handles one destination; a Runner merges many
// destinations in parallel.
package orchestrator

import (
	"github.com/dusk-indust/oconcat/internal/graph"
	"github.com/dusk-indust/oconcat/internal/sourcemap"
)

// Report summarizes one completed merge.
type Report struct {
	Target string `json:"target"`
	Dest   string `json:"dest"`

	// MapPath is set when a separate map file was written.
	MapPath string `json:"mapPath,omitempty"`

	// SourceMap is the style used, empty when no map was produced.
	SourceMap sourcemap.StyleName `json:"sourceMap,omitempty"`

	// Emitted lists the units in output order.
	Emitted []string `json:"emitted"`

	// Excluded lists the units left out of the output.
	Excluded []string `json:"excluded,omitempty"`

	Diagnostics []graph.Diagnostic `json:"diagnostics,omitempty"`

	// Bytes is the size of the written destination file.
	Bytes int `json:"bytes"`
}

// ProgressEvent is emitted to the user while targets are merged.
type ProgressEvent struct {
	Target  string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a target within a run.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)
