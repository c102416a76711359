package status

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
)

// State is the freshness of one destination.
type State string

const (
	StateUpToDate State = "up-to-date"
	StateStale    State = "stale"
	StateMissing  State = "missing"
)

// TargetStatus describes whether a destination matches what a merge would
// write now.
type TargetStatus struct {
	Name     string
	Dest     string
	State    State
	Files    int // units a merge would emit
	Excluded int // units a merge would leave out
	Warnings int
}

// Check renders every target in memory and compares the result with the
// files on disk. Nothing is written.
func Check(ctx context.Context, m *orchestrator.Merger, fs fsys.FileSystem, targets []orchestrator.Target) ([]TargetStatus, error) {
	out := make([]TargetStatus, 0, len(targets))
	for _, t := range targets {
		rendered, err := m.Render(ctx, t)
		if err != nil {
			return nil, err
		}
		state, err := compare(ctx, fs, t.Dest, rendered)
		if err != nil {
			return nil, err
		}
		r := rendered.Report
		out = append(out, TargetStatus{
			Name:     r.Target,
			Dest:     r.Dest,
			State:    state,
			Files:    len(r.Emitted),
			Excluded: len(r.Excluded),
			Warnings: len(r.Diagnostics),
		})
	}
	return out, nil
}

func compare(ctx context.Context, fs fsys.FileSystem, dest string, rendered *orchestrator.Output) (State, error) {
	files := map[string][]byte{dest: rendered.Content}
	for path, data := range rendered.Artifacts {
		files[path] = data
	}

	state := StateUpToDate
	for path, want := range files {
		ok, err := fs.Exists(ctx, path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if !ok {
			return StateMissing, nil
		}
		got, err := fs.Read(ctx, path)
		if err != nil {
			return "", err
		}
		if !bytes.Equal(got, want) {
			state = StateStale
		}
	}
	return state, nil
}

// Pending returns the names of targets that need a merge, in input order.
func Pending(statuses []TargetStatus) []string {
	var names []string
	for _, s := range statuses {
		if s.State != StateUpToDate {
			names = append(names, s.Name)
		}
	}
	return names
}
