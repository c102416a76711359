package graph

import (
	"context"
	"fmt"
)

// DiagnosticKind classifies a merge warning.
type DiagnosticKind string

const (
	// KindMissingSource: a configured source path does not exist. The file is
	// dropped before the graph is built.
	KindMissingSource DiagnosticKind = "missing-source"

	// KindMissingDependency: a declared dependency does not exist on disk.
	KindMissingDependency DiagnosticKind = "missing-file"

	// KindUnconfigured: a declared dependency exists but is not one of the
	// destination's configured files.
	KindUnconfigured DiagnosticKind = "unconfigured"

	// KindCircular: a declared dependency is configured but never became
	// emittable, so it takes part in a cycle or a chain leading into one.
	KindCircular DiagnosticKind = "circular"

	// KindExcluded: the unit itself was left out of the output.
	KindExcluded DiagnosticKind = "excluded"
)

// Diagnostic is a single warning produced while merging one destination.
// Diagnostics never fail a merge.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`

	// Path is the dependency path for dependency diagnostics, and the source
	// file for missing-source and excluded diagnostics.
	Path string `json:"path"`

	// ReferencedBy is the declaring unit for dependency diagnostics.
	ReferencedBy string `json:"referencedBy,omitempty"`
}

// Message renders the diagnostic as a one-line warning.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case KindMissingSource:
		return fmt.Sprintf("Source file %q not found.", d.Path)
	case KindMissingDependency:
		return fmt.Sprintf("Dependency %q (referenced by %s) not found.", d.Path, d.ReferencedBy)
	case KindUnconfigured:
		return fmt.Sprintf("Dependency %q (referenced by %s) not in glob of configured files.", d.Path, d.ReferencedBy)
	case KindCircular:
		return fmt.Sprintf("Circular dependencies including %q (referenced by %s).", d.Path, d.ReferencedBy)
	case KindExcluded:
		return fmt.Sprintf("Source file %q ignored.", d.Path)
	default:
		return fmt.Sprintf("%s: %s", d.Kind, d.Path)
	}
}

// ExistenceChecker reports whether a path exists. fsys.FileSystem satisfies
// it.
type ExistenceChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Diagnose classifies every unresolved dependency of every excluded unit.
// Units are visited in configured order and dependencies in registration
// order; each excluded unit contributes one diagnostic per residual
// dependency followed by one KindExcluded diagnostic. A failed existence
// check counts as a missing file.
func (s *Session) Diagnose(ctx context.Context, fs ExistenceChecker) []Diagnostic {
	res := s.Assemble()
	var out []Diagnostic
	for _, u := range res.Excluded {
		for _, dep := range u.Pending {
			out = append(out, Diagnostic{
				Kind:         s.classify(ctx, fs, dep),
				Path:         dep,
				ReferencedBy: u.Path,
			})
		}
		out = append(out, Diagnostic{Kind: KindExcluded, Path: u.Path})
	}
	return out
}

func (s *Session) classify(ctx context.Context, fs ExistenceChecker, dep string) DiagnosticKind {
	if ok, err := fs.Exists(ctx, dep); err != nil || !ok {
		return KindMissingDependency
	}
	if !s.Has(dep) {
		return KindUnconfigured
	}
	return KindCircular
}
