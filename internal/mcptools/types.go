package mcptools

import (
	"github.com/dusk-indust/oconcat/internal/export"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
)

// --- MCP Tool Types for the server mode (--serve-mcp) ---

// ListTargetsInput is the input for the list_targets MCP tool.
type ListTargetsInput struct{}

// ListTargetsOutput is the result of the list_targets MCP tool.
type ListTargetsOutput struct {
	Targets []TargetSummary `json:"targets"`
}

// TargetSummary is a brief overview of one configured destination.
type TargetSummary struct {
	Name     string   `json:"name"`
	Dest     string   `json:"dest"`
	Sources  []string `json:"sources"`
	State    string   `json:"state"` // "up-to-date", "stale" or "missing"
	Excluded int      `json:"excluded"`
}

// MergeTargetInput is the input for the merge_target MCP tool.
type MergeTargetInput struct {
	Targets []string `json:"targets,omitempty" jsonschema:"target names to merge (default: all)"`
}

// MergeTargetOutput is the result of the merge_target MCP tool.
type MergeTargetOutput struct {
	Reports []*orchestrator.Report `json:"reports"`
	Status  string                 `json:"status"` // "completed" or "failed"
	Message string                 `json:"message,omitempty"`
}

// DependencyGraphInput is the input for the dependency_graph MCP tool.
type DependencyGraphInput struct {
	Target string `json:"target" jsonschema:"target name"`
	Format string `json:"format,omitempty" jsonschema:"json or mermaid (default: json)"`
}

// DependencyGraphOutput is the result of the dependency_graph MCP tool.
type DependencyGraphOutput struct {
	Graph   *export.GraphExport `json:"graph,omitempty"`
	Mermaid string              `json:"mermaid,omitempty"`
}
