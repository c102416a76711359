package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/oconcat/internal/config"
	"github.com/dusk-indust/oconcat/internal/export"
	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/dusk-indust/oconcat/internal/status"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MergeService handles MCP tool calls. The project config is re-read on
// every call so edits made while the server runs are picked up.
type MergeService struct {
	dir  string
	fs   fsys.FileSystem
	log  *zap.Logger
	jobs int
}

// NewMergeService creates a MergeService for the project in dir. Merge
// warnings go to log, which may be nil.
func NewMergeService(dir string, fs fsys.FileSystem, log *zap.Logger, jobs int) *MergeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MergeService{dir: dir, fs: fs, log: log, jobs: jobs}
}

func (s *MergeService) targets(names ...string) ([]orchestrator.Target, error) {
	cfg, err := config.Load(s.dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("%s: %w", s.dir, config.ErrNoConfig)
	}
	return cfg.ResolveTargets(s.dir, names...)
}

// ListTargets reports every configured destination and whether it is up to
// date.
func (s *MergeService) ListTargets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListTargetsInput,
) (*mcp.CallToolResult, ListTargetsOutput, error) {
	targets, err := s.targets()
	if err != nil {
		return nil, ListTargetsOutput{}, err
	}
	statuses, err := status.Check(ctx, orchestrator.NewMerger(s.fs, nil), s.fs, targets)
	if err != nil {
		return nil, ListTargetsOutput{}, err
	}

	out := ListTargetsOutput{Targets: make([]TargetSummary, len(targets))}
	for i, t := range targets {
		out.Targets[i] = TargetSummary{
			Name:     t.DisplayName(),
			Dest:     t.Dest,
			Sources:  t.Sources,
			State:    string(statuses[i].State),
			Excluded: statuses[i].Excluded,
		}
	}
	return nil, out, nil
}

// MergeTarget merges the named targets, or all of them.
func (s *MergeService) MergeTarget(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeTargetInput,
) (*mcp.CallToolResult, MergeTargetOutput, error) {
	targets, err := s.targets(input.Targets...)
	if err != nil {
		return nil, MergeTargetOutput{}, err
	}

	runner := orchestrator.NewRunner(orchestrator.NewMerger(s.fs, s.log), s.jobs, nil)
	reports, err := runner.Run(ctx, targets)
	if err != nil {
		return nil, MergeTargetOutput{
			Reports: compact(reports),
			Status:  "failed",
			Message: err.Error(),
		}, nil
	}
	return nil, MergeTargetOutput{
		Reports: reports,
		Status:  "completed",
	}, nil
}

// DependencyGraph returns the resolved dependency graph of one target.
func (s *MergeService) DependencyGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DependencyGraphInput,
) (*mcp.CallToolResult, DependencyGraphOutput, error) {
	if input.Target == "" {
		return nil, DependencyGraphOutput{}, fmt.Errorf("target is required")
	}
	targets, err := s.targets(input.Target)
	if err != nil {
		return nil, DependencyGraphOutput{}, err
	}
	plan, err := orchestrator.NewMerger(s.fs, nil).Plan(ctx, targets[0])
	if err != nil {
		return nil, DependencyGraphOutput{}, err
	}

	switch input.Format {
	case "", "json":
		return nil, DependencyGraphOutput{Graph: export.ExportGraph(plan)}, nil
	case "mermaid":
		return nil, DependencyGraphOutput{Mermaid: export.GenerateMermaid(plan)}, nil
	default:
		return nil, DependencyGraphOutput{}, fmt.Errorf("unknown format %q (expected json or mermaid)", input.Format)
	}
}

// compact drops the nil slots of targets that did not finish.
func compact(reports []*orchestrator.Report) []*orchestrator.Report {
	var out []*orchestrator.Report
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
