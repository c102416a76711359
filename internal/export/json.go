package export

import (
	"github.com/dusk-indust/oconcat/internal/graph"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
)

// GraphExport is the JSON form of a planned merge.
type GraphExport struct {
	Target      string             `json:"target"`
	Dest        string             `json:"dest"`
	Order       []string           `json:"order"`
	Excluded    []string           `json:"excluded,omitempty"`
	Units       []UnitExport       `json:"units"`
	Edges       []graph.Edge       `json:"edges"`
	Clusters    []graph.Cluster    `json:"clusters,omitempty"`
	Diagnostics []DiagnosticExport `json:"diagnostics,omitempty"`
}

// UnitExport describes one configured unit.
type UnitExport struct {
	Path       string   `json:"path"`
	Status     string   `json:"status"`
	Position   int      `json:"position"` // index in the output, -1 when excluded
	Requires   []string `json:"requires,omitempty"`
	Dependents []string `json:"dependents,omitempty"`
}

// DiagnosticExport is a diagnostic with its rendered message.
type DiagnosticExport struct {
	graph.Diagnostic
	Message string `json:"message"`
}

// ExportGraph builds a GraphExport from a plan.
func ExportGraph(plan *orchestrator.Plan) *GraphExport {
	order := plan.Result.Paths()
	position := make(map[string]int, len(order))
	for i, p := range order {
		position[p] = i
	}

	export := &GraphExport{
		Target:   plan.Target.DisplayName(),
		Dest:     plan.Target.Dest,
		Order:    order,
		Excluded: plan.Result.ExcludedPaths(),
		Edges:    plan.Session.Edges(),
		Clusters: plan.Session.Clusters(),
	}
	if export.Edges == nil {
		export.Edges = []graph.Edge{}
	}

	for _, u := range plan.Session.Units() {
		ue := UnitExport{
			Path:       u.Path,
			Status:     "excluded",
			Position:   -1,
			Requires:   u.Requires,
			Dependents: u.Dependents,
		}
		if i, ok := position[u.Path]; ok {
			ue.Status = "emitted"
			ue.Position = i
		}
		export.Units = append(export.Units, ue)
	}

	for _, d := range plan.Diagnostics {
		export.Diagnostics = append(export.Diagnostics, DiagnosticExport{
			Diagnostic: d,
			Message:    d.Message(),
		})
	}

	return export
}
