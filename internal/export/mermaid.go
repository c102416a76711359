package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/oconcat/internal/orchestrator"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a planned merge.
// Units are grouped by directory; every declared dependency becomes an arrow
// from the dependent to its dependency. Dependencies that are not configured
// units and units left out of the output are styled separately.
func GenerateMermaid(plan *orchestrator.Plan) string {
	session := plan.Session
	edges := session.Edges()

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	groups := make(map[string][]string) // directory → unit paths
	for _, u := range session.Units() {
		dir := filepath.ToSlash(filepath.Dir(u.Path))
		groups[dir] = append(groups[dir], u.Path)
	}
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, dir := range dirs {
		members := groups[dir]
		sort.Strings(members)

		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID(dir+"_cluster"), dir))
		for _, member := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(member), shortPath(member)))
		}
		sb.WriteString("  end\n")
	}

	missing := false
	for _, e := range edges {
		if session.Has(e.To) {
			continue
		}
		if _, ok := nodeIDs[e.To]; ok {
			continue
		}
		missing = true
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]:::missing\n", getID(e.To), shortPath(e.To)))
	}

	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.From), getID(e.To)))
	}

	if missing {
		sb.WriteString("  classDef missing stroke-dasharray: 5 5\n")
	}
	if excluded := plan.Result.ExcludedPaths(); len(excluded) > 0 {
		ids := make([]string, len(excluded))
		for i, p := range excluded {
			ids[i] = getID(p)
		}
		sb.WriteString("  classDef excluded fill:#fee,stroke:#c33\n")
		sb.WriteString(fmt.Sprintf("  class %s excluded\n", strings.Join(ids, ",")))
	}

	return sb.String()
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return filepath.ToSlash(path)
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
