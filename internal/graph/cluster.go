package graph

import (
	"path/filepath"
	"sort"
	"strings"
)

// Cluster is a group of configured units connected by dependsOn edges,
// ignoring edge direction.
type Cluster struct {
	// Name is the longest common directory of the members, with a trailing
	// slash, or empty when they share none.
	Name string `json:"name"`

	// Members are listed in configured order.
	Members []string `json:"members"`

	// Cohesion is internal / (internal + external) edges, where external
	// edges point at paths that are not configured.
	Cohesion float64 `json:"cohesion"`
}

// Clusters finds the connected components of the dependency graph.
//
// Algorithm:
//  1. Build an undirected adjacency list from the edges between configured units.
//  2. Find connected components via BFS, starting from units in configured order.
//  3. For each component with >= 2 units, compute a cohesion score.
func (s *Session) Clusters() []Cluster {
	s.Build()
	adj, external := s.adjacency()

	index := make(map[string]int, len(s.order))
	for i, u := range s.order {
		index[u.Path] = i
	}

	visited := make(map[string]bool, len(s.order))
	var clusters []Cluster
	for _, u := range s.order {
		if visited[u.Path] {
			continue
		}
		component := bfsComponent(u.Path, adj, visited)
		if len(component) < 2 {
			continue
		}
		sort.Slice(component, func(i, j int) bool { return index[component[i]] < index[component[j]] })
		clusters = append(clusters, Cluster{
			Name:     longestCommonPrefix(component),
			Members:  component,
			Cohesion: computeCohesion(component, adj, external),
		})
	}
	return clusters
}

// adjacency returns the undirected edges between configured units, and the
// number of edges from each unit to a path that is not configured.
func (s *Session) adjacency() (map[string][]string, map[string]int) {
	adj := make(map[string][]string, len(s.order))
	external := make(map[string]int)
	linked := make(map[Edge]bool)
	link := func(a, b string) {
		if linked[Edge{From: a, To: b}] {
			return
		}
		linked[Edge{From: a, To: b}] = true
		adj[a] = append(adj[a], b)
	}
	for _, e := range s.Edges() {
		if !s.Has(e.To) {
			external[e.From]++
			continue
		}
		link(e.From, e.To)
		link(e.To, e.From)
	}
	return adj, external
}

// bfsComponent performs BFS from start on the adjacency list and returns
// all reachable nodes. It marks visited nodes as it goes.
func bfsComponent(start string, adj map[string][]string, visited map[string]bool) []string {
	var component []string
	queue := []string{start}
	visited[start] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		component = append(component, node)
		for _, neighbor := range adj[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return component
}

// computeCohesion calculates internal_edges / (internal_edges + external_edges)
// for a connected component.
func computeCohesion(component []string, adj map[string][]string, external map[string]int) float64 {
	internalEdges := 0
	externalEdges := 0
	for _, m := range component {
		// Each undirected edge appears once per endpoint.
		internalEdges += len(adj[m])
		externalEdges += external[m]
	}
	internalEdges /= 2

	total := internalEdges + externalEdges
	if total == 0 {
		return 0
	}
	return float64(internalEdges) / float64(total)
}

// longestCommonPrefix finds the longest common directory prefix among a set
// of file paths. Returns an empty string if no common prefix is found.
func longestCommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := filepath.ToSlash(paths[0])
	for _, raw := range paths[1:] {
		p := filepath.ToSlash(raw)
		for !strings.HasPrefix(p, prefix) {
			// Trim to the last path separator (excluding any trailing slash).
			trimmed := strings.TrimRight(prefix, "/")
			idx := strings.LastIndex(trimmed, "/")
			if idx < 0 {
				return ""
			}
			prefix = trimmed[:idx+1]
		}
	}

	// Ensure prefix ends at a directory boundary.
	if !strings.HasSuffix(prefix, "/") {
		idx := strings.LastIndex(prefix, "/")
		if idx < 0 {
			return ""
		}
		prefix = prefix[:idx+1]
	}
	return prefix
}
