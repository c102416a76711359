package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectConfig = `
targets:
  - name: app
    dest: dist/app.js
    src:
      - src/*.js
  - name: broken
    dest: dist/broken.js
    src:
      - src/cycle/*.js
`

// writeProject lays out a small project on disk and returns its directory.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"oconcat.yml":       projectConfig,
		"src/main.js":       "dependsOn(\"./util.js\");\nmain();",
		"src/util.js":       "function util() {}",
		"src/cycle/a.js":    "dependsOn(\"./b.js\");\nA",
		"src/cycle/b.js":    "dependsOn(\"./a.js\");\nB",
		"src/cycle/free.js": "F",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// setupServerClient wires an MCP server and client together using in-memory
// transports.
func setupServerClient(t *testing.T, dir string) *mcp.ClientSession {
	t.Helper()

	fs, err := fsys.NewAFS(dir)
	require.NoError(t, err)
	server := NewMCPServer(NewMergeService(dir, fs, nil, 2))

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err = server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})

	return session
}

// callTool invokes a tool and decodes its structured output into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any, out any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	if result.IsError || out == nil {
		return result
	}
	require.NotNil(t, result.StructuredContent, "expected structured content from %s", name)
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return result
}

// TestMCPListTools verifies that the MCP server exposes exactly 3 tools with
// the expected names.
func TestMCPListTools(t *testing.T) {
	session := setupServerClient(t, writeProject(t))

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, result.Tools, 3, "expected 3 registered tools")

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"dependency_graph", "list_targets", "merge_target"}, names)
}

func TestMCPMergeTarget(t *testing.T) {
	dir := writeProject(t)
	session := setupServerClient(t, dir)

	var out MergeTargetOutput
	result := callTool(t, session, "merge_target", MergeTargetInput{Targets: []string{"app"}}, &out)
	require.False(t, result.IsError, "merge_target should not return an error")

	assert.Equal(t, "completed", out.Status)
	require.Len(t, out.Reports, 1)
	assert.Equal(t, "app", out.Reports[0].Target)
	assert.Equal(t, []string{"src/util.js", "src/main.js"}, out.Reports[0].Emitted)

	data, err := os.ReadFile(filepath.Join(dir, "dist", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "function util() {}\nmain();", string(data))
}

func TestMCPListTargets(t *testing.T) {
	dir := writeProject(t)
	session := setupServerClient(t, dir)

	var before ListTargetsOutput
	callTool(t, session, "list_targets", ListTargetsInput{}, &before)
	require.Len(t, before.Targets, 2)
	assert.Equal(t, "missing", before.Targets[0].State)
	assert.Equal(t, 2, before.Targets[1].Excluded)

	callTool(t, session, "merge_target", MergeTargetInput{}, nil)

	var after ListTargetsOutput
	callTool(t, session, "list_targets", ListTargetsInput{}, &after)
	assert.Equal(t, "up-to-date", after.Targets[0].State)
	assert.Equal(t, "up-to-date", after.Targets[1].State)
}

func TestMCPDependencyGraph(t *testing.T) {
	session := setupServerClient(t, writeProject(t))

	var out DependencyGraphOutput
	callTool(t, session, "dependency_graph", DependencyGraphInput{Target: "broken"}, &out)
	require.NotNil(t, out.Graph)
	assert.Equal(t, []string{"src/cycle/free.js"}, out.Graph.Order)
	assert.Equal(t, []string{"src/cycle/a.js", "src/cycle/b.js"}, out.Graph.Excluded)

	var mermaid DependencyGraphOutput
	callTool(t, session, "dependency_graph", DependencyGraphInput{Target: "app", Format: "mermaid"}, &mermaid)
	assert.Contains(t, mermaid.Mermaid, "graph TD\n")
	assert.Nil(t, mermaid.Graph)
}

func TestMCPDependencyGraph_UnknownTarget(t *testing.T) {
	session := setupServerClient(t, writeProject(t))

	result := callTool(t, session, "dependency_graph", DependencyGraphInput{Target: "nope"}, nil)
	assert.True(t, result.IsError, "unknown target should set IsError")
}

func TestMCPNoConfig(t *testing.T) {
	session := setupServerClient(t, t.TempDir())

	result := callTool(t, session, "list_targets", ListTargetsInput{}, nil)
	assert.True(t, result.IsError, "missing config should set IsError")
}
