package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMCPServer creates an MCP server with the 3 merge tools registered:
// list_targets, merge_target and dependency_graph.
func NewMCPServer(svc *MergeService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "oconcat",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_targets",
		Description: "List the destinations configured in oconcat.yml with their expanded source files and whether the written output is up to date.",
	}, svc.ListTargets)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_target",
		Description: "Merge one or more destinations in dependency order. Returns the emitted files, excluded files and warnings per destination.",
	}, svc.MergeTarget)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dependency_graph",
		Description: "Return the resolved dependsOn graph of a destination as JSON or as a Mermaid diagram.",
	}, svc.DependencyGraph)

	return server
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
