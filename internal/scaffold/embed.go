// Package scaffold embeds the starter files written by "oconcat init".
package scaffold

import (
	_ "embed"
	"encoding/json"
)

// Config is the starter oconcat.yml.
//
//go:embed templates/oconcat.yml
var Config []byte

// MCPEntry is the .mcp.json server entry that runs oconcat in MCP mode.
var MCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "oconcat",
  "args": ["--serve-mcp"]
}`)
