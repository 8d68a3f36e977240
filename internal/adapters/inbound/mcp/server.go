package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates an MCP server with the gltf-validator tools and
// resources registered. projectPath holds .gltf-validator.yaml and the
// recorded history; relative asset paths resolve against it.
func NewMCPServer(projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gltf-validator",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	svc := newServices()
	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
