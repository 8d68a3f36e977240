package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

const historyURI = "gltf://history"

// registerResources registers all gltf-validator MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *services) {
	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Validation History",
			mcplib.WithResourceDescription("Recorded validation runs for the project, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(svc, projectPath),
	)
}

func handleHistoryResource(svc *services, projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.history.List(projectPath, "", 0)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling history: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      historyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
