package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/cache"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/config"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/history"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/provision"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/runner"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/scanner"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/storage"
	"github.com/abdidvp/gltf-validator/internal/application"
)

// services is shared by every handler of one server so that concurrent tool
// calls record history through a single store.
type services struct {
	validate *application.ValidateService
	batch    *application.BatchService
	history  *application.HistoryService
}

func newServices() *services {
	hist := history.New()
	validate := application.NewValidateService(
		config.New(),
		provision.New(),
		runner.New(),
		cache.New(),
		hist,
		storage.New(),
		gitinfo.New(),
	)
	return &services{
		validate: validate,
		batch:    application.NewBatchService(scanner.New(), validate),
		history:  application.NewHistoryService(hist),
	}
}

// registerTools registers all gltf-validator MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *services) {
	// 1. gltf_validate
	s.AddTool(
		mcplib.NewTool("gltf_validate",
			mcplib.WithDescription("Run the Khronos glTF-Validator on an asset and return the classified report as JSON"),
			mcplib.WithString("asset",
				mcplib.Required(),
				mcplib.Description("Path to a .gltf or .glb file, or a directory of them, relative to the project root"),
			),
			mcplib.WithString("fail_on", mcplib.Description("Lowest severity that fails: error, warning, info, hint or none")),
			mcplib.WithBoolean("no_cache", mcplib.Description("Ignore cached reports")),
			mcplib.WithBoolean("schema", mcplib.Description("Check validator output against the report JSON Schema")),
		),
		handleValidate(svc, projectPath),
	)

	// 2. gltf_decode_report
	s.AddTool(
		mcplib.NewTool("gltf_decode_report",
			mcplib.WithDescription("Decode a glTF-Validator JSON report without running the validator"),
			mcplib.WithString("report",
				mcplib.Required(),
				mcplib.Description("The JSON report text produced by gltf_validator -o"),
			),
			mcplib.WithString("fail_on", mcplib.Description("Lowest severity that fails (default: error)")),
			mcplib.WithBoolean("schema", mcplib.Description("Check the report against the JSON Schema first")),
		),
		handleDecodeReport(),
	)

	// 3. gltf_history
	s.AddTool(
		mcplib.NewTool("gltf_history",
			mcplib.WithDescription("Returns recorded validation runs, oldest first"),
			mcplib.WithString("asset", mcplib.Description("Only runs of this asset")),
			mcplib.WithNumber("limit", mcplib.Description("Only the most recent N runs")),
		),
		handleHistory(svc, projectPath),
	)
}

func handleValidate(svc *services, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		asset, err := request.RequireString("asset")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if !filepath.IsAbs(asset) {
			asset = filepath.Join(projectPath, asset)
		}

		args := request.GetArguments()
		noCache, _ := args["no_cache"].(bool)
		schema, _ := args["schema"].(bool)
		failOn, _ := args["fail_on"].(string)

		opts := application.ValidateOptions{
			ProjectPath: projectPath,
			NoCache:     noCache,
			Schema:      schema,
			FailOn:      failOn,
		}

		if info, err := os.Stat(asset); err == nil && info.IsDir() {
			batch, err := svc.batch.ValidateTree(ctx, asset, opts, application.DefaultJobs)
			if err != nil {
				return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
			}
			return jsonResult(batch)
		}

		outcome, err := svc.validate.Validate(ctx, asset, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(outcome)
	}
}

func handleDecodeReport() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		payload, err := request.RequireString("report")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		failOn, _ := args["fail_on"].(string)
		if failOn == "" {
			failOn = "error"
		}
		schema, _ := args["schema"].(bool)

		svc, err := application.NewDecodeService(failOn)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		outcome, err := svc.Decode([]byte(payload), schema)
		if err != nil {
			return errorResult(fmt.Sprintf("decode failed: %v", err)), nil
		}
		return jsonResult(outcome)
	}
}

func handleHistory(svc *services, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		asset, _ := args["asset"].(string)
		if asset != "" && !filepath.IsAbs(asset) {
			asset = filepath.Join(projectPath, asset)
		}
		// JSON numbers arrive as float64.
		limit, _ := args["limit"].(float64)

		entries, err := svc.history.List(projectPath, asset, int(limit))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(entries)
	}
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool error result with the given message.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
