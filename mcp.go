package mojibake

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Parameter structures for MCP tools
type RepairDirectoryParams struct {
	Root   string `json:"root"`
	DryRun bool   `json:"dry_run"`
}

type RepairFileParams struct {
	Path   string `json:"path"`
	DryRun bool   `json:"dry_run"`
}

type RepairTextParams struct {
	Text string `json:"text"`
}

type ListPatternsParams struct{}

// Tool handler functions
func RepairDirectoryTool(ctx context.Context, req *mcp.CallToolRequest, args RepairDirectoryParams, repairer Repairer) (*mcp.CallToolResult, any, error) {
	result, err := repairer.RepairDirectory(ctx, args.Root, args.DryRun)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to repair directory: %w", err)
	}
	return nil, result, nil
}

func RepairFileTool(ctx context.Context, req *mcp.CallToolRequest, args RepairFileParams, repairer Repairer) (*mcp.CallToolResult, any, error) {
	result, err := repairer.RepairFile(ctx, args.Path, args.DryRun)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to repair file: %w", err)
	}
	return nil, result, nil
}

func RepairTextTool(ctx context.Context, req *mcp.CallToolRequest, args RepairTextParams, repairer Repairer) (*mcp.CallToolResult, any, error) {
	return nil, repairer.Preview(args.Text), nil
}

func ListPatternsTool(ctx context.Context, req *mcp.CallToolRequest, args ListPatternsParams, table PatternTable) (*mcp.CallToolResult, any, error) {
	return nil, table, nil
}

// RunMCPServer starts the MCP server implementation using the official Go SDK
// If transport is nil, it will use stdio transport
func RunMCPServer(configPath string, transport *mcp.InMemoryTransport) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repairer, err := NewDefaultRepairer(config, nil)
	if err != nil {
		return fmt.Errorf("failed to create repairer: %w", err)
	}

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mojibake",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "repair_directory",
		Description: "Repair encoding corruption in all web files under a directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RepairDirectoryParams) (*mcp.CallToolResult, any, error) {
		return RepairDirectoryTool(ctx, req, args, repairer)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "repair_file",
		Description: "Repair encoding corruption in a single file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RepairFileParams) (*mcp.CallToolResult, any, error) {
		return RepairFileTool(ctx, req, args, repairer)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "repair_text",
		Description: "Repair encoding corruption in a raw text string without touching the filesystem",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RepairTextParams) (*mcp.CallToolResult, any, error) {
		return RepairTextTool(ctx, req, args, repairer)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_patterns",
		Description: "List the active corruption patterns in application order",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPatternsParams) (*mcp.CallToolResult, any, error) {
		return ListPatternsTool(ctx, req, args, repairer.Patterns())
	})

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Use provided transport or default to stdio
	if transport != nil {
		return server.Run(ctx, transport)
	}
	return server.Run(ctx, &mcp.StdioTransport{})
}
