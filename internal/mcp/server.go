// Package mcp exposes the bridge operations as MCP tools.
//
// The serve mode keeps one process alive and dispatches each tool call the
// same way a one-shot invocation would, so AI clients get the exact payloads
// the CLI prints.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emirks/yokatlas-bridge/internal/dispatch"
	"github.com/emirks/yokatlas-bridge/pkg/version"
)

const serverName = "yokatlas-bridge"

// Server is the MCP server wrapping the operation dispatcher.
type Server struct {
	mcp        *mcp.Server
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates an MCP server over an already-constructed dispatcher.
func NewServer(dispatcher *dispatch.Dispatcher, logger *slog.Logger) (*Server, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		dispatcher: dispatcher,
		logger:     logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		nil, // ServerOptions - capabilities are inferred from registered tools
	)

	s.registerTools()

	return s, nil
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return serverName, version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        dispatch.OpHealthCheck,
			Description: "Check whether the YOKATLAS provider is installed and which data layout is active. Use before searching to verify availability.",
		},
		{
			Name:        dispatch.OpSearchLisans,
			Description: "Search bachelor degree (lisans) programs by university, program, city, fee, score type, or student ranking. Turkish-aware fuzzy matching.",
		},
		{
			Name:        dispatch.OpSearchOnlisans,
			Description: "Search associate degree (önlisans) programs with the same filters as the bachelor search. Score bounds default to the associate band.",
		},
		{
			Name:        dispatch.OpLisansDetails,
			Description: "Fetch the full atlas detail sections for one bachelor program by YÖP code and year: quotas, base scores, rankings, geography.",
		},
		{
			Name:        dispatch.OpOnlisansDetails,
			Description: "Fetch the full atlas detail sections for one associate degree program by YÖP code and year.",
		},
	}
}

// registerTools registers all five bridge operations with the MCP server.
func (s *Server) registerTools() {
	s.logger.Debug("registering MCP tools")

	for _, info := range s.ListTools() {
		tool := &mcp.Tool{Name: info.Name, Description: info.Description}
		switch info.Name {
		case dispatch.OpHealthCheck:
			mcp.AddTool(s.mcp, tool, s.healthHandler)
		case dispatch.OpSearchLisans, dispatch.OpSearchOnlisans:
			mcp.AddTool(s.mcp, tool, s.searchHandler(info.Name))
		default:
			mcp.AddTool(s.mcp, tool, s.detailsHandler(info.Name))
		}
		s.logger.Debug("registered tool", slog.String("name", info.Name))
	}

	s.logger.Info("MCP tools registered", slog.Int("count", len(s.ListTools())))
}

// healthHandler is the MCP SDK handler for the health_check tool.
func (s *Server) healthHandler(ctx context.Context, _ *mcp.CallToolRequest, _ HealthCheckArgs) (
	*mcp.CallToolResult,
	any,
	error,
) {
	return toolResult(s.dispatcher.Dispatch(ctx, dispatch.OpHealthCheck, nil))
}

// searchHandler builds the MCP SDK handler for one of the search tools.
func (s *Server) searchHandler(op string) func(context.Context, *mcp.CallToolRequest, SearchArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
		return toolResult(s.dispatcher.Dispatch(ctx, op, args.params()))
	}
}

// detailsHandler builds the MCP SDK handler for one of the atlas detail tools.
func (s *Server) detailsHandler(op string) func(context.Context, *mcp.CallToolRequest, DetailsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args DetailsArgs) (*mcp.CallToolResult, any, error) {
		return toolResult(s.dispatcher.Dispatch(ctx, op, args.params()))
	}
}

// toolResult serializes a dispatch payload into tool text content, the same
// JSON document the one-shot invocation prints.
func toolResult(payload any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
	return res, nil, nil
}

// Serve runs the server over stdio until the context is canceled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}
