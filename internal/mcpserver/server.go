// Package mcpserver exposes the canonicalization engine and the tool
// registry over MCP stdio so agents can call them as tools.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// Server wraps an MCP stdio server with the toolcanon tool set.
type Server struct {
	logger *slog.Logger
	canon  *canon.Canonicalizer
	store  *registry.Store
	mcp    *server.MCPServer
}

// New constructs the server. The store may be nil; search_registry then
// reports an error result instead of failing the server.
func New(version string, store *registry.Store, logger *slog.Logger) *Server {
	s := &Server{
		logger: logger,
		canon:  canon.NewCanonicalizer(),
		store:  store,
	}

	m := server.NewMCPServer("toolcanon", version,
		server.WithToolCapabilities(true),
	)
	s.register(m)
	s.mcp = m

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server starting on stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) register(m *server.MCPServer) {
	m.AddTool(mcp.Tool{
		Name:        "canonicalize_tool",
		Description: "Normalize a provider-specific tool definition (OpenAI, Anthropic, MCP, LangChain, or unknown) into the canonical representation with inferred capability metadata.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"document": map[string]any{
					"type":        "object",
					"description": "The tool definition to canonicalize.",
				},
				"source_format": map[string]any{
					"type":        "string",
					"description": "Force a source format instead of auto-detecting (openai, anthropic, mcp, langchain, raw).",
				},
			},
			Required: []string{"document"},
		},
	}, s.handleCanonicalize)

	m.AddTool(mcp.Tool{
		Name:        "detect_format",
		Description: "Report which provider format a tool definition matches and the confidence score for every format.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"document": map[string]any{
					"type":        "object",
					"description": "The tool definition to inspect.",
				},
			},
			Required: []string{"document"},
		},
	}, s.handleDetect)

	m.AddTool(mcp.Tool{
		Name:        "emit_tool",
		Description: "Convert a canonical tool into a provider format (openai, anthropic, mcp, json-schema).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"tool": map[string]any{
					"type":        "object",
					"description": "The canonical tool to convert.",
				},
				"target": map[string]any{
					"type":        "string",
					"description": "Target format: openai, anthropic, mcp, or json-schema.",
				},
			},
			Required: []string{"tool", "target"},
		},
	}, s.handleEmit)

	m.AddTool(mcp.Tool{
		Name:        "search_registry",
		Description: "Full-text search over the names and descriptions of tools stored in the registry.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query.",
				},
				"limit": map[string]any{
					"type":        "number",
					"description": "Maximum number of results (default 10).",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)
}
