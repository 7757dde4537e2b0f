package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

func (s *Server) handleCanonicalize(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doc, ok := args["document"]
	if !ok {
		return errorResult("missing required argument: document"), nil
	}

	var res canon.Result
	if forced, _ := args["source_format"].(string); forced != "" {
		format, err := canon.ParseSourceFormat(forced)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		res = s.canon.CanonicalizeAs(doc, format)
	} else {
		res = s.canon.Canonicalize(doc)
	}

	s.logger.Info("canonicalized tool",
		"tool", res.Tool.Name,
		"format", res.SourceFormatDetected,
		"warnings", len(res.Warnings))

	return jsonResult(res)
}

func (s *Server) handleDetect(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doc, ok := args["document"]
	if !ok {
		return errorResult("missing required argument: document"), nil
	}

	detector := s.canon.Detector()
	return jsonResult(map[string]any{
		"detected":   detector.Detect(doc),
		"confidence": detector.Confidence(doc),
	})
}

func (s *Server) handleEmit(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	toolArg, ok := args["tool"].(map[string]any)
	if !ok {
		return errorResult("missing or invalid argument: tool"), nil
	}
	target, _ := args["target"].(string)
	if target == "" {
		return errorResult("missing required argument: target"), nil
	}

	raw, err := json.Marshal(toolArg)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid tool: %v", err)), nil
	}
	tool, err := canon.DecodeTool(raw)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	out, err := canon.Emit(tool, target)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(out)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return errorResult("registry not configured"), nil
	}

	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return errorResult("missing required argument: query"), nil
	}

	limit := 10
	if n, ok := args["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	tools, err := s.store.SearchName(ctx, query, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(tools)
}

// jsonResult marshals v into a single text content block.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: string(raw)},
		},
	}, nil
}

// errorResult reports caller misuse as a tool error, not a protocol error.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
	}
}
