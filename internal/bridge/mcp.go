package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ToolImportHTML is the MCP tool name producers call.
const ToolImportHTML = "import-html"

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// RegisterMCP registers the import-html tool. Each call becomes a payload
// stamped with clock and handed to pub.
func RegisterMCP(srv *mcp.Server, pub Publisher, clock Clock, log *zap.Logger) {
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("mcp")

	tool := &mcp.Tool{
		Name:        ToolImportHTML,
		Description: "Import an HTML document (with inline or <style> CSS) into the design surface as auto-layout frames and text.",
		InputSchema: inputSchema(map[string]any{
			"html": map[string]any{"type": "string", "description": "HTML document or fragment to import"},
			"name": map[string]any{"type": "string", "description": "Name of the root frame (default \"HTML Import\")"},
		}, []string{"html"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args Arguments
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		if strings.TrimSpace(args.HTML) == "" {
			return toolError(errors.New("invalid arguments: html is required")), nil
		}

		p, err := NewPayload(clock.Now(), args)
		if err != nil {
			return toolError(err), nil
		}
		if err := pub.Publish(ctx, p); err != nil {
			log.Warn("Publish failed", zap.String("request_id", p.RequestID), zap.Error(err))
			return toolError(fmt.Errorf("publish: %w", err)), nil
		}
		log.Info("Queued import", zap.String("request_id", p.RequestID), zap.Int("bytes", len(args.HTML)))

		data, err := json.Marshal(map[string]any{
			"requestId": p.RequestID,
			"timestamp": p.Timestamp,
			"status":    "queued",
		})
		if err != nil {
			return toolError(fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}
