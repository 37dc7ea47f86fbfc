package mcpserver

import (
	"context"
	"fmt"

	"canvas/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change to a document's components"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleRedo)
}

type historyResult struct {
	Components int  `json:"components"`
	CanUndo    bool `json:"canUndo"`
	CanRedo    bool `json:"canRedo"`
}

func (s *Server) step(ctx context.Context, req mcp.CallToolRequest, op string, fn func(*service.Workspace) error) (*mcp.CallToolResult, error) {
	var res historyResult
	err := s.edit(ctx, req.GetArguments(), func(w *service.Workspace) error {
		if err := fn(w); err != nil {
			return err
		}
		res = historyResult{
			Components: w.Editor.Len(),
			CanUndo:    w.Editor.CanUndo(),
			CanRedo:    w.Editor.CanRedo(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jsonResult(res)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(ctx, req, "undo", func(w *service.Workspace) error { return w.Editor.Undo() })
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(ctx, req, "redo", func(w *service.Workspace) error { return w.Editor.Redo() })
}
