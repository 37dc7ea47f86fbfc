package mcpserver

import (
	"context"
	"fmt"
	"time"

	"canvas/internal/domain"
	"canvas/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDocumentTools() {
	// ── list_documents ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all canvas documents, most recently edited first"),
	), s.handleListDocuments)

	// ── create_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new empty document and make it the active document"),
		mcp.WithString("name", mcp.Description("Document name (optional)")),
	), s.handleCreateDocument)

	// ── open_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a document and make it active. Tools that accept documentId default to it."),
		mcp.WithString("documentId",
			mcp.Description("ID of the document to open"),
			mcp.Required(),
		),
	), s.handleOpenDocument)

	// ── set_viewport ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_viewport",
		mcp.WithDescription("Set the pan and zoom of a document. Zoom is clamped to the configured range. With componentId the view is centered on that component instead."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithNumber("panX", mcp.Description("Horizontal pan in document units")),
		mcp.WithNumber("panY", mcp.Description("Vertical pan in document units")),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor")),
		mcp.WithString("componentId", mcp.Description("Center on this component (optional)")),
		mcp.WithNumber("surfaceWidth", mcp.Description("Visible surface width in pixels, used with componentId (default 1280)")),
		mcp.WithNumber("surfaceHeight", mcp.Description("Visible surface height in pixels, used with componentId (default 800)")),
	), s.handleSetViewport)
}

type documentSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Zoom      float64 `json:"zoom"`
	UpdatedAt string  `json:"updatedAt"`
	Active    bool    `json:"active,omitempty"`
}

func (s *Server) documentSummaries() ([]documentSummary, error) {
	docs, err := s.docs.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	active := s.ActiveDocument()
	out := make([]documentSummary, len(docs))
	for i, d := range docs {
		out[i] = documentSummary{
			ID:        d.ID,
			Name:      d.Name,
			Zoom:      d.Viewport.Zoom,
			UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
			Active:    d.ID == active,
		}
	}
	return out, nil
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.documentSummaries()
	if err != nil {
		return nil, err
	}
	return jsonResult(docs)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.docs.CreateDocument(ctx, req.GetString("name", ""))
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	// Auto-set as active document
	s.setActive(ctx, doc.ID)
	return jsonResult(doc)
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID := req.GetString("documentId", "")
	if docID == "" {
		return nil, fmt.Errorf("documentId is required")
	}
	var state domain.DocumentState
	err := s.docs.With(ctx, docID, func(w *service.Workspace) error {
		state = w.State()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	s.setActive(ctx, docID)
	return textResult(fmt.Sprintf("Active document set to %q (%s), %d components", state.Document.Name, docID, len(state.Components))), nil
}

func (s *Server) handleSetViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var vs domain.ViewportState
	err := s.edit(ctx, args, func(w *service.Workspace) error {
		if id, _ := args["componentId"].(string); id != "" {
			c, err := componentForTool(w, args)
			if err != nil {
				return err
			}
			w.Viewport.CenterOn(c.Rect(), getFloat(args, "surfaceWidth", 1280), getFloat(args, "surfaceHeight", 800))
			vs = w.Viewport.State()
			return nil
		}
		cur := w.Viewport.State()
		w.Viewport.SetState(domain.ViewportState{
			PanX: getFloat(args, "panX", cur.PanX),
			PanY: getFloat(args, "panY", cur.PanY),
			Zoom: getFloat(args, "zoom", cur.Zoom),
		})
		vs = w.Viewport.State()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	return jsonResult(vs)
}
