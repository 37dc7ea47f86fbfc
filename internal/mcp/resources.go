package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"canvas/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	documentsURI     = "canvas://documents"
	documentPrefix   = "canvas://document/"
	componentsSuffix = "/components"
)

func (s *Server) registerResources() {
	// ── canvas://documents ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentsURI,
		"All Documents",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentsResource)

	// ── canvas://document/{documentId}/components ──────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			documentPrefix+"{documentId}"+componentsSuffix,
			"Components of a Document",
		),
		s.handleDocumentComponentsResource,
	)
}

func (s *Server) handleDocumentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs, err := s.documentSummaries()
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(docs, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      documentsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDocumentComponentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	docID := documentIDFromURI(uri)
	if docID == "" {
		return nil, fmt.Errorf("could not extract documentId from URI: %s", uri)
	}

	var summaries []componentSummary
	err := s.docs.With(ctx, docID, func(w *service.Workspace) error {
		summaries = summarize(w.Editor.Components(), w.Editor.SelectedID())
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// documentIDFromURI extracts the id from "canvas://document/{id}/components".
func documentIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, documentPrefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, componentsSuffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
