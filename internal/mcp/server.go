package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"canvas/internal/domain"
	"canvas/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventEmitter lets the server tell the frontend which document an agent is
// working on.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// EventDocumentActivated is emitted when an agent opens or creates a document.
const EventDocumentActivated = "mcp:document-activated"

// Server is the MCP server for the canvas editor.
// It exposes tools, resources, and prompts so AI agents can edit documents.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter
	layout  *LayoutEngine
	docs    *service.DocumentService

	// Active document context (set by open_document / create_document)
	mu          sync.Mutex
	activeDocID string
}

// Deps holds the dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter   EventEmitter
	Documents *service.DocumentService
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	emitter := deps.Emitter
	if emitter == nil {
		emitter = nopEmitter{}
	}
	s := &Server{
		emitter: emitter,
		layout:  NewLayoutEngine(),
		docs:    deps.Documents,
	}

	s.mcp = server.NewMCPServer(
		"canvas-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerDocumentTools()
	s.registerComponentTools()
	s.registerHistoryTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) setActive(ctx context.Context, id string) {
	s.mu.Lock()
	s.activeDocID = id
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventDocumentActivated, map[string]string{"documentId": id})
}

// ActiveDocument returns the document tools default to.
func (s *Server) ActiveDocument() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDocID
}

// resolveDocID returns the documentId from tool args or falls back to the
// active document.
func (s *Server) resolveDocID(args map[string]any) (string, error) {
	if id, ok := args["documentId"].(string); ok && id != "" {
		return id, nil
	}
	if id := s.ActiveDocument(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no documentId provided and no active document set (use open_document first)")
}

// edit runs fn on the document's workspace and persists the result, so a
// GUI watching the same database picks the change up.
func (s *Server) edit(ctx context.Context, args map[string]any, fn func(*service.Workspace) error) error {
	docID, err := s.resolveDocID(args)
	if err != nil {
		return err
	}
	if err := s.docs.With(ctx, docID, fn); err != nil {
		return err
	}
	if err := s.docs.Save(ctx, docID); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// componentForTool looks up the componentId argument in the workspace.
func componentForTool(w *service.Workspace, args map[string]any) (domain.Component, error) {
	id, _ := args["componentId"].(string)
	if id == "" {
		return domain.Component{}, fmt.Errorf("componentId is required")
	}
	c, ok := w.Editor.Component(id)
	if !ok {
		return domain.Component{}, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}
