package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"canvas/internal/domain"
	"canvas/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerComponentTools() {
	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List the components of a document in z-order, bottom first"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleListComponents)

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Add a component on top of the canvas. Position is auto-calculated if not provided."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentType", mcp.Description("Kind of component, e.g. button, card, text (optional)")),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (default 200)")),
		mcp.WithNumber("height", mcp.Description("Height (default 100)")),
		mcp.WithString("backgroundColor", mcp.Description("CSS color (optional)")),
		mcp.WithString("props", mcp.Description("JSON object of component properties (optional)")),
	), s.handleAddComponent)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Patch a component with a JSON object of fields, e.g. {\"opacity\":0.5,\"border\":{\"width\":2}}. The id cannot change."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("patch", mcp.Description("JSON object of fields to change"), mcp.Required()),
	), s.handleUpdateComponent)

	// ── move_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Move a component to a new position. Locked components are rejected."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveComponent)

	// ── resize_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_component",
		mcp.WithDescription("Resize a component. Locked components are rejected."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeComponent)

	// ── remove_component (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component. Can be reverted with undo."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID to remove"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveComponent)

	// ── select_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_component",
		mcp.WithDescription("Select a component. An empty componentId clears the selection."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID")),
	), s.handleSelectComponent)

	// ── reorder_components ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_components",
		mcp.WithDescription("Set the z-order of all components, bottom first. Must list every component exactly once."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentIds", mcp.Description("Comma-separated component IDs"), mcp.Required()),
	), s.handleReorderComponents)

	// ── bring_to_front / send_to_back ──────────────────
	s.mcp.AddTool(mcp.NewTool("bring_to_front",
		mcp.WithDescription("Move a component above all others"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
	), s.handleBringToFront)

	s.mcp.AddTool(mcp.NewTool("send_to_back",
		mcp.WithDescription("Move a component below all others"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
	), s.handleSendToBack)

	// ── arrange_components ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_components",
		mcp.WithDescription("Arrange components in grid rows as one undoable step. Locked components keep their place."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("componentIds", mcp.Description("Comma-separated component IDs (optional, defaults to all)")),
		mcp.WithNumber("startX", mcp.Description("Starting X position (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Starting Y position (default 0)")),
	), s.handleArrangeComponents)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := s.resolveDocID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	var out []componentSummary
	err = s.docs.With(ctx, docID, func(w *service.Workspace) error {
		out = summarize(w.Editor.Components(), w.Editor.SelectedID())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return jsonResult(out)
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	c := domain.NewComponent(uuid.NewString())
	c.ComponentType = req.GetString("componentType", "")
	c.Width = getFloat(args, "width", c.Width)
	c.Height = getFloat(args, "height", c.Height)
	if bg := req.GetString("backgroundColor", ""); bg != "" {
		c.BackgroundColor = bg
	}
	if props := req.GetString("props", ""); props != "" {
		if err := parseJSON(props, &c.ComponentProps); err != nil {
			return nil, fmt.Errorf("invalid props JSON: %w", err)
		}
	}

	err := s.edit(ctx, args, func(w *service.Workspace) error {
		if hasNumber(args, "x") && hasNumber(args, "y") {
			c.X, c.Y = getFloat(args, "x", 0), getFloat(args, "y", 0)
		} else {
			c.X, c.Y = s.layout.NextPosition(w.Editor.Components(), c.Width, c.Height)
		}
		return w.Editor.Add(c)
	})
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	return jsonResult(c)
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	patch := req.GetString("patch", "")
	if patch == "" {
		return nil, fmt.Errorf("patch is required")
	}
	var updated domain.Component
	err := s.edit(ctx, args, func(w *service.Workspace) error {
		c, err := componentForTool(w, args)
		if err != nil {
			return err
		}
		id := c.ID
		if err := parseJSON(patch, &c); err != nil {
			return fmt.Errorf("invalid patch JSON: %w", err)
		}
		c.ID = id
		updated = c
		return w.Editor.Update(c)
	})
	if err != nil {
		return nil, fmt.Errorf("update component: %w", err)
	}
	return jsonResult(updated)
}

// unlocked rejects geometry changes to a locked component, matching what
// pointer gestures and nudges do.
func unlocked(c domain.Component) error {
	if c.Locked {
		return fmt.Errorf("%s: %w", c.ID, domain.ErrComponentLocked)
	}
	return nil
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if !hasNumber(args, "x") || !hasNumber(args, "y") {
		return nil, fmt.Errorf("x and y are required")
	}
	var moved domain.Component
	err := s.edit(ctx, args, func(w *service.Workspace) error {
		c, err := componentForTool(w, args)
		if err != nil {
			return err
		}
		if err := unlocked(c); err != nil {
			return err
		}
		c.X, c.Y = getFloat(args, "x", c.X), getFloat(args, "y", c.Y)
		moved = c
		return w.Editor.Update(c)
	})
	if err != nil {
		return nil, fmt.Errorf("move component: %w", err)
	}
	return textResult(fmt.Sprintf("Moved %s to (%.0f, %.0f)", moved.ID, moved.X, moved.Y)), nil
}

func (s *Server) handleResizeComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if !hasNumber(args, "width") || !hasNumber(args, "height") {
		return nil, fmt.Errorf("width and height are required")
	}
	var resized domain.Component
	err := s.edit(ctx, args, func(w *service.Workspace) error {
		c, err := componentForTool(w, args)
		if err != nil {
			return err
		}
		if err := unlocked(c); err != nil {
			return err
		}
		c.Width, c.Height = getFloat(args, "width", c.Width), getFloat(args, "height", c.Height)
		resized = c
		return w.Editor.Update(c)
	})
	if err != nil {
		return nil, fmt.Errorf("resize component: %w", err)
	}
	return textResult(fmt.Sprintf("Resized %s to %.0fx%.0f", resized.ID, resized.Width, resized.Height)), nil
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	err := s.edit(ctx, req.GetArguments(), func(w *service.Workspace) error {
		return w.Editor.Remove(id)
	})
	if err != nil {
		return nil, fmt.Errorf("remove component: %w", err)
	}
	return textResult(fmt.Sprintf("Removed %s", id)), nil
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	err := s.edit(ctx, req.GetArguments(), func(w *service.Workspace) error {
		return w.Editor.Select(id)
	})
	if err != nil {
		return nil, fmt.Errorf("select component: %w", err)
	}
	if id == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Selected %s", id)), nil
}

func (s *Server) handleReorderComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("componentIds", ""))
	err := s.edit(ctx, req.GetArguments(), func(w *service.Workspace) error {
		return w.Editor.Reorder(ids)
	})
	if err != nil {
		return nil, fmt.Errorf("reorder components: %w", err)
	}
	return textResult(fmt.Sprintf("Reordered %d components", len(ids))), nil
}

func (s *Server) handleBringToFront(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.layer(ctx, req, "bring to front", func(w *service.Workspace, id string) error {
		return w.Editor.BringToFront(id)
	})
}

func (s *Server) handleSendToBack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.layer(ctx, req, "send to back", func(w *service.Workspace, id string) error {
		return w.Editor.SendToBack(id)
	})
}

func (s *Server) layer(ctx context.Context, req mcp.CallToolRequest, op string, fn func(*service.Workspace, string) error) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	var order []string
	err := s.edit(ctx, req.GetArguments(), func(w *service.Workspace) error {
		if err := fn(w, id); err != nil {
			return err
		}
		for _, c := range w.Editor.Components() {
			order = append(order, c.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jsonResult(order)
}

func (s *Server) handleArrangeComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	only := splitIDs(req.GetString("componentIds", ""))

	var arranged []domain.Component
	err := s.edit(ctx, args, func(w *service.Workspace) error {
		var group []domain.Component
		if len(only) == 0 {
			for _, c := range w.Editor.Components() {
				if !c.Locked {
					group = append(group, c)
				}
			}
		} else {
			for _, id := range only {
				c, ok := w.Editor.Component(id)
				if !ok {
					return fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
				}
				if !c.Locked {
					group = append(group, c)
				}
			}
		}
		arranged = s.layout.ArrangeGroup(group, getFloat(args, "startX", 0), getFloat(args, "startY", 0))
		return w.Editor.UpdateMany(arranged)
	})
	if err != nil {
		return nil, fmt.Errorf("arrange components: %w", err)
	}
	return jsonResult(summarize(arranged, ""))
}
