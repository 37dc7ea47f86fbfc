package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("wireframe",
		mcp.WithPromptDescription("Guide through laying out a screen wireframe from components"),
		mcp.WithArgument("screen",
			mcp.ArgumentDescription("What the screen is for, e.g. login page"),
			mcp.RequiredArgument(),
		),
	), s.handleWireframePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_canvas",
		mcp.WithPromptDescription("Clean up the active document: arrange overlapping components and fix the z-order"),
	), s.handleTidyPrompt)
}

func (s *Server) handleWireframePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	screen := req.Params.Arguments["screen"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Wireframe for: %s", screen),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Lay out a wireframe for "%s" on the canvas. Follow these steps:

1. Use create_document with the name "%s", or open_document if one already exists (check list_documents).
2. Add a container component first (add_component with componentType "container"), sized to hold the screen.
3. Add the inner components (header, inputs, buttons, text) with add_component, giving explicit x/y inside the container.
4. Use bring_to_front so inner components sit above the container.
5. Finish with set_viewport and componentId set to the container so the whole screen is in view.

Every step can be undone, so prefer small edits and check list_components between them.`, screen, screen),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tidy the active document",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Tidy up the active canvas document:

1. Call list_components and note components that overlap or are hidden.
2. Run arrange_components once; locked components keep their place.
3. Make sure the largest components are at the back (send_to_back) and small ones in front.
4. Report what changed. If the result looks worse, call undo.`,
				},
			},
		},
	}, nil
}
