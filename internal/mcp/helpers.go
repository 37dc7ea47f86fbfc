package mcpserver

import (
	"encoding/json"
	"strings"

	"canvas/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func hasNumber(args map[string]any, key string) bool {
	_, ok := args[key].(float64)
	return ok
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func boolPtr(v bool) *bool { return &v }

// componentSummary is the compact view of a component returned to agents.
type componentSummary struct {
	ID            string  `json:"id"`
	Type          string  `json:"type,omitempty"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Rotation      float64 `json:"rotation,omitempty"`
	Locked        bool    `json:"locked,omitempty"`
	Hidden        bool    `json:"hidden,omitempty"`
	Z             int     `json:"z"`
	Selected      bool    `json:"selected,omitempty"`
	Background    string  `json:"backgroundColor,omitempty"`
	PropsAttached bool    `json:"hasProps,omitempty"`
}

func summarize(cs []domain.Component, selectedID string) []componentSummary {
	out := make([]componentSummary, len(cs))
	for i, c := range cs {
		out[i] = componentSummary{
			ID:            c.ID,
			Type:          c.ComponentType,
			X:             c.X,
			Y:             c.Y,
			Width:         c.Width,
			Height:        c.Height,
			Rotation:      c.Rotation,
			Locked:        c.Locked,
			Hidden:        c.Hidden,
			Z:             i,
			Selected:      c.ID == selectedID,
			Background:    c.BackgroundColor,
			PropsAttached: len(c.ComponentProps) > 0,
		}
	}
	return out
}
