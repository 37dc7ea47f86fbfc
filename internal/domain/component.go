package domain

import (
	"fmt"
	"math"
)

type BorderStyle string

const (
	BorderStyleSolid  BorderStyle = "solid"
	BorderStyleDashed BorderStyle = "dashed"
	BorderStyleDotted BorderStyle = "dotted"
)

type Border struct {
	Width float64     `json:"width"`
	Color string      `json:"color"`
	Style BorderStyle `json:"style"`
}

type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Component is one placed element on the canvas. Position and size are in
// document space.
type Component struct {
	ID              string         `json:"id"`
	X               float64        `json:"x"`
	Y               float64        `json:"y"`
	Width           float64        `json:"width"`
	Height          float64        `json:"height"`
	Rotation        float64        `json:"rotation"` // degrees
	BackgroundColor string         `json:"backgroundColor"`
	BorderRadius    float64        `json:"borderRadius"`
	Opacity         float64        `json:"opacity"`
	Locked          bool           `json:"locked"`
	Hidden          bool           `json:"hidden"`
	Border          Border         `json:"border"`
	Shadow          Shadow         `json:"shadow"`
	ComponentType   string         `json:"componentType,omitempty"`
	ComponentProps  map[string]any `json:"componentProps,omitempty"`
}

// NewComponent returns a component with the editor's default styling.
func NewComponent(id string) Component {
	return Component{
		ID:              id,
		X:               100,
		Y:               100,
		Width:           200,
		Height:          100,
		BackgroundColor: "#3b82f6",
		BorderRadius:    8,
		Opacity:         1,
		Border: Border{
			Color: "#000000",
			Style: BorderStyleSolid,
		},
		Shadow: Shadow{
			Color:   "rgba(0, 0, 0, 0.2)",
			Blur:    10,
			OffsetY: 4,
		},
	}
}

// Rect returns the axis-aligned bounds of the component.
func (c Component) Rect() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Validate checks the component invariants.
func (c Component) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidComponent)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"x", c.X}, {"y", c.Y}, {"width", c.Width}, {"height", c.Height},
		{"rotation", c.Rotation}, {"opacity", c.Opacity},
		{"borderRadius", c.BorderRadius}, {"border.width", c.Border.Width},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s %s is not finite", ErrInvalidComponent, c.ID, f.name)
		}
	}
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: %s has negative size %gx%g", ErrInvalidComponent, c.ID, c.Width, c.Height)
	case c.Opacity < 0 || c.Opacity > 1:
		return fmt.Errorf("%w: %s opacity %g outside [0,1]", ErrInvalidComponent, c.ID, c.Opacity)
	case c.BorderRadius < 0:
		return fmt.Errorf("%w: %s negative border radius", ErrInvalidComponent, c.ID)
	case c.Border.Width < 0:
		return fmt.Errorf("%w: %s negative border width", ErrInvalidComponent, c.ID)
	}
	switch c.Border.Style {
	case "", BorderStyleSolid, BorderStyleDashed, BorderStyleDotted:
	default:
		return fmt.Errorf("%w: %s unknown border style %q", ErrInvalidComponent, c.ID, c.Border.Style)
	}
	return nil
}

// Clone returns a deep copy. ComponentProps is copied recursively so the
// copy never shares maps or slices with the original.
func (c Component) Clone() Component {
	out := c
	if c.ComponentProps != nil {
		out.ComponentProps = cloneMap(c.ComponentProps)
	}
	return out
}

// CloneComponents deep-copies a component list. A nil list stays nil.
func CloneComponents(cs []Component) []Component {
	if cs == nil {
		return nil
	}
	out := make([]Component, len(cs))
	for i := range cs {
		out[i] = cs[i].Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneValue(t[i])
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}
