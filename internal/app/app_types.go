package app

import (
	"canvas/internal/domain"
	"canvas/internal/service"
)

// ViewState is everything the frontend needs to render a document, including
// the in-flight gesture.
type ViewState struct {
	domain.DocumentState
	Gesture string            `json:"gesture"`
	Preview *domain.Component `json:"preview,omitempty"` // drag or resize in progress
	Box     *domain.Rect      `json:"box,omitempty"`     // selection box in document space
	BoxHits []string          `json:"boxHits,omitempty"`
}

func viewState(w *service.Workspace) ViewState {
	v := ViewState{
		DocumentState: w.State(),
		Gesture:       w.Session.State().String(),
	}
	if p, ok := w.Session.Preview(); ok {
		v.Preview = &p
	}
	if b, ok := w.Session.Box(); ok {
		v.Box = &b
		v.BoxHits = w.Session.BoxHits()
	}
	return v
}

// KeyResult reports what a key press did.
type KeyResult struct {
	Handled bool      `json:"handled"`
	Action  string    `json:"action,omitempty"`
	Error   string    `json:"error,omitempty"` // rejected command, e.g. a locked component
	View    ViewState `json:"view"`
}

// ShortcutView is one row of the shortcut help overlay.
type ShortcutView struct {
	Action      string `json:"action"`
	Key         string `json:"key"`
	Ctrl        bool   `json:"ctrl,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	Alt         bool   `json:"alt,omitempty"`
	Description string `json:"description"`
}

// EditorSettings is the part of the config the frontend renders with.
type EditorSettings struct {
	MinZoom    float64 `json:"minZoom"`
	MaxZoom    float64 `json:"maxZoom"`
	SnapToGrid bool    `json:"snapToGrid"`
	GridSize   float64 `json:"gridSize"`
	MinSize    float64 `json:"minSize"`
}
