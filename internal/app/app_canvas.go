package app

import (
	"errors"

	"github.com/google/uuid"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/interaction"
	"canvas/internal/keymap"
	"canvas/internal/service"
)

// ============================================================
// Pointer & Keyboard
// ============================================================

// gesture runs fn on the open workspace and returns the resulting view.
func (a *App) gesture(fn func(*service.Workspace) error) (ViewState, error) {
	var v ViewState
	err := a.withActive(func(w *service.Workspace) error {
		err := fn(w)
		v = viewState(w)
		return err
	})
	return v, err
}

func (a *App) PointerDown(ev interaction.PointerEvent) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Session.PointerDown(ev)
	})
}

func (a *App) PointerMove(ev interaction.PointerEvent) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		w.Session.PointerMove(ev)
		return nil
	})
}

// PointerUp ends the gesture. A finished box selection reports its hits in
// BoxHits; they are not committed as a selection.
func (a *App) PointerUp(ev interaction.PointerEvent) (ViewState, error) {
	var out interaction.Outcome
	v, err := a.gesture(func(w *service.Workspace) error {
		var err error
		out, err = w.Session.PointerUp(ev)
		return err
	})
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[PointerUp] %s: %v", out.Gesture, err)
	}
	if out.Gesture == interaction.BoxSelecting {
		v.BoxHits = out.BoxHits
	}
	return v, err
}

func (a *App) CancelGesture() (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		w.Session.Cancel()
		return nil
	})
}

func (a *App) Wheel(ev interaction.WheelEvent) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		w.Session.Wheel(ev)
		return nil
	})
}

// KeyDown dispatches a key press through the shortcut table. Rejections that
// only mean "nothing to do" are not errors.
func (a *App) KeyDown(ev keymap.KeyEvent) (KeyResult, error) {
	var res KeyResult
	err := a.withActive(func(w *service.Workspace) error {
		b, ok, err := w.Keymap.Dispatch(w.KeyTarget(), ev)
		res.Handled = ok
		if ok {
			res.Action = string(b.Action)
		}
		if err != nil {
			if !keymap.IsNoop(err) {
				return err
			}
			res.Error = err.Error()
		}
		res.View = viewState(w)
		return nil
	})
	return res, err
}

// Shortcuts lists the key bindings for the help overlay.
func (a *App) Shortcuts() []ShortcutView {
	bindings := keymap.Default().Bindings()
	out := make([]ShortcutView, len(bindings))
	for i, b := range bindings {
		out[i] = ShortcutView{
			Action:      string(b.Action),
			Key:         b.Key,
			Ctrl:        b.Ctrl,
			Shift:       b.Shift,
			Alt:         b.Alt,
			Description: b.Description,
		}
	}
	return out
}

// ============================================================
// Components
// ============================================================

// AddComponent places a new default component at (x, y) in document space
// and selects it.
func (a *App) AddComponent(componentType string, x, y float64) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		c := domain.NewComponent(uuid.NewString())
		c.ComponentType = componentType
		c.X, c.Y = x, y
		if err := w.Editor.Add(c); err != nil {
			return err
		}
		return w.Editor.Select(c.ID)
	})
}

// UpdateComponent replaces a component, e.g. from the properties panel.
func (a *App) UpdateComponent(c domain.Component) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Editor.Update(c)
	})
}

func (a *App) RemoveComponent(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Editor.Remove(id)
	})
}

func (a *App) SelectComponent(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Editor.Select(id)
	})
}

func (a *App) ReorderComponents(ids []string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Editor.Reorder(ids)
	})
}

func (a *App) BringToFront(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error { return w.Editor.BringToFront(id) })
}

func (a *App) SendToBack(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error { return w.Editor.SendToBack(id) })
}

func (a *App) BringForward(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error { return w.Editor.BringForward(id) })
}

func (a *App) SendBackward(id string) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error { return w.Editor.SendBackward(id) })
}

// AlignSelected aligns the selection within the part of the document
// currently on screen.
func (a *App) AlignSelected(edge string, surfaceW, surfaceH float64) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		return w.Editor.Align(editor.Edge(edge), w.Viewport.VisibleRect(surfaceW, surfaceH))
	})
}

// ============================================================
// History & Viewport
// ============================================================

func (a *App) Undo() (ViewState, error) {
	v, err := a.gesture(func(w *service.Workspace) error { return w.Editor.Undo() })
	if errors.Is(err, domain.ErrNothingToUndo) {
		return v, nil
	}
	return v, err
}

func (a *App) Redo() (ViewState, error) {
	v, err := a.gesture(func(w *service.Workspace) error { return w.Editor.Redo() })
	if errors.Is(err, domain.ErrNothingToRedo) {
		return v, nil
	}
	return v, err
}

// CenterOnComponent pans so the component sits in the middle of a surface
// of the given pixel size.
func (a *App) CenterOnComponent(id string, surfaceW, surfaceH float64) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		c, ok := w.Editor.Component(id)
		if !ok {
			return domain.ErrNotFound
		}
		w.Viewport.CenterOn(c.Rect(), surfaceW, surfaceH)
		return nil
	})
}

// FitToContent centers the view on the bounds of all visible components.
func (a *App) FitToContent(surfaceW, surfaceH float64) (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		if r, ok := w.Editor.Bounds(); ok {
			w.Viewport.CenterOn(r, surfaceW, surfaceH)
		}
		return nil
	})
}

func (a *App) ResetViewport() (ViewState, error) {
	return a.gesture(func(w *service.Workspace) error {
		w.Viewport.Reset()
		return nil
	})
}
