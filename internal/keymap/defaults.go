package keymap

import (
	"fmt"

	"canvas/internal/domain"
	"canvas/internal/interaction"
)

// Default returns the standard shortcut table.
func Default() *Keymap {
	k := &Keymap{}
	add := func(b Binding) { k.bindings = append(k.bindings, b) }

	deleteSelected := func(t Target) error { return t.Editor.DeleteSelected() }
	add(Binding{Action: ActionDelete, Key: "Delete", Description: "Delete selected component", run: deleteSelected})
	add(Binding{Action: ActionDelete, Key: "Backspace", Description: "Delete selected component", run: deleteSelected})
	add(Binding{Action: ActionEscape, Key: "Escape", Description: "Cancel gesture or clear selection", run: escape})

	add(Binding{Action: ActionUndo, Key: "z", Ctrl: true, Description: "Undo", run: func(t Target) error { return t.Editor.Undo() }})
	redo := func(t Target) error { return t.Editor.Redo() }
	add(Binding{Action: ActionRedo, Key: "y", Ctrl: true, Description: "Redo", run: redo})
	add(Binding{Action: ActionRedo, Key: "z", Ctrl: true, Shift: true, Description: "Redo", run: redo})

	steps := []struct {
		ctrl, shift bool
		step        float64
	}{
		{false, false, 1},
		{false, true, 10},
		{true, false, 0.1},
		{true, true, 1},
	}
	arrows := []struct {
		key    string
		dx, dy float64
	}{
		{"ArrowUp", 0, -1},
		{"ArrowDown", 0, 1},
		{"ArrowLeft", -1, 0},
		{"ArrowRight", 1, 0},
	}
	for _, s := range steps {
		for _, a := range arrows {
			dx, dy := a.dx*s.step, a.dy*s.step
			add(Binding{
				Action:      ActionNudge,
				Key:         a.key,
				Ctrl:        s.ctrl,
				Shift:       s.shift,
				Description: fmt.Sprintf("Move component by %gpx", s.step),
				run:         func(t Target) error { return t.Editor.Nudge(dx, dy) },
			})
		}
	}

	add(Binding{Action: ActionRotate, Key: "r", Ctrl: true, Description: "Rotate component by 5 degrees",
		run: func(t Target) error { return t.Editor.Rotate(5) }})
	add(Binding{Action: ActionRotate, Key: "r", Ctrl: true, Shift: true, Description: "Rotate component by -5 degrees",
		run: func(t Target) error { return t.Editor.Rotate(-5) }})
	add(Binding{Action: ActionResetRotation, Key: "r", Ctrl: true, Alt: true, Description: "Reset component rotation",
		run: func(t Target) error { return t.Editor.ResetRotation() }})

	add(Binding{Action: ActionToggleLock, Key: "l", Ctrl: true, Description: "Toggle component lock",
		run: func(t Target) error { return t.Editor.ToggleLock() }})
	add(Binding{Action: ActionToggleHidden, Key: "h", Ctrl: true, Description: "Toggle component visibility",
		run: func(t Target) error { return t.Editor.ToggleHidden() }})

	add(Binding{Action: ActionCopy, Key: "c", Ctrl: true, Description: "Copy component",
		run: func(t Target) error { return t.Editor.Copy() }})
	add(Binding{Action: ActionCut, Key: "x", Ctrl: true, Description: "Cut component",
		run: func(t Target) error { return t.Editor.Cut() }})
	add(Binding{Action: ActionPaste, Key: "v", Ctrl: true, Description: "Paste component",
		run: func(t Target) error {
			_, err := t.Editor.Paste()
			return err
		}})
	add(Binding{Action: ActionDuplicate, Key: "d", Ctrl: true, Description: "Duplicate component",
		run: func(t Target) error {
			_, err := t.Editor.Duplicate()
			return err
		}})

	add(Binding{Action: ActionZoomIn, Key: "=", Ctrl: true, Description: "Zoom in", run: zoom(true)})
	add(Binding{Action: ActionZoomIn, Key: "+", Ctrl: true, anyShift: true, Description: "Zoom in", run: zoom(true)})
	add(Binding{Action: ActionZoomOut, Key: "-", Ctrl: true, Description: "Zoom out", run: zoom(false)})
	add(Binding{Action: ActionResetViewport, Key: "0", Ctrl: true, Description: "Reset zoom and pan",
		run: func(t Target) error {
			if t.Viewport != nil {
				t.Viewport.Reset()
			}
			return nil
		}})

	add(Binding{Action: ActionShowHelp, Key: "?", anyShift: true, Description: "Show shortcuts"})
	return k
}

func escape(t Target) error {
	if t.Session != nil && t.Session.State() != interaction.Idle {
		t.Session.Cancel()
		return nil
	}
	t.Editor.ClearSelection()
	return nil
}

func zoom(in bool) func(Target) error {
	return func(t Target) error {
		if t.Viewport == nil {
			return nil
		}
		if in {
			t.Viewport.ZoomIn(domain.Point{})
		} else {
			t.Viewport.ZoomOut(domain.Point{})
		}
		return nil
	}
}
