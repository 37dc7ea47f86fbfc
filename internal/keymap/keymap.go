// Package keymap maps keyboard shortcuts to editor commands.
package keymap

import (
	"errors"
	"fmt"
	"strings"

	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/interaction"
	"canvas/internal/viewport"
)

type Action string

const (
	ActionDelete        Action = "delete"
	ActionEscape        Action = "escape"
	ActionUndo          Action = "undo"
	ActionRedo          Action = "redo"
	ActionNudge         Action = "nudge"
	ActionRotate        Action = "rotate"
	ActionResetRotation Action = "reset-rotation"
	ActionToggleLock    Action = "toggle-lock"
	ActionToggleHidden  Action = "toggle-hidden"
	ActionCopy          Action = "copy"
	ActionCut           Action = "cut"
	ActionPaste         Action = "paste"
	ActionDuplicate     Action = "duplicate"
	ActionZoomIn        Action = "zoom-in"
	ActionZoomOut       Action = "zoom-out"
	ActionResetViewport Action = "reset-viewport"
	ActionShowHelp      Action = "show-help"
)

// KeyEvent mirrors the DOM KeyboardEvent fields the keymap looks at.
type KeyEvent struct {
	Key      string `json:"key"`
	Ctrl     bool   `json:"ctrl,omitempty"`
	Shift    bool   `json:"shift,omitempty"`
	Alt      bool   `json:"alt,omitempty"`
	Meta     bool   `json:"meta,omitempty"`
	Editable bool   `json:"editable,omitempty"` // focus is in an input or textarea
}

// Target is what a binding acts on. Viewport and Session may be nil, in
// which case bindings that need them do nothing.
type Target struct {
	Editor   *editor.Editor
	Viewport *viewport.Viewport
	Session  *interaction.Session
}

type Binding struct {
	Action      Action `json:"action"`
	Key         string `json:"key"`
	Ctrl        bool   `json:"ctrl,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	Alt         bool   `json:"alt,omitempty"`
	Description string `json:"description"`

	anyShift bool
	run      func(Target) error
}

func (b Binding) matches(ev KeyEvent) bool {
	if !strings.EqualFold(ev.Key, b.Key) {
		return false
	}
	if b.Ctrl != (ev.Ctrl || ev.Meta) || b.Alt != ev.Alt {
		return false
	}
	return b.anyShift || b.Shift == ev.Shift
}

type Keymap struct {
	bindings []Binding
}

// Bindings returns the table in match order.
func (k *Keymap) Bindings() []Binding {
	return append([]Binding(nil), k.bindings...)
}

// Dispatch runs the first binding matching ev. It reports the binding that
// fired, or false when nothing matched.
func (k *Keymap) Dispatch(t Target, ev KeyEvent) (Binding, bool, error) {
	if ev.Editable {
		return Binding{}, false, nil
	}
	for _, b := range k.bindings {
		if !b.matches(ev) {
			continue
		}
		if b.run == nil {
			return b, true, nil
		}
		if err := b.run(t); err != nil {
			return b, true, fmt.Errorf("%s: %w", b.Action, err)
		}
		return b, true, nil
	}
	return Binding{}, false, nil
}

// IsNoop reports whether err only means the shortcut had nothing to act on.
func IsNoop(err error) bool {
	return errors.Is(err, domain.ErrNoSelection) ||
		errors.Is(err, domain.ErrNothingToUndo) ||
		errors.Is(err, domain.ErrNothingToRedo) ||
		errors.Is(err, domain.ErrClipboardEmpty) ||
		errors.Is(err, domain.ErrComponentLocked)
}
