package editor

import (
	"fmt"
	"math"

	"canvas/internal/domain"
)

// Editing commands bound to keyboard shortcuts. Each one acts on the current
// selection and goes through the recorded operations.

func (e *Editor) selected() (domain.Component, error) {
	c, ok := e.Selected()
	if !ok {
		return domain.Component{}, domain.ErrNoSelection
	}
	return c, nil
}

// Nudge moves the selected component by (dx, dy) document units.
func (e *Editor) Nudge(dx, dy float64) error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	if c.Locked {
		return fmt.Errorf("nudge %s: %w", c.ID, domain.ErrComponentLocked)
	}
	c.X += dx
	c.Y += dy
	return e.Update(c)
}

// Rotate turns the selected component by deg degrees, kept within (-360, 360).
func (e *Editor) Rotate(deg float64) error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	if c.Locked {
		return fmt.Errorf("rotate %s: %w", c.ID, domain.ErrComponentLocked)
	}
	c.Rotation = math.Mod(c.Rotation+deg, 360)
	return e.Update(c)
}

func (e *Editor) ResetRotation() error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	if c.Rotation == 0 {
		return nil
	}
	c.Rotation = 0
	return e.Update(c)
}

func (e *Editor) ToggleLock() error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	c.Locked = !c.Locked
	return e.Update(c)
}

func (e *Editor) ToggleHidden() error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	c.Hidden = !c.Hidden
	return e.Update(c)
}

func (e *Editor) DeleteSelected() error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	return e.Remove(c.ID)
}

// Duplicate adds an offset copy of the selection and selects it.
func (e *Editor) Duplicate() (domain.Component, error) {
	c, err := e.selected()
	if err != nil {
		return domain.Component{}, err
	}
	return e.addCopy(c, e.pasteOffset)
}

// Copy puts the selected component on the editor clipboard.
func (e *Editor) Copy() error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	e.clipboard = &c
	e.pasteCount = 0
	return nil
}

// Cut copies the selection and removes it.
func (e *Editor) Cut() error {
	if err := e.Copy(); err != nil {
		return err
	}
	return e.Remove(e.clipboard.ID)
}

// Paste adds a copy of the clipboard. Repeated pastes cascade by the paste
// offset so copies do not stack exactly on top of each other.
func (e *Editor) Paste() (domain.Component, error) {
	if e.clipboard == nil {
		return domain.Component{}, domain.ErrClipboardEmpty
	}
	e.pasteCount++
	return e.addCopy(*e.clipboard, e.pasteOffset*float64(e.pasteCount))
}

func (e *Editor) addCopy(src domain.Component, offset float64) (domain.Component, error) {
	c := src.Clone()
	c.ID = e.newID()
	c.X += offset
	c.Y += offset
	if err := e.Add(c); err != nil {
		return domain.Component{}, err
	}
	if err := e.Select(c.ID); err != nil {
		return domain.Component{}, err
	}
	return c, nil
}

// Edge names where Align places the selected component inside an area.
type Edge string

const (
	AlignLeft   Edge = "left"
	AlignCenter Edge = "center"
	AlignRight  Edge = "right"
	AlignTop    Edge = "top"
	AlignMiddle Edge = "middle"
	AlignBottom Edge = "bottom"
)

// Align moves the selected component against an edge or onto a center line
// of area, given in document space. Only the aligned axis changes.
func (e *Editor) Align(edge Edge, area domain.Rect) error {
	c, err := e.selected()
	if err != nil {
		return err
	}
	if c.Locked {
		return fmt.Errorf("align %s: %w", c.ID, domain.ErrComponentLocked)
	}
	x, y := c.X, c.Y
	switch edge {
	case AlignLeft:
		x = area.X
	case AlignCenter:
		x = area.X + (area.Width-c.Width)/2
	case AlignRight:
		x = area.X + area.Width - c.Width
	case AlignTop:
		y = area.Y
	case AlignMiddle:
		y = area.Y + (area.Height-c.Height)/2
	case AlignBottom:
		y = area.Y + area.Height - c.Height
	default:
		return fmt.Errorf("align %s: unknown edge %q", c.ID, edge)
	}
	if x == c.X && y == c.Y {
		return nil
	}
	c.X, c.Y = x, y
	return e.Update(c)
}
