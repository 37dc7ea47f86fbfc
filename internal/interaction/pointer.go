package interaction

import "canvas/internal/domain"

// Button follows the DOM MouseEvent.button numbering.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

// PointerEvent is a raw pointer event in surface-relative screen pixels.
// ComponentID and Handle are the renderer's hit-test result; when ComponentID
// is empty the session hit-tests the document itself.
type PointerEvent struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Button      Button  `json:"button"`
	ComponentID string  `json:"componentId,omitempty"`
	Handle      Handle  `json:"handle,omitempty"`
	Space       bool    `json:"space,omitempty"`
	Shift       bool    `json:"shift,omitempty"`
	Ctrl        bool    `json:"ctrl,omitempty"`
	Alt         bool    `json:"alt,omitempty"`
	Meta        bool    `json:"meta,omitempty"`
}

func (ev PointerEvent) Point() domain.Point { return domain.Point{X: ev.X, Y: ev.Y} }

type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Meta   bool    `json:"meta,omitempty"`
}

// PointerDown picks and starts a gesture:
//   - middle button, or any button with Space held, pans;
//   - left on a resize handle resizes;
//   - left on a component selects it and drags it unless it is locked;
//   - left on empty canvas clears the selection and starts a box select.
func (s *Session) PointerDown(ev PointerEvent) error {
	p := ev.Point()
	if ev.Button == ButtonMiddle || ev.Space {
		return s.BeginPan(p)
	}
	if ev.Button != ButtonLeft {
		return nil
	}
	if err := s.idle("pointer down"); err != nil {
		return err
	}

	c, ok := s.hit(ev)
	if !ok {
		s.ed.ClearSelection()
		return s.BeginBoxSelect(p)
	}
	if err := s.ed.Select(c.ID); err != nil {
		return err
	}
	if c.Locked {
		return nil
	}
	if ev.Handle != "" {
		return s.BeginResize(c.ID, ev.Handle, p)
	}
	return s.BeginDrag(c.ID, p)
}

func (s *Session) PointerMove(ev PointerEvent) bool {
	return s.Move(ev.Point())
}

func (s *Session) PointerUp(ev PointerEvent) (Outcome, error) {
	if s.state == Idle {
		return Outcome{Gesture: Idle}, nil
	}
	return s.End(ev.Point())
}

// Wheel zooms about the pointer or scrolls the view, depending on the
// viewport's modifier setting.
func (s *Session) Wheel(ev WheelEvent) bool {
	return s.vp.Wheel(
		domain.Point{X: ev.DeltaX, Y: ev.DeltaY},
		ev.Ctrl || ev.Meta,
		domain.Point{X: ev.X, Y: ev.Y},
	)
}

// hit resolves the component under the pointer. Hidden components never
// receive pointer input.
func (s *Session) hit(ev PointerEvent) (domain.Component, bool) {
	if ev.ComponentID != "" {
		c, ok := s.ed.Component(ev.ComponentID)
		if ok && !c.Hidden {
			return c, true
		}
	}
	return s.ed.ComponentAt(s.vp.ScreenToDocument(ev.Point()))
}
