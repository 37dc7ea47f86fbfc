// Package interaction runs pointer gestures against an editor and its
// viewport. A gesture keeps its in-progress geometry locally and commits it to
// the editor with a single Update when it ends.
package interaction

import (
	"fmt"
	"math"

	"canvas/internal/diag"
	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/viewport"
)

const (
	DefaultMinSize  = 1.0
	DefaultGridSize = 20.0
)

type State int

const (
	Idle State = iota
	Dragging
	Resizing
	BoxSelecting
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case BoxSelecting:
		return "box-selecting"
	case Panning:
		return "panning"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Handle names the edge or corner a resize started from.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) has(edge byte) bool {
	for i := 0; i < len(h); i++ {
		if h[i] == edge {
			return true
		}
	}
	return false
}

type Options struct {
	MinSize    float64
	SnapToGrid bool
	GridSize   float64
	Logger     *diag.Logger
}

func (o Options) withDefaults() Options {
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.GridSize <= 0 {
		o.GridSize = DefaultGridSize
	}
	return o
}

// Outcome reports how a gesture ended.
type Outcome struct {
	Gesture   State    `json:"gesture"`
	Committed bool     `json:"committed"`
	BoxHits   []string `json:"boxHits,omitempty"`
}

// Session is the gesture state machine of one editor. Only one gesture runs
// at a time.
type Session struct {
	ed   *editor.Editor
	vp   *viewport.Viewport
	opts Options
	log  *diag.Logger

	state       State
	handle      Handle
	start       domain.Component
	current     domain.Component
	startScreen domain.Point
	lastScreen  domain.Point
	boxStart    domain.Point
	boxEnd      domain.Point
	panStart    domain.ViewportState
}

func New(ed *editor.Editor, vp *viewport.Viewport, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{ed: ed, vp: vp, opts: opts, log: opts.Logger}
}

func (s *Session) State() State     { return s.state }
func (s *Session) Options() Options { return s.opts }

func (s *Session) SetOptions(o Options) {
	if o.Logger == nil {
		o.Logger = s.opts.Logger
	}
	s.opts = o.withDefaults()
	s.log = s.opts.Logger
}

// ─────────────────────────────────────────────────────────────
// Gesture start
// ─────────────────────────────────────────────────────────────

// BeginDrag starts moving component id from the screen point p.
func (s *Session) BeginDrag(id string, p domain.Point) error {
	c, err := s.target("drag", id)
	if err != nil {
		return err
	}
	s.startComponentGesture(Dragging, c, p)
	return nil
}

// BeginResize starts resizing component id from handle h.
func (s *Session) BeginResize(id string, h Handle, p domain.Point) error {
	if !h.Valid() {
		return fmt.Errorf("resize %s: unknown handle %q", id, h)
	}
	c, err := s.target("resize", id)
	if err != nil {
		return err
	}
	s.startComponentGesture(Resizing, c, p)
	s.handle = h
	return nil
}

func (s *Session) BeginBoxSelect(p domain.Point) error {
	if err := s.idle("box select"); err != nil {
		return err
	}
	s.state = BoxSelecting
	s.boxStart = s.vp.ScreenToDocument(p)
	s.boxEnd = s.boxStart
	return nil
}

func (s *Session) BeginPan(p domain.Point) error {
	if err := s.idle("pan"); err != nil {
		return err
	}
	s.state = Panning
	s.panStart = s.vp.State()
	s.startScreen, s.lastScreen = p, p
	return nil
}

func (s *Session) idle(op string) error {
	if s.state != Idle {
		return fmt.Errorf("%s while %s: %w", op, s.state, domain.ErrGestureConflict)
	}
	return nil
}

func (s *Session) target(op, id string) (domain.Component, error) {
	if err := s.idle(op); err != nil {
		return domain.Component{}, err
	}
	c, ok := s.ed.Component(id)
	switch {
	case !ok:
		return c, fmt.Errorf("%s %s: %w", op, id, domain.ErrNotFound)
	case c.Hidden:
		return c, fmt.Errorf("%s %s: %w", op, id, domain.ErrComponentHidden)
	case c.Locked:
		return c, fmt.Errorf("%s %s: %w", op, id, domain.ErrComponentLocked)
	}
	return c, nil
}

func (s *Session) startComponentGesture(st State, c domain.Component, p domain.Point) {
	s.state = st
	s.start = c
	s.current = c.Clone()
	s.startScreen, s.lastScreen = p, p
}

// ─────────────────────────────────────────────────────────────
// Progress
// ─────────────────────────────────────────────────────────────

// Move feeds one pointer position to the active gesture. Positions must be
// given in arrival order. It reports whether anything visible changed.
func (s *Session) Move(p domain.Point) bool {
	switch s.state {
	case Dragging:
		d := s.vp.ScreenDeltaToDocument(p.Sub(s.startScreen))
		next := s.start.Clone()
		next.X = s.snap(s.start.X + d.X)
		next.Y = s.snap(s.start.Y + d.Y)
		return s.setCurrent(next)
	case Resizing:
		return s.setCurrent(s.resized(p))
	case BoxSelecting:
		end := s.vp.ScreenToDocument(p)
		changed := end != s.boxEnd
		s.boxEnd = end
		return changed
	case Panning:
		d := p.Sub(s.lastScreen)
		s.lastScreen = p
		if d.X == 0 && d.Y == 0 {
			return false
		}
		s.vp.PanBy(d.X, d.Y)
		return true
	}
	return false
}

func (s *Session) setCurrent(c domain.Component) bool {
	changed := c.Rect() != s.current.Rect()
	s.current = c
	return changed
}

func (s *Session) resized(p domain.Point) domain.Component {
	d := s.vp.ScreenDeltaToDocument(p.Sub(s.startScreen))
	r := s.start.Rect()
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	floor := s.opts.MinSize

	if s.handle.has('e') {
		x1 = math.Max(s.snap(x1+d.X), x0+floor)
	}
	if s.handle.has('w') {
		x0 = math.Min(s.snap(x0+d.X), x1-floor)
	}
	if s.handle.has('s') {
		y1 = math.Max(s.snap(y1+d.Y), y0+floor)
	}
	if s.handle.has('n') {
		y0 = math.Min(s.snap(y0+d.Y), y1-floor)
	}

	c := s.start.Clone()
	c.X, c.Y = x0, y0
	c.Width, c.Height = x1-x0, y1-y0
	return c
}

func (s *Session) snap(v float64) float64 {
	if !s.opts.SnapToGrid {
		return v
	}
	return math.Round(v/s.opts.GridSize) * s.opts.GridSize
}

// ─────────────────────────────────────────────────────────────
// Completion
// ─────────────────────────────────────────────────────────────

// End applies the final pointer position and finishes the gesture. Drag and
// resize commit one Update, or nothing when the geometry is unchanged.
func (s *Session) End(p domain.Point) (Outcome, error) {
	s.Move(p)
	out := Outcome{Gesture: s.state}
	switch s.state {
	case Dragging, Resizing:
		if s.current.Rect() != s.start.Rect() {
			if err := s.commit(); err != nil {
				s.reset()
				return out, fmt.Errorf("commit %s %s: %w", out.Gesture, s.current.ID, err)
			}
			out.Committed = true
			s.log.Debugf("[interaction] %s %s committed", out.Gesture, s.current.ID)
		}
	case BoxSelecting:
		out.BoxHits = s.BoxHits()
	}
	s.reset()
	return out, nil
}

// commit writes the gesture geometry onto the component as it is now, so
// edits made while the pointer was down survive.
func (s *Session) commit() error {
	live, ok := s.ed.Component(s.current.ID)
	switch {
	case !ok:
		return domain.ErrNotFound
	case live.Locked:
		return domain.ErrComponentLocked
	}
	live.X, live.Y = s.current.X, s.current.Y
	live.Width, live.Height = s.current.Width, s.current.Height
	return s.ed.Update(live)
}

// Cancel abandons the active gesture. Nothing is committed and a pan is
// rolled back to where it started.
func (s *Session) Cancel() {
	if s.state == Panning {
		s.vp.SetState(s.panStart)
	}
	if s.state != Idle {
		s.log.Debugf("[interaction] %s cancelled", s.state)
	}
	s.reset()
}

func (s *Session) reset() {
	s.state = Idle
	s.handle = ""
	s.start = domain.Component{}
	s.current = domain.Component{}
}

// ─────────────────────────────────────────────────────────────
// Inspection
// ─────────────────────────────────────────────────────────────

// Preview returns the in-progress component of a drag or resize.
func (s *Session) Preview() (domain.Component, bool) {
	if s.state != Dragging && s.state != Resizing {
		return domain.Component{}, false
	}
	return s.current.Clone(), true
}

// Box returns the normalized selection rectangle in document space.
func (s *Session) Box() (domain.Rect, bool) {
	if s.state != BoxSelecting {
		return domain.Rect{}, false
	}
	return domain.RectFromPoints(s.boxStart, s.boxEnd), true
}

// BoxHits lists the visible components intersecting the selection box.
func (s *Session) BoxHits() []string {
	r, ok := s.Box()
	if !ok {
		return nil
	}
	return s.ed.IDsIn(r)
}
