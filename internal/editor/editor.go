// Package editor is the document store of the canvas: the ordered component
// list, the current selection and the undo/redo history behind them.
//
// Add, Update, UpdateMany, Remove and Reorder are the only operations that
// change the component list, and each one records the pre-mutation snapshot
// before applying. Selection is stored as an id and resolved on every read.
// An Editor is not safe for concurrent use.
package editor

import (
	"fmt"

	"github.com/google/uuid"

	"canvas/internal/diag"
	"canvas/internal/domain"
	"canvas/internal/history"
)

const DefaultPasteOffset = 20.0

type Options struct {
	HistoryLimit int
	PasteOffset  float64
	Logger       *diag.Logger
	NewID        func() string
}

type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeUpdated   ChangeKind = "updated"
	ChangeRemoved   ChangeKind = "removed"
	ChangeReordered ChangeKind = "reordered"
	ChangeSelected  ChangeKind = "selected"
	ChangeUndo      ChangeKind = "undo"
	ChangeRedo      ChangeKind = "redo"
	ChangeLoaded    ChangeKind = "loaded"
)

// Change describes one state transition for subscribers.
type Change struct {
	Kind ChangeKind `json:"kind"`
	IDs  []string   `json:"ids,omitempty"`
}

// Recorded reports whether the change went through history.
func (c Change) Recorded() bool {
	switch c.Kind {
	case ChangeAdded, ChangeUpdated, ChangeRemoved, ChangeReordered:
		return true
	}
	return false
}

type Editor struct {
	components []domain.Component
	selectedID string
	history    *history.History

	clipboard  *domain.Component
	pasteCount int

	pasteOffset float64
	newID       func() string
	log         *diag.Logger

	listeners  map[int]func(Change)
	nextListen int
}

func New(opts Options) *Editor {
	e := &Editor{
		history:     history.New(opts.HistoryLimit),
		pasteOffset: opts.PasteOffset,
		newID:       opts.NewID,
		log:         opts.Logger,
		listeners:   make(map[int]func(Change)),
	}
	if e.pasteOffset == 0 {
		e.pasteOffset = DefaultPasteOffset
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// Subscribe registers fn for every change and returns a func that removes it.
func (e *Editor) Subscribe(fn func(Change)) func() {
	id := e.nextListen
	e.nextListen++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Editor) notify(kind ChangeKind, ids ...string) {
	ch := Change{Kind: kind, IDs: ids}
	for _, fn := range e.listeners {
		fn(ch)
	}
}

// SetHistoryLimit changes the history capacity, trimming old entries.
func (e *Editor) SetHistoryLimit(n int) { e.history.SetLimit(n) }

func (e *Editor) SetPasteOffset(d float64) {
	if d != 0 {
		e.pasteOffset = d
	}
}

// ── Reads ──────────────────────────────────────────────────

// Components returns a deep copy of the component list in z-order.
func (e *Editor) Components() []domain.Component {
	out := domain.CloneComponents(e.components)
	if out == nil {
		out = []domain.Component{}
	}
	return out
}

func (e *Editor) Len() int { return len(e.components) }

func (e *Editor) Component(id string) (domain.Component, bool) {
	i := e.index(id)
	if i < 0 {
		return domain.Component{}, false
	}
	return e.components[i].Clone(), true
}

// Selected resolves the selection against the current list.
func (e *Editor) Selected() (domain.Component, bool) {
	if e.selectedID == "" {
		return domain.Component{}, false
	}
	return e.Component(e.selectedID)
}

func (e *Editor) SelectedID() string {
	if e.index(e.selectedID) < 0 {
		return ""
	}
	return e.selectedID
}

// ComponentAt returns the topmost visible component containing p
// (document space).
func (e *Editor) ComponentAt(p domain.Point) (domain.Component, bool) {
	for i := len(e.components) - 1; i >= 0; i-- {
		c := e.components[i]
		if c.Hidden {
			continue
		}
		if c.Rect().Contains(p) {
			return c.Clone(), true
		}
	}
	return domain.Component{}, false
}

// IDsIn lists visible components intersecting r, back to front.
func (e *Editor) IDsIn(r domain.Rect) []string {
	var ids []string
	for _, c := range e.components {
		if !c.Hidden && c.Rect().Intersects(r) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Bounds is the union of all visible components.
func (e *Editor) Bounds() (domain.Rect, bool) {
	var (
		r  domain.Rect
		ok bool
	)
	for _, c := range e.components {
		if c.Hidden {
			continue
		}
		if !ok {
			r, ok = c.Rect(), true
			continue
		}
		r = r.Union(c.Rect())
	}
	return r, ok
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// History exposes both stacks for persistence.
func (e *Editor) History() (past, future []history.Snapshot) {
	return e.history.Stacks()
}

// ── Recorded mutations ─────────────────────────────────────

func (e *Editor) Add(c domain.Component) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if e.index(c.ID) >= 0 {
		return fmt.Errorf("add %s: %w", c.ID, domain.ErrDuplicateID)
	}
	e.record()
	e.components = append(e.components, c.Clone())
	e.log.Debugf("[editor] add %s", c.ID)
	e.notify(ChangeAdded, c.ID)
	return nil
}

// Update replaces the component with the same id, keeping its z-position.
func (e *Editor) Update(c domain.Component) error {
	if err := c.Validate(); err != nil {
		return err
	}
	i := e.index(c.ID)
	if i < 0 {
		return fmt.Errorf("update %s: %w", c.ID, domain.ErrNotFound)
	}
	e.record()
	e.components[i] = c.Clone()
	e.log.Debugf("[editor] update %s", c.ID)
	e.notify(ChangeUpdated, c.ID)
	return nil
}

// UpdateMany replaces several components as one recorded mutation. Nothing
// is applied unless every entry is valid and present.
func (e *Editor) UpdateMany(cs []domain.Component) error {
	if len(cs) == 0 {
		return nil
	}
	idx := make([]int, len(cs))
	seen := make(map[string]bool, len(cs))
	for n, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("update %s: %w", c.ID, domain.ErrDuplicateID)
		}
		seen[c.ID] = true
		if idx[n] = e.index(c.ID); idx[n] < 0 {
			return fmt.Errorf("update %s: %w", c.ID, domain.ErrNotFound)
		}
	}
	e.record()
	ids := make([]string, len(cs))
	for n, c := range cs {
		e.components[idx[n]] = c.Clone()
		ids[n] = c.ID
	}
	e.log.Debugf("[editor] update %d components", len(cs))
	e.notify(ChangeUpdated, ids...)
	return nil
}

func (e *Editor) Remove(id string) error {
	i := e.index(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
	}
	e.record()
	e.components = append(e.components[:i:i], e.components[i+1:]...)
	if e.selectedID == id {
		e.selectedID = ""
	}
	e.log.Debugf("[editor] remove %s", id)
	e.notify(ChangeRemoved, id)
	return nil
}

// Reorder sets the z-order wholesale. ids must be a permutation of the
// current id set.
func (e *Editor) Reorder(ids []string) error {
	if len(ids) != len(e.components) {
		return fmt.Errorf("reorder: %d ids for %d components: %w", len(ids), len(e.components), domain.ErrInvalidReorder)
	}
	byID := make(map[string]domain.Component, len(e.components))
	for _, c := range e.components {
		byID[c.ID] = c
	}
	next := make([]domain.Component, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder: unknown or repeated id %q: %w", id, domain.ErrInvalidReorder)
		}
		delete(byID, id)
		next = append(next, c)
	}
	e.record()
	e.components = next
	e.log.Debugf("[editor] reorder %d components", len(ids))
	e.notify(ChangeReordered, ids...)
	return nil
}

// ── Selection (not recorded) ───────────────────────────────

// Select sets the selection. An empty id clears it.
func (e *Editor) Select(id string) error {
	if id == "" {
		e.ClearSelection()
		return nil
	}
	if e.index(id) < 0 {
		return fmt.Errorf("select %s: %w", id, domain.ErrInvalidSelection)
	}
	if e.selectedID == id {
		return nil
	}
	e.selectedID = id
	e.notify(ChangeSelected, id)
	return nil
}

func (e *Editor) ClearSelection() {
	if e.selectedID == "" {
		return
	}
	e.selectedID = ""
	e.notify(ChangeSelected)
}

// ── History ────────────────────────────────────────────────

func (e *Editor) Undo() error {
	prev, err := e.history.Undo(e.components)
	if err != nil {
		return err
	}
	e.components = prev
	e.dropStaleSelection()
	e.log.Debugf("[editor] undo (%d components)", len(prev))
	e.notify(ChangeUndo)
	return nil
}

func (e *Editor) Redo() error {
	next, err := e.history.Redo(e.components)
	if err != nil {
		return err
	}
	e.components = next
	e.dropStaleSelection()
	e.log.Debugf("[editor] redo (%d components)", len(next))
	e.notify(ChangeRedo)
	return nil
}

// Load replaces the document wholesale and starts a fresh history.
func (e *Editor) Load(cs []domain.Component) error {
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("load %s: %w", c.ID, domain.ErrDuplicateID)
		}
		seen[c.ID] = true
	}
	e.components = domain.CloneComponents(cs)
	e.selectedID = ""
	e.history.Clear()
	e.notify(ChangeLoaded)
	return nil
}

// RestoreHistory rehydrates saved undo/redo stacks.
func (e *Editor) RestoreHistory(past, future []history.Snapshot) {
	e.history.Restore(past, future)
}

func (e *Editor) record() {
	e.history.Record(e.components)
}

func (e *Editor) dropStaleSelection() {
	if e.selectedID != "" && e.index(e.selectedID) < 0 {
		e.selectedID = ""
	}
}

func (e *Editor) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.components {
		if e.components[i].ID == id {
			return i
		}
	}
	return -1
}
