// Package history keeps the linear undo/redo stacks of document snapshots.
package history

import "canvas/internal/domain"

// DefaultLimit bounds each stack when no explicit limit is configured.
const DefaultLimit = 100

// Snapshot is a full, independent copy of a document's component list.
type Snapshot = []domain.Component

// History holds past (most recent last) and future (most recent first)
// snapshots. Every snapshot is deep-copied on the way in and on the way out,
// so mutating the live document never alters a stored entry.
type History struct {
	past   []Snapshot
	future []Snapshot
	limit  int
}

// New creates a History that keeps at most limit entries per stack.
// A limit <= 0 means DefaultLimit.
func New(limit int) *History {
	h := &History{}
	h.SetLimit(limit)
	return h
}

// Record pushes the pre-mutation state and drops any redo branch.
func (h *History) Record(s Snapshot) {
	h.past = append(h.past, clone(s))
	h.future = nil
	h.trim()
}

// Undo returns the state to restore and stores current as the first redo
// entry.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	if len(h.past) == 0 {
		return nil, domain.ErrNothingToUndo
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past[last] = nil
	h.past = h.past[:last]

	h.future = append([]Snapshot{clone(current)}, h.future...)
	h.trim()
	return clone(prev), nil
}

// Redo is the mirror of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	if len(h.future) == 0 {
		return nil, domain.ErrNothingToRedo
	}
	next := h.future[0]
	h.future[0] = nil
	h.future = h.future[1:]

	h.past = append(h.past, clone(current))
	h.trim()
	return clone(next), nil
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the sizes of the past and future stacks.
func (h *History) Len() (past, future int) {
	return len(h.past), len(h.future)
}

func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History) Limit() int { return h.limit }

// SetLimit changes the capacity and trims the oldest entries if needed.
func (h *History) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h.limit = limit
	h.trim()
}

// Stacks returns copies of both stacks in their stored order.
func (h *History) Stacks() (past, future []Snapshot) {
	return cloneAll(h.past), cloneAll(h.future)
}

// Restore replaces both stacks, e.g. when reopening a saved document.
func (h *History) Restore(past, future []Snapshot) {
	h.past = cloneAll(past)
	h.future = cloneAll(future)
	h.trim()
}

// trim drops the oldest past entries and the farthest future entries.
func (h *History) trim() {
	if n := len(h.past) - h.limit; n > 0 {
		h.past = append([]Snapshot(nil), h.past[n:]...)
	}
	if len(h.future) > h.limit {
		h.future = h.future[:h.limit]
	}
}

func clone(s Snapshot) Snapshot {
	out := domain.CloneComponents(s)
	if out == nil {
		out = Snapshot{}
	}
	return out
}

func cloneAll(ss []Snapshot) []Snapshot {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Snapshot, len(ss))
	for i := range ss {
		out[i] = clone(ss[i])
	}
	return out
}
