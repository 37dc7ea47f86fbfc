package editor

import (
	"fmt"

	"canvas/internal/domain"
)

// Layer helpers built on Reorder. Moving a component that is already at the
// requested end of the z-order is a no-op and records nothing.

func (e *Editor) BringToFront(id string) error {
	return e.moveLayer(id, func(i, n int) int { return n - 1 })
}

func (e *Editor) SendToBack(id string) error {
	return e.moveLayer(id, func(i, n int) int { return 0 })
}

func (e *Editor) BringForward(id string) error {
	return e.moveLayer(id, func(i, n int) int { return min(i+1, n-1) })
}

func (e *Editor) SendBackward(id string) error {
	return e.moveLayer(id, func(i, n int) int { return max(i-1, 0) })
}

func (e *Editor) moveLayer(id string, target func(i, n int) int) error {
	i := e.index(id)
	if i < 0 {
		return fmt.Errorf("move layer %s: %w", id, domain.ErrNotFound)
	}
	n := len(e.components)
	j := target(i, n)
	if j == i {
		return nil
	}
	ids := make([]string, 0, n)
	for _, c := range e.components {
		if c.ID != id {
			ids = append(ids, c.ID)
		}
	}
	ids = append(ids[:j], append([]string{id}, ids[j:]...)...)
	return e.Reorder(ids)
}
