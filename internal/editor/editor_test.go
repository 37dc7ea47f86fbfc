package editor_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"canvas/internal/domain"
	"canvas/internal/editor"
)

func newEditor() *editor.Editor {
	n := 0
	return editor.New(editor.Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	})
}

func comp(id string, x, y float64) domain.Component {
	c := domain.NewComponent(id)
	c.X, c.Y = x, y
	return c
}

func order(e *editor.Editor) []string {
	var ids []string
	for _, c := range e.Components() {
		ids = append(ids, c.ID)
	}
	return ids
}

func mustAdd(t *testing.T, e *editor.Editor, cs ...domain.Component) {
	t.Helper()
	for _, c := range cs {
		if err := e.Add(c); err != nil {
			t.Fatalf("add %s: %v", c.ID, err)
		}
	}
}

// ─────────────────────────────────────────────────────────────
// Recorded mutations
// ─────────────────────────────────────────────────────────────

func TestAddAppendsOnTop(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 10, 10))
	if got := order(e); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestAddDuplicateID(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	err := e.Add(comp("a", 5, 5))
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if e.Len() != 1 {
		t.Errorf("rejected add changed the document")
	}
	// only the first add is in history
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("rejected add must not record history")
	}
}

func TestAddInvalid(t *testing.T) {
	e := newEditor()
	c := comp("a", 0, 0)
	c.Opacity = 2
	if err := e.Add(c); !errors.Is(err, domain.ErrInvalidComponent) {
		t.Fatalf("expected ErrInvalidComponent, got %v", err)
	}
	if e.CanUndo() || e.Len() != 0 {
		t.Error("invalid add must leave state unchanged")
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 0, 0), comp("c", 0, 0))
	b := comp("b", 42, 24)
	if err := e.Update(b); err != nil {
		t.Fatal(err)
	}
	if got := order(e); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("update changed order: %v", got)
	}
	got, _ := e.Component("b")
	if got.X != 42 || got.Y != 24 {
		t.Errorf("expected (42,24), got (%v,%v)", got.X, got.Y)
	}
}

func TestUpdateMissing(t *testing.T) {
	e := newEditor()
	if err := e.Update(comp("ghost", 0, 0)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if e.CanUndo() {
		t.Error("failed update recorded history")
	}
}

func TestRemoveMissing(t *testing.T) {
	e := newEditor()
	if err := e.Remove("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorder(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 0, 0), comp("c", 0, 0))

	bad := [][]string{
		{"a", "b"},
		{"a", "b", "b"},
		{"a", "b", "x"},
		{"a", "b", "c", "d"},
		nil,
	}
	for _, ids := range bad {
		if err := e.Reorder(ids); !errors.Is(err, domain.ErrInvalidReorder) {
			t.Errorf("reorder %v: expected ErrInvalidReorder, got %v", ids, err)
		}
	}
	if got := order(e); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("rejected reorder changed order: %v", got)
	}

	if err := e.Reorder([]string{"c", "a", "b"}); err != nil {
		t.Fatal(err)
	}
	if got := order(e); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("got %v", got)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := order(e); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("undo of reorder: got %v", got)
	}
}

func TestUpdateManyIsAtomic(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 0, 0))

	err := e.UpdateMany([]domain.Component{comp("a", 1, 1), comp("missing", 2, 2)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	a, _ := e.Component("a")
	if a.X != 0 {
		t.Error("partial UpdateMany applied")
	}

	if err := e.UpdateMany([]domain.Component{comp("a", 1, 1), comp("b", 2, 2)}); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	a, _ = e.Component("a")
	b, _ := e.Component("b")
	if a.X != 0 || b.X != 0 {
		t.Error("one undo should revert the whole batch")
	}
}

// ─────────────────────────────────────────────────────────────
// Selection
// ─────────────────────────────────────────────────────────────

func TestSelectionClearedOnRemove(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	if err := e.Select("a"); err != nil {
		t.Fatal(err)
	}
	if err := e.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection must be none after removing the selected component")
	}
	if e.SelectedID() != "" {
		t.Errorf("expected empty selected id, got %q", e.SelectedID())
	}
}

func TestSelectMissing(t *testing.T) {
	e := newEditor()
	if err := e.Select("nope"); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestSelectedResolvesLatestState(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	_ = e.Select("a")
	_ = e.Update(comp("a", 77, 0))
	sel, ok := e.Selected()
	if !ok || sel.X != 77 {
		t.Errorf("selection should resolve to the live component, got %+v", sel)
	}
}

func TestSelectionNotRecorded(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	_ = e.Select("a")
	e.ClearSelection()
	_ = e.Select("a")
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("selection changes must not create history entries")
	}
}

func TestUndoDropsStaleSelection(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	_ = e.Select("a")
	if err := e.Undo(); err != nil { // back to empty document
		t.Fatal(err)
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection survived undo of its component")
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if e.SelectedID() != "" {
		t.Error("redo should not resurrect a dropped selection")
	}
}

// ─────────────────────────────────────────────────────────────
// History
// ─────────────────────────────────────────────────────────────

func TestHistoryLinearity(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("base", 0, 0))
	e.Load(e.Components()) // fresh history with one component

	before := e.Components()
	mustAdd(t, e, comp("a", 1, 1))
	_ = e.Update(comp("a", 5, 5))
	mustAdd(t, e, comp("b", 2, 2))
	_ = e.Reorder([]string{"b", "base", "a"})
	_ = e.Remove("base")
	after := e.Components()
	const n = 5

	for i := 0; i < n; i++ {
		if err := e.Undo(); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(e.Components(), before) {
		t.Fatalf("after %d undos expected %v, got %v", n, before, e.Components())
	}
	if err := e.Undo(); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	for i := 0; i < n; i++ {
		if err := e.Redo(); err != nil {
			t.Fatalf("redo %d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(e.Components(), after) {
		t.Fatalf("after %d redos expected %v, got %v", n, after, e.Components())
	}
	if err := e.Redo(); !errors.Is(err, domain.ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestMutationAfterUndoClearsRedo(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 0, 0))
	_ = e.Undo()
	if !e.CanRedo() {
		t.Fatal("expected redo available")
	}
	mustAdd(t, e, comp("c", 0, 0))
	if e.CanRedo() {
		t.Error("new mutation must clear redo")
	}
}

func TestHistoryLimit(t *testing.T) {
	e := editor.New(editor.Options{HistoryLimit: 2})
	for _, id := range []string{"a", "b", "c", "d"} {
		mustAdd(t, e, comp(id, 0, 0))
	}
	undos := 0
	for e.Undo() == nil {
		undos++
	}
	if undos != 2 {
		t.Errorf("expected 2 undos with limit 2, got %d", undos)
	}
	if got := order(e); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b] after exhausting history, got %v", got)
	}
}

func TestLoadResetsHistoryAndSelection(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0))
	_ = e.Select("a")
	if err := e.Load([]domain.Component{comp("x", 0, 0), comp("y", 0, 0)}); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() || e.SelectedID() != "" {
		t.Error("Load should start with empty history and no selection")
	}
	if err := e.Load([]domain.Component{comp("x", 0, 0), comp("x", 1, 1)}); !errors.Is(err, domain.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID on load, got %v", err)
	}
}

func TestComponentsReturnsCopies(t *testing.T) {
	e := newEditor()
	c := comp("a", 0, 0)
	c.ComponentProps = map[string]any{"text": "hi"}
	mustAdd(t, e, c)

	list := e.Components()
	list[0].X = 500
	list[0].ComponentProps["text"] = "mutated"

	got, _ := e.Component("a")
	if got.X != 0 || got.ComponentProps["text"] != "hi" {
		t.Errorf("caller mutation leaked into the document: %+v", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Queries and notifications
// ─────────────────────────────────────────────────────────────

func TestComponentAtPicksTopmostVisible(t *testing.T) {
	e := newEditor()
	bottom := comp("bottom", 0, 0)
	top := comp("top", 50, 50)
	hidden := comp("hidden", 0, 0)
	hidden.Hidden = true
	mustAdd(t, e, bottom, top, hidden)

	got, ok := e.ComponentAt(domain.Point{X: 60, Y: 60})
	if !ok || got.ID != "top" {
		t.Errorf("expected top, got %+v", got)
	}
	got, ok = e.ComponentAt(domain.Point{X: 10, Y: 10})
	if !ok || got.ID != "bottom" {
		t.Errorf("hidden component should be skipped, got %+v", got)
	}
	if _, ok := e.ComponentAt(domain.Point{X: 1000, Y: 1000}); ok {
		t.Error("expected no hit on empty canvas")
	}
}

func TestIDsInAndBounds(t *testing.T) {
	e := newEditor()
	mustAdd(t, e, comp("a", 0, 0), comp("b", 400, 400))
	ids := e.IDsIn(domain.Rect{X: -10, Y: -10, Width: 50, Height: 50})
	if !reflect.DeepEqual(ids, []string{"a"}) {
		t.Errorf("expected [a], got %v", ids)
	}
	r, ok := e.Bounds()
	want := domain.Rect{X: 0, Y: 0, Width: 600, Height: 500}
	if !ok || r != want {
		t.Errorf("expected %+v, got %+v", want, r)
	}
}

func TestSubscribe(t *testing.T) {
	e := newEditor()
	var got []editor.Change
	unsubscribe := e.Subscribe(func(c editor.Change) { got = append(got, c) })

	mustAdd(t, e, comp("a", 0, 0))
	_ = e.Select("a")
	_ = e.Undo()
	unsubscribe()
	mustAdd(t, e, comp("b", 0, 0))

	kinds := make([]editor.ChangeKind, len(got))
	for i, c := range got {
		kinds[i] = c.Kind
	}
	want := []editor.ChangeKind{editor.ChangeAdded, editor.ChangeSelected, editor.ChangeUndo}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("expected %v, got %v", want, kinds)
	}
	if !got[0].Recorded() || got[1].Recorded() {
		t.Error("Recorded() misclassified change kinds")
	}
}
