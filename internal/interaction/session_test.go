package interaction_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/interaction"
	"canvas/internal/viewport"
)

type fixture struct {
	ed *editor.Editor
	vp *viewport.Viewport
	s  *interaction.Session
}

func newFixture(t *testing.T, opts interaction.Options, cs ...domain.Component) fixture {
	t.Helper()
	ed := editor.New(editor.Options{})
	for _, c := range cs {
		if err := ed.Add(c); err != nil {
			t.Fatalf("add %s: %v", c.ID, err)
		}
	}
	vp := viewport.New(viewport.Options{})
	return fixture{ed: ed, vp: vp, s: interaction.New(ed, vp, opts)}
}

func box(id string, x, y, w, h float64) domain.Component {
	c := domain.NewComponent(id)
	c.X, c.Y, c.Width, c.Height = x, y, w, h
	return c
}

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }

func pastLen(ed *editor.Editor) int {
	past, _ := ed.History()
	return len(past)
}

func get(t *testing.T, ed *editor.Editor, id string) domain.Component {
	t.Helper()
	c, ok := ed.Component(id)
	if !ok {
		t.Fatalf("component %s missing", id)
	}
	return c
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ─────────────────────────────────────────────────────────────
// Drag
// ─────────────────────────────────────────────────────────────

func TestDragCommitsOnce(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	before := pastLen(f.ed)

	if err := f.s.BeginDrag("a", pt(20, 20)); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		f.s.Move(pt(20+float64(i)*8, 20+float64(i)*4))
		if got := get(t, f.ed, "a"); got.X != 10 || got.Y != 10 {
			t.Fatalf("document changed mid-gesture: (%v,%v)", got.X, got.Y)
		}
	}
	out, err := f.s.End(pt(60, 40))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Committed || out.Gesture != interaction.Dragging {
		t.Errorf("unexpected outcome %+v", out)
	}

	a := get(t, f.ed, "a")
	if a.X != 50 || a.Y != 30 {
		t.Errorf("expected (50,30), got (%v,%v)", a.X, a.Y)
	}
	if got := pastLen(f.ed) - before; got != 1 {
		t.Errorf("expected exactly one history entry, got %d", got)
	}
	if f.s.State() != interaction.Idle {
		t.Errorf("expected idle, got %s", f.s.State())
	}
}

func TestDragEndRespectsLockTakenMidGesture(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	if err := f.ed.Select("a"); err != nil {
		t.Fatal(err)
	}
	if err := f.s.BeginDrag("a", pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	f.s.Move(pt(20, 20))
	if err := f.ed.ToggleLock(); err != nil {
		t.Fatal(err)
	}

	out, err := f.s.End(pt(50, 30))
	if !errors.Is(err, domain.ErrComponentLocked) {
		t.Fatalf("expected ErrComponentLocked, got %v", err)
	}
	if out.Committed {
		t.Error("locked component must not be committed")
	}
	a := get(t, f.ed, "a")
	if a.X != 10 || a.Y != 10 || !a.Locked {
		t.Errorf("expected locked at (10,10), got (%v,%v) locked=%v", a.X, a.Y, a.Locked)
	}
	if f.s.State() != interaction.Idle {
		t.Errorf("expected idle, got %s", f.s.State())
	}
}

func TestDragEndKeepsUndoTakenMidGesture(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	red := get(t, f.ed, "a")
	red.BackgroundColor = "red"
	if err := f.ed.Update(red); err != nil {
		t.Fatal(err)
	}

	if err := f.s.BeginDrag("a", pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	if err := f.ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.s.End(pt(50, 30)); err != nil {
		t.Fatal(err)
	}

	a := get(t, f.ed, "a")
	if a.BackgroundColor != "#3b82f6" {
		t.Errorf("undone color came back: %q", a.BackgroundColor)
	}
	if a.X != 50 || a.Y != 30 {
		t.Errorf("expected (50,30), got (%v,%v)", a.X, a.Y)
	}

	if err := f.ed.Undo(); err != nil {
		t.Fatal(err)
	}
	a = get(t, f.ed, "a")
	if a.X != 10 || a.Y != 10 || a.BackgroundColor != "#3b82f6" {
		t.Errorf("undo of the drag should only restore geometry, got (%v,%v) %q", a.X, a.Y, a.BackgroundColor)
	}
}

func TestDragEndOnRemovedComponent(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	if err := f.s.BeginDrag("a", pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	if err := f.ed.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.s.End(pt(50, 30)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.ed.Len() != 0 {
		t.Errorf("removed component came back")
	}
}

func TestDragEndRejectsNonFinitePointer(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	before := pastLen(f.ed)
	if err := f.s.BeginDrag("a", pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.s.End(pt(math.NaN(), 10)); !errors.Is(err, domain.ErrInvalidComponent) {
		t.Fatalf("expected ErrInvalidComponent, got %v", err)
	}
	if a := get(t, f.ed, "a"); a.X != 10 || a.Y != 10 {
		t.Errorf("expected (10,10), got (%v,%v)", a.X, a.Y)
	}
	if pastLen(f.ed) != before {
		t.Error("rejected drag should not be recorded")
	}
}

func TestDragScalesByZoom(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 0, 0, 100, 100))
	f.vp.SetState(domain.ViewportState{Zoom: 2})

	_ = f.s.BeginDrag("a", pt(10, 10))
	f.s.Move(pt(60, 30))
	p, ok := f.s.Preview()
	if !ok || p.X != 25 || p.Y != 10 {
		t.Fatalf("unexpected preview %+v", p)
	}
	_, _ = f.s.End(pt(110, 50))
	a := get(t, f.ed, "a")
	if a.X != 50 || a.Y != 20 {
		t.Errorf("expected (50,20) at zoom 2, got (%v,%v)", a.X, a.Y)
	}
}

func TestDragSnapsToGrid(t *testing.T) {
	f := newFixture(t, interaction.Options{SnapToGrid: true, GridSize: 20}, box("a", 10, 10, 100, 100))
	_ = f.s.BeginDrag("a", pt(0, 0))
	_, _ = f.s.End(pt(33, 5))
	a := get(t, f.ed, "a")
	if a.X != 40 || a.Y != 20 {
		t.Errorf("expected snapped (40,20), got (%v,%v)", a.X, a.Y)
	}
}

func TestUnchangedGestureRecordsNothing(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	before := pastLen(f.ed)
	_ = f.s.BeginDrag("a", pt(20, 20))
	f.s.Move(pt(80, 80))
	out, err := f.s.End(pt(20, 20))
	if err != nil {
		t.Fatal(err)
	}
	if out.Committed || pastLen(f.ed) != before {
		t.Error("a gesture ending where it started must not record")
	}
}

func TestBeginRejectsUnavailableTargets(t *testing.T) {
	locked := box("locked", 0, 0, 10, 10)
	locked.Locked = true
	hidden := box("hidden", 0, 0, 10, 10)
	hidden.Hidden = true
	f := newFixture(t, interaction.Options{}, locked, hidden)

	tests := []struct {
		id   string
		want error
	}{
		{"locked", domain.ErrComponentLocked},
		{"hidden", domain.ErrComponentHidden},
		{"missing", domain.ErrNotFound},
	}
	for _, tt := range tests {
		if err := f.s.BeginDrag(tt.id, pt(0, 0)); !errors.Is(err, tt.want) {
			t.Errorf("drag %s: expected %v, got %v", tt.id, tt.want, err)
		}
		if err := f.s.BeginResize(tt.id, interaction.HandleSE, pt(0, 0)); !errors.Is(err, tt.want) {
			t.Errorf("resize %s: expected %v, got %v", tt.id, tt.want, err)
		}
		if f.s.State() != interaction.Idle {
			t.Fatalf("rejected begin left state %s", f.s.State())
		}
	}
}

func TestGesturesDoNotNest(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 0, 0, 10, 10))
	if err := f.s.BeginDrag("a", pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	starts := map[string]func() error{
		"drag":   func() error { return f.s.BeginDrag("a", pt(0, 0)) },
		"resize": func() error { return f.s.BeginResize("a", interaction.HandleE, pt(0, 0)) },
		"box":    func() error { return f.s.BeginBoxSelect(pt(0, 0)) },
		"pan":    func() error { return f.s.BeginPan(pt(0, 0)) },
	}
	for name, begin := range starts {
		if err := begin(); !errors.Is(err, domain.ErrGestureConflict) {
			t.Errorf("%s: expected ErrGestureConflict, got %v", name, err)
		}
	}
	if f.s.State() != interaction.Dragging {
		t.Errorf("conflicting begin changed state to %s", f.s.State())
	}
}

func TestCancelDiscardsDrag(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 10, 10, 100, 50))
	before := pastLen(f.ed)
	_ = f.s.BeginDrag("a", pt(0, 0))
	f.s.Move(pt(300, 300))
	f.s.Cancel()

	if a := get(t, f.ed, "a"); a.X != 10 || a.Y != 10 {
		t.Errorf("cancel applied a partial update: (%v,%v)", a.X, a.Y)
	}
	if pastLen(f.ed) != before {
		t.Error("cancel recorded history")
	}
	if _, ok := f.s.Preview(); ok {
		t.Error("preview should be gone after cancel")
	}
}

// ─────────────────────────────────────────────────────────────
// Resize
// ─────────────────────────────────────────────────────────────

func TestResizeHandles(t *testing.T) {
	tests := []struct {
		handle interaction.Handle
		to     domain.Point
		want   domain.Rect
	}{
		{interaction.HandleSE, pt(50, 20), domain.Rect{X: 100, Y: 100, Width: 250, Height: 120}},
		{interaction.HandleE, pt(50, 20), domain.Rect{X: 100, Y: 100, Width: 250, Height: 100}},
		{interaction.HandleS, pt(50, 20), domain.Rect{X: 100, Y: 100, Width: 200, Height: 120}},
		{interaction.HandleNW, pt(50, 20), domain.Rect{X: 150, Y: 120, Width: 150, Height: 80}},
		{interaction.HandleW, pt(-30, 0), domain.Rect{X: 70, Y: 100, Width: 230, Height: 100}},
		{interaction.HandleN, pt(0, -40), domain.Rect{X: 100, Y: 60, Width: 200, Height: 140}},
		{interaction.HandleNE, pt(10, 10), domain.Rect{X: 100, Y: 110, Width: 210, Height: 90}},
		{interaction.HandleSW, pt(10, 10), domain.Rect{X: 110, Y: 100, Width: 190, Height: 110}},
	}
	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			f := newFixture(t, interaction.Options{}, box("a", 100, 100, 200, 100))
			if err := f.s.BeginResize("a", tt.handle, pt(0, 0)); err != nil {
				t.Fatal(err)
			}
			if _, err := f.s.End(tt.to); err != nil {
				t.Fatal(err)
			}
			if got := get(t, f.ed, "a").Rect(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeFloor(t *testing.T) {
	f := newFixture(t, interaction.Options{MinSize: 5}, box("a", 100, 100, 200, 100))

	_ = f.s.BeginResize("a", interaction.HandleNW, pt(0, 0))
	f.s.Move(pt(1000, 1000))
	p, _ := f.s.Preview()
	if p.Width != 5 || p.Height != 5 {
		t.Errorf("expected 5x5 floor, got %vx%v", p.Width, p.Height)
	}
	if p.X+p.Width != 300 || p.Y+p.Height != 200 {
		t.Errorf("opposite corner moved: %+v", p.Rect())
	}
	f.s.Cancel()

	_ = f.s.BeginResize("a", interaction.HandleSE, pt(0, 0))
	_, _ = f.s.End(pt(-1000, -1000))
	a := get(t, f.ed, "a")
	if a.X != 100 || a.Y != 100 || a.Width != 5 || a.Height != 5 {
		t.Errorf("unexpected rect %+v", a.Rect())
	}
}

func TestResizeUnknownHandle(t *testing.T) {
	f := newFixture(t, interaction.Options{}, box("a", 0, 0, 10, 10))
	if err := f.s.BeginResize("a", "x", pt(0, 0)); err == nil {
		t.Fatal("expected error for unknown handle")
	}
}

// ─────────────────────────────────────────────────────────────
// Box select and pan
// ─────────────────────────────────────────────────────────────

func TestBoxSelect(t *testing.T) {
	hidden := box("hidden", 420, 420, 10, 10)
	hidden.Hidden = true
	f := newFixture(t, interaction.Options{}, box("a", 0, 0, 200, 100), box("b", 400, 400, 200, 100), hidden)

	_ = f.s.BeginBoxSelect(pt(450, 450))
	f.s.Move(pt(300, 300))
	r, ok := f.s.Box()
	if !ok || r != (domain.Rect{X: 300, Y: 300, Width: 150, Height: 150}) {
		t.Fatalf("unexpected box %+v", r)
	}
	out, err := f.s.End(pt(300, 300))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.BoxHits, []string{"b"}) {
		t.Errorf("expected [b], got %v", out.BoxHits)
	}
	if _, ok := f.s.Box(); ok {
		t.Error("box should be gone after end")
	}
}

func TestPanAndCancelRestores(t *testing.T) {
	f := newFixture(t, interaction.Options{})
	f.vp.SetState(domain.ViewportState{PanX: 5, Zoom: 2})

	_ = f.s.BeginPan(pt(0, 0))
	f.s.Move(pt(10, 0))
	f.s.Move(pt(30, 20))
	if p := f.vp.Pan(); !near(p.X, 20) || !near(p.Y, 10) {
		t.Fatalf("expected pan (20,10), got %+v", p)
	}
	f.s.Cancel()
	if got := f.vp.State(); got != (domain.ViewportState{PanX: 5, Zoom: 2}) {
		t.Errorf("cancel did not restore pan: %+v", got)
	}
}
