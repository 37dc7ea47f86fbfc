package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"canvas/internal/domain"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createDoc(t *testing.T, s *DocumentStore, id string) *domain.Document {
	t.Helper()
	d := &domain.Document{ID: id, Name: "Doc " + id}
	if err := s.CreateDocument(d); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return d
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestDocumentCRUD(t *testing.T) {
	s := NewDocumentStore(setupDB(t))
	d := createDoc(t, s, "d1")
	if d.Viewport.Zoom != 1 {
		t.Errorf("default zoom = %v", d.Viewport.Zoom)
	}

	d.Name = "Renamed"
	d.Viewport = domain.ViewportState{PanX: 10, PanY: -5, Zoom: 2}
	d.SelectedID = "c1"
	if err := s.UpdateDocument(d); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetDocument("d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" || got.Viewport != d.Viewport || got.SelectedID != "c1" {
		t.Errorf("unexpected document %+v", got)
	}

	createDoc(t, s, "d2")
	docs, err := s.ListDocuments()
	if err != nil || len(docs) != 2 {
		t.Fatalf("list: %v %d", err, len(docs))
	}

	if err := s.DeleteDocument("d1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetDocument("d1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := s.DeleteDocument("d1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("second delete: expected ErrDocumentNotFound, got %v", err)
	}
	if err := s.UpdateDocument(&domain.Document{ID: "ghost"}); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("update ghost: expected ErrDocumentNotFound, got %v", err)
	}
}

func TestReplaceComponentsRoundTrip(t *testing.T) {
	s := NewDocumentStore(setupDB(t))
	createDoc(t, s, "d1")

	a := domain.NewComponent("a")
	a.Rotation = 15
	a.Locked = true
	a.Border = domain.Border{Width: 2, Color: "#ff0000", Style: domain.BorderStyleDashed}
	a.ComponentType = "button"
	a.ComponentProps = map[string]any{"label": "Go", "size": map[string]any{"w": 3.0}}
	b := domain.NewComponent("b")
	b.Hidden = true
	b.Opacity = 0.5

	want := []domain.Component{b, a}
	if err := s.ReplaceComponents("d1", want); err != nil {
		t.Fatal(err)
	}
	got, err := s.ListComponents("d1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	if err := s.ReplaceComponents("d1", nil); err != nil {
		t.Fatal(err)
	}
	got, _ = s.ListComponents("d1")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestReplaceComponentsUnknownDocument(t *testing.T) {
	s := NewDocumentStore(setupDB(t))
	err := s.ReplaceComponents("ghost", []domain.Component{domain.NewComponent("a")})
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestReplaceComponentsBumpsUpdatedAt(t *testing.T) {
	s := NewDocumentStore(setupDB(t))
	createDoc(t, s, "d1")
	before, err := s.UpdatedAt("d1")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.ReplaceComponents("d1", []domain.Component{domain.NewComponent("a")}); err != nil {
		t.Fatal(err)
	}
	after, _ := s.UpdatedAt("d1")
	if !after.After(before) {
		t.Errorf("updated_at not bumped: %v -> %v", before, after)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	db := setupDB(t)
	docs := NewDocumentStore(db)
	createDoc(t, docs, "d1")
	hs := NewHistoryStore(db, 10)

	s0 := []domain.Component{}
	s1 := []domain.Component{domain.NewComponent("a")}
	s2 := []domain.Component{domain.NewComponent("a"), domain.NewComponent("b")}

	if err := hs.SaveHistory("d1", [][]domain.Component{s0, s1}, [][]domain.Component{s2}); err != nil {
		t.Fatal(err)
	}
	past, future, err := hs.LoadHistory("d1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(past, [][]domain.Component{s0, s1}) {
		t.Errorf("past mismatch: %+v", past)
	}
	if !reflect.DeepEqual(future, [][]domain.Component{s2}) {
		t.Errorf("future mismatch: %+v", future)
	}

	if err := hs.ClearHistory("d1"); err != nil {
		t.Fatal(err)
	}
	past, future, _ = hs.LoadHistory("d1")
	if len(past) != 0 || len(future) != 0 {
		t.Errorf("expected empty history, got %d/%d", len(past), len(future))
	}
}

func TestHistoryPrune(t *testing.T) {
	db := setupDB(t)
	createDoc(t, NewDocumentStore(db), "d1")
	hs := NewHistoryStore(db, 2)

	var past, future [][]domain.Component
	for i := 0; i < 5; i++ {
		past = append(past, []domain.Component{domain.NewComponent(string(rune('a' + i)))})
		future = append(future, []domain.Component{domain.NewComponent(string(rune('v' + i)))})
	}
	if err := hs.SaveHistory("d1", past, future); err != nil {
		t.Fatal(err)
	}
	gotPast, gotFuture, err := hs.LoadHistory("d1")
	if err != nil {
		t.Fatal(err)
	}
	if len(gotPast) != 2 || gotPast[0][0].ID != "d" || gotPast[1][0].ID != "e" {
		t.Errorf("expected newest two past entries, got %+v", gotPast)
	}
	if len(gotFuture) != 2 || gotFuture[0][0].ID != "v" {
		t.Errorf("expected nearest two future entries, got %+v", gotFuture)
	}
}

func TestDeleteDocumentCascades(t *testing.T) {
	db := setupDB(t)
	docs := NewDocumentStore(db)
	createDoc(t, docs, "d1")
	hs := NewHistoryStore(db, 10)
	_ = docs.ReplaceComponents("d1", []domain.Component{domain.NewComponent("a")})
	_ = hs.SaveHistory("d1", [][]domain.Component{{}}, nil)

	if err := docs.DeleteDocument("d1"); err != nil {
		t.Fatal(err)
	}
	var n int
	db.Conn().QueryRow(`SELECT COUNT(*) FROM components`).Scan(&n)
	if n != 0 {
		t.Errorf("components left behind: %d", n)
	}
	db.Conn().QueryRow(`SELECT COUNT(*) FROM history_entries`).Scan(&n)
	if n != 0 {
		t.Errorf("history left behind: %d", n)
	}
}
