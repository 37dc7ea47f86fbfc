package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"canvas/internal/config"
	"canvas/internal/diag"
	"canvas/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Document Service: open workspaces and their persistence
// ─────────────────────────────────────────────────────────────

// Store is the document persistence the service needs.
type Store interface {
	domain.DocumentStore
	UpdatedAt(id string) (time.Time, error)
}

// DocumentService owns the open workspaces. Every access to a workspace goes
// through With, which serializes callers per document.
type DocumentService struct {
	docs    Store
	hist    domain.HistoryStore
	emitter EventEmitter
	log     *diag.Logger

	mu        sync.Mutex
	open      map[string]*Workspace
	cfg       *config.Config
	cronSched *cron.Cron
	saving    saveGuard
}

func NewDocumentService(docs Store, hist domain.HistoryStore, emitter EventEmitter, cfg *config.Config, logger *diag.Logger) *DocumentService {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &DocumentService{
		docs:    docs,
		hist:    hist,
		emitter: emitter,
		log:     logger,
		open:    make(map[string]*Workspace),
		cfg:     cfg,
		saving:  saveGuard{log: logger},
	}
}

// ── Documents ─────────────────────────────────────────────

func (s *DocumentService) CreateDocument(ctx context.Context, name string) (*domain.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	d := &domain.Document{ID: uuid.NewString(), Name: name}
	if err := s.docs.CreateDocument(d); err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, EventDocumentsUpdated, d.ID)
	return d, nil
}

func (s *DocumentService) ListDocuments() ([]domain.Document, error) {
	docs, err := s.docs.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (s *DocumentService) RenameDocument(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename %s: empty name", id)
	}
	err := s.With(ctx, id, func(w *Workspace) error {
		w.Doc.Name = name
		doc := w.Doc
		if err := s.docs.UpdateDocument(&doc); err != nil {
			return err
		}
		w.Doc.UpdatedAt = doc.UpdatedAt
		w.storedAt = doc.UpdatedAt
		return nil
	})
	if err != nil {
		return fmt.Errorf("rename document: %w", err)
	}
	s.emitter.Emit(ctx, EventDocumentsUpdated, id)
	return nil
}

// DeleteDocument closes the workspace without saving and removes the
// document with its components and history.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.open, id)
	s.mu.Unlock()

	if err := s.docs.DeleteDocument(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.emitter.Emit(ctx, EventDocumentsUpdated, id)
	return nil
}

// ── Workspaces ────────────────────────────────────────────

// Open loads a document into a workspace, or returns the one already open.
func (s *DocumentService) Open(ctx context.Context, id string) (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.open[id]; ok {
		return w, nil
	}
	w, err := s.load(id)
	if err != nil {
		return nil, err
	}
	s.open[id] = w
	s.log.Infof("[service] opened %s (%d components)", id, w.Editor.Len())
	return w, nil
}

func (s *DocumentService) load(id string) (*Workspace, error) {
	doc, err := s.docs.GetDocument(id)
	if err != nil {
		return nil, err
	}
	cs, err := s.docs.ListComponents(id)
	if err != nil {
		return nil, err
	}
	past, future, err := s.hist.LoadHistory(id)
	if err != nil {
		return nil, err
	}
	w, err := newWorkspace(*doc, cs, past, future, s.cfg, s.log)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	return w, nil
}

// IsOpen reports whether a document has a live workspace.
func (s *DocumentService) IsOpen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[id]
	return ok
}

// OpenIDs lists the ids of the open workspaces.
func (s *DocumentService) OpenIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	return ids
}

// Close saves a dirty workspace and drops it.
func (s *DocumentService) Close(ctx context.Context, id string) error {
	if err := s.Save(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.open, id)
	s.mu.Unlock()
	return nil
}

// With runs fn on the workspace of document id, opening it if needed. Calls
// for the same document are serialized. When fn changes the document a
// document:changed event carrying the new state is emitted.
func (s *DocumentService) With(ctx context.Context, id string, fn func(*Workspace) error) error {
	w, err := s.Open(ctx, id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	version, vp := w.version, w.Viewport.State()
	err = fn(w)
	if w.version != version || w.Viewport.State() != vp {
		s.emitter.Emit(ctx, EventDocumentChanged, w.State())
	}
	return err
}

// ── Saving ────────────────────────────────────────────────

// Save writes a dirty workspace to the store. Saving a document that is not
// open is a no-op. A save requested while another is running for the same
// document returns at once; the running save writes again afterwards.
func (s *DocumentService) Save(ctx context.Context, id string) error {
	s.mu.Lock()
	w, ok := s.open[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if !s.saving.Begin(id) {
		return nil
	}
	for {
		err := s.saveOnce(ctx, w)
		if again := s.saving.Done(id); err != nil || !again {
			return err
		}
		if !s.saving.Begin(id) {
			return nil
		}
	}
}

func (s *DocumentService) saveOnce(ctx context.Context, w *Workspace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.Dirty() {
		return nil
	}
	if err := s.write(w); err != nil {
		return fmt.Errorf("save %s: %w", w.Doc.ID, err)
	}
	s.emitter.Emit(ctx, EventDocumentSaved, w.Doc.ID)
	return nil
}

// write persists w. Caller holds w.mu.
func (s *DocumentService) write(w *Workspace) error {
	doc := w.Doc
	doc.Viewport = w.Viewport.State()
	doc.SelectedID = w.Editor.SelectedID()
	if err := s.docs.ReplaceComponents(doc.ID, w.Editor.Components()); err != nil {
		return err
	}
	past, future := w.Editor.History()
	if err := s.hist.SaveHistory(doc.ID, past, future); err != nil {
		return err
	}
	if err := s.docs.UpdateDocument(&doc); err != nil {
		return err
	}
	w.Doc = doc
	w.saved = w.version
	w.savedVP = doc.Viewport
	w.storedAt = doc.UpdatedAt
	s.log.Debugf("[service] saved %s", doc.ID)
	return nil
}

// SaveAll saves every dirty workspace. Errors are joined.
func (s *DocumentService) SaveAll(ctx context.Context) error {
	var errs []error
	for _, id := range s.OpenIDs() {
		if err := s.Save(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StartAutosave schedules SaveAll on the configured cron spec. It replaces a
// running schedule.
func (s *DocumentService) StartAutosave(ctx context.Context) error {
	s.StopAutosave()

	s.mu.Lock()
	spec := s.cfg.Autosave
	s.mu.Unlock()
	if !spec.Enabled() {
		log.Printf("autosave: disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec.Schedule, func() {
		if err := s.SaveAll(ctx); err != nil {
			log.Printf("autosave: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("autosave: invalid schedule %q: %w", spec.Schedule, err)
	}
	c.Start()

	s.mu.Lock()
	s.cronSched = c
	s.mu.Unlock()
	log.Printf("autosave: scheduled %q", spec.Schedule)
	return nil
}

func (s *DocumentService) StopAutosave() {
	s.mu.Lock()
	c := s.cronSched
	s.cronSched = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// ── External changes ──────────────────────────────────────

// CheckExternal reloads the workspace of id when the stored document was
// written by someone else since we last read or wrote it. A workspace with
// unsaved changes keeps them; the next save wins. It reports whether the
// workspace was reloaded.
func (s *DocumentService) CheckExternal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	w, ok := s.open[id]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	stored, err := s.docs.UpdatedAt(id)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !stored.After(w.storedAt) {
		return false, nil
	}
	if w.Dirty() {
		log.Printf("document watcher: %s changed externally but has unsaved edits, keeping local state", id)
		w.storedAt = stored
		return false, nil
	}

	fresh, err := s.load(id)
	if err != nil {
		return false, err
	}
	w.Doc = fresh.Doc
	if err := w.Editor.Load(fresh.Editor.Components()); err != nil {
		return false, err
	}
	past, future := fresh.Editor.History()
	w.Editor.RestoreHistory(past, future)
	_ = w.Editor.Select(fresh.Doc.SelectedID)
	w.Session.Cancel()
	w.Viewport.SetState(fresh.Doc.Viewport)
	w.saved = w.version
	w.savedVP = w.Viewport.State()
	w.storedAt = stored

	s.emitter.Emit(ctx, EventExternalChange, w.State())
	return true, nil
}

// ── Config & lifecycle ────────────────────────────────────

// ApplyConfig pushes a reloaded config into every open workspace and
// reschedules autosave when its spec changed.
func (s *DocumentService) ApplyConfig(ctx context.Context, cfg *config.Config) error {
	s.mu.Lock()
	prev := s.cfg
	s.cfg = cfg
	ws := make([]*Workspace, 0, len(s.open))
	for _, w := range s.open {
		ws = append(ws, w)
	}
	running := s.cronSched != nil
	s.mu.Unlock()

	if l, ok := s.hist.(interface{ SetLimit(int) }); ok {
		l.SetLimit(cfg.History.Limit)
	}
	for _, w := range ws {
		w.mu.Lock()
		w.applyConfig(cfg)
		w.mu.Unlock()
	}
	if running && prev.Autosave.Schedule != cfg.Autosave.Schedule {
		return s.StartAutosave(ctx)
	}
	return nil
}

// Shutdown stops autosave, waits for running saves and saves everything
// still dirty.
func (s *DocumentService) Shutdown(ctx context.Context) error {
	s.StopAutosave()
	if !s.saving.WaitAll(ctx) {
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
	return s.SaveAll(ctx)
}
