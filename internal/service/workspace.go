package service

import (
	"sync"
	"time"

	"canvas/internal/config"
	"canvas/internal/diag"
	"canvas/internal/domain"
	"canvas/internal/editor"
	"canvas/internal/history"
	"canvas/internal/interaction"
	"canvas/internal/keymap"
	"canvas/internal/viewport"
)

// Workspace is one open document: its editor, viewport and gesture session.
// Fields are only touched through DocumentService.With, which holds mu.
type Workspace struct {
	mu sync.Mutex

	Doc      domain.Document
	Editor   *editor.Editor
	Viewport *viewport.Viewport
	Session  *interaction.Session
	Keymap   *keymap.Keymap

	version  uint64 // bumped on every editor change
	saved    uint64 // version at the last save
	savedVP  domain.ViewportState
	storedAt time.Time // documents.updated_at as last written or read
}

func newWorkspace(doc domain.Document, cs []domain.Component, past, future []history.Snapshot, cfg *config.Config, log *diag.Logger) (*Workspace, error) {
	ed := editor.New(editor.Options{
		HistoryLimit: cfg.History.Limit,
		PasteOffset:  cfg.Editor.PasteOffset,
		Logger:       log,
	})
	if err := ed.Load(cs); err != nil {
		return nil, err
	}
	ed.RestoreHistory(past, future)
	if doc.SelectedID != "" {
		_ = ed.Select(doc.SelectedID) // stale selection is dropped
	}

	vp := viewport.New(cfg.ViewportOptions())
	vp.SetState(doc.Viewport)

	io := cfg.InteractionOptions()
	io.Logger = log
	w := &Workspace{
		Doc:      doc,
		Editor:   ed,
		Viewport: vp,
		Session:  interaction.New(ed, vp, io),
		Keymap:   keymap.Default(),
		savedVP:  vp.State(),
		storedAt: doc.UpdatedAt,
	}
	ed.Subscribe(func(editor.Change) { w.version++ })
	return w, nil
}

// Dirty reports unsaved component, history or viewport changes.
func (w *Workspace) Dirty() bool {
	return w.version != w.saved || w.Viewport.State() != w.savedVP
}

// State is the render state of the workspace.
func (w *Workspace) State() domain.DocumentState {
	doc := w.Doc
	doc.Viewport = w.Viewport.State()
	doc.SelectedID = w.Editor.SelectedID()
	return domain.DocumentState{
		Document:   doc,
		Components: w.Editor.Components(),
		SelectedID: doc.SelectedID,
		CanUndo:    w.Editor.CanUndo(),
		CanRedo:    w.Editor.CanRedo(),
	}
}

// KeyTarget binds the workspace to the shortcut table.
func (w *Workspace) KeyTarget() keymap.Target {
	return keymap.Target{Editor: w.Editor, Viewport: w.Viewport, Session: w.Session}
}

func (w *Workspace) applyConfig(cfg *config.Config) {
	w.Editor.SetHistoryLimit(cfg.History.Limit)
	w.Editor.SetPasteOffset(cfg.Editor.PasteOffset)
	w.Viewport.SetOptions(cfg.ViewportOptions())
	w.Session.SetOptions(cfg.InteractionOptions())
}
