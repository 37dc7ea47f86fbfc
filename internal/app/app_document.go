package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"canvas/internal/domain"
	"canvas/internal/service"
)

// ============================================================
// Documents
// ============================================================

func (a *App) ListDocuments() ([]domain.Document, error) {
	return a.docs.ListDocuments()
}

func (a *App) CreateDocument(name string) (*domain.Document, error) {
	return a.docs.CreateDocument(a.ctx, name)
}

func (a *App) RenameDocument(id, name string) error {
	return a.docs.RenameDocument(a.ctx, id, name)
}

func (a *App) DeleteDocument(id string) error {
	if err := a.docs.DeleteDocument(a.ctx, id); err != nil {
		return err
	}
	a.mu.Lock()
	if a.activeID == id {
		a.activeID = ""
	}
	a.mu.Unlock()
	a.watcher.SetDocument("")
	return nil
}

// OpenDocument shows a document in the window. The previous document is
// saved first.
func (a *App) OpenDocument(id string) (ViewState, error) {
	var v ViewState
	err := a.docs.With(a.ctx, id, func(w *service.Workspace) error {
		v = viewState(w)
		return nil
	})
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[OpenDocument] %s: %v", id, err)
		return v, err
	}

	a.mu.Lock()
	prev := a.activeID
	a.activeID = id
	a.mu.Unlock()
	if prev != "" && prev != id {
		if err := a.docs.Close(a.ctx, prev); err != nil {
			wailsRuntime.LogErrorf(a.ctx, "[OpenDocument] close %s: %v", prev, err)
		}
	}
	a.watcher.SetDocument(id)
	if err := a.settings.SetLastDocument(id); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[OpenDocument] %v", err)
	}
	wailsRuntime.LogInfof(a.ctx, "[OpenDocument] %s (%d components)", id, len(v.Components))
	return v, nil
}

// SaveDocument writes the open document now instead of waiting for autosave.
func (a *App) SaveDocument() error {
	if id := a.active(); id != "" {
		return a.docs.Save(a.ctx, id)
	}
	return nil
}

// GetViewState returns the render state of the open document.
func (a *App) GetViewState() (ViewState, error) {
	var v ViewState
	err := a.withActive(func(w *service.Workspace) error {
		v = viewState(w)
		return nil
	})
	return v, err
}

// GetSettings returns the editor settings from the current config.
func (a *App) GetSettings() EditorSettings {
	a.mu.Lock()
	cfg := a.cfg
	a.mu.Unlock()
	return EditorSettings{
		MinZoom:    cfg.Viewport.MinZoom,
		MaxZoom:    cfg.Viewport.MaxZoom,
		SnapToGrid: cfg.Interaction.SnapToGrid,
		GridSize:   cfg.Interaction.GridSize,
		MinSize:    cfg.Interaction.MinSize,
	}
}
