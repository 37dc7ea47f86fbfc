package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/logger"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"canvas/internal/config"
	"canvas/internal/diag"
	"canvas/internal/service"
	"canvas/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	cfgPath  string
	cfg      *config.Config
	log      *diag.Logger
	db       *storage.DB
	docs     *service.DocumentService
	settings *service.SettingsService
	watcher  *documentWatcher

	mu       sync.Mutex
	activeID string // document shown in the window
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// New opens storage and builds the services. Runtime-bound pieces (events,
// autosave, watchers) start in Startup.
func New(cfg *config.Config, cfgPath string, out logger.Logger) (*App, error) {
	db, err := storage.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	lg := diag.New(out, diag.ParseLevel(cfg.Log.Level))
	docs := service.NewDocumentService(
		storage.NewDocumentStore(db),
		storage.NewHistoryStore(db, cfg.History.Limit),
		wailsEmitter{},
		cfg,
		lg,
	)
	return &App{
		cfgPath:  cfgPath,
		cfg:      cfg,
		log:      lg,
		db:       db,
		docs:     docs,
		settings: service.NewSettingsService(db.Conn()),
	}, nil
}

// WindowSize is the size the window had at the last shutdown.
func (a *App) WindowSize() service.WindowSize {
	return a.settings.LoadWindowSize()
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.docs.StartAutosave(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "[Startup] autosave: %v", err)
	}

	go func() {
		err := config.Watch(ctx, a.cfgPath, func(cfg *config.Config) {
			a.mu.Lock()
			a.cfg = cfg
			a.mu.Unlock()
			if err := a.docs.ApplyConfig(ctx, cfg); err != nil {
				wailsRuntime.LogErrorf(ctx, "[Config] apply: %v", err)
				return
			}
			wailsRuntime.LogInfof(ctx, "[Config] reloaded %s", a.cfgPath)
		})
		if err != nil {
			wailsRuntime.LogErrorf(ctx, "[Config] watch: %v", err)
		}
	}()

	a.watcher = newDocumentWatcher(ctx, a.docs, externalPollInterval)
	a.watcher.Start()

	// Reopen the document from the previous session
	if id := a.settings.LastDocument(); id != "" {
		if _, err := a.OpenDocument(id); err != nil {
			wailsRuntime.LogInfof(ctx, "[Startup] last document %s not reopened: %v", id, err)
		}
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if w, h := wailsRuntime.WindowGetSize(ctx); w > 0 && h > 0 {
		if err := a.settings.SaveWindowSize(w, h); err != nil {
			wailsRuntime.LogErrorf(ctx, "[Shutdown] window size: %v", err)
		}
	}
	if err := a.settings.SetLastDocument(a.active()); err != nil {
		wailsRuntime.LogErrorf(ctx, "[Shutdown] last document: %v", err)
	}
	if err := a.docs.Shutdown(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "[Shutdown] save: %v", err)
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) active() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID
}

// withActive runs fn on the workspace shown in the window.
func (a *App) withActive(fn func(*service.Workspace) error) error {
	id := a.active()
	if id == "" {
		return fmt.Errorf("no document open")
	}
	return a.docs.With(a.ctx, id, fn)
}
