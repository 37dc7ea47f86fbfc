package app

import (
	"context"
	"log"
	"sync"
	"time"
)

const externalPollInterval = 2 * time.Second

// externalChecker reloads a workspace when its stored copy changed under it.
type externalChecker interface {
	CheckExternal(ctx context.Context, id string) (bool, error)
}

// documentWatcher polls the database for changes to the open document,
// detecting external modifications (e.g. from the standalone MCP process).
// The service reloads the workspace and emits document:external-change so
// the frontend refreshes.
type documentWatcher struct {
	ctx      context.Context
	docs     externalChecker
	interval time.Duration

	mu     sync.Mutex
	docID  string
	stopCh chan struct{}
	done   chan struct{}
}

func newDocumentWatcher(ctx context.Context, docs externalChecker, interval time.Duration) *documentWatcher {
	return &documentWatcher{ctx: ctx, docs: docs, interval: interval}
}

// SetDocument updates the watched document. An empty id pauses polling.
func (w *documentWatcher) SetDocument(id string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.docID = id
	w.mu.Unlock()
}

// Start begins the polling loop. Should be called once on app startup.
func (w *documentWatcher) Start() {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop and waits for it to exit.
func (w *documentWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		<-w.done
		w.stopCh = nil
	}
}

func (w *documentWatcher) pollLoop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *documentWatcher) check() {
	w.mu.Lock()
	id := w.docID
	w.mu.Unlock()
	if id == "" {
		return
	}
	reloaded, err := w.docs.CheckExternal(w.ctx, id)
	if err != nil {
		log.Printf("document watcher: check %s: %v", id, err)
		return
	}
	if reloaded {
		log.Printf("document watcher: %s changed externally, reloaded", id)
	}
}
