package service

import (
	"context"
	"sync"

	"canvas/internal/diag"
)

// ExportedSaveGuard is an exported alias so _test packages can test the guard.
type ExportedSaveGuard = saveGuard

// saveGuard runs at most one save per document. A save requested while one
// is running is queued instead of dropped: Done reports it, and the running
// saver writes once more so edits that landed after its snapshot persist.
type saveGuard struct {
	mu      sync.Mutex
	pending map[string]bool // running doc id -> another save was requested
	wg      sync.WaitGroup
	log     *diag.Logger
}

// Begin marks a save of id as running. It returns false, and queues a
// follow-up, when one already is.
func (g *saveGuard) Begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		g.pending = make(map[string]bool)
	}
	if _, running := g.pending[id]; running {
		if !g.pending[id] {
			g.log.Debugf("[service] save of %s already running, queued", id)
		}
		g.pending[id] = true
		return false
	}
	g.pending[id] = false
	g.wg.Add(1)
	return true
}

// Done ends the save of id started by Begin and reports whether another
// save was queued meanwhile.
func (g *saveGuard) Done(id string) (again bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	again = g.pending[id]
	delete(g.pending, id)
	g.wg.Done()
	return again
}

// Running reports whether a save of id is in progress.
func (g *saveGuard) Running(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[id]
	return ok
}

// WaitAll blocks until all running saves complete or ctx is cancelled. It
// returns false when ctx ended first.
func (g *saveGuard) WaitAll(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		g.mu.Lock()
		n := len(g.pending)
		g.mu.Unlock()
		g.log.Errorf("[service] gave up waiting for %d running save(s): %v", n, ctx.Err())
		return false
	}
}
