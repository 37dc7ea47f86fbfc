package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"canvas/internal/config"
	"canvas/internal/diag"
	mcpserver "canvas/internal/mcp"
	"canvas/internal/service"
	"canvas/internal/storage"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// Every tool call is saved immediately; a running GUI picks the change up
// through its document watcher.
func ServeMCP(cfg *config.Config, out logger.Logger) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	docs := service.NewDocumentService(
		storage.NewDocumentStore(db),
		storage.NewHistoryStore(db, cfg.History.Limit),
		nil, // no frontend to notify
		cfg,
		diag.New(out, diag.ParseLevel(cfg.Log.Level)),
	)
	defer func() {
		if err := docs.Shutdown(context.Background()); err != nil {
			log.Printf("[MCP] shutdown: %v", err)
		}
	}()

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{Documents: docs})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("MCP server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("[MCP] interrupted, shutting down")
	}
}
