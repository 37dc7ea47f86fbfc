package main

import (
	"embed"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	canvasApp "canvas/internal/app"
	"canvas/internal/config"
	"canvas/internal/diag"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var out logger.Logger = logger.NewDefaultLogger()
	if cfg.Log.File != "" {
		out = logger.NewFileLogger(cfg.Log.File)
	}

	// `canvas mcp` serves the MCP tools on stdio without opening a window
	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		canvasApp.ServeMCP(cfg, out)
		return
	}

	app, err := canvasApp.New(cfg, cfgPath, out)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	size := app.WindowSize()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	err = wails.Run(&options.App{
		Title:     "Canvas",
		Width:     size.Width,
		Height:    size.Height,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:             appMenu,
		Logger:           out,
		LogLevel:         diag.ParseLevel(cfg.Log.Level),
		OnStartup:        app.Startup,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				HideTitleBar:               false,
				FullSizeContent:            true,
				UseToolbar:                 true,
				HideToolbarSeparator:       true,
			},
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   "Canvas",
				Message: "Visual canvas editor",
			},
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
