package desktop

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// Window describes the main window.
type Window struct {
	Title  string
	Width  int
	Height int
}

// Run opens the window and blocks until it is closed.
func Run(win Window, app *App) error {
	return wails.Run(&options.App{
		Title:     win.Title,
		Width:     win.Width,
		Height:    win.Height,
		MinWidth:  320,
		MinHeight: 400,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 18, G: 18, B: 18, A: 255},

		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind:       []any{app},
	})
}
