package app

import (
	"fmt"
	"os"

	"github.com/specialistvlad/pingraph/internal/fsutil"
	"github.com/specialistvlad/pingraph/internal/render"
	"github.com/specialistvlad/pingraph/internal/surface"
)

// LoadGraphs opens every configured source into the workspace and attaches
// a recorder and a render pass to each graph.
func (app *App) LoadGraphs() error {
	logger := app.logger
	logger.Debug("Loading graphs...", "sources", len(app.config.Graphs))

	for _, src := range app.config.Graphs {
		names, err := app.open(src)
		if err != nil {
			return err
		}
		for _, name := range names {
			app.attach(name)
		}
	}

	logger.Info("Graphs loaded successfully.", "graphs", app.workspace.Names())
	return nil
}

func (app *App) open(src GraphSource) ([]string, error) {
	info, err := os.Stat(src.Path)
	if err == nil && info.IsDir() {
		names, err := app.workspace.OpenDir(app.ctx, src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load graphs from %s: %w", src.Path, err)
		}
		return names, nil
	}

	name := src.Name
	if name == "" {
		name = fsutil.BaseName(src.Path)
	}
	_, rep, err := app.workspace.Open(app.ctx, name, src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %q: %w", name, err)
	}
	for _, skipped := range rep.Skipped() {
		app.logger.Warn("Skipped part of the document.", "graph", name, "error", skipped)
	}
	app.logger.Debug("Graph loaded.", "graph", name, "nodes", rep.Nodes, "pins", rep.Pins, "links", rep.Links)
	return []string{name}, nil
}

func (app *App) attach(name string) {
	ctx := app.ctx
	rec := surface.NewRecorder(name)
	v := &view{
		name:     name,
		recorder: rec,
		pass:     render.NewPass(ctx, rec),
	}

	app.mu.Lock()
	app.views = append(app.views, v)
	app.mu.Unlock()

	if app.sio != nil {
		app.sio.Attach(name, rec)
	}
}
