package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/render"
	"github.com/specialistvlad/pingraph/internal/surface"
	"github.com/specialistvlad/pingraph/internal/surface/sio"
	"github.com/specialistvlad/pingraph/internal/value"
	"github.com/specialistvlad/pingraph/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	ctx    context.Context
	logger *slog.Logger
	config *Config

	workspace *workspace.Workspace
	sio       *sio.Server

	mu    sync.RWMutex
	views []*view

	cmdMu    sync.Mutex
	commands []sio.Command

	httpServer   *http.Server
	healthServer *http.Server
}

// view is one open graph together with the surface it is drawn on.
type view struct {
	name     string
	recorder *surface.Recorder
	pass     *render.Pass
	last     render.Stats
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger; nothing is opened until Run. rt revives
// external pin contents and may be nil.
func NewApp(outW io.Writer, cfg *Config, rt value.Runtime) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:      outW,
		ctx:       ctx,
		logger:    logger,
		config:    cfg,
		workspace: workspace.New(rt),
	}
}

// Workspace returns the application's workspace. This is primarily for testing.
func (a *App) Workspace() *workspace.Workspace {
	return a.workspace
}

// Recorder returns the surface the named graph is drawn on.
func (a *App) Recorder(name string) (*surface.Recorder, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, v := range a.views {
		if v.name == name {
			return v.recorder, true
		}
	}
	return nil, false
}

// Stats returns the statistics of the last frame drawn for the named graph.
func (a *App) Stats(name string) (render.Stats, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, v := range a.views {
		if v.name == name {
			return v.last, true
		}
	}
	return render.Stats{}, false
}
