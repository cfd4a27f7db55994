package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/remote"
	"github.com/specialistvlad/pingraph/internal/surface/sio"
)

// Run executes the editor session until ctx is cancelled or the configured
// number of frames has been drawn. Open graphs are saved on the way out when
// autosave is enabled, even if the loop stopped because of ctx.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Watch != "" {
		a.logger.Info("Watching remote editor.", "url", a.config.Watch)
		return remote.Watch(ctx, a.config.Watch, a.outW)
	}

	a.healthCheckServer()
	if a.config.Listen != "" {
		a.sio = sio.NewServer(a.ctx)
		a.sio.HandleCommands(a.Command)
	}
	if err := a.LoadGraphs(); err != nil {
		return errors.Join(err, a.shutdown(ctx, false))
	}
	if a.config.Listen != "" {
		if err := a.serve(); err != nil {
			return errors.Join(err, a.shutdown(ctx, false))
		}
	}

	a.logger.Info("🚀 Frame loop starting.", "fps", a.config.FPS, "graphs", len(a.views))
	frames := a.loop(ctx)
	a.logger.Info("🏁 Frame loop finished.", "frames", frames)

	return a.shutdown(ctx, a.config.Autosave)
}

// loop draws every graph once per tick and returns the number of ticks.
func (a *App) loop(ctx context.Context) int {
	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	frames := 0
	for {
		a.tick()
		frames++
		if a.config.MaxFrames > 0 && frames >= a.config.MaxFrames {
			return frames
		}
		select {
		case <-ctx.Done():
			return frames
		case <-ticker.C:
		}
	}
}

func (a *App) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runCommands()
	for _, v := range a.views {
		g, ok := a.workspace.Get(v.name)
		if !ok {
			continue
		}
		v.last = v.pass.Frame(g)
		if v.last.Rejected > 0 {
			a.logger.Debug("Gestures rejected.", "graph", v.name, "frame", v.last.Frame, "count", v.last.Rejected)
		}
	}
}

// serve binds the editor listener and serves socket.io and /health on it.
func (a *App) serve() error {
	ln, err := net.Listen("tcp", a.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Listen, err)
	}

	mux := http.NewServeMux()
	mux.Handle(sio.Path, a.sio.Handler())
	mux.HandleFunc("/health", a.healthHandler)
	a.httpServer = &http.Server{Handler: mux}

	go func() {
		a.logger.Info("Editor endpoint listening.", "address", ln.Addr().String())
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Editor endpoint failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// shutdown stops the servers and, if save is set, writes every open graph.
func (a *App) shutdown(ctx context.Context, save bool) error {
	var result *multierror.Error
	if err := a.shutdownServer("editor", a.httpServer); err != nil {
		result = multierror.Append(result, err)
	}
	if a.sio != nil {
		a.sio.Close()
	}
	if err := a.shutdownServer("health", a.healthServer); err != nil {
		result = multierror.Append(result, err)
	}
	if save {
		a.logger.Info("Saving open graphs.", "graphs", a.workspace.Names())
		if err := a.workspace.SaveAll(context.WithoutCancel(ctx)); err != nil {
			result = multierror.Append(result, fmt.Errorf("autosave: %w", err))
		}
	}
	return result.ErrorOrNil()
}
