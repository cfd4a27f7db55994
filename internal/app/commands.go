package app

import (
	"fmt"

	"github.com/specialistvlad/pingraph/internal/surface/sio"
)

// Command queues a save or reload of an open graph. It runs at the start of
// the next frame, on the frame loop, so the graph is never touched while a
// pass is drawing it.
func (a *App) Command(cmd sio.Command) error {
	if _, ok := a.workspace.Get(cmd.Graph); !ok {
		return fmt.Errorf("%s %q: %w", cmd.Name, cmd.Graph, sio.ErrUnknownGraph)
	}
	switch cmd.Name {
	case sio.CommandSave, sio.CommandReload:
	default:
		return fmt.Errorf("%w %q", sio.ErrUnknownCommand, cmd.Name)
	}

	a.cmdMu.Lock()
	a.commands = append(a.commands, cmd)
	a.cmdMu.Unlock()
	return nil
}

// runCommands executes the queued commands in arrival order. Failures are
// logged; a failed reload leaves the graph as it was.
func (a *App) runCommands() {
	a.cmdMu.Lock()
	queued := a.commands
	a.commands = nil
	a.cmdMu.Unlock()

	for _, cmd := range queued {
		logger := a.logger.With("graph", cmd.Graph, "command", cmd.Name)
		switch cmd.Name {
		case sio.CommandSave:
			if err := a.workspace.Save(a.ctx, cmd.Graph); err != nil {
				logger.Error("Save failed.", "error", err)
				continue
			}
			logger.Info("Graph saved.")
		case sio.CommandReload:
			rep, err := a.workspace.Reload(a.ctx, cmd.Graph)
			if err != nil {
				logger.Error("Reload failed.", "error", err)
				continue
			}
			for _, skipped := range rep.Skipped() {
				logger.Warn("Skipped part of the document.", "error", skipped)
			}
			logger.Info("Graph reloaded.", "nodes", rep.Nodes, "pins", rep.Pins, "links", rep.Links)
		}
	}
}
