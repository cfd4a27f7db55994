// Package sio serves recorded frames to browser clients over socket.io and
// feeds their gestures back into the recorders.
package sio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/surface"
)

// Event names used on the wire.
const (
	EventFrame   = "frame"
	EventGesture = "gesture"
	EventError   = "gesture_error"
	EventGraphs  = "graphs"
	EventCommand = "command"
)

// Whole-graph commands a client may send on EventCommand.
const (
	CommandSave   = "save"
	CommandReload = "reload"
)

// Path is where Handler expects to be mounted.
const Path = "/socket.io/"

// ErrUnknownGraph is returned for gestures addressed to a graph that has no
// recorder attached.
var ErrUnknownGraph = errors.New("unknown graph")

// ErrUnknownCommand is returned for command payloads naming no known command.
var ErrUnknownCommand = errors.New("unknown command")

// Command asks for a whole graph to be saved or reloaded.
type Command struct {
	Graph string
	Name  string
}

// Server broadcasts every frame of every attached recorder and routes
// incoming gestures to the recorder of the graph they name.
type Server struct {
	io     *socket.Server
	logger *slog.Logger

	mu        sync.RWMutex
	recorders map[string]*surface.Recorder
	order     []string
	commands  func(Command) error
}

// NewServer creates a socket.io server with default options.
func NewServer(ctx context.Context) *Server {
	s := &Server{
		io:        socket.NewServer(nil, nil),
		logger:    ctxlog.FromContext(ctx).With("component", "sio"),
		recorders: make(map[string]*surface.Recorder),
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.onConnect(client)
	})
	return s
}

// Attach publishes rec's frames under name and accepts gestures for it. The
// first attached graph receives gestures that name no graph.
func (s *Server) Attach(name string, rec *surface.Recorder) {
	s.mu.Lock()
	if _, exists := s.recorders[name]; !exists {
		s.order = append(s.order, name)
	}
	s.recorders[name] = rec
	s.mu.Unlock()

	rec.Subscribe(func(f surface.Frame) {
		s.io.Emit(EventFrame, f)
	})
	s.logger.Debug("Recorder attached.", "graph", name)
}

// HandleCommands installs fn as the receiver of client commands. Without a
// receiver every command is refused.
func (s *Server) HandleCommands(fn func(Command) error) {
	s.mu.Lock()
	s.commands = fn
	s.mu.Unlock()
}

// Graphs lists the attached graph names in attach order.
func (s *Server) Graphs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Handler returns the HTTP handler for the socket.io endpoint.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) onConnect(client *socket.Socket) {
	logger := s.logger.With("sid", string(client.Id()))
	logger.Info("Client connected.")

	if err := client.Emit(EventGraphs, s.Graphs()); err != nil {
		logger.Warn("Failed to send graph list.", "error", err)
	}
	for _, name := range s.Graphs() {
		if rec := s.recorder(name); rec != nil {
			if f := rec.Last(); f.Seq > 0 {
				_ = client.Emit(EventFrame, f)
			}
		}
	}

	client.On(EventGesture, func(datas ...any) {
		for _, data := range datas {
			if err := s.Route(data); err != nil {
				logger.Debug("Gesture refused.", "error", err)
				_ = client.Emit(EventError, err.Error())
			}
		}
	})
	client.On(EventCommand, func(datas ...any) {
		for _, data := range datas {
			if err := s.Command(data); err != nil {
				logger.Warn("Command refused.", "error", err)
				_ = client.Emit(EventError, err.Error())
			}
		}
	})
	client.On("disconnect", func(...any) {
		logger.Info("Client disconnected.")
	})
}

// Route queues one gesture payload. The payload is a map whose optional
// "graph" entry names the target graph; the rest is the gesture itself.
func (s *Server) Route(data any) error {
	payload, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("gesture payload is %T, want an object", data)
	}
	name, _ := payload["graph"].(string)
	body := make(map[string]any, len(payload))
	for k, v := range payload {
		if k != "graph" {
			body[k] = v
		}
	}

	rec := s.recorder(name)
	if rec == nil {
		return fmt.Errorf("%w %q", ErrUnknownGraph, name)
	}
	return rec.PushRaw(body)
}

// Command hands one command payload to the installed receiver. The payload
// is a map with a "command" entry and an optional "graph" entry; a missing
// graph means the first attached one.
func (s *Server) Command(data any) error {
	payload, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("command payload is %T, want an object", data)
	}
	cmd := Command{}
	cmd.Name, _ = payload["command"].(string)
	cmd.Graph, _ = payload["graph"].(string)
	if cmd.Name != CommandSave && cmd.Name != CommandReload {
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
	}

	s.mu.RLock()
	if cmd.Graph == "" && len(s.order) > 0 {
		cmd.Graph = s.order[0]
	}
	_, known := s.recorders[cmd.Graph]
	fn := s.commands
	s.mu.RUnlock()

	if !known {
		return fmt.Errorf("%w %q", ErrUnknownGraph, cmd.Graph)
	}
	if fn == nil {
		return fmt.Errorf("%s %q: no command receiver", cmd.Name, cmd.Graph)
	}
	return fn(cmd)
}

func (s *Server) recorder(name string) *surface.Recorder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" && len(s.order) > 0 {
		name = s.order[0]
	}
	return s.recorders[name]
}
