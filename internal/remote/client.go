// Package remote is a socket.io client for a running editor. It receives
// frames and can inject gestures, which is how the -watch mode works.
package remote

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/render"
	"github.com/specialistvlad/pingraph/internal/surface"
	"github.com/specialistvlad/pingraph/internal/surface/sio"
)

// ConnectTimeout bounds how long Dial waits for the handshake.
const ConnectTimeout = 15 * time.Second

// Options configures Dial.
type Options struct {
	Namespace          string
	InsecureSkipVerify bool
	// Buffer is the number of frames kept when the reader falls behind.
	// Older frames are dropped first.
	Buffer int
}

// Client is a connected editor client.
type Client struct {
	io     *socket.Socket
	logger *slog.Logger
	frames chan surface.Frame
	graphs chan []string
}

// Dial connects to the editor at rawURL, for example
// "http://localhost:7000/socket.io/".
func Dial(ctx context.Context, rawURL string, o Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("component", "remote", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if o.Buffer <= 0 {
		o.Buffer = 16
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	c := &Client{
		io:     io,
		logger: logger,
		frames: make(chan surface.Frame, o.Buffer),
		graphs: make(chan []string, 1),
	}
	io.On(types.EventName(sio.EventFrame), c.onFrame)
	io.On(types.EventName(sio.EventGraphs), c.onGraphs)
	io.On(types.EventName(sio.EventError), func(args ...any) {
		logger.Warn("Editor refused a gesture.", "reason", fmt.Sprint(args...))
	})

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connected <- err
	})

	io.Connect()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}
}

// Frames delivers decoded frames from every graph the editor serves.
func (c *Client) Frames() <-chan surface.Frame { return c.frames }

// Graphs delivers the list of graph names sent on connect.
func (c *Client) Graphs() <-chan []string { return c.graphs }

// Send injects a gesture into the named graph. An empty name targets the
// editor's first graph.
func (c *Client) Send(graph string, g render.Gesture) error {
	if err := g.Validate(); err != nil {
		return err
	}
	payload := struct {
		Graph string `json:"graph,omitempty"`
		render.Gesture
	}{Graph: graph, Gesture: g}
	return c.io.Emit(sio.EventGesture, payload)
}

// Close disconnects from the editor.
func (c *Client) Close() {
	c.io.Disconnect()
}

func (c *Client) onFrame(args ...any) {
	for _, arg := range args {
		f, err := DecodeFrame(arg)
		if err != nil {
			c.logger.Warn("Dropping undecodable frame.", "error", err)
			continue
		}
		select {
		case c.frames <- f:
		default:
			select {
			case <-c.frames:
			default:
			}
			select {
			case c.frames <- f:
			default:
			}
		}
	}
}

func (c *Client) onGraphs(args ...any) {
	if len(args) == 0 {
		return
	}
	var names []string
	if err := mapstructure.Decode(args[0], &names); err != nil {
		c.logger.Warn("Dropping undecodable graph list.", "error", err)
		return
	}
	select {
	case c.graphs <- names:
	default:
	}
}

// DecodeFrame converts an untyped frame payload back into a Frame.
func DecodeFrame(raw any) (surface.Frame, error) {
	var f surface.Frame
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &f,
	})
	if err != nil {
		return f, err
	}
	if err := dec.Decode(raw); err != nil {
		return f, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}
