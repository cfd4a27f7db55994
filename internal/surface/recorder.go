package surface

import (
	"slices"
	"sync"

	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/render"
)

// Frame is everything drawn in one pass.
type Frame struct {
	Seq    uint64              `json:"seq"`
	Graph  string              `json:"graph,omitempty"`
	View   graph.View          `json:"view"`
	Nodes  []render.NodeShape  `json:"nodes"`
	Pins   []render.PinShape   `json:"pins"`
	Edges  []render.EdgeShape  `json:"edges"`
	Popups []render.PopupShape `json:"popups"`
}

// Recorder is a render.Surface that stores frames instead of drawing them.
// Push may be called from any goroutine; the drawing methods belong to the
// frame loop.
type Recorder struct {
	name string

	mu      sync.Mutex
	seq     uint64
	cur     Frame
	last    Frame
	inbox   []render.Gesture
	sinks   []func(Frame)
	drawing bool
}

var _ render.Surface = (*Recorder)(nil)

// NewRecorder returns a recorder whose frames are labelled with graphName.
func NewRecorder(graphName string) *Recorder {
	return &Recorder{name: graphName}
}

// Subscribe registers fn to receive every completed frame. fn runs on the
// frame loop and must not block.
func (r *Recorder) Subscribe(fn func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, fn)
}

// Push queues gestures for the next End.
func (r *Recorder) Push(gs ...render.Gesture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inbox = append(r.inbox, gs...)
}

// Pending returns the number of queued gestures.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inbox)
}

// Last returns the most recently completed frame.
func (r *Recorder) Last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Recorder) Begin(view graph.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.cur = Frame{Seq: r.seq, Graph: r.name, View: view}
	r.drawing = true
}

func (r *Recorder) DrawNode(s render.NodeShape) { r.cur.Nodes = append(r.cur.Nodes, s) }

func (r *Recorder) DrawPin(s render.PinShape) { r.cur.Pins = append(r.cur.Pins, s) }

func (r *Recorder) DrawEdge(s render.EdgeShape) { r.cur.Edges = append(r.cur.Edges, s) }

func (r *Recorder) DrawPopup(s render.PopupShape) { r.cur.Popups = append(r.cur.Popups, s) }

// End publishes the frame to subscribers and hands back the queued gestures.
func (r *Recorder) End() []render.Gesture {
	r.mu.Lock()
	if !r.drawing {
		r.mu.Unlock()
		panic("surface: End called without Begin")
	}
	r.drawing = false
	r.last = r.cur
	r.cur = Frame{}
	frame := r.last
	sinks := slices.Clone(r.sinks)
	gestures := r.inbox
	r.inbox = nil
	r.mu.Unlock()

	for _, fn := range sinks {
		fn(frame)
	}
	return gestures
}
