package render

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
)

// Stats describes one frame.
type Stats struct {
	Frame        uint64 `json:"frame"`
	Nodes        int    `json:"nodes"`
	Pins         int    `json:"pins"`
	HiddenPins   int    `json:"hidden_pins"`
	Edges        int    `json:"edges"`
	MergedEdges  int    `json:"merged_edges"`
	Popups       int    `json:"popups"`
	Gestures     int    `json:"gestures"`
	Rejected     int    `json:"rejected"`
	DeferredRuns int    `json:"deferred_runs"`
}

type anchorPair struct {
	from, to ident.ID
}

// Pass renders frames of one graph onto one surface. It is not safe for
// concurrent use.
type Pass struct {
	surface Surface
	logger  *slog.Logger
	frame   uint64

	// drawn is rebuilt for every frame.
	drawn map[anchorPair]struct{}
	// edits holds popup input until the popup's persistent action reads it.
	edits map[string]Gesture
	stats *Stats
}

// NewPass returns a pass drawing on s.
func NewPass(ctx context.Context, s Surface) *Pass {
	return &Pass{
		surface: s,
		logger:  ctxlog.FromContext(ctx).With("component", "render"),
		edits:   make(map[string]Gesture),
	}
}

// Frame renders g once and applies the interactions the surface reports.
//
// The order is fixed: draw nodes and pins, draw edges, run persistent popup
// actions, close the frame, handle gestures, then drain the deferred queue.
// Deletions are applied directly once drawing is over; every other edit is
// queued and applied by the drain.
func (p *Pass) Frame(g *graph.Graph) Stats {
	p.frame++
	stats := Stats{Frame: p.frame}
	p.stats = &stats
	defer func() { p.stats = nil }()
	p.drawn = make(map[anchorPair]struct{})

	p.surface.Begin(g.View())
	for _, n := range g.Nodes() {
		p.surface.DrawNode(NodeShape{ID: n.ID(), Name: n.Name(), Type: n.Type(), Pos: n.Position()})
		stats.Nodes++
		for _, pin := range n.Inputs() {
			p.drawPin(g, pin, 0, false)
		}
		for _, pin := range n.Outputs() {
			p.drawPin(g, pin, 0, false)
		}
	}
	for _, l := range g.Links() {
		p.drawEdge(g, l)
	}
	g.RunPersistent()

	gestures := p.surface.End()
	stats.Gestures = len(gestures)
	for _, gs := range gestures {
		p.dispatch(g, gs)
	}
	stats.DeferredRuns = g.DrainDeferred()

	p.logger.Debug("Frame rendered.", "frame", stats.Frame, "nodes", stats.Nodes,
		"edges", stats.Edges, "merged", stats.MergedEdges, "gestures", stats.Gestures)
	return stats
}

func (p *Pass) drawPin(g *graph.Graph, pin *graph.Pin, depth int, hidden bool) {
	if hidden {
		p.stats.HiddenPins++
	} else {
		shape := PinShape{
			ID:         pin.ID(),
			Node:       pin.Node(),
			Parent:     pin.Parent(),
			Name:       pin.Name(),
			Kind:       pin.Kind().String(),
			Type:       pin.Type().String(),
			Depth:      depth,
			Expandable: pin.Expandable(),
			Expanded:   pin.Expanded(),
			Linked:     pin.LinkCount() > 0,
		}
		if b := pin.Contents(); b != nil && b.HasValue() {
			shape.Display = b.Display()
		}
		p.surface.DrawPin(shape)
		p.stats.Pins++
	}
	childrenHidden := hidden || !pin.Expanded()
	for _, id := range pin.Children() {
		child, ok := g.Pin(id)
		if !ok {
			continue
		}
		p.drawPin(g, child, depth+1, childrenHidden)
	}
}

// drawEdge draws l between the visible anchors of its endpoints. Several
// links hidden in the same collapsed pins share one edge per frame.
func (p *Pass) drawEdge(g *graph.Graph, l *graph.Link) {
	from := g.VisibleAnchor(l.Source())
	to := g.VisibleAnchor(l.Destination())
	key := anchorPair{from: from, to: to}
	if _, dup := p.drawn[key]; dup {
		p.stats.MergedEdges++
		return
	}
	p.drawn[key] = struct{}{}
	p.surface.DrawEdge(EdgeShape{
		Link:     l.ID(),
		From:     from,
		To:       to,
		Anchored: from != l.Source() || to != l.Destination(),
	})
	p.stats.Edges++
}
