package graph

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/deferred"
	"github.com/specialistvlad/pingraph/internal/ident"
)

// Graph owns the nodes, pins and links of one editor document together with
// its deferred work.
type Graph struct {
	name   string
	path   string
	logger *slog.Logger

	ids   *ident.Allocator
	nodes map[ident.ID]*Node
	order []ident.ID
	pins  map[ident.ID]*Pin
	links map[ident.ID]*Link
	view  View

	oneShot    deferred.Queue
	persistent deferred.Registry
}

// New creates an empty graph bound to a logical name and a document path.
// The logger is taken from ctx.
func New(ctx context.Context, name, path string) *Graph {
	return &Graph{
		name:   name,
		path:   path,
		logger: ctxlog.FromContext(ctx).With("graph", name),
		ids:    ident.NewAllocator(),
		nodes:  make(map[ident.ID]*Node),
		pins:   make(map[ident.ID]*Pin),
		links:  make(map[ident.ID]*Link),
		view:   DefaultView(),
	}
}

// Name returns the graph's logical name.
func (g *Graph) Name() string { return g.name }

// Path returns the document location the graph loads from and saves to.
func (g *Graph) Path() string { return g.path }

// Logger returns the graph-scoped logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// View returns the editor camera.
func (g *Graph) View() View { return g.view }

// SetView replaces the editor camera.
func (g *Graph) SetView(v View) { g.view = v }

// NextID returns the ID the next spawned object will receive.
func (g *Graph) NextID() ident.ID { return g.ids.Peek() }

// Node looks up a node by ID.
func (g *Graph) Node(id ident.ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Pin looks up any pin, root or nested, by ID.
func (g *Graph) Pin(id ident.ID) (*Pin, bool) {
	p, ok := g.pins[id]
	return p, ok
}

// Link looks up a link by ID.
func (g *Graph) Link(id ident.ID) (*Link, bool) {
	l, ok := g.links[id]
	return l, ok
}

// Nodes returns the nodes in creation order. The slice is a snapshot.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Links returns the links ordered by ID. The slice is a snapshot.
func (g *Graph) Links() []*Link {
	out := make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b *Link) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) PinCount() int  { return len(g.pins) }
func (g *Graph) LinkCount() int { return len(g.links) }

// ReplaceWith swaps the contents of g and candidate: nodes, pins, links, view
// and the identifier counter. Each graph keeps its own name, path and logger,
// and every node is repointed at the graph that now holds it. Deferred work
// on g is dropped because its IDs refer to the old contents.
func (g *Graph) ReplaceWith(candidate *Graph) {
	if candidate == g {
		return
	}
	g.ids, candidate.ids = candidate.ids, g.ids
	g.nodes, candidate.nodes = candidate.nodes, g.nodes
	g.order, candidate.order = candidate.order, g.order
	g.pins, candidate.pins = candidate.pins, g.pins
	g.links, candidate.links = candidate.links, g.links
	g.view, candidate.view = candidate.view, g.view

	for _, n := range g.nodes {
		n.graph = g
	}
	for _, n := range candidate.nodes {
		n.graph = candidate
	}

	dropped := g.oneShot.Len() + g.persistent.Len()
	g.oneShot = deferred.Queue{}
	g.persistent = deferred.Registry{}

	g.logger.Debug("Graph contents swapped.",
		"nodes", len(g.nodes), "pins", len(g.pins), "links", len(g.links),
		"next_id", g.ids.Peek().String(), "dropped_actions", dropped)
}

func (g *Graph) mustPin(id ident.ID) *Pin {
	p, ok := g.pins[id]
	if !ok {
		panic(fmt.Sprintf("graph %q: dangling pin handle %s", g.name, id))
	}
	return p
}

// allocate issues a fresh ID. A collision with a live object means the
// allocator or a swap is broken, which is not recoverable.
func (g *Graph) allocate() ident.ID {
	id := g.ids.Next()
	if g.inUse(id) {
		panic(fmt.Sprintf("graph %q: allocator issued live identifier %s", g.name, id))
	}
	return id
}

func (g *Graph) inUse(id ident.ID) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	if _, ok := g.pins[id]; ok {
		return true
	}
	_, ok := g.links[id]
	return ok
}
