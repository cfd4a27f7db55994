package persist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

// ErrMalformed is returned when a document cannot describe a valid graph.
var ErrMalformed = errors.New("malformed document")

// ErrInputLinked marks a link skipped because an earlier link in the same
// document already feeds its destination.
var ErrInputLinked = errors.New("input already has a link")

// Report summarises a decode. Links whose paths do not resolve or which the
// graph refuses, including a second link into one input, are skipped and
// listed here instead of failing the load, as are pin contents the value
// layer cannot read back.
type Report struct {
	Nodes   int
	Pins    int
	Links   int
	skipped *multierror.Error
}

// Skipped returns the reason for every dropped link or content.
func (r Report) Skipped() []error {
	if r.skipped == nil {
		return nil
	}
	return r.skipped.Errors
}

// Err combines the skip reasons, or returns nil when nothing was skipped.
func (r Report) Err() error {
	return r.skipped.ErrorOrNil()
}

func (r *Report) skip(err error) {
	r.skipped = multierror.Append(r.skipped, err)
}

// Decode builds a new graph named name from doc. Node IDs are reserved before
// any pin or link is created, so fresh IDs never collide with a node read
// later. The returned graph has passed Validate.
func Decode(ctx context.Context, name, path string, doc *Document, rt value.Runtime) (*graph.Graph, Report, error) {
	var rep Report
	if doc == nil {
		return nil, rep, fmt.Errorf("decode %q: empty document: %w", name, ErrMalformed)
	}
	logger := ctxlog.FromContext(ctx).With("graph", name)
	g := graph.New(ctx, name, path)

	keys, err := sortedNodeKeys(doc.Nodes)
	if err != nil {
		return nil, rep, fmt.Errorf("decode %q: %w", name, err)
	}
	for _, k := range keys {
		nd := doc.Nodes[k.raw]
		if nd == nil {
			return nil, rep, fmt.Errorf("decode %q: node %s is empty: %w", name, k.id, ErrMalformed)
		}
		pos, err := vec2(nd.UIPos)
		if err != nil {
			return nil, rep, fmt.Errorf("decode %q: node %s uipos: %w", name, k.id, err)
		}
		if _, err := g.SpawnNodeWithID(k.id, nd.Name, graph.NodeType(nd.Type), pos); err != nil {
			return nil, rep, fmt.Errorf("decode %q: %w", name, err)
		}
		rep.Nodes++
	}

	d := decoder{g: g, rt: rt, rep: &rep}
	for _, k := range keys {
		nd := doc.Nodes[k.raw]
		if err := d.roots(k.id, graph.Input, nd.Inputs); err != nil {
			return nil, rep, fmt.Errorf("decode %q: node %s inputs: %w", name, k.id, err)
		}
		if err := d.roots(k.id, graph.Output, nd.Outputs); err != nil {
			return nil, rep, fmt.Errorf("decode %q: node %s outputs: %w", name, k.id, err)
		}
	}

	for i, ld := range doc.Links {
		if err := d.link(ld); err != nil {
			rep.skip(fmt.Errorf("link %d (%s -> %s): %w", i, ld.Src, ld.Dst, err))
			logger.Warn("Skipping link.", "src", ld.Src, "dst", ld.Dst, "error", err)
			continue
		}
		rep.Links++
	}

	if doc.View != nil {
		v, err := view(doc.View)
		if err != nil {
			return nil, rep, fmt.Errorf("decode %q: view: %w", name, err)
		}
		g.SetView(v)
	}

	if err := g.Validate(); err != nil {
		return nil, rep, fmt.Errorf("decode %q: decoded graph is inconsistent: %w", name, err)
	}
	logger.Debug("Document decoded.", "nodes", rep.Nodes, "pins", rep.Pins, "links", rep.Links,
		"skipped", len(rep.Skipped()))
	return g, rep, nil
}

type decoder struct {
	g   *graph.Graph
	rt  value.Runtime
	rep *Report
}

func (d *decoder) roots(node ident.ID, kind graph.PinKind, entries []PinEntry) error {
	for _, entry := range entries {
		name, pd, err := unwrap(entry)
		if err != nil {
			return err
		}
		typ, err := pinType(name, pd)
		if err != nil {
			return err
		}
		p, err := d.g.SpawnPin(node, kind, name, typ)
		if err != nil {
			return badName(err)
		}
		if err := d.fill(p, pd); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) fill(p *graph.Pin, pd *PinDoc) error {
	d.rep.Pins++
	if pd.Content != nil {
		b, err := value.Decode(p.Type().ValueKind(), *pd.Content, d.rt)
		if err != nil {
			d.rep.skip(fmt.Errorf("content of pin %q: %w", p.Name(), err))
		} else if err := d.g.SetContents(p.ID(), b); err != nil {
			return err
		}
	}
	if len(pd.Children) > 0 && !p.Expandable() {
		return fmt.Errorf("pin %q of type %s has children: %w", p.Name(), p.Type(), ErrMalformed)
	}
	for _, entry := range pd.Children {
		name, cd, err := unwrap(entry)
		if err != nil {
			return err
		}
		typ, err := pinType(name, cd)
		if err != nil {
			return err
		}
		child, err := d.g.AppendChild(p.ID(), name, typ)
		if err != nil {
			return badName(err)
		}
		if err := d.fill(child, cd); err != nil {
			return err
		}
	}
	if pd.Expansion != nil && p.Expandable() {
		if err := d.g.SetExpanded(p.ID(), *pd.Expansion != 0); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) link(ld LinkDoc) error {
	src, err := ResolvePath(d.g, ld.Src, graph.Output)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := ResolvePath(d.g, ld.Dst, graph.Input)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if prev, ok := d.g.IncomingLink(dst.ID()); ok && prev.Source() != src.ID() {
		return fmt.Errorf("destination: %w", ErrInputLinked)
	}
	_, err = d.g.TrySpawnLink(src.ID(), dst.ID())
	return err
}

// badName marks pin names a path could not address as a malformed document.
func badName(err error) error {
	if errors.Is(err, graph.ErrDuplicateName) || errors.Is(err, graph.ErrInvalidName) {
		return fmt.Errorf("%w: %w", err, ErrMalformed)
	}
	return err
}

func unwrap(entry PinEntry) (string, *PinDoc, error) {
	if len(entry) != 1 {
		return "", nil, fmt.Errorf("pin entry has %d names, want 1: %w", len(entry), ErrMalformed)
	}
	for name, pd := range entry {
		if pd == nil {
			return "", nil, fmt.Errorf("pin %q has no body: %w", name, ErrMalformed)
		}
		return name, pd, nil
	}
	panic("unreachable")
}

func pinType(name string, pd *PinDoc) (graph.PinType, error) {
	t := graph.PinType(pd.Type)
	if !t.Valid() {
		return 0, fmt.Errorf("pin %q has unknown type %d: %w", name, pd.Type, ErrMalformed)
	}
	return t, nil
}

type nodeKey struct {
	id  ident.ID
	raw string
}

// sortedNodeKeys parses every node key and orders them by ID. Any key that
// is not a positive integer fails the whole document.
func sortedNodeKeys(nodes map[string]*NodeDoc) ([]nodeKey, error) {
	keys := make([]nodeKey, 0, len(nodes))
	seen := make(map[ident.ID]string, len(nodes))
	for raw := range nodes {
		id, err := ident.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("node key %q: %w: %w", raw, err, ErrMalformed)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("node keys %q and %q name the same id: %w", prev, raw, ErrMalformed)
		}
		seen[id] = raw
		keys = append(keys, nodeKey{id: id, raw: raw})
	}
	slices.SortFunc(keys, func(a, b nodeKey) int { return cmp.Compare(a.id, b.id) })
	return keys, nil
}

func vec2(xs []float64) (graph.Vec2, error) {
	switch len(xs) {
	case 0:
		return graph.Vec2{}, nil
	case 2:
		return graph.Vec2{X: xs[0], Y: xs[1]}, nil
	default:
		return graph.Vec2{}, fmt.Errorf("want 2 coordinates, got %d: %w", len(xs), ErrMalformed)
	}
}

func view(vd *ViewDoc) (graph.View, error) {
	v := graph.DefaultView()
	var err error
	if v.Scroll, err = vec2(vd.Scroll); err != nil {
		return v, err
	}
	if vd.Zoom > 0 {
		v.Zoom = vd.Zoom
	}
	if v.Visible.Min, err = vec2(vd.VisibleRect.Min); err != nil {
		return v, err
	}
	if v.Visible.Max, err = vec2(vd.VisibleRect.Max); err != nil {
		return v, err
	}
	return v, nil
}
