package render

import (
	"errors"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

func (p *Pass) dispatch(g *graph.Graph, gs Gesture) {
	if err := gs.Validate(); err != nil {
		p.reject(gs, err)
		return
	}

	switch gs.Kind {
	// Applied directly: drawing for this frame is finished.
	case GestureDeleteNodes:
		for _, id := range gs.IDs {
			if err := g.RemoveNode(id); err != nil {
				p.reject(gs, err)
			}
		}
	case GestureDeleteLinks:
		for _, id := range gs.IDs {
			g.RemoveLink(id)
		}
	case GestureDeletePin:
		p.deletePin(g, gs)
	case GestureMove:
		if err := g.MoveNode(gs.Target, gs.Pos); err != nil {
			p.reject(gs, err)
		}
	case GestureView:
		g.SetView(*gs.View)
	case GestureRename:
		p.openRename(g, gs.Target)
	case GestureEdit:
		key := popupKey(gs.Target)
		if !g.HasPersistent(key) {
			p.reject(gs, errors.New("no popup is open for target"))
			return
		}
		p.edits[key] = gs

	// Queued for the drain.
	case GestureConnect:
		g.Defer(func(g *graph.Graph) {
			if _, err := g.TrySpawnLink(gs.From, gs.To); err != nil {
				p.reject(gs, err)
			}
		})
	case GestureGrow:
		g.Defer(func(g *graph.Graph) { p.grow(g, gs) })
	case GestureToggle:
		g.Defer(func(g *graph.Graph) {
			pin, ok := g.Pin(gs.Target)
			if !ok {
				p.reject(gs, graph.ErrNotFound)
				return
			}
			if err := g.SetExpanded(pin.ID(), !pin.Expanded()); err != nil {
				p.reject(gs, err)
			}
		})
	case GestureSetValue:
		g.Defer(func(g *graph.Graph) { p.setValue(g, gs) })
	}
}

func (p *Pass) reject(gs Gesture, err error) {
	if p.stats != nil {
		p.stats.Rejected++
	}
	p.logger.Debug("Gesture rejected.", "kind", string(gs.Kind), "error", err)
}

// grow inserts a child after gs.Anchor and links gs.From to it. The child is
// removed again if the link is refused, so a failed drop leaves no trace.
func (p *Pass) grow(g *graph.Graph, gs Gesture) {
	parent, ok := g.Pin(gs.Target)
	if !ok {
		p.reject(gs, graph.ErrNotFound)
		return
	}
	from, ok := g.Pin(gs.From)
	if !ok {
		p.reject(gs, graph.ErrNotFound)
		return
	}
	typ := from.Type()
	if typ.Compound() {
		typ = graph.PinObject
	}
	name := gs.Name
	if name == "" {
		free, err := g.FreeChildName(parent.ID())
		if err != nil {
			p.reject(gs, err)
			return
		}
		name = free
	}

	child, err := g.InsertAfter(parent.ID(), gs.Anchor, name, typ)
	if err != nil {
		p.reject(gs, err)
		return
	}
	if _, err := g.TrySpawnLink(from.ID(), child.ID()); err != nil {
		_ = g.RemovePin(child.ID())
		p.reject(gs, err)
		return
	}
	renumber(g, parent)
}

func (p *Pass) deletePin(g *graph.Graph, gs Gesture) {
	pin, ok := g.Pin(gs.Target)
	if !ok {
		p.reject(gs, graph.ErrNotFound)
		return
	}
	parentID := pin.Parent()
	if err := g.RemovePin(pin.ID()); err != nil {
		p.reject(gs, err)
		return
	}
	if parent, ok := g.Pin(parentID); ok {
		renumber(g, parent)
	}
}

// renumber names the children of a list pin after their positions. Dict
// children keep their names.
func renumber(g *graph.Graph, parent *graph.Pin) {
	if parent.Type() != graph.PinList {
		return
	}
	_ = g.RenumberChildren(parent.ID())
}

func (p *Pass) setValue(g *graph.Graph, gs Gesture) {
	pin, ok := g.Pin(gs.Target)
	if !ok {
		p.reject(gs, graph.ErrNotFound)
		return
	}
	if b := pin.Contents(); b != nil {
		if err := b.Set(cty.StringVal(gs.Text)); err != nil {
			p.reject(gs, err)
		}
		return
	}
	b, err := value.Decode(pin.Type().ValueKind(), gs.Text, nil)
	if err != nil {
		p.reject(gs, err)
		return
	}
	if err := g.SetContents(pin.ID(), b); err != nil {
		p.reject(gs, err)
	}
}

func popupKey(target ident.ID) string {
	return "rename:" + target.String()
}
