package render

import (
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
)

// openRename registers a persistent action that draws a rename popup for a
// node or pin every frame until it is committed or cancelled.
func (p *Pass) openRename(g *graph.Graph, target ident.ID) {
	title, text, ok := renameTarget(g, target)
	if !ok {
		p.reject(Gesture{Kind: GestureRename, Target: target}, graph.ErrNotFound)
		return
	}
	key := popupKey(target)
	if g.HasPersistent(key) {
		return
	}

	g.RegisterPersistent(key, func(g *graph.Graph) {
		if _, _, ok := renameTarget(g, target); !ok {
			g.UnregisterPersistent(key)
			delete(p.edits, key)
			return
		}
		if in, ok := p.edits[key]; ok {
			delete(p.edits, key)
			if in.Text != "" {
				text = in.Text
			}
			switch {
			case in.Cancel:
				g.UnregisterPersistent(key)
				return
			case in.Commit:
				g.UnregisterPersistent(key)
				name := text
				g.Defer(func(g *graph.Graph) {
					if err := rename(g, target, name); err != nil {
						p.reject(Gesture{Kind: GestureEdit, Target: target, Text: name, Commit: true}, err)
					}
				})
				return
			}
		}
		p.surface.DrawPopup(PopupShape{Key: key, Target: target, Title: title, Text: text})
		if p.stats != nil {
			p.stats.Popups++
		}
	})
	p.logger.Debug("Rename popup opened.", "key", key)
}

func renameTarget(g *graph.Graph, id ident.ID) (title, current string, ok bool) {
	if n, ok := g.Node(id); ok {
		return "Rename node", n.Name(), true
	}
	if pin, ok := g.Pin(id); ok {
		return "Rename pin", pin.Name(), true
	}
	return "", "", false
}

// rename applies a committed popup. Pin names are checked by the graph, so a
// name clashing with a sibling or holding the path separator is refused.
func rename(g *graph.Graph, id ident.ID, name string) error {
	if _, ok := g.Node(id); ok {
		return g.RenameNode(id, name)
	}
	return g.RenamePin(id, name)
}
