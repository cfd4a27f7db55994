package persist

import (
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

// Encode builds the document for g. Node attributes are not part of the
// document.
func Encode(g *graph.Graph) *Document {
	doc := &Document{
		Nodes: make(map[string]*NodeDoc, g.NodeCount()),
		Links: make([]LinkDoc, 0, g.LinkCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes[n.ID().String()] = &NodeDoc{
			UIPos:   vec(n.Position()),
			Type:    int(n.Type()),
			Name:    n.Name(),
			Inputs:  encodePins(g, n.Roots(graph.Input)),
			Outputs: encodePins(g, n.Roots(graph.Output)),
		}
	}
	for _, l := range g.Links() {
		src, err := PinPath(g, l.Source())
		if err != nil {
			continue
		}
		dst, err := PinPath(g, l.Destination())
		if err != nil {
			continue
		}
		doc.Links = append(doc.Links, LinkDoc{Src: src, Dst: dst})
	}

	v := g.View()
	doc.View = &ViewDoc{
		Scroll: vec(v.Scroll),
		Zoom:   v.Zoom,
		VisibleRect: RectDoc{
			Min: vec(v.Visible.Min),
			Max: vec(v.Visible.Max),
		},
	}
	return doc
}

func encodePins(g *graph.Graph, ids []ident.ID) []PinEntry {
	out := make([]PinEntry, 0, len(ids))
	for _, id := range ids {
		p, ok := g.Pin(id)
		if !ok {
			continue
		}
		out = append(out, PinEntry{p.Name(): encodePin(g, p)})
	}
	return out
}

func encodePin(g *graph.Graph, p *graph.Pin) *PinDoc {
	d := &PinDoc{
		Type:     int(p.Type()),
		Children: encodePins(g, p.Children()),
	}
	if p.Expandable() {
		e := 0
		if p.Expanded() {
			e = 1
		}
		d.Expansion = &e
	}
	if s, ok := value.Encode(p.Contents()); ok {
		d.Content = &s
	}
	return d
}

func vec(v graph.Vec2) []float64 {
	return []float64{v.X, v.Y}
}
