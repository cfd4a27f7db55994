package render

import (
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
)

// Surface is the drawing collaborator. Shapes are keyed by graph IDs so a
// surface can keep per-item state across frames.
type Surface interface {
	Begin(view graph.View)
	DrawNode(NodeShape)
	DrawPin(PinShape)
	DrawEdge(EdgeShape)
	DrawPopup(PopupShape)
	// End closes the frame and returns the interactions reported for it.
	End() []Gesture
}

// NodeShape is a node box.
type NodeShape struct {
	ID   ident.ID       `json:"id"`
	Name string         `json:"name"`
	Type graph.NodeType `json:"type"`
	Pos  graph.Vec2     `json:"pos"`
}

// PinShape is one visible pin. Depth is zero for root pins.
type PinShape struct {
	ID         ident.ID `json:"id"`
	Node       ident.ID `json:"node"`
	Parent     ident.ID `json:"parent,omitempty"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Type       string   `json:"type"`
	Depth      int      `json:"depth"`
	Expandable bool     `json:"expandable,omitempty"`
	Expanded   bool     `json:"expanded,omitempty"`
	Linked     bool     `json:"linked,omitempty"`
	Display    string   `json:"display,omitempty"`
}

// EdgeShape is a drawn link. From and To are the visible anchors, which
// differ from the link's endpoints when an endpoint is hidden inside a
// collapsed pin.
type EdgeShape struct {
	Link     ident.ID `json:"link"`
	From     ident.ID `json:"from"`
	To       ident.ID `json:"to"`
	Anchored bool     `json:"anchored,omitempty"`
}

// PopupShape is an inline text popup, such as a rename field.
type PopupShape struct {
	Key    string   `json:"key"`
	Target ident.ID `json:"target"`
	Title  string   `json:"title"`
	Text   string   `json:"text"`
}
