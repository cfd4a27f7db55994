package render

import (
	"fmt"

	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
)

// GestureKind names a user interaction reported by a surface.
type GestureKind string

const (
	// GestureConnect drags a link between pins From and To.
	GestureConnect GestureKind = "connect"
	// GestureGrow drops a link from pin From onto child Anchor of compound
	// pin Target. A new child is inserted after Anchor and linked to From.
	GestureGrow GestureKind = "grow"
	// GestureToggle expands or collapses compound pin Target.
	GestureToggle GestureKind = "toggle"
	// GestureDeleteNodes removes the nodes listed in IDs.
	GestureDeleteNodes GestureKind = "delete_nodes"
	// GestureDeleteLinks removes the links listed in IDs.
	GestureDeleteLinks GestureKind = "delete_links"
	// GestureDeletePin removes pin Target and its subtree.
	GestureDeletePin GestureKind = "delete_pin"
	// GestureMove places node Target at Pos.
	GestureMove GestureKind = "move"
	// GestureView sets the canvas camera.
	GestureView GestureKind = "view"
	// GestureRename opens a rename popup for node or pin Target.
	GestureRename GestureKind = "rename"
	// GestureEdit feeds text into the open popup for Target. Commit applies
	// it and Cancel discards it.
	GestureEdit GestureKind = "edit"
	// GestureSetValue parses Text into the contents bound to pin Target.
	GestureSetValue GestureKind = "set_value"
)

// Gesture is one interaction. Which fields matter depends on Kind.
type Gesture struct {
	Kind   GestureKind `mapstructure:"kind" json:"kind"`
	From   ident.ID    `mapstructure:"from" json:"from,omitempty"`
	To     ident.ID    `mapstructure:"to" json:"to,omitempty"`
	Target ident.ID    `mapstructure:"target" json:"target,omitempty"`
	Anchor ident.ID    `mapstructure:"anchor" json:"anchor,omitempty"`
	IDs    []ident.ID  `mapstructure:"ids" json:"ids,omitempty"`
	Name   string      `mapstructure:"name" json:"name,omitempty"`
	Text   string      `mapstructure:"text" json:"text,omitempty"`
	Commit bool        `mapstructure:"commit" json:"commit,omitempty"`
	Cancel bool        `mapstructure:"cancel" json:"cancel,omitempty"`
	Pos    graph.Vec2  `mapstructure:"pos" json:"pos"`
	View   *graph.View `mapstructure:"view" json:"view,omitempty"`
}

// Validate checks that the fields Kind needs are present.
func (g Gesture) Validate() error {
	need := func(ok bool, what string) error {
		if !ok {
			return fmt.Errorf("%s gesture: missing %s", g.Kind, what)
		}
		return nil
	}
	switch g.Kind {
	case GestureConnect:
		return need(g.From.IsValid() && g.To.IsValid(), "from/to")
	case GestureGrow:
		return need(g.From.IsValid() && g.Target.IsValid(), "from/target")
	case GestureToggle, GestureDeletePin, GestureMove, GestureRename, GestureEdit, GestureSetValue:
		return need(g.Target.IsValid(), "target")
	case GestureDeleteNodes, GestureDeleteLinks:
		return need(len(g.IDs) > 0, "ids")
	case GestureView:
		return need(g.View != nil, "view")
	default:
		return fmt.Errorf("unknown gesture kind %q", g.Kind)
	}
}
