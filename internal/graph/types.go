package graph

import (
	"fmt"

	"github.com/specialistvlad/pingraph/internal/value"
)

// PinType is the value type a pin carries. The numeric values are persisted.
type PinType int

const (
	PinFlow PinType = iota
	PinBool
	PinInt
	PinFloat
	PinString
	PinList
	PinDict
	PinObject // wildcard
	PinFunction
)

var pinTypeNames = [...]string{
	PinFlow:     "flow",
	PinBool:     "bool",
	PinInt:      "int",
	PinFloat:    "float",
	PinString:   "string",
	PinList:     "list",
	PinDict:     "dict",
	PinObject:   "object",
	PinFunction: "function",
}

func (t PinType) String() string {
	if t.Valid() {
		return pinTypeNames[t]
	}
	return fmt.Sprintf("PinType(%d)", int(t))
}

// Valid reports whether t is a known pin type.
func (t PinType) Valid() bool {
	return t >= PinFlow && t <= PinFunction
}

// Compound reports whether pins of this type may own child pins.
func (t PinType) Compound() bool {
	return t == PinList || t == PinDict
}

// ValueKind returns the binding kind used for contents bound to pins of
// this type.
func (t PinType) ValueKind() value.Kind {
	switch t {
	case PinBool:
		return value.KindBool
	case PinInt:
		return value.KindInt
	case PinFloat:
		return value.KindFloat
	case PinString:
		return value.KindString
	default:
		return value.KindExternal
	}
}

// PinKind tells input pins from output pins.
type PinKind int

const (
	Input PinKind = iota
	Output
)

func (k PinKind) String() string {
	if k == Output {
		return "output"
	}
	return "input"
}

// NodeType is an opaque node category persisted alongside the node. The
// graph core attaches no behaviour to it.
type NodeType int

// Vec2 is a position or extent in editor space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in editor space.
type Rect struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// View is the persisted editor camera.
type View struct {
	Scroll  Vec2    `json:"scroll"`
	Zoom    float64 `json:"zoom"`
	Visible Rect    `json:"visible"`
}

// DefaultView is the camera of a freshly created graph.
func DefaultView() View {
	return View{Zoom: 1}
}
