package persist

// Document is the persisted form of one graph.
type Document struct {
	Nodes map[string]*NodeDoc `yaml:"nodes" json:"nodes"`
	Links []LinkDoc           `yaml:"links" json:"links"`
	View  *ViewDoc            `yaml:"view,omitempty" json:"view,omitempty"`
}

// NodeDoc is one node, keyed in Document.Nodes by its decimal ID.
type NodeDoc struct {
	UIPos   []float64  `yaml:"uipos,flow" json:"uipos"`
	Type    int        `yaml:"type" json:"type"`
	Name    string     `yaml:"name" json:"name"`
	Inputs  []PinEntry `yaml:"inputs" json:"inputs"`
	Outputs []PinEntry `yaml:"outputs" json:"outputs"`
}

// PinEntry wraps a pin by its name. A well-formed entry has exactly one key.
type PinEntry map[string]*PinDoc

// PinDoc is one pin and its subtree.
type PinDoc struct {
	Type      int        `yaml:"type" json:"type"`
	Expansion *int       `yaml:"expansion,omitempty" json:"expansion,omitempty"`
	Content   *string    `yaml:"content,omitempty" json:"content,omitempty"`
	Children  []PinEntry `yaml:"children" json:"children"`
}

// LinkDoc names a link's endpoints by pin path.
type LinkDoc struct {
	Src string `yaml:"src_pin_path" json:"src_pin_path"`
	Dst string `yaml:"dst_pin_path" json:"dst_pin_path"`
}

// ViewDoc is the canvas scroll and zoom state.
type ViewDoc struct {
	Scroll      []float64 `yaml:"scroll,flow" json:"scroll"`
	Zoom        float64   `yaml:"zoom" json:"zoom"`
	VisibleRect RectDoc   `yaml:"visible_rect" json:"visible_rect"`
}

// RectDoc is an axis-aligned rectangle.
type RectDoc struct {
	Min []float64 `yaml:"min,flow" json:"min"`
	Max []float64 `yaml:"max,flow" json:"max"`
}
