package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/value"
)

type pinSnap struct {
	Name     string
	Type     graph.PinType
	Expanded bool
	Content  string
	Children []pinSnap
}

type nodeSnap struct {
	ID      ident.ID
	Name    string
	Type    graph.NodeType
	Pos     graph.Vec2
	Inputs  []pinSnap
	Outputs []pinSnap
}

type graphSnap struct {
	Nodes []nodeSnap
	Links []LinkDoc
	View  graph.View
}

// snapshot captures everything a save and load must preserve. Pin and link
// IDs are left out because they are reissued on load.
func snapshot(t *testing.T, g *graph.Graph) graphSnap {
	t.Helper()
	var pins func(ids []ident.ID) []pinSnap
	pins = func(ids []ident.ID) []pinSnap {
		var out []pinSnap
		for _, id := range ids {
			p, ok := g.Pin(id)
			require.True(t, ok)
			s := pinSnap{Name: p.Name(), Type: p.Type(), Expanded: p.Expanded(), Children: pins(p.Children())}
			if p.Contents() != nil {
				s.Content = p.Contents().Display()
			}
			out = append(out, s)
		}
		return out
	}

	var snap graphSnap
	for _, n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, nodeSnap{
			ID:      n.ID(),
			Name:    n.Name(),
			Type:    n.Type(),
			Pos:     n.Position(),
			Inputs:  pins(n.Roots(graph.Input)),
			Outputs: pins(n.Roots(graph.Output)),
		})
	}
	for _, l := range g.Links() {
		src, err := PinPath(g, l.Source())
		require.NoError(t, err)
		dst, err := PinPath(g, l.Destination())
		require.NoError(t, err)
		snap.Links = append(snap.Links, LinkDoc{Src: src, Dst: dst})
	}
	snap.View = g.View()
	return snap
}

func newGraph(t *testing.T, path string) *graph.Graph {
	t.Helper()
	return graph.New(ctxlog.Discard(), "main", path)
}

func spawnXY(t *testing.T, g *graph.Graph, name string) (*graph.Node, *graph.Pin, *graph.Pin) {
	t.Helper()
	n := g.SpawnNode(name, 0, graph.Vec2{})
	x, err := g.SpawnPin(n.ID(), graph.Input, "x", graph.PinInt)
	require.NoError(t, err)
	y, err := g.SpawnPin(n.ID(), graph.Output, "y", graph.PinInt)
	require.NoError(t, err)
	return n, x, y
}

// buildSample makes a graph with nested compound pins, bound contents of
// every primitive kind and links that end on hidden children.
func buildSample(t *testing.T, path string) *graph.Graph {
	t.Helper()
	g := newGraph(t, path)

	src := g.SpawnNode("source", 3, graph.Vec2{X: 10, Y: -20.5})
	num, err := g.SpawnPin(src.ID(), graph.Output, "num", graph.PinFloat)
	require.NoError(t, err)
	require.NoError(t, g.SetContents(num.ID(), value.NewFloat(1.5)))
	flag, err := g.SpawnPin(src.ID(), graph.Output, "flag", graph.PinBool)
	require.NoError(t, err)
	require.NoError(t, g.SetContents(flag.ID(), value.NewBool(true)))
	_, err = g.SpawnPin(src.ID(), graph.Input, "trigger", graph.PinFlow)
	require.NoError(t, err)

	dst := g.SpawnNode("sink", 7, graph.Vec2{X: 300, Y: 40})
	opts, err := g.SpawnPin(dst.ID(), graph.Input, "opts", graph.PinDict)
	require.NoError(t, err)
	label, err := g.AppendChild(opts.ID(), "label", graph.PinString)
	require.NoError(t, err)
	require.NoError(t, g.SetContents(label.ID(), value.NewString("hello world")))
	sizes, err := g.AppendChild(opts.ID(), "sizes", graph.PinList)
	require.NoError(t, err)
	first, err := g.AppendChild(sizes.ID(), "0", graph.PinInt)
	require.NoError(t, err)
	require.NoError(t, g.SetContents(first.ID(), value.NewInt(42)))
	second, err := g.AppendChild(sizes.ID(), "1", graph.PinFloat)
	require.NoError(t, err)
	require.NoError(t, g.SetExpanded(opts.ID(), true))
	_, err = g.SpawnPin(dst.ID(), graph.Output, "done", graph.PinFlow)
	require.NoError(t, err)

	_, err = g.TrySpawnLink(num.ID(), second.ID())
	require.NoError(t, err)
	_, err = g.TrySpawnLink(flag.ID(), label.ID())
	require.NoError(t, err)

	g.SetView(graph.View{
		Scroll:  graph.Vec2{X: 5, Y: 6},
		Zoom:    1.25,
		Visible: graph.Rect{Min: graph.Vec2{X: 0, Y: 0}, Max: graph.Vec2{X: 800, Y: 600}},
	})
	require.NoError(t, g.Validate())
	return g
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "main"+ext)
			original := buildSample(t, path)
			require.NoError(t, Save(ctxlog.Discard(), original))

			loaded := newGraph(t, path)
			rep, err := Load(ctxlog.Discard(), loaded, path, nil)
			require.NoError(t, err)
			require.NoError(t, rep.Err())
			assert.Equal(t, 2, rep.Nodes)
			assert.Equal(t, 2, rep.Links)
			assert.Equal(t, original.PinCount(), rep.Pins)

			if diff := cmp.Diff(snapshot(t, original), snapshot(t, loaded)); diff != "" {
				t.Errorf("graph changed across save and load (-want +got):\n%s", diff)
			}
			require.NoError(t, loaded.Validate())
		})
	}
}

func TestLoad_AdvancesAllocator(t *testing.T) {
	doc := `
nodes:
  "5":
    uipos: [0, 0]
    type: 0
    name: a
    inputs: []
    outputs:
      - y: {type: 2, children: []}
  "42":
    uipos: [1, 1]
    type: 0
    name: b
    inputs:
      - x: {type: 2, children: []}
    outputs: []
  "6":
    uipos: [2, 2]
    type: 0
    name: c
    inputs: []
    outputs: []
links:
  - {src_pin_path: 5/y, dst_pin_path: 42/x}
`
	path := filepath.Join(t.TempDir(), "g.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	g := newGraph(t, path)
	_, err := Load(ctxlog.Discard(), g, path, nil)
	require.NoError(t, err)

	fresh := g.SpawnNode("fresh", 0, graph.Vec2{})
	assert.Greater(t, uint64(fresh.ID()), uint64(42))
	for _, n := range g.Nodes() {
		assert.Less(t, uint64(n.ID()), uint64(fresh.ID()))
	}
	for _, l := range g.Links() {
		assert.Less(t, uint64(l.ID()), uint64(fresh.ID()))
	}
	assert.Equal(t, []string{"a", "c", "b"}, nodeNames(g), "nodes come back in id order")
	require.NoError(t, g.Validate())
}

func nodeNames(g *graph.Graph) []string {
	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name())
	}
	return names
}

func TestDecode_SkipsBadLinks(t *testing.T) {
	doc := &Document{
		Nodes: map[string]*NodeDoc{
			"1": {Name: "a", Outputs: []PinEntry{{"y": {Type: int(graph.PinInt)}}}, Inputs: []PinEntry{{"x": {Type: int(graph.PinInt)}}}},
			"2": {Name: "b", Outputs: []PinEntry{{"y": {Type: int(graph.PinInt)}}}, Inputs: []PinEntry{{"x": {Type: int(graph.PinInt)}}}},
		},
		Links: []LinkDoc{
			{Src: "1/y", Dst: "2/x"},
			{Src: "9/y", Dst: "2/x"},
			{Src: "1/nope", Dst: "2/x"},
			{Src: "1/y", Dst: "2/y"},
			{Src: "y", Dst: "2/x"},
			{Src: "abc/y", Dst: "2/x"},
			{Src: "1/y", Dst: "1/x"},
			{Src: "1/y", Dst: "2/x"},
		},
	}

	g, rep, err := Decode(ctxlog.Discard(), "t", "", doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Links)
	assert.Equal(t, 1, g.LinkCount())

	skipped := rep.Skipped()
	require.Len(t, skipped, 7)
	for _, err := range skipped[:5] {
		assert.ErrorIs(t, err, graph.ErrNotFound)
	}
	assert.ErrorIs(t, skipped[5], graph.ErrSameNode)
	assert.ErrorIs(t, skipped[6], graph.ErrDuplicateLink)
	assert.Error(t, rep.Err())
}

func TestDecode_SecondLinkIntoInputIsSkipped(t *testing.T) {
	doc := &Document{
		Nodes: map[string]*NodeDoc{
			"1": {Name: "a", Outputs: []PinEntry{{"y": {Type: int(graph.PinInt)}}}},
			"2": {Name: "b", Outputs: []PinEntry{{"y": {Type: int(graph.PinInt)}}}},
			"3": {Name: "c", Inputs: []PinEntry{{"x": {Type: int(graph.PinInt)}}}},
		},
		Links: []LinkDoc{
			{Src: "1/y", Dst: "3/x"},
			{Src: "2/y", Dst: "3/x"},
		},
	}

	g, rep, err := Decode(ctxlog.Discard(), "t", "", doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Links)
	require.Equal(t, 1, g.LinkCount())

	l := g.Links()[0]
	src, err := PinPath(g, l.Source())
	require.NoError(t, err)
	assert.Equal(t, "1/y", src, "the first link into an input is kept")

	skipped := rep.Skipped()
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], ErrInputLinked)
	assert.Contains(t, skipped[0].Error(), "2/y -> 3/x")
}

func TestDecode_Malformed(t *testing.T) {
	pin := func(typ graph.PinType) *PinDoc { return &PinDoc{Type: int(typ)} }
	cases := map[string]*Document{
		"nil document":   nil,
		"bad node key":   {Nodes: map[string]*NodeDoc{"x1": {}}},
		"zero node key":  {Nodes: map[string]*NodeDoc{"0": {}}},
		"same id twice":  {Nodes: map[string]*NodeDoc{"7": {}, "07": {}}},
		"empty node":     {Nodes: map[string]*NodeDoc{"1": nil}},
		"bad position":   {Nodes: map[string]*NodeDoc{"1": {UIPos: []float64{1}}}},
		"bad pin type":   {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"x": pin(99)}}}}},
		"two names":      {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"x": pin(graph.PinInt), "y": pin(graph.PinInt)}}}}},
		"nil pin body":   {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"x": nil}}}}},
		"leaf children":  {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"x": {Type: int(graph.PinInt), Children: []PinEntry{{"c": pin(graph.PinInt)}}}}}}}},
		"bad view":       {Nodes: map[string]*NodeDoc{}, View: &ViewDoc{Scroll: []float64{1, 2, 3}}},
		"same root name": {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"x": pin(graph.PinInt)}, {"x": pin(graph.PinFloat)}}}}},
		"same child name": {Nodes: map[string]*NodeDoc{"1": {Inputs: []PinEntry{{"d": {
			Type:     int(graph.PinDict),
			Children: []PinEntry{{"k": pin(graph.PinInt)}, {"k": pin(graph.PinInt)}},
		}}}}}},
		"separator in name": {Nodes: map[string]*NodeDoc{"1": {Outputs: []PinEntry{{"out/put": pin(graph.PinInt)}}}}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			g, _, err := Decode(ctxlog.Discard(), "t", "", doc, nil)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_Contents(t *testing.T) {
	content := func(s string) *string { return &s }
	doc := &Document{Nodes: map[string]*NodeDoc{
		"1": {Name: "a", Outputs: []PinEntry{
			{"n": {Type: int(graph.PinInt), Content: content("12")}},
			{"bad": {Type: int(graph.PinInt), Content: content("twelve")}},
			{"obj": {Type: int(graph.PinObject), Content: content("<object at 0x1>")}},
		}},
	}}

	g, rep, err := Decode(ctxlog.Discard(), "t", "", doc, nil)
	require.NoError(t, err)
	require.Len(t, rep.Skipped(), 1)
	assert.ErrorContains(t, rep.Skipped()[0], `"bad"`)

	n, err := g.ResolvePath(1, graph.Output, []string{"n"})
	require.NoError(t, err)
	require.NotNil(t, n.Contents())
	assert.Equal(t, value.KindInt, n.Contents().Kind())
	assert.Equal(t, "12", n.Contents().Display())

	bad, err := g.ResolvePath(1, graph.Output, []string{"bad"})
	require.NoError(t, err)
	assert.Nil(t, bad.Contents())

	obj, err := g.ResolvePath(1, graph.Output, []string{"obj"})
	require.NoError(t, err)
	detached, ok := value.ObjectOf(obj.Contents()).(*value.Detached)
	require.True(t, ok)
	assert.Equal(t, "<object at 0x1>", detached.Text)

	out := Encode(g)
	got := out.Nodes["1"].Outputs[2]["obj"]
	require.NotNil(t, got.Content)
	assert.Equal(t, "<object at 0x1>", *got.Content, "detached content survives another save")
}

type stubObject struct{ text string }

func (o *stubObject) HasValue() bool             { return true }
func (o *stubObject) Value() (cty.Value, error)  { return cty.StringVal(o.text), nil }
func (o *stubObject) SetValue(v cty.Value) error { o.text = v.AsString(); return nil }
func (o *stubObject) Display() string            { return "revived:" + o.text }

type stubRuntime struct{ calls []string }

func (r *stubRuntime) Revive(content string) (value.Object, error) {
	r.calls = append(r.calls, content)
	if content == "broken" {
		return nil, errors.New("cannot revive")
	}
	return &stubObject{text: content}, nil
}

func TestDecode_RevivesExternalContents(t *testing.T) {
	content := func(s string) *string { return &s }
	doc := &Document{Nodes: map[string]*NodeDoc{
		"1": {Name: "a", Outputs: []PinEntry{
			{"f": {Type: int(graph.PinFunction), Content: content("fn")}},
			{"b": {Type: int(graph.PinObject), Content: content("broken")}},
		}},
	}}
	rt := &stubRuntime{}

	g, rep, err := Decode(ctxlog.Discard(), "t", "", doc, rt)
	require.NoError(t, err)
	assert.Equal(t, []string{"fn", "broken"}, rt.calls)
	assert.Len(t, rep.Skipped(), 1)

	f, err := g.ResolvePath(1, graph.Output, []string{"f"})
	require.NoError(t, err)
	assert.Equal(t, "revived:fn", f.Contents().Display())
}

func TestLoad_FailureLeavesGraphUntouched(t *testing.T) {
	dir := t.TempDir()
	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("nodes: [unclosed"), 0o644))
	badKey := filepath.Join(dir, "key.json")
	require.NoError(t, os.WriteFile(badKey, []byte(`{"nodes": {"first": {}}}`), 0o644))

	for name, path := range map[string]string{
		"missing file": filepath.Join(dir, "missing.yaml"),
		"parse error":  badYAML,
		"bad node key": badKey,
	} {
		t.Run(name, func(t *testing.T) {
			g := buildSample(t, filepath.Join(dir, "live.yaml"))
			g.Defer(func(*graph.Graph) {})
			before := snapshot(t, g)
			next := g.NextID()

			_, err := Load(ctxlog.Discard(), g, path, nil)
			require.Error(t, err)

			assert.Empty(t, cmp.Diff(before, snapshot(t, g)))
			assert.Equal(t, next, g.NextID())
			assert.Equal(t, 1, g.PendingDeferred(), "queued work survives a failed load")
			assert.Equal(t, "main", g.Name())
		})
	}
}

func TestLoad_KeepsIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.yaml")
	require.NoError(t, Save(ctxlog.Discard(), buildSample(t, path)))

	g := newGraph(t, "elsewhere.yaml")
	spawnXY(t, g, "stale")
	g.Defer(func(*graph.Graph) { t.Fatal("stale deferred edit ran after reload") })

	_, err := Load(ctxlog.Discard(), g, path, nil)
	require.NoError(t, err)
	assert.Equal(t, "main", g.Name())
	assert.Equal(t, "elsewhere.yaml", g.Path())
	assert.Zero(t, g.PendingDeferred())
	g.DrainDeferred()
	for _, n := range g.Nodes() {
		assert.Same(t, g, n.Graph())
	}
}

// TestScenario links two nodes, rejects a duplicate and a same-node link,
// then saves and loads into a fresh graph.
func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	g := newGraph(t, path)
	a, ax, ay := spawnXY(t, g, "A")
	b, bx, by := spawnXY(t, g, "B")

	_, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)
	back, err := g.TrySpawnLink(by.ID(), ax.ID())
	require.NoError(t, err)
	_, err = g.TrySpawnLink(by.ID(), ax.ID())
	require.ErrorIs(t, err, graph.ErrDuplicateLink)
	require.True(t, g.RemoveLink(back.ID()))
	_, err = g.TrySpawnLink(ay.ID(), ax.ID())
	require.ErrorIs(t, err, graph.ErrSameNode)
	require.NoError(t, Save(ctxlog.Discard(), g))

	fresh := newGraph(t, path)
	_, err = Load(ctxlog.Discard(), fresh, path, nil)
	require.NoError(t, err)

	links := fresh.Links()
	require.Len(t, links, 1)
	src, err := PinPath(fresh, links[0].Source())
	require.NoError(t, err)
	dst, err := PinPath(fresh, links[0].Destination())
	require.NoError(t, err)
	assert.Equal(t, FormatPath(a.ID(), []string{"y"}), src)
	assert.Equal(t, FormatPath(b.ID(), []string{"x"}), dst)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "12/opts/sizes/0", FormatPath(12, []string{"opts", "sizes", "0"}))

	node, names, err := ParsePath("12/opts/sizes/0")
	require.NoError(t, err)
	assert.Equal(t, ident.ID(12), node)
	assert.Equal(t, []string{"opts", "sizes", "0"}, names)

	for _, bad := range []string{"", "12", "x/y", "0/y"} {
		_, _, err := ParsePath(bad)
		assert.ErrorIs(t, err, graph.ErrNotFound, bad)
	}
}

func TestMarshal_YAMLShape(t *testing.T) {
	g := newGraph(t, "")
	_, _, ay := spawnXY(t, g, "A")
	_, bx, _ := spawnXY(t, g, "B")
	_, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)

	data, err := Marshal("g.yaml", Encode(g))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "src_pin_path: 1/y")
	assert.Contains(t, out, "dst_pin_path: 4/x")
	assert.Contains(t, out, "uipos: [0, 0]")
	assert.NotContains(t, out, "expansion", "leaf pins carry no expansion flag")

	doc, err := Unmarshal("g.yaml", data)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(Encode(g), doc, cmpopts.EquateEmpty()))
}
