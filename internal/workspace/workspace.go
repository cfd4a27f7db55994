// Package workspace keeps the open graphs of an editor session, each under
// a logical name, together with caller-owned context values keyed by that
// name. Reloading a graph replaces its contents but keeps its name, its
// *graph.Graph identity and its context.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/fsutil"
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/persist"
	"github.com/specialistvlad/pingraph/internal/value"
)

var (
	// ErrUnknownGraph is returned for names that are not open.
	ErrUnknownGraph = errors.New("unknown graph")
	// ErrAlreadyOpen is returned when a name is opened twice.
	ErrAlreadyOpen = errors.New("graph already open")
)

// Workspace is safe for concurrent use. The graphs it hands out are not;
// they belong to the frame loop.
type Workspace struct {
	rt value.Runtime

	mu      sync.RWMutex
	graphs  map[string]*graph.Graph
	order   []string
	context map[string]map[string]any
}

// New returns an empty workspace. rt revives external pin contents on load
// and may be nil.
func New(rt value.Runtime) *Workspace {
	return &Workspace{
		rt:      rt,
		graphs:  make(map[string]*graph.Graph),
		context: make(map[string]map[string]any),
	}
}

// Open binds name to the document at path. A missing file opens an empty
// graph that will be created on the first save.
func (w *Workspace) Open(ctx context.Context, name, path string) (*graph.Graph, persist.Report, error) {
	logger := ctxlog.FromContext(ctx).With("graph", name, "path", path)
	var rep persist.Report

	w.mu.RLock()
	_, exists := w.graphs[name]
	w.mu.RUnlock()
	if exists {
		return nil, rep, fmt.Errorf("open %q: %w", name, ErrAlreadyOpen)
	}

	g := graph.New(ctx, name, path)
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if rep, err = persist.Load(ctx, g, path, w.rt); err != nil {
			return nil, rep, err
		}
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("Document does not exist yet, starting an empty graph.")
	default:
		return nil, rep, fmt.Errorf("open %q: %w", name, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.graphs[name]; exists {
		return nil, rep, fmt.Errorf("open %q: %w", name, ErrAlreadyOpen)
	}
	w.graphs[name] = g
	w.order = append(w.order, name)
	return g, rep, nil
}

// OpenDir opens every graph document under dir, naming each graph after its
// file name without the extension.
func (w *Workspace) OpenDir(ctx context.Context, dir string) ([]string, error) {
	files, err := fsutil.FindFilesByExtension(dir, persist.Extensions...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var names []string
	for _, path := range files {
		name := fsutil.BaseName(path)
		if _, _, err := w.Open(ctx, name, path); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Get returns the graph open under name.
func (w *Workspace) Get(name string) (*graph.Graph, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.graphs[name]
	return g, ok
}

// Names lists open graphs in the order they were opened.
func (w *Workspace) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.order)
}

// Close forgets a graph and its context without saving it.
func (w *Workspace) Close(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.graphs[name]; !ok {
		return false
	}
	delete(w.graphs, name)
	delete(w.context, name)
	w.order = slices.DeleteFunc(w.order, func(n string) bool { return n == name })
	return true
}

// SetContext stores a caller value under key for the named graph.
func (w *Workspace) SetContext(name, key string, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.graphs[name]; !ok {
		return fmt.Errorf("set context on %q: %w", name, ErrUnknownGraph)
	}
	if w.context[name] == nil {
		w.context[name] = make(map[string]any)
	}
	w.context[name][key] = v
	return nil
}

// Context returns a value stored with SetContext.
func (w *Workspace) Context(name, key string) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.context[name][key]
	return v, ok
}

// Reload rereads the named graph from its path. On failure the graph keeps
// its current contents.
func (w *Workspace) Reload(ctx context.Context, name string) (persist.Report, error) {
	g, ok := w.Get(name)
	if !ok {
		return persist.Report{}, fmt.Errorf("reload %q: %w", name, ErrUnknownGraph)
	}
	return persist.Load(ctx, g, g.Path(), w.rt)
}

// Save writes the named graph to its path.
func (w *Workspace) Save(ctx context.Context, name string) error {
	g, ok := w.Get(name)
	if !ok {
		return fmt.Errorf("save %q: %w", name, ErrUnknownGraph)
	}
	return persist.Save(ctx, g)
}

// SaveAll saves every open graph and reports all failures together.
func (w *Workspace) SaveAll(ctx context.Context) error {
	var result *multierror.Error
	for _, name := range w.Names() {
		if err := w.Save(ctx, name); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
