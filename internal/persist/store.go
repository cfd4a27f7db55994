package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
	"github.com/specialistvlad/pingraph/internal/fsutil"
	"github.com/specialistvlad/pingraph/internal/graph"
	"github.com/specialistvlad/pingraph/internal/value"
)

// Extensions lists the file extensions ReadFile and WriteFile understand.
var Extensions = []string{".yaml", ".yml", ".json"}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Marshal renders doc as JSON when path ends in .json and as YAML otherwise.
func Marshal(path string, doc *Document) ([]byte, error) {
	if isJSON(path) {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses data in the format implied by path.
func Unmarshal(path string, data []byte) (*Document, error) {
	doc := &Document{}
	var err error
	if isJSON(path) {
		err = json.Unmarshal(data, doc)
	} else {
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// ReadFile loads the document stored at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(path, data)
}

// WriteFile stores doc at path. The document is rendered in full before the
// file is touched, and the file is replaced atomically.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(path, doc)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load replaces the contents of g with the document at path. The document is
// decoded into a separate graph first; g is only touched once that graph is
// complete and valid, so a failed load leaves g exactly as it was.
func Load(ctx context.Context, g *graph.Graph, path string, rt value.Runtime) (Report, error) {
	logger := ctxlog.FromContext(ctx).With("graph", g.Name(), "path", path)

	doc, err := ReadFile(path)
	if err != nil {
		logger.Error("Failed to read graph document.", "error", err)
		return Report{}, fmt.Errorf("load %s: %w", path, err)
	}
	candidate, rep, err := Decode(ctx, g.Name()+".loading", path, doc, rt)
	if err != nil {
		logger.Error("Failed to decode graph document.", "error", err)
		return rep, fmt.Errorf("load %s: %w", path, err)
	}
	g.ReplaceWith(candidate)

	logger.Info("Graph loaded.", "nodes", rep.Nodes, "pins", rep.Pins, "links", rep.Links,
		"skipped", len(rep.Skipped()))
	return rep, nil
}

// Save writes g to its own path.
func Save(ctx context.Context, g *graph.Graph) error {
	return SaveAs(ctx, g, g.Path())
}

// SaveAs writes g to path without changing the path g is bound to.
func SaveAs(ctx context.Context, g *graph.Graph, path string) error {
	logger := ctxlog.FromContext(ctx).With("graph", g.Name(), "path", path)
	if path == "" {
		return fmt.Errorf("save %q: graph has no path", g.Name())
	}
	if err := WriteFile(path, Encode(g)); err != nil {
		logger.Error("Failed to save graph.", "error", err)
		return fmt.Errorf("save %q: %w", g.Name(), err)
	}
	logger.Info("Graph saved.", "nodes", g.NodeCount(), "links", g.LinkCount())
	return nil
}
