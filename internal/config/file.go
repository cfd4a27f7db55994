package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/pingraph/internal/ctxlog"
)

// File is the decoded form of a configuration file.
type File struct {
	Editor *Editor  `hcl:"editor,block"`
	Graphs []*Graph `hcl:"graph,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Editor holds the session settings. Nil fields were not set in the file.
type Editor struct {
	Listen          *string `hcl:"listen,optional"`
	FPS             *int    `hcl:"fps,optional"`
	Autosave        *bool   `hcl:"autosave,optional"`
	HealthcheckPort *int    `hcl:"healthcheck_port,optional"`
	LogFormat       *string `hcl:"log_format,optional"`
	LogLevel        *string `hcl:"log_level,optional"`
}

// Graph names one document to open.
type Graph struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
}

// Load parses and decodes the file at path. Relative graph paths are
// resolved against the directory of the file, which is also exposed to
// expressions as `config_dir`.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	logger.Debug("Loading configuration file.")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return parse(ctx, src, abs)
}

func parse(ctx context.Context, src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	dir := filepath.Dir(filename)
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"config_dir": cty.StringVal(dir),
		},
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}
	if err := f.check(dir); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}

	ctxlog.FromContext(ctx).Debug("Configuration file decoded.", "graphs", len(f.Graphs))
	return &f, nil
}

func (f *File) check(dir string) error {
	seen := make(map[string]bool, len(f.Graphs))
	for _, g := range f.Graphs {
		if seen[g.Name] {
			return fmt.Errorf("graph %q declared twice", g.Name)
		}
		seen[g.Name] = true
		if g.Path == "" {
			return fmt.Errorf("graph %q has an empty path", g.Name)
		}
		if !filepath.IsAbs(g.Path) {
			g.Path = filepath.Join(dir, g.Path)
		}
	}
	return nil
}
