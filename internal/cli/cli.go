package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pingraph/internal/app"
	"github.com/specialistvlad/pingraph/internal/config"
	"github.com/specialistvlad/pingraph/internal/ctxlog"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from three layers: built-in defaults, the file named by
// -config, then flags given explicitly on the command line.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pingraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pingraph - A node graph editor core with a browser surface.

Usage:
  pingraph [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a .yaml, .yml or .json graph document, or a directory of them.
    A missing file starts an empty graph that is created on save.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph document or directory.")
	gFlag := flagSet.String("g", "", "Path to the graph document or directory (shorthand).")
	nameFlag := flagSet.String("name", "", "Name of the graph opened from GRAPH_PATH. Defaults to the file name.")
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	listenFlag := flagSet.String("listen", "", "Address of the editor endpoint, e.g. ':7070'. Empty runs headless.")
	fpsFlag := flagSet.Int("fps", app.DefaultFPS, "Frames drawn per second.")
	maxFramesFlag := flagSet.Int("max-frames", 0, "Stop after this many frames. 0 runs until interrupted.")
	autosaveFlag := flagSet.Bool("autosave", false, "Save every open graph on shutdown.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	watchFlag := flagSet.String("watch", "", "URL of a running editor whose frames are printed instead of opening graphs.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := app.Config{
		FPS:       app.DefaultFPS,
		LogFormat: app.DefaultLogFormat,
		LogLevel:  app.DefaultLogLevel,
	}

	if *configFlag != "" {
		file, err := config.Load(ctxlog.WithLogger(context.Background(), slog.Default()), *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		applyFile(&cfg, file)
	}

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)
	if path != "" {
		cfg.Graphs = append(cfg.Graphs, app.GraphSource{Name: *nameFlag, Path: path})
	} else if set["name"] {
		return nil, false, &ExitError{Code: 2, Message: "-name requires a graph path"}
	}

	if set["listen"] {
		cfg.Listen = *listenFlag
	}
	if set["fps"] {
		cfg.FPS = *fpsFlag
	}
	if set["max-frames"] {
		cfg.MaxFrames = *maxFramesFlag
	}
	if set["autosave"] {
		cfg.Autosave = *autosaveFlag
	}
	if set["healthcheck-port"] {
		cfg.HealthcheckPort = *healthPortFlag
	}
	if set["log-format"] {
		cfg.LogFormat = *logFormatFlag
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevelFlag
	}
	if set["watch"] {
		cfg.Watch = *watchFlag
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if len(cfg.Graphs) == 0 && cfg.Watch == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	valid, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", valid)
	return valid, false, nil
}

// applyFile copies every value the file sets onto cfg.
func applyFile(cfg *app.Config, file *config.File) {
	if e := file.Editor; e != nil {
		if e.Listen != nil {
			cfg.Listen = *e.Listen
		}
		if e.FPS != nil {
			cfg.FPS = *e.FPS
		}
		if e.Autosave != nil {
			cfg.Autosave = *e.Autosave
		}
		if e.HealthcheckPort != nil {
			cfg.HealthcheckPort = *e.HealthcheckPort
		}
		if e.LogFormat != nil {
			cfg.LogFormat = *e.LogFormat
		}
		if e.LogLevel != nil {
			cfg.LogLevel = *e.LogLevel
		}
	}
	for _, g := range file.Graphs {
		cfg.Graphs = append(cfg.Graphs, app.GraphSource{Name: g.Name, Path: g.Path})
	}
}

// IsExit reports whether err carries an exit code and returns it.
func IsExit(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}
