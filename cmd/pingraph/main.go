package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/pingraph/internal/app"
	"github.com/specialistvlad/pingraph/internal/cli"
)

// main is the entrypoint for the pingraph editor.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := cli.IsExit(err); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// External pin contents have no runtime here; they load detached and are
	// written back unchanged.
	editor := app.NewApp(outW, cfg, nil)
	return editor.Run(ctx)
}
