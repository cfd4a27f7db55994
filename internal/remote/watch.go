package remote

import (
	"context"
	"fmt"
	"io"
)

// Watch connects to the editor and prints a one-line summary of every frame
// until ctx is cancelled. A frame whose counts match the previous frame of
// the same graph is not printed.
func Watch(ctx context.Context, rawURL string, out io.Writer) error {
	c, err := Dial(ctx, rawURL, Options{})
	if err != nil {
		return err
	}
	defer c.Close()

	last := make(map[string]string)
	for {
		select {
		case <-ctx.Done():
			return nil
		case names := <-c.Graphs():
			fmt.Fprintf(out, "graphs: %v\n", names)
		case f := <-c.Frames():
			line := fmt.Sprintf("nodes=%d pins=%d edges=%d popups=%d",
				len(f.Nodes), len(f.Pins), len(f.Edges), len(f.Popups))
			if last[f.Graph] == line {
				continue
			}
			last[f.Graph] = line
			fmt.Fprintf(out, "%s #%d %s\n", f.Graph, f.Seq, line)
		}
	}
}
