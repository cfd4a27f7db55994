// Package app wires an editor session together: it opens the configured
// graphs into a workspace, gives each one a recording surface and a render
// pass, drives all passes from a fixed-rate frame loop, serves the frames to
// browsers over socket.io and saves the graphs on shutdown.
package app
