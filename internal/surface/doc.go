// Package surface provides render.Surface implementations.
//
// Recorder keeps each frame as plain data and collects gestures pushed from
// other goroutines. It backs the tests and the socket.io transport in the
// sio subpackage, which broadcasts recorded frames to browser clients.
package surface
