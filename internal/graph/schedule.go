package graph

// Defer queues a one-shot edit to run at the next DrainDeferred. Use it for
// any structural change discovered while the frame is walking the graph.
func (g *Graph) Defer(fn func(*Graph)) {
	if fn == nil {
		return
	}
	g.oneShot.Push(func() { fn(g) })
}

// PendingDeferred returns the number of queued one-shot edits.
func (g *Graph) PendingDeferred() int { return g.oneShot.Len() }

// DrainDeferred runs the queued one-shot edits in order. Edits queued by
// those edits wait for the next drain.
func (g *Graph) DrainDeferred() int { return g.oneShot.Drain() }

// RegisterPersistent installs an action that runs every frame until
// UnregisterPersistent is called with the same key.
func (g *Graph) RegisterPersistent(key string, fn func(*Graph)) {
	if fn == nil {
		return
	}
	g.persistent.Register(key, func() { fn(g) })
}

// UnregisterPersistent removes a persistent action.
func (g *Graph) UnregisterPersistent(key string) { g.persistent.Unregister(key) }

// HasPersistent reports whether key has a registered persistent action.
func (g *Graph) HasPersistent(key string) bool { return g.persistent.Has(key) }

// RunPersistent invokes every persistent action once.
func (g *Graph) RunPersistent() int { return g.persistent.RunAll() }
