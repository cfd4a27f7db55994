package deferred

// Registry holds keyed actions that run once per frame until unregistered.
// The zero value is ready to use.
type Registry struct {
	order   []string
	actions map[string]Action
}

// Register installs an action under key, replacing any previous action with
// the same key while keeping its original position.
func (r *Registry) Register(key string, a Action) {
	if a == nil {
		return
	}
	if r.actions == nil {
		r.actions = make(map[string]Action)
	}
	if _, exists := r.actions[key]; !exists {
		r.order = append(r.order, key)
	}
	r.actions[key] = a
}

// Unregister removes the action for key. It is a no-op for unknown keys and
// is safe to call from inside a running action.
func (r *Registry) Unregister(key string) {
	if _, exists := r.actions[key]; !exists {
		return
	}
	delete(r.actions, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.actions[key]
	return ok
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	return len(r.actions)
}

// RunAll invokes every registered action in registration order. Actions
// registered during the run start on the next call; actions unregistered
// during the run are skipped if they have not run yet.
func (r *Registry) RunAll() int {
	keys := append([]string(nil), r.order...)
	ran := 0
	for _, key := range keys {
		a, ok := r.actions[key]
		if !ok {
			continue
		}
		a()
		ran++
	}
	return ran
}
