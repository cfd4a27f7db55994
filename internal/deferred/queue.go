package deferred

// Action is a unit of deferred work.
type Action func()

// Queue is a FIFO of one-shot actions. The zero value is ready to use.
type Queue struct {
	pending  []Action
	draining bool
}

// Push appends an action to the queue. A nil action is ignored.
func (q *Queue) Push(a Action) {
	if a == nil {
		return
	}
	q.pending = append(q.pending, a)
}

// Len returns the number of actions waiting for the next drain.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Drain runs every action queued before the call, in order, and returns how
// many ran. Actions pushed while draining are kept for the next Drain. A
// Drain called from inside a running action returns 0 without doing anything.
func (q *Queue) Drain() int {
	if q.draining {
		return 0
	}
	batch := q.pending
	q.pending = nil

	q.draining = true
	defer func() { q.draining = false }()

	for i, a := range batch {
		batch[i] = nil
		a()
	}
	return len(batch)
}
