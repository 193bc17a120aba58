// Package ready defers callbacks until every registered loader has reported
// completion.
//
// A Queue starts busy with one outstanding loader, the bootstrap itself.
// Busy registers another; Ready with no callbacks reports one as done.
// Callbacks passed to Ready run in FIFO order once nothing is busy.
package ready

import (
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("easyoop.ready")

// Queue is a busy counter with a queue of deferred callbacks.
type Queue struct {
	mu      sync.Mutex
	busy    int
	pending []func()
}

// New returns a queue with one outstanding loader.
func New() *Queue {
	return &Queue{busy: 1}
}

// Busy registers one more outstanding loader.
func (q *Queue) Busy() {
	q.mu.Lock()
	q.busy++
	q.mu.Unlock()
}

// Ready either reports one loader as done (no arguments) or schedules fns.
// A single callback runs at once when nothing is busy or pending. Queued
// callbacks drain in order whenever the busy count reaches zero; a callback
// that calls Busy stops the drain until the matching Ready.
func (q *Queue) Ready(fns ...func()) {
	q.mu.Lock()
	if len(fns) == 0 {
		if q.busy > 0 {
			q.busy--
		}
	} else if len(fns) == 1 && q.busy == 0 && len(q.pending) == 0 {
		q.mu.Unlock()
		fns[0]()
		return
	}
	q.pending = append(q.pending, fns...)
	q.mu.Unlock()

	q.drain()
}

func (q *Queue) drain() {
	ran := 0
	for {
		q.mu.Lock()
		if q.busy != 0 || len(q.pending) == 0 {
			q.mu.Unlock()
			break
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
		ran++
	}
	if ran > 0 {
		log.Debugf("ran %d deferred callbacks", ran)
	}
}

// IsBusy reports whether any loader is outstanding.
func (q *Queue) IsBusy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.busy > 0
}

// Pending returns the number of queued callbacks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
