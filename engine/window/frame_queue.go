package window

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/engine/driver"
)

type pendingFrame struct {
	id       driver.FrameID
	callback func(ts float64)
}

// frameQueue holds the frame callbacks requested since the last loop iteration. Callbacks
// requested while the queue is running wait for the next iteration, so each requester gets at
// most one callback per displayed frame.
type frameQueue struct {
	mu      *sync.Mutex
	nextID  driver.FrameID
	pending []pendingFrame
}

func newFrameQueue() *frameQueue {
	return &frameQueue{mu: &sync.Mutex{}}
}

func (q *frameQueue) request(callback func(ts float64)) driver.FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.pending = append(q.pending, pendingFrame{id: q.nextID, callback: callback})
	return q.nextID
}

func (q *frameQueue) cancel(id driver.FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, f := range q.pending {
		if f.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// run invokes the callbacks queued before the call with timestamp ts and returns how many ran.
func (q *frameQueue) run(ts float64) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, f := range batch {
		if f.callback != nil {
			f.callback(ts)
		}
	}
	return len(batch)
}

// clear drops every pending callback.
func (q *frameQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}
