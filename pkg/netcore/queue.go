package netcore

import (
	"sync"

	"github.com/kcriqui/badgenet/pkg/frame"
)

// FrameQueue is a bounded FIFO of frames. It backs both the transmit
// queue and the promiscuous capture queue (§3), which use different
// overflow policies: the transmit queue applies the half-bound
// backpressure rule via TryEnqueueForward/EnqueueLocal/PopForSend, while
// the promiscuous queue drops the oldest entry via PushDropOldest.
type FrameQueue struct {
	mu    sync.Mutex
	items []*frame.Frame
	bound int
}

// NewFrameQueue creates a queue bounded at bound entries.
func NewFrameQueue(bound int) *FrameQueue {
	return &FrameQueue{bound: bound}
}

// Bound returns the queue's configured capacity.
func (q *FrameQueue) Bound() int { return q.bound }

// Len returns the current number of queued frames.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// TryEnqueueForward attempts to enqueue a TTL-decremented forward per the
// receive pump's half-bound gate (§4.C receive pump step 2: "If... the
// transmit queue is below half its bound, enqueue it"). Returns false
// without modifying the queue when already at or above half capacity.
func (q *FrameQueue) TryEnqueueForward(f *frame.Frame) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.bound/2 {
		return false
	}
	q.items = append(q.items, f)
	return true
}

// EnqueueLocal appends a locally originated frame unconditionally,
// evicting the oldest non-local entry first if the queue is already full
// (§7 "Queue overflow": "append, dropping oldest non-local frame to make
// room"; §3 "locally originated frames... are never dropped by this
// policy").
func (q *FrameQueue) EnqueueLocal(f *frame.Frame, ownAddress uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.bound {
		for i, it := range q.items {
			if it.Header.Source != ownAddress {
				q.items = append(q.items[:i], q.items[i+1:]...)
				break
			}
		}
	}
	q.items = append(q.items, f)
}

// PopForSend pops the head frame, if any. local reports whether the
// popped frame originated at ownAddress; dropBackpressure reports
// whether the remaining backlog still exceeds half capacity for a
// non-local frame, per §4.C transmit pump step 4 ("If the queue length
// exceeds half its bound and the frame did not originate locally, drop
// it... and continue").
func (q *FrameQueue) PopForSend(ownAddress uint32) (f *frame.Frame, local, dropBackpressure, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, false, false
	}
	f = q.items[0]
	q.items = q.items[1:]
	local = f.Header.Source == ownAddress
	dropBackpressure = !local && len(q.items) > q.bound/2
	return f, local, dropBackpressure, true
}

// PushDropOldest enqueues f, evicting the oldest entry first if full
// (promiscuous queue overflow policy, §3).
func (q *FrameQueue) PushDropOldest(f *frame.Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.bound {
		q.items = q.items[1:]
	}
	q.items = append(q.items, f)
}

// Pop removes and returns the head frame, if any.
func (q *FrameQueue) Pop() (*frame.Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f, true
}

// Snapshot returns a copy of the currently queued frames, oldest first.
func (q *FrameQueue) Snapshot() []*frame.Frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*frame.Frame, len(q.items))
	copy(out, q.items)
	return out
}
