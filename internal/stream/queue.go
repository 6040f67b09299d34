package stream

import "sync"

// outQueue is a fixed-capacity FIFO for a client's outbound envelopes.
// When full, push evicts the oldest entry so the writer always sees the
// most recent window of the replay.
type outQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf    []Envelope
	head   int
	count  int
	closed bool

	// Stats
	pushed  int64
	sent    int64
	dropped int64
}

func newOutQueue(capacity int) *outQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := &outQueue{buf: make([]Envelope, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues an envelope, evicting the oldest when full. Returns
// false once the queue is closed.
func (q *outQueue) push(env Envelope) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	if q.count == len(q.buf) {
		// Evict oldest.
		q.head = (q.head + 1) % len(q.buf)
		q.count--
		q.dropped++
	}

	q.buf[(q.head+q.count)%len(q.buf)] = env
	q.count++
	q.pushed++

	q.cond.Signal()
	return true
}

// next blocks until an envelope is available or the queue is closed.
func (q *outQueue) next() (Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.count == 0 {
		return Envelope{}, false
	}

	env := q.buf[q.head]
	q.buf[q.head] = Envelope{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	q.sent++
	return env, true
}

// close wakes all waiters; queued envelopes remain drainable via next.
func (q *outQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// QueueStats holds outbound queue counters.
type QueueStats struct {
	Queued  int
	Pushed  int64
	Sent    int64
	Dropped int64
}

func (q *outQueue) stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Queued:  q.count,
		Pushed:  q.pushed,
		Sent:    q.sent,
		Dropped: q.dropped,
	}
}
