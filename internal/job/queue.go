package job

import (
	"context"
	"errors"
)

// ErrClosed is returned by Producer.Push once the queue has been closed.
var ErrClosed = errors.New("job: queue closed")

// Producer pushes job IDs onto the queue. Push does not block indefinitely:
// callers that cannot tolerate backpressure observe ErrClosed or a
// context error rather than hanging forever.
type Producer interface {
	Push(ctx context.Context, jobID string) error
}

// Consumer pops job IDs off the queue. Pop is a suspending operation that
// returns ok=false only once the queue is closed and drained.
type Consumer interface {
	Pop(ctx context.Context) (jobID string, ok bool)
}

// Queue is a single-producer/single-consumer (logically MPMC-capable)
// in-process job ID channel, the in-process default named in the spec's
// queue contract. A persistent backend (e.g. Redis Streams) can be
// substituted by implementing Producer/Consumer directly against it.
type Queue struct {
	ch     chan string
	closed chan struct{}
}

// NewQueue creates a Queue with the given buffer capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch:     make(chan string, capacity),
		closed: make(chan struct{}),
	}
}

// Push enqueues a job ID. It returns ErrClosed if the queue has been closed,
// and the context's error if ctx is done before the send completes (e.g. the
// buffer is full and no consumer is draining it).
func (q *Queue) Push(ctx context.Context, jobID string) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- jobID:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop dequeues the next job ID, suspending until one is available, the
// queue is closed and drained, or ctx is done.
func (q *Queue) Pop(ctx context.Context) (string, bool) {
	select {
	case id := <-q.ch:
		return id, true
	case <-q.closed:
		// A pending Push may have raced the close and still be sitting in
		// the buffer; drain it before reporting the queue empty.
		select {
		case id := <-q.ch:
			return id, true
		default:
			return "", false
		}
	case <-ctx.Done():
		return "", false
	}
}

// Close stops accepting new pushes. It only closes the internal signal
// channel, never q.ch itself: a Push blocked on sending to q.ch can still
// be in flight (e.g. worker.handleFailure's delayed retry push racing
// shutdown), and closing a channel with a pending sender panics. Close is
// idempotent.
func (q *Queue) Close() {
	select {
	case <-q.closed:
		return
	default:
		close(q.closed)
	}
}

// Producer returns the push half of the queue.
func (q *Queue) Producer() Producer { return q }

// Consumer returns the pop half of the queue.
func (q *Queue) Consumer() Consumer { return q }
