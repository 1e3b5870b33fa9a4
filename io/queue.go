package io

import (
	"iter"
	"sync"
)

// Queue is an order-preserving Channel. The zero value is ready to use
// and unbounded.
type Queue struct {
	mutex  sync.Mutex
	data   []rune
	ready  chan struct{}
	closed bool
}

var _ Channel = (*Queue)(nil)

// readyLocked returns the ready signal, creating it on first use.
func (q *Queue) readyLocked() chan struct{} {
	if q.ready == nil {
		q.ready = make(chan struct{}, 1)
	}
	return q.ready
}

// Rewind discards all queued characters and reopens a closed queue.
func (q *Queue) Rewind() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.data = nil
	q.closed = false
	select {
	case <-q.readyLocked():
	default:
	}
}

// Send appends a character to the queue and signals Ready.
func (q *Queue) Send(value rune) (err error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		err = ErrChannelClosed
		return
	}

	q.data = append(q.data, value)

	select {
	case q.readyLocked() <- struct{}{}:
	default:
		// Already signalled.
	}

	return
}

// Receive takes everything currently queued and yields it in send order.
// Characters the consumer stops early on are put back at the head of the queue.
func (q *Queue) Receive() iter.Seq[rune] {
	return func(yield func(value rune) bool) {
		q.mutex.Lock()
		batch := q.data
		q.data = nil
		q.mutex.Unlock()

		for n, value := range batch {
			if !yield(value) {
				q.mutex.Lock()
				q.data = append(batch[n+1:len(batch):len(batch)], q.data...)
				q.mutex.Unlock()
				return
			}
		}
	}
}

// Ready returns a channel that receives after new characters are queued.
func (q *Queue) Ready() <-chan struct{} {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.readyLocked()
}

// Len returns the number of queued characters.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.data)
}

// Close rejects further sends. Queued characters remain receivable.
func (q *Queue) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closed = true
}
