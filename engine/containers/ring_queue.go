package containers

import (
	"sync"

	"github.com/spaghettifunk/planar/engine/core"
)

// RingQueue is a fixed capacity FIFO. It is safe for one producer and one
// consumer on different goroutines.
type RingQueue[T any] struct {
	mu         sync.Mutex
	data       []T
	size       int
	readIndex  int
	writeIndex int
	count      int
}

// Create a new RingQueue
func NewRingQueue[T any](size int) *RingQueue[T] {
	if size < 1 {
		size = 1
	}
	return &RingQueue[T]{
		data: make([]T, size),
		size: size,
	}
}

// Enqueue adds an element to the queue
func (rq *RingQueue[T]) Enqueue(value T) error {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.count == rq.size {
		return core.ErrQueueFull
	}

	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % rq.size
	rq.count++
	return nil
}

// Dequeue removes and returns the front element in the queue
func (rq *RingQueue[T]) Dequeue() (T, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	var zero T
	if rq.count == 0 {
		return zero, core.ErrQueueEmpty
	}

	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % rq.size
	rq.count--
	return value, nil
}

// Peek returns the front element without removing it
func (rq *RingQueue[T]) Peek() (T, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.count == 0 {
		var zero T
		return zero, core.ErrQueueEmpty
	}
	return rq.data[rq.readIndex], nil
}

// Drain removes every queued element in FIFO order.
func (rq *RingQueue[T]) Drain() []T {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	var zero T
	out := make([]T, 0, rq.count)
	for rq.count > 0 {
		out = append(out, rq.data[rq.readIndex])
		rq.data[rq.readIndex] = zero
		rq.readIndex = (rq.readIndex + 1) % rq.size
		rq.count--
	}
	return out
}

func (rq *RingQueue[T]) Len() int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.count
}

// IsEmpty checks if the queue is empty
func (rq *RingQueue[T]) IsEmpty() bool {
	return rq.Len() == 0
}

// IsFull checks if the queue is full
func (rq *RingQueue[T]) IsFull() bool {
	return rq.Len() == rq.size
}
