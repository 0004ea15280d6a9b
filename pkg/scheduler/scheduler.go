// Package scheduler provides the cooperative task queue that backs
// asynchronous channel delivery.
//
// The observable system is single-threaded and cooperative: hooks run
// synchronously on the mutating caller, while subscriber callbacks are
// posted here and run on a later turn of the loop that pumps the queue.
//
// By default tasks accumulate on a package-level queue that the embedding
// application drains with [Flush] (tests do the same). An application that
// already owns an event loop can instead call [Register] once during
// startup to have every posted task handed straight to that loop.
package scheduler

import "sync"

// Queue is a FIFO task queue. Tasks posted while the queue is being
// flushed run in the same flush, after all previously posted tasks.
type Queue struct {
	mu      sync.Mutex
	tasks   []func()
	pumping bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post appends a task to the queue. Nil tasks are ignored.
func (q *Queue) Post(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs queued tasks in post order until the queue is empty,
// including tasks posted by the tasks themselves. Calling Flush from
// inside a running task is a no-op; the outer flush picks up the new
// tasks.
func (q *Queue) Flush() {
	q.mu.Lock()
	if q.pumping {
		q.mu.Unlock()
		return
	}
	q.pumping = true
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		task()
		q.mu.Lock()
	}
	q.pumping = false
	q.mu.Unlock()
}

var (
	defaultQueue = NewQueue()

	dispatchMu   sync.RWMutex
	dispatchFunc func(task func())
)

// Register sets the dispatch function used to schedule delivery tasks.
// This should be called once by the embedding event loop during
// initialization. Pass nil to restore the default queue.
func Register(fn func(task func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Post schedules a task on the registered dispatcher, or on the default
// queue when none is registered.
func Post(task func()) {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn != nil {
		fn(task)
		return
	}
	defaultQueue.Post(task)
}

// Flush drains the default queue. It has no effect on tasks handed to a
// registered dispatcher.
func Flush() {
	defaultQueue.Flush()
}

// Pending returns the number of tasks waiting on the default queue.
func Pending() int {
	return defaultQueue.Len()
}
