package observe

import (
	"github.com/go-drift/observe/pkg/errors"
	"github.com/go-drift/observe/pkg/scheduler"
)

// Subscription is the handle returned by [Channel.Subscribe].
type Subscription[T any] struct {
	ch     *Channel[T]
	fn     func(T)
	active bool
}

// Cancel removes the subscription from its channel. Cancellation is
// synchronous: once Cancel returns, no delivery task that has not yet
// been dequeued will invoke the handler. A delivery already dequeued by
// the scheduler at the moment of cancellation still runs.
// Cancelling twice is a no-op.
func (s *Subscription[T]) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	s.ch.remove(s)
}

// Active reports whether the subscription can still receive deliveries.
func (s *Subscription[T]) Active() bool {
	return s != nil && s.active
}

// Channel is a broadcast primitive with asynchronous multi-subscriber
// fanout and a closeable lifecycle. Subscribers are held in registration
// order; "remove the last listener" pops the most recently added one.
//
// Channel is not safe for concurrent use. The observable system is
// single-threaded and cooperative; see the package documentation.
type Channel[T any] struct {
	subs   []*Subscription[T]
	closed bool
}

// NewChannel creates an open channel with no subscribers.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Subscribe registers a handler and returns its subscription handle.
// Subscribing to a closed channel fails.
func (c *Channel[T]) Subscribe(fn func(T)) (*Subscription[T], error) {
	if c.closed {
		return nil, errors.Disposed("observe.Channel.Subscribe")
	}
	sub := &Subscription[T]{ch: c, fn: fn, active: true}
	c.subs = append(c.subs, sub)
	return sub, nil
}

// UnsubscribeLast cancels the most recently added subscription.
// It fails when the channel has no subscribers.
func (c *Channel[T]) UnsubscribeLast() error {
	if len(c.subs) == 0 {
		return errors.EmptyRemoval("observe.Channel.UnsubscribeLast")
	}
	last := c.subs[len(c.subs)-1]
	last.active = false
	c.subs = c.subs[:len(c.subs)-1]
	return nil
}

func (c *Channel[T]) remove(sub *Subscription[T]) {
	for i := len(c.subs) - 1; i >= 0; i-- {
		if c.subs[i] == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (c *Channel[T]) Len() int {
	return len(c.subs)
}

// HasSubscribers reports whether at least one subscription is live.
func (c *Channel[T]) HasSubscribers() bool {
	return len(c.subs) > 0
}

// Closed reports whether the channel has been closed.
func (c *Channel[T]) Closed() bool {
	return c.closed
}

// Publish schedules delivery of item to every current subscriber, in
// subscription order, and returns before any handler runs. Publishing
// with zero subscribers is a no-op, including on a closed channel, so
// in-flight mutation code does not need to special-case teardown.
// Publishing on a closed channel that somehow still holds subscribers
// fails.
func (c *Channel[T]) Publish(item T) error {
	if c.closed && len(c.subs) > 0 {
		return errors.Disposed("observe.Channel.Publish")
	}
	for _, sub := range c.subs {
		sub := sub
		scheduler.Post(func() {
			defer errors.Recover("observe.Channel.deliver")
			if sub.active {
				sub.fn(item)
			}
		})
	}
	return nil
}

// Close cancels every subscription and permanently forbids further
// Publish and Subscribe calls. Closing a closed channel is a no-op.
func (c *Channel[T]) Close() {
	if c.closed {
		return
	}
	for _, sub := range c.subs {
		sub.active = false
	}
	c.subs = nil
	c.closed = true
}
