package observe

import "github.com/go-drift/observe/pkg/errors"

// Emitter extends [Value] with an event channel that delivers
// aggregate-change descriptions keyed by position or identity. It is the
// base for [Collection]; K and V are the key and element types of the
// events it emits, while T remains the wrapped value published on the
// update channel.
type Emitter[T any, K comparable, V any] struct {
	Value[T]

	// OnEvent, when set, is invoked synchronously with each aggregate
	// event, immediately before the event channel publishes.
	OnEvent func(Event[K, V])

	events *Channel[Event[K, V]]
}

// NewEmitter creates an event-emitting observable wrapping initial.
func NewEmitter[T any, K comparable, V any](initial T) *Emitter[T, K, V] {
	e := &Emitter[T, K, V]{}
	e.init(initial)
	return e
}

func (e *Emitter[T, K, V]) init(initial T) {
	e.value = initial
	e.updates = NewChannel[T]()
	e.events = NewChannel[Event[K, V]]()
}

// Events returns the event channel.
func (e *Emitter[T, K, V]) Events() *Channel[Event[K, V]] {
	return e.events
}

// hasEventRaw reports event observation ignoring the disposed flag.
func (e *Emitter[T, K, V]) hasEventRaw() bool {
	return e.OnEvent != nil || e.events.HasSubscribers()
}

// HasEvent reports whether the event channel is observed: not disposed,
// and the OnEvent hook is set or the channel has a subscriber.
func (e *Emitter[T, K, V]) HasEvent() bool {
	return !e.disposed && e.hasEventRaw()
}

// IsObserved extends [Value.IsObserved] to include event observation.
func (e *Emitter[T, K, V]) IsObserved() bool {
	return e.Value.IsObserved() || e.HasEvent()
}

// NotifyEvent runs the OnEvent hook, then publishes ev on the event
// channel. With nothing observing the event channel it is a no-op; after
// disposal it fails if a hook or subscription is still wired.
func (e *Emitter[T, K, V]) NotifyEvent(ev Event[K, V]) error {
	if !e.hasEventRaw() {
		return nil
	}
	if e.disposed {
		return errors.Disposed("observe.Emitter.NotifyEvent")
	}
	if e.OnEvent != nil {
		e.OnEvent(ev)
	}
	return e.events.Publish(ev)
}

// Dispose cancels every subscription on the update and event channels,
// closes both, and clears both hooks. Not idempotent.
func (e *Emitter[T, K, V]) Dispose() error {
	if e.disposed {
		return errors.Disposed("observe.Emitter.Dispose")
	}
	e.disposed = true
	e.OnUpdate = nil
	e.OnEvent = nil
	e.updates.Close()
	e.events.Close()
	return nil
}
