package observe

import "github.com/go-drift/observe/pkg/errors"

// Value wraps a single value of type T and notifies observers when it is
// replaced. Observers come in two forms: the synchronous OnUpdate hook,
// which runs on the mutating caller, and subscribers on the update
// channel, which receive the new value asynchronously.
type Value[T any] struct {
	// OnUpdate, when set, is invoked synchronously with the new value on
	// every notifying mutation, immediately before the update channel
	// publishes. Mutating the value from inside OnUpdate must go through
	// SetSilently to avoid recursing.
	OnUpdate func(T)

	value    T
	updates  *Channel[T]
	disposed bool

	// clone, when set by a container adapter, snapshots the value at
	// publish time so that pending deliveries are not corrupted by later
	// in-place mutations of the backing container.
	clone func(T) T
}

// NewValue creates an observable wrapping initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, updates: NewChannel[T]()}
}

// NewValueWithHook creates an observable wrapping initial with the
// OnUpdate hook already set.
func NewValueWithHook[T any](initial T, onUpdate func(T)) *Value[T] {
	v := NewValue(initial)
	v.OnUpdate = onUpdate
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Updates returns the update channel.
func (v *Value[T]) Updates() *Channel[T] {
	return v.updates
}

// Set stores next, runs the OnUpdate hook, and publishes next on the
// update channel. It fails once the observable is disposed.
func (v *Value[T]) Set(next T) error {
	if v.disposed {
		return errors.Disposed("observe.Value.Set")
	}
	v.value = next
	return v.notifyUpdate()
}

// SetSilently stores next with no hook call and no publish. This is the
// sanctioned way to mutate from inside OnUpdate without recursing.
func (v *Value[T]) SetSilently(next T) {
	v.value = next
}

// notifyUpdate runs the hook, then publishes the current value.
func (v *Value[T]) notifyUpdate() error {
	if v.OnUpdate != nil {
		v.OnUpdate(v.value)
	}
	out := v.value
	if v.clone != nil {
		out = v.clone(out)
	}
	return v.updates.Publish(out)
}

// hasUpdateRaw reports update observation ignoring the disposed flag.
func (v *Value[T]) hasUpdateRaw() bool {
	return v.OnUpdate != nil || v.updates.HasSubscribers()
}

// IsObserved reports whether anything is watching the value: not
// disposed, and the OnUpdate hook is set or the update channel has at
// least one subscriber.
func (v *Value[T]) IsObserved() bool {
	return !v.disposed && v.hasUpdateRaw()
}

// Disposed reports whether Dispose has been called.
func (v *Value[T]) Disposed() bool {
	return v.disposed
}

// Dispose cancels all update subscriptions, closes the update channel,
// and clears the hook. Disposal is permanent and not idempotent: a
// second call fails.
func (v *Value[T]) Dispose() error {
	if v.disposed {
		return errors.Disposed("observe.Value.Dispose")
	}
	v.disposed = true
	v.OnUpdate = nil
	v.updates.Close()
	return nil
}
