package observe

import "github.com/go-drift/observe/pkg/errors"

// Collection extends [Emitter] with a change channel that delivers one
// [Change] per affected element, and with the dispatch engine that every
// container adapter drives: notifyAll for single-element mutations and
// notifyBulk for bulk mutations whose per-key diff the adapter computed.
//
// T is the backing container type published on the update channel, K the
// element key type, V the element type.
type Collection[T any, K comparable, V any] struct {
	Emitter[T, K, V]

	// OnChange, when set, is invoked synchronously with each element
	// change, immediately before the change channel publishes.
	OnChange func(Change[K, V])

	changes *Channel[Change[K, V]]
}

func (c *Collection[T, K, V]) init(initial T) {
	c.Emitter.init(initial)
	c.changes = NewChannel[Change[K, V]]()
}

// Changes returns the change channel.
func (c *Collection[T, K, V]) Changes() *Channel[Change[K, V]] {
	return c.changes
}

// hasChangeRaw reports change observation ignoring the disposed flag.
func (c *Collection[T, K, V]) hasChangeRaw() bool {
	return c.OnChange != nil || c.changes.HasSubscribers()
}

// HasChange reports whether the change channel is observed: not
// disposed, and the OnChange hook is set or the channel has a subscriber.
func (c *Collection[T, K, V]) HasChange() bool {
	return !c.disposed && c.hasChangeRaw()
}

// IsObserved extends [Emitter.IsObserved] to include change observation.
func (c *Collection[T, K, V]) IsObserved() bool {
	return c.Emitter.IsObserved() || c.HasChange()
}

// wantsDiff reports whether a bulk mutation must snapshot and diff.
// Adapters skip all diff work when this is false.
func (c *Collection[T, K, V]) wantsDiff() bool {
	return c.hasChangeRaw() || c.hasEventRaw()
}

// notifyChange runs the OnChange hook, then publishes chg on the change
// channel. No-op when unobserved; fails after disposal while observed.
func (c *Collection[T, K, V]) notifyChange(chg Change[K, V]) error {
	if !c.hasChangeRaw() {
		return nil
	}
	if c.disposed {
		return errors.Disposed("observe.Collection.notifyChange")
	}
	if c.OnChange != nil {
		c.OnChange(chg)
	}
	return c.changes.Publish(chg)
}

// notifyContainer runs the OnUpdate hook, then publishes the whole
// container on the update channel. After disposal the notification is
// dropped silently when nothing observes it, so mutation code in flight
// during teardown finishes without special-casing; it fails only if a
// hook or subscription is still wired.
func (c *Collection[T, K, V]) notifyContainer() error {
	if !c.hasUpdateRaw() {
		return nil
	}
	if c.disposed {
		return errors.Disposed("observe.Collection.notifyContainer")
	}
	return c.notifyUpdate()
}

// notifyAll dispatches one single-element mutation on all three
// channels, most granular first: change, then event, then update. Each
// step only does work if its channel is observed.
func (c *Collection[T, K, V]) notifyAll(kind ChangeKind, key K, value V) error {
	if err := c.notifyChange(Change[K, V]{Kind: kind, Key: key, Value: value}); err != nil {
		return err
	}
	if c.hasEventRaw() {
		ev := newEvent[K, V](kind)
		ev.add(key, value)
		if err := c.NotifyEvent(ev); err != nil {
			return err
		}
	}
	return c.notifyContainer()
}

// notifyBulk dispatches the diff of one bulk mutation: one Change per
// entry on the change channel in the order the adapter discovered them,
// then one Event per change kind present (in first-encounter order) on
// the event channel, then at most one update publish. The update publish
// is skipped when the diff is empty and the container length did not
// change, so no-op bulk calls stay silent.
func (c *Collection[T, K, V]) notifyBulk(entries []Change[K, V], lengthChanged bool) error {
	if len(entries) == 0 && !lengthChanged {
		return nil
	}
	for _, entry := range entries {
		if err := c.notifyChange(entry); err != nil {
			return err
		}
	}
	if c.hasEventRaw() {
		for _, ev := range groupByKind(entries) {
			if err := c.NotifyEvent(ev); err != nil {
				return err
			}
		}
	}
	return c.notifyContainer()
}

// Dispose cancels every subscription on all three channels, closes them,
// and clears all three hooks in one step, so code still holding the
// collection sees zero observers immediately afterwards. Not idempotent.
func (c *Collection[T, K, V]) Dispose() error {
	if c.disposed {
		return errors.Disposed("observe.Collection.Dispose")
	}
	c.disposed = true
	c.OnUpdate = nil
	c.OnEvent = nil
	c.OnChange = nil
	c.updates.Close()
	c.events.Close()
	c.changes.Close()
	return nil
}

// notifying interprets a trailing optional notify flag: mutators notify
// by default and stay silent when the caller passes false.
func notifying(notify []bool) bool {
	return len(notify) == 0 || notify[0]
}
