// Package observe provides observable containers: a scalar [Value] plus
// [List], [Map], and [Set] adapters that notify interested parties
// whenever their content changes.
//
// # Channels
//
// Every observable owns up to three broadcast [Channel]s of increasing
// granularity:
//
//   - change: one [Change] per affected element
//   - event: one [Event] aggregating all elements affected by an operation
//   - update: the whole container after the operation
//
// Each channel is paired with an optional synchronous hook (the OnChange,
// OnEvent, and OnUpdate fields) that runs immediately before the channel
// publishes. For a single mutation with all three observed, the fixed
// order is change, then event, then update.
//
// # Delivery
//
// Hooks run synchronously on the mutating caller. Subscriber callbacks
// are asynchronous: Publish posts one delivery task per subscriber onto
// the [scheduler] queue and returns before any handler runs. Deliveries
// on one channel are FIFO relative to its publish calls, but a burst of
// mutations can interleave across channels: a change subscriber that
// keeps up may observe per-element notifications before an update
// subscriber sees the coalesced container from an earlier mutation in the
// same burst. Code that mixes a change listener with an event or update
// listener on the same observable must not assume cross-channel arrival
// order beyond the publish order of a single mutation.
//
// # Gating
//
// A channel/hook pair is observed when it has a hook set or at least one
// live subscriber. Diff computation for bulk operations is skipped
// entirely when neither the event nor the change channel is observed, so
// unobserved containers mutate at plain-container cost.
//
// # Silent mutation and the raw escape hatch
//
// Every mutating method takes a trailing optional notify flag; passing
// false mutates the backing container and returns without any diffing,
// hooks, or publishes. The backing container itself is reachable through
// Raw(); mutating it directly bypasses all notification deliberately.
//
// # Disposal
//
// Dispose cancels every live subscription on every channel, closes the
// channels, and clears the hooks in one step. Disposal is one-way and
// not idempotent: a second Dispose returns an error, as does any further
// subscribe attempt or any notifying mutation that still has an observer
// wired after disposal.
package observe
