// Package errors provides structured error handling for the observe library.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindDisposed indicates use of a channel or observable after disposal.
	KindDisposed
	// KindRange indicates a caller-supplied range that violates container bounds.
	KindRange
	// KindEmptySubscription indicates a subscriber removal on an empty channel.
	KindEmptySubscription
	// KindPanic indicates a panic recovered inside a subscriber callback.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindDisposed:
		return "disposed"
	case KindRange:
		return "range"
	case KindEmptySubscription:
		return "empty-subscription"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ObserveError represents a structured error in the observe library.
type ObserveError struct {
	// Op is the operation that failed (e.g., "observe.List.SetRange").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error, if any.
	Err error
}

func (e *ObserveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
}

func (e *ObserveError) Unwrap() error {
	return e.Err
}

// Disposed returns an error indicating that op was attempted on a channel
// or observable that has been disposed while something still observes it.
func Disposed(op string) error {
	return &ObserveError{Op: op, Kind: KindDisposed}
}

// EmptyRemoval returns an error indicating that op tried to remove the
// most recent subscriber from a channel that has none.
func EmptyRemoval(op string) error {
	return &ObserveError{Op: op, Kind: KindEmptySubscription}
}

// Range returns an error indicating that a caller-supplied range violates
// the bounds of a container of the given length. The container is left
// unmodified.
func Range(op string, start, end, length int) error {
	return &ObserveError{
		Op:   op,
		Kind: KindRange,
		Err:  fmt.Errorf("range [%d:%d) invalid for length %d", start, end, length),
	}
}

// RangeMsg is like Range but with a free-form description, for range
// failures that are not a simple start/end pair.
func RangeMsg(op, msg string) error {
	return &ObserveError{Op: op, Kind: KindRange, Err: fmt.Errorf("%s", msg)}
}

// KindOf returns the Kind of err, or KindUnknown if err is not an
// ObserveError.
func KindOf(err error) Kind {
	for err != nil {
		if oe, ok := err.(*ObserveError); ok {
			return oe.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// PanicError represents a panic recovered inside a subscriber callback.
type PanicError struct {
	// Op is the operation that panicked (e.g., "observe.Channel.deliver").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
