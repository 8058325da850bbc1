package hsmasync

import "context"

// Event, status, and Result mirror package hsm's exactly; see its event.go
// for the rationale. They are redeclared here rather than imported because
// Result and Handler close over this package's own *State[E].
type Event struct {
	Id   int
	Data any
}

type status int

const (
	statusNoTransition status = iota
	statusSelfTransition
)

// Result is what a Handler returns. The zero Result is not valid; build one
// with Goto, Stay, or Self.
type Result[E any] struct {
	target  *State[E]
	st      status
	isState bool
}

// Goto requests an external transition to target.
func Goto[E any](target *State[E]) Result[E] {
	return Result[E]{target: target, isState: true}
}

// Stay reports NO_TRANSITION: the event was consumed, nothing else happens.
func Stay[E any]() Result[E] {
	return Result[E]{st: statusNoTransition}
}

// Handled is a synonym for Stay.
func Handled[E any]() Result[E] {
	return Stay[E]()
}

// Self requests a self-transition (SELF_TRANSITION).
func Self[E any]() Result[E] {
	return Result[E]{st: statusSelfTransition}
}

// Handler is invoked, with a context a caller may cancel mid-dispatch, when
// its state is the nearest ancestor of the current leaf whose handler table
// contains the event's Id. A non-nil error aborts the dispatch in progress;
// any exits or entries already executed are not rewound.
type Handler[E any] func(ctx context.Context, ev Event, ext E) (Result[E], error)
