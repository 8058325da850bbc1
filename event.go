package hsm

// Event instances are delivered to a state machine, causing it to run
// handlers and possibly change states. Id identifies the event variant; Data
// is an optional, engine-opaque payload. The engine never interprets Data -
// it only matches Id against a state's handler table.
type Event struct {
	Id   int
	Data any
}

// status is the sentinel a handler can return instead of a target state.
// EVENT_UNHANDLED is not a member of this type: it is produced internally by
// the dispatcher when no ancestor's handler table contains the event, never
// by user code.
type status int

const (
	statusNoTransition status = iota
	statusSelfTransition
)

// Result is what a Handler returns: either a target state (an external
// transition) or one of the two sentinels NoTransition/SelfTransition.
// The zero Result is not valid; always build one with Goto, Stay, or Self.
type Result[E any] struct {
	target  *State[E]
	st      status
	isState bool
}

// Goto requests an external transition to target. target may be any state
// in the same tree, including an ancestor or a descendant of the handling
// state, or the handling state itself (which forces a full exit/entry cycle
// through the handling state's parent, per spec boundary behavior).
func Goto[E any](target *State[E]) Result[E] {
	return Result[E]{target: target, isState: true}
}

// Stay reports that the event was consumed but no transition occurs - the
// NO_TRANSITION sentinel. The leaf and all stored state are left unchanged.
func Stay[E any]() Result[E] {
	return Result[E]{st: statusNoTransition}
}

// Handled is a synonym for Stay, read more naturally at a handler's call
// site when the point is "I consumed this event, nothing else happens".
func Handled[E any]() Result[E] {
	return Stay[E]()
}

// Self requests a self-transition: the handling state (and everything
// between the source leaf and it) is exited, then the handling state is
// re-entered and chased - the SELF_TRANSITION sentinel.
func Self[E any]() Result[E] {
	return Result[E]{st: statusSelfTransition}
}

func (r Result[E]) isSelfTransition() bool {
	return !r.isState && r.st == statusSelfTransition
}

// Handler is invoked with the event and the machine's external (extended)
// state when the state it's registered on is the nearest ancestor of the
// current leaf whose handler table contains the event's Id.
type Handler[E any] func(Event, E) Result[E]
