package hsm

import (
	"errors"
	"fmt"
)

// ErrNoCommonAncestor is the NO_COMMON_ANCESTOR fault: a handler returned a
// target state that does not belong to the same tree as the source leaf.
// It can only be reached through a misconfigured or cross-machine
// transition; within a single, Finalize-d StateMachine it is unreachable
// because every state shares the same root.
var ErrNoCommonAncestor = errors.New("hsm: no common ancestor between source and target state")

// ErrEntryDisagreesWithPath is the ENTRY_DISAGREES_WITH_PATH fault: during
// planned entry sequencing, a state's entry returned a state other than the
// next state on the path that was computed from the transition target. This
// indicates a declaration bug where a composite state's default initial
// child disagrees with a transition that targets one of its descendants.
var ErrEntryDisagreesWithPath = errors.New("hsm: entry disagrees with planned entry path")

// panicConfigCycle, panicConfigMultipleParents, and panicConfigUnknownEvent are raised by
// Finalize as panics, matching the teacher builder's style of surfacing
// declaration mistakes immediately rather than returning an error value
// that every caller would need to check.
func panicConfigCycle(name string) {
	panic("hsm: cycle detected at state " + name)
}

func panicConfigMultipleParents(name string) {
	panic("hsm: state " + name + " declared under two parents")
}

func panicConfigUnknownEvent(state string, eventID int) {
	panic(fmt.Sprintf("hsm: state %s handles undeclared event id %d", state, eventID))
}
