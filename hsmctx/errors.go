package hsmctx

import (
	"errors"
	"fmt"
)

// ErrNoCommonAncestor and ErrEntryDisagreesWithPath mirror package hsm's
// faults of the same name; see its errors.go.
var (
	ErrNoCommonAncestor       = errors.New("hsmctx: no common ancestor between source and target state")
	ErrEntryDisagreesWithPath = errors.New("hsmctx: entry disagrees with planned entry path")
)

func panicConfigUnknownEvent(state string, eventID int) {
	panic(fmt.Sprintf("hsmctx: state %s handles undeclared event id %d", state, eventID))
}
