package hsmasync

import (
	"errors"
	"fmt"
)

// ErrNoCommonAncestor and ErrEntryDisagreesWithPath mirror package hsm's
// faults of the same name; see its errors.go.
var (
	ErrNoCommonAncestor       = errors.New("hsmasync: no common ancestor between source and target state")
	ErrEntryDisagreesWithPath = errors.New("hsmasync: entry disagrees with planned entry path")
)

func panicConfigUnknownEvent(state string, eventID int) {
	panic(fmt.Sprintf("hsmasync: state %s handles undeclared event id %d", state, eventID))
}
