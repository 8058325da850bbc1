package hsm

import (
	"fmt"

	"github.com/go-statecraft/hsm/internal/diagnostics"
)

// StateMachine holds the static topology of a statechart: one root state and
// its descendants, plus (optionally) the closed set of event ids the
// machine's states are allowed to handle. A StateMachine is declared once
// with State/On/Entry/Exit/Initial and then Finalize-d; after that it is
// immutable and may be shared freely across any number of
// StateMachineInstance values (see spec's "topology is immutable and freely
// shared" resource policy).
type StateMachine[E any] struct {
	root          *State[E]
	stateBuilders []*StateBuilder[E]
	declaredEvents map[int]struct{} // nil: any event id is accepted
	finalized      bool
}

// DeclareEvents restricts the machine to the given closed set of event ids:
// Finalize will panic if any state's handler table mentions an id outside
// this set (the CONFIG_UNKNOWN_EVENT fault). Calling DeclareEvents is
// optional; a machine that never calls it accepts any event id, matching
// the teacher's unconstrained int event ids.
func (sm *StateMachine[E]) DeclareEvents(ids ...int) {
	sm.declaredEvents = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		sm.declaredEvents[id] = struct{}{}
	}
}

// State creates a builder for the machine's single root state. A
// StateMachine may have at most one top-level state: the spec's topology
// invariant 2 requires that exactly one state (the root) have no parent.
func (sm *StateMachine[E]) State(name string) *StateBuilder[E] {
	if sm.root != nil {
		panic("hsm: state machine already has root state " + sm.root.name + "; a machine has exactly one root")
	}
	sb := &StateBuilder[E]{machine: sm, name: name}
	sm.stateBuilders = append(sm.stateBuilders, sb)
	return sb
}

// State creates a builder for a new child of s.
func (s *State[E]) State(name string) *StateBuilder[E] {
	sb := &StateBuilder[E]{parent: s, name: name}
	s.sm.stateBuilders = append(s.sm.stateBuilders, sb)
	return sb
}

func (sm *StateMachine[E]) removeStateBuilder(sb *StateBuilder[E]) {
	for i, sb1 := range sm.stateBuilders {
		if sb1 == sb {
			sm.stateBuilders = append(sm.stateBuilders[:i], sm.stateBuilders[i+1:]...)
			return
		}
	}
}

// Finalize validates the declared topology and freezes it. It must be
// called exactly once, after every state has been Build-ed, before any
// StateMachineInstance can be initialized.
func (sm *StateMachine[E]) Finalize() {
	if sm.root == nil {
		panic("hsm: state machine must have a root state")
	}
	if len(sm.stateBuilders) > 0 {
		panic(fmt.Sprintf("hsm: state %s builder left unused. Forgotten call to Build()?", sm.stateBuilders[0].name))
	}

	visited := make(map[*State[E]]bool)
	var walk func(s *State[E])
	walk = func(s *State[E]) {
		if visited[s] {
			panicConfigCycle(s.name)
		}
		visited[s] = true
		// A state reachable from two parents would have to appear twice in
		// some parent's children slice under two different *State[E]
		// pointers with the same s.parent already set by Build(); the
		// builder API makes that structurally impossible, and
		// internal/config's YAML loader also builds its tree through the
		// builder API, so this branch is a defensive check.
		for _, c := range s.children {
			if c.parent != s {
				panicConfigMultipleParents(c.name)
			}
			walk(c)
		}
		if !s.IsLeaf() && s.initial == nil && s.entryFunc == nil {
			panic("hsm: state " + s.name + " must have an initial sub-state")
		}
		if sm.declaredEvents != nil && s.handlers != nil {
			for pair := s.handlers.Oldest(); pair != nil; pair = pair.Next() {
				if _, ok := sm.declaredEvents[pair.Key]; !ok {
					panicConfigUnknownEvent(s.name, pair.Key)
				}
			}
		}
	}
	walk(sm.root)
	sm.finalized = true
}

// StateMachineInstance is one running instance of a StateMachine: the
// current leaf plus the caller's extended state Ext, which is passed
// through to every entry, exit, and handler call. Each instance should have
// its own, independent Ext; concurrent Deliver calls on the same instance
// are undefined (spec's single-threaded scheduling model).
type StateMachineInstance[E any] struct {
	SM  *StateMachine[E]
	Ext E
	// Log, if set, receives trace-level messages for handler search, the
	// kind of transition taken, and faults; individual exit and entry calls
	// are not logged. A nil Log (the zero value) is silent.
	Log     *diagnostics.Logger
	current *State[E]
}

// Current returns the instance's current leaf state, or nil before
// Initialize has run.
func (smi *StateMachineInstance[E]) Current() *State[E] {
	return smi.current
}

// Initialize runs the Entry Chaser from the machine's root, driving the
// instance to its initial leaf. ev is passed to every entry callback along
// the way; it is not otherwise interpreted; instance instance start-up
// typically uses a distinguished event id for it.
func (smi *StateMachineInstance[E]) Initialize(ev Event) {
	if !smi.SM.finalized {
		panic("hsm: state machine not finalized")
	}
	smi.current = chase(smi.SM.root, ev, smi.Ext)
}
