package hsmasync

import (
	"context"
	"fmt"
)

// StateMachine mirrors package hsm's StateMachine: a finalized, immutable
// topology shared across any number of StateMachineInstance values.
type StateMachine[E any] struct {
	root           *State[E]
	stateBuilders  []*StateBuilder[E]
	declaredEvents map[int]struct{}
	finalized      bool
}

func (sm *StateMachine[E]) DeclareEvents(ids ...int) {
	sm.declaredEvents = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		sm.declaredEvents[id] = struct{}{}
	}
}

func (sm *StateMachine[E]) State(name string) *StateBuilder[E] {
	if sm.root != nil {
		panic("hsmasync: state machine already has root state " + sm.root.name + "; a machine has exactly one root")
	}
	sb := &StateBuilder[E]{machine: sm, name: name}
	sm.stateBuilders = append(sm.stateBuilders, sb)
	return sb
}

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

// Finalize validates the declared topology and freezes it.
func (sm *StateMachine[E]) Finalize() {
	if sm.root == nil {
		panic("hsmasync: state machine must have a root state")
	}
	if len(sm.stateBuilders) > 0 {
		panic(fmt.Sprintf("hsmasync: state %s builder left unused. Forgotten call to Build()?", sm.stateBuilders[0].name))
	}

	var walk func(s *State[E])
	walk = func(s *State[E]) {
		for _, c := range s.children {
			walk(c)
		}
		if !s.IsLeaf() && s.initial == nil && s.entryFunc == nil {
			panic("hsmasync: state " + s.name + " must have an initial sub-state")
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

// StateMachineInstance is one running instance of a StateMachine. Unlike
// package hsm's synchronous instance, Deliver here takes a context: a
// caller can cancel a dispatch in progress between any two suspension
// points. Concurrent Deliver calls on the same instance remain undefined,
// matching the engine's single-threaded scheduling model (spec's
// Non-goals); the context only governs cancellation, not concurrency.
type StateMachineInstance[E any] struct {
	SM      *StateMachine[E]
	Ext     E
	current *State[E]
}

func (smi *StateMachineInstance[E]) Current() *State[E] {
	return smi.current
}

// Initialize runs the Entry Chaser from the root to the instance's initial
// leaf.
func (smi *StateMachineInstance[E]) Initialize(ctx context.Context, ev Event) error {
	if !smi.SM.finalized {
		panic("hsmasync: state machine not finalized")
	}
	s, err := chase(ctx, smi.SM.root, ev, smi.Ext)
	if err != nil {
		return err
	}
	smi.current = s
	return nil
}
