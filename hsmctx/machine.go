package hsmctx

import (
	"context"
	"fmt"
)

// StateMachine mirrors package hsm's StateMachine.
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
		panic("hsmctx: state machine already has root state " + sm.root.name + "; a machine has exactly one root")
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

func (sm *StateMachine[E]) Finalize() {
	if sm.root == nil {
		panic("hsmctx: state machine must have a root state")
	}
	if len(sm.stateBuilders) > 0 {
		panic(fmt.Sprintf("hsmctx: state %s builder left unused. Forgotten call to Build()?", sm.stateBuilders[0].name))
	}

	var walk func(s *State[E])
	walk = func(s *State[E]) {
		for _, c := range s.children {
			walk(c)
		}
		if !s.IsLeaf() && s.initial == nil && s.entryFunc == nil {
			panic("hsmctx: state " + s.name + " must have an initial sub-state")
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

// StateMachineInstance is one running instance of a StateMachine. Alongside
// the current leaf, it keeps the full root-to-leaf path and, parallel to
// it, the context.Context each of those states' own entry produced -
// ctxs[i] is exactly what path[i]'s handler and children observed. Exiting
// back past a state discards everything below its slot, the same way
// cancelling a context.Context tears down everything derived from it.
type StateMachineInstance[E any] struct {
	SM  *StateMachine[E]
	Ext E

	path []*State[E]
	ctxs []context.Context
}

// Current returns the instance's current leaf state, or nil before
// Initialize has run.
func (smi *StateMachineInstance[E]) Current() *State[E] {
	if len(smi.path) == 0 {
		return nil
	}
	return smi.path[len(smi.path)-1]
}

// Context returns the context.Context currently in scope at the leaf - the
// one the next event's handler would see if it were handled there.
func (smi *StateMachineInstance[E]) Context() context.Context {
	if len(smi.ctxs) == 0 {
		return nil
	}
	return smi.ctxs[len(smi.ctxs)-1]
}

// Initialize runs the Entry Chaser from the root, composing ctx downward
// through every state entered on the way to the instance's initial leaf.
func (smi *StateMachineInstance[E]) Initialize(ctx context.Context, ev Event) error {
	if !smi.SM.finalized {
		panic("hsmctx: state machine not finalized")
	}
	states, ctxs, err := chase(ctx, smi.SM.root, ev, smi.Ext)
	if err != nil {
		return err
	}
	smi.path = states
	smi.ctxs = ctxs
	return nil
}
