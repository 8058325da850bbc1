package hsm

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// State is a leaf or composite state in a state machine. To create a
// top-level state, use [StateMachine.State]. To create a nested sub-state,
// use [State.State]. State (and its containing StateMachine) are
// parameterized by E, the extended state type threaded through every entry,
// exit, and handler call. If no extended state is needed, use struct{}.
type State[E any] struct {
	name     string
	alias    string
	parent   *State[E]
	children []*State[E]
	initial  *State[E] // static initial child, set via Initial()

	entryName, exitName string
	entryAction         func(Event, E)
	exitAction          func(Event, E)
	// entryFunc, when set, picks the initial child dynamically instead of
	// unconditionally descending into the static `initial` state. It is the
	// Go encoding of spec's "entry returns (initial-child, ...)" rule; most
	// states never need it and rely on Initial() instead.
	entryFunc func(Event, E) *State[E]

	handlers *orderedmap.OrderedMap[int, Handler[E]]

	sm *StateMachine[E]
}

// IsLeaf reports whether s has no children.
func (s *State[E]) IsLeaf() bool {
	return len(s.children) == 0
}

// Name returns the state's diagnostic name.
func (s *State[E]) Name() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

// String is a synonym for Name, so states print legibly in test failures
// and diagnostics.
func (s *State[E]) String() string {
	return s.Name()
}

// Parent returns the enclosing state, or nil for the root.
func (s *State[E]) Parent() *State[E] {
	return s.parent
}

// Children returns the immediate substates in declaration order. The
// returned slice must not be mutated by callers.
func (s *State[E]) Children() []*State[E] {
	return s.children
}

// runEntry executes the state's entry action (if any) and returns the state
// that chasing should continue from: entryFunc's result if one was
// registered, otherwise the statically declared initial child, otherwise s
// itself (the fixed point that stops the Entry Chaser).
func (s *State[E]) runEntry(ev Event, ext E) *State[E] {
	if s.entryAction != nil {
		s.entryAction(ev, ext)
	}
	if s.entryFunc != nil {
		return s.entryFunc(ev, ext)
	}
	if s.initial != nil {
		return s.initial
	}
	return s
}

func (s *State[E]) runExit(ev Event, ext E) {
	if s.exitAction != nil {
		s.exitAction(ev, ext)
	}
}

// handler returns the handler registered for eventID on s, if any.
func (s *State[E]) handler(eventID int) (Handler[E], bool) {
	if s.handlers == nil {
		return nil, false
	}
	return s.handlers.Get(eventID)
}

// On registers h as the handler for eventID directly on the already-built
// state s. This is the usual way to attach handlers in practice: a
// transition target is often the state itself or one of its siblings, so
// handlers are registered after Build() once every state in the topology has
// a stable *State[E] to close over, rather than threaded through the
// builder before those pointers exist.
func (s *State[E]) On(eventID int, h Handler[E]) *State[E] {
	if s.handlers == nil {
		s.handlers = orderedmap.New[int, Handler[E]]()
	}
	s.handlers.Set(eventID, h)
	return s
}

// StateBuilder provides a fluent API for building a new State.
type StateBuilder[E any] struct {
	parent  *State[E]
	machine *StateMachine[E] // set instead of parent when building the root
	name    string
	options []func(*State[E])
	built   bool
}

func (sb *StateBuilder[E]) ownerMachine() *StateMachine[E] {
	if sb.parent != nil {
		return sb.parent.sm
	}
	return sb.machine
}

// Entry registers a named entry action, run every time the state is
// entered, before the initial-child/entry-func decision is made. name is
// used only for diagnostics (diagrams, logs).
func (sb *StateBuilder[E]) Entry(name string, f func(Event, E)) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		s.entryName, s.entryAction = name, f
	})
	return sb
}

// Exit registers a named exit action, run every time the state is exited.
func (sb *StateBuilder[E]) Exit(name string, f func(Event, E)) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		s.exitName, s.exitAction = name, f
	})
	return sb
}

// EntryFunc registers a dynamic entry function that picks the initial child
// itself, generalizing beyond the static child Initial() declares. Use this
// only when the initial child depends on the extended state; f must return
// either a proper child of the state being built, or the state itself to
// stop chasing here.
func (sb *StateBuilder[E]) EntryFunc(name string, f func(Event, E) *State[E]) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		s.entryName, s.entryFunc = name, f
	})
	return sb
}

// Initial marks the state being built as the static initial sub-state of
// its parent: whenever the parent is entered (and has no EntryFunc), the
// Entry Chaser descends into this state next. On the root state, which has
// no parent, it has no effect.
func (sb *StateBuilder[E]) Initial() *StateBuilder[E] {
	opt := func(s *State[E]) {
		p := s.parent
		if p == nil {
			return
		}
		if p.initial != nil && p.initial != s {
			panic(fmt.Sprintf("hsm: sub-states %s and %s can not both be marked initial", s.name, p.initial.name))
		}
		p.initial = s
	}
	sb.options = append(sb.options, opt)
	return sb
}

// On registers h as the handler for eventID on the state being built.
// Calling On twice for the same eventID on the same state replaces the
// earlier handler but keeps its original position in the handler table's
// order.
func (sb *StateBuilder[E]) On(eventID int, h Handler[E]) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		if s.handlers == nil {
			s.handlers = orderedmap.New[int, Handler[E]]()
		}
		s.handlers.Set(eventID, h)
	})
	return sb
}

// Build finalizes the state being built, attaches it to its parent's
// children, and returns it.
func (sb *StateBuilder[E]) Build() *State[E] {
	if sb.built {
		panic(fmt.Sprintf("hsm: state %s builder: invalid attempt to use the same builder twice", sb.name))
	}
	sb.built = true
	ss := &State[E]{
		parent: sb.parent,
		name:   sb.name,
		alias:  strings.ReplaceAll(sb.name, " ", "_"),
		sm:     sb.ownerMachine(),
	}
	for _, opt := range sb.options {
		opt(ss)
	}
	if sb.parent != nil {
		sb.parent.children = append(sb.parent.children, ss)
	} else {
		sb.machine.root = ss
	}
	sb.ownerMachine().removeStateBuilder(sb)
	return ss
}
