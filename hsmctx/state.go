package hsmctx

import (
	"context"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// State mirrors package hsm's State, except entry derives the
// context.Context passed down to children and the handler: entryAction
// takes the parent-composed ctx and returns the (possibly unchanged) ctx
// this state's subtree sees from here on.
type State[E any] struct {
	name     string
	alias    string
	parent   *State[E]
	children []*State[E]
	initial  *State[E]

	entryName, exitName string
	entryAction         func(context.Context, Event, E) (context.Context, error)
	exitAction          func(context.Context, Event, E)
	entryFunc           func(context.Context, Event, E) *State[E]

	handlers *orderedmap.OrderedMap[int, Handler[E]]

	sm *StateMachine[E]
}

func (s *State[E]) IsLeaf() bool { return len(s.children) == 0 }

func (s *State[E]) Name() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

func (s *State[E]) String() string { return s.Name() }

func (s *State[E]) Parent() *State[E] { return s.parent }

func (s *State[E]) Children() []*State[E] { return s.children }

// runEntry runs the state's entry action against the parent-composed ctx,
// returning the (possibly derived) context this state's subtree sees, and
// the next state chasing should continue from (entryFunc's result, the
// static initial child, or s itself at the fixed point).
func (s *State[E]) runEntry(ctx context.Context, ev Event, ext E) (context.Context, *State[E], error) {
	if s.entryAction != nil {
		next, err := s.entryAction(ctx, ev, ext)
		if err != nil {
			return ctx, nil, err
		}
		ctx = next
	}
	if s.entryFunc != nil {
		return ctx, s.entryFunc(ctx, ev, ext), nil
	}
	if s.initial != nil {
		return ctx, s.initial, nil
	}
	return ctx, s, nil
}

func (s *State[E]) runExit(ctx context.Context, ev Event, ext E) {
	if s.exitAction != nil {
		s.exitAction(ctx, ev, ext)
	}
}

func (s *State[E]) handler(eventID int) (Handler[E], bool) {
	if s.handlers == nil {
		return nil, false
	}
	return s.handlers.Get(eventID)
}

// On registers h as the handler for eventID directly on the built state s.
func (s *State[E]) On(eventID int, h Handler[E]) *State[E] {
	if s.handlers == nil {
		s.handlers = orderedmap.New[int, Handler[E]]()
	}
	s.handlers.Set(eventID, h)
	return s
}

// StateBuilder is the fluent builder for State, mirroring package hsm's.
type StateBuilder[E any] struct {
	parent  *State[E]
	machine *StateMachine[E]
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

// Entry registers an entry action that derives this state's context from
// its parent's.
func (sb *StateBuilder[E]) Entry(name string, f func(context.Context, Event, E) (context.Context, error)) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) { s.entryName, s.entryAction = name, f })
	return sb
}

func (sb *StateBuilder[E]) Exit(name string, f func(context.Context, Event, E)) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) { s.exitName, s.exitAction = name, f })
	return sb
}

func (sb *StateBuilder[E]) EntryFunc(name string, f func(context.Context, Event, E) *State[E]) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) { s.entryName, s.entryFunc = name, f })
	return sb
}

func (sb *StateBuilder[E]) Initial() *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		p := s.parent
		if p == nil {
			return
		}
		if p.initial != nil && p.initial != s {
			panic(fmt.Sprintf("hsmctx: sub-states %s and %s can not both be marked initial", s.name, p.initial.name))
		}
		p.initial = s
	})
	return sb
}

func (sb *StateBuilder[E]) On(eventID int, h Handler[E]) *StateBuilder[E] {
	sb.options = append(sb.options, func(s *State[E]) {
		if s.handlers == nil {
			s.handlers = orderedmap.New[int, Handler[E]]()
		}
		s.handlers.Set(eventID, h)
	})
	return sb
}

func (sb *StateBuilder[E]) Build() *State[E] {
	if sb.built {
		panic(fmt.Sprintf("hsmctx: state %s builder: invalid attempt to use the same builder twice", sb.name))
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
