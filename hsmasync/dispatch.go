package hsmasync

import "context"

// chase implements the Entry Chaser, yielding at every runEntry call (the
// suspension point) and stopping at the first fixed point or error, exactly
// as the original asyncio sources' hsm_handle_entries loops "while node !=
// prev".
func chase[E any](ctx context.Context, start *State[E], ev Event, ext E) (*State[E], error) {
	current := start
	for {
		next, err := current.runEntry(ctx, ev, ext)
		if err != nil {
			return nil, err
		}
		if next == current {
			return current, nil
		}
		current = next
	}
}

func reversedPath[E any](p []*State[E]) []*State[E] {
	r := make([]*State[E], len(p))
	for i, s := range p {
		r[len(p)-1-i] = s
	}
	return r
}

func indexOf[E any](p []*State[E], s *State[E]) int {
	for i, n := range p {
		if n == s {
			return i
		}
	}
	return -1
}

// lcaForTransition mirrors package hsm's special-casing of t == c; see its
// dispatch.go for the reasoning.
func lcaForTransition[E any](c, t *State[E]) (*State[E], error) {
	if t == c {
		if c.parent == nil {
			return c, nil
		}
		return c.parent, nil
	}
	return LCA(PathToRoot(t), PathToRoot(c))
}

// Deliver dispatches ev to the instance's current leaf. It is the
// cooperatively scheduled twin of package hsm's Deliver: every entry, exit,
// and handler call is awaited-in-spirit via a yield() after it completes,
// and ctx is checked for cancellation before each one, mirroring the
// original asyncio sources' awaiting every node.entry/node.exit/handler call.
func (smi *StateMachineInstance[E]) Deliver(ctx context.Context, ev Event) (*State[E], error) {
	if smi.current == nil {
		panic("hsmasync: state machine must be initialized before delivering the first event")
	}
	if err := ctx.Err(); err != nil {
		return smi.current, err
	}
	l := smi.current

	var c *State[E]
	var h Handler[E]
	for s := l; s != nil; s = s.parent {
		if hh, ok := s.handler(ev.Id); ok {
			c, h = s, hh
			break
		}
	}
	if h == nil {
		return l, nil // EVENT_UNHANDLED
	}

	result, err := h(ctx, ev, smi.Ext)
	if err != nil {
		return smi.current, err
	}
	yield()

	if !result.isState {
		if result.st == statusNoTransition {
			return l, nil
		}
		return smi.selfTransition(ctx, ev, l, c)
	}

	return smi.externalTransition(ctx, ev, l, c, result.target)
}

func (smi *StateMachineInstance[E]) selfTransition(ctx context.Context, ev Event, l, c *State[E]) (*State[E], error) {
	for s := l; ; s = s.parent {
		if err := s.runExit(ctx, ev, smi.Ext); err != nil {
			return smi.current, err
		}
		if s == c {
			break
		}
	}
	next, err := chase(ctx, c, ev, smi.Ext)
	if err != nil {
		return smi.current, err
	}
	smi.current = next
	return smi.current, nil
}

func (smi *StateMachineInstance[E]) externalTransition(ctx context.Context, ev Event, l, c, t *State[E]) (*State[E], error) {
	// A Goto back to the root from the root's own handler has no parent to
	// exit and re-enter through, so the root itself is exited and re-entered.
	if t == c && c.parent == nil {
		return smi.selfTransition(ctx, ev, l, c)
	}
	a, err := lcaForTransition(c, t)
	if err != nil {
		return smi.current, err
	}

	for s := l; s != a; s = s.parent {
		if err := s.runExit(ctx, ev, smi.Ext); err != nil {
			return smi.current, err
		}
		smi.current = s.parent
	}

	rootToT := reversedPath(PathToRoot(t))
	idx := indexOf(rootToT, a)
	if idx == -1 {
		return smi.current, ErrNoCommonAncestor
	}
	ePath := rootToT[idx+1:]
	if len(ePath) == 0 {
		smi.current = a
		return smi.current, nil
	}

	expected := ePath[0]
	last := ePath[len(ePath)-1]
	for _, s := range ePath {
		if s != expected {
			return smi.current, ErrEntryDisagreesWithPath
		}
		next, err := s.runEntry(ctx, ev, smi.Ext)
		if err != nil {
			return smi.current, err
		}
		expected = next
		smi.current = s
	}
	// last's own entry already ran above; only keep chasing if it returned
	// something past itself, matching the original sources'
	// hsm_handle_entries(..., prev=entry_path[-1]) seed.
	if expected != last {
		final, err := chase(ctx, expected, ev, smi.Ext)
		if err != nil {
			return smi.current, err
		}
		smi.current = final
	}
	return smi.current, nil
}
