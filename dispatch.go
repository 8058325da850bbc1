package hsm

// chase implements the Entry Chaser (spec §4.3): it repeatedly invokes
// entry starting from start until a call returns the same state it was
// invoked on - a fixed point - and returns that state as the new leaf.
func chase[E any](start *State[E], ev Event, ext E) *State[E] {
	current := start
	for {
		next := current.runEntry(ev, ext)
		if next == current {
			return current
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

// lcaForTransition computes the A ancestor spec's Step 3.1 calls for, from
// the handling state c and the transition target t.
//
// Special case: when t == c (a handler returns the state it is itself
// attached to, as an external - not self - transition), the literal
// LCA(path(t), path(c)) is c, which would exit and enter nothing at all.
// Spec §8's boundary behavior requires this to "trigger a full exit/entry
// cycle through the LCA (which is the source leaf's parent)" rather than a
// no-op, so this case is resolved the same way a self-transition is: A is
// taken to be c's parent. See DESIGN.md for the reasoning (this is a
// genuine tension between spec's literal LCA formula and its own stated
// boundary behavior, not one of its three enumerated Open Questions).
// When c is the root there is no parent and c itself is returned;
// externalTransition handles that case as a self-transition of the root
// before it calls here.
func lcaForTransition[E any](c, t *State[E]) (*State[E], error) {
	if t == c {
		if c.parent == nil {
			return c, nil
		}
		return c.parent, nil
	}
	return LCA(PathToRoot(t), PathToRoot(c))
}

// Deliver dispatches ev to the instance's current leaf: this is the Event
// Dispatcher of spec §4.4. It performs the handler search (Step 1), invokes
// the winning handler (Step 2), and - for target-state results - the
// LCA-based exit/entry sequence (Step 3), finishing with an Entry Chaser
// pass. Sentinels (EVENT_UNHANDLED, NO_TRANSITION) are recovered locally and
// reported as (unchanged leaf, nil). Faults (ErrNoCommonAncestor,
// ErrEntryDisagreesWithPath) propagate to the caller; any exits or entries
// already executed before the fault are not rewound, so Current reflects
// exactly how far the transition got.
func (smi *StateMachineInstance[E]) Deliver(ev Event) (*State[E], error) {
	if smi.current == nil {
		panic("hsm: state machine must be initialized before delivering the first event")
	}
	l := smi.current

	// Step 1: handler search, walking upward from the current leaf.
	var c *State[E]
	var h Handler[E]
	for s := l; s != nil; s = s.parent {
		if hh, ok := s.handler(ev.Id); ok {
			c, h = s, hh
			break
		}
	}
	if h == nil {
		smi.Log.Debugf("event %d unhandled at leaf %s", ev.Id, l.Name())
		return l, nil // EVENT_UNHANDLED
	}
	smi.Log.Debugf("event %d handled by %s (leaf %s)", ev.Id, c.Name(), l.Name())

	// Step 2: handler invocation. The handling state's own handler runs
	// before any exit, so it may observe both the source and (implicitly,
	// through its own closure state) the target.
	result := h(ev, smi.Ext)

	if !result.isState {
		if result.st == statusNoTransition {
			smi.Log.Debugf("event %d: no transition", ev.Id)
			return l, nil
		}
		smi.Log.Debugf("event %d: self-transition at %s", ev.Id, c.Name())
		return smi.selfTransition(ev, l, c), nil
	}

	smi.Log.Debugf("event %d: transition %s -> %s", ev.Id, c.Name(), result.target.Name())
	return smi.externalTransition(ev, l, c, result.target)
}

// selfTransition exits every state on the handling path (l first, c last),
// then entry-chases back into c.
func (smi *StateMachineInstance[E]) selfTransition(ev Event, l, c *State[E]) *State[E] {
	for s := l; ; s = s.parent {
		s.runExit(ev, smi.Ext)
		if s == c {
			break
		}
	}
	smi.current = chase(c, ev, smi.Ext)
	return smi.current
}

// externalTransition implements spec's Step 3 LCA sequencing.
func (smi *StateMachineInstance[E]) externalTransition(ev Event, l, c, t *State[E]) (*State[E], error) {
	// A Goto back to the root from the root's own handler has no parent to
	// exit and re-enter through, so the root itself is exited and re-entered.
	if t == c && c.parent == nil {
		return smi.selfTransition(ev, l, c), nil
	}
	a, err := lcaForTransition(c, t)
	if err != nil {
		smi.Log.Errorf("event %d: %v", ev.Id, err)
		return smi.current, err
	}

	for s := l; s != a; s = s.parent {
		s.runExit(ev, smi.Ext)
		smi.current = s.parent
	}

	rootToT := reversedPath(PathToRoot(t))
	idx := indexOf(rootToT, a)
	if idx == -1 {
		smi.Log.Errorf("event %d: %v", ev.Id, ErrNoCommonAncestor)
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
			smi.Log.Errorf("event %d: %v", ev.Id, ErrEntryDisagreesWithPath)
			return smi.current, ErrEntryDisagreesWithPath
		}
		expected = s.runEntry(ev, smi.Ext)
		smi.current = s
	}
	// last's own entry already ran in the loop above; only keep chasing if
	// it returned something past itself (a deeper initial child outside the
	// planned path), matching the original sources' hsm_handle_entries(...,
	// prev=entry_path[-1]) seed that prevents re-entering the target state.
	if expected != last {
		smi.current = chase(expected, ev, smi.Ext)
	}
	return smi.current, nil
}
