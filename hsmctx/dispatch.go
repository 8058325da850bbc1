package hsmctx

import "context"

// chase implements the Entry Chaser: starting from start, it repeatedly
// runs entry until a call returns the same state it was invoked on (the
// fixed point), composing ctx downward at each step. It returns the full
// chain of states entered (start first, the fixed point last) and, in
// parallel, the context.Context each of those states' own entry produced.
func chase[E any](ctx context.Context, start *State[E], ev Event, ext E) ([]*State[E], []context.Context, error) {
	var states []*State[E]
	var ctxs []context.Context

	current := start
	curCtx := ctx
	for {
		nextCtx, next, err := current.runEntry(curCtx, ev, ext)
		if err != nil {
			return nil, nil, err
		}
		states = append(states, current)
		ctxs = append(ctxs, nextCtx)
		if next == current {
			return states, ctxs, nil
		}
		current = next
		curCtx = nextCtx
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

// Deliver dispatches ev to the instance's current leaf, exactly like
// package hsm's Deliver, except the winning handler is invoked with the
// context.Context composed by its own state's last entry rather than the
// leaf's.
func (smi *StateMachineInstance[E]) Deliver(ev Event) (*State[E], error) {
	if len(smi.path) == 0 {
		panic("hsmctx: state machine must be initialized before delivering the first event")
	}

	var idxC int = -1
	var h Handler[E]
	for i := len(smi.path) - 1; i >= 0; i-- {
		if hh, ok := smi.path[i].handler(ev.Id); ok {
			idxC, h = i, hh
			break
		}
	}
	if h == nil {
		return smi.Current(), nil // EVENT_UNHANDLED
	}

	c := smi.path[idxC]
	result := h(smi.ctxs[idxC], ev, smi.Ext)

	if !result.isState {
		if result.st == statusNoTransition {
			return smi.Current(), nil
		}
		return smi.selfTransition(ev, idxC, c)
	}

	return smi.externalTransition(ev, idxC, c, result.target)
}

// selfTransition exits every state from the leaf down to (and including) c,
// then re-chases from c using the context its parent composed.
func (smi *StateMachineInstance[E]) selfTransition(ev Event, idxC int, c *State[E]) (*State[E], error) {
	for i := len(smi.path) - 1; i >= idxC; i-- {
		smi.path[i].runExit(smi.ctxs[i], ev, smi.Ext)
	}

	baseCtx := context.Background()
	if idxC > 0 {
		baseCtx = smi.ctxs[idxC-1]
	}
	smi.path = smi.path[:idxC]
	smi.ctxs = smi.ctxs[:idxC]

	states, ctxs, err := chase(baseCtx, c, ev, smi.Ext)
	if err != nil {
		return smi.Current(), err
	}
	smi.path = append(smi.path, states...)
	smi.ctxs = append(smi.ctxs, ctxs...)
	return smi.Current(), nil
}

// externalTransition implements Step 3's LCA-based exit/entry sequencing,
// threading context.Context down through the planned entry path.
func (smi *StateMachineInstance[E]) externalTransition(ev Event, idxC int, c, t *State[E]) (*State[E], error) {
	// A Goto back to the root from the root's own handler has no parent to
	// exit and re-enter through, so the root itself is exited and re-entered.
	if t == c && c.parent == nil {
		return smi.selfTransition(ev, idxC, c)
	}
	a, err := lcaForTransition(c, t)
	if err != nil {
		return smi.Current(), err
	}

	idxA := indexOf(smi.path, a)
	if idxA == -1 {
		return smi.Current(), ErrNoCommonAncestor
	}

	for i := len(smi.path) - 1; i > idxA; i-- {
		smi.path[i].runExit(smi.ctxs[i], ev, smi.Ext)
	}
	smi.path = smi.path[:idxA+1]
	smi.ctxs = smi.ctxs[:idxA+1]
	baseCtx := smi.ctxs[idxA]

	rootToT := reversedPath(PathToRoot(t))
	idx := indexOf(rootToT, a)
	if idx == -1 {
		return smi.Current(), ErrNoCommonAncestor
	}
	ePath := rootToT[idx+1:]
	if len(ePath) == 0 {
		return smi.Current(), nil
	}

	curCtx := baseCtx
	expected := ePath[0]
	last := ePath[len(ePath)-1]
	for _, s := range ePath {
		if s != expected {
			return smi.Current(), ErrEntryDisagreesWithPath
		}
		nextCtx, next, err := s.runEntry(curCtx, ev, smi.Ext)
		if err != nil {
			return smi.Current(), err
		}
		smi.path = append(smi.path, s)
		smi.ctxs = append(smi.ctxs, nextCtx)
		curCtx = nextCtx
		expected = next
	}

	// last's own entry already ran above; only keep chasing if it returned
	// something past itself, matching the original sources'
	// hsm_handle_entries(..., prev=entry_path[-1]) seed.
	if expected != last {
		states, ctxs, err := chase(curCtx, expected, ev, smi.Ext)
		if err != nil {
			return smi.Current(), err
		}
		smi.path = append(smi.path, states...)
		smi.ctxs = append(smi.ctxs, ctxs...)
	}
	return smi.Current(), nil
}
