package config

import (
	"fmt"

	hsm "github.com/go-statecraft/hsm"
)

// ActionRegistry supplies the Go-side callbacks a MachineConfig's named
// entry/exit/guard references resolve to. Compile looks names up from here
// by exact string match; a name present in the config but absent from the
// registry panics, matching the teacher's immediate-panic treatment of
// malformed declarations.
type ActionRegistry[E any] struct {
	Entries map[string]func(hsm.Event, E)
	Exits   map[string]func(hsm.Event, E)
	Guards  map[string]func(hsm.Event, E) bool
}

// Compile builds cfg's tree onto sm (an empty, not-yet-rooted
// StateMachine[E]) using the builder surface, then attaches handlers derived
// from each state's On map. It returns every built state keyed by its
// configured id, and calls sm.Finalize before returning.
func Compile[E any](sm *hsm.StateMachine[E], cfg *MachineConfig, reg *ActionRegistry[E]) (map[string]*hsm.State[E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	states := make(map[string]*hsm.State[E], len(cfg.Root.Flatten()))

	var build func(parent *hsm.State[E], parentCfg *StateConfig, c *StateConfig) *hsm.State[E]
	build = func(parent *hsm.State[E], parentCfg *StateConfig, c *StateConfig) *hsm.State[E] {
		var b *hsm.StateBuilder[E]
		if parent == nil {
			b = sm.State(c.ID)
		} else {
			b = parent.State(c.ID)
		}
		if c.EntryName != "" {
			b = b.Entry(c.EntryName, lookupAction(reg.Entries, c.EntryName, c.ID, "entry"))
		}
		if c.ExitName != "" {
			b = b.Exit(c.ExitName, lookupAction(reg.Exits, c.ExitName, c.ID, "exit"))
		}
		if parentCfg != nil && parentCfg.Initial == c.ID {
			b = b.Initial()
		}
		s := b.Build()
		states[c.ID] = s

		for _, cc := range c.Children {
			build(s, c, cc)
		}
		return s
	}

	build(nil, nil, cfg.Root)

	var wire func(c *StateConfig)
	wire = func(c *StateConfig) {
		s := states[c.ID]
		for evID, t := range c.On {
			s.On(evID, transitionHandler(t, states, reg))
		}
		for _, cc := range c.Children {
			wire(cc)
		}
	}
	wire(cfg.Root)

	sm.Finalize()
	return states, nil
}

func lookupAction[E any](m map[string]func(hsm.Event, E), name, stateID, kind string) func(hsm.Event, E) {
	f, ok := m[name]
	if !ok {
		panic(fmt.Sprintf("config: state %q references unknown %s action %q", stateID, kind, name))
	}
	return f
}

func transitionHandler[E any](t TransitionConfig, states map[string]*hsm.State[E], reg *ActionRegistry[E]) hsm.Handler[E] {
	var guard func(hsm.Event, E) bool
	if t.GuardName != "" {
		g, ok := reg.Guards[t.GuardName]
		if !ok {
			panic(fmt.Sprintf("config: unknown guard %q", t.GuardName))
		}
		guard = g
	}

	switch {
	case t.Self:
		return func(ev hsm.Event, e E) hsm.Result[E] {
			if guard != nil && !guard(ev, e) {
				return hsm.Stay[E]()
			}
			return hsm.Self[E]()
		}
	case t.Target != "":
		target := states[t.Target]
		return func(ev hsm.Event, e E) hsm.Result[E] {
			if guard != nil && !guard(ev, e) {
				return hsm.Stay[E]()
			}
			return hsm.Goto(target)
		}
	default:
		return func(ev hsm.Event, e E) hsm.Result[E] {
			return hsm.Stay[E]()
		}
	}
}
