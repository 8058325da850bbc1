// Package config loads a declarative topology description into an
// hsm.StateMachine[E]. It is a config-time convenience layered on top of the
// builder API, not a replacement for it: anything expressible in YAML here
// is also expressible by calling StateMachine.State directly.
//
// The shape of MachineConfig/StateConfig is grounded on
// comalice-statechartx's internal/primitives package (MachineConfig,
// StateConfig, TransitionConfig), adapted from that package's string event
// names and flat state map to this engine's int event ids and single-root
// tree (spec's topology invariant: exactly one state has no parent).
package config

import (
	"errors"
	"fmt"
)

// MachineConfig is the root of a declarative topology: an id for
// diagnostics and the single root state.
type MachineConfig struct {
	ID   string       `yaml:"id"`
	Root *StateConfig `yaml:"root"`
}

// StateConfig describes one state and, recursively, its children.
type StateConfig struct {
	ID        string                   `yaml:"id"`
	Initial   string                   `yaml:"initial,omitempty"`
	EntryName string                   `yaml:"entry,omitempty"`
	ExitName  string                   `yaml:"exit,omitempty"`
	Children  []*StateConfig           `yaml:"children,omitempty"`
	On        map[int]TransitionConfig `yaml:"on,omitempty"`
}

// TransitionConfig describes what a handler built from configuration does:
// transition to Target, or - when Target is empty - either a self-transition
// (Self: true) or a plain consumed-with-no-transition result. GuardName, if
// set, names a predicate in the ActionRegistry that must return true for the
// transition to take effect; when it returns false the result is always
// NO_TRANSITION, regardless of Self/Target.
type TransitionConfig struct {
	Target    string `yaml:"target,omitempty"`
	Self      bool   `yaml:"self,omitempty"`
	GuardName string `yaml:"guard,omitempty"`
}

// Flatten returns every StateConfig in the tree rooted at s, keyed by ID.
func (s *StateConfig) Flatten() map[string]*StateConfig {
	m := make(map[string]*StateConfig)
	s.flatten(m)
	return m
}

func (s *StateConfig) flatten(m map[string]*StateConfig) {
	m[s.ID] = s
	for _, c := range s.Children {
		c.flatten(m)
	}
}

// Validate checks structural well-formedness: unique, non-empty ids,
// composite states with a resolvable Initial child, and transition targets
// that exist somewhere in the tree. It does not know about the extended
// state type E or the action registry, so it cannot catch a dangling
// EntryName/ExitName/GuardName - that surfaces as a panic from Compile's
// registry lookup instead, matching the teacher's declaration-time-panic
// philosophy for configuration mistakes.
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("config: machine id is required")
	}
	if m.Root == nil {
		return errors.New("config: machine root state is required")
	}

	all := m.Root.Flatten()
	seen := make(map[string]bool, len(all))
	var walk func(s *StateConfig) error
	walk = func(s *StateConfig) error {
		if s.ID == "" {
			return errors.New("config: state id is required")
		}
		if seen[s.ID] {
			return fmt.Errorf("config: duplicate state id %q", s.ID)
		}
		seen[s.ID] = true

		if len(s.Children) > 0 {
			if s.Initial == "" {
				return fmt.Errorf("config: composite state %q requires an initial child", s.ID)
			}
			found := false
			for _, c := range s.Children {
				if c.ID == s.Initial {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("config: initial child %q not found under state %q", s.Initial, s.ID)
			}
		} else if s.Initial != "" {
			return fmt.Errorf("config: leaf state %q cannot declare an initial child", s.ID)
		}

		for evID, t := range s.On {
			if t.Target != "" {
				if _, ok := all[t.Target]; !ok {
					return fmt.Errorf("config: state %q event %d targets unknown state %q", s.ID, evID, t.Target)
				}
			}
			if t.Self && t.Target != "" {
				return fmt.Errorf("config: state %q event %d sets both self and target", s.ID, evID)
			}
		}

		for _, c := range s.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(m.Root)
}
