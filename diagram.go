package hsm

import (
	"fmt"
	"strings"
)

// DiagramPUML renders a PlantUML diagram of the finalized state machine's
// hierarchy: nesting, entry/exit action names, the static initial-child
// arrow, and the set of event ids each state handles (via evNameMapper).
//
// Unlike the teacher's diagram.go, this cannot draw transition arrows:
// handlers here are closures returning a Result computed at dispatch time,
// not a statically declared target state, so there is no fixed src->dst
// edge to draw at diagram time. What is still exactly diagrammable - the
// state tree, entry/exit actions, and the handled-event set per state -
// is, grounded on the nesting/indent approach of the teacher's dump().
func (sm *StateMachine[E]) DiagramPUML(evNameMapper func(int) string) string {
	if !sm.finalized {
		panic("hsm: state machine not finalized")
	}

	var bld strings.Builder
	var dump func(indent int, s *State[E])

	dump = func(indent int, s *State[E]) {
		prefix := strings.Repeat("   ", indent)

		if s.name == s.alias {
			fmt.Fprintf(&bld, "%sstate %s", prefix, s.alias)
		} else {
			fmt.Fprintf(&bld, "%sstate \"%s\" as %s", prefix, s.name, s.alias)
		}
		if !s.IsLeaf() {
			bld.WriteString(" {\n")
			for _, child := range s.children {
				dump(indent+1, child)
			}
			bld.WriteString(prefix)
			bld.WriteString("}")
		}
		bld.WriteString("\n")
		if s.entryAction != nil || s.entryFunc != nil {
			fmt.Fprintf(&bld, "%s%s : entry / %s\n", prefix, s.alias, s.entryName)
		}
		if s.exitAction != nil {
			fmt.Fprintf(&bld, "%s%s : exit / %s\n", prefix, s.alias, s.exitName)
		}
		if s.parent != nil && s.parent.initial == s {
			fmt.Fprintf(&bld, "%s[*] --> %s\n", prefix, s.alias)
		}
		if s.handlers != nil {
			for pair := s.handlers.Oldest(); pair != nil; pair = pair.Next() {
				fmt.Fprintf(&bld, "%s%s : %s\n", prefix, s.alias, evNameMapper(pair.Key))
			}
		}
	}

	bld.WriteString("@startuml\n\n")
	dump(0, sm.root)
	bld.WriteString("\n@enduml\n")
	return bld.String()
}
