// Package fixture builds the "Samek" statechart used throughout this
// module as its conformance fixture: root s0 with children s1 and s2; s1
// has child s11; s2 has child s21 with child s211; events a..h. It is
// grounded on Miro Samek's example as encoded in the teacher's
// hsm_samek_test.go and in the original spirea sources' examples/samek
// package, and is named in the engine's scope as an out-of-scope
// collaborator: a conformance fixture, not part of the engine itself.
package fixture

import (
	hsm "github.com/go-statecraft/hsm"
	"github.com/go-statecraft/hsm/internal/hsmtest"
)

// Event ids a..h, in the order spec's transition table lists them.
const (
	EvA = iota
	EvB
	EvC
	EvD
	EvE
	EvF
	EvG
	EvH
)

// EventNames maps an event id to its single-letter fixture name, for
// diagrams and REPL prompts.
var EventNames = []string{"a", "b", "c", "d", "e", "f", "g", "h"}

// Ext is the extended state threaded through the Samek fixture: foo is the
// flag event h's guard at s21 tests and flips, exactly as state.foo does in
// the original spirea sources' examples/samek/s21.py.
type Ext struct {
	Foo bool
	Rec *hsmtest.Recorder
}

func (e *Ext) record(name string) {
	if e.Rec != nil {
		e.Rec.Record(name)
	}
}

// States names every state of the fixture by name, for callers that want to
// use them directly as transition targets or assertion expectations.
type States struct {
	S0, S1, S11, S2, S21, S211 *hsm.State[*Ext]
}

// Build declares and finalizes the Samek fixture's StateMachine and returns
// its named states.
func Build() (*hsm.StateMachine[*Ext], States) {
	sm := &hsm.StateMachine[*Ext]{}
	sm.DeclareEvents(EvA, EvB, EvC, EvD, EvE, EvF, EvG, EvH)

	entryExit := func(name string) (func(hsm.Event, *Ext), func(hsm.Event, *Ext)) {
		return func(_ hsm.Event, e *Ext) { e.record(name + ".entry") },
			func(_ hsm.Event, e *Ext) { e.record(name + ".exit") }
	}

	var st States

	s0Entry, s0Exit := entryExit("s0")
	s0b := sm.State("s0").Entry("s0.entry", s0Entry).Exit("s0.exit", s0Exit).Initial()
	st.S0 = s0b.Build()

	s1Entry, s1Exit := entryExit("s1")
	st.S1 = st.S0.State("s1").Entry("s1.entry", s1Entry).Exit("s1.exit", s1Exit).Initial().Build()

	s11Entry, s11Exit := entryExit("s11")
	st.S11 = st.S1.State("s11").Entry("s11.entry", s11Entry).Exit("s11.exit", s11Exit).Initial().Build()

	s2Entry, s2Exit := entryExit("s2")
	st.S2 = st.S0.State("s2").Entry("s2.entry", s2Entry).Exit("s2.exit", s2Exit).Build()

	s21Entry, s21Exit := entryExit("s21")
	st.S21 = st.S2.State("s21").Entry("s21.entry", s21Entry).Exit("s21.exit", s21Exit).Initial().Build()

	s211Entry, s211Exit := entryExit("s211")
	st.S211 = st.S21.State("s211").Entry("s211.entry", s211Entry).Exit("s211.exit", s211Exit).Initial().Build()

	st.S0.On(EvE, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s0.run(e)")
		return hsm.Goto(st.S211)
	})

	st.S1.On(EvA, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s1.run(a)")
		return hsm.Self[*Ext]()
	})
	st.S1.On(EvB, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s1.run(b)")
		return hsm.Goto(st.S11)
	})
	st.S1.On(EvC, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s1.run(c)")
		return hsm.Goto(st.S2)
	})
	st.S1.On(EvD, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s1.run(d)")
		return hsm.Goto(st.S0)
	})
	st.S1.On(EvF, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s1.run(f)")
		return hsm.Goto(st.S211)
	})

	st.S11.On(EvG, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s11.run(g)")
		return hsm.Goto(st.S211)
	})

	st.S2.On(EvC, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s2.run(c)")
		return hsm.Goto(st.S1)
	})
	st.S2.On(EvF, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s2.run(f)")
		return hsm.Goto(st.S11)
	})

	st.S21.On(EvB, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s21.run(b)")
		return hsm.Goto(st.S211)
	})
	st.S21.On(EvH, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		if !e.Foo {
			e.Foo = true
			e.record("s21.run(h) foo=1")
			return hsm.Self[*Ext]()
		}
		e.record("s21.run(h) no-op")
		return hsm.Stay[*Ext]()
	})

	st.S211.On(EvD, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s211.run(d)")
		return hsm.Goto(st.S21)
	})
	st.S211.On(EvG, func(_ hsm.Event, e *Ext) hsm.Result[*Ext] {
		e.record("s211.run(g)")
		return hsm.Goto(st.S0)
	})

	sm.Finalize()
	return sm, st
}
