package hsm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hsm "github.com/go-statecraft/hsm"
	"github.com/go-statecraft/hsm/internal/diagnostics"
	"github.com/go-statecraft/hsm/internal/hsmtest"
)

// buildLinear declares root -> mid -> leaf, each recording its entry/exit,
// for exercising Step 3's boundary behaviors in isolation from the Samek
// fixture's richer topology.
func buildLinear(t *testing.T) (*hsm.StateMachine[*hsmtest.Recorder], *hsm.State[*hsmtest.Recorder], *hsm.State[*hsmtest.Recorder], *hsm.State[*hsmtest.Recorder]) {
	t.Helper()
	sm := &hsm.StateMachine[*hsmtest.Recorder]{}

	entryExit := func(name string) (func(hsm.Event, *hsmtest.Recorder), func(hsm.Event, *hsmtest.Recorder)) {
		return func(_ hsm.Event, r *hsmtest.Recorder) { r.Record(name + ".entry") },
			func(_ hsm.Event, r *hsmtest.Recorder) { r.Record(name + ".exit") }
	}

	rEntry, rExit := entryExit("root")
	root := sm.State("root").Entry("root.entry", rEntry).Exit("root.exit", rExit).Initial().Build()

	mEntry, mExit := entryExit("mid")
	mid := root.State("mid").Entry("mid.entry", mEntry).Exit("mid.exit", mExit).Initial().Build()

	lEntry, lExit := entryExit("leaf")
	leaf := mid.State("leaf").Entry("leaf.entry", lEntry).Exit("leaf.exit", lExit).Initial().Build()

	return sm, root, mid, leaf
}

// TestTargetEqualsHandlingState covers the documented boundary behavior: a
// handler returning the very state it is attached to (via Goto, not Self)
// must still trigger a full exit/entry cycle through that state's parent,
// not a no-op.
func TestTargetEqualsHandlingState(t *testing.T) {
	const evX = 100
	sm, _, _, leaf := buildLinear(t)
	leaf.On(evX, func(_ hsm.Event, r *hsmtest.Recorder) hsm.Result[*hsmtest.Recorder] {
		r.Record("leaf.run(x)")
		return hsm.Goto(leaf)
	})
	sm.Finalize()

	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*hsmtest.Recorder]{SM: sm, Ext: rec}
	smi.Initialize(hsm.Event{Id: -1})
	require.Equal(t, []string{"root.entry", "mid.entry", "leaf.entry"}, rec.Calls())
	rec.Reset()

	got, err := smi.Deliver(hsm.Event{Id: evX})
	require.NoError(t, err)
	assert.Same(t, leaf, got)
	assert.Equal(t, []string{"leaf.run(x)", "leaf.exit", "leaf.entry"}, rec.Calls())
}

// TestTargetEqualsHandlingStateAtRoot covers the same boundary case when the
// handling state IS the root, so there is no parent to exit/re-enter
// through: the root itself is exited and re-entered, as in a self-transition.
func TestTargetEqualsHandlingStateAtRoot(t *testing.T) {
	const evX = 101
	sm := &hsm.StateMachine[*hsmtest.Recorder]{}
	entryExit := func(name string) (func(hsm.Event, *hsmtest.Recorder), func(hsm.Event, *hsmtest.Recorder)) {
		return func(_ hsm.Event, r *hsmtest.Recorder) { r.Record(name + ".entry") },
			func(_ hsm.Event, r *hsmtest.Recorder) { r.Record(name + ".exit") }
	}
	rEntry, rExit := entryExit("root")
	root := sm.State("root").Entry("root.entry", rEntry).Exit("root.exit", rExit).Build()
	root.On(evX, func(_ hsm.Event, r *hsmtest.Recorder) hsm.Result[*hsmtest.Recorder] {
		r.Record("root.run(x)")
		return hsm.Goto(root)
	})
	sm.Finalize()

	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*hsmtest.Recorder]{SM: sm, Ext: rec}
	smi.Initialize(hsm.Event{Id: -1})
	rec.Reset()

	got, err := smi.Deliver(hsm.Event{Id: evX})
	require.NoError(t, err)
	assert.Same(t, root, got)
	assert.Equal(t, []string{"root.run(x)", "root.exit", "root.entry"}, rec.Calls())
}

// TestTargetIsDescendant covers an external transition whose target is a
// strict descendant of the handling state: the handling state itself is
// neither exited nor re-entered; only the states below it are.
func TestTargetIsDescendant(t *testing.T) {
	const evX = 102
	sm, root, _, leaf := buildLinear(t)
	root.On(evX, func(_ hsm.Event, r *hsmtest.Recorder) hsm.Result[*hsmtest.Recorder] {
		r.Record("root.run(x)")
		return hsm.Goto(leaf)
	})
	sm.Finalize()

	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*hsmtest.Recorder]{SM: sm, Ext: rec}
	smi.Initialize(hsm.Event{Id: -1})
	rec.Reset()

	got, err := smi.Deliver(hsm.Event{Id: evX})
	require.NoError(t, err)
	assert.Same(t, leaf, got)
	// c == root here, but the current leaf l is still "leaf"; Step 3's exit
	// loop runs from l up to (excluding) a == root, so mid and leaf both exit
	// before the planned entry path re-enters them.
	assert.Equal(t, []string{"root.run(x)", "leaf.exit", "mid.exit", "mid.entry", "leaf.entry"}, rec.Calls())
}

// TestDeliverLogsTraceMessages covers the optional Log field: a
// StateMachineInstance with Log set emits a debug trace for the handler
// search and the resulting transition.
func TestDeliverLogsTraceMessages(t *testing.T) {
	const evX = 103
	sm, _, _, leaf := buildLinear(t)
	leaf.On(evX, func(_ hsm.Event, r *hsmtest.Recorder) hsm.Result[*hsmtest.Recorder] {
		return hsm.Stay[*hsmtest.Recorder]()
	})
	sm.Finalize()

	var buf bytes.Buffer
	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*hsmtest.Recorder]{
		SM:  sm,
		Ext: rec,
		Log: diagnostics.New(diagnostics.LevelDebug, &buf),
	}
	smi.Initialize(hsm.Event{Id: -1})
	buf.Reset()

	_, err := smi.Deliver(hsm.Event{Id: evX})
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "no transition"))
}

// TestEventUnhandledAtRootPropagatesNoChange covers EVENT_UNHANDLED when not
// even the root has a handler for the event.
func TestEventUnhandledAtRootPropagatesNoChange(t *testing.T) {
	const evUnknown = 999
	sm, _, _, _ := buildLinear(t)
	sm.Finalize()

	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*hsmtest.Recorder]{SM: sm, Ext: rec}
	smi.Initialize(hsm.Event{Id: -1})
	rec.Reset()

	leaf := smi.Current()
	got, err := smi.Deliver(hsm.Event{Id: evUnknown})
	require.NoError(t, err)
	assert.Same(t, leaf, got)
	assert.Empty(t, rec.Calls())
}
