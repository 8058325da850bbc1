package hsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hsm "github.com/go-statecraft/hsm"
	"github.com/go-statecraft/hsm/internal/fixture"
	"github.com/go-statecraft/hsm/internal/hsmtest"
)

// newSamekInstance builds a fresh, initialized instance of the Samek
// fixture with a recorder attached, and drains the initial-entries log so
// each scenario's assertions start from a clean slate.
func newSamekInstance(t *testing.T) (*hsm.StateMachineInstance[*fixture.Ext], fixture.States, *hsmtest.Recorder) {
	t.Helper()
	sm, st := fixture.Build()
	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*fixture.Ext]{SM: sm, Ext: &fixture.Ext{Rec: rec}}
	smi.Initialize(hsm.Event{Id: -1})
	assert.Equal(t, []string{"s0.entry", "s1.entry", "s11.entry"}, rec.Calls())
	assert.Same(t, st.S11, smi.Current())
	rec.Reset()
	return smi, st, rec
}

// TestSamekInitialEntries covers spec §8 scenario 1.
func TestSamekInitialEntries(t *testing.T) {
	sm, st := fixture.Build()
	rec := &hsmtest.Recorder{}
	smi := &hsm.StateMachineInstance[*fixture.Ext]{SM: sm, Ext: &fixture.Ext{Rec: rec}}
	smi.Initialize(hsm.Event{Id: -1})

	assert.Equal(t, []string{"s0.entry", "s1.entry", "s11.entry"}, rec.Calls())
	assert.Same(t, st.S11, smi.Current())
}

// TestSamekEventG covers spec §8 scenario 2: event g at s11.
func TestSamekEventG(t *testing.T) {
	smi, st, rec := newSamekInstance(t)

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvG})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"s11.run(g)", "s11.exit", "s1.exit", "s2.entry", "s21.entry", "s211.entry",
	}, rec.Calls())
	assert.Same(t, st.S211, leaf)
	assert.Same(t, st.S211, smi.Current())
}

// TestSamekEventHTogglesFoo covers spec §8 scenarios 3 and 4: event h at
// s211, first with foo=0 (self-transition + foo flips to 1), then with
// foo=1 (no transition).
func TestSamekEventHTogglesFoo(t *testing.T) {
	smi, st, rec := newSamekInstance(t)
	_, err := smi.Deliver(hsm.Event{Id: fixture.EvG}) // s11 -> s211
	require.NoError(t, err)
	rec.Reset()

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvH})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s21.run(h) foo=1", "s211.exit", "s21.exit", "s21.entry", "s211.entry",
	}, rec.Calls())
	assert.Same(t, st.S211, leaf)
	assert.True(t, smi.Ext.Foo)

	rec.Reset()
	leaf, err = smi.Deliver(hsm.Event{Id: fixture.EvH})
	require.NoError(t, err)
	assert.Equal(t, []string{"s21.run(h) no-op"}, rec.Calls())
	assert.Same(t, st.S211, leaf)
}

// TestSamekEventGAtS211 covers spec §8 scenario 5: event g at s211 exits to
// the ancestor s0 with no entries at all (E_path is empty).
func TestSamekEventGAtS211(t *testing.T) {
	smi, st, rec := newSamekInstance(t)
	_, err := smi.Deliver(hsm.Event{Id: fixture.EvG}) // s11 -> s211
	require.NoError(t, err)
	rec.Reset()

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvG})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s211.run(g)", "s211.exit", "s21.exit", "s2.exit",
	}, rec.Calls())
	assert.Same(t, st.S0, leaf)
}

// TestSamekEventEAtS11 covers spec §8 scenario 6: event e at s11 is handled
// by s0, exiting s11/s1 and entering s2/s21/s211.
func TestSamekEventEAtS11(t *testing.T) {
	smi, st, rec := newSamekInstance(t)

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvE})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s0.run(e)", "s11.exit", "s1.exit", "s2.entry", "s21.entry", "s211.entry",
	}, rec.Calls())
	assert.Same(t, st.S211, leaf)
}

// TestSamekSelfTransition covers the 'a' self-transition at s1: s1 and s11
// are both exited (leaf first, handling state last) then re-chased.
func TestSamekSelfTransition(t *testing.T) {
	smi, st, rec := newSamekInstance(t)

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvA})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s1.run(a)", "s11.exit", "s1.exit", "s1.entry", "s11.entry",
	}, rec.Calls())
	assert.Same(t, st.S11, leaf)
}

// TestSamekEventUnhandled exercises the EVENT_UNHANDLED sentinel: a is only
// handled by s1, so at s211 (no a handler on s211, s21, s2 or s0) it must be
// a pure no-op.
func TestSamekEventUnhandled(t *testing.T) {
	smi, st, rec := newSamekInstance(t)
	_, err := smi.Deliver(hsm.Event{Id: fixture.EvC}) // s1 -> s2 (enters s21/s211)
	require.NoError(t, err)
	rec.Reset()

	leaf, err := smi.Deliver(hsm.Event{Id: fixture.EvB}) // handled: s21 -> s211 (self-loop shape)
	require.NoError(t, err)
	assert.Same(t, st.S211, leaf)
	rec.Reset()

	// 'a' is not handled anywhere on s211/s21/s2/s0's ancestor chain.
	leaf, err = smi.Deliver(hsm.Event{Id: fixture.EvA})
	require.NoError(t, err)
	assert.Empty(t, rec.Calls())
	assert.Same(t, st.S211, leaf)
}

func BenchmarkSamekDispatch(b *testing.B) {
	sm, _ := fixture.Build()
	ext := &fixture.Ext{}
	smi := &hsm.StateMachineInstance[*fixture.Ext]{SM: sm, Ext: ext}
	smi.Initialize(hsm.Event{Id: -1})

	events := []int{fixture.EvA, fixture.EvE, fixture.EvE, fixture.EvA, fixture.EvH, fixture.EvH}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, id := range events {
			_, _ = smi.Deliver(hsm.Event{Id: id})
		}
	}
}
