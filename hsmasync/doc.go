// Package hsmasync is the cooperatively scheduled flavor of the hierarchical
// state machine engine in the sibling hsm package: every entry, exit, and
// handler call takes a context.Context and is a suspension point, yielding
// to the Go scheduler (runtime.Gosched) and checking ctx.Err() between each
// one. It is grounded on the original Python sources' asyncio flavor
// (original_source/src/spirea/asyncio.py: hsm_handle_event/hsm_handle_entries,
// built around "await node.entry(...)"/"await node.exit(...)"/"await
// handler(...)" at every step), translated into Go's closest idiom for the
// same shape: functions that can block or be cancelled, not goroutine-per-
// state actors.
//
// The topology, dispatch algorithm, and fault set are otherwise identical to
// package hsm; see its doc comment for the shared semantics.
package hsmasync
