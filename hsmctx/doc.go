// Package hsmctx is the context-propagation flavor of the hierarchical
// state machine engine in the sibling hsm package: each state's entry
// action receives the context.Context its parent's entry produced, and may
// derive a new one (typically via context.WithValue) that its own children
// and its handler then see. Exiting back up through an ancestor discards
// everything composed below it, the same way a context.WithCancel's
// children are torn down when the parent is cancelled.
//
// The per-state typed Context is grounded on comalice-statechartx's
// Context type (context.go: a small key/value store threaded through a
// runtime), generalized here to the standard library's context.Context so
// derived values compose with cancellation, deadlines, and
// context.WithValue the way the rest of the Go ecosystem expects.
//
// The topology, dispatch algorithm, and fault set are otherwise identical
// to package hsm; see its doc comment for the shared semantics.
package hsmctx
