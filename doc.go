// Package hsm implements a synchronous hierarchical state machine engine:
// nested states, entry/exit chains, run-to-completion event dispatch with
// parent delegation, self-transitions, and a least-common-ancestor
// algorithm governing which states are exited and re-entered on a
// transition.
//
// A topology is declared once with [StateMachine.State] and [State.State],
// finalized with [StateMachine.Finalize], and then driven through any
// number of independent [StateMachineInstance] values with [StateMachineInstance.Initialize]
// and [StateMachineInstance.Deliver].
//
// See the sibling packages hsmasync (cooperative, suspension-point
// dispatch) and hsmctx (per-state typed context propagation) for the
// engine's other two flavors.
package hsm
