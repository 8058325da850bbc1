package hsmasync

import "runtime"

// yield is the suspension point stand-in: it gives the Go scheduler a
// chance to run other goroutines between entry/exit/handler calls, the same
// role "await" plays at each of those call sites in the original asyncio
// sources. Dispatch itself stays synchronous within one goroutine - this
// does not make Deliver safe to call concurrently with itself (see
// StateMachineInstance's doc comment) - it only cooperates with the rest of
// the program the way the original's event loop does.
func yield() {
	runtime.Gosched()
}
