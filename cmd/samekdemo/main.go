// Command samekdemo is an interactive REPL over the Samek conformance
// fixture: type a letter a-h and Enter, see the current leaf before and after.
// Grounded on the original Python sources' examples/samek/__main__.py (a
// readchar-driven loop mapping a..h to events and reprinting the current
// node after each hsm_handle_event call) and on noru-rfsm's cmd/demo driver
// loop style (print current/new state around each dispatched event).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	hsm "github.com/go-statecraft/hsm"
	"github.com/go-statecraft/hsm/internal/fixture"
)

func main() {
	sm, _ := fixture.Build()
	ext := &fixture.Ext{}
	smi := &hsm.StateMachineInstance[*fixture.Ext]{SM: sm, Ext: ext}
	smi.Initialize(hsm.Event{Id: -1})

	fmt.Println("Samek fixture REPL. Type a letter a-h and Enter to dispatch an event, q to quit.")
	fmt.Printf("start: %s\n", smi.Current())

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			return
		}
		if len(line) != 1 {
			fmt.Println("enter exactly one letter a-h")
			continue
		}

		id := strings.IndexByte("abcdefgh", line[0])
		if id < 0 {
			fmt.Println("unknown event letter:", line)
			continue
		}

		before := smi.Current()
		after, err := smi.Deliver(hsm.Event{Id: id})
		if err != nil {
			fmt.Println("fault:", err)
			continue
		}
		if after == before {
			fmt.Printf("%s: leaf unchanged (%s)\n", fixture.EventNames[id], after)
			continue
		}
		fmt.Printf("%s: %s -> %s\n", fixture.EventNames[id], before, after)
	}
}
