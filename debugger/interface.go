package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/ktnack/interp"
	"github.com/lookbusy1344/ktnack/ir"
)

// RunCLI runs the line-oriented debugger interface, grounded in the
// teacher's RunCLI (debugger/interface.go): prompt, execute, then drain
// IR steps while Running, checking ShouldBreak before each one.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(ktnack-dbg) ")

		if !scanner.Scan() {
			break
		}
		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if out := dbg.GetOutput(); out != "" {
			fmt.Print(out)
		}

		for dbg.Running {
			if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
				dbg.Running = false
				fmt.Printf("Stopped: %s at ip=%d\n", reason, dbg.Interp.IP)
				break
			}

			if !dbg.Interp.Step() {
				dbg.Running = false
				switch dbg.Interp.State {
				case interp.StateHalted:
					fmt.Println("Program halted")
				case interp.StateIterationCap:
					fmt.Println("Iteration cap exceeded")
				case interp.StateError:
					fmt.Printf("Runtime error: %v\n", dbg.Interp.LastErr)
				}
				break
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}

// RunTUI runs the tview-based debugger interface.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}

// Run builds an interpreter over program and drives it with the TUI —
// the entry point the CLI's -tui flag calls.
func Run(program ir.Program) {
	dbg := NewDebugger(interp.New(program))
	if err := RunTUI(dbg); err != nil {
		fmt.Fprintf(os.Stderr, "debugger: %v\n", err)
		os.Exit(1)
	}
}
