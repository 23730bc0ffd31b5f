// Package debugger implements the interactive IR stepper described in
// SPEC_FULL.md's debugger module: break/step/continue over a loaded
// ir.Program, plus stack and membuf inspection. Grounded in the
// teacher's debugger.Debugger / debugger.ExecuteCommand dispatch shape
// (debugger/debugger.go), generalized from the ARM CPU/memory model to
// Ktnack's stack-and-membuf runtime.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/ktnack/interp"
	"github.com/lookbusy1344/ktnack/token"
)

// Debugger wraps an interp.Interp with breakpoint management, command
// history, and single-step control, mirroring the teacher's
// Debugger{VM, Breakpoints, History, ...} composition.
type Debugger struct {
	Interp *interp.Interp

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running  bool
	Stepping bool

	LastCommand string

	Output strings.Builder
}

// NewDebugger creates a debugger over machine, paused before its first
// instruction.
func NewDebugger(machine *interp.Interp) *Debugger {
	return &Debugger{
		Interp:      machine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// ExecuteCommand parses and runs one command line, per spec's debugger
// command set (break <ip>, step, continue, stack, mem <addr> <len>).
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine, d.Interp.IP)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "step", "s":
		return d.cmdStep(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "stack":
		return d.cmdStack(args)
	case "mem":
		return d.cmdMem(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause at the current IP,
// per the teacher's Debugger.ShouldBreak single-step/breakpoint check.
func (d *Debugger) ShouldBreak() (bool, string) {
	if d.Stepping {
		d.Stepping = false
		return true, "single step"
	}

	if bp := d.Breakpoints.ProcessHit(d.Interp.IP); bp != nil {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	return false, ""
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// FormatValue renders a stack value the way the `stack` command and the
// TUI's stack panel show it.
func FormatValue(v token.Value) string {
	switch v.Kind {
	case token.Text:
		return strconv.Quote(v.Str)
	case token.Char:
		return fmt.Sprintf("'%c'", rune(v.Num))
	default:
		return strconv.FormatInt(v.Num, 10)
	}
}

// currentInst returns the instruction at IP, or ok=false past the end.
func (d *Debugger) currentInst() (inst string, ok bool) {
	ip := d.Interp.IP
	if ip < 0 || ip >= len(d.Interp.Program) {
		return "", false
	}
	i := d.Interp.Program[ip]
	switch i.Op.String() {
	case "Push":
		return fmt.Sprintf("Push(%s)", FormatValue(i.Value)), true
	case "If", "Else", "Do", "End":
		return fmt.Sprintf("%s -> %d", i.Op, i.Target), true
	default:
		return i.Op.String(), true
	}
}
