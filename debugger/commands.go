package debugger

import (
	"fmt"
	"strconv"

	"github.com/lookbusy1344/ktnack/interp"
)

// cmdBreak sets a breakpoint at an IR instruction pointer.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <ip>")
	}
	ip, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid instruction pointer: %s", args[0])
	}
	bp := d.Breakpoints.AddBreakpoint(ip)
	d.Printf("Breakpoint %d at ip %d\n", bp.ID, ip)
	return nil
}

// cmdDelete removes a breakpoint by ID, or all of them with no args.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdStep single-steps one IR instruction.
func (d *Debugger) cmdStep(args []string) error {
	d.Stepping = true
	d.Running = true
	return nil
}

// cmdContinue resumes execution until a breakpoint, halt, or error.
func (d *Debugger) cmdContinue(args []string) error {
	if d.Interp.State != interp.StateRunning {
		return fmt.Errorf("program is not running")
	}
	d.Stepping = false
	d.Running = true
	d.Println("Continuing...")
	return nil
}

// cmdStack prints the current value stack, top first.
func (d *Debugger) cmdStack(args []string) error {
	stack := d.Interp.Stack
	if len(stack) == 0 {
		d.Println("<empty>")
		return nil
	}
	for i := len(stack) - 1; i >= 0; i-- {
		d.Printf("%d: %s\n", len(stack)-1-i, FormatValue(stack[i]))
	}
	return nil
}

// cmdMem prints len qwords of the membuf starting at addr.
func (d *Debugger) cmdMem(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mem <addr> <len>")
	}
	addr, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid address: %s", args[0])
	}
	length, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid length: %s", args[1])
	}
	for i := 0; i < length; i++ {
		word, ok := d.Interp.MemWord(addr + int64(i))
		if !ok {
			d.Printf("%d: <out of bounds>\n", addr+int64(i))
			continue
		}
		d.Printf("%d: %d\n", addr+int64(i), word)
	}
	return nil
}

// cmdInfo prints current IP, state, and the instruction about to run.
func (d *Debugger) cmdInfo(args []string) error {
	d.Printf("ip=%d state=%v stack-depth=%d\n", d.Interp.IP, d.Interp.State, len(d.Interp.Stack))
	if inst, ok := d.currentInst(); ok {
		d.Printf("next: %s\n", inst)
	} else {
		d.Println("next: <end of program>")
	}
	return nil
}

// cmdHelp lists available commands.
func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Commands:")
	d.Println("  break <ip>        set a breakpoint at an instruction pointer")
	d.Println("  delete [id]       delete one breakpoint, or all with no id")
	d.Println("  step (s)          execute a single IR instruction")
	d.Println("  continue (c)      run until breakpoint, halt, or error")
	d.Println("  stack             print the current value stack")
	d.Println("  mem <addr> <len>  print len qwords of membuf from addr")
	d.Println("  info (i)          print ip, state, and the next instruction")
	d.Println("  help (h, ?)       show this message")
	d.Println("  quit (q)          exit the debugger")
	return nil
}
