// Package interp implements the Ktnack tree-walking interpreter (spec
// section 4.6): it executes an ir.Program against a runtime value stack,
// bounded by a max-iteration guard.
//
// Grounded in the teacher's vm.VM / vm.Step() / vm.Run() shape: an
// explicit State enum, a per-step dispatch that mutates a program
// counter, a cycle cap mirroring CycleLimit, and LastError propagation
// instead of panics on malformed programs.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/ktnack/ir"
	"github.com/lookbusy1344/ktnack/token"
)

// MaxIterations is the hard iteration cap of spec section 4.6: beyond
// this many steps, the interpreter aborts with a notice but exits
// normally (not an error).
const MaxIterations = 32768

// MemBufBytes is the size of the static memory buffer Mem/Load/Store
// address, per spec section 9 ("Mem buffer is 640 KiB fixed size").
const MemBufBytes = 640 * 1024

// memBufWords is MemBufBytes addressed qword-at-a-time, matching the
// compiled back-end's canonical qword-indexed Load/Store (spec section 9).
const memBufWords = MemBufBytes / 8

// State is the interpreter's run state.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
	StateIterationCap
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateError:
		return "error"
	case StateIterationCap:
		return "iteration-cap"
	default:
		return "unknown"
	}
}

// Interp executes an IR program against a value stack.
type Interp struct {
	Program ir.Program
	Stack   []token.Value
	IP      int
	State   State
	LastErr error

	membuf []int64

	// Output is where Log/Puts write; defaults to os.Stdout.
	Output io.Writer

	iterations int
}

// New creates an interpreter for program, writing Log/Puts output to
// os.Stdout.
func New(program ir.Program) *Interp {
	return &Interp{
		Program: program,
		Stack:   make([]token.Value, 0, 64),
		State:   StateRunning,
		membuf:  make([]int64, memBufWords),
		Output:  os.Stdout,
	}
}

// pop removes and returns the top of stack. Per spec section 3's
// deliberate policy, an empty stack yields Number(0) instead of an
// error — this is not a bug, it is the spec's documented leniency.
func (in *Interp) pop() token.Value {
	if len(in.Stack) == 0 {
		return token.MakeNumber(0)
	}
	top := in.Stack[len(in.Stack)-1]
	in.Stack = in.Stack[:len(in.Stack)-1]
	return top
}

func (in *Interp) push(v token.Value) {
	in.Stack = append(in.Stack, v)
}

// MemWord returns the qword stored at addr in the membuf, for debugger
// inspection (spec's "mem <addr> <len>" debugger command). ok is false
// when addr is out of bounds.
func (in *Interp) MemWord(addr int64) (word int64, ok bool) {
	if addr < 0 || addr >= memBufWords {
		return 0, false
	}
	return in.membuf[addr], true
}

func (in *Interp) fail(op ir.Op, detail string) {
	fmt.Fprintf(in.Output, "Error (%s) types: %s\n", op, detail)
	in.State = StateError
	in.LastErr = fmt.Errorf("runtime error in %s: %s", op, detail)
}

// Run steps the interpreter until it halts, errors, or exceeds
// MaxIterations.
func (in *Interp) Run() error {
	for in.State == StateRunning {
		if !in.Step() {
			break
		}
	}
	return in.LastErr
}

// Step executes a single IR instruction and advances IP. It returns
// false when the interpreter should stop (halt, error, or iteration
// cap), true if it should keep going.
func (in *Interp) Step() bool {
	in.iterations++
	if in.iterations > MaxIterations {
		fmt.Fprintln(in.Output, "iteration cap exceeded, halting")
		in.State = StateIterationCap
		return false
	}

	if in.IP < 0 || in.IP >= len(in.Program) {
		in.State = StateHalted
		return false
	}

	inst := in.Program[in.IP]

	switch inst.Op {
	case ir.Nop, ir.While:
		in.IP++

	case ir.Push:
		in.push(inst.Value)
		in.IP++

	case ir.Add:
		in.execAdd()
		in.IP++

	case ir.Sub:
		if !in.arith(func(a, b int64) int64 { return a - b }) {
			return false
		}
		in.IP++
	case ir.Mul:
		if !in.arith(func(a, b int64) int64 { return a * b }) {
			return false
		}
		in.IP++
	case ir.Div:
		if !in.arithChecked(ir.Div, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		}) {
			return false
		}
		in.IP++
	case ir.Mod:
		if !in.arithChecked(ir.Mod, func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		}) {
			return false
		}
		in.IP++

	case ir.Shl:
		if !in.arith(func(a, b int64) int64 { return a << uint(b) }) {
			return false
		}
		in.IP++
	case ir.Shr:
		if !in.arith(func(a, b int64) int64 { return a >> uint(b) }) {
			return false
		}
		in.IP++
	case ir.Bor:
		if !in.arith(func(a, b int64) int64 { return a | b }) {
			return false
		}
		in.IP++
	case ir.Band:
		if !in.arith(func(a, b int64) int64 { return a & b }) {
			return false
		}
		in.IP++

	case ir.Greater:
		in.compareNumbers(func(a, b int64) bool { return a > b })
		in.IP++
	case ir.Less:
		in.compareNumbers(func(a, b int64) bool { return a < b })
		in.IP++
	case ir.GreaterEqual:
		in.compareNumbers(func(a, b int64) bool { return a >= b })
		in.IP++
	case ir.LessEqual:
		in.compareNumbers(func(a, b int64) bool { return a <= b })
		in.IP++
	case ir.Equal:
		in.execEquality(true)
		in.IP++
	case ir.NotEqual:
		in.execEquality(false)
		in.IP++

	case ir.Dup:
		top := in.pop()
		in.push(top)
		in.push(top)
		in.IP++
	case ir.Drop:
		in.pop()
		in.IP++
	case ir.Swap:
		b := in.pop()
		a := in.pop()
		in.push(b)
		in.push(a)
		in.IP++
	case ir.Over:
		b := in.pop()
		a := in.pop()
		in.push(a)
		in.push(b)
		in.push(a)
		in.IP++

	case ir.Log:
		in.execLog()
		in.IP++

	case ir.If, ir.Do:
		cond := in.pop()
		if cond.Num == 0 {
			in.IP = inst.Target - 1
		}
		in.IP++
	case ir.Else, ir.End:
		in.IP = inst.Target

	case ir.Mem:
		in.push(token.MakeNumber(0))
		in.IP++
	case ir.Load:
		addr := in.pop()
		if addr.Num < 0 || addr.Num >= memBufWords {
			in.fail(ir.Load, fmt.Sprintf("address out of bounds: %d", addr.Num))
			return false
		}
		in.push(token.MakeNumber(in.membuf[addr.Num]))
		in.IP++
	case ir.Store:
		addr := in.pop()
		value := in.pop()
		if addr.Num < 0 || addr.Num >= memBufWords {
			in.fail(ir.Store, fmt.Sprintf("address out of bounds: %d", addr.Num))
			return false
		}
		in.membuf[addr.Num] = value.Num
		in.IP++

	case ir.Puts:
		in.execPuts(inst.Newline)
		in.IP++

	default:
		in.IP++
	}

	return in.State == StateRunning
}

func (in *Interp) execAdd() {
	b := in.pop()
	a := in.pop()
	switch {
	case a.Kind == token.Number && b.Kind == token.Number:
		in.push(token.MakeNumber(a.Num + b.Num))
	case a.Kind == token.Text && b.Kind == token.Text:
		in.push(token.MakeText(a.Str + b.Str))
	case a.Kind == token.Text && b.Kind == token.Number:
		in.push(token.MakeText(a.Str + fmt.Sprintf("%d", b.Num)))
	case a.Kind == token.Number && b.Kind == token.Text:
		in.push(token.MakeText(fmt.Sprintf("%d", a.Num) + b.Str))
	default:
		in.push(token.MakeNumber(0))
	}
}

func (in *Interp) arith(f func(a, b int64) int64) bool {
	b := in.pop()
	a := in.pop()
	if a.Kind != token.Number || b.Kind != token.Number {
		in.fail(ir.Sub, "not both Number")
		return false
	}
	in.push(token.MakeNumber(f(a.Num, b.Num)))
	return true
}

func (in *Interp) arithChecked(op ir.Op, f func(a, b int64) (int64, bool)) bool {
	b := in.pop()
	a := in.pop()
	if a.Kind != token.Number || b.Kind != token.Number {
		in.fail(op, "not both Number")
		return false
	}
	result, ok := f(a.Num, b.Num)
	if !ok {
		in.fail(op, "division by zero")
		return false
	}
	in.push(token.MakeNumber(result))
	return true
}

func (in *Interp) compareNumbers(f func(a, b int64) bool) {
	b := in.pop()
	a := in.pop()
	if f(a.Num, b.Num) {
		in.push(token.MakeNumber(1))
	} else {
		in.push(token.MakeNumber(0))
	}
}

func (in *Interp) execEquality(wantEqual bool) {
	b := in.pop()
	a := in.pop()

	if a.Kind != b.Kind {
		// Mixed Text/Number: Equal always false, NotEqual always true,
		// "different by construction" per spec section 4.6.
		if wantEqual {
			in.push(token.MakeNumber(0))
		} else {
			in.push(token.MakeNumber(1))
		}
		return
	}

	var equal bool
	if a.Kind == token.Text {
		equal = a.Str == b.Str
	} else {
		equal = a.Num == b.Num
	}
	if equal == wantEqual {
		in.push(token.MakeNumber(1))
	} else {
		in.push(token.MakeNumber(0))
	}
}

func (in *Interp) execLog() {
	v := in.pop()
	if v.Kind == token.Text {
		fmt.Fprintf(in.Output, "%s\n", v.Str)
		return
	}
	fmt.Fprintf(in.Output, "%d\n", v.Num)
}

// execPuts pops one value and writes it without Log's trailing newline
// (one is added only when newline is set): Str for Text, otherwise the
// number in decimal. The interpreter's value
// stack carries Text directly (spec section 3, "Text values exist only
// in the interpreter"); only the compiled backend represents strings as
// an (addr, len) pair, so Puts there and Puts here differ
// in what they pop — an interpreter-side design choice the spec leaves
// open (section 4.6 omits Puts from its dispatch list entirely).
func (in *Interp) execPuts(newline bool) {
	v := in.pop()
	if v.Kind == token.Text {
		fmt.Fprint(in.Output, v.Str)
	} else {
		fmt.Fprintf(in.Output, "%d", v.Num)
	}
	if newline {
		fmt.Fprintln(in.Output)
	}
}
