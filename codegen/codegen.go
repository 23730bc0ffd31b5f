// Package codegen lowers Ktnack IR to NASM (Windows x64 ABI) assembly
// text, with a one-instruction peephole optimizer that fuses an
// immediate push into an immediately following arithmetic op (spec
// section 4.7).
//
// Grounded in the original Rust compiler's compile_asm dispatch (one
// match arm per IR op, file.title/file.code calls) and restructured in
// the teacher/pack idiom of skx-math-compiler's compiler/generator.go:
// a few per-op helpers (lowerPush, lowerCompare, lowerPuts, and the
// peephole's fusedPushArith) that write through the emitter, while the
// remaining ops are lowered inline in lowerOne's switch. That
// mnemonic-routing switch mirrors the teacher encoder's lowerOp-style
// big switch.
package codegen

import (
	"fmt"

	"github.com/lookbusy1344/ktnack/asmemit"
	"github.com/lookbusy1344/ktnack/ir"
	"github.com/lookbusy1344/ktnack/token"
)

// CodeGen lowers a single ir.Program into a sequence of emitter calls.
type CodeGen struct {
	e        *asmemit.AsmEmitter
	strIndex int

	// Peephole enables the push+arithmetic fusion rule. It defaults to
	// true; tests toggle it off to compare emitted shapes against the
	// unfused lowering (spec section 8's "run scenarios both with and
	// without the optimizer enabled").
	Peephole bool
}

// New creates a CodeGen writing to e with peephole fusion enabled.
func New(e *asmemit.AsmEmitter) *CodeGen {
	return &CodeGen{e: e, Peephole: true}
}

// Lower walks program and emits its NASM translation, including the
// peephole fusion rule and the trailing addr_<len>/ret epilogue.
func (c *CodeGen) Lower(program ir.Program) error {
	ip := 0
	for ip < len(program) {
		inst := program[ip]
		c.e.Addr(ip)

		if c.Peephole && inst.Op == ir.Push && inst.Value.Kind == token.Number && ip+1 < len(program) {
			if fused, ok := c.fusedPushArith(inst.Value.Num, program[ip+1].Op); ok {
				fused()
				ip += 2
				continue
			}
		}

		if err := c.lowerOne(inst); err != nil {
			return err
		}
		ip++
	}

	c.e.Addr(len(program))
	c.e.Code("ret")
	return nil
}

// fusedPushArith implements the peephole rule: Push(Number n) followed
// by Add/Sub/Mul/Div/Mod folds the immediate into the arithmetic
// snippet. Returns the emission thunk and whether next qualifies.
func (c *CodeGen) fusedPushArith(n int64, next ir.Op) (func(), bool) {
	switch next {
	case ir.Add:
		return func() {
			c.e.Title("inline push => add")
			c.e.Code(fmt.Sprintf("add qword [rsp], %d", n))
		}, true
	case ir.Sub:
		return func() {
			c.e.Title("inline push => sub")
			c.e.Code(fmt.Sprintf("sub qword [rsp], %d", n))
		}, true
	case ir.Mul:
		return func() {
			c.e.Title("inline push => mul")
			c.e.Code(fmt.Sprintf("mov rax, %d", n))
			c.e.Code("pop rbx")
			c.e.Code("mul rbx")
			c.e.Code("push rax")
		}, true
	case ir.Div:
		return func() {
			c.e.Title("inline push => div")
			c.e.Code("xor rdx, rdx")
			c.e.Code(fmt.Sprintf("mov rbx, %d", n))
			c.e.Code("pop rax")
			c.e.Code("div rbx")
			c.e.Code("push rax")
		}, true
	case ir.Mod:
		return func() {
			c.e.Title("inline push => mod")
			c.e.Code("xor rdx, rdx")
			c.e.Code(fmt.Sprintf("mov rbx, %d", n))
			c.e.Code("pop rax")
			c.e.Code("div rbx")
			c.e.Code("push rdx")
		}, true
	default:
		return nil, false
	}
}

func (c *CodeGen) lowerOne(inst ir.Inst) error {
	switch inst.Op {
	case ir.Nop, ir.While:
		c.e.Title(inst.Op.String())

	case ir.Push:
		return c.lowerPush(inst.Value)

	case ir.Add:
		c.e.Title("add")
		c.e.Code("pop rax")
		c.e.Code("add [rsp], rax")
	case ir.Sub:
		c.e.Title("sub")
		c.e.Code("pop rax")
		c.e.Code("sub [rsp], rax")
	case ir.Mul:
		c.e.Title("mul")
		c.e.Code("pop rax")
		c.e.Code("pop rbx")
		c.e.Code("mul rbx")
		c.e.Code("push rax")
	case ir.Div:
		c.e.Title("div")
		c.e.Code("xor rdx, rdx")
		c.e.Code("pop rbx")
		c.e.Code("pop rax")
		c.e.Code("div rbx")
		c.e.Code("push rax")
	case ir.Mod:
		c.e.Title("mod")
		c.e.Code("xor rdx, rdx")
		c.e.Code("pop rbx")
		c.e.Code("pop rax")
		c.e.Code("div rbx")
		c.e.Code("push rdx")

	case ir.Shl:
		c.e.Title("shl")
		c.e.Code("pop rcx")
		c.e.Code("shl qword [rsp], cl")
	case ir.Shr:
		c.e.Title("shr")
		c.e.Code("pop rcx")
		c.e.Code("shr qword [rsp], cl")
	case ir.Bor:
		c.e.Title("bor")
		c.e.Code("pop rax")
		c.e.Code("or [rsp], rax")
	case ir.Band:
		c.e.Title("band")
		c.e.Code("pop rax")
		c.e.Code("and [rsp], rax")

	case ir.Greater:
		c.lowerCompare(">", "setg")
	case ir.Less:
		c.lowerCompare("<", "setl")
	case ir.GreaterEqual:
		c.lowerCompare(">=", "setge")
	case ir.LessEqual:
		c.lowerCompare("<=", "setle")
	case ir.Equal:
		c.lowerCompare("=", "sete")
	case ir.NotEqual:
		c.lowerCompare("!=", "setne")

	case ir.Dup:
		c.e.Title("dup")
		c.e.Code("mov rax, [rsp]")
		c.e.Code("push rax")
	case ir.Drop:
		c.e.Title("drop")
		c.e.Code("pop rax")
	case ir.Swap:
		c.e.Title("swap")
		c.e.Code("pop rax")
		c.e.Code("xchg rax, [rsp]")
		c.e.Code("push rax")
	case ir.Over:
		c.e.Title("over")
		c.e.Code("mov rax, [rsp+8]")
		c.e.Code("push rax")

	case ir.Log:
		c.e.Title("log")
		c.e.Code("pop rcx")
		c.e.Code("call log")

	case ir.If, ir.Do:
		c.e.Title(inst.Op.String())
		c.e.Code("pop rax")
		c.e.Code("cmp rax, 0")
		c.e.Code(fmt.Sprintf("je addr_%d", inst.Target))
	case ir.Else, ir.End:
		c.e.Title(inst.Op.String())
		c.e.Code(fmt.Sprintf("jmp addr_%d", inst.Target))

	case ir.Mem:
		c.e.Title("mem u64")
		c.e.Code("lea rax, [rel membuf]")
		c.e.Code("push rax")
	case ir.Load:
		c.e.Title("load")
		c.e.Code("pop rbx")
		c.e.Code("pop rax")
		c.e.Code("mov rcx, [rax + rbx*8]")
		c.e.Code("push rcx")
	case ir.Store:
		c.e.Title("store")
		c.e.Code("pop rbx")
		c.e.Code("pop rax")
		c.e.Code("pop rcx")
		c.e.Code("mov [rax + rbx*8], rcx")

	case ir.Puts:
		c.lowerPuts(inst.Newline)

	default:
		return fmt.Errorf("codegen: unhandled op %s", inst.Op)
	}
	return nil
}

func (c *CodeGen) lowerPush(v token.Value) error {
	switch v.Kind {
	case token.Number:
		c.e.Title("push u64")
		c.e.Code(fmt.Sprintf("push %d", v.Num))
		return nil
	case token.Text:
		c.lowerPushText(v.Str)
		return nil
	default:
		return fmt.Errorf("codegen: Push of unsupported kind %s", v.Kind)
	}
}

// lowerPushText emits a .data byte array for the string literal and
// pushes its (pointer, length) pair, per spec section 4.7. The
// compiled back-end represents strings this way; Load/Store/Puts
// operate qword-at-a-time against them identically to membuf access.
func (c *CodeGen) lowerPushText(s string) {
	name := fmt.Sprintf("str_%d", c.strIndex)
	c.strIndex++

	bytes := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		bytes[i] = fmt.Sprintf("%d", s[i])
	}

	// A string literal can appear anywhere among instructions; NASM
	// allows re-entering a named segment any number of times, so the
	// data byte array is emitted in place rather than hoisted.
	c.e.Data("segment .data")
	if len(bytes) == 0 {
		c.e.Data(fmt.Sprintf("    %s: db 0", name))
	} else {
		c.e.Data(fmt.Sprintf("    %s: db %s", name, joinComma(bytes)))
	}
	c.e.Data("segment .text")

	c.e.Title("push text")
	c.e.Code(fmt.Sprintf("lea rax, [rel %s]", name))
	c.e.Code("push rax")
	c.e.Code(fmt.Sprintf("push %d", len(s)))
}

func joinComma(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "," + p
	}
	return out
}

func (c *CodeGen) lowerCompare(title, setcc string) {
	c.e.Title(title)
	c.e.Code("pop rbx")
	c.e.Code("pop rax")
	c.e.Code("xor rcx, rcx")
	c.e.Code("cmp rax, rbx")
	c.e.Code(setcc + " cl")
	c.e.Code("movzx rcx, cl")
	c.e.Code("push rcx")
}

// lowerPuts emits the byte-copy loop iterating len downto 0 over
// [addr + i*8], calling the character-print helper; numbered local
// label reused verbatim from the reference implementation (.L1), since
// Puts never nests.
func (c *CodeGen) lowerPuts(newline bool) {
	c.e.Title("puts")
	// Insert a zero index under len: (addr, len) becomes (addr, 0, len).
	c.e.Code("pop rax")
	c.e.Code("push 0")
	c.e.Code("push rax")
	c.e.Code("mov r12, [rsp+16]")
	c.e.Lbl(1)
	c.e.Code("mov rsi, [rsp+8]")
	c.e.Code("lea rbx, [r12 + rsi*8]")
	c.e.Code("mov cl, [rbx]")
	c.e.Code("call puts")
	c.e.Code("sub qword [rsp], 1")
	c.e.Code("add qword [rsp+8], 1")
	c.e.Code("mov rbx, [rsp]")
	c.e.Code("test rbx, rbx")
	c.e.Code("jg .L1")
	if newline {
		c.e.Code("mov cl, 10")
		c.e.Code("call puts")
	}
	c.e.Code("add rsp, 24")
}
