// Package parser implements the Ktnack Parser / block resolver (spec
// section 4.5): a one-pass walk over the classified, macro-expanded
// token stream that emits IR and links control-flow words via a
// compile-time scratch stack of instruction pointers.
//
// The scratch stack's push/pop-or-leniently-degrade shape is grounded in
// the teacher's Preprocessor.ProcessContent conditionalStack: a plain
// LIFO of bool state pushed on .ifdef/.ifndef/.if and popped on
// .else/.endif, with an explicit "stack empty" error path instead of a
// panic. Ktnack's scratch stack plays the same role for if/while/do/end
// instead of preprocessor conditionals.
//
// This implementation deliberately skips the "reverse the program once"
// quirk spec.md section 9 documents and recommends omitting: IPs index
// the program directly.
package parser

import (
	"github.com/lookbusy1344/ktnack/ir"
	"github.com/lookbusy1344/ktnack/token"
)

// Parser walks a classified+macro-expanded value stream and builds an IR
// program.
type Parser struct {
	filename string
	scratch  []int // open-bracket IPs
}

// New creates a parser for a single source file (used only to tag Nop
// positions for diagnostics).
func New(filename string) *Parser {
	return &Parser{filename: filename}
}

// Parse converts values into an IR program.
func (p *Parser) Parse(values []token.Value) ir.Program {
	p.scratch = nil
	program := make(ir.Program, 0, len(values))

	for idx, v := range values {
		switch v.Kind {
		case token.Number, token.Char:
			program = append(program, ir.Inst{Op: ir.Push, Value: token.MakeNumber(v.Num)})
		case token.Text:
			program = append(program, ir.Inst{Op: ir.Push, Value: token.MakeText(v.Str)})
		case token.Symbol:
			program = p.emitSymbol(program, v.Str, idx)
		}
	}

	return program
}

// arithmetic and comparison symbol tables, per spec section 4.5's
// "Source symbol -> Emits" listing. Each entry lists every spelling the
// spec recognizes for that op.
var simpleOps = map[string]ir.Op{
	"+": ir.Add, "add": ir.Add,
	"-": ir.Sub, "sub": ir.Sub,
	"*": ir.Mul, "mul": ir.Mul,
	"/": ir.Div, "div": ir.Div,
	"%": ir.Mod, "mod": ir.Mod,
	"<<": ir.Shl, "shl": ir.Shl,
	">>": ir.Shr, "shr": ir.Shr,
	"|": ir.Bor, "bor": ir.Bor,
	"&": ir.Band, "band": ir.Band,
	".": ir.Log, "log": ir.Log,
	"s": ir.Swap, "swap": ir.Swap,
	"dup": ir.Dup, "over": ir.Over, "drop": ir.Drop,
	">": ir.Greater, "<": ir.Less,
	">=": ir.GreaterEqual, "<=": ir.LessEqual,
	"=": ir.Equal, "!=": ir.NotEqual,
	"@": ir.Mem, "mem": ir.Mem,
	"L": ir.Load, "load": ir.Load,
	"S": ir.Store, "store": ir.Store,
}

func (p *Parser) emitSymbol(program ir.Program, sym string, tokenIdx int) ir.Program {
	currentIP := len(program)

	if op, ok := simpleOps[sym]; ok {
		return append(program, ir.Inst{Op: op})
	}

	switch sym {
	case "p":
		return append(program, ir.Inst{Op: ir.Puts, Newline: false})
	case "P":
		return append(program, ir.Inst{Op: ir.Puts, Newline: true})

	case "if":
		p.push(currentIP)
		return append(program, ir.Inst{Op: ir.If, Target: 0})

	case "else":
		blockIP, ok := p.pop()
		if !ok {
			return p.nop(program, "else/empty-stack", tokenIdx)
		}
		program[blockIP].Target = currentIP + 1
		p.push(currentIP)
		return append(program, ir.Inst{Op: ir.Else, Target: 0})

	case "while":
		p.push(currentIP)
		return append(program, ir.Inst{Op: ir.While})

	case "do":
		whileIP, ok := p.pop()
		if !ok {
			return p.nop(program, "do/empty-stack", tokenIdx)
		}
		p.push(currentIP)
		return append(program, ir.Inst{Op: ir.Do, Target: whileIP})

	case "end":
		blockIP, ok := p.pop()
		if !ok {
			return p.nop(program, "end/empty-stack", tokenIdx)
		}
		return p.patchEnd(program, blockIP, currentIP, tokenIdx)

	default:
		return p.nop(program, "lex:"+sym, tokenIdx)
	}
}

// patchEnd applies the end-patching rules of spec section 4.5 to the
// block opened at blockIP.
func (p *Parser) patchEnd(program ir.Program, blockIP, currentIP, tokenIdx int) ir.Program {
	switch program[blockIP].Op {
	case ir.If, ir.Else:
		program[blockIP].Target = currentIP + 1
		return append(program, ir.Inst{Op: ir.End, Target: currentIP + 1})
	case ir.Do:
		whileIP := program[blockIP].Target
		program[blockIP].Target = currentIP + 1
		return append(program, ir.Inst{Op: ir.End, Target: whileIP})
	default:
		return p.nop(program, "end/sym:unmatched", tokenIdx)
	}
}

func (p *Parser) nop(program ir.Program, reason string, tokenIdx int) ir.Program {
	return append(program, ir.Inst{Op: ir.Nop, Reason: reason, Pos: ir.Pos{Filename: p.filename, Index: tokenIdx}})
}

func (p *Parser) push(ip int) {
	p.scratch = append(p.scratch, ip)
}

// pop removes and returns the top scratch IP, or false if the stack is
// empty — the spec's "defensive pop-or-default" leniency (section 9)
// that degrades to Nop instead of aborting the parse.
func (p *Parser) pop() (int, bool) {
	if len(p.scratch) == 0 {
		return -1, false
	}
	top := p.scratch[len(p.scratch)-1]
	p.scratch = p.scratch[:len(p.scratch)-1]
	return top, true
}
