// Package ir defines the Ktnack intermediate representation: an ordered
// sequence of tagged operations (spec section 3) produced by the parser
// and consumed by both the interpreter and the code generator.
package ir

import "github.com/lookbusy1344/ktnack/token"

// Op is the IR operation discriminant.
type Op int

const (
	Nop Op = iota
	Push
	Add
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Bor
	Band
	Greater
	Less
	GreaterEqual
	LessEqual
	Equal
	NotEqual
	Dup
	Drop
	Swap
	Over
	Log
	If
	Else
	While
	Do
	End
	Mem
	Load
	Store
	Puts
)

var names = map[Op]string{
	Nop: "Nop", Push: "Push", Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div",
	Mod: "Mod", Shl: "Shl", Shr: "Shr", Bor: "Bor", Band: "Band",
	Greater: "Greater", Less: "Less", GreaterEqual: "GreaterEqual",
	LessEqual: "LessEqual", Equal: "Equal", NotEqual: "NotEqual",
	Dup: "Dup", Drop: "Drop", Swap: "Swap", Over: "Over", Log: "Log",
	If: "If", Else: "Else", While: "While", Do: "Do", End: "End",
	Mem: "Mem", Load: "Load", Store: "Store", Puts: "Puts",
}

func (o Op) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "Unknown"
}

// Inst is a single IR instruction. Only the fields relevant to Op are
// meaningful:
//
//	Push            -> Value (Number or Text)
//	If/Else/Do/End  -> Target (an instruction-pointer index)
//	Puts            -> Newline
//	Nop             -> Reason, Pos
type Inst struct {
	Op       Op
	Value    token.Value
	Target   int
	Newline  bool
	Reason   string
	Pos      Pos
}

// Pos is a lightweight source position carried by Nop instructions so
// diagnostics can point back at the offending token — an additive
// enrichment over spec.md's bare debug string (SPEC_FULL.md section 4).
type Pos struct {
	Filename string
	Index    int // token index in the macro-expanded stream
}

// Program is an ordered sequence of IR instructions; instruction
// pointers are indices into it.
type Program []Inst

// Valid reports whether every branch target in the program refers to a
// valid instruction pointer in [0, len(p)], per spec section 3's
// invariant.
func (p Program) Valid() bool {
	for _, inst := range p {
		switch inst.Op {
		case If, Else, Do, End:
			if inst.Target < 0 || inst.Target > len(p) {
				return false
			}
		}
	}
	return true
}
