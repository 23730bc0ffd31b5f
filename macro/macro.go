// Package macro implements the Ktnack MacroExpander (spec section 4.4):
// a two-pass preprocessing stage that collects `macro NAME ... end`
// definitions and then expands Symbol references with a fixed maximum
// recursion depth. Grounded in the teacher's parser.MacroTable /
// parser.MacroExpander split (collection keyed by name, a depth-capped
// expander with call-stack bookkeeping), simplified to Ktnack's
// parameterless macros and a fixed depth of 8 per spec.md.
package macro

import "github.com/lookbusy1344/ktnack/token"

// MaxExpansionDepth is the fixed recursion depth the spec mandates (not
// configurable, unlike the teacher's MaxMacroNestingDepth).
const MaxExpansionDepth = 8

// Table holds macro definitions collected from a token stream.
type Table struct {
	macros map[string][]token.Value
}

// NewTable creates an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string][]token.Value)}
}

// Define stores (or silently overwrites) a macro body under name.
func (t *Table) Define(name string, body []token.Value) {
	t.macros[name] = body
}

// Lookup returns the body for name, if defined.
func (t *Table) Lookup(name string) ([]token.Value, bool) {
	body, ok := t.macros[name]
	return body, ok
}

// Collect walks classified values, extracting `macro NAME ... end`
// definitions into the table and returning the remaining values with the
// macro bodies stripped out. Bracket-depth tracking (incrementing on
// if/while, decrementing on end) ensures the `end` that closes the macro
// body is the balancing one, not a nested control-flow `end` — nested
// macros are not supported, but nested if/while/end inside a macro body
// is, since those belong to the macro's own eventual expansion.
//
// An unterminated macro body is a macro error (spec section 7, class 3):
// Collect reports it via ok=false and the caller discards the program.
func Collect(values []token.Value) (*Table, []token.Value, bool) {
	table := NewTable()
	out := make([]token.Value, 0, len(values))

	i := 0
	for i < len(values) {
		v := values[i]
		if v.Kind == token.Symbol && v.Str == "macro" {
			if i+1 >= len(values) || values[i+1].Kind != token.Symbol {
				return table, out, false
			}
			name := values[i+1].Str
			body, next, ok := collectBody(values, i+2)
			if !ok {
				return table, out, false
			}
			table.Define(name, body)
			i = next
			continue
		}
		out = append(out, v)
		i++
	}
	return table, out, true
}

// collectBody scans values starting at start for the tokens of a macro
// body, terminated by the `end` that balances the body's own
// if/while/end nesting. Returns the body, the index just past the
// terminating `end`, and whether a terminator was found at all.
func collectBody(values []token.Value, start int) ([]token.Value, int, bool) {
	depth := 0
	body := make([]token.Value, 0)
	for i := start; i < len(values); i++ {
		v := values[i]
		if v.Kind == token.Symbol {
			switch v.Str {
			case "if", "while":
				depth++
			case "end":
				if depth == 0 {
					return body, i + 1, true
				}
				depth--
			}
		}
		body = append(body, v)
	}
	return nil, 0, false
}

// Expander expands Symbol references against a Table, recursively, up to
// MaxExpansionDepth levels. At depth 0, an unresolved symbol's expansion
// degrades silently: the symbol is emitted as-is (the parser will turn it
// into a Nop, per spec section 4.4).
type Expander struct {
	table *Table
}

// NewExpander creates an expander bound to table.
func NewExpander(table *Table) *Expander {
	return &Expander{table: table}
}

// Expand walks values, replacing each Symbol that names a macro with the
// (recursively re-expanded) values of its body. Non-symbol values and
// symbols that don't name a macro pass through unchanged.
func (e *Expander) Expand(values []token.Value) []token.Value {
	return e.expand(values, MaxExpansionDepth)
}

func (e *Expander) expand(values []token.Value, depth int) []token.Value {
	out := make([]token.Value, 0, len(values))
	for _, v := range values {
		if v.Kind != token.Symbol {
			out = append(out, v)
			continue
		}
		body, ok := e.table.Lookup(v.Str)
		if !ok {
			out = append(out, v)
			continue
		}
		if depth <= 0 {
			// Degrade silently: emit the unresolved reference as-is.
			out = append(out, v)
			continue
		}
		out = append(out, e.expand(body, depth-1)...)
	}
	return out
}
