package parser_test

import (
	"testing"

	"github.com/lookbusy1344/ktnack/ir"
	"github.com/lookbusy1344/ktnack/parser"
	"github.com/lookbusy1344/ktnack/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(toks ...string) []token.Value {
	values := make([]token.Value, len(toks))
	for i, t := range toks {
		values[i] = token.Classify(t)
	}
	return values
}

func TestParseArithmetic(t *testing.T) {
	prog := parser.New("t.ktnck").Parse(classify("2", "3", "+", "."))
	require.Len(t, prog, 4)
	assert.Equal(t, ir.Push, prog[0].Op)
	assert.Equal(t, int64(2), prog[0].Value.Num)
	assert.Equal(t, ir.Add, prog[2].Op)
	assert.Equal(t, ir.Log, prog[3].Op)
}

func TestParseIfElseLinksTargets(t *testing.T) {
	// 0 if 1 . else 2 . end
	prog := parser.New("t.ktnck").Parse(classify("0", "if", "1", ".", "else", "2", ".", "end"))
	require.True(t, prog.Valid())

	// IP 1 = If, should jump to the instruction right after Else (IP 5)
	assert.Equal(t, ir.If, prog[1].Op)
	assert.Equal(t, 5, prog[1].Target)

	// IP 4 = Else, should jump to the instruction after End (IP 8)
	assert.Equal(t, ir.Else, prog[4].Op)
	assert.Equal(t, 8, prog[4].Target)

	assert.Equal(t, ir.End, prog[7].Op)
	assert.Equal(t, 8, prog[7].Target)
}

func TestParseWhileDoEnd(t *testing.T) {
	// 1 while dup 5 <= do dup . 1 + end drop
	prog := parser.New("t.ktnck").Parse(classify(
		"1", "while", "dup", "5", "<=", "do", "dup", ".", "1", "+", "end", "drop",
	))
	require.True(t, prog.Valid())

	whileIP := 1
	assert.Equal(t, ir.While, prog[whileIP].Op)

	doIP := 5
	require.Equal(t, ir.Do, prog[doIP].Op)
	endIP := len(prog) - 2
	require.Equal(t, ir.End, prog[endIP].Op)

	// Do's target is the exit IP (just after End)
	assert.Equal(t, endIP+1, prog[doIP].Target)
	// End loops back to While
	assert.Equal(t, whileIP, prog[endIP].Target)
}

func TestParseUnmatchedElseDegradesToNop(t *testing.T) {
	prog := parser.New("t.ktnck").Parse(classify("else"))
	require.Len(t, prog, 1)
	assert.Equal(t, ir.Nop, prog[0].Op)
}

func TestParseUnmatchedEndDegradesToNop(t *testing.T) {
	prog := parser.New("t.ktnck").Parse(classify("end"))
	require.Len(t, prog, 1)
	assert.Equal(t, ir.Nop, prog[0].Op)
}

func TestParseUnknownSymbolIsNop(t *testing.T) {
	prog := parser.New("t.ktnck").Parse(classify("frobnicate"))
	require.Len(t, prog, 1)
	assert.Equal(t, ir.Nop, prog[0].Op)
	assert.Equal(t, "lex:frobnicate", prog[0].Reason)
}

func TestParseStringPush(t *testing.T) {
	prog := parser.New("t.ktnck").Parse(classify(`"hi"`, "P"))
	require.Len(t, prog, 2)
	assert.Equal(t, ir.Push, prog[0].Op)
	assert.Equal(t, token.Text, prog[0].Value.Kind)
	assert.Equal(t, "hi", prog[0].Value.Str)
	assert.Equal(t, ir.Puts, prog[1].Op)
	assert.True(t, prog[1].Newline)
}
