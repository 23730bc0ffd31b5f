package lexer_test

import (
	"testing"

	"github.com/lookbusy1344/ktnack/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSimpleWords(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan("2 3 + .")
	assert.Equal(t, []string{"2", "3", "+", "."}, toks)
}

func TestScanSingleTokenString(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan(`"abc" .`)
	assert.Equal(t, []string{`"abc"`, "."}, toks)
}

func TestScanMultiTokenString(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan(`"hello world" P`)
	require.Len(t, toks, 2)
	assert.Equal(t, `"hello world"`, toks[0])
	assert.Equal(t, "P", toks[1])
}

func TestScanEscapeSequences(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan(`"a\nb"`)
	require.Len(t, toks, 1)
	assert.Equal(t, "\"a\nb\"", toks[0])
}

func TestScanCharLiteral(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan(`'a' log`)
	assert.Equal(t, []string{"'a'", "log"}, toks)
	assert.False(t, s.Errors().HasErrors())
}

func TestScanCharLiteralTooLong(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	s.Scan(`'ab'`)
	assert.True(t, s.Errors().HasErrors())
}

func TestScanEmptyInput(t *testing.T) {
	s := lexer.NewScanner("test.ktnck")
	toks := s.Scan("   ")
	assert.Empty(t, toks)
}
