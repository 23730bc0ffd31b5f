package token_test

import (
	"testing"

	"github.com/lookbusy1344/ktnack/token"
	"github.com/stretchr/testify/assert"
)

func TestClassifyNumber(t *testing.T) {
	v := token.Classify("42")
	assert.Equal(t, token.Number, v.Kind)
	assert.Equal(t, int64(42), v.Num)
}

func TestClassifyNegativeNumber(t *testing.T) {
	v := token.Classify("-17")
	assert.Equal(t, token.Number, v.Kind)
	assert.Equal(t, int64(-17), v.Num)
}

func TestClassifyText(t *testing.T) {
	v := token.Classify(`"hello world"`)
	assert.Equal(t, token.Text, v.Kind)
	assert.Equal(t, "hello world", v.Str)
}

func TestClassifyChar(t *testing.T) {
	v := token.Classify("'a'")
	assert.Equal(t, token.Char, v.Kind)
	assert.Equal(t, int64('a'), v.Num)
}

func TestClassifySymbol(t *testing.T) {
	v := token.Classify("dup")
	assert.Equal(t, token.Symbol, v.Kind)
	assert.Equal(t, "dup", v.Str)
}

func TestClassifyEmptyText(t *testing.T) {
	v := token.Classify(`""`)
	assert.Equal(t, token.Text, v.Kind)
	assert.Equal(t, "", v.Str)
}
