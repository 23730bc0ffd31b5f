package asmemit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/ktnack/asmemit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesPrologueAndStem(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "prog")

	e, err := asmemit.New(stem)
	require.NoError(t, err)
	assert.Equal(t, stem, e.Stem())
	assert.Equal(t, stem+".asm", e.Path())

	e.Title("hello")
	e.Code("push 1")
	e.Addr(3)
	e.Lbl(1)
	require.NoError(t, e.Close())

	contents, err := os.ReadFile(stem + ".asm")
	require.NoError(t, err)
	text := string(contents)

	assert.Contains(t, text, "global main")
	assert.Contains(t, text, "membuf  resb 640 * 1024")
	assert.Contains(t, text, "    ;; -- hello --\n")
	assert.Contains(t, text, "    push 1\n")
	assert.Contains(t, text, "addr_3:\n")
	assert.Contains(t, text, ".L1:\n")
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	e, err := asmemit.New(filepath.Join(dir, "prog"))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	assert.NoError(t, e.Close())
}
