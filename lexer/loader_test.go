package lexer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/ktnack/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderInlinesIncludes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.ktnck"), []byte("1 2 +"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ktnck"), []byte("inc lib\n.\n"), 0o644))

	l := lexer.NewLoader(dir)
	out, err := l.Load("main.ktnck")
	require.NoError(t, err)
	assert.Equal(t, "1 2 + .", out)
}

func TestLoaderMissingInclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ktnck"), []byte("inc missing\n"), 0o644))

	l := lexer.NewLoader(dir)
	_, err := l.Load("main.ktnck")
	require.Error(t, err)
}

func TestLoaderDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ktnck"), []byte("inc b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ktnck"), []byte("inc a\n"), 0o644))

	l := lexer.NewLoader(dir)
	_, err := l.Load("a.ktnck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
}
