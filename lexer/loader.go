package lexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads a Ktnack source file, textually inlining `inc NAME` lines
// with the contents of NAME.ktnck (spec section 4.2). Unlike the spec's
// minimal description, this Loader keeps a visited-path set to turn
// include cycles into a reported error instead of recursing forever —
// the safety improvement spec.md's Design Notes explicitly sanction
// without changing any other semantics.
type Loader struct {
	baseDir string
	visited map[string]bool
	errors  *ErrorList
}

// NewLoader creates a loader rooted at baseDir (the directory containing
// the initial source file; includes are resolved relative to it).
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		visited: make(map[string]bool),
		errors:  &ErrorList{},
	}
}

// Errors returns the errors accumulated by the most recent Load call.
func (l *Loader) Errors() *ErrorList {
	return l.errors
}

// Load reads filename (resolved against baseDir) and returns its content
// with every `inc NAME` line expanded, lines joined by single spaces.
func (l *Loader) Load(filename string) (string, error) {
	l.visited = make(map[string]bool)
	l.errors = &ErrorList{}
	return l.load(filename)
}

func (l *Loader) load(filename string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(l.baseDir, filename))
	if err != nil {
		return "", err
	}

	if l.visited[absPath] {
		err := NewError(Position{Filename: filename}, ErrorCircularInclude,
			fmt.Sprintf("circular inc detected: %s", filename))
		l.errors.AddError(err)
		return "", err
	}
	l.visited[absPath] = true
	defer delete(l.visited, absPath)

	content, err := os.ReadFile(absPath) // #nosec G304 -- user-provided Ktnack source/include path
	if err != nil {
		loadErr := NewError(Position{Filename: filename}, ErrorFileIO,
			fmt.Sprintf("failed to read file %s: %v", filename, err))
		l.errors.AddError(loadErr)
		return "", loadErr
	}

	lines := strings.Split(string(content), "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "inc ") {
			incName := strings.TrimSpace(strings.TrimPrefix(trimmed, "inc "))
			incContent, err := l.load(incName + ".ktnck")
			if err != nil {
				return "", err
			}
			result = append(result, incContent)
			continue
		}
		result = append(result, trimmed)
	}

	return strings.Join(result, " "), nil
}
