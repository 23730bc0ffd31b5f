// Package lexer implements the StringScanner and Loader of the Ktnack
// pipeline (spec sections 4.1 and 4.2): splitting source text into
// whitespace tokens, reassembling quoted literals that may span spaces,
// and textually inlining `inc` files.
package lexer

import "strings"

// Scanner splits source text into raw tokens, per spec section 4.1.
type Scanner struct {
	filename string
	errors   *ErrorList
}

// NewScanner creates a scanner for a single source file (used only for
// error position reporting; the scanner itself is stateless across
// Scan calls).
func NewScanner(filename string) *Scanner {
	return &Scanner{filename: filename, errors: &ErrorList{}}
}

// Errors returns the errors accumulated by the most recent Scan call.
func (s *Scanner) Errors() *ErrorList {
	return s.errors
}

// Scan tokenizes source text: trim, split on single ASCII spaces, drop
// empty fragments, then reassemble string/char literals that were split
// by the naive space-split, and finally apply escape substitution.
func (s *Scanner) Scan(source string) []string {
	s.errors = &ErrorList{}

	raw := strings.Split(strings.TrimSpace(strings.ReplaceAll(source, "\n", " ")), " ")
	fragments := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok != "" {
			fragments = append(fragments, tok)
		}
	}

	tokens := make([]string, 0, len(fragments))
	for i := 0; i < len(fragments); i++ {
		frag := fragments[i]
		if len(frag) > 0 && (frag[0] == '"' || frag[0] == '\'') {
			literal, consumed := s.assembleLiteral(fragments, i)
			tokens = append(tokens, literal)
			i += consumed - 1
			continue
		}
		tokens = append(tokens, frag)
	}
	return tokens
}

// assembleLiteral greedily consumes fragments starting at i until it finds
// one that ends in the opening delimiter (not preceded by a backslash),
// rejoining the consumed fragments with single spaces. Returns the
// assembled literal (still delimited, escapes applied) and the number of
// fragments consumed.
func (s *Scanner) assembleLiteral(fragments []string, i int) (string, int) {
	delim := fragments[i][0]
	parts := []string{fragments[i]}

	if literalCloses(fragments[i], delim) {
		return s.finishLiteral(fragments[i], delim), 1
	}

	for j := i + 1; j < len(fragments); j++ {
		parts = append(parts, fragments[j])
		if literalCloses(fragments[j], delim) {
			joined := strings.Join(parts, " ")
			return s.finishLiteral(joined, delim), j - i + 1
		}
	}

	// Unterminated: treat everything to end of input as the literal body,
	// the escape/length check below will surface the problem for chars,
	// and the caller's TokenClassifier will see an unbalanced token for
	// strings.
	return s.finishLiteral(strings.Join(parts, " "), delim), len(fragments) - i
}

// literalCloses reports whether tok (which is at least one rune long and,
// for single-fragment literals, has already had its opening delimiter
// checked by the caller) ends in an unescaped instance of delim.
func literalCloses(tok string, delim byte) bool {
	if len(tok) < 1 || tok[len(tok)-1] != delim {
		return false
	}
	// Single-character fragment: it's the opening delimiter itself, not a
	// close, unless it's a 2-character literal like "" or a longer one
	// whose last char is unescaped.
	if len(tok) == 1 {
		return false
	}
	return !precededByBackslash(tok, len(tok)-1)
}

func precededByBackslash(s string, idx int) bool {
	backslashes := 0
	for i := idx - 1; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// finishLiteral applies escape substitution to the body of a quoted
// literal (keeping the delimiters), and for char literals, validates that
// exactly one character remains after escaping.
func (s *Scanner) finishLiteral(literal string, delim byte) string {
	if len(literal) < 2 {
		s.errors.AddError(NewError(Position{Filename: s.filename}, ErrorSyntax,
			"unterminated literal: "+literal))
		return literal
	}
	body := literal[1 : len(literal)-1]
	escaped := ProcessEscapeSequences(body)

	if delim == '\'' {
		if len([]rune(escaped)) != 1 {
			s.errors.AddError(NewError(Position{Filename: s.filename}, ErrorSyntax,
				"char literal must contain exactly one character: "+literal))
		}
	}

	return string(delim) + escaped + string(delim)
}
