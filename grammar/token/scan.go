package token

import "strings"

// escapeChars is spec.md §4.2's escape table: a backslash followed by one
// of these literal characters resolves to that character, losing its
// special meaning in the surrounding context. '\t' is the one multi-purpose
// entry: it yields an actual tab character rather than the letter 't'.
var escapeChars = map[byte]rune{
	'\\': '\\',
	'$':  '$',
	'{':  '{',
	'}':  '}',
	'[':  '[',
	']':  ']',
	'(':  '(',
	')':  ')',
	':':  ':',
	'=':  '=',
	',':  ',',
	' ':  ' ',
	't':  '\t',
}

// DecodeEscape returns the literal rune a backslash-escape of c resolves
// to, and whether c is a recognized escape target.
func DecodeEscape(c byte) (rune, bool) {
	r, ok := escapeChars[c]
	return r, ok
}

// Unescape decodes every recognized backslash-escape in s, leaving an
// unrecognized "\x" sequence as a literal backslash followed by x (lenient,
// since the text grammar only needs to strip escapes that are special in
// the current lexer mode; no strict variant is provided).
func Unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		if r, ok := DecodeEscape(s[i+1]); ok {
			b.WriteRune(r)
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// IdentByte reports whether c may appear in a bare config-key identifier or
// resolver-name segment: letters, digits, and the punctuation the teacher's
// getSingleLiteral also accepts in bare literals.
func IdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', '-', '+', '/', '@', '~', '!', '%', '*':
		return true
	}
	return false
}

// ScanBalanced scans from s[i], which must be open, to the matching close,
// honoring nested quotes (so a close char inside a quoted string doesn't
// terminate early) and nested same-kind brackets. It returns the index just
// past the matching close.
func ScanBalanced(s string, i int, open, close byte) (end int, err error) {
	depth := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch c {
		case '\\':
			i += 2
			continue
		case '\'', '"':
			j, err := skipQuoted(s, i)
			if err != nil {
				return 0, err
			}
			i = j
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
		i++
	}
	return 0, NewErr(ErrUnbalanced, Pos{Offset: i}, "no matching %q", string(close))
}

func skipQuoted(s string, i int) (int, error) {
	q := s[i]
	i++
	n := len(s)
	for i < n {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case q:
			return i + 1, nil
		}
		i++
	}
	return 0, NewErr(ErrUnterminated, Pos{Offset: i}, "unterminated quote")
}
