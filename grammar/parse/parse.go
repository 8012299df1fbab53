package parse

import (
	"strconv"
	"strings"

	"github.com/hconf-go/hconf/grammar/token"
)

// ParseText parses a full scalar string per spec.md §4.2. It never fails on
// text with no "${" in it (the common case of a plain scalar that merely
// happens to go through the interpolation-bearing code path).
func ParseText(src string) (*Text, error) {
	p := &parser{src: src, doc: token.NewPosDoc([]byte(src))}
	frags, err := p.parseFragments(len(src))
	if err != nil {
		return nil, err
	}
	return &Text{Fragments: frags}, nil
}

type parser struct {
	src string
	doc *token.PosDoc
}

func (p *parser) pos(i int) token.Pos { return p.doc.Pos(i) }

// parseFragments consumes p.src from the current implicit cursor (tracked
// by the caller via recursion depth isn't needed: this parser is
// stateless per call and always starts at 0) up to end, splitting plain
// text from "${...}" interpolations and decoding escapes in literal runs.
func (p *parser) parseFragments(end int) ([]Fragment, error) {
	var frags []Fragment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, &Literal{Value: lit.String()})
			lit.Reset()
		}
	}
	s := p.src
	i := 0
	for i < end {
		c := s[i]
		switch {
		case c == '\\' && i+1 < end:
			if r, ok := token.DecodeEscape(s[i+1]); ok {
				lit.WriteRune(r)
				i += 2
				continue
			}
			lit.WriteByte(c)
			i++
		case c == '$' && i+1 < end && s[i+1] == '{':
			body, next, err := p.scanBrace(i)
			if err != nil {
				return nil, err
			}
			flush()
			frag, err := p.parseInterpBody(body, i+2)
			if err != nil {
				return nil, err
			}
			frags = append(frags, frag)
			i = next
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return frags, nil
}

// scanBrace scans the "${...}" starting at s[start], honoring nested braces,
// quoted strings and backslash escapes, and returns the body (without the
// "${"/"}" delimiters) plus the index just past the closing "}".
func (p *parser) scanBrace(start int) (body string, next int, err error) {
	s := p.src
	i := start + 2
	depth := 1
	n := len(s)
	bodyStart := i
	for i < n {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '\'', '"':
			j, err := skipQuote(s, i)
			if err != nil {
				return "", 0, err
			}
			i = j
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[bodyStart:i], i + 1, nil
			}
		}
		i++
	}
	return "", 0, token.NewErr(token.ErrUnterminated, p.pos(start), "unterminated \"${\"")
}

func skipQuote(s string, i int) (int, error) {
	q := s[i]
	i++
	n := len(s)
	for i < n {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == q {
			return i + 1, nil
		}
		i++
	}
	return 0, token.NewErr(token.ErrUnterminated, token.Pos{Offset: i}, "unterminated quote")
}

// parseInterpBody decides whether body is a resolver call (has a top-level
// ':') or a node reference, and dispatches.
func (p *parser) parseInterpBody(body string, offset int) (Fragment, error) {
	colon := topLevelIndex(body, ':')
	if colon >= 0 && isResolverName(body[:colon]) {
		return p.parseResolverCall(body[:colon], body[colon+1:], offset)
	}
	return p.parseNodeRef(body, offset)
}

// isResolverName reports whether s, the text before a top-level ':', is
// taken as a resolver name: any non-empty s is (a bare "${:x}" style name is
// not meaningful, so an empty name falls back to a node reference parse,
// which will itself error).
func isResolverName(s string) bool {
	return s != ""
}

func (p *parser) parseNodeRef(body string, offset int) (*NodeRef, error) {
	ref := &NodeRef{Absolute: true}
	i := 0
	for i < len(body) && body[i] == '.' {
		ref.Absolute = false
		ref.RelDepth++
		i++
	}
	segs, err := p.parseSegments(body[i:], offset+i)
	if err != nil {
		return nil, err
	}
	ref.Segments = segs
	return ref, nil
}

func (p *parser) parseSegments(s string, offset int) ([]Segment, error) {
	var segs []Segment
	i := 0
	n := len(s)
	for i < n {
		switch s[i] {
		case '.':
			i++
			continue
		case '[':
			j, err := bracketEnd(s, i)
			if err != nil {
				return nil, token.NewErr(token.ErrUnbalanced, p.pos(offset+i), "unterminated '['")
			}
			inner := s[i+1 : j]
			seg, err := p.parseDynamicOrLiteralIndex(inner, offset+i+1)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = j + 1
		default:
			k := strings.IndexAny(s[i:], ".[")
			var field string
			if k == -1 {
				field = s[i:]
				i = n
			} else {
				field = s[i : i+k]
				i += k
			}
			segs = append(segs, Segment{Field: &field})
		}
	}
	return segs, nil
}

func (p *parser) parseDynamicOrLiteralIndex(inner string, offset int) (Segment, error) {
	if strings.Contains(inner, "${") {
		dyn, err := ParseText(inner)
		if err != nil {
			return Segment{}, err
		}
		return Segment{Dynamic: dyn}, nil
	}
	if idx, err := strconv.Atoi(inner); err == nil {
		return Segment{Index: &idx}, nil
	}
	field := inner
	return Segment{Field: &field}, nil
}

func bracketEnd(s string, i int) (int, error) {
	depth := 0
	n := len(s)
	for ; i < n; i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, token.ErrUnbalanced
}

func (p *parser) parseResolverCall(name, argsText string, offset int) (*ResolverCall, error) {
	nameParts, err := p.parseNameParts(name, offset)
	if err != nil {
		return nil, err
	}
	args, trailingEmpty, err := p.parseArgs(argsText, offset+len(name)+1)
	if err != nil {
		return nil, err
	}
	return &ResolverCall{NameParts: nameParts, Args: args, TrailingEmpty: trailingEmpty}, nil
}

func (p *parser) parseNameParts(name string, offset int) ([]NamePart, error) {
	var parts []NamePart
	i := 0
	n := len(name)
	for i < n {
		if name[i] == '.' {
			i++
			continue
		}
		if strings.HasPrefix(name[i:], "${") {
			j, err := p.matchingBrace(name, i)
			if err != nil {
				return nil, err
			}
			dyn, err := ParseText(name[i : j+1])
			if err != nil {
				return nil, err
			}
			parts = append(parts, NamePart{Dynamic: dyn})
			i = j + 1
			continue
		}
		k := strings.IndexByte(name[i:], '.')
		var lit string
		if k == -1 {
			lit = name[i:]
			i = n
		} else {
			lit = name[i : i+k]
			i += k
		}
		parts = append(parts, NamePart{Literal: &lit})
	}
	return parts, nil
}

func (p *parser) matchingBrace(s string, i int) (int, error) {
	depth := 0
	n := len(s)
	for j := i; j < n; j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, token.ErrUnterminated
}

// parseArgs splits argsText on top-level commas and parses each piece.
func (p *parser) parseArgs(argsText string, offset int) ([]*Arg, bool, error) {
	if argsText == "" {
		return nil, false, nil
	}
	pieces := splitTopLevel(argsText, ',')
	trailingEmpty := false
	if len(pieces) > 0 && strings.TrimSpace(pieces[len(pieces)-1]) == "" {
		trailingEmpty = true
		pieces = pieces[:len(pieces)-1]
	}
	args := make([]*Arg, 0, len(pieces))
	for _, piece := range pieces {
		arg, err := p.parseArg(piece, offset)
		if err != nil {
			return nil, false, err
		}
		args = append(args, arg)
		offset += len(piece) + 1
	}
	return args, trailingEmpty, nil
}

func (p *parser) parseArg(raw string, offset int) (*Arg, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "${") {
		if j, err := p.matchingBrace(trimmed, 0); err == nil && j == len(trimmed)-1 {
			frag, err := p.parseInterpBody(trimmed[2:j], offset)
			if err != nil {
				return nil, err
			}
			return &Arg{Interp: frag}, nil
		}
	}
	el, err := p.parseElement(raw, offset)
	if err != nil {
		return nil, err
	}
	return &Arg{Element: el}, nil
}

// parseElement parses the Element sub-grammar (spec.md §4.2): a quoted
// string, a bracketed list, a braced map, or an unquoted primitive whose
// surrounding whitespace is trimmed.
func (p *parser) parseElement(raw string, offset int) (*Element, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return &Element{Kind: ElemPrimitive, Primitive: ""}, nil
	}
	switch s[0] {
	case '\'', '"':
		return p.parseQuotedElement(s, offset)
	case '[':
		return p.parseListElement(s, offset)
	case '{':
		return p.parseMapElement(s, offset)
	default:
		return &Element{Kind: ElemPrimitive, Primitive: s}, nil
	}
}

func (p *parser) parseQuotedElement(s string, offset int) (*Element, error) {
	q := s[0]
	j, err := skipQuote(s, 0)
	if err != nil || j != len(s) {
		return nil, token.NewErr(token.ErrUnterminated, p.pos(offset), "unterminated quoted element")
	}
	inner := s[1 : len(s)-1]
	text, err := ParseText(inner)
	if err != nil {
		return nil, err
	}
	return &Element{Kind: ElemQuoted, Quote: q, Quoted: text}, nil
}

func (p *parser) parseListElement(s string, offset int) (*Element, error) {
	j, err := bracketEndCurly(s, 0, '[', ']')
	if err != nil || j != len(s)-1 {
		return nil, token.NewErr(token.ErrUnbalanced, p.pos(offset), "unterminated list literal")
	}
	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return &Element{Kind: ElemList}, nil
	}
	pieces := splitTopLevel(inner, ',')
	els := make([]*Element, 0, len(pieces))
	for _, piece := range pieces {
		el, err := p.parseElement(piece, offset)
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	return &Element{Kind: ElemList, List: els}, nil
}

func (p *parser) parseMapElement(s string, offset int) (*Element, error) {
	j, err := bracketEndCurly(s, 0, '{', '}')
	if err != nil || j != len(s)-1 {
		return nil, token.NewErr(token.ErrUnbalanced, p.pos(offset), "unterminated map literal")
	}
	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return &Element{Kind: ElemMap}, nil
	}
	pieces := splitTopLevel(inner, ',')
	entries := make([]MapEntry, 0, len(pieces))
	for _, piece := range pieces {
		k, v, ok := strings.Cut(piece, ":")
		if !ok {
			return nil, token.NewErr(token.ErrUnexpectedChar, p.pos(offset), "map entry %q missing ':'", piece)
		}
		val, err := p.parseElement(v, offset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: strings.TrimSpace(k), Value: val})
	}
	return &Element{Kind: ElemMap, Map: entries}, nil
}

func bracketEndCurly(s string, i int, open, close byte) (int, error) {
	depth := 0
	n := len(s)
	for ; i < n; i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'', '"':
			j, err := skipQuote(s, i)
			if err != nil {
				return 0, err
			}
			i = j - 1
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, token.ErrUnbalanced
}

// topLevelIndex returns the index of the first occurrence of c that is not
// nested inside {}, [], (), or a quoted string, or -1.
func topLevelIndex(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'', '"':
			if j, err := skipQuote(s, i); err == nil {
				i = j - 1
			}
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if s[i] == c && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on c, ignoring occurrences nested inside brackets
// or quotes (spec.md §4.2 "comma-separated argument list").
func splitTopLevel(s string, c byte) []string {
	var pieces []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'', '"':
			if j, err := skipQuote(s, i); err == nil {
				i = j - 1
			}
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if s[i] == c && depth == 0 {
				pieces = append(pieces, s[start:i])
				start = i + 1
			}
		}
	}
	pieces = append(pieces, s[start:])
	return pieces
}

// ParseElement is the exported entry point for parsing one Element out of
// context (spec.md §4.2's "Element" production, also used when decoding a
// resolver argument that was supplied as a raw string, e.g. by
// string-decode).
func ParseElement(src string) (*Element, error) {
	p := &parser{src: src, doc: token.NewPosDoc([]byte(src))}
	return p.parseElement(src, 0)
}
