// Package parse builds the interpolation grammar's AST (spec.md §4.2) from
// raw scalar text: a Text is a sequence of Literal/NodeRef/ResolverCall
// fragments, and an Element is the primitive/quoted/list/map sub-grammar
// used for resolver arguments and inline container literals. The lexical
// primitives (escape decoding, balanced-bracket and quote scanning, byte
// offsets for diagnostics) live in the sibling token package, the way the
// teacher splits "parse" from "token".
package parse

// Text is the parsed form of one scalar's interpolation-bearing string
// (spec.md §4.2 "Text" production).
type Text struct {
	Fragments []Fragment
}

// SingleExpr reports whether t is exactly one top-level interpolation with
// no surrounding literal text, in which case evaluation preserves the
// referent's type instead of stringifying it (spec.md §4.2, §4.4).
func (t *Text) SingleExpr() bool {
	if len(t.Fragments) != 1 {
		return false
	}
	switch t.Fragments[0].(type) {
	case *NodeRef, *ResolverCall:
		return true
	default:
		return false
	}
}

// Fragment is one piece of a Text: *Literal, *NodeRef, or *ResolverCall.
type Fragment any

// Literal is plain text (already escape-decoded).
type Literal struct {
	Value string
}

// Segment is one step of a NodeRef's path: a literal field/index name, or a
// bracketed dynamic key that is itself an interpolation-bearing Text
// (spec.md §4.2 "Bracket segments may contain nested interpolations").
type Segment struct {
	Field   *string
	Index   *int
	Dynamic *Text
}

// NodeRef is a reference to another node in the tree, relative or absolute
// (spec.md §4.2, §4.4).
type NodeRef struct {
	Absolute bool
	RelDepth int // number of leading dots, meaningful only when !Absolute
	Segments []Segment
}

// NamePart is one dot-separated piece of a resolver call's name: a literal
// identifier, or a nested interpolation that is evaluated to produce the
// identifier dynamically (spec.md §4.2 "dynamic resolver selection").
type NamePart struct {
	Literal *string
	Dynamic *Text
}

// ResolverCall is `${name:arg,arg,...}` (spec.md §4.2, §4.3).
type ResolverCall struct {
	NameParts      []NamePart
	Args           []*Arg
	TrailingEmpty  bool // true for the deprecated "${f:a,}" form
}

// Arg is one resolver-call argument: either a bare interpolation
// (Interp != nil) or an Element (spec.md §4.2 "An argument is an Element or
// another interpolation").
type Arg struct {
	Interp  Fragment // *NodeRef or *ResolverCall, when the whole (trimmed) arg is one interpolation
	Element *Element
}

type ElementKind int

const (
	ElemPrimitive ElementKind = iota
	ElemQuoted
	ElemList
	ElemMap
)

// Element is the sub-grammar used for resolver arguments and inline
// container literals (spec.md §4.2 "Element" production).
type Element struct {
	Kind ElementKind

	// ElemPrimitive: raw trimmed text, e.g. "null", "true", "42", "bare".
	Primitive string

	// ElemQuoted: the quoted string's content, itself interpolation-bearing.
	Quoted *Text
	// Quote records which quote style opened the string ('\'' or '"'),
	// since both are accepted and preserve embedded interpolations.
	Quote byte

	// ElemList: element-by-element.
	List []*Element

	// ElemMap: entries in source order.
	Map []MapEntry
}

type MapEntry struct {
	Key   string
	Value *Element
}
