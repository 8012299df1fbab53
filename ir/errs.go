package ir

import (
	"errors"
	"fmt"
)

// Sentinel families. Every concrete error below wraps one of these, and the
// interpolation specializations also wrap ErrInterpolationResolution, so
// that callers can catch broadly with errors.Is, following spec.md §6.4.
var (
	ErrConfigKey                   = errors.New("config key error")
	ErrConfigAttribute              = errors.New("config attribute error")
	ErrConfigType                   = errors.New("config type error")
	ErrValidation                   = errors.New("validation error")
	ErrReadonlyConfig                = errors.New("readonly config error")
	ErrMissingMandatoryValue         = errors.New("missing mandatory value")
	ErrUnsupportedInterpolationType  = errors.New("unsupported interpolation type")
	ErrInterpolationResolution       = errors.New("interpolation resolution error")
	ErrInterpolationKey              = errors.New("interpolation key error")
	ErrInterpolationValidation       = errors.New("interpolation validation error")
	ErrInterpolationToMissingValue   = errors.New("interpolation resolved to a missing value")
	ErrGrammarParse                  = errors.New("grammar parse error")
	ErrInterpolationCycle            = errors.New("interpolation cycle")
	ErrUnterminatedQuote             = errors.New("unterminated quoted path segment")
)

// PathError is embedded by every error in the taxonomy. It carries the full
// path from root, the node's object kind, and its declared type hint, the
// way ir.Node.Path() and token.Pos travel with the teacher's errors.
type PathError struct {
	Path     string
	Kind     Type // object kind: MapType, ListType, or a scalar Type
	Declared Type // declared type hint, when applicable
	Msg      string
	Wrapped  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *PathError) Unwrap() error { return e.Wrapped }

func newPathErr(sentinel error, node *Node, msg string, args ...any) *PathError {
	e := &PathError{
		Msg:     fmt.Sprintf(msg, args...),
		Wrapped: sentinel,
	}
	if node != nil {
		e.Path = node.Path()
		e.Kind = node.Type
		e.Declared = node.Declared
	}
	return e
}

// KeyError reports a structural absence: a map key that does not exist, or
// a list index out of range, surfaced through a low-level accessor that does
// not fall back to a default.
type KeyError struct{ *PathError }

func NewKeyError(node *Node, msg string, args ...any) *KeyError {
	return &KeyError{newPathErr(ErrConfigKey, node, msg, args...)}
}

// AttributeError reports a struct-mode violation: an attempt to add or
// remove a field on a container whose struct flag is true.
type AttributeError struct{ *PathError }

func NewAttributeError(node *Node, msg string, args ...any) *AttributeError {
	return &AttributeError{newPathErr(ErrConfigAttribute, node, msg, args...)}
}

// TypeError reports an operation applied to the wrong object kind, e.g.
// indexing a scalar or treating a list as a map.
type TypeError struct{ *PathError }

func NewTypeError(node *Node, msg string, args ...any) *TypeError {
	return &TypeError{newPathErr(ErrConfigType, node, msg, args...)}
}

// ValidationError reports a coercion or schema-binding failure. It always
// carries the offending raw value so the message names both the declared
// type and what was actually supplied (spec.md §4.1).
type ValidationError struct {
	*PathError
	RawValue any
}

func NewValidationError(node *Node, raw any, msg string, args ...any) *ValidationError {
	return &ValidationError{
		PathError: newPathErr(ErrValidation, node, msg, args...),
		RawValue:  raw,
	}
}

// ReadonlyError reports a mutation attempted on a read-only subtree.
type ReadonlyError struct{ *PathError }

func NewReadonlyError(node *Node) *ReadonlyError {
	return &ReadonlyError{newPathErr(ErrReadonlyConfig, node, "%s is read-only", pathOrRoot(node))}
}

// MissingMandatoryValueError reports a MISSING scalar read through a strict
// typed accessor.
type MissingMandatoryValueError struct{ *PathError }

func NewMissingMandatoryValueError(node *Node) *MissingMandatoryValueError {
	return &MissingMandatoryValueError{newPathErr(ErrMissingMandatoryValue, node, "%s is not set (MISSING)", pathOrRoot(node))}
}

// UnsupportedInterpolationTypeError reports an interpolation used where the
// enclosing declared type cannot represent a resolved container result.
type UnsupportedInterpolationTypeError struct{ *PathError }

func NewUnsupportedInterpolationTypeError(node *Node, msg string, args ...any) *UnsupportedInterpolationTypeError {
	return &UnsupportedInterpolationTypeError{newPathErr(ErrUnsupportedInterpolationType, node, msg, args...)}
}

// InterpolationResolutionError is the umbrella for every evaluator failure;
// specializations below also satisfy errors.Is(err, ErrInterpolationResolution).
type InterpolationResolutionError struct{ *PathError }

func NewInterpolationResolutionError(node *Node, msg string, args ...any) *InterpolationResolutionError {
	return &InterpolationResolutionError{newPathErr(ErrInterpolationResolution, node, msg, args...)}
}

func (e *InterpolationResolutionError) Unwrap() error { return e.PathError }

type InterpolationKeyError struct{ *InterpolationResolutionError }

func NewInterpolationKeyError(node *Node, msg string, args ...any) *InterpolationKeyError {
	base := NewInterpolationResolutionError(node, msg, args...)
	base.Wrapped = joinErrs(ErrInterpolationKey, ErrInterpolationResolution)
	return &InterpolationKeyError{base}
}

type InterpolationValidationError struct{ *InterpolationResolutionError }

func NewInterpolationValidationError(node *Node, msg string, args ...any) *InterpolationValidationError {
	base := NewInterpolationResolutionError(node, msg, args...)
	base.Wrapped = joinErrs(ErrInterpolationValidation, ErrInterpolationResolution)
	return &InterpolationValidationError{base}
}

type InterpolationToMissingValueError struct{ *InterpolationResolutionError }

func NewInterpolationToMissingValueError(node *Node, msg string, args ...any) *InterpolationToMissingValueError {
	base := NewInterpolationResolutionError(node, msg, args...)
	base.Wrapped = joinErrs(ErrInterpolationToMissingValue, ErrInterpolationResolution)
	return &InterpolationToMissingValueError{base}
}

// InterpolationCycleError reports a reference cycle discovered while
// resolving an interpolation chain (spec.md §4.4 "cycle detection").
type InterpolationCycleError struct{ *InterpolationResolutionError }

func NewInterpolationCycleError(node *Node, msg string, args ...any) *InterpolationCycleError {
	base := NewInterpolationResolutionError(node, msg, args...)
	base.Wrapped = joinErrs(ErrInterpolationCycle, ErrInterpolationResolution)
	return &InterpolationCycleError{base}
}

// GrammarParseError reports a lexer or parser failure, with a byte offset
// into the interpolation-bearing text (spec.md §4.2).
type GrammarParseError struct {
	*InterpolationResolutionError
	Offset int
}

func NewGrammarParseError(node *Node, offset int, msg string, args ...any) *GrammarParseError {
	base := NewInterpolationResolutionError(node, msg, args...)
	base.Wrapped = joinErrs(ErrGrammarParse, ErrInterpolationResolution)
	return &GrammarParseError{InterpolationResolutionError: base, Offset: offset}
}

func (e *GrammarParseError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.InterpolationResolutionError.Error(), e.Offset)
}

func pathOrRoot(node *Node) string {
	if node == nil {
		return "$"
	}
	return node.Path()
}

// joinErrs lets errors.Is match any of the given sentinels against a single
// Unwrap chain link, without pulling in golang.org/x/exp or a custom tree.
func joinErrs(errs ...error) error {
	return &multiErr{errs}
}

type multiErr struct{ errs []error }

func (m *multiErr) Error() string {
	s := ""
	for i, e := range m.errs {
		if i > 0 {
			s += "; "
		}
		s += e.Error()
	}
	return s
}

func (m *multiErr) Unwrap() []error { return m.errs }
