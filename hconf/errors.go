package hconf

import "github.com/hconf-go/hconf/ir"

// Re-exported error taxonomy (spec.md §6.4), so callers depend only on
// package hconf rather than reaching into ir directly.
type (
	ConfigKeyError                  = ir.KeyError
	ConfigAttributeError            = ir.AttributeError
	ConfigTypeError                 = ir.TypeError
	ValidationError                 = ir.ValidationError
	ReadonlyConfigError             = ir.ReadonlyError
	MissingMandatoryValueError      = ir.MissingMandatoryValueError
	UnsupportedInterpolationTypeError = ir.UnsupportedInterpolationTypeError
	InterpolationResolutionError    = ir.InterpolationResolutionError
	InterpolationKeyError           = ir.InterpolationKeyError
	InterpolationValidationError    = ir.InterpolationValidationError
	InterpolationToMissingValueError = ir.InterpolationToMissingValueError
	InterpolationCycleError         = ir.InterpolationCycleError
	GrammarParseError               = ir.GrammarParseError
)

var (
	ErrConfigKey                  = ir.ErrConfigKey
	ErrConfigAttribute            = ir.ErrConfigAttribute
	ErrConfigType                 = ir.ErrConfigType
	ErrValidation                 = ir.ErrValidation
	ErrReadonlyConfig             = ir.ErrReadonlyConfig
	ErrMissingMandatoryValue      = ir.ErrMissingMandatoryValue
	ErrUnsupportedInterpolationType = ir.ErrUnsupportedInterpolationType
	ErrInterpolationResolution    = ir.ErrInterpolationResolution
	ErrInterpolationKey           = ir.ErrInterpolationKey
	ErrInterpolationValidation    = ir.ErrInterpolationValidation
	ErrInterpolationToMissingValue = ir.ErrInterpolationToMissingValue
	ErrInterpolationCycle         = ir.ErrInterpolationCycle
	ErrGrammarParse               = ir.ErrGrammarParse
)
