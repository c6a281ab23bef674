package glsl

import (
	"errors"
	"fmt"
)

// LayoutErrorKind enumerates layout query failures. Both kinds are
// programmer errors: the caller asked for something the rules do not define.
type LayoutErrorKind uint8

const (
	// LayoutErrUnsupportedType indicates a type without a defined layout,
	// or an aggregate that cannot be evaluated (empty, recursive).
	LayoutErrUnsupportedType LayoutErrorKind = iota + 1
	// LayoutErrInvalidRule indicates a Rule outside the three defined sets.
	LayoutErrInvalidRule
)

var (
	// ErrUnsupportedType matches every LayoutError of kind LayoutErrUnsupportedType.
	ErrUnsupportedType = errors.New("glsl: unsupported type")
	// ErrInvalidLayoutRule matches every LayoutError of kind LayoutErrInvalidRule.
	ErrInvalidLayoutRule = errors.New("glsl: invalid layout rule")
)

// LayoutError represents a failed layout query.
type LayoutError struct {
	Kind   LayoutErrorKind
	Type   Type
	Rule   Rule
	Detail string
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrUnsupportedType:
		if e.Detail != "" {
			return fmt.Sprintf("glsl: unsupported type: %s", e.Detail)
		}
		return fmt.Sprintf("glsl: layout is not defined for glsl type %q (%d)", e.Type, uint32(e.Type))
	case LayoutErrInvalidRule:
		return fmt.Sprintf("glsl: invalid memory layout rule %d", uint8(e.Rule))
	default:
		return fmt.Sprintf("glsl: layout error kind=%d type=%d", e.Kind, uint32(e.Type))
	}
}

// Is lets errors.Is match the package sentinels.
func (e *LayoutError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrUnsupportedType:
		return e.Kind == LayoutErrUnsupportedType
	case ErrInvalidLayoutRule:
		return e.Kind == LayoutErrInvalidRule
	}
	return false
}

func unsupportedType(t Type) *LayoutError {
	return &LayoutError{Kind: LayoutErrUnsupportedType, Type: t}
}

func unsupportedf(format string, args ...any) *LayoutError {
	return &LayoutError{Kind: LayoutErrUnsupportedType, Detail: fmt.Sprintf(format, args...)}
}

func invalidRule(r Rule) *LayoutError {
	return &LayoutError{Kind: LayoutErrInvalidRule, Rule: r}
}
