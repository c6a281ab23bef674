package blockfile

import (
	"fmt"
	"strings"
)

// ErrorKind classifies block file problems.
type ErrorKind uint8

const (
	// ErrSyntax reports malformed TOML.
	ErrSyntax ErrorKind = iota + 1
	// ErrUnknownKey reports a key the format does not define.
	ErrUnknownKey
	// ErrMissingName reports a struct or member without a name.
	ErrMissingName
	// ErrDuplicate reports a struct or member name used twice.
	ErrDuplicate
	// ErrUnknownType reports a member type that is neither a GLSL type nor
	// an earlier struct.
	ErrUnknownType
	// ErrForwardRef reports a member that names a struct declared later.
	ErrForwardRef
	// ErrOpaqueType reports a sampler, buffer or other resource member.
	ErrOpaqueType
	// ErrArrayLength reports a zero, negative or oversized array length.
	ErrArrayLength
	// ErrEmptyStruct reports a struct without members.
	ErrEmptyStruct
	// ErrBadRule reports an unknown layout rule name.
	ErrBadRule
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax"
	case ErrUnknownKey:
		return "unknown key"
	case ErrMissingName:
		return "missing name"
	case ErrDuplicate:
		return "duplicate"
	case ErrUnknownType:
		return "unknown type"
	case ErrForwardRef:
		return "forward reference"
	case ErrOpaqueType:
		return "opaque type"
	case ErrArrayLength:
		return "array length"
	case ErrEmptyStruct:
		return "empty struct"
	case ErrBadRule:
		return "bad rule"
	default:
		return "unknown"
	}
}

// Error locates a problem in a block file.
type Error struct {
	Kind   ErrorKind
	Path   string
	Struct string
	Member string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Path)
	if e.Struct != "" {
		fmt.Fprintf(&sb, ": struct %q", e.Struct)
	}
	if e.Member != "" {
		fmt.Fprintf(&sb, " member %q", e.Member)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Detail)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind so callers can test with a template:
//
//	errors.Is(err, &blockfile.Error{Kind: blockfile.ErrDuplicate})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Path == "" && t.Struct == "" && t.Member == ""
}
