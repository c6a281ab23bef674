package glsl

import (
	"fmt"
	"strings"
)

// Rule selects one of the three interface block layout rule sets.
type Rule uint8

const (
	// RuleScalar aligns every member to its component width.
	RuleScalar Rule = iota
	// RuleBase is std430: 2-wide vectors align to 2x, 3/4-wide to 4x.
	RuleBase
	// RuleExtended is std140: Base plus 16-byte rounding of arrays and structs.
	RuleExtended
)

// Rules returns the three rules in declaration order.
func Rules() []Rule {
	return []Rule{RuleScalar, RuleBase, RuleExtended}
}

// Valid reports whether r is one of the declared rules.
func (r Rule) Valid() bool {
	return r <= RuleExtended
}

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleScalar:
		return "scalar"
	case RuleBase:
		return "std430"
	case RuleExtended:
		return "std140"
	default:
		return fmt.Sprintf("rule(%d)", uint8(r))
	}
}

// ParseRule converts a string to a Rule.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar":
		return RuleScalar, nil
	case "base", "std430":
		return RuleBase, nil
	case "extended", "std140":
		return RuleExtended, nil
	default:
		return RuleScalar, fmt.Errorf("invalid layout rule: %q (expected: scalar|std430|std140)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rule) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, invalidRule(r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rule) UnmarshalText(text []byte) error {
	parsed, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
