package glsl_test

import (
	"errors"
	"iter"
	"testing"

	"glsllayout/glsl"
)

func TestAlignOfStruct_Scenarios(t *testing.T) {
	cases := []struct {
		name    string
		members []glsl.Trait
		rule    glsl.Rule
		want    uint32
	}{
		{"float+vec3 std140", []glsl.Trait{glsl.MemberOf(glsl.Float), glsl.MemberOf(glsl.Vec3)}, glsl.RuleExtended, 16},
		{"float+vec4 std430", []glsl.Trait{glsl.MemberOf(glsl.Float), glsl.MemberOf(glsl.Vec4)}, glsl.RuleBase, 16},
		{"float+vec4 scalar", []glsl.Trait{glsl.MemberOf(glsl.Float), glsl.MemberOf(glsl.Vec4)}, glsl.RuleScalar, 4},
		{"float only std140 rounds up", []glsl.Trait{glsl.MemberOf(glsl.Float)}, glsl.RuleExtended, 16},
		{"float only std430", []glsl.Trait{glsl.MemberOf(glsl.Float)}, glsl.RuleBase, 4},
		{"float array std430", []glsl.Trait{glsl.ArrayOf(glsl.Float)}, glsl.RuleBase, 4},
		{"float array std140", []glsl.Trait{glsl.ArrayOf(glsl.Float)}, glsl.RuleExtended, 16},
		{"vec2 std430", []glsl.Trait{glsl.MemberOf(glsl.Vec2), glsl.MemberOf(glsl.Int)}, glsl.RuleBase, 8},
		{"dvec3 std140", []glsl.Trait{glsl.MemberOf(glsl.DVec3)}, glsl.RuleExtended, 32},
		{"nested explicit", []glsl.Trait{glsl.Nested(32, 64), glsl.MemberOf(glsl.Float)}, glsl.RuleBase, 32},
		{"nested explicit std140", []glsl.Trait{glsl.Nested(8, 8)}, glsl.RuleExtended, 16},
		{"explicit ignored for typed member", []glsl.Trait{{Type: glsl.Float, Align: 64, Size: 64}}, glsl.RuleBase, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := glsl.AlignOfStruct(glsl.Traits(tc.members...), tc.rule)
			if err != nil {
				t.Fatalf("AlignOfStruct error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("AlignOfStruct = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAlignOfStruct_ExtendedMultipleOf16(t *testing.T) {
	for _, a := range glsl.ValueTypes() {
		for _, b := range glsl.ValueTypes() {
			for _, arr := range []bool{false, true} {
				got, err := glsl.AlignOfStruct(glsl.Traits(glsl.MemberOf(a), glsl.Trait{Type: b, IsArray: arr}), glsl.RuleExtended)
				if err != nil {
					t.Fatalf("AlignOfStruct(%s, %s) error: %v", a, b, err)
				}
				if got == 0 || got%16 != 0 {
					t.Fatalf("AlignOfStruct(%s, %s, array=%v) = %d, not a multiple of 16", a, b, arr, got)
				}
			}
		}
	}
}

func TestAlignOfStruct_MaxUnderScalarAndBase(t *testing.T) {
	for _, rule := range []glsl.Rule{glsl.RuleScalar, glsl.RuleBase} {
		for _, a := range glsl.ValueTypes() {
			for _, b := range glsl.ValueTypes() {
				got := glsl.MustAlignOfStruct(glsl.Traits(glsl.MemberOf(a), glsl.ArrayOf(b)), rule)
				want := max(glsl.MustAlignOf(a, rule, false), glsl.MustAlignOf(b, rule, true))
				if got != want {
					t.Fatalf("%s: AlignOfStruct(%s, %s[]) = %d, want %d", rule, a, b, got, want)
				}
			}
		}
	}
}

func TestAlignOfStruct_Empty(t *testing.T) {
	for _, rule := range glsl.Rules() {
		_, err := glsl.AlignOfStruct(glsl.Traits(), rule)
		if !errors.Is(err, glsl.ErrUnsupportedType) {
			t.Fatalf("empty struct error = %v, want ErrUnsupportedType", err)
		}
		_, err = glsl.AlignOfStruct(nil, rule)
		if !errors.Is(err, glsl.ErrUnsupportedType) {
			t.Fatalf("nil sequence error = %v, want ErrUnsupportedType", err)
		}
	}
}

func TestAlignOfStruct_BadMembers(t *testing.T) {
	cases := []struct {
		name    string
		members []glsl.Trait
		rule    glsl.Rule
		want    error
	}{
		{"opaque", []glsl.Trait{glsl.MemberOf(glsl.Sampler2D)}, glsl.RuleBase, glsl.ErrUnsupportedType},
		{"undefined without align", []glsl.Trait{{}}, glsl.RuleBase, glsl.ErrUnsupportedType},
		{"invalid rule", []glsl.Trait{glsl.MemberOf(glsl.Vec4)}, glsl.Rule(5), glsl.ErrInvalidLayoutRule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := glsl.AlignOfStruct(glsl.Traits(tc.members...), tc.rule)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

// memberTable stores members column-wise, the way a reflection database
// might; it exposes them as a sequence without copying into []Trait.
type memberTable struct {
	types  []glsl.Type
	arrays []bool
}

func (m memberTable) All() iter.Seq[glsl.Trait] {
	return func(yield func(glsl.Trait) bool) {
		for i, typ := range m.types {
			if !yield(glsl.Trait{Type: typ, IsArray: m.arrays[i]}) {
				return
			}
		}
	}
}

func TestAlignOfStruct_CustomSource(t *testing.T) {
	table := memberTable{
		types:  []glsl.Type{glsl.Float, glsl.Vec2, glsl.Int},
		arrays: []bool{true, false, false},
	}
	got, err := glsl.AlignOfStruct(table.All(), glsl.RuleBase)
	if err != nil {
		t.Fatalf("AlignOfStruct error: %v", err)
	}
	if got != 8 {
		t.Fatalf("AlignOfStruct = %d, want 8", got)
	}
}

func TestAlignOfStruct_StopsOnError(t *testing.T) {
	visited := 0
	seq := func(yield func(glsl.Trait) bool) {
		for _, typ := range []glsl.Type{glsl.Float, glsl.Block, glsl.Vec4} {
			visited++
			if !yield(glsl.MemberOf(typ)) {
				return
			}
		}
	}
	if _, err := glsl.AlignOfStruct(seq, glsl.RuleBase); !errors.Is(err, glsl.ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
	if visited != 2 {
		t.Fatalf("visited %d members, want 2", visited)
	}
}

func TestAlignOfStruct_NestedComposition(t *testing.T) {
	inner := glsl.Traits(glsl.MemberOf(glsl.Vec3), glsl.MemberOf(glsl.Float))
	innerAlign := glsl.MustAlignOfStruct(inner, glsl.RuleExtended)
	if innerAlign != 16 {
		t.Fatalf("inner align = %d, want 16", innerAlign)
	}
	outer := glsl.Traits(glsl.MemberOf(glsl.Float), glsl.Nested(innerAlign, 16))
	if got := glsl.MustAlignOfStruct(outer, glsl.RuleExtended); got != 16 {
		t.Fatalf("outer align = %d, want 16", got)
	}
}
