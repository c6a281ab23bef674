package glsl

import (
	"iter"
	"slices"
)

// Trait describes one member of an aggregate.
//
// When Type is not Undefined the member's layout comes from the type table
// (with IsArray selecting the array-element alignment) and Align/Size are
// ignored. When Type is Undefined, Align and Size describe a nested
// aggregate whose layout was computed separately.
type Trait struct {
	Type    Type
	IsArray bool
	Align   uint32
	Size    uint32
}

// MemberOf returns the trait of a plain member of type t.
func MemberOf(t Type) Trait { return Trait{Type: t} }

// ArrayOf returns the trait of an array member with element type t.
func ArrayOf(t Type) Trait { return Trait{Type: t, IsArray: true} }

// Nested returns the trait of a member whose layout is already known,
// typically a nested struct evaluated with AlignOfStruct.
func Nested(align, size uint32) Trait { return Trait{Align: align, Size: size} }

// Traits adapts a slice to the sequence form AlignOfStruct consumes.
func Traits(ts ...Trait) iter.Seq[Trait] {
	return slices.Values(ts)
}

// align resolves the member alignment for rule.
func (tr Trait) align(rule Rule) (uint32, error) {
	if tr.Type == Undefined {
		if tr.Align == 0 {
			return 0, unsupportedf("member has neither a glsl type nor an explicit alignment")
		}
		return tr.Align, nil
	}
	return AlignOf(tr.Type, rule, tr.IsArray)
}

// AlignOfStruct returns the alignment of a struct whose members are
// produced by members. The alignment is the largest member alignment;
// under RuleExtended it is rounded up to a multiple of 16.
//
// members is consumed once and not retained. An empty sequence is an error.
func AlignOfStruct(members iter.Seq[Trait], rule Rule) (uint32, error) {
	if !rule.Valid() {
		return 0, invalidRule(rule)
	}
	if members == nil {
		return 0, unsupportedf("empty struct")
	}
	var (
		maxAlign uint32
		count    int
		err      error
	)
	for tr := range members {
		count++
		var a uint32
		a, err = tr.align(rule)
		if err != nil {
			break
		}
		maxAlign = max(maxAlign, a)
	}
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, unsupportedf("empty struct")
	}
	if rule == RuleExtended {
		return roundUp(maxAlign, extendedArrayAlign), nil
	}
	return maxAlign, nil
}

// MustAlignOfStruct is like AlignOfStruct but panics with a *LayoutError.
func MustAlignOfStruct(members iter.Seq[Trait], rule Rule) uint32 {
	align, err := AlignOfStruct(members, rule)
	if err != nil {
		panic(err)
	}
	return align
}
