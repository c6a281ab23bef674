package glsl

import (
	"fmt"
	"iter"
	"math"
	"strings"
)

// StructDef describes a user-defined aggregate.
type StructDef struct {
	Name    string
	Members []MemberDef
}

// MemberDef is one member of a StructDef. Exactly one of Type and Struct
// is set. ArrayLen > 0 makes the member a fixed-size array.
type MemberDef struct {
	Name     string
	Type     Type
	Struct   *StructDef
	ArrayLen uint32
}

// StructLayout is the evaluated layout of a StructDef under one rule.
type StructLayout struct {
	Name    string
	Rule    Rule
	Align   uint32
	Size    uint32
	Members []MemberLayout
}

// MemberLayout is the placement of one member inside its struct.
//
// For arrays Align is the alignment of the whole array (rounded to 16
// under std140), Size covers all elements and ArrayStride is the distance
// between consecutive elements. Matrix members report their padded
// footprint (see FootprintOf), not the tight SizeOf value.
type MemberLayout struct {
	Name        string
	Type        Type
	Struct      *StructLayout
	Offset      uint32
	Align       uint32
	Size        uint32
	ArrayLen    uint32
	ArrayStride uint32
}

// Trait returns the trait that describes this member to AlignOfStruct.
func (m MemberLayout) Trait() Trait {
	if m.Struct != nil || m.Type == Undefined {
		return Nested(m.Align, m.Size)
	}
	if m.ArrayLen > 0 {
		return ArrayOf(m.Type)
	}
	return MemberOf(m.Type)
}

// Trait returns the struct as a nested member trait.
func (l *StructLayout) Trait() Trait {
	return Nested(l.Align, l.Size)
}

// Traits yields the member traits in declaration order.
func (l *StructLayout) Traits() iter.Seq[Trait] {
	return func(yield func(Trait) bool) {
		for _, m := range l.Members {
			if !yield(m.Trait()) {
				return
			}
		}
	}
}

// Member looks a member up by name.
func (l *StructLayout) Member(name string) (MemberLayout, bool) {
	for _, m := range l.Members {
		if m.Name == name {
			return m, true
		}
	}
	return MemberLayout{}, false
}

// FootprintOf returns the alignment of t and the bytes it occupies as a
// struct member or array element under rule. Only matrices differ from
// AlignOf and SizeOf: a matrix is placed as an array of column vectors,
// each padded to the column alignment, which std140 rounds up to 16. The
// scalar rule packs columns tightly.
func FootprintOf(t Type, rule Rule, isArrayElement bool) (align, size uint32, err error) {
	if align, err = AlignOf(t, rule, isArrayElement); err != nil {
		return 0, 0, err
	}
	info := typeTable[t]
	if info.cols == 0 {
		return align, sizeOf(info), nil
	}
	if rule == RuleExtended {
		align = roundUp(align, extendedArrayAlign)
	}
	return align, info.cols * roundUp(info.width*info.comps, align), nil
}

type layoutState struct {
	stack []*StructDef
	index map[*StructDef]int
}

// LayoutStruct places every member of def under rule and returns the
// resulting offsets, alignment and padded size. Nested struct members are
// evaluated recursively and enter the aggregation as Nested traits.
func LayoutStruct(def *StructDef, rule Rule) (*StructLayout, error) {
	if !rule.Valid() {
		return nil, invalidRule(rule)
	}
	state := &layoutState{index: make(map[*StructDef]int, 8)}
	return state.layout(def, rule)
}

func (s *layoutState) layout(def *StructDef, rule Rule) (*StructLayout, error) {
	if def == nil {
		return nil, unsupportedf("nil struct definition")
	}
	if idx, ok := s.index[def]; ok {
		names := make([]string, 0, len(s.stack)-idx+1)
		for _, d := range s.stack[idx:] {
			names = append(names, d.Name)
		}
		names = append(names, def.Name)
		return nil, unsupportedf("recursive struct (cycle: %s)", strings.Join(names, " -> "))
	}
	if len(def.Members) == 0 {
		return nil, unsupportedf("empty struct %q", def.Name)
	}

	s.index[def] = len(s.stack)
	s.stack = append(s.stack, def)
	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
		delete(s.index, def)
	}()

	members := make([]MemberLayout, len(def.Members))
	for i := range def.Members {
		ml, err := s.member(&def.Members[i], rule)
		if err != nil {
			return nil, fmt.Errorf("struct %q member %q: %w", def.Name, def.Members[i].Name, err)
		}
		members[i] = ml
	}

	out := &StructLayout{Name: def.Name, Rule: rule, Members: members}
	align, err := AlignOfStruct(out.Traits(), rule)
	if err != nil {
		return nil, fmt.Errorf("struct %q: %w", def.Name, err)
	}

	var offset uint64
	for i := range members {
		offset = roundUp64(offset, members[i].Align)
		members[i].Offset = uint32(offset)
		offset += uint64(members[i].Size)
		if offset > math.MaxUint32 {
			return nil, unsupportedf("struct %q exceeds 4 GiB", def.Name)
		}
	}
	size := roundUp64(offset, align)
	if size > math.MaxUint32 {
		return nil, unsupportedf("struct %q exceeds 4 GiB", def.Name)
	}
	out.Align = align
	out.Size = uint32(size)
	return out, nil
}

func (s *layoutState) member(m *MemberDef, rule Rule) (MemberLayout, error) {
	ml := MemberLayout{Name: m.Name, Type: m.Type, ArrayLen: m.ArrayLen}

	var elemAlign, elemSize uint32
	switch {
	case m.Struct != nil && m.Type != Undefined:
		return ml, unsupportedf("member sets both type %q and struct %q", m.Type, m.Struct.Name)
	case m.Struct != nil:
		nested, err := s.layout(m.Struct, rule)
		if err != nil {
			return ml, err
		}
		ml.Struct = nested
		elemAlign, elemSize = nested.Align, nested.Size
	default:
		a, size, err := FootprintOf(m.Type, rule, m.ArrayLen > 0)
		if err != nil {
			return ml, err
		}
		elemAlign, elemSize = a, size
	}

	if m.ArrayLen == 0 {
		ml.Align, ml.Size = elemAlign, elemSize
		return ml, nil
	}

	arrayAlign := elemAlign
	if rule == RuleExtended {
		arrayAlign = roundUp(arrayAlign, extendedArrayAlign)
	}
	stride := roundUp(elemSize, arrayAlign)
	total := uint64(stride) * uint64(m.ArrayLen)
	if total > math.MaxUint32 {
		return ml, unsupportedf("array of %d elements exceeds 4 GiB", m.ArrayLen)
	}
	ml.Align = arrayAlign
	ml.ArrayStride = stride
	ml.Size = uint32(total)
	return ml, nil
}
