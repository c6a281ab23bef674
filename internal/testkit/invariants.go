// Package testkit holds checks shared by tests across packages.
package testkit

import (
	"fmt"
	"math/bits"

	"fortio.org/safecast"

	"glsllayout/glsl"
)

// CheckLayoutInvariants verifies a computed struct layout and every nested
// layout below it:
//  1. struct alignment is a power of two, at least every member's, and a
//     multiple of 16 under std140
//  2. struct size is a non-zero multiple of its alignment
//  3. members are aligned, in declaration order and do not overlap
//  4. array members span ArrayLen strides and each stride fits an element
func CheckLayoutInvariants(l *glsl.StructLayout) error {
	if l == nil {
		return fmt.Errorf("nil layout")
	}
	if l.Align == 0 || bits.OnesCount32(l.Align) != 1 {
		return fmt.Errorf("%s: alignment %d is not a power of two", l.Name, l.Align)
	}
	if l.Rule == glsl.RuleExtended && l.Align%16 != 0 {
		return fmt.Errorf("%s: std140 alignment %d is not a multiple of 16", l.Name, l.Align)
	}
	if l.Size == 0 || l.Size%l.Align != 0 {
		return fmt.Errorf("%s: size %d is not a non-zero multiple of alignment %d", l.Name, l.Size, l.Align)
	}
	if len(l.Members) == 0 {
		return fmt.Errorf("%s: no members", l.Name)
	}

	var end uint64
	for i, m := range l.Members {
		where := fmt.Sprintf("%s.%s", l.Name, m.Name)
		if m.Align == 0 || m.Offset%m.Align != 0 {
			return fmt.Errorf("%s: offset %d is not aligned to %d", where, m.Offset, m.Align)
		}
		if m.Align > l.Align {
			return fmt.Errorf("%s: alignment %d exceeds struct alignment %d", where, m.Align, l.Align)
		}
		if uint64(m.Offset) < end {
			return fmt.Errorf("%s: offset %d overlaps previous member ending at %d", where, m.Offset, end)
		}
		end = uint64(m.Offset) + uint64(m.Size)
		if _, err := safecast.Conv[uint32](end); err != nil {
			return fmt.Errorf("%s: end overflows: %w", where, err)
		}

		elemSize, err := elementSize(m, l.Rule)
		if err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if m.ArrayLen > 0 {
			if m.ArrayStride < elemSize {
				return fmt.Errorf("%s: stride %d is smaller than element size %d", where, m.ArrayStride, elemSize)
			}
			if uint64(m.Size) != uint64(m.ArrayLen)*uint64(m.ArrayStride) {
				return fmt.Errorf("%s: size %d != %d x stride %d", where, m.Size, m.ArrayLen, m.ArrayStride)
			}
		} else {
			if m.ArrayStride != 0 {
				return fmt.Errorf("%s: stride %d on a non-array member", where, m.ArrayStride)
			}
			if m.Size != elemSize {
				return fmt.Errorf("%s: size %d, element size %d", where, m.Size, elemSize)
			}
		}

		if m.Struct != nil {
			if m.Struct.Rule != l.Rule {
				return fmt.Errorf("%s: nested rule %s differs from %s", where, m.Struct.Rule, l.Rule)
			}
			if err := CheckLayoutInvariants(m.Struct); err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
		}
	}
	if end > uint64(l.Size) {
		return fmt.Errorf("%s: members end at %d past size %d", l.Name, end, l.Size)
	}
	return nil
}

func elementSize(m glsl.MemberLayout, rule glsl.Rule) (uint32, error) {
	if m.Struct != nil {
		return m.Struct.Size, nil
	}
	_, size, err := glsl.FootprintOf(m.Type, rule, m.ArrayLen > 0)
	return size, err
}
