package glsl

// extendedArrayAlign is the std140 array and struct rounding unit.
const extendedArrayAlign = 16

// AlignOf returns the alignment in bytes of t under rule.
//
// isArrayElement only matters for RuleExtended, where a scalar used as an
// array element is aligned to 16. Vectors and matrices keep their base
// alignment at this level; 16-byte rounding of whole arrays and structs
// happens in AlignOfStruct and LayoutStruct.
func AlignOf(t Type, rule Rule, isArrayElement bool) (uint32, error) {
	info, ok := typeTable[t]
	if !ok {
		return 0, unsupportedType(t)
	}
	switch rule {
	case RuleScalar:
		// A vector or matrix has the scalar alignment of its component.
		return info.width, nil
	case RuleBase:
		return baseAlign(info), nil
	case RuleExtended:
		align := baseAlign(info)
		if isArrayElement && info.comps == 1 && info.cols == 0 {
			align = max(align, extendedArrayAlign)
		}
		return align, nil
	default:
		return 0, invalidRule(rule)
	}
}

// baseAlign scales the component width by the vector arity bucket:
// scalars 1x, 2-wide 2x, 3 and 4-wide 4x. Matrices use their column vector.
func baseAlign(info typeInfo) uint32 {
	switch info.comps {
	case 1:
		return info.width
	case 2:
		return 2 * info.width
	default:
		return 4 * info.width
	}
}

// SizeOf returns the size in bytes of t. Sizes are tight (vec3 is 12
// bytes) and do not depend on the rule; rule is still validated.
func SizeOf(t Type, rule Rule) (uint32, error) {
	info, ok := typeTable[t]
	if !ok {
		return 0, unsupportedType(t)
	}
	if !rule.Valid() {
		return 0, invalidRule(rule)
	}
	return sizeOf(info), nil
}

func sizeOf(info typeInfo) uint32 {
	return info.width * info.comps * max(info.cols, 1)
}

// MustAlignOf is like AlignOf but panics with a *LayoutError on failure.
func MustAlignOf(t Type, rule Rule, isArrayElement bool) uint32 {
	align, err := AlignOf(t, rule, isArrayElement)
	if err != nil {
		panic(err)
	}
	return align
}

// MustSizeOf is like SizeOf but panics with a *LayoutError on failure.
func MustSizeOf(t Type, rule Rule) uint32 {
	size, err := SizeOf(t, rule)
	if err != nil {
		panic(err)
	}
	return size
}

func roundUp(n, align uint32) uint32 {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func roundUp64(n uint64, align uint32) uint64 {
	if align <= 1 {
		return n
	}
	a := uint64(align)
	return (n + a - 1) / a * a
}
