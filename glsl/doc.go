// Package glsl computes memory layout metadata for GLSL data types.
//
// Three rule sets are supported, matching the interface block layouts
// shaders declare:
//
//   - RuleScalar: every member aligns to its component width.
//   - RuleBase (std430): 2-wide vectors align to twice the component
//     width, 3- and 4-wide vectors and matrices to four times.
//   - RuleExtended (std140): Base, with arrays and structs additionally
//     rounded to 16 bytes.
//
// # Queries
//
//	align, err := glsl.AlignOf(glsl.Vec4, glsl.RuleBase, false) // 16
//	size, err := glsl.SizeOf(glsl.Mat3, glsl.RuleBase)          // 36
//
//	align, err := glsl.AlignOfStruct(glsl.Traits(
//	    glsl.MemberOf(glsl.Float),
//	    glsl.MemberOf(glsl.Vec3),
//	), glsl.RuleExtended) // 16
//
// Nested aggregates are fed back as explicit traits:
//
//	inner, _ := glsl.AlignOfStruct(innerMembers, rule)
//	outer, _ := glsl.AlignOfStruct(glsl.Traits(glsl.Nested(inner, innerSize), ...), rule)
//
// LayoutStruct does the whole walk for a StructDef and also reports member
// offsets and array strides.
//
// # Errors
//
// Asking for the layout of an opaque type, of Undefined, of an empty
// struct or under an unknown Rule is a programming error. Functions return
// a *LayoutError matching ErrUnsupportedType or ErrInvalidLayoutRule; the
// Must variants panic with it instead. WireFormatOf never fails and
// returns FormatUndefined for types without a format.
//
// Every function in this package is pure and safe for concurrent use.
package glsl
