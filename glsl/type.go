package glsl

import (
	"fmt"
	"strings"
)

// Type identifies a GLSL data type. The numeric values are persisted by
// existing integrations and must never be renumbered.
type Type uint32

const (
	Undefined Type = 0
	U8        Type = 1
	U16       Type = 2
	U32       Type = 3
	U64       Type = 4
	S8        Type = 5
	S16       Type = 6
	S32       Type = 7
	S64       Type = 8
	F32       Type = 9
	F64       Type = 10
	Vec2      Type = 11
	Vec3      Type = 12
	Vec4      Type = 13
	Mat2      Type = 14
	Mat3      Type = 15
	Mat4      Type = 16
	IVec2     Type = 17
	IVec3     Type = 18
	IVec4     Type = 19
	UVec2     Type = 20
	UVec3     Type = 21
	UVec4     Type = 22

	// MaxNonOpaque separates value types from resource kinds. It is a
	// marker, not a type.
	MaxNonOpaque Type = 23

	Block         Type = 24
	UniformBuffer Type = 25
	StorageBuffer Type = 26
	PushConstant  Type = 27
	Sampler2D     Type = 28
	Sampler3D     Type = 29
	SamplerCube   Type = 30
	SubpassInput  Type = 31

	// Double precision vectors and matrices were added after the opaque
	// kinds, so they live above them.
	DVec2 Type = 32
	DVec3 Type = 33
	DVec4 Type = 34
	DMat2 Type = 35
	DMat3 Type = 36
	DMat4 Type = 37

	Float  = F32
	Int    = S32
	UInt   = U32
	Double = F64
)

// ScalarKind is the numeric class of a type's components.
type ScalarKind uint8

const (
	KindNone ScalarKind = iota
	KindUint
	KindSint
	KindFloat
)

// typeInfo is the single source of truth for every size, alignment and
// format derived in this package.
type typeInfo struct {
	name  string
	kind  ScalarKind
	width uint32 // bytes per component
	comps uint32 // components per vector (rows for matrices)
	cols  uint32 // matrix columns, 0 for scalars and vectors
}

var typeTable = map[Type]typeInfo{
	U8:    {name: "uint8_t", kind: KindUint, width: 1, comps: 1},
	U16:   {name: "uint16_t", kind: KindUint, width: 2, comps: 1},
	U32:   {name: "uint", kind: KindUint, width: 4, comps: 1},
	U64:   {name: "uint64_t", kind: KindUint, width: 8, comps: 1},
	S8:    {name: "int8_t", kind: KindSint, width: 1, comps: 1},
	S16:   {name: "int16_t", kind: KindSint, width: 2, comps: 1},
	S32:   {name: "int", kind: KindSint, width: 4, comps: 1},
	S64:   {name: "int64_t", kind: KindSint, width: 8, comps: 1},
	F32:   {name: "float", kind: KindFloat, width: 4, comps: 1},
	F64:   {name: "double", kind: KindFloat, width: 8, comps: 1},
	Vec2:  {name: "vec2", kind: KindFloat, width: 4, comps: 2},
	Vec3:  {name: "vec3", kind: KindFloat, width: 4, comps: 3},
	Vec4:  {name: "vec4", kind: KindFloat, width: 4, comps: 4},
	Mat2:  {name: "mat2", kind: KindFloat, width: 4, comps: 2, cols: 2},
	Mat3:  {name: "mat3", kind: KindFloat, width: 4, comps: 3, cols: 3},
	Mat4:  {name: "mat4", kind: KindFloat, width: 4, comps: 4, cols: 4},
	IVec2: {name: "ivec2", kind: KindSint, width: 4, comps: 2},
	IVec3: {name: "ivec3", kind: KindSint, width: 4, comps: 3},
	IVec4: {name: "ivec4", kind: KindSint, width: 4, comps: 4},
	UVec2: {name: "uvec2", kind: KindUint, width: 4, comps: 2},
	UVec3: {name: "uvec3", kind: KindUint, width: 4, comps: 3},
	UVec4: {name: "uvec4", kind: KindUint, width: 4, comps: 4},
	DVec2: {name: "dvec2", kind: KindFloat, width: 8, comps: 2},
	DVec3: {name: "dvec3", kind: KindFloat, width: 8, comps: 3},
	DVec4: {name: "dvec4", kind: KindFloat, width: 8, comps: 4},
	DMat2: {name: "dmat2", kind: KindFloat, width: 8, comps: 2, cols: 2},
	DMat3: {name: "dmat3", kind: KindFloat, width: 8, comps: 3, cols: 3},
	DMat4: {name: "dmat4", kind: KindFloat, width: 8, comps: 4, cols: 4},
}

var opaqueNames = map[Type]string{
	Block:         "block",
	UniformBuffer: "uniform_buffer",
	StorageBuffer: "storage_buffer",
	PushConstant:  "push_constant",
	Sampler2D:     "sampler2D",
	Sampler3D:     "sampler3D",
	SamplerCube:   "samplerCube",
	SubpassInput:  "subpassInput",
}

// valueTypes lists the types with a defined layout in declaration order.
var valueTypes = []Type{
	U8, U16, U32, U64, S8, S16, S32, S64, F32, F64,
	Vec2, Vec3, Vec4, Mat2, Mat3, Mat4,
	IVec2, IVec3, IVec4, UVec2, UVec3, UVec4,
	DVec2, DVec3, DVec4, DMat2, DMat3, DMat4,
}

// ValueTypes returns every type that has a size and alignment, in a
// stable order. The returned slice is a copy.
func ValueTypes() []Type {
	out := make([]Type, len(valueTypes))
	copy(out, valueTypes)
	return out
}

// OpaqueTypes returns the resource kinds in numeric order.
func OpaqueTypes() []Type {
	return []Type{Block, UniformBuffer, StorageBuffer, PushConstant, Sampler2D, Sampler3D, SamplerCube, SubpassInput}
}

// String returns the GLSL spelling of t.
func (t Type) String() string {
	if info, ok := typeTable[t]; ok {
		return info.name
	}
	if name, ok := opaqueNames[t]; ok {
		return name
	}
	switch t {
	case Undefined:
		return "undefined"
	case MaxNonOpaque:
		return "max_non_opaque"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// IsValue reports whether t has a defined size and alignment.
func (t Type) IsValue() bool {
	_, ok := typeTable[t]
	return ok
}

// IsOpaque reports whether t is a resource or block marker.
func (t Type) IsOpaque() bool {
	_, ok := opaqueNames[t]
	return ok
}

// IsMatrix reports whether t is a float or double matrix.
func (t Type) IsMatrix() bool {
	return typeTable[t].cols > 0
}

// Components returns the vector width of t (rows for matrices) or 0 when
// t has no layout.
func (t Type) Components() int {
	return int(typeTable[t].comps)
}

// Columns returns the matrix column count, 0 for non-matrices.
func (t Type) Columns() int {
	return int(typeTable[t].cols)
}

// ComponentWidth returns the size in bytes of one component of t.
func (t Type) ComponentWidth() int {
	return int(typeTable[t].width)
}

// Kind returns the numeric class of t's components.
func (t Type) Kind() ScalarKind {
	return typeTable[t].kind
}

var typeAliases = map[string]Type{
	"u8": U8, "u16": U16, "u32": U32, "u64": U64,
	"s8": S8, "s16": S16, "s32": S32, "s64": S64,
	"i8": S8, "i16": S16, "i32": S32, "i64": S64,
	"f32": F32, "f64": F64,
	"uint32_t": U32, "int32_t": S32,
	"mat2x2": Mat2, "mat3x3": Mat3, "mat4x4": Mat4,
	"dmat2x2": DMat2, "dmat3x3": DMat3, "dmat4x4": DMat4,
	"uniform": UniformBuffer, "buffer": StorageBuffer,
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeTable)+len(opaqueNames)+len(typeAliases))
	for t, info := range typeTable {
		m[info.name] = t
	}
	for t, name := range opaqueNames {
		m[strings.ToLower(name)] = t
	}
	for name, t := range typeAliases {
		m[name] = t
	}
	return m
}()

// ParseType resolves a GLSL type name. Matching is case-insensitive and
// accepts the short aliases u8..f64, i32 and mat4x4 style spellings.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := typesByName[key]; ok {
		return t, nil
	}
	return Undefined, fmt.Errorf("unknown glsl type %q", name)
}
