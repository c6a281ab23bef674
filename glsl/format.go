package glsl

import "fmt"

// Format is a Vulkan VkFormat value. Only the codes WireFormatOf can
// produce are declared.
type Format uint32

const (
	FormatUndefined          Format = 0
	FormatR8Uint             Format = 13
	FormatR8Sint             Format = 14
	FormatR16Uint            Format = 74
	FormatR16Sint            Format = 75
	FormatR32Uint            Format = 98
	FormatR32Sint            Format = 99
	FormatR32Sfloat          Format = 100
	FormatR32G32Uint         Format = 101
	FormatR32G32Sint         Format = 102
	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Uint      Format = 104
	FormatR32G32B32Sint      Format = 105
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Uint   Format = 107
	FormatR32G32B32A32Sint   Format = 108
	FormatR32G32B32A32Sfloat Format = 109
	FormatR64Uint            Format = 110
	FormatR64Sint            Format = 111
	FormatR64Sfloat          Format = 112
	FormatR64G64Sfloat       Format = 115
	FormatR64G64B64Sfloat    Format = 118
	FormatR64G64B64A64Sfloat Format = 121
)

var formatNames = map[Format]string{
	FormatUndefined:          "VK_FORMAT_UNDEFINED",
	FormatR8Uint:             "VK_FORMAT_R8_UINT",
	FormatR8Sint:             "VK_FORMAT_R8_SINT",
	FormatR16Uint:            "VK_FORMAT_R16_UINT",
	FormatR16Sint:            "VK_FORMAT_R16_SINT",
	FormatR32Uint:            "VK_FORMAT_R32_UINT",
	FormatR32Sint:            "VK_FORMAT_R32_SINT",
	FormatR32Sfloat:          "VK_FORMAT_R32_SFLOAT",
	FormatR32G32Uint:         "VK_FORMAT_R32G32_UINT",
	FormatR32G32Sint:         "VK_FORMAT_R32G32_SINT",
	FormatR32G32Sfloat:       "VK_FORMAT_R32G32_SFLOAT",
	FormatR32G32B32Uint:      "VK_FORMAT_R32G32B32_UINT",
	FormatR32G32B32Sint:      "VK_FORMAT_R32G32B32_SINT",
	FormatR32G32B32Sfloat:    "VK_FORMAT_R32G32B32_SFLOAT",
	FormatR32G32B32A32Uint:   "VK_FORMAT_R32G32B32A32_UINT",
	FormatR32G32B32A32Sint:   "VK_FORMAT_R32G32B32A32_SINT",
	FormatR32G32B32A32Sfloat: "VK_FORMAT_R32G32B32A32_SFLOAT",
	FormatR64Uint:            "VK_FORMAT_R64_UINT",
	FormatR64Sint:            "VK_FORMAT_R64_SINT",
	FormatR64Sfloat:          "VK_FORMAT_R64_SFLOAT",
	FormatR64G64Sfloat:       "VK_FORMAT_R64G64_SFLOAT",
	FormatR64G64B64Sfloat:    "VK_FORMAT_R64G64B64_SFLOAT",
	FormatR64G64B64A64Sfloat: "VK_FORMAT_R64G64B64A64_SFLOAT",
}

// String returns the Vulkan enumerator name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("VkFormat(%d)", uint32(f))
}

var wireFormats = map[Type]Format{
	U8:  FormatR8Uint,
	U16: FormatR16Uint,
	U32: FormatR32Uint,
	U64: FormatR64Uint,
	S8:  FormatR8Sint,
	S16: FormatR16Sint,
	S32: FormatR32Sint,
	S64: FormatR64Sint,
	F32: FormatR32Sfloat,
	F64: FormatR64Sfloat,

	Vec2:  FormatR32G32Sfloat,
	Vec3:  FormatR32G32B32Sfloat,
	Vec4:  FormatR32G32B32A32Sfloat,
	IVec2: FormatR32G32Sint,
	IVec3: FormatR32G32B32Sint,
	IVec4: FormatR32G32B32A32Sint,
	UVec2: FormatR32G32Uint,
	UVec3: FormatR32G32B32Uint,
	UVec4: FormatR32G32B32A32Uint,
	DVec2: FormatR64G64Sfloat,
	DVec3: FormatR64G64B64Sfloat,
	DVec4: FormatR64G64B64A64Sfloat,

	// Matrices have no native format; the 4-wide float code stands in.
	Mat2:  FormatR32G32B32A32Sfloat,
	Mat3:  FormatR32G32B32A32Sfloat,
	Mat4:  FormatR32G32B32A32Sfloat,
	DMat2: FormatR32G32B32A32Sfloat,
	DMat3: FormatR32G32B32A32Sfloat,
	DMat4: FormatR32G32B32A32Sfloat,
}

// WireFormatOf returns the Vulkan format matching t's components.
// Opaque, block and unknown types yield FormatUndefined.
func WireFormatOf(t Type) Format {
	if f, ok := wireFormats[t]; ok {
		return f
	}
	return FormatUndefined
}
