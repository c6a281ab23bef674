package glsl

import "github.com/gogpu/gputypes"

var vertexFormats = map[Type]gputypes.VertexFormat{
	F32:   gputypes.VertexFormatFloat32,
	Vec2:  gputypes.VertexFormatFloat32x2,
	Vec3:  gputypes.VertexFormatFloat32x3,
	Vec4:  gputypes.VertexFormatFloat32x4,
	S32:   gputypes.VertexFormatSint32,
	IVec2: gputypes.VertexFormatSint32x2,
	IVec3: gputypes.VertexFormatSint32x3,
	IVec4: gputypes.VertexFormatSint32x4,
	U32:   gputypes.VertexFormatUint32,
	UVec2: gputypes.VertexFormatUint32x2,
	UVec3: gputypes.VertexFormatUint32x3,
	UVec4: gputypes.VertexFormatUint32x4,
}

// VertexFormatOf returns the WebGPU vertex attribute format for t.
// Only 32-bit scalars and vectors can be vertex attributes; every other
// type reports false.
func VertexFormatOf(t Type) (gputypes.VertexFormat, bool) {
	f, ok := vertexFormats[t]
	return f, ok
}
