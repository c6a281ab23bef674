package glsl_test

import (
	"errors"
	"strings"
	"testing"

	"glsllayout/glsl"
	"glsllayout/internal/testkit"
)

type wantMember struct {
	name   string
	offset uint32
	size   uint32
	stride uint32
}

func checkLayout(t *testing.T, got *glsl.StructLayout, align, size uint32, members []wantMember) {
	t.Helper()
	if got.Align != align || got.Size != size {
		t.Fatalf("%s: align/size = %d/%d, want %d/%d", got.Name, got.Align, got.Size, align, size)
	}
	if len(got.Members) != len(members) {
		t.Fatalf("%s: %d members, want %d", got.Name, len(got.Members), len(members))
	}
	for i, want := range members {
		m := got.Members[i]
		if m.Name != want.name || m.Offset != want.offset || m.Size != want.size || m.ArrayStride != want.stride {
			t.Errorf("member %d = {%s off=%d size=%d stride=%d}, want {%s off=%d size=%d stride=%d}",
				i, m.Name, m.Offset, m.Size, m.ArrayStride, want.name, want.offset, want.size, want.stride)
		}
	}
}

func layout(t *testing.T, def *glsl.StructDef, rule glsl.Rule) *glsl.StructLayout {
	t.Helper()
	got, err := glsl.LayoutStruct(def, rule)
	if err != nil {
		t.Fatalf("LayoutStruct(%s, %s) error: %v", def.Name, rule, err)
	}
	return got
}

func TestLayoutStruct_FloatVec3(t *testing.T) {
	def := &glsl.StructDef{Name: "Block", Members: []glsl.MemberDef{
		{Name: "a", Type: glsl.Float},
		{Name: "b", Type: glsl.Vec3},
	}}
	checkLayout(t, layout(t, def, glsl.RuleExtended), 16, 32, []wantMember{
		{"a", 0, 4, 0},
		{"b", 16, 12, 0},
	})
	checkLayout(t, layout(t, def, glsl.RuleBase), 16, 32, []wantMember{
		{"a", 0, 4, 0},
		{"b", 16, 12, 0},
	})
	checkLayout(t, layout(t, def, glsl.RuleScalar), 4, 16, []wantMember{
		{"a", 0, 4, 0},
		{"b", 4, 12, 0},
	})
}

func TestLayoutStruct_Arrays(t *testing.T) {
	floats := &glsl.StructDef{Name: "Floats", Members: []glsl.MemberDef{
		{Name: "v", Type: glsl.Float, ArrayLen: 4},
	}}
	checkLayout(t, layout(t, floats, glsl.RuleExtended), 16, 64, []wantMember{{"v", 0, 64, 16}})
	checkLayout(t, layout(t, floats, glsl.RuleBase), 4, 16, []wantMember{{"v", 0, 16, 4}})

	vecs := &glsl.StructDef{Name: "Vecs", Members: []glsl.MemberDef{
		{Name: "v", Type: glsl.Vec2, ArrayLen: 3},
	}}
	checkLayout(t, layout(t, vecs, glsl.RuleExtended), 16, 48, []wantMember{{"v", 0, 48, 16}})
	checkLayout(t, layout(t, vecs, glsl.RuleBase), 8, 24, []wantMember{{"v", 0, 24, 8}})
}

func TestLayoutStruct_Nested(t *testing.T) {
	light := &glsl.StructDef{Name: "Light", Members: []glsl.MemberDef{
		{Name: "position", Type: glsl.Vec3},
		{Name: "intensity", Type: glsl.Float},
	}}
	scene := &glsl.StructDef{Name: "Scene", Members: []glsl.MemberDef{
		{Name: "lights", Struct: light, ArrayLen: 2},
		{Name: "view", Type: glsl.Mat4},
	}}

	got := layout(t, scene, glsl.RuleExtended)
	checkLayout(t, got, 16, 96, []wantMember{
		{"lights", 0, 32, 16},
		{"view", 32, 64, 0},
	})
	lights, ok := got.Member("lights")
	if !ok || lights.Struct == nil {
		t.Fatal("lights member missing nested layout")
	}
	checkLayout(t, lights.Struct, 16, 16, []wantMember{
		{"position", 0, 12, 0},
		{"intensity", 12, 4, 0},
	})
	if _, ok := got.Member("missing"); ok {
		t.Fatal("Member found a name that does not exist")
	}

	// The aggregated traits must agree with the computed alignment.
	align, err := glsl.AlignOfStruct(got.Traits(), glsl.RuleExtended)
	if err != nil || align != got.Align {
		t.Fatalf("AlignOfStruct(Traits) = %d, %v; want %d", align, err, got.Align)
	}
}

func TestLayoutStruct_MatrixPadding(t *testing.T) {
	// {m <matrix>; f float}: matrix columns are padded to the column
	// alignment, so f starts after the last padded column.
	cases := []struct {
		m           glsl.Type
		rule        glsl.Rule
		align, size uint32
		mAlign      uint32
		mSize, fOff uint32
	}{
		{glsl.Mat3, glsl.RuleScalar, 4, 40, 4, 36, 36},
		{glsl.Mat3, glsl.RuleBase, 16, 64, 16, 48, 48},
		{glsl.Mat3, glsl.RuleExtended, 16, 64, 16, 48, 48},
		{glsl.Mat2, glsl.RuleBase, 8, 24, 8, 16, 16},
		{glsl.Mat2, glsl.RuleExtended, 16, 48, 16, 32, 32},
		{glsl.Mat4, glsl.RuleExtended, 16, 80, 16, 64, 64},
		{glsl.DMat3, glsl.RuleBase, 32, 128, 32, 96, 96},
		{glsl.DMat2, glsl.RuleExtended, 16, 48, 16, 32, 32},
	}
	for _, tc := range cases {
		t.Run(tc.m.String()+"/"+tc.rule.String(), func(t *testing.T) {
			def := &glsl.StructDef{Name: "M", Members: []glsl.MemberDef{
				{Name: "m", Type: tc.m},
				{Name: "f", Type: glsl.Float},
			}}
			checkLayout(t, layout(t, def, tc.rule), tc.align, tc.size, []wantMember{
				{"m", 0, tc.mSize, 0},
				{"f", tc.fOff, 4, 0},
			})
			if got := layout(t, def, tc.rule).Members[0].Align; got != tc.mAlign {
				t.Fatalf("m align = %d, want %d", got, tc.mAlign)
			}
		})
	}
}

func TestLayoutStruct_MatrixAfterScalar(t *testing.T) {
	def := &glsl.StructDef{Name: "M", Members: []glsl.MemberDef{
		{Name: "f", Type: glsl.Float},
		{Name: "m", Type: glsl.Mat2},
		{Name: "ms", Type: glsl.Mat3, ArrayLen: 2},
	}}
	checkLayout(t, layout(t, def, glsl.RuleExtended), 16, 144, []wantMember{
		{"f", 0, 4, 0},
		{"m", 16, 32, 0},
		{"ms", 48, 96, 48},
	})
}

func TestFootprintOf(t *testing.T) {
	cases := []struct {
		typ         glsl.Type
		rule        glsl.Rule
		align, size uint32
	}{
		{glsl.Vec3, glsl.RuleBase, 16, 12},
		{glsl.Float, glsl.RuleExtended, 4, 4},
		{glsl.Mat3, glsl.RuleScalar, 4, 36},
		{glsl.Mat3, glsl.RuleBase, 16, 48},
		{glsl.Mat2, glsl.RuleExtended, 16, 32},
		{glsl.DMat4, glsl.RuleBase, 32, 128},
	}
	for _, tc := range cases {
		align, size, err := glsl.FootprintOf(tc.typ, tc.rule, false)
		if err != nil || align != tc.align || size != tc.size {
			t.Errorf("FootprintOf(%s, %s) = %d, %d, %v; want %d, %d", tc.typ, tc.rule, align, size, err, tc.align, tc.size)
		}
		// The plain size never changes.
		if got := glsl.MustSizeOf(tc.typ, tc.rule); got > size {
			t.Errorf("SizeOf(%s) = %d exceeds footprint %d", tc.typ, got, size)
		}
	}
	if _, _, err := glsl.FootprintOf(glsl.Sampler2D, glsl.RuleBase, false); !errors.Is(err, glsl.ErrUnsupportedType) {
		t.Fatalf("opaque footprint error = %v", err)
	}
}

func TestLayoutStruct_NearFourGiB(t *testing.T) {
	// The float array ends 4 bytes short of 4 GiB; aligning the next
	// member must not wrap around to offset 0.
	cases := map[string]*glsl.StructDef{
		"member offset": {Name: "Big", Members: []glsl.MemberDef{
			{Name: "a", Type: glsl.Float, ArrayLen: 0x3FFFFFFF},
			{Name: "v", Type: glsl.Vec4},
		}},
		"struct size": {Name: "Big", Members: []glsl.MemberDef{
			{Name: "v", Type: glsl.Vec4},
			{Name: "a", Type: glsl.Float, ArrayLen: 0x3FFFFFFB},
		}},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := glsl.LayoutStruct(def, glsl.RuleBase)
			if !errors.Is(err, glsl.ErrUnsupportedType) || !strings.Contains(err.Error(), "4 GiB") {
				t.Fatalf("error = %v, want 4 GiB overflow", err)
			}
		})
	}
}

func TestLayoutStruct_Errors(t *testing.T) {
	self := &glsl.StructDef{Name: "A"}
	self.Members = []glsl.MemberDef{{Name: "next", Struct: self}}

	_, err := glsl.LayoutStruct(self, glsl.RuleBase)
	if !errors.Is(err, glsl.ErrUnsupportedType) || !strings.Contains(err.Error(), "cycle: A -> A") {
		t.Fatalf("cycle error = %v", err)
	}

	_, err = glsl.LayoutStruct(&glsl.StructDef{Name: "Empty"}, glsl.RuleBase)
	if !errors.Is(err, glsl.ErrUnsupportedType) {
		t.Fatalf("empty struct error = %v", err)
	}

	opaque := &glsl.StructDef{Name: "O", Members: []glsl.MemberDef{{Name: "tex", Type: glsl.Sampler2D}}}
	_, err = glsl.LayoutStruct(opaque, glsl.RuleBase)
	if !errors.Is(err, glsl.ErrUnsupportedType) || !strings.Contains(err.Error(), `member "tex"`) {
		t.Fatalf("opaque member error = %v", err)
	}

	ok := &glsl.StructDef{Name: "K", Members: []glsl.MemberDef{{Name: "x", Type: glsl.Float}}}
	_, err = glsl.LayoutStruct(ok, glsl.Rule(3))
	if !errors.Is(err, glsl.ErrInvalidLayoutRule) {
		t.Fatalf("invalid rule error = %v", err)
	}

	both := &glsl.StructDef{Name: "B", Members: []glsl.MemberDef{{Name: "x", Type: glsl.Float, Struct: ok}}}
	if _, err = glsl.LayoutStruct(both, glsl.RuleBase); err == nil {
		t.Fatal("expected error for member with both type and struct")
	}
}

func TestLayoutStruct_SharedStructIsNotACycle(t *testing.T) {
	v := &glsl.StructDef{Name: "V", Members: []glsl.MemberDef{{Name: "x", Type: glsl.Vec4}}}
	pair := &glsl.StructDef{Name: "Pair", Members: []glsl.MemberDef{
		{Name: "a", Struct: v},
		{Name: "b", Struct: v},
	}}
	checkLayout(t, layout(t, pair, glsl.RuleBase), 16, 32, []wantMember{
		{"a", 0, 16, 0},
		{"b", 16, 16, 0},
	})
}

func TestLayoutStruct_InvariantsAcrossTypes(t *testing.T) {
	types := glsl.ValueTypes()
	for i, a := range types {
		b := types[(i*7+3)%len(types)]
		inner := &glsl.StructDef{Name: "Inner", Members: []glsl.MemberDef{
			{Name: "b", Type: b, ArrayLen: uint32(i%3 + 1)},
			{Name: "a", Type: a},
		}}
		def := &glsl.StructDef{Name: "Outer", Members: []glsl.MemberDef{
			{Name: "a", Type: a},
			{Name: "arr", Type: a, ArrayLen: 3},
			{Name: "in", Struct: inner, ArrayLen: uint32(i % 2)},
			{Name: "b", Type: b},
		}}
		for _, rule := range glsl.Rules() {
			if err := testkit.CheckLayoutInvariants(layout(t, def, rule)); err != nil {
				t.Fatalf("%s/%s/%s: %v", a, b, rule, err)
			}
		}
	}
}
