package blockfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"glsllayout/glsl"
	"glsllayout/internal/blockfile"
)

const sceneFile = `
rule = "std140"

[[struct]]
name = "Light"
  [[struct.member]]
  name = "position"
  type = "vec3"
  [[struct.member]]
  name = "intensity"
  type = "float"

[[struct]]
name = "Scene"
  [[struct.member]]
  name = "lights"
  type = "Light"
  array = 2
  [[struct.member]]
  name = "view"
  type = "mat4"
`

func TestParse_Scene(t *testing.T) {
	f, err := blockfile.Parse("scene.toml", []byte(sceneFile))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !f.HasRule || f.Rule != glsl.RuleExtended {
		t.Fatalf("rule = %v (set=%v), want std140", f.Rule, f.HasRule)
	}
	if len(f.Structs) != 2 {
		t.Fatalf("got %d structs, want 2", len(f.Structs))
	}
	scene, ok := f.Lookup("Scene")
	if !ok {
		t.Fatal("Scene not found")
	}
	light, _ := f.Lookup("Light")
	lights := scene.Members[0]
	if lights.Struct != light || lights.ArrayLen != 2 || lights.Type != glsl.Undefined {
		t.Fatalf("lights member = %+v", lights)
	}
	if scene.Members[1].Type != glsl.Mat4 {
		t.Fatalf("view type = %s", scene.Members[1].Type)
	}

	layout, err := glsl.LayoutStruct(scene, f.Rule)
	if err != nil {
		t.Fatalf("LayoutStruct error: %v", err)
	}
	if layout.Size != 96 {
		t.Fatalf("Scene size = %d, want 96", layout.Size)
	}
}

func TestParse_NoRule(t *testing.T) {
	f, err := blockfile.Parse("x.toml", []byte("[[struct]]\nname = \"A\"\n[[struct.member]]\nname = \"x\"\ntype = \"f32\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if f.HasRule {
		t.Fatal("HasRule set without a rule key")
	}
}

func TestParse_NormalizesNames(t *testing.T) {
	// "é" precomposed vs. "e" + combining acute.
	src := "[[struct]]\nname = \"S\"\n" +
		"[[struct.member]]\nname = \"caf\u00e9\"\ntype = \"float\"\n" +
		"[[struct.member]]\nname = \"cafe\u0301\"\ntype = \"float\"\n"
	_, err := blockfile.Parse("n.toml", []byte(src))
	if !errors.Is(err, &blockfile.Error{Kind: blockfile.ErrDuplicate}) {
		t.Fatalf("error = %v, want duplicate member", err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind blockfile.ErrorKind
	}{
		{"syntax", "rule = ", blockfile.ErrSyntax},
		{"unknown key", "colour = 1\n", blockfile.ErrUnknownKey},
		{"bad rule", "rule = \"std150\"\n", blockfile.ErrBadRule},
		{"missing struct name", "[[struct]]\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\n", blockfile.ErrMissingName},
		{"duplicate struct", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\n[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"y\"\ntype=\"float\"\n", blockfile.ErrDuplicate},
		{"shadowing", "[[struct]]\nname=\"vec3\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\n", blockfile.ErrDuplicate},
		{"unknown type", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"x\"\ntype=\"vec5\"\n", blockfile.ErrUnknownType},
		{"forward ref", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"b\"\ntype=\"B\"\n[[struct]]\nname=\"B\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\n", blockfile.ErrForwardRef},
		{"self ref", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"a\"\ntype=\"A\"\n", blockfile.ErrForwardRef},
		{"opaque", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"t\"\ntype=\"sampler2D\"\n", blockfile.ErrOpaqueType},
		{"zero array", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\narray=0\n", blockfile.ErrArrayLength},
		{"negative array", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\narray=-3\n", blockfile.ErrArrayLength},
		{"huge array", "[[struct]]\nname=\"A\"\n[[struct.member]]\nname=\"x\"\ntype=\"float\"\narray=8589934592\n", blockfile.ErrArrayLength},
		{"empty struct", "[[struct]]\nname=\"A\"\n", blockfile.ErrEmptyStruct},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := blockfile.Parse("bad.toml", []byte(tc.src))
			var ferr *blockfile.Error
			if !errors.As(err, &ferr) {
				t.Fatalf("error = %v, want *blockfile.Error", err)
			}
			if ferr.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s (%v)", ferr.Kind, tc.kind, err)
			}
			if ferr.Path != "bad.toml" {
				t.Fatalf("path = %q", ferr.Path)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &blockfile.Error{Kind: blockfile.ErrOpaqueType, Path: "a.toml", Struct: "A", Member: "t", Detail: "sampler2D has no memory layout"}
	want := `a.toml: struct "A" member "t": sampler2D has no memory layout`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(sceneFile), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := blockfile.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.Path != path || len(f.Structs) != 2 {
		t.Fatalf("unexpected file: %+v", f)
	}
	if _, err := blockfile.Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v", err)
	}
}
