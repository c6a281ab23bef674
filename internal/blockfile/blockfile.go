// Package blockfile reads struct declarations from TOML block description
// files.
package blockfile

import (
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"glsllayout/glsl"
)

// File is a parsed block description file.
type File struct {
	Path string
	// Rule is the file's own rule; meaningful only when HasRule is set.
	Rule    glsl.Rule
	HasRule bool
	// Structs are in declaration order; later structs may reference
	// earlier ones through MemberDef.Struct.
	Structs []*glsl.StructDef
}

// Lookup returns the struct with the given (NFC-normalised) name.
func (f *File) Lookup(name string) (*glsl.StructDef, bool) {
	name = normalizeName(name)
	for _, s := range f.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

type rawFile struct {
	Rule    string      `toml:"rule"`
	Structs []rawStruct `toml:"struct"`
}

type rawStruct struct {
	Name    string      `toml:"name"`
	Members []rawMember `toml:"member"`
}

type rawMember struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Array *int64 `toml:"array"`
}

// Load reads and parses the block file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read block file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data as a block file. path is used in error messages only.
func Parse(path string, data []byte) (*File, error) {
	var raw rawFile
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &Error{Kind: ErrSyntax, Path: path, Detail: "failed to parse TOML", Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &Error{Kind: ErrUnknownKey, Path: path, Detail: "unknown keys: " + strings.Join(keys, ", ")}
	}

	out := &File{Path: path}
	if strings.TrimSpace(raw.Rule) != "" {
		rule, err := glsl.ParseRule(raw.Rule)
		if err != nil {
			return nil, &Error{Kind: ErrBadRule, Path: path, Detail: "invalid rule", Err: err}
		}
		out.Rule, out.HasRule = rule, true
	}

	// All names up front so a later declaration is reported as a forward
	// reference rather than an unknown type.
	declared := make(map[string]int, len(raw.Structs))
	for i, rs := range raw.Structs {
		name := normalizeName(rs.Name)
		if name == "" {
			return nil, &Error{Kind: ErrMissingName, Path: path, Detail: fmt.Sprintf("struct #%d has no name", i+1)}
		}
		if _, dup := declared[name]; dup {
			return nil, &Error{Kind: ErrDuplicate, Path: path, Struct: name, Detail: "struct declared twice"}
		}
		if _, err := glsl.ParseType(name); err == nil {
			return nil, &Error{Kind: ErrDuplicate, Path: path, Struct: name, Detail: "struct name shadows a built-in type"}
		}
		declared[name] = i
	}

	defined := make(map[string]*glsl.StructDef, len(raw.Structs))
	for _, rs := range raw.Structs {
		def, err := buildStruct(path, rs, declared, defined)
		if err != nil {
			return nil, err
		}
		defined[def.Name] = def
		out.Structs = append(out.Structs, def)
	}
	return out, nil
}

func buildStruct(path string, rs rawStruct, declared map[string]int, defined map[string]*glsl.StructDef) (*glsl.StructDef, error) {
	name := normalizeName(rs.Name)
	if len(rs.Members) == 0 {
		return nil, &Error{Kind: ErrEmptyStruct, Path: path, Struct: name, Detail: "struct has no members"}
	}

	def := &glsl.StructDef{Name: name, Members: make([]glsl.MemberDef, 0, len(rs.Members))}
	seen := make(map[string]struct{}, len(rs.Members))
	for i, rm := range rs.Members {
		mname := normalizeName(rm.Name)
		if mname == "" {
			return nil, &Error{Kind: ErrMissingName, Path: path, Struct: name, Detail: fmt.Sprintf("member #%d has no name", i+1)}
		}
		if _, dup := seen[mname]; dup {
			return nil, &Error{Kind: ErrDuplicate, Path: path, Struct: name, Member: mname, Detail: "member declared twice"}
		}
		seen[mname] = struct{}{}

		member := glsl.MemberDef{Name: mname}
		tname := normalizeName(rm.Type)
		switch {
		case defined[tname] != nil:
			member.Struct = defined[tname]
		case isDeclared(declared, tname):
			return nil, &Error{Kind: ErrForwardRef, Path: path, Struct: name, Member: mname,
				Detail: fmt.Sprintf("struct %q is used before its declaration", tname)}
		default:
			t, err := glsl.ParseType(tname)
			if err != nil {
				return nil, &Error{Kind: ErrUnknownType, Path: path, Struct: name, Member: mname,
					Detail: fmt.Sprintf("unknown type %q", rm.Type)}
			}
			if !t.IsValue() {
				return nil, &Error{Kind: ErrOpaqueType, Path: path, Struct: name, Member: mname,
					Detail: fmt.Sprintf("%s has no memory layout", t)}
			}
			member.Type = t
		}

		if rm.Array != nil {
			n, err := safecast.Conv[uint32](*rm.Array)
			if err != nil || n == 0 {
				return nil, &Error{Kind: ErrArrayLength, Path: path, Struct: name, Member: mname,
					Detail: fmt.Sprintf("array length %d is out of range", *rm.Array), Err: err}
			}
			member.ArrayLen = n
		}
		def.Members = append(def.Members, member)
	}
	return def, nil
}

func isDeclared(declared map[string]int, name string) bool {
	_, ok := declared[name]
	return ok
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
