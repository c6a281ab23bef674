// Package shaderir converts struct types from a naga IR module into
// glsl.StructDef values, so layouts can be computed for shaders that were
// lowered from WGSL.
package shaderir

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/ir"

	"glsllayout/glsl"
)

// ErrUnsupported is wrapped by every conversion failure.
var ErrUnsupported = errors.New("shaderir: unsupported type")

type converter struct {
	module *ir.Module
	done   map[ir.TypeHandle]*glsl.StructDef
	active map[ir.TypeHandle]bool
}

// StructFromIR converts the struct type at handle. Nested structs are
// converted recursively; a struct referenced twice yields one shared
// StructDef.
func StructFromIR(module *ir.Module, handle ir.TypeHandle) (*glsl.StructDef, error) {
	if module == nil {
		return nil, fmt.Errorf("%w: nil module", ErrUnsupported)
	}
	c := &converter{
		module: module,
		done:   make(map[ir.TypeHandle]*glsl.StructDef),
		active: make(map[ir.TypeHandle]bool),
	}
	return c.structAt(handle)
}

// StructsFromIR converts every named struct type in the module, in handle
// order. Structs that cannot be converted are skipped and reported in the
// joined error.
func StructsFromIR(module *ir.Module) ([]*glsl.StructDef, error) {
	if module == nil {
		return nil, fmt.Errorf("%w: nil module", ErrUnsupported)
	}
	c := &converter{
		module: module,
		done:   make(map[ir.TypeHandle]*glsl.StructDef),
		active: make(map[ir.TypeHandle]bool),
	}
	var (
		out  []*glsl.StructDef
		errs []error
	)
	for i, t := range module.Types {
		if _, ok := t.Inner.(ir.StructType); !ok || t.Name == "" {
			continue
		}
		def, err := c.structAt(ir.TypeHandle(i))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, def)
	}
	return out, errors.Join(errs...)
}

func (c *converter) typeAt(handle ir.TypeHandle) (ir.Type, error) {
	if int(handle) >= len(c.module.Types) {
		return ir.Type{}, fmt.Errorf("%w: type handle %d out of range", ErrUnsupported, handle)
	}
	return c.module.Types[handle], nil
}

func (c *converter) structAt(handle ir.TypeHandle) (*glsl.StructDef, error) {
	if def, ok := c.done[handle]; ok {
		return def, nil
	}
	typ, err := c.typeAt(handle)
	if err != nil {
		return nil, err
	}
	st, ok := typ.Inner.(ir.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: type %d (%s) is not a struct", ErrUnsupported, handle, typeName(typ))
	}
	if c.active[handle] {
		return nil, fmt.Errorf("%w: struct %s contains itself", ErrUnsupported, typeName(typ))
	}
	c.active[handle] = true
	defer delete(c.active, handle)

	name := typ.Name
	if name == "" {
		name = fmt.Sprintf("struct%d", handle)
	}
	def := &glsl.StructDef{Name: name, Members: make([]glsl.MemberDef, 0, len(st.Members))}
	for _, m := range st.Members {
		md, err := c.member(m)
		if err != nil {
			return nil, fmt.Errorf("struct %s member %s: %w", name, m.Name, err)
		}
		def.Members = append(def.Members, md)
	}
	c.done[handle] = def
	return def, nil
}

func (c *converter) member(m ir.StructMember) (glsl.MemberDef, error) {
	md := glsl.MemberDef{Name: m.Name}
	typ, err := c.typeAt(m.Type)
	if err != nil {
		return md, err
	}

	elem := m.Type
	if arr, ok := typ.Inner.(ir.ArrayType); ok {
		if arr.Size.Constant == nil {
			return md, fmt.Errorf("%w: runtime-sized array", ErrUnsupported)
		}
		if *arr.Size.Constant == 0 {
			return md, fmt.Errorf("%w: zero-length array", ErrUnsupported)
		}
		md.ArrayLen = *arr.Size.Constant
		elem = arr.Base
		if typ, err = c.typeAt(elem); err != nil {
			return md, err
		}
		if _, nested := typ.Inner.(ir.ArrayType); nested {
			return md, fmt.Errorf("%w: array of arrays", ErrUnsupported)
		}
	}

	if _, ok := typ.Inner.(ir.StructType); ok {
		def, err := c.structAt(elem)
		if err != nil {
			return md, err
		}
		md.Struct = def
		return md, nil
	}

	t, err := valueType(typ.Inner)
	if err != nil {
		return md, err
	}
	md.Type = t
	return md, nil
}

// valueType maps a scalar, vector or square matrix onto the glsl type with
// the same component kind, width and shape.
func valueType(inner ir.TypeInner) (glsl.Type, error) {
	var (
		scalar     ir.ScalarType
		comps, col int
	)
	switch t := inner.(type) {
	case ir.ScalarType:
		scalar, comps = t, 1
	case ir.VectorType:
		scalar, comps = t.Scalar, int(t.Size)
	case ir.MatrixType:
		if t.Columns != t.Rows {
			return glsl.Undefined, fmt.Errorf("%w: non-square matrix %dx%d", ErrUnsupported, t.Columns, t.Rows)
		}
		if t.Scalar.Kind != ir.ScalarFloat {
			return glsl.Undefined, fmt.Errorf("%w: non-float matrix", ErrUnsupported)
		}
		scalar, comps, col = t.Scalar, int(t.Rows), int(t.Columns)
	default:
		return glsl.Undefined, fmt.Errorf("%w: %T has no memory layout", ErrUnsupported, inner)
	}

	var kind glsl.ScalarKind
	switch scalar.Kind {
	case ir.ScalarFloat:
		kind = glsl.KindFloat
	case ir.ScalarSint:
		kind = glsl.KindSint
	case ir.ScalarUint:
		kind = glsl.KindUint
	default:
		return glsl.Undefined, fmt.Errorf("%w: scalar kind %v", ErrUnsupported, scalar.Kind)
	}

	for _, t := range glsl.ValueTypes() {
		if t.Kind() == kind && t.ComponentWidth() == int(scalar.Width) && t.Components() == comps && t.Columns() == col {
			return t, nil
		}
	}
	return glsl.Undefined, fmt.Errorf("%w: no glsl type for %d-component %d-byte %v", ErrUnsupported, comps, scalar.Width, scalar.Kind)
}

func typeName(t ir.Type) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("%T", t.Inner)
}
