// Package ir implements the node-based instruction graph described in
// spec §3-4: constant values, the intrusive Node/NodeRef list, the
// closed Func opcode set, basic blocks, the cursor-based builder,
// module containers, and the module cloner.
package ir

import (
	"fmt"

	"accelir/pkg/types"
)

// ConstKind discriminates the Const tagged union (spec §3 "Const").
type ConstKind uint8

const (
	ConstZero ConstKind = iota
	ConstBool
	ConstInt32
	ConstUint32
	ConstInt64
	ConstUint64
	ConstFloat32
	ConstFloat64
	ConstGeneric
)

func (k ConstKind) String() string {
	switch k {
	case ConstZero:
		return "Zero"
	case ConstBool:
		return "Bool"
	case ConstInt32:
		return "Int32"
	case ConstUint32:
		return "Uint32"
	case ConstInt64:
		return "Int64"
	case ConstUint64:
		return "Uint64"
	case ConstFloat32:
		return "Float32"
	case ConstFloat64:
		return "Float64"
	case ConstGeneric:
		return "Generic"
	default:
		return fmt.Sprintf("ConstKind(%d)", uint8(k))
	}
}

// Const is a typed literal or zero value (C2). Like the teacher's
// ast.Value, it is one struct with a Kind discriminant and a field per
// variant rather than an interface hierarchy.
type Const struct {
	Kind ConstKind
	T    types.Handle

	B   bool
	I32 int32
	U32 uint32
	I64 int64
	U64 uint64
	F32 float32
	F64 float64
	Raw []byte
}

// Type returns the constant's associated type handle (type_()).
func (c Const) Type() types.Handle { return c.T }

// GetI32 returns the constant's value, valid only for ConstInt32 —
// any other kind is a fatal programmer error (spec §7).
func (c Const) GetI32() int32 {
	if c.Kind != ConstInt32 {
		panic(fmt.Sprintf("ir: Const.GetI32 called on a %s constant", c.Kind))
	}
	return c.I32
}

func (c Const) String() string {
	switch c.Kind {
	case ConstZero:
		return fmt.Sprintf("zero(%s)", c.T)
	case ConstBool:
		return fmt.Sprintf("%v", c.B)
	case ConstInt32:
		return fmt.Sprintf("%di32", c.I32)
	case ConstUint32:
		return fmt.Sprintf("%du32", c.U32)
	case ConstInt64:
		return fmt.Sprintf("%di64", c.I64)
	case ConstUint64:
		return fmt.Sprintf("%du64", c.U64)
	case ConstFloat32:
		return fmt.Sprintf("%gf32", c.F32)
	case ConstFloat64:
		return fmt.Sprintf("%gf64", c.F64)
	case ConstGeneric:
		return fmt.Sprintf("generic(%s, %d bytes)", c.T, len(c.Raw))
	default:
		return "<invalid const>"
	}
}

// NewZero builds Zero(t).
func NewZero(t types.Handle) Const { return Const{Kind: ConstZero, T: t} }

// NewBool builds a Bool constant, interning its Bool type through r.
func NewBool(r *types.Registry, v bool) Const {
	return Const{Kind: ConstBool, T: r.Primitive(types.Bool), B: v}
}

// NewInt32 builds an Int32 constant.
func NewInt32(r *types.Registry, v int32) Const {
	return Const{Kind: ConstInt32, T: r.Primitive(types.I32), I32: v}
}

// NewUint32 builds a Uint32 constant.
func NewUint32(r *types.Registry, v uint32) Const {
	return Const{Kind: ConstUint32, T: r.Primitive(types.U32), U32: v}
}

// NewInt64 builds an Int64 constant.
func NewInt64(r *types.Registry, v int64) Const {
	return Const{Kind: ConstInt64, T: r.Primitive(types.I64), I64: v}
}

// NewUint64 builds a Uint64 constant.
func NewUint64(r *types.Registry, v uint64) Const {
	return Const{Kind: ConstUint64, T: r.Primitive(types.U64), U64: v}
}

// NewFloat32 builds a Float32 constant.
func NewFloat32(r *types.Registry, v float32) Const {
	return Const{Kind: ConstFloat32, T: r.Primitive(types.F32), F32: v}
}

// NewFloat64 builds a Float64 constant.
func NewFloat64(r *types.Registry, v float64) Const {
	return Const{Kind: ConstFloat64, T: r.Primitive(types.F64), F64: v}
}

// NewGeneric builds a Generic(raw, t) constant for arbitrary-typed
// literal blobs the registry has no dedicated variant for.
func NewGeneric(t types.Handle, raw []byte) Const {
	owned := make([]byte, len(raw))
	copy(owned, raw)
	return Const{Kind: ConstGeneric, T: t, Raw: owned}
}
