// Package types implements the IR's interned type system: scalars,
// vectors, matrices, structs and arrays, plus the size/alignment and
// float/int/bool classification rules every other package relies on.
package types

import (
	"fmt"
	"strings"
)

// Primitive is a scalar kind.
type Primitive uint8

const (
	Bool Primitive = iota
	I32
	U32
	I64
	U64
	F32
	F64
)

func (p Primitive) String() string {
	switch p {
	case Bool:
		return "bool"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("primitive(%d)", uint8(p))
	}
}

// Size returns the primitive's byte width.
func (p Primitive) Size() uint64 {
	switch p {
	case Bool:
		return 1
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		panic(fmt.Sprintf("types: unknown primitive %d", uint8(p)))
	}
}

func (p Primitive) isFloat() bool { return p == F32 || p == F64 }
func (p Primitive) isInt() bool   { return p == I32 || p == U32 || p == I64 || p == U64 }
func (p Primitive) isBool() bool  { return p == Bool }

// Kind discriminates the Type tagged union.
type Kind uint8

const (
	Void Kind = iota
	PrimitiveKind
	VectorKind
	MatrixKind
	StructKind
	ArrayKind
)

// Element is VectorElementType: either a bare scalar, or (one level deep)
// a reference to another vector type, used to encode matrices as
// vectors-of-vectors per spec §3.
type Element struct {
	isVector bool
	scalar   Primitive
	vector   Handle
}

// ScalarElement builds a scalar vector-element.
func ScalarElement(p Primitive) Element { return Element{scalar: p} }

// VectorElement builds a vector-of-vector element from an existing
// vector type handle.
func VectorElement(v Handle) Element { return Element{isVector: true, vector: v} }

func (e Element) size() uint64 {
	if e.isVector {
		return e.vector.Size()
	}
	return e.scalar.Size()
}

func (e Element) isFloat() bool {
	if e.isVector {
		return e.vector.IsFloat()
	}
	return e.scalar.isFloat()
}

func (e Element) isInt() bool {
	if e.isVector {
		return e.vector.IsInt()
	}
	return e.scalar.isInt()
}

func (e Element) isBool() bool {
	if e.isVector {
		return e.vector.IsBool()
	}
	return e.scalar.isBool()
}

func (e Element) String() string {
	if e.isVector {
		return e.vector.String()
	}
	return e.scalar.String()
}

func (e Element) key() string {
	if e.isVector {
		return "v:" + e.vector.key()
	}
	return fmt.Sprintf("s:%d", uint8(e.scalar))
}

// Type is the tagged union described in spec §3. Instances are only ever
// reached through an interned Handle; the zero Type is never exposed.
type Type struct {
	kind Kind

	primitive Primitive // PrimitiveKind
	element   Element   // VectorKind, MatrixKind
	length    uint32     // VectorKind length, MatrixKind dimension

	fields        []Handle // StructKind
	structSize    uint64   // StructKind, caller-supplied
	structAlign   uint64   // StructKind, caller-supplied

	arrayElem Handle // ArrayKind
}

func (t *Type) size() uint64 {
	switch t.kind {
	case Void:
		return 0
	case PrimitiveKind:
		return t.primitive.Size()
	case VectorKind:
		return t.element.size() * uint64(t.length)
	case MatrixKind:
		return t.element.size() * uint64(t.length) * uint64(t.length)
	case StructKind:
		return t.structSize
	case ArrayKind:
		return t.arrayElem.Size() * uint64(t.length)
	default:
		panic("types: unknown kind")
	}
}

// alignment computes the type's alignment per spec §4.1.
func (t *Type) alignment() uint64 {
	switch t.kind {
	case Void:
		return 0
	case PrimitiveKind:
		return t.primitive.Size()
	case VectorKind:
		return t.element.size()
	case MatrixKind:
		return t.element.size()
	case StructKind:
		return t.structAlign
	case ArrayKind:
		return t.arrayElem.Alignment()
	default:
		panic("types: unknown kind")
	}
}

func (t *Type) isFloat() bool {
	switch t.kind {
	case PrimitiveKind:
		return t.primitive.isFloat()
	case VectorKind:
		return t.element.isFloat()
	case MatrixKind:
		return t.element.isFloat()
	default:
		return false
	}
}

func (t *Type) isInt() bool {
	switch t.kind {
	case PrimitiveKind:
		return t.primitive.isInt()
	case VectorKind:
		return t.element.isInt()
	case MatrixKind:
		return t.element.isInt()
	default:
		return false
	}
}

func (t *Type) isBool() bool {
	switch t.kind {
	case PrimitiveKind:
		return t.primitive.isBool()
	case VectorKind:
		return t.element.isBool()
	case MatrixKind:
		return t.element.isBool()
	default:
		return false
	}
}

func (t *Type) String() string {
	switch t.kind {
	case Void:
		return "void"
	case PrimitiveKind:
		return t.primitive.String()
	case VectorKind:
		return fmt.Sprintf("vec<%s;%d>", t.element, t.length)
	case MatrixKind:
		return fmt.Sprintf("mat<%s;%d>", t.element, t.length)
	case StructKind:
		var b strings.Builder
		b.WriteString("struct<")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.String())
		}
		b.WriteByte('>')
		return b.String()
	case ArrayKind:
		return fmt.Sprintf("arr<%s;%d>", t.arrayElem, t.length)
	default:
		return "?"
	}
}

// key returns a canonical structural key used for interning.
func (t *Type) key() string {
	switch t.kind {
	case Void:
		return "void"
	case PrimitiveKind:
		return fmt.Sprintf("prim:%d", uint8(t.primitive))
	case VectorKind:
		return fmt.Sprintf("vec:%s:%d", t.element.key(), t.length)
	case MatrixKind:
		return fmt.Sprintf("mat:%s:%d", t.element.key(), t.length)
	case ArrayKind:
		return fmt.Sprintf("arr:%s:%d", t.arrayElem.key(), t.length)
	case StructKind:
		var b strings.Builder
		b.WriteString("struct:")
		fmt.Fprintf(&b, "%d:%d:", t.structSize, t.structAlign)
		for _, f := range t.fields {
			b.WriteString(f.key())
			b.WriteByte(',')
		}
		return b.String()
	default:
		panic("types: unknown kind")
	}
}
