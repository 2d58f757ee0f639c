package types

import "sync"

// Handle is a stable, freely shareable reference to an interned Type.
// Structural equality of two Types implies Handle equality (pointer
// identity of the underlying *Type), per spec §3/§4.1.
type Handle struct {
	t *Type
}

// IsZero reports whether the handle was never assigned — the types
// package has no analogue of NodeRef's reserved INVALID_REF since every
// Handle in circulation is produced by a Registry method.
func (h Handle) IsZero() bool { return h.t == nil }

func (h Handle) key() string { return h.t.key() }

// Size returns the type's byte size (spec §4.1).
func (h Handle) Size() uint64 { return h.t.size() }

// Alignment returns the type's alignment (spec §4.1).
func (h Handle) Alignment() uint64 { return h.t.alignment() }

// IsFloat reports whether the type is, or recurses through Vector/Matrix
// to, a floating-point primitive.
func (h Handle) IsFloat() bool { return h.t.isFloat() }

// IsInt reports whether the type is, or recurses to, an integer primitive.
func (h Handle) IsInt() bool { return h.t.isInt() }

// IsBool reports whether the type is, or recurses to, Bool.
func (h Handle) IsBool() bool { return h.t.isBool() }

// Kind returns the type's discriminant.
func (h Handle) Kind() Kind { return h.t.kind }

// Primitive returns the primitive kind; only meaningful when Kind() ==
// PrimitiveKind.
func (h Handle) Primitive() Primitive { return h.t.primitive }

// Fields returns the struct's field handles; only meaningful when
// Kind() == StructKind.
func (h Handle) Fields() []Handle { return h.t.fields }

// ArrayElement returns the array's element handle; only meaningful when
// Kind() == ArrayKind.
func (h Handle) ArrayElement() Handle { return h.t.arrayElem }

// ArrayLength returns the array length, or the vector/matrix length and
// dimension respectively, depending on Kind().
func (h Handle) ArrayLength() uint32 { return h.t.length }

// ElementIsVector reports whether the Vector/Matrix element is itself
// a vector type (the matrix encoding, spec §3) rather than a bare
// scalar. Only meaningful when Kind() is VectorKind or MatrixKind.
func (h Handle) ElementIsVector() bool { return h.t.element.isVector }

// ElementPrimitive returns the Vector/Matrix element's scalar
// primitive. Only meaningful when ElementIsVector() is false.
func (h Handle) ElementPrimitive() Primitive { return h.t.element.scalar }

// ElementVector returns the Vector/Matrix element's nested vector
// handle. Only meaningful when ElementIsVector() is true.
func (h Handle) ElementVector() Handle { return h.t.element.vector }

func (h Handle) String() string {
	if h.t == nil {
		return "<nil type>"
	}
	return h.t.String()
}

// Registry interns Types: structurally equal types share one Handle, for
// the lifetime of the Registry. Safe for concurrent use; accelctx.Context
// wraps one Registry per process-wide context (spec §4.1, §5).
type Registry struct {
	mu       sync.Mutex
	interned map[string]Handle
	voidOnce Handle
}

// NewRegistry creates an empty, ready-to-use type registry.
func NewRegistry() *Registry {
	return &Registry{interned: make(map[string]Handle)}
}

// register is the shared interning path: every public constructor builds
// a candidate *Type and calls this to fold it into an existing handle
// with the same structural key, or install it as new.
func (r *Registry) register(t *Type) Handle {
	key := t.key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.interned[key]; ok {
		return h
	}
	h := Handle{t: t}
	r.interned[key] = h
	return h
}

// Void returns the canonical Void type handle.
func (r *Registry) Void() Handle {
	return r.register(&Type{kind: Void})
}

// Primitive interns a scalar primitive type.
func (r *Registry) Primitive(p Primitive) Handle {
	return r.register(&Type{kind: PrimitiveKind, primitive: p})
}

// Vector interns Vector{Scalar(p), length}.
func (r *Registry) Vector(p Primitive, length uint32) Handle {
	return r.register(&Type{
		kind:    VectorKind,
		element: ScalarElement(p),
		length:  length,
	})
}

// VectorVector interns Vector{Vector(v), length} — a vector whose
// element is itself a vector type, one level deep, used by the matrix
// encoding (spec §3).
func (r *Registry) VectorVector(v Handle, length uint32) Handle {
	return r.register(&Type{
		kind:    VectorKind,
		element: VectorElement(v),
		length:  length,
	})
}

// Matrix interns Matrix{Scalar(p), dimension}.
func (r *Registry) Matrix(p Primitive, dimension uint32) Handle {
	return r.register(&Type{
		kind:    MatrixKind,
		element: ScalarElement(p),
		length:  dimension,
	})
}

// MatrixVector interns Matrix{Vector(v), dimension}.
func (r *Registry) MatrixVector(v Handle, dimension uint32) Handle {
	return r.register(&Type{
		kind:    MatrixKind,
		element: VectorElement(v),
		length:  dimension,
	})
}

// Struct interns a struct type. size and alignment are caller-supplied
// (spec §3: "struct size/alignment are carried explicitly because
// padding policy is the producer's responsibility").
func (r *Registry) Struct(fields []Handle, size, alignment uint64) Handle {
	owned := make([]Handle, len(fields))
	copy(owned, fields)
	return r.register(&Type{
		kind:        StructKind,
		fields:      owned,
		structSize:  size,
		structAlign: alignment,
	})
}

// Array interns Array{element, length}.
func (r *Registry) Array(element Handle, length uint32) Handle {
	return r.register(&Type{
		kind:      ArrayKind,
		arrayElem: element,
		length:    length,
	})
}
