package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInternsStructurallyEqualTypes(t *testing.T) {
	r := NewRegistry()

	a := r.Vector(F32, 3)
	b := r.Vector(F32, 3)
	require.Equal(t, a, b, "two Vector(F32, 3) registrations must intern to the same handle")

	c := r.Vector(F32, 4)
	assert.NotEqual(t, a, c, "different length must not intern to the same handle")

	d := r.Vector(I32, 3)
	assert.NotEqual(t, a, d, "different primitive must not intern to the same handle")
}

func TestVoidIsCanonical(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, r.Void(), r.Void())
}

func TestVectorSizeAndAlignment(t *testing.T) {
	r := NewRegistry()
	v := r.Vector(F32, 3)

	assert.Equal(t, uint64(12), v.Size())
	assert.Equal(t, uint64(4), v.Alignment(), "vector alignment is element size, not hardware round-up")
}

func TestMatrixEncodedAsVectorOfVectors(t *testing.T) {
	r := NewRegistry()
	col := r.Vector(F32, 4)
	m := r.MatrixVector(col, 4)

	require.Equal(t, MatrixKind, m.Kind())
	assert.Equal(t, uint64(16*4*4), m.Size(), "matrix size is element size × dimension²: a 16-byte vec4 element at dimension 4 gives 256 bytes")
}

func TestStructSizeAndAlignmentAreCallerSupplied(t *testing.T) {
	r := NewRegistry()
	f32 := r.Primitive(F32)
	i32 := r.Primitive(I32)

	s := r.Struct([]Handle{f32, i32}, 8, 4)
	assert.Equal(t, uint64(8), s.Size())
	assert.Equal(t, uint64(4), s.Alignment())

	s2 := r.Struct([]Handle{f32, i32}, 8, 4)
	assert.Equal(t, s, s2, "structurally identical struct registrations must intern together")

	s3 := r.Struct([]Handle{f32, i32}, 16, 4)
	assert.NotEqual(t, s, s3, "different caller-supplied size must produce a distinct handle")
}

func TestArraySizeIsElementSizeTimesLength(t *testing.T) {
	r := NewRegistry()
	f64 := r.Primitive(F64)
	arr := r.Array(f64, 10)

	assert.Equal(t, uint64(80), arr.Size())
	assert.Equal(t, f64.Alignment(), arr.Alignment())
}

func TestClassificationIsMutuallyExclusive(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		name  string
		h     Handle
		float bool
		int_  bool
		bool_ bool
	}{
		{"f32", r.Primitive(F32), true, false, false},
		{"i32", r.Primitive(I32), false, true, false},
		{"u64", r.Primitive(U64), false, true, false},
		{"bool", r.Primitive(Bool), false, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.float, c.h.IsFloat())
			assert.Equal(t, c.int_, c.h.IsInt())
			assert.Equal(t, c.bool_, c.h.IsBool())

			count := 0
			for _, b := range []bool{c.h.IsFloat(), c.h.IsInt(), c.h.IsBool()} {
				if b {
					count++
				}
			}
			assert.LessOrEqual(t, count, 1, "at most one of float/int/bool should be true")
		})
	}
}

func TestVectorClassificationDelegatesToElement(t *testing.T) {
	r := NewRegistry()
	v := r.Vector(F32, 3)
	assert.True(t, v.IsFloat())
	assert.False(t, v.IsInt())
}

func TestStringRendersNestedStructure(t *testing.T) {
	r := NewRegistry()
	f32 := r.Primitive(F32)
	s := r.Struct([]Handle{f32, f32}, 8, 4)
	assert.Equal(t, "struct<f32,f32>", s.String())

	arr := r.Array(f32, 4)
	assert.Equal(t, "arr<f32;4>", arr.String())
}
