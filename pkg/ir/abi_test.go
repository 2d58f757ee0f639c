package ir

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// TestNodeRefABISize is spec §6/§8: "sizeof(NodeRef) == 8" — NodeRef
// must be an 8-byte pointer-sized handle on a 64-bit host.
func TestNodeRefABISize(t *testing.T) {
	assert.Equal(t, uintptr(8), unsafe.Sizeof(NodeRef{}))
}
