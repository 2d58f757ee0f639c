package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

func TestNewBlockIsEmptyWithLinkedSentinels(t *testing.T) {
	ctx := accelctx.CreateContext()
	b := NewBlock(ctx)

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.First().Prev().Valid(), "first.prev == INVALID_REF")
	assert.False(t, b.Last().Next().Valid(), "last.next == INVALID_REF")
	assert.True(t, b.checkIntegrity())
}

func TestPushAppendsInOrder(t *testing.T) {
	ctx := accelctx.CreateContext()
	block := NewBlock(ctx)
	r := ctx.Types

	n1 := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 1)})
	n2 := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 2)})

	block.Push(n1)
	block.Push(n2)

	nodes := block.Nodes()
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].Equal(n1))
	assert.True(t, nodes[1].Equal(n2))
	assert.True(t, block.checkIntegrity())
}

func TestIntoVecUnlinksEveryNode(t *testing.T) {
	ctx := accelctx.CreateContext()
	block := NewBlock(ctx)
	r := ctx.Types

	for i := 0; i < 3; i++ {
		n := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, int32(i))})
		block.Push(n)
	}

	nodes := block.IntoVec()
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.False(t, n.IsLinked())
	}
	assert.True(t, block.IsEmpty())
}

func TestListIntegrityHoldsAfterRemove(t *testing.T) {
	ctx := accelctx.CreateContext()
	block := NewBlock(ctx)
	r := ctx.Types

	n1 := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 1)})
	n2 := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 2)})
	n3 := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 3)})
	block.Push(n1)
	block.Push(n2)
	block.Push(n3)

	n2.Remove()

	assert.False(t, n2.IsLinked())
	assert.Equal(t, 2, block.Len())
	assert.True(t, block.checkIntegrity())

	nodes := block.Nodes()
	assert.True(t, nodes[0].Equal(n1))
	assert.True(t, nodes[1].Equal(n3))
}

func TestRemoveSentinelPanics(t *testing.T) {
	ctx := accelctx.CreateContext()
	block := NewBlock(ctx)
	assert.Panics(t, func() { block.First().Remove() })
}
