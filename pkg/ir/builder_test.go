package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

// TestLocalStoreLoadRoundTrip is spec §8 concrete scenario 3.
func TestLocalStoreLoadRoundTrip(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)

	local := b.LocalZeroInit(r.Primitive(types.I32))
	c := b.Const_(NewInt32(r, 7))
	b.Store(local, c)

	block := b.Finish()
	nodes := block.Nodes()
	require.Len(t, nodes, 4)

	assert.Equal(t, InstrCall, nodes[0].Get().Instruction.Kind)
	assert.Equal(t, OpZeroInitializer, nodes[0].Get().Instruction.Fn.Op)
	assert.Equal(t, InstrLocal, nodes[1].Get().Instruction.Kind)
	assert.Equal(t, InstrConst, nodes[2].Get().Instruction.Kind)
	assert.Equal(t, InstrUpdate, nodes[3].Get().Instruction.Kind)
	assert.True(t, nodes[3].Get().Instruction.Var.Equal(local))
	assert.True(t, nodes[3].Get().Instruction.Value.Equal(c))
}

func TestBuilderLocalityAfterAppend(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)

	n := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, 1)})
	result := b.Append(n)

	assert.True(t, result.Equal(n))
	assert.True(t, n.IsLinked())
}

// TestIfConstruction is spec §8 concrete scenario 4.
func TestIfConstruction(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	trueBlock := NewBlock(ctx)
	falseBlock := NewBlock(ctx)

	b := NewBuilder(ctx)
	cond := b.Const_(NewBool(r, true))
	ifNode := b.If_(cond, trueBlock, falseBlock)

	view := ifNode.Get()
	require.Equal(t, InstrIf, view.Instruction.Kind)
	assert.True(t, view.Instruction.Cond.Equal(cond))
	assert.Same(t, trueBlock, view.Instruction.TrueBranch)
	assert.Same(t, falseBlock, view.Instruction.FalseBranch)
	assert.Equal(t, r.Void(), view.Type)
}

// TestLoopBodyUnlinking is spec §8 concrete scenario 5.
func TestLoopBodyUnlinking(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	body := NewBlock(ctx)
	for i := 0; i < 3; i++ {
		body.Push(NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrConst, ConstValue: NewInt32(r, int32(i))}))
	}

	nodes := body.IntoVec()
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.False(t, n.IsLinked())
	}
}

func TestUpdateRequiresLvalue(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)

	notLvalue := b.Const_(NewInt32(r, 1))
	value := b.Const_(NewInt32(r, 2))
	assert.Panics(t, func() { b.Update(notLvalue, value) })
}

func TestGetElementPtrCallIsLvalue(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)

	aggregate := b.LocalZeroInit(r.Struct([]types.Handle{r.Primitive(types.I32)}, 4, 4))
	idx := b.Const_(NewInt32(r, 0))
	gep := b.Call(NewFunc(OpGetElementPtr), []NodeRef{aggregate, idx}, r.Primitive(types.I32))

	assert.True(t, gep.IsLvalue())
	value := b.Const_(NewInt32(r, 42))
	assert.NotPanics(t, func() { b.Update(gep, value) })
}

func TestFinishedBuilderPanicsOnReuse(t *testing.T) {
	ctx := accelctx.CreateContext()
	b := NewBuilder(ctx)
	b.Finish()
	assert.Panics(t, func() { b.Break_() })
}

// TestPhiJoinsValuesAcrossBlocks exercises Phi's cross-block join
// shape: each incoming value is produced inside its own block, and the
// Phi node itself lives in the (third, joining) block.
func TestPhiJoinsValuesAcrossBlocks(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types

	leftBlock := NewBuilder(ctx)
	leftVal := leftBlock.Const_(NewInt32(r, 1))
	left := leftBlock.Finish()

	rightBlock := NewBuilder(ctx)
	rightVal := rightBlock.Const_(NewInt32(r, 2))
	right := rightBlock.Finish()

	b := NewBuilder(ctx)
	phi := b.Phi([]PhiIncoming{
		{Value: leftVal, Block: left},
		{Value: rightVal, Block: right},
	}, r.Primitive(types.I32))

	view := phi.Get()
	require.Equal(t, InstrPhi, view.Instruction.Kind)
	require.Len(t, view.Instruction.Incomings, 2)
	assert.True(t, view.Instruction.Incomings[0].Value.Equal(leftVal))
	assert.Same(t, left, view.Instruction.Incomings[0].Block)
	assert.True(t, view.Instruction.Incomings[1].Value.Equal(rightVal))
	assert.Same(t, right, view.Instruction.Incomings[1].Block)
}

// TestGenericLoopConstruction exercises GenericLoop{prepare, cond,
// body, update}, the general form behind Loop_.
func TestGenericLoopConstruction(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types

	prepare := NewBlock(ctx)
	counter := NewNode(ctx, r.Primitive(types.I32), Instruction{Kind: InstrLocal, Init: InvalidRef})
	prepare.Push(counter)

	body := NewBlock(ctx)
	body.Push(NewNode(ctx, r.Void(), Instruction{Kind: InstrBreak}))

	update := NewBlock(ctx)
	update.Push(NewNode(ctx, r.Void(), Instruction{Kind: InstrContinue}))

	b := NewBuilder(ctx)
	cond := b.Const_(NewBool(r, true))
	loopNode := b.GenericLoop(prepare, body, update, cond)

	view := loopNode.Get()
	require.Equal(t, InstrGenericLoop, view.Instruction.Kind)
	assert.Same(t, prepare, view.Instruction.Prepare)
	assert.Same(t, body, view.Instruction.Body)
	assert.Same(t, update, view.Instruction.Update)
	assert.True(t, view.Instruction.Cond.Equal(cond))
}

