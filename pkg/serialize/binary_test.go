package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accelir/pkg/accelctx"
	"accelir/pkg/ir"
	"accelir/pkg/types"
)

// TestBinaryRoundTripStructuralEquality is spec §8 scenario 7: "Binary
// round-trip... a structural-equality test, not a byte-for-byte one."
func TestBinaryRoundTripStructuralEquality(t *testing.T) {
	_, m := buildSampleModule(t)

	data, err := DumpBinary(m)
	require.NoError(t, err)

	loaded, err := LoadBinary(accelctx.CreateContext(), data)
	require.NoError(t, err)

	assert.Equal(t, m.Kind, loaded.Kind)
	origNodes := m.Entry.Nodes()
	loadedNodes := loaded.Entry.Nodes()
	require.Len(t, loadedNodes, len(origNodes))
	for i := range origNodes {
		assert.Equal(t, origNodes[i].Get().Instruction.Kind, loadedNodes[i].Get().Instruction.Kind)
		assert.Equal(t, origNodes[i].Get().Type.String(), loadedNodes[i].Get().Type.String())
	}
}

func TestBinaryRoundTripSwitch(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types

	caseBlock := ir.NewBlock(ctx)
	caseBlock.Push(ir.NewNode(ctx, r.Void(), ir.Instruction{Kind: ir.InstrBreak}))
	defaultBlock := ir.NewBlock(ctx)

	b := ir.NewBuilder(ctx)
	v := b.Const_(ir.NewInt32(r, 3))
	b.Switch_(v, defaultBlock, []ir.SwitchCase{{Value: 3, Block: caseBlock}})
	entry := b.Finish()
	m := ir.ModuleFromFragment(ctx, entry)

	data, err := DumpBinary(m)
	require.NoError(t, err)

	loaded, err := LoadBinary(accelctx.CreateContext(), data)
	require.NoError(t, err)

	loadedSwitch := loaded.Entry.Nodes()[1].Get().Instruction
	require.Equal(t, ir.InstrSwitch, loadedSwitch.Kind)
	require.Len(t, loadedSwitch.Cases, 1)
	assert.Equal(t, int32(3), loadedSwitch.Cases[0].Value)
	assert.Equal(t, 1, loadedSwitch.Cases[0].Block.Len())
	assert.Equal(t, 0, loadedSwitch.DefaultBlock.Len())
}

// TestBinaryRoundTripCrossBlockOperand is the binary-surface analogue
// of TestJSONRoundTripCrossBlockOperand: an outer-block Local stored to
// from inside a nested If branch must decode to a valid, correctly
// resolved NodeRef rather than InvalidRef.
func TestBinaryRoundTripCrossBlockOperand(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types

	b := ir.NewBuilder(ctx)
	local := b.LocalZeroInit(r.Primitive(types.I32))
	cond := b.Const_(ir.NewBool(r, true))

	trueBuilder := ir.NewBuilder(ctx)
	one := trueBuilder.Const_(ir.NewInt32(r, 1))
	trueBuilder.Store(local, one)
	trueBranch := trueBuilder.Finish()

	falseBranch := ir.NewBlock(ctx)
	b.If_(cond, trueBranch, falseBranch)
	entry := b.Finish()
	m := ir.ModuleFromFragment(ctx, entry)

	data, err := DumpBinary(m)
	require.NoError(t, err)

	loaded, err := LoadBinary(accelctx.CreateContext(), data)
	require.NoError(t, err)

	loadedIf := loaded.Entry.Nodes()[3].Get().Instruction
	loadedLocal := loaded.Entry.Nodes()[1]
	loadedUpdate := loadedIf.TrueBranch.Nodes()[1].Get().Instruction
	require.Equal(t, ir.InstrUpdate, loadedUpdate.Kind)
	assert.True(t, loadedUpdate.Var.Valid(), "cross-block operand must not decode to InvalidRef")
	assert.True(t, loadedUpdate.Var.Equal(loadedLocal))
}

func TestCpuCustomOpSerializesNameOnly(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types

	op := &ir.CpuCustomOp{Name: "my_custom_kernel"}
	b := ir.NewBuilder(ctx)
	arg := b.Const_(ir.NewInt32(r, 1))
	b.Call(ir.NewCpuCustomOpFunc(op), []ir.NodeRef{arg}, r.Primitive(0))
	entry := b.Finish()
	m := ir.ModuleFromFragment(ctx, entry)

	data, err := DumpBinary(m)
	require.NoError(t, err)

	loaded, err := LoadBinary(accelctx.CreateContext(), data)
	require.NoError(t, err)

	call := loaded.Entry.Nodes()[1].Get().Instruction
	require.NotNil(t, call.Fn.CustomOp)
	assert.Equal(t, "my_custom_kernel", call.Fn.CustomOp.Name)
	assert.Nil(t, call.Fn.CustomOp.Fn, "function pointers never survive a dump")
}
