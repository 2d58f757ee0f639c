package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

func TestModuleFromFragmentIsBlockKind(t *testing.T) {
	ctx := accelctx.CreateContext()
	entry := NewBlock(ctx)
	m := ModuleFromFragment(ctx, entry)

	assert.Equal(t, ModuleBlock, m.Kind)
	assert.Same(t, entry, m.Entry)
}

func TestShallowCloneSharesEntry(t *testing.T) {
	ctx := accelctx.CreateContext()
	entry := NewBlock(ctx)
	m := ModuleFromFragment(ctx, entry)

	clone := m.ShallowClone()
	assert.Equal(t, m.Kind, clone.Kind)
	assert.Same(t, m.Entry, clone.Entry, "shallow clone retains the same entry handle")
}

func TestCallableModuleArgsAreArgumentNodes(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)
	arg := b.Argument(r.Primitive(types.I32), true)
	block := b.Finish()

	cm := NewCallableModule(ctx, block, []NodeRef{arg})
	require.Len(t, cm.Args, 1)
	assert.Equal(t, InstrArgument, cm.Args[0].Get().Instruction.Kind)
	assert.True(t, cm.Args[0].Get().Instruction.ByValue)
}

func TestKernelModuleCaptureBindings(t *testing.T) {
	ctx := accelctx.CreateContext()
	r := ctx.Types
	b := NewBuilder(ctx)
	bufNode := b.Append(NewNode(ctx, r.Void(), Instruction{Kind: InstrBuffer}))
	block := b.Finish()

	km := NewKernelModule(ctx, block, []Capture{
		{Node: bufNode, Binding: NewBufferBinding(0xABCD, 0, 1024)},
	}, nil, nil)

	require.Len(t, km.Captures, 1)
	assert.Equal(t, BindingBuffer, km.Captures[0].Binding.Kind)
	assert.Equal(t, uint64(0xABCD), km.Captures[0].Binding.Handle)
}

func TestModuleTraceReachesEntryBlock(t *testing.T) {
	ctx := accelctx.CreateContext()
	entry := NewBlock(ctx)
	m := ModuleFromFragment(ctx, entry)

	refs := m.Trace()
	require.Len(t, refs, 1)
	assert.Same(t, entry, refs[0])
}
