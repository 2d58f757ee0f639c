package accelctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObj is a minimal Traceable used to exercise the collector without
// depending on pkg/ir (which itself depends on accelctx).
type fakeObj struct {
	name string
	refs []Traceable
}

func (f *fakeObj) Trace() []Traceable { return f.refs }

func TestCreateSetCurrentDestroyContext(t *testing.T) {
	ctx := CreateContext()
	SetContext(ctx)
	assert.Same(t, ctx, CurrentContext())

	DestroyContext(ctx)
	assert.Nil(t, CurrentContext())
}

func TestNextSeqIsMonotonicAndUnique(t *testing.T) {
	ctx := CreateContext()
	seen := make(map[uint64]bool)
	var last uint64
	for i := 0; i < 100; i++ {
		s := ctx.NextSeq()
		require.False(t, seen[s], "sequence numbers must be unique")
		seen[s] = true
		require.Greater(t, s, last)
		last = s
	}
}

func TestDestroyedContextPanicsOnUse(t *testing.T) {
	ctx := CreateContext()
	DestroyContext(ctx)
	assert.Panics(t, func() { ctx.NextSeq() })
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	ctx := CreateContext()

	root := &fakeObj{name: "root"}
	reachable := &fakeObj{name: "reachable"}
	root.refs = []Traceable{reachable}
	garbage := &fakeObj{name: "garbage"}

	ctx.AppendObject(root)
	ctx.AppendObject(reachable)
	ctx.AppendObject(garbage)
	ctx.SetRoot(root)

	stats := ctx.Collect()
	assert.Equal(t, 2, stats.Reachable)
	assert.Equal(t, 1, stats.Garbage)
	assert.Equal(t, 0, stats.Cycles)
}

func TestCollectToleratesAndCountsCycles(t *testing.T) {
	ctx := CreateContext()

	a := &fakeObj{name: "a"}
	b := &fakeObj{name: "b"}
	a.refs = []Traceable{b}
	b.refs = []Traceable{a}

	root := &fakeObj{name: "root"}

	ctx.AppendObject(root)
	ctx.AppendObject(a)
	ctx.AppendObject(b)
	ctx.SetRoot(root)

	stats := ctx.Collect()
	assert.Equal(t, 1, stats.Reachable)
	assert.Equal(t, 2, stats.Garbage)
	assert.Equal(t, 1, stats.Cycles, "a<->b is an unreachable 2-cycle")
}

func TestUnsetRootMakesObjectCollectible(t *testing.T) {
	ctx := CreateContext()
	root := &fakeObj{name: "root"}
	ctx.AppendObject(root)
	ctx.SetRoot(root)
	ctx.UnsetRoot(root)

	stats := ctx.Collect()
	assert.Equal(t, 0, stats.Reachable)
	assert.Equal(t, 1, stats.Garbage)
}
