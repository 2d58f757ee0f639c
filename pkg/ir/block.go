package ir

import (
	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

// BasicBlock is the sentinel-anchored doubly-linked list described in
// spec §3/§4.5 (C5): two Void/Invalid sentinels, first and last, with
// real nodes living strictly between them.
type BasicBlock struct {
	ctx   *accelctx.Context
	first NodeRef
	last  NodeRef
}

// NewBlock allocates an empty block: two freshly linked sentinel
// nodes. Registers itself with ctx's collector (append_object, spec
// §6) since blocks are shared objects (spec §3 "Ownership").
func NewBlock(ctx *accelctx.Context) *BasicBlock {
	void := ctx.Types.Void()
	first := newSentinel(ctx, void)
	last := newSentinel(ctx, void)
	first.n.next = last
	last.n.prev = first
	b := &BasicBlock{ctx: ctx, first: first, last: last}
	ctx.AppendObject(b)
	return b
}

// First returns the head sentinel.
func (b *BasicBlock) First() NodeRef { return b.first }

// Last returns the tail sentinel.
func (b *BasicBlock) Last() NodeRef { return b.last }

// IsEmpty reports whether the block has no real nodes (spec §4.5
// "is_empty()").
func (b *BasicBlock) IsEmpty() bool { return b.first.n.next.Equal(b.last) }

// Push appends n immediately before the tail sentinel (spec §4.5
// "push(n)"). Precondition: n is not linked.
func (b *BasicBlock) Push(n NodeRef) {
	b.last.InsertBefore(n)
}

// Nodes returns the real nodes in traversal order, excluding
// sentinels (spec §4.5 "nodes()").
func (b *BasicBlock) Nodes() []NodeRef {
	var out []NodeRef
	for n := b.first.n.next; !n.Equal(b.last); n = n.n.next {
		out = append(out, n)
	}
	return out
}

// Len returns the number of real nodes, O(n) (spec §4.5 "len()").
func (b *BasicBlock) Len() int { return len(b.Nodes()) }

// IntoVec destructively walks the block, returning its real nodes and
// resetting each one's prev/next so none remains linked (spec §4.5
// "into_vec()"). The block itself becomes empty but stays valid to
// push into again.
func (b *BasicBlock) IntoVec() []NodeRef {
	nodes := b.Nodes()
	for _, n := range nodes {
		n.n.prev = InvalidRef
		n.n.next = InvalidRef
	}
	b.first.n.next = b.last
	b.last.n.prev = b.first
	return nodes
}

// checkIntegrity walks first→…→last and verifies the doubly-linked
// list invariant from spec §8 ("List integrity"): every visited node
// n satisfies n.prev.next == n and n.next.prev == n, and last is
// reached in finitely many steps. Used by tests, not by production
// code paths (the builder/BasicBlock API cannot by construction break
// this invariant).
func (b *BasicBlock) checkIntegrity() bool {
	seen := make(map[*node]bool)
	cur := b.first
	for {
		if seen[cur.n] {
			return false // cycle: would never terminate
		}
		seen[cur.n] = true
		if cur.Equal(b.last) {
			return true
		}
		nxt := cur.n.next
		if !nxt.Valid() {
			return false
		}
		if !nxt.n.prev.Equal(cur) {
			return false
		}
		cur = nxt
	}
}

// Trace enumerates every block a contained node's instruction owns
// (If/Loop/GenericLoop/Switch/Phi sub-blocks), so the collector can
// walk through a block into everything it keeps alive (spec §5/§9).
func (b *BasicBlock) Trace() []accelctx.Traceable {
	var out []accelctx.Traceable
	for _, n := range b.Nodes() {
		out = append(out, n.n.inst.Trace()...)
	}
	return out
}

// voidType is a small convenience used by callers that need Void
// without holding onto a *types.Registry separately from the context.
func voidType(ctx *accelctx.Context) types.Handle { return ctx.Types.Void() }
