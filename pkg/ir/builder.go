package ir

import (
	"fmt"

	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

// Builder is the cursor-based block construction API described in
// spec §4.6 (C6). State is exactly {block, insert_point}: insert_point
// is always a node of block, initially the head sentinel.
type Builder struct {
	ctx         *accelctx.Context
	block       *BasicBlock
	insertPoint NodeRef
	finished    bool
}

// NewBuilder allocates a fresh block and a builder positioned at its
// head sentinel.
func NewBuilder(ctx *accelctx.Context) *Builder {
	b := NewBlock(ctx)
	return &Builder{ctx: ctx, block: b, insertPoint: b.First()}
}

// NewBuilderFor positions a builder over an already-existing block, at
// its head sentinel — used by the module cloner (C9) when it pushes a
// fresh builder for each contained block it clones (spec §4.8).
func NewBuilderFor(ctx *accelctx.Context, block *BasicBlock) *Builder {
	return &Builder{ctx: ctx, block: block, insertPoint: block.First()}
}

func (b *Builder) requireLive() {
	if b.finished {
		panic("ir: use of a Builder after Finish")
	}
}

func (b *Builder) voidType() types.Handle { return b.ctx.Types.Void() }

// emit allocates a fresh node, splices it after the insert point, then
// advances the insert point to it — the shared tail of every
// builder-created instruction (spec §4.6: "splice after insert_point,
// then advance insert_point to the new node, unless noted").
func (b *Builder) emit(typ types.Handle, inst Instruction) NodeRef {
	n := NewNode(b.ctx, typ, inst)
	b.insertPoint.InsertAfter(n)
	b.insertPoint = n
	return n
}

// Append splices an existing, unlinked node after the insert point and
// advances to it (spec §4.6 "append(n)").
func (b *Builder) Append(n NodeRef) NodeRef {
	b.requireLive()
	b.insertPoint.InsertAfter(n)
	b.insertPoint = n
	return n
}

// SetInsertPoint moves the cursor (spec §4.6 "set_insert_point(n)").
func (b *Builder) SetInsertPoint(n NodeRef) {
	b.requireLive()
	b.insertPoint = n
}

// Break_ emits a Break node.
func (b *Builder) Break_() NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrBreak})
}

// Continue_ emits a Continue node.
func (b *Builder) Continue_() NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrContinue})
}

// Const_ emits a Const node (spec §4.6 "const_(c)").
func (b *Builder) Const_(c Const) NodeRef {
	b.requireLive()
	return b.emit(c.Type(), Instruction{Kind: InstrConst, ConstValue: c})
}

// ZeroInitializer emits Call(ZeroInitializer) typed t (spec §4.6
// "zero_initializer(t)"; spec §4.4 "arity 0, return type = node's
// declared type").
func (b *Builder) ZeroInitializer(t types.Handle) NodeRef {
	b.requireLive()
	return b.emit(t, Instruction{Kind: InstrCall, Fn: NewFunc(OpZeroInitializer)})
}

// Argument emits a callable/kernel formal (spec §3 "Argument{by_value:
// bool}"). Not part of the original C6 interface list — the spec's
// data model requires it wherever CallableModule/KernelModule args and
// the cloner's Argument case construct new formals.
func (b *Builder) Argument(t types.Handle, byValue bool) NodeRef {
	b.requireLive()
	return b.emit(t, Instruction{Kind: InstrArgument, ByValue: byValue})
}

// Local emits a Local node wrapping an already-built init operand
// (spec §4.6 "local(init)").
func (b *Builder) Local(init NodeRef) NodeRef {
	b.requireLive()
	return b.emit(init.Type_(), Instruction{Kind: InstrLocal, Init: init})
}

// LocalZeroInit emits a zero-init call followed by a Local wrapping it
// (spec §4.6 "local_zero_init(t)"; spec §8 scenario 3).
func (b *Builder) LocalZeroInit(t types.Handle) NodeRef {
	b.requireLive()
	zero := b.ZeroInitializer(t)
	return b.Local(zero)
}

func (b *Builder) requireLvalue(v NodeRef, op string) {
	if !v.IsLvalue() {
		panic(fmt.Sprintf("ir: Builder.%s requires var to be an lvalue (Local or GetElementPtr call)", op))
	}
}

// Update emits Update{var, value}; var must be a Local or a
// Call(GetElementPtr, …) — fatal caller error otherwise (spec §4.6).
func (b *Builder) Update(v, value NodeRef) NodeRef {
	b.requireLive()
	b.requireLvalue(v, "Update")
	return b.emit(b.voidType(), Instruction{Kind: InstrUpdate, Var: v, Value: value})
}

// Store is Update under another name (spec §4.6: "store(var, value)
// (equivalent to update; requires lvalue)").
func (b *Builder) Store(v, value NodeRef) NodeRef {
	b.requireLive()
	b.requireLvalue(v, "Store")
	return b.emit(b.voidType(), Instruction{Kind: InstrUpdate, Var: v, Value: value})
}

// Call emits Call(fn, args) typed retType (spec §4.6 "call(func, args,
// ret_type)").
func (b *Builder) Call(fn Func, args []NodeRef, retType types.Handle) NodeRef {
	b.requireLive()
	owned := make([]NodeRef, len(args))
	copy(owned, args)
	return b.emit(retType, Instruction{Kind: InstrCall, Fn: fn, Args: owned})
}

// Cast emits Call(Cast, [n]) typed t (spec §4.6 "cast(n, t)").
func (b *Builder) Cast(n NodeRef, t types.Handle) NodeRef {
	b.requireLive()
	return b.emit(t, Instruction{Kind: InstrCall, Fn: NewFunc(OpCast), Args: []NodeRef{n}})
}

// Bitcast emits Call(Bitcast, [n]) typed t (spec §4.6 "bitcast(n, t)").
func (b *Builder) Bitcast(n NodeRef, t types.Handle) NodeRef {
	b.requireLive()
	return b.emit(t, Instruction{Kind: InstrCall, Fn: NewFunc(OpBitcast), Args: []NodeRef{n}})
}

// Phi emits a block-selected join (spec §4.6 "phi(incomings, t)").
func (b *Builder) Phi(incomings []PhiIncoming, t types.Handle) NodeRef {
	b.requireLive()
	owned := make([]PhiIncoming, len(incomings))
	copy(owned, incomings)
	return b.emit(t, Instruction{Kind: InstrPhi, Incomings: owned})
}

// If_ emits If{cond, trueBranch, falseBranch}, typed Void (spec §4.6
// "if_(cond, true_block, false_block)"; spec §8 scenario 4).
func (b *Builder) If_(cond NodeRef, trueBranch, falseBranch *BasicBlock) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{
		Kind: InstrIf, Cond: cond, TrueBranch: trueBranch, FalseBranch: falseBranch,
	})
}

// Loop_ emits Loop{body, cond}, typed Void (spec §4.6 "loop_(body,
// cond)").
func (b *Builder) Loop_(body *BasicBlock, cond NodeRef) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrLoop, Body: body, Cond: cond})
}

// GenericLoop emits GenericLoop{prepare, cond, body, update}, typed
// Void — the general form of Loop_ (spec §3 "Instruction").
func (b *Builder) GenericLoop(prepare, body, update *BasicBlock, cond NodeRef) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{
		Kind: InstrGenericLoop, Prepare: prepare, Body: body, Update: update, Cond: cond,
	})
}

// Switch_ emits Switch{value, default, cases}, typed Void.
func (b *Builder) Switch_(value NodeRef, defaultBlock *BasicBlock, cases []SwitchCase) NodeRef {
	b.requireLive()
	owned := make([]SwitchCase, len(cases))
	copy(owned, cases)
	return b.emit(b.voidType(), Instruction{
		Kind: InstrSwitch, SwitchValue: value, DefaultBlock: defaultBlock, Cases: owned,
	})
}

// Return emits Return(n).
func (b *Builder) Return(n NodeRef) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrReturn, ReturnValue: n})
}

// Comment emits a passthrough Comment annotation.
func (b *Builder) Comment(text []byte) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrComment, Text: append([]byte(nil), text...)})
}

// Debug emits a passthrough Debug annotation.
func (b *Builder) Debug(text []byte) NodeRef {
	b.requireLive()
	return b.emit(b.voidType(), Instruction{Kind: InstrDebug, Text: append([]byte(nil), text...)})
}

// RequiresGradient emits Call(RequiresGradient, [n]), typed as n's own
// type (spec §4.6 "requires_gradient(n)").
func (b *Builder) RequiresGradient(n NodeRef) NodeRef {
	b.requireLive()
	return b.emit(n.Type_(), Instruction{Kind: InstrCall, Fn: NewFunc(OpRequiresGradient), Args: []NodeRef{n}})
}

// Gradient emits Call(Gradient, [n]), typed as n's own type (spec
// §4.6 "gradient(n)").
func (b *Builder) Gradient(n NodeRef) NodeRef {
	b.requireLive()
	return b.emit(n.Type_(), Instruction{Kind: InstrCall, Fn: NewFunc(OpGradient), Args: []NodeRef{n}})
}

// CloneNode appends a new node sharing n's instruction and type handle
// — a structural clone of the record, not a deep copy of the
// instruction (spec §4.6 "clone_node(n)").
func (b *Builder) CloneNode(n NodeRef) NodeRef {
	b.requireLive()
	view := n.Get()
	return b.emit(view.Type, view.Instruction)
}

// Finish returns the block and consumes the builder (spec §4.6
// "finish()").
func (b *Builder) Finish() *BasicBlock {
	b.requireLive()
	b.finished = true
	return b.block
}

// Block exposes the block under construction without consuming the
// builder — used by the cloner, which needs to keep appending to a
// block across several dispatch cases before a final Finish.
func (b *Builder) Block() *BasicBlock { return b.block }
