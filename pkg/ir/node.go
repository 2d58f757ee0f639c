package ir

import (
	"fmt"

	"accelir/pkg/accelctx"
	"accelir/pkg/types"
)

// InstrKind discriminates the Instruction tagged union (spec §3
// "Instruction").
type InstrKind uint8

const (
	InstrBuffer InstrKind = iota
	InstrBindless
	InstrTexture2D
	InstrTexture3D
	InstrAccel
	InstrShared
	InstrUniform
	InstrLocal
	InstrArgument
	InstrUserData
	InstrInvalid
	InstrConst
	InstrUpdate
	InstrCall
	InstrPhi
	InstrReturn
	InstrLoop
	InstrGenericLoop
	InstrBreak
	InstrContinue
	InstrIf
	InstrSwitch
	InstrComment
	InstrDebug
)

var instrKindNames = [...]string{
	"Buffer", "Bindless", "Texture2D", "Texture3D", "Accel", "Shared", "Uniform",
	"Local", "Argument", "UserData", "Invalid", "Const", "Update", "Call",
	"Phi", "Return", "Loop", "GenericLoop", "Break", "Continue", "If",
	"Switch", "Comment", "Debug",
}

func (k InstrKind) String() string {
	if int(k) < len(instrKindNames) {
		return instrKindNames[k]
	}
	return fmt.Sprintf("InstrKind(%d)", uint8(k))
}

// PhiIncoming is one arm of a Phi join (spec §3: "sequence of {value,
// block}").
type PhiIncoming struct {
	Value NodeRef
	Block *BasicBlock
}

// SwitchCase is one arm of a Switch (spec §3: "cases: sequence of
// {value, block}").
type SwitchCase struct {
	Value int32
	Block *BasicBlock
}

// Instruction is the sum type described in spec §3. Like the
// teacher's ast.Value, it is one struct with a Kind discriminant and a
// field per variant, switched on explicitly rather than modeled as an
// interface hierarchy (spec §9, "Dynamic dispatch on instructions").
type Instruction struct {
	Kind InstrKind

	// Local: a mutable cell initialized by Init.
	Init NodeRef

	// Argument: a callable/kernel formal.
	ByValue bool

	// UserData: host-owned opaque side data, carried unchanged.
	UserData uint64

	// Const.
	ConstValue Const

	// Update: var must be an lvalue.
	Var   NodeRef
	Value NodeRef

	// Call: applies Fn to Args.
	Fn   Func
	Args []NodeRef

	// Phi.
	Incomings []PhiIncoming

	// Return.
	ReturnValue NodeRef

	// Loop{body, cond}.
	Body *BasicBlock
	Cond NodeRef

	// GenericLoop{prepare, cond, body, update}.
	Prepare *BasicBlock
	Update  *BasicBlock

	// If{cond, true_branch, false_branch} (Cond shared with Loop above).
	TrueBranch  *BasicBlock
	FalseBranch *BasicBlock

	// Switch{value, default, cases}.
	SwitchValue   NodeRef
	DefaultBlock  *BasicBlock
	Cases         []SwitchCase

	// Comment / Debug: passthrough annotation bytes.
	Text []byte
}

// Trace enumerates every shared reference Instruction owns, for the
// collector described in spec §5/§9. Every variant is covered — spec
// §9 flags Argument, Comment, and GenericLoop as historically
// incomplete in the Trace walker; accelir closes all of them.
func (in Instruction) Trace() []accelctx.Traceable {
	var out []accelctx.Traceable
	add := func(b *BasicBlock) {
		if b != nil {
			out = append(out, b)
		}
	}
	switch in.Kind {
	case InstrLoop:
		add(in.Body)
	case InstrGenericLoop:
		add(in.Prepare)
		add(in.Body)
		add(in.Update)
	case InstrIf:
		add(in.TrueBranch)
		add(in.FalseBranch)
	case InstrSwitch:
		add(in.DefaultBlock)
		for _, c := range in.Cases {
			add(c.Block)
		}
	case InstrPhi:
		for _, inc := range in.Incomings {
			add(inc.Block)
		}
	// Buffer, Bindless, Texture2D, Texture3D, Accel, Shared, Uniform,
	// Local, Argument, UserData, Invalid, Const, Update, Call, Return,
	// Break, Continue, Comment, Debug: no owned blocks. Operand NodeRefs
	// (Init/Var/Value/Args/ReturnValue/SwitchValue/Cond) are node-graph
	// edges, not owned shared objects — the owning block/context tracks
	// node lifetime, so they are intentionally not traced here.
	default:
	}
	return out
}

// node is the mutable record a NodeRef refers to (spec §3 "Node").
// Allocated once and never moved; NodeRef holds a pointer to it so
// that NodeRef is itself pointer-sized (spec §6 ABI requirement).
type node struct {
	typ  types.Handle
	inst Instruction

	next, prev NodeRef
	seq        uint64
	sentinel   bool
}

// NodeRef is the opaque, pointer-sized stable handle described in
// spec §3/§6. The zero value is INVALID_REF.
type NodeRef struct {
	n *node
}

// InvalidRef is the reserved zero NodeRef.
var InvalidRef = NodeRef{}

// NewNode allocates a node with the given type and instruction,
// unlinked, and assigns it a context-unique sequence number (foreign
// entry point new_node, spec §6).
func NewNode(ctx *accelctx.Context, typ types.Handle, inst Instruction) NodeRef {
	return NodeRef{n: &node{typ: typ, inst: inst, seq: ctx.NextSeq()}}
}

func newSentinel(ctx *accelctx.Context, voidType types.Handle) NodeRef {
	r := NewNode(ctx, voidType, Instruction{Kind: InstrInvalid})
	r.n.sentinel = true
	return r
}

// Valid reports whether r names an actual node (valid(), spec §4.3).
func (r NodeRef) Valid() bool { return r.n != nil }

// Equal reports identity equality: two NodeRefs are equal iff they
// name the same node.
func (r NodeRef) Equal(other NodeRef) bool { return r.n == other.n }

// SeqID exposes the node's allocation sequence number for use as a
// stable, serializable identifier in dumps (spec §4.9's "{id, data}"
// pairs). It carries no ABI meaning beyond one context's lifetime.
func (r NodeRef) SeqID() uint64 {
	r.requireValid("NodeRef.SeqID")
	return r.n.seq
}

// Less gives a deterministic total order over NodeRefs within one
// context, by allocation sequence — the ordering supplement described
// in SPEC_FULL §5. InvalidRef sorts before every valid NodeRef. The
// dump surfaces in pkg/serialize do not call it.
func (r NodeRef) Less(other NodeRef) bool {
	if !r.Valid() || !other.Valid() {
		return !r.Valid() && other.Valid()
	}
	return r.n.seq < other.n.seq
}

func (r NodeRef) requireValid(op string) {
	if !r.Valid() {
		panic(fmt.Sprintf("ir: %s on INVALID_REF", op))
	}
}

// NodeView is the read-only snapshot returned by Get (spec §4.3
// "get()"). It deliberately excludes next/prev: traversal goes through
// Next/Prev/IsLinked, not through mutating the view.
type NodeView struct {
	Type        types.Handle
	Instruction Instruction
}

// Get returns a read-only view of the node (get()).
func (r NodeRef) Get() NodeView {
	r.requireValid("NodeRef.Get")
	return NodeView{Type: r.n.typ, Instruction: r.n.inst}
}

// Update applies f to a mutable copy of the node's view and writes the
// result back. The mutation cannot reparent the node into a different
// block because Next/Prev are not exposed through NodeView (spec
// §4.3: "the mutation is not permitted to reparent the node").
func (r NodeRef) Update(f func(*NodeView)) {
	r.requireValid("NodeRef.Update")
	view := NodeView{Type: r.n.typ, Instruction: r.n.inst}
	f(&view)
	r.n.typ = view.Type
	r.n.inst = view.Instruction
}

// Set replaces the node's type and instruction in place, preserving
// the node's identity and position in its list (set(), spec §4.3).
func (r NodeRef) Set(typ types.Handle, inst Instruction) {
	r.requireValid("NodeRef.Set")
	r.n.typ = typ
	r.n.inst = inst
}

// Type_ returns the node's type handle.
func (r NodeRef) Type_() types.Handle {
	r.requireValid("NodeRef.Type_")
	return r.n.typ
}

// Next returns the next node in list order, or InvalidRef.
func (r NodeRef) Next() NodeRef {
	r.requireValid("NodeRef.Next")
	return r.n.next
}

// Prev returns the previous node in list order, or InvalidRef.
func (r NodeRef) Prev() NodeRef {
	r.requireValid("NodeRef.Prev")
	return r.n.prev
}

// IsLinked reports whether at least one of prev/next is valid (spec
// §4.3 "is_linked()").
func (r NodeRef) IsLinked() bool {
	r.requireValid("NodeRef.IsLinked")
	return r.n.prev.Valid() || r.n.next.Valid()
}

// IsLvalue reports whether the node may appear as the var operand of
// Update: a Local, or a Call(GetElementPtr, …) (spec §3 glossary).
func (r NodeRef) IsLvalue() bool {
	r.requireValid("NodeRef.IsLvalue")
	switch r.n.inst.Kind {
	case InstrLocal:
		return true
	case InstrCall:
		return r.n.inst.Fn.Op == OpGetElementPtr
	default:
		return false
	}
}

// GetI32 returns the int32 of a Const(Int32) node — a convenience
// wrapper over Const.GetI32 (spec §4.3 "get_i32()").
func (r NodeRef) GetI32() int32 {
	r.requireValid("NodeRef.GetI32")
	if r.n.inst.Kind != InstrConst {
		panic("ir: NodeRef.GetI32 called on a non-Const node")
	}
	return r.n.inst.ConstValue.GetI32()
}

// Remove splices r out of its list, unlinking both sides and
// resetting r's own prev/next (spec §4.3 "remove()"). Sentinels may
// never be removed.
func (r NodeRef) Remove() {
	r.requireValid("NodeRef.Remove")
	if r.n.sentinel {
		panic("ir: cannot remove a sentinel node")
	}
	prev, next := r.n.prev, r.n.next
	if prev.Valid() {
		prev.n.next = next
	}
	if next.Valid() {
		next.n.prev = prev
	}
	r.n.prev = InvalidRef
	r.n.next = InvalidRef
}

// InsertBefore splices other into r's list immediately before r (spec
// §4.3 "insert_before(other)"). Precondition: other is not linked.
func (r NodeRef) InsertBefore(other NodeRef) {
	r.requireValid("NodeRef.InsertBefore")
	other.requireValid("NodeRef.InsertBefore(other)")
	if other.IsLinked() {
		panic("ir: InsertBefore requires an unlinked node")
	}
	prev := r.n.prev
	other.n.prev = prev
	other.n.next = r
	if prev.Valid() {
		prev.n.next = other
	}
	r.n.prev = other
}

// InsertAfter splices other into r's list immediately after r (spec
// §4.3 "insert_after(other)"). Precondition: other is not linked.
func (r NodeRef) InsertAfter(other NodeRef) {
	r.requireValid("NodeRef.InsertAfter")
	other.requireValid("NodeRef.InsertAfter(other)")
	if other.IsLinked() {
		panic("ir: InsertAfter requires an unlinked node")
	}
	next := r.n.next
	other.n.next = next
	other.n.prev = r
	if next.Valid() {
		next.n.prev = other
	}
	r.n.next = other
}
