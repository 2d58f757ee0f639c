// Package serialize implements the three dump surfaces described in
// spec §4.9 (C8): a JSON tree encoding, a compact self-describing
// binary encoding (via github.com/vmihailenco/msgpack/v5), and a
// minimal human-readable stand-in for the externally-owned
// pretty-printer collaborator. All three are read-only over the
// module they dump.
package serialize

import (
	"fmt"

	"accelir/pkg/accelctx"
	"accelir/pkg/ir"
	"accelir/pkg/types"
)

// wireType is the serializable mirror of a types.Handle. Recursive:
// Vector/Matrix element and Array element nest another wireType,
// Struct nests one per field.
type wireType struct {
	Kind string `json:"kind" msgpack:"kind"`

	Primitive string `json:"primitive,omitempty" msgpack:"primitive,omitempty"`

	ElementIsVector  bool       `json:"element_is_vector,omitempty" msgpack:"element_is_vector,omitempty"`
	ElementPrimitive string     `json:"element_primitive,omitempty" msgpack:"element_primitive,omitempty"`
	ElementVector    *wireType  `json:"element_vector,omitempty" msgpack:"element_vector,omitempty"`
	Length           uint32     `json:"length,omitempty" msgpack:"length,omitempty"`

	Fields      []wireType `json:"fields,omitempty" msgpack:"fields,omitempty"`
	StructSize  uint64     `json:"size,omitempty" msgpack:"size,omitempty"`
	StructAlign uint64     `json:"align,omitempty" msgpack:"align,omitempty"`

	ArrayElement *wireType `json:"array_element,omitempty" msgpack:"array_element,omitempty"`
}

var primitiveNames = map[types.Primitive]string{
	types.Bool: "bool", types.I32: "i32", types.U32: "u32",
	types.I64: "i64", types.U64: "u64", types.F32: "f32", types.F64: "f64",
}

var primitiveByName = func() map[string]types.Primitive {
	m := make(map[string]types.Primitive, len(primitiveNames))
	for p, n := range primitiveNames {
		m[n] = p
	}
	return m
}()

func encodeType(h types.Handle) wireType {
	switch h.Kind() {
	case types.Void:
		return wireType{Kind: "void"}
	case types.PrimitiveKind:
		return wireType{Kind: "primitive", Primitive: primitiveNames[h.Primitive()]}
	case types.VectorKind, types.MatrixKind:
		kind := "vector"
		if h.Kind() == types.MatrixKind {
			kind = "matrix"
		}
		w := wireType{Kind: kind, Length: h.ArrayLength(), ElementIsVector: h.ElementIsVector()}
		if h.ElementIsVector() {
			ev := encodeType(h.ElementVector())
			w.ElementVector = &ev
		} else {
			w.ElementPrimitive = primitiveNames[h.ElementPrimitive()]
		}
		return w
	case types.StructKind:
		fields := make([]wireType, len(h.Fields()))
		for i, f := range h.Fields() {
			fields[i] = encodeType(f)
		}
		return wireType{Kind: "struct", Fields: fields, StructSize: h.Size(), StructAlign: h.Alignment()}
	case types.ArrayKind:
		elem := encodeType(h.ArrayElement())
		return wireType{Kind: "array", ArrayElement: &elem, Length: h.ArrayLength()}
	default:
		panic(fmt.Sprintf("serialize: unknown type kind %v", h.Kind()))
	}
}

func decodeType(r *types.Registry, w wireType) types.Handle {
	switch w.Kind {
	case "void":
		return r.Void()
	case "primitive":
		return r.Primitive(primitiveByName[w.Primitive])
	case "vector", "matrix":
		var elem types.Handle
		if w.ElementIsVector {
			elem = decodeType(r, *w.ElementVector)
			if w.Kind == "vector" {
				return r.VectorVector(elem, w.Length)
			}
			return r.MatrixVector(elem, w.Length)
		}
		p := primitiveByName[w.ElementPrimitive]
		if w.Kind == "vector" {
			return r.Vector(p, w.Length)
		}
		return r.Matrix(p, w.Length)
	case "struct":
		fields := make([]types.Handle, len(w.Fields))
		for i, f := range w.Fields {
			fields[i] = decodeType(r, f)
		}
		return r.Struct(fields, w.StructSize, w.StructAlign)
	case "array":
		elem := decodeType(r, *w.ArrayElement)
		return r.Array(elem, w.Length)
	default:
		panic(fmt.Sprintf("serialize: unknown wire type kind %q", w.Kind))
	}
}

// wireConst mirrors ir.Const.
type wireConst struct {
	Kind string   `json:"kind" msgpack:"kind"`
	Type wireType `json:"type" msgpack:"type"`

	Bool bool    `json:"bool,omitempty" msgpack:"bool,omitempty"`
	I32  int32   `json:"i32,omitempty" msgpack:"i32,omitempty"`
	U32  uint32  `json:"u32,omitempty" msgpack:"u32,omitempty"`
	I64  int64   `json:"i64,omitempty" msgpack:"i64,omitempty"`
	U64  uint64  `json:"u64,omitempty" msgpack:"u64,omitempty"`
	F32  float32 `json:"f32,omitempty" msgpack:"f32,omitempty"`
	F64  float64 `json:"f64,omitempty" msgpack:"f64,omitempty"`
	Raw  []byte  `json:"raw,omitempty" msgpack:"raw,omitempty"`
}

func encodeConst(c ir.Const) wireConst {
	return wireConst{
		Kind: c.Kind.String(), Type: encodeType(c.Type()),
		Bool: c.B, I32: c.I32, U32: c.U32, I64: c.I64, U64: c.U64,
		F32: c.F32, F64: c.F64, Raw: c.Raw,
	}
}

var constKindByName = map[string]ir.ConstKind{
	"Zero": ir.ConstZero, "Bool": ir.ConstBool, "Int32": ir.ConstInt32,
	"Uint32": ir.ConstUint32, "Int64": ir.ConstInt64, "Uint64": ir.ConstUint64,
	"Float32": ir.ConstFloat32, "Float64": ir.ConstFloat64, "Generic": ir.ConstGeneric,
}

func decodeConst(r *types.Registry, w wireConst) ir.Const {
	return ir.Const{
		Kind: constKindByName[w.Kind], T: decodeType(r, w.Type),
		B: w.Bool, I32: w.I32, U32: w.U32, I64: w.I64, U64: w.U64,
		F32: w.F32, F64: w.F64, Raw: w.Raw,
	}
}

// wireFunc mirrors ir.Func. CpuCustomOp emits only its Name (spec
// §4.9: "CpuCustomOp emits only its name, not its function pointers").
type wireFunc struct {
	Op           string `json:"op" msgpack:"op"`
	CallableID   uint64 `json:"callable_id,omitempty" msgpack:"callable_id,omitempty"`
	CustomOpName string `json:"custom_op_name,omitempty" msgpack:"custom_op_name,omitempty"`
}

func encodeFunc(f ir.Func) wireFunc {
	w := wireFunc{Op: f.Op.String(), CallableID: f.CallableID}
	if f.CustomOp != nil {
		w.CustomOpName = f.CustomOp.Name
	}
	return w
}

func decodeFunc(w wireFunc) ir.Func {
	op, ok := funcOpByName[w.Op]
	if !ok {
		panic(fmt.Sprintf("serialize: unknown opcode %q", w.Op))
	}
	f := ir.Func{Op: op, CallableID: w.CallableID}
	if op == ir.OpCpuCustomOp {
		f.CustomOp = &ir.CpuCustomOp{Name: w.CustomOpName}
	}
	return f
}

// wireNodeData is Node in spec §4.9's "{id: NodeRef, data: Node}".
type wireNodeData struct {
	Type        wireType        `json:"type" msgpack:"type"`
	Instruction wireInstruction `json:"instruction" msgpack:"instruction"`
}

type wireBlockEntry struct {
	ID   uint64       `json:"id" msgpack:"id"`
	Data wireNodeData `json:"data" msgpack:"data"`
}

// wireBlock is a traversal-ordered array of {id, data} pairs (spec
// §4.9: "BasicBlock is serialized as an array of {id: NodeRef, data:
// Node} pairs in traversal order").
type wireBlock []wireBlockEntry

type wirePhiIncoming struct {
	Value uint64    `json:"value" msgpack:"value"`
	Block wireBlock `json:"block" msgpack:"block"`
}

type wireSwitchCase struct {
	Value int32     `json:"value" msgpack:"value"`
	Block wireBlock `json:"block" msgpack:"block"`
}

type wireInstruction struct {
	Kind string `json:"kind" msgpack:"kind"`

	Init     uint64 `json:"init,omitempty" msgpack:"init,omitempty"`
	ByValue  bool   `json:"by_value,omitempty" msgpack:"by_value,omitempty"`
	UserData uint64 `json:"user_data,omitempty" msgpack:"user_data,omitempty"`

	Const *wireConst `json:"const,omitempty" msgpack:"const,omitempty"`

	Var   uint64 `json:"var,omitempty" msgpack:"var,omitempty"`
	Value uint64 `json:"value,omitempty" msgpack:"value,omitempty"`

	Fn   *wireFunc `json:"fn,omitempty" msgpack:"fn,omitempty"`
	Args []uint64  `json:"args,omitempty" msgpack:"args,omitempty"`

	Incomings []wirePhiIncoming `json:"incomings,omitempty" msgpack:"incomings,omitempty"`

	ReturnValue uint64 `json:"return_value,omitempty" msgpack:"return_value,omitempty"`

	Body *wireBlock `json:"body,omitempty" msgpack:"body,omitempty"`
	Cond uint64     `json:"cond,omitempty" msgpack:"cond,omitempty"`

	Prepare     *wireBlock `json:"prepare,omitempty" msgpack:"prepare,omitempty"`
	UpdateBlock *wireBlock `json:"update_block,omitempty" msgpack:"update_block,omitempty"`

	TrueBranch  *wireBlock `json:"true_branch,omitempty" msgpack:"true_branch,omitempty"`
	FalseBranch *wireBlock `json:"false_branch,omitempty" msgpack:"false_branch,omitempty"`

	SwitchValue  uint64           `json:"switch_value,omitempty" msgpack:"switch_value,omitempty"`
	DefaultBlock *wireBlock       `json:"default_block,omitempty" msgpack:"default_block,omitempty"`
	Cases        []wireSwitchCase `json:"cases,omitempty" msgpack:"cases,omitempty"`

	Text []byte `json:"text,omitempty" msgpack:"text,omitempty"`
}

func refID(r ir.NodeRef) uint64 {
	if !r.Valid() {
		return 0
	}
	return r.SeqID()
}

func encodeBlock(b *ir.BasicBlock) wireBlock {
	if b == nil {
		return nil
	}
	nodes := b.Nodes()
	out := make(wireBlock, len(nodes))
	for i, n := range nodes {
		view := n.Get()
		out[i] = wireBlockEntry{
			ID: n.SeqID(),
			Data: wireNodeData{
				Type:        encodeType(view.Type),
				Instruction: encodeInstruction(view.Instruction),
			},
		}
	}
	return out
}

func encodeInstruction(in ir.Instruction) wireInstruction {
	w := wireInstruction{Kind: in.Kind.String()}
	switch in.Kind {
	case ir.InstrLocal:
		w.Init = refID(in.Init)
	case ir.InstrArgument:
		w.ByValue = in.ByValue
	case ir.InstrUserData:
		w.UserData = in.UserData
	case ir.InstrConst:
		c := encodeConst(in.ConstValue)
		w.Const = &c
	case ir.InstrUpdate:
		w.Var = refID(in.Var)
		w.Value = refID(in.Value)
	case ir.InstrCall:
		fn := encodeFunc(in.Fn)
		w.Fn = &fn
		w.Args = make([]uint64, len(in.Args))
		for i, a := range in.Args {
			w.Args[i] = refID(a)
		}
	case ir.InstrPhi:
		w.Incomings = make([]wirePhiIncoming, len(in.Incomings))
		for i, inc := range in.Incomings {
			w.Incomings[i] = wirePhiIncoming{Value: refID(inc.Value), Block: encodeBlock(inc.Block)}
		}
	case ir.InstrReturn:
		w.ReturnValue = refID(in.ReturnValue)
	case ir.InstrLoop:
		body := encodeBlock(in.Body)
		w.Body = &body
		w.Cond = refID(in.Cond)
	case ir.InstrGenericLoop:
		prepare := encodeBlock(in.Prepare)
		body := encodeBlock(in.Body)
		update := encodeBlock(in.Update)
		w.Prepare = &prepare
		w.Body = &body
		w.UpdateBlock = &update
		w.Cond = refID(in.Cond)
	case ir.InstrIf:
		trueBranch := encodeBlock(in.TrueBranch)
		falseBranch := encodeBlock(in.FalseBranch)
		w.TrueBranch = &trueBranch
		w.FalseBranch = &falseBranch
		w.Cond = refID(in.Cond)
	case ir.InstrSwitch:
		w.SwitchValue = refID(in.SwitchValue)
		def := encodeBlock(in.DefaultBlock)
		w.DefaultBlock = &def
		w.Cases = make([]wireSwitchCase, len(in.Cases))
		for i, cs := range in.Cases {
			w.Cases[i] = wireSwitchCase{Value: cs.Value, Block: encodeBlock(cs.Block)}
		}
	case ir.InstrComment, ir.InstrDebug:
		w.Text = in.Text
	case ir.InstrBuffer, ir.InstrBindless, ir.InstrTexture2D, ir.InstrTexture3D,
		ir.InstrAccel, ir.InstrShared, ir.InstrUniform, ir.InstrInvalid,
		ir.InstrBreak, ir.InstrContinue:
		// no payload beyond the kind tag
	}
	return w
}

// blockDecoder reconstructs *ir.BasicBlock values from wireBlock. ids
// maps original-dump NodeRef sequence ids to the freshly built
// NodeRefs and is shared across the *entire* decodeModule recursion
// (every nested block decoded through the same blockDecoder instance),
// not reset per block: operand ids are allocated from the context-wide
// sequence counter at dump time, so a node defined in an outer block
// and referenced from a nested block (If/Loop/GenericLoop/Switch/Phi
// bodies, which spec §1/§3 allow unconstrained) must resolve against
// the same map the outer block populated, mirroring how
// ModuleCloner.nodeMap (cloner.go) is one instance-wide map rather
// than one per recursive call.
type blockDecoder struct {
	ctx *accelctx.Context
	reg *types.Registry
	ids map[uint64]ir.NodeRef
}

func newBlockDecoder(ctx *accelctx.Context, reg *types.Registry) *blockDecoder {
	return &blockDecoder{ctx: ctx, reg: reg, ids: make(map[uint64]ir.NodeRef)}
}

func (d *blockDecoder) resolve(id uint64) ir.NodeRef {
	if id == 0 {
		return ir.InvalidRef
	}
	return d.ids[id]
}

func (d *blockDecoder) decodeBlock(w wireBlock) *ir.BasicBlock {
	if w == nil {
		return ir.NewBlock(d.ctx)
	}
	b := ir.NewBuilder(d.ctx)
	for _, entry := range w {
		typ := decodeType(d.reg, entry.Data.Type)
		inst := d.decodeInstruction(entry.Data.Instruction)
		n := ir.NewNode(d.ctx, typ, inst)
		d.ids[entry.ID] = b.Append(n)
	}
	return b.Finish()
}

func (d *blockDecoder) decodeInstruction(w wireInstruction) ir.Instruction {
	kind := instrKindByName[w.Kind]
	in := ir.Instruction{Kind: kind}
	switch kind {
	case ir.InstrLocal:
		in.Init = d.resolve(w.Init)
	case ir.InstrArgument:
		in.ByValue = w.ByValue
	case ir.InstrUserData:
		in.UserData = w.UserData
	case ir.InstrConst:
		in.ConstValue = decodeConst(d.reg, *w.Const)
	case ir.InstrUpdate:
		in.Var = d.resolve(w.Var)
		in.Value = d.resolve(w.Value)
	case ir.InstrCall:
		in.Fn = decodeFunc(*w.Fn)
		in.Args = make([]ir.NodeRef, len(w.Args))
		for i, id := range w.Args {
			in.Args[i] = d.resolve(id)
		}
	case ir.InstrPhi:
		in.Incomings = make([]ir.PhiIncoming, len(w.Incomings))
		for i, inc := range w.Incomings {
			block := d.decodeBlock(inc.Block)
			in.Incomings[i] = ir.PhiIncoming{Value: d.resolve(inc.Value), Block: block}
		}
	case ir.InstrReturn:
		in.ReturnValue = d.resolve(w.ReturnValue)
	case ir.InstrLoop:
		in.Body = d.decodeBlock(*w.Body)
		in.Cond = d.resolve(w.Cond)
	case ir.InstrGenericLoop:
		in.Prepare = d.decodeBlock(*w.Prepare)
		in.Body = d.decodeBlock(*w.Body)
		in.Update = d.decodeBlock(*w.UpdateBlock)
		in.Cond = d.resolve(w.Cond)
	case ir.InstrIf:
		in.TrueBranch = d.decodeBlock(*w.TrueBranch)
		in.FalseBranch = d.decodeBlock(*w.FalseBranch)
		in.Cond = d.resolve(w.Cond)
	case ir.InstrSwitch:
		in.SwitchValue = d.resolve(w.SwitchValue)
		in.DefaultBlock = d.decodeBlock(*w.DefaultBlock)
		in.Cases = make([]ir.SwitchCase, len(w.Cases))
		for i, cs := range w.Cases {
			in.Cases[i] = ir.SwitchCase{Value: cs.Value, Block: d.decodeBlock(cs.Block)}
		}
	case ir.InstrComment, ir.InstrDebug:
		in.Text = w.Text
	}
	return in
}

var instrKindByName = func() map[string]ir.InstrKind {
	names := []ir.InstrKind{
		ir.InstrBuffer, ir.InstrBindless, ir.InstrTexture2D, ir.InstrTexture3D,
		ir.InstrAccel, ir.InstrShared, ir.InstrUniform, ir.InstrLocal,
		ir.InstrArgument, ir.InstrUserData, ir.InstrInvalid, ir.InstrConst,
		ir.InstrUpdate, ir.InstrCall, ir.InstrPhi, ir.InstrReturn, ir.InstrLoop,
		ir.InstrGenericLoop, ir.InstrBreak, ir.InstrContinue, ir.InstrIf,
		ir.InstrSwitch, ir.InstrComment, ir.InstrDebug,
	}
	m := make(map[string]ir.InstrKind, len(names))
	for _, k := range names {
		m[k.String()] = k
	}
	return m
}()

// wireModule mirrors ir.Module.
type wireModule struct {
	Kind  string    `json:"kind" msgpack:"kind"`
	Entry wireBlock `json:"entry" msgpack:"entry"`
}

func encodeModule(m *ir.Module) wireModule {
	return wireModule{Kind: m.Kind.String(), Entry: encodeBlock(m.Entry)}
}

var moduleKindByName = map[string]ir.ModuleKind{
	"Block": ir.ModuleBlock, "Function": ir.ModuleFunction, "Kernel": ir.ModuleKernel,
}

func decodeModule(ctx *accelctx.Context, w wireModule) *ir.Module {
	d := newBlockDecoder(ctx, ctx.Types)
	entry := d.decodeBlock(w.Entry)
	return ir.NewModule(ctx, moduleKindByName[w.Kind], entry)
}
