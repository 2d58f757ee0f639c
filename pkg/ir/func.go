package ir

import "unsafe"

// FuncOp is the closed opcode set (spec §4.4, C4). Like the teacher's
// ast tags, this is a flat integer enum switched on explicitly —
// adding an opcode is a semver-breaking change (spec §9, "the opcode
// enum must be closed").
//
// The full list, including opcodes the distilled spec only gestures
// at with "…", is taken verbatim from the upstream Func enum
// (_examples/original_source/src/rust/luisa_compute_ir/src/ir.rs) per
// SPEC_FULL §5.
type FuncOp uint16

const (
	// Niladic system calls.
	OpThreadId FuncOp = iota
	OpBlockId
	OpDispatchId
	OpDispatchSize
	OpSynchronizeBlock
	OpUnreachable
	OpZeroInitializer

	// Unary arithmetic / math.
	OpNeg
	OpNot
	OpBitNot
	OpAbs
	OpClz
	OpCtz
	OpPopCount
	OpReverse
	OpIsInf
	OpIsNan
	OpAcos
	OpAcosh
	OpAsin
	OpAsinh
	OpAtan
	OpAtanh
	OpCos
	OpCosh
	OpSin
	OpSinh
	OpTan
	OpTanh
	OpExp
	OpExp2
	OpExp10
	OpLog
	OpLog2
	OpLog10
	OpSqrt
	OpRsqrt
	OpCeil
	OpFloor
	OpFract
	OpTrunc
	OpRound
	OpAll
	OpAny
	OpLength
	OpLengthSquared
	OpNormalize
	OpDeterminant
	OpTranspose
	OpInverse
	OpLoad
	OpCast
	OpBitcast
	OpRequiresGradient
	OpGradient

	// Binary.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpRotRight
	OpRotLeft
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMatCompMul
	OpMatCompDiv
	OpAtan2
	OpCopysign
	OpCross
	OpDot
	OpFaceforward
	OpStep
	OpMin
	OpMax
	OpPowi
	OpPowf
	OpGradientMarker

	// Ternary.
	OpSelect
	OpClamp
	OpLerp
	OpFma
	OpInsertElement

	// Reductions.
	OpReduceSum
	OpReduceProd
	OpReduceMin
	OpReduceMax

	// Atomics on an atomic_ref (first operand).
	OpAtomicExchange
	OpAtomicCompareExchange
	OpAtomicFetchAdd
	OpAtomicFetchSub
	OpAtomicFetchAnd
	OpAtomicFetchOr
	OpAtomicFetchXor
	OpAtomicFetchMin
	OpAtomicFetchMax

	// Buffer / texture I/O.
	OpBufferRead
	OpBufferWrite
	OpBufferSize
	OpTextureRead
	OpTextureWrite

	// Bindless texture sampling.
	OpBindlessTexture2dSample
	OpBindlessTexture2dSampleLevel
	OpBindlessTexture2dSampleGrad
	OpBindlessTexture2dRead
	OpBindlessTexture2dReadLevel
	OpBindlessTexture2dSize
	OpBindlessTexture2dSizeLevel
	OpBindlessTexture3dSample
	OpBindlessTexture3dSampleLevel
	OpBindlessTexture3dSampleGrad
	OpBindlessTexture3dRead
	OpBindlessTexture3dReadLevel
	OpBindlessTexture3dSize
	OpBindlessTexture3dSizeLevel

	// Bindless buffer.
	OpBindlessBufferRead
	OpBindlessBufferSize

	// Vector / struct construction.
	OpVec
	OpVec2
	OpVec3
	OpVec4
	OpPermute
	OpExtractElement
	OpGetElementPtr
	OpStruct
	OpMat
	OpMatrix2
	OpMatrix3
	OpMatrix4

	// Callables.
	OpCallable
	OpCpuCustomOp

	// Memory / gradient intrinsics.
	OpAssume
	OpAssert
	OpInstanceToWorldMatrix
	OpTraceClosest
	OpTraceAny
	OpSetInstanceTransform
	OpSetInstanceVisibility
)

var funcOpNames = map[FuncOp]string{
	OpThreadId: "ThreadId", OpBlockId: "BlockId", OpDispatchId: "DispatchId",
	OpDispatchSize: "DispatchSize", OpSynchronizeBlock: "SynchronizeBlock",
	OpUnreachable: "Unreachable", OpZeroInitializer: "ZeroInitializer",
	OpNeg: "Neg", OpNot: "Not", OpBitNot: "BitNot", OpAbs: "Abs", OpClz: "Clz",
	OpCtz: "Ctz", OpPopCount: "PopCount", OpReverse: "Reverse", OpIsInf: "IsInf",
	OpIsNan: "IsNan", OpAcos: "Acos", OpAcosh: "Acosh", OpAsin: "Asin",
	OpAsinh: "Asinh", OpAtan: "Atan", OpAtanh: "Atanh", OpCos: "Cos",
	OpCosh: "Cosh", OpSin: "Sin", OpSinh: "Sinh", OpTan: "Tan", OpTanh: "Tanh",
	OpExp: "Exp", OpExp2: "Exp2", OpExp10: "Exp10", OpLog: "Log",
	OpLog2: "Log2", OpLog10: "Log10", OpSqrt: "Sqrt", OpRsqrt: "Rsqrt",
	OpCeil: "Ceil", OpFloor: "Floor", OpFract: "Fract", OpTrunc: "Trunc",
	OpRound: "Round", OpAll: "All", OpAny: "Any", OpLength: "Length",
	OpLengthSquared: "LengthSquared", OpNormalize: "Normalize",
	OpDeterminant: "Determinant", OpTranspose: "Transpose", OpInverse: "Inverse",
	OpLoad: "Load", OpCast: "Cast", OpBitcast: "Bitcast",
	OpRequiresGradient: "RequiresGradient", OpGradient: "Gradient",
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpRem: "Rem",
	OpBitAnd: "BitAnd", OpBitOr: "BitOr", OpBitXor: "BitXor", OpShl: "Shl",
	OpShr: "Shr", OpRotRight: "RotRight", OpRotLeft: "RotLeft",
	OpEq: "Eq", OpNe: "Ne", OpLt: "Lt", OpLe: "Le", OpGt: "Gt",
	OpGe: "Ge", OpMatCompMul: "MatCompMul", OpMatCompDiv: "MatCompDiv",
	OpAtan2: "Atan2", OpCopysign: "Copysign", OpCross: "Cross", OpDot: "Dot",
	OpFaceforward: "Faceforward", OpStep: "Step", OpMin: "Min", OpMax: "Max",
	OpPowi: "Powi", OpPowf: "Powf", OpGradientMarker: "GradientMarker",
	OpSelect: "Select", OpClamp: "Clamp", OpLerp: "Lerp", OpFma: "Fma",
	OpInsertElement: "InsertElement",
	OpReduceSum:     "ReduceSum", OpReduceProd: "ReduceProd",
	OpReduceMin: "ReduceMin", OpReduceMax: "ReduceMax",
	OpAtomicExchange: "AtomicExchange", OpAtomicCompareExchange: "AtomicCompareExchange",
	OpAtomicFetchAdd: "AtomicFetchAdd", OpAtomicFetchSub: "AtomicFetchSub",
	OpAtomicFetchAnd: "AtomicFetchAnd", OpAtomicFetchOr: "AtomicFetchOr",
	OpAtomicFetchXor: "AtomicFetchXor", OpAtomicFetchMin: "AtomicFetchMin",
	OpAtomicFetchMax: "AtomicFetchMax",
	OpBufferRead:     "BufferRead", OpBufferWrite: "BufferWrite", OpBufferSize: "BufferSize",
	OpTextureRead: "TextureRead", OpTextureWrite: "TextureWrite",
	OpBindlessTexture2dSample: "BindlessTexture2dSample", OpBindlessTexture2dSampleLevel: "BindlessTexture2dSampleLevel",
	OpBindlessTexture2dSampleGrad: "BindlessTexture2dSampleGrad", OpBindlessTexture2dRead: "BindlessTexture2dRead",
	OpBindlessTexture2dReadLevel: "BindlessTexture2dReadLevel", OpBindlessTexture2dSize: "BindlessTexture2dSize",
	OpBindlessTexture2dSizeLevel: "BindlessTexture2dSizeLevel", OpBindlessTexture3dSample: "BindlessTexture3dSample",
	OpBindlessTexture3dSampleLevel: "BindlessTexture3dSampleLevel", OpBindlessTexture3dSampleGrad: "BindlessTexture3dSampleGrad",
	OpBindlessTexture3dRead: "BindlessTexture3dRead", OpBindlessTexture3dReadLevel: "BindlessTexture3dReadLevel",
	OpBindlessTexture3dSize: "BindlessTexture3dSize", OpBindlessTexture3dSizeLevel: "BindlessTexture3dSizeLevel",
	OpBindlessBufferRead: "BindlessBufferRead", OpBindlessBufferSize: "BindlessBufferSize",
	OpVec: "Vec", OpVec2: "Vec2", OpVec3: "Vec3", OpVec4: "Vec4",
	OpPermute: "Permute", OpExtractElement: "ExtractElement", OpGetElementPtr: "GetElementPtr",
	OpStruct: "Struct", OpMat: "Mat", OpMatrix2: "Matrix2", OpMatrix3: "Matrix3", OpMatrix4: "Matrix4",
	OpCallable: "Callable", OpCpuCustomOp: "CpuCustomOp",
	OpAssume: "Assume", OpAssert: "Assert", OpInstanceToWorldMatrix: "InstanceToWorldMatrix",
	OpTraceClosest: "TraceClosest", OpTraceAny: "TraceAny",
	OpSetInstanceTransform: "SetInstanceTransform", OpSetInstanceVisibility: "SetInstanceVisibility",
}

func (op FuncOp) String() string {
	if name, ok := funcOpNames[op]; ok {
		return name
	}
	return "FuncOp(?)"
}

// CustomOpFunc is the Go stand-in for the original's
// `extern "C" fn(*mut u8, *const u8, *mut u8, u32)` CPU custom-op
// callback: (data, active_mask, args, vector_length). accelir never
// invokes it — it is an opaque host payload carried verbatim (spec
// §9, "Opaque user data").
type CustomOpFunc func(data, activeMask, args unsafe.Pointer, vectorLength uint32)

// CpuCustomOp is the payload of the Func variant of the same name: a
// named callback with a raw data pointer and a destructor, identified
// by shared-reference equality (spec §4.4). Only Name survives into a
// JSON dump (spec §4.9).
type CpuCustomOp struct {
	Name       string
	Data       unsafe.Pointer
	Fn         CustomOpFunc
	Destructor func(unsafe.Pointer)
}

// Func names the opcode applied by a Call instruction, plus whatever
// payload that opcode carries (spec §4.4: Callable(u64 id),
// CpuCustomOp(opaque)).
type Func struct {
	Op FuncOp

	CallableID uint64       // valid when Op == OpCallable
	CustomOp   *CpuCustomOp // valid when Op == OpCpuCustomOp; identity is pointer equality
}

// NewFunc builds a Func for any opcode carrying no extra payload.
func NewFunc(op FuncOp) Func { return Func{Op: op} }

// NewCallableFunc builds Func{Callable(id)}.
func NewCallableFunc(id uint64) Func { return Func{Op: OpCallable, CallableID: id} }

// NewCpuCustomOpFunc builds Func{CpuCustomOp(op)}.
func NewCpuCustomOpFunc(op *CpuCustomOp) Func { return Func{Op: OpCpuCustomOp, CustomOp: op} }

func (f Func) String() string {
	switch f.Op {
	case OpCallable:
		return "Callable(" + itoa(f.CallableID) + ")"
	case OpCpuCustomOp:
		if f.CustomOp != nil {
			return "CpuCustomOp(" + f.CustomOp.Name + ")"
		}
		return "CpuCustomOp(<nil>)"
	default:
		return f.Op.String()
	}
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
