package serialize

import "accelir/pkg/ir"

// funcOpByName is the inverse of FuncOp.String(), built once by probing
// every opcode value the enum defines. Kept in its own file since it is
// pure plumbing for the wire layer, not part of the wire shape itself.
var funcOpByName = func() map[string]ir.FuncOp {
	ops := []ir.FuncOp{
		ir.OpThreadId, ir.OpBlockId, ir.OpDispatchId, ir.OpDispatchSize,
		ir.OpSynchronizeBlock, ir.OpUnreachable, ir.OpZeroInitializer,
		ir.OpNeg, ir.OpNot, ir.OpBitNot, ir.OpAbs, ir.OpClz, ir.OpCtz,
		ir.OpPopCount, ir.OpReverse, ir.OpIsInf, ir.OpIsNan, ir.OpAcos,
		ir.OpAcosh, ir.OpAsin, ir.OpAsinh, ir.OpAtan, ir.OpAtanh, ir.OpCos,
		ir.OpCosh, ir.OpSin, ir.OpSinh, ir.OpTan, ir.OpTanh, ir.OpExp,
		ir.OpExp2, ir.OpExp10, ir.OpLog, ir.OpLog2, ir.OpLog10, ir.OpSqrt,
		ir.OpRsqrt, ir.OpCeil, ir.OpFloor, ir.OpFract, ir.OpTrunc, ir.OpRound,
		ir.OpAll, ir.OpAny, ir.OpLength, ir.OpLengthSquared, ir.OpNormalize,
		ir.OpDeterminant, ir.OpTranspose, ir.OpInverse, ir.OpLoad, ir.OpCast,
		ir.OpBitcast, ir.OpRequiresGradient, ir.OpGradient,
		ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpRem, ir.OpBitAnd,
		ir.OpBitOr, ir.OpBitXor, ir.OpShl, ir.OpShr, ir.OpRotRight,
		ir.OpRotLeft, ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe,
		ir.OpGt, ir.OpGe, ir.OpMatCompMul, ir.OpMatCompDiv, ir.OpAtan2,
		ir.OpCopysign, ir.OpCross, ir.OpDot, ir.OpFaceforward, ir.OpStep,
		ir.OpMin, ir.OpMax, ir.OpPowi, ir.OpPowf, ir.OpGradientMarker,
		ir.OpSelect, ir.OpClamp, ir.OpLerp, ir.OpFma, ir.OpInsertElement,
		ir.OpReduceSum, ir.OpReduceProd, ir.OpReduceMin, ir.OpReduceMax,
		ir.OpAtomicExchange, ir.OpAtomicCompareExchange, ir.OpAtomicFetchAdd,
		ir.OpAtomicFetchSub, ir.OpAtomicFetchAnd, ir.OpAtomicFetchOr,
		ir.OpAtomicFetchXor, ir.OpAtomicFetchMin, ir.OpAtomicFetchMax,
		ir.OpBufferRead, ir.OpBufferWrite, ir.OpBufferSize, ir.OpTextureRead,
		ir.OpTextureWrite,
		ir.OpBindlessTexture2dSample, ir.OpBindlessTexture2dSampleLevel,
		ir.OpBindlessTexture2dSampleGrad, ir.OpBindlessTexture2dRead,
		ir.OpBindlessTexture2dReadLevel, ir.OpBindlessTexture2dSize,
		ir.OpBindlessTexture2dSizeLevel, ir.OpBindlessTexture3dSample,
		ir.OpBindlessTexture3dSampleLevel, ir.OpBindlessTexture3dSampleGrad,
		ir.OpBindlessTexture3dRead, ir.OpBindlessTexture3dReadLevel,
		ir.OpBindlessTexture3dSize, ir.OpBindlessTexture3dSizeLevel,
		ir.OpBindlessBufferRead, ir.OpBindlessBufferSize,
		ir.OpVec, ir.OpVec2, ir.OpVec3, ir.OpVec4, ir.OpPermute,
		ir.OpExtractElement, ir.OpGetElementPtr, ir.OpStruct, ir.OpMat,
		ir.OpMatrix2, ir.OpMatrix3, ir.OpMatrix4,
		ir.OpCallable, ir.OpCpuCustomOp,
		ir.OpAssume, ir.OpAssert, ir.OpInstanceToWorldMatrix,
		ir.OpTraceClosest, ir.OpTraceAny, ir.OpSetInstanceTransform,
		ir.OpSetInstanceVisibility,
	}
	m := make(map[string]ir.FuncOp, len(ops))
	for _, op := range ops {
		m[op.String()] = op
	}
	return m
}()
