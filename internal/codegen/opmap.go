package codegen

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/ir"
)

// genericOpcodes covers every ir.Op lowered by the uniform "ensure all
// operands resident in order, emit the opcode, pop len(operands), push
// the result if non-void" pattern. Ops with their own operand quirks
// (Alloca, Store, Load, Call, HandlerCall, Cast, RegExpGroup,
// StrRegexMatch, the terminators, and the unreachable match-class
// tests) are dispatched separately in handler_gen.go / control_flow.go.
var genericOpcodes = map[ir.Op]bytecode.Opcode{
	ir.OpNumNeg: bytecode.NNEG,
	ir.OpNumNot: bytecode.NNOT,
	ir.OpNumAdd: bytecode.NADD,
	ir.OpNumSub: bytecode.NSUB,
	ir.OpNumMul: bytecode.NMUL,
	ir.OpNumDiv: bytecode.NDIV,
	ir.OpNumRem: bytecode.NREM,
	ir.OpNumShl: bytecode.NSHL,
	ir.OpNumShr: bytecode.NSHR,
	ir.OpNumAnd: bytecode.NAND,
	ir.OpNumOr:  bytecode.NOR,
	ir.OpNumXor: bytecode.NXOR,
	ir.OpNumPow: bytecode.NPOW,

	ir.OpNumCmpZ:  bytecode.NCMPZ,
	ir.OpNumCmpEq: bytecode.NCMPEQ,
	ir.OpNumCmpNe: bytecode.NCMPNE,
	ir.OpNumCmpLe: bytecode.NCMPLE,
	ir.OpNumCmpGe: bytecode.NCMPGE,
	ir.OpNumCmpLt: bytecode.NCMPLT,
	ir.OpNumCmpGt: bytecode.NCMPGT,

	ir.OpBoolNot: bytecode.BNOT,
	ir.OpBoolAnd: bytecode.BAND,
	ir.OpBoolOr:  bytecode.BOR,
	ir.OpBoolXor: bytecode.BXOR,

	ir.OpStrConcat:     bytecode.SADD,
	ir.OpStrSubstr:     bytecode.SSUBSTR,
	ir.OpStrCmpEq:      bytecode.SCMPEQ,
	ir.OpStrCmpNe:      bytecode.SCMPNE,
	ir.OpStrCmpLe:      bytecode.SCMPLE,
	ir.OpStrCmpGe:      bytecode.SCMPGE,
	ir.OpStrCmpLt:      bytecode.SCMPLT,
	ir.OpStrCmpGt:      bytecode.SCMPGT,
	ir.OpStrBeginsWith: bytecode.SCMPBEG,
	ir.OpStrEndsWith:   bytecode.SCMPEND,
	ir.OpStrContains:   bytecode.SCONTAINS,
	ir.OpStrLen:        bytecode.SLEN,
	ir.OpStrIsEmpty:    bytecode.SISEMPTY,

	ir.OpIPEq:         bytecode.PCMPEQ,
	ir.OpIPNe:         bytecode.PCMPNE,
	ir.OpCidrContains: bytecode.PINCIDR,
}
