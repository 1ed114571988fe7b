package ir

// Op is the IR-level instruction opcode. This is the "opcode categories"
// enumeration of spec.md 4.D, distinct from the bytecode Opcode defined
// in internal/bytecode — one Op here typically lowers to one or more
// bytecode opcodes in internal/codegen.
//
// Per the design note in spec.md 9, Instr is a single struct tagged by Op
// rather than a deep subclass hierarchy; per-opcode payload lives in the
// few typed fields on Instr that apply to that Op.
type Op uint8

const (
	OpNop Op = iota

	// Memory
	OpAlloca
	OpStore
	OpLoad

	// SSA merge
	OpPhi

	// Calls
	OpCall
	OpHandlerCall

	// Terminators
	OpBr
	OpCondBr
	OpRet
	OpMatch

	OpRegExpGroup
	OpCast

	// Number arithmetic/bitwise
	OpNumNeg
	OpNumNot
	OpNumAdd
	OpNumSub
	OpNumMul
	OpNumDiv
	OpNumRem
	OpNumShl
	OpNumShr
	OpNumPow
	OpNumAnd
	OpNumOr
	OpNumXor

	// Number comparisons
	OpNumCmpZ
	OpNumCmpEq
	OpNumCmpNe
	OpNumCmpLe
	OpNumCmpGe
	OpNumCmpLt
	OpNumCmpGt

	// Boolean logic
	OpBoolNot
	OpBoolAnd
	OpBoolOr
	OpBoolXor

	// String ops
	OpStrLen
	OpStrIsEmpty
	OpStrConcat
	OpStrSubstr
	OpStrCmpEq
	OpStrCmpNe
	OpStrCmpLe
	OpStrCmpGe
	OpStrCmpLt
	OpStrCmpGt
	OpStrBeginsWith
	OpStrEndsWith
	OpStrContains
	OpStrRegexMatch
	OpStrMatchSame
	OpStrMatchHead
	OpStrMatchTail
	OpStrMatchRegExp

	// IP/CIDR
	OpIPEq
	OpIPNe
	OpCidrContains
)

func (op Op) String() string {
	names := map[Op]string{
		OpNop: "nop", OpAlloca: "alloca", OpStore: "store", OpLoad: "load",
		OpPhi: "phi", OpCall: "call", OpHandlerCall: "handlercall",
		OpBr: "br", OpCondBr: "condbr", OpRet: "ret", OpMatch: "match",
		OpRegExpGroup: "regexpgroup", OpCast: "cast",
		OpNumNeg: "numneg", OpNumNot: "numnot", OpNumAdd: "numadd", OpNumSub: "numsub",
		OpNumMul: "nummul", OpNumDiv: "numdiv", OpNumRem: "numrem", OpNumShl: "numshl",
		OpNumShr: "numshr", OpNumPow: "numpow", OpNumAnd: "numand", OpNumOr: "numor",
		OpNumXor: "numxor", OpNumCmpZ: "numcmpz", OpNumCmpEq: "numcmpeq",
		OpNumCmpNe: "numcmpne", OpNumCmpLe: "numcmple", OpNumCmpGe: "numcmpge",
		OpNumCmpLt: "numcmplt", OpNumCmpGt: "numcmpgt",
		OpBoolNot: "boolnot", OpBoolAnd: "booland", OpBoolOr: "boolor", OpBoolXor: "boolxor",
		OpStrLen: "strlen", OpStrIsEmpty: "strisempty", OpStrConcat: "strconcat",
		OpStrSubstr: "strsubstr", OpStrCmpEq: "strcmpeq", OpStrCmpNe: "strcmpne",
		OpStrCmpLe: "strcmple", OpStrCmpGe: "strcmpge", OpStrCmpLt: "strcmplt",
		OpStrCmpGt: "strcmpgt", OpStrBeginsWith: "strbeginswith", OpStrEndsWith: "strendswith",
		OpStrContains: "strcontains", OpStrRegexMatch: "strregexmatch",
		OpStrMatchSame: "strmatchsame", OpStrMatchHead: "strmatchhead",
		OpStrMatchTail: "strmatchtail", OpStrMatchRegExp: "strmatchregexp",
		OpIPEq: "ipeq", OpIPNe: "ipne", OpCidrContains: "cidrcontains",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "op(?)"
}

// IsTerminator reports whether Op ends a basic block.
func (op Op) IsTerminator() bool {
	switch op {
	case OpBr, OpCondBr, OpRet, OpMatch:
		return true
	default:
		return false
	}
}

// MatchClass is the dispatch discipline for a Match terminator (spec.md
// 4.J / glossary).
type MatchClass uint8

const (
	MatchSame MatchClass = iota
	MatchHead
	MatchTail
	MatchRegExp
)

func (c MatchClass) String() string {
	switch c {
	case MatchSame:
		return "same"
	case MatchHead:
		return "head"
	case MatchTail:
		return "tail"
	case MatchRegExp:
		return "regexp"
	default:
		return "match(?)"
	}
}

// CastOp enumerates the restricted cast pairs of spec.md 4.5/4.E.
type CastOp uint8

const (
	CastBoolToString CastOp = iota
	CastNumberToString
	CastIPToString
	CastCidrToString
	CastRegExpToString
	CastStringToNumber
	CastIdentity // same-type cast, rewritten to a Load by the builder
)
