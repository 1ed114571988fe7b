package vm

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/bytecode"
)

// stepOutcome communicates control-flow signals a single opcode's
// execution can raise: exit (EXIT ran, with handled set from its
// operand, or a HANDLER reported the event handled, with handled true)
// or nothing (ordinary fallthrough, ip already points at the next
// instruction).
type stepOutcome struct {
	exit    bool
	handled bool
}

// opFn is the uniform per-opcode handler signature shared by both
// dispatch strategies.
type opFn func(r *Runner, ins bytecode.Instruction) (stepOutcome, error)

// opTable is built once, at package initialization, and used by every
// Runner that dispatches in Threaded mode; every entry calls the exact same method the Switch
// path's case calls, so the two modes are identical by construction.
var opTable = buildOpTable()

func buildOpTable() [opcodeTableSize]opFn {
	var t [opcodeTableSize]opFn
	t[bytecode.NOP] = opNOP
	t[bytecode.ALLOCA] = opALLOCA
	t[bytecode.DISCARD] = opDISCARD
	t[bytecode.STACKROT] = opSTACKROT
	t[bytecode.GALLOCA] = opGALLOCA
	t[bytecode.GLOAD] = opGLOAD
	t[bytecode.GSTORE] = opGSTORE
	t[bytecode.EXIT] = opEXIT
	t[bytecode.JMP] = opJMP
	t[bytecode.JN] = opJN
	t[bytecode.JZ] = opJZ
	t[bytecode.ITLOAD] = opITLOAD
	t[bytecode.STLOAD] = opSTLOAD
	t[bytecode.PTLOAD] = opPTLOAD
	t[bytecode.CTLOAD] = opCTLOAD
	t[bytecode.LOAD] = opLOAD
	t[bytecode.STORE] = opSTORE
	t[bytecode.ILOAD] = opILOAD
	t[bytecode.NLOAD] = opNLOAD
	t[bytecode.NNEG] = opNNEG
	t[bytecode.NNOT] = opNNOT
	t[bytecode.NADD] = opNADD
	t[bytecode.NSUB] = opNSUB
	t[bytecode.NMUL] = opNMUL
	t[bytecode.NDIV] = opNDIV
	t[bytecode.NREM] = opNREM
	t[bytecode.NSHL] = opNSHL
	t[bytecode.NSHR] = opNSHR
	t[bytecode.NPOW] = opNPOW
	t[bytecode.NAND] = opNAND
	t[bytecode.NOR] = opNOR
	t[bytecode.NXOR] = opNXOR
	t[bytecode.NCMPZ] = opNCMPZ
	t[bytecode.NCMPEQ] = opNCMPEQ
	t[bytecode.NCMPNE] = opNCMPNE
	t[bytecode.NCMPLE] = opNCMPLE
	t[bytecode.NCMPGE] = opNCMPGE
	t[bytecode.NCMPLT] = opNCMPLT
	t[bytecode.NCMPGT] = opNCMPGT
	t[bytecode.BNOT] = opBNOT
	t[bytecode.BAND] = opBAND
	t[bytecode.BOR] = opBOR
	t[bytecode.BXOR] = opBXOR
	t[bytecode.SLOAD] = opSLOAD
	t[bytecode.SADD] = opSADD
	t[bytecode.SSUBSTR] = opSSUBSTR
	t[bytecode.SCMPEQ] = opSCMPEQ
	t[bytecode.SCMPNE] = opSCMPNE
	t[bytecode.SCMPLE] = opSCMPLE
	t[bytecode.SCMPGE] = opSCMPGE
	t[bytecode.SCMPLT] = opSCMPLT
	t[bytecode.SCMPGT] = opSCMPGT
	t[bytecode.SCMPBEG] = opSCMPBEG
	t[bytecode.SCMPEND] = opSCMPEND
	t[bytecode.SCONTAINS] = opSCONTAINS
	t[bytecode.SLEN] = opSLEN
	t[bytecode.SISEMPTY] = opSISEMPTY
	t[bytecode.SMATCHEQ] = opSMATCH
	t[bytecode.SMATCHBEG] = opSMATCH
	t[bytecode.SMATCHEND] = opSMATCH
	t[bytecode.SMATCHR] = opSMATCH
	t[bytecode.PLOAD] = opPLOAD
	t[bytecode.PCMPEQ] = opPCMPEQ
	t[bytecode.PCMPNE] = opPCMPNE
	t[bytecode.PINCIDR] = opPINCIDR
	t[bytecode.CLOAD] = opCLOAD
	t[bytecode.SREGMATCH] = opSREGMATCH
	t[bytecode.SREGGROUP] = opSREGGROUP
	t[bytecode.N2S] = opN2S
	t[bytecode.P2S] = opP2S
	t[bytecode.C2S] = opC2S
	t[bytecode.R2S] = opR2S
	t[bytecode.S2N] = opS2N
	t[bytecode.CALL] = opCALL
	t[bytecode.HANDLER] = opHANDLER
	return t
}

// exec dispatches ins through the Runner's configured DispatchMode.
func (r *Runner) exec(ins bytecode.Instruction) (stepOutcome, error) {
	if r.Dispatch == Threaded {
		fn := opTable[ins.Op]
		if fn == nil {
			return stepOutcome{}, fmt.Errorf("vm: no handler registered for opcode %s", ins.Op)
		}
		return fn(r, ins)
	}

	switch ins.Op {
	case bytecode.NOP:
		return opNOP(r, ins)
	case bytecode.ALLOCA:
		return opALLOCA(r, ins)
	case bytecode.DISCARD:
		return opDISCARD(r, ins)
	case bytecode.STACKROT:
		return opSTACKROT(r, ins)
	case bytecode.GALLOCA:
		return opGALLOCA(r, ins)
	case bytecode.GLOAD:
		return opGLOAD(r, ins)
	case bytecode.GSTORE:
		return opGSTORE(r, ins)
	case bytecode.EXIT:
		return opEXIT(r, ins)
	case bytecode.JMP:
		return opJMP(r, ins)
	case bytecode.JN:
		return opJN(r, ins)
	case bytecode.JZ:
		return opJZ(r, ins)
	case bytecode.ITLOAD:
		return opITLOAD(r, ins)
	case bytecode.STLOAD:
		return opSTLOAD(r, ins)
	case bytecode.PTLOAD:
		return opPTLOAD(r, ins)
	case bytecode.CTLOAD:
		return opCTLOAD(r, ins)
	case bytecode.LOAD:
		return opLOAD(r, ins)
	case bytecode.STORE:
		return opSTORE(r, ins)
	case bytecode.ILOAD:
		return opILOAD(r, ins)
	case bytecode.NLOAD:
		return opNLOAD(r, ins)
	case bytecode.NNEG:
		return opNNEG(r, ins)
	case bytecode.NNOT:
		return opNNOT(r, ins)
	case bytecode.NADD:
		return opNADD(r, ins)
	case bytecode.NSUB:
		return opNSUB(r, ins)
	case bytecode.NMUL:
		return opNMUL(r, ins)
	case bytecode.NDIV:
		return opNDIV(r, ins)
	case bytecode.NREM:
		return opNREM(r, ins)
	case bytecode.NSHL:
		return opNSHL(r, ins)
	case bytecode.NSHR:
		return opNSHR(r, ins)
	case bytecode.NPOW:
		return opNPOW(r, ins)
	case bytecode.NAND:
		return opNAND(r, ins)
	case bytecode.NOR:
		return opNOR(r, ins)
	case bytecode.NXOR:
		return opNXOR(r, ins)
	case bytecode.NCMPZ:
		return opNCMPZ(r, ins)
	case bytecode.NCMPEQ:
		return opNCMPEQ(r, ins)
	case bytecode.NCMPNE:
		return opNCMPNE(r, ins)
	case bytecode.NCMPLE:
		return opNCMPLE(r, ins)
	case bytecode.NCMPGE:
		return opNCMPGE(r, ins)
	case bytecode.NCMPLT:
		return opNCMPLT(r, ins)
	case bytecode.NCMPGT:
		return opNCMPGT(r, ins)
	case bytecode.BNOT:
		return opBNOT(r, ins)
	case bytecode.BAND:
		return opBAND(r, ins)
	case bytecode.BOR:
		return opBOR(r, ins)
	case bytecode.BXOR:
		return opBXOR(r, ins)
	case bytecode.SLOAD:
		return opSLOAD(r, ins)
	case bytecode.SADD:
		return opSADD(r, ins)
	case bytecode.SSUBSTR:
		return opSSUBSTR(r, ins)
	case bytecode.SCMPEQ:
		return opSCMPEQ(r, ins)
	case bytecode.SCMPNE:
		return opSCMPNE(r, ins)
	case bytecode.SCMPLE:
		return opSCMPLE(r, ins)
	case bytecode.SCMPGE:
		return opSCMPGE(r, ins)
	case bytecode.SCMPLT:
		return opSCMPLT(r, ins)
	case bytecode.SCMPGT:
		return opSCMPGT(r, ins)
	case bytecode.SCMPBEG:
		return opSCMPBEG(r, ins)
	case bytecode.SCMPEND:
		return opSCMPEND(r, ins)
	case bytecode.SCONTAINS:
		return opSCONTAINS(r, ins)
	case bytecode.SLEN:
		return opSLEN(r, ins)
	case bytecode.SISEMPTY:
		return opSISEMPTY(r, ins)
	case bytecode.SMATCHEQ, bytecode.SMATCHBEG, bytecode.SMATCHEND, bytecode.SMATCHR:
		return opSMATCH(r, ins)
	case bytecode.PLOAD:
		return opPLOAD(r, ins)
	case bytecode.PCMPEQ:
		return opPCMPEQ(r, ins)
	case bytecode.PCMPNE:
		return opPCMPNE(r, ins)
	case bytecode.PINCIDR:
		return opPINCIDR(r, ins)
	case bytecode.CLOAD:
		return opCLOAD(r, ins)
	case bytecode.SREGMATCH:
		return opSREGMATCH(r, ins)
	case bytecode.SREGGROUP:
		return opSREGGROUP(r, ins)
	case bytecode.N2S:
		return opN2S(r, ins)
	case bytecode.P2S:
		return opP2S(r, ins)
	case bytecode.C2S:
		return opC2S(r, ins)
	case bytecode.R2S:
		return opR2S(r, ins)
	case bytecode.S2N:
		return opS2N(r, ins)
	case bytecode.CALL:
		return opCALL(r, ins)
	case bytecode.HANDLER:
		return opHANDLER(r, ins)
	default:
		return stepOutcome{}, fmt.Errorf("vm: no handler registered for opcode %s", ins.Op)
	}
}
