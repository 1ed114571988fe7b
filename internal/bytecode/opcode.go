// Package bytecode implements the stack-machine target: the Opcode set
// and stack-delta table of spec.md 6, the runtime ConstantPool of
// spec.md 4.C, and the Program/Handler container and linker of
// spec.md 4.I.
package bytecode

import "fmt"

// Opcode is one stack-machine instruction (spec.md 6).
type Opcode uint8

const (
	NOP Opcode = iota

	ALLOCA
	DISCARD
	STACKROT

	GALLOCA
	GLOAD
	GSTORE

	EXIT

	JMP
	JN
	JZ

	ITLOAD
	STLOAD
	PTLOAD
	CTLOAD

	LOAD
	STORE

	ILOAD
	NLOAD

	NNEG
	NNOT
	NADD
	NSUB
	NMUL
	NDIV
	NREM
	NSHL
	NSHR
	NPOW
	NAND
	NOR
	NXOR
	NCMPZ
	NCMPEQ
	NCMPNE
	NCMPLE
	NCMPGE
	NCMPLT
	NCMPGT

	BNOT
	BAND
	BOR
	BXOR

	SLOAD
	SADD
	SSUBSTR
	SCMPEQ
	SCMPNE
	SCMPLE
	SCMPGE
	SCMPLT
	SCMPGT
	SCMPBEG
	SCMPEND
	SCONTAINS
	SLEN
	SISEMPTY

	SMATCHEQ
	SMATCHBEG
	SMATCHEND
	SMATCHR

	PLOAD
	PCMPEQ
	PCMPNE
	PINCIDR

	CLOAD

	SREGMATCH
	SREGGROUP

	N2S
	P2S
	C2S
	R2S
	S2N

	CALL
	HANDLER
)

var opcodeNames = map[Opcode]string{
	NOP:       "NOP",
	ALLOCA:    "ALLOCA",
	DISCARD:   "DISCARD",
	STACKROT:  "STACKROT",
	GALLOCA:   "GALLOCA",
	GLOAD:     "GLOAD",
	GSTORE:    "GSTORE",
	EXIT:      "EXIT",
	JMP:       "JMP",
	JN:        "JN",
	JZ:        "JZ",
	ITLOAD:    "ITLOAD",
	STLOAD:    "STLOAD",
	PTLOAD:    "PTLOAD",
	CTLOAD:    "CTLOAD",
	LOAD:      "LOAD",
	STORE:     "STORE",
	ILOAD:     "ILOAD",
	NLOAD:     "NLOAD",
	NNEG:      "NNEG",
	NNOT:      "NNOT",
	NADD:      "NADD",
	NSUB:      "NSUB",
	NMUL:      "NMUL",
	NDIV:      "NDIV",
	NREM:      "NREM",
	NSHL:      "NSHL",
	NSHR:      "NSHR",
	NPOW:      "NPOW",
	NAND:      "NAND",
	NOR:       "NOR",
	NXOR:      "NXOR",
	NCMPZ:     "NCMPZ",
	NCMPEQ:    "NCMPEQ",
	NCMPNE:    "NCMPNE",
	NCMPLE:    "NCMPLE",
	NCMPGE:    "NCMPGE",
	NCMPLT:    "NCMPLT",
	NCMPGT:    "NCMPGT",
	BNOT:      "BNOT",
	BAND:      "BAND",
	BOR:       "BOR",
	BXOR:      "BXOR",
	SLOAD:     "SLOAD",
	SADD:      "SADD",
	SSUBSTR:   "SSUBSTR",
	SCMPEQ:    "SCMPEQ",
	SCMPNE:    "SCMPNE",
	SCMPLE:    "SCMPLE",
	SCMPGE:    "SCMPGE",
	SCMPLT:    "SCMPLT",
	SCMPGT:    "SCMPGT",
	SCMPBEG:   "SCMPBEG",
	SCMPEND:   "SCMPEND",
	SCONTAINS: "SCONTAINS",
	SLEN:      "SLEN",
	SISEMPTY:  "SISEMPTY",
	SMATCHEQ:  "SMATCHEQ",
	SMATCHBEG: "SMATCHBEG",
	SMATCHEND: "SMATCHEND",
	SMATCHR:   "SMATCHR",
	PLOAD:     "PLOAD",
	PCMPEQ:    "PCMPEQ",
	PCMPNE:    "PCMPNE",
	PINCIDR:   "PINCIDR",
	CLOAD:     "CLOAD",
	SREGMATCH: "SREGMATCH",
	SREGGROUP: "SREGGROUP",
	N2S:       "N2S",
	P2S:       "P2S",
	C2S:       "C2S",
	R2S:       "R2S",
	S2N:       "S2N",
	CALL:      "CALL",
	HANDLER:   "HANDLER",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

var opcodesByName map[string]Opcode

func init() {
	opcodesByName = make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		opcodesByName[name] = op
	}
}

// OpcodeFromName is the inverse of Opcode.String, for config/tooling
// that names opcodes in text (e.g. a per-opcode quota price override).
func OpcodeFromName(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// Arity is the number of immediate operand words the opcode carries:
// V=0, I=1, II=2, III=3 per spec.md 6's operand-signature column.
func (op Opcode) Arity() int {
	switch op {
	case ALLOCA, DISCARD, STACKROT, GALLOCA, GLOAD, GSTORE, EXIT, JMP, JN, JZ,
		ITLOAD, STLOAD, PTLOAD, CTLOAD, LOAD, STORE, ILOAD, NLOAD,
		SLOAD, SMATCHEQ, SMATCHBEG, SMATCHEND, SMATCHR, PLOAD, CLOAD, SREGMATCH, SREGGROUP:
		return 1
	case HANDLER:
		return 2
	case CALL:
		return 3
	default:
		return 0
	}
}

// StackDelta returns the net change in stack depth from executing op
// with the given immediate operands (spec.md 6). Operands beyond the
// opcode's Arity are ignored.
func StackDelta(op Opcode, operands [3]int64) int {
	switch op {
	case ALLOCA:
		return int(operands[0])
	case DISCARD:
		return -int(operands[0])
	case STACKROT, GALLOCA, EXIT, JMP:
		return 0
	case GLOAD:
		return 1
	case GSTORE:
		return -1
	case JN, JZ:
		return -1
	case ITLOAD, STLOAD, PTLOAD, CTLOAD:
		return 1
	case LOAD:
		return 1
	case STORE:
		return -1
	case ILOAD, NLOAD:
		return 1
	case NNEG, NNOT:
		return 0
	case NADD, NSUB, NMUL, NDIV, NREM, NSHL, NSHR, NPOW, NAND, NOR, NXOR:
		return -1
	case NCMPZ:
		return 0
	case NCMPEQ, NCMPNE, NCMPLE, NCMPGE, NCMPLT, NCMPGT:
		return -1
	case BNOT:
		return 0
	case BAND, BOR, BXOR:
		return -1
	case SLOAD:
		return 1
	case SADD:
		return -1
	case SSUBSTR:
		return -2
	case SCMPEQ, SCMPNE, SCMPLE, SCMPGE, SCMPLT, SCMPGT, SCMPBEG, SCMPEND, SCONTAINS:
		return -1
	case SLEN:
		return 0
	case SISEMPTY:
		return 0
	case SMATCHEQ, SMATCHBEG, SMATCHEND, SMATCHR:
		return -1
	case PLOAD:
		return 1
	case PCMPEQ, PCMPNE, PINCIDR:
		return -1
	case CLOAD:
		return 1
	case SREGMATCH:
		return 0
	case SREGGROUP:
		return 1
	case N2S, P2S, C2S, R2S:
		return 0
	case S2N:
		return 0
	case CALL:
		// operands[1] = argc (B), operands[2] = retFlag (C, 0 or 1)
		return int(operands[2]) - int(operands[1])
	case HANDLER:
		// operands[1] = argc (B)
		return -int(operands[1])
	default:
		return 0
	}
}

// IsTerminal reports whether op unconditionally ends execution of the
// current handler invocation.
func (op Opcode) IsTerminal() bool { return op == EXIT }
