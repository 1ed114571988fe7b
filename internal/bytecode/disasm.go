package bytecode

import "fmt"

// disassembleInstruction renders one instruction, resolving pool-indexed
// operands to their underlying value for readability (spec.md 4.H).
func disassembleInstruction(pool *ConstantPool, pc int, instr Instruction) string {
	switch instr.Op {
	case NLOAD:
		return fmt.Sprintf("%4d  NLOAD  %d            ; %d", pc, instr.Operands[0], pool.Int(int(instr.Operands[0])))
	case SLOAD:
		return fmt.Sprintf("%4d  SLOAD  %d            ; %q", pc, instr.Operands[0], pool.String(int(instr.Operands[0])))
	case PLOAD:
		return fmt.Sprintf("%4d  PLOAD  %d            ; %s", pc, instr.Operands[0], pool.IP(int(instr.Operands[0])))
	case CLOAD:
		return fmt.Sprintf("%4d  CLOAD  %d            ; %s", pc, instr.Operands[0], pool.Cidr(int(instr.Operands[0])))
	case SMATCHR, SREGMATCH:
		return fmt.Sprintf("%4d  %-7s%d            ; /%s/", pc, instr.Op, instr.Operands[0], pool.RegExp(int(instr.Operands[0])))
	case HANDLER:
		return fmt.Sprintf("%4d  HANDLER %d %d        ; %s", pc, instr.Operands[0], instr.Operands[1], pool.NativeHandlerSig(int(instr.Operands[0])).Key())
	case CALL:
		return fmt.Sprintf("%4d  CALL   %d %d %d      ; %s", pc, instr.Operands[0], instr.Operands[1], instr.Operands[2], pool.NativeFunctionSig(int(instr.Operands[0])).Key())
	default:
		switch instr.Op.Arity() {
		case 0:
			return fmt.Sprintf("%4d  %s", pc, instr.Op)
		case 1:
			return fmt.Sprintf("%4d  %-7s%d", pc, instr.Op, instr.Operands[0])
		case 2:
			return fmt.Sprintf("%4d  %-7s%d %d", pc, instr.Op, instr.Operands[0], instr.Operands[1])
		default:
			return fmt.Sprintf("%4d  %-7s%d %d %d", pc, instr.Op, instr.Operands[0], instr.Operands[1], instr.Operands[2])
		}
	}
}
