package vm

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

func opNOP(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	return stepOutcome{}, nil
}

func opALLOCA(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	n := int(ins.Operands[0])
	for i := 0; i < n; i++ {
		r.push(native.Value{})
	}
	return stepOutcome{}, nil
}

func opDISCARD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	n := int(ins.Operands[0])
	r.stack = r.stack[:len(r.stack)-n]
	return stepOutcome{}, nil
}

// opSTACKROT moves the element at depth N (N counted from the current
// top, top itself being depth 0) to the top, shifting every
// intermediate element down by one to close the gap (spec.md 4.K).
func opSTACKROT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	depth := int(ins.Operands[0])
	pos := len(r.stack) - 1 - depth
	v := r.stack[pos]
	copy(r.stack[pos:], r.stack[pos+1:])
	r.stack[len(r.stack)-1] = v
	return stepOutcome{}, nil
}

func opGALLOCA(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.Globals.alloca()
	return stepOutcome{}, nil
}

func opGLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(r.Globals.load(int(ins.Operands[0])))
	return stepOutcome{}, nil
}

func opGSTORE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.Globals.store(int(ins.Operands[0]), r.pop())
	return stepOutcome{}, nil
}

func opLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(r.stack[ins.Operands[0]])
	return stepOutcome{}, nil
}

func opSTORE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.stack[ins.Operands[0]] = r.pop()
	return stepOutcome{}, nil
}

func opEXIT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	return stepOutcome{exit: true, handled: ins.Operands[0] != 0}, nil
}

func opJMP(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.ip = int(ins.Operands[0])
	return stepOutcome{}, nil
}

func opJN(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	v := r.pop()
	if v.Int != 0 {
		r.ip = int(ins.Operands[0])
	}
	return stepOutcome{}, nil
}

func opJZ(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	v := r.pop()
	if v.Int == 0 {
		r.ip = int(ins.Operands[0])
	}
	return stepOutcome{}, nil
}

func loadArray(r *Runner, idx int, elemType literal.Type) native.Value {
	ac := r.Program.Pool.Array(idx)
	elems := append([]native.Value(nil), ac.Elems...)
	return native.Value{Type: arrayTypeOf(elemType), Array: elems}
}

func arrayTypeOf(elemType literal.Type) literal.Type {
	switch elemType {
	case literal.Number:
		return literal.NumberArray
	case literal.String:
		return literal.StringArray
	case literal.IPAddress:
		return literal.IPAddressArray
	case literal.Cidr:
		return literal.CidrArray
	default:
		panic("vm: unsupported array element type")
	}
}

func opITLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(loadArray(r, int(ins.Operands[0]), literal.Number))
	return stepOutcome{}, nil
}

func opSTLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(loadArray(r, int(ins.Operands[0]), literal.String))
	return stepOutcome{}, nil
}

func opPTLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(loadArray(r, int(ins.Operands[0]), literal.IPAddress))
	return stepOutcome{}, nil
}

func opCTLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(loadArray(r, int(ins.Operands[0]), literal.Cidr))
	return stepOutcome{}, nil
}

func opILOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(native.Value{Type: literal.Number, Int: ins.Operands[0]})
	return stepOutcome{}, nil
}

func opNLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(native.Value{Type: literal.Number, Int: r.Program.Pool.Int(int(ins.Operands[0]))})
	return stepOutcome{}, nil
}
