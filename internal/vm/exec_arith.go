package vm

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

// Boolean values share Number's stack representation (0/1 in Int) —
// see internal/codegen's ConstBool-via-ILOAD decision. Every op in this
// file that logically produces or consumes a Boolean therefore reads
// and writes plain Number values.

func pushNum(r *Runner, v int64) { r.push(native.Value{Type: literal.Number, Int: v}) }

func pushBool(r *Runner, b bool) {
	if b {
		pushNum(r, 1)
	} else {
		pushNum(r, 0)
	}
}

func opNNEG(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushNum(r, -a.Int)
	return stepOutcome{}, nil
}

func opNNOT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushNum(r, ^a.Int)
	return stepOutcome{}, nil
}

func opNADD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int+b.Int)
	return stepOutcome{}, nil
}

func opNSUB(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int-b.Int)
	return stepOutcome{}, nil
}

func opNMUL(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int*b.Int)
	return stepOutcome{}, nil
}

func opNDIV(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	if b.Int == 0 {
		panic("vm: integer division by zero")
	}
	pushNum(r, a.Int/b.Int)
	return stepOutcome{}, nil
}

func opNREM(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	if b.Int == 0 {
		panic("vm: integer remainder by zero")
	}
	pushNum(r, a.Int%b.Int)
	return stepOutcome{}, nil
}

func opNSHL(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int<<uint(b.Int))
	return stepOutcome{}, nil
}

func opNSHR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int>>uint(b.Int))
	return stepOutcome{}, nil
}

// intPow raises base to a non-negative exponent; a negative exponent
// has no integer result and yields 0, matching this VM's integer-only
// Number type.
func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func opNPOW(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, intPow(a.Int, b.Int))
	return stepOutcome{}, nil
}

func opNAND(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int&b.Int)
	return stepOutcome{}, nil
}

func opNOR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int|b.Int)
	return stepOutcome{}, nil
}

func opNXOR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushNum(r, a.Int^b.Int)
	return stepOutcome{}, nil
}

func opNCMPZ(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushBool(r, a.Int == 0)
	return stepOutcome{}, nil
}

func opNCMPEQ(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int == b.Int)
	return stepOutcome{}, nil
}

func opNCMPNE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int != b.Int)
	return stepOutcome{}, nil
}

func opNCMPLE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int <= b.Int)
	return stepOutcome{}, nil
}

func opNCMPGE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int >= b.Int)
	return stepOutcome{}, nil
}

func opNCMPLT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int < b.Int)
	return stepOutcome{}, nil
}

func opNCMPGT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int > b.Int)
	return stepOutcome{}, nil
}

func opBNOT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushBool(r, a.Int == 0)
	return stepOutcome{}, nil
}

func opBAND(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int != 0 && b.Int != 0)
	return stepOutcome{}, nil
}

func opBOR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Int != 0 || b.Int != 0)
	return stepOutcome{}, nil
}

func opBXOR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, (a.Int != 0) != (b.Int != 0))
	return stepOutcome{}, nil
}
