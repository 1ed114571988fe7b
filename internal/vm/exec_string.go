package vm

import (
	"strconv"
	"strings"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

func pushStr(r *Runner, s string) {
	r.push(native.Value{Type: literal.String, Str: s})
}

func opSLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	pushStr(r, r.Program.Pool.String(int(ins.Operands[0])))
	return stepOutcome{}, nil
}

func opSADD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushStr(r, r.newString(a.Str+b.Str))
	return stepOutcome{}, nil
}

// opSSUBSTR pops (s, start, length) — pushed in that order, so length
// is on top — and pushes s[start:start+length].
func opSSUBSTR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	length, start, s := r.pop(), r.pop(), r.pop()
	pushStr(r, r.newString(s.Str[start.Int:start.Int+length.Int]))
	return stepOutcome{}, nil
}

func opSCMPEQ(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str == b.Str)
	return stepOutcome{}, nil
}

func opSCMPNE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str != b.Str)
	return stepOutcome{}, nil
}

func opSCMPLE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str <= b.Str)
	return stepOutcome{}, nil
}

func opSCMPGE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str >= b.Str)
	return stepOutcome{}, nil
}

func opSCMPLT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str < b.Str)
	return stepOutcome{}, nil
}

func opSCMPGT(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.Str > b.Str)
	return stepOutcome{}, nil
}

func opSCMPBEG(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, strings.HasPrefix(a.Str, b.Str))
	return stepOutcome{}, nil
}

func opSCMPEND(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, strings.HasSuffix(a.Str, b.Str))
	return stepOutcome{}, nil
}

func opSCONTAINS(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, strings.Contains(a.Str, b.Str))
	return stepOutcome{}, nil
}

func opSLEN(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushNum(r, int64(len(a.Str)))
	return stepOutcome{}, nil
}

func opSISEMPTY(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushBool(r, len(a.Str) == 0)
	return stepOutcome{}, nil
}

// opSMATCH serves all four SMATCH{EQ,BEG,END,R} opcodes: the operand is
// a MatchDef index, the dispatcher for which was already classified
// (Same/Head/Tail/RegExp) when it was built (spec.md 4.H, 4.J). A
// RegExp dispatcher's captured groups become this run's regex context
// for a later SREGGROUP.
func opSMATCH(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	subject := r.pop()
	pc, groups := r.Dispatchers[ins.Operands[0]].Evaluate(subject.Str)
	if groups != nil {
		r.regexGroups = groups
	}
	r.ip = pc
	return stepOutcome{}, nil
}

func opN2S(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushStr(r, r.newString(strconv.FormatInt(a.Int, 10)))
	return stepOutcome{}, nil
}

func opP2S(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushStr(r, r.newString(a.IP.String()))
	return stepOutcome{}, nil
}

func opC2S(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushStr(r, r.newString(a.Cidr.String()))
	return stepOutcome{}, nil
}

// opR2S converts the RegExp value on top of the stack — itself a
// Number holding a regex-pool index, per internal/codegen's
// ConstRegExp-via-ILOAD decision — back to its source pattern text.
func opR2S(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	pushStr(r, r.newString(r.Program.Pool.RegExp(int(a.Int))))
	return stepOutcome{}, nil
}

// opS2N parses the string on top of the stack as a signed 64-bit
// decimal integer. A string that doesn't parse pushes 0 rather than
// panicking: unlike the other casts, §4.5's restricted cast pairs don't
// statically guarantee S2N's input is numeric (it can originate from
// arbitrary host/user input), so a malformed string is host-visible
// data, not a broken program invariant.
func opS2N(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	a := r.pop()
	n, err := strconv.ParseInt(a.Str, 10, 64)
	if err != nil {
		n = 0
	}
	pushNum(r, n)
	return stepOutcome{}, nil
}
