package vm

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

// normalizeReturn converts a native callback's Boolean-typed result to
// the VM stack's Number representation (0/1), preserving every other
// type unchanged. Native callbacks speak literal.Boolean at the call
// boundary; the operand stack never carries a distinct Boolean tag.
func normalizeReturn(v native.Value) native.Value {
	if v.Type == literal.Boolean {
		i := int64(0)
		if v.Bool {
			i = 1
		}
		return native.Value{Type: literal.Number, Int: i}
	}
	return v
}

// popArgs pops argc values off the operand stack and returns them in
// their original left-to-right declaration order. Codegen pushes
// arguments in declared order (spec.md "Call lowering"), so the last
// argument ends up on top and a plain pop sequence yields them reversed.
func (r *Runner) popArgs(argc int) []native.Value {
	args := make([]native.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = r.pop()
	}
	return args
}

// opCALL invokes a resolved native function: CALL(funcIdx, argc,
// retFlag). It pushes the callback's result iff retFlag is set.
func opCALL(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	idx := int(ins.Operands[0])
	argc := int(ins.Operands[1])
	retFlag := ins.Operands[2]

	cb := r.Program.ResolvedFuncs[idx]
	args := r.popArgs(argc)
	ctx := &native.CallCtx{Args: args, Names: cb.ParamNames, Runner: r}
	result := cb.Invoke(ctx)

	if retFlag != 0 {
		r.push(normalizeReturn(result))
	}
	return stepOutcome{}, nil
}

// opHANDLER invokes a resolved native handler: HANDLER(handlerIdx,
// argc). Its boolean result is "this handler handled the event"; when
// true the run transitions to Inactive and Run/Resume reports handled
// (spec.md "Opcode semantics"). It never pushes to the operand stack.
func opHANDLER(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	idx := int(ins.Operands[0])
	argc := int(ins.Operands[1])

	cb := r.Program.ResolvedHandlers[idx]
	args := r.popArgs(argc)
	ctx := &native.CallCtx{Args: args, Names: cb.ParamNames, Runner: r}
	result := cb.Invoke(ctx)

	handled := result.Bool || result.Int != 0
	if handled {
		return stepOutcome{exit: true, handled: true}, nil
	}
	return stepOutcome{}, nil
}
