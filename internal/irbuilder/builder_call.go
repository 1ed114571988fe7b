package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// CreateCall emits a builtin-function Call with the given signature and
// arguments. Calls never fold here even when every argument is constant:
// folding a native call would require invoking host code at compile
// time, which spec.md reserves to the dead-instruction-elimination pass
// acting on the SideEffectFree attribute (spec.md 4.F), not to the
// builder.
func (b *Builder) CreateCall(sig literal.Signature, args ...ir.ValueRef) *ir.Instr {
	instr := ir.NewInstr("t", sig.Return, ir.OpCall)
	instr.Callee = &sig
	for _, a := range args {
		instr.AppendOperand(a)
	}
	b.block.Append(instr)
	return instr
}

// CreateHandlerCall emits a builtin-handler call. HandlerCall's literal
// type is always Boolean ("handled?") per spec.md 4.G, but the codegen
// never pushes its result (spec.md 4.H), so the IR instruction itself
// carries Void to reflect that it has no SSA result consumers can use.
func (b *Builder) CreateHandlerCall(sig literal.Signature, args ...ir.ValueRef) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpHandlerCall)
	instr.Callee = &sig
	for _, a := range args {
		instr.AppendOperand(a)
	}
	b.block.Append(instr)
	return instr
}

// CreateRegExpGroup reads a previously captured regex group by index
// after a regex-match instruction ran (spec.md 4.D).
func (b *Builder) CreateRegExpGroup(index int64) *ir.Instr {
	instr := ir.NewInstr("t", literal.String, ir.OpRegExpGroup)
	instr.AllocaSize = int(index) // reuse AllocaSize as the group index; no alloca semantics apply here
	b.block.Append(instr)
	return instr
}

// CreatePhi creates an (initially operand-less) Phi node of the given
// type; callers append one operand per predecessor in predecessor order
// via instr.AppendOperand.
func (b *Builder) CreatePhi(typ literal.Type) *ir.Instr {
	instr := ir.NewInstr("t", typ, ir.OpPhi)
	b.block.Append(instr)
	return instr
}
