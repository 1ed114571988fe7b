package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// CreateAlloca creates a local slot of the given element type. When global
// is true and the current handler is the synthetic global-init handler,
// the slot is tracked as a global by the code generator (spec.md 4.H);
// irbuilder itself makes no distinction beyond tagging AllocaGlob so the
// codegen can tell ALLOCA apart from GALLOCA.
func (b *Builder) CreateAlloca(slotName string, elemType literal.Type, global bool) *ir.Instr {
	instr := ir.NewInstr(b.allocName(slotName), elemType, ir.OpAlloca)
	instr.AllocaSize = 1
	instr.AllocaGlob = global
	instr.SlotName = slotName
	b.block.Append(instr)
	return instr
}

// CreateStore never folds — it is a side-effecting write to a slot.
func (b *Builder) CreateStore(slot *ir.Instr, v ir.ValueRef) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpStore)
	instr.AppendOperand(slot)
	instr.AppendOperand(v)
	instr.SlotName = slot.SlotName
	b.block.Append(instr)
	return instr
}

// CreateLoad produces the value currently held by src. When src is an
// Alloca slot this is a memory read; when src is any other Value, Load
// is the identity rename used by same-type casts (spec.md 4.E) — the code
// generator recognizes a Load of an already-topmost value and emits
// nothing for it (spec.md 4.H).
func (b *Builder) CreateLoad(src ir.ValueRef) ir.ValueRef {
	instr := ir.NewInstr("t", src.Type(), ir.OpLoad)
	instr.AppendOperand(src)
	if alloca, ok := src.(*ir.Instr); ok && alloca.Op == ir.OpAlloca {
		instr.SlotName = alloca.SlotName
	}
	b.block.Append(instr)
	return instr
}
