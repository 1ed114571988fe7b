package irtransform

import "github.com/contour-terminal/endo/internal/ir"

// EmptyBlockElimination removes a block whose sole instruction is an
// unconditional branch, retargeting every predecessor straight to the
// branch's destination (spec.md 4.F pass 1). The entry block is never
// removed even if it qualifies, since a handler always starts execution
// there.
type EmptyBlockElimination struct{}

func (EmptyBlockElimination) Name() string { return "empty-block-elimination" }

func (EmptyBlockElimination) Run(h *ir.IRHandler) bool {
	entry := h.Entry()
	for _, b := range h.Blocks() {
		if b == entry {
			continue
		}
		instrs := b.Instrs()
		if len(instrs) != 1 || instrs[0].Op != ir.OpBr {
			continue
		}
		target, ok := instrs[0].Operand(0).(*ir.BasicBlock)
		if !ok || target == b {
			continue
		}
		for _, pred := range append([]*ir.BasicBlock(nil), b.Preds()...) {
			term := pred.Terminator()
			if term == nil {
				continue
			}
			for idx, op := range term.Operands() {
				if op == b {
					term.SetOperand(idx, target)
				}
			}
		}
		h.Erase(b)
		return true
	}
	return false
}
