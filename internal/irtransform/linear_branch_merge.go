package irtransform

import "github.com/contour-terminal/endo/internal/ir"

// LinearBranchMerging absorbs a block's sole successor into it when that
// successor has no other predecessor, collapsing a straight-line branch
// into a single block (spec.md 4.F pass 2).
type LinearBranchMerging struct{}

func (LinearBranchMerging) Name() string { return "linear-branch-merging" }

func (LinearBranchMerging) Run(h *ir.IRHandler) bool {
	for _, b := range h.Blocks() {
		term := b.Terminator()
		if term == nil || term.Op != ir.OpBr {
			continue
		}
		target, ok := term.Operand(0).(*ir.BasicBlock)
		if !ok || target == b || len(target.Preds()) != 1 {
			continue
		}
		b.RemoveTerminator()
		b.Absorb(target)
		h.Erase(target)
		return true
	}
	return false
}
