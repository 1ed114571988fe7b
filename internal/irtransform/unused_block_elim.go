package irtransform

import "github.com/contour-terminal/endo/internal/ir"

// UnusedBlockElimination erases any non-entry block that has no
// predecessors (spec.md 4.F pass 6) — typically a dangling else-branch
// or match-case block left unreachable by an earlier pass.
type UnusedBlockElimination struct{}

func (UnusedBlockElimination) Name() string { return "unused-block-elimination" }

func (UnusedBlockElimination) Run(h *ir.IRHandler) bool {
	entry := h.Entry()
	for _, b := range h.Blocks() {
		if b == entry {
			continue
		}
		if len(b.Preds()) == 0 {
			h.Erase(b)
			return true
		}
	}
	return false
}
