package ir

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/literal"
)

// GlobalInitHandlerName is the canonical name of the synthetic handler
// whose Alloca instructions become global slots (spec.md 4.H). The
// original source used two conflicting names (@__global_init__ and
// @main); this implementation documents the choice per spec.md 9's open
// question: @main is used, matching the teacher's convention of
// addressing the top-level script entry point by that name.
const GlobalInitHandlerName = "@main"

// IRHandler is a named, ordered collection of BasicBlocks; the first is
// the entry block (spec.md 3).
type IRHandler struct {
	Name    string
	Program *IRProgram
	blocks  []*BasicBlock
}

// NewIRHandler creates a handler with no blocks yet.
func NewIRHandler(name string, program *IRProgram) *IRHandler {
	return &IRHandler{Name: name, Program: program}
}

func (h *IRHandler) Blocks() []*BasicBlock { return h.blocks }

// Entry returns the first block, or nil if the handler has none yet.
func (h *IRHandler) Entry() *BasicBlock {
	if len(h.blocks) == 0 {
		return nil
	}
	return h.blocks[0]
}

// AddBlock appends a new block to the handler's linear layout.
func (h *IRHandler) AddBlock(b *BasicBlock) {
	b.Parent = h
	h.blocks = append(h.blocks, b)
}

func (h *IRHandler) indexOf(b *BasicBlock) int {
	for i, blk := range h.blocks {
		if blk == b {
			return i
		}
	}
	return -1
}

// MoveBefore relocates block b to immediately before target in the
// handler's linear layout.
func (h *IRHandler) MoveBefore(b, target *BasicBlock) {
	h.remove(b)
	idx := h.indexOf(target)
	h.blocks = append(h.blocks[:idx], append([]*BasicBlock{b}, h.blocks[idx:]...)...)
}

// MoveAfter relocates block b to immediately after target.
func (h *IRHandler) MoveAfter(b, target *BasicBlock) {
	h.remove(b)
	idx := h.indexOf(target)
	h.blocks = append(h.blocks[:idx+1], append([]*BasicBlock{b}, h.blocks[idx+1:]...)...)
}

// IsAfter reports whether block a appears strictly after block b in the
// handler's linear layout.
func (h *IRHandler) IsAfter(a, b *BasicBlock) bool {
	return h.indexOf(a) > h.indexOf(b)
}

// IsImmediatelyAfter reports whether a is the very next block after b in
// linear layout — used by the code generator's branch-elision rules.
func (h *IRHandler) IsImmediatelyAfter(a, b *BasicBlock) bool {
	idx := h.indexOf(b)
	return idx >= 0 && idx+1 < len(h.blocks) && h.blocks[idx+1] == a
}

func (h *IRHandler) remove(b *BasicBlock) {
	idx := h.indexOf(b)
	if idx < 0 {
		return
	}
	h.blocks = append(h.blocks[:idx], h.blocks[idx+1:]...)
}

// Erase removes block b from the handler. It first nulls all operands
// inside the block (breaking use-def cycles, e.g. a Phi referencing an
// instruction in the same block) and removes the block's terminator
// before unlinking, per spec.md 3.
func (h *IRHandler) Erase(b *BasicBlock) {
	if term := b.Terminator(); term != nil {
		for idx := range term.operands {
			term.ClearOperand(idx)
		}
	}
	for _, instr := range b.instrs {
		for idx := range instr.operands {
			instr.ClearOperand(idx)
		}
	}
	for _, s := range append([]*BasicBlock(nil), b.succs...) {
		b.removeSuccessor(s)
	}
	for _, p := range append([]*BasicBlock(nil), b.preds...) {
		p.removeSuccessor(b)
	}
	h.remove(b)
}

// Verify recursively runs BasicBlock.Verify on every block. Failure is
// fatal: the program is ill-formed by construction (spec.md 4.D).
func (h *IRHandler) Verify() error {
	noReturn := func(sig *literal.Signature) bool {
		if h.Program == nil {
			return false
		}
		return h.Program.isNoReturnSignature(sig)
	}
	for _, b := range h.blocks {
		if err := b.Verify(noReturn); err != nil {
			return fmt.Errorf("ir: handler %q: %w", h.Name, err)
		}
	}
	return nil
}

// MustVerify panics on a verification failure, matching spec.md 4.D's
// "failure is fatal" policy for internal invariant breaks.
func (h *IRHandler) MustVerify() {
	if err := h.Verify(); err != nil {
		panic(err)
	}
}
