package ir

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/literal"
)

// BasicBlock owns an ordered list of Instrs and maintains predecessor and
// successor lists. It embeds Value so it can sit in a terminator's
// operand list like any other ValueRef; its literal.Type is always Void
// and it is never interned or folded.
type BasicBlock struct {
	Value

	Parent *IRHandler
	instrs []*Instr
	preds  []*BasicBlock
	succs  []*BasicBlock
}

// NewBasicBlock creates a detached block; callers attach it to a handler
// via IRHandler.AddBlock.
func NewBasicBlock(name string) *BasicBlock {
	return &BasicBlock{Value: newValue(name, literal.Void)}
}

func (b *BasicBlock) valuePtr() *Value { return &b.Value }

var _ ValueRef = (*BasicBlock)(nil)

func (b *BasicBlock) Instrs() []*Instr { return b.instrs }
func (b *BasicBlock) Preds() []*BasicBlock { return b.preds }
func (b *BasicBlock) Succs() []*BasicBlock { return b.succs }

// Append adds an instruction to the end of the block and sets its parent.
func (b *BasicBlock) Append(i *Instr) {
	i.Parent = b
	b.instrs = append(b.instrs, i)
	// If i is a terminator that already references blocks (built before
	// being appended), wire up successor edges now that Parent is set.
	if i.Op.IsTerminator() {
		for _, op := range i.operands {
			if target, ok := op.(*BasicBlock); ok {
				b.addSuccessor(target)
			}
		}
	}
}

// Terminator returns the block's terminator instruction, or nil if the
// block is not yet terminated (e.g. mid-construction).
func (b *BasicBlock) Terminator() *Instr {
	if len(b.instrs) == 0 {
		return nil
	}
	last := b.instrs[len(b.instrs)-1]
	if last.Op.IsTerminator() {
		return last
	}
	return nil
}

func (b *BasicBlock) addSuccessor(s *BasicBlock) {
	b.succs = append(b.succs, s)
	s.preds = append(s.preds, b)
}

// removeSuccessor removes exactly one occurrence of the edge b->s in both
// directions, matching the one-edge-per-operand model of setOperand.
func (b *BasicBlock) removeSuccessor(s *BasicBlock) {
	b.succs = removeOneBlock(b.succs, s)
	s.preds = removeOneBlock(s.preds, b)
}

func removeOneBlock(list []*BasicBlock, target *BasicBlock) []*BasicBlock {
	for i, blk := range list {
		if blk == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// removePredEdge drops a single predecessor edge without going through
// an operand (for a caller that is rewriting a terminator elsewhere).
func (b *BasicBlock) removePredEdge(p *BasicBlock) {
	b.preds = removeOneBlock(b.preds, p)
}

// RemoveTerminator clears every operand of the block's terminator (so
// both value use-def edges and, for block-typed operands, successor
// edges are unlinked symmetrically), pops it off the instruction list,
// and returns the now-detached instruction. Used by irtransform passes
// that replace one terminator with another.
func (b *BasicBlock) RemoveTerminator() *Instr {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	for idx := range term.operands {
		term.ClearOperand(idx)
	}
	b.instrs = b.instrs[:len(b.instrs)-1]
	return term
}

// RemoveInstr removes instruction i from anywhere in the block's
// instruction list without touching its operands — callers must already
// have satisfied !i.IsUsed() (typically via dead-instruction elimination)
// or be about to relocate i elsewhere.
func (b *BasicBlock) RemoveInstr(i *Instr) {
	for idx, ins := range b.instrs {
		if ins == i {
			b.instrs = append(b.instrs[:idx], b.instrs[idx+1:]...)
			return
		}
	}
}

// Absorb moves every instruction from target into the end of b
// (reparenting them) and transfers target's successor edges to b. It is
// the caller's responsibility to have already severed the b->target
// edge (e.g. via RemoveTerminator) and to erase target from its handler
// afterward (linear branch merging, spec.md 4.F pass 2).
func (b *BasicBlock) Absorb(target *BasicBlock) {
	for _, instr := range target.instrs {
		instr.Parent = b
	}
	b.instrs = append(b.instrs, target.instrs...)
	target.instrs = nil
	for _, s := range append([]*BasicBlock(nil), target.succs...) {
		target.removeSuccessor(s)
		b.addSuccessor(s)
	}
}

// Destroy requires an empty predecessor set and eagerly unlinks its
// successors (spec.md 3).
func (b *BasicBlock) Destroy() {
	if len(b.preds) != 0 {
		panic("ir: destroying basic block with nonempty predecessor set")
	}
	if term := b.Terminator(); term != nil {
		for idx, op := range term.operands {
			if _, ok := op.(*BasicBlock); ok {
				term.ClearOperand(idx)
			}
		}
	}
	for _, s := range append([]*BasicBlock(nil), b.succs...) {
		b.removeSuccessor(s)
	}
}

// Verify enforces the BasicBlock invariants of spec.md 3:
//   - nonempty
//   - last instruction is a terminator, or a non-returning call whose
//     callee is declared NoReturn
//   - no terminator instruction appears anywhere except the last position
//   - successor/predecessor edges are symmetric
func (b *BasicBlock) Verify(noReturn func(*literal.Signature) bool) error {
	if len(b.instrs) == 0 {
		return fmt.Errorf("ir: block %q is empty", b.name)
	}
	for idx, instr := range b.instrs {
		last := idx == len(b.instrs)-1
		if instr.Op.IsTerminator() && !last {
			return fmt.Errorf("ir: block %q has mid-block terminator %s at index %d", b.name, instr.Op, idx)
		}
		if last && !instr.Op.IsTerminator() {
			isNoReturnCall := instr.Op == OpCall && instr.Callee != nil && noReturn != nil && noReturn(instr.Callee)
			if !isNoReturnCall {
				return fmt.Errorf("ir: block %q does not end in a terminator or NoReturn call", b.name)
			}
		}
	}
	countOf := func(list []*BasicBlock, target *BasicBlock) int {
		n := 0
		for _, blk := range list {
			if blk == target {
				n++
			}
		}
		return n
	}
	for _, s := range uniqueBlocks(b.succs) {
		if countOf(b.succs, s) != countOf(s.preds, b) {
			return fmt.Errorf("ir: block %q -> %q has asymmetric edge multiplicity", b.name, s.name)
		}
	}
	for _, p := range uniqueBlocks(b.preds) {
		if countOf(b.preds, p) != countOf(p.succs, b) {
			return fmt.Errorf("ir: block %q <- %q has asymmetric edge multiplicity", b.name, p.name)
		}
	}
	return nil
}

func uniqueBlocks(list []*BasicBlock) []*BasicBlock {
	seen := make(map[*BasicBlock]bool, len(list))
	out := make([]*BasicBlock, 0, len(list))
	for _, b := range list {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
