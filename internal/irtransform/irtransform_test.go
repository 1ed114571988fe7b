package irtransform

import (
	"testing"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

func newHandler() (*ir.IRProgram, *ir.IRHandler) {
	p := ir.NewIRProgram()
	h := ir.NewIRHandler("h", p)
	p.AddHandler(h)
	return p, h
}

func br(to *ir.BasicBlock) *ir.Instr {
	i := ir.NewInstr("", literal.Void, ir.OpBr)
	i.AppendOperand(to)
	return i
}

func ret(p *ir.IRProgram) *ir.Instr {
	i := ir.NewInstr("", literal.Void, ir.OpRet)
	i.RetHandled = true
	i.AppendOperand(p.ConstInt(1))
	return i
}

func TestEmptyBlockEliminationRetargetsPredecessors(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	empty := ir.NewBasicBlock("empty")
	exit := ir.NewBasicBlock("exit")
	h.AddBlock(entry)
	h.AddBlock(empty)
	h.AddBlock(exit)

	entry.Append(br(empty))
	empty.Append(br(exit))
	exit.Append(ret(p))

	pass := EmptyBlockElimination{}
	if !pass.Run(h) {
		t.Fatalf("expected a change")
	}
	if got := entry.Terminator().Operand(0); got != exit {
		t.Fatalf("expected entry to branch straight to exit, got %v", got)
	}
	for _, b := range h.Blocks() {
		if b.Name() == "empty" {
			t.Fatalf("expected empty block to be erased")
		}
	}
	if err := h.Verify(); err != nil {
		t.Fatalf("unexpected verify failure: %v", err)
	}
}

func TestLinearBranchMergingAbsorbsSoleSuccessor(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	next := ir.NewBasicBlock("next")
	h.AddBlock(entry)
	h.AddBlock(next)

	entry.Append(br(next))
	next.Append(ret(p))

	pass := LinearBranchMerging{}
	if !pass.Run(h) {
		t.Fatalf("expected a change")
	}
	if len(h.Blocks()) != 1 {
		t.Fatalf("expected next to be absorbed into entry, got %d blocks", len(h.Blocks()))
	}
	if entry.Terminator().Op != ir.OpRet {
		t.Fatalf("expected entry to end in the absorbed Ret, got %s", entry.Terminator().Op)
	}
}

func TestConstantCondBranchFoldingTakesTrueBranch(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	trueBlock := ir.NewBasicBlock("then")
	falseBlock := ir.NewBasicBlock("else")
	h.AddBlock(entry)
	h.AddBlock(trueBlock)
	h.AddBlock(falseBlock)

	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(p.ConstBool(true))
	condBr.AppendOperand(trueBlock)
	condBr.AppendOperand(falseBlock)
	entry.Append(condBr)
	trueBlock.Append(ret(p))
	falseBlock.Append(ret(p))

	pass := ConstantCondBranchFolding{}
	if !pass.Run(h) {
		t.Fatalf("expected a change")
	}
	term := entry.Terminator()
	if term.Op != ir.OpBr {
		t.Fatalf("expected an unconditional branch, got %s", term.Op)
	}
	if term.Operand(0) != ir.ValueRef(trueBlock) {
		t.Fatalf("expected fold to take the true branch")
	}
}

func TestSameBranchCondCollapse(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	target := ir.NewBasicBlock("target")
	h.AddBlock(entry)
	h.AddBlock(target)

	cond := ir.NewInstr("cond", literal.Boolean, ir.OpAlloca)
	entry.Append(cond)
	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(cond)
	condBr.AppendOperand(target)
	condBr.AppendOperand(target)
	entry.Append(condBr)
	target.Append(ret(p))

	pass := SameBranchCondCollapse{}
	if !pass.Run(h) {
		t.Fatalf("expected a change")
	}
	if entry.Terminator().Op != ir.OpBr {
		t.Fatalf("expected unconditional branch after collapse")
	}
}

func TestUnusedBlockEliminationSparesEntry(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	dangling := ir.NewBasicBlock("dangling")
	h.AddBlock(entry)
	h.AddBlock(dangling)
	entry.Append(ret(p))
	dangling.Append(ret(p))

	pass := UnusedBlockElimination{}
	if !pass.Run(h) {
		t.Fatalf("expected dangling block to be removed")
	}
	if len(h.Blocks()) != 1 {
		t.Fatalf("expected entry to survive, got %d blocks", len(h.Blocks()))
	}
	if pass.Run(h) {
		t.Fatalf("expected entry to never be removed even though it qualifies")
	}
}

func TestBranchToExitRewriteSkipsImmediateSuccessor(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	exit := ir.NewBasicBlock("exit")
	h.AddBlock(entry)
	h.AddBlock(exit)
	entry.Append(br(exit))
	exit.Append(ret(p))

	pass := BranchToExitRewrite{}
	if pass.Run(h) {
		t.Fatalf("expected no rewrite when target is the immediate successor")
	}
}

func TestBranchToExitRewriteClonesRetWhenNotAdjacent(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	middle := ir.NewBasicBlock("middle")
	exit := ir.NewBasicBlock("exit")
	h.AddBlock(entry)
	h.AddBlock(middle)
	h.AddBlock(exit)

	entry.Append(br(exit))
	exit.Append(ret(p))
	middle.Append(ret(p))

	pass := BranchToExitRewrite{}
	if !pass.Run(h) {
		t.Fatalf("expected a rewrite since exit is not entry's immediate successor")
	}
	if entry.Terminator().Op != ir.OpRet {
		t.Fatalf("expected entry to end in a cloned Ret, got %s", entry.Terminator().Op)
	}
}

func TestManagerRunsToFixedPoint(t *testing.T) {
	p, h := newHandler()
	entry := ir.NewBasicBlock("entry")
	empty := ir.NewBasicBlock("empty")
	trueBlock := ir.NewBasicBlock("then")
	falseBlock := ir.NewBasicBlock("else")
	h.AddBlock(entry)
	h.AddBlock(empty)
	h.AddBlock(trueBlock)
	h.AddBlock(falseBlock)

	entry.Append(br(empty))
	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(p.ConstBool(false))
	condBr.AppendOperand(trueBlock)
	condBr.AppendOperand(falseBlock)
	empty.Append(condBr)
	trueBlock.Append(ret(p))
	falseBlock.Append(ret(p))

	m := NewManager()
	m.RunToFixedPoint(h)

	if len(h.Blocks()) != 1 {
		t.Fatalf("expected the whole handler to collapse to one block, got %d", len(h.Blocks()))
	}
	if h.Entry().Terminator().Op != ir.OpRet {
		t.Fatalf("expected entry to end in Ret after folding, got %s", h.Entry().Terminator().Op)
	}
	if err := h.Verify(); err != nil {
		t.Fatalf("unexpected verify failure: %v", err)
	}
}
