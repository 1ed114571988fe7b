package ir

import (
	"testing"

	"github.com/contour-terminal/endo/internal/literal"
)

func buildRetHandler(p *IRProgram, name string, retVal *Constant) *IRHandler {
	h := NewIRHandler(name, p)
	p.AddHandler(h)
	entry := NewBasicBlock("entry")
	h.AddBlock(entry)
	ret := newInstr("", retVal.Type(), OpRet)
	ret.AppendOperand(retVal)
	entry.Append(ret)
	return h
}

func TestConstantInterning(t *testing.T) {
	p := NewIRProgram()
	a := p.ConstInt(14)
	b := p.ConstInt(14)
	if a != b {
		t.Fatalf("requesting the same integer literal twice must return the same Constant")
	}
	s1 := p.ConstString("hi")
	s2 := p.ConstString("hi")
	if s1 != s2 {
		t.Fatalf("string interning failed")
	}
	if p.ConstBool(true) != p.ConstBool(true) {
		t.Fatalf("boolean singletons must be stable")
	}
}

func TestReplaceAllUsesWith(t *testing.T) {
	p := NewIRProgram()
	h := NewIRHandler("h", p)
	p.AddHandler(h)
	entry := NewBasicBlock("entry")
	h.AddBlock(entry)

	c1 := p.ConstInt(1)
	add := newInstr("t0", c1.Type(), OpNumAdd)
	add.AppendOperand(c1)
	add.AppendOperand(c1)
	entry.Append(add)
	ret := newInstr("", c1.Type(), OpRet)
	ret.AppendOperand(add)
	entry.Append(ret)

	if c1.UseCount() != 2 {
		t.Fatalf("expected c1 to be used twice, got %d", c1.UseCount())
	}

	c2 := p.ConstInt(2)
	add.ReplaceAllUsesWith(c2)
	if add.UseCount() != 0 {
		t.Fatalf("replaceAllUsesWith must leave the replaced value with UseCount() == 0, got %d", add.UseCount())
	}
	if ret.Operand(0) != ValueRef(c2) {
		t.Fatalf("expected ret's operand to be redirected to c2")
	}
}

func TestBasicBlockVerifyInvariants(t *testing.T) {
	p := NewIRProgram()
	h := buildRetHandler(p, "h", p.ConstInt(1))
	if err := h.Verify(); err != nil {
		t.Fatalf("expected valid handler, got %v", err)
	}

	entry := h.Entry()
	badInstr := newInstr("", literal.Number, OpNop)
	entry.instrs = append([]*Instr{badInstr}, entry.instrs...)
	// Inserted a terminator-free Nop before Ret: still valid since Nop
	// isn't last. Now force a terminator mid-block to trigger failure.
	midTerm := newInstr("", literal.Number, OpBr)
	other := NewBasicBlock("other")
	h.AddBlock(other)
	midTerm.AppendOperand(other)
	entry.instrs = append([]*Instr{entry.instrs[0], midTerm}, entry.instrs[1:]...)
	if err := h.Verify(); err == nil {
		t.Fatalf("expected verify to reject a mid-block terminator")
	}
}

func TestSuccessorPredecessorSymmetry(t *testing.T) {
	p := NewIRProgram()
	h := NewIRHandler("h", p)
	p.AddHandler(h)
	entry := NewBasicBlock("entry")
	target := NewBasicBlock("target")
	h.AddBlock(entry)
	h.AddBlock(target)

	br := newInstr("", literal.Void, OpBr)
	br.AppendOperand(target)
	entry.Append(br)

	retT := newInstr("", p.ConstInt(0).Type(), OpRet)
	retT.AppendOperand(p.ConstInt(0))
	target.Append(retT)

	if len(entry.Succs()) != 1 || entry.Succs()[0] != target {
		t.Fatalf("expected entry to have target as sole successor")
	}
	if len(target.Preds()) != 1 || target.Preds()[0] != entry {
		t.Fatalf("expected target to have entry as sole predecessor")
	}

	// Retarget the branch and verify symmetric teardown/setup.
	other := NewBasicBlock("other")
	h.AddBlock(other)
	retO := newInstr("", p.ConstInt(0).Type(), OpRet)
	retO.AppendOperand(p.ConstInt(0))
	other.Append(retO)

	br.SetOperand(0, other)
	if len(target.Preds()) != 0 {
		t.Fatalf("expected target to lose its predecessor after retargeting")
	}
	if len(other.Preds()) != 1 || other.Preds()[0] != entry {
		t.Fatalf("expected other to gain entry as predecessor")
	}
}

func TestHandlerEraseBreaksUseDefCycles(t *testing.T) {
	p := NewIRProgram()
	h := NewIRHandler("h", p)
	p.AddHandler(h)
	entry := NewBasicBlock("entry")
	dead := NewBasicBlock("dead")
	h.AddBlock(entry)
	h.AddBlock(dead)

	ret := newInstr("", p.ConstInt(0).Type(), OpRet)
	ret.AppendOperand(p.ConstInt(0))
	entry.Append(ret)

	deadRet := newInstr("", p.ConstInt(0).Type(), OpRet)
	deadRet.AppendOperand(p.ConstInt(0))
	dead.Append(deadRet)

	h.Erase(dead)
	for _, b := range h.Blocks() {
		if b == dead {
			t.Fatalf("expected dead block to be removed from handler")
		}
	}
}
