package irbuilder

import (
	"testing"

	"github.com/contour-terminal/endo/internal/ir"
)

func newTestBuilder() (*Builder, *ir.IRProgram, *ir.IRHandler) {
	p := ir.NewIRProgram()
	h := ir.NewIRHandler("h", p)
	p.AddHandler(h)
	b := New(p)
	b.SetHandler(h)
	entry := b.NewBlock("entry")
	b.SetBlock(entry)
	return b, p, h
}

// TestFoldArithmeticAtConstruction mirrors spec.md 8 seed scenario 1: a handler
// that returns 2+3*4 should fold to a single ConstantInt(14) with no
// arithmetic instructions emitted.
func TestFoldArithmeticAtConstruction(t *testing.T) {
	b, p, _ := newTestBuilder()
	two := p.ConstInt(2)
	three := p.ConstInt(3)
	four := p.ConstInt(4)
	mul := b.CreateNumMul(three, four)
	sum := b.CreateNumAdd(two, mul)

	c, ok := sum.(*ir.Constant)
	if !ok {
		t.Fatalf("expected constant-folded result, got %T", sum)
	}
	if c.IntVal != 14 {
		t.Fatalf("expected 14, got %d", c.IntVal)
	}
	if len(b.Block().Instrs()) != 0 {
		t.Fatalf("expected no instructions emitted for a fully-constant expression, got %d", len(b.Block().Instrs()))
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	b, p, _ := newTestBuilder()
	a := p.ConstInt(10)
	c := p.ConstInt(3)
	once := b.CreateNumAdd(a, c)
	twice := b.CreateNumAdd(once, p.ConstInt(0)).(*ir.Constant)
	if twice.IntVal != 13 {
		t.Fatalf("expected idempotent fold to reach 13, got %d", twice.IntVal)
	}
}

func TestStringConcatEmptySideFoldsEvenWithNonConstantOtherSide(t *testing.T) {
	b, p, _ := newTestBuilder()
	empty := p.ConstString("")
	slot := b.CreateAlloca("s", empty.Type(), false)
	nonConst := b.CreateLoad(slot)
	result := b.CreateStrConcat(empty, nonConst)
	if result != nonConst {
		t.Fatalf("expected empty+nonConst to fold to nonConst, got %v", result)
	}
}

func TestCondBrFoldingSeedScenario(t *testing.T) {
	b, p, h := newTestBuilder()
	trueBlock := b.NewBlock("then")
	falseBlock := b.NewBlock("else")

	cond := p.ConstBool(true)
	// A real codegen/transform pipeline would fold this CondBr away; the
	// builder itself never folds control flow (spec.md 4.E), so we assert
	// that property here and leave the actual fold to internal/irtransform.
	instr := b.CreateCondBr(cond, trueBlock, falseBlock)
	if instr.Op != ir.OpCondBr {
		t.Fatalf("CreateCondBr must never fold, got op %s", instr.Op)
	}
	b.SetBlock(trueBlock)
	b.CreateRet(true)
	b.SetBlock(falseBlock)
	b.CreateRet(false)

	if err := h.Verify(); err != nil {
		t.Fatalf("unexpected verify failure: %v", err)
	}
}
