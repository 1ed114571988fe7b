package codegen

import (
	"testing"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

func newHandler(name string) (*ir.IRProgram, *ir.IRHandler) {
	p := ir.NewIRProgram()
	h := ir.NewIRHandler(name, p)
	p.AddHandler(h)
	return p, h
}

func br(to *ir.BasicBlock) *ir.Instr {
	i := ir.NewInstr("", literal.Void, ir.OpBr)
	i.AppendOperand(to)
	return i
}

func ret(p *ir.IRProgram, handled bool) *ir.Instr {
	i := ir.NewInstr("", literal.Void, ir.OpRet)
	i.RetHandled = handled
	flag := int64(0)
	if handled {
		flag = 1
	}
	i.AppendOperand(p.ConstInt(flag))
	return i
}

func opcodesOf(code []bytecode.Instruction) []bytecode.Opcode {
	ops := make([]bytecode.Opcode, len(code))
	for i, instr := range code {
		ops[i] = instr.Op
	}
	return ops
}

func containsOp(code []bytecode.Instruction, op bytecode.Opcode) bool {
	for _, instr := range code {
		if instr.Op == op {
			return true
		}
	}
	return false
}

// TestGenerateStraightLineArithmetic mirrors spec.md 8 seed scenario 1: a
// local variable stored and then read back once should lower to a plain
// ALLOCA/STORE/LOAD sequence, with the arithmetic falling straight out of
// the generic operand-then-opcode pattern.
func TestGenerateStraightLineArithmetic(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	slot := ir.NewInstr("x", literal.Number, ir.OpAlloca)
	slot.AllocaSize = 1
	entry.Append(slot)

	store := ir.NewInstr("", literal.Void, ir.OpStore)
	store.AppendOperand(slot)
	store.AppendOperand(p.ConstInt(5))
	entry.Append(store)

	load := ir.NewInstr("t1", literal.Number, ir.OpLoad)
	load.AppendOperand(slot)
	entry.Append(load)

	add := ir.NewInstr("t2", literal.Number, ir.OpNumAdd)
	add.AppendOperand(load)
	add.AppendOperand(p.ConstInt(3))
	entry.Append(add)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, ok := prog.HandlerByName("h")
	if !ok {
		t.Fatalf("handler %q not found", "h")
	}

	ops := opcodesOf(got.Code)
	want := []bytecode.Opcode{
		bytecode.ALLOCA, bytecode.ILOAD, bytecode.STORE,
		bytecode.LOAD, bytecode.ILOAD, bytecode.NADD,
		bytecode.EXIT,
	}
	if len(ops) != len(want) {
		t.Fatalf("opcode sequence = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("opcode[%d] = %s, want %s (full: %v)", i, ops[i], want[i], ops)
		}
	}
}

// TestGenerateRepeatedOperandReloadsFromItsPosition exercises the
// sibling-subexpression case spec.md 4.H's LOAD fallback exists for:
// by the time a two-operand instruction consumes its first operand, a
// second, already-computed sibling value may have been pushed above it.
// The generator is not expected to recognize this and rotate; it just
// reloads from the recorded position, which is still correct.
func TestGenerateRepeatedOperandReloadsFromItsPosition(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	slot := ir.NewInstr("x", literal.Number, ir.OpAlloca)
	slot.AllocaSize = 1
	entry.Append(slot)

	load1 := ir.NewInstr("t1", literal.Number, ir.OpLoad)
	load1.AppendOperand(slot)
	entry.Append(load1)

	load2 := ir.NewInstr("t2", literal.Number, ir.OpLoad)
	load2.AppendOperand(slot)
	entry.Append(load2)

	add := ir.NewInstr("t3", literal.Number, ir.OpNumAdd)
	add.AppendOperand(load1)
	add.AppendOperand(load2)
	entry.Append(add)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")

	loads := 0
	for _, instr := range got.Code {
		if instr.Op == bytecode.LOAD {
			loads++
		}
	}
	// One LOAD to materialize each of load1/load2, plus one more to
	// dig load1 back out from underneath load2 once add needs it.
	if loads != 3 {
		t.Fatalf("expected 3 LOADs, got %d in %v", loads, opcodesOf(got.Code))
	}
	if !containsOp(got.Code, bytecode.NADD) {
		t.Fatalf("expected NADD in %v", opcodesOf(got.Code))
	}
}

func TestGenerateCondBrFallthroughElidesJump(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	trueBlock := ir.NewBasicBlock("then")
	falseBlock := ir.NewBasicBlock("else")
	h.AddBlock(entry)
	h.AddBlock(trueBlock)
	h.AddBlock(falseBlock)

	cond := ir.NewInstr("cond", literal.Boolean, ir.OpAlloca)
	entry.Append(cond)
	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(cond)
	condBr.AppendOperand(trueBlock)
	condBr.AppendOperand(falseBlock)
	entry.Append(condBr)

	trueBlock.Append(ret(p, true))
	falseBlock.Append(ret(p, false))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")

	// true is entry's immediate successor, so the CondBr must lower to a
	// single JZ to the else block, with no explicit JMP/JN anywhere.
	if !containsOp(got.Code, bytecode.JZ) {
		t.Fatalf("expected a JZ in %v", opcodesOf(got.Code))
	}
	if containsOp(got.Code, bytecode.JN) || containsOp(got.Code, bytecode.JMP) {
		t.Fatalf("did not expect JN/JMP when the true branch falls through: %v", opcodesOf(got.Code))
	}
}

func TestGenerateCondBrNeitherBranchAdjacentEmitsBoth(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	trueBlock := ir.NewBasicBlock("then")
	falseBlock := ir.NewBasicBlock("else")
	after := ir.NewBasicBlock("after")
	h.AddBlock(entry)
	h.AddBlock(after)
	h.AddBlock(trueBlock)
	h.AddBlock(falseBlock)

	cond := ir.NewInstr("cond", literal.Boolean, ir.OpAlloca)
	entry.Append(cond)
	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(cond)
	condBr.AppendOperand(trueBlock)
	condBr.AppendOperand(falseBlock)
	entry.Append(condBr)

	after.Append(ret(p, true))
	trueBlock.Append(br(after))
	falseBlock.Append(br(after))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")
	if !containsOp(got.Code, bytecode.JN) || !containsOp(got.Code, bytecode.JMP) {
		t.Fatalf("expected both JN and JMP when neither branch is adjacent: %v", opcodesOf(got.Code))
	}
}

func TestGenerateMatchPopulatesMatchDef(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	caseBlock := ir.NewBasicBlock("case0")
	elseBlock := ir.NewBasicBlock("else")
	h.AddBlock(entry)
	h.AddBlock(caseBlock)
	h.AddBlock(elseBlock)

	subjectSlot := ir.NewInstr("s", literal.String, ir.OpAlloca)
	subjectSlot.AllocaSize = 1
	entry.Append(subjectSlot)
	subject := ir.NewInstr("sv", literal.String, ir.OpLoad)
	subject.AppendOperand(subjectSlot)
	entry.Append(subject)

	match := ir.NewInstr("", literal.Void, ir.OpMatch)
	match.MatchClass = ir.MatchSame
	match.MatchCases = []ir.MatchCase{{Label: p.ConstString("x"), Target: caseBlock}}
	match.MatchElse = elseBlock
	match.AppendOperand(subject)
	match.AppendOperand(elseBlock)
	match.AppendOperand(caseBlock)
	entry.Append(match)

	caseBlock.Append(ret(p, true))
	elseBlock.Append(ret(p, false))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")

	if !containsOp(got.Code, bytecode.SMATCHEQ) {
		t.Fatalf("expected SMATCHEQ in %v", opcodesOf(got.Code))
	}
	var matchIdx int64 = -1
	for _, instr := range got.Code {
		if instr.Op == bytecode.SMATCHEQ {
			matchIdx = instr.Operands[0]
		}
	}
	if matchIdx < 0 {
		t.Fatalf("did not find SMATCHEQ operand")
	}
	md := prog.Pool.MatchDef(int(matchIdx))
	if md.Class != bytecode.MatchSame {
		t.Fatalf("MatchDef.Class = %v, want MatchSame", md.Class)
	}
	if len(md.Cases) != 1 {
		t.Fatalf("MatchDef.Cases = %v, want 1 entry", md.Cases)
	}
	if prog.Pool.String(md.Cases[0].LabelIndex) != "x" {
		t.Fatalf("case label = %q, want %q", prog.Pool.String(md.Cases[0].LabelIndex), "x")
	}
}

func TestGeneratePhiLoweredToEdgeStores(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	trueBlock := ir.NewBasicBlock("then")
	falseBlock := ir.NewBasicBlock("else")
	join := ir.NewBasicBlock("join")
	h.AddBlock(entry)
	h.AddBlock(trueBlock)
	h.AddBlock(falseBlock)
	h.AddBlock(join)

	cond := ir.NewInstr("cond", literal.Boolean, ir.OpAlloca)
	entry.Append(cond)
	condBr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	condBr.AppendOperand(cond)
	condBr.AppendOperand(trueBlock)
	condBr.AppendOperand(falseBlock)
	entry.Append(condBr)

	trueBlock.Append(br(join))
	falseBlock.Append(br(join))

	phi := ir.NewInstr("merged", literal.Number, ir.OpPhi)
	phi.AppendOperand(p.ConstInt(1))
	phi.AppendOperand(p.ConstInt(2))
	join.Append(phi)
	join.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")

	storeCount := 0
	for _, instr := range got.Code {
		if instr.Op == bytecode.STORE {
			storeCount++
		}
	}
	if storeCount != 2 {
		t.Fatalf("expected one STORE per incoming edge (2 total), got %d in %v", storeCount, opcodesOf(got.Code))
	}
}

func TestGenerateCallDiscardsUnusedResult(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	sig := literal.NewSignature("die", nil, literal.Number)
	call := ir.NewInstr("r", literal.Number, ir.OpCall)
	call.Callee = &sig
	entry.Append(call)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")
	if !containsOp(got.Code, bytecode.DISCARD) {
		t.Fatalf("expected DISCARD for an unused Call result: %v", opcodesOf(got.Code))
	}
}

func TestGenerateCallKeepsUsedResultOnStack(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	slot := ir.NewInstr("x", literal.Number, ir.OpAlloca)
	slot.AllocaSize = 1
	entry.Append(slot)

	sig := literal.NewSignature("now", nil, literal.Number)
	call := ir.NewInstr("r", literal.Number, ir.OpCall)
	call.Callee = &sig
	entry.Append(call)

	store := ir.NewInstr("", literal.Void, ir.OpStore)
	store.AppendOperand(slot)
	store.AppendOperand(call)
	entry.Append(store)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")
	if containsOp(got.Code, bytecode.DISCARD) {
		t.Fatalf("did not expect a DISCARD when the Call result is stored: %v", opcodesOf(got.Code))
	}
	if !containsOp(got.Code, bytecode.STORE) {
		t.Fatalf("expected the Call result to be stored: %v", opcodesOf(got.Code))
	}
}

func TestGenerateHandlerCallNeverPushesAResult(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	sig := literal.NewSignature("on_exit", nil, literal.Void)
	call := ir.NewInstr("", literal.Void, ir.OpHandlerCall)
	call.Callee = &sig
	entry.Append(call)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")
	if !containsOp(got.Code, bytecode.HANDLER) {
		t.Fatalf("expected a HANDLER instruction: %v", opcodesOf(got.Code))
	}
	if got.MaxStackDepth != 0 {
		t.Fatalf("MaxStackDepth = %d, want 0 (HandlerCall never pushes)", got.MaxStackDepth)
	}
}

func TestGenerateGlobalAllocaUsesGLOADAndGSTORE(t *testing.T) {
	p, h := newHandler(ir.GlobalInitHandlerName)
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	global := ir.NewInstr("g", literal.Number, ir.OpAlloca)
	global.AllocaGlob = true
	entry.Append(global)

	store := ir.NewInstr("", literal.Void, ir.OpStore)
	store.AppendOperand(global)
	store.AppendOperand(p.ConstInt(7))
	entry.Append(store)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName(ir.GlobalInitHandlerName)
	if !containsOp(got.Code, bytecode.GALLOCA) || !containsOp(got.Code, bytecode.GSTORE) {
		t.Fatalf("expected GALLOCA+GSTORE for a global slot: %v", opcodesOf(got.Code))
	}
	if containsOp(got.Code, bytecode.ALLOCA) {
		t.Fatalf("did not expect a local ALLOCA for a global slot: %v", opcodesOf(got.Code))
	}
}

func TestGenerateCastBoolToStringUsesN2S(t *testing.T) {
	p, h := newHandler("h")
	entry := ir.NewBasicBlock("entry")
	h.AddBlock(entry)

	slot := ir.NewInstr("b", literal.Boolean, ir.OpAlloca)
	slot.AllocaSize = 1
	entry.Append(slot)
	load := ir.NewInstr("bv", literal.Boolean, ir.OpLoad)
	load.AppendOperand(slot)
	entry.Append(load)

	cast := ir.NewInstr("s", literal.String, ir.OpCast)
	cast.CastOp = ir.CastBoolToString
	cast.AppendOperand(load)
	entry.Append(cast)
	entry.Append(ret(p, true))

	prog := Generate(p)
	got, _ := prog.HandlerByName("h")
	if !containsOp(got.Code, bytecode.N2S) {
		t.Fatalf("expected N2S for CastBoolToString: %v", opcodesOf(got.Code))
	}
}
