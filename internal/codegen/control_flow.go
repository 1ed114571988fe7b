package codegen

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/ir"
)

// pendingThunk records a deferred store-then-jump trampoline for an
// edge whose destination block carries Phi instructions. A single
// conditional-jump opcode can only carry one destination PC, so an
// edge that also needs to write incoming Phi values can't jump straight
// to the real block; it jumps to a small generated thunk instead, which
// writes the right incoming values and then jumps on to the real block.
type pendingThunk struct {
	key        *ir.BasicBlock
	pred, succ *ir.BasicBlock
}

type pendingMatchCase struct {
	labelIndex int
	key        *ir.BasicBlock
}

type pendingMatch struct {
	defIdx  int
	elseKey *ir.BasicBlock
	cases   []pendingMatchCase
}

// allocatePhiSlots reserves a local slot for every Phi in the handler
// before any block's code is generated, exactly as if each Phi were a
// local variable declared at handler entry. internal/irtransform's
// passes do not eliminate Phis, so codegen is the point SSA form is
// finally destroyed: every incoming edge gets a Store into the slot,
// and the Phi site itself becomes a plain Load of it.
func (hg *handlerGen) allocatePhiSlots() {
	for _, b := range hg.irh.Blocks() {
		for _, instr := range b.Instrs() {
			if instr.Op != ir.OpPhi {
				continue
			}
			pos := len(hg.stack)
			hg.emit1(bytecode.ALLOCA, 1)
			hg.push(instr)
			hg.localSlot[instr] = pos
		}
	}
}

func (hg *handlerGen) blockHasPhis(b *ir.BasicBlock) bool {
	for _, instr := range b.Instrs() {
		if instr.Op == ir.OpPhi {
			return true
		}
	}
	return false
}

// storePhiIncoming writes, for every Phi at the head of succ, the value
// contributed by pred into that Phi's slot. It assumes pred appears at
// most once among succ's recorded predecessors for any case that
// matters in practice; a block reached twice from the same predecessor
// with two different incoming values (e.g. both arms of one CondBr
// pointing at the same target) resolves to whichever edge is recorded
// first.
func (hg *handlerGen) storePhiIncoming(pred, succ *ir.BasicBlock) {
	predIdx := -1
	for i, p := range succ.Preds() {
		if p == pred {
			predIdx = i
			break
		}
	}
	if predIdx < 0 {
		panic("codegen: edge source is not among its phi-bearing successor's recorded predecessors")
	}
	for _, instr := range succ.Instrs() {
		if instr.Op != ir.OpPhi {
			continue
		}
		hg.ensureOnTop(instr.Operand(predIdx))
		pos, ok := hg.localSlot[instr]
		if !ok {
			panic("codegen: phi slot missing at incoming-edge store time")
		}
		hg.emit1(bytecode.STORE, int64(pos))
		hg.pop(1)
	}
}

// branchTargetKey returns the block a jump from pred to succ should
// actually target: succ itself when it carries no Phis, or a synthetic
// marker block standing in for a thunk generated once every real block
// has been emitted.
func (hg *handlerGen) branchTargetKey(pred, succ *ir.BasicBlock) *ir.BasicBlock {
	if !hg.blockHasPhis(succ) {
		return succ
	}
	key := ir.NewBasicBlock("")
	hg.pendingThunks = append(hg.pendingThunks, pendingThunk{key: key, pred: pred, succ: succ})
	return key
}

func (hg *handlerGen) emitJump(op bytecode.Opcode, target *ir.BasicBlock) {
	pc := len(hg.code)
	hg.code = append(hg.code, bytecode.Instr1(op, 0))
	hg.fixups = append(hg.fixups, jumpFixup{pc: pc, target: target})
}

func (hg *handlerGen) genBr(instr *ir.Instr) {
	pred := hg.currentBlock
	succ, ok := instr.Operand(0).(*ir.BasicBlock)
	if !ok {
		panic("codegen: Br's operand must be a basic block")
	}
	if !hg.blockHasPhis(succ) && hg.irh.IsImmediatelyAfter(succ, pred) {
		return
	}
	hg.emitJump(bytecode.JMP, hg.branchTargetKey(pred, succ))
}

func (hg *handlerGen) genCondBr(instr *ir.Instr) {
	pred := hg.currentBlock
	trueB, ok1 := instr.Operand(1).(*ir.BasicBlock)
	falseB, ok2 := instr.Operand(2).(*ir.BasicBlock)
	if !ok1 || !ok2 {
		panic("codegen: CondBr's second and third operands must be basic blocks")
	}
	hg.ensureOnTop(instr.Operand(0))
	hg.pop(1)
	switch {
	case !hg.blockHasPhis(trueB) && hg.irh.IsImmediatelyAfter(trueB, pred):
		hg.emitJump(bytecode.JZ, hg.branchTargetKey(pred, falseB))
	case !hg.blockHasPhis(falseB) && hg.irh.IsImmediatelyAfter(falseB, pred):
		hg.emitJump(bytecode.JN, hg.branchTargetKey(pred, trueB))
	default:
		hg.emitJump(bytecode.JN, hg.branchTargetKey(pred, trueB))
		hg.emitJump(bytecode.JMP, hg.branchTargetKey(pred, falseB))
	}
}

func (hg *handlerGen) genMatch(instr *ir.Instr) {
	pred := hg.currentBlock
	hg.ensureOnTop(instr.Operand(0))
	hg.pop(1)

	pool := hg.g.bcProg.Pool
	idx := pool.MakeMatchDef()
	md := pool.MatchDef(idx)
	md.HandlerID = pool.MakeHandlerSlot(hg.irh.Name)
	md.Class = toBytecodeMatchClass(instr.MatchClass)
	hg.emit1(md.Class.Opcode(), int64(idx))

	elseBlock := instr.MatchElse
	if elseBlock == nil {
		panic("codegen: Match instruction has no else block")
	}
	pm := pendingMatch{defIdx: idx, elseKey: hg.branchTargetKey(pred, elseBlock)}
	for _, c := range instr.MatchCases {
		labelIdx := pool.MakeString(c.Label.StringVal)
		pm.cases = append(pm.cases, pendingMatchCase{
			labelIndex: labelIdx,
			key:        hg.branchTargetKey(pred, c.Target),
		})
	}
	hg.pendingMatches = append(hg.pendingMatches, pm)
}

func (hg *handlerGen) flushThunks() {
	for _, t := range hg.pendingThunks {
		hg.blockStart[t.key] = len(hg.code)
		hg.storePhiIncoming(t.pred, t.succ)
		hg.emitJump(bytecode.JMP, t.succ)
	}
}

func (hg *handlerGen) resolveFixups() {
	for _, f := range hg.fixups {
		pc, ok := hg.blockStart[f.target]
		if !ok {
			panic("codegen: unresolved jump target")
		}
		hg.code[f.pc] = bytecode.Instr1(hg.code[f.pc].Op, int64(pc))
	}
}

func (hg *handlerGen) resolveMatches() {
	pool := hg.g.bcProg.Pool
	for _, pm := range hg.pendingMatches {
		md := pool.MatchDef(pm.defIdx)
		elsePC, ok := hg.blockStart[pm.elseKey]
		if !ok {
			panic("codegen: unresolved match else-target")
		}
		md.ElsePC = elsePC
		for _, c := range pm.cases {
			pc, ok := hg.blockStart[c.key]
			if !ok {
				panic("codegen: unresolved match case target")
			}
			md.Cases = append(md.Cases, bytecode.MatchCase{LabelIndex: c.labelIndex, PC: pc})
		}
	}
}

func toBytecodeMatchClass(c ir.MatchClass) bytecode.MatchClass {
	switch c {
	case ir.MatchSame:
		return bytecode.MatchSame
	case ir.MatchHead:
		return bytecode.MatchHead
	case ir.MatchTail:
		return bytecode.MatchTail
	case ir.MatchRegExp:
		return bytecode.MatchRegExp
	default:
		panic(fmt.Sprintf("codegen: unknown IR match class %v", c))
	}
}
