package ir

import "github.com/contour-terminal/endo/internal/literal"

// MatchCase pairs a label constant with its target block for a Match
// terminator (spec.md 4.D / 4.J).
type MatchCase struct {
	Label  *Constant // always a String constant
	Target *BasicBlock
}

// Instr is a Value that also carries a pointer to its containing basic
// block and an ordered operand list. Per the design note in spec.md 9 it
// is a single tagged struct rather than a subclass per opcode; fields
// below that don't apply to a given Op are simply left zero.
type Instr struct {
	Value

	Op     Op
	Parent *BasicBlock

	operands []ValueRef // each slot may hold a *Constant, *Instr, or *BasicBlock

	// Payload used by a subset of Ops:
	AllocaSize int         // OpAlloca: number of slots
	AllocaGlob bool        // OpAlloca: true if this is a global slot
	SlotName   string      // OpAlloca/OpStore/OpLoad: source-level variable name (diagnostics only)
	CastOp     CastOp      // OpCast
	Callee     *literal.Signature // OpCall/OpHandlerCall: callee signature
	RetHandled bool        // OpRet: the program's exit "handled" flag (0 or 1 literal, cached for codegen convenience)
	MatchClass MatchClass  // OpMatch
	MatchCases []MatchCase // OpMatch
	MatchElse  *BasicBlock // OpMatch
}

func newInstr(name string, typ literal.Type, op Op) *Instr {
	return &Instr{Value: newValue(name, typ), Op: op}
}

// NewInstr constructs a detached, unparented instruction. Exported for use
// by internal/irbuilder and internal/irtransform, which are the only
// packages outside ir expected to build raw instructions; ordinary IR
// consumers should go through irbuilder's folding factory methods.
func NewInstr(name string, typ literal.Type, op Op) *Instr {
	return newInstr(name, typ, op)
}

// Operands returns the operand list. Callers must not mutate the returned
// slice in place; use SetOperand/AppendOperand.
func (i *Instr) Operands() []ValueRef { return i.operands }

// Operand returns operand n, or nil if out of range.
func (i *Instr) Operand(n int) ValueRef {
	if n < 0 || n >= len(i.operands) {
		return nil
	}
	return i.operands[n]
}

// AppendOperand adds a new operand slot at the end, wiring up use-def (and
// successor/predecessor edges, if this is a terminator referencing a
// BasicBlock) symmetrically.
func (i *Instr) AppendOperand(v ValueRef) {
	idx := len(i.operands)
	i.operands = append(i.operands, nil)
	i.SetOperand(idx, v)
}

// SetOperand assigns operand index idx to v, updating the old and new
// value's using-lists. If the operand is a *BasicBlock and this
// instruction is its block's terminator, the containing block's successor
// list is kept symmetric with v's predecessor list (spec.md 4.D).
func (i *Instr) SetOperand(idx int, v ValueRef) {
	old := i.operands[idx]
	if old == v {
		return
	}
	if old != nil {
		old.valuePtr().removeUse(i, idx)
		if oldBlock, ok := old.(*BasicBlock); ok && i.Op.IsTerminator() && i.isLastInBlock() {
			i.Parent.removeSuccessor(oldBlock)
		}
	}
	i.operands[idx] = v
	if v != nil {
		v.valuePtr().addUse(i, idx)
		if newBlock, ok := v.(*BasicBlock); ok && i.Op.IsTerminator() && i.isLastInBlock() {
			i.Parent.addSuccessor(newBlock)
		}
	}
}

// ClearOperand nils out operand idx, symmetrically tearing down use-def
// and (for terminators) successor/predecessor edges.
func (i *Instr) ClearOperand(idx int) {
	i.SetOperand(idx, nil)
}

func (i *Instr) isLastInBlock() bool {
	return i.Parent != nil && len(i.Parent.instrs) > 0 && i.Parent.instrs[len(i.Parent.instrs)-1] == i
}

// Destroy removes the instruction from its block's use-def graph. It
// requires !IsUsed(), enforcing the spec's "a Value may not be destroyed
// while isUsed()" invariant.
func (i *Instr) Destroy() {
	if i.IsUsed() {
		panic("ir: destroying instruction that is still used")
	}
	for idx := range i.operands {
		i.ClearOperand(idx)
	}
}

// Clone produces a new Instr sharing operand references (no deep copy),
// per spec.md 4.D. The clone is not yet attached to any block.
func (i *Instr) Clone() *Instr {
	clone := &Instr{
		Value:      newValue(i.name, i.typ),
		Op:         i.Op,
		AllocaSize: i.AllocaSize,
		AllocaGlob: i.AllocaGlob,
		SlotName:   i.SlotName,
		CastOp:     i.CastOp,
		Callee:     i.Callee,
		RetHandled: i.RetHandled,
		MatchClass: i.MatchClass,
		MatchElse:  i.MatchElse,
	}
	clone.MatchCases = append([]MatchCase(nil), i.MatchCases...)
	for _, op := range i.operands {
		clone.AppendOperand(op)
	}
	return clone
}

// IsSameInstruction collapses the double-dispatch InstructionVisitor
// predicate from the original source (spec.md 9) to a kind-plus-operands
// comparison.
func (i *Instr) IsSameInstruction(other *Instr) bool {
	if i.Op != other.Op || len(i.operands) != len(other.operands) {
		return false
	}
	for idx, op := range i.operands {
		if op != other.operands[idx] {
			return false
		}
	}
	return true
}

// ReplaceAllUsesWith redirects every using instruction's operand that
// points to this instruction to newValue. After the call, UseCount() == 0
// (spec.md 8).
func (i *Instr) ReplaceAllUsesWith(newValue ValueRef) {
	replaceAllUsesOf(i, newValue)
}

var _ ValueRef = (*Instr)(nil)
