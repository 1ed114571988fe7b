package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// Control-flow builders refuse to fold and emit terminators only
// (spec.md 4.E).

func (b *Builder) CreateBr(target *ir.BasicBlock) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpBr)
	instr.AppendOperand(target)
	b.block.Append(instr)
	return instr
}

func (b *Builder) CreateCondBr(cond ir.ValueRef, trueBlock, falseBlock *ir.BasicBlock) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpCondBr)
	instr.AppendOperand(cond)
	instr.AppendOperand(trueBlock)
	instr.AppendOperand(falseBlock)
	b.block.Append(instr)
	return instr
}

// CreateRet emits EXIT at codegen time with an integer 0/1 "handled" flag
// (spec.md 4.H); at the IR level it simply records the flag.
func (b *Builder) CreateRet(handled bool) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpRet)
	instr.RetHandled = handled
	flag := int64(0)
	if handled {
		flag = 1
	}
	instr.AppendOperand(b.Program.ConstInt(flag))
	b.block.Append(instr)
	return instr
}

// CreateMatchSame/Head/Tail/RegExp build a Match terminator dispatching on
// subject over the given cases, falling back to elseBlock (spec.md 4.D/
// 4.J). Each case's label must be a String constant.
func (b *Builder) createMatch(class ir.MatchClass, subject ir.ValueRef, cases []ir.MatchCase, elseBlock *ir.BasicBlock) *ir.Instr {
	instr := ir.NewInstr("", literal.Void, ir.OpMatch)
	instr.MatchClass = class
	instr.MatchCases = append([]ir.MatchCase(nil), cases...)
	instr.MatchElse = elseBlock
	instr.AppendOperand(subject)
	instr.AppendOperand(elseBlock)
	for _, c := range cases {
		instr.AppendOperand(c.Target)
	}
	b.block.Append(instr)
	return instr
}

func (b *Builder) CreateMatchSame(subject ir.ValueRef, cases []ir.MatchCase, elseBlock *ir.BasicBlock) *ir.Instr {
	return b.createMatch(ir.MatchSame, subject, cases, elseBlock)
}
func (b *Builder) CreateMatchHead(subject ir.ValueRef, cases []ir.MatchCase, elseBlock *ir.BasicBlock) *ir.Instr {
	return b.createMatch(ir.MatchHead, subject, cases, elseBlock)
}
func (b *Builder) CreateMatchTail(subject ir.ValueRef, cases []ir.MatchCase, elseBlock *ir.BasicBlock) *ir.Instr {
	return b.createMatch(ir.MatchTail, subject, cases, elseBlock)
}
func (b *Builder) CreateMatchRegExp(subject ir.ValueRef, cases []ir.MatchCase, elseBlock *ir.BasicBlock) *ir.Instr {
	return b.createMatch(ir.MatchRegExp, subject, cases, elseBlock)
}
