package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

func (b *Builder) CreateBoolNot(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstBool); ok {
		return b.Program.ConstBool(!c.BoolVal)
	}
	return b.emit("t", literal.Boolean, ir.OpBoolNot, v)
}

func (b *Builder) CreateBoolAnd(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstBool)
	rc, rok := asConst(rhs, ir.ConstBool)
	if lok && rok {
		return b.Program.ConstBool(lc.BoolVal && rc.BoolVal)
	}
	return b.emit("t", literal.Boolean, ir.OpBoolAnd, lhs, rhs)
}

// CreateBoolOr lowers to OpBoolOr, never to OpBoolAnd — per spec.md 9's
// open question, the original source's BOrInstr mis-lowering to the
// bitwise-AND opcode is a bug and is NOT reproduced here.
func (b *Builder) CreateBoolOr(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstBool)
	rc, rok := asConst(rhs, ir.ConstBool)
	if lok && rok {
		return b.Program.ConstBool(lc.BoolVal || rc.BoolVal)
	}
	return b.emit("t", literal.Boolean, ir.OpBoolOr, lhs, rhs)
}

func (b *Builder) CreateBoolXor(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstBool)
	rc, rok := asConst(rhs, ir.ConstBool)
	if lok && rok {
		return b.Program.ConstBool(lc.BoolVal != rc.BoolVal)
	}
	return b.emit("t", literal.Boolean, ir.OpBoolXor, lhs, rhs)
}
