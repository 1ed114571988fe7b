package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// CreateIPEq/CreateIPNe fold equality on constant IPAddress operands.
func (b *Builder) CreateIPEq(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstIP)
	rc, rok := asConst(rhs, ir.ConstIP)
	if lok && rok {
		return b.Program.ConstBool(lc.IPVal == rc.IPVal)
	}
	return b.emit("t", literal.Boolean, ir.OpIPEq, lhs, rhs)
}

func (b *Builder) CreateIPNe(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstIP)
	rc, rok := asConst(rhs, ir.ConstIP)
	if lok && rok {
		return b.Program.ConstBool(lc.IPVal != rc.IPVal)
	}
	return b.emit("t", literal.Boolean, ir.OpIPNe, lhs, rhs)
}

// CreateCidrContains folds when both sides are constant (spec.md 4.E).
func (b *Builder) CreateCidrContains(cidr, addr ir.ValueRef) ir.ValueRef {
	cc, cok := asConst(cidr, ir.ConstCidr)
	ac, aok := asConst(addr, ir.ConstIP)
	if cok && aok {
		return b.Program.ConstBool(cc.CidrVal.Contains(ac.IPVal))
	}
	return b.emit("t", literal.Boolean, ir.OpCidrContains, cidr, addr)
}
