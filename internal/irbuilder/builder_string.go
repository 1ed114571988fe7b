package irbuilder

import (
	"strings"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// CreateStrConcat folds "+". Per spec.md 8's boundary behavior, an empty
// string constant on either side folds to the other side even when that
// other side isn't itself constant — a special case beyond the general
// both-constants rule.
func (b *Builder) CreateStrConcat(lhs, rhs ir.ValueRef) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstString)
	rc, rok := asConst(rhs, ir.ConstString)
	if lok && rok {
		return b.Program.ConstString(lc.StringVal + rc.StringVal)
	}
	if lok && lc.StringVal == "" {
		return rhs
	}
	if rok && rc.StringVal == "" {
		return lhs
	}
	return b.emit("t", literal.String, ir.OpStrConcat, lhs, rhs)
}

type strCmpFold func(a, c string) bool

func (b *Builder) foldOrEmitStrCmp(op ir.Op, lhs, rhs ir.ValueRef, fold strCmpFold) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstString)
	rc, rok := asConst(rhs, ir.ConstString)
	if lok && rok {
		return b.Program.ConstBool(fold(lc.StringVal, rc.StringVal))
	}
	return b.emit("t", literal.Boolean, op, lhs, rhs)
}

func (b *Builder) CreateStrCmpEq(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpEq, lhs, rhs, func(a, c string) bool { return a == c })
}
func (b *Builder) CreateStrCmpNe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpNe, lhs, rhs, func(a, c string) bool { return a != c })
}
func (b *Builder) CreateStrCmpLe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpLe, lhs, rhs, func(a, c string) bool { return a <= c })
}
func (b *Builder) CreateStrCmpGe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpGe, lhs, rhs, func(a, c string) bool { return a >= c })
}
func (b *Builder) CreateStrCmpLt(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpLt, lhs, rhs, func(a, c string) bool { return a < c })
}
func (b *Builder) CreateStrCmpGt(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrCmpGt, lhs, rhs, func(a, c string) bool { return a > c })
}
func (b *Builder) CreateStrBeginsWith(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrBeginsWith, lhs, rhs, strings.HasPrefix)
}
func (b *Builder) CreateStrEndsWith(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrEndsWith, lhs, rhs, strings.HasSuffix)
}
func (b *Builder) CreateStrContains(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitStrCmp(ir.OpStrContains, lhs, rhs, strings.Contains)
}

// CreateStrLen/CreateStrIsEmpty fold on a constant string operand.
func (b *Builder) CreateStrLen(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstString); ok {
		return b.Program.ConstInt(int64(len(c.StringVal)))
	}
	return b.emit("t", literal.Number, ir.OpStrLen, v)
}
func (b *Builder) CreateStrIsEmpty(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstString); ok {
		return b.Program.ConstBool(len(c.StringVal) == 0)
	}
	return b.emit("t", literal.Boolean, ir.OpStrIsEmpty, v)
}

// CreateStrSubstr never folds: kept as a plain emit since the spec's
// constant-folding list for strings does not mention substring, and
// folding it would require bounds-checking semantics best left to the
// runtime's single implementation.
func (b *Builder) CreateStrSubstr(s, start, end ir.ValueRef) ir.ValueRef {
	return b.emit("t", literal.String, ir.OpStrSubstr, s, start, end)
}

// CreateStrRegexMatch never folds: it has the side effect of capturing
// groups (spec.md 4.E).
func (b *Builder) CreateStrRegexMatch(s, pattern ir.ValueRef) ir.ValueRef {
	return b.emit("t", literal.Boolean, ir.OpStrRegexMatch, s, pattern)
}
