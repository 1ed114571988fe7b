package irbuilder

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

func ipow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// CreateNumNeg folds a unary negate over a constant Number operand.
func (b *Builder) CreateNumNeg(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstInt); ok {
		return b.Program.ConstInt(-c.IntVal)
	}
	return b.emit("t", literal.Number, ir.OpNumNeg, v)
}

// CreateNumNot folds a bitwise-not over a constant Number operand.
func (b *Builder) CreateNumNot(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstInt); ok {
		return b.Program.ConstInt(^c.IntVal)
	}
	return b.emit("t", literal.Number, ir.OpNumNot, v)
}

type numBinFold func(a, b int64) int64

func (b *Builder) foldOrEmitNumBin(op ir.Op, lhs, rhs ir.ValueRef, fold numBinFold) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstInt)
	rc, rok := asConst(rhs, ir.ConstInt)
	if lok && rok {
		return b.Program.ConstInt(fold(lc.IntVal, rc.IntVal))
	}
	return b.emit("t", literal.Number, op, lhs, rhs)
}

// CreateNumAdd..CreateNumXor fold when both operands are constant Numbers.
// Division-by-zero is deliberately not intercepted here: spec.md 4.E says
// it "surfaces as a runtime exception by the host language" — i.e. it is
// not a compile-time concern, so folding NDIV/NREM with a zero divisor is
// skipped and an instruction is emitted instead, deferring the panic to
// the VM.
func (b *Builder) CreateNumAdd(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumAdd, lhs, rhs, func(a, c int64) int64 { return a + c })
}
func (b *Builder) CreateNumSub(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumSub, lhs, rhs, func(a, c int64) int64 { return a - c })
}
func (b *Builder) CreateNumMul(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumMul, lhs, rhs, func(a, c int64) int64 { return a * c })
}
func (b *Builder) CreateNumDiv(lhs, rhs ir.ValueRef) ir.ValueRef {
	if rc, ok := asConst(rhs, ir.ConstInt); ok && rc.IntVal == 0 {
		return b.emit("t", literal.Number, ir.OpNumDiv, lhs, rhs)
	}
	return b.foldOrEmitNumBin(ir.OpNumDiv, lhs, rhs, func(a, c int64) int64 { return a / c })
}
func (b *Builder) CreateNumRem(lhs, rhs ir.ValueRef) ir.ValueRef {
	if rc, ok := asConst(rhs, ir.ConstInt); ok && rc.IntVal == 0 {
		return b.emit("t", literal.Number, ir.OpNumRem, lhs, rhs)
	}
	return b.foldOrEmitNumBin(ir.OpNumRem, lhs, rhs, func(a, c int64) int64 { return a % c })
}
func (b *Builder) CreateNumShl(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumShl, lhs, rhs, func(a, c int64) int64 { return a << uint64(c) })
}
func (b *Builder) CreateNumShr(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumShr, lhs, rhs, func(a, c int64) int64 { return a >> uint64(c) })
}
func (b *Builder) CreateNumAnd(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumAnd, lhs, rhs, func(a, c int64) int64 { return a & c })
}
func (b *Builder) CreateNumOr(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumOr, lhs, rhs, func(a, c int64) int64 { return a | c })
}
func (b *Builder) CreateNumXor(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumXor, lhs, rhs, func(a, c int64) int64 { return a ^ c })
}

// CreateNumPow folds via integer exponentiation from the host's math
// routine-equivalent (spec.md 4.E: "pow folds via integer exponentiation
// from the host's math routine").
func (b *Builder) CreateNumPow(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumBin(ir.OpNumPow, lhs, rhs, ipow)
}

type numCmpFold func(a, c int64) bool

func (b *Builder) foldOrEmitNumCmp(op ir.Op, lhs, rhs ir.ValueRef, fold numCmpFold) ir.ValueRef {
	lc, lok := asConst(lhs, ir.ConstInt)
	rc, rok := asConst(rhs, ir.ConstInt)
	if lok && rok {
		return b.Program.ConstBool(fold(lc.IntVal, rc.IntVal))
	}
	return b.emit("t", literal.Boolean, op, lhs, rhs)
}

func (b *Builder) CreateNumCmpEq(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpEq, lhs, rhs, func(a, c int64) bool { return a == c })
}
func (b *Builder) CreateNumCmpNe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpNe, lhs, rhs, func(a, c int64) bool { return a != c })
}
func (b *Builder) CreateNumCmpLe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpLe, lhs, rhs, func(a, c int64) bool { return a <= c })
}
func (b *Builder) CreateNumCmpGe(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpGe, lhs, rhs, func(a, c int64) bool { return a >= c })
}
func (b *Builder) CreateNumCmpLt(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpLt, lhs, rhs, func(a, c int64) bool { return a < c })
}
func (b *Builder) CreateNumCmpGt(lhs, rhs ir.ValueRef) ir.ValueRef {
	return b.foldOrEmitNumCmp(ir.OpNumCmpGt, lhs, rhs, func(a, c int64) bool { return a > c })
}

// CreateNumCmpZ folds the unary "compare to zero" test.
func (b *Builder) CreateNumCmpZ(v ir.ValueRef) ir.ValueRef {
	if c, ok := asConst(v, ir.ConstInt); ok {
		return b.Program.ConstBool(c.IntVal == 0)
	}
	return b.emit("t", literal.Boolean, ir.OpNumCmpZ, v)
}
