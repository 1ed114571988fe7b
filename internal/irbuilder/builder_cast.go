package irbuilder

import (
	"strconv"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// CreateCast implements the restricted cast rules of spec.md 4.5/4.E.
// Same-type casts are rewritten to a Load of the source; the constant
// path folds bool/number/IP/CIDR/RegExp -> string via the constant's
// canonical textual form, and string -> number attempts a parse, falling
// back to emitting a runtime cast on failure.
func (b *Builder) CreateCast(v ir.ValueRef, op ir.CastOp, target literal.Type) ir.ValueRef {
	if v.Type() == target {
		return b.CreateLoad(v)
	}
	if c, ok := v.(*ir.Constant); ok {
		switch op {
		case ir.CastBoolToString, ir.CastNumberToString, ir.CastIPToString, ir.CastCidrToString, ir.CastRegExpToString:
			return b.Program.ConstString(c.Inspect())
		case ir.CastStringToNumber:
			if n, err := strconv.ParseInt(c.StringVal, 10, 64); err == nil {
				return b.Program.ConstInt(n)
			}
			// Parse failure: fall through to emitting a runtime cast.
		}
	}
	instr := b.emit("t", target, ir.OpCast, v)
	instr.CastOp = op
	return instr
}
