// Package irbuilder is the typed factory for IR instructions described in
// spec.md 4.E: it creates non-constant instructions and pushes them to the
// current insertion block, folding constant expressions at construction
// time whenever every operand is already a constant of the expected type.
package irbuilder

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// Builder holds the current program, current handler, current insertion
// block, and a per-program name allocator that appends a monotonically
// increasing counter to repeated base names to keep Value names unique
// (spec.md 4.E).
type Builder struct {
	Program *ir.IRProgram

	handler *ir.IRHandler
	block   *ir.BasicBlock

	counters map[string]int
}

// New creates a builder over program. Callers must call SetHandler/
// SetBlock before emitting instructions.
func New(program *ir.IRProgram) *Builder {
	return &Builder{Program: program, counters: make(map[string]int)}
}

func (b *Builder) SetHandler(h *ir.IRHandler) { b.handler = h }
func (b *Builder) Handler() *ir.IRHandler     { return b.handler }

func (b *Builder) SetBlock(bb *ir.BasicBlock) { b.block = bb }
func (b *Builder) Block() *ir.BasicBlock      { return b.block }

// NewBlock creates a block named from baseName (disambiguated if needed),
// attaches it to the current handler, and returns it without switching
// the insertion point.
func (b *Builder) NewBlock(baseName string) *ir.BasicBlock {
	if b.handler == nil {
		panic("irbuilder: NewBlock called with no current handler")
	}
	bb := ir.NewBasicBlock(b.allocName(baseName))
	b.handler.AddBlock(bb)
	return bb
}

// allocName implements the per-program monotonically increasing counter
// described in spec.md 4.E.
func (b *Builder) allocName(base string) string {
	n, seen := b.counters[base]
	b.counters[base] = n + 1
	if !seen || n == 0 {
		// First use of this base name is unadorned; subsequent ones get a
		// suffix, matching typical SSA-name-allocator behavior.
		if n == 0 {
			return base
		}
	}
	return fmt.Sprintf("%s.%d", base, n)
}

// emit pushes a freshly constructed, non-folded instruction to the
// current block and returns it.
func (b *Builder) emit(name string, typ literal.Type, op ir.Op, operands ...ir.ValueRef) *ir.Instr {
	if b.block == nil {
		panic("irbuilder: emit called with no current block")
	}
	instr := ir.NewInstr(b.allocName(name), typ, op)
	for _, o := range operands {
		instr.AppendOperand(o)
	}
	b.block.Append(instr)
	return instr
}

// asConst returns v as *ir.Constant of the given kind, or (nil, false) if
// it isn't a constant or isn't of that kind — the single predicate every
// constant-folding rule is built from.
func asConst(v ir.ValueRef, kind ir.ConstKind) (*ir.Constant, bool) {
	c, ok := v.(*ir.Constant)
	if !ok || c.Kind != kind {
		return nil, false
	}
	return c, true
}
