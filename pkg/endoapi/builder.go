// Package endoapi is the sole surface a shell frontend is expected to
// import: a Builder for lowering an AST to IR, a Registry for declaring
// native callbacks, and a Program for running compiled, linked bytecode.
// It contains no compiler or VM logic of its own — every method is a
// direct delegation to internal/irbuilder, internal/irtransform,
// internal/native, internal/codegen, internal/bytecode, or internal/vm
// (SPEC_FULL.md 4.M).
package endoapi

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/irbuilder"
	"github.com/contour-terminal/endo/internal/irtransform"
)

// Builder lowers an AST into CoreVM's typed SSA IR. It embeds
// *irbuilder.Builder, so every instruction-emission method
// (CreateNumAdd, CreateStore, CreateCall, CreateMatchSame, ...) is
// available directly on a Builder value; this package adds only the
// program/handler-lifecycle and pass-pipeline methods irbuilder itself
// doesn't own.
type Builder struct {
	*irbuilder.Builder

	program *ir.IRProgram
	passes  *irtransform.Manager
}

// New creates an empty program and a builder positioned over it.
func New() *Builder {
	prog := ir.NewIRProgram()
	return &Builder{
		Builder: irbuilder.New(prog),
		program: prog,
		passes:  irtransform.NewManager(),
	}
}

// NewHandler creates and registers a named handler on the underlying
// program, without changing the builder's current insertion point; call
// SetHandler/SetBlock to start emitting into it.
func (b *Builder) NewHandler(name string) *ir.IRHandler {
	h := ir.NewIRHandler(name, b.program)
	b.program.AddHandler(h)
	return h
}

// Finish runs every handler in the program through the IR transform
// pass pipeline to a fixed point and returns the optimized program,
// ready for internal/codegen.Generate.
func (b *Builder) Finish() *ir.IRProgram {
	for _, h := range b.program.Handlers() {
		b.passes.RunToFixedPoint(h)
	}
	return b.program
}

// Program returns the underlying, not-yet-transformed IR program, for a
// caller that needs it before calling Finish (e.g. to run
// native.VerifyNativeCalls/BindAttributes against the raw IR).
func (b *Builder) Program() *ir.IRProgram { return b.program }
