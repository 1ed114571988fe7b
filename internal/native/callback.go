package native

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/irbuilder"
	"github.com/contour-terminal/endo/internal/literal"
)

// Attribute is one bit of the NativeCallback attribute mask (spec.md 4.G).
type Attribute uint8

const (
	// Experimental marks a callback whose use should raise a diagnostics
	// Warning (spec.md 7).
	Experimental Attribute = 1 << iota
	// NoReturn marks a callback that never returns control to the
	// caller; a block ending in a call to one satisfies the
	// BasicBlock.Verify terminator invariant (spec.md 3).
	NoReturn
	// SideEffectFree marks a callback eligible for dead-instruction
	// elimination when its result is unused (spec.md 4.F pass 5).
	SideEffectFree
)

// Has reports whether a is set in the mask.
func (a Attribute) Has(b Attribute) bool { return a&b != 0 }

// Verifier runs at verifyNativeCalls time against one Call/HandlerCall
// instruction, optionally rewriting the IR through b (spec.md 4.G).
type Verifier func(instr *ir.Instr, b *irbuilder.Builder) bool

// Suspender is the slice of internal/vm.Runner a native callback needs:
// just enough to call Suspend() from inside its own Invoke without this
// package importing the interpreter that drives it (spec.md 4.K,
// suspension point 1).
type Suspender interface {
	Suspend()
}

// CallCtx is passed to every native Invoke: the bound arguments, both
// positionally and by declared parameter name, and the calling Runner
// for callbacks that need to suspend.
type CallCtx struct {
	Args   []Value
	Names  []string
	Runner Suspender
}

// Arg looks up an argument by its declared parameter name.
func (c *CallCtx) Arg(name string) (Value, bool) {
	for i, n := range c.Names {
		if i < len(c.Args) && n == name {
			return c.Args[i], true
		}
	}
	return Value{}, false
}

// Suspend asks the calling Runner to suspend after this callback
// returns. A nil Runner (e.g. a callback invoked outside internal/vm,
// such as in a unit test) makes this a no-op.
func (c *CallCtx) Suspend() {
	if c.Runner != nil {
		c.Runner.Suspend()
	}
}

// Invoke is the host implementation a NativeCallback ultimately runs.
type Invoke func(ctx *CallCtx) Value

// NativeCallback is a single registered builtin function or handler
// (spec.md 4.G).
type NativeCallback struct {
	Runtime   *Runtime
	IsHandler bool
	Signature literal.Signature
	Verify    Verifier // optional
	Invoke    Invoke
	Attrs     Attribute

	ParamNames []string
	Defaults   []*Value // parallel to ParamNames; nil entry means required
}

// DefaultFor returns the declared default value for parameter name, if any.
func (c *NativeCallback) DefaultFor(name string) (Value, bool) {
	for i, n := range c.ParamNames {
		if n == name {
			if i < len(c.Defaults) && c.Defaults[i] != nil {
				return *c.Defaults[i], true
			}
			return Value{}, false
		}
	}
	return Value{}, false
}
