package bytecode

import (
	"strings"

	"github.com/contour-terminal/endo/internal/diagnostics"
	"github.com/contour-terminal/endo/internal/native"
)

// Import is an ordered (moduleName, modulePath) pair declared by the
// source program, carried from internal/ir.Import by the code generator
// (spec.md 3).
type Import struct {
	ModuleName string
	ModulePath string
}

// Program owns a ConstantPool, an ordered vector of compiled Handlers,
// and — once linked — parallel vectors of resolved native callbacks for
// every unresolved native-handler and native-function signature the
// pool recorded (spec.md 4.I).
type Program struct {
	Pool     *ConstantPool
	Handlers []*Handler
	Imports  []Import

	linked bool

	// ResolvedFuncs[i] / ResolvedHandlers[i] correspond to
	// Pool.NativeFunctionSigs()[i] / Pool.NativeHandlerSigs()[i] after a
	// successful link.
	ResolvedFuncs    []*native.NativeCallback
	ResolvedHandlers []*native.NativeCallback
}

// NewProgram returns a Program with a fresh, empty ConstantPool.
func NewProgram() *Program {
	return &Program{Pool: NewConstantPool()}
}

// HandlerByName looks up a compiled handler by name.
func (p *Program) HandlerByName(name string) (*Handler, bool) {
	for _, h := range p.Handlers {
		if h.Name == name {
			return h, true
		}
	}
	return nil, false
}

// Link resolves every unresolved native-handler/function signature
// against rt and runs every declared import through rt.Import,
// appending a LinkError to report for each failure (spec.md 4.I).
// It returns true iff no link errors were produced.
func (p *Program) Link(rt *native.Runtime, report diagnostics.Report) bool {
	ok := true

	for _, imp := range p.Imports {
		if err := rt.Import(imp.ModuleName, imp.ModulePath); err != nil {
			report.LinkErrorf(diagnostics.Range{}, "import %q (%s): %v", imp.ModuleName, imp.ModulePath, err)
			ok = false
		}
	}

	p.ResolvedHandlers = make([]*native.NativeCallback, len(p.Pool.NativeHandlerSigs()))
	for i, sig := range p.Pool.NativeHandlerSigs() {
		cb, found := rt.Lookup(sig)
		if !found {
			report.LinkErrorf(diagnostics.Range{}, "unresolved native handler %s", sig.Key())
			ok = false
			continue
		}
		p.ResolvedHandlers[i] = cb
	}

	p.ResolvedFuncs = make([]*native.NativeCallback, len(p.Pool.NativeFunctionSigs()))
	for i, sig := range p.Pool.NativeFunctionSigs() {
		cb, found := rt.Lookup(sig)
		if !found {
			report.LinkErrorf(diagnostics.Range{}, "unresolved native function %s", sig.Key())
			ok = false
			continue
		}
		p.ResolvedFuncs[i] = cb
	}

	p.linked = ok
	return ok
}

// Linked reports whether the most recent Link call succeeded.
func (p *Program) Linked() bool { return p.linked }

// Disassemble renders the pool plus every handler's code, one
// instruction per line (spec.md 4.C/4.H).
func (p *Program) Disassemble() string {
	var b strings.Builder
	b.WriteString(p.Pool.Disassemble())
	for _, h := range p.Handlers {
		b.WriteString("\nhandler @" + h.Name + ":\n")
		for pc, instr := range h.Code {
			b.WriteString(disassembleInstruction(p.Pool, pc, instr))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
