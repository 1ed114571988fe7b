package native

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/irbuilder"
	"github.com/contour-terminal/endo/internal/literal"
)

// Runtime owns every registered NativeCallback, keyed by canonical
// signature string (spec.md 4.G). The zero value is not usable; build
// one with NewRuntime.
type Runtime struct {
	callbacks map[string]*NativeCallback
	order     []string

	// ImportFunc handles a program's declared (moduleName, modulePath)
	// import during Program.link (spec.md 4.I step 1). A nil ImportFunc
	// is a no-op that never fails, matching the spec's default.
	ImportFunc func(moduleName, modulePath string) error
}

// NewRuntime returns an empty registry.
func NewRuntime() *Runtime {
	return &Runtime{callbacks: make(map[string]*NativeCallback)}
}

// Register adds cb under its signature's canonical key, taking ownership
// of its Runtime pointer. It panics on a duplicate signature, matching
// the program-symbol-table panic policy used elsewhere in this codebase
// for "this should never happen by construction" conditions.
func (r *Runtime) Register(cb *NativeCallback) {
	key := cb.Signature.Key()
	if _, exists := r.callbacks[key]; exists {
		panic("native: duplicate signature " + key)
	}
	cb.Runtime = r
	r.callbacks[key] = cb
	r.order = append(r.order, key)
}

// Import runs ImportFunc if set, otherwise succeeds trivially.
func (r *Runtime) Import(moduleName, modulePath string) error {
	if r.ImportFunc == nil {
		return nil
	}
	return r.ImportFunc(moduleName, modulePath)
}

// Lookup finds the callback registered for sig, if any.
func (r *Runtime) Lookup(sig literal.Signature) (*NativeCallback, bool) {
	cb, ok := r.callbacks[sig.Key()]
	return cb, ok
}

// All returns every registered callback in registration order.
func (r *Runtime) All() []*NativeCallback {
	out := make([]*NativeCallback, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.callbacks[key])
	}
	return out
}

// BindAttributes propagates each callback's NoReturn/SideEffectFree
// attribute onto program, so internal/ir's BasicBlock.Verify and
// internal/irtransform's dead-instruction-elimination pass can consult
// them without depending on this package (spec.md 3, 4.F).
func (r *Runtime) BindAttributes(program *ir.IRProgram) {
	for _, cb := range r.All() {
		if cb.Attrs.Has(NoReturn) {
			program.MarkNoReturn(cb.Signature)
		}
		if cb.Attrs.Has(SideEffectFree) {
			program.MarkSideEffectFree(cb.Signature)
		}
	}
}

// VerifyNativeCalls iterates every Call/HandlerCall instruction in every
// handler of program, running its resolved callback's verifier (if any)
// through b. It returns true iff every such instruction resolves to a
// registered callback and no verifier fails (spec.md 4.G).
func VerifyNativeCalls(r *Runtime, program *ir.IRProgram, b *irbuilder.Builder) bool {
	ok := true
	for _, h := range program.Handlers() {
		for _, blk := range h.Blocks() {
			for _, instr := range blk.Instrs() {
				if instr.Op != ir.OpCall && instr.Op != ir.OpHandlerCall {
					continue
				}
				if instr.Callee == nil {
					continue
				}
				cb, found := r.Lookup(*instr.Callee)
				if !found {
					ok = false
					continue
				}
				if cb.Verify != nil && !cb.Verify(instr, b) {
					ok = false
				}
			}
		}
	}
	return ok
}

