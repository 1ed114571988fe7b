package endoapi

import "github.com/contour-terminal/endo/internal/native"

// Registry wraps internal/native.Runtime for native-callback
// registration, matching spec.md 4.G's NativeCallback fields one for
// one rather than inventing a parallel registration shape.
type Registry struct {
	runtime *native.Runtime
}

// NewRegistry returns an empty native-callback registry. Its ImportFunc
// is nil (imports are a no-op) until set via SetImportFunc.
func NewRegistry() *Registry {
	return &Registry{runtime: native.NewRuntime()}
}

// SetImportFunc installs the function run for every program import
// during Link (spec.md 4.I step 1).
func (r *Registry) SetImportFunc(f func(moduleName, modulePath string) error) {
	r.runtime.ImportFunc = f
}

// RegisterFunction registers cb as a value-returning native function.
func (r *Registry) RegisterFunction(cb *native.NativeCallback) {
	cb.IsHandler = false
	r.runtime.Register(cb)
}

// RegisterHandler registers cb as a Boolean-"handled?"-returning native
// handler.
func (r *Registry) RegisterHandler(cb *native.NativeCallback) {
	cb.IsHandler = true
	r.runtime.Register(cb)
}

// Runtime returns the underlying native.Runtime, for callers that need
// to pass it directly to bytecode.Program.Link or native.VerifyNativeCalls.
func (r *Registry) Runtime() *native.Runtime { return r.runtime }
