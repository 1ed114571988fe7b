package endoapi

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/codegen"
	"github.com/contour-terminal/endo/internal/diagnostics"
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/vm"
)

// Program wraps a linked internal/bytecode.Program and the
// internal/vm.Runner driving it, delegating execution and introspection
// without owning any interpreter logic itself.
type Program struct {
	bytecode *bytecode.Program
	runner   *vm.Runner
	globals  *vm.Globals
}

// NewProgram generates bytecode from a transformed IR program (see
// Builder.Finish), links it against reg's registered native callbacks,
// and builds a Runner ready to Run. A link failure is reported through
// report and surfaces as an error here.
func NewProgram(irProg *ir.IRProgram, reg *Registry, report diagnostics.Report) (*Program, error) {
	bc := codegen.Generate(irProg)
	if !bc.Link(reg.Runtime(), report) {
		return nil, fmt.Errorf("endoapi: program failed to link")
	}

	globals := vm.NewGlobals()
	dispatchers := vm.BuildDispatchers(bc)
	runner := vm.NewRunner(bc, globals, dispatchers)

	return &Program{bytecode: bc, runner: runner, globals: globals}, nil
}

// SetQuota sets the Runner's remaining opcode budget; vm.NoQuota disables
// accounting.
func (p *Program) SetQuota(quota int) { p.runner.SetQuota(quota) }

// SetDispatch selects the Runner's dispatch strategy.
func (p *Program) SetDispatch(mode vm.DispatchMode) { p.runner.Dispatch = mode }

// SetPrices overrides the Runner's per-opcode quota prices.
func (p *Program) SetPrices(prices map[bytecode.Opcode]int) { p.runner.Prices = prices }

// SetTrace installs a trace callback invoked before every opcode.
func (p *Program) SetTrace(fn vm.TraceFunc) { p.runner.Trace = fn }

// Run starts handlerName from IP 0 with an empty stack.
func (p *Program) Run(handlerName string) (bool, error) { return p.runner.Run(handlerName) }

// Resume continues a Suspended Runner.
func (p *Program) Resume() (bool, error) { return p.runner.Resume() }

// State reports the Runner's current state.
func (p *Program) State() vm.State { return p.runner.State() }

// Globals returns the global slots the program's @main handler
// allocated into, for a host to inspect after a run.
func (p *Program) Globals() *vm.Globals { return p.globals }

// Disassemble renders the program's constant pool and every handler's
// code, one instruction per line.
func (p *Program) Disassemble() string { return p.bytecode.Disassemble() }
