// Package irtransform implements the fixed-point pass pipeline of
// spec.md 4.F: every pass is handler-scoped and returns true iff it
// changed the handler; the manager reruns Verify after any change and
// restarts until a full sweep makes no changes.
package irtransform

import "github.com/contour-terminal/endo/internal/ir"

// Pass is one handler-scoped, property-testable rewrite.
type Pass interface {
	Name() string
	Run(h *ir.IRHandler) bool
}

// Manager runs a fixed, ordered set of passes to a fixed point.
type Manager struct {
	passes []Pass
}

// NewManager builds a manager with the required passes registered in the
// order given by spec.md 4.F (1 through 7).
func NewManager() *Manager {
	return &Manager{passes: []Pass{
		EmptyBlockElimination{},
		LinearBranchMerging{},
		ConstantCondBranchFolding{},
		SameBranchCondCollapse{},
		DeadInstructionElimination{},
		UnusedBlockElimination{},
		BranchToExitRewrite{},
	}}
}

// Register appends an additional pass after the required seven.
func (m *Manager) Register(p Pass) { m.passes = append(m.passes, p) }

// RunToFixedPoint runs the registered passes in registration order. After
// any pass reports a change, it re-invokes Verify and restarts the loop;
// termination is when a full pass with no changes is observed (spec.md
// 4.F). A Verify failure is treated as an internal error and panics,
// matching spec.md 7's "the IR transform pass manager treats a verifier
// failure as an internal error."
func (m *Manager) RunToFixedPoint(h *ir.IRHandler) {
	for {
		changed := false
		for _, p := range m.passes {
			if p.Run(h) {
				changed = true
				if err := h.Verify(); err != nil {
					panic("irtransform: " + p.Name() + " produced an ill-formed handler: " + err.Error())
				}
				break
			}
		}
		if !changed {
			return
		}
	}
}

// RunProgram applies RunToFixedPoint to every handler in the program.
func RunProgram(p *ir.IRProgram) {
	m := NewManager()
	for _, h := range p.Handlers() {
		m.RunToFixedPoint(h)
	}
}
