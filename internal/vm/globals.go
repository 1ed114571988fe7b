package vm

import "github.com/contour-terminal/endo/internal/native"

// Globals is the shared, externally-owned vector GALLOCA/GLOAD/GSTORE
// index into (spec.md 5: "the Globals vector is owned externally and
// passed to the Runner by reference"). Several Runners may share one
// Globals across parallel goroutines only if the caller synchronizes
// access itself; Globals does none on its own.
type Globals struct {
	slots []native.Value
}

// NewGlobals returns an empty Globals container.
func NewGlobals() *Globals {
	return &Globals{}
}

func (g *Globals) alloca() {
	g.slots = append(g.slots, native.Value{})
}

func (g *Globals) load(idx int) native.Value {
	return g.slots[idx]
}

func (g *Globals) store(idx int, v native.Value) {
	g.slots[idx] = v
}

// Len reports the number of allocated global slots.
func (g *Globals) Len() int { return len(g.slots) }

// Get reads a global slot from outside a running handler, for a host
// inspecting state between runs (spec.md 5).
func (g *Globals) Get(idx int) native.Value { return g.slots[idx] }
