// Package ir implements CoreVM's typed SSA intermediate representation:
// Value/Instr use-def bookkeeping, BasicBlock CFG, IRHandler containers,
// and program-level constant interning (spec.md 4.D).
package ir

import "github.com/contour-terminal/endo/internal/literal"

// ValueRef is any SSA entity that can sit in an operand slot: a
// *Constant, an *Instr, or a *BasicBlock (a branch target). All three
// embed Value, which carries the shared bookkeeping.
type ValueRef interface {
	Name() string
	Type() literal.Type
	IsUsed() bool
	UseCount() int
	Users() []*Instr
	valuePtr() *Value
}

// use records one (user, operand-index) edge for the use-def list.
type use struct {
	user  *Instr
	index int
}

// Value is the base of every SSA entity: Constants and Instrs both embed
// it. A Value has a literal type, a unique-within-program name, and a
// list of using Instrs (use-def edges). A Value may not be destroyed
// while IsUsed() (spec.md 3).
type Value struct {
	name string
	typ  literal.Type
	uses []use
}

func newValue(name string, typ literal.Type) Value {
	return Value{name: name, typ: typ}
}

func (v *Value) Name() string       { return v.name }
func (v *Value) Type() literal.Type { return v.typ }

// SetName is used only by the IRBuilder's name allocator; it never changes
// use-def state.
func (v *Value) SetName(name string) { v.name = name }

// IsUsed reports whether any use-def edge still points at this value.
func (v *Value) IsUsed() bool { return len(v.uses) > 0 }

// UseCount returns the number of using operand slots (not the number of
// distinct using instructions — one instruction can use a value through
// more than one operand slot, and each slot is counted).
func (v *Value) UseCount() int { return len(v.uses) }

func (v *Value) addUse(user *Instr, index int) {
	v.uses = append(v.uses, use{user: user, index: index})
}

func (v *Value) removeUse(user *Instr, index int) {
	for i, u := range v.uses {
		if u.user == user && u.index == index {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
}

// Users returns every distinct Instr that uses this value, deduplicated.
func (v *Value) Users() []*Instr {
	seen := make(map[*Instr]bool, len(v.uses))
	out := make([]*Instr, 0, len(v.uses))
	for _, u := range v.uses {
		if !seen[u.user] {
			seen[u.user] = true
			out = append(out, u.user)
		}
	}
	return out
}

func (v *Value) valuePtr() *Value { return v }

// replaceAllUsesOf redirects every using instruction's operand that points
// at old to new, then clears old's use list. Shared by Constant and Instr
// implementations of ReplaceAllUsesWith.
func replaceAllUsesOf(old ValueRef, new ValueRef) {
	oldV := old.valuePtr()
	// Copy since setOperand below mutates oldV.uses as a side effect.
	uses := append([]use(nil), oldV.uses...)
	for _, u := range uses {
		u.user.SetOperand(u.index, new)
	}
	oldV.uses = nil
}
