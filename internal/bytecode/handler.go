package bytecode

// Handler is a named, compiled callable unit: an immutable code vector
// guaranteed to end in EXIT, plus its computed maximum stack depth
// (spec.md 4.I).
type Handler struct {
	Name          string
	Program       *Program
	Code          []Instruction
	MaxStackDepth int
}

// NewHandler wraps code into a Handler, appending a synthetic
// `EXIT 0` if the generator didn't already terminate it, and computing
// the maximum stack depth by a forward pass over the opcode stack-delta
// table (spec.md 4.I).
func NewHandler(name string, program *Program, code []Instruction) *Handler {
	if len(code) == 0 || code[len(code)-1].Op != EXIT {
		code = append(append([]Instruction(nil), code...), Instr1(EXIT, 0))
	}
	h := &Handler{Name: name, Program: program, Code: code}
	h.MaxStackDepth = computeMaxStackDepth(code)
	return h
}

func computeMaxStackDepth(code []Instruction) int {
	depth, max := 0, 0
	for _, instr := range code {
		depth += instr.Delta()
		if depth > max {
			max = depth
		}
	}
	return max
}
