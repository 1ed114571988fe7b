package vm

import "github.com/contour-terminal/endo/internal/bytecode"

// opcodeTableSize sizes the Threaded dispatch table. bytecode.HANDLER
// is the last opcode in the enum (internal/bytecode/opcode.go).
const opcodeTableSize = int(bytecode.HANDLER) + 1
