package codegen

import (
	"fmt"
	"math"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

// handlerGen lowers a single ir.IRHandler's blocks into a flat
// bytecode.Instruction stream. The stack field is a compile-time model
// of the runtime operand stack: stack[i] names the value the generator
// believes will occupy absolute position i at runtime. Every lookup
// against it is by pointer identity, never by value.
type handlerGen struct {
	g    *generator
	irh  *ir.IRHandler
	code []bytecode.Instruction

	stack []ir.ValueRef

	// localSlot covers both ordinary local Alloca slots and the
	// synthetic slots the generator assigns to Phi instructions; both
	// are read and written exclusively through LOAD/STORE.
	localSlot map[*ir.Instr]int

	currentBlock *ir.BasicBlock
	blockStart   map[*ir.BasicBlock]int

	fixups         []jumpFixup
	pendingThunks  []pendingThunk
	pendingMatches []pendingMatch
}

type jumpFixup struct {
	pc     int
	target *ir.BasicBlock
}

func newHandlerGen(g *generator, irh *ir.IRHandler) *handlerGen {
	return &handlerGen{
		g:          g,
		irh:        irh,
		localSlot:  make(map[*ir.Instr]int),
		blockStart: make(map[*ir.BasicBlock]int),
	}
}

func (hg *handlerGen) emit0(op bytecode.Opcode) {
	hg.code = append(hg.code, bytecode.Instr0(op))
}

func (hg *handlerGen) emit1(op bytecode.Opcode, a int64) {
	hg.code = append(hg.code, bytecode.Instr1(op, a))
}

func (hg *handlerGen) push(v ir.ValueRef) {
	hg.stack = append(hg.stack, v)
}

func (hg *handlerGen) pop(n int) {
	hg.stack = hg.stack[:len(hg.stack)-n]
}

// resolve collapses an OpLoad chain that exists purely as an
// identity-preserving rename (the same-type cast path in
// internal/irbuilder's CreateCast, which short-circuits to CreateLoad)
// down to the underlying value the rest of codegen actually tracks on
// the simulated stack. A Load that reads an Alloca slot is a genuine
// memory read and keeps its own identity.
func resolve(v ir.ValueRef) ir.ValueRef {
	for {
		instr, ok := v.(*ir.Instr)
		if !ok || instr.Op != ir.OpLoad {
			return v
		}
		src := instr.Operand(0)
		if alloca, ok := src.(*ir.Instr); ok && alloca.Op == ir.OpAlloca {
			return v
		}
		v = src
	}
}

// ensureOnTop makes v's value resident at the top of the simulated
// stack, emitting whatever LOAD is required to get it there. It never
// attempts to recognize that an operand is already at the position a
// peephole pass would have left it in; it trusts only what its own
// bookkeeping has recorded.
func (hg *handlerGen) ensureOnTop(v ir.ValueRef) {
	v = resolve(v)
	switch val := v.(type) {
	case *ir.Constant:
		hg.loadConstant(val)
		hg.push(val)
	case *ir.Instr:
		if pos, ok := hg.localSlot[val]; ok {
			if hg.topIs(val) {
				return
			}
			hg.emit1(bytecode.LOAD, int64(pos))
			hg.push(val)
			return
		}
		if idx, ok := hg.g.globalSlot[val]; ok {
			hg.emit1(bytecode.GLOAD, int64(idx))
			hg.push(val)
			return
		}
		for i := len(hg.stack) - 1; i >= 0; i-- {
			if hg.stack[i] == ir.ValueRef(val) {
				if i == len(hg.stack)-1 {
					return
				}
				hg.emit1(bytecode.LOAD, int64(i))
				hg.push(val)
				return
			}
		}
		panic(fmt.Sprintf("codegen: operand %q is not resident on the simulated stack", val.Name()))
	case *ir.BasicBlock:
		panic("codegen: a basic block cannot be used as an operand value")
	default:
		panic("codegen: unsupported operand kind")
	}
}

func (hg *handlerGen) topIs(v ir.ValueRef) bool {
	return len(hg.stack) > 0 && hg.stack[len(hg.stack)-1] == v
}

func (hg *handlerGen) loadConstant(c *ir.Constant) {
	pool := hg.g.bcProg.Pool
	switch c.Kind {
	case ir.ConstInt:
		if c.IntVal >= math.MinInt32 && c.IntVal <= math.MaxInt32 {
			hg.emit1(bytecode.ILOAD, c.IntVal)
		} else {
			hg.emit1(bytecode.NLOAD, int64(pool.MakeInt(c.IntVal)))
		}
	case ir.ConstBool:
		flag := int64(0)
		if c.BoolVal {
			flag = 1
		}
		hg.emit1(bytecode.ILOAD, flag)
	case ir.ConstString:
		hg.emit1(bytecode.SLOAD, int64(pool.MakeString(c.StringVal)))
	case ir.ConstIP:
		hg.emit1(bytecode.PLOAD, int64(pool.MakeIP(c.IPVal)))
	case ir.ConstCidr:
		hg.emit1(bytecode.CLOAD, int64(pool.MakeCidr(c.CidrVal)))
	case ir.ConstRegExp:
		hg.emit1(bytecode.ILOAD, int64(pool.MakeRegExp(c.RegexSrc)))
	case ir.ConstArray:
		hg.loadArrayConstant(c)
	case ir.ConstIntPair:
		panic("codegen: IntPair constants arise only as native call results and are never directly loadable")
	case ir.ConstBuiltinFunction, ir.ConstBuiltinHandler, ir.ConstHandlerRef:
		panic("codegen: function/handler-reference constants are consumed only via Call/HandlerCall/Match lowering, never loaded generically")
	default:
		panic(fmt.Sprintf("codegen: unknown constant kind %v", c.Kind))
	}
}

func (hg *handlerGen) loadArrayConstant(c *ir.Constant) {
	pool := hg.g.bcProg.Pool
	elemType := literal.ElementTypeOf(c.Type())
	vals := make([]native.Value, len(c.ArrayElems))
	for i, e := range c.ArrayElems {
		vals[i] = constElemToNativeValue(e, elemType)
	}
	idx := int64(pool.MakeArray(elemType, vals))
	switch elemType {
	case literal.Number:
		hg.emit1(bytecode.ITLOAD, idx)
	case literal.String:
		hg.emit1(bytecode.STLOAD, idx)
	case literal.IPAddress:
		hg.emit1(bytecode.PTLOAD, idx)
	case literal.Cidr:
		hg.emit1(bytecode.CTLOAD, idx)
	default:
		panic(fmt.Sprintf("codegen: unsupported array element type %v", elemType))
	}
}

func constElemToNativeValue(c *ir.Constant, elemType literal.Type) native.Value {
	switch elemType {
	case literal.Number:
		return native.Value{Type: literal.Number, Int: c.IntVal}
	case literal.String:
		return native.Value{Type: literal.String, Str: c.StringVal}
	case literal.IPAddress:
		return native.Value{Type: literal.IPAddress, IP: c.IPVal}
	case literal.Cidr:
		return native.Value{Type: literal.Cidr, Cidr: c.CidrVal}
	default:
		panic(fmt.Sprintf("codegen: unsupported array element type %v", elemType))
	}
}

func (hg *handlerGen) genInstr(instr *ir.Instr) {
	switch instr.Op {
	case ir.OpNop:
		panic("codegen: OpNop is never constructed by internal/irbuilder and has no lowering")
	case ir.OpAlloca:
		hg.genAlloca(instr)
	case ir.OpStore:
		hg.genStore(instr)
	case ir.OpLoad:
		hg.genLoad(instr)
	case ir.OpPhi:
		// Slot already reserved by allocatePhiSlots; writes happen on
		// the incoming edges via storePhiIncoming.
	case ir.OpCall:
		hg.genCall(instr)
	case ir.OpHandlerCall:
		hg.genHandlerCall(instr)
	case ir.OpBr:
		hg.genBr(instr)
	case ir.OpCondBr:
		hg.genCondBr(instr)
	case ir.OpRet:
		hg.genRet(instr)
	case ir.OpMatch:
		hg.genMatch(instr)
	case ir.OpRegExpGroup:
		hg.emit1(bytecode.SREGGROUP, int64(instr.AllocaSize))
		hg.push(instr)
	case ir.OpCast:
		hg.genCast(instr)
	case ir.OpStrRegexMatch:
		hg.genStrRegexMatch(instr)
	case ir.OpStrMatchSame, ir.OpStrMatchHead, ir.OpStrMatchTail, ir.OpStrMatchRegExp:
		panic(fmt.Sprintf("codegen: %s has no boolean-producing bytecode opcode; match-class tests are only reachable through the Match terminator", instr.Op))
	default:
		hg.genGeneric(instr)
	}
}

func (hg *handlerGen) genGeneric(instr *ir.Instr) {
	op, ok := genericOpcodes[instr.Op]
	if !ok {
		panic(fmt.Sprintf("codegen: no bytecode lowering registered for %s", instr.Op))
	}
	operands := instr.Operands()
	for _, operand := range operands {
		hg.ensureOnTop(operand)
	}
	hg.emit0(op)
	hg.pop(len(operands))
	if instr.Type() != literal.Void {
		hg.push(instr)
	}
}

func (hg *handlerGen) genCast(instr *ir.Instr) {
	hg.ensureOnTop(instr.Operand(0))
	var op bytecode.Opcode
	switch instr.CastOp {
	case ir.CastBoolToString, ir.CastNumberToString:
		op = bytecode.N2S
	case ir.CastIPToString:
		op = bytecode.P2S
	case ir.CastCidrToString:
		op = bytecode.C2S
	case ir.CastRegExpToString:
		op = bytecode.R2S
	case ir.CastStringToNumber:
		op = bytecode.S2N
	case ir.CastIdentity:
		panic("codegen: CastIdentity is unreachable; same-type casts are folded to Load by the builder")
	default:
		panic(fmt.Sprintf("codegen: unsupported cast op %v", instr.CastOp))
	}
	hg.emit0(op)
	hg.pop(1)
	hg.push(instr)
}

func (hg *handlerGen) genStrRegexMatch(instr *ir.Instr) {
	pattern, ok := instr.Operand(1).(*ir.Constant)
	if !ok || pattern.Kind != ir.ConstRegExp {
		panic("codegen: StrRegexMatch's second operand must be a RegExp constant")
	}
	hg.ensureOnTop(instr.Operand(0))
	idx := hg.g.bcProg.Pool.MakeRegExp(pattern.RegexSrc)
	hg.emit1(bytecode.SREGMATCH, int64(idx))
	hg.pop(1)
	hg.push(instr)
}

func (hg *handlerGen) genAlloca(instr *ir.Instr) {
	if instr.AllocaGlob {
		idx, ok := hg.g.globalSlot[instr]
		if !ok {
			panic("codegen: global alloca missing a pre-assigned slot")
		}
		hg.emit1(bytecode.GALLOCA, int64(idx))
		return
	}
	pos := len(hg.stack)
	hg.emit1(bytecode.ALLOCA, 1)
	hg.push(instr)
	hg.localSlot[instr] = pos
}

func (hg *handlerGen) genStore(instr *ir.Instr) {
	slot, ok := instr.Operand(0).(*ir.Instr)
	if !ok || slot.Op != ir.OpAlloca {
		panic("codegen: Store's first operand must be an Alloca slot")
	}
	hg.ensureOnTop(instr.Operand(1))
	if slot.AllocaGlob {
		idx, ok := hg.g.globalSlot[slot]
		if !ok {
			panic("codegen: store to a global before its alloca ran")
		}
		hg.emit1(bytecode.GSTORE, int64(idx))
	} else {
		pos, ok := hg.localSlot[slot]
		if !ok {
			panic("codegen: store to a local before its alloca ran")
		}
		hg.emit1(bytecode.STORE, int64(pos))
	}
	hg.pop(1)
}

func (hg *handlerGen) genLoad(instr *ir.Instr) {
	src := instr.Operand(0)
	if alloca, ok := src.(*ir.Instr); ok && alloca.Op == ir.OpAlloca {
		if alloca.AllocaGlob {
			idx, ok := hg.g.globalSlot[alloca]
			if !ok {
				panic("codegen: load of a global before its alloca ran")
			}
			hg.emit1(bytecode.GLOAD, int64(idx))
		} else {
			pos, ok := hg.localSlot[alloca]
			if !ok {
				panic("codegen: load of a local before its alloca ran")
			}
			hg.emit1(bytecode.LOAD, int64(pos))
		}
		hg.push(instr)
		return
	}
	// Identity rename: resolve() will route any future reference to
	// instr straight through to src, so nothing further is tracked here.
}

func (hg *handlerGen) genCall(instr *ir.Instr) {
	operands := instr.Operands()
	for _, operand := range operands {
		hg.ensureOnTop(operand)
	}
	argc := len(operands)
	idx := hg.g.bcProg.Pool.MakeNativeFunctionSig(*instr.Callee)
	retFlag := int64(0)
	if instr.Type() != literal.Void {
		retFlag = 1
	}
	hg.code = append(hg.code, bytecode.Instr3(bytecode.CALL, int64(idx), int64(argc), retFlag))
	hg.pop(argc)
	if retFlag == 1 {
		hg.push(instr)
		if !instr.IsUsed() {
			hg.emit1(bytecode.DISCARD, 1)
			hg.pop(1)
		}
	}
}

func (hg *handlerGen) genHandlerCall(instr *ir.Instr) {
	operands := instr.Operands()
	for _, operand := range operands {
		hg.ensureOnTop(operand)
	}
	argc := len(operands)
	idx := hg.g.bcProg.Pool.MakeNativeHandlerSig(*instr.Callee)
	hg.code = append(hg.code, bytecode.Instr2(bytecode.HANDLER, int64(idx), int64(argc)))
	hg.pop(argc)
}

func (hg *handlerGen) genRet(instr *ir.Instr) {
	flag, ok := instr.Operand(0).(*ir.Constant)
	if !ok || flag.Kind != ir.ConstInt {
		panic("codegen: Ret's operand must be an integer constant produced by CreateRet")
	}
	hg.emit1(bytecode.EXIT, flag.IntVal)
}
