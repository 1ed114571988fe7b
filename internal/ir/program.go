package ir

import (
	"net/netip"

	"github.com/contour-terminal/endo/internal/literal"
)

// Import is an ordered (moduleName, modulePath) pair declared by the
// program (spec.md 3).
type Import struct {
	ModuleName string
	ModulePath string
}

// IRProgram owns every handler, every interned constant (one table per
// literal type, with two preallocated boolean singletons), the
// native-callback reference tables keyed by signature, and an ordered
// import list (spec.md 3).
type IRProgram struct {
	handlers     map[string]*IRHandler
	handlerOrder []string

	intCache      map[string]*Constant
	stringCache   map[string]*Constant
	ipCache       map[string]*Constant
	cidrCache     map[string]*Constant
	regexCache    map[string]*Constant
	arrayCache    map[string]*Constant
	intPairCache  map[string]*Constant
	boolTrue      *Constant
	boolFalse     *Constant

	builtinFunctions map[string]*Constant // keyed by signature string
	builtinHandlers  map[string]*Constant
	handlerRefs      map[string]*Constant

	funcOrder    []string
	handlerFuncOrder []string

	Imports []Import

	noReturnSigs       map[string]bool
	sideEffectFreeSigs map[string]bool
}

// NewIRProgram allocates an empty program with its two boolean singletons
// preallocated.
func NewIRProgram() *IRProgram {
	p := &IRProgram{
		handlers:         make(map[string]*IRHandler),
		intCache:         make(map[string]*Constant),
		stringCache:      make(map[string]*Constant),
		ipCache:          make(map[string]*Constant),
		cidrCache:        make(map[string]*Constant),
		regexCache:       make(map[string]*Constant),
		arrayCache:       make(map[string]*Constant),
		intPairCache:     make(map[string]*Constant),
		builtinFunctions: make(map[string]*Constant),
		builtinHandlers:  make(map[string]*Constant),
		noReturnSigs:     make(map[string]bool),
	}
	p.boolTrue = &Constant{Value: newValue("true", literal.Boolean), Kind: ConstBool, BoolVal: true}
	p.boolFalse = &Constant{Value: newValue("false", literal.Boolean), Kind: ConstBool, BoolVal: false}
	return p
}

// MarkNoReturn records that signature sig is declared NoReturn by the
// native-callback registry, so BasicBlock.Verify can treat a trailing
// non-returning call as a valid block terminator (spec.md 3).
func (p *IRProgram) MarkNoReturn(sig literal.Signature) {
	p.noReturnSigs[sig.Key()] = true
}

func (p *IRProgram) isNoReturnSignature(sig *literal.Signature) bool {
	if sig == nil {
		return false
	}
	return p.noReturnSigs[sig.Key()]
}

// MarkSideEffectFree records that signature sig is declared
// SideEffectFree by the native-callback registry, letting
// dead-instruction elimination drop an unused call to it (spec.md 4.F).
func (p *IRProgram) MarkSideEffectFree(sig literal.Signature) {
	if p.sideEffectFreeSigs == nil {
		p.sideEffectFreeSigs = make(map[string]bool)
	}
	p.sideEffectFreeSigs[sig.Key()] = true
}

// IsSideEffectFree reports whether sig was declared SideEffectFree.
func (p *IRProgram) IsSideEffectFree(sig *literal.Signature) bool {
	if sig == nil || p.sideEffectFreeSigs == nil {
		return false
	}
	return p.sideEffectFreeSigs[sig.Key()]
}

// AddHandler registers a new handler under its name. It panics on a
// duplicate name, since handler names are the program's symbol table.
func (p *IRProgram) AddHandler(h *IRHandler) {
	if _, exists := p.handlers[h.Name]; exists {
		panic("ir: duplicate handler name " + h.Name)
	}
	h.Program = p
	p.handlers[h.Name] = h
	p.handlerOrder = append(p.handlerOrder, h.Name)
}

// Handler looks up a handler by name.
func (p *IRProgram) Handler(name string) (*IRHandler, bool) {
	h, ok := p.handlers[name]
	return h, ok
}

// Handlers returns all handlers in declaration order.
func (p *IRProgram) Handlers() []*IRHandler {
	out := make([]*IRHandler, 0, len(p.handlerOrder))
	for _, name := range p.handlerOrder {
		out = append(out, p.handlers[name])
	}
	return out
}

// GlobalInitHandler returns (creating if absent) the synthetic handler
// whose allocas become global slots (spec.md 4.H).
func (p *IRProgram) GlobalInitHandler() *IRHandler {
	if h, ok := p.handlers[GlobalInitHandlerName]; ok {
		return h
	}
	h := NewIRHandler(GlobalInitHandlerName, p)
	p.AddHandler(h)
	return h
}

// --- Constant interning -----------------------------------------------

func (p *IRProgram) ConstBool(v bool) *Constant {
	if v {
		return p.boolTrue
	}
	return p.boolFalse
}

func (p *IRProgram) ConstInt(v int64) *Constant {
	key := (&Constant{Kind: ConstInt, IntVal: v}).Key()
	if c, ok := p.intCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.Number), Kind: ConstInt, IntVal: v}
	p.intCache[key] = c
	return c
}

func (p *IRProgram) ConstString(v string) *Constant {
	key := (&Constant{Kind: ConstString, StringVal: v}).Key()
	if c, ok := p.stringCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.String), Kind: ConstString, StringVal: v}
	p.stringCache[key] = c
	return c
}

func (p *IRProgram) ConstIP(addr netip.Addr) *Constant {
	key := (&Constant{Kind: ConstIP, IPVal: addr}).Key()
	if c, ok := p.ipCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.IPAddress), Kind: ConstIP, IPVal: addr}
	p.ipCache[key] = c
	return c
}

func (p *IRProgram) ConstCidr(prefix netip.Prefix) *Constant {
	key := (&Constant{Kind: ConstCidr, CidrVal: prefix}).Key()
	if c, ok := p.cidrCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.Cidr), Kind: ConstCidr, CidrVal: prefix}
	p.cidrCache[key] = c
	return c
}

func (p *IRProgram) ConstRegExp(pattern string) *Constant {
	key := (&Constant{Kind: ConstRegExp, RegexSrc: pattern}).Key()
	if c, ok := p.regexCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.RegExp), Kind: ConstRegExp, RegexSrc: pattern}
	p.regexCache[key] = c
	return c
}

func (p *IRProgram) ConstIntPair(a, b int64) *Constant {
	key := (&Constant{Kind: ConstIntPair, IntPairA: a, IntPairB: b}).Key()
	if c, ok := p.intPairCache[key]; ok {
		return c
	}
	c := &Constant{Value: newValue(key, literal.IntPair), Kind: ConstIntPair, IntPairA: a, IntPairB: b}
	p.intPairCache[key] = c
	return c
}

// ConstArray interns an array-of-constant whose elements must all already
// be elemType-typed constants (spec.md 3: "Arrays are deduplicated as
// whole vectors").
func (p *IRProgram) ConstArray(elemType literal.Type, elems []*Constant) *Constant {
	tmp := &Constant{Kind: ConstArray, ArrayElems: elems}
	key := tmp.Key()
	if c, ok := p.arrayCache[key]; ok {
		return c
	}
	c := &Constant{
		Value:      newValue(key, literal.ArrayTypeOf(elemType)),
		Kind:       ConstArray,
		ArrayElems: append([]*Constant(nil), elems...),
	}
	p.arrayCache[key] = c
	return c
}

// BuiltinFunctionRef interns a symbolic reference to a native function by
// signature; resolved to a concrete NativeCallback only at link time
// (spec.md 3/4.G).
func (p *IRProgram) BuiltinFunctionRef(sig literal.Signature) *Constant {
	key := sig.Key()
	if c, ok := p.builtinFunctions[key]; ok {
		return c
	}
	sigCopy := sig
	c := &Constant{Value: newValue(key, literal.Handler), Kind: ConstBuiltinFunction, BuiltinFunc: &sigCopy}
	p.builtinFunctions[key] = c
	p.funcOrder = append(p.funcOrder, key)
	return c
}

// BuiltinHandlerRef interns a symbolic reference to a native handler by
// signature.
func (p *IRProgram) BuiltinHandlerRef(sig literal.Signature) *Constant {
	key := sig.Key()
	if c, ok := p.builtinHandlers[key]; ok {
		return c
	}
	sigCopy := sig
	c := &Constant{Value: newValue(key, literal.Handler), Kind: ConstBuiltinHandler, BuiltinHdlr: &sigCopy}
	p.builtinHandlers[key] = c
	p.handlerFuncOrder = append(p.handlerFuncOrder, key)
	return c
}

// HandlerRef interns a symbolic (by-name) reference to a compiled handler,
// used before the target handler necessarily exists (forward reference).
func (p *IRProgram) HandlerRef(name string) *Constant {
	// Handler refs are keyed uniquely by name within the array cache's
	// sibling map reuse would be confusing, so they get their own.
	if c, ok := p.handlerRefCache()[name]; ok {
		return c
	}
	c := &Constant{Value: newValue(name, literal.Handler), Kind: ConstHandlerRef, HandlerRef: name}
	p.handlerRefCache()[name] = c
	return c
}

func (p *IRProgram) handlerRefCache() map[string]*Constant {
	if p.handlerRefs == nil {
		p.handlerRefs = make(map[string]*Constant)
	}
	return p.handlerRefs
}
