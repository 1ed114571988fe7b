package bytecode

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

// ArrayConst is a deduplicated array-of-scalar constant (spec.md 4.C:
// "arrays are deduplicated as whole vectors").
type ArrayConst struct {
	ElemType literal.Type
	Elems    []native.Value
}

func (a ArrayConst) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", a.ElemType)
	for _, e := range a.Elems {
		b.WriteString(valueKey(e))
		b.WriteByte(',')
	}
	return b.String()
}

func valueKey(v native.Value) string {
	switch v.Type {
	case literal.Number:
		return "I" + strconv.FormatInt(v.Int, 10)
	case literal.String:
		return "S" + v.Str
	case literal.IPAddress:
		return "P" + v.IP.String()
	case literal.Cidr:
		return "C" + v.Cidr.String()
	default:
		return fmt.Sprintf("?%v", v)
	}
}

// MatchCase pairs a case label's pool index with its target PC, filled
// in by the code generator once block addresses are known (spec.md 4.C).
type MatchCase struct {
	LabelIndex int
	PC         int
}

// MatchDef is a runtime match-dispatch definition reserved in the pool
// at IR-lowering time and populated once the enclosing handler's layout
// is final (spec.md 4.C/4.H).
type MatchDef struct {
	HandlerID int
	Class     MatchClass
	ElsePC    int
	Cases     []MatchCase
}

// ConstantPool is the deduplicated runtime table of literals, arrays,
// match definitions, handler-name slots, and unresolved native
// signatures that a compiled Program indexes into (spec.md 4.C).
type ConstantPool struct {
	ints    []int64
	intIdx  map[int64]int
	strs    []string
	strIdx  map[string]int
	ips     []netip.Addr
	ipIdx   map[netip.Addr]int
	cidrs   []netip.Prefix
	cidrIdx map[netip.Prefix]int
	regexes []string
	rxIdx   map[string]int
	pairs   []native.Value
	pairIdx map[[2]int64]int
	arrays  []ArrayConst
	arrIdx  map[string]int

	matchDefs []*MatchDef

	handlerNames []string
	handlerIdx   map[string]int

	nativeFuncSigs   []literal.Signature
	nativeFuncSigIdx map[string]int
	nativeHdlrSigs   []literal.Signature
	nativeHdlrSigIdx map[string]int
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		intIdx:           make(map[int64]int),
		strIdx:           make(map[string]int),
		ipIdx:            make(map[netip.Addr]int),
		cidrIdx:          make(map[netip.Prefix]int),
		rxIdx:            make(map[string]int),
		pairIdx:          make(map[[2]int64]int),
		arrIdx:           make(map[string]int),
		handlerIdx:       make(map[string]int),
		nativeFuncSigIdx: make(map[string]int),
		nativeHdlrSigIdx: make(map[string]int),
	}
}

// MakeInt interns a 64-bit integer constant (used for NLOAD; small
// integers that fit ILOAD's immediate skip the pool entirely).
func (p *ConstantPool) MakeInt(v int64) int {
	if idx, ok := p.intIdx[v]; ok {
		return idx
	}
	idx := len(p.ints)
	p.ints = append(p.ints, v)
	p.intIdx[v] = idx
	return idx
}

func (p *ConstantPool) Int(idx int) int64 { return p.ints[idx] }

// MakeString interns a string constant (binary-safe; no escaping rules
// here, spec.md 6).
func (p *ConstantPool) MakeString(v string) int {
	if idx, ok := p.strIdx[v]; ok {
		return idx
	}
	idx := len(p.strs)
	p.strs = append(p.strs, v)
	p.strIdx[v] = idx
	return idx
}

func (p *ConstantPool) String(idx int) string { return p.strs[idx] }

// MakeRegExp interns a regex source pattern. Consumers (SREGMATCH, R2S)
// treat the pool index as an opaque regex-pool id; internal/vm compiles
// the pattern on first use and caches it per Runner. SMATCHR case labels
// are string-pool entries, compiled by internal/match.
func (p *ConstantPool) MakeRegExp(pattern string) int {
	if idx, ok := p.rxIdx[pattern]; ok {
		return idx
	}
	idx := len(p.regexes)
	p.regexes = append(p.regexes, pattern)
	p.rxIdx[pattern] = idx
	return idx
}

func (p *ConstantPool) RegExp(idx int) string { return p.regexes[idx] }

func (p *ConstantPool) MakeIP(addr netip.Addr) int {
	if idx, ok := p.ipIdx[addr]; ok {
		return idx
	}
	idx := len(p.ips)
	p.ips = append(p.ips, addr)
	p.ipIdx[addr] = idx
	return idx
}

func (p *ConstantPool) IP(idx int) netip.Addr { return p.ips[idx] }

func (p *ConstantPool) MakeCidr(prefix netip.Prefix) int {
	if idx, ok := p.cidrIdx[prefix]; ok {
		return idx
	}
	idx := len(p.cidrs)
	p.cidrs = append(p.cidrs, prefix)
	p.cidrIdx[prefix] = idx
	return idx
}

func (p *ConstantPool) Cidr(idx int) netip.Prefix { return p.cidrs[idx] }

func (p *ConstantPool) MakeIntPair(a, b int64) int {
	key := [2]int64{a, b}
	if idx, ok := p.pairIdx[key]; ok {
		return idx
	}
	idx := len(p.pairs)
	p.pairs = append(p.pairs, native.Value{Type: literal.IntPair, IntPairA: a, IntPairB: b})
	p.pairIdx[key] = idx
	return idx
}

func (p *ConstantPool) IntPair(idx int) (int64, int64) {
	v := p.pairs[idx]
	return v.IntPairA, v.IntPairB
}

// MakeArray interns a whole array constant, deduplicated vector-wise.
func (p *ConstantPool) MakeArray(elemType literal.Type, elems []native.Value) int {
	ac := ArrayConst{ElemType: elemType, Elems: append([]native.Value(nil), elems...)}
	key := ac.key()
	if idx, ok := p.arrIdx[key]; ok {
		return idx
	}
	idx := len(p.arrays)
	p.arrays = append(p.arrays, ac)
	p.arrIdx[key] = idx
	return idx
}

func (p *ConstantPool) Array(idx int) ArrayConst { return p.arrays[idx] }

// MakeMatchDef reserves a fresh MatchDef slot; its fields are filled in
// once the code generator knows final PCs (spec.md 4.C). Match defs are
// never deduplicated — each Match terminator gets its own.
func (p *ConstantPool) MakeMatchDef() int {
	idx := len(p.matchDefs)
	p.matchDefs = append(p.matchDefs, &MatchDef{})
	return idx
}

func (p *ConstantPool) MatchDef(idx int) *MatchDef { return p.matchDefs[idx] }

// MatchDefCount reports how many MatchDef slots have been reserved,
// letting internal/vm build one specialized Dispatcher per slot once,
// at link time, without reaching into this pool's backing slice.
func (p *ConstantPool) MatchDefCount() int { return len(p.matchDefs) }

// MakeHandlerSlot interns a handler-by-name reference, creating a fresh
// index on first reference regardless of whether that handler has been
// compiled yet (spec.md 4.C: forward references).
func (p *ConstantPool) MakeHandlerSlot(name string) int {
	if idx, ok := p.handlerIdx[name]; ok {
		return idx
	}
	idx := len(p.handlerNames)
	p.handlerNames = append(p.handlerNames, name)
	p.handlerIdx[name] = idx
	return idx
}

func (p *ConstantPool) HandlerName(idx int) string { return p.handlerNames[idx] }
func (p *ConstantPool) HandlerSlotCount() int      { return len(p.handlerNames) }

// MakeNativeFunctionSig interns an unresolved native-function signature,
// returning the stable index the code generator embeds in CALL's
// function-index operand (spec.md 4.C).
func (p *ConstantPool) MakeNativeFunctionSig(sig literal.Signature) int {
	key := sig.Key()
	if idx, ok := p.nativeFuncSigIdx[key]; ok {
		return idx
	}
	idx := len(p.nativeFuncSigs)
	p.nativeFuncSigs = append(p.nativeFuncSigs, sig)
	p.nativeFuncSigIdx[key] = idx
	return idx
}

func (p *ConstantPool) NativeFunctionSig(idx int) literal.Signature { return p.nativeFuncSigs[idx] }
func (p *ConstantPool) NativeFunctionSigs() []literal.Signature     { return p.nativeFuncSigs }

// MakeNativeHandlerSig interns an unresolved native-handler signature
// for HANDLER's handler-index operand.
func (p *ConstantPool) MakeNativeHandlerSig(sig literal.Signature) int {
	key := sig.Key()
	if idx, ok := p.nativeHdlrSigIdx[key]; ok {
		return idx
	}
	idx := len(p.nativeHdlrSigs)
	p.nativeHdlrSigs = append(p.nativeHdlrSigs, sig)
	p.nativeHdlrSigIdx[key] = idx
	return idx
}

func (p *ConstantPool) NativeHandlerSig(idx int) literal.Signature { return p.nativeHdlrSigs[idx] }
func (p *ConstantPool) NativeHandlerSigs() []literal.Signature     { return p.nativeHdlrSigs }

// Disassemble renders every pool table as a human-readable dump
// (spec.md 4.C).
func (p *ConstantPool) Disassemble() string {
	var b strings.Builder
	b.WriteString("constant pool:\n")
	for i, v := range p.ints {
		fmt.Fprintf(&b, "  int[%d] = %d\n", i, v)
	}
	for i, v := range p.strs {
		fmt.Fprintf(&b, "  str[%d] = %q\n", i, v)
	}
	for i, v := range p.regexes {
		fmt.Fprintf(&b, "  regex[%d] = /%s/\n", i, v)
	}
	for i, v := range p.ips {
		fmt.Fprintf(&b, "  ip[%d] = %s\n", i, v)
	}
	for i, v := range p.cidrs {
		fmt.Fprintf(&b, "  cidr[%d] = %s\n", i, v)
	}
	for i, v := range p.pairs {
		fmt.Fprintf(&b, "  pair[%d] = (%d, %d)\n", i, v.IntPairA, v.IntPairB)
	}
	for i, v := range p.arrays {
		fmt.Fprintf(&b, "  array[%d] = %s[%d elems]\n", i, v.ElemType, len(v.Elems))
	}
	for i, name := range p.handlerNames {
		fmt.Fprintf(&b, "  handler[%d] = @%s\n", i, name)
	}
	for i, sig := range p.nativeFuncSigs {
		fmt.Fprintf(&b, "  nativeFunc[%d] = %s\n", i, sig.Key())
	}
	for i, sig := range p.nativeHdlrSigs {
		fmt.Fprintf(&b, "  nativeHandler[%d] = %s\n", i, sig.Key())
	}
	for i, md := range p.matchDefs {
		fmt.Fprintf(&b, "  matchDef[%d] = {handler:%d class:%s else:%d cases:%d}\n",
			i, md.HandlerID, md.Class, md.ElsePC, len(md.Cases))
	}
	return b.String()
}
