package bytecode

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net/netip"

	"github.com/contour-terminal/endo/internal/literal"
)

// bundleMagic and bundleVersion identify the on-disk bundle format. This
// format is optional (spec.md 6: "a serialization format may be added
// by an implementation") and is never required for execution; programs
// are normally built and linked in memory. Grounded on the teacher's
// own magic+version+gob bundle layout.
var bundleMagic = [4]byte{'E', 'N', 'D', 'O'}

const bundleVersion byte = 0x01

func init() {
	gob.Register(&ArrayConst{})
	gob.Register(&MatchDef{})
}

// bundlePool and bundleProgram mirror ConstantPool/Program with their
// unexported fields promoted so gob can see them; ConstantPool's index
// maps are rebuilt from the decoded slices on load rather than encoded
// directly (spec.md 4.C: pool ordering, not its lookup maps, is what
// must round-trip).
type bundlePool struct {
	Ints              []int64
	Strs              []string
	IPs               []string
	Cidrs             []string
	Regexes           []string
	Pairs             [][2]int64
	Arrays            []ArrayConst
	MatchDefs         []*MatchDef
	HandlerNames      []string
	NativeFuncSigs    []string
	NativeHandlerSigs []string
}

type bundleHandler struct {
	Name string
	Code []Instruction
}

type bundleProgram struct {
	Pool     bundlePool
	Handlers []bundleHandler
	Imports  []Import
}

// Encode renders the program's ConstantPool and compiled handlers into
// the on-disk bundle format: a 4-byte magic, a 1-byte version, then a
// gob-encoded bundleProgram.
func (p *Program) Encode() ([]byte, error) {
	bp := bundleProgram{Imports: p.Imports}
	bp.Pool.Ints = p.Pool.ints
	bp.Pool.Strs = p.Pool.strs
	for _, ip := range p.Pool.ips {
		bp.Pool.IPs = append(bp.Pool.IPs, ip.String())
	}
	for _, c := range p.Pool.cidrs {
		bp.Pool.Cidrs = append(bp.Pool.Cidrs, c.String())
	}
	bp.Pool.Regexes = p.Pool.regexes
	for _, pr := range p.Pool.pairs {
		bp.Pool.Pairs = append(bp.Pool.Pairs, [2]int64{pr.IntPairA, pr.IntPairB})
	}
	bp.Pool.Arrays = p.Pool.arrays
	bp.Pool.MatchDefs = p.Pool.matchDefs
	bp.Pool.HandlerNames = p.Pool.handlerNames
	for _, sig := range p.Pool.nativeFuncSigs {
		bp.Pool.NativeFuncSigs = append(bp.Pool.NativeFuncSigs, sig.Key())
	}
	for _, sig := range p.Pool.nativeHdlrSigs {
		bp.Pool.NativeHandlerSigs = append(bp.Pool.NativeHandlerSigs, sig.Key())
	}
	for _, h := range p.Handlers {
		bp.Handlers = append(bp.Handlers, bundleHandler{Name: h.Name, Code: h.Code})
	}

	var buf bytes.Buffer
	buf.Write(bundleMagic[:])
	buf.WriteByte(bundleVersion)
	if err := gob.NewEncoder(&buf).Encode(&bp); err != nil {
		return nil, fmt.Errorf("bytecode: bundle encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses the on-disk bundle format produced by Encode. The
// returned Program is unlinked; callers must call Link before running
// it, since NativeCallback pointers are never serialized.
func Decode(data []byte) (*Program, error) {
	if len(data) < 5 || !bytes.Equal(data[:4], bundleMagic[:]) {
		return nil, fmt.Errorf("bytecode: invalid bundle magic")
	}
	if data[4] != bundleVersion {
		return nil, fmt.Errorf("bytecode: unsupported bundle version %d", data[4])
	}
	var bp bundleProgram
	if err := gob.NewDecoder(bytes.NewReader(data[5:])).Decode(&bp); err != nil {
		return nil, fmt.Errorf("bytecode: bundle decoding failed: %w", err)
	}

	p := NewProgram()
	p.Imports = bp.Imports
	pool := p.Pool
	for _, v := range bp.Pool.Ints {
		pool.MakeInt(v)
	}
	for _, v := range bp.Pool.Strs {
		pool.MakeString(v)
	}
	for _, v := range bp.Pool.IPs {
		addr, err := parseIP(v)
		if err != nil {
			return nil, err
		}
		pool.MakeIP(addr)
	}
	for _, v := range bp.Pool.Cidrs {
		prefix, err := parseCidr(v)
		if err != nil {
			return nil, err
		}
		pool.MakeCidr(prefix)
	}
	for _, v := range bp.Pool.Regexes {
		pool.MakeRegExp(v)
	}
	for _, pr := range bp.Pool.Pairs {
		pool.MakeIntPair(pr[0], pr[1])
	}
	for _, ac := range bp.Pool.Arrays {
		pool.MakeArray(ac.ElemType, ac.Elems)
	}
	pool.matchDefs = bp.Pool.MatchDefs
	for _, name := range bp.Pool.HandlerNames {
		pool.MakeHandlerSlot(name)
	}
	for _, key := range bp.Pool.NativeFuncSigs {
		sig, err := parseSignatureKey(key)
		if err != nil {
			return nil, err
		}
		pool.MakeNativeFunctionSig(sig)
	}
	for _, key := range bp.Pool.NativeHandlerSigs {
		sig, err := parseSignatureKey(key)
		if err != nil {
			return nil, err
		}
		pool.MakeNativeHandlerSig(sig)
	}
	for _, bh := range bp.Handlers {
		p.Handlers = append(p.Handlers, NewHandler(bh.Name, p, bh.Code))
	}
	return p, nil
}

func parseIP(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("bytecode: invalid bundled IP %q: %w", s, err)
	}
	return addr, nil
}

func parseCidr(s string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("bytecode: invalid bundled CIDR %q: %w", s, err)
	}
	return prefix, nil
}

func parseSignatureKey(key string) (literal.Signature, error) {
	sig, err := literal.ParseSignature(key)
	if err != nil {
		return literal.Signature{}, fmt.Errorf("bytecode: invalid bundled signature %q: %w", key, err)
	}
	return sig, nil
}
