package bytecode

import (
	"net/netip"
	"testing"

	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

func buildSampleProgram(t *testing.T) *Program {
	p := NewProgram()
	p.Imports = []Import{{ModuleName: "net", ModulePath: "endo/net"}}

	p.Pool.MakeInt(42)
	p.Pool.MakeString("hello")
	p.Pool.MakeIP(netip.MustParseAddr("10.0.0.1"))
	p.Pool.MakeCidr(netip.MustParsePrefix("10.0.0.0/24"))
	p.Pool.MakeRegExp("^a+$")
	p.Pool.MakeIntPair(3, 4)
	p.Pool.MakeArray(literal.Number, []native.Value{
		{Type: literal.Number, Int: 1},
		{Type: literal.Number, Int: 2},
	})
	md := p.Pool.MatchDef(p.Pool.MakeMatchDef())
	md.HandlerID = 0
	md.Class = MatchHead
	md.ElsePC = 3
	md.Cases = []MatchCase{{LabelIndex: 0, PC: 5}}
	p.Pool.MakeHandlerSlot("on_exit")
	p.Pool.MakeNativeFunctionSig(mustSig(t, "die()V"))
	p.Pool.MakeNativeHandlerSig(mustSig(t, "on_exit()V"))

	h := NewHandler("main", p, []Instruction{
		Instr1(ILOAD, 0),
		Instr1(SLOAD, 0),
		Instr3(CALL, 0, 0, 0),
	})
	p.Handlers = append(p.Handlers, h)
	return p
}

func TestBundleEncodeDecodeRoundTrip(t *testing.T) {
	original := buildSampleProgram(t)

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(decoded.Imports) != 1 || decoded.Imports[0] != original.Imports[0] {
		t.Fatalf("Imports did not round-trip: %+v", decoded.Imports)
	}
	if decoded.Pool.Int(0) != 42 {
		t.Fatalf("int constant did not round-trip: %d", decoded.Pool.Int(0))
	}
	if decoded.Pool.String(0) != "hello" {
		t.Fatalf("string constant did not round-trip: %q", decoded.Pool.String(0))
	}
	if decoded.Pool.IP(0) != netip.MustParseAddr("10.0.0.1") {
		t.Fatalf("IP constant did not round-trip: %v", decoded.Pool.IP(0))
	}
	if decoded.Pool.Cidr(0) != netip.MustParsePrefix("10.0.0.0/24") {
		t.Fatalf("CIDR constant did not round-trip: %v", decoded.Pool.Cidr(0))
	}
	if decoded.Pool.RegExp(0) != "^a+$" {
		t.Fatalf("regex constant did not round-trip: %q", decoded.Pool.RegExp(0))
	}
	a, b := decoded.Pool.IntPair(0)
	if a != 3 || b != 4 {
		t.Fatalf("int pair did not round-trip: (%d, %d)", a, b)
	}
	arr := decoded.Pool.Array(0)
	if len(arr.Elems) != 2 || arr.Elems[0].Int != 1 || arr.Elems[1].Int != 2 {
		t.Fatalf("array constant did not round-trip: %+v", arr)
	}
	md := decoded.Pool.MatchDef(0)
	if md.Class != MatchHead || md.ElsePC != 3 || len(md.Cases) != 1 || md.Cases[0].PC != 5 {
		t.Fatalf("match def did not round-trip: %+v", md)
	}
	if decoded.Pool.HandlerName(0) != "on_exit" {
		t.Fatalf("handler slot did not round-trip: %q", decoded.Pool.HandlerName(0))
	}
	if !decoded.Pool.NativeFunctionSig(0).Equal(mustSig(t, "die()V")) {
		t.Fatalf("native function signature did not round-trip")
	}
	if !decoded.Pool.NativeHandlerSig(0).Equal(mustSig(t, "on_exit()V")) {
		t.Fatalf("native handler signature did not round-trip")
	}

	if len(decoded.Handlers) != 1 || decoded.Handlers[0].Name != "main" {
		t.Fatalf("handler did not round-trip: %+v", decoded.Handlers)
	}
	if len(decoded.Handlers[0].Code) != len(original.Handlers[0].Code) {
		t.Fatalf("handler code length mismatch: got %d, want %d",
			len(decoded.Handlers[0].Code), len(original.Handlers[0].Code))
	}
	for i, instr := range original.Handlers[0].Code {
		if decoded.Handlers[0].Code[i] != instr {
			t.Fatalf("instruction %d mismatch: got %+v, want %+v", i, decoded.Handlers[0].Code[i], instr)
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte{0, 0, 0, 0, bundleVersion}); err == nil {
		t.Fatalf("Decode accepted a bad magic number")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data := append(append([]byte{}, bundleMagic[:]...), 0xff)
	if _, err := Decode(data); err == nil {
		t.Fatalf("Decode accepted an unknown version byte")
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	if _, err := Decode([]byte{'E', 'N'}); err == nil {
		t.Fatalf("Decode accepted truncated input")
	}
}

func TestDecodeUnlinkedProgramHasNoResolvedCallbacks(t *testing.T) {
	original := buildSampleProgram(t)
	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Linked() {
		t.Fatalf("a freshly decoded program must not be linked")
	}
	if decoded.ResolvedFuncs != nil {
		t.Fatalf("ResolvedFuncs must be nil until Link runs")
	}
}
