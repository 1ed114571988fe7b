package native

import (
	"testing"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/irbuilder"
	"github.com/contour-terminal/endo/internal/literal"
)

func sig(t *testing.T, text string) literal.Signature {
	t.Helper()
	s, err := literal.ParseSignature(text)
	if err != nil {
		t.Fatalf("bad signature %q: %v", text, err)
	}
	return s
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRuntime()
	cb := &NativeCallback{
		Signature:  sig(t, "pure_len(S)I"),
		Attrs:      SideEffectFree,
		ParamNames: []string{"s"},
		Invoke: func(ctx *CallCtx) Value {
			return Value{Type: literal.Number, Int: int64(len(ctx.Args[0].Str))}
		},
	}
	r.Register(cb)

	got, ok := r.Lookup(sig(t, "pure_len(S)I"))
	if !ok || got != cb {
		t.Fatalf("expected lookup to find the registered callback")
	}
	if got.Runtime != r {
		t.Fatalf("expected Register to set Runtime back-pointer")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRuntime()
	r.Register(&NativeCallback{Signature: sig(t, "f()V")})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on duplicate signature registration")
		}
	}()
	r.Register(&NativeCallback{Signature: sig(t, "f()V")})
}

func TestBindAttributesMarksProgram(t *testing.T) {
	r := NewRuntime()
	r.Register(&NativeCallback{Signature: sig(t, "die()V"), Attrs: NoReturn})
	r.Register(&NativeCallback{Signature: sig(t, "pure(S)I"), Attrs: SideEffectFree})

	p := ir.NewIRProgram()
	r.BindAttributes(p)

	dieSig := sig(t, "die()V")
	pureSig := sig(t, "pure(S)I")
	if !p.IsSideEffectFree(&pureSig) {
		t.Fatalf("expected pure(S)I to be marked side-effect-free")
	}
	_ = dieSig // exercised indirectly via BasicBlock.Verify in internal/ir tests
}

func TestVerifyNativeCallsRunsVerifier(t *testing.T) {
	r := NewRuntime()
	calledWith := (*ir.Instr)(nil)
	r.Register(&NativeCallback{
		Signature: sig(t, "check(I)V"),
		Verify: func(instr *ir.Instr, b *irbuilder.Builder) bool {
			calledWith = instr
			return true
		},
	})

	p := ir.NewIRProgram()
	h := ir.NewIRHandler("h", p)
	p.AddHandler(h)
	b := irbuilder.New(p)
	b.SetHandler(h)
	entry := b.NewBlock("entry")
	b.SetBlock(entry)

	checkSig := sig(t, "check(I)V")
	b.CreateCall(checkSig, p.ConstInt(1))
	b.CreateRet(true)

	if !VerifyNativeCalls(r, p, b) {
		t.Fatalf("expected verification to succeed")
	}
	if calledWith == nil {
		t.Fatalf("expected the verifier to run against the Call instruction")
	}
}

func TestVerifyNativeCallsFailsOnUnresolvedSignature(t *testing.T) {
	r := NewRuntime()
	p := ir.NewIRProgram()
	h := ir.NewIRHandler("h", p)
	p.AddHandler(h)
	b := irbuilder.New(p)
	b.SetHandler(h)
	entry := b.NewBlock("entry")
	b.SetBlock(entry)

	b.CreateCall(sig(t, "missing()V"))
	b.CreateRet(true)

	if VerifyNativeCalls(r, p, b) {
		t.Fatalf("expected verification to fail for an unresolved signature")
	}
}
