package bytecode

import "testing"

func TestNewHandlerAppendsSyntheticExit(t *testing.T) {
	h := NewHandler("f", nil, []Instruction{Instr1(ILOAD, 5)})
	if len(h.Code) != 2 {
		t.Fatalf("len(Code) = %d, want 2", len(h.Code))
	}
	if last := h.Code[len(h.Code)-1]; last.Op != EXIT {
		t.Fatalf("last instruction = %s, want EXIT", last.Op)
	}
}

func TestNewHandlerDoesNotDoubleAppendExit(t *testing.T) {
	h := NewHandler("f", nil, []Instruction{Instr1(ILOAD, 5), Instr1(EXIT, 0)})
	if len(h.Code) != 2 {
		t.Fatalf("len(Code) = %d, want 2 (no extra EXIT)", len(h.Code))
	}
}

func TestComputeMaxStackDepthTracksPeak(t *testing.T) {
	code := []Instruction{
		Instr1(ILOAD, 1), // depth 1
		Instr1(ILOAD, 2), // depth 2
		Instr0(NADD),     // depth 1
		Instr1(ILOAD, 3), // depth 2
		Instr1(DISCARD, 2),
	}
	h := NewHandler("f", nil, code)
	if h.MaxStackDepth != 2 {
		t.Fatalf("MaxStackDepth = %d, want 2", h.MaxStackDepth)
	}
}
