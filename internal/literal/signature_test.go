package literal

import "testing"

func TestSignatureRoundTrip(t *testing.T) {
	tests := []string{
		"exit(I)V",
		"callproc(Bs)I",
		"noop()V",
		"pair(IIa)a",
	}
	for _, text := range tests {
		sig, err := ParseSignature(text)
		if err != nil {
			t.Fatalf("ParseSignature(%q): %v", text, err)
		}
		if got := sig.String(); got != text {
			t.Errorf("round trip mismatch: parsed %q, re-emitted %q", text, got)
		}
	}
}

func TestSignatureEqualityIgnoresIdentity(t *testing.T) {
	a := NewSignature("f", []Type{Number, String}, Boolean)
	b := NewSignature("f", []Type{Number, String}, Boolean)
	if !a.Equal(b) {
		t.Errorf("expected equal signatures built independently to be Equal")
	}
	c := NewSignature("f", []Type{String, Number}, Boolean)
	if a.Equal(c) {
		t.Errorf("param order must matter for equality")
	}
}

func TestParseSignatureRejectsMalformed(t *testing.T) {
	bad := []string{"f(I", "f)I(", "f()", "()V", "f(Q)V"}
	for _, text := range bad {
		if _, err := ParseSignature(text); err == nil {
			t.Errorf("ParseSignature(%q) expected error, got none", text)
		}
	}
}

func TestElementTypeOfAndIsArrayType(t *testing.T) {
	arrays := []Type{NumberArray, StringArray, IPAddressArray, CidrArray}
	scalars := []Type{Number, String, IPAddress, Cidr}
	for i, arr := range arrays {
		if !IsArrayType(arr) {
			t.Errorf("%s should be an array type", arr)
		}
		if ElementTypeOf(arr) != scalars[i] {
			t.Errorf("ElementTypeOf(%s) = %s, want %s", arr, ElementTypeOf(arr), scalars[i])
		}
	}
	for _, s := range append(scalars, Void, Boolean, RegExp, Handler, IntPair) {
		if IsArrayType(s) {
			t.Errorf("%s should not be an array type", s)
		}
		if ElementTypeOf(s) != s {
			t.Errorf("ElementTypeOf on non-array %s must be total identity", s)
		}
	}
}
