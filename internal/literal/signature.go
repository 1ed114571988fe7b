package literal

import (
	"fmt"
	"strings"
)

// Signature is a native-callback or handler signature: a name, an ordered
// parameter-type list, and a return type. Equality, hashing, and ordering
// are defined entirely on the canonical encoded string (spec.md 4.A).
type Signature struct {
	Name    string
	Params  []Type
	Return  Type
	encoded string // cached canonical string, filled lazily
}

// NewSignature builds a Signature and eagerly caches its canonical string.
func NewSignature(name string, params []Type, ret Type) Signature {
	s := Signature{Name: name, Params: append([]Type(nil), params...), Return: ret}
	s.encoded = s.encode()
	return s
}

func (s Signature) encode() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for _, p := range s.Params {
		b.WriteByte(p.Code())
	}
	b.WriteByte(')')
	b.WriteByte(s.Return.Code())
	return b.String()
}

// String returns the canonical encoding, caching it on first use so repeat
// callers (linker lookups, map keys) don't re-render it.
func (s *Signature) String() string {
	if s.encoded == "" {
		s.encoded = s.encode()
	}
	return s.encoded
}

// Equal compares two signatures by their canonical encoding.
func (s Signature) Equal(other Signature) bool {
	return s.Key() == other.Key()
}

// Key returns the canonical string used for map lookups; unlike String it
// takes a value receiver so it is safe to call on a temporary.
func (s Signature) Key() string {
	if s.encoded != "" {
		return s.encoded
	}
	return s.encode()
}

// ParseSignature parses the grammar NAME '(' type* ')' returnType. It
// accepts exactly the codes recognized by TypeFromCode.
func ParseSignature(text string) (Signature, error) {
	open := strings.IndexByte(text, '(')
	close := strings.IndexByte(text, ')')
	if open < 0 || close < 0 || close < open {
		return Signature{}, fmt.Errorf("literal: malformed signature %q", text)
	}
	name := text[:open]
	if name == "" {
		return Signature{}, fmt.Errorf("literal: signature %q has no name", text)
	}
	paramCodes := text[open+1 : close]
	retCodes := text[close+1:]
	if len(retCodes) != 1 {
		return Signature{}, fmt.Errorf("literal: signature %q must have exactly one return code", text)
	}
	ret, ok := TypeFromCode(retCodes[0])
	if !ok {
		return Signature{}, fmt.Errorf("literal: signature %q has unknown return code %q", text, retCodes)
	}
	params := make([]Type, 0, len(paramCodes))
	for i := 0; i < len(paramCodes); i++ {
		t, ok := TypeFromCode(paramCodes[i])
		if !ok {
			return Signature{}, fmt.Errorf("literal: signature %q has unknown param code %q", text, paramCodes[i])
		}
		params = append(params, t)
	}
	return NewSignature(name, params, ret), nil
}
