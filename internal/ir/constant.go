package ir

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/contour-terminal/endo/internal/literal"
)

// ConstKind distinguishes the payload carried by a Constant (spec.md 3:
// "Variants: integer, boolean, string, IP, CIDR, regex, array-of-constant,
// built-in-function reference, built-in-handler reference, IRHandler
// (symbolic handler reference)").
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstBool
	ConstString
	ConstIP
	ConstCidr
	ConstRegExp
	ConstArray
	ConstBuiltinFunction
	ConstBuiltinHandler
	ConstHandlerRef
	ConstIntPair
)

// Constant is a Value with a compile-time payload, owned and interned by
// the enclosing Program (spec.md 3).
type Constant struct {
	Value

	Kind ConstKind

	IntVal    int64
	BoolVal   bool
	StringVal string
	IPVal     netip.Addr
	CidrVal   netip.Prefix
	RegexSrc  string // pattern text; equality/interning is on this alone
	ArrayElems []*Constant
	IntPairA, IntPairB int64

	BuiltinFunc  *literal.Signature // ConstBuiltinFunction
	BuiltinHdlr  *literal.Signature // ConstBuiltinHandler
	HandlerRef   string             // ConstHandlerRef: symbolic target handler name
}

func (c *Constant) valuePtr() *Value { return &c.Value }

var _ ValueRef = (*Constant)(nil)

// ReplaceAllUsesWith redirects every using instruction's operand that
// points to this constant to newValue. After the call, UseCount() == 0
// (spec.md 8).
func (c *Constant) ReplaceAllUsesWith(newValue ValueRef) {
	replaceAllUsesOf(c, newValue)
}

// Key returns the interning key for this constant's payload (kind-tagged,
// so values of different kinds never collide even with overlapping
// representations).
func (c *Constant) Key() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("i:%d", c.IntVal)
	case ConstBool:
		return fmt.Sprintf("b:%t", c.BoolVal)
	case ConstString:
		return "s:" + c.StringVal
	case ConstIP:
		return "p:" + c.IPVal.String()
	case ConstCidr:
		return "c:" + c.CidrVal.String()
	case ConstRegExp:
		return "r:" + c.RegexSrc
	case ConstArray:
		var b strings.Builder
		b.WriteString("a:")
		for _, e := range c.ArrayElems {
			b.WriteString(e.Key())
			b.WriteByte(',')
		}
		return b.String()
	case ConstBuiltinFunction:
		return "bf:" + c.BuiltinFunc.Key()
	case ConstBuiltinHandler:
		return "bh:" + c.BuiltinHdlr.Key()
	case ConstHandlerRef:
		return "hr:" + c.HandlerRef
	case ConstIntPair:
		return fmt.Sprintf("ip:%d,%d", c.IntPairA, c.IntPairB)
	default:
		panic("ir: unknown constant kind")
	}
}

// Inspect renders the constant's canonical textual form, used by cast
// folding (bool/number/IP/CIDR/RegExp -> string) and by disassembly.
func (c *Constant) Inspect() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", c.IntVal)
	case ConstBool:
		if c.BoolVal {
			return "true"
		}
		return "false"
	case ConstString:
		return c.StringVal
	case ConstIP:
		return c.IPVal.String()
	case ConstCidr:
		return c.CidrVal.String()
	case ConstRegExp:
		return c.RegexSrc
	case ConstArray:
		parts := make([]string, len(c.ArrayElems))
		for i, e := range c.ArrayElems {
			parts[i] = e.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ConstBuiltinFunction:
		return c.BuiltinFunc.Key()
	case ConstBuiltinHandler:
		return c.BuiltinHdlr.Key()
	case ConstHandlerRef:
		return c.HandlerRef
	case ConstIntPair:
		return fmt.Sprintf("(%d, %d)", c.IntPairA, c.IntPairB)
	default:
		return "<?>"
	}
}
