package native

import (
	"net/netip"

	"github.com/contour-terminal/endo/internal/literal"
)

// Value is the runtime counterpart of internal/ir.Constant: a tagged
// union carrying one literal-typed payload, used to pass arguments to
// and receive results from native callbacks at VM execution time
// (spec.md 4.G). internal/vm depends on this package for its call
// boundary rather than the other way around, so native callbacks never
// need to know about the interpreter that drives them.
type Value struct {
	Type literal.Type

	Int  int64
	Bool bool
	Str  string
	IP   netip.Addr
	Cidr netip.Prefix

	IntPairA, IntPairB int64

	Array []Value

	// HandlerName identifies a Handler-typed value: the compiled handler
	// or native signature it refers to.
	HandlerName string
}
