// Package literal defines CoreVM's closed literal-type enum and the
// signature grammar used to describe native callbacks and handlers.
package literal

import "fmt"

// Type is CoreVM's closed set of literal types. Every Value in the IR and
// every slot on the VM's operand stack carries exactly one Type.
type Type uint8

const (
	Void Type = iota
	Boolean
	Number
	String
	IPAddress
	Cidr
	RegExp
	Handler
	NumberArray
	StringArray
	IPAddressArray
	CidrArray
	IntPair
)

// tos is the total string printer required by spec.md 4.A.
func (t Type) String() string {
	switch t {
	case Void:
		return "Void"
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case String:
		return "String"
	case IPAddress:
		return "IPAddress"
	case Cidr:
		return "Cidr"
	case RegExp:
		return "RegExp"
	case Handler:
		return "Handler"
	case NumberArray:
		return "NumberArray"
	case StringArray:
		return "StringArray"
	case IPAddressArray:
		return "IPAddressArray"
	case CidrArray:
		return "CidrArray"
	case IntPair:
		return "IntPair"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsArrayType is total: every Type is either an array type or not.
func IsArrayType(t Type) bool {
	switch t {
	case NumberArray, StringArray, IPAddressArray, CidrArray:
		return true
	default:
		return false
	}
}

// ElementTypeOf returns the scalar element type of an array type. On a
// non-array type it returns the input unchanged (total function).
func ElementTypeOf(t Type) Type {
	switch t {
	case NumberArray:
		return Number
	case StringArray:
		return String
	case IPAddressArray:
		return IPAddress
	case CidrArray:
		return Cidr
	default:
		return t
	}
}

// ArrayTypeOf is the inverse of ElementTypeOf for the four supported
// element types; it panics on any other input, since the array-type family
// is closed by construction (used only by code that already validated the
// element type).
func ArrayTypeOf(elem Type) Type {
	switch elem {
	case Number:
		return NumberArray
	case String:
		return StringArray
	case IPAddress:
		return IPAddressArray
	case Cidr:
		return CidrArray
	default:
		panic(fmt.Sprintf("literal: %s has no array specialization", elem))
	}
}

// Code is the single-character signature code for a Type, per the grammar
// in spec.md 6: uppercase primitives, lowercase array of primitive, 'V'
// void, 'a' int-pair.
func (t Type) Code() byte {
	switch t {
	case Void:
		return 'V'
	case Boolean:
		return 'B'
	case Number:
		return 'I'
	case String:
		return 'S'
	case IPAddress:
		return 'P'
	case Cidr:
		return 'C'
	case RegExp:
		return 'R'
	case Handler:
		return 'H'
	case NumberArray:
		return 'i'
	case StringArray:
		return 's'
	case IPAddressArray:
		return 'p'
	case CidrArray:
		return 'c'
	case IntPair:
		return 'a'
	default:
		panic(fmt.Sprintf("literal: no signature code for %s", t))
	}
}

// TypeFromCode is the inverse of Code; ok is false for any byte outside the
// grammar.
func TypeFromCode(c byte) (Type, bool) {
	switch c {
	case 'V':
		return Void, true
	case 'B':
		return Boolean, true
	case 'I':
		return Number, true
	case 'S':
		return String, true
	case 'P':
		return IPAddress, true
	case 'C':
		return Cidr, true
	case 'R':
		return RegExp, true
	case 'H':
		return Handler, true
	case 'i':
		return NumberArray, true
	case 's':
		return StringArray, true
	case 'p':
		return IPAddressArray, true
	case 'c':
		return CidrArray, true
	case 'a':
		return IntPair, true
	default:
		return 0, false
	}
}
