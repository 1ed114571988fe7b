package main

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/pkg/endoapi"
)

// lowerer turns the REPL's demonstration AST into CoreVM IR through a
// pkg/endoapi.Builder, resolving calls against a fixed table of
// signatures the REPL has pre-registered with its Registry.
type lowerer struct {
	b    *endoapi.Builder
	sigs map[string]literal.Signature
}

func (low *lowerer) lower(n exprNode) (ir.ValueRef, error) {
	switch e := n.(type) {
	case *numLit:
		return low.b.Program().ConstInt(e.v), nil
	case *strLit:
		return low.b.Program().ConstString(e.v), nil
	case *unaryExpr:
		v, err := low.lower(e.v)
		if err != nil {
			return nil, err
		}
		if e.op == "-" {
			return low.b.CreateNumNeg(v), nil
		}
		return nil, fmt.Errorf("unsupported unary operator %q", e.op)
	case *binExpr:
		return low.lowerBin(e)
	case *ifExpr:
		return low.lowerIf(e)
	case *callExpr:
		return low.lowerCall(e)
	default:
		return nil, fmt.Errorf("internal error: unhandled node %T", n)
	}
}

func (low *lowerer) lowerBin(e *binExpr) (ir.ValueRef, error) {
	lhs, err := low.lower(e.lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := low.lower(e.rhs)
	if err != nil {
		return nil, err
	}

	numeric := lhs.Type() == literal.Number && rhs.Type() == literal.Number
	switch e.op {
	case "+":
		if !numeric {
			return low.b.CreateStrConcat(lhs, rhs), nil
		}
		return low.b.CreateNumAdd(lhs, rhs), nil
	case "-":
		return low.b.CreateNumSub(lhs, rhs), nil
	case "*":
		return low.b.CreateNumMul(lhs, rhs), nil
	case "/":
		return low.b.CreateNumDiv(lhs, rhs), nil
	case "==":
		if numeric {
			return low.b.CreateNumCmpEq(lhs, rhs), nil
		}
		return low.b.CreateStrCmpEq(lhs, rhs), nil
	case "!=":
		if numeric {
			return low.b.CreateNumCmpNe(lhs, rhs), nil
		}
		return low.b.CreateStrCmpNe(lhs, rhs), nil
	case "<":
		if numeric {
			return low.b.CreateNumCmpLt(lhs, rhs), nil
		}
		return low.b.CreateStrCmpLt(lhs, rhs), nil
	case "<=":
		if numeric {
			return low.b.CreateNumCmpLe(lhs, rhs), nil
		}
		return low.b.CreateStrCmpLe(lhs, rhs), nil
	case ">":
		if numeric {
			return low.b.CreateNumCmpGt(lhs, rhs), nil
		}
		return low.b.CreateStrCmpGt(lhs, rhs), nil
	case ">=":
		if numeric {
			return low.b.CreateNumCmpGe(lhs, rhs), nil
		}
		return low.b.CreateStrCmpGe(lhs, rhs), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", e.op)
	}
}

// truthy turns any value into a Boolean "is not the zero value of its
// type" test, the condition CreateCondBr needs.
func (low *lowerer) truthy(v ir.ValueRef) ir.ValueRef {
	prog := low.b.Program()
	switch v.Type() {
	case literal.Boolean:
		return v
	case literal.Number:
		return low.b.CreateNumCmpNe(v, prog.ConstInt(0))
	case literal.String:
		return low.b.CreateBoolNot(low.b.CreateStrIsEmpty(v))
	default:
		return prog.ConstBool(true)
	}
}

func (low *lowerer) lowerIf(e *ifExpr) (ir.ValueRef, error) {
	cond, err := low.lower(e.cond)
	if err != nil {
		return nil, err
	}
	cond = low.truthy(cond)

	thenBlock := low.b.NewBlock("then")
	elseBlock := low.b.NewBlock("else")
	mergeBlock := low.b.NewBlock("merge")
	low.b.CreateCondBr(cond, thenBlock, elseBlock)

	low.b.SetBlock(thenBlock)
	thenVal, err := low.lower(e.then)
	if err != nil {
		return nil, err
	}
	low.b.CreateBr(mergeBlock)

	low.b.SetBlock(elseBlock)
	elseVal, err := low.lower(e.els)
	if err != nil {
		return nil, err
	}
	low.b.CreateBr(mergeBlock)

	low.b.SetBlock(mergeBlock)
	if thenVal.Type() != elseVal.Type() {
		return nil, fmt.Errorf("if branches disagree on type: then is %v, else is %v", thenVal.Type(), elseVal.Type())
	}
	phi := low.b.CreatePhi(thenVal.Type())
	phi.AppendOperand(thenVal)
	phi.AppendOperand(elseVal)
	return phi, nil
}

func (low *lowerer) lowerCall(e *callExpr) (ir.ValueRef, error) {
	sig, ok := low.sigs[e.name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", e.name)
	}
	if len(e.args) != len(sig.Params) {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", e.name, len(sig.Params), len(e.args))
	}
	args := make([]ir.ValueRef, len(e.args))
	for i, a := range e.args {
		v, err := low.lower(a)
		if err != nil {
			return nil, err
		}
		if v.Type() != sig.Params[i] {
			return nil, fmt.Errorf("%s argument %d: expected %v, got %v", e.name, i+1, sig.Params[i], v.Type())
		}
		args[i] = v
	}
	return low.b.CreateCall(sig, args...), nil
}
