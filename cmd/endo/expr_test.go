package main

import "testing"

func TestParseArithmeticPrecedence(t *testing.T) {
	node, err := parseExpr("2 + 3 * 4")
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	add, ok := node.(*binExpr)
	if !ok || add.op != "+" {
		t.Fatalf("expected top-level +, got %#v", node)
	}
	if _, ok := add.rhs.(*binExpr); !ok {
		t.Fatalf("expected 3*4 to parse as the right operand of +")
	}
}

func TestParseIfThenElse(t *testing.T) {
	node, err := parseExpr(`if 1 < 2 then "yes" else "no"`)
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if _, ok := node.(*ifExpr); !ok {
		t.Fatalf("expected *ifExpr, got %#v", node)
	}
}

func TestParseRejectsUnknownBareIdentifier(t *testing.T) {
	if _, err := parseExpr("x + 1"); err == nil {
		t.Fatal("expected an error for a bare identifier with no call parens")
	}
}

func runExpr(t *testing.T, src string) string {
	t.Helper()
	prog, err := build(src)
	if err != nil {
		t.Fatalf("build(%q): %v", src, err)
	}
	handled, err := prog.Run("@main")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !handled {
		t.Fatalf("expected handled=true for %q", src)
	}
	return formatValue(prog.Globals().Get(0))
}

func TestEvalArithmetic(t *testing.T) {
	if got := runExpr(t, "2 + 3 * 4"); got != "14" {
		t.Errorf("2 + 3 * 4 = %s, want 14", got)
	}
}

func TestEvalIfThenElse(t *testing.T) {
	if got := runExpr(t, "if 1 < 2 then 10 else 20"); got != "10" {
		t.Errorf("if 1<2 then 10 else 20 = %s, want 10", got)
	}
	if got := runExpr(t, "if 1 > 2 then 10 else 20"); got != "20" {
		t.Errorf("if 1>2 then 10 else 20 = %s, want 20", got)
	}
}

func TestEvalNativeFunctionCalls(t *testing.T) {
	if got := runExpr(t, `len("hello")`); got != "5" {
		t.Errorf(`len("hello") = %s, want 5`, got)
	}
}

func TestEvalStringConcat(t *testing.T) {
	if got := runExpr(t, `"foo" + "bar"`); got != "foobar" {
		t.Errorf(`"foo"+"bar" = %s, want foobar`, got)
	}
}

func TestBuildReportsUnknownFunction(t *testing.T) {
	if _, err := build("nope()"); err == nil {
		t.Fatal("expected an error for an unregistered function")
	}
}
