package parser

import (
	"testing"

	"github.com/skx/navi/ast"
)

func parseOK(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, errs := ParseProgram(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", input, errs)
	}
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	input := `func main() { let a = 10; let b = 20; print(a + b * 2); }`

	prog := parseOK(t, input)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}

	fn := prog.Functions[0]
	if fn.Name != "main" {
		t.Fatalf("expected function named main, got %s", fn.Name)
	}
	if len(fn.Body.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body.Statements))
	}

	let1, ok := fn.Body.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected LetStatement, got %T", fn.Body.Statements[0])
	}
	if let1.Name != "a" || let1.Mutable {
		t.Fatalf("unexpected let statement: %+v", let1)
	}

	exprStmt, ok := fn.Body.Statements[2].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", fn.Body.Statements[2])
	}
	call, ok := exprStmt.Value.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", exprStmt.Value)
	}
	if call.Function != "print" || len(call.Args) != 1 {
		t.Fatalf("unexpected call: %+v", call)
	}
	bin, ok := call.Args[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected BinaryExpression, got %T", call.Args[0])
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level op to be +, got %s (precedence not respected)", bin.Op)
	}
}

func TestParseFunctionWithParamsAndReturn(t *testing.T) {
	prog := parseOK(t, `func sq(x: int) -> int { return x * x; }`)

	fn := prog.Functions[0]
	if len(fn.Parameters) != 1 || fn.Parameters[0].Type != ast.Int {
		t.Fatalf("unexpected parameters: %+v", fn.Parameters)
	}
	if fn.ReturnType == nil || *fn.ReturnType != ast.Int {
		t.Fatalf("unexpected return type: %+v", fn.ReturnType)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseOK(t, `func main() { let x = 7; if x > 5 { print("big"); } else { print("small"); } }`)

	ifStmt, ok := prog.Functions[0].Body.Statements[1].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", prog.Functions[0].Body.Statements[1])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseElseIfChain(t *testing.T) {
	prog := parseOK(t, `func main() { if 1 > 0 { print(1); } else if 2 > 0 { print(2); } else { print(3); } }`)

	ifStmt := prog.Functions[0].Body.Statements[0].(*ast.IfStatement)
	if ifStmt.Else == nil || len(ifStmt.Else.Statements) != 1 {
		t.Fatalf("expected else branch to hold one nested if, got %+v", ifStmt.Else)
	}
	if _, ok := ifStmt.Else.Statements[0].(*ast.IfStatement); !ok {
		t.Fatalf("expected nested IfStatement in else-if chain")
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parseOK(t, `func main() { for i in 1..=4 { print(i); } }`)

	forStmt, ok := prog.Functions[0].Body.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", prog.Functions[0].Body.Statements[0])
	}
	if forStmt.Var != "i" || !forStmt.Inclusive {
		t.Fatalf("unexpected for statement: %+v", forStmt)
	}
}

func TestParseForLoopExclusive(t *testing.T) {
	prog := parseOK(t, `func main() { for i in 0..10 { print(i); } }`)
	forStmt := prog.Functions[0].Body.Statements[0].(*ast.ForStatement)
	if forStmt.Inclusive {
		t.Fatalf("expected exclusive range")
	}
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	prog := parseOK(t, `func main() { let xs = [10, 20, 30]; print(xs[0], xs[1], xs[2]); }`)

	let := prog.Functions[0].Body.Statements[0].(*ast.LetStatement)
	arr, ok := let.Initializer.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("unexpected array literal: %+v", let.Initializer)
	}

	call := prog.Functions[0].Body.Statements[1].(*ast.ExpressionStatement).Value.(*ast.CallExpression)
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 args to print, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*ast.IndexExpression); !ok {
		t.Fatalf("expected IndexExpression, got %T", call.Args[0])
	}
}

func TestParseAssignment(t *testing.T) {
	prog := parseOK(t, `func main() { let mut s = 0; s = s + 1; }`)
	let := prog.Functions[0].Body.Statements[0].(*ast.LetStatement)
	if !let.Mutable {
		t.Fatalf("expected mutable let")
	}
	assign, ok := prog.Functions[0].Body.Statements[1].(*ast.AssignmentStatement)
	if !ok {
		t.Fatalf("expected AssignmentStatement, got %T", prog.Functions[0].Body.Statements[1])
	}
	if assign.Name != "s" {
		t.Fatalf("unexpected assignment target: %s", assign.Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`func main() { let a = ; }`,
		`func main() { let a = 1 }`, // missing semicolon
		`func main() { 1 + ; }`,
		`let a = 1;`, // not starting with func
	}

	for _, input := range tests {
		_, errs := ParseProgram(input)
		if len(errs) == 0 {
			t.Errorf("expected parse error for %q, got none", input)
		}
	}
}

func TestParseDeclaredLetType(t *testing.T) {
	prog := parseOK(t, `func main() { let xs: int[] = [1, 2]; }`)
	let := prog.Functions[0].Body.Statements[0].(*ast.LetStatement)
	if let.Declared == nil || *let.Declared != ast.IntArray {
		t.Fatalf("expected declared type int[], got %+v", let.Declared)
	}
}
