package types

import (
	"testing"

	"github.com/skx/navi/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	prog, errs := parser.ParseProgram(src)
	require.Empty(t, errs, "source should parse cleanly: %s", src)
	return Check(prog)
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		`func main() { let a = 10; let b = 20; print(a + b * 2); }`,
		`func main() { let x = 7; if x > 5 { print("big"); } else { print("small"); } }`,
		`func main() { let mut s = 0; for i in 1..=4 { s = s + i; } print(s); }`,
		`func main() { let xs = [10, 20, 30]; print(xs[0], xs[1], xs[2]); }`,
		`func sq(x: int) -> int { return x * x; } func main() { print(sq(9)); }`,
		`func main() { let xs: int[] = []; print(xs); }`,
		`func main() { let f = 1.5; let g = 2.5; print(f + g); }`,
		`func greet() { print("hi"); } func main() { greet(); }`,
	}

	for _, src := range tests {
		err := checkSource(t, src)
		assert.NoError(t, err, "expected %q to type-check", src)
	}
}

// A void function call is only rejected as a sub-expression value, not
// in statement position where the result is discarded.
func TestVoidCallAllowedAsStatementButNotAsValue(t *testing.T) {
	err := checkSource(t, `func greet() { print("hi"); } func main() { greet(); }`)
	assert.NoError(t, err)

	err = checkSource(t, `func greet() { print("hi"); } func main() { let x = greet(); }`)
	assert.Error(t, err)
}

func TestInvalidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no main", `func foo() {}`},
		{"undeclared identifier", `func main() { print(x); }`},
		{"duplicate function", `func f() {} func f() {}`},
		{"assign to immutable", `func main() { let a = 1; a = 2; }`},
		{"assign to undeclared", `func main() { a = 2; }`},
		{"mismatched let type", `func main() { let a: float = 1; }`},
		{"mismatched return", `func f() -> int { return true; } func main() {}`},
		{"non-bool if condition", `func main() { if 1 { } }`},
		{"non-int for range", `func main() { for i in 1.0..2.0 { } }`},
		{"empty array without annotation", `func main() { let a = []; }`},
		{"wrong arity call", `func f(x: int) {} func main() { f(); }`},
		{"wrong arg type call", `func f(x: int) {} func main() { f(true); }`},
		{"index non array", `func main() { let a = 1; print(a[0]); }`},
		{"index with non int", `func main() { let a = [1]; print(a[true]); }`},
		{"print with no args", `func main() { print(); }`},
		{"print used as value", `func main() { let a = print(1); }`},
		{"call to undeclared function", `func main() { foo(); }`},
		{"mismatched array elements", `func main() { let a = [1, true]; }`},
		{"operator on bool", `func main() { let a = true + false; }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSource(t, tt.src)
			assert.Error(t, err, "expected an error for %q", tt.src)
		})
	}
}

func TestNestedScopesDoNotLeak(t *testing.T) {
	// A variable declared inside an if-branch must not be visible
	// afterwards.
	src := `func main() { if true { let a = 1; } print(a); }`
	err := checkSource(t, src)
	assert.Error(t, err)
}

func TestLoopVariableIsImmutableInt(t *testing.T) {
	src := `func main() { for i in 0..3 { i = 1; } }`
	err := checkSource(t, src)
	assert.Error(t, err, "loop variable must be immutable")
}
