// Package types implements Navi's type checker: a two-pass walk over
// the AST that resolves identifiers, infers let-binding types, checks
// call arity/types, and either accepts the program as well-typed or
// rejects it with a descriptive error. The AST is not annotated.
package types

import (
	"fmt"

	"github.com/skx/navi/ast"
)

// printableName is the built-in variadic sink every Navi program may
// call as a statement.
const printableName = "print"

// funcSignature is the {param types, return type} entry recorded for
// every declared function during signature collection.
type funcSignature struct {
	params     []ast.Type
	returnType *ast.Type
}

// symbol is a single variable binding: its type and whether it may be
// reassigned.
type symbol struct {
	typ     ast.Type
	mutable bool
}

// scope is one level of a variable symbol table: a simple map, with a
// pointer to the enclosing scope (nil for the outermost/function scope).
type scope struct {
	vars   map[string]symbol
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]symbol), parent: parent}
}

func (s *scope) declare(name string, typ ast.Type, mutable bool) {
	s.vars[name] = symbol{typ: typ, mutable: mutable}
}

func (s *scope) lookup(name string) (symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.vars[name]; ok {
			return sym, true
		}
	}
	return symbol{}, false
}

// Checker holds checker-wide state: the function table and the
// currently-open function's declared return type.
type Checker struct {
	functions map[string]funcSignature

	currentReturn *ast.Type
}

// New creates a fresh Checker.
func New() *Checker {
	return &Checker{functions: make(map[string]funcSignature)}
}

// Check runs both passes over prog, returning the first error found (if
// any). A nil error means prog is well-typed per spec.md's type rules.
func Check(prog *ast.Program) error {
	c := New()
	return c.check(prog)
}

func (c *Checker) check(prog *ast.Program) error {
	if err := c.collectSignatures(prog); err != nil {
		return err
	}

	if _, ok := c.functions["main"]; !ok {
		return fmt.Errorf("program has no main function")
	}

	for _, fn := range prog.Functions {
		if err := c.checkFunctionBody(fn); err != nil {
			return err
		}
	}
	return nil
}

// collectSignatures is type-checker pass 1: register every function's
// {param types, return type}, rejecting duplicate names.
func (c *Checker) collectSignatures(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if fn.Name == printableName {
			return fmt.Errorf("function %q shadows the built-in print", fn.Name)
		}
		if _, exists := c.functions[fn.Name]; exists {
			return fmt.Errorf("duplicate function declaration: %s", fn.Name)
		}

		sig := funcSignature{returnType: fn.ReturnType}
		for _, param := range fn.Parameters {
			sig.params = append(sig.params, param.Type)
		}
		c.functions[fn.Name] = sig
	}
	return nil
}

// checkFunctionBody is type-checker pass 2 for a single function: a
// fresh scope, parameters declared immutable, statements in order.
func (c *Checker) checkFunctionBody(fn *ast.Function) error {
	s := newScope(nil)
	for _, param := range fn.Parameters {
		s.declare(param.Name, param.Type, false)
	}

	c.currentReturn = fn.ReturnType
	for _, stmt := range fn.Body.Statements {
		if err := c.checkStatement(stmt, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement, s *scope) error {
	switch st := stmt.(type) {
	case *ast.LetStatement:
		return c.checkLet(st, s)
	case *ast.AssignmentStatement:
		return c.checkAssignment(st, s)
	case *ast.ReturnStatement:
		return c.checkReturn(st, s)
	case *ast.ExpressionStatement:
		return c.checkExpressionStatement(st, s)
	case *ast.IfStatement:
		return c.checkIf(st, s)
	case *ast.ForStatement:
		return c.checkFor(st, s)
	default:
		return fmt.Errorf("internal error: unknown statement type %T", stmt)
	}
}

func (c *Checker) checkLet(st *ast.LetStatement, s *scope) error {
	var inferred ast.Type
	var err error
	if arr, ok := st.Initializer.(*ast.ArrayLiteral); ok && len(arr.Elements) == 0 {
		if st.Declared == nil {
			return fmt.Errorf("let %s: empty array literal requires a type annotation", st.Name)
		}
		inferred = *st.Declared
	} else {
		inferred, err = c.inferExpr(st.Initializer, s)
		if err != nil {
			return err
		}
	}

	if st.Declared != nil && *st.Declared != inferred {
		return fmt.Errorf("let %s: declared type %s does not match inferred type %s", st.Name, *st.Declared, inferred)
	}

	s.declare(st.Name, inferred, st.Mutable)
	return nil
}

func (c *Checker) checkAssignment(st *ast.AssignmentStatement, s *scope) error {
	sym, ok := s.lookup(st.Name)
	if !ok {
		return fmt.Errorf("assignment to undeclared variable: %s", st.Name)
	}
	if !sym.mutable {
		return fmt.Errorf("cannot assign to immutable variable: %s", st.Name)
	}

	valType, err := c.inferExpr(st.Value, s)
	if err != nil {
		return err
	}
	if valType != sym.typ {
		return fmt.Errorf("assignment to %s: expected %s, got %s", st.Name, sym.typ, valType)
	}
	return nil
}

func (c *Checker) checkReturn(st *ast.ReturnStatement, s *scope) error {
	if st.Value == nil {
		if c.currentReturn != nil {
			return fmt.Errorf("return: expected a value of type %s", *c.currentReturn)
		}
		return nil
	}

	valType, err := c.inferExpr(st.Value, s)
	if err != nil {
		return err
	}
	if c.currentReturn == nil {
		return fmt.Errorf("return: function has no declared return type, but a value of type %s was returned", valType)
	}
	if valType != *c.currentReturn {
		return fmt.Errorf("return: expected %s, got %s", *c.currentReturn, valType)
	}
	return nil
}

func (c *Checker) checkExpressionStatement(st *ast.ExpressionStatement, s *scope) error {
	if call, ok := st.Value.(*ast.CallExpression); ok {
		if call.Function == printableName {
			return c.checkPrintCall(call, s)
		}
		// A call in statement position discards any return value, so
		// a void-returning function is allowed here even though
		// inferCall rejects it as a sub-expression - matching
		// original_source/src/typechecker/mod.rs's
		// check_expression_statement ("void function calls also
		// allowed").
		_, err := c.checkCallArgs(call, s)
		return err
	}
	_, err := c.inferExpr(st.Value, s)
	return err
}

func (c *Checker) checkPrintCall(call *ast.CallExpression, s *scope) error {
	if len(call.Args) == 0 {
		return fmt.Errorf("print: expected at least one argument")
	}
	for _, arg := range call.Args {
		if _, err := c.inferExpr(arg, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkIf(st *ast.IfStatement, s *scope) error {
	condType, err := c.inferExpr(st.Condition, s)
	if err != nil {
		return err
	}
	if condType != ast.Bool {
		return fmt.Errorf("if condition must be bool, got %s", condType)
	}

	thenScope := newScope(s)
	for _, stmt := range st.Then.Statements {
		if err := c.checkStatement(stmt, thenScope); err != nil {
			return err
		}
	}

	if st.Else != nil {
		elseScope := newScope(s)
		for _, stmt := range st.Else.Statements {
			if err := c.checkStatement(stmt, elseScope); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Checker) checkFor(st *ast.ForStatement, s *scope) error {
	startType, err := c.inferExpr(st.Start, s)
	if err != nil {
		return err
	}
	endType, err := c.inferExpr(st.End, s)
	if err != nil {
		return err
	}
	if startType != ast.Int || endType != ast.Int {
		return fmt.Errorf("for loop range must be int, got %s..%s", startType, endType)
	}

	loopScope := newScope(s)
	loopScope.declare(st.Var, ast.Int, false)

	for _, stmt := range st.Body.Statements {
		if err := c.checkStatement(stmt, loopScope); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func (c *Checker) inferExpr(expr ast.Expression, s *scope) (ast.Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return ast.Int, nil
	case *ast.FloatLiteral:
		return ast.Float, nil
	case *ast.StringLiteral:
		return ast.String, nil
	case *ast.BooleanLiteral:
		return ast.Bool, nil
	case *ast.Identifier:
		sym, ok := s.lookup(e.Name)
		if !ok {
			return "", fmt.Errorf("undeclared identifier: %s", e.Name)
		}
		return sym.typ, nil
	case *ast.BinaryExpression:
		return c.inferBinary(e, s)
	case *ast.CallExpression:
		return c.inferCall(e, s)
	case *ast.ArrayLiteral:
		return c.inferArrayLiteral(e, s)
	case *ast.IndexExpression:
		return c.inferIndex(e, s)
	default:
		return "", fmt.Errorf("internal error: unknown expression type %T", expr)
	}
}

func (c *Checker) inferBinary(e *ast.BinaryExpression, s *scope) (ast.Type, error) {
	left, err := c.inferExpr(e.Left, s)
	if err != nil {
		return "", err
	}
	right, err := c.inferExpr(e.Right, s)
	if err != nil {
		return "", err
	}
	if left != right {
		return "", fmt.Errorf("operator %s: mismatched operand types %s and %s", e.Op, left, right)
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if left != ast.Int && left != ast.Float {
			return "", fmt.Errorf("operator %s: operands must be int or float, got %s", e.Op, left)
		}
		return left, nil
	case ast.OpEq, ast.OpNeq:
		return ast.Bool, nil
	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		if left != ast.Int && left != ast.Float {
			return "", fmt.Errorf("operator %s: operands must be int or float, got %s", e.Op, left)
		}
		return ast.Bool, nil
	default:
		return "", fmt.Errorf("internal error: unknown operator %s", e.Op)
	}
}

// checkCallArgs validates that a call's target function is declared
// and its arguments match in arity and type, returning the callee's
// signature. Shared by inferCall (expression position, where a void
// return is rejected below) and checkExpressionStatement (statement
// position, where a void return is fine since the value is discarded).
func (c *Checker) checkCallArgs(e *ast.CallExpression, s *scope) (*funcSignature, error) {
	sig, ok := c.functions[e.Function]
	if !ok {
		return nil, fmt.Errorf("call to undeclared function: %s", e.Function)
	}
	if len(e.Args) != len(sig.params) {
		return nil, fmt.Errorf("call to %s: expected %d arguments, got %d", e.Function, len(sig.params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType, err := c.inferExpr(arg, s)
		if err != nil {
			return nil, err
		}
		if argType != sig.params[i] {
			return nil, fmt.Errorf("call to %s: argument %d expected %s, got %s", e.Function, i, sig.params[i], argType)
		}
	}
	return &sig, nil
}

func (c *Checker) inferCall(e *ast.CallExpression, s *scope) (ast.Type, error) {
	if e.Function == printableName {
		return "", fmt.Errorf("print has no value and cannot be used in an expression")
	}

	sig, err := c.checkCallArgs(e, s)
	if err != nil {
		return "", err
	}
	if sig.returnType == nil {
		return "", fmt.Errorf("call to %s: function has no return value and cannot be used in an expression", e.Function)
	}
	return *sig.returnType, nil
}

func (c *Checker) inferArrayLiteral(e *ast.ArrayLiteral, s *scope) (ast.Type, error) {
	if len(e.Elements) == 0 {
		return "", fmt.Errorf("empty array literal requires a type annotation")
	}
	first, err := c.inferExpr(e.Elements[0], s)
	if err != nil {
		return "", err
	}
	for i, el := range e.Elements[1:] {
		t, err := c.inferExpr(el, s)
		if err != nil {
			return "", err
		}
		if t != first {
			return "", fmt.Errorf("array literal: element %d has type %s, expected %s", i+1, t, first)
		}
	}
	return ast.ArrayOf(first), nil
}

func (c *Checker) inferIndex(e *ast.IndexExpression, s *scope) (ast.Type, error) {
	objType, err := c.inferExpr(e.Left, s)
	if err != nil {
		return "", err
	}
	if !objType.IsArray() {
		return "", fmt.Errorf("cannot index non-array type %s", objType)
	}
	idxType, err := c.inferExpr(e.Index, s)
	if err != nil {
		return "", err
	}
	if idxType != ast.Int {
		return "", fmt.Errorf("array index must be int, got %s", idxType)
	}
	return objType.ElementType(), nil
}
