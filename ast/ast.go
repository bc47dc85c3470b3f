// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the type checker and IR lowering pass.
package ast

import "github.com/skx/navi/token"

// Type is one of the closed set of Navi types: the four scalars and
// their four array counterparts.
type Type string

// The complete, closed set of Navi types.
const (
	Int    Type = "int"
	Float  Type = "float"
	String Type = "string"
	Bool   Type = "bool"

	IntArray    Type = "int[]"
	FloatArray  Type = "float[]"
	StringArray Type = "string[]"
	BoolArray   Type = "bool[]"
)

// IsArray reports whether t is one of the four array types.
func (t Type) IsArray() bool {
	switch t {
	case IntArray, FloatArray, StringArray, BoolArray:
		return true
	}
	return false
}

// ElementType returns the scalar element type of an array type. Calling
// it on a non-array type is a programmer error - checked by callers.
func (t Type) ElementType() Type {
	switch t {
	case IntArray:
		return Int
	case FloatArray:
		return Float
	case StringArray:
		return String
	case BoolArray:
		return Bool
	}
	return ""
}

// ArrayOf returns the array type for a scalar element type.
func ArrayOf(elem Type) Type {
	switch elem {
	case Int:
		return IntArray
	case Float:
		return FloatArray
	case String:
		return StringArray
	case Bool:
		return BoolArray
	}
	return ""
}

// Node is the base interface satisfied by every AST node.
type Node interface {
	TokenLiteral() string
}

// Statement is a node which can appear in a function body.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node which produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered list of function declarations.
type Program struct {
	Functions []*Function
}

// TokenLiteral satisfies Node.
func (p *Program) TokenLiteral() string {
	if len(p.Functions) > 0 {
		return p.Functions[0].TokenLiteral()
	}
	return ""
}

// Parameter is a single function-parameter declaration: name + type.
type Parameter struct {
	Token token.Token // the parameter's name token
	Name  string
	Type  Type
}

// Function is a top-level function declaration.
type Function struct {
	Token      token.Token // the `func` token
	Name       string
	Parameters []*Parameter
	ReturnType *Type // nil if the function returns nothing
	Body       *Block
}

// TokenLiteral satisfies Node.
func (f *Function) TokenLiteral() string { return f.Token.Literal }

// Block is an ordered list of statements.
type Block struct {
	Token      token.Token // the `{` token
	Statements []Statement
}

// TokenLiteral satisfies Node.
func (b *Block) TokenLiteral() string { return b.Token.Literal }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// LetStatement declares a new local variable: `let [mut] name[: type] = value;`
type LetStatement struct {
	Token       token.Token // the `let` token
	Name        string
	Declared    *Type // nil if no type annotation was given
	Mutable     bool
	Initializer Expression
}

func (l *LetStatement) statementNode()       {}
func (l *LetStatement) TokenLiteral() string { return l.Token.Literal }

// AssignmentStatement assigns a new value to an existing mutable variable.
type AssignmentStatement struct {
	Token token.Token // the `=` token
	Name  string
	Value Expression
}

func (a *AssignmentStatement) statementNode()       {}
func (a *AssignmentStatement) TokenLiteral() string { return a.Token.Literal }

// ReturnStatement returns (optionally with a value) from the enclosing function.
type ReturnStatement struct {
	Token token.Token // the `return` token
	Value Expression  // nil for a bare `return;`
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }

// ExpressionStatement is an expression evaluated for effect, its value discarded.
type ExpressionStatement struct {
	Token token.Token // the first token of the expression
	Value Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }

// IfStatement is a conditional with an optional else branch. An
// `else if` chain is represented as an Else block containing a single
// nested IfStatement.
type IfStatement struct {
	Token     token.Token // the `if` token
	Condition Expression
	Then      *Block
	Else      *Block // nil if there is no else branch
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }

// ForStatement is a numeric range loop: `for v in start..end { ... }`
// or `for v in start..=end { ... }`.
type ForStatement struct {
	Token     token.Token // the `for` token
	Var       string
	Start     Expression
	End       Expression
	Inclusive bool
	Body      *Block
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// IntegerLiteral is a signed integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (i *IntegerLiteral) expressionNode()      {}
func (i *IntegerLiteral) TokenLiteral() string { return i.Token.Literal }

// FloatLiteral is a 64-bit floating point constant.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (f *FloatLiteral) expressionNode()      {}
func (f *FloatLiteral) TokenLiteral() string { return f.Token.Literal }

// StringLiteral is a byte-string constant.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }

// Identifier references a variable by name.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }

// BinaryOp is the operator kind of a BinaryExpression.
type BinaryOp string

// The full set of binary operators Navi supports.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpEq  BinaryOp = "=="
	OpNeq BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpGt  BinaryOp = ">"
	OpLte BinaryOp = "<="
	OpGte BinaryOp = ">="
)

// BinaryExpression is a two-operand operator application.
type BinaryExpression struct {
	Token token.Token // the operator token
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }

// CallExpression invokes a named function (or the built-in `print`)
// with an ordered list of argument expressions.
type CallExpression struct {
	Token    token.Token // the `(` token
	Function string
	Args     []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Token    token.Token // the `[` token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }

// IndexExpression is `object[index]`.
type IndexExpression struct {
	Token token.Token // the `[` token
	Left  Expression
	Index Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
