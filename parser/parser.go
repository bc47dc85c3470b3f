// Package parser implements a recursive-descent, precedence-climbing
// parser turning a token stream into an *ast.Program.
package parser

import (
	"fmt"
	"strconv"

	"github.com/skx/navi/ast"
	"github.com/skx/navi/lexer"
	"github.com/skx/navi/token"
)

// Parser holds our object-state.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string
}

// New creates a new Parser, consuming tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// prime curToken/peekToken
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns every parse error accumulated while the program was
// being parsed.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) expectedError(want token.Type) {
	p.errorf("expected %s, found %s", want, p.curToken.Type)
}

// curIs / peekIs are small readability helpers used throughout.
func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

// expect checks that curToken is of type t; if so it advances and
// returns true, otherwise it records an error and returns false.
func (p *Parser) expect(t token.Type) bool {
	if !p.curIs(t) {
		p.expectedError(t)
		return false
	}
	p.nextToken()
	return true
}

// ParseProgram parses a whole Navi source file into an *ast.Program.
func ParseProgram(input string) (*ast.Program, []string) {
	p := New(lexer.New(input))
	prog := p.parseProgram()
	return prog, p.errors
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curIs(token.EOF) {
		if !p.curIs(token.FUNC) {
			p.expectedError(token.FUNC)
			// Skip the offending token so we can keep looking for
			// further errors instead of spinning forever.
			p.nextToken()
			continue
		}
		fn := p.parseFunction()
		if fn != nil {
			prog.Functions = append(prog.Functions, fn)
		}
	}
	return prog
}

func (p *Parser) parseFunction() *ast.Function {
	fn := &ast.Function{Token: p.curToken}

	if !p.expect(token.FUNC) {
		return nil
	}

	if !p.curIs(token.IDENT) {
		p.expectedError(token.IDENT)
		return nil
	}
	fn.Name = p.curToken.Literal
	p.nextToken()

	if !p.expect(token.LPAREN) {
		return nil
	}

	for !p.curIs(token.RPAREN) {
		if !p.curIs(token.IDENT) {
			p.expectedError(token.IDENT)
			return nil
		}
		param := &ast.Parameter{Token: p.curToken, Name: p.curToken.Literal}
		p.nextToken()

		if !p.expect(token.COLON) {
			return nil
		}

		typ, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		param.Type = typ
		fn.Parameters = append(fn.Parameters, param)

		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expect(token.RPAREN) {
		return nil
	}

	if p.curIs(token.ARROW) {
		p.nextToken()
		typ, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		fn.ReturnType = &typ
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn.Body = body
	return fn
}

func (p *Parser) parseTypeName() (ast.Type, bool) {
	var base ast.Type
	switch p.curToken.Type {
	case token.INT_TYPE:
		base = ast.Int
	case token.FLOAT_TYPE:
		base = ast.Float
	case token.STRING_TYPE:
		base = ast.String
	case token.BOOL_TYPE:
		base = ast.Bool
	default:
		p.errorf("expected a type name, found %s", p.curToken.Type)
		return "", false
	}
	p.nextToken()

	if p.curIs(token.LBRACKET) {
		p.nextToken()
		if !p.expect(token.RBRACKET) {
			return "", false
		}
		return ast.ArrayOf(base), true
	}
	return base, true
}

// parseBlock parses a `{ stmt* }` block. curToken must be `{`.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	if !p.expect(token.LBRACE) {
		return nil
	}

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
	}

	if !p.expect(token.RBRACE) {
		return nil
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.IDENT:
		if p.peekIs(token.ASSIGN) {
			return p.parseAssignmentStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}
	p.nextToken() // consume `let`

	if p.curIs(token.MUT) {
		stmt.Mutable = true
		p.nextToken()
	}

	if !p.curIs(token.IDENT) {
		p.expectedError(token.IDENT)
		return nil
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()

	if p.curIs(token.COLON) {
		p.nextToken()
		typ, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		stmt.Declared = &typ
	}

	if !p.expect(token.ASSIGN) {
		return nil
	}

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	stmt.Initializer = value

	if !p.expect(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseAssignmentStatement() ast.Statement {
	stmt := &ast.AssignmentStatement{Token: p.peekToken, Name: p.curToken.Literal}
	p.nextToken() // consume identifier
	if !p.expect(token.ASSIGN) {
		return nil
	}

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	stmt.Value = value

	if !p.expect(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken() // consume `return`

	if !p.curIs(token.SEMICOLON) {
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		stmt.Value = value
	}

	if !p.expect(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	stmt.Value = value

	if !p.expect(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken() // consume `if`

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	stmt.Condition = cond

	then := p.parseBlock()
	if then == nil {
		return nil
	}
	stmt.Then = then

	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.curIs(token.IF) {
			// else-if: represented as a block containing one nested If.
			nested := p.parseIfStatement()
			if nested == nil {
				return nil
			}
			nestedIf, ok := nested.(*ast.IfStatement)
			if !ok {
				return nil
			}
			stmt.Else = &ast.Block{Token: nestedIf.Token, Statements: []ast.Statement{nested}}
		} else {
			els := p.parseBlock()
			if els == nil {
				return nil
			}
			stmt.Else = els
		}
	}
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	p.nextToken() // consume `for`

	if !p.curIs(token.IDENT) {
		p.expectedError(token.IDENT)
		return nil
	}
	stmt.Var = p.curToken.Literal
	p.nextToken()

	if !p.expect(token.IN) {
		return nil
	}

	start := p.parseExpression(LOWEST)
	if start == nil {
		return nil
	}
	stmt.Start = start

	switch p.curToken.Type {
	case token.RANGE:
		stmt.Inclusive = false
	case token.RANGE_EQ:
		stmt.Inclusive = true
	default:
		p.errorf("expected %s or %s, found %s", token.RANGE, token.RANGE_EQ, p.curToken.Type)
		return nil
	}
	p.nextToken()

	end := p.parseExpression(LOWEST)
	if end == nil {
		return nil
	}
	stmt.End = end

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	stmt.Body = body
	return stmt
}

// ---------------------------------------------------------------------
// Expressions: precedence climbing.
//
// Lowest to highest: comparison, additive, multiplicative, primary.
// ---------------------------------------------------------------------

// precedence levels.
const (
	LOWEST = iota
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
)

var precedences = map[token.Type]int{
	token.EQ:     COMPARISON,
	token.NOT_EQ: COMPARISON,
	token.LT:     COMPARISON,
	token.GT:     COMPARISON,
	token.LT_EQ:  COMPARISON,
	token.GT_EQ:  COMPARISON,

	token.PLUS:  ADDITIVE,
	token.MINUS: ADDITIVE,

	token.ASTERISK: MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.EQ:       ast.OpEq,
	token.NOT_EQ:   ast.OpNeq,
	token.LT:       ast.OpLt,
	token.GT:       ast.OpGt,
	token.LT_EQ:    ast.OpLte,
	token.GT_EQ:    ast.OpGte,
}

func (p *Parser) parseExpression(minPrecedence int) ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for !p.curIs(token.SEMICOLON) && minPrecedence < p.currentOpPrecedence() {
		op, ok := binaryOps[p.curToken.Type]
		if !ok {
			return left
		}
		tok := p.curToken
		prec := precedences[tok.Type]
		p.nextToken()

		right := p.parseExpression(prec)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpression{Token: tok, Op: op, Left: left, Right: right}
	}
	return left
}

// currentOpPrecedence returns the precedence of curToken (LOWEST if it
// is not a binary operator), since parseExpression's loop condition
// checks the *current* token (the operator) rather than the
// not-yet-consumed peek token.
func (p *Parser) currentOpPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parsePrimary() ast.Expression {
	var expr ast.Expression

	switch p.curToken.Type {
	case token.INT:
		expr = p.parseIntegerLiteral()
	case token.FLOAT:
		expr = p.parseFloatLiteral()
	case token.STRING:
		expr = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
	case token.TRUE, token.FALSE:
		expr = &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Type == token.TRUE}
		p.nextToken()
	case token.LPAREN:
		p.nextToken()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		expr = inner
	case token.LBRACKET:
		expr = p.parseArrayLiteral()
	case token.IDENT:
		expr = p.parseIdentifierOrCall()
	default:
		p.errorf("unexpected token in expression: %s", p.curToken.Type)
		return nil
	}

	if expr == nil {
		return nil
	}

	// Postfix: indexing may chain, e.g. `matrix[i][j]` - not required by
	// the grammar but falls out naturally and costs nothing.
	for p.curIs(token.LBRACKET) {
		tok := p.curToken
		p.nextToken()
		idx := p.parseExpression(LOWEST)
		if idx == nil {
			return nil
		}
		if !p.expect(token.RBRACKET) {
			return nil
		}
		expr = &ast.IndexExpression{Token: tok, Left: expr, Index: idx}
	}

	return expr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	val, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	lit.Value = val
	p.nextToken()
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	val, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.curToken.Literal)
		return nil
	}
	lit.Value = val
	p.nextToken()
	return lit
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{Token: p.curToken}
	p.nextToken() // consume `[`

	for !p.curIs(token.RBRACKET) {
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		lit.Elements = append(lit.Elements, el)

		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expect(token.RBRACKET) {
		return nil
	}
	return lit
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken()

	if !p.curIs(token.LPAREN) {
		return &ast.Identifier{Token: tok, Name: name}
	}

	call := &ast.CallExpression{Token: p.curToken, Function: name}
	p.nextToken() // consume `(`

	for !p.curIs(token.RPAREN) {
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)

		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expect(token.RPAREN) {
		return nil
	}
	return call
}
