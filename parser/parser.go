// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A Recursive descent parser is a top-down parser because it starts from the
// top grammar rule and works its way down into the nested sub-expressions
// before reaching the leaves of the syntax tree (terminal rules).
//
// By the time the parser sees a token stream, it has already passed through
// the lexer and the resolve package's two passes: every identifier naming a
// registered type has become a TYPE token, and every `list [ Type ]` run has
// collapsed into a single TYPE token referencing an interned list type. The
// parser therefore never itself recognises `list [ ... ]`; it dispatches on
// TYPE tokens and asks the registry what variant they name.
package parser

import (
	"fmt"

	"tapl/ast"
	"tapl/source"
	"tapl/token"
	"tapl/types"
)

var relationalOperators = []token.Kind{
	token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
	token.EQUAL_EQUAL, token.NOT_EQUAL,
}

var additiveOperators = []token.Kind{token.PLUS, token.MINUS}
var multiplicativeOperators = []token.Kind{token.STAR, token.SLASH}

var compoundAssignOperators = map[token.Kind]token.Kind{
	token.PLUS_EQUAL:  token.PLUS,
	token.MINUS_EQUAL: token.MINUS,
	token.STAR_EQUAL:  token.STAR,
	token.SLASH_EQUAL: token.SLASH,
}

// Parser is a recursive-descent parser over the rewritten token stream
// produced by the lexer and the resolve package. Its position is always
// one unit ahead of the current token, matching the teacher's convention.
type Parser struct {
	tokens   []token.Token
	position int

	// funcDepth counts how many function/method/lifecycle bodies the
	// parser is currently nested inside. returnStatement consults it
	// directly rather than threading a permission flag through every
	// statement-parsing method, and functionBody saves/restores it so
	// the permission nests correctly around nested function bodies.
	funcDepth int
}

// Make returns a new Parser over tokens, which must already have been
// through resolve.Classes and resolve.Apply.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

// Parse parses the entire token stream into an *ast.Ast, continuing
// until EOF. Errors are collected, not fast-failed: after a SyntaxError
// the parser resynchronizes at the next NEWLINE/DEDENT and keeps going,
// matching spec.md §5's fail-soft rule for this pass.
func (p *Parser) Parse(filename string) (*ast.Ast, []error) {
	statements := []ast.Stmt{}
	var errs []error

	p.skipBlankLines()
	for !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.skipBlankLines()
	}

	return &ast.Ast{Filename: filename, Statements: statements}, errs
}

// --- low-level cursor helpers, mirroring the teacher's idiom ---

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) peekAt(offset int) (token.Token, bool) {
	i := p.position + offset
	if i >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[i], true
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) checkKind(kind token.Kind) bool {
	if p.isFinished() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) isMatch(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.checkKind(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.checkKind(kind) {
		return p.advance(), nil
	}
	current := p.peek()
	return token.Token{}, CreateSyntaxError(current.Span, fmt.Sprintf("%s (found %s)", message, current.Kind))
}

// skipBlankLines consumes stray NEWLINEs between statements; the lexer
// already collapses most redundant ones, but a blank line at a fresh
// indent level can still surface one here.
func (p *Parser) skipBlankLines() {
	for p.checkKind(token.NEWLINE) {
		p.advance()
	}
}

// endOfStatement consumes the NEWLINE (or EOF) that terminates a simple
// statement.
func (p *Parser) endOfStatement() error {
	if p.isFinished() {
		return nil
	}
	if _, err := p.consume(token.NEWLINE, "expected end of line"); err != nil {
		return err
	}
	return nil
}

// synchronize discards tokens until the start of what looks like the
// next statement, so one malformed statement doesn't prevent every
// later one from being reported too.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isFinished() {
		if p.previous().Kind == token.NEWLINE || p.previous().Kind == token.DEDENT {
			return
		}
		p.advance()
	}
}

// typeOf extracts the *types.Type a TYPE token refers to.
func typeOf(tok token.Token) *types.Type {
	t, _ := tok.TypeRef.(*types.Type)
	return t
}

// --- block / suite parsing ---

// block parses `: NEWLINE INDENT stmt* DEDENT`, the body of any
// compound statement (if/for/while/function/class/lifecycle blocks).
func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(token.COLON, "expected ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.NEWLINE, "expected a new line after ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.INDENT, "expected an indented block"); err != nil {
		return nil, err
	}

	statements := []ast.Stmt{}
	p.skipBlankLines()
	for !p.checkKind(token.DEDENT) && !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.skipBlankLines()
	}

	if _, err := p.consume(token.DEDENT, "expected the block to end"); err != nil {
		return nil, err
	}
	return statements, nil
}

// --- statement dispatch ---

// declaration parses one top-level-or-block statement, dispatching on
// the leading token(s) per spec.md §4.4's statement-form table.
func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.checkKind(token.TYPE):
		return p.typeLedStatement()
	case p.checkKind(token.CLASS):
		return p.classDeclaration()
	case p.checkKind(token.IF):
		return p.ifStatement()
	case p.checkKind(token.FOR):
		return p.forStatement()
	case p.checkKind(token.WHILE):
		return p.whileStatement()
	case p.checkKind(token.PRINT), p.checkKind(token.PRINTLN):
		return p.printStatement()
	case p.checkKind(token.RETURN):
		return p.returnStatement()
	case p.checkKind(token.BREAK):
		return p.breakStatement()
	case p.checkKind(token.CONTINUE):
		return p.continueStatement()
	case p.checkKind(token.BREAKALL):
		return p.breakallStatement()
	default:
		return p.assignmentOrExpressionStatement()
	}
}

// typeLedStatement resolves the ambiguity between a function
// declaration, a list declaration, and a plain variable declaration,
// all of which begin with a TYPE token.
func (p *Parser) typeLedStatement() (ast.Stmt, error) {
	start := p.peek().Span
	declaredType := typeOf(p.advance())

	name, err := p.consume(token.IDENTIFIER, "expected a name after the type")
	if err != nil {
		return nil, err
	}

	if p.checkKind(token.LPAREN) {
		return p.functionBody(declaredType, name.Text, start)
	}

	var initial ast.Expression
	if p.isMatch(token.ASSIGN) {
		initial, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}

	span := start.Merge(name.Span)
	if declaredType != nil && declaredType.Variant == types.VariantList {
		return &ast.List{ElementType: declaredType.Element, Name: name.Text, Sp: span}, nil
	}
	return &ast.VarDecl{Type: declaredType, Name: name.Text, Initial: initial, Sp: span}, nil
}

// functionBody parses the `( params ) :` tail shared by free functions,
// methods, and (with an empty/ignored returnType) lifecycle blocks.
func (p *Parser) functionBody(returnType *types.Type, name string, start source.Span) (*ast.Function, error) {
	if _, err := p.consume(token.LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	p.funcDepth++
	body, err := p.block()
	p.funcDepth--
	if err != nil {
		return nil, err
	}
	return &ast.Function{ReturnType: returnType, Name: name, Params: params, Body: body, Sp: start}, nil
}

func (p *Parser) paramList() ([]ast.Param, error) {
	params := []ast.Param{}
	if !p.checkKind(token.RPAREN) {
		for {
			typeTok, err := p.consume(token.TYPE, "expected a parameter type")
			if err != nil {
				return nil, err
			}
			nameTok, err := p.consume(token.IDENTIFIER, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Type: typeOf(typeTok), Name: nameTok.Text})
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

// classDeclaration parses `class Name: body`, where body is a mix of
// field declarations, method declarations, and at most one constructor
// and one destructor lifecycle block.
func (p *Parser) classDeclaration() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'class'

	nameTok, err := p.consume(token.TYPE, "expected a class name")
	if err != nil {
		return nil, err
	}
	classType := typeOf(nameTok)
	className := nameTok.Text
	if classType != nil {
		className = classType.ClassName
	}

	if _, err := p.consume(token.COLON, "expected ':' after class name"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.NEWLINE, "expected a new line after ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.INDENT, "expected an indented class body"); err != nil {
		return nil, err
	}

	class := &ast.Class{Name: className, Sp: start}
	p.skipBlankLines()
	for !p.checkKind(token.DEDENT) && !p.isFinished() {
		if err := p.classMember(class, className); err != nil {
			return nil, err
		}
		p.skipBlankLines()
	}

	if _, err := p.consume(token.DEDENT, "expected the class body to end"); err != nil {
		return nil, err
	}
	return class, nil
}

// classMember parses one field, method, constructor, or destructor and
// appends it to class.
func (p *Parser) classMember(class *ast.Class, className string) error {
	memberStart := p.peek().Span

	if p.isMatch(token.TILDE) {
		nameTok, err := p.consume(token.TYPE, "expected the class name after '~'")
		if err != nil {
			return err
		}
		fn, err := p.functionBody(nil, "~"+nameTok.Text, memberStart)
		if err != nil {
			return err
		}
		class.Dtor = fn
		return nil
	}

	typeTok, err := p.consume(token.TYPE, "expected a field or method type")
	if err != nil {
		return err
	}
	declaredType := typeOf(typeTok)

	// a constructor looks like `ClassName(args):`: the TYPE token names
	// the class itself and is immediately followed by '(', with no
	// separate identifier in between.
	if declaredType != nil && declaredType.ClassName == className && p.checkKind(token.LPAREN) {
		fn, err := p.functionBody(declaredType, className, memberStart)
		if err != nil {
			return err
		}
		class.Ctor = fn
		return nil
	}

	name, err := p.consume(token.IDENTIFIER, "expected a field or method name")
	if err != nil {
		return err
	}

	if p.checkKind(token.LPAREN) {
		fn, err := p.functionBody(declaredType, name.Text, memberStart)
		if err != nil {
			return err
		}
		class.Methods = append(class.Methods, fn)
		return nil
	}

	var initial ast.Expression
	if p.isMatch(token.ASSIGN) {
		initial, err = p.expression()
		if err != nil {
			return err
		}
	}
	if err := p.endOfStatement(); err != nil {
		return err
	}
	class.Fields = append(class.Fields, &ast.VarDecl{
		Type: declaredType, Name: name.Text, Initial: initial, Sp: memberStart.Merge(name.Span),
	})
	return nil
}

// ifStatement parses an if/else-if*/else? chain.
func (p *Parser) ifStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'if'

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Cond: cond, Then: then, Sp: start}
	for p.checkKind(token.ELSE) {
		next, ok := p.peekAt(1)
		if !ok || next.Kind != token.IF {
			break
		}
		p.advance() // 'else'
		p.advance() // 'if'
		elifCond, err := p.expression()
		if err != nil {
			return nil, err
		}
		elifThen, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElseIf{Cond: elifCond, Then: elifThen})
	}
	if p.isMatch(token.ELSE) {
		elseBody, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}
	return stmt, nil
}

// forStatement parses a C-style `for (init; check; step):` loop.
func (p *Parser) forStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'for'

	if _, err := p.consume(token.LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if !p.checkKind(token.SEMICOLON) {
		var err error
		init, err = p.forClauseInit()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after the loop initializer"); err != nil {
		return nil, err
	}

	var check ast.Expression
	if !p.checkKind(token.SEMICOLON) {
		var err error
		check, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after the loop condition"); err != nil {
		return nil, err
	}

	var step ast.Expression
	if !p.checkKind(token.RPAREN) {
		var err error
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after the loop clauses"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ForLoop{Init: init, Check: check, Step: step, Body: body, Sp: start}, nil
}

// forClauseInit parses the loop-header initializer, which is either a
// type-led variable declaration or a bare assignment, without
// consuming the trailing ';' (endOfStatement is for NEWLINE-terminated
// statements, not this one).
func (p *Parser) forClauseInit() (ast.Stmt, error) {
	start := p.peek().Span
	if p.checkKind(token.TYPE) {
		declaredType := typeOf(p.advance())
		name, err := p.consume(token.IDENTIFIER, "expected a variable name")
		if err != nil {
			return nil, err
		}
		var initial ast.Expression
		if p.isMatch(token.ASSIGN) {
			initial, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		return &ast.VarDecl{Type: declaredType, Name: name.Text, Initial: initial, Sp: start.Merge(name.Span)}, nil
	}

	target, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN, "expected '=' in the loop initializer"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target, Value: value, Sp: start}, nil
}

// whileStatement desugars `while cond:` into a ForLoop with only Check
// populated, matching the teacher's practice of modeling while as a
// restricted for.
func (p *Parser) whileStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'while'

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ForLoop{Check: cond, Body: body, Sp: start}, nil
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	start := p.peek().Span
	newline := p.peek().Kind == token.PRINTLN
	p.advance()

	if _, err := p.consume(token.LPAREN, "expected '(' after print/println"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' to close print/println"); err != nil {
		return nil, err
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.Print{Value: value, Newline: newline, Sp: start}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'return'

	if p.funcDepth == 0 {
		return nil, CreateSyntaxError(start, "return outside function")
	}

	var value ast.Expression
	if !p.checkKind(token.NEWLINE) && !p.isFinished() {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.Return{Value: value, Sp: start}, nil
}

func (p *Parser) breakStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance()
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.Break{Sp: start}, nil
}

func (p *Parser) continueStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance()
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.Continue{Sp: start}, nil
}

// breakallStatement parses `breakall <depth>`, where depth is the
// number of enclosing loops (innermost first) to unwind out of. A bare
// `breakall` with no number breaks out of every enclosing loop, per
// the Open Question decision recorded in DESIGN.md.
func (p *Parser) breakallStatement() (ast.Stmt, error) {
	start := p.peek().Span
	p.advance() // 'breakall'

	label := "all"
	if p.checkKind(token.NUMBER) {
		numTok := p.advance()
		label = fmt.Sprintf("%d", numTok.Int)
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.Breakall{Label: label, Sp: start}, nil
}

// assignmentOrExpressionStatement covers every remaining statement
// form: `target = value`, a compound assignment, or a bare expression
// kept purely for its side effects (a call, an increment/decrement).
func (p *Parser) assignmentOrExpressionStatement() (ast.Stmt, error) {
	start := p.peek().Span
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.isMatch(token.ASSIGN) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: expr, Value: value, Sp: start}, nil
	}

	for compound, op := range compoundAssignOperators {
		if p.checkKind(compound) {
			p.advance()
			rhs, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.endOfStatement(); err != nil {
				return nil, err
			}
			desugared := &ast.Binary{Left: expr, Op: op, Right: rhs, Sp: start}
			return &ast.Assignment{Target: expr, Value: desugared, Sp: start}, nil
		}
	}

	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr, Sp: start}, nil
}

// --- expression grammar: logical or/and -> relational -> additive ->
// multiplicative -> unary -> postfix -> primary ---

func (p *Parser) expression() (ast.Expression, error) {
	return p.logicalOr()
}

func (p *Parser) logicalOr() (ast.Expression, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.checkKind(token.OR_OR) {
		op := p.advance()
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Kind, Right: right, Sp: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *Parser) logicalAnd() (ast.Expression, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.checkKind(token.AND_AND) {
		op := p.advance()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Kind, Right: right, Sp: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *Parser) relational() (ast.Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.matchesAny(relationalOperators) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Kind, Right: right, Sp: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *Parser) additive() (ast.Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.matchesAny(additiveOperators) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Kind, Right: right, Sp: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.matchesAny(multiplicativeOperators) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Kind, Right: right, Sp: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *Parser) matchesAny(kinds []token.Kind) bool {
	for _, kind := range kinds {
		if p.checkKind(kind) {
			return true
		}
	}
	return false
}

// unary parses prefix operators: !, -, ++, --, or a type cast
// `(Type) expr`, falling through to postfix for everything else.
func (p *Parser) unary() (ast.Expression, error) {
	start := p.peek().Span
	switch {
	case p.isMatch(token.BANG):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNot, Operand: operand, Sp: start.Merge(operand.Span())}, nil
	case p.isMatch(token.MINUS):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpNeg, Operand: operand, Sp: start.Merge(operand.Span())}, nil
	case p.isMatch(token.PLUS_PLUS):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpPreInc, Operand: operand, Sp: start.Merge(operand.Span())}, nil
	case p.isMatch(token.MINUS_MINUS):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpPreDec, Operand: operand, Sp: start.Merge(operand.Span())}, nil
	}

	if cast, ok, err := p.tryTypeCast(); err != nil {
		return nil, err
	} else if ok {
		return cast, nil
	}
	return p.postfix()
}

// tryTypeCast recognises the `(Type) expr` cast form, which shares its
// opening '(' with an ordinary grouped expression; it only commits once
// it has seen TYPE followed by ')'.
func (p *Parser) tryTypeCast() (ast.Expression, bool, error) {
	if !p.checkKind(token.LPAREN) {
		return nil, false, nil
	}
	typeTok, okType := p.peekAt(1)
	closeParen, okClose := p.peekAt(2)
	if !okType || !okClose || typeTok.Kind != token.TYPE || closeParen.Kind != token.RPAREN {
		return nil, false, nil
	}

	start := p.peek().Span
	p.advance() // '('
	p.advance() // TYPE
	p.advance() // ')'

	inner, err := p.unary()
	if err != nil {
		return nil, false, err
	}
	return &ast.TypeCast{Target: typeOf(typeTok), Inner: inner, Sp: start.Merge(inner.Span())}, true, nil
}

// postfix parses a primary expression followed by any number of
// post-increment/decrement operators.
func (p *Parser) postfix() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isMatch(token.PLUS_PLUS):
			expr = &ast.Unary{Op: ast.OpPostInc, Operand: expr, Sp: expr.Span().Merge(p.previous().Span)}
		case p.isMatch(token.MINUS_MINUS):
			expr = &ast.Unary{Op: ast.OpPostDec, Operand: expr, Sp: expr.Span().Merge(p.previous().Span)}
		default:
			return expr, nil
		}
	}
}

// primary parses the leaves of the expression grammar: literals,
// identifiers with their member-access/call chains, `this` chains,
// interpolated strings, and parenthesized groupings.
func (p *Parser) primary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER, token.CHARACTER, token.TRUE, token.FALSE, token.NULL:
		p.advance()
		return &ast.TokenExpr{Token: tok, Sp: tok.Span}, nil
	case token.STRING_START:
		return p.stringExpression()
	case token.THIS:
		return p.thisExpression()
	case token.IDENTIFIER:
		return p.identifierExpression()
	case token.LPAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		closeParen, err := p.consume(token.RPAREN, "expected ')' to close the expression")
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.OpGroup, Operand: inner, Sp: tok.Span.Merge(closeParen.Span)}, nil
	}
	return nil, CreateSyntaxError(tok.Span, fmt.Sprintf("unrecognized expression starting with %s", tok.Kind))
}

// identifierExpression parses a name, optionally a call `name(args)`,
// or a `.`-chained member-access/method-call sequence.
func (p *Parser) identifierExpression() (ast.Expression, error) {
	nameTok := p.advance()

	if p.checkKind(token.LPAREN) {
		return p.call(nameTok.Text, nameTok.Span)
	}

	root := &ast.Identifier{Name: nameTok.Text, Sp: nameTok.Span}
	tail, span, err := p.memberChain(nameTok.Span)
	if err != nil {
		return nil, err
	}
	root.Inner = tail
	root.Sp = span
	return root, nil
}

func (p *Parser) thisExpression() (ast.Expression, error) {
	tok := p.advance() // 'this'
	tail, span, err := p.memberChain(tok.Span)
	if err != nil {
		return nil, err
	}
	return &ast.This{Inner: tail, Sp: span}, nil
}

// memberChain parses zero or more `.name` / `.name(args)` accesses
// following a receiver (an identifier or `this`), returning the
// innermost Expression (nil if the chain is empty) and the merged span.
func (p *Parser) memberChain(span source.Span) (ast.Expression, source.Span, error) {
	if !p.checkKind(token.DOT) {
		return nil, span, nil
	}
	p.advance() // '.'
	memberTok, err := p.consume(token.IDENTIFIER, "expected a member name after '.'")
	if err != nil {
		return nil, span, err
	}

	if p.checkKind(token.LPAREN) {
		call, err := p.call(memberTok.Text, memberTok.Span)
		if err != nil {
			return nil, span, err
		}
		return call, span.Merge(call.Span()), nil
	}

	rest, restSpan, err := p.memberChain(memberTok.Span)
	if err != nil {
		return nil, span, err
	}
	member := &ast.Identifier{Name: memberTok.Text, Inner: rest, Sp: restSpan}
	return member, span.Merge(restSpan), nil
}

// call parses the `( args )` tail of a call expression whose callee
// name and starting span have already been consumed.
func (p *Parser) call(callee string, start source.Span) (ast.Expression, error) {
	p.advance() // '('
	args := []ast.Expression{}
	if !p.checkKind(token.RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	closeParen, err := p.consume(token.RPAREN, "expected ')' to close the call")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Args: args, Sp: start.Merge(closeParen.Span)}, nil
}

// stringExpression parses an interpolated string literal: STRING_START,
// alternating STRING_CHARS/bracketed-expression parts, then STRING_END.
func (p *Parser) stringExpression() (ast.Expression, error) {
	startTok, err := p.consume(token.STRING_START, "expected a string literal")
	if err != nil {
		return nil, err
	}

	var parts []ast.StringPart
	for {
		switch {
		case p.checkKind(token.STRING_CHARS):
			tok := p.advance()
			parts = append(parts, ast.StringPart{Literal: tok.Text})
		case p.isMatch(token.STRING_EXPR_START):
			inner, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.STRING_EXPR_END, "expected '}' to close the interpolated expression"); err != nil {
				return nil, err
			}
			parts = append(parts, ast.StringPart{Expr: inner})
		case p.checkKind(token.STRING_END):
			endTok := p.advance()
			return &ast.String{Parts: parts, Sp: startTok.Span.Merge(endTok.Span)}, nil
		default:
			current := p.peek()
			return nil, CreateSyntaxError(current.Span, fmt.Sprintf("unterminated string literal (found %s)", current.Kind))
		}
	}
}
