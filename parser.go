// parser.go — recursive descent parser for Lox.
//
// Precedence, lowest to highest:
//
//	comma , ternary ?: , assignment = , or , and , == != , < <= > >= ,
//	+ - , * / , unary ! - , call/property , primary
//
// (assignment sits under ternary in the call graph because an assignment
// target must be recognized before '=' is consumed; call arguments and
// variable initializers parse at assignment level so ',' keeps meaning
// "next argument" inside argument lists.)
//
// On a syntax error the parser records a *ParseError and synchronizes to the
// next statement boundary — a ';' or a keyword that can begin a statement —
// so one pass reports every independent error. Any recorded error makes the
// parse a failure even though a partial statement list was built.
package lox

import "fmt"

// Parse scans and parses src into a statement list. The returned error slice
// contains every lexical and syntax error found; a non-empty slice means the
// statements must not be executed.
func Parse(src string) ([]Stmt, []error) {
	toks, errs := ScanTokens(src)
	p := &Parser{toks: toks, errs: errs}
	return p.Program(), p.errs
}

// Parser consumes a token sequence and produces statement nodes.
type Parser struct {
	toks      []Token
	i         int
	errs      []error
	loopDepth int
}

// NewParser creates a parser over an already-scanned token sequence, which
// must end with an EOF token.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Program parses top-level declarations until EOF.
func (p *Parser) Program() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
	}
	return stmts
}

// Errs returns every error recorded so far.
func (p *Parser) Errs() []error { return p.errs }

// ───────────────────────── token basics & helpers ─────────────────────────

func (p *Parser) atEnd() bool { return p.peek().Type == EOF }

func (p *Parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *Parser) prev() Token { return p.toks[p.i-1] }

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.i++
	}
	return p.prev()
}

// need consumes a token of the given type or fails with a recorded error.
func (p *Parser) need(tt TokenType, msg string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

// errAt records a *ParseError at tok and returns it for propagation.
func (p *Parser) errAt(tok Token, msg string) error {
	var e error
	if tok.Type == EOF {
		e = &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg + " (at end)"}
	} else {
		e = &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf("%s (at %q)", msg, tok.Lexeme)}
	}
	p.errs = append(p.errs, e)
	return e
}

// report records an error without failing the current production.
func (p *Parser) report(tok Token, msg string) { _ = p.errAt(tok, msg) }

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.advance().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN, BREAK:
			return
		}
	}
}

// ───────────────────────────── declarations ────────────────────────────────

func (p *Parser) declaration() Stmt {
	var st Stmt
	var err error
	switch {
	case p.match(CLASS):
		st, err = p.classDecl()
	case p.match(FUN):
		st, err = p.function("function")
	case p.match(VAR):
		st, err = p.varDecl()
	default:
		st, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return st
}

func (p *Parser) classDecl() (Stmt, error) {
	name, err := p.need(IDENT, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *VariableExpr
	if p.match(LESS) {
		superName, err := p.need(IDENT, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &VariableExpr{Name: superName}
	}

	if _, err := p.need(LBRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*FunStmt
	for !p.check(RBRACE) && !p.atEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m.(*FunStmt))
	}

	if _, err := p.need(RBRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) function(kind string) (Stmt, error) {
	name, err := p.need(IDENT, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []Token
	if !p.check(RPAREN) {
		for {
			if len(params) >= 255 {
				// Report but keep parsing the list.
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.need(IDENT, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.need(LBRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDecl() (Stmt, error) {
	name, err := p.need(IDENT, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.need(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

// ───────────────────────────── statements ──────────────────────────────────

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.printStmt()
	case p.match(LBRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(BREAK):
		return p.breakStmt()
	case p.match(RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RBRACE) && !p.atEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
	}
	if _, err := p.need(RBRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "Expect ')' after 'if' condition."); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// forStmt desugars "for (init; cond; incr) body" into blocks and a while
// loop; there is no dedicated AST node.
func (p *Parser) forStmt() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init, err = p.varDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr = &LiteralExpr{Value: true}
	if !p.check(SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(RPAREN) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RPAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: incr}}}
	}
	body = &WhileStmt{Condition: cond, Body: body}
	if init != nil {
		body = &BlockStmt{Statements: []Stmt{init, body}}
	}
	return body, nil
}

func (p *Parser) breakStmt() (Stmt, error) {
	keyword := p.prev()
	if _, err := p.need(SEMICOLON, "Expect ';' after 'break'."); err != nil {
		return nil, err
	}
	if p.loopDepth == 0 {
		p.report(keyword, "A 'break' cannot appear outside of any enclosing loop.")
	}
	return &BreakStmt{Keyword: keyword}, nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	keyword := p.prev()
	var value Expr
	var err error
	if !p.check(SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) exprStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expression: expr}, nil
}

// ───────────────────────────── expressions ─────────────────────────────────

func (p *Parser) expression() (Expr, error) {
	return p.comma()
}

// comma evaluates the left operand for side effects and yields the right.
func (p *Parser) comma() (Expr, error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(COMMA) {
		op := p.prev()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.match(ASSIGN) {
		equals := p.prev()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}, nil
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			// Not fatal: the produced expression is still usable for
			// further error discovery.
			p.report(equals, "Invalid assignment target.")
		}
	}
	return expr, nil
}

func (p *Parser) ternary() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(QUESTION) {
		thenExpr, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "Expect ':' to separate two expressions after '?'."); err != nil {
			return nil, err
		}
		elseExpr, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Cond: expr, Then: thenExpr, Else: elseExpr}, nil
	}
	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(BANG_EQ, EQ) {
		op := p.prev()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		op := p.prev()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.binaryOperand()
	if err != nil {
		return nil, err
	}
	for p.match(SLASH, STAR) {
		op := p.prev()
		right, err := p.binaryOperand()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

// binaryOperand is an error production: a binary operator with no left
// operand. The orphaned right operand is consumed at the operator's own
// precedence so recovery lands on something sensible.
func (p *Parser) binaryOperand() (Expr, error) {
	if p.match(COMMA, BANG_EQ, EQ, GREATER, GREATER_EQ, LESS, LESS_EQ, PLUS, SLASH, STAR) {
		op := p.prev()
		switch op.Type {
		case COMMA:
			_, _ = p.equality()
		case BANG_EQ, EQ:
			_, _ = p.comparison()
		case GREATER, GREATER_EQ, LESS, LESS_EQ:
			_, _ = p.term()
		case PLUS:
			_, _ = p.factor()
		case SLASH, STAR:
			_, _ = p.unary()
		}
		return nil, p.errAt(op, "Invalid use of binary operator, must be preceded by an expression.")
	}
	return p.unary()
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LPAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.need(IDENT, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RPAREN) {
		for {
			if len(args) >= 255 {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.need(RPAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: false}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: true}, nil
	case p.match(NIL):
		return &LiteralExpr{Value: nil}, nil
	case p.match(NUMBER, STRING):
		return &LiteralExpr{Value: p.prev().Literal}, nil
	case p.match(IDENT):
		return &VariableExpr{Name: p.prev()}, nil
	case p.match(THIS):
		return &ThisExpr{Keyword: p.prev()}, nil
	case p.match(SUPER):
		keyword := p.prev()
		if _, err := p.need(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.need(IDENT, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &SuperExpr{Keyword: keyword, Method: method}, nil
	case p.match(LPAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expression: expr}, nil
	default:
		return nil, p.errAt(p.peek(), "Failed to match a valid expression.")
	}
}
