// resolver.go — static resolution pass.
//
// One walk over the AST computes, for every variable-ish reference (reads,
// assignment targets, 'this', 'super'), how many lexical scopes separate the
// use from its declaration, and hands the distance to the interpreter keyed
// by node identity. Global references get no entry and stay dynamic.
//
// The scope stack mirrors static nesting only: a function declaration opens
// one scope per declaration (not per call), and a class declaration opens an
// implicit scope binding "this" — preceded by one binding "super" when the
// class inherits. The interpreter builds the run-time environment chain in
// exactly the same shape, which is what makes the distances line up.
//
// The pass also enforces the scope-related semantic rules. Every violation
// is collected as a *ResolveError; any of them prevents execution.
package lox

import "fmt"

type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope tracks each local name's state: declared (false) until its
// initializer finishes, then defined (true).
type scope map[string]bool

// Resolver computes lexical scope distances and checks scope rules.
type Resolver struct {
	ip       *Interpreter
	scopes   []scope
	curFunc  funcType
	curClass classType
	errs     []error
}

// NewResolver creates a resolver feeding its side table into ip.
func NewResolver(ip *Interpreter) *Resolver {
	return &Resolver{ip: ip}
}

// Resolve walks the statement list and returns every static error found.
func (r *Resolver) Resolve(stmts []Stmt) []error {
	r.resolveStmts(stmts)
	return r.errs
}

func (r *Resolver) err(tok Token, format string, args ...interface{}) {
	r.errs = append(r.errs, &ResolveError{
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// ─────────────────────────────── scopes ────────────────────────────────────

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) curScope() scope { return r.scopes[len(r.scopes)-1] }

// declare marks a name as existing-but-uninitialized in the current scope.
// Globals (empty scope stack) are exempt from redeclaration rules.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.curScope()
	if _, exists := s[name.Lexeme]; exists {
		r.err(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

// define marks a declared name as ready for use.
func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.curScope()[name.Lexeme] = true
}

// resolveLocal records the distance from the innermost scope to the one
// declaring name. No match means the name is (presumed) global.
func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.ip.resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *FunStmt, ft funcType) {
	enclosing := r.curFunc
	r.curFunc = ft

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.curFunc = enclosing
}

// ───────────────────────────── statements ──────────────────────────────────

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, st := range stmts {
		r.resolveStmt(st)
	}
}

func (r *Resolver) resolveStmt(st Stmt) {
	switch s := st.(type) {
	case *ExprStmt:
		r.resolveExpr(s.Expression)

	case *PrintStmt:
		r.resolveExpr(s.Expression)

	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *FunStmt:
		// The name is defined eagerly so the body can recurse.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funcFunction)

	case *ReturnStmt:
		if r.curFunc == funcNone {
			r.err(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFunc == funcInitializer {
				r.err(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *BreakStmt:
		// Placement is checked by the parser.

	case *ClassStmt:
		r.resolveClass(s)
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	enclosing := r.curClass
	r.curClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.err(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.curClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.curScope()["super"] = true
	}

	r.beginScope()
	r.curScope()["this"] = true

	for _, method := range s.Methods {
		ft := funcMethod
		if method.Name.Lexeme == "init" {
			ft = funcInitializer
		}
		r.resolveFunction(method, ft)
	}

	r.endScope()
	if s.Superclass != nil {
		r.endScope()
	}

	r.curClass = enclosing
}

// ───────────────────────────── expressions ─────────────────────────────────

func (r *Resolver) resolveExpr(e Expr) {
	switch x := e.(type) {
	case *LiteralExpr:
		// nothing to do

	case *GroupingExpr:
		r.resolveExpr(x.Expression)

	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, present := r.curScope()[x.Name.Lexeme]; present && !defined {
				r.err(x.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(x, x.Name)

	case *AssignExpr:
		r.resolveExpr(x.Value)
		r.resolveLocal(x, x.Name)

	case *BinaryExpr:
		r.resolveExpr(x.Left)
		r.resolveExpr(x.Right)

	case *LogicalExpr:
		r.resolveExpr(x.Left)
		r.resolveExpr(x.Right)

	case *UnaryExpr:
		r.resolveExpr(x.Right)

	case *TernaryExpr:
		r.resolveExpr(x.Cond)
		r.resolveExpr(x.Then)
		r.resolveExpr(x.Else)

	case *CallExpr:
		r.resolveExpr(x.Callee)
		for _, arg := range x.Args {
			r.resolveExpr(arg)
		}

	case *GetExpr:
		r.resolveExpr(x.Object)

	case *SetExpr:
		r.resolveExpr(x.Value)
		r.resolveExpr(x.Object)

	case *ThisExpr:
		if r.curClass == classNone {
			r.err(x.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(x, x.Keyword)

	case *SuperExpr:
		switch r.curClass {
		case classNone:
			r.err(x.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.err(x.Keyword, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(x, x.Keyword)
		}
	}
}
