// ast.go — abstract syntax tree produced by the parser.
//
// Nodes are pointer structs implementing the Expr or Stmt marker interface.
// The resolver keys its scope-distance side table by node pointer, so every
// expression node has a stable identity for the lifetime of the program tree.
package lox

// Expr is implemented by all expression nodes.
type Expr interface {
	exprNode()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	stmtNode()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// LiteralExpr carries an already-decoded literal value (nil, bool, float64
// or string) straight from the scanner.
type LiteralExpr struct {
	Value interface{}
}

// VariableExpr is a read of a named binding.
type VariableExpr struct {
	Name Token
}

// AssignExpr writes Value to the binding named by Name.
type AssignExpr struct {
	Name  Token
	Value Expr
}

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// LogicalExpr is "and"/"or"; unlike BinaryExpr the right operand may never
// be evaluated.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type UnaryExpr struct {
	Operator Token
	Right    Expr
}

// TernaryExpr is "cond ? then : else"; only the taken branch is evaluated.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

type CallExpr struct {
	Callee Expr
	Paren  Token // closing ')', for error locations
	Args   []Expr
}

// GetExpr is a property read: Object.Name.
type GetExpr struct {
	Object Expr
	Name   Token
}

// SetExpr is a property write: Object.Name = Value.
type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

type ThisExpr struct {
	Keyword Token
}

// SuperExpr is "super.Method"; resolution starts one level above the class
// the enclosing method is defined in.
type SuperExpr struct {
	Keyword Token
	Method  Token
}

type GroupingExpr struct {
	Expression Expr
}

func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*UnaryExpr) exprNode()    {}
func (*TernaryExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

type ExprStmt struct {
	Expression Expr
}

type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a variable; Initializer is nil for "var x;".
type VarStmt struct {
	Name        Token
	Initializer Expr
}

type BlockStmt struct {
	Statements []Stmt
}

type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // may be nil
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunStmt declares a named function or a method. The same node backs every
// Function value created from it; the closure environment differs per value.
type FunStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr // may be nil
}

type BreakStmt struct {
	Keyword Token
}

// ClassStmt declares a class. Superclass is nil when there is none; it stays
// a VariableExpr because the superclass is looked up at execution time.
type ClassStmt struct {
	Name       Token
	Superclass *VariableExpr
	Methods    []*FunStmt
}

func (*ExprStmt) stmtNode()   {}
func (*PrintStmt) stmtNode()  {}
func (*VarStmt) stmtNode()    {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*FunStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*BreakStmt) stmtNode()  {}
func (*ClassStmt) stmtNode()  {}
