// printer.go — textual forms for runtime values and AST nodes.
package lox

import (
	"strconv"
	"strings"
)

// FormatValue renders a value the way the print statement shows it:
//
//	nil            → "nil"
//	booleans       → "true" / "false"
//	numbers        → decimal, with no trailing ".0" for integral values
//	strings        → their contents, verbatim
//	functions      → "<fn NAME>" (natives: "<native fn>")
//	classes        → the class name
//	instances      → "<ClassName> instance"
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return v.Data.(Callable).String()
	case VTClass:
		return v.Data.(*Class).String()
	case VTInstance:
		return v.Data.(*Instance).String()
	default:
		return "<unknown>"
	}
}

// PrintAST renders an expression tree in parenthesized prefix form, e.g.
// "(* (- 123) (group 45.67))". Used by tests and the REPL's :ast command.
func PrintAST(e Expr) string {
	switch x := e.(type) {
	case *LiteralExpr:
		return FormatValue(literalValue(x.Value))
	case *VariableExpr:
		return x.Name.Lexeme
	case *AssignExpr:
		return parenthesize("= "+x.Name.Lexeme, x.Value)
	case *BinaryExpr:
		return parenthesize(x.Operator.Lexeme, x.Left, x.Right)
	case *LogicalExpr:
		return parenthesize(x.Operator.Lexeme, x.Left, x.Right)
	case *UnaryExpr:
		return parenthesize(x.Operator.Lexeme, x.Right)
	case *TernaryExpr:
		return parenthesize("?:", x.Cond, x.Then, x.Else)
	case *CallExpr:
		return parenthesize("call", append([]Expr{x.Callee}, x.Args...)...)
	case *GetExpr:
		return parenthesize("get "+x.Name.Lexeme, x.Object)
	case *SetExpr:
		return parenthesize("set "+x.Name.Lexeme, x.Object, x.Value)
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return "(super " + x.Method.Lexeme + ")"
	case *GroupingExpr:
		return parenthesize("group", x.Expression)
	default:
		return "<unknown expr>"
	}
}

// PrintStmtAST renders a statement tree; declarations show their kind and
// name, blocks nest.
func PrintStmtAST(st Stmt) string {
	switch s := st.(type) {
	case *ExprStmt:
		return parenthesizeStr("expr", PrintAST(s.Expression))
	case *PrintStmt:
		return parenthesizeStr("print", PrintAST(s.Expression))
	case *VarStmt:
		if s.Initializer == nil {
			return parenthesizeStr("var", s.Name.Lexeme)
		}
		return parenthesizeStr("var", s.Name.Lexeme, PrintAST(s.Initializer))
	case *BlockStmt:
		parts := make([]string, len(s.Statements))
		for i, inner := range s.Statements {
			parts[i] = PrintStmtAST(inner)
		}
		return parenthesizeStr("block", parts...)
	case *IfStmt:
		if s.ElseBranch == nil {
			return parenthesizeStr("if", PrintAST(s.Condition), PrintStmtAST(s.ThenBranch))
		}
		return parenthesizeStr("if", PrintAST(s.Condition), PrintStmtAST(s.ThenBranch), PrintStmtAST(s.ElseBranch))
	case *WhileStmt:
		return parenthesizeStr("while", PrintAST(s.Condition), PrintStmtAST(s.Body))
	case *FunStmt:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Lexeme
		}
		body := make([]string, len(s.Body))
		for i, inner := range s.Body {
			body[i] = PrintStmtAST(inner)
		}
		return parenthesizeStr("fun "+s.Name.Lexeme, append([]string{"(" + strings.Join(params, " ") + ")"}, body...)...)
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return parenthesizeStr("return", PrintAST(s.Value))
	case *BreakStmt:
		return "(break)"
	case *ClassStmt:
		head := "class " + s.Name.Lexeme
		if s.Superclass != nil {
			head += " < " + s.Superclass.Name.Lexeme
		}
		methods := make([]string, len(s.Methods))
		for i, m := range s.Methods {
			methods[i] = PrintStmtAST(m)
		}
		return parenthesizeStr(head, methods...)
	default:
		return "<unknown stmt>"
	}
}

func parenthesize(name string, exprs ...Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = PrintAST(e)
	}
	return parenthesizeStr(name, parts...)
}

func parenthesizeStr(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}
