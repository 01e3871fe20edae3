// interpreter_exec.go — statement execution.
//
// Statements evaluate to a control signal rather than throwing: exec returns
// (control, error) where control is Normal, Returning(value), or Breaking.
// Every statement-level construct checks and propagates the signal upward
// explicitly; Function.Call consumes Returning, the while loop consumes
// Breaking, and nothing else may let one escape.
package lox

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
)

func (k ctrlKind) String() string {
	switch k {
	case ctrlReturn:
		return "return"
	case ctrlBreak:
		return "break"
	default:
		return "none"
	}
}

// control is the result of executing one statement. value is meaningful only
// for ctrlReturn.
type control struct {
	kind  ctrlKind
	value Value
}

var ctrlNormal = control{kind: ctrlNone}

// exec runs a single statement in env.
func (ip *Interpreter) exec(st Stmt, env *Env) (control, error) {
	switch s := st.(type) {
	case *ExprStmt:
		_, err := ip.eval(s.Expression, env)
		return ctrlNormal, err

	case *PrintStmt:
		v, err := ip.eval(s.Expression, env)
		if err != nil {
			return ctrlNormal, err
		}
		_, err = ip.Stdout.Write([]byte(FormatValue(v) + "\n"))
		return ctrlNormal, err

	case *VarStmt:
		value := Nil
		if s.Initializer != nil {
			v, err := ip.eval(s.Initializer, env)
			if err != nil {
				return ctrlNormal, err
			}
			value = v
		}
		env.Define(s.Name.Lexeme, value)
		return ctrlNormal, nil

	case *BlockStmt:
		return ip.execBlock(s.Statements, NewEnv(env))

	case *IfStmt:
		cond, err := ip.eval(s.Condition, env)
		if err != nil {
			return ctrlNormal, err
		}
		if isTruthy(cond) {
			return ip.exec(s.ThenBranch, env)
		}
		if s.ElseBranch != nil {
			return ip.exec(s.ElseBranch, env)
		}
		return ctrlNormal, nil

	case *WhileStmt:
		for {
			cond, err := ip.eval(s.Condition, env)
			if err != nil {
				return ctrlNormal, err
			}
			if !isTruthy(cond) {
				return ctrlNormal, nil
			}
			ctrl, err := ip.exec(s.Body, env)
			if err != nil {
				return ctrlNormal, err
			}
			switch ctrl.kind {
			case ctrlBreak:
				return ctrlNormal, nil
			case ctrlReturn:
				return ctrl, nil
			}
		}

	case *FunStmt:
		env.Define(s.Name.Lexeme, FunVal(NewFunction(s, env, false)))
		return ctrlNormal, nil

	case *ReturnStmt:
		value := Nil
		if s.Value != nil {
			v, err := ip.eval(s.Value, env)
			if err != nil {
				return ctrlNormal, err
			}
			value = v
		}
		return control{kind: ctrlReturn, value: value}, nil

	case *BreakStmt:
		return control{kind: ctrlBreak}, nil

	case *ClassStmt:
		return ctrlNormal, ip.execClass(s, env)

	default:
		return ctrlNormal, runtimeErr(Token{}, "internal error: unknown statement %T", st)
	}
}

// execBlock runs statements in the given (fresh) environment, stopping at
// the first error or control signal.
func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) (control, error) {
	for _, st := range stmts {
		ctrl, err := ip.exec(st, env)
		if err != nil {
			return ctrlNormal, err
		}
		if ctrl.kind != ctrlNone {
			return ctrl, nil
		}
	}
	return ctrlNormal, nil
}

// execClass evaluates a class declaration: resolve the superclass (which
// must be a class value at run time), set up the implicit "super" frame when
// inheriting, build the method table, and bind the class name.
func (ip *Interpreter) execClass(s *ClassStmt, env *Env) error {
	var super *Class
	if s.Superclass != nil {
		sv, err := ip.eval(s.Superclass, env)
		if err != nil {
			return err
		}
		if sv.Tag != VTClass {
			return runtimeErr(s.Superclass.Name, "Superclass must be a class.")
		}
		super = sv.Data.(*Class)
	}

	// Two-step definition so methods can refer to the class by name.
	env.Define(s.Name.Lexeme, Nil)

	methodEnv := env
	if super != nil {
		methodEnv = NewEnv(env)
		methodEnv.Define("super", ClassVal(super))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: s.Name.Lexeme, Super: super, Methods: methods}
	if !env.Assign(s.Name.Lexeme, ClassVal(class)) {
		return runtimeErr(s.Name, "Undefined variable '%s'.", s.Name.Lexeme)
	}
	return nil
}
