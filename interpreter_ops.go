// interpreter_ops.go — expression evaluation and operator semantics.
//
// Truthiness: nil and false are falsy, everything else (including 0 and "")
// is truthy. Equality: nil equals only nil, values of different kinds are
// never equal, primitives compare by value and objects by identity. The '+'
// operator adds two numbers or concatenates two strings; every other mix is
// a type error. Division is plain IEEE 754: dividing by zero yields an
// infinity or NaN, not an error.
package lox

// eval evaluates a single expression in env.
func (ip *Interpreter) eval(e Expr, env *Env) (Value, error) {
	switch x := e.(type) {
	case *LiteralExpr:
		return literalValue(x.Value), nil

	case *GroupingExpr:
		return ip.eval(x.Expression, env)

	case *VariableExpr:
		return ip.lookUpVariable(x.Name, x, env)

	case *AssignExpr:
		v, err := ip.eval(x.Value, env)
		if err != nil {
			return Nil, err
		}
		if dist, ok := ip.locals[x]; ok {
			if !env.AssignAt(dist, x.Name.Lexeme, v) {
				return Nil, runtimeErr(x.Name, "Undefined variable '%s'.", x.Name.Lexeme)
			}
		} else if !ip.Globals.Assign(x.Name.Lexeme, v) {
			return Nil, runtimeErr(x.Name, "Undefined variable '%s'.", x.Name.Lexeme)
		}
		return v, nil

	case *UnaryExpr:
		return ip.evalUnary(x, env)

	case *BinaryExpr:
		return ip.evalBinary(x, env)

	case *LogicalExpr:
		left, err := ip.eval(x.Left, env)
		if err != nil {
			return Nil, err
		}
		// Short-circuit: the left value decides whether the right side
		// runs at all, and the result is whichever operand decided.
		if x.Operator.Type == OR {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return ip.eval(x.Right, env)

	case *TernaryExpr:
		cond, err := ip.eval(x.Cond, env)
		if err != nil {
			return Nil, err
		}
		if isTruthy(cond) {
			return ip.eval(x.Then, env)
		}
		return ip.eval(x.Else, env)

	case *CallExpr:
		return ip.evalCall(x, env)

	case *GetExpr:
		obj, err := ip.eval(x.Object, env)
		if err != nil {
			return Nil, err
		}
		if obj.Tag != VTInstance {
			return Nil, runtimeErr(x.Name, "Only instances have properties.")
		}
		return obj.Data.(*Instance).Get(x.Name)

	case *SetExpr:
		obj, err := ip.eval(x.Object, env)
		if err != nil {
			return Nil, err
		}
		if obj.Tag != VTInstance {
			return Nil, runtimeErr(x.Name, "Only instances have fields.")
		}
		v, err := ip.eval(x.Value, env)
		if err != nil {
			return Nil, err
		}
		obj.Data.(*Instance).Set(x.Name, v)
		return v, nil

	case *ThisExpr:
		return ip.lookUpVariable(x.Keyword, x, env)

	case *SuperExpr:
		return ip.evalSuper(x, env)

	default:
		return Nil, runtimeErr(Token{}, "internal error: unknown expression %T", e)
	}
}

func literalValue(lit interface{}) Value {
	switch v := lit.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Num(v)
	case string:
		return Str(v)
	default:
		return Nil
	}
}

// lookUpVariable consults the resolver's side table: a resolved reference is
// read at its exact lexical distance, an unresolved one is a global.
func (ip *Interpreter) lookUpVariable(name Token, expr Expr, env *Env) (Value, error) {
	if dist, ok := ip.locals[expr]; ok {
		if v, ok := env.GetAt(dist, name.Lexeme); ok {
			return v, nil
		}
		// Resolver distance and runtime depth diverged: a defect, but
		// surfaced as a located error rather than a crash.
		return Nil, runtimeErr(name, "internal error: variable '%s' missing at resolved depth %d", name.Lexeme, dist)
	}
	if v, ok := ip.Globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return Nil, runtimeErr(name, "Undefined variable '%s'.", name.Lexeme)
}

func (ip *Interpreter) evalUnary(x *UnaryExpr, env *Env) (Value, error) {
	right, err := ip.eval(x.Right, env)
	if err != nil {
		return Nil, err
	}
	switch x.Operator.Type {
	case MINUS:
		if right.Tag != VTNum {
			return Nil, runtimeErr(x.Operator, "Operand must be a number.")
		}
		return Num(-right.Data.(float64)), nil
	case BANG:
		return Bool(!isTruthy(right)), nil
	default:
		return Nil, runtimeErr(x.Operator, "internal error: unknown unary operator %q", x.Operator.Lexeme)
	}
}

func (ip *Interpreter) evalBinary(x *BinaryExpr, env *Env) (Value, error) {
	left, err := ip.eval(x.Left, env)
	if err != nil {
		return Nil, err
	}
	right, err := ip.eval(x.Right, env)
	if err != nil {
		return Nil, err
	}

	op := x.Operator
	switch op.Type {
	case COMMA:
		return right, nil

	case PLUS:
		switch {
		case left.Tag == VTNum && right.Tag == VTNum:
			return Num(left.Data.(float64) + right.Data.(float64)), nil
		case left.Tag == VTStr && right.Tag == VTStr:
			return Str(left.Data.(string) + right.Data.(string)), nil
		default:
			return Nil, runtimeErr(op, "Operands must be two numbers or two strings.")
		}

	case MINUS, STAR, SLASH, GREATER, GREATER_EQ, LESS, LESS_EQ:
		if left.Tag != VTNum || right.Tag != VTNum {
			return Nil, runtimeErr(op, "Operands must be numbers.")
		}
		a, b := left.Data.(float64), right.Data.(float64)
		switch op.Type {
		case MINUS:
			return Num(a - b), nil
		case STAR:
			return Num(a * b), nil
		case SLASH:
			// IEEE division: 1/0 is +Inf, 0/0 is NaN.
			return Num(a / b), nil
		case GREATER:
			return Bool(a > b), nil
		case GREATER_EQ:
			return Bool(a >= b), nil
		case LESS:
			return Bool(a < b), nil
		default:
			return Bool(a <= b), nil
		}

	case EQ:
		return Bool(valuesEqual(left, right)), nil
	case BANG_EQ:
		return Bool(!valuesEqual(left, right)), nil

	default:
		return Nil, runtimeErr(op, "internal error: unknown binary operator %q", op.Lexeme)
	}
}

func (ip *Interpreter) evalCall(x *CallExpr, env *Env) (Value, error) {
	callee, err := ip.eval(x.Callee, env)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, 0, len(x.Args))
	for _, arg := range x.Args {
		v, err := ip.eval(arg, env)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}

	fn, ok := AsCallable(callee)
	if !ok {
		return Nil, runtimeErr(x.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return Nil, runtimeErr(x.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(ip, args)
}

// evalSuper starts method lookup one level above the class the enclosing
// method is defined in (static), while "this" stays the dynamic receiver.
func (ip *Interpreter) evalSuper(x *SuperExpr, env *Env) (Value, error) {
	dist, ok := ip.locals[x]
	if !ok {
		return Nil, runtimeErr(x.Keyword, "internal error: unresolved 'super'")
	}
	superVal, ok := env.GetAt(dist, "super")
	if !ok || superVal.Tag != VTClass {
		return Nil, runtimeErr(x.Keyword, "internal error: 'super' missing at resolved depth %d", dist)
	}
	thisVal, ok := env.GetAt(dist-1, "this")
	if !ok || thisVal.Tag != VTInstance {
		return Nil, runtimeErr(x.Keyword, "internal error: 'this' missing below 'super'")
	}

	method := superVal.Data.(*Class).FindMethod(x.Method.Lexeme)
	if method == nil {
		return Nil, runtimeErr(x.Method, "Undefined property '%s'.", x.Method.Lexeme)
	}
	return FunVal(method.Bind(thisVal.Data.(*Instance))), nil
}

// isTruthy: nil and false are falsy; every other value is truthy.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// valuesEqual compares primitives by value and objects by identity. NaN is
// unequal to itself, per IEEE semantics.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		// Functions, classes and instances compare by identity.
		return a.Data == b.Data
	}
}
