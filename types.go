// types.go — the Lox runtime value model.
//
// Value is a closed tagged union: nil, boolean, number (float64), string,
// and the object kinds (function, class, instance). Every operation site in
// the interpreter switches exhaustively on the tag; there are no implicit
// coercions anywhere in the runtime.
//
// Functions and classes are both callable through the Callable interface, so
// the call evaluator never cares which it has. Instances are created only by
// calling a Class value.
package lox

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTFun                      // Callable (*Function or *NativeFun)
	VTClass                    // *Class (also Callable)
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier used by the interpreter. Tag
// determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// FunVal wraps a callable into a Value.
func FunVal(c Callable) Value { return Value{Tag: VTFun, Data: c} }

// ClassVal wraps a class into a Value.
func ClassVal(c *Class) Value { return Value{Tag: VTClass, Data: c} }

// InstanceVal wraps an instance into a Value.
func InstanceVal(i *Instance) Value { return Value{Tag: VTInstance, Data: i} }

// AsCallable extracts the callable behind a Value, if any.
func AsCallable(v Value) (Callable, bool) {
	switch v.Tag {
	case VTFun:
		return v.Data.(Callable), true
	case VTClass:
		return v.Data.(*Class), true
	default:
		return nil, false
	}
}

// Callable is anything invocable by a call expression: user functions,
// native functions, and classes (whose invocation constructs an instance).
type Callable interface {
	Arity() int
	Call(ip *Interpreter, args []Value) (Value, error)
	String() string
}

// ---------------------------------------------------------------------------
// Functions
// ---------------------------------------------------------------------------

// Function is a user-declared function or method plus the environment
// captured at declaration time. The closure is fixed for the lifetime of the
// value; calling chains a fresh frame onto it.
type Function struct {
	decl    *FunStmt
	closure *Env
	isInit  bool // true for a class's "init" method
}

// NewFunction builds a function value closing over env.
func NewFunction(decl *FunStmt, closure *Env, isInit bool) *Function {
	return &Function{decl: decl, closure: closure, isInit: isInit}
}

func (f *Function) Arity() int { return len(f.decl.Params) }

func (f *Function) String() string { return "<fn " + f.decl.Name.Lexeme + ">" }

// Call binds arguments positionally in a frame chained to the closure and
// executes the body. A return signal stops the body and yields its value;
// falling off the end yields nil. An init method always yields "this".
func (f *Function) Call(ip *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	ctrl, err := ip.execBlock(f.decl.Body, env)
	if err != nil {
		return Nil, err
	}
	if f.isInit {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if ctrl.kind == ctrlReturn {
		return ctrl.value, nil
	}
	return Nil, nil
}

// Bind produces a copy of the method whose closure additionally maps "this"
// to the given instance, so the body sees the receiver at distance one.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstanceVal(inst))
	return &Function{decl: f.decl, closure: env, isInit: f.isInit}
}

// NativeFun is a built-in implemented by the host.
type NativeFun struct {
	name  string
	arity int
	fn    func(ip *Interpreter, args []Value) (Value, error)
}

func (n *NativeFun) Arity() int     { return n.arity }
func (n *NativeFun) String() string { return "<native fn>" }
func (n *NativeFun) Call(ip *Interpreter, args []Value) (Value, error) {
	return n.fn(ip, args)
}

// ---------------------------------------------------------------------------
// Classes & instances
// ---------------------------------------------------------------------------

// Class is a runtime class: a name, an optional superclass and a method
// table shared read-only by every instance.
type Class struct {
	Name    string
	Super   *Class
	Methods map[string]*Function
}

func (c *Class) String() string { return c.Name }

// FindMethod walks the inheritance chain; the nearest definition wins.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Super != nil {
		return c.Super.FindMethod(name)
	}
	return nil
}

// Arity of instantiation is the arity of "init" when the class (or an
// ancestor) declares one, else zero.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a fresh instance and runs "init" bound to it, if present.
// The result is always the new instance, whatever init returns.
func (c *Class) Call(ip *Interpreter, args []Value) (Value, error) {
	inst := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(ip, args); err != nil {
			return Nil, err
		}
	}
	return InstanceVal(inst), nil
}

// Instance is a runtime object: a class reference plus its own mutable field
// table. Fields are per-instance; methods live on the class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.class }

func (i *Instance) String() string { return i.class.Name + " instance" }

// Get reads a property: fields shadow methods, methods come bound to the
// receiver, and an unknown name is a runtime error.
func (i *Instance) Get(name Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return FunVal(m.Bind(i)), nil
	}
	return Nil, runtimeErr(name, "Undefined property '%s'.", name.Lexeme)
}

// Set writes a field, creating it if absent.
func (i *Instance) Set(name Token, v Value) {
	i.fields[name.Lexeme] = v
}
