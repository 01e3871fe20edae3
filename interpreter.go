// interpreter.go — public surface of the Lox interpreter.
//
// The Interpreter owns the global environment, the resolver's side table and
// the output sink for print statements. The canonical entry point is Run,
// which drives the whole pipeline for one source string:
//
//	scan/parse  → collected static errors (ErrorList) on failure
//	resolve     → collected static errors (ErrorList) on failure
//	interpret   → first *RuntimeError on failure
//
// Environments form a lexical chain via the parent link and are shared by
// reference: every closure and block holding an *Env sees mutations made
// through any other reference to the same frame. That sharing is required
// language semantics, not an implementation convenience. Go's garbage
// collector handles the reference cycles that arise when class methods close
// over the environment that holds the class itself.
//
// Evaluation is synchronous and recursive; deeply recursive Lox programs are
// bounded by the Go stack and exhaust it fatally. There is no cancellation
// mechanism: a script runs to completion or to its first runtime error.
package lox

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; resolved accesses address an exact ancestor by distance.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	if v, ok := e.table[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Nil, false
}

// Assign updates the nearest existing binding of name. It reports false when
// no visible frame binds the name (it never implicitly defines).
func (e *Env) Assign(name string, v Value) bool {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, v)
	}
	return false
}

// ancestor walks exactly distance parent links.
func (e *Env) ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame exactly distance links up. The resolver
// guarantees the binding exists there; a miss indicates a resolver defect.
func (e *Env) GetAt(distance int, name string) (Value, bool) {
	env := e.ancestor(distance)
	if env == nil {
		return Nil, false
	}
	v, ok := env.table[name]
	return v, ok
}

// AssignAt writes name in the frame exactly distance links up.
func (e *Env) AssignAt(distance int, name string, v Value) bool {
	env := e.ancestor(distance)
	if env == nil {
		return false
	}
	if _, ok := env.table[name]; !ok {
		return false
	}
	env.table[name] = v
	return true
}

// Interpreter executes resolved statement trees against a chain of mutable
// environments.
type Interpreter struct {
	// Globals is the program-global environment; built-ins live here and
	// unresolved (global) variable references are looked up here by name.
	Globals *Env

	// Stdout receives print statement output. Defaults to os.Stdout.
	Stdout io.Writer

	// locals is the resolver's side table: expression node → lexical
	// distance. Globals have no entry.
	locals map[Expr]int
}

// NewInterpreter constructs an interpreter with the native built-ins
// installed in its global environment.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Globals: NewEnv(nil),
		Stdout:  os.Stdout,
		locals:  make(map[Expr]int),
	}
	registerNatives(ip)
	return ip
}

// registerNatives installs the minimal native surface.
func registerNatives(ip *Interpreter) {
	ip.Globals.Define("clock", FunVal(&NativeFun{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) (Value, error) {
			return Num(float64(time.Now().UnixNano()) / 1e9), nil
		},
	}))
}

// resolve records the lexical distance for an expression node. Called by the
// Resolver; distances survive across Run calls so a REPL session can refer
// to earlier definitions.
func (ip *Interpreter) resolve(expr Expr, distance int) {
	ip.locals[expr] = distance
}

// Run scans, parses, resolves and executes src against this interpreter's
// global state. Static failures come back as an ErrorList and prevent any
// execution; a runtime failure is a *RuntimeError.
func (ip *Interpreter) Run(src string) error {
	stmts, errs := Parse(src)
	if len(errs) > 0 {
		return ErrorList(errs)
	}

	r := NewResolver(ip)
	if errs := r.Resolve(stmts); len(errs) > 0 {
		return ErrorList(errs)
	}

	return ip.Interpret(stmts)
}

// Interpret executes an already-resolved statement list in the global
// environment. The first runtime error aborts the remainder.
func (ip *Interpreter) Interpret(stmts []Stmt) error {
	for _, st := range stmts {
		ctrl, err := ip.exec(st, ip.Globals)
		if err != nil {
			return err
		}
		if ctrl.kind != ctrlNone {
			// The resolver rejects top-level return and the parser
			// rejects break outside a loop, so a live signal here is
			// an interpreter defect.
			return fmt.Errorf("internal error: unhandled %s signal at top level", ctrl.kind)
		}
	}
	return nil
}
