package lox

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func newTestInterp() (*Interpreter, *bytes.Buffer) {
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	return ip, &out
}

func runSrc(t *testing.T, src string) string {
	t.Helper()
	ip, out := newTestInterp()
	if err := ip.Run(src); err != nil {
		t.Fatalf("Run error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

func wantOut(t *testing.T, src string, lines ...string) {
	t.Helper()
	got := runSrc(t, src)
	want := strings.Join(lines, "\n")
	if len(lines) > 0 {
		want += "\n"
	}
	if got != want {
		t.Fatalf("output mismatch\nsource:\n%s\ngot:  %q\nwant: %q", src, got, want)
	}
}

func runtimeFailure(t *testing.T, src string) *RuntimeError {
	t.Helper()
	ip, _ := newTestInterp()
	err := ip.Run(src)
	if err == nil {
		t.Fatalf("want runtime error, got none\nsource:\n%s", src)
	}
	var rt *RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	return rt
}

func wantRuntimeErr(t *testing.T, src, substr string) {
	t.Helper()
	rt := runtimeFailure(t, src)
	if !strings.Contains(rt.Msg, substr) {
		t.Fatalf("runtime error %q does not contain %q", rt.Msg, substr)
	}
}

// --- basics ----------------------------------------------------------------

func Test_Interpreter_Literals_And_Arithmetic(t *testing.T) {
	wantOut(t, "print 1 + 2 * 3;", "7")
	wantOut(t, "print (1 + 2) * 3;", "9")
	wantOut(t, "print 10 - 4 / 2;", "8")
	wantOut(t, "print -3 + 1;", "-2")
	wantOut(t, "print 0.5 + 0.25;", "0.75")
	wantOut(t, `print "foo" + "bar";`, "foobar")
	wantOut(t, "print nil;", "nil")
	wantOut(t, "print true;", "true")
	wantOut(t, "print !true;", "false")
	wantOut(t, "print !nil;", "true")
}

func Test_Interpreter_Number_Formatting(t *testing.T) {
	wantOut(t, "print 2;", "2")
	wantOut(t, "print 2.0;", "2") // trailing .0 suppressed
	wantOut(t, "print 2.5;", "2.5")
	wantOut(t, "print 100 / 3 * 3;", "100")
}

func Test_Interpreter_Division_Is_IEEE(t *testing.T) {
	// No divide-by-zero error: the float result is returned as-is.
	wantOut(t, "print 1 / 0;", "+Inf")
	wantOut(t, "print -1 / 0;", "-Inf")
	wantOut(t, "print (0 / 0) == (0 / 0);", "false") // NaN != NaN
}

func Test_Interpreter_Comparisons_And_Equality(t *testing.T) {
	wantOut(t, "print 1 < 2;", "true")
	wantOut(t, "print 2 <= 2;", "true")
	wantOut(t, "print 3 > 4;", "false")
	wantOut(t, "print nil == nil;", "true")
	wantOut(t, "print nil == false;", "false") // different kinds never equal
	wantOut(t, `print 1 == "1";`, "false")
	wantOut(t, `print "a" == "a";`, "true")
	wantOut(t, "print 1 != 2;", "true")
}

func Test_Interpreter_Truthiness_Zero_And_Empty_String(t *testing.T) {
	wantOut(t, `if (0) print "zero truthy"; else print "falsy";`, "zero truthy")
	wantOut(t, `if ("") print "empty truthy"; else print "falsy";`, "empty truthy")
	wantOut(t, `if (nil) print "t"; else print "nil falsy";`, "nil falsy")
}

func Test_Interpreter_Type_Errors(t *testing.T) {
	wantRuntimeErr(t, `print 1 + "a";`, "Operands must be two numbers or two strings.")
	wantRuntimeErr(t, `print "a" - "b";`, "Operands must be numbers.")
	wantRuntimeErr(t, "print -nil;", "Operand must be a number.")
	wantRuntimeErr(t, `print 1 < "2";`, "Operands must be numbers.")
}

func Test_Interpreter_Runtime_Error_Reports_Line(t *testing.T) {
	rt := runtimeFailure(t, "var a = 1;\nprint a + nil;")
	if rt.Line != 2 {
		t.Fatalf("want line 2, got %d", rt.Line)
	}
}

func Test_Interpreter_Runtime_Error_Aborts_Execution(t *testing.T) {
	ip, out := newTestInterp()
	err := ip.Run(`print "before"; print nil - 1; print "after";`)
	if err == nil {
		t.Fatal("want runtime error")
	}
	if got := out.String(); got != "before\n" {
		t.Fatalf("statements after the error must not run, got %q", got)
	}
}

// --- variables & scope -----------------------------------------------------

func Test_Interpreter_Variables_And_Assignment(t *testing.T) {
	wantOut(t, "var a = 1; a = a + 1; print a;", "2")
	wantOut(t, "var a; print a;", "nil")
	wantOut(t, "var a = 1; var b = 2; a = b = 3; print a; print b;", "3", "3")
	wantRuntimeErr(t, "missing = 1;", "Undefined variable 'missing'.")
	wantRuntimeErr(t, "print missing;", "Undefined variable 'missing'.")
}

func Test_Interpreter_Block_Scoping(t *testing.T) {
	wantOut(t, `
var a = "outer";
{
  var a = "inner";
  print a;
}
print a;`, "inner", "outer")
}

func Test_Interpreter_Resolved_Binding_Is_Stable(t *testing.T) {
	// A closure must keep seeing the binding visible at its declaration
	// even after a later declaration shadows the name in that scope.
	wantOut(t, `
var a = "global";
{
  fun showA() {
    print a;
  }
  showA();
  var a = "block";
  showA();
}`, "global", "global")
}

func Test_Interpreter_Alias_Mutation_Is_Visible(t *testing.T) {
	// Resolver distance and runtime depth agree: mutating through one
	// reference is observed through every other reference.
	wantOut(t, `
var x = 10;
{
  fun bump() { x = x + 1; }
  bump();
  print x;
  bump();
  print x;
}`, "11", "12")
}

// --- control flow ----------------------------------------------------------

func Test_Interpreter_If_Else_While(t *testing.T) {
	wantOut(t, "if (1 < 2) print \"yes\"; else print \"no\";", "yes")
	wantOut(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  i = i + 1;
  sum = sum + i;
}
print sum;`, "15")
}

func Test_Interpreter_For_Loop_Desugars(t *testing.T) {
	wantOut(t, `
var sum = 0;
for (var i = 1; i <= 4; i = i + 1) sum = sum + i;
print sum;`, "10")
	// Scoped loop variable does not leak.
	wantRuntimeErr(t, "for (var i = 0; i < 1; i = i + 1) {} print i;", "Undefined variable 'i'.")
}

func Test_Interpreter_Break_Unwinds_Innermost_Loop(t *testing.T) {
	wantOut(t, `
var log = "";
for (var i = 0; i < 3; i = i + 1) {
  for (var j = 0; j < 3; j = j + 1) {
    if (j == 1) break;
    log = log + "x";
  }
}
print log;`, "xxx")
	wantOut(t, `
var i = 0;
while (true) {
  i = i + 1;
  if (i == 3) break;
}
print i;`, "3")
}

func Test_Interpreter_Short_Circuit(t *testing.T) {
	wantOut(t, `
var called = false;
fun sideEffect() {
  called = true;
  return true;
}
print false and sideEffect();
print called;
print true or sideEffect();
print called;`, "false", "false", "true", "false")

	// Logical operators yield the deciding operand, not a coerced bool.
	wantOut(t, `print "hi" or 2;`, "hi")
	wantOut(t, `print nil or "fallback";`, "fallback")
	wantOut(t, `print nil and "never";`, "nil")
}

func Test_Interpreter_Ternary(t *testing.T) {
	wantOut(t, `print 1 < 2 ? "a" : "b";`, "a")
	wantOut(t, `print nil ? "a" : "b";`, "b")
	// Only the taken branch is evaluated.
	wantOut(t, `
var touched = false;
fun touch() { touched = true; return 1; }
var v = true ? 2 : touch();
print v;
print touched;`, "2", "false")
}

func Test_Interpreter_Comma_Operator(t *testing.T) {
	wantOut(t, "var a = (1, 2, 3); print a;", "3")
	wantOut(t, `
var hits = 0;
fun hit() { hits = hits + 1; return hits; }
print (hit(), hit());
print hits;`, "2", "2")
}

// --- functions & closures --------------------------------------------------

func Test_Interpreter_Functions_And_Return(t *testing.T) {
	wantOut(t, `
fun add(a, b) { return a + b; }
print add(1, 2);`, "3")
	wantOut(t, `
fun noReturn() { var x = 1; }
print noReturn();`, "nil")
	wantOut(t, `
fun bare() { return; }
print bare();`, "nil")
	wantOut(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);`, "55")
}

func Test_Interpreter_Global_Mutation_Through_Function(t *testing.T) {
	wantOut(t, `var a = 1; fun f() { a = a + 1; return a; } print f(); print f();`, "2", "3")
}

func Test_Interpreter_Closure_Captures_By_Reference(t *testing.T) {
	wantOut(t, `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();
print counter();
print counter();`, "1", "2")

	// Two closures over the same frame share state.
	wantOut(t, `
fun makePair() {
  var n = 0;
  fun inc() { n = n + 1; }
  fun get() { return n; }
  inc();
  inc();
  return get;
}
print makePair()();`, "2")
}

func Test_Interpreter_Arity_Enforced(t *testing.T) {
	wantRuntimeErr(t, "fun f(a, b) { return a; } f(1);", "Expected 2 arguments but got 1.")
	wantRuntimeErr(t, "fun f(a) { return a; } f(1, 2);", "Expected 1 arguments but got 2.")
	wantRuntimeErr(t, `
class Point {
  init(x, y) { this.x = x; this.y = y; }
}
Point(1);`, "Expected 2 arguments but got 1.")
}

func Test_Interpreter_Calling_Non_Callable(t *testing.T) {
	wantRuntimeErr(t, `"not a function"();`, "Can only call functions and classes.")
	wantRuntimeErr(t, "nil();", "Can only call functions and classes.")
	wantRuntimeErr(t, "123();", "Can only call functions and classes.")
}

func Test_Interpreter_Clock_Native(t *testing.T) {
	wantOut(t, "print clock() > 0;", "true")
	wantRuntimeErr(t, "clock(1);", "Expected 0 arguments but got 1.")
}

// --- classes ---------------------------------------------------------------

func Test_Interpreter_Class_Instantiation_And_Fields(t *testing.T) {
	wantOut(t, `
class Bag {}
var bag = Bag();
bag.item = "apple";
print bag.item;`, "apple")
	wantOut(t, `
class Bag {}
print Bag;
print Bag();`, "Bag", "Bag instance")
	wantRuntimeErr(t, "class Bag {} print Bag().missing;", "Undefined property 'missing'.")
}

func Test_Interpreter_Fields_Are_Per_Instance(t *testing.T) {
	wantOut(t, `
class Box {}
var a = Box();
var b = Box();
a.v = 1;
b.v = 2;
print a.v;
print b.v;`, "1", "2")
}

func Test_Interpreter_Methods_And_This(t *testing.T) {
	wantOut(t, `
class Greeter {
  greet() { return "hi, " + this.name; }
}
var g = Greeter();
g.name = "lox";
print g.greet();`, "hi, lox")

	// A bound method keeps its receiver when stored in a variable.
	wantOut(t, `
class Speaker {
  speak() { print this.word; }
}
var s = Speaker();
s.word = "bound";
var m = s.speak;
m();`, "bound")
}

func Test_Interpreter_Init_Semantics(t *testing.T) {
	wantOut(t, `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }
}
var p = Point(3, 4);
print p.x + p.y;`, "7")

	// init returns the instance even when called directly.
	wantOut(t, `
class Thing {
  init() { this.n = 1; }
}
var a = Thing();
print a.init() == a;`, "true")

	// A bare return inside init yields the instance.
	wantOut(t, `
class Early {
  init() {
    this.v = 1;
    if (true) return;
    this.v = 2;
  }
}
print Early().v;`, "1")
}

func Test_Interpreter_Field_Shadows_Method(t *testing.T) {
	wantOut(t, `
class Base {
  label() { return "method"; }
}
var b = Base();
print b.label();
b.label = "field";
print b.label;`, "method", "field")
}

func Test_Interpreter_Property_On_Non_Instance(t *testing.T) {
	wantRuntimeErr(t, "var x = 1; print x.field;", "Only instances have properties.")
	wantRuntimeErr(t, `"str".field = 1;`, "Only instances have fields.")
}

// --- inheritance -----------------------------------------------------------

func Test_Interpreter_Method_Inheritance(t *testing.T) {
	wantOut(t, `
class Animal {
  speak() { return "..."; }
  name() { return "animal"; }
}
class Dog < Animal {
  speak() { return "woof"; }
}
var d = Dog();
print d.speak();
print d.name();`, "woof", "animal")
}

func Test_Interpreter_Super_Calls_Base_Definition(t *testing.T) {
	wantOut(t, `
class Animal {
  speak() { print "some sound"; }
}
class Dog < Animal {
  speak() {
    super.speak();
    print "woof";
  }
}
Dog().speak();`, "some sound", "woof")
}

func Test_Interpreter_Super_This_Is_Dynamic_Receiver(t *testing.T) {
	wantOut(t, `
class Base {
  describe() { return "I am " + this.kind(); }
  kind() { return "base"; }
}
class Derived < Base {
  describe() { return super.describe(); }
  kind() { return "derived"; }
}
print Derived().describe();`, "I am derived")
}

func Test_Interpreter_Super_Is_Static_In_Multi_Level_Hierarchy(t *testing.T) {
	// super binds to the class the method is *defined* in, not the
	// instance's dynamic class.
	wantOut(t, `
class A {
  method() { print "A"; }
}
class B < A {
  method() { print "B"; }
  test() { super.method(); }
}
class C < B {}
C().test();`, "A")
}

func Test_Interpreter_Inherited_Init(t *testing.T) {
	wantOut(t, `
class Base {
  init(v) { this.v = v; }
}
class Child < Base {}
print Child(42).v;`, "42")
}

func Test_Interpreter_Superclass_Must_Be_Class(t *testing.T) {
	wantRuntimeErr(t, `var NotAClass = "so not"; class Sub < NotAClass {}`, "Superclass must be a class.")
}

func Test_Interpreter_End_To_End_Inheritance_Example(t *testing.T) {
	wantOut(t, `
class Animal {
  speak() { return "generic noise"; }
}
class Dog < Animal {
  speak() { return super.speak() + ", then barking"; }
}
print Dog().speak();`, "generic noise, then barking")
}
