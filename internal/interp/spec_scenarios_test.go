package interp

import (
	"strings"
	"testing"
)

// These run the six end-to-end scenarios verbatim, source text and all, so
// a change to any one of them (parser operator set, dict key handling,
// floored division/exponentiation) is caught by the exact case that motivates
// it rather than a paraphrase that happens to dodge the affected operators.

func TestSpecScenarioClosureCounter(t *testing.T) {
	out := run(t, `fun mk(){var i=0;fun c(){i=i+1;print i;}return c;}
var c=mk(); c(); c(); c();`)
	want := "1\n2\n3"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecScenarioInheritanceAndSuper(t *testing.T) {
	out := run(t, `class A{say(){print "A";}}
class B<A{say(){super.say(); print "B";}}
B().say();`)
	want := "A\nB"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecScenarioInitializerReturnsThis(t *testing.T) {
	out := run(t, `class P{init(x){this.x=x;}} print P(7).x;`)
	want := "7"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecScenarioForLoopContinueRunsIncrement(t *testing.T) {
	out := run(t, `for(var i=0;i<4;i=i+1){ if(i==2){continue;} print i; }`)
	want := "0\n1\n3"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecScenarioExceptionFlow(t *testing.T) {
	out := run(t, `try{ throw "oops"; } except(e){ print e; } finally{ print "done"; }`)
	want := "oops\ndone"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecScenarioMemoizedFib(t *testing.T) {
	out := run(t, `var m=hash(); fun f(n){if(n<2)return n; if(m.has(n))return m.get(n);
var r=f(n-1)+f(n-2); m.set(n,r); return r;} print f(20);`)
	want := "6765"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestSpecFailureScenarios(t *testing.T) {
	if err := runErr(t, `print 1 / 0;`); err == nil {
		t.Error("expected divide by zero to raise")
	}
	if err := runErr(t, `print "a" + 1;`); err == nil {
		t.Error(`expected "a"+1 to raise`)
	}
	if err := runErr(t, `var x = 1; x();`); err == nil {
		t.Error("expected calling a non-callable to raise")
	}
	if err := runErr(t, `fun f(a){} f();`); err == nil {
		t.Error("expected wrong arity to raise")
	}
	if err := runErr(t, `print nope;`); err == nil {
		t.Error("expected reading an undefined variable to raise")
	}
}

func TestFlooredDivisionAndExponentiation(t *testing.T) {
	out := run(t, `print 7 \ 2;
print 2 ^ 10;
print -7 \ 2;`)
	want := "3\n1024\n-4"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestFlooredDivisionRejectsNonIntegralOperands(t *testing.T) {
	if err := runErr(t, `print 7.5 \ 2;`); err == nil {
		t.Error("expected floored division on a non-integral operand to raise")
	}
}

func TestDictAcceptsNumericKeysFromSpecScenario(t *testing.T) {
	out := run(t, `var m = hash();
m.set(6, "six");
print m.has(6);
print m.get(6);`)
	want := "true\nsix"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestClassPrintsWithClassTag(t *testing.T) {
	out := run(t, `class SomeClass {}
print SomeClass;`)
	want := "<class SomeClass>"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestDictPrintsInInsertionOrder(t *testing.T) {
	out := run(t, `var d = {"z": 1, "a": 2};
print d;`)
	want := `{"z": 1, "a": 2}`
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(out), want)
	}
}
