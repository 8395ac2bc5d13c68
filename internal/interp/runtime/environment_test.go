package runtime

import "testing"

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", 1.0)
	v, ok := env.Get("a")
	if !ok || v != 1.0 {
		t.Fatalf("expected a=1.0, got %v, %v", v, ok)
	}
	if _, ok := env.Get("missing"); ok {
		t.Fatal("expected missing lookup to fail")
	}
}

func TestEnvironmentIsCaseSensitive(t *testing.T) {
	env := NewEnvironment()
	env.Define("Name", "upper")
	if _, ok := env.Get("name"); ok {
		t.Fatal("expected lowercase lookup to miss a differently-cased binding")
	}
}

func TestEnvironmentNestedLookupWalksOutward(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", 1.0)
	inner := NewEnclosedEnvironment(outer)
	inner.Define("b", 2.0)

	if v, ok := inner.Get("a"); !ok || v != 1.0 {
		t.Fatalf("expected inner scope to see outer binding a, got %v, %v", v, ok)
	}
	if _, ok := outer.Get("b"); ok {
		t.Fatal("outer scope should not see inner-only binding b")
	}
}

func TestEnvironmentAssignSearchesOutwardAndReportsMiss(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", 1.0)
	inner := NewEnclosedEnvironment(outer)

	if !inner.Assign("a", 9.0) {
		t.Fatal("expected assignment to outer binding to succeed")
	}
	if v, _ := outer.Get("a"); v != 9.0 {
		t.Fatalf("expected outer a updated to 9.0, got %v", v)
	}
	if inner.Assign("never_declared", 1.0) {
		t.Fatal("expected assignment to an undeclared name to fail")
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("a", 1.0)
	inner := NewEnclosedEnvironment(outer)
	inner.Define("a", 2.0)

	if v, _ := inner.Get("a"); v != 2.0 {
		t.Fatalf("expected shadowed a=2.0, got %v", v)
	}
	if v, _ := outer.Get("a"); v != 1.0 {
		t.Fatalf("expected outer a to remain 1.0, got %v", v)
	}
}

func TestEnvironmentGetAtAndAssignAtUseResolvedDistance(t *testing.T) {
	global := NewEnvironment()
	global.Define("a", "global")
	mid := NewEnclosedEnvironment(global)
	mid.Define("a", "mid")
	leaf := NewEnclosedEnvironment(mid)

	if v := leaf.GetAt(1, "a"); v != "mid" {
		t.Fatalf("GetAt(1, a) = %v, want mid", v)
	}
	if v := leaf.GetAt(2, "a"); v != "global" {
		t.Fatalf("GetAt(2, a) = %v, want global", v)
	}

	leaf.AssignAt(2, "a", "rewritten")
	if v, _ := global.Get("a"); v != "rewritten" {
		t.Fatalf("expected global a rewritten, got %v", v)
	}
}

func TestEnvironmentAncestorPanicsPastGlobal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic walking past the global scope")
		}
	}()
	NewEnvironment().Ancestor(1)
}

func TestEnvironmentGlobalsWalksToRoot(t *testing.T) {
	root := NewEnvironment()
	mid := NewEnclosedEnvironment(root)
	leaf := NewEnclosedEnvironment(mid)
	if leaf.Globals() != root {
		t.Fatal("expected Globals() to return the root environment")
	}
}

func TestEnvironmentSnapshotIsACopy(t *testing.T) {
	env := NewEnvironment()
	env.Define("a", 1.0)
	snap := env.Snapshot()
	snap["a"] = 99.0
	if v, _ := env.Get("a"); v != 1.0 {
		t.Fatal("expected Snapshot to return an independent copy")
	}
}
