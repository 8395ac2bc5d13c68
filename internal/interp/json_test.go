package interp

import (
	"testing"

	"github.com/loxlang/lox/internal/interp/runtime"
)

func TestJSONEncodeScalars(t *testing.T) {
	cases := []struct {
		in   runtime.Value
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{2.5, "2.5"},
		{"hi", `"hi"`},
	}
	for _, c := range cases {
		got, err := jsonEncode(c.in)
		if err != nil {
			t.Fatalf("jsonEncode(%#v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("jsonEncode(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJSONEncodeNestedListsAndDicts(t *testing.T) {
	d := runtime.NewDict()
	d.Set("name", "ada")
	d.Set("scores", runtime.NewList([]runtime.Value{1.0, 2.0, 3.0}))

	encoded, err := jsonEncode(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := jsonDecode(encoded)
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	back, ok := decoded.(*runtime.Dict)
	if !ok {
		t.Fatalf("expected *runtime.Dict, got %T", decoded)
	}
	name, _ := back.Get("name")
	if name != "ada" {
		t.Fatalf("expected name=ada, got %v", name)
	}
	scores, _ := back.Get("scores")
	list, ok := scores.(*runtime.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected a 3-element list, got %v", scores)
	}
}

func TestJSONEncodeKeyWithMetacharacters(t *testing.T) {
	d := runtime.NewDict()
	d.Set("a.b", 1.0)
	d.Set("c*d", 2.0)

	encoded, err := jsonEncode(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := jsonDecode(encoded)
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	back := decoded.(*runtime.Dict)
	if v, ok := back.Get("a.b"); !ok || v != 1.0 {
		t.Fatalf("expected key 'a.b' to round-trip, got %v, %v", v, ok)
	}
	if v, ok := back.Get("c*d"); !ok || v != 2.0 {
		t.Fatalf("expected key 'c*d' to round-trip, got %v, %v", v, ok)
	}
}

func TestJSONDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := jsonDecode("{not json"); err == nil {
		t.Fatal("expected an error decoding invalid JSON")
	}
}
