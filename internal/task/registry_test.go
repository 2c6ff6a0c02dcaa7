package task

import (
	"context"
	"errors"
	"testing"
)

func noop(context.Context, *Request) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	r.Register("mod.A", "run", Func(noop))

	impl, err := r.Resolve("mod.A", "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if impl == nil {
		t.Fatal("implementation should not be nil")
	}

	if !r.Has("mod.A", "run") {
		t.Error("Has should report registered pair")
	}
	if r.Has("mod.A", "other") {
		t.Error("Has should not report unknown method")
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("mod.A", "run")
	if !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRegistry_KeyedByPair(t *testing.T) {
	// Один модуль, разные методы — разные реализации.
	r := NewRegistry()

	var calls []string
	r.Register("mod.A", "x", Func(func(context.Context, *Request) (map[string]any, error) {
		calls = append(calls, "x")
		return map[string]any{}, nil
	}))
	r.Register("mod.A", "y", Func(func(context.Context, *Request) (map[string]any, error) {
		calls = append(calls, "y")
		return map[string]any{}, nil
	}))

	implX, _ := r.Resolve("mod.A", "x")
	implY, _ := r.Resolve("mod.A", "y")
	implX.Execute(context.Background(), NewRequest("t", nil, nil))
	implY.Execute(context.Background(), NewRequest("t", nil, nil))

	if len(calls) != 2 || calls[0] != "x" || calls[1] != "y" {
		t.Errorf("expected calls [x y], got %v", calls)
	}
}

func TestRegistry_RefsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("b.Mod", "z", Func(noop))
	r.Register("a.Mod", "z", Func(noop))
	r.Register("a.Mod", "a", Func(noop))

	refs := r.Refs()
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	want := []Ref{
		{Mod: "a.Mod", Method: "a"},
		{Mod: "a.Mod", Method: "z"},
		{Mod: "b.Mod", Method: "z"},
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d]: expected %v, got %v", i, want[i], refs[i])
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	pairs := []struct{ mod, method string }{
		{ModKt, "prt"},
		{ModKt, "prt1"},
		{ModKt, "prt2"},
		{ModHTTP, "request"},
		{ModTime, "sleep"},
	}
	for _, p := range pairs {
		if !r.Has(p.mod, p.method) {
			t.Errorf("default registry should contain %s.%s", p.mod, p.method)
		}
	}
}
