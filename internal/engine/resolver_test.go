package engine

import (
	"errors"
	"reflect"
	"testing"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	c := NewContext()
	if err := c.Set("fetch", map[string]any{
		"status": 0,
		"msg":    "ret from hello",
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return c
}

func TestResolveValue(t *testing.T) {
	c := testContext(t)

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{
			name:  "literal string",
			value: "hello",
			want:  "hello",
		},
		{
			name:  "literal with inner at",
			value: "user@example.com",
			want:  "user@example.com",
		},
		{
			name:  "escaped at",
			value: "@@fetch",
			want:  "@fetch",
		},
		{
			name:  "escaped keeps rest verbatim",
			value: "@@fetch.msg",
			want:  "@fetch.msg",
		},
		{
			name:  "full result reference",
			value: "@fetch",
			want:  map[string]any{"status": 0, "msg": "ret from hello"},
		},
		{
			name:  "key reference",
			value: "@fetch.msg",
			want:  "ret from hello",
		},
		{
			name:  "non-string int",
			value: 42,
			want:  42,
		},
		{
			name:  "non-string bool",
			value: true,
			want:  true,
		},
		{
			name:  "nil value",
			value: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveValue(tt.value, c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolveValue_Errors(t *testing.T) {
	c := testContext(t)

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{
			name:    "unknown step",
			value:   "@missing",
			wantErr: ErrUnknownStep,
		},
		{
			name:    "unknown key",
			value:   "@fetch.nope",
			wantErr: ErrUnknownStepKey,
		},
		{
			name:    "bare at",
			value:   "@",
			wantErr: ErrUnknownStep,
		},
		{
			name:    "trailing dot is an empty key",
			value:   "@fetch.",
			wantErr: ErrUnknownStepKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveValue(tt.value, c)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolveParams_Shallow(t *testing.T) {
	c := testContext(t)

	params := map[string]any{
		"direct": "@fetch.msg",
		"nested": map[string]any{"inner": "@fetch.msg"},
		"list":   []any{"@fetch.msg"},
	}

	resolved, err := ResolveParams(params, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolved["direct"] != "ret from hello" {
		t.Errorf("top-level reference should resolve, got %v", resolved["direct"])
	}

	// Вложенные значения остаются литералами
	nested := resolved["nested"].(map[string]any)
	if nested["inner"] != "@fetch.msg" {
		t.Errorf("nested reference should stay literal, got %v", nested["inner"])
	}
	list := resolved["list"].([]any)
	if list[0] != "@fetch.msg" {
		t.Errorf("reference in slice should stay literal, got %v", list[0])
	}
}

func TestResolveParams_DoesNotMutateInput(t *testing.T) {
	c := testContext(t)

	params := map[string]any{"msg": "@fetch.msg"}
	if _, err := ResolveParams(params, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if params["msg"] != "@fetch.msg" {
		t.Errorf("input params should not be mutated, got %v", params["msg"])
	}
}

func TestResolveParams_FailsOnFirstBadReference(t *testing.T) {
	c := testContext(t)

	params := map[string]any{"bad": "@missing"}
	_, err := ResolveParams(params, c)
	if !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}
