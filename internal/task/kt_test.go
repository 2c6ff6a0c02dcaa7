package task

import (
	"context"
	"testing"
)

func TestKtPrt(t *testing.T) {
	result, err := ktPrt(context.Background(), NewRequest("t1", map[string]any{"msg": "hello"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["msg"] != "hello" {
		t.Errorf("expected msg echoed back, got %v", result["msg"])
	}
}

func TestKtPrtStatus(t *testing.T) {
	tests := []struct {
		name string
		msg  any
		want string
	}{
		{name: "string", msg: "hello", want: "ret from hello"},
		{name: "number", msg: float64(42), want: "ret from 42"},
		{name: "missing", msg: nil, want: "ret from <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{}
			if tt.msg != nil {
				params["msg"] = tt.msg
			}

			result, err := ktPrtStatus(context.Background(), NewRequest("t1", params, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result["status"] != 0 {
				t.Errorf("expected status=0, got %v", result["status"])
			}
			if result["msg"] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, result["msg"])
			}
		})
	}
}
