package engine

import (
	"errors"
	"testing"
)

func TestParseDoc_Valid(t *testing.T) {
	data := []byte(`{
		"tasks": [
			{"name": "hello", "mod": "common.Kt", "method": "prt1", "params": {"msg": "hi"}},
			{"name": "world", "mod": "common.Kt", "method": "prt2", "params": {"msg": "@hello.msg"}}
		]
	}`)

	doc, err := ParseDoc(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(doc.Tasks))
	}
	if doc.Tasks[0].Name != "hello" {
		t.Errorf("expected first task 'hello', got %q", doc.Tasks[0].Name)
	}
	if doc.Tasks[1].Params["msg"] != "@hello.msg" {
		t.Errorf("params should be preserved raw, got %v", doc.Tasks[1].Params["msg"])
	}
}

func TestParseDoc_TaskWithoutParams(t *testing.T) {
	data := []byte(`{"tasks": [{"name": "t1", "mod": "m", "method": "f"}]}`)

	doc, err := ParseDoc(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Tasks[0].Params != nil && len(doc.Tasks[0].Params) != 0 {
		t.Errorf("expected empty params, got %v", doc.Tasks[0].Params)
	}
}

func TestParseDoc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "malformed json",
			data:    `{"tasks": [`,
			wantErr: ErrMalformedDoc,
		},
		{
			name:    "empty document",
			data:    `{}`,
			wantErr: ErrEmptyTasks,
		},
		{
			name:    "empty tasks list",
			data:    `{"tasks": []}`,
			wantErr: ErrEmptyTasks,
		},
		{
			name:    "empty task name",
			data:    `{"tasks": [{"name": "", "mod": "m", "method": "f"}]}`,
			wantErr: ErrEmptyTaskName,
		},
		{
			name:    "reserved task name",
			data:    `{"tasks": [{"name": "_runtime", "mod": "m", "method": "f"}]}`,
			wantErr: ErrReservedTaskName,
		},
		{
			name:    "empty mod",
			data:    `{"tasks": [{"name": "t1", "mod": "", "method": "f"}]}`,
			wantErr: ErrEmptyTaskMod,
		},
		{
			name:    "empty method",
			data:    `{"tasks": [{"name": "t1", "mod": "m", "method": ""}]}`,
			wantErr: ErrEmptyTaskMethod,
		},
		{
			name: "duplicate task names",
			data: `{"tasks": [
				{"name": "t1", "mod": "m", "method": "f"},
				{"name": "t1", "mod": "m", "method": "g"}
			]}`,
			wantErr: ErrDuplicateTaskName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDoc([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatal("expected ConfigError")
			}
		})
	}
}
