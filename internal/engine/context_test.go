package engine

import (
	"errors"
	"testing"
	"time"
)

func TestContext_SetAndGet(t *testing.T) {
	c := NewContext()

	result := map[string]any{"status": 0, "msg": "ok"}
	if err := c.Set("step1", result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("step1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["msg"] != "ok" {
		t.Errorf("expected msg=ok, got %v", got["msg"])
	}

	v, err := c.GetKey("step1", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("expected status=0, got %v", v)
	}
}

func TestContext_GetReturnsCopy(t *testing.T) {
	c := NewContext()
	if err := c.Set("step1", map[string]any{"msg": "original"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("step1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Изменение полученной map не должно трогать сохранённый результат
	got["msg"] = "tampered"

	v, _ := c.GetKey("step1", "msg")
	if v != "original" {
		t.Errorf("stored result should be isolated from Get callers, got %v", v)
	}
}

func TestContext_WriteOnce(t *testing.T) {
	c := NewContext()

	if err := c.Set("step1", map[string]any{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.Set("step1", map[string]any{"a": 2})
	if !errors.Is(err, ErrSlotWritten) {
		t.Fatalf("expected ErrSlotWritten, got %v", err)
	}

	// Исходный результат не перезаписан
	got, _ := c.Get("step1")
	if got["a"] != 1 {
		t.Errorf("original result should be preserved, got %v", got["a"])
	}
}

func TestContext_ReservedPrefix(t *testing.T) {
	c := NewContext()

	err := c.Set("_secret", map[string]any{"a": 1})
	if !errors.Is(err, ErrReservedSlot) {
		t.Fatalf("expected ErrReservedSlot, got %v", err)
	}
}

func TestContext_UnknownStep(t *testing.T) {
	c := NewContext()

	_, err := c.Get("missing")
	if !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}

	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatal("expected ReferenceError")
	}
	if refErr.Step != "missing" {
		t.Errorf("expected step 'missing', got %q", refErr.Step)
	}
}

func TestContext_UnknownStepKey(t *testing.T) {
	c := NewContext()
	c.Set("step1", map[string]any{"a": 1})

	_, err := c.GetKey("step1", "b")
	if !errors.Is(err, ErrUnknownStepKey) {
		t.Fatalf("expected ErrUnknownStepKey, got %v", err)
	}

	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatal("expected ReferenceError")
	}
	if refErr.Key != "b" {
		t.Errorf("expected key 'b', got %q", refErr.Key)
	}
}

func TestContext_EmptyKeyMessage(t *testing.T) {
	c := NewContext()
	c.Set("step1", map[string]any{"a": 1})

	// Пустой ключ — тоже ошибка ключа, а не отсутствующего шага
	_, err := c.GetKey("step1", "")
	if !errors.Is(err, ErrUnknownStepKey) {
		t.Fatalf("expected ErrUnknownStepKey, got %v", err)
	}
	want := "key '' not found in context['step1']"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestContext_Order(t *testing.T) {
	c := NewContext()
	c.Set("b", map[string]any{})
	c.Set("a", map[string]any{})
	c.Set("c", map[string]any{})

	names := c.Names()
	want := []string{"b", "a", "c"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected names[%d]=%s, got %s", i, want[i], names[i])
		}
	}
}

func TestContext_Runtime(t *testing.T) {
	c := NewContext()

	if c.Runtime() != nil {
		t.Error("Runtime should be nil before InitRuntime")
	}

	c.InitRuntime(map[string]any{"run_id": "abc"})

	rt := c.Runtime()
	if rt == nil {
		t.Fatal("Runtime should not be nil after InitRuntime")
	}
	if rt["run_id"] != "abc" {
		t.Errorf("expected run_id=abc, got %v", rt["run_id"])
	}
	if _, ok := rt["started_at"].(time.Time); !ok {
		t.Error("started_at should be set by default")
	}

	// Служебный слот не считается результатом задачи
	if c.Len() != 0 {
		t.Errorf("runtime slot should not count as task result, Len=%d", c.Len())
	}

	// Но доступен через разрешение ссылок
	if _, err := c.GetKey("_runtime", "run_id"); err != nil {
		t.Errorf("runtime slot should be readable: %v", err)
	}
}

func TestContext_Snapshot(t *testing.T) {
	c := NewContext()
	c.InitRuntime(nil)
	c.Set("step1", map[string]any{"a": 1})

	snap := c.Snapshot()

	// Служебный слот не попадает в снимок
	if _, ok := snap["_runtime"]; ok {
		t.Error("snapshot should not contain runtime slot")
	}

	// Изменение снимка не влияет на контекст
	snap["step1"]["a"] = 99
	got, _ := c.GetKey("step1", "a")
	if got != 1 {
		t.Errorf("context should be isolated from snapshot mutation, got %v", got)
	}
}
