package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/task"
)

// fakeRunStore — хранилище runs в памяти для тестов.
type fakeRunStore struct {
	created []*domain.Run
	updated []*domain.Run
	err     error
}

func (s *fakeRunStore) Create(_ context.Context, run *domain.Run) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, run)
	return nil
}

func (s *fakeRunStore) Update(_ context.Context, run *domain.Run) error {
	if s.err != nil {
		return s.err
	}
	s.updated = append(s.updated, run)
	return nil
}

func newTestEngine(t *testing.T, flowJSON string, opts ...func(*Config)) *Engine {
	t.Helper()

	cfg := Config{
		Storage: newFakeStorage(&domain.Flow{
			FlowName: "demo",
			FlowJSON: flowJSON,
			Enabled:  true,
		}),
		Registry: task.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}

func TestEngine_ChainedFlow(t *testing.T) {
	// Первая задача производит результат, вторая ссылается на него.
	doc := `{"tasks": [
		{"name": "hello", "mod": "common.Kt", "method": "prt1", "params": {"msg": "hi"}},
		{"name": "world", "mod": "common.Kt", "method": "prt2", "params": {"msg": "@hello.msg"}}
	]}`

	eng := newTestEngine(t, doc)
	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Run.Status != domain.RunStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.Run.Status)
	}

	hello, err := res.Context.Get("hello")
	if err != nil {
		t.Fatalf("hello result missing: %v", err)
	}
	if hello["msg"] != "ret from hi" {
		t.Errorf("expected 'ret from hi', got %v", hello["msg"])
	}

	// Вторая задача получила разрешённое значение
	world, err := res.Context.Get("world")
	if err != nil {
		t.Fatalf("world result missing: %v", err)
	}
	if world["msg"] != "ret from ret from hi" {
		t.Errorf("expected chained value, got %v", world["msg"])
	}

	// Финальный контекст попал в run
	if res.Run.Context["world"] == nil {
		t.Error("run context should contain completed task results")
	}
}

func TestEngine_FullResultReference(t *testing.T) {
	doc := `{"tasks": [
		{"name": "a", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}},
		{"name": "b", "mod": "common.Kt", "method": "prt", "params": {"msg": "@a"}}
	]}`

	eng := newTestEngine(t, doc)
	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _ := res.Context.Get("b")
	full, ok := b["msg"].(map[string]any)
	if !ok {
		t.Fatalf("expected full result map, got %T", b["msg"])
	}
	if full["msg"] != "ret from x" {
		t.Errorf("expected 'ret from x', got %v", full["msg"])
	}
}

func TestEngine_FullResultReferenceIsolated(t *testing.T) {
	// Задача, изменяющая map, полученную через ссылку "@a".
	registry := task.DefaultRegistry()
	registry.Register("test.Mod", "tamper", task.Func(
		func(_ context.Context, req *task.Request) (map[string]any, error) {
			full, ok := req.Params["ref"].(map[string]any)
			if !ok {
				return nil, errors.New("expected full result map")
			}
			full["msg"] = "tampered"
			return map[string]any{"done": true}, nil
		}))

	doc := `{"tasks": [
		{"name": "a", "mod": "common.Kt", "method": "prt", "params": {"msg": "original"}},
		{"name": "b", "mod": "test.Mod", "method": "tamper", "params": {"ref": "@a"}},
		{"name": "c", "mod": "common.Kt", "method": "prt", "params": {"msg": "@a.msg"}}
	]}`

	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Registry = registry })
	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Сохранённый результат "a" не изменился
	a, _ := res.Context.Get("a")
	if a["msg"] != "original" {
		t.Errorf("stored result must not be mutable through a reference, got %v", a["msg"])
	}

	// И последующая задача видит исходное значение
	got, _ := res.Context.GetKey("c", "msg")
	if got != "original" {
		t.Errorf("later task should see the original value, got %v", got)
	}
}

func TestEngine_ForwardReferenceFails(t *testing.T) {
	// Ссылка вперёд: задача "a" ссылается на ещё не выполненную "b".
	doc := `{"tasks": [
		{"name": "a", "mod": "common.Kt", "method": "prt1", "params": {"msg": "@b.msg"}},
		{"name": "b", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}}
	]}`

	eng := newTestEngine(t, doc)
	res, err := eng.Execute(context.Background(), "demo")
	if !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}

	if res.Run.Status != domain.RunStatusFailed {
		t.Fatalf("expected FAILED, got %s", res.Run.Status)
	}
	if res.Run.FailedTask != "a" {
		t.Errorf("expected failed task 'a', got %q", res.Run.FailedTask)
	}

	// Fail-fast: вторая задача не выполнялась
	if res.Context.Has("b") {
		t.Error("task after failure should not run")
	}
}

func TestEngine_FailurePreservesEarlierResults(t *testing.T) {
	doc := `{"tasks": [
		{"name": "ok", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}},
		{"name": "bad", "mod": "common.Kt", "method": "prt1", "params": {"msg": "@missing.key"}}
	]}`

	eng := newTestEngine(t, doc)
	res, err := eng.Execute(context.Background(), "demo")
	if err == nil {
		t.Fatal("expected error")
	}

	// Результаты задач до точки падения сохранены
	if !res.Context.Has("ok") {
		t.Error("earlier task result should be preserved")
	}
	if res.Run.Context["ok"] == nil {
		t.Error("run context should contain earlier task results")
	}
}

func TestEngine_UnknownTaskFailsBeforeFirstCall(t *testing.T) {
	// Вторая задача неизвестна реестру: первая не должна даже начаться.
	doc := `{"tasks": [
		{"name": "a", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}},
		{"name": "b", "mod": "common.Nope", "method": "nope", "params": {}}
	]}`

	runs := &fakeRunStore{}
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Runs = runs })

	res, err := eng.Execute(context.Background(), "demo")
	if !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
	if res != nil {
		t.Error("no result expected for configuration failure")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatal("expected ConfigError")
	}
	if cfgErr.Task != "b" {
		t.Errorf("expected failing task 'b', got %q", cfgErr.Task)
	}

	// Run не создавался: ошибка конфигурации происходит до запуска
	if len(runs.created) != 0 {
		t.Errorf("no run should be recorded, got %d", len(runs.created))
	}
}

func TestEngine_FlowNotFound(t *testing.T) {
	eng := newTestEngine(t, validDoc)

	_, err := eng.Execute(context.Background(), "missing")
	if !errors.Is(err, ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}
}

func TestEngine_TaskErrorWrapped(t *testing.T) {
	implErr := errors.New("boom")
	registry := task.NewRegistry()
	registry.Register("test.Mod", "fail", task.Func(
		func(context.Context, *task.Request) (map[string]any, error) {
			return nil, implErr
		}))

	doc := `{"tasks": [{"name": "t1", "mod": "test.Mod", "method": "fail", "params": {}}]}`
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Registry = registry })

	res, err := eng.Execute(context.Background(), "demo")
	if !errors.Is(err, implErr) {
		t.Fatalf("implementation error should be unwrappable, got %v", err)
	}

	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatal("expected TaskError")
	}
	if taskErr.Task != "t1" || taskErr.Mod != "test.Mod" {
		t.Errorf("unexpected task error fields: %+v", taskErr)
	}

	if res.Run.Status != domain.RunStatusFailed {
		t.Errorf("expected FAILED, got %s", res.Run.Status)
	}
	if res.Run.Error == "" {
		t.Error("run should carry the error text")
	}
}

func TestEngine_NilResultViolatesContract(t *testing.T) {
	registry := task.NewRegistry()
	registry.Register("test.Mod", "nil", task.Func(
		func(context.Context, *task.Request) (map[string]any, error) {
			return nil, nil
		}))

	doc := `{"tasks": [{"name": "t1", "mod": "test.Mod", "method": "nil", "params": {}}]}`
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Registry = registry })

	_, err := eng.Execute(context.Background(), "demo")
	if !errors.Is(err, ErrNilResult) {
		t.Fatalf("expected ErrNilResult, got %v", err)
	}

	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatal("expected ContractError")
	}
}

func TestEngine_RuntimeMetadataAvailable(t *testing.T) {
	// Задача может ссылаться на служебные метаданные запуска.
	registry := task.DefaultRegistry()

	doc := `{"tasks": [{"name": "t1", "mod": "common.Kt", "method": "prt", "params": {"msg": "@_runtime.flow"}}]}`
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Registry = registry })

	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := res.Context.GetKey("t1", "msg")
	if got != "demo" {
		t.Errorf("expected flow name from runtime slot, got %v", got)
	}
}

func TestEngine_RunHistoryRecorded(t *testing.T) {
	runs := &fakeRunStore{}
	doc := `{"tasks": [{"name": "t1", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}}]}`
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Runs = runs })

	if _, err := eng.Execute(context.Background(), "demo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(runs.created) != 1 {
		t.Fatalf("expected 1 created run, got %d", len(runs.created))
	}
	// RUNNING + COMPLETED
	if len(runs.updated) < 2 {
		t.Fatalf("expected at least 2 updates, got %d", len(runs.updated))
	}
	last := runs.updated[len(runs.updated)-1]
	if last.Status != domain.RunStatusCompleted {
		t.Errorf("final update should be COMPLETED, got %s", last.Status)
	}
}

func TestEngine_RunHistoryErrorsSwallowed(t *testing.T) {
	// Недоступность истории не блокирует выполнение.
	runs := &fakeRunStore{err: errors.New("db down")}
	doc := `{"tasks": [{"name": "t1", "mod": "common.Kt", "method": "prt1", "params": {"msg": "x"}}]}`
	eng := newTestEngine(t, doc, func(cfg *Config) { cfg.Runs = runs })

	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("persistence errors must not fail the run: %v", err)
	}
	if res.Run.Status != domain.RunStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", res.Run.Status)
	}
}

func TestEngine_EscapedLiteralPassedThrough(t *testing.T) {
	doc := `{"tasks": [{"name": "t1", "mod": "common.Kt", "method": "prt", "params": {"msg": "@@not.a.ref"}}]}`

	eng := newTestEngine(t, doc)
	res, err := eng.Execute(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := res.Context.GetKey("t1", "msg")
	if got != "@not.a.ref" {
		t.Errorf("expected unescaped literal, got %v", got)
	}
}
