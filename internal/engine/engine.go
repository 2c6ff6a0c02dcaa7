package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/task"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// RunStore — история запусков. Необязательная зависимость: запись
// истории идёт best-effort и никогда не останавливает выполнение.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
}

// Events — приёмник событий жизненного цикла run.
// Необязательная зависимость с теми же best-effort гарантиями.
type Events interface {
	PublishRunStarted(ctx context.Context, run *domain.Run) error
	PublishRunFinished(ctx context.Context, run *domain.Run) error
}

// Engine — движок последовательного выполнения flow.
//
// Для каждой задачи в объявленном порядке: разрешает параметры по
// текущему контексту, находит реализацию в реестре, вызывает её со
// снимком контекста, сохраняет результат под именем задачи. Первая
// ошибка немедленно останавливает запуск — без повторов и пропусков.
type Engine struct {
	loader   *Loader
	registry *task.Registry
	logger   *slog.Logger
	runs     RunStore
	events   Events
}

// Config — конфигурация Engine.
type Config struct {
	Storage  Storage
	Registry *task.Registry
	Logger   *slog.Logger
	Runs     RunStore // опционально: история запусков
	Events   Events   // опционально: события в MQ
}

// New создаёт новый Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		loader:   NewLoader(cfg.Storage),
		registry: cfg.Registry,
		logger:   logger,
		runs:     cfg.Runs,
		events:   cfg.Events,
	}
}

// Result — исход одного запуска flow.
type Result struct {
	// Run — запись запуска с терминальным статусом.
	Run *domain.Run

	// Context — контекст запуска. Для упавшего run содержит
	// результаты задач, завершившихся до ошибки.
	Context *Context
}

// Execute выполняет flow по имени.
//
// Один вызов — один непрерывный последовательный проход по списку
// задач. Выполнение строго однопоточно; параллельные вызовы Execute
// для одного имени дают независимые контексты.
//
// При ошибке загрузки или валидации возвращается (nil, err) — запуск
// не создаётся. При ошибке выполнения возвращаются Result с частичным
// контекстом и ошибка, вызвавшая останов.
func (e *Engine) Execute(ctx context.Context, flowName string) (*Result, error) {
	logger := telemetry.WithFlow(e.logger, flowName)

	doc, err := e.loader.Load(ctx, flowName)
	if err != nil {
		logger.Error("flow load failed", "error", err)
		return nil, err
	}

	// Fail fast: все пары (mod, method) проверяются до запуска
	// первой задачи, чтобы ошибка конфигурации не оставляла
	// частично выполненный flow.
	if err := e.validateRegistry(flowName, doc); err != nil {
		logger.Error("flow validation failed", "error", err)
		return nil, err
	}

	run := domain.NewRun(flowName)
	logger = telemetry.WithRunID(logger, run.ID.String())
	e.recordCreate(ctx, logger, run)

	c := NewContext()
	c.InitRuntime(map[string]any{
		"run_id":     run.ID.String(),
		"flow":       flowName,
		"started_at": time.Now(),
	})

	run.MarkRunning()
	e.recordUpdate(ctx, logger, run)
	e.publishStarted(ctx, logger, run)

	logger.Info("run started", "tasks", len(doc.Tasks))

	// Логгер запуска доступен задачам через context.
	taskCtx := telemetry.WithLogger(ctx, logger)

	for i := range doc.Tasks {
		spec := &doc.Tasks[i]
		if err := e.executeTask(taskCtx, logger, spec, c); err != nil {
			return e.fail(ctx, logger, run, c, spec.Name, err)
		}
	}

	run.MarkCompleted()
	run.Context = c.Snapshot()
	e.recordUpdate(ctx, logger, run)
	e.publishFinished(ctx, logger, run)
	telemetry.ObserveRun(string(run.Status), run.Duration())

	logger.Info("run completed", "tasks", c.Len(), "duration", run.Duration())

	return &Result{Run: run, Context: c}, nil
}

// executeTask выполняет одну задачу: разрешение параметров, вызов
// реализации, проверка контракта результата, запись в контекст.
func (e *Engine) executeTask(ctx context.Context, logger *slog.Logger, spec *domain.TaskSpec, c *Context) error {
	taskLogger := telemetry.WithTask(logger, spec.Name)
	taskLogger.Debug("executing task", "mod", spec.Mod, "method", spec.Method)

	params, err := ResolveParams(spec.Params, c)
	if err != nil {
		return err
	}

	impl, err := e.registry.Resolve(spec.Mod, spec.Method)
	if err != nil {
		// Реестр уже проверен перед запуском; сюда попадает только
		// конкурентная дерегистрация.
		return NewConfigError("", spec.Name,
			fmt.Sprintf("no task implementation for %s.%s", spec.Mod, spec.Method), ErrUnknownTask)
	}

	start := time.Now()
	result, err := impl.Execute(ctx, task.NewRequest(spec.Name, params, c.Snapshot()))
	telemetry.ObserveTask(spec.Mod, err, time.Since(start))

	if err != nil {
		return &TaskError{Task: spec.Name, Mod: spec.Mod, Method: spec.Method, Err: err}
	}

	if result == nil {
		return &ContractError{Task: spec.Name, Message: "task returned nil result", Err: ErrNilResult}
	}

	if err := c.Set(spec.Name, result); err != nil {
		return err
	}

	taskLogger.Debug("task completed", "duration", time.Since(start))
	return nil
}

// validateRegistry проверяет, что каждая пара (mod, method) документа
// зарегистрирована.
func (e *Engine) validateRegistry(flowName string, doc *domain.FlowDoc) error {
	for i := range doc.Tasks {
		spec := &doc.Tasks[i]
		if !e.registry.Has(spec.Mod, spec.Method) {
			return NewConfigError(flowName, spec.Name,
				fmt.Sprintf("no task implementation for %s.%s", spec.Mod, spec.Method), ErrUnknownTask)
		}
	}
	return nil
}

// fail переводит run в FAILED и возвращает ошибку вызывающему.
// Дальнейшие задачи не выполняются.
func (e *Engine) fail(ctx context.Context, logger *slog.Logger, run *domain.Run, c *Context, taskName string, err error) (*Result, error) {
	logger.Error("run failed",
		"task", taskName,
		"error", err,
	)

	run.MarkFailed(taskName, err)
	run.Context = c.Snapshot()
	e.recordUpdate(ctx, logger, run)
	e.publishFinished(ctx, logger, run)
	telemetry.ObserveRun(string(run.Status), run.Duration())

	return &Result{Run: run, Context: c}, err
}

// recordCreate сохраняет новый run в истории (best-effort).
func (e *Engine) recordCreate(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Create(ctx, run); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

// recordUpdate обновляет run в истории (best-effort).
func (e *Engine) recordUpdate(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Update(ctx, run); err != nil {
		logger.Warn("failed to update run record", "error", err)
	}
}

// publishStarted публикует событие о старте run (best-effort).
func (e *Engine) publishStarted(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishRunStarted(ctx, run); err != nil {
		logger.Warn("failed to publish run started", "error", err)
	}
}

// publishFinished публикует событие о завершении run (best-effort).
func (e *Engine) publishFinished(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishRunFinished(ctx, run); err != nil {
		logger.Warn("failed to publish run finished", "error", err)
	}
}
