package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики движка.
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conveyor_runs_total",
		Help: "Total flow runs by terminal status",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conveyor_run_duration_seconds",
		Help:    "Flow run duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conveyor_tasks_total",
		Help: "Total executed tasks by mod and outcome",
	}, []string{"mod", "outcome"})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conveyor_task_duration_seconds",
		Help:    "Task execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveRun фиксирует завершение run.
func ObserveRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
}

// ObserveTask фиксирует выполнение одной задачи.
func ObserveTask(mod string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	tasksTotal.WithLabelValues(mod, outcome).Inc()
	taskDuration.Observe(duration.Seconds())
}
