// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go   — structured logging через slog
//   - dbhandler.go — дублирование логов в таблицу system_log
//   - metrics.go   — Prometheus метрики
//
// Все сервисы используют единый формат логирования
// и экспортируют метрики на /metrics endpoint. Отказ любого
// приёмника логов не влияет на выполнение flow.
package telemetry
